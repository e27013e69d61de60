package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
)

// ParamValidator is a function type that validates a parameter.
type ParamValidator func(valueToTest int64) bool

func gte(limit int64) ParamValidator {
	return func(value int64) bool { return value >= limit }
}

func gt(limit int64) ParamValidator {
	return func(value int64) bool { return value > limit }
}

// ParseValidateGt parses a required query parameter that must be greater than value.
func ParseValidateGt(r *http.Request, w http.ResponseWriter, logger *slog.Logger, key string, value int64) (int32, bool) {
	return parseValidate(r, w, logger, key, gt(value))
}

// ParseValidateGte parses a required query parameter that must be greater than or equal to value.
func ParseValidateGte(r *http.Request, w http.ResponseWriter, logger *slog.Logger, key string, value int64) (int32, bool) {
	return parseValidate(r, w, logger, key, gte(value))
}

// ParseOptionalGte parses an optional query parameter, returning fallback when
// it is absent. Present values must be greater than or equal to minValue.
func ParseOptionalGte(r *http.Request, w http.ResponseWriter, logger *slog.Logger, key string, fallback, minValue int64) (int32, bool) {
	if r.URL.Query().Get(key) == "" {
		return int32(fallback), true
	}
	return parseValidate(r, w, logger, key, gte(minValue))
}

func parseValidate(r *http.Request, w http.ResponseWriter, logger *slog.Logger, key string, pValidator ParamValidator) (int32, bool) {
	value := r.URL.Query().Get(key)
	if value == "" {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("%s url parameter is required", key))
		return 0, false
	}
	intValue, err := strconv.ParseInt(value, 10, 32)
	if err != nil || !pValidator(intValue) {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("Invalid %s number: %s", key, value))
		return 0, false
	}
	return int32(intValue), true
}
