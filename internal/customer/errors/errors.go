// Package errors provides the typed error set for customer operations.
package errors

import "errors"

var ErrCustomerNotFound = errors.New("customer not found")
var ErrDuplicateEmail = errors.New("email already exists")
