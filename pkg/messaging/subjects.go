package messaging

// Subjects for order lifecycle events.
const (
	OrdersPlacedSubject    = "orders.placed"
	OrdersCancelledSubject = "orders.cancelled"
	OrdersCompletedSubject = "orders.completed"
)
