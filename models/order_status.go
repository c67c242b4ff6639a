package models

// OrderStatus is a closed enumeration; transitions are defined here and
// nowhere else.
type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusShipped    OrderStatus = "SHIPPED"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

var validNext = map[OrderStatus]map[OrderStatus]bool{
	StatusPending:    {StatusProcessing: true, StatusShipped: true, StatusDelivered: true, StatusCancelled: true},
	StatusProcessing: {StatusShipped: true, StatusDelivered: true, StatusCancelled: true},
	StatusShipped:    {StatusDelivered: true, StatusCancelled: true},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to OrderStatus) bool {
	return validNext[from][to]
}

// ParseUpdateStatus validates an admin-supplied target status. PENDING is not
// a valid target: orders are only ever born PENDING.
func ParseUpdateStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return OrderStatus(s), true
	}
	return "", false
}

// HoldsReservation reports whether an order in this status still holds its
// stock reservation. Cancelling from such a status must restore stock;
// cancelling a shipped order must not, since the goods already left.
func (s OrderStatus) HoldsReservation() bool {
	return s == StatusPending || s == StatusProcessing
}
