package models

// OrderStatus tracks where an order is in its lifecycle
type OrderStatus string

const (
	OrderStatusPendingCustomer OrderStatus = "pending_customer"
	OrderStatusSubmitted       OrderStatus = "submitted"
	OrderStatusCanceled        OrderStatus = "canceled"
	OrderStatusAccepted        OrderStatus = "accepted"
)

// Order represents a customer order captured from the chat flow.
// CreatedAt/AcceptedAt are RFC 3339 strings: the persisted layout is a plain
// JSON array and order listing ties break on lexical timestamp comparison.
type Order struct {
	ID           int         `json:"id"`
	ChatID       string      `json:"chat_id"`
	CustomerName string      `json:"customer_name,omitempty"`
	Detail       string      `json:"detail"`
	CreatedAt    string      `json:"created_at"`
	Status       OrderStatus `json:"status"`
	Accepted     bool        `json:"accepted"`
	AcceptedAt   string      `json:"accepted_at,omitempty"`
}

// Closed reports whether the order reached a terminal state for the chat
// flow. Canceled orders never transition again.
func (o *Order) Closed() bool {
	return o.Status == OrderStatusCanceled
}
