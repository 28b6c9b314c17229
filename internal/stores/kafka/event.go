package kafka

import "time"

// Topics produced by this service.
const (
	TopicAccountCreated     = `users.account-created`
	TopicOrderPlaced        = `orders.order-placed`
	TopicOrderStatusChanged = `orders.status-changed`
)

type AccountCreatedEvent struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

type OrderPlacedEvent struct {
	OrderID     string    `json:"order_id"`
	UserID      string    `json:"user_id"`
	TotalAmount float64   `json:"total_amount"`
	ItemCount   int       `json:"item_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type OrderStatusChangedEvent struct {
	OrderID   string    `json:"order_id"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
	CreatedAt time.Time `json:"created_at"`
}
