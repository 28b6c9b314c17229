package orders

import (
	"errors"
	"fmt"
	"time"
)

// Order statuses. Pending is the only initial state; completed and canceled
// are terminal.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusCanceled  = "canceled"
)

// Payment methods the checkout accepts. Selection is informational only;
// no charge is processed.
const (
	PaymentMpesa = "mpesa"
	PaymentCard  = "card"
	PaymentBank  = "bank"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// OrderItem is a snapshot of one cart line taken at checkout. It is stored
// inside the order row and never updated afterwards, so later product edits
// cannot change what a past order says was bought.
type OrderItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image"`
}

type Order struct {
	ID              string      `json:"id"`
	UserID          string      `json:"user_id"`
	TotalAmount     float64     `json:"total_amount"`
	Status          string      `json:"status"`
	CustomerName    string      `json:"customer_name"`
	CustomerEmail   string      `json:"customer_email"`
	CustomerPhone   string      `json:"customer_phone"`
	CustomerAddress string      `json:"customer_address"`
	PaymentMethod   string      `json:"payment_method"`
	Items           []OrderItem `json:"order_items"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// AdminOrder is an order joined with the buyer's display name for the
// admin listing.
type AdminOrder struct {
	Order
	DisplayName string `json:"display_name"`
}

// Customer is the checkout payload.
type Customer struct {
	Name          string `json:"customer_name" validate:"required"`
	Email         string `json:"customer_email" validate:"required,email"`
	Phone         string `json:"customer_phone"`
	Address       string `json:"customer_address"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=mpesa card bank"`
}

// ValidateTransition enforces the one-way status machine: pending may move
// to completed or canceled, and nothing moves out of a terminal state.
func ValidateTransition(current string, next string) error {
	if next != StatusCompleted && next != StatusCanceled && next != StatusPending {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, next)
	}
	if current == next {
		return nil
	}
	if current != StatusPending {
		return fmt.Errorf("%w: order is already %s", ErrInvalidTransition, current)
	}
	if next == StatusPending {
		return fmt.Errorf("%w: cannot move back to pending", ErrInvalidTransition)
	}
	return nil
}
