package orders

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (Conf, error) {
	if db == nil {
		return Conf{}, fmt.Errorf("db is nil")
	}
	return Conf{db: db}, nil
}

// CreateFromCart snapshots the user's cart into a new pending order and
// empties the cart, all in one transaction. The snapshot copies name, price
// and image from the product rows as they are right now.
func (c *Conf) CreateFromCart(ctx context.Context, userID string, customer Customer) (Order, error) {
	var order Order

	err := c.withTx(ctx, func(tx *sql.Tx) error {
		queryItems := `
			SELECT ci.product_id, p.name, p.price, ci.quantity, p.image
			FROM cart_items ci
			JOIN products p ON p.id = ci.product_id
			WHERE ci.user_id = $1
			ORDER BY ci.created_at
			FOR UPDATE OF ci
		`
		rows, err := tx.QueryContext(ctx, queryItems, userID)
		if err != nil {
			return fmt.Errorf("querying cart items: %w", err)
		}
		defer rows.Close()

		var items []OrderItem
		for rows.Next() {
			var item OrderItem
			if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.Quantity, &item.Image); err != nil {
				return fmt.Errorf("scanning cart item: %w", err)
			}
			items = append(items, item)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterating cart items: %w", err)
		}

		if len(items) == 0 {
			return ErrEmptyCart
		}

		var total float64
		for _, item := range items {
			total += item.Price * float64(item.Quantity)
		}

		itemsJSON, err := json.Marshal(items)
		if err != nil {
			return fmt.Errorf("marshaling order items: %w", err)
		}

		order = Order{
			ID:              uuid.NewString(),
			UserID:          userID,
			TotalAmount:     total,
			Status:          StatusPending,
			CustomerName:    customer.Name,
			CustomerEmail:   customer.Email,
			CustomerPhone:   customer.Phone,
			CustomerAddress: customer.Address,
			PaymentMethod:   customer.PaymentMethod,
			Items:           items,
			CreatedAt:       time.Now().UTC(),
			UpdatedAt:       time.Now().UTC(),
		}

		queryInsert := `
			INSERT INTO orders (id, user_id, total_amount, status, customer_name, customer_email,
				customer_phone, customer_address, payment_method, order_items, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`
		_, err = tx.ExecContext(ctx, queryInsert, order.ID, order.UserID, order.TotalAmount,
			order.Status, order.CustomerName, order.CustomerEmail, order.CustomerPhone,
			order.CustomerAddress, order.PaymentMethod, itemsJSON, order.CreatedAt, order.UpdatedAt)
		if err != nil {
			return fmt.Errorf("inserting order: %w", err)
		}

		queryClear := `
			DELETE FROM cart_items
			WHERE user_id = $1
		`
		if _, err := tx.ExecContext(ctx, queryClear, userID); err != nil {
			return fmt.Errorf("clearing cart: %w", err)
		}

		return nil
	})
	if err != nil {
		return Order{}, err
	}

	return order, nil
}

// ListByUser returns the user's orders, newest first.
func (c *Conf) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	query := `
		SELECT id, user_id, total_amount, status, customer_name, customer_email,
		       customer_phone, customer_address, payment_method, order_items, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := c.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	orders := []Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating orders: %w", err)
	}

	return orders, nil
}

// ListAll returns every order joined with the buyer's profile display name,
// newest first, for the admin dashboard.
func (c *Conf) ListAll(ctx context.Context) ([]AdminOrder, error) {
	query := `
		SELECT o.id, o.user_id, o.total_amount, o.status, o.customer_name, o.customer_email,
		       o.customer_phone, o.customer_address, o.payment_method, o.order_items,
		       o.created_at, o.updated_at, COALESCE(pr.display_name, '')
		FROM orders o
		LEFT JOIN profiles pr ON pr.user_id = o.user_id
		ORDER BY o.created_at DESC
	`
	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying all orders: %w", err)
	}
	defer rows.Close()

	orders := []AdminOrder{}
	for rows.Next() {
		var ao AdminOrder
		var itemsJSON []byte
		err := rows.Scan(&ao.ID, &ao.UserID, &ao.TotalAmount, &ao.Status, &ao.CustomerName,
			&ao.CustomerEmail, &ao.CustomerPhone, &ao.CustomerAddress, &ao.PaymentMethod,
			&itemsJSON, &ao.CreatedAt, &ao.UpdatedAt, &ao.DisplayName)
		if err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		if err := json.Unmarshal(itemsJSON, &ao.Items); err != nil {
			return nil, fmt.Errorf("unmarshaling order items: %w", err)
		}
		orders = append(orders, ao)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating all orders: %w", err)
	}

	return orders, nil
}

// UpdateStatus transitions one order. It locks the row, validates the
// transition against the one-way machine and reports whether anything
// changed; setting the current status again is a no-op.
func (c *Conf) UpdateStatus(ctx context.Context, orderID string, next string) (changed bool, err error) {
	err = c.withTx(ctx, func(tx *sql.Tx) error {
		queryStatus := `
			SELECT status
			FROM orders
			WHERE id = $1
			FOR UPDATE
		`
		var current string
		if err := tx.QueryRowContext(ctx, queryStatus, orderID).Scan(&current); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("querying order status: %w", err)
		}

		if err := ValidateTransition(current, next); err != nil {
			return err
		}
		if current == next {
			return nil
		}

		queryUpdate := `
			UPDATE orders
			SET status = $1, updated_at = NOW()
			WHERE id = $2
		`
		if _, err := tx.ExecContext(ctx, queryUpdate, next, orderID); err != nil {
			return fmt.Errorf("updating order status: %w", err)
		}
		changed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return changed, nil
}

func scanOrder(rows *sql.Rows) (Order, error) {
	var order Order
	var itemsJSON []byte
	err := rows.Scan(&order.ID, &order.UserID, &order.TotalAmount, &order.Status,
		&order.CustomerName, &order.CustomerEmail, &order.CustomerPhone, &order.CustomerAddress,
		&order.PaymentMethod, &itemsJSON, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return Order{}, fmt.Errorf("scanning order: %w", err)
	}
	if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
		return Order{}, fmt.Errorf("unmarshaling order items: %w", err)
	}
	return order, nil
}

func (c *Conf) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		er := tx.Rollback()
		if er != nil && !errors.Is(er, sql.ErrTxDone) {
			return fmt.Errorf("failed to rollback withTx: %w", err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit withTx: %w", err)
	}
	return nil
}
