// Package cart persists per-user cart rows. The table is the single source
// of truth; every mutation is a targeted write against one row and clients
// re-read the cart afterwards.
package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var ErrProductNotFound = errors.New("product not found")

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (Conf, error) {
	if db == nil {
		return Conf{}, fmt.Errorf("db is nil")
	}
	return Conf{db: db}, nil
}

// AddItem inserts the product into the user's cart or increments the
// existing row by the given quantity.
func (c *Conf) AddItem(ctx context.Context, userID string, productID string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity must be positive, got %d", quantity)
	}

	return c.withTx(ctx, func(tx *sql.Tx) error {
		var exists bool
		queryProduct := `
			SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)
		`
		if err := tx.QueryRowContext(ctx, queryProduct, productID).Scan(&exists); err != nil {
			return fmt.Errorf("checking product: %w", err)
		}
		if !exists {
			return ErrProductNotFound
		}

		queryUpsert := `
			INSERT INTO cart_items (user_id, product_id, quantity, created_at, updated_at)
			VALUES ($1, $2, $3, NOW(), NOW())
			ON CONFLICT (user_id, product_id) DO UPDATE
			SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()
		`
		if _, err := tx.ExecContext(ctx, queryUpsert, userID, productID, quantity); err != nil {
			return fmt.Errorf("upserting cart item: %w", err)
		}
		return nil
	})
}

// SetQuantity sets the quantity of one cart row. A quantity of zero or less
// removes the row instead; there is never a zero-quantity row.
func (c *Conf) SetQuantity(ctx context.Context, userID string, productID string, quantity int) error {
	if quantity <= 0 {
		return c.RemoveItem(ctx, userID, productID)
	}

	query := `
		UPDATE cart_items
		SET quantity = $1, updated_at = NOW()
		WHERE user_id = $2 AND product_id = $3
	`
	_, err := c.db.ExecContext(ctx, query, quantity, userID, productID)
	if err != nil {
		return fmt.Errorf("updating cart item quantity: %w", err)
	}
	return nil
}

// RemoveItem deletes one cart row. Removing an absent row is not an error.
func (c *Conf) RemoveItem(ctx context.Context, userID string, productID string) error {
	query := `
		DELETE FROM cart_items
		WHERE user_id = $1 AND product_id = $2
	`
	_, err := c.db.ExecContext(ctx, query, userID, productID)
	if err != nil {
		return fmt.Errorf("deleting cart item: %w", err)
	}
	return nil
}

// Clear removes every cart row for the user.
func (c *Conf) Clear(ctx context.Context, userID string) error {
	query := `
		DELETE FROM cart_items
		WHERE user_id = $1
	`
	_, err := c.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("clearing cart: %w", err)
	}
	return nil
}

// GetCart returns the user's cart joined with the live product fields, plus
// the derived totals. An empty cart yields an empty list and zero totals.
func (c *Conf) GetCart(ctx context.Context, userID string) (CartResponse, error) {
	query := `
		SELECT ci.product_id, p.name, p.price, ci.quantity, p.image
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY ci.created_at
	`
	rows, err := c.db.QueryContext(ctx, query, userID)
	if err != nil {
		return CartResponse{}, fmt.Errorf("querying cart items: %w", err)
	}
	defer rows.Close()

	items := []CartItem{}
	for rows.Next() {
		var item CartItem
		if err := rows.Scan(&item.ProductID, &item.Name, &item.Price, &item.Quantity, &item.Image); err != nil {
			return CartResponse{}, fmt.Errorf("scanning cart item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return CartResponse{}, fmt.Errorf("iterating cart items: %w", err)
	}

	return CartResponse{
		Items:       items,
		TotalAmount: TotalAmount(items),
		TotalItems:  TotalItems(items),
	}, nil
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
