package products

import (
	"context"
	"database/sql"
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

func (c *Conf) InsertProduct(ctx context.Context, np NewProduct) (Product, error) {
	product := Product{
		ID:          uuid.NewString(),
		Name:        np.Name,
		Description: np.Description,
		Price:       np.Price,
		Category:    np.Category,
		Image:       np.Image,
		Stock:       np.Stock,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	query := `
		INSERT INTO products (id, name, description, price, category, image, stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := c.db.ExecContext(ctx, query, product.ID, product.Name, product.Description,
		product.Price, product.Category, product.Image, product.Stock, product.CreatedAt, product.UpdatedAt)
	if err != nil {
		return Product{}, fmt.Errorf("inserting product: %w", err)
	}

	return product, nil
}

// ListProducts returns all products, newest first.
func (c *Conf) ListProducts(ctx context.Context) ([]Product, error) {
	query := `
		SELECT id, name, description, price, category, image, stock, created_at, updated_at
		FROM products
		ORDER BY created_at DESC
	`
	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category,
			&p.Image, &p.Stock, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating products: %w", err)
	}

	return products, nil
}

func (c *Conf) GetProductByID(ctx context.Context, productID string) (Product, error) {
	query := `
		SELECT id, name, description, price, category, image, stock, created_at, updated_at
		FROM products
		WHERE id = $1
	`
	var p Product
	err := c.db.QueryRowContext(ctx, query, productID).Scan(&p.ID, &p.Name, &p.Description,
		&p.Price, &p.Category, &p.Image, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, sql.ErrNoRows
		}
		return Product{}, fmt.Errorf("querying product: %w", err)
	}
	return p, nil
}

// UpdateProductInDB replaces every mutable field. The creation timestamp is
// never touched.
func (c *Conf) UpdateProductInDB(ctx context.Context, productID string, p Product) (Product, error) {
	p.ID = productID
	p.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE products
		SET name = $1, description = $2, price = $3, category = $4, image = $5, stock = $6, updated_at = $7
		WHERE id = $8
	`
	result, err := c.db.ExecContext(ctx, query, p.Name, p.Description, p.Price, p.Category,
		p.Image, p.Stock, p.UpdatedAt, productID)
	if err != nil {
		return Product{}, fmt.Errorf("updating product: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Product{}, fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return Product{}, sql.ErrNoRows
	}

	return p, nil
}

// DeleteProduct removes a product. Deleting an id that does not exist is
// not an error.
func (c *Conf) DeleteProduct(ctx context.Context, productID string) error {
	query := `
		DELETE FROM products
		WHERE id = $1
	`
	_, err := c.db.ExecContext(ctx, query, productID)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}
	return nil
}
