package testimonials

import (
	"context"
	"database/sql"
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

func (c *Conf) InsertTestimonial(ctx context.Context, nt NewTestimonial) (Testimonial, error) {
	rating := nt.Rating
	if rating == 0 {
		rating = 5
	}

	t := Testimonial{
		ID:      uuid.NewString(),
		Name:    nt.Name,
		Message: nt.Message,
		Image:   nt.Image,
		Rating:  rating,
		Date:    time.Now().UTC(),
	}

	query := `
		INSERT INTO testimonials (id, name, message, image, rating, date)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := c.db.ExecContext(ctx, query, t.ID, t.Name, t.Message, t.Image, t.Rating, t.Date)
	if err != nil {
		return Testimonial{}, fmt.Errorf("inserting testimonial: %w", err)
	}

	return t, nil
}

// ListTestimonials returns all testimonials, newest date first.
func (c *Conf) ListTestimonials(ctx context.Context) ([]Testimonial, error) {
	query := `
		SELECT id, name, message, image, rating, date
		FROM testimonials
		ORDER BY date DESC
	`
	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying testimonials: %w", err)
	}
	defer rows.Close()

	testimonials := []Testimonial{}
	for rows.Next() {
		var t Testimonial
		if err := rows.Scan(&t.ID, &t.Name, &t.Message, &t.Image, &t.Rating, &t.Date); err != nil {
			return nil, fmt.Errorf("scanning testimonial: %w", err)
		}
		testimonials = append(testimonials, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating testimonials: %w", err)
	}

	return testimonials, nil
}

// UpdateTestimonialInDB replaces every mutable field, keeping the date.
func (c *Conf) UpdateTestimonialInDB(ctx context.Context, testimonialID string, t Testimonial) (Testimonial, error) {
	t.ID = testimonialID

	query := `
		UPDATE testimonials
		SET name = $1, message = $2, image = $3, rating = $4
		WHERE id = $5
	`
	result, err := c.db.ExecContext(ctx, query, t.Name, t.Message, t.Image, t.Rating, testimonialID)
	if err != nil {
		return Testimonial{}, fmt.Errorf("updating testimonial: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Testimonial{}, fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return Testimonial{}, sql.ErrNoRows
	}

	return t, nil
}

// DeleteTestimonial removes a row; deleting an absent id is not an error.
func (c *Conf) DeleteTestimonial(ctx context.Context, testimonialID string) error {
	query := `
		DELETE FROM testimonials
		WHERE id = $1
	`
	_, err := c.db.ExecContext(ctx, query, testimonialID)
	if err != nil {
		return fmt.Errorf("deleting testimonial: %w", err)
	}
	return nil
}
