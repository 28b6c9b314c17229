package testimonials

import "time"

type Testimonial struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Message string    `json:"message"`
	Image   string    `json:"image"`
	Rating  int       `json:"rating"`
	Date    time.Time `json:"date"`
}

// NewTestimonial is the create payload. A missing rating defaults to 5.
type NewTestimonial struct {
	Name    string `json:"name" validate:"required"`
	Message string `json:"message" validate:"required"`
	Image   string `json:"image"`
	Rating  int    `json:"rating" validate:"omitempty,min=1,max=5"`
}
