package blog

import "time"

// Post tags keep their order, stored as a jsonb array.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	Tags      []string  `json:"tags"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"created_at"`
}

type NewPost struct {
	Title   string   `json:"title" validate:"required"`
	Content string   `json:"content" validate:"required"`
	Author  string   `json:"author" validate:"required"`
	Tags    []string `json:"tags"`
	Image   string   `json:"image"`
}
