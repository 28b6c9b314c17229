package blog

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

func (c *Conf) InsertPost(ctx context.Context, np NewPost) (Post, error) {
	post := Post{
		ID:        uuid.NewString(),
		Title:     np.Title,
		Content:   np.Content,
		Author:    np.Author,
		Tags:      np.Tags,
		Image:     np.Image,
		CreatedAt: time.Now().UTC(),
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}

	tagsJSON, err := json.Marshal(post.Tags)
	if err != nil {
		return Post{}, fmt.Errorf("marshaling tags: %w", err)
	}

	query := `
		INSERT INTO blog_posts (id, title, content, author, tags, image, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = c.db.ExecContext(ctx, query, post.ID, post.Title, post.Content, post.Author,
		tagsJSON, post.Image, post.CreatedAt)
	if err != nil {
		return Post{}, fmt.Errorf("inserting blog post: %w", err)
	}

	return post, nil
}

// ListPosts returns all posts, newest first.
func (c *Conf) ListPosts(ctx context.Context) ([]Post, error) {
	query := `
		SELECT id, title, content, author, tags, image, created_at
		FROM blog_posts
		ORDER BY created_at DESC
	`
	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying blog posts: %w", err)
	}
	defer rows.Close()

	posts := []Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating blog posts: %w", err)
	}

	return posts, nil
}

func (c *Conf) GetPostByID(ctx context.Context, postID string) (Post, error) {
	query := `
		SELECT id, title, content, author, tags, image, created_at
		FROM blog_posts
		WHERE id = $1
	`
	var post Post
	var tagsJSON []byte
	err := c.db.QueryRowContext(ctx, query, postID).Scan(&post.ID, &post.Title, &post.Content,
		&post.Author, &tagsJSON, &post.Image, &post.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Post{}, sql.ErrNoRows
		}
		return Post{}, fmt.Errorf("querying blog post: %w", err)
	}
	if err := json.Unmarshal(tagsJSON, &post.Tags); err != nil {
		return Post{}, fmt.Errorf("unmarshaling tags: %w", err)
	}
	return post, nil
}

// UpdatePostInDB replaces every mutable field, keeping the creation time.
func (c *Conf) UpdatePostInDB(ctx context.Context, postID string, p Post) (Post, error) {
	p.ID = postID
	if p.Tags == nil {
		p.Tags = []string{}
	}
	tagsJSON, err := json.Marshal(p.Tags)
	if err != nil {
		return Post{}, fmt.Errorf("marshaling tags: %w", err)
	}

	query := `
		UPDATE blog_posts
		SET title = $1, content = $2, author = $3, tags = $4, image = $5
		WHERE id = $6
	`
	result, err := c.db.ExecContext(ctx, query, p.Title, p.Content, p.Author, tagsJSON, p.Image, postID)
	if err != nil {
		return Post{}, fmt.Errorf("updating blog post: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Post{}, fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return Post{}, sql.ErrNoRows
	}

	return p, nil
}

// DeletePost removes a post; deleting an absent id is not an error.
func (c *Conf) DeletePost(ctx context.Context, postID string) error {
	query := `
		DELETE FROM blog_posts
		WHERE id = $1
	`
	_, err := c.db.ExecContext(ctx, query, postID)
	if err != nil {
		return fmt.Errorf("deleting blog post: %w", err)
	}
	return nil
}

func scanPost(rows *sql.Rows) (Post, error) {
	var post Post
	var tagsJSON []byte
	err := rows.Scan(&post.ID, &post.Title, &post.Content, &post.Author, &tagsJSON,
		&post.Image, &post.CreatedAt)
	if err != nil {
		return Post{}, fmt.Errorf("scanning blog post: %w", err)
	}
	if err := json.Unmarshal(tagsJSON, &post.Tags); err != nil {
		return Post{}, fmt.Errorf("unmarshaling tags: %w", err)
	}
	return post, nil
}
