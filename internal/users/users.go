package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"bluepink-backend/internal/auth"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
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

// InsertUser hashes the password and creates the account. A blank display
// name falls back to the local part of the email address.
func (c *Conf) InsertUser(ctx context.Context, nu NewUser) (User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(nu.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hashing password: %w", err)
	}

	displayName := nu.DisplayName
	if displayName == "" {
		displayName = strings.Split(nu.Email, "@")[0]
	}

	user := User{
		ID:          uuid.NewString(),
		Email:       nu.Email,
		DisplayName: displayName,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	query := `
		INSERT INTO users (id, email, password_hash, display_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = c.db.ExecContext(ctx, query, user.ID, user.Email, string(hash), user.DisplayName, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "users_email_key") {
			return User{}, ErrEmailTaken
		}
		return User{}, fmt.Errorf("inserting user: %w", err)
	}

	return user, nil
}

// Authenticate checks the credentials and returns the matching user. Both an
// unknown email and a wrong password map to ErrInvalidCredentials so the
// response cannot be used to probe for accounts.
func (c *Conf) Authenticate(ctx context.Context, email string, password string) (User, error) {
	query := `
		SELECT id, email, password_hash, display_name, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	var user User
	err := c.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.DisplayName, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, fmt.Errorf("querying user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}

	return user, nil
}

// GetUserByID fetches one account row.
func (c *Conf) GetUserByID(ctx context.Context, userID string) (User, error) {
	query := `
		SELECT id, email, password_hash, display_name, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	var user User
	err := c.db.QueryRowContext(ctx, query, userID).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.DisplayName, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return User{}, fmt.Errorf("querying user by id: %w", err)
	}
	return user, nil
}

// FetchRole looks up the role row for a user. Zero rows surface as
// sql.ErrNoRows; callers default to the normal role on any failure.
func (c *Conf) FetchRole(ctx context.Context, userID string) (string, error) {
	query := `
		SELECT role
		FROM user_roles
		WHERE user_id = $1
	`
	var role string
	err := c.db.QueryRowContext(ctx, query, userID).Scan(&role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", sql.ErrNoRows
		}
		return "", fmt.Errorf("querying user role: %w", err)
	}
	if role != auth.RoleAdmin && role != auth.RoleNormal {
		return "", fmt.Errorf("unknown role %q for user %s", role, userID)
	}
	return role, nil
}

// GetProfile returns the profile row for a user, sql.ErrNoRows when absent.
func (c *Conf) GetProfile(ctx context.Context, userID string) (Profile, error) {
	query := `
		SELECT user_id, display_name, phone, address, gender, updated_at
		FROM profiles
		WHERE user_id = $1
	`
	var p Profile
	err := c.db.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID, &p.DisplayName, &p.Phone, &p.Address, &p.Gender, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, sql.ErrNoRows
		}
		return Profile{}, fmt.Errorf("querying profile: %w", err)
	}
	return p, nil
}

// UpsertProfile creates or replaces the profile keyed on user_id.
func (c *Conf) UpsertProfile(ctx context.Context, p Profile) (Profile, error) {
	p.UpdatedAt = time.Now().UTC()
	query := `
		INSERT INTO profiles (user_id, display_name, phone, address, gender, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE
		SET display_name = EXCLUDED.display_name,
		    phone = EXCLUDED.phone,
		    address = EXCLUDED.address,
		    gender = EXCLUDED.gender,
		    updated_at = EXCLUDED.updated_at
	`
	_, err := c.db.ExecContext(ctx, query, p.UserID, p.DisplayName, p.Phone, p.Address, p.Gender, p.UpdatedAt)
	if err != nil {
		return Profile{}, fmt.Errorf("upserting profile: %w", err)
	}
	return p, nil
}
