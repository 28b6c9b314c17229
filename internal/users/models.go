package users

import "time"

// User is an account row. PasswordHash never leaves the package via JSON.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"display_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser is the signup payload.
type NewUser struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `json:"display_name"`
}

// Profile holds the optional per-user contact details, keyed 1:1 on user id.
type Profile struct {
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	Gender      string    `json:"gender"`
	UpdatedAt   time.Time `json:"updated_at"`
}
