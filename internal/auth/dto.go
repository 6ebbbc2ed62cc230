package auth

import (
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
)

// RegisterRequest is the public sign-up payload.
type RegisterRequest struct {
	Username   string  `json:"username" validate:"required,min=3,max=50"`
	Email      string  `json:"email" validate:"required,email,max=254"`
	Password   string  `json:"password" validate:"required,max=128"`
	FirstName  *string `json:"firstName,omitempty" validate:"omitempty,max=100"`
	LastName   *string `json:"lastName,omitempty" validate:"omitempty,max=100"`
	Phone      *string `json:"phone,omitempty" validate:"omitempty,max=40"`
	Address    *string `json:"address,omitempty" validate:"omitempty,max=200"`
	City       *string `json:"city,omitempty" validate:"omitempty,max=100"`
	PostalCode *string `json:"postalCode,omitempty" validate:"omitempty,max=20"`
}

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Result is a freshly opened session. Token is the signed cookie value.
type Result struct {
	User      *models.User
	SessionID string
	Token     string
	ExpiresAt time.Time
}
