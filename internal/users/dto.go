package users

import (
	"strings"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
)

// CreateUserDTO holds the data required by a store to persist a new user.
type CreateUserDTO struct {
	Username     string
	Email        string
	PasswordHash string
	FirstName    *string
	LastName     *string
	Role         enums.Role
	Phone        *string
	Address      *string
	City         *string
	PostalCode   *string
}

// UpdateProfileInput is a partial profile update; nil fields are left as is.
type UpdateProfileInput struct {
	FirstName  *string `json:"firstName,omitempty" validate:"omitempty,max=100"`
	LastName   *string `json:"lastName,omitempty" validate:"omitempty,max=100"`
	Phone      *string `json:"phone,omitempty" validate:"omitempty,max=40"`
	Address    *string `json:"address,omitempty" validate:"omitempty,max=200"`
	City       *string `json:"city,omitempty" validate:"omitempty,max=100"`
	PostalCode *string `json:"postalCode,omitempty" validate:"omitempty,max=20"`
}

// NormalizeEmail is the canonical form used for lookups and uniqueness.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeUsername is the canonical form used for lookups and uniqueness.
func NormalizeUsername(username string) string {
	return strings.TrimSpace(username)
}

func (c CreateUserDTO) ToModel() *models.User {
	role := c.Role
	if role == "" {
		role = enums.RoleUser
	}
	return &models.User{
		Username:   NormalizeUsername(c.Username),
		Email:      NormalizeEmail(c.Email),
		Password:   c.PasswordHash,
		FirstName:  optional(c.FirstName),
		LastName:   optional(c.LastName),
		Role:       role,
		Phone:      optional(c.Phone),
		Address:    optional(c.Address),
		City:       optional(c.City),
		PostalCode: optional(c.PostalCode),
	}
}

// Apply merges the non-nil fields into user.
func (in UpdateProfileInput) Apply(user *models.User) {
	if in.FirstName != nil {
		user.FirstName = optional(in.FirstName)
	}
	if in.LastName != nil {
		user.LastName = optional(in.LastName)
	}
	if in.Phone != nil {
		user.Phone = optional(in.Phone)
	}
	if in.Address != nil {
		user.Address = optional(in.Address)
	}
	if in.City != nil {
		user.City = optional(in.City)
	}
	if in.PostalCode != nil {
		user.PostalCode = optional(in.PostalCode)
	}
}

// optional trims the value and maps blank input to absent.
func optional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
