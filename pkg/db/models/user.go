package models

import (
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/enums"
)

// User is a registered shopper or administrator. Password holds the salted
// scrypt hash and never leaves the process.
type User struct {
	ID         uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Username   string     `gorm:"column:username;type:text;not null;uniqueIndex:idx_users_username" json:"username"`
	Email      string     `gorm:"column:email;type:text;not null;uniqueIndex:idx_users_email" json:"email"`
	Password   string     `gorm:"column:password;type:text;not null" json:"-"`
	FirstName  *string    `gorm:"column:first_name" json:"firstName"`
	LastName   *string    `gorm:"column:last_name" json:"lastName"`
	Role       enums.Role `gorm:"column:role;type:text;not null;default:'user'" json:"role"`
	Phone      *string    `gorm:"column:phone" json:"phone"`
	Address    *string    `gorm:"column:address" json:"address"`
	City       *string    `gorm:"column:city" json:"city"`
	PostalCode *string    `gorm:"column:postal_code" json:"postalCode"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role.IsAdmin()
}
