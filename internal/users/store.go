package users

import (
	"context"
	"errors"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
)

var (
	ErrNotFound          = errors.New("user not found")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrDuplicateUsername = errors.New("username already taken")
)

// Store persists user records. Implementations must make the uniqueness
// check and the insert atomic with respect to concurrent creates.
type Store interface {
	FindByID(ctx context.Context, id uint64) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, dto CreateUserDTO) (*models.User, error)
	Update(ctx context.Context, id uint64, input UpdateProfileInput) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
}
