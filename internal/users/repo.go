package users

import (
	"context"
	"errors"

	"github.com/angelmondragon/storefront-backend/internal/repo"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes user-related persistence operations backed by gorm.
// Uniqueness is enforced by idx_users_email and idx_users_username.
type Repository struct {
	repo.Base
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(conn)}
}

// Create checks both unique keys and inserts the user in one transaction.
// A concurrent insert that wins the race surfaces as a unique violation,
// which is mapped to the same duplicate errors.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	err := r.Tx(ctx, func(tx *gorm.DB) error {
		if taken, err := exists(tx, "email = ?", user.Email); err != nil {
			return err
		} else if taken {
			return ErrDuplicateEmail
		}
		if taken, err := exists(tx, "username = ?", user.Username); err != nil {
			return err
		} else if taken {
			return ErrDuplicateUsername
		}
		return tx.Create(user).Error
	})
	if err != nil {
		return nil, mapUniqueViolation(err)
	}
	return user, nil
}

func exists(tx *gorm.DB, query string, arg any) (bool, error) {
	var count int64
	if err := tx.Model(&models.User{}).Where(query, arg).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func mapUniqueViolation(err error) error {
	switch {
	case errors.Is(err, ErrDuplicateEmail), errors.Is(err, ErrDuplicateUsername):
		return err
	case db.IsUniqueViolation(err, "email"):
		return ErrDuplicateEmail
	case db.IsUniqueViolation(err, "username"):
		return ErrDuplicateUsername
	}
	return err
}

// FindByID loads a user by id.
func (r *Repository) FindByID(ctx context.Context, id uint64) (*models.User, error) {
	return r.first(ctx, "id = ?", id)
}

// FindByUsername retrieves the user matching the provided username.
func (r *Repository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.first(ctx, "username = ?", NormalizeUsername(username))
}

// FindByEmail retrieves the user matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "email = ?", NormalizeEmail(email))
}

func (r *Repository) first(ctx context.Context, query string, arg any) (*models.User, error) {
	var user models.User
	if err := repo.First(r.DB(ctx), &user, query, arg); err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// Update applies a partial profile update.
func (r *Repository) Update(ctx context.Context, id uint64, input UpdateProfileInput) (*models.User, error) {
	var updated *models.User
	err := r.Tx(ctx, func(tx *gorm.DB) error {
		var user models.User
		if err := repo.First(tx, &user, "id = ?", id); err != nil {
			return notFound(err)
		}
		input.Apply(&user)
		if err := tx.Model(&user).Select("first_name", "last_name", "phone", "address", "city", "postal_code").Updates(&user).Error; err != nil {
			return err
		}
		updated = &user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// List returns all users ordered by id.
func (r *Repository) List(ctx context.Context) ([]models.User, error) {
	out := make([]models.User, 0)
	if err := r.DB(ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func notFound(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
