package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/security"
)

const invalidCredentialsMessage = "invalid email or password"

// RegisterInput is a validated registration request. Role is never read
// from client input.
type RegisterInput struct {
	Username   string
	Email      string
	Password   string
	FirstName  *string
	LastName   *string
	Phone      *string
	Address    *string
	City       *string
	PostalCode *string
	Role       enums.Role
}

// Service wraps a Store with hashing and error translation.
type Service struct {
	store       Store
	passwordCfg config.PasswordConfig
	dummyHash   string
}

// NewService builds a users service. A throwaway hash is computed once so
// that logins for unknown emails still pay for a verification.
func NewService(store Store, passwordCfg config.PasswordConfig) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("user store is required")
	}
	dummy, err := security.HashPassword("storefront-dummy-password", passwordCfg)
	if err != nil {
		return nil, fmt.Errorf("computing dummy hash: %w", err)
	}
	return &Service{store: store, passwordCfg: passwordCfg, dummyHash: dummy}, nil
}

// Register hashes the password and stores the new user.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if NormalizeUsername(in.Username) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	if NormalizeEmail(in.Email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if err := security.CheckStrength(in.Password, s.passwordCfg.MinLength); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error()).
			WithDetails(map[string]any{"password": err.Error()})
	}
	if in.Role != "" && !in.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}

	hash, err := security.HashPassword(in.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.store.Create(ctx, CreateUserDTO{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         in.Role,
		Phone:        in.Phone,
		Address:      in.Address,
		City:         in.City,
		PostalCode:   in.PostalCode,
	})
	switch {
	case errors.Is(err, ErrDuplicateEmail):
		return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "email already registered").
			WithDetails(map[string]any{"field": "email"})
	case errors.Is(err, ErrDuplicateUsername):
		return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "username already taken").
			WithDetails(map[string]any{"field": "username"})
	case err != nil:
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}
	return user, nil
}

// Authenticate checks the credentials. Unknown email and wrong password
// produce the same error.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			security.VerifyPassword(password, s.dummyHash)
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	if !security.VerifyPassword(password, user.Password) {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}

func (s *Service) GetByID(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return user, nil
}

func (s *Service) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return user, nil
}

// List returns every user. Passwords are dropped by the JSON encoding.
func (s *Service) List(ctx context.Context) ([]models.User, error) {
	out, err := s.store.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}
	return out, nil
}

func (s *Service) UpdateProfile(ctx context.Context, id uint64, in UpdateProfileInput) (*models.User, error) {
	user, err := s.store.Update(ctx, id, in)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update user")
	}
	return user, nil
}
