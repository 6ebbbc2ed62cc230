package newsletter

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/angelmondragon/storefront-backend/internal/users"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

// SubscribeInput is the public signup payload.
type SubscribeInput struct {
	Email string `json:"email" validate:"required,email,max=254"`
}

type Service struct {
	store Store
}

func NewService(store Store) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("newsletter store required")
	}
	return &Service{store: store}, nil
}

// Subscribe returns the existing subscription when the email is already on
// the list.
func (s *Service) Subscribe(ctx context.Context, in SubscribeInput) (*models.NewsletterSubscriber, error) {
	email := users.NormalizeEmail(in.Email)
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"email": "must be a valid email"})
	}
	sub, err := s.store.Subscribe(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "subscribe")
	}
	return sub, nil
}

func (s *Service) List(ctx context.Context) ([]models.NewsletterSubscriber, error) {
	rows, err := s.store.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list subscribers")
	}
	return rows, nil
}

func (s *Service) Delete(ctx context.Context, id uint64) error {
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete subscriber")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "subscriber not found")
	}
	return nil
}
