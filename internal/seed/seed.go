// Package seed loads the default storefront catalog and an optional admin
// account at boot.
package seed

import (
	"context"
	"fmt"

	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/users"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

type userService interface {
	Register(ctx context.Context, in users.RegisterInput) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// Catalog inserts the default catalog when no product exists yet, so a
// restart against persistent storage does not duplicate it.
func Catalog(ctx context.Context, svc *catalog.Service, logg *logger.Logger) error {
	empty, err := svc.IsEmpty(ctx)
	if err != nil {
		return fmt.Errorf("check catalog: %w", err)
	}
	if !empty {
		if logg != nil {
			logg.Info(ctx, "catalog already populated, skipping seed")
		}
		return nil
	}

	for _, in := range defaultCategories {
		if _, err := svc.Categories.Create(ctx, in); err != nil {
			return fmt.Errorf("seed category %s: %w", in.Name, err)
		}
	}
	for _, in := range defaultProducts {
		if _, err := svc.Products.Create(ctx, in); err != nil {
			return fmt.Errorf("seed product %s: %w", in.Name, err)
		}
	}
	for _, in := range defaultSlides {
		if _, err := svc.Slides.Create(ctx, in); err != nil {
			return fmt.Errorf("seed slide %s: %w", in.Title, err)
		}
	}
	for _, in := range defaultCollections {
		if _, err := svc.Collections.Create(ctx, in); err != nil {
			return fmt.Errorf("seed collection %s: %w", in.Name, err)
		}
	}
	for _, in := range defaultPromos {
		if _, err := svc.Promos.Create(ctx, in); err != nil {
			return fmt.Errorf("seed promo %s: %w", in.Title, err)
		}
	}
	if logg != nil {
		fields := map[string]any{
			"categories":  len(defaultCategories),
			"products":    len(defaultProducts),
			"slides":      len(defaultSlides),
			"collections": len(defaultCollections),
			"promos":      len(defaultPromos),
		}
		logg.Info(logg.WithFields(ctx, fields), "catalog seeded")
	}
	return nil
}

// Admin creates the configured admin account unless its email is taken.
func Admin(ctx context.Context, svc userService, cfg config.SeedConfig, logg *logger.Logger) error {
	if cfg.AdminEmail == "" {
		return nil
	}
	if _, err := svc.FindByEmail(ctx, cfg.AdminEmail); err == nil {
		return nil
	} else if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		return fmt.Errorf("lookup admin: %w", err)
	}
	user, err := svc.Register(ctx, users.RegisterInput{
		Username: cfg.AdminUsername,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
		Role:     enums.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if logg != nil {
		logg.Info(logg.WithField(ctx, "user_id", user.ID), "admin account seeded")
	}
	return nil
}
