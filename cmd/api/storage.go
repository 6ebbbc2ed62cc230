package main

import (
	"context"
	"fmt"

	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/newsletter"
	"github.com/angelmondragon/storefront-backend/internal/users"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/migrate"
)

// stores is the storage backing selected by STOREFRONT_STORAGE_DRIVER.
type stores struct {
	users      users.Store
	catalog    *catalog.Store
	cart       cart.Store
	newsletter newsletter.Store
	db         *db.Client
}

func openStores(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*stores, error) {
	if !cfg.Storage.UsesSQL() {
		logg.Info(ctx, "using in-memory storage")
		return &stores{
			users:      users.NewMemoryStore(),
			catalog:    catalog.NewMemoryStore(),
			cart:       cart.NewMemoryStore(),
			newsletter: newsletter.NewMemoryStore(),
		}, nil
	}

	client, err := db.New(ctx, cfg.Storage.Driver, cfg.DB, logg)
	if err != nil {
		return nil, fmt.Errorf("bootstrap database: %w", err)
	}
	if err := migrate.Prepare(ctx, cfg, logg, client); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("prepare schema: %w", err)
	}

	conn := client.DB()
	return &stores{
		users:      users.NewRepository(conn),
		catalog:    catalog.NewRepository(conn),
		cart:       cart.NewRepository(conn),
		newsletter: newsletter.NewRepository(conn),
		db:         client,
	}, nil
}

func (s *stores) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
