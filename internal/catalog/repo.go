package catalog

import (
	"context"

	"github.com/angelmondragon/storefront-backend/internal/repo"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"gorm.io/gorm"
)

type productRepository struct {
	repo.Table[models.Product]
}

func (r productRepository) ListByCategory(ctx context.Context, category string) ([]models.Product, error) {
	return r.Where(ctx, "category = ?", normalizeCategory(category))
}

func (r productRepository) ListFlagged(ctx context.Context, flag Flag) ([]models.Product, error) {
	column, err := flag.Column()
	if err != nil {
		return nil, err
	}
	return r.Where(ctx, column+" = ?", true)
}

func (r productRepository) FindByIDs(ctx context.Context, ids []uint64) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	return r.Where(ctx, "id IN ?", ids)
}

// NewRepository returns a catalog backed by the gorm connection.
func NewRepository(conn *gorm.DB) *Store {
	return &Store{
		Products:    productRepository{repo.NewTable[models.Product](conn)},
		Categories:  repo.NewTable[models.Category](conn),
		Collections: repo.NewTable[models.Collection](conn),
		Slides:      repo.NewTable[models.CarouselSlide](conn),
		Promos:      repo.NewTable[models.Promo](conn),
	}
}
