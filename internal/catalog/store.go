package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront-backend/internal/repo"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
)

// ErrNotFound is returned by every catalog table for an unknown id.
var ErrNotFound = repo.ErrNotFound

// Table is the CRUD surface shared by all catalog entities.
type Table[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id uint64) (*T, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, row *T) error
	Update(ctx context.Context, id uint64, mutate func(*T)) (*T, error)
	Delete(ctx context.Context, id uint64) (bool, error)
}

// Flag selects one of the independent merchandising flags on a product.
type Flag string

const (
	FlagNew        Flag = "new"
	FlagBestSeller Flag = "best_seller"
	FlagSale       Flag = "sale"
)

// Column returns the products column backing the flag.
func (f Flag) Column() (string, error) {
	switch f {
	case FlagNew:
		return "is_new", nil
	case FlagBestSeller:
		return "is_best_seller", nil
	case FlagSale:
		return "is_sale", nil
	}
	return "", fmt.Errorf("unknown product flag %q", string(f))
}

// Matches reports whether p carries the flag.
func (f Flag) Matches(p models.Product) bool {
	switch f {
	case FlagNew:
		return p.IsNew
	case FlagBestSeller:
		return p.IsBestSeller
	case FlagSale:
		return p.IsSale
	}
	return false
}

// ProductStore adds the storefront queries to the product table.
type ProductStore interface {
	Table[models.Product]
	ListByCategory(ctx context.Context, category string) ([]models.Product, error)
	ListFlagged(ctx context.Context, flag Flag) ([]models.Product, error)
	FindByIDs(ctx context.Context, ids []uint64) ([]models.Product, error)
}

// Store groups the catalog tables behind one backing.
type Store struct {
	Products    ProductStore
	Categories  Table[models.Category]
	Collections Table[models.Collection]
	Slides      Table[models.CarouselSlide]
	Promos      Table[models.Promo]
}

func normalizeCategory(name string) string {
	return strings.TrimSpace(name)
}
