package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

// Creator builds a new row from a create payload.
type Creator[T any] interface {
	Model() T
}

// Patcher merges a partial update into an existing row.
type Patcher[T any] interface {
	Apply(dst *T)
}

type validatable interface {
	Validate() error
}

// Resource exposes CRUD for one catalog entity, translating store errors
// into API error codes.
type Resource[T any, C Creator[T], P Patcher[T]] struct {
	table Table[T]
	name  string
}

func newResource[T any, C Creator[T], P Patcher[T]](table Table[T], name string) *Resource[T, C, P] {
	return &Resource[T, C, P]{table: table, name: name}
}

func (r *Resource[T, C, P]) List(ctx context.Context) ([]T, error) {
	rows, err := r.table.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("list %ss", r.name))
	}
	return rows, nil
}

func (r *Resource[T, C, P]) Get(ctx context.Context, id uint64) (*T, error) {
	row, err := r.table.Get(ctx, id)
	if err != nil {
		return nil, r.mapError(err, "load")
	}
	return row, nil
}

func (r *Resource[T, C, P]) Create(ctx context.Context, in C) (*T, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	row := in.Model()
	if err := r.table.Create(ctx, &row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("create %s", r.name))
	}
	return &row, nil
}

// Update applies only the fields present in patch.
func (r *Resource[T, C, P]) Update(ctx context.Context, id uint64, patch P) (*T, error) {
	if err := validate(patch); err != nil {
		return nil, err
	}
	row, err := r.table.Update(ctx, id, patch.Apply)
	if err != nil {
		return nil, r.mapError(err, "update")
	}
	return row, nil
}

func (r *Resource[T, C, P]) Delete(ctx context.Context, id uint64) error {
	deleted, err := r.table.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("delete %s", r.name))
	}
	if !deleted {
		return r.notFound()
	}
	return nil
}

func (r *Resource[T, C, P]) mapError(err error, action string) error {
	if errors.Is(err, ErrNotFound) {
		return r.notFound()
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("%s %s", action, r.name))
}

func (r *Resource[T, C, P]) notFound() error {
	return pkgerrors.New(pkgerrors.CodeNotFound, r.name+" not found")
}

func validate(v any) error {
	if check, ok := v.(validatable); ok {
		return check.Validate()
	}
	return nil
}

// Service is the catalog read and admin-write surface.
type Service struct {
	Products    *Resource[models.Product, ProductInput, ProductPatch]
	Categories  *Resource[models.Category, CategoryInput, CategoryPatch]
	Collections *Resource[models.Collection, CollectionInput, CollectionPatch]
	Slides      *Resource[models.CarouselSlide, SlideInput, SlidePatch]
	Promos      *Resource[models.Promo, PromoInput, PromoPatch]

	products ProductStore
}

// NewService wires a catalog service over store.
func NewService(store *Store) (*Service, error) {
	if store == nil || store.Products == nil || store.Categories == nil || store.Collections == nil || store.Slides == nil || store.Promos == nil {
		return nil, fmt.Errorf("catalog store is incomplete")
	}
	return &Service{
		Products:    newResource[models.Product, ProductInput, ProductPatch](store.Products, "product"),
		Categories:  newResource[models.Category, CategoryInput, CategoryPatch](store.Categories, "category"),
		Collections: newResource[models.Collection, CollectionInput, CollectionPatch](store.Collections, "collection"),
		Slides:      newResource[models.CarouselSlide, SlideInput, SlidePatch](store.Slides, "carousel slide"),
		Promos:      newResource[models.Promo, PromoInput, PromoPatch](store.Promos, "promo"),
		products:    store.Products,
	}, nil
}

// ProductsByCategory matches the category name exactly.
func (s *Service) ProductsByCategory(ctx context.Context, category string) ([]models.Product, error) {
	rows, err := s.products.ListByCategory(ctx, category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products by category")
	}
	return rows, nil
}

func (s *Service) FlaggedProducts(ctx context.Context, flag Flag) ([]models.Product, error) {
	if _, err := flag.Column(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown product flag")
	}
	rows, err := s.products.ListFlagged(ctx, flag)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list flagged products")
	}
	return rows, nil
}

// ProductsByID returns the products that still exist, keyed by id.
func (s *Service) ProductsByID(ctx context.Context, ids []uint64) (map[uint64]models.Product, error) {
	rows, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load products")
	}
	out := make(map[uint64]models.Product, len(rows))
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

// IsEmpty reports whether no product has been created yet.
func (s *Service) IsEmpty(ctx context.Context) (bool, error) {
	count, err := s.products.Count(ctx)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}
