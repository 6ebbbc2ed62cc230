package catalog

import (
	"context"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/memstore"
)

type memoryTable[T any] struct {
	rows *memstore.Table[T]
}

func newMemoryTable[T any](setID func(*T, uint64)) *memoryTable[T] {
	return &memoryTable[T]{rows: memstore.NewTable(setID)}
}

func (m *memoryTable[T]) List(context.Context) ([]T, error) {
	return m.rows.List(), nil
}

func (m *memoryTable[T]) Get(_ context.Context, id uint64) (*T, error) {
	row, ok := m.rows.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &row, nil
}

func (m *memoryTable[T]) Count(context.Context) (int64, error) {
	return int64(m.rows.Len()), nil
}

func (m *memoryTable[T]) Create(_ context.Context, row *T) error {
	*row = m.rows.Insert(*row)
	return nil
}

func (m *memoryTable[T]) Update(_ context.Context, id uint64, mutate func(*T)) (*T, error) {
	row, ok := m.rows.Update(id, mutate)
	if !ok {
		return nil, ErrNotFound
	}
	return &row, nil
}

func (m *memoryTable[T]) Delete(_ context.Context, id uint64) (bool, error) {
	return m.rows.Delete(id), nil
}

type memoryProducts struct {
	*memoryTable[models.Product]
}

func (m memoryProducts) ListByCategory(_ context.Context, category string) ([]models.Product, error) {
	category = normalizeCategory(category)
	return m.rows.Filter(func(p models.Product) bool { return p.Category == category }), nil
}

func (m memoryProducts) ListFlagged(_ context.Context, flag Flag) ([]models.Product, error) {
	if _, err := flag.Column(); err != nil {
		return nil, err
	}
	return m.rows.Filter(flag.Matches), nil
}

func (m memoryProducts) FindByIDs(_ context.Context, ids []uint64) ([]models.Product, error) {
	wanted := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	return m.rows.Filter(func(p models.Product) bool {
		_, ok := wanted[p.ID]
		return ok
	}), nil
}

// NewMemoryStore returns a catalog kept in process.
func NewMemoryStore() *Store {
	return &Store{
		Products:    memoryProducts{newMemoryTable(func(p *models.Product, id uint64) { p.ID = id })},
		Categories:  newMemoryTable(func(c *models.Category, id uint64) { c.ID = id }),
		Collections: newMemoryTable(func(c *models.Collection, id uint64) { c.ID = id }),
		Slides:      newMemoryTable(func(s *models.CarouselSlide, id uint64) { s.ID = id }),
		Promos:      newMemoryTable(func(p *models.Promo, id uint64) { p.ID = id }),
	}
}
