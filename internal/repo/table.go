package repo

import (
	"context"

	"gorm.io/gorm"
)

// Table implements the flat CRUD surface shared by simple catalog entities.
type Table[T any] struct {
	Base
}

// NewTable binds a Table for model T to db.
func NewTable[T any](db *gorm.DB) Table[T] {
	return Table[T]{Base: NewBase(db)}
}

// List returns every row ordered by id.
func (t Table[T]) List(ctx context.Context) ([]T, error) {
	rows := make([]T, 0)
	if err := t.DB(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Where returns rows matching the condition ordered by id.
func (t Table[T]) Where(ctx context.Context, query any, args ...any) ([]T, error) {
	rows := make([]T, 0)
	if err := t.DB(ctx).Where(query, args...).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Get loads the row with the given id.
func (t Table[T]) Get(ctx context.Context, id uint64) (*T, error) {
	var row T
	if err := First(t.DB(ctx), &row, "id = ?", id); err != nil {
		return nil, err
	}
	return &row, nil
}

// Count returns the number of rows.
func (t Table[T]) Count(ctx context.Context) (int64, error) {
	var count int64
	var model T
	if err := t.DB(ctx).Model(&model).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts row and fills its generated id.
func (t Table[T]) Create(ctx context.Context, row *T) error {
	return t.DB(ctx).Create(row).Error
}

// Update loads the row, applies mutate and writes it back inside one
// transaction. mutate must not change the primary key.
func (t Table[T]) Update(ctx context.Context, id uint64, mutate func(*T)) (*T, error) {
	var row T
	err := t.Tx(ctx, func(tx *gorm.DB) error {
		if err := First(tx, &row, "id = ?", id); err != nil {
			return err
		}
		mutate(&row)
		return tx.Save(&row).Error
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Delete removes the row and reports whether it existed.
func (t Table[T]) Delete(ctx context.Context, id uint64) (bool, error) {
	var model T
	res := t.DB(ctx).Where("id = ?", id).Delete(&model)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
