package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront-backend/internal/repo"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository stores cart lines through gorm. Merging relies on the unique
// index idx_cart_items_session_product and an ON CONFLICT upsert, which is
// atomic on both postgres and sqlite.
type Repository struct {
	repo.Base
}

func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(conn)}
}

func (r *Repository) List(ctx context.Context, sessionID string) ([]models.CartItem, error) {
	items := make([]models.CartItem, 0)
	if err := r.DB(ctx).Where("session_id = ?", sessionID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *Repository) Get(ctx context.Context, id uint64) (*models.CartItem, error) {
	var item models.CartItem
	if err := repo.First(r.DB(ctx), &item, "id = ?", id); err != nil {
		return nil, mapNotFound(err)
	}
	return &item, nil
}

func (r *Repository) Add(ctx context.Context, sessionID string, userID *uint64, productID uint64, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive, got %d", quantity)
	}
	now := time.Now().UTC()
	row := models.CartItem{
		SessionID: sessionID,
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	var item models.CartItem
	err := r.Tx(ctx, func(tx *gorm.DB) error {
		upsert := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "session_id"}, {Name: "product_id"}},
			DoUpdates: clause.Set{
				{Column: clause.Column{Name: "quantity"}, Value: gorm.Expr("cart_items.quantity + excluded.quantity")},
				{Column: clause.Column{Name: "updated_at"}, Value: now},
			},
		}).Create(&row)
		if upsert.Error != nil {
			return upsert.Error
		}
		return tx.Where("session_id = ? AND product_id = ?", sessionID, productID).First(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Repository) SetQuantity(ctx context.Context, id uint64, quantity int) (*models.CartItem, bool, error) {
	if quantity < 0 {
		return nil, false, fmt.Errorf("quantity must not be negative, got %d", quantity)
	}
	var item models.CartItem
	removed := false
	err := r.Tx(ctx, func(tx *gorm.DB) error {
		if err := repo.First(tx, &item, "id = ?", id); err != nil {
			return mapNotFound(err)
		}
		if quantity == 0 {
			removed = true
			return tx.Delete(&models.CartItem{}, "id = ?", id).Error
		}
		item.Quantity = quantity
		item.UpdatedAt = time.Now().UTC()
		return tx.Model(&models.CartItem{}).Where("id = ?", id).
			Updates(map[string]any{"quantity": quantity, "updated_at": item.UpdatedAt}).Error
	})
	if err != nil {
		return nil, false, err
	}
	return &item, removed, nil
}

func (r *Repository) Remove(ctx context.Context, id uint64) (bool, error) {
	res := r.DB(ctx).Delete(&models.CartItem{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func mapNotFound(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
