package models

import "time"

// CartItem is one product line inside a cart session. ProductID is a soft
// reference; the product may have been deleted since the line was added.
type CartItem struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SessionID string    `gorm:"column:session_id;type:text;not null;uniqueIndex:idx_cart_items_session_product,priority:1" json:"sessionId"`
	UserID    *uint64   `gorm:"column:user_id" json:"userId"`
	ProductID uint64    `gorm:"column:product_id;not null;uniqueIndex:idx_cart_items_session_product,priority:2" json:"productId"`
	Quantity  int       `gorm:"column:quantity;not null" json:"quantity"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
