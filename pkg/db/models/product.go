package models

import (
	"encoding/json"

	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

func init() {
	// prices travel as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// Product is a catalog listing. OriginalPrice is set only when the item is
// discounted.
type Product struct {
	ID            uint64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name          string           `gorm:"column:name;type:text;not null" json:"name"`
	Description   string           `gorm:"column:description;type:text;not null" json:"description"`
	Category      string           `gorm:"column:category;type:text;not null;index:idx_products_category" json:"category"`
	Subcategory   string           `gorm:"column:subcategory;type:text;not null" json:"subcategory"`
	Price         decimal.Decimal  `gorm:"column:price;type:numeric(10,2);not null" json:"price"`
	OriginalPrice *decimal.Decimal `gorm:"column:original_price;type:numeric(10,2)" json:"originalPrice"`
	ImageURL      string           `gorm:"column:image_url;type:text;not null" json:"imageUrl"`
	IsNew         bool             `gorm:"column:is_new;not null;default:false" json:"isNew"`
	IsBestSeller  bool             `gorm:"column:is_best_seller;not null;default:false" json:"isBestSeller"`
	IsSale        bool             `gorm:"column:is_sale;not null;default:false" json:"isSale"`
	Rating        decimal.Decimal  `gorm:"column:rating;type:numeric(2,1);not null;default:0" json:"rating"`
	RatingCount   int              `gorm:"column:rating_count;not null;default:0" json:"ratingCount"`
}

// Badge returns the single display badge for the listing.
func (p Product) Badge() enums.ProductBadge {
	return enums.BadgeFor(p.IsNew, p.IsSale, p.IsBestSeller)
}

// MarshalJSON adds the derived badge to the stored fields.
func (p Product) MarshalJSON() ([]byte, error) {
	type product Product
	return json.Marshal(struct {
		product
		Badge enums.ProductBadge `json:"badge,omitempty"`
	}{product: product(p), Badge: p.Badge()})
}
