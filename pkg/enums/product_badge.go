package enums

import "fmt"

// ProductBadge is the single merchandising label shown on a product card.
type ProductBadge string

const (
	ProductBadgeNone       ProductBadge = ""
	ProductBadgeNew        ProductBadge = "new"
	ProductBadgeSale       ProductBadge = "sale"
	ProductBadgeBestSeller ProductBadge = "best_seller"
)

var validProductBadges = []ProductBadge{
	ProductBadgeNew,
	ProductBadgeSale,
	ProductBadgeBestSeller,
}

// String implements fmt.Stringer.
func (b ProductBadge) String() string {
	return string(b)
}

// IsValid reports whether the value is a known ProductBadge.
func (b ProductBadge) IsValid() bool {
	for _, candidate := range validProductBadges {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseProductBadge converts raw input into a ProductBadge.
func ParseProductBadge(value string) (ProductBadge, error) {
	for _, candidate := range validProductBadges {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product badge %q", value)
}

// BadgeFor applies the display precedence new > sale > best seller.
func BadgeFor(isNew, isSale, isBestSeller bool) ProductBadge {
	switch {
	case isNew:
		return ProductBadgeNew
	case isSale:
		return ProductBadgeSale
	case isBestSeller:
		return ProductBadgeBestSeller
	}
	return ProductBadgeNone
}
