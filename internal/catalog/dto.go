package catalog

import (
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

var maxRating = decimal.NewFromInt(5)

// ProductInput is the payload for creating a product.
type ProductInput struct {
	Name          string           `json:"name" validate:"required,max=200"`
	Description   string           `json:"description" validate:"max=2000"`
	Category      string           `json:"category" validate:"required,max=100"`
	Subcategory   string           `json:"subcategory" validate:"max=100"`
	Price         *decimal.Decimal `json:"price" validate:"required"`
	OriginalPrice *decimal.Decimal `json:"originalPrice"`
	ImageURL      string           `json:"imageUrl" validate:"required,max=500"`
	IsNew         bool             `json:"isNew"`
	IsBestSeller  bool             `json:"isBestSeller"`
	IsSale        bool             `json:"isSale"`
	Rating        decimal.Decimal  `json:"rating"`
	RatingCount   int              `json:"ratingCount" validate:"min=0"`
}

func (in ProductInput) Validate() error {
	if in.Price == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"price": "is required"})
	}
	return validatePricing(in.Price, in.OriginalPrice, &in.Rating)
}

func (in ProductInput) Model() models.Product {
	var price decimal.Decimal
	if in.Price != nil {
		price = *in.Price
	}
	return models.Product{
		Name:          in.Name,
		Description:   in.Description,
		Category:      normalizeCategory(in.Category),
		Subcategory:   in.Subcategory,
		Price:         price,
		OriginalPrice: in.OriginalPrice,
		ImageURL:      in.ImageURL,
		IsNew:         in.IsNew,
		IsBestSeller:  in.IsBestSeller,
		IsSale:        in.IsSale,
		Rating:        in.Rating,
		RatingCount:   in.RatingCount,
	}
}

// ProductPatch is a partial product update; nil fields are left as is.
// ClearOriginalPrice drops the discount.
type ProductPatch struct {
	Name               *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description        *string          `json:"description" validate:"omitempty,max=2000"`
	Category           *string          `json:"category" validate:"omitempty,min=1,max=100"`
	Subcategory        *string          `json:"subcategory" validate:"omitempty,max=100"`
	Price              *decimal.Decimal `json:"price"`
	OriginalPrice      *decimal.Decimal `json:"originalPrice"`
	ClearOriginalPrice bool             `json:"clearOriginalPrice"`
	ImageURL           *string          `json:"imageUrl" validate:"omitempty,min=1,max=500"`
	IsNew              *bool            `json:"isNew"`
	IsBestSeller       *bool            `json:"isBestSeller"`
	IsSale             *bool            `json:"isSale"`
	Rating             *decimal.Decimal `json:"rating"`
	RatingCount        *int             `json:"ratingCount" validate:"omitempty,min=0"`
}

func (p ProductPatch) Validate() error {
	return validatePricing(p.Price, p.OriginalPrice, p.Rating)
}

func (p ProductPatch) Apply(dst *models.Product) {
	setIf(&dst.Name, p.Name)
	setIf(&dst.Description, p.Description)
	if p.Category != nil {
		dst.Category = normalizeCategory(*p.Category)
	}
	setIf(&dst.Subcategory, p.Subcategory)
	setIf(&dst.Price, p.Price)
	if p.ClearOriginalPrice {
		dst.OriginalPrice = nil
	} else if p.OriginalPrice != nil {
		price := *p.OriginalPrice
		dst.OriginalPrice = &price
	}
	setIf(&dst.ImageURL, p.ImageURL)
	setIf(&dst.IsNew, p.IsNew)
	setIf(&dst.IsBestSeller, p.IsBestSeller)
	setIf(&dst.IsSale, p.IsSale)
	setIf(&dst.Rating, p.Rating)
	setIf(&dst.RatingCount, p.RatingCount)
}

func validatePricing(price, originalPrice, rating *decimal.Decimal) error {
	details := map[string]string{}
	if price != nil && price.IsNegative() {
		details["price"] = "must not be negative"
	}
	if originalPrice != nil && originalPrice.IsNegative() {
		details["originalPrice"] = "must not be negative"
	}
	if rating != nil && (rating.IsNegative() || rating.GreaterThan(maxRating)) {
		details["rating"] = "must be between 0 and 5"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return nil
}

type CategoryInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	ImageURL string `json:"imageUrl" validate:"required,max=500"`
}

func (in CategoryInput) Model() models.Category {
	return models.Category{Name: normalizeCategory(in.Name), ImageURL: in.ImageURL}
}

type CategoryPatch struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=100"`
	ImageURL *string `json:"imageUrl" validate:"omitempty,min=1,max=500"`
}

func (p CategoryPatch) Apply(dst *models.Category) {
	if p.Name != nil {
		dst.Name = normalizeCategory(*p.Name)
	}
	setIf(&dst.ImageURL, p.ImageURL)
}

type CollectionInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=2000"`
	ImageURL    string `json:"imageUrl" validate:"required,max=500"`
}

func (in CollectionInput) Model() models.Collection {
	return models.Collection{Name: in.Name, Description: in.Description, ImageURL: in.ImageURL}
}

type CollectionPatch struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	ImageURL    *string `json:"imageUrl" validate:"omitempty,min=1,max=500"`
}

func (p CollectionPatch) Apply(dst *models.Collection) {
	setIf(&dst.Name, p.Name)
	setIf(&dst.Description, p.Description)
	setIf(&dst.ImageURL, p.ImageURL)
}

// BannerInput creates a carousel slide or a promo; both share one shape.
type BannerInput struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	ImageURL    string `json:"imageUrl" validate:"required,max=500"`
	ButtonText  string `json:"buttonText" validate:"required,max=100"`
	ButtonLink  string `json:"buttonLink" validate:"required,max=500"`
}

type BannerPatch struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	ImageURL    *string `json:"imageUrl" validate:"omitempty,min=1,max=500"`
	ButtonText  *string `json:"buttonText" validate:"omitempty,min=1,max=100"`
	ButtonLink  *string `json:"buttonLink" validate:"omitempty,min=1,max=500"`
}

// SlideInput creates a carousel slide.
type SlideInput struct{ BannerInput }

func (in SlideInput) Model() models.CarouselSlide {
	return models.CarouselSlide{
		Title:       in.Title,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		ButtonText:  in.ButtonText,
		ButtonLink:  in.ButtonLink,
	}
}

type SlidePatch struct{ BannerPatch }

func (p SlidePatch) Apply(dst *models.CarouselSlide) {
	p.apply(&dst.Title, &dst.Description, &dst.ImageURL, &dst.ButtonText, &dst.ButtonLink)
}

// PromoInput creates a promo banner.
type PromoInput struct{ BannerInput }

func (in PromoInput) Model() models.Promo {
	return models.Promo{
		Title:       in.Title,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		ButtonText:  in.ButtonText,
		ButtonLink:  in.ButtonLink,
	}
}

type PromoPatch struct{ BannerPatch }

func (p PromoPatch) Apply(dst *models.Promo) {
	p.apply(&dst.Title, &dst.Description, &dst.ImageURL, &dst.ButtonText, &dst.ButtonLink)
}

func (p BannerPatch) apply(title, description, imageURL, buttonText, buttonLink *string) {
	setIf(title, p.Title)
	setIf(description, p.Description)
	setIf(imageURL, p.ImageURL)
	setIf(buttonText, p.ButtonText)
	setIf(buttonLink, p.ButtonLink)
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
