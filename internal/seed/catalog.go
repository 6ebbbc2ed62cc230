package seed

import (
	"strconv"

	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/shopspring/decimal"
)

const unsplash = "https://images.unsplash.com/"

func img(id string, width int) string {
	return unsplash + id + "?ixlib=rb-1.2.1&auto=format&fit=crop&w=" + strconv.Itoa(width) + "&q=80"
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func pricePtr(s string) *decimal.Decimal {
	p := price(s)
	return &p
}

var defaultCategories = []catalog.CategoryInput{
	{Name: "Women", ImageURL: img("photo-1564859228273-274232fdb516", 600)},
	{Name: "Men", ImageURL: img("photo-1617137968427-85924c800a22", 600)},
	{Name: "Accessories", ImageURL: img("photo-1556015048-4d3aa10df74c", 600)},
	{Name: "Sale", ImageURL: img("photo-1551232864-3f0890e580d9", 600)},
}

var defaultProducts = []catalog.ProductInput{
	{
		Name:          "Modern Casual Jacket",
		Description:   "A comfortable and stylish jacket perfect for casual outings.",
		Category:      "Men",
		Subcategory:   "Men's Collection",
		Price:         pricePtr("89.99"),
		OriginalPrice: pricePtr("119.99"),
		ImageURL:      img("photo-1552374196-1ab2a1c593e8", 600),
		IsNew:         true,
		IsSale:        true,
		Rating:        price("4.5"),
		RatingCount:   42,
	},
	{
		Name:        "Elegant Summer Dress",
		Description: "A light and airy dress perfect for summer days.",
		Category:    "Women",
		Subcategory: "Women's Collection",
		Price:       pricePtr("59.99"),
		ImageURL:    img("photo-1515886657613-9f3515b0c78f", 600),
		IsNew:       true,
		Rating:      price("4.2"),
		RatingCount: 28,
	},
	{
		Name:          "Urban White Sneakers",
		Description:   "Clean, stylish sneakers for urban environments.",
		Category:      "Footwear",
		Subcategory:   "Footwear",
		Price:         pricePtr("79.99"),
		OriginalPrice: pricePtr("99.99"),
		ImageURL:      img("photo-1506629082955-511b1aa562c8", 600),
		IsSale:        true,
		Rating:        price("4.7"),
		RatingCount:   56,
	},
	{
		Name:          "Designer Sunglasses",
		Description:   "Protect your eyes with style using our designer sunglasses.",
		Category:      "Accessories",
		Subcategory:   "Accessories",
		Price:         pricePtr("49.99"),
		OriginalPrice: pricePtr("69.99"),
		ImageURL:      img("photo-1509631179647-0177331693ae", 600),
		IsSale:        true,
		Rating:        price("4.4"),
		RatingCount:   31,
	},
	{
		Name:         "Casual Wool Coat",
		Description:  "Stay warm and stylish with this casual wool coat.",
		Category:     "Women",
		Subcategory:  "Women's Outerwear",
		Price:        pricePtr("149.99"),
		ImageURL:     img("photo-1583846717393-dc2412c95ed7", 600),
		IsBestSeller: true,
		Rating:       price("4.8"),
		RatingCount:  124,
	},
	{
		Name:         "Essential White Tee",
		Description:  "A wardrobe staple - the perfect white t-shirt.",
		Category:     "Basics",
		Subcategory:  "Basics",
		Price:        pricePtr("29.99"),
		ImageURL:     img("photo-1591047139829-d91aecb6caea", 600),
		IsBestSeller: true,
		Rating:       price("5.0"),
		RatingCount:  238,
	},
	{
		Name:          "Leather Crossbody Bag",
		Description:   "A versatile leather crossbody bag for all occasions.",
		Category:      "Accessories",
		Subcategory:   "Accessories",
		Price:         pricePtr("89.99"),
		OriginalPrice: pricePtr("109.99"),
		ImageURL:      img("photo-1550639525-c97d455acf70", 600),
		IsBestSeller:  true,
		IsSale:        true,
		Rating:        price("4.0"),
		RatingCount:   97,
	},
	{
		Name:         "Classic Sport Sneakers",
		Description:  "Comfortable and durable sneakers for sport activities.",
		Category:     "Footwear",
		Subcategory:  "Footwear",
		Price:        pricePtr("119.99"),
		ImageURL:     img("photo-1525966222134-fcfa99b8ae77", 600),
		IsBestSeller: true,
		Rating:       price("4.5"),
		RatingCount:  186,
	},
}

var defaultSlides = []catalog.SlideInput{
	{BannerInput: catalog.BannerInput{
		Title:       "Summer Collection 2023",
		Description: "Discover our latest styles perfect for the sunny days ahead.",
		ImageURL:    img("photo-1490481651871-ab68de25d43d", 1920),
		ButtonText:  "Shop Now",
		ButtonLink:  "/category/summer",
	}},
	{BannerInput: catalog.BannerInput{
		Title:       "Autumn Essentials",
		Description: "Layer up with our stylish selection of autumn pieces.",
		ImageURL:    img("photo-1441984904996-e0b6ba687e04", 1920),
		ButtonText:  "Shop Now",
		ButtonLink:  "/category/autumn",
	}},
	{BannerInput: catalog.BannerInput{
		Title:       "Winter Collection",
		Description: "Stay warm and stylish with our winter collection.",
		ImageURL:    img("photo-1459478309853-2c33a60058e7", 1920),
		ButtonText:  "Shop Now",
		ButtonLink:  "/category/winter",
	}},
}

var defaultCollections = []catalog.CollectionInput{
	{
		Name:        "Summer Vibes Collection",
		Description: "Light fabrics, vibrant colors, and effortless style.",
		ImageURL:    img("photo-1573855619003-97b4799dcd8b", 1920),
	},
}

var defaultPromos = []catalog.PromoInput{
	{BannerInput: catalog.BannerInput{
		Title:       "Accessories",
		Description: "Complete your look with our premium collection",
		ImageURL:    img("photo-1509631179647-0177331693ae", 800),
		ButtonText:  "Shop Now",
		ButtonLink:  "/category/accessories",
	}},
	{BannerInput: catalog.BannerInput{
		Title:       "Up to 50% Off",
		Description: "Limited time offer on selected items",
		ImageURL:    img("photo-1607083206968-13611e3d76db", 800),
		ButtonText:  "Shop Sale",
		ButtonLink:  "/category/sale",
	}},
}
