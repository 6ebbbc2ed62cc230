package models

// Category groups products by name on the storefront.
type Category struct {
	ID       uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"column:name;type:text;not null" json:"name"`
	ImageURL string `gorm:"column:image_url;type:text;not null" json:"imageUrl"`
}

type Collection struct {
	ID          uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"column:name;type:text;not null" json:"name"`
	Description string `gorm:"column:description;type:text;not null" json:"description"`
	ImageURL    string `gorm:"column:image_url;type:text;not null" json:"imageUrl"`
}

// CarouselSlide is a hero banner on the home page.
type CarouselSlide struct {
	ID          uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title       string `gorm:"column:title;type:text;not null" json:"title"`
	Description string `gorm:"column:description;type:text;not null" json:"description"`
	ImageURL    string `gorm:"column:image_url;type:text;not null" json:"imageUrl"`
	ButtonText  string `gorm:"column:button_text;type:text;not null" json:"buttonText"`
	ButtonLink  string `gorm:"column:button_link;type:text;not null" json:"buttonLink"`
}

type Promo struct {
	ID          uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title       string `gorm:"column:title;type:text;not null" json:"title"`
	Description string `gorm:"column:description;type:text;not null" json:"description"`
	ImageURL    string `gorm:"column:image_url;type:text;not null" json:"imageUrl"`
	ButtonText  string `gorm:"column:button_text;type:text;not null" json:"buttonText"`
	ButtonLink  string `gorm:"column:button_link;type:text;not null" json:"buttonLink"`
}
