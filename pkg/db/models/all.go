package models

// All lists every persisted model, in dependency order, for schema
// bootstrapping on drivers without SQL migrations.
func All() []any {
	return []any{
		&User{},
		&Category{},
		&Collection{},
		&CarouselSlide{},
		&Promo{},
		&Product{},
		&CartItem{},
		&NewsletterSubscriber{},
	}
}
