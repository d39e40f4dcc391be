package domain

var Tables = []interface{}{
	// Sequence
	&IDCounter{},
	// Catalog
	&Category{},
	&Subcategory{},
	&Product{},
	&ProductVariant{},
	&ProductAttribute{},
	&ProductAttributeValue{},
	&ProductGallery{},
	// Shop
	&Cart{},
	&Order{},
	&Address{},
	&Wishlist{},
	&WishlistItem{},
	// System
	&Role{},
	&User{},
	&Otp{},
	&VerificationToken{},
	// Blog
	&BlogCategory{},
	&BlogTag{},
	&Blog{},
	// Content
	&Faq{},
}
