package domain

import "time"

// Category is a top-level product grouping. The ID comes from the sequence
// allocator, never from the database.
type Category struct {
	ID           int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	CategoryName string    `gorm:"index" json:"category_name"`
	CategorySlug string    `gorm:"uniqueIndex" json:"category_slug"`
	CategoryImg  string    `gorm:"size:1024" json:"category_img"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Category) TableName() string {
	return "categories"
}

type Subcategory struct {
	ID              int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	SubcategoryName string    `gorm:"index" json:"subcategory_name"`
	SubcategorySlug string    `gorm:"uniqueIndex" json:"subcategory_slug"`
	SubcategoryImg  string    `gorm:"size:1024" json:"subcategory_img"`
	CategoryID      int64     `gorm:"index" json:"category_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Subcategory) TableName() string {
	return "subcategories"
}

const (
	ProductTypeSimple  = "simple"
	ProductTypeVariant = "variant"
)

// Product covers both simple and variant-typed products. A simple product
// carries its own sku/price/images; a variant product defers those to its
// ProductVariant children and lists their ids in Variants.
type Product struct {
	ID               int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	ProductName      string    `gorm:"index" json:"product_name"`
	ProductSlug      string    `gorm:"uniqueIndex" json:"product_slug"`
	Sku              string    `gorm:"index" json:"sku"`
	LongDescription  string    `json:"long_description"`
	ShortDescription string    `json:"short_description"`
	FeatureImg       string    `gorm:"size:1024" json:"feature_img"`
	CategoryID       int64     `gorm:"index" json:"category_id"`
	SubcategoryID    int64     `gorm:"index" json:"subcategory_id"`
	ProductGallery   int64     `json:"product_gallery"`
	Type             string    `gorm:"size:32" json:"type"` // 'simple' or 'variant'
	Price            float64   `json:"price"`
	SalePrice        float64   `json:"sale_price"`
	Percentage       int       `json:"percentage"`
	Attributes       []int64   `gorm:"serializer:json" json:"attributes"`
	Variants         []int64   `gorm:"serializer:json" json:"variants"`
	Stock            int       `json:"stock"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

type ProductVariant struct {
	ID         int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	ProductID  int64     `gorm:"index" json:"product"`
	Sku        string    `gorm:"uniqueIndex" json:"sku"`
	Price      float64   `json:"price"`
	SalePrice  float64   `json:"sale_price"`
	Percentage int       `json:"percentage"`
	Attributes []int64   `gorm:"serializer:json" json:"attributes"` // ProductAttributeValue ids
	Stock      int       `json:"stock"`
	FeatureImg string    `gorm:"size:1024" json:"feature_img"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (ProductVariant) TableName() string {
	return "product_variants"
}

type ProductAttribute struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name      string    `gorm:"index" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ProductAttribute) TableName() string {
	return "product_attributes"
}

type ProductAttributeValue struct {
	ID          int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Value       string    `gorm:"index" json:"value"`
	AttributeID int64     `gorm:"index" json:"attribute"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (ProductAttributeValue) TableName() string {
	return "product_attribute_values"
}

// ProductGallery belongs to exactly one of product or variant. The service
// layer enforces the exclusive ownership before a row is ever written; the
// two columns exist only as the storage projection of that owner.
type ProductGallery struct {
	ID        int64             `gorm:"primaryKey;autoIncrement:false" json:"id"`
	ProductID int64             `gorm:"index" json:"product"`
	VariantID int64             `gorm:"index" json:"variant"`
	Images    []string          `gorm:"serializer:json" json:"images"`
	Metadata  map[string]string `gorm:"serializer:json" json:"metadata"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func (ProductGallery) TableName() string {
	return "product_galleries"
}
