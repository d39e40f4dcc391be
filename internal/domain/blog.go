package domain

import "time"

type BlogCategory struct {
	ID           int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	CategoryName string    `gorm:"uniqueIndex" json:"category_name"`
	Slug         string    `gorm:"uniqueIndex" json:"slug"`
	Image        string    `gorm:"size:1024" json:"image"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (BlogCategory) TableName() string {
	return "blog_categories"
}

type BlogTag struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name      string    `gorm:"index" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (BlogTag) TableName() string {
	return "blog_tags"
}

type Blog struct {
	ID           int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	CategoryIDs  []int64   `gorm:"serializer:json" json:"blog_category_id"`
	Title        string    `gorm:"index" json:"title"`
	Excerpt      string    `json:"excerpt"`
	Content      string    `json:"content"`
	FeatureImg   string    `gorm:"size:1024" json:"feature_img"`
	TagIDs       []int64   `gorm:"serializer:json" json:"blog_tags"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Blog) TableName() string {
	return "blogs"
}
