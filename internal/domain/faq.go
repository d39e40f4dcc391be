package domain

import "time"

type Faq struct {
	ID          int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Faq) TableName() string {
	return "faqs"
}
