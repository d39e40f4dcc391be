package domain

import "time"

type CartItem struct {
	ProductID int64     `json:"product_id"`
	Quantity  int       `json:"quantity"`
	ImageURL  string    `json:"image_url"`
	AddedAt   time.Time `json:"added_at"`
}

// Cart holds one row per user with the items embedded, matching the
// document layout the rest of the entity graph uses.
type Cart struct {
	ID        int64      `gorm:"primaryKey;autoIncrement:false" json:"id"`
	UserID    int64      `gorm:"index" json:"user_id"`
	Items     []CartItem `gorm:"serializer:json" json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (Cart) TableName() string {
	return "carts"
}

type OrderItem struct {
	ProductID     int64   `json:"product_id"`
	Name          string  `json:"name"`
	Quantity      int     `json:"quantity"`
	Price         float64 `json:"price"`
	OriginalPrice float64 `json:"original_price"`
	TotalPrice    float64 `json:"total_price"`
	Discount      float64 `json:"discount"`
}

const (
	OrderStatusPending   = "pending"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"

	PaymentMethodOnline = "online"
	PaymentMethodCOD    = "cod"
)

type Order struct {
	ID            int64       `gorm:"primaryKey;autoIncrement:false" json:"id"`
	UserID        int64       `gorm:"index" json:"user_id"`
	Items         []OrderItem `gorm:"serializer:json" json:"items"`
	AddressID     int64       `json:"address_id"`
	PaymentMethod string      `gorm:"size:32" json:"payment_method"` // 'online' or 'cod'
	Status        string      `gorm:"size:32;index" json:"status"`
	TotalAmount   float64     `json:"total_amount"`
	TotalDiscount float64     `json:"total_discount"`
	OrderDate     time.Time   `json:"order_date"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

type AddressBlock struct {
	PinCode string `json:"pin_code"`
	City    string `json:"city"`
	State   string `json:"state"`
}

type Address struct {
	ID              int64        `gorm:"primaryKey;autoIncrement:false" json:"id"`
	UserID          int64        `gorm:"index" json:"user_id"`
	BillingAddress  AddressBlock `gorm:"serializer:json" json:"billing_address"`
	ShippingAddress AddressBlock `gorm:"serializer:json" json:"shipping_address"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

func (Address) TableName() string {
	return "addresses"
}

type Wishlist struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	UserID    int64     `gorm:"index" json:"user_id"`
	Items     []int64   `gorm:"serializer:json" json:"wishlist_items"` // WishlistItem ids
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Wishlist) TableName() string {
	return "wishlists"
}

type WishlistItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	ProductID int64     `gorm:"index" json:"product_id"`
	IsDeleted bool      `json:"is_deleted"`
	AddedAt   time.Time `json:"added_at"`
}

func (WishlistItem) TableName() string {
	return "wishlist_items"
}
