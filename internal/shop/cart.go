package shop

import (
	"context"
	"errors"
	"time"

	"github.com/asaskevich/EventBus"
	"gorm.io/gorm"

	"github.com/ecomcore/storefront/internal/domain"
	"github.com/ecomcore/storefront/internal/sequence"
)

// Service covers the buyer-facing graph: carts, orders, addresses and
// wishlists. Orders publish on the bus so the mailer can follow up without
// blocking checkout.
type Service struct {
	db  *gorm.DB
	seq *sequence.Allocator
	bus EventBus.Bus
}

func NewService(db *gorm.DB, seq *sequence.Allocator, bus EventBus.Bus) *Service {
	return &Service{db: db, seq: seq, bus: bus}
}

// getOrCreateCart returns the user's single cart, creating an empty one on
// first touch.
func (s *Service) getOrCreateCart(ctx context.Context, userID int64) (*domain.Cart, error) {
	var cart domain.Cart
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	id, err := s.seq.Next(ctx, sequence.CartID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	cart = domain.Cart{
		ID:        id,
		UserID:    userID,
		Items:     []domain.CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.WithContext(ctx).Create(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func (s *Service) GetCart(ctx context.Context, userID int64) (*domain.Cart, error) {
	return s.getOrCreateCart(ctx, userID)
}

type AddToCartInput struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// AddToCart appends the product or bumps its quantity when already present.
// The resulting line quantity may not exceed the product's current stock.
func (s *Service) AddToCart(ctx context.Context, userID int64, in AddToCartInput) (*domain.Cart, error) {
	if in.Quantity <= 0 {
		in.Quantity = 1
	}
	var product domain.Product
	err := s.db.WithContext(ctx).First(&product, in.ProductID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewValidationError("product_id", "product does not exist")
	}
	if err != nil {
		return nil, err
	}

	cart, err := s.getOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == in.ProductID {
			if cart.Items[i].Quantity+in.Quantity > product.Stock {
				return nil, domain.NewValidationError("quantity", "requested quantity exceeds stock")
			}
			cart.Items[i].Quantity += in.Quantity
			found = true
			break
		}
	}
	if !found {
		if in.Quantity > product.Stock {
			return nil, domain.NewValidationError("quantity", "requested quantity exceeds stock")
		}
		cart.Items = append(cart.Items, domain.CartItem{
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
			ImageURL:  product.FeatureImg,
			AddedAt:   time.Now(),
		})
	}
	cart.UpdatedAt = time.Now()
	if err := s.db.WithContext(ctx).Save(cart).Error; err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateCartItem sets the line quantity outright; zero drops the line.
func (s *Service) UpdateCartItem(ctx context.Context, userID, productID int64, quantity int) (*domain.Cart, error) {
	if quantity < 0 {
		return nil, domain.NewValidationError("quantity", "quantity cannot be negative")
	}
	cart, err := s.getOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, domain.NewNotFoundError("cart_item", productID)
	}
	if quantity == 0 {
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	} else {
		var product domain.Product
		if err := s.db.WithContext(ctx).First(&product, productID).Error; err != nil {
			return nil, err
		}
		if quantity > product.Stock {
			return nil, domain.NewValidationError("quantity", "requested quantity exceeds stock")
		}
		cart.Items[idx].Quantity = quantity
	}
	cart.UpdatedAt = time.Now()
	if err := s.db.WithContext(ctx).Save(cart).Error; err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveFromCart drops quantity items of the product; at zero or below the
// line disappears entirely.
func (s *Service) RemoveFromCart(ctx context.Context, userID, productID int64, quantity int) (*domain.Cart, error) {
	cart, err := s.getOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if quantity <= 0 {
		quantity = 1
	}
	kept := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ProductID == productID {
			item.Quantity -= quantity
			if item.Quantity <= 0 {
				continue
			}
		}
		kept = append(kept, item)
	}
	cart.Items = kept
	cart.UpdatedAt = time.Now()
	if err := s.db.WithContext(ctx).Save(cart).Error; err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *Service) ClearCart(ctx context.Context, userID int64) error {
	cart, err := s.getOrCreateCart(ctx, userID)
	if err != nil {
		return err
	}
	cart.Items = []domain.CartItem{}
	cart.UpdatedAt = time.Now()
	return s.db.WithContext(ctx).Save(cart).Error
}
