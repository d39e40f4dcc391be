package shop

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ecomcore/storefront/internal/domain"
	"github.com/ecomcore/storefront/internal/events"
	"github.com/ecomcore/storefront/internal/sequence"
)

type PlaceOrderInput struct {
	AddressID     int64  `json:"address_id"`
	PaymentMethod string `json:"payment_method"`
}

// PlaceOrder turns the user's cart into an order: every line is priced from
// the current product row, stock is decremented, and the cart is emptied.
// Pricing, stock and cart mutation share one transaction so a stock shortfall
// leaves everything untouched.
func (s *Service) PlaceOrder(ctx context.Context, userID int64, in PlaceOrderInput) (*domain.Order, error) {
	if in.PaymentMethod != domain.PaymentMethodOnline && in.PaymentMethod != domain.PaymentMethodCOD {
		return nil, domain.NewValidationError("payment_method", "payment method must be online or cod")
	}

	var address domain.Address
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", in.AddressID, userID).
		First(&address).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewValidationError("address_id", "address does not exist")
	}
	if err != nil {
		return nil, err
	}

	cart, err := s.getOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, domain.NewValidationError("cart", "cart is empty")
	}

	id, err := s.seq.Next(ctx, sequence.OrderID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order := &domain.Order{
		ID:            id,
		UserID:        userID,
		AddressID:     in.AddressID,
		PaymentMethod: in.PaymentMethod,
		Status:        domain.OrderStatusPending,
		OrderDate:     now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, line := range cart.Items {
			var product domain.Product
			err := tx.First(&product, line.ProductID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NewValidationError("cart",
					fmt.Sprintf("product %d is no longer available", line.ProductID))
			}
			if err != nil {
				return err
			}
			if product.Stock < line.Quantity {
				return domain.NewValidationError("cart",
					fmt.Sprintf("insufficient stock for product %d", line.ProductID))
			}

			unit := product.Price
			if product.SalePrice > 0 && product.SalePrice < product.Price {
				unit = product.SalePrice
			}
			discount := (product.Price - unit) * float64(line.Quantity)
			order.Items = append(order.Items, domain.OrderItem{
				ProductID:     product.ID,
				Name:          product.ProductName,
				Quantity:      line.Quantity,
				Price:         unit,
				OriginalPrice: product.Price,
				TotalPrice:    unit * float64(line.Quantity),
				Discount:      discount,
			})
			order.TotalAmount += unit * float64(line.Quantity)
			order.TotalDiscount += discount

			if err := tx.Model(&product).
				Update("stock", gorm.Expr("stock - ?", line.Quantity)).Error; err != nil {
				return err
			}
		}
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		cart.Items = []domain.CartItem{}
		cart.UpdatedAt = now
		return tx.Save(cart).Error
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("order placed",
		zap.Int64("order_id", id),
		zap.Int64("user_id", userID),
		zap.Float64("total", order.TotalAmount))
	var buyer domain.User
	_ = s.db.WithContext(ctx).First(&buyer, userID).Error
	s.bus.Publish(events.TopicOrderPlaced, events.OrderPlaced{
		OrderID:     id,
		UserID:      userID,
		Email:       buyer.EmailID,
		TotalAmount: order.TotalAmount,
		ItemCount:   len(order.Items),
	})
	return order, nil
}

func (s *Service) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	var order domain.Order
	err := s.db.WithContext(ctx).First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError("order", id)
	}
	return &order, err
}

func (s *Service) ListOrders(ctx context.Context, userID int64) ([]domain.Order, error) {
	var orders []domain.Order
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).Order("id DESC").
		Find(&orders).Error
	return orders, err
}

func (s *Service) ListAllOrders(ctx context.Context, page, perPage int) ([]domain.Order, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&domain.Order{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if perPage <= 0 {
		perPage = 20
	}
	if page < 0 {
		page = 0
	}
	var orders []domain.Order
	err := s.db.WithContext(ctx).Order("id DESC").
		Offset(page * perPage).Limit(perPage).
		Find(&orders).Error
	return orders, total, err
}

var orderStatuses = map[string]bool{
	domain.OrderStatusPending:   true,
	domain.OrderStatusShipped:   true,
	domain.OrderStatusDelivered: true,
	domain.OrderStatusCancelled: true,
}

func (s *Service) UpdateOrderStatus(ctx context.Context, id int64, status string) (*domain.Order, error) {
	if !orderStatuses[status] {
		return nil, domain.NewValidationError("status", "unknown order status")
	}
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if status == domain.OrderStatusCancelled && order.Status != domain.OrderStatusPending {
		return nil, domain.NewValidationError("status", "only pending orders can be cancelled")
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	if err := s.db.WithContext(ctx).Save(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// CancelOrder lets the buyer back out of an order that has not shipped.
// Stock reserved by the order is returned in the same transaction.
func (s *Service) CancelOrder(ctx context.Context, userID, id int64) (*domain.Order, error) {
	var order domain.Order
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError("order", id)
	}
	if err != nil {
		return nil, err
	}
	if order.Status != domain.OrderStatusPending {
		return nil, domain.NewValidationError("status", "only pending orders can be cancelled")
	}

	order.Status = domain.OrderStatusCancelled
	order.UpdatedAt = time.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range order.Items {
			if err := tx.Model(&domain.Product{}).Where("id = ?", item.ProductID).
				Update("stock", gorm.Expr("stock + ?", item.Quantity)).Error; err != nil {
				return err
			}
		}
		return tx.Save(&order).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}
