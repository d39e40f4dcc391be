package shop

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/ecomcore/storefront/internal/domain"
	"github.com/ecomcore/storefront/internal/sequence"
)

type AddressInput struct {
	BillingAddress  domain.AddressBlock `json:"billing_address"`
	ShippingAddress domain.AddressBlock `json:"shipping_address"`
}

func (in *AddressInput) validate() error {
	if in.ShippingAddress.PinCode == "" {
		return domain.NewValidationError("shipping_address.pin_code", "pin code is required")
	}
	if in.ShippingAddress.City == "" {
		return domain.NewValidationError("shipping_address.city", "city is required")
	}
	// Billing falls back to shipping when left empty.
	if in.BillingAddress.PinCode == "" {
		in.BillingAddress = in.ShippingAddress
	}
	return nil
}

func (s *Service) CreateAddress(ctx context.Context, userID int64, in AddressInput) (*domain.Address, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	id, err := s.seq.Next(ctx, sequence.AddressID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	address := &domain.Address{
		ID:              id,
		UserID:          userID,
		BillingAddress:  in.BillingAddress,
		ShippingAddress: in.ShippingAddress,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.db.WithContext(ctx).Create(address).Error; err != nil {
		return nil, err
	}
	return address, nil
}

func (s *Service) GetAddress(ctx context.Context, userID, id int64) (*domain.Address, error) {
	var address domain.Address
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&address).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError("address", id)
	}
	return &address, err
}

func (s *Service) ListAddresses(ctx context.Context, userID int64) ([]domain.Address, error) {
	var addresses []domain.Address
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).Order("id ASC").
		Find(&addresses).Error
	return addresses, err
}

func (s *Service) UpdateAddress(ctx context.Context, userID, id int64, in AddressInput) (*domain.Address, error) {
	address, err := s.GetAddress(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	address.BillingAddress = in.BillingAddress
	address.ShippingAddress = in.ShippingAddress
	address.UpdatedAt = time.Now()
	if err := s.db.WithContext(ctx).Save(address).Error; err != nil {
		return nil, err
	}
	return address, nil
}

func (s *Service) DeleteAddress(ctx context.Context, userID, id int64) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Address{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.NewNotFoundError("address", id)
	}
	return nil
}
