package shop

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/ecomcore/storefront/internal/domain"
	"github.com/ecomcore/storefront/internal/sequence"
)

func (s *Service) getOrCreateWishlist(ctx context.Context, userID int64) (*domain.Wishlist, error) {
	var wishlist domain.Wishlist
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&wishlist).Error
	if err == nil {
		return &wishlist, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	id, err := s.seq.Next(ctx, sequence.WishlistID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	wishlist = domain.Wishlist{
		ID:        id,
		UserID:    userID,
		Items:     []int64{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.WithContext(ctx).Create(&wishlist).Error; err != nil {
		return nil, err
	}
	return &wishlist, nil
}

// WishlistView joins the wishlist with its live item rows. Soft-deleted items
// stay out of the view but keep their rows.
type WishlistView struct {
	domain.Wishlist
	Products []domain.WishlistItem `json:"products"`
}

func (s *Service) GetWishlist(ctx context.Context, userID int64) (*WishlistView, error) {
	wishlist, err := s.getOrCreateWishlist(ctx, userID)
	if err != nil {
		return nil, err
	}
	view := &WishlistView{Wishlist: *wishlist, Products: []domain.WishlistItem{}}
	if len(wishlist.Items) == 0 {
		return view, nil
	}
	err = s.db.WithContext(ctx).
		Where("id IN ? AND is_deleted = ?", []int64(wishlist.Items), false).
		Order("id ASC").
		Find(&view.Products).Error
	return view, err
}

// AddToWishlist creates a wishlist item row and appends its id to the user's
// wishlist. A product already on the list is rejected.
func (s *Service) AddToWishlist(ctx context.Context, userID, productID int64) (*WishlistView, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&domain.Product{}).
		Where("id = ?", productID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, domain.NewValidationError("product_id", "product does not exist")
	}

	wishlist, err := s.getOrCreateWishlist(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(wishlist.Items) > 0 {
		if err := s.db.WithContext(ctx).Model(&domain.WishlistItem{}).
			Where("id IN ? AND product_id = ? AND is_deleted = ?",
				[]int64(wishlist.Items), productID, false).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, domain.NewValidationError("product_id", "product already in wishlist")
		}
	}

	itemID, err := s.seq.Next(ctx, sequence.WishlistItemID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	item := domain.WishlistItem{ID: itemID, ProductID: productID, AddedAt: now}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		wishlist.Items = append(wishlist.Items, itemID)
		wishlist.UpdatedAt = now
		return tx.Save(wishlist).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetWishlist(ctx, userID)
}

// RemoveFromWishlist soft-deletes the item row and pulls its id from the
// wishlist in one transaction.
func (s *Service) RemoveFromWishlist(ctx context.Context, userID, itemID int64) error {
	wishlist, err := s.getOrCreateWishlist(ctx, userID)
	if err != nil {
		return err
	}
	found := false
	kept := wishlist.Items[:0]
	for _, id := range wishlist.Items {
		if id == itemID {
			found = true
			continue
		}
		kept = append(kept, id)
	}
	if !found {
		return domain.NewNotFoundError("wishlist_item", itemID)
	}
	wishlist.Items = kept
	wishlist.UpdatedAt = time.Now()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.WishlistItem{}).
			Where("id = ?", itemID).Update("is_deleted", true).Error; err != nil {
			return err
		}
		return tx.Save(wishlist).Error
	})
}
