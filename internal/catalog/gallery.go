package catalog

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/ecomcore/storefront/internal/domain"
	"github.com/ecomcore/storefront/internal/sequence"
)

// GalleryOwner identifies the single entity a gallery belongs to. The zero
// value owns nothing and fails validation, so both-set and neither-set are
// unrepresentable through the constructors.
type GalleryOwner struct {
	productID int64
	variantID int64
}

func OwnedByProduct(id int64) GalleryOwner {
	return GalleryOwner{productID: id}
}

func OwnedByVariant(id int64) GalleryOwner {
	return GalleryOwner{variantID: id}
}

func (o GalleryOwner) validate() error {
	if o.productID == 0 && o.variantID == 0 {
		return domain.NewValidationError("owner", "either product or variant is required")
	}
	if o.productID != 0 && o.variantID != 0 {
		return domain.NewValidationError("owner", "product and variant cannot be set together")
	}
	return nil
}

type CreateGalleryInput struct {
	Owner    GalleryOwner
	Images   []string
	Metadata map[string]string
}

// CreateGallery persists a gallery for its single owner. A product-owned
// gallery is also written back to the product's gallery pointer.
func (s *Service) CreateGallery(ctx context.Context, in CreateGalleryInput) (*domain.ProductGallery, error) {
	if err := in.Owner.validate(); err != nil {
		return nil, err
	}
	if len(in.Images) == 0 {
		return nil, domain.NewValidationError("images", "at least one image is required")
	}

	var count int64
	if in.Owner.productID != 0 {
		if err := s.db.WithContext(ctx).Model(&domain.Product{}).
			Where("id = ?", in.Owner.productID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, domain.NewValidationError("product", "product does not exist")
		}
	} else {
		if err := s.db.WithContext(ctx).Model(&domain.ProductVariant{}).
			Where("id = ?", in.Owner.variantID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, domain.NewValidationError("variant", "variant does not exist")
		}
	}

	id, err := s.seq.Next(ctx, sequence.GalleryID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	gallery := &domain.ProductGallery{
		ID:        id,
		ProductID: in.Owner.productID,
		VariantID: in.Owner.variantID,
		Images:    in.Images,
		Metadata:  in.Metadata,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(gallery).Error; err != nil {
			return err
		}
		if in.Owner.productID != 0 {
			return tx.Model(&domain.Product{}).
				Where("id = ?", in.Owner.productID).
				Update("product_gallery", id).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return gallery, nil
}

func (s *Service) GetGallery(ctx context.Context, id int64) (*domain.ProductGallery, error) {
	var gallery domain.ProductGallery
	err := s.db.WithContext(ctx).First(&gallery, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError("gallery", id)
	}
	return &gallery, err
}

func (s *Service) DeleteGallery(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&domain.ProductGallery{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.NewNotFoundError("gallery", id)
	}
	return nil
}
