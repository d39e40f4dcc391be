package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ecomcore/storefront/internal/domain"
	"github.com/ecomcore/storefront/internal/sequence"
	"github.com/ecomcore/storefront/pkg/common"
)

// VariantAttributeInput names an attribute and the value this variant takes,
// e.g. {Name: "color", Value: "red"}. Both are resolved find-or-create.
type VariantAttributeInput struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type CreateVariantInput struct {
	ProductID     int64                   `json:"product_id"`
	Sku           string                  `json:"sku"`
	Price         float64                 `json:"price"`
	SalePrice     float64                 `json:"sale_price"`
	Stock         int                     `json:"stock"`
	Attributes    []VariantAttributeInput `json:"attributes"`
	GalleryImages []string                `json:"gallery_images"`
}

// CreateVariant creates a variant under an existing variant-typed product.
// Attribute names and values are resolved find-or-create, the variant's
// feature image is derived from the first gallery image, and the parent
// product's variant and attribute lists are extended, all in one transaction.
func (s *Service) CreateVariant(ctx context.Context, in CreateVariantInput) (*domain.ProductVariant, error) {
	if strings.TrimSpace(in.Sku) == "" {
		return nil, domain.NewValidationError("sku", "sku is required")
	}
	if in.Price <= 0 {
		return nil, domain.NewValidationError("price", "price is required")
	}

	product, err := s.GetProduct(ctx, in.ProductID)
	if err != nil {
		var nf *domain.NotFoundError
		if errors.As(err, &nf) {
			return nil, domain.NewValidationError("product_id", "product does not exist")
		}
		return nil, err
	}
	if product.Type != domain.ProductTypeVariant {
		return nil, domain.NewValidationError("product_id", "product does not accept variants")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&domain.ProductVariant{}).
		Where("sku = ?", in.Sku).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, domain.NewValidationError("sku", "sku already exists")
	}

	id, err := s.seq.Next(ctx, sequence.VariantID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	variant := &domain.ProductVariant{
		ID:         id,
		ProductID:  in.ProductID,
		Sku:        in.Sku,
		Price:      in.Price,
		SalePrice:  in.SalePrice,
		Percentage: common.DiscountPercent(in.Price, in.SalePrice),
		Attributes: []int64{},
		Stock:      in.Stock,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	// Derived once at creation. Later gallery edits never flow back here.
	if len(in.GalleryImages) > 0 {
		variant.FeatureImg = in.GalleryImages[0]
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		attributeIDs := make([]int64, 0, len(in.Attributes))
		for _, a := range in.Attributes {
			attribute, err := s.findOrCreateAttribute(ctx, tx, a.Name)
			if err != nil {
				return err
			}
			value, err := s.findOrCreateAttributeValue(ctx, tx, attribute.ID, a.Value)
			if err != nil {
				return err
			}
			attributeIDs = append(attributeIDs, attribute.ID)
			variant.Attributes = append(variant.Attributes, value.ID)
		}
		if err := tx.Create(variant).Error; err != nil {
			return err
		}
		if len(in.GalleryImages) > 0 {
			galleryID, err := s.seq.NextTx(ctx, tx, sequence.GalleryID)
			if err != nil {
				return err
			}
			gallery := domain.ProductGallery{
				ID:        galleryID,
				VariantID: id,
				Images:    in.GalleryImages,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := tx.Create(&gallery).Error; err != nil {
				return err
			}
		}
		product.Variants = append(product.Variants, id)
		product.Attributes = mergeIDs(product.Attributes, attributeIDs)
		product.UpdatedAt = now
		return tx.Model(product).
			Select("variants", "attributes", "updated_at").
			Updates(product).Error
	})
	if err != nil {
		return nil, err
	}
	zap.L().Info("variant created",
		zap.Int64("id", id),
		zap.Int64("product_id", in.ProductID),
		zap.String("sku", in.Sku))
	return variant, nil
}

func (s *Service) GetVariant(ctx context.Context, id int64) (*domain.ProductVariant, error) {
	var variant domain.ProductVariant
	err := s.db.WithContext(ctx).First(&variant, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError("variant", id)
	}
	return &variant, err
}

func (s *Service) ListVariants(ctx context.Context, productID int64) ([]domain.ProductVariant, error) {
	var variants []domain.ProductVariant
	err := s.db.WithContext(ctx).
		Where("product_id = ?", productID).Order("id ASC").
		Find(&variants).Error
	return variants, err
}

type UpdateVariantInput struct {
	Price      *float64                `json:"price"`
	SalePrice  *float64                `json:"sale_price"`
	Stock      *int                    `json:"stock"`
	Attributes []VariantAttributeInput `json:"attributes"`
}

func (s *Service) UpdateVariant(ctx context.Context, id int64, in UpdateVariantInput) (*domain.ProductVariant, error) {
	variant, err := s.GetVariant(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Price != nil {
		if *in.Price <= 0 {
			return nil, domain.NewValidationError("price", "price must be positive")
		}
		variant.Price = *in.Price
	}
	if in.SalePrice != nil {
		variant.SalePrice = *in.SalePrice
	}
	if in.Price != nil || in.SalePrice != nil {
		variant.Percentage = common.DiscountPercent(variant.Price, variant.SalePrice)
	}
	if in.Stock != nil {
		variant.Stock = *in.Stock
	}
	variant.UpdatedAt = time.Now()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.Attributes != nil {
			variant.Attributes = variant.Attributes[:0]
			attributeIDs := make([]int64, 0, len(in.Attributes))
			for _, a := range in.Attributes {
				attribute, err := s.findOrCreateAttribute(ctx, tx, a.Name)
				if err != nil {
					return err
				}
				value, err := s.findOrCreateAttributeValue(ctx, tx, attribute.ID, a.Value)
				if err != nil {
					return err
				}
				attributeIDs = append(attributeIDs, attribute.ID)
				variant.Attributes = append(variant.Attributes, value.ID)
			}
			var product domain.Product
			err := tx.First(&product, variant.ProductID).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				// Orphaned variant; nothing to back-reference.
			case err != nil:
				return err
			default:
				product.Attributes = mergeIDs(product.Attributes, attributeIDs)
				if err := tx.Model(&product).
					Select("attributes").Updates(&product).Error; err != nil {
					return err
				}
			}
		}
		return tx.Save(variant).Error
	})
	if err != nil {
		return nil, err
	}
	return variant, nil
}

// DeleteVariant removes the variant and its galleries, then pulls its id out
// of the parent product's variant list. One transaction end to end.
func (s *Service) DeleteVariant(ctx context.Context, id int64) error {
	variant, err := s.GetVariant(ctx, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("variant_id = ?", id).
			Delete(&domain.ProductGallery{}).Error; err != nil {
			return &domain.DependencyError{Entity: "gallery", Err: err}
		}
		if err := tx.Delete(&domain.ProductVariant{}, id).Error; err != nil {
			return &domain.DependencyError{Entity: "variant", Err: err}
		}
		var product domain.Product
		err := tx.First(&product, variant.ProductID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return &domain.DependencyError{Entity: "product", Err: err}
		}
		kept := product.Variants[:0]
		for _, v := range product.Variants {
			if v != id {
				kept = append(kept, v)
			}
		}
		product.Variants = kept
		if err := tx.Model(&product).Select("variants").Updates(&product).Error; err != nil {
			return &domain.DependencyError{Entity: "product", Err: err}
		}
		return nil
	})
}

func mergeIDs(existing, extra []int64) []int64 {
	seen := make(map[int64]bool, len(existing))
	for _, id := range existing {
		seen[id] = true
	}
	for _, id := range extra {
		if !seen[id] {
			seen[id] = true
			existing = append(existing, id)
		}
	}
	return existing
}
