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

type CreateProductInput struct {
	ProductName      string   `json:"product_name"`
	Sku              string   `json:"sku"`
	Type             string   `json:"type"`
	Price            float64  `json:"price"`
	SalePrice        float64  `json:"sale_price"`
	LongDescription  string   `json:"long_description"`
	ShortDescription string   `json:"short_description"`
	FeatureImg       string   `json:"feature_img"`
	CategoryID       int64    `json:"category_id"`
	SubcategoryID    int64    `json:"subcategory_id"`
	Stock            int      `json:"stock"`
	GalleryImages    []string `json:"gallery_images"`
}

func (in *CreateProductInput) validate() error {
	if strings.TrimSpace(in.ProductName) == "" {
		return domain.NewValidationError("product_name", "product name is required")
	}
	if in.Type != domain.ProductTypeSimple && in.Type != domain.ProductTypeVariant {
		return domain.NewValidationError("type", "type must be simple or variant")
	}
	if in.Type == domain.ProductTypeSimple {
		if strings.TrimSpace(in.Sku) == "" {
			return domain.NewValidationError("sku", "sku is required for simple products")
		}
		if in.Price <= 0 {
			return domain.NewValidationError("price", "price is required for simple products")
		}
	}
	if in.CategoryID == 0 {
		return domain.NewValidationError("category_id", "category is required")
	}
	return nil
}

// CreateProduct runs the full creation pipeline. A variant-typed product is
// created as a shell; its price, sku and stock live on the variants added
// afterwards. A simple product with gallery images also gets a product-owned
// gallery in the same transaction.
func (s *Service) CreateProduct(ctx context.Context, in CreateProductInput) (*domain.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	slug := common.Slugify(in.ProductName, "_")
	var count int64
	if err := s.db.WithContext(ctx).Model(&domain.Product{}).
		Where("product_slug = ?", slug).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, domain.NewValidationError("product_name", "a product with the same slug already exists")
	}

	if err := s.db.WithContext(ctx).Model(&domain.Category{}).
		Where("id = ?", in.CategoryID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, domain.NewValidationError("category_id", "category does not exist")
	}
	if in.SubcategoryID != 0 {
		if err := s.db.WithContext(ctx).Model(&domain.Subcategory{}).
			Where("id = ? AND category_id = ?", in.SubcategoryID, in.CategoryID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, domain.NewValidationError("subcategory_id", "subcategory does not exist in this category")
		}
	}

	id, err := s.seq.Next(ctx, sequence.ProductID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	product := &domain.Product{
		ID:               id,
		ProductName:      in.ProductName,
		ProductSlug:      slug,
		Sku:              in.Sku,
		LongDescription:  in.LongDescription,
		ShortDescription: in.ShortDescription,
		FeatureImg:       in.FeatureImg,
		CategoryID:       in.CategoryID,
		SubcategoryID:    in.SubcategoryID,
		Type:             in.Type,
		Price:            in.Price,
		SalePrice:        in.SalePrice,
		Percentage:       common.DiscountPercent(in.Price, in.SalePrice),
		Attributes:       []int64{},
		Variants:         []int64{},
		Stock:            in.Stock,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(product).Error; err != nil {
			return err
		}
		if in.Type == domain.ProductTypeSimple && len(in.GalleryImages) > 0 {
			galleryID, err := s.seq.NextTx(ctx, tx, sequence.GalleryID)
			if err != nil {
				return err
			}
			gallery := domain.ProductGallery{
				ID:        galleryID,
				ProductID: id,
				Images:    in.GalleryImages,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := tx.Create(&gallery).Error; err != nil {
				return err
			}
			product.ProductGallery = galleryID
			return tx.Model(product).Update("product_gallery", galleryID).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	zap.L().Info("product created",
		zap.Int64("id", id),
		zap.String("name", in.ProductName),
		zap.String("type", in.Type))
	return product, nil
}

func (s *Service) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var product domain.Product
	err := s.db.WithContext(ctx).First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError("product", id)
	}
	return &product, err
}

func (s *Service) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	var product domain.Product
	err := s.db.WithContext(ctx).Where("product_slug = ?", slug).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError("product", 0)
	}
	return &product, err
}

type ListProductsQuery struct {
	CategoryID    int64
	SubcategoryID int64
	Keyword       string
	Page          int
	PerPage       int
}

func (s *Service) ListProducts(ctx context.Context, q ListProductsQuery) ([]domain.Product, int64, error) {
	query := s.db.WithContext(ctx).Model(&domain.Product{})
	if q.CategoryID != 0 {
		query = query.Where("category_id = ?", q.CategoryID)
	}
	if q.SubcategoryID != 0 {
		query = query.Where("subcategory_id = ?", q.SubcategoryID)
	}
	if q.Keyword != "" {
		kw := "%" + q.Keyword + "%"
		query = query.Where("product_name LIKE ? OR sku LIKE ?", kw, kw)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if q.PerPage <= 0 {
		q.PerPage = 20
	}
	if q.Page < 0 {
		q.Page = 0
	}
	var products []domain.Product
	err := query.Order("id DESC").
		Offset(q.Page * q.PerPage).Limit(q.PerPage).
		Find(&products).Error
	return products, total, err
}

type UpdateProductInput struct {
	ProductName      *string  `json:"product_name"`
	Sku              *string  `json:"sku"`
	Price            *float64 `json:"price"`
	SalePrice        *float64 `json:"sale_price"`
	LongDescription  *string  `json:"long_description"`
	ShortDescription *string  `json:"short_description"`
	FeatureImg       *string  `json:"feature_img"`
	CategoryID       *int64   `json:"category_id"`
	SubcategoryID    *int64   `json:"subcategory_id"`
	Stock            *int     `json:"stock"`
}

// UpdateProduct applies the provided fields only. Slug and percentage are
// recomputed whenever their source fields change; they are never accepted
// from the caller.
func (s *Service) UpdateProduct(ctx context.Context, id int64, in UpdateProductInput) (*domain.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.ProductName != nil {
		name := strings.TrimSpace(*in.ProductName)
		if name == "" {
			return nil, domain.NewValidationError("product_name", "product name is required")
		}
		slug := common.Slugify(name, "_")
		var count int64
		if err := s.db.WithContext(ctx).Model(&domain.Product{}).
			Where("product_slug = ? AND id <> ?", slug, id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, domain.NewValidationError("product_name", "a product with the same slug already exists")
		}
		product.ProductName = name
		product.ProductSlug = slug
	}
	if in.CategoryID != nil {
		var count int64
		if err := s.db.WithContext(ctx).Model(&domain.Category{}).
			Where("id = ?", *in.CategoryID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, domain.NewValidationError("category_id", "category does not exist")
		}
		product.CategoryID = *in.CategoryID
	}
	if in.SubcategoryID != nil {
		var count int64
		if err := s.db.WithContext(ctx).Model(&domain.Subcategory{}).
			Where("id = ? AND category_id = ?", *in.SubcategoryID, product.CategoryID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, domain.NewValidationError("subcategory_id", "subcategory does not exist in this category")
		}
		product.SubcategoryID = *in.SubcategoryID
	}
	if in.Sku != nil {
		product.Sku = *in.Sku
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.SalePrice != nil {
		product.SalePrice = *in.SalePrice
	}
	if in.Price != nil || in.SalePrice != nil {
		product.Percentage = common.DiscountPercent(product.Price, product.SalePrice)
	}
	if in.LongDescription != nil {
		product.LongDescription = *in.LongDescription
	}
	if in.ShortDescription != nil {
		product.ShortDescription = *in.ShortDescription
	}
	if in.FeatureImg != nil {
		product.FeatureImg = *in.FeatureImg
	}
	if in.Stock != nil {
		product.Stock = *in.Stock
	}
	product.UpdatedAt = time.Now()
	if err := s.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct cascades through the product's dependents in one transaction:
// galleries owned by its variants, the variants themselves, galleries owned
// by the product, then the product row. Any step failing rolls back the whole
// cascade and surfaces as a DependencyError.
func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var variantIDs []int64
		if err := tx.Model(&domain.ProductVariant{}).
			Where("product_id = ?", id).Pluck("id", &variantIDs).Error; err != nil {
			return &domain.DependencyError{Entity: "variant", Err: err}
		}
		if len(variantIDs) > 0 {
			if err := tx.Where("variant_id IN ?", variantIDs).
				Delete(&domain.ProductGallery{}).Error; err != nil {
				return &domain.DependencyError{Entity: "gallery", Err: err}
			}
			if err := tx.Where("product_id = ?", id).
				Delete(&domain.ProductVariant{}).Error; err != nil {
				return &domain.DependencyError{Entity: "variant", Err: err}
			}
		}
		if err := tx.Where("product_id = ?", id).
			Delete(&domain.ProductGallery{}).Error; err != nil {
			return &domain.DependencyError{Entity: "gallery", Err: err}
		}
		if err := tx.Delete(&domain.Product{}, id).Error; err != nil {
			return &domain.DependencyError{Entity: "product", Err: err}
		}
		return nil
	})
	if err != nil {
		return err
	}
	zap.L().Info("product deleted",
		zap.Int64("id", id),
		zap.Int("variants", len(product.Variants)))
	return nil
}
