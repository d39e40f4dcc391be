package bulk

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ecomcore/storefront/internal/catalog"
	"github.com/ecomcore/storefront/internal/domain"
)

// ProductRow is the flat exchange format for bulk import and export. A simple
// product is one row; a variant-typed product exports one row per variant,
// all sharing the parent's name. Attribute pairs and gallery urls pack into
// single cells with a pipe separator.
type ProductRow struct {
	Category         string  `csv:"category"`
	Subcategory      string  `csv:"subcategory"`
	ProductName      string  `csv:"product_name"`
	Sku              string  `csv:"sku"`
	Type             string  `csv:"type"`
	Price            float64 `csv:"price"`
	SalePrice        float64 `csv:"sale_price"`
	Stock            int     `csv:"stock"`
	FeatureImg       string  `csv:"feature_img"`
	ShortDescription string  `csv:"short_description"`
	Attributes       string  `csv:"attributes"`     // name:value|name:value
	GalleryImages    string  `csv:"gallery_images"` // url|url
}

const listSeparator = "|"

type Service struct {
	db      *gorm.DB
	catalog *catalog.Service
}

func NewService(db *gorm.DB, catalogSvc *catalog.Service) *Service {
	return &Service{db: db, catalog: catalogSvc}
}

type ImportResult struct {
	Created  int      `json:"created"`
	Skipped  int      `json:"skipped"`
	Warnings []string `json:"warnings"`
}

func (r *ImportResult) warn(row int, format string, args ...interface{}) {
	r.Skipped++
	msg := fmt.Sprintf("row %d: %s", row, fmt.Sprintf(format, args...))
	r.Warnings = append(r.Warnings, msg)
	zap.L().Warn("bulk import row skipped", zap.String("reason", msg))
}

// Import walks the rows top to bottom through the regular creation pipeline,
// so every imported entity gets an allocated id, derived slug and percentage
// exactly as if it had come through the API. Rows missing required fields are
// skipped with a warning rather than failing the batch.
func (s *Service) Import(ctx context.Context, rows []ProductRow) (*ImportResult, error) {
	result := &ImportResult{Warnings: []string{}}
	for i, row := range rows {
		line := i + 2 // header is line 1
		if strings.TrimSpace(row.ProductName) == "" {
			result.warn(line, "missing product name")
			continue
		}
		if strings.TrimSpace(row.Category) == "" {
			result.warn(line, "missing category")
			continue
		}

		category, err := s.findOrCreateCategory(ctx, row.Category)
		if err != nil {
			return result, err
		}
		var subcategoryID int64
		if strings.TrimSpace(row.Subcategory) != "" {
			subcategory, err := s.findOrCreateSubcategory(ctx, row.Subcategory, category.ID)
			if err != nil {
				return result, err
			}
			subcategoryID = subcategory.ID
		}

		switch strings.TrimSpace(row.Type) {
		case "", domain.ProductTypeSimple:
			err = s.importSimple(ctx, row, category.ID, subcategoryID)
		case domain.ProductTypeVariant:
			err = s.importVariant(ctx, row, category.ID, subcategoryID)
		default:
			result.warn(line, "unknown type %q", row.Type)
			continue
		}
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			result.warn(line, "%s", verr.Error())
			continue
		}
		if err != nil {
			return result, err
		}
		result.Created++
	}
	zap.L().Info("bulk import finished",
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped))
	return result, nil
}

func (s *Service) findOrCreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	var category domain.Category
	err := s.db.WithContext(ctx).
		Where("category_name = ?", strings.ToLower(strings.TrimSpace(name))).
		First(&category).Error
	if err == nil {
		return &category, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return s.catalog.CreateCategory(ctx, catalog.CreateCategoryInput{CategoryName: name})
}

func (s *Service) findOrCreateSubcategory(ctx context.Context, name string, categoryID int64) (*domain.Subcategory, error) {
	var subcategory domain.Subcategory
	err := s.db.WithContext(ctx).
		Where("subcategory_name = ? AND category_id = ?",
			strings.ToLower(strings.TrimSpace(name)), categoryID).
		First(&subcategory).Error
	if err == nil {
		return &subcategory, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return s.catalog.CreateSubcategory(ctx, catalog.CreateSubcategoryInput{
		SubcategoryName: name,
		CategoryID:      categoryID,
	})
}

func (s *Service) importSimple(ctx context.Context, row ProductRow, categoryID, subcategoryID int64) error {
	_, err := s.catalog.CreateProduct(ctx, catalog.CreateProductInput{
		ProductName:      row.ProductName,
		Sku:              row.Sku,
		Type:             domain.ProductTypeSimple,
		Price:            row.Price,
		SalePrice:        row.SalePrice,
		ShortDescription: row.ShortDescription,
		FeatureImg:       row.FeatureImg,
		CategoryID:       categoryID,
		SubcategoryID:    subcategoryID,
		Stock:            row.Stock,
		GalleryImages:    splitList(row.GalleryImages),
	})
	return err
}

// importVariant finds or creates the parent shell by name, then adds the row
// as a variant under it.
func (s *Service) importVariant(ctx context.Context, row ProductRow, categoryID, subcategoryID int64) error {
	var parent domain.Product
	err := s.db.WithContext(ctx).
		Where("product_name = ? AND type = ?", row.ProductName, domain.ProductTypeVariant).
		First(&parent).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		created, err := s.catalog.CreateProduct(ctx, catalog.CreateProductInput{
			ProductName:      row.ProductName,
			Type:             domain.ProductTypeVariant,
			ShortDescription: row.ShortDescription,
			FeatureImg:       row.FeatureImg,
			CategoryID:       categoryID,
			SubcategoryID:    subcategoryID,
		})
		if err != nil {
			return err
		}
		parent = *created
	} else if err != nil {
		return err
	}

	_, err = s.catalog.CreateVariant(ctx, catalog.CreateVariantInput{
		ProductID:     parent.ID,
		Sku:           row.Sku,
		Price:         row.Price,
		SalePrice:     row.SalePrice,
		Stock:         row.Stock,
		Attributes:    parseAttributePairs(row.Attributes),
		GalleryImages: splitList(row.GalleryImages),
	})
	return err
}

func splitList(packed string) []string {
	if strings.TrimSpace(packed) == "" {
		return nil
	}
	parts := strings.Split(packed, listSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseAttributePairs(packed string) []catalog.VariantAttributeInput {
	var pairs []catalog.VariantAttributeInput
	for _, part := range splitList(packed) {
		name, value, found := strings.Cut(part, ":")
		if !found {
			continue
		}
		pairs = append(pairs, catalog.VariantAttributeInput{
			Name:  strings.TrimSpace(name),
			Value: strings.TrimSpace(value),
		})
	}
	return pairs
}
