package bulk

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gocarina/gocsv"

	"github.com/ecomcore/storefront/internal/domain"
)

// Export flattens the catalog into rows: simple products one each, variant
// products one row per variant carrying the parent's name and category.
func (s *Service) Export(ctx context.Context) ([]ProductRow, error) {
	var products []domain.Product
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&products).Error; err != nil {
		return nil, err
	}

	categoryNames, subcategoryNames, err := s.loadCategoryNames(ctx)
	if err != nil {
		return nil, err
	}
	valueLabels, err := s.loadValueLabels(ctx)
	if err != nil {
		return nil, err
	}
	galleriesByOwner, err := s.loadGalleries(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]ProductRow, 0, len(products))
	for _, p := range products {
		base := ProductRow{
			Category:         categoryNames[p.CategoryID],
			Subcategory:      subcategoryNames[p.SubcategoryID],
			ProductName:      p.ProductName,
			ShortDescription: p.ShortDescription,
			FeatureImg:       p.FeatureImg,
		}
		if p.Type == domain.ProductTypeSimple {
			row := base
			row.Type = domain.ProductTypeSimple
			row.Sku = p.Sku
			row.Price = p.Price
			row.SalePrice = p.SalePrice
			row.Stock = p.Stock
			row.GalleryImages = strings.Join(galleriesByOwner[ownerKey{productID: p.ID}], listSeparator)
			rows = append(rows, row)
			continue
		}

		var variants []domain.ProductVariant
		if err := s.db.WithContext(ctx).
			Where("product_id = ?", p.ID).Order("id ASC").
			Find(&variants).Error; err != nil {
			return nil, err
		}
		for _, v := range variants {
			row := base
			row.Type = domain.ProductTypeVariant
			row.Sku = v.Sku
			row.Price = v.Price
			row.SalePrice = v.SalePrice
			row.Stock = v.Stock
			row.FeatureImg = v.FeatureImg
			row.Attributes = joinAttributeLabels(v.Attributes, valueLabels)
			row.GalleryImages = strings.Join(galleriesByOwner[ownerKey{variantID: v.ID}], listSeparator)
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// ExportCSV streams the export as CSV.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer) error {
	rows, err := s.Export(ctx)
	if err != nil {
		return err
	}
	return gocsv.Marshal(rows, w)
}

var xlsxHeader = []string{
	"category", "subcategory", "product_name", "sku", "type", "price",
	"sale_price", "stock", "feature_img", "short_description",
	"attributes", "gallery_images",
}

// ExportXLSX writes the export as a single-sheet workbook.
func (s *Service) ExportXLSX(ctx context.Context, w io.Writer) error {
	rows, err := s.Export(ctx)
	if err != nil {
		return err
	}
	f := excelize.NewFile()
	sheet := "Sheet1"
	for col, name := range xlsxHeader {
		f.SetCellValue(sheet, cellAxis(col, 1), name)
	}
	for i, row := range rows {
		line := i + 2
		cells := []interface{}{
			row.Category, row.Subcategory, row.ProductName, row.Sku, row.Type,
			row.Price, row.SalePrice, row.Stock, row.FeatureImg,
			row.ShortDescription, row.Attributes, row.GalleryImages,
		}
		for col, v := range cells {
			f.SetCellValue(sheet, cellAxis(col, line), v)
		}
	}
	return f.Write(w)
}

func cellAxis(col, row int) string {
	return fmt.Sprintf("%s%d", excelize.ToAlphaString(col), row)
}

type ownerKey struct {
	productID int64
	variantID int64
}

func (s *Service) loadCategoryNames(ctx context.Context) (map[int64]string, map[int64]string, error) {
	var categories []domain.Category
	if err := s.db.WithContext(ctx).Find(&categories).Error; err != nil {
		return nil, nil, err
	}
	var subcategories []domain.Subcategory
	if err := s.db.WithContext(ctx).Find(&subcategories).Error; err != nil {
		return nil, nil, err
	}
	categoryNames := make(map[int64]string, len(categories))
	for _, c := range categories {
		categoryNames[c.ID] = c.CategoryName
	}
	subcategoryNames := make(map[int64]string, len(subcategories))
	for _, sc := range subcategories {
		subcategoryNames[sc.ID] = sc.SubcategoryName
	}
	return categoryNames, subcategoryNames, nil
}

// loadValueLabels maps attribute value id to "name:value".
func (s *Service) loadValueLabels(ctx context.Context) (map[int64]string, error) {
	var attributes []domain.ProductAttribute
	if err := s.db.WithContext(ctx).Find(&attributes).Error; err != nil {
		return nil, err
	}
	attributeNames := make(map[int64]string, len(attributes))
	for _, a := range attributes {
		attributeNames[a.ID] = a.Name
	}
	var values []domain.ProductAttributeValue
	if err := s.db.WithContext(ctx).Find(&values).Error; err != nil {
		return nil, err
	}
	labels := make(map[int64]string, len(values))
	for _, v := range values {
		labels[v.ID] = attributeNames[v.AttributeID] + ":" + v.Value
	}
	return labels, nil
}

func (s *Service) loadGalleries(ctx context.Context) (map[ownerKey][]string, error) {
	var galleries []domain.ProductGallery
	if err := s.db.WithContext(ctx).Find(&galleries).Error; err != nil {
		return nil, err
	}
	byOwner := make(map[ownerKey][]string, len(galleries))
	for _, g := range galleries {
		key := ownerKey{productID: g.ProductID, variantID: g.VariantID}
		byOwner[key] = append(byOwner[key], g.Images...)
	}
	return byOwner, nil
}

func joinAttributeLabels(valueIDs []int64, labels map[int64]string) string {
	parts := make([]string, 0, len(valueIDs))
	for _, id := range valueIDs {
		if label, ok := labels[id]; ok {
			parts = append(parts, label)
		}
	}
	return strings.Join(parts, listSeparator)
}
