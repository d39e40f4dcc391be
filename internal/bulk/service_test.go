package bulk

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ecomcore/storefront/internal/catalog"
	"github.com/ecomcore/storefront/internal/domain"
	"github.com/ecomcore/storefront/internal/sequence"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))
	return NewService(db, catalog.NewService(db, sequence.NewAllocator(db)))
}

func TestImport(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	rows := []ProductRow{
		{
			Category:    "Shoes",
			Subcategory: "Running",
			ProductName: "Air Max",
			Sku:         "AM-001",
			Type:        "simple",
			Price:       100,
			SalePrice:   75,
			Stock:       10,
		},
		{
			Category:      "Shoes",
			ProductName:   "Runner Pro",
			Sku:           "RP-RED-42",
			Type:          "variant",
			Price:         120,
			SalePrice:     90,
			Stock:         5,
			Attributes:    "color:red|size:42",
			GalleryImages: "img/red1.jpg|img/red2.jpg",
		},
		{
			Category:    "Shoes",
			ProductName: "Runner Pro",
			Sku:         "RP-BLUE-42",
			Type:        "variant",
			Price:       120,
			Attributes:  "color:blue|size:42",
		},
		{Category: "Shoes", ProductName: "", Sku: "X"},
		{Category: "", ProductName: "Lost", Sku: "Y"},
	}

	result, err := s.Import(ctx, rows)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Created)
	assert.Equal(t, 2, result.Skipped)
	assert.Len(t, result.Warnings, 2)

	t.Run("categories are created once", func(t *testing.T) {
		var count int64
		require.NoError(t, s.db.Model(&domain.Category{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("derived fields flow through the pipeline", func(t *testing.T) {
		var product domain.Product
		require.NoError(t, s.db.Where("product_slug = ?", "air_max").First(&product).Error)
		assert.Equal(t, 25, product.Percentage)
	})

	t.Run("variant rows share one parent shell", func(t *testing.T) {
		var parent domain.Product
		require.NoError(t, s.db.Where("product_name = ?", "Runner Pro").First(&parent).Error)
		assert.Equal(t, domain.ProductTypeVariant, parent.Type)
		assert.Len(t, parent.Variants, 2)

		var variant domain.ProductVariant
		require.NoError(t, s.db.Where("sku = ?", "RP-RED-42").First(&variant).Error)
		assert.Equal(t, "img/red1.jpg", variant.FeatureImg)
		assert.Len(t, variant.Attributes, 2)
	})
}

func TestExportRoundTrip(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.Import(ctx, []ProductRow{
		{Category: "Shoes", ProductName: "Air Max", Sku: "AM-001", Type: "simple", Price: 100, SalePrice: 75, Stock: 10},
		{Category: "Shoes", ProductName: "Runner Pro", Sku: "RP-RED-42", Type: "variant", Price: 120, Attributes: "color:red"},
	})
	require.NoError(t, err)

	rows, err := s.Export(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Air Max", rows[0].ProductName)
	assert.Equal(t, "simple", rows[0].Type)
	assert.Equal(t, 75.0, rows[0].SalePrice)

	assert.Equal(t, "Runner Pro", rows[1].ProductName)
	assert.Equal(t, "variant", rows[1].Type)
	assert.Equal(t, "RP-RED-42", rows[1].Sku)
	assert.Equal(t, "color:red", rows[1].Attributes)

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, s.ExportCSV(ctx, &buf))
		out := buf.String()
		assert.True(t, strings.HasPrefix(out, "category,"))
		assert.Contains(t, out, "AM-001")

		var parsed []ProductRow
		require.NoError(t, gocsv.Unmarshal(strings.NewReader(out), &parsed))
		assert.Len(t, parsed, 2)
	})

	t.Run("xlsx", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, s.ExportXLSX(ctx, &buf))
		assert.NotZero(t, buf.Len())
	})
}
