package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

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
	return NewService(db, sequence.NewAllocator(db))
}

func TestCreateCategory(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	t.Run("first category gets id 1 and a derived slug", func(t *testing.T) {
		category, err := s.CreateCategory(ctx, CreateCategoryInput{CategoryName: "Shoes"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), category.ID)
		assert.Equal(t, "shoes", category.CategoryName)
		assert.Equal(t, "shoes", category.CategorySlug)
	})

	t.Run("ids increment", func(t *testing.T) {
		category, err := s.CreateCategory(ctx, CreateCategoryInput{CategoryName: "Winter Gear"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), category.ID)
		assert.Equal(t, "winter_gear", category.CategorySlug)
	})

	t.Run("duplicate name rejected", func(t *testing.T) {
		_, err := s.CreateCategory(ctx, CreateCategoryInput{CategoryName: "SHOES"})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "category_name", verr.Field)
	})

	t.Run("distinct names colliding on the slug rejected", func(t *testing.T) {
		_, err := s.CreateCategory(ctx, CreateCategoryInput{CategoryName: "Winter-Gear"})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "category_name", verr.Field)
	})

	t.Run("empty name rejected before allocation", func(t *testing.T) {
		before, err := s.seq.Current(ctx, sequence.CategoryID)
		require.NoError(t, err)
		_, err = s.CreateCategory(ctx, CreateCategoryInput{CategoryName: "   "})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		after, err := s.seq.Current(ctx, sequence.CategoryID)
		require.NoError(t, err)
		assert.Equal(t, before, after, "failed validation must not consume an id")
	})
}

func TestCreateSubcategory(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	category, err := s.CreateCategory(ctx, CreateCategoryInput{CategoryName: "Shoes"})
	require.NoError(t, err)

	t.Run("valid parent", func(t *testing.T) {
		subcategory, err := s.CreateSubcategory(ctx, CreateSubcategoryInput{
			SubcategoryName: "Running",
			CategoryID:      category.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), subcategory.ID)
		assert.Equal(t, "running", subcategory.SubcategorySlug)
		assert.Equal(t, category.ID, subcategory.CategoryID)
	})

	t.Run("missing parent rejected", func(t *testing.T) {
		_, err := s.CreateSubcategory(ctx, CreateSubcategoryInput{
			SubcategoryName: "Hiking",
			CategoryID:      999,
		})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "category_id", verr.Field)
	})
}

func TestCreateProductSimple(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	category, err := s.CreateCategory(ctx, CreateCategoryInput{CategoryName: "Shoes"})
	require.NoError(t, err)
	subcategory, err := s.CreateSubcategory(ctx, CreateSubcategoryInput{
		SubcategoryName: "Running",
		CategoryID:      category.ID,
	})
	require.NoError(t, err)

	product, err := s.CreateProduct(ctx, CreateProductInput{
		ProductName:   "Air Max",
		Sku:           "AM-001",
		Type:          domain.ProductTypeSimple,
		Price:         100,
		SalePrice:     75,
		CategoryID:    category.ID,
		SubcategoryID: subcategory.ID,
		Stock:         10,
		GalleryImages: []string{"img/am1.jpg", "img/am2.jpg"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), product.ID)
	assert.Equal(t, "air_max", product.ProductSlug)
	assert.Equal(t, 25, product.Percentage)
	require.NotZero(t, product.ProductGallery)

	gallery, err := s.GetGallery(ctx, product.ProductGallery)
	require.NoError(t, err)
	assert.Equal(t, product.ID, gallery.ProductID)
	assert.Zero(t, gallery.VariantID)
	assert.Equal(t, []string{"img/am1.jpg", "img/am2.jpg"}, gallery.Images)

	t.Run("sku required for simple", func(t *testing.T) {
		_, err := s.CreateProduct(ctx, CreateProductInput{
			ProductName: "No Sku",
			Type:        domain.ProductTypeSimple,
			Price:       10,
			CategoryID:  category.ID,
		})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "sku", verr.Field)
	})

	t.Run("unknown category rejected", func(t *testing.T) {
		_, err := s.CreateProduct(ctx, CreateProductInput{
			ProductName: "Orphan",
			Sku:         "OR-1",
			Type:        domain.ProductTypeSimple,
			Price:       10,
			CategoryID:  42,
		})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "category_id", verr.Field)
	})

	t.Run("distinct names colliding on the slug rejected", func(t *testing.T) {
		_, err := s.CreateProduct(ctx, CreateProductInput{
			ProductName: "Air-Max",
			Sku:         "AM-002",
			Type:        domain.ProductTypeSimple,
			Price:       100,
			CategoryID:  category.ID,
		})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "product_name", verr.Field)
	})
}

func TestUpdateProductDerivedFields(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	category, err := s.CreateCategory(ctx, CreateCategoryInput{CategoryName: "Shoes"})
	require.NoError(t, err)
	product, err := s.CreateProduct(ctx, CreateProductInput{
		ProductName: "Air Max",
		Sku:         "AM-001",
		Type:        domain.ProductTypeSimple,
		Price:       100,
		SalePrice:   80,
		CategoryID:  category.ID,
	})
	require.NoError(t, err)
	require.Equal(t, 20, product.Percentage)

	newName := "Air Max 90"
	newSale := 75.0
	updated, err := s.UpdateProduct(ctx, product.ID, UpdateProductInput{
		ProductName: &newName,
		SalePrice:   &newSale,
	})
	require.NoError(t, err)
	assert.Equal(t, "air_max_90", updated.ProductSlug)
	assert.Equal(t, 25, updated.Percentage)

	noSale := 0.0
	updated, err = s.UpdateProduct(ctx, product.ID, UpdateProductInput{SalePrice: &noSale})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Percentage)

	t.Run("rename colliding on another product's slug rejected", func(t *testing.T) {
		other, err := s.CreateProduct(ctx, CreateProductInput{
			ProductName: "Pegasus",
			Sku:         "PG-1",
			Type:        domain.ProductTypeSimple,
			Price:       90,
			CategoryID:  category.ID,
		})
		require.NoError(t, err)

		clash := "Air-Max 90"
		_, err = s.UpdateProduct(ctx, other.ID, UpdateProductInput{ProductName: &clash})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "product_name", verr.Field)
	})
}

func TestCreateVariant(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	category, err := s.CreateCategory(ctx, CreateCategoryInput{CategoryName: "Shoes"})
	require.NoError(t, err)
	product, err := s.CreateProduct(ctx, CreateProductInput{
		ProductName: "Runner Pro",
		Type:        domain.ProductTypeVariant,
		CategoryID:  category.ID,
	})
	require.NoError(t, err)

	variant, err := s.CreateVariant(ctx, CreateVariantInput{
		ProductID: product.ID,
		Sku:       "RP-RED-42",
		Price:     120,
		SalePrice: 90,
		Stock:     5,
		Attributes: []VariantAttributeInput{
			{Name: "color", Value: "red"},
			{Name: "size", Value: "42"},
		},
		GalleryImages: []string{"img/red1.jpg", "img/red2.jpg"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), variant.ID)
	assert.Equal(t, 25, variant.Percentage)
	assert.Equal(t, "img/red1.jpg", variant.FeatureImg, "feature image derives from first gallery image")
	assert.Len(t, variant.Attributes, 2)

	parent, err := s.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{variant.ID}, parent.Variants)
	assert.Len(t, parent.Attributes, 2)

	t.Run("attribute reuse on second variant", func(t *testing.T) {
		second, err := s.CreateVariant(ctx, CreateVariantInput{
			ProductID: product.ID,
			Sku:       "RP-BLUE-42",
			Price:     120,
			Attributes: []VariantAttributeInput{
				{Name: "Color", Value: "blue"},
				{Name: "size", Value: "42"},
			},
		})
		require.NoError(t, err)

		attributes, err := s.ListAttributes(ctx)
		require.NoError(t, err)
		assert.Len(t, attributes, 2, "color and size must not be duplicated")

		parent, err := s.GetProduct(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, []int64{variant.ID, second.ID}, parent.Variants)
		assert.Len(t, parent.Attributes, 2)
	})

	t.Run("simple product rejects variants", func(t *testing.T) {
		simple, err := s.CreateProduct(ctx, CreateProductInput{
			ProductName: "Plain Shoe",
			Sku:         "PS-1",
			Type:        domain.ProductTypeSimple,
			Price:       50,
			CategoryID:  category.ID,
		})
		require.NoError(t, err)
		_, err = s.CreateVariant(ctx, CreateVariantInput{
			ProductID: simple.ID,
			Sku:       "PS-1-V",
			Price:     50,
		})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "product_id", verr.Field)
	})

	t.Run("missing product rejected", func(t *testing.T) {
		_, err := s.CreateVariant(ctx, CreateVariantInput{ProductID: 999, Sku: "X", Price: 1})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
	})
}

func TestDeleteProductCascades(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	category, err := s.CreateCategory(ctx, CreateCategoryInput{CategoryName: "Shoes"})
	require.NoError(t, err)
	product, err := s.CreateProduct(ctx, CreateProductInput{
		ProductName: "Runner Pro",
		Type:        domain.ProductTypeVariant,
		CategoryID:  category.ID,
	})
	require.NoError(t, err)
	variant, err := s.CreateVariant(ctx, CreateVariantInput{
		ProductID:     product.ID,
		Sku:           "RP-RED-42",
		Price:         120,
		GalleryImages: []string{"img/red1.jpg"},
	})
	require.NoError(t, err)

	require.NoError(t, s.DeleteProduct(ctx, product.ID))

	_, err = s.GetProduct(ctx, product.ID)
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)

	_, err = s.GetVariant(ctx, variant.ID)
	require.ErrorAs(t, err, &nf)

	var galleries int64
	require.NoError(t, s.db.Model(&domain.ProductGallery{}).
		Where("variant_id = ?", variant.ID).Count(&galleries).Error)
	assert.Zero(t, galleries)

	t.Run("deleting again reports not found", func(t *testing.T) {
		err := s.DeleteProduct(ctx, product.ID)
		require.ErrorAs(t, err, &nf)
	})
}

func TestDeleteVariantUpdatesParent(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	category, err := s.CreateCategory(ctx, CreateCategoryInput{CategoryName: "Shoes"})
	require.NoError(t, err)
	product, err := s.CreateProduct(ctx, CreateProductInput{
		ProductName: "Runner Pro",
		Type:        domain.ProductTypeVariant,
		CategoryID:  category.ID,
	})
	require.NoError(t, err)
	first, err := s.CreateVariant(ctx, CreateVariantInput{ProductID: product.ID, Sku: "V-1", Price: 10})
	require.NoError(t, err)
	second, err := s.CreateVariant(ctx, CreateVariantInput{ProductID: product.ID, Sku: "V-2", Price: 10})
	require.NoError(t, err)

	require.NoError(t, s.DeleteVariant(ctx, first.ID))

	parent, err := s.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{second.ID}, parent.Variants)
}

func TestUpdateVariantAttributes(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	category, err := s.CreateCategory(ctx, CreateCategoryInput{CategoryName: "Shoes"})
	require.NoError(t, err)
	product, err := s.CreateProduct(ctx, CreateProductInput{
		ProductName: "Runner Pro",
		Type:        domain.ProductTypeVariant,
		CategoryID:  category.ID,
	})
	require.NoError(t, err)
	variant, err := s.CreateVariant(ctx, CreateVariantInput{
		ProductID:  product.ID,
		Sku:        "RP-RED-42",
		Price:      120,
		Attributes: []VariantAttributeInput{{Name: "color", Value: "red"}},
	})
	require.NoError(t, err)

	updated, err := s.UpdateVariant(ctx, variant.ID, UpdateVariantInput{
		Attributes: []VariantAttributeInput{{Name: "size", Value: "42"}},
	})
	require.NoError(t, err)
	assert.Len(t, updated.Attributes, 1)

	parent, err := s.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Len(t, parent.Attributes, 2, "new attributes merge into the parent")

	t.Run("orphaned variant still updates", func(t *testing.T) {
		require.NoError(t, s.db.Delete(&domain.Product{}, product.ID).Error)
		_, err := s.UpdateVariant(ctx, variant.ID, UpdateVariantInput{
			Attributes: []VariantAttributeInput{{Name: "material", Value: "mesh"}},
		})
		require.NoError(t, err)
	})
}

func TestAttributeLifecycle(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	attribute, err := s.CreateAttribute(ctx, CreateAttributeInput{
		Name:   "color",
		Values: []string{"red", "blue"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), attribute.ID)
	require.Len(t, attribute.Values, 2)
	assert.Equal(t, int64(1), attribute.Values[0].ID)
	assert.Equal(t, int64(2), attribute.Values[1].ID)

	t.Run("duplicate name rejected", func(t *testing.T) {
		_, err := s.CreateAttribute(ctx, CreateAttributeInput{Name: "Color"})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("delete cascades to values", func(t *testing.T) {
		require.NoError(t, s.DeleteAttribute(ctx, attribute.ID))
		var values int64
		require.NoError(t, s.db.Model(&domain.ProductAttributeValue{}).
			Where("attribute_id = ?", attribute.ID).Count(&values).Error)
		assert.Zero(t, values)
	})
}

func TestGalleryOwnership(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	t.Run("no owner rejected", func(t *testing.T) {
		_, err := s.CreateGallery(ctx, CreateGalleryInput{Images: []string{"a.jpg"}})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "owner", verr.Field)
	})

	t.Run("missing owner target rejected", func(t *testing.T) {
		_, err := s.CreateGallery(ctx, CreateGalleryInput{
			Owner:  OwnedByProduct(404),
			Images: []string{"a.jpg"},
		})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("product-owned gallery writes back-reference", func(t *testing.T) {
		category, err := s.CreateCategory(ctx, CreateCategoryInput{CategoryName: "Shoes"})
		require.NoError(t, err)
		product, err := s.CreateProduct(ctx, CreateProductInput{
			ProductName: "Bare",
			Sku:         "B-1",
			Type:        domain.ProductTypeSimple,
			Price:       10,
			CategoryID:  category.ID,
		})
		require.NoError(t, err)
		require.Zero(t, product.ProductGallery)

		gallery, err := s.CreateGallery(ctx, CreateGalleryInput{
			Owner:  OwnedByProduct(product.ID),
			Images: []string{"b.jpg"},
		})
		require.NoError(t, err)

		reloaded, err := s.GetProduct(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, gallery.ID, reloaded.ProductGallery)
	})
}
