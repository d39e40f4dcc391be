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

// Service is the entity graph manager for the product catalog. Every write
// runs the same pipeline: validate references, allocate an id, compute
// derived fields, persist, then maintain back-references on parents.
type Service struct {
	db  *gorm.DB
	seq *sequence.Allocator
}

func NewService(db *gorm.DB, seq *sequence.Allocator) *Service {
	return &Service{db: db, seq: seq}
}

type CreateCategoryInput struct {
	CategoryName string `json:"category_name"`
	CategoryImg  string `json:"category_img"`
}

func (s *Service) CreateCategory(ctx context.Context, in CreateCategoryInput) (*domain.Category, error) {
	name := strings.ToLower(strings.TrimSpace(in.CategoryName))
	if name == "" {
		return nil, domain.NewValidationError("category_name", "category name is required")
	}
	slug := common.Slugify(name, "_")

	// Distinct names can derive the same slug, so uniqueness is checked on
	// the slug rather than the name.
	var count int64
	if err := s.db.WithContext(ctx).Model(&domain.Category{}).
		Where("category_slug = ?", slug).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, domain.NewValidationError("category_name", "a category with the same slug already exists")
	}

	id, err := s.seq.Next(ctx, sequence.CategoryID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	category := &domain.Category{
		ID:           id,
		CategoryName: name,
		CategorySlug: slug,
		CategoryImg:  in.CategoryImg,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	zap.L().Info("category created", zap.Int64("id", id), zap.String("name", name))
	return category, nil
}

func (s *Service) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	var category domain.Category
	err := s.db.WithContext(ctx).First(&category, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError("category", id)
	}
	return &category, err
}

func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	err := s.db.WithContext(ctx).Order("category_name ASC").Find(&categories).Error
	return categories, err
}

type UpdateCategoryInput struct {
	CategoryName string `json:"category_name"`
	CategoryImg  string `json:"category_img"`
}

// UpdateCategory regenerates the slug whenever the name changes.
func (s *Service) UpdateCategory(ctx context.Context, id int64, in UpdateCategoryInput) (*domain.Category, error) {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	name := strings.ToLower(strings.TrimSpace(in.CategoryName))
	if name == "" {
		return nil, domain.NewValidationError("category_name", "category name is required")
	}
	slug := common.Slugify(name, "_")
	var count int64
	if err := s.db.WithContext(ctx).Model(&domain.Category{}).
		Where("category_slug = ? AND id <> ?", slug, id).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, domain.NewValidationError("category_name", "a category with the same slug already exists")
	}
	category.CategoryName = name
	category.CategorySlug = slug
	if in.CategoryImg != "" {
		category.CategoryImg = in.CategoryImg
	}
	category.UpdatedAt = time.Now()
	if err := s.db.WithContext(ctx).Save(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory does not cascade: subcategories and products keep their
// category_id even when the category is gone. Reads tolerate the orphan.
func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&domain.Category{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.NewNotFoundError("category", id)
	}
	return nil
}

type CreateSubcategoryInput struct {
	SubcategoryName string `json:"subcategory_name"`
	SubcategoryImg  string `json:"subcategory_img"`
	CategoryID      int64  `json:"category_id"`
}

func (s *Service) CreateSubcategory(ctx context.Context, in CreateSubcategoryInput) (*domain.Subcategory, error) {
	name := strings.ToLower(strings.TrimSpace(in.SubcategoryName))
	if name == "" {
		return nil, domain.NewValidationError("subcategory_name", "subcategory name is required")
	}
	slug := common.Slugify(name, "_")

	var count int64
	if err := s.db.WithContext(ctx).Model(&domain.Category{}).
		Where("id = ?", in.CategoryID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, domain.NewValidationError("category_id", "category does not exist")
	}

	// Slugs are globally unique across subcategories, so the check cannot be
	// scoped to the category.
	if err := s.db.WithContext(ctx).Model(&domain.Subcategory{}).
		Where("subcategory_slug = ?", slug).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, domain.NewValidationError("subcategory_name", "a subcategory with the same slug already exists")
	}

	id, err := s.seq.Next(ctx, sequence.SubcategoryID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	subcategory := &domain.Subcategory{
		ID:              id,
		SubcategoryName: name,
		SubcategorySlug: slug,
		SubcategoryImg:  in.SubcategoryImg,
		CategoryID:      in.CategoryID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.db.WithContext(ctx).Create(subcategory).Error; err != nil {
		return nil, err
	}
	zap.L().Info("subcategory created",
		zap.Int64("id", id),
		zap.Int64("category_id", in.CategoryID),
		zap.String("name", name))
	return subcategory, nil
}

func (s *Service) GetSubcategory(ctx context.Context, id int64) (*domain.Subcategory, error) {
	var subcategory domain.Subcategory
	err := s.db.WithContext(ctx).First(&subcategory, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError("subcategory", id)
	}
	return &subcategory, err
}

func (s *Service) ListSubcategories(ctx context.Context) ([]domain.Subcategory, error) {
	var subcategories []domain.Subcategory
	err := s.db.WithContext(ctx).Order("subcategory_name ASC").Find(&subcategories).Error
	return subcategories, err
}

type UpdateSubcategoryInput struct {
	SubcategoryName string `json:"subcategory_name"`
	SubcategoryImg  string `json:"subcategory_img"`
}

func (s *Service) UpdateSubcategory(ctx context.Context, id int64, in UpdateSubcategoryInput) (*domain.Subcategory, error) {
	subcategory, err := s.GetSubcategory(ctx, id)
	if err != nil {
		return nil, err
	}
	name := strings.ToLower(strings.TrimSpace(in.SubcategoryName))
	if name == "" {
		return nil, domain.NewValidationError("subcategory_name", "subcategory name is required")
	}
	slug := common.Slugify(name, "_")
	var count int64
	if err := s.db.WithContext(ctx).Model(&domain.Subcategory{}).
		Where("subcategory_slug = ? AND id <> ?", slug, id).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, domain.NewValidationError("subcategory_name", "a subcategory with the same slug already exists")
	}
	subcategory.SubcategoryName = name
	subcategory.SubcategorySlug = slug
	if in.SubcategoryImg != "" {
		subcategory.SubcategoryImg = in.SubcategoryImg
	}
	subcategory.UpdatedAt = time.Now()
	if err := s.db.WithContext(ctx).Save(subcategory).Error; err != nil {
		return nil, err
	}
	return subcategory, nil
}

// DeleteSubcategory does not cascade, same as DeleteCategory.
func (s *Service) DeleteSubcategory(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&domain.Subcategory{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.NewNotFoundError("subcategory", id)
	}
	return nil
}
