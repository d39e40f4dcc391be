package blog

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

// Service manages blog posts, their categories and tags. Blog category slugs
// use dashes, unlike the catalog's underscore slugs.
type Service struct {
	db  *gorm.DB
	seq *sequence.Allocator
}

func NewService(db *gorm.DB, seq *sequence.Allocator) *Service {
	return &Service{db: db, seq: seq}
}

type CreateBlogCategoryInput struct {
	CategoryName string `json:"category_name"`
	Image        string `json:"image"`
}

func (s *Service) CreateCategory(ctx context.Context, in CreateBlogCategoryInput) (*domain.BlogCategory, error) {
	name := strings.TrimSpace(in.CategoryName)
	if name == "" {
		return nil, domain.NewValidationError("category_name", "category name is required")
	}
	slug := common.Slugify(name, "-")

	// Uniqueness rides on the slug: distinct names can collapse to one slug.
	var count int64
	if err := s.db.WithContext(ctx).Model(&domain.BlogCategory{}).
		Where("slug = ?", slug).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, domain.NewValidationError("category_name", "a category with the same slug already exists")
	}

	id, err := s.seq.Next(ctx, sequence.BlogCategoryID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	category := &domain.BlogCategory{
		ID:           id,
		CategoryName: name,
		Slug:         slug,
		Image:        in.Image,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory renames a category, regenerating its slug.
func (s *Service) UpdateCategory(ctx context.Context, id int64, in CreateBlogCategoryInput) (*domain.BlogCategory, error) {
	var category domain.BlogCategory
	err := s.db.WithContext(ctx).First(&category, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError("blog_category", id)
	}
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(in.CategoryName); name != "" {
		slug := common.Slugify(name, "-")
		var count int64
		if err := s.db.WithContext(ctx).Model(&domain.BlogCategory{}).
			Where("slug = ? AND id <> ?", slug, id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, domain.NewValidationError("category_name", "a category with the same slug already exists")
		}
		category.CategoryName = name
		category.Slug = slug
	}
	if in.Image != "" {
		category.Image = in.Image
	}
	category.UpdatedAt = time.Now()
	if err := s.db.WithContext(ctx).Save(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *Service) ListCategories(ctx context.Context) ([]domain.BlogCategory, error) {
	var categories []domain.BlogCategory
	err := s.db.WithContext(ctx).Order("category_name ASC").Find(&categories).Error
	return categories, err
}

func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&domain.BlogCategory{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.NewNotFoundError("blog_category", id)
	}
	return nil
}

func (s *Service) findOrCreateTag(ctx context.Context, tx *gorm.DB, name string) (*domain.BlogTag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("tag", "tag name is required")
	}
	var tag domain.BlogTag
	err := tx.Where("LOWER(name) = LOWER(?)", name).First(&tag).Error
	if err == nil {
		return &tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	id, err := s.seq.NextTx(ctx, tx, sequence.BlogTagID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	tag = domain.BlogTag{ID: id, Name: name, CreatedAt: now, UpdatedAt: now}
	if err := tx.Create(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (s *Service) ListTags(ctx context.Context) ([]domain.BlogTag, error) {
	var tags []domain.BlogTag
	err := s.db.WithContext(ctx).Order("name ASC").Find(&tags).Error
	return tags, err
}

type CreateBlogInput struct {
	Title       string   `json:"title"`
	Excerpt     string   `json:"excerpt"`
	Content     string   `json:"content"`
	FeatureImg  string   `json:"feature_img"`
	CategoryIDs []int64  `json:"blog_category_id"`
	Tags        []string `json:"blog_tags"`
}

// CreateBlog validates the referenced categories and resolves tag names
// find-or-create before the post is written.
func (s *Service) CreateBlog(ctx context.Context, in CreateBlogInput) (*domain.Blog, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.NewValidationError("title", "title is required")
	}
	if len(in.CategoryIDs) > 0 {
		var count int64
		if err := s.db.WithContext(ctx).Model(&domain.BlogCategory{}).
			Where("id IN ?", in.CategoryIDs).Count(&count).Error; err != nil {
			return nil, err
		}
		if count != int64(len(in.CategoryIDs)) {
			return nil, domain.NewValidationError("blog_category_id", "blog category does not exist")
		}
	}

	id, err := s.seq.Next(ctx, sequence.BlogID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	post := &domain.Blog{
		ID:          id,
		CategoryIDs: in.CategoryIDs,
		Title:       title,
		Excerpt:     in.Excerpt,
		Content:     in.Content,
		FeatureImg:  in.FeatureImg,
		TagIDs:      []int64{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, name := range in.Tags {
			tag, err := s.findOrCreateTag(ctx, tx, name)
			if err != nil {
				return err
			}
			post.TagIDs = append(post.TagIDs, tag.ID)
		}
		return tx.Create(post).Error
	})
	if err != nil {
		return nil, err
	}
	zap.L().Info("blog created", zap.Int64("id", id), zap.String("title", title))
	return post, nil
}

func (s *Service) GetBlog(ctx context.Context, id int64) (*domain.Blog, error) {
	var post domain.Blog
	err := s.db.WithContext(ctx).First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError("blog", id)
	}
	return &post, err
}

func (s *Service) ListBlogs(ctx context.Context, page, perPage int) ([]domain.Blog, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&domain.Blog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if perPage <= 0 {
		perPage = 20
	}
	if page < 0 {
		page = 0
	}
	var posts []domain.Blog
	err := s.db.WithContext(ctx).Order("id DESC").
		Offset(page * perPage).Limit(perPage).
		Find(&posts).Error
	return posts, total, err
}

type UpdateBlogInput struct {
	Title       *string  `json:"title"`
	Excerpt     *string  `json:"excerpt"`
	Content     *string  `json:"content"`
	FeatureImg  *string  `json:"feature_img"`
	CategoryIDs []int64  `json:"blog_category_id"`
	Tags        []string `json:"blog_tags"`
}

func (s *Service) UpdateBlog(ctx context.Context, id int64, in UpdateBlogInput) (*domain.Blog, error) {
	post, err := s.GetBlog(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, domain.NewValidationError("title", "title is required")
		}
		post.Title = title
	}
	if in.Excerpt != nil {
		post.Excerpt = *in.Excerpt
	}
	if in.Content != nil {
		post.Content = *in.Content
	}
	if in.FeatureImg != nil {
		post.FeatureImg = *in.FeatureImg
	}
	if in.CategoryIDs != nil {
		var count int64
		if len(in.CategoryIDs) > 0 {
			if err := s.db.WithContext(ctx).Model(&domain.BlogCategory{}).
				Where("id IN ?", in.CategoryIDs).Count(&count).Error; err != nil {
				return nil, err
			}
			if count != int64(len(in.CategoryIDs)) {
				return nil, domain.NewValidationError("blog_category_id", "blog category does not exist")
			}
		}
		post.CategoryIDs = in.CategoryIDs
	}
	post.UpdatedAt = time.Now()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.Tags != nil {
			post.TagIDs = post.TagIDs[:0]
			for _, name := range in.Tags {
				tag, err := s.findOrCreateTag(ctx, tx, name)
				if err != nil {
					return err
				}
				post.TagIDs = append(post.TagIDs, tag.ID)
			}
		}
		return tx.Save(post).Error
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (s *Service) DeleteBlog(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&domain.Blog{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.NewNotFoundError("blog", id)
	}
	return nil
}
