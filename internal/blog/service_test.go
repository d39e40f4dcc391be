package blog

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

func TestBlogCategorySlug(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	category, err := s.CreateCategory(ctx, CreateBlogCategoryInput{CategoryName: "Tech News"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), category.ID)
	assert.Equal(t, "tech-news", category.Slug, "blog slugs use dashes")

	_, err = s.CreateCategory(ctx, CreateBlogCategoryInput{CategoryName: "tech news"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)

	t.Run("distinct names colliding on the slug rejected", func(t *testing.T) {
		_, err := s.CreateCategory(ctx, CreateBlogCategoryInput{CategoryName: "Tech-News"})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "category_name", verr.Field)
	})

	t.Run("rename regenerates the slug", func(t *testing.T) {
		renamed, err := s.UpdateCategory(ctx, category.ID,
			CreateBlogCategoryInput{CategoryName: "Product Updates"})
		require.NoError(t, err)
		assert.Equal(t, "product-updates", renamed.Slug)
	})

	t.Run("unknown category reports not found", func(t *testing.T) {
		_, err := s.UpdateCategory(ctx, 404, CreateBlogCategoryInput{CategoryName: "X"})
		var nf *domain.NotFoundError
		require.ErrorAs(t, err, &nf)
	})
}

func TestCreateBlog(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	category, err := s.CreateCategory(ctx, CreateBlogCategoryInput{CategoryName: "Tech News"})
	require.NoError(t, err)

	post, err := s.CreateBlog(ctx, CreateBlogInput{
		Title:       "Hello World",
		Content:     "First post.",
		CategoryIDs: []int64{category.ID},
		Tags:        []string{"go", "backend"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), post.ID)
	assert.Len(t, post.TagIDs, 2)

	t.Run("tags are reused across posts", func(t *testing.T) {
		second, err := s.CreateBlog(ctx, CreateBlogInput{
			Title: "Second",
			Tags:  []string{"GO", "performance"},
		})
		require.NoError(t, err)
		assert.Len(t, second.TagIDs, 2)

		tags, err := s.ListTags(ctx)
		require.NoError(t, err)
		assert.Len(t, tags, 3, "go must not be duplicated")
	})

	t.Run("unknown category rejected", func(t *testing.T) {
		_, err := s.CreateBlog(ctx, CreateBlogInput{Title: "Bad", CategoryIDs: []int64{404}})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("empty title rejected", func(t *testing.T) {
		_, err := s.CreateBlog(ctx, CreateBlogInput{Title: "   "})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
	})
}

func TestUpdateBlogTags(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	post, err := s.CreateBlog(ctx, CreateBlogInput{Title: "Post", Tags: []string{"old"}})
	require.NoError(t, err)

	updated, err := s.UpdateBlog(ctx, post.ID, UpdateBlogInput{Tags: []string{"new", "fresh"}})
	require.NoError(t, err)
	assert.Len(t, updated.TagIDs, 2)
	assert.NotContains(t, updated.TagIDs, post.TagIDs[0])

	t.Run("nil tags leaves them untouched", func(t *testing.T) {
		title := "Renamed"
		kept, err := s.UpdateBlog(ctx, post.ID, UpdateBlogInput{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, updated.TagIDs, kept.TagIDs)
	})
}
