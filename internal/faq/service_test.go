package faq

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

func TestCreateFaqs(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	faqs, err := s.Create(ctx, []CreateFaqInput{
		{Title: "How long does shipping take?", Description: "Three to five business days."},
		{Title: "Can I return an item?", Description: "Within 30 days of delivery."},
	})
	require.NoError(t, err)
	require.Len(t, faqs, 2)
	assert.Equal(t, int64(1), faqs[0].ID)
	assert.Equal(t, int64(2), faqs[1].ID)

	t.Run("empty batch rejected", func(t *testing.T) {
		_, err := s.Create(ctx, nil)
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("invalid row rejected before allocation", func(t *testing.T) {
		before, err := s.seq.Current(ctx, sequence.FaqID)
		require.NoError(t, err)
		_, err = s.Create(ctx, []CreateFaqInput{
			{Title: "Valid", Description: "Valid."},
			{Title: "No description"},
		})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "description", verr.Field)
		after, err := s.seq.Current(ctx, sequence.FaqID)
		require.NoError(t, err)
		assert.Equal(t, before, after, "failed validation must not consume an id")
	})
}

func TestListFaqs(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.Create(ctx, []CreateFaqInput{
		{Title: "First", Description: "A."},
		{Title: "Second", Description: "B."},
	})
	require.NoError(t, err)

	faqs, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, faqs, 2)
	assert.Equal(t, "First", faqs[0].Title, "oldest entry comes first")
}

func TestDeleteFaq(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	faqs, err := s.Create(ctx, []CreateFaqInput{
		{Title: "Keep or toss?", Description: "Toss."},
	})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, faqs[0].ID))

	var nf *domain.NotFoundError
	err = s.Delete(ctx, faqs[0].ID)
	require.ErrorAs(t, err, &nf)
}
