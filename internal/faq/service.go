// Package faq manages the storefront's frequently-asked-questions entries.
package faq

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ecomcore/storefront/internal/domain"
	"github.com/ecomcore/storefront/internal/sequence"
)

type Service struct {
	db  *gorm.DB
	seq *sequence.Allocator
}

func NewService(db *gorm.DB, seq *sequence.Allocator) *Service {
	return &Service{db: db, seq: seq}
}

type CreateFaqInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Create accepts a batch of entries so an admin can publish a whole FAQ page
// in one request. Every row is validated before any id is allocated, and the
// batch persists in one transaction: either all rows land or none do.
func (s *Service) Create(ctx context.Context, in []CreateFaqInput) ([]domain.Faq, error) {
	if len(in) == 0 {
		return nil, domain.NewValidationError("faqs", "at least one entry is required")
	}
	for _, row := range in {
		if strings.TrimSpace(row.Title) == "" {
			return nil, domain.NewValidationError("title", "title is required")
		}
		if strings.TrimSpace(row.Description) == "" {
			return nil, domain.NewValidationError("description", "description is required")
		}
	}

	now := time.Now()
	faqs := make([]domain.Faq, 0, len(in))
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, row := range in {
			id, err := s.seq.NextTx(ctx, tx, sequence.FaqID)
			if err != nil {
				return err
			}
			entry := domain.Faq{
				ID:          id,
				Title:       strings.TrimSpace(row.Title),
				Description: row.Description,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
			faqs = append(faqs, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	zap.L().Info("faqs created", zap.Int("count", len(faqs)))
	return faqs, nil
}

// List returns every entry in publication order, oldest first.
func (s *Service) List(ctx context.Context) ([]domain.Faq, error) {
	var faqs []domain.Faq
	err := s.db.WithContext(ctx).Order("id ASC").Find(&faqs).Error
	return faqs, err
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&domain.Faq{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.NewNotFoundError("faq", id)
	}
	return nil
}
