package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/ecomcore/storefront/internal/domain"
	"github.com/ecomcore/storefront/internal/sequence"
)

type CreateAttributeInput struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// AttributeWithValues is the read shape: the attribute plus its value rows.
type AttributeWithValues struct {
	domain.ProductAttribute
	Values []domain.ProductAttributeValue `json:"values"`
}

func (s *Service) CreateAttribute(ctx context.Context, in CreateAttributeInput) (*AttributeWithValues, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "attribute name is required")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&domain.ProductAttribute{}).
		Where("LOWER(name) = LOWER(?)", name).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, domain.NewValidationError("name", "attribute already exists")
	}

	id, err := s.seq.Next(ctx, sequence.AttributeID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	attribute := &domain.ProductAttribute{ID: id, Name: name, CreatedAt: now, UpdatedAt: now}
	result := &AttributeWithValues{ProductAttribute: *attribute}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(attribute).Error; err != nil {
			return err
		}
		for _, v := range in.Values {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			valueID, err := s.seq.NextTx(ctx, tx, sequence.AttributeValueID)
			if err != nil {
				return err
			}
			value := domain.ProductAttributeValue{
				ID:          valueID,
				Value:       v,
				AttributeID: id,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := tx.Create(&value).Error; err != nil {
				return err
			}
			result.Values = append(result.Values, value)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) GetAttribute(ctx context.Context, id int64) (*AttributeWithValues, error) {
	var attribute domain.ProductAttribute
	err := s.db.WithContext(ctx).First(&attribute, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError("attribute", id)
	}
	if err != nil {
		return nil, err
	}
	result := &AttributeWithValues{ProductAttribute: attribute}
	err = s.db.WithContext(ctx).
		Where("attribute_id = ?", id).Order("id ASC").
		Find(&result.Values).Error
	return result, err
}

func (s *Service) ListAttributes(ctx context.Context) ([]AttributeWithValues, error) {
	var attributes []domain.ProductAttribute
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&attributes).Error; err != nil {
		return nil, err
	}
	var values []domain.ProductAttributeValue
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&values).Error; err != nil {
		return nil, err
	}
	byAttr := make(map[int64][]domain.ProductAttributeValue, len(attributes))
	for _, v := range values {
		byAttr[v.AttributeID] = append(byAttr[v.AttributeID], v)
	}
	result := make([]AttributeWithValues, 0, len(attributes))
	for _, a := range attributes {
		result = append(result, AttributeWithValues{ProductAttribute: a, Values: byAttr[a.ID]})
	}
	return result, nil
}

type UpdateAttributeInput struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// UpdateAttribute renames the attribute and, when Values is non-nil, replaces
// the full value set. Replaced values get fresh ids; variants still pointing
// at the old value ids keep them, matching the no-resync rule for derived
// references.
func (s *Service) UpdateAttribute(ctx context.Context, id int64, in UpdateAttributeInput) (*AttributeWithValues, error) {
	existing, err := s.GetAttribute(ctx, id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "attribute name is required")
	}

	now := time.Now()
	existing.Name = name
	existing.UpdatedAt = now

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&existing.ProductAttribute).Error; err != nil {
			return err
		}
		if in.Values == nil {
			return nil
		}
		if err := tx.Where("attribute_id = ?", id).
			Delete(&domain.ProductAttributeValue{}).Error; err != nil {
			return err
		}
		existing.Values = existing.Values[:0]
		for _, v := range in.Values {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			valueID, err := s.seq.NextTx(ctx, tx, sequence.AttributeValueID)
			if err != nil {
				return err
			}
			value := domain.ProductAttributeValue{
				ID:          valueID,
				Value:       v,
				AttributeID: id,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := tx.Create(&value).Error; err != nil {
				return err
			}
			existing.Values = append(existing.Values, value)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return existing, nil
}

// DeleteAttribute cascades to the attribute's values inside one transaction.
func (s *Service) DeleteAttribute(ctx context.Context, id int64) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&domain.ProductAttribute{}).
		Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return domain.NewNotFoundError("attribute", id)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("attribute_id = ?", id).
			Delete(&domain.ProductAttributeValue{}).Error; err != nil {
			return &domain.DependencyError{Entity: "attribute_value", Err: err}
		}
		if err := tx.Delete(&domain.ProductAttribute{}, id).Error; err != nil {
			return &domain.DependencyError{Entity: "attribute", Err: err}
		}
		return nil
	})
}

// findOrCreateAttribute resolves an attribute by case-insensitive name,
// creating it on miss. Used by the variant path and the bulk importer, where
// attribute rows arrive as names rather than ids.
func (s *Service) findOrCreateAttribute(ctx context.Context, tx *gorm.DB, name string) (*domain.ProductAttribute, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("attribute", "attribute name is required")
	}
	var attribute domain.ProductAttribute
	err := tx.Where("LOWER(name) = LOWER(?)", name).First(&attribute).Error
	if err == nil {
		return &attribute, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	id, err := s.seq.NextTx(ctx, tx, sequence.AttributeID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	attribute = domain.ProductAttribute{ID: id, Name: name, CreatedAt: now, UpdatedAt: now}
	if err := tx.Create(&attribute).Error; err != nil {
		return nil, err
	}
	return &attribute, nil
}

func (s *Service) findOrCreateAttributeValue(ctx context.Context, tx *gorm.DB, attributeID int64, value string) (*domain.ProductAttributeValue, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, domain.NewValidationError("value", "attribute value is required")
	}
	var row domain.ProductAttributeValue
	err := tx.Where("attribute_id = ? AND LOWER(value) = LOWER(?)", attributeID, value).
		First(&row).Error
	if err == nil {
		return &row, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	id, err := s.seq.NextTx(ctx, tx, sequence.AttributeValueID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	row = domain.ProductAttributeValue{
		ID:          id,
		Value:       value,
		AttributeID: attributeID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := tx.Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}
