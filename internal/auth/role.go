package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"golang.org/x/crypto/bcrypt"

	"github.com/ecomcore/storefront/internal/domain"
	"github.com/ecomcore/storefront/internal/sequence"
	"github.com/ecomcore/storefront/pkg/common"
)

// roleSlug derives the unique slug for a role name. Role slugs carry a
// leading underscore to keep them out of the user-facing slug namespace.
func roleSlug(name string) string {
	return "_" + common.Slugify(name, "_")
}

type CreateRoleInput struct {
	RoleName  string `json:"role_name"`
	IsDefault bool   `json:"is_default"`
	CreatedBy int64  `json:"created_by"`
}

func (s *Service) CreateRole(ctx context.Context, in CreateRoleInput) (*domain.Role, error) {
	name := strings.TrimSpace(in.RoleName)
	if name == "" {
		return nil, domain.NewValidationError("role_name", "role name is required")
	}
	slug := roleSlug(name)

	var count int64
	if err := s.db.WithContext(ctx).Model(&domain.Role{}).
		Where("role_slug = ?", slug).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, domain.NewValidationError("role_name", "role already exists")
	}

	id, err := s.seq.Next(ctx, sequence.RoleID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	role := &domain.Role{
		ID:        id,
		RoleName:  name,
		RoleSlug:  slug,
		IsDefault: in.IsDefault,
		CreatedBy: in.CreatedBy,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.IsDefault {
			// Only one role can receive new registrations.
			if err := tx.Model(&domain.Role{}).
				Where("is_default = ?", true).Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(role).Error
	})
	if err != nil {
		return nil, err
	}
	return role, nil
}

func (s *Service) ListRoles(ctx context.Context) ([]domain.Role, error) {
	var roles []domain.Role
	err := s.db.WithContext(ctx).Order("id ASC").Find(&roles).Error
	return roles, err
}

func (s *Service) GetRoleBySlug(ctx context.Context, slug string) (*domain.Role, error) {
	var role domain.Role
	err := s.db.WithContext(ctx).Where("role_slug = ?", slug).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError("role", 0)
	}
	return &role, err
}

func (s *Service) DeleteRole(ctx context.Context, id int64) error {
	var role domain.Role
	err := s.db.WithContext(ctx).First(&role, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NewNotFoundError("role", id)
	}
	if err != nil {
		return err
	}
	if role.IsDefault || role.RoleSlug == RoleSlugSuperAdmin {
		return domain.NewValidationError("role", "built-in roles cannot be deleted")
	}
	var users int64
	if err := s.db.WithContext(ctx).Model(&domain.User{}).
		Where("role_id = ?", id).Count(&users).Error; err != nil {
		return err
	}
	if users > 0 {
		return domain.NewValidationError("role", "role is still assigned to users")
	}
	return s.db.WithContext(ctx).Delete(&role).Error
}

// SeedDefaults makes sure the built-in roles and the super admin account
// exist. Safe to run on every start.
func (s *Service) SeedDefaults(ctx context.Context, adminEmail, adminPassword string) error {
	if _, err := s.GetRoleBySlug(ctx, RoleSlugSuperAdmin); err != nil {
		var nf *domain.NotFoundError
		if !errors.As(err, &nf) {
			return err
		}
		if _, err := s.CreateRole(ctx, CreateRoleInput{RoleName: "Super Admin"}); err != nil {
			return err
		}
	}
	if _, err := s.GetRoleBySlug(ctx, RoleSlugUser); err != nil {
		var nf *domain.NotFoundError
		if !errors.As(err, &nf) {
			return err
		}
		if _, err := s.CreateRole(ctx, CreateRoleInput{RoleName: "User", IsDefault: true}); err != nil {
			return err
		}
	}

	if adminEmail == "" {
		return nil
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&domain.User{}).
		Where("email_id = ?", adminEmail).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	admin, err := s.GetRoleBySlug(ctx, RoleSlugSuperAdmin)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	id, err := s.seq.Next(ctx, sequence.UserID)
	if err != nil {
		return err
	}
	now := time.Now()
	user := domain.User{
		ID:            id,
		FirstName:     "Super",
		LastName:      "Admin",
		EmailID:       adminEmail,
		Password:      string(hash),
		RoleID:        admin.ID,
		EmailVerified: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return err
	}
	zap.L().Info("super admin seeded", zap.String("email", adminEmail))
	return nil
}
