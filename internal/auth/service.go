package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ecomcore/storefront/internal/domain"
	"github.com/ecomcore/storefront/internal/events"
	"github.com/ecomcore/storefront/internal/sequence"
)

const (
	RoleSlugSuperAdmin = "_super_admin"
	RoleSlugUser       = "_user"

	verificationTokenTTL = 24 * time.Hour
	resetTokenTTL        = time.Hour
	otpTTL               = 5 * time.Minute
)

// ErrInvalidCredentials deliberately does not distinguish an unknown account
// from a wrong password.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

type Service struct {
	db       *gorm.DB
	seq      *sequence.Allocator
	bus      EventBus.Bus
	secret   []byte
	tokenTTL time.Duration
}

func NewService(db *gorm.DB, seq *sequence.Allocator, bus EventBus.Bus, secret string, tokenTTL time.Duration) *Service {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Service{db: db, seq: seq, bus: bus, secret: []byte(secret), tokenTTL: tokenTTL}
}

type RegisterInput struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	EmailID     string `json:"email_id"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phone_number"`
}

// Register creates the user under the default role, stores a bcrypt hash,
// and issues an email verification token which goes out on the bus.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.EmailID))
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.NewValidationError("email_id", "a valid email is required")
	}
	if len(in.Password) < 8 {
		return nil, domain.NewValidationError("password", "password must be at least 8 characters")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&domain.User{}).
		Where("email_id = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, domain.NewValidationError("email_id", "email already registered")
	}

	var role domain.Role
	err := s.db.WithContext(ctx).Where("is_default = ?", true).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewValidationError("role", "no default role configured")
	}
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	id, err := s.seq.Next(ctx, sequence.UserID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		ID:          id,
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		EmailID:     email,
		Password:    string(hash),
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
		RoleID:      role.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	token := uuid.NewString()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return tx.Create(&domain.VerificationToken{
			UserID:     id,
			Token:      token,
			Type:       domain.TokenTypeEmailVerification,
			ExpireTime: now.Add(verificationTokenTTL),
			CreatedAt:  now,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("user registered", zap.Int64("id", id), zap.String("email", email))
	s.bus.Publish(events.TopicUserRegistered, events.UserRegistered{
		UserID:    id,
		Email:     email,
		FirstName: user.FirstName,
		Token:     token,
	})
	return user, nil
}

// Login accepts the registered email or phone number and returns a signed
// JWT on success.
func (s *Service) Login(ctx context.Context, login, password string) (string, *domain.User, error) {
	login = strings.ToLower(strings.TrimSpace(login))
	var user domain.User
	err := s.db.WithContext(ctx).
		Where("email_id = ? OR phone_number = ?", login, login).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	var role domain.Role
	if err := s.db.WithContext(ctx).First(&role, user.RoleID).Error; err != nil {
		return "", nil, err
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid": user.ID,
		"usr": user.EmailID,
		"rol": role.RoleSlug,
		"exp": now.Add(s.tokenTTL).Unix(),
		"iat": now.Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", nil, err
	}

	user.LastLogin = now
	if err := s.db.WithContext(ctx).Model(&user).Update("last_login", now).Error; err != nil {
		return "", nil, err
	}
	return signed, &user, nil
}

func (s *Service) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError("user", id)
	}
	return &user, err
}

type UpdateProfileInput struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	PhoneNumber *string `json:"phone_number"`
}

// UpdateProfile changes the mutable profile fields. Email is fixed at
// registration; a change would invalidate the verification state.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, in UpdateProfileInput) (*domain.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.FirstName != nil {
		user.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		user.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.PhoneNumber != nil {
		user.PhoneNumber = strings.TrimSpace(*in.PhoneNumber)
	}
	user.UpdatedAt = time.Now()
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword requires the current password before accepting a new one.
func (s *Service) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	if len(newPassword) < 8 {
		return domain.NewValidationError("password", "password must be at least 8 characters")
	}
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)) != nil {
		return ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(user).Update("password", string(hash)).Error
}

// VerifyEmail consumes an email verification token.
func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	var row domain.VerificationToken
	err := s.db.WithContext(ctx).
		Where("token = ? AND type = ?", token, domain.TokenTypeEmailVerification).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NewValidationError("token", "unknown verification token")
	}
	if err != nil {
		return err
	}
	if time.Now().After(row.ExpireTime) {
		return domain.NewValidationError("token", "verification token expired")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.User{}).
			Where("id = ?", row.UserID).Update("email_verified", true).Error; err != nil {
			return err
		}
		return tx.Delete(&row).Error
	})
}

// ForgotPassword issues a reset token for the account, if it exists. The
// caller always sees success so the endpoint cannot enumerate emails.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	var user domain.User
	err := s.db.WithContext(ctx).Where("email_id = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	// The mailed token is stored only as a sha256 digest, so a leaked
	// verification_tokens table cannot be replayed.
	now := time.Now()
	token := uuid.NewString()
	if err := s.db.WithContext(ctx).Create(&domain.VerificationToken{
		UserID:     user.ID,
		Token:      hashToken(token),
		Type:       domain.TokenTypeForgotPassword,
		ExpireTime: now.Add(resetTokenTTL),
		CreatedAt:  now,
	}).Error; err != nil {
		return err
	}
	s.bus.Publish(events.TopicPasswordReset, events.PasswordReset{
		UserID: user.ID,
		Email:  user.EmailID,
		Token:  token,
	})
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 8 {
		return domain.NewValidationError("password", "password must be at least 8 characters")
	}
	var row domain.VerificationToken
	err := s.db.WithContext(ctx).
		Where("token = ? AND type = ?", hashToken(token), domain.TokenTypeForgotPassword).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NewValidationError("token", "unknown reset token")
	}
	if err != nil {
		return err
	}
	if time.Now().After(row.ExpireTime) {
		return domain.NewValidationError("token", "reset token expired")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.User{}).
			Where("id = ?", row.UserID).Update("password", string(hash)).Error; err != nil {
			return err
		}
		return tx.Delete(&row).Error
	})
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// IssueOtp generates a six digit code for the user, replacing any earlier
// one, and announces it on the bus for delivery.
func (s *Service) IssueOtp(ctx context.Context, userID int64) (*domain.Otp, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return nil, err
	}
	code := fmt.Sprintf("%06d", n.Int64())

	now := time.Now()
	var otp domain.Otp
	err = s.db.WithContext(ctx).Where("user_id = ?", userID).First(&otp).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		id, err := s.seq.Next(ctx, sequence.OtpID)
		if err != nil {
			return nil, err
		}
		otp = domain.Otp{ID: id, UserID: userID, Otp: code, ExpireTime: now.Add(otpTTL), CreatedAt: now, UpdatedAt: now}
		if err := s.db.WithContext(ctx).Create(&otp).Error; err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		otp.Otp = code
		otp.ExpireTime = now.Add(otpTTL)
		otp.UpdatedAt = now
		if err := s.db.WithContext(ctx).Save(&otp).Error; err != nil {
			return nil, err
		}
	}

	s.bus.Publish(events.TopicOtpIssued, events.OtpIssued{
		UserID: userID,
		Email:  user.EmailID,
		Otp:    code,
	})
	return &otp, nil
}

func (s *Service) VerifyOtp(ctx context.Context, userID int64, code string) error {
	var otp domain.Otp
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&otp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NewValidationError("otp", "no otp issued")
	}
	if err != nil {
		return err
	}
	if time.Now().After(otp.ExpireTime) {
		return domain.NewValidationError("otp", "otp expired")
	}
	if otp.Otp != code {
		return domain.NewValidationError("otp", "otp does not match")
	}
	return s.db.WithContext(ctx).Delete(&otp).Error
}

// PurgeExpired drops expired otps and verification tokens. Run from the
// scheduler.
func (s *Service) PurgeExpired(ctx context.Context) error {
	now := time.Now()
	if err := s.db.WithContext(ctx).
		Where("expire_time < ?", now).Delete(&domain.Otp{}).Error; err != nil {
		return err
	}
	return s.db.WithContext(ctx).
		Where("expire_time < ?", now).Delete(&domain.VerificationToken{}).Error
}
