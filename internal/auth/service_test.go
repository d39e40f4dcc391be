package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ecomcore/storefront/internal/domain"
	"github.com/ecomcore/storefront/internal/events"
	"github.com/ecomcore/storefront/internal/sequence"
)

const testSecret = "test-secret"

func newTestService(t *testing.T) (*Service, EventBus.Bus) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))
	bus := EventBus.New()
	s := NewService(db, sequence.NewAllocator(db), bus, testSecret, time.Hour)
	require.NoError(t, s.SeedDefaults(context.Background(), "", ""))
	return s, bus
}

func TestRegisterAndLogin(t *testing.T) {
	s, bus := newTestService(t)
	ctx := context.Background()

	var registered []events.UserRegistered
	require.NoError(t, bus.Subscribe(events.TopicUserRegistered, func(e events.UserRegistered) {
		registered = append(registered, e)
	}))

	user, err := s.Register(ctx, RegisterInput{
		FirstName: "Ada",
		EmailID:   "Ada@Example.com",
		Password:  "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.EmailID)
	assert.NotEqual(t, "correct-horse", user.Password, "password must be stored hashed")
	assert.False(t, user.EmailVerified)

	defaultRole, err := s.GetRoleBySlug(ctx, RoleSlugUser)
	require.NoError(t, err)
	assert.Equal(t, defaultRole.ID, user.RoleID)

	require.Len(t, registered, 1)
	assert.NotEmpty(t, registered[0].Token)

	t.Run("duplicate email rejected", func(t *testing.T) {
		_, err := s.Register(ctx, RegisterInput{EmailID: "ada@example.com", Password: "long-enough"})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("short password rejected", func(t *testing.T) {
		_, err := s.Register(ctx, RegisterInput{EmailID: "bob@example.com", Password: "short"})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("login returns a verifiable token", func(t *testing.T) {
		signed, loggedIn, err := s.Login(ctx, "ada@example.com", "correct-horse")
		require.NoError(t, err)
		assert.Equal(t, user.ID, loggedIn.ID)

		parsed, err := jwt.Parse(signed, func(*jwt.Token) (interface{}, error) {
			return []byte(testSecret), nil
		})
		require.NoError(t, err)
		claims := parsed.Claims.(jwt.MapClaims)
		assert.EqualValues(t, user.ID, claims["uid"])
		assert.Equal(t, RoleSlugUser, claims["rol"])
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := s.Login(ctx, "ada@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown account looks the same as wrong password", func(t *testing.T) {
		_, _, err := s.Login(ctx, "nobody@example.com", "whatever")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestVerifyEmail(t *testing.T) {
	s, bus := newTestService(t)
	ctx := context.Background()

	var token string
	require.NoError(t, bus.Subscribe(events.TopicUserRegistered, func(e events.UserRegistered) {
		token = e.Token
	}))
	user, err := s.Register(ctx, RegisterInput{EmailID: "ada@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, s.VerifyEmail(ctx, token))

	verified, err := s.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, verified.EmailVerified)

	t.Run("token is single use", func(t *testing.T) {
		err := s.VerifyEmail(ctx, token)
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
	})
}

func TestPasswordReset(t *testing.T) {
	s, bus := newTestService(t)
	ctx := context.Background()

	user, err := s.Register(ctx, RegisterInput{EmailID: "ada@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	var reset events.PasswordReset
	require.NoError(t, bus.Subscribe(events.TopicPasswordReset, func(e events.PasswordReset) {
		reset = e
	}))

	require.NoError(t, s.ForgotPassword(ctx, "ada@example.com"))
	require.Equal(t, user.ID, reset.UserID)
	require.NotEmpty(t, reset.Token)

	t.Run("stored token is a digest of the mailed one", func(t *testing.T) {
		var row domain.VerificationToken
		require.NoError(t, s.db.
			Where("user_id = ? AND type = ?", user.ID, domain.TokenTypeForgotPassword).
			First(&row).Error)
		assert.NotEqual(t, reset.Token, row.Token)
		assert.Equal(t, hashToken(reset.Token), row.Token)
	})

	require.NoError(t, s.ResetPassword(ctx, reset.Token, "new-password-1"))

	_, _, err = s.Login(ctx, "ada@example.com", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = s.Login(ctx, "ada@example.com", "new-password-1")
	assert.NoError(t, err)

	t.Run("unknown email is silently accepted", func(t *testing.T) {
		assert.NoError(t, s.ForgotPassword(ctx, "nobody@example.com"))
	})
}

func TestProfile(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	user, err := s.Register(ctx, RegisterInput{
		FirstName: "Ada",
		EmailID:   "ada@example.com",
		Password:  "correct-horse",
	})
	require.NoError(t, err)

	t.Run("partial update leaves other fields alone", func(t *testing.T) {
		phone := "9876543210"
		updated, err := s.UpdateProfile(ctx, user.ID, UpdateProfileInput{PhoneNumber: &phone})
		require.NoError(t, err)
		assert.Equal(t, "Ada", updated.FirstName)
		assert.Equal(t, phone, updated.PhoneNumber)
	})

	t.Run("change password requires the current one", func(t *testing.T) {
		err := s.ChangePassword(ctx, user.ID, "wrong", "another-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)

		require.NoError(t, s.ChangePassword(ctx, user.ID, "correct-horse", "another-password"))
		_, _, err = s.Login(ctx, "ada@example.com", "another-password")
		assert.NoError(t, err)
	})
}

func TestOtp(t *testing.T) {
	s, bus := newTestService(t)
	ctx := context.Background()

	user, err := s.Register(ctx, RegisterInput{EmailID: "ada@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	var issued events.OtpIssued
	require.NoError(t, bus.Subscribe(events.TopicOtpIssued, func(e events.OtpIssued) {
		issued = e
	}))

	otp, err := s.IssueOtp(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, otp.Otp, 6)
	assert.Equal(t, otp.Otp, issued.Otp)

	t.Run("reissue replaces the code in place", func(t *testing.T) {
		again, err := s.IssueOtp(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, otp.ID, again.ID)
	})

	t.Run("wrong code rejected", func(t *testing.T) {
		err := s.VerifyOtp(ctx, user.ID, "000000")
		var verr *domain.ValidationError
		if issued.Otp == "000000" {
			t.Skip("collided with the issued code")
		}
		require.ErrorAs(t, err, &verr)
	})

	t.Run("correct code consumes the otp", func(t *testing.T) {
		require.NoError(t, s.VerifyOtp(ctx, user.ID, issued.Otp))
		err := s.VerifyOtp(ctx, user.ID, issued.Otp)
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
	})
}

func TestRoles(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	t.Run("seeded roles", func(t *testing.T) {
		admin, err := s.GetRoleBySlug(ctx, RoleSlugSuperAdmin)
		require.NoError(t, err)
		assert.Equal(t, "Super Admin", admin.RoleName)

		user, err := s.GetRoleBySlug(ctx, RoleSlugUser)
		require.NoError(t, err)
		assert.True(t, user.IsDefault)
	})

	t.Run("slug derives from the name", func(t *testing.T) {
		role, err := s.CreateRole(ctx, CreateRoleInput{RoleName: "Store Manager"})
		require.NoError(t, err)
		assert.Equal(t, "_store_manager", role.RoleSlug)
	})

	t.Run("duplicate slug rejected", func(t *testing.T) {
		_, err := s.CreateRole(ctx, CreateRoleInput{RoleName: "store manager"})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("new default demotes the old one", func(t *testing.T) {
		role, err := s.CreateRole(ctx, CreateRoleInput{RoleName: "Member", IsDefault: true})
		require.NoError(t, err)
		assert.True(t, role.IsDefault)

		old, err := s.GetRoleBySlug(ctx, RoleSlugUser)
		require.NoError(t, err)
		assert.False(t, old.IsDefault)
	})

	t.Run("built-in roles cannot be deleted", func(t *testing.T) {
		admin, err := s.GetRoleBySlug(ctx, RoleSlugSuperAdmin)
		require.NoError(t, err)
		err = s.DeleteRole(ctx, admin.ID)
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("seeding twice is idempotent", func(t *testing.T) {
		require.NoError(t, s.SeedDefaults(ctx, "root@example.com", "root-password"))
		require.NoError(t, s.SeedDefaults(ctx, "root@example.com", "root-password"))
		var admins int64
		require.NoError(t, s.db.Model(&domain.User{}).
			Where("email_id = ?", "root@example.com").Count(&admins).Error)
		assert.Equal(t, int64(1), admins)
	})
}
