package domain

import "time"

type Role struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	RoleName  string    `gorm:"index" json:"role_name"`
	RoleSlug  string    `gorm:"uniqueIndex" json:"role_slug"`
	IsDefault bool      `json:"is_default"`
	CreatedBy int64     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Role) TableName() string {
	return "roles"
}

type User struct {
	ID            int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	EmailID       string    `gorm:"uniqueIndex" json:"email_id"`
	Password      string    `json:"-"`
	PhoneNumber   string    `gorm:"index" json:"phone_number"`
	RoleID        int64     `gorm:"index" json:"role_id"`
	EmailVerified bool      `json:"email_verified"`
	LastLogin     time.Time `json:"last_login"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

type Otp struct {
	ID         int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	UserID     int64     `gorm:"index" json:"user_id"`
	Otp        string    `gorm:"size:16" json:"otp"`
	ExpireTime time.Time `json:"expire_time"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Otp) TableName() string {
	return "otps"
}

const (
	TokenTypeEmailVerification = "email_verification"
	TokenTypeForgotPassword    = "forgot_password"
)

type VerificationToken struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64     `gorm:"index" json:"user_id"`
	Token      string    `gorm:"index" json:"token"`
	Type       string    `gorm:"size:32" json:"type"`
	ExpireTime time.Time `json:"expire_time"`
	CreatedAt  time.Time `json:"created_at"`
}

func (VerificationToken) TableName() string {
	return "verification_tokens"
}
