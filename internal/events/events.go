// Package events names the in-process bus topics and their payloads. The bus
// decouples the write paths from side effects like mail delivery: publishers
// never wait on subscribers.
package events

const (
	TopicUserRegistered = "user.registered"
	TopicOrderPlaced    = "order.placed"
	TopicPasswordReset  = "user.password_reset"
	TopicOtpIssued      = "user.otp_issued"
)

type UserRegistered struct {
	UserID    int64
	Email     string
	FirstName string
	Token     string
}

type OrderPlaced struct {
	OrderID     int64
	UserID      int64
	Email       string
	TotalAmount float64
	ItemCount   int
}

type PasswordReset struct {
	UserID int64
	Email  string
	Token  string
}

type OtpIssued struct {
	UserID int64
	Email  string
	Otp    string
}
