// Package mailer delivers transactional mail driven by bus events. Sending
// happens in the subscriber goroutine so the originating request never waits
// on SMTP.
package mailer

import (
	"fmt"

	"github.com/asaskevich/EventBus"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/ecomcore/storefront/config"
	"github.com/ecomcore/storefront/internal/events"
)

type Mailer struct {
	cfg    config.SmtpConfig
	dialer *gomail.Dialer
}

func New(cfg config.SmtpConfig) *Mailer {
	return &Mailer{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// Subscribe attaches the mailer to the bus. Subscriptions are async so slow
// SMTP never backs up into publishers.
func (m *Mailer) Subscribe(bus EventBus.Bus) error {
	if err := bus.SubscribeAsync(events.TopicUserRegistered, m.onUserRegistered, false); err != nil {
		return err
	}
	if err := bus.SubscribeAsync(events.TopicOrderPlaced, m.onOrderPlaced, false); err != nil {
		return err
	}
	if err := bus.SubscribeAsync(events.TopicPasswordReset, m.onPasswordReset, false); err != nil {
		return err
	}
	return bus.SubscribeAsync(events.TopicOtpIssued, m.onOtpIssued, false)
}

func (m *Mailer) send(to, subject, body string) {
	if !m.cfg.Enabled {
		zap.L().Debug("smtp disabled, mail suppressed",
			zap.String("to", to), zap.String("subject", subject))
		return
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)
	if err := m.dialer.DialAndSend(msg); err != nil {
		zap.L().Error("mail delivery failed",
			zap.String("to", to), zap.String("subject", subject), zap.Error(err))
		return
	}
	zap.L().Info("mail sent", zap.String("to", to), zap.String("subject", subject))
}

func (m *Mailer) onUserRegistered(e events.UserRegistered) {
	link := fmt.Sprintf("%s/verify-email?token=%s", m.cfg.BaseURL, e.Token)
	m.send(e.Email, "Verify your email",
		fmt.Sprintf("<p>Hi %s,</p><p>Confirm your account: <a href=%q>verify email</a></p>",
			e.FirstName, link))
}

func (m *Mailer) onOrderPlaced(e events.OrderPlaced) {
	if e.Email == "" {
		zap.L().Debug("order confirmation skipped, no email", zap.Int64("order_id", e.OrderID))
		return
	}
	m.send(e.Email, fmt.Sprintf("Order #%d confirmed", e.OrderID),
		fmt.Sprintf("<p>Your order of %d item(s) totalling %.2f is confirmed.</p>",
			e.ItemCount, e.TotalAmount))
}

func (m *Mailer) onPasswordReset(e events.PasswordReset) {
	link := fmt.Sprintf("%s/reset-password?token=%s", m.cfg.BaseURL, e.Token)
	m.send(e.Email, "Reset your password",
		fmt.Sprintf("<p>Reset your password: <a href=%q>reset link</a>. The link expires in one hour.</p>", link))
}

func (m *Mailer) onOtpIssued(e events.OtpIssued) {
	m.send(e.Email, "Your one-time code",
		fmt.Sprintf("<p>Your code is <b>%s</b>. It expires in five minutes.</p>", e.Otp))
}
