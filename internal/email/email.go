// Package email sends transactional mail. Delivery is best-effort from
// the caller's point of view; nothing in the booking flow waits on it.
package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Sender delivers a single message.
type Sender interface {
	SendPasswordReset(to, token string) error
}

type smtpSender struct {
	cfg    Config
	dialer *gomail.Dialer
}

func NewSMTPSender(cfg Config) Sender {
	return &smtpSender{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (s *smtpSender) SendPasswordReset(to, token string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "パスワード再設定のご案内")
	m.SetBody("text/plain", fmt.Sprintf(
		"パスワード再設定のリクエストを受け付けました。\n\n"+
			"再設定コード: %s\n\n"+
			"このコードの有効期限は1時間です。心当たりがない場合はこのメールを破棄してください。",
		token))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send password reset mail: %w", err)
	}
	return nil
}

// NopSender drops all mail. Used when SMTP is not configured, as in
// development.
type NopSender struct{}

func (NopSender) SendPasswordReset(string, string) error { return nil }
