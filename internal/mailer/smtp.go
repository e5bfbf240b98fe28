package mailer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"

	"github.com/challasumanth64/assist-respond-ai/internal/logger"
	"github.com/challasumanth64/assist-respond-ai/internal/service"
)

// ErrNotConfigured is returned by the disabled mailer.
var ErrNotConfigured = errors.New("smtp not configured")

type SMTPConfig struct {
	Host        string
	Port        string
	ImplicitTLS bool
	Username    string
	Password    string
	From        string

	// TLSConfig overrides the system roots. ServerName defaults to Host.
	TLSConfig *tls.Config
}

type smtpMailer struct {
	cfg    SMTPConfig
	logger *logger.Logger
}

// NewSMTPMailer sends over STARTTLS (587 by default) or implicit TLS (465)
// with PLAIN auth. One connection per message.
func NewSMTPMailer(cfg SMTPConfig, logger *logger.Logger) service.Mailer {
	if cfg.Port == "" {
		cfg.Port = "587"
		if cfg.ImplicitTLS {
			cfg.Port = "465"
		}
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return &smtpMailer{cfg: cfg, logger: logger}
}

func (m *smtpMailer) dial() (*smtp.Client, error) {
	addr := net.JoinHostPort(m.cfg.Host, m.cfg.Port)
	tlsConfig := &tls.Config{}
	if m.cfg.TLSConfig != nil {
		tlsConfig = m.cfg.TLSConfig.Clone()
	}
	if tlsConfig.ServerName == "" {
		tlsConfig.ServerName = m.cfg.Host
	}
	if m.cfg.ImplicitTLS {
		return smtp.DialTLS(addr, tlsConfig)
	}
	return smtp.DialStartTLS(addr, tlsConfig)
}

func (m *smtpMailer) Send(ctx context.Context, msg service.OutboundMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := Compose(m.cfg.From, msg, time.Now())
	if err != nil {
		return err
	}

	c, err := m.dial()
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	defer c.Close()

	if err := c.Auth(sasl.NewPlainClient("", m.cfg.Username, m.cfg.Password)); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := c.Mail(m.cfg.From, nil); err != nil {
		return fmt.Errorf("smtp mail: %w", err)
	}
	if err := c.Rcpt(msg.To, nil); err != nil {
		return fmt.Errorf("smtp rcpt: %w", err)
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp data close: %w", err)
	}

	if err := c.Quit(); err != nil {
		// message was accepted at DATA close
		m.logger.Warn("SMTP QUIT failed:", err)
	}
	m.logger.Info("Reply delivered to:", msg.To)
	return nil
}

type disabledMailer struct{}

// NewDisabledMailer refuses every send. Used when no SMTP credentials exist,
// so replies stay unsent instead of being recorded as delivered.
func NewDisabledMailer() service.Mailer {
	return disabledMailer{}
}

func (disabledMailer) Send(ctx context.Context, msg service.OutboundMessage) error {
	return ErrNotConfigured
}
