package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	MailboxIMAP  = "imap"
	MailboxGmail = "gmail"
	MailboxDemo  = "demo"
)

type Config struct {
	Port      string
	Env       string
	LogLevel  string
	LogFormat string

	DatabaseDriver string
	DatabaseURL    string
	RedisURL       string

	AIProvider string
	AIKey      string
	AIModel    string
	AIBaseURL  string
	AWSRegion  string

	MailboxProvider  string
	IMAPHost         string
	IMAPPort         string
	IMAPTLS          bool
	MailUser         string
	MailPassword     string
	GmailAccessToken string

	SMTPHost        string
	SMTPPort        string
	SMTPImplicitTLS bool
	SMTPFrom        string

	MaxFetchEmails int
	SyncOwnerID    string
	SyncInterval   time.Duration
}

func defaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("DATABASE_DRIVER", DriverPostgres)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("AI_PROVIDER", "openai")
	v.SetDefault("AI_API_KEY", "")
	v.SetDefault("AI_MODEL", "")
	v.SetDefault("AI_BASE_URL", "")
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("MAILBOX_PROVIDER", MailboxIMAP)
	v.SetDefault("IMAP_HOST", "imap.gmail.com")
	v.SetDefault("IMAP_PORT", "993")
	v.SetDefault("IMAP_TLS", true)
	v.SetDefault("MAIL_USER", "")
	v.SetDefault("MAIL_PASSWORD", "")
	v.SetDefault("GMAIL_ACCESS_TOKEN", "")
	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", "587")
	v.SetDefault("SMTP_IMPLICIT_TLS", false)
	v.SetDefault("SMTP_FROM", "")
	v.SetDefault("MAX_FETCH_EMAILS", 10)
	v.SetDefault("SYNC_OWNER_ID", "")
	v.SetDefault("EMAIL_SYNC_INTERVAL_SECONDS", 60)
}

func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	v := viper.New()
	defaults(v)
	v.AutomaticEnv()

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{
		Port:             v.GetString("PORT"),
		Env:              v.GetString("ENV"),
		LogLevel:         v.GetString("LOG_LEVEL"),
		LogFormat:        v.GetString("LOG_FORMAT"),
		DatabaseDriver:   v.GetString("DATABASE_DRIVER"),
		DatabaseURL:      v.GetString("DATABASE_URL"),
		RedisURL:         v.GetString("REDIS_URL"),
		AIProvider:       v.GetString("AI_PROVIDER"),
		AIKey:            v.GetString("AI_API_KEY"),
		AIModel:          v.GetString("AI_MODEL"),
		AIBaseURL:        v.GetString("AI_BASE_URL"),
		AWSRegion:        v.GetString("AWS_REGION"),
		MailboxProvider:  v.GetString("MAILBOX_PROVIDER"),
		IMAPHost:         v.GetString("IMAP_HOST"),
		IMAPPort:         v.GetString("IMAP_PORT"),
		IMAPTLS:          v.GetBool("IMAP_TLS"),
		MailUser:         v.GetString("MAIL_USER"),
		MailPassword:     v.GetString("MAIL_PASSWORD"),
		GmailAccessToken: v.GetString("GMAIL_ACCESS_TOKEN"),
		SMTPHost:         v.GetString("SMTP_HOST"),
		SMTPPort:         v.GetString("SMTP_PORT"),
		SMTPImplicitTLS:  v.GetBool("SMTP_IMPLICIT_TLS"),
		SMTPFrom:         v.GetString("SMTP_FROM"),
		MaxFetchEmails:   v.GetInt("MAX_FETCH_EMAILS"),
		SyncOwnerID:      v.GetString("SYNC_OWNER_ID"),
	}

	if cfg.MaxFetchEmails <= 0 {
		cfg.MaxFetchEmails = 10
	}
	seconds := v.GetInt("EMAIL_SYNC_INTERVAL_SECONDS")
	if seconds <= 0 {
		seconds = 60
	}
	cfg.SyncInterval = time.Duration(seconds) * time.Second

	if cfg.SMTPFrom == "" {
		cfg.SMTPFrom = cfg.MailUser
	}

	// Without live credentials the inbox is simulated.
	if cfg.MailboxProvider == MailboxIMAP && (cfg.MailUser == "" || cfg.MailPassword == "") {
		cfg.MailboxProvider = MailboxDemo
	}
	if cfg.MailboxProvider == MailboxGmail && cfg.GmailAccessToken == "" {
		cfg.MailboxProvider = MailboxDemo
	}

	return cfg
}

func (c *Config) Validate() error {
	switch c.AIProvider {
	case "openai", "deepseek", "gemini":
		if c.AIKey == "" {
			return fmt.Errorf("AI_API_KEY is required for provider %s", c.AIProvider)
		}
	case "bedrock":
		if c.AWSRegion == "" {
			return fmt.Errorf("AWS_REGION is required for provider bedrock")
		}
	default:
		return fmt.Errorf("unsupported AI_PROVIDER: %s", c.AIProvider)
	}

	if c.DatabaseURL != "" && c.DatabaseDriver != DriverPostgres && c.DatabaseDriver != DriverSQLite {
		return fmt.Errorf("unsupported DATABASE_DRIVER: %s", c.DatabaseDriver)
	}

	switch c.MailboxProvider {
	case MailboxIMAP, MailboxGmail, MailboxDemo:
	default:
		return fmt.Errorf("unsupported MAILBOX_PROVIDER: %s", c.MailboxProvider)
	}

	return nil
}

// SMTPEnabled reports whether outbound delivery has credentials to log in with.
func (c *Config) SMTPEnabled() bool {
	return c.SMTPHost != "" && c.MailUser != "" && c.MailPassword != ""
}
