package di

import (
	"context"
	"fmt"

	"github.com/labstack/echo/v4"
	"go.uber.org/dig"

	"github.com/challasumanth64/assist-respond-ai/internal/ai"
	"github.com/challasumanth64/assist-respond-ai/internal/config"
	"github.com/challasumanth64/assist-respond-ai/internal/handler"
	"github.com/challasumanth64/assist-respond-ai/internal/logger"
	"github.com/challasumanth64/assist-respond-ai/internal/mailbox"
	"github.com/challasumanth64/assist-respond-ai/internal/mailer"
	"github.com/challasumanth64/assist-respond-ai/internal/repository"
	"github.com/challasumanth64/assist-respond-ai/internal/repository/memory"
	"github.com/challasumanth64/assist-respond-ai/internal/repository/redisstore"
	"github.com/challasumanth64/assist-respond-ai/internal/repository/sqlstore"
	"github.com/challasumanth64/assist-respond-ai/internal/router"
	"github.com/challasumanth64/assist-respond-ai/internal/service"
	"github.com/challasumanth64/assist-respond-ai/internal/sse"
)

// Repositories groups the storage backends selected from configuration.
type Repositories struct {
	Emails        repository.EmailRepository
	Responses     repository.ResponseRepository
	Analytics     repository.AnalyticsRepository
	KnowledgeBase repository.KnowledgeBaseRepository

	closers []func() error
}

// Close releases database and redis connections.
func (r *Repositories) Close() error {
	var firstErr error
	for _, c := range r.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// NewRepositories picks SQL storage when DATABASE_URL is set and in-memory
// storage otherwise. REDIS_URL moves the analytics counters to redis.
func NewRepositories(cfg *config.Config, log *logger.Logger) (*Repositories, error) {
	repos := &Repositories{}

	if cfg.DatabaseURL != "" {
		db, err := sqlstore.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		repos.closers = append(repos.closers, db.Close)
		repos.Emails = sqlstore.NewEmailRepository(db)
		repos.Responses = sqlstore.NewResponseRepository(db)
		repos.Analytics = sqlstore.NewAnalyticsRepository(db)
		repos.KnowledgeBase = sqlstore.NewKnowledgeBaseRepository(db)
		log.Info("Using", cfg.DatabaseDriver, "repositories")
	} else {
		repos.Emails = memory.NewInMemoryEmailRepository()
		repos.Responses = memory.NewInMemoryResponseRepository()
		repos.Analytics = memory.NewInMemoryAnalyticsRepository()
		repos.KnowledgeBase = memory.NewInMemoryKnowledgeBaseRepository()
		log.Info("Using in-memory repositories")
	}

	if cfg.RedisURL != "" {
		client, err := redisstore.NewClient(cfg.RedisURL)
		if err != nil {
			repos.Close()
			return nil, err
		}
		if err := client.Ping(context.Background()).Err(); err != nil {
			client.Close()
			repos.Close()
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		repos.closers = append(repos.closers, client.Close)
		repos.Analytics = redisstore.NewAnalyticsRepository(client)
		log.Info("Using redis analytics counters")
	}

	return repos, nil
}

// NewMailbox returns the inbound mailbox named by MAILBOX_PROVIDER.
func NewMailbox(cfg *config.Config, log *logger.Logger) service.Mailbox {
	switch cfg.MailboxProvider {
	case config.MailboxGmail:
		return mailbox.NewGmailMailbox(cfg.GmailAccessToken, log)
	case config.MailboxDemo:
		log.Warn("Using demo mailbox with sample emails")
		return mailbox.NewDemoMailbox()
	default:
		return mailbox.NewIMAPMailbox(mailbox.IMAPConfig{
			Host:     cfg.IMAPHost,
			Port:     cfg.IMAPPort,
			TLS:      cfg.IMAPTLS,
			Username: cfg.MailUser,
			Password: cfg.MailPassword,
		}, log)
	}
}

// NewMailer returns the SMTP mailer, or a disabled one that refuses to send
// when credentials are missing.
func NewMailer(cfg *config.Config, log *logger.Logger) service.Mailer {
	if !cfg.SMTPEnabled() {
		log.Warn("SMTP credentials missing, outbound replies are disabled")
		return mailer.NewDisabledMailer()
	}
	return mailer.NewSMTPMailer(mailer.SMTPConfig{
		Host:        cfg.SMTPHost,
		Port:        cfg.SMTPPort,
		ImplicitTLS: cfg.SMTPImplicitTLS,
		Username:    cfg.MailUser,
		Password:    cfg.MailPassword,
		From:        cfg.SMTPFrom,
	}, log)
}

// BuildContainer creates and configures a dependency injection container
func BuildContainer(cfg *config.Config) (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(func() *config.Config { return cfg }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(cfg *config.Config) (*logger.Logger, error) {
		return logger.NewWithConfig(cfg.LogLevel, cfg.LogFormat)
	}); err != nil {
		return nil, err
	}

	if err := container.Provide(sse.NewSSEManager); err != nil {
		return nil, err
	}
	if err := container.Provide(func(m *sse.SSEManager) service.EventPublisher { return m }); err != nil {
		return nil, err
	}

	// Register storage
	if err := container.Provide(NewRepositories); err != nil {
		return nil, err
	}

	// Register external clients
	if err := container.Provide(func(cfg *config.Config, log *logger.Logger) (service.AIClient, error) {
		return ai.NewAIClient(context.Background(), cfg, log)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(NewMailbox); err != nil {
		return nil, err
	}
	if err := container.Provide(NewMailer); err != nil {
		return nil, err
	}

	// Register services
	if err := container.Provide(func(r *Repositories) service.AnalyticsService {
		return service.NewAnalyticsService(r.Analytics)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(
		r *Repositories,
		analytics service.AnalyticsService,
		aiClient service.AIClient,
		mb service.Mailbox,
		events service.EventPublisher,
		cfg *config.Config,
		log *logger.Logger,
	) service.EmailService {
		return service.NewEmailService(r.Emails, r.Responses, analytics, aiClient, mb, events, cfg.MaxFetchEmails, log)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(
		r *Repositories,
		analytics service.AnalyticsService,
		m service.Mailer,
		events service.EventPublisher,
		log *logger.Logger,
	) service.ResponseService {
		return service.NewResponseService(r.Responses, r.Emails, analytics, m, events, log)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(r *Repositories, log *logger.Logger) service.KnowledgeBaseService {
		return service.NewKnowledgeBaseService(r.KnowledgeBase, log)
	}); err != nil {
		return nil, err
	}

	// Register HTTP layer
	if err := container.Provide(handler.NewEmailHandler); err != nil {
		return nil, err
	}
	if err := container.Provide(handler.NewResponseHandler); err != nil {
		return nil, err
	}
	if err := container.Provide(handler.NewAnalyticsHandler); err != nil {
		return nil, err
	}
	if err := container.Provide(handler.NewKnowledgeBaseHandler); err != nil {
		return nil, err
	}
	if err := container.Provide(handler.NewEventsHandler); err != nil {
		return nil, err
	}
	if err := container.Provide(func(
		emails *handler.EmailHandler,
		responses *handler.ResponseHandler,
		analytics *handler.AnalyticsHandler,
		kb *handler.KnowledgeBaseHandler,
		events *handler.EventsHandler,
	) *echo.Echo {
		e := echo.New()
		e.HideBanner = true
		router.SetupRoutes(e, router.Handlers{
			Email:         emails,
			Response:      responses,
			Analytics:     analytics,
			KnowledgeBase: kb,
			Events:        events,
		})
		return e
	}); err != nil {
		return nil, err
	}

	// Register background sync
	if err := container.Provide(func(emailService service.EmailService, cfg *config.Config, log *logger.Logger) *sse.EmailSyncJob {
		return sse.NewEmailSyncJob(emailService, cfg.SyncOwnerID, cfg.SyncInterval, log)
	}); err != nil {
		return nil, err
	}

	return container, nil
}

