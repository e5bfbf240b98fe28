package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/challasumanth64/assist-respond-ai/internal/config"
	"github.com/challasumanth64/assist-respond-ai/internal/di"
	"github.com/challasumanth64/assist-respond-ai/internal/logger"
	"github.com/challasumanth64/assist-respond-ai/internal/service"
	"github.com/challasumanth64/assist-respond-ai/internal/sse"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatal("Config validation failed:", err)
	}

	container, err := di.BuildContainer(cfg)
	if err != nil {
		log.Fatal("Failed to build container:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = container.Invoke(func(
		e *echo.Echo,
		repos *di.Repositories,
		sseManager *sse.SSEManager,
		syncJob *sse.EmailSyncJob,
		aiClient service.AIClient,
		appLogger *logger.Logger,
	) error {
		defer appLogger.Sync()
		defer repos.Close()
		if closer, ok := aiClient.(io.Closer); ok {
			defer closer.Close()
		}

		// The background sync needs an owner to file fetched mail under
		if cfg.SyncOwnerID != "" {
			go syncJob.Start(ctx)
		} else {
			appLogger.Info("SYNC_OWNER_ID not set, background email sync disabled")
		}

		go func() {
			appLogger.Info("Starting server on port", cfg.Port)
			if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				appLogger.Error("Failed to start server:", err)
				stop()
			}
		}()

		<-ctx.Done()
		appLogger.Info("Shutting down server")
		return shutdown(e, sseManager, shutdownTimeout, appLogger)
	})
	if err != nil {
		log.Fatal(err)
	}
}

// shutdown ends the event streams first. Open streams never finish on their
// own, so the HTTP server would otherwise wait out the whole timeout.
func shutdown(e *echo.Echo, events *sse.SSEManager, timeout time.Duration, appLogger *logger.Logger) error {
	events.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			appLogger.Warn("Server did not drain within", timeout, "closing remaining connections")
			return nil
		}
		return err
	}
	return nil
}
