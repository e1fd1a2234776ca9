package observability

import (
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"ieutils/infrastructure/config"
)

// InitSentry initializes the Sentry client from configuration. A missing
// DSN disables reporting; a malformed DSN is logged and reporting stays
// disabled rather than failing the caller.
func InitSentry(cfg *config.Config, logger *zap.Logger) {
	if cfg.SentryDSN == "" {
		return
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: cfg.Environment,
	})
	if err != nil {
		logger.Error("Failed to initialize sentry",
			zap.String("dsn", cfg.SentryDSN),
			zap.Error(err),
		)
	}
}

// CaptureException reports an error to Sentry. A no-op when Sentry was
// never initialized.
func CaptureException(err error) {
	if err == nil {
		return
	}
	sentry.CaptureException(err)
}

// FlushSentry drains buffered events before process exit
func FlushSentry(timeout time.Duration) {
	sentry.Flush(timeout)
}
