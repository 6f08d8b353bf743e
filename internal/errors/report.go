package errors

import (
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
)

// Reporter forwards fatal, unrecoverable errors to Sentry when configured.
// It is a no-op if InitReporter was never called or DSN is empty, so
// startup never depends on an external service being reachable.
type Reporter struct {
	enabled bool
	logger  *slog.Logger
}

// InitReporter configures Sentry reporting. Pass an empty dsn to disable.
func InitReporter(dsn string, environment string, logger *slog.Logger) (*Reporter, error) {
	if dsn == "" {
		return &Reporter{enabled: false, logger: logger}, nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      environment,
		TracesSampleRate: 0,
	}); err != nil {
		return nil, Configuration("failed to initialize error reporter", err)
	}
	return &Reporter{enabled: true, logger: logger}, nil
}

// ReportFatal logs and, if enabled, forwards err to Sentry. Startup errors
// and Internal-category errors at SeverityFatal are reported here.
func (r *Reporter) ReportFatal(err *ServiceError) {
	if r == nil {
		return
	}
	if r.logger != nil {
		r.logger.Error("fatal error", "category", err.Category, "message", err.Message)
	}
	if !r.enabled {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentry.LevelFatal)
		scope.SetTag("category", string(err.Category))
		for k, v := range err.Details {
			scope.SetExtra(k, v)
		}
		sentry.CaptureException(err)
	})
}

// Flush blocks briefly to let in-flight events reach Sentry before exit.
func (r *Reporter) Flush() {
	if r != nil && r.enabled {
		sentry.Flush(2 * time.Second)
	}
}
