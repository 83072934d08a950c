package notify

import (
	"context"
	"log/slog"
)

// NoOpNotifier implements Notifier by logging discarded reports. It is used
// when SMTP delivery is not configured.
type NoOpNotifier struct {
	log *slog.Logger
}

// NewNoOpNotifier creates a notifier that discards reports with a log message.
func NewNoOpNotifier(log *slog.Logger) *NoOpNotifier {
	return &NoOpNotifier{log: log}
}

// Send logs and discards the report.
func (n *NoOpNotifier) Send(_ context.Context, r *Report) error {
	n.log.Info("email not configured, skipping notification",
		"search_term", r.SearchTerm,
		"path", r.Path,
	)
	return nil
}
