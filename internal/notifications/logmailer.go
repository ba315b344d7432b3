package notifications

import (
	"context"
	"log/slog"

	"github.com/dertobiunddasbo/bsp-media-sub001/internal/leads"
)

// LogMailer is the fallback when no email credentials are configured: every
// lead that would have produced an email is written to the log instead, so
// submissions are never silently lost.
type LogMailer struct {
	log *slog.Logger
}

func NewLogMailer(log *slog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) SendLeadNotification(ctx context.Context, lead leads.Lead) (string, error) {
	m.log.Info("lead received (email disabled)",
		slog.String("lead_id", lead.ID),
		slog.String("kind", lead.Kind),
		slog.String("name", lead.Name),
		slog.String("email", lead.Email),
		slog.String("message", lead.Message),
	)
	return "", nil
}

func (m *LogMailer) SendLeadConfirmation(ctx context.Context, lead leads.Lead) (string, error) {
	m.log.Info("lead confirmation skipped (email disabled)",
		slog.String("lead_id", lead.ID),
		slog.String("email", lead.Email),
	)
	return "", nil
}
