// Package notify delivers accepted status and voice transitions to sinks
// without blocking the ingestion path.
package notify

import (
	"context"
	"errors"
	"log/slog"

	"github.com/rpggio/watchlog/internal/domain/tracker"
)

// Sender delivers one notification and may block.
type Sender interface {
	Send(ctx context.Context, n tracker.Notification) error
}

// LogSender writes notifications to a slog logger.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a LogSender. A nil logger uses slog.Default().
func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

// Send logs n at info level.
func (s *LogSender) Send(ctx context.Context, n tracker.Notification) error {
	s.logger.InfoContext(ctx, "notification",
		"subject_id", n.SubjectID,
		"display_name", n.DisplayName,
		"category", n.Category,
		"summary", n.Summary,
	)
	return nil
}

// Multi fans out to every sender; one failure does not stop the others.
type Multi []Sender

// Send delivers n to every sender and joins their errors.
func (m Multi) Send(ctx context.Context, n tracker.Notification) error {
	var errs []error
	for _, s := range m {
		if err := s.Send(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
