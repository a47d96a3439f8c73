package notifier

import (
	"log/slog"

	"github.com/amishk599/synergy/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes notices to the given logger as structured warnings.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each notice via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the notice. Returns nil (logging does not fail).
func (n *LogNotifier) Notify(notice model.Notice) error {
	args := []any{"kind", notice.Kind}
	if notice.Company != "" {
		args = append(args, "company", notice.Company)
	}
	n.logger.Warn(notice.Message, args...)
	return nil
}
