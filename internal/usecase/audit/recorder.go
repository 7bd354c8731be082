package audit

import (
	"context"
	"log/slog"

	"github.com/simaogato/taskconnect-backend/internal/domain"
	"github.com/simaogato/taskconnect-backend/internal/logger"
)

// Recorder appends committed status changes to the history store and
// publishes them. Both sinks are best-effort: a failure is logged and the
// originating operation still succeeds.
type Recorder struct {
	History   domain.StatusHistoryRepository
	Publisher domain.EventPublisher
	Logger    *slog.Logger
}

// NewRecorder creates a new Recorder instance. Either sink may be nil.
func NewRecorder(history domain.StatusHistoryRepository, publisher domain.EventPublisher, log *slog.Logger) *Recorder {
	if log == nil {
		log = slog.Default()
	}
	return &Recorder{
		History:   history,
		Publisher: publisher,
		Logger:    log,
	}
}

// Record implements domain.StatusRecorder.
func (r *Recorder) Record(ctx context.Context, changes []domain.StatusChange) {
	if len(changes) == 0 {
		return
	}
	log := logger.FromContext(ctx, r.Logger)

	for _, c := range changes {
		log.Info("status changed",
			"entity", c.Entity,
			"entity_id", c.EntityID,
			"task_id", c.TaskID,
			"from", c.From,
			"to", c.To,
		)
	}

	if r.History != nil {
		if err := r.History.Append(ctx, changes); err != nil {
			log.Warn("failed to save status history", "error", err, "count", len(changes))
		}
	}
	if r.Publisher != nil {
		if err := r.Publisher.Publish(ctx, changes); err != nil {
			log.Warn("failed to publish status changes", "error", err, "count", len(changes))
		}
	}
}

// Nop discards status changes.
type Nop struct{}

func (Nop) Record(context.Context, []domain.StatusChange) {}
