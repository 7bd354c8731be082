// Package events publishes committed status changes.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/simaogato/taskconnect-backend/internal/domain"
)

// SubjectPrefix prefixes every status change subject.
const SubjectPrefix = "taskconnect.status"

// Message is the wire form of a domain.StatusChange.
type Message struct {
	Entity    string    `json:"entity"`
	EntityID  int64     `json:"entity_id"`
	TaskID    int64     `json:"task_id"`
	From      string    `json:"from,omitempty"`
	To        string    `json:"to"`
	ChangedAt time.Time `json:"changed_at"`
}

// Subject returns the subject a change is published on,
// e.g. "taskconnect.status.bid".
func Subject(c domain.StatusChange) string {
	return SubjectPrefix + "." + string(c.Entity)
}

// Encode serializes a change as JSON.
func Encode(c domain.StatusChange) ([]byte, error) {
	data, err := json.Marshal(Message{
		Entity:    string(c.Entity),
		EntityID:  c.EntityID,
		TaskID:    c.TaskID,
		From:      c.From,
		To:        c.To,
		ChangedAt: c.ChangedAt.UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode status change: %w", err)
	}
	return data, nil
}

// LogPublisher writes changes to a logger. It is used when no broker is
// configured.
type LogPublisher struct {
	Logger *slog.Logger
}

func (p LogPublisher) Publish(ctx context.Context, changes []domain.StatusChange) error {
	log := p.Logger
	if log == nil {
		log = slog.Default()
	}
	for _, c := range changes {
		log.DebugContext(ctx, "status event", "subject", Subject(c), "entity_id", c.EntityID, "to", c.To)
	}
	return nil
}
