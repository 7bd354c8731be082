package events

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/simaogato/taskconnect-backend/internal/domain"
)

// NATSPublisher implements domain.EventPublisher using NATS JetStream.
type NATSPublisher struct {
	nc *nats.Conn
	js jetstream.JetStream
}

// Connect establishes a connection to NATS and ensures the stream capturing
// status subjects exists.
func Connect(ctx context.Context, url, stream string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url, nats.Name("taskconnect"))
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream init: %w", err)
	}

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     stream,
		Subjects: []string{SubjectPrefix + ".>"},
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream stream create: %w", err)
	}

	slog.Info("nats connected", "url", url, "stream", stream)
	return &NATSPublisher{nc: nc, js: js}, nil
}

// Publish sends one message per change. It stops at the first failure.
func (p *NATSPublisher) Publish(ctx context.Context, changes []domain.StatusChange) error {
	for _, c := range changes {
		data, err := Encode(c)
		if err != nil {
			return err
		}
		subject := Subject(c)
		if _, err := p.js.Publish(ctx, subject, data); err != nil {
			return fmt.Errorf("nats publish %s: %w", subject, err)
		}
	}
	return nil
}

// Conn exposes the underlying connection.
func (p *NATSPublisher) Conn() *nats.Conn {
	return p.nc
}

// Close drains and shuts down the NATS connection.
func (p *NATSPublisher) Close() error {
	return p.nc.Drain()
}
