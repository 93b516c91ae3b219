package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/dayroute/internal/core/domain"
)

// Subject layout: itinerary.optimized.<travel_mode>.<id>
const (
	StreamName       = "ITINERARY_EVENTS"
	SubjectOptimized = "itinerary.optimized"
)

// OptimizedSubject returns the subject an event is published on.
func OptimizedSubject(mode domain.TravelMode, id string) string {
	return SubjectOptimized + "." + string(mode) + "." + id
}

// OptimizedFilter returns the wildcard subject for a mode, or for every mode
// when mode is empty.
func OptimizedFilter(mode domain.TravelMode) string {
	if mode == "" {
		return SubjectOptimized + ".>"
	}
	return SubjectOptimized + "." + string(mode) + ".>"
}

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	cfg := nats.StreamConfig{
		Name:      StreamName,
		Subjects:  []string{SubjectOptimized + ".>"},
		Retention: nats.LimitsPolicy,
		MaxAge:    24 * time.Hour,
		Storage:   nats.FileStorage,
	}
	if _, err := js.AddStream(&cfg); err != nil {
		// Stream may already exist, try update
		if _, err := js.UpdateStream(&cfg); err != nil {
			return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

// PublishOptimized implements ports.EventPublisher.
func (p *Publisher) PublishOptimized(ctx context.Context, event *domain.OptimizationEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(OptimizedSubject(event.TravelMode, event.ID), data, nats.Context(ctx))
	return err
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
