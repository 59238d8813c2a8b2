package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/swopnil/Guardify/internal/core/domain"
)

// Subjects carried by the Guardify streams.
const (
	SubjectPeopleSnapshot = "guardify.people.snapshot"
	SubjectAlertPrefix    = "guardify.alerts."
	SubjectGeofencePrefix = "guardify.geofence."
	SubjectEscalations    = "guardify.escalations"
)

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	// Ensure streams exist. People snapshots are disposable within seconds,
	// so they live in memory with a short age cap; alerts and escalations
	// are safety records and go to disk.
	streams := []nats.StreamConfig{
		{
			Name:      "GUARDIFY_PEOPLE",
			Subjects:  []string{SubjectPeopleSnapshot},
			Retention: nats.LimitsPolicy,
			MaxAge:    1 * time.Minute,
			Storage:   nats.MemoryStorage,
		},
		{
			Name:      "GUARDIFY_ALERTS",
			Subjects:  []string{SubjectAlertPrefix + ">", SubjectGeofencePrefix + ">"},
			Retention: nats.InterestPolicy,
			MaxAge:    24 * time.Hour,
			Storage:   nats.FileStorage,
		},
		{
			Name:      "GUARDIFY_ESCALATIONS",
			Subjects:  []string{SubjectEscalations},
			Retention: nats.WorkQueuePolicy,
			MaxAge:    24 * time.Hour,
			Storage:   nats.FileStorage,
		},
	}

	for _, cfg := range streams {
		if _, err := js.AddStream(&cfg); err != nil {
			// Stream may already exist — try update
			if _, err := js.UpdateStream(&cfg); err != nil {
				return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
			}
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

func (p *Publisher) PublishPeopleSnapshot(ctx context.Context, snap *domain.PeopleSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(SubjectPeopleSnapshot, data)
	return err
}

func (p *Publisher) PublishAlert(ctx context.Context, alert *domain.SafetyAlert) error {
	data, err := json.Marshal(alert)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(SubjectAlertPrefix+string(alert.Kind), data)
	return err
}

func (p *Publisher) PublishGeofenceTransition(ctx context.Context, tr *domain.GeofenceTransition) error {
	data, err := json.Marshal(tr)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(SubjectGeofencePrefix+tr.Direction, data)
	return err
}

func (p *Publisher) PublishEscalationRequest(ctx context.Context, req *domain.EscalationRequest) error {
	data, err := json.Marshal(req)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(SubjectEscalations, data)
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
