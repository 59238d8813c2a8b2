package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/swopnil/Guardify/internal/core/domain"
)

// Subscriber implements ports.EventSubscriber using NATS JetStream.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	subs []*nats.Subscription
}

// NewSubscriber creates a subscriber sharing a NATS connection.
func NewSubscriber(url string) (*Subscriber, error) {
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
	return &Subscriber{conn: conn, js: js}, nil
}

// SubscribePeopleSnapshots delivers each new snapshot to the handler. Every
// API instance keeps its own view, so the consumer is ephemeral and starts
// at new messages; replaying stale positions would be worse than useless.
func (s *Subscriber) SubscribePeopleSnapshots(ctx context.Context, handler func(ctx context.Context, snap *domain.PeopleSnapshot) error) error {
	sub, err := s.js.Subscribe(SubjectPeopleSnapshot, func(msg *nats.Msg) {
		var snap domain.PeopleSnapshot
		if err := json.Unmarshal(msg.Data, &snap); err != nil {
			_ = msg.Nak()
			return
		}
		if err := handler(ctx, &snap); err != nil {
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.DeliverNew(),
		nats.ManualAck(),
	)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

func (s *Subscriber) SubscribeAlerts(ctx context.Context, handler func(ctx context.Context, alert *domain.SafetyAlert) error) error {
	sub, err := s.js.Subscribe(SubjectAlertPrefix+">", func(msg *nats.Msg) {
		var alert domain.SafetyAlert
		if err := json.Unmarshal(msg.Data, &alert); err != nil {
			_ = msg.Nak()
			return
		}
		if err := handler(ctx, &alert); err != nil {
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable("alert-processor"),
		nats.ManualAck(),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

// SubscribeEscalationRequests feeds the escalation worker. The stream uses a
// work queue, so exactly one worker picks up each request.
func (s *Subscriber) SubscribeEscalationRequests(ctx context.Context, handler func(ctx context.Context, req *domain.EscalationRequest) error) error {
	sub, err := s.js.Subscribe(SubjectEscalations, func(msg *nats.Msg) {
		var req domain.EscalationRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			_ = msg.Nak()
			return
		}
		if err := handler(ctx, &req); err != nil {
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable("escalation-dispatcher"),
		nats.ManualAck(),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}
