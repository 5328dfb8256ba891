// Package queue_publisher provides functions to publish domain events to
// the message broker.  Errors are logged and returned so callers can
// ignore failures without interrupting the main request flow: persistence
// never depends on the broker being reachable.
package queue_publisher

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	q "github.com/guuleed/prison-records/internal/queue"
	"github.com/guuleed/prison-records/internal/repository"
)

const (
	detaineeQueue  = "detainee.events"
	heartbeatQueue = "server.heartbeat"
)

// Publisher publishes fire-and-forget events.  A fresh connection per
// publish keeps the happy path trivial and means a broker outage costs
// one dial attempt, never a stuck channel.
type Publisher struct {
	log *zap.Logger
}

func NewPublisher(log *zap.Logger) *Publisher {
	return &Publisher{log: log}
}

// PublishDetaineeEvent publishes a materialized detainee record under the
// given event kind ("created", "updated" or "status") to the
// detainee.events queue.  Messages are marked persistent.  The error
// return exists for logging only; callers are expected to ignore it.
func (p *Publisher) PublishDetaineeEvent(ctx context.Context, kind string, row repository.DetaineeRow) error {
	ev := q.DetaineeEvent{
		Kind:     kind,
		Detainee: row,
		At:       time.Now().UTC().Format(time.RFC3339),
	}
	return p.publish(ctx, detaineeQueue, ev)
}

// PublishHeartbeat emits the periodic liveness tick.
func (p *Publisher) PublishHeartbeat(ctx context.Context) error {
	return p.publish(ctx, heartbeatQueue, q.HeartbeatEvent{At: time.Now().UTC().Format(time.RFC3339)})
}

func (p *Publisher) publish(ctx context.Context, queueName string, payload any) error {
	conn, err := amqp.Dial(q.BrokerURL())
	if err != nil {
		p.log.Warn("broker: dial failed", zap.Error(err))
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Warn("broker: channel open failed", zap.Error(err))
		return err
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent).  Durable so messages survive
	// broker restarts.
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		p.log.Warn("broker: queue declare failed", zap.Error(err))
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		p.log.Warn("broker: marshal event failed", zap.Error(err))
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queueName, false, false, pub); err != nil {
		p.log.Warn("broker: publish failed", zap.Error(err))
		return err
	}
	return nil
}
