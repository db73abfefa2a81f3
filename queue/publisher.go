package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/waitlist-app/models"
	"github.com/yeremiapane/waitlist-app/utils"
)

// Publisher keeps one AMQP connection and channel for the lifetime of the server.
type Publisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	mu   sync.Mutex
}

// Dial connects to the broker and declares the events exchange.
func Dial(url string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	if err := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("rabbitmq exchange declare: %w", err)
	}

	utils.InfoLogger.WithField("exchange", Exchange).Info("rabbitmq publisher ready")
	return &Publisher{conn: conn, ch: ch}, nil
}

// PublishStatusChange sends the change as a persistent JSON message.
func (p *Publisher) PublishStatusChange(ctx context.Context, change models.StatusChange) error {
	event := NewStatusChangedEvent(change)
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal status event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.PublishWithContext(ctx, Exchange, event.RoutingKey(), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		MessageId:    fmt.Sprint(change.ID),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", event.RoutingKey(), err)
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"routing_key": event.RoutingKey(),
		"record_id":   event.RecordID,
	}).Debug("status event published")
	return nil
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
