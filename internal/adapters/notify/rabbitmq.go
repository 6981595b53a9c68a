package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/okian/leadboard/pkg/metrics"
)

// ExchangeName is the topic exchange action events are published to.
const ExchangeName = "leadboard.actions"

// RoutingKey returns the routing key for an action kind, e.g. "lead.assign".
func RoutingKey(kind string) string { return "lead." + kind }

type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitPublisher publishes persistent JSON events to a topic exchange.
type RabbitPublisher struct {
	conn     *amqp.Connection
	mu       sync.Mutex // amqp channels are not safe for concurrent publishing
	ch       amqpChannel
	exchange string
}

var _ Publisher = (*RabbitPublisher)(nil)

// DialRabbit connects to url and declares the exchange.
func DialRabbit(url string) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(ExchangeName, "topic", true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	p := newRabbitPublisher(ch)
	p.conn = conn
	return p, nil
}

func newRabbitPublisher(ch amqpChannel) *RabbitPublisher {
	return &RabbitPublisher{ch: ch, exchange: ExchangeName}
}

// Publish implements Publisher.
func (p *RabbitPublisher) Publish(ctx context.Context, e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPublish, err)
	}

	p.mu.Lock()
	err = p.ch.PublishWithContext(ctx, p.exchange, RoutingKey(string(e.Kind)), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    e.ActionID + ":" + e.LeadID,
		Timestamp:    e.At,
		Body:         body,
	})
	p.mu.Unlock()
	if err != nil {
		metrics.RecordNotification("amqp", "failed")
		return fmt.Errorf("%w: %v", ErrPublish, err)
	}
	metrics.RecordNotification("amqp", "sent")
	return nil
}

// Close closes the channel and the connection.
func (p *RabbitPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	err := p.ch.Close()
	if p.conn != nil {
		if cerr := p.conn.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
