package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Publisher hands a booking row to the spreadsheet pipeline.
type Publisher interface {
	Publish(ctx context.Context, row Row) error
	Close() error
}

// NopPublisher drops rows; used when no endpoint is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Row) error { return nil }
func (NopPublisher) Close() error { return nil }

// DirectPublisher posts each row straight to the endpoint.
type DirectPublisher struct {
	client *Client
}

func NewDirectPublisher(client *Client) *DirectPublisher {
	return &DirectPublisher{client: client}
}

func (p *DirectPublisher) Publish(ctx context.Context, row Row) error {
	_, err := p.client.Append(ctx, row)
	return err
}

func (p *DirectPublisher) Close() error { return nil }

// AMQPPublisher queues rows as persistent JSON messages on a durable queue.
// A Consumer drains the queue into the endpoint.
type AMQPPublisher struct {
	url   string
	queue string
	log   *zap.Logger

	mu   sync.Mutex
	conn *amqp.Connection
}

func NewAMQPPublisher(url, queue string, log *zap.Logger) *AMQPPublisher {
	return &AMQPPublisher{
		url:   url,
		queue: queue,
		log:   log.With(zap.String("publisher", "amqp"), zap.String("queue", queue)),
	}
}

func (p *AMQPPublisher) channel() (*amqp.Channel, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil || p.conn.IsClosed() {
		conn, err := amqp.Dial(p.url)
		if err != nil {
			return nil, fmt.Errorf("dial broker: %w", err)
		}
		p.conn = conn
	}
	return p.conn.Channel()
}

func (p *AMQPPublisher) Publish(ctx context.Context, row Row) error {
	ch, err := p.channel()
	if err != nil {
		p.log.Error("Failed to open channel", zap.Error(err))
		return err
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	body, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("encode row %s: %w", row.ID, err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		MessageId:    row.ID,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		p.log.Error("Failed to publish row", zap.Error(err), zap.String("booking_id", row.ID))
		return fmt.Errorf("publish row %s: %w", row.ID, err)
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil || p.conn.IsClosed() {
		return nil
	}
	return p.conn.Close()
}
