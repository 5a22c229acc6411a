package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

var errMalformed = errors.New("malformed row message")

// Appender is the part of Client the consumer uses.
type Appender interface {
	Append(ctx context.Context, row Row) (Result, error)
}

type Consumer struct {
	url      string
	queue    string
	appender Appender
	log      *zap.Logger
}

func NewConsumer(url, queue string, appender Appender, log *zap.Logger) *Consumer {
	return &Consumer{
		url:      url,
		queue:    queue,
		appender: appender,
		log:      log.With(zap.String("consumer", "sheets"), zap.String("queue", queue)),
	}
}

// Start dials the broker and drains the queue until ctx is done,
// reconnecting with exponential back-off up to 30s.
func (c *Consumer) Start(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.log.Warn("Failed to dial broker", zap.Error(err), zap.Duration("retry_in", backoff))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Warn("Consume loop ended, reconnecting", zap.Error(err))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer ch.Close()

	if err := ch.Qos(10, 0, false); err != nil {
		c.log.Warn("Failed to set QoS", zap.Error(err))
	}
	if _, err := ch.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			c.settle(d, c.handle(ctx, d.Body))
		}
	}
}

func (c *Consumer) settle(d amqp.Delivery, err error) {
	switch {
	case err == nil:
		d.Ack(false)
	case errors.Is(err, errMalformed):
		c.log.Error("Dropping malformed message", zap.Error(err))
		d.Nack(false, false)
	default:
		c.log.Warn("Failed to append row, requeueing", zap.Error(err))
		time.Sleep(time.Second)
		d.Nack(false, true)
	}
}

// handle decodes one message body and appends it.
func (c *Consumer) handle(ctx context.Context, body []byte) error {
	var row Row
	if err := json.Unmarshal(body, &row); err != nil {
		return fmt.Errorf("%w: %v", errMalformed, err)
	}
	if row.ID == "" {
		return fmt.Errorf("%w: missing id", errMalformed)
	}

	res, err := c.appender.Append(ctx, row)
	if errors.Is(err, ErrRejected) {
		// rejected rows are dropped, not requeued
		return fmt.Errorf("%w: %s", errMalformed, res.Error)
	}
	return err
}
