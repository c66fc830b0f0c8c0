package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/spendwise/internal"
	"github.com/frahmantamala/spendwise/internal/core/events"
	"github.com/rabbitmq/amqp091-go"
)

// BindingKey routes every expense event to the tail queue.
const BindingKey = "expense.*"

const publishTimeout = 5 * time.Second

// Channel is the subset of *amqp091.Channel the client uses.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp091.Table) (amqp091.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp091.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp091.Table) (<-chan amqp091.Delivery, error)
	Close() error
}

type Client struct {
	conn     *amqp091.Connection
	channel  Channel
	exchange string
	queue    string
	logger   *slog.Logger
}

// Dial connects to the broker and declares the topic exchange and tail queue.
func Dial(cfg internal.AMQPConfig, logger *slog.Logger) (*Client, error) {
	conn, err := amqp091.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client, err := NewClient(channel, cfg.Exchange, cfg.Queue, logger)
	if err != nil {
		conn.Close()
		return nil, err
	}
	client.conn = conn
	return client, nil
}

// NewClient wraps an already open channel.
func NewClient(channel Channel, exchange, queue string, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	client := &Client{
		channel:  channel,
		exchange: exchange,
		queue:    queue,
		logger:   logger,
	}
	if err := client.setup(); err != nil {
		channel.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}
	return client, nil
}

func (c *Client) setup() error {
	if err := c.channel.ExchangeDeclare(c.exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	if c.queue == "" {
		return nil
	}
	if _, err := c.channel.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := c.channel.QueueBind(c.queue, BindingKey, c.exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

// Publish sends the event with its type as routing key.
func (c *Client) Publish(ctx context.Context, event events.Event) error {
	body, err := json.Marshal(events.ToEnvelope(event))
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = c.channel.PublishWithContext(ctx, c.exchange, event.EventType(), false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    event.EventID(),
		Type:         event.EventType(),
		Timestamp:    event.OccurredAt(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	c.logger.DebugContext(ctx, "event forwarded to broker",
		"event_type", event.EventType(),
		"event_id", event.EventID(),
		"exchange", c.exchange)
	return nil
}

// Forwarder adapts the client to an event bus handler.
func (c *Client) Forwarder() events.Handler {
	return func(ctx context.Context, event events.Event) error {
		return c.Publish(ctx, event)
	}
}

// Consume delivers envelopes from the tail queue to handler until ctx is
// done. Malformed messages are dropped; handler failures are requeued.
func (c *Client) Consume(ctx context.Context, handler func(events.Envelope) error) error {
	deliveries, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	c.logger.InfoContext(ctx, "consuming expense events", "queue", c.queue)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}

			var envelope events.Envelope
			if err := json.Unmarshal(delivery.Body, &envelope); err != nil {
				c.logger.ErrorContext(ctx, "failed to decode event", "error", err)
				delivery.Nack(false, false)
				continue
			}

			if err := handler(envelope); err != nil {
				c.logger.ErrorContext(ctx, "failed to handle event",
					"error", err,
					"event_id", envelope.ID)
				delivery.Nack(false, true)
				continue
			}

			delivery.Ack(false)
		}
	}
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
