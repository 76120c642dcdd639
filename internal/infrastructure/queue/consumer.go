package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/pear651530/Meal-Provider/internal/core/domain"
)

// ConsumerConfig names the broker objects the portal listens on.
type ConsumerConfig struct {
	URL        string
	Exchange   string
	RoutingKey string
	Queue      string
}

// Enqueuer accepts decoded billing events.
type Enqueuer interface {
	Enqueue(event domain.BillingEvent)
}

// Consumer reads billing events from RabbitMQ and hands them to the
// dispatcher.
type Consumer struct {
	cfg  ConsumerConfig
	conn *amqp.Connection
	chn  *amqp.Channel
	sink Enqueuer
	log  zerolog.Logger
}

// NewConsumer dials the broker and declares the topic exchange, the portal's
// durable queue and the binding between them.
func NewConsumer(cfg ConsumerConfig, sink Enqueuer, log zerolog.Logger) (*Consumer, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	chn, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	c := &Consumer{cfg: cfg, conn: conn, chn: chn, sink: sink, log: log.With().Str("queue", cfg.Queue).Logger()}
	if err := c.declare(); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Consumer) declare() error {
	if err := c.chn.ExchangeDeclare(
		c.cfg.Exchange, // name
		"topic",        // kind
		true,           // durable
		false,          // auto-delete
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	); err != nil {
		return fmt.Errorf("declare exchange %s: %w", c.cfg.Exchange, err)
	}
	if _, err := c.chn.QueueDeclare(
		c.cfg.Queue, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	); err != nil {
		return fmt.Errorf("declare queue %s: %w", c.cfg.Queue, err)
	}
	if err := c.chn.QueueBind(c.cfg.Queue, c.cfg.RoutingKey, c.cfg.Exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue %s: %w", c.cfg.Queue, err)
	}
	return nil
}

// Run delivers messages to the sink until ctx is cancelled or the broker
// closes the channel.
func (c *Consumer) Run(ctx context.Context) error {
	msgs, err := c.chn.Consume(
		c.cfg.Queue, // queue
		"",          // consumer
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("consume %s: %w", c.cfg.Queue, err)
	}

	c.log.Info().Str("exchange", c.cfg.Exchange).Str("routing_key", c.cfg.RoutingKey).Msg("billing consumer started")
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("consume %s: delivery channel closed", c.cfg.Queue)
			}
			c.handle(msg)
		}
	}
}

// handle acks every message once it is queued. Malformed payloads are
// rejected without requeue.
func (c *Consumer) handle(msg amqp.Delivery) {
	event, err := DecodeBillingEvent(msg.Body)
	if err != nil {
		c.log.Warn().Err(err).Msg("dropping malformed billing event")
		_ = msg.Nack(false, false)
		return
	}
	c.sink.Enqueue(event)
	if err := msg.Ack(false); err != nil {
		c.log.Warn().Err(err).Int64("user_id", event.UserID).Msg("ack failed")
	}
}

// Close cleans up the channel and the connection.
func (c *Consumer) Close() error {
	if err := c.chn.Close(); err != nil {
		_ = c.conn.Close()
		return err
	}
	return c.conn.Close()
}

// Healthy reports whether the broker connection is still open.
func (c *Consumer) Healthy() bool {
	return c.conn != nil && !c.conn.IsClosed()
}

// DecodeBillingEvent parses the JSON payload published by the admin service.
func DecodeBillingEvent(body []byte) (domain.BillingEvent, error) {
	var event domain.BillingEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return domain.BillingEvent{}, fmt.Errorf("decode billing event: %w", err)
	}
	if event.UserID <= 0 {
		return domain.BillingEvent{}, domain.ErrInvalidBillingEvent
	}
	return event, nil
}
