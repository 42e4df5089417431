// Package mq is a thin RabbitMQ wrapper: one Publisher per exchange and Consumers
// that bind a queue to routing keys and ack/nack per message.
package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Handler processes one delivery. A non-nil error requeues the message.
type Handler func(routingKey string, body []byte) error

type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	logger   *zap.Logger
}

// NewPublisher dials url and declares exchange.
func NewPublisher(url, exchange, exchangeType string, logger *zap.Logger) (*Publisher, error) {
	conn, channel, err := dialExchange(url, exchange, exchangeType)
	if err != nil {
		return nil, err
	}

	logger.Info("rabbitmq publisher ready",
		zap.String("exchange", exchange),
		zap.String("type", exchangeType),
	)
	return &Publisher{conn: conn, channel: channel, exchange: exchange, logger: logger}, nil
}

// Publish JSON-encodes message and publishes it as a persistent delivery.
func (p *Publisher) Publish(ctx context.Context, routingKey string, message interface{}) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	return p.PublishRaw(ctx, routingKey, body)
}

func (p *Publisher) PublishRaw(ctx context.Context, routingKey string, body []byte) error {
	err := p.channel.PublishWithContext(ctx,
		p.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}

	p.logger.Debug("message published", zap.String("routing_key", routingKey), zap.Int("bytes", len(body)))
	return nil
}

func (p *Publisher) Close() error {
	return closeAll(p.channel, p.conn)
}

// QueueOptions selects between a shared durable work queue and a per-instance
// exclusive queue (empty Name, server-generated, deleted with the connection).
type QueueOptions struct {
	Name      string
	Exclusive bool
}

type Consumer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	logger  *zap.Logger
}

// NewConsumer dials url and binds queue to exchange for routingKeys.
func NewConsumer(url, exchange, exchangeType string, queue QueueOptions, routingKeys []string, logger *zap.Logger) (*Consumer, error) {
	conn, channel, err := dialExchange(url, exchange, exchangeType)
	if err != nil {
		return nil, err
	}

	q, err := channel.QueueDeclare(
		queue.Name,
		!queue.Exclusive, // durable
		queue.Exclusive,  // auto-delete
		queue.Exclusive,  // exclusive
		false,
		nil,
	)
	if err != nil {
		_ = closeAll(channel, conn)
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	for _, key := range routingKeys {
		if err := channel.QueueBind(q.Name, key, exchange, false, nil); err != nil {
			_ = closeAll(channel, conn)
			return nil, fmt.Errorf("bind queue to %s: %w", key, err)
		}
	}

	logger.Info("rabbitmq consumer ready", zap.String("queue", q.Name), zap.Strings("routing_keys", routingKeys))
	return &Consumer{conn: conn, channel: channel, queue: q.Name, logger: logger}, nil
}

// Consume blocks until ctx is cancelled or the delivery channel closes.
func (c *Consumer) Consume(ctx context.Context, handler Handler) error {
	if err := c.channel.Qos(16, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}

	msgs, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("delivery channel closed for queue %s", c.queue)
			}
			if err := handler(msg.RoutingKey, msg.Body); err != nil {
				c.logger.Warn("message handling failed, requeueing",
					zap.String("routing_key", msg.RoutingKey),
					zap.Error(err),
				)
				_ = msg.Nack(false, true)
				continue
			}
			_ = msg.Ack(false)
		}
	}
}

func (c *Consumer) Close() error {
	return closeAll(c.channel, c.conn)
}

func dialExchange(url, exchange, exchangeType string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("connect rabbitmq: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}

	if err := channel.ExchangeDeclare(exchange, exchangeType, true, false, false, false, nil); err != nil {
		_ = closeAll(channel, conn)
		return nil, nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return conn, channel, nil
}

func closeAll(channel *amqp.Channel, conn *amqp.Connection) error {
	if channel != nil {
		_ = channel.Close()
	}
	if conn != nil {
		return conn.Close()
	}
	return nil
}
