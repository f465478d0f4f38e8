/**
 * @description
 * RabbitMQ event producer. Publishes domain events (KYC decisions,
 * withdrawal status changes) to a topic exchange for downstream consumers
 * such as the mailer. Delivery is best-effort; callers treat publish
 * failures as log-and-continue.
 */

package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// EventProducer publishes events to a RabbitMQ topic exchange.
type EventProducer struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

// NewEventProducer connects and opens a channel against the given exchange.
func NewEventProducer(amqpURL, exchange string) (*EventProducer, error) {
	cleanURL, err := sanitizeProducerURL(amqpURL)
	if err != nil {
		return nil, err
	}

	conn, err := amqp.DialConfig(cleanURL, amqp.Config{Dial: amqp.DefaultDial(10 * time.Second)})
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	if err := channel.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	return &EventProducer{conn: conn, channel: channel, exchange: exchange}, nil
}

// Publish sends a message to the exchange with the specified routing key.
func (p *EventProducer) Publish(ctx context.Context, routingKey string, body interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	if err := p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        payload,
	}); err != nil {
		return err
	}

	zap.L().Debug("event published",
		zap.String("exchange", p.exchange),
		zap.String("routing_key", routingKey),
	)
	return nil
}

// Close releases channel and connection resources.
func (p *EventProducer) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

// sanitizeProducerURL validates the AMQP URL and strips stray whitespace that
// tends to sneak in via environment files.
func sanitizeProducerURL(amqpURL string) (string, error) {
	trimmed := strings.TrimSpace(amqpURL)
	if trimmed == "" {
		return "", errors.New("rabbitmq url is empty")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", err
	}
	if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
		return "", errors.New("rabbitmq url must use amqp:// or amqps://")
	}
	return trimmed, nil
}
