// Package rabbitmq publishes and consumes the store's domain events.
package rabbitmq

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	amqp "github.com/streadway/amqp"
)

// DefaultExchange is the topic exchange every event is published to.
const DefaultExchange = "livraria.events"

// ErrClosed is returned when the client has no open channel.
var ErrClosed = errors.New("rabbitmq channel is not available")

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	log      logrus.FieldLogger

	// amqp channels are not safe for concurrent publishing
	mu sync.Mutex
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL      string
	Exchange string
}

// Event is the envelope written to the broker.
type Event struct {
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// NewClient connects to RabbitMQ and declares the durable events exchange.
func NewClient(cfg Config, log logrus.FieldLogger) (*Client, error) {
	exchange := cfg.Exchange
	if exchange == "" {
		exchange = DefaultExchange
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // kind
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	log.WithField("exchange", exchange).Info("RabbitMQ client connected")

	return &Client{
		conn:     conn,
		channel:  ch,
		exchange: exchange,
		log:      log,
	}, nil
}

// Close closes the RabbitMQ channel and connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	return errors.Join(errs...)
}

// PublishEvent wraps payload in an Event and publishes it with routingKey
// as both the event type and the routing key.
func (c *Client) PublishEvent(routingKey string, payload any) error {
	if c.channel == nil {
		return ErrClosed
	}

	body, err := encodeEvent(routingKey, payload, time.Now().UTC())
	if err != nil {
		return err
	}

	c.mu.Lock()
	err = c.channel.Publish(
		c.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", routingKey, err)
	}

	c.log.WithField("event", routingKey).Debug("event published")
	return nil
}

// Consume binds a durable queue to the given routing keys and hands every
// decoded event to handler on a background goroutine. A handler error
// requeues the message; undecodable messages are dropped.
func (c *Client) Consume(queue string, routingKeys []string, handler func(Event) error) error {
	if c.channel == nil {
		return ErrClosed
	}

	q, err := c.channel.QueueDeclare(
		queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}
	for _, key := range routingKeys {
		if err := c.channel.QueueBind(q.Name, key, c.exchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind %s to %s: %w", q.Name, key, err)
		}
	}

	msgs, err := c.channel.Consume(
		q.Name,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for msg := range msgs {
			log := c.log.WithField("delivery_tag", msg.DeliveryTag)
			event, err := DecodeEvent(msg.Body)
			if err != nil {
				log.WithError(err).Warn("dropping malformed event")
				_ = msg.Nack(false, false)
				continue
			}
			if err := handler(event); err != nil {
				log.WithError(err).WithField("event", event.Type).Error("event handler failed")
				if nackErr := msg.Nack(false, true); nackErr != nil {
					log.WithError(nackErr).Error("failed to nack message")
				}
				continue
			}
			if ackErr := msg.Ack(false); ackErr != nil {
				log.WithError(ackErr).Error("failed to ack message")
			}
		}
	}()

	return nil
}

func encodeEvent(eventType string, payload any, at time.Time) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	body, err := json.Marshal(Event{Type: eventType, OccurredAt: at, Payload: raw})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}
	return body, nil
}

// DecodeEvent parses a message body written by PublishEvent.
func DecodeEvent(body []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(body, &e); err != nil {
		return Event{}, fmt.Errorf("failed to decode event: %w", err)
	}
	if e.Type == "" {
		return Event{}, errors.New("event has no type")
	}
	return e, nil
}
