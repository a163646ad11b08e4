package messaging

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/streadway/amqp"

	"github.com/fairway-commerce/storefront-service/internal/events"
)

type Publisher struct {
	client *RabbitMQClient
}

func NewPublisher(client *RabbitMQClient) *Publisher {
	return &Publisher{client: client}
}

func (p *Publisher) PublishStoreEvent(event events.StoreEvent) error {
	if !p.client.IsConnected() {
		return fmt.Errorf("no rabbitmq connection")
	}

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CorrelationID == uuid.Nil {
		event.CorrelationID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("event serialization error: %w", err)
	}

	routingKey := fmt.Sprintf("store.%s.%s", event.Service, string(event.EventType))

	channel := p.client.Channel()
	err = channel.Publish(
		p.client.config.Exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			MessageId:    event.ID.String(),
			Timestamp:    event.Timestamp,
			Headers: amqp.Table{
				"order_id":       event.OrderID.String(),
				"correlation_id": event.CorrelationID.String(),
				"service":        event.Service,
				"event_type":     string(event.EventType),
			},
		},
	)

	if err != nil {
		return fmt.Errorf("event publish error: %w", err)
	}

	log.WithFields(log.Fields{
		"routing_key": routingKey,
		"event_type":  event.EventType,
	}).Debug("event published")
	return nil
}

// PublishWithRetry retries transient publish failures with a linear backoff.
func (p *Publisher) PublishWithRetry(event events.StoreEvent, maxRetries int) error {
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		if err := p.PublishStoreEvent(event); err != nil {
			lastErr = err
			log.WithError(err).Warnf("publish attempt %d/%d failed", i+1, maxRetries)

			if i < maxRetries-1 {
				time.Sleep(time.Second * time.Duration(i+1))
				continue
			}
		} else {
			return nil
		}
	}

	return fmt.Errorf("event publish failed after %d attempts: %w", maxRetries, lastErr)
}

// RetryingPublisher is the Publisher handed to services. Every publish
// goes through PublishWithRetry so a broker hiccup does not drop an event.
type RetryingPublisher struct {
	publisher  *Publisher
	maxRetries int
}

func NewRetryingPublisher(publisher *Publisher, maxRetries int) *RetryingPublisher {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &RetryingPublisher{publisher: publisher, maxRetries: maxRetries}
}

func (p *RetryingPublisher) PublishStoreEvent(event events.StoreEvent) error {
	return p.publisher.PublishWithRetry(event, p.maxRetries)
}
