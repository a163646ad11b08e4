package messaging

import (
	"encoding/json"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/streadway/amqp"

	"github.com/fairway-commerce/storefront-service/internal/events"
)

type EventHandler func(event events.StoreEvent) error

type Consumer struct {
	client      *RabbitMQClient
	queueName   string
	serviceName string
}

func NewConsumer(client *RabbitMQClient, queueName, serviceName string) *Consumer {
	return &Consumer{
		client:      client,
		queueName:   queueName,
		serviceName: serviceName,
	}
}

func (c *Consumer) ConsumeEvents(routingKeys []string, handler EventHandler) error {
	if !c.client.IsConnected() {
		return fmt.Errorf("no rabbitmq connection")
	}

	channel := c.client.Channel()

	queue, err := channel.QueueDeclare(
		c.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("queue declare error: %w", err)
	}

	for _, routingKey := range routingKeys {
		err = channel.QueueBind(
			queue.Name,
			routingKey,
			c.client.config.Exchange,
			false,
			nil,
		)
		if err != nil {
			return fmt.Errorf("queue bind error (%s): %w", routingKey, err)
		}
		log.WithFields(log.Fields{
			"queue":       queue.Name,
			"routing_key": routingKey,
		}).Info("queue bound")
	}

	messages, err := channel.Consume(
		queue.Name,
		c.serviceName,
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("consume start error: %w", err)
	}

	log.WithField("queue", queue.Name).Info("consuming events")

	go func() {
		for {
			select {
			case msg := <-messages:
				c.handleMessage(msg, handler)
			case <-c.client.ctx.Done():
				log.WithField("consumer", c.serviceName).Info("consumer stopped")
				return
			}
		}
	}()

	return nil
}

func (c *Consumer) handleMessage(msg amqp.Delivery, handler EventHandler) {
	var event events.StoreEvent

	if err := json.Unmarshal(msg.Body, &event); err != nil {
		log.WithError(err).Error("event deserialize error")
		msg.Nack(false, false)
		return
	}

	if err := handler(event); err != nil {
		log.WithError(err).WithField("event_type", event.EventType).Error("event process error")

		if c.shouldRetry(msg) {
			c.republish(msg, event)
		} else {
			msg.Nack(false, false)
		}
		return
	}

	msg.Ack(false)
}

func (c *Consumer) shouldRetry(msg amqp.Delivery) bool {
	if xDeath, ok := msg.Headers["x-death"]; ok {
		if deathArray, ok := xDeath.([]interface{}); ok && len(deathArray) > 0 {
			if death, ok := deathArray[0].(amqp.Table); ok {
				if count, ok := death["count"]; ok {
					if retryCount, ok := count.(int64); ok && retryCount >= 3 {
						return false
					}
				}
			}
		}
	}

	return true
}

func (c *Consumer) republish(msg amqp.Delivery, event events.StoreEvent) {
	channel := c.client.Channel()

	time.Sleep(2 * time.Second)

	err := channel.Publish(
		msg.Exchange,
		msg.RoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  msg.ContentType,
			Body:         msg.Body,
			DeliveryMode: msg.DeliveryMode,
			Headers:      msg.Headers,
		},
	)

	if err != nil {
		log.WithError(err).Error("retry publish error")
		msg.Nack(false, false)
		return
	}

	msg.Ack(false)
	log.WithField("event_type", event.EventType).Info("event re-published for retry")
}
