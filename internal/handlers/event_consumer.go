package handlers

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/fairway-commerce/storefront-service/internal/events"
	"github.com/fairway-commerce/storefront-service/internal/messaging"
	"github.com/fairway-commerce/storefront-service/internal/service"
)

// EventConsumer feeds store events from the broker into the notification
// pipeline. It runs in-process; a dedicated worker would consume the same
// queue the same way.
type EventConsumer struct {
	consumer            *messaging.Consumer
	notificationService *service.NotificationService
}

func NewEventConsumer(consumer *messaging.Consumer, notificationService *service.NotificationService) *EventConsumer {
	return &EventConsumer{
		consumer:            consumer,
		notificationService: notificationService,
	}
}

func (ec *EventConsumer) StartConsuming() error {
	routingKeys := []string{
		fmt.Sprintf("store.%s.%s", service.ServiceName, events.OrderCreatedEvent),
		fmt.Sprintf("store.%s.%s", service.ServiceName, events.OrderStatusChangedEvent),
		fmt.Sprintf("store.%s.%s", service.ServiceName, events.InventoryAdjustedEvent),
	}

	return ec.consumer.ConsumeEvents(routingKeys, ec.handleStoreEvent)
}

func (ec *EventConsumer) handleStoreEvent(event events.StoreEvent) error {
	log.WithFields(log.Fields{
		"event_type":     event.EventType,
		"correlation_id": event.CorrelationID,
	}).Info("store event received")

	if err := ec.notificationService.ProcessStoreEvent(context.Background(), event); err != nil {
		log.WithError(err).WithField("event_type", event.EventType).Error("event processing failed")
		return err
	}

	return nil
}
