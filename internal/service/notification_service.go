package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/fairway-commerce/storefront-service/internal/domain"
	"github.com/fairway-commerce/storefront-service/internal/events"
)

// Sender delivers a notification to its recipient.
type Sender interface {
	Send(notification *domain.Notification) error
}

// LogSender writes the notification to the log instead of a mail gateway.
type LogSender struct{}

func (LogSender) Send(notification *domain.Notification) error {
	log.WithFields(log.Fields{
		"type":      notification.Type,
		"recipient": notification.Recipient,
		"subject":   notification.Subject,
	}).Info("notification delivered")
	return nil
}

// NotificationService turns store events into persisted notification rows
// and hands them to a Sender for delivery.
type NotificationService struct {
	notifications     NotificationStore
	sender            Sender
	lowStockThreshold int
	alertRecipient    string
}

func NewNotificationService(notifications NotificationStore, sender Sender, lowStockThreshold int, alertRecipient string) *NotificationService {
	return &NotificationService{
		notifications:     notifications,
		sender:            sender,
		lowStockThreshold: lowStockThreshold,
		alertRecipient:    alertRecipient,
	}
}

// dispatch persists the notification as pending, attempts delivery, then
// records the outcome. A failed delivery keeps the row for later inspection
// and is not surfaced to the event consumer.
func (s *NotificationService) dispatch(ctx context.Context, notification *domain.Notification) error {
	if err := s.notifications.CreateNotification(ctx, notification); err != nil {
		return err
	}

	if err := s.sender.Send(notification); err != nil {
		log.WithError(err).WithField("notification_id", notification.ID).
			Warn("notification delivery failed")
		notification.MarkAsFailed()
	} else {
		notification.MarkAsSent()
	}

	return s.notifications.UpdateNotification(ctx, notification)
}

func (s *NotificationService) ProcessStoreEvent(ctx context.Context, event events.StoreEvent) error {
	switch event.EventType {
	case events.OrderCreatedEvent:
		return s.handleOrderCreated(ctx, event)
	case events.OrderStatusChangedEvent:
		return s.handleStatusChanged(ctx, event)
	case events.InventoryAdjustedEvent:
		return s.handleInventoryAdjusted(ctx, event)
	default:
		log.WithField("event_type", event.EventType).Debug("event type ignored")
		return nil
	}
}

func (s *NotificationService) handleOrderCreated(ctx context.Context, event events.StoreEvent) error {
	var payload events.OrderCreatedPayload
	if err := events.DecodePayload(event, &payload); err != nil {
		return err
	}

	notification := domain.NewNotification(
		payload.OrderID,
		uuid.Nil,
		domain.NotificationOrderConfirmation,
		"Order confirmation",
		fmt.Sprintf("Order %s received: %d item(s), $%s total.", payload.OrderID, payload.ItemCount, payload.Total),
		payload.CustomerEmail,
	)

	return s.dispatch(ctx, notification)
}

func (s *NotificationService) handleStatusChanged(ctx context.Context, event events.StoreEvent) error {
	var payload events.OrderStatusChangedPayload
	if err := events.DecodePayload(event, &payload); err != nil {
		return err
	}

	var notification *domain.Notification

	switch domain.OrderStatus(payload.NewStatus) {
	case domain.OrderStatusShipped:
		message := fmt.Sprintf("Order %s has shipped.", payload.OrderID)
		if payload.TrackingNumber != "" {
			message = fmt.Sprintf("Order %s has shipped. Tracking number: %s.", payload.OrderID, payload.TrackingNumber)
		}
		notification = domain.NewNotification(payload.OrderID, uuid.Nil,
			domain.NotificationShippingUpdate, "Your order has shipped", message, payload.CustomerEmail)

	case domain.OrderStatusCancelled:
		notification = domain.NewNotification(payload.OrderID, uuid.Nil,
			domain.NotificationRefundNotice, "Order cancelled",
			fmt.Sprintf("Order %s was cancelled and the payment refunded.", payload.OrderID),
			payload.CustomerEmail)

	default:
		return nil
	}

	return s.dispatch(ctx, notification)
}

func (s *NotificationService) handleInventoryAdjusted(ctx context.Context, event events.StoreEvent) error {
	var payload events.InventoryAdjustedPayload
	if err := events.DecodePayload(event, &payload); err != nil {
		return err
	}

	if payload.Available > s.lowStockThreshold {
		return nil
	}

	notification := domain.NewNotification(
		uuid.Nil,
		payload.ProductID,
		domain.NotificationLowStockAlert,
		"Low stock alert",
		fmt.Sprintf("%s is down to %d available after %s (%d in stock).",
			payload.ProductName, payload.Available, payload.Action, payload.NewStock),
		s.alertRecipient,
	)

	return s.dispatch(ctx, notification)
}

func (s *NotificationService) GetNotificationsByOrderID(ctx context.Context, orderID uuid.UUID) ([]*domain.Notification, error) {
	return s.notifications.GetNotificationsByOrderID(ctx, orderID)
}
