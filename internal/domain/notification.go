package domain

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationOrderConfirmation NotificationType = "order_confirmation"
	NotificationShippingUpdate    NotificationType = "shipping_update"
	NotificationRefundNotice      NotificationType = "refund_notice"
	NotificationLowStockAlert     NotificationType = "low_stock_alert"
)

type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
)

type Notification struct {
	ID        uuid.UUID          `json:"id"`
	OrderID   uuid.UUID          `json:"order_id,omitempty"`
	ProductID uuid.UUID          `json:"product_id,omitempty"`
	Type      NotificationType   `json:"type"`
	Status    NotificationStatus `json:"status"`
	Subject   string             `json:"subject"`
	Message   string             `json:"message"`
	Recipient string             `json:"recipient"`
	CreatedAt time.Time          `json:"created_at"`
	SentAt    *time.Time         `json:"sent_at,omitempty"`
}

func NewNotification(orderID, productID uuid.UUID, notificationType NotificationType, subject, message, recipient string) *Notification {
	return &Notification{
		ID:        uuid.New(),
		OrderID:   orderID,
		ProductID: productID,
		Type:      notificationType,
		Status:    NotificationStatusPending,
		Subject:   subject,
		Message:   message,
		Recipient: recipient,
		CreatedAt: time.Now(),
	}
}

func (n *Notification) MarkAsSent() {
	n.Status = NotificationStatusSent
	now := time.Now()
	n.SentAt = &now
}

func (n *Notification) MarkAsFailed() {
	n.Status = NotificationStatusFailed
}
