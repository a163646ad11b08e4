package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/fairway-commerce/storefront-service/internal/domain"
)

type NotificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) CreateNotification(ctx context.Context, notification *domain.Notification) error {
	query := `
		INSERT INTO notifications (
			id, order_id, product_id, type, status,
			subject, message, recipient, created_at, sent_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		notification.ID,
		nilUUID(notification.OrderID),
		nilUUID(notification.ProductID),
		notification.Type,
		notification.Status,
		notification.Subject,
		notification.Message,
		notification.Recipient,
		notification.CreatedAt,
		notification.SentAt,
	)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	return nil
}

func (r *NotificationRepository) UpdateNotification(ctx context.Context, notification *domain.Notification) error {
	query := `
		UPDATE notifications
		SET status = $2, sent_at = $3
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, notification.ID, notification.Status, notification.SentAt)
	if err != nil {
		return fmt.Errorf("update notification: %w", err)
	}

	return nil
}

func (r *NotificationRepository) GetNotificationsByOrderID(ctx context.Context, orderID uuid.UUID) ([]*domain.Notification, error) {
	query := `
		SELECT id, order_id, product_id, type, status,
			   subject, message, recipient, created_at, sent_at
		FROM notifications
		WHERE order_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*domain.Notification

	for rows.Next() {
		notification := &domain.Notification{}
		var orderID, productID sql.NullString
		var sentAt sql.NullTime

		err := rows.Scan(
			&notification.ID,
			&orderID,
			&productID,
			&notification.Type,
			&notification.Status,
			&notification.Subject,
			&notification.Message,
			&notification.Recipient,
			&notification.CreatedAt,
			&sentAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}

		if orderID.Valid {
			if parsed, err := uuid.Parse(orderID.String); err == nil {
				notification.OrderID = parsed
			}
		}
		if productID.Valid {
			if parsed, err := uuid.Parse(productID.String); err == nil {
				notification.ProductID = parsed
			}
		}
		if sentAt.Valid {
			notification.SentAt = &sentAt.Time
		}

		notifications = append(notifications, notification)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return notifications, nil
}

func nilUUID(id uuid.UUID) interface{} {
	if id == uuid.Nil {
		return nil
	}
	return id
}
