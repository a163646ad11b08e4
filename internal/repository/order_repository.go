package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/fairway-commerce/storefront-service/internal/database"
	"github.com/fairway-commerce/storefront-service/internal/domain"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("items serialization error: %w", err)
	}

	totalsJSON, err := json.Marshal(order.Totals)
	if err != nil {
		return fmt.Errorf("totals serialization error: %w", err)
	}

	shippingJSON, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return fmt.Errorf("shipping address serialization error: %w", err)
	}

	billingJSON, err := json.Marshal(order.BillingAddress)
	if err != nil {
		return fmt.Errorf("billing address serialization error: %w", err)
	}

	query := `
		INSERT INTO orders (
			id, customer_id, items, totals, status, payment_status,
			shipping_address, billing_address, tracking_number, notes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err = r.db.ExecContext(
		ctx,
		query,
		order.ID,
		order.CustomerID,
		itemsJSON,
		totalsJSON,
		order.Status,
		order.PaymentStatus,
		shippingJSON,
		billingJSON,
		order.TrackingNumber,
		order.Notes,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}

	return nil
}

// UpdateOrder persists the mutable order fields. Line items are a snapshot
// and never rewritten after creation.
func (r *OrderRepository) UpdateOrder(ctx context.Context, order *domain.Order) error {
	query := `
		UPDATE orders
		SET status = $2, payment_status = $3, tracking_number = $4,
			notes = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		order.ID,
		order.Status,
		order.PaymentStatus,
		order.TrackingNumber,
		order.Notes,
		order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return database.ErrOrderNotFound
	}

	return nil
}

func (r *OrderRepository) GetOrderByID(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	query := `
		SELECT id, customer_id, items, totals, status, payment_status,
			   shipping_address, billing_address, tracking_number, notes,
			   created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	order := &domain.Order{}
	var itemsJSON, totalsJSON, shippingJSON, billingJSON []byte

	err := r.db.QueryRowContext(ctx, query, orderID).Scan(
		&order.ID,
		&order.CustomerID,
		&itemsJSON,
		&totalsJSON,
		&order.Status,
		&order.PaymentStatus,
		&shippingJSON,
		&billingJSON,
		&order.TrackingNumber,
		&order.Notes,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	if err := unmarshalOrderColumns(order, itemsJSON, totalsJSON, shippingJSON, billingJSON); err != nil {
		return nil, err
	}

	return order, nil
}

func (r *OrderRepository) GetOrdersByCustomerID(ctx context.Context, customerID uuid.UUID) ([]*domain.Order, error) {
	query := `
		SELECT id, customer_id, items, totals, status, payment_status,
			   shipping_address, billing_address, tracking_number, notes,
			   created_at, updated_at
		FROM orders
		WHERE customer_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order

	for rows.Next() {
		order := &domain.Order{}
		var itemsJSON, totalsJSON, shippingJSON, billingJSON []byte

		err := rows.Scan(
			&order.ID,
			&order.CustomerID,
			&itemsJSON,
			&totalsJSON,
			&order.Status,
			&order.PaymentStatus,
			&shippingJSON,
			&billingJSON,
			&order.TrackingNumber,
			&order.Notes,
			&order.CreatedAt,
			&order.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}

		if err := unmarshalOrderColumns(order, itemsJSON, totalsJSON, shippingJSON, billingJSON); err != nil {
			return nil, err
		}

		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return orders, nil
}

func (r *OrderRepository) RecordStatusChange(ctx context.Context, change *domain.StatusChange) error {
	query := `
		INSERT INTO order_status_history (
			id, order_id, previous_status, new_status,
			tracking_number, notes, changed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		change.ID,
		change.OrderID,
		change.PreviousStatus,
		change.NewStatus,
		change.TrackingNumber,
		change.Notes,
		change.ChangedAt,
	)
	if err != nil {
		return fmt.Errorf("record status change: %w", err)
	}

	return nil
}

func unmarshalOrderColumns(order *domain.Order, itemsJSON, totalsJSON, shippingJSON, billingJSON []byte) error {
	if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
		return fmt.Errorf("items deserialization error: %w", err)
	}
	if err := json.Unmarshal(totalsJSON, &order.Totals); err != nil {
		return fmt.Errorf("totals deserialization error: %w", err)
	}
	if err := json.Unmarshal(shippingJSON, &order.ShippingAddress); err != nil {
		return fmt.Errorf("shipping address deserialization error: %w", err)
	}
	if err := json.Unmarshal(billingJSON, &order.BillingAddress); err != nil {
		return fmt.Errorf("billing address deserialization error: %w", err)
	}
	return nil
}
