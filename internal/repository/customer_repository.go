package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fairway-commerce/storefront-service/internal/database"
	"github.com/fairway-commerce/storefront-service/internal/domain"
)

type CustomerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) CreateCustomer(ctx context.Context, customer *domain.Customer) error {
	shippingJSON, err := json.Marshal(customer.ShippingAddress)
	if err != nil {
		return fmt.Errorf("shipping address serialization error: %w", err)
	}

	billingJSON, err := json.Marshal(customer.BillingAddress)
	if err != nil {
		return fmt.Errorf("billing address serialization error: %w", err)
	}

	query := `
		INSERT INTO customers (
			id, email, first_name, last_name, phone,
			shipping_address, billing_address, total_orders, total_spent,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = r.db.ExecContext(
		ctx,
		query,
		customer.ID,
		customer.Email,
		customer.FirstName,
		customer.LastName,
		customer.Phone,
		shippingJSON,
		billingJSON,
		customer.TotalOrders,
		customer.TotalSpent,
		customer.CreatedAt,
		customer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create customer: %w", err)
	}

	return nil
}

func (r *CustomerRepository) GetCustomerByID(ctx context.Context, customerID uuid.UUID) (*domain.Customer, error) {
	query := `
		SELECT id, email, first_name, last_name, phone,
			   shipping_address, billing_address, total_orders, total_spent,
			   created_at, updated_at
		FROM customers
		WHERE id = $1
	`

	customer := &domain.Customer{}
	var shippingJSON, billingJSON []byte

	err := r.db.QueryRowContext(ctx, query, customerID).Scan(
		&customer.ID,
		&customer.Email,
		&customer.FirstName,
		&customer.LastName,
		&customer.Phone,
		&shippingJSON,
		&billingJSON,
		&customer.TotalOrders,
		&customer.TotalSpent,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}

	if err := json.Unmarshal(shippingJSON, &customer.ShippingAddress); err != nil {
		return nil, fmt.Errorf("shipping address deserialization error: %w", err)
	}
	if err := json.Unmarshal(billingJSON, &customer.BillingAddress); err != nil {
		return nil, fmt.Errorf("billing address deserialization error: %w", err)
	}

	return customer, nil
}

func (r *CustomerRepository) UpdateAddresses(ctx context.Context, customerID uuid.UUID, shipping, billing *domain.Address) error {
	shippingJSON, err := json.Marshal(shipping)
	if err != nil {
		return fmt.Errorf("shipping address serialization error: %w", err)
	}

	billingJSON, err := json.Marshal(billing)
	if err != nil {
		return fmt.Errorf("billing address serialization error: %w", err)
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE customers
		 SET shipping_address = $2,
		     billing_address = COALESCE($3, billing_address),
		     updated_at = NOW()
		 WHERE id = $1`,
		customerID, shippingJSON, nullableJSON(billing, billingJSON))
	if err != nil {
		return fmt.Errorf("update customer addresses: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return database.ErrCustomerNotFound
	}

	return nil
}

// ApplyOrderTotals bumps the customer aggregates with a single atomic
// statement. No read-modify-write on these counters anywhere.
func (r *CustomerRepository) ApplyOrderTotals(ctx context.Context, customerID uuid.UUID, orderTotal decimal.Decimal) error {
	return withRetry(ctx, func() error {
		result, err := r.db.ExecContext(ctx,
			`UPDATE customers
			 SET total_orders = total_orders + 1,
			     total_spent = total_spent + $2,
			     updated_at = NOW()
			 WHERE id = $1`,
			customerID, orderTotal)
		if err != nil {
			return fmt.Errorf("apply order totals: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return err
		}

		if rowsAffected == 0 {
			return database.ErrCustomerNotFound
		}

		return nil
	})
}

func nullableJSON(value *domain.Address, marshaled []byte) interface{} {
	if value == nil {
		return nil
	}
	return marshaled
}
