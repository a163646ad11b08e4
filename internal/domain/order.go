package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

var orderStatuses = map[OrderStatus]bool{
	OrderStatusPending:    true,
	OrderStatusConfirmed:  true,
	OrderStatusProcessing: true,
	OrderStatusShipped:    true,
	OrderStatusDelivered:  true,
	OrderStatusCancelled:  true,
}

func ValidOrderStatus(status OrderStatus) bool {
	return orderStatuses[status]
}

var (
	ErrInvalidOrderStatus = errors.New("invalid order status")
	ErrInvalidRequest     = errors.New("invalid request")
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
	PaymentStatusFailed   PaymentStatus = "failed"
)

// Pricing policy is fixed: 8% tax on the subtotal, flat $15 shipping waived
// above a $100 subtotal.
var (
	taxRate               = decimal.NewFromFloat(0.08)
	flatShipping          = decimal.NewFromInt(15)
	freeShippingThreshold = decimal.NewFromInt(100)
)

const placeholderImageURL = "/images/placeholder-club.jpg"

type OrderItem struct {
	ProductID      uuid.UUID         `json:"product_id"`
	Name           string            `json:"name"`
	Price          decimal.Decimal   `json:"price"`
	Quantity       int               `json:"quantity"`
	Total          decimal.Decimal   `json:"total"`
	Customizations map[string]string `json:"customizations,omitempty"`
	ImageURL       string            `json:"image_url"`
}

// NewOrderItem snapshots a product into an order line at the price it was
// sold for.
func NewOrderItem(product *Product, quantity int, customizations map[string]string) OrderItem {
	imageURL := product.ImageURL
	if imageURL == "" {
		imageURL = placeholderImageURL
	}
	return OrderItem{
		ProductID:      product.ID,
		Name:           product.Name,
		Price:          product.Price,
		Quantity:       quantity,
		Total:          product.Price.Mul(decimal.NewFromInt(int64(quantity))).Round(2),
		Customizations: customizations,
		ImageURL:       imageURL,
	}
}

type OrderTotals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

func CalculateTotals(items []OrderItem) OrderTotals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Total)
	}
	subtotal = subtotal.Round(2)

	tax := subtotal.Mul(taxRate).Round(2)

	shipping := flatShipping
	if subtotal.GreaterThan(freeShippingThreshold) {
		shipping = decimal.Zero
	}

	return OrderTotals{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal.Add(tax).Add(shipping).Round(2),
	}
}

type Order struct {
	ID              uuid.UUID     `json:"id"`
	CustomerID      uuid.UUID     `json:"customer_id"`
	Items           []OrderItem   `json:"items"`
	Totals          OrderTotals   `json:"totals"`
	Status          OrderStatus   `json:"status"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	ShippingAddress *Address      `json:"shipping_address"`
	BillingAddress  *Address      `json:"billing_address,omitempty"`
	TrackingNumber  string        `json:"tracking_number,omitempty"`
	Notes           string        `json:"notes,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

func NewOrder(customerID uuid.UUID, items []OrderItem, shipping, billing *Address, notes string) *Order {
	now := time.Now()
	return &Order{
		ID:              uuid.New(),
		CustomerID:      customerID,
		Items:           items,
		Totals:          CalculateTotals(items),
		Status:          OrderStatusPending,
		PaymentStatus:   PaymentStatusPending,
		ShippingAddress: shipping,
		BillingAddress:  billing,
		Notes:           notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// UpdateStatus transitions the order and reports whether this transition
// entered the cancelled state for the first time. A second cancellation is
// not a restocking transition.
func (o *Order) UpdateStatus(status OrderStatus) (enteredCancelled bool, err error) {
	if !ValidOrderStatus(status) {
		return false, fmt.Errorf("%w: %s", ErrInvalidOrderStatus, status)
	}

	enteredCancelled = status == OrderStatusCancelled && o.Status != OrderStatusCancelled
	o.Status = status
	o.UpdatedAt = time.Now()
	return enteredCancelled, nil
}

func (o *Order) MarkRefunded() {
	o.PaymentStatus = PaymentStatusRefunded
	o.UpdatedAt = time.Now()
}

func (o *Order) SetTrackingNumber(trackingNumber string) {
	o.TrackingNumber = trackingNumber
	o.UpdatedAt = time.Now()
}

func (o *Order) SetNotes(notes string) {
	o.Notes = notes
	o.UpdatedAt = time.Now()
}

// StatusChange is the durable audit record appended on every transition.
type StatusChange struct {
	ID             uuid.UUID   `json:"id"`
	OrderID        uuid.UUID   `json:"order_id"`
	PreviousStatus OrderStatus `json:"previous_status"`
	NewStatus      OrderStatus `json:"new_status"`
	TrackingNumber string      `json:"tracking_number,omitempty"`
	Notes          string      `json:"notes,omitempty"`
	ChangedAt      time.Time   `json:"changed_at"`
}

func NewStatusChange(orderID uuid.UUID, previous, next OrderStatus, trackingNumber, notes string) *StatusChange {
	return &StatusChange{
		ID:             uuid.New(),
		OrderID:        orderID,
		PreviousStatus: previous,
		NewStatus:      next,
		TrackingNumber: trackingNumber,
		Notes:          notes,
		ChangedAt:      time.Now(),
	}
}

type CustomerInfo struct {
	ID        uuid.UUID `json:"id,omitempty"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone,omitempty"`
}

type OrderItemRequest struct {
	ProductID      uuid.UUID         `json:"product_id"`
	Quantity       int               `json:"quantity"`
	Customizations map[string]string `json:"customizations,omitempty"`
}

type CreateOrderRequest struct {
	CustomerInfo    *CustomerInfo      `json:"customer_info"`
	Items           []OrderItemRequest `json:"items"`
	ShippingAddress *Address           `json:"shipping_address"`
	BillingAddress  *Address           `json:"billing_address,omitempty"`
	Notes           string             `json:"notes,omitempty"`
}

// Validate rejects a malformed request before any store access happens.
func (r CreateOrderRequest) Validate() error {
	if r.CustomerInfo == nil {
		return errors.New("customer_info is required")
	}
	if r.CustomerInfo.ID == uuid.Nil && r.CustomerInfo.Email == "" {
		return errors.New("customer email is required for new customers")
	}
	if len(r.Items) == 0 {
		return errors.New("at least one item is required")
	}
	for i, item := range r.Items {
		if item.ProductID == uuid.Nil {
			return fmt.Errorf("item %d: product_id is required", i)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("item %d: quantity must be positive", i)
		}
	}
	if r.ShippingAddress == nil {
		return errors.New("shipping_address is required")
	}
	return nil
}

type UpdateOrderStatusRequest struct {
	Status         OrderStatus `json:"status"`
	TrackingNumber string      `json:"tracking_number,omitempty"`
	Notes          string      `json:"notes,omitempty"`
}

func (r UpdateOrderStatusRequest) Validate() error {
	if r.Status == "" {
		return errors.New("status is required")
	}
	if !ValidOrderStatus(r.Status) {
		return fmt.Errorf("%w: %s", ErrInvalidOrderStatus, r.Status)
	}
	return nil
}
