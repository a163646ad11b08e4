package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/fairway-commerce/storefront-service/internal/database"
	"github.com/fairway-commerce/storefront-service/internal/domain"
	"github.com/fairway-commerce/storefront-service/internal/events"
)

type OrderService struct {
	orders    OrderStore
	products  ProductStore
	customers CustomerStore
	inventory InventoryStore
	publisher EventPublisher
}

func NewOrderService(orders OrderStore, products ProductStore, customers CustomerStore, inventory InventoryStore, publisher EventPublisher) *OrderService {
	return &OrderService{
		orders:    orders,
		products:  products,
		customers: customers,
		inventory: inventory,
		publisher: publisher,
	}
}

// CreateOrder runs the full order sequence: price the line items, reserve
// stock with guarded decrements, resolve the customer, persist the order,
// sync the ledger and bump the customer aggregates. Stock reservations made
// before a failing step are compensated, so a rejected order never leaks a
// decrement.
func (s *OrderService) CreateOrder(ctx context.Context, request domain.CreateOrderRequest) (*domain.Order, error) {
	if err := request.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidRequest, err)
	}

	// An existing customer id must reference a real row. Resolving it
	// before any stock is touched keeps rejection cheap.
	var existing *domain.Customer
	if request.CustomerInfo.ID != uuid.Nil {
		customer, err := s.customers.GetCustomerByID(ctx, request.CustomerInfo.ID)
		if err != nil {
			return nil, fmt.Errorf("resolve customer %s: %w", request.CustomerInfo.ID, err)
		}
		existing = customer
	}

	items := make([]domain.OrderItem, 0, len(request.Items))
	for _, itemReq := range request.Items {
		product, err := s.products.GetProductByID(ctx, itemReq.ProductID)
		if err != nil {
			return nil, fmt.Errorf("price item %s: %w", itemReq.ProductID, err)
		}
		if !product.InStock(itemReq.Quantity) {
			return nil, fmt.Errorf("%w: %s has %d in stock, %d requested",
				database.ErrInsufficientStock, product.Name, product.Stock, itemReq.Quantity)
		}
		items = append(items, domain.NewOrderItem(product, itemReq.Quantity, itemReq.Customizations))
	}

	reserved, err := s.reserveStock(ctx, request.Items)
	if err != nil {
		return nil, err
	}

	customer, err := s.resolveCustomer(ctx, existing, request)
	if err != nil {
		s.releaseReservations(ctx, reserved)
		return nil, err
	}

	order := domain.NewOrder(customer.ID, items, request.ShippingAddress, request.BillingAddress, request.Notes)
	if err := s.orders.CreateOrder(ctx, order); err != nil {
		s.releaseReservations(ctx, reserved)
		return nil, err
	}

	// The ledger and the customer aggregates are denormalized views; a
	// failed sync is logged and reconciled through the admin surface
	// rather than failing a placed order.
	for _, itemReq := range request.Items {
		if err := s.inventory.ApplyStockDelta(ctx, itemReq.ProductID, -itemReq.Quantity); err != nil {
			if !errors.Is(err, database.ErrInventoryNotFound) {
				log.WithError(err).WithField("product_id", itemReq.ProductID).Warn("inventory ledger sync failed")
			}
		}
	}

	if err := s.customers.ApplyOrderTotals(ctx, customer.ID, order.Totals.Total); err != nil {
		log.WithError(err).WithField("customer_id", customer.ID).Warn("customer aggregate update failed")
	}

	log.WithFields(log.Fields{
		"order_id":    order.ID,
		"customer_id": customer.ID,
		"total":       order.Totals.Total,
	}).Info("order created")

	s.publishOrderCreated(order, customer)

	return order, nil
}

func (s *OrderService) reserveStock(ctx context.Context, items []domain.OrderItemRequest) ([]domain.OrderItemRequest, error) {
	var reserved []domain.OrderItemRequest

	for _, itemReq := range items {
		if err := s.products.DecrementStock(ctx, itemReq.ProductID, itemReq.Quantity); err != nil {
			s.releaseReservations(ctx, reserved)
			if errors.Is(err, database.ErrInsufficientStock) {
				// The guard lost a race with a concurrent purchase; report
				// what is actually left, the same way the precheck does.
				if product, getErr := s.products.GetProductByID(ctx, itemReq.ProductID); getErr == nil {
					return nil, fmt.Errorf("%w: %s has %d in stock, %d requested",
						database.ErrInsufficientStock, product.Name, product.Stock, itemReq.Quantity)
				}
			}
			return nil, fmt.Errorf("reserve product %s: %w", itemReq.ProductID, err)
		}
		reserved = append(reserved, itemReq)
	}

	return reserved, nil
}

func (s *OrderService) releaseReservations(ctx context.Context, reserved []domain.OrderItemRequest) {
	for _, itemReq := range reserved {
		if err := s.products.IncrementStock(ctx, itemReq.ProductID, itemReq.Quantity); err != nil {
			log.WithError(err).WithField("product_id", itemReq.ProductID).Error("reservation rollback failed")
		}
	}
}

func (s *OrderService) resolveCustomer(ctx context.Context, existing *domain.Customer, request domain.CreateOrderRequest) (*domain.Customer, error) {
	info := request.CustomerInfo

	if existing == nil {
		customer := domain.NewCustomer(info.Email, info.FirstName, info.LastName, info.Phone,
			request.ShippingAddress, request.BillingAddress)
		if err := s.customers.CreateCustomer(ctx, customer); err != nil {
			return nil, fmt.Errorf("create customer: %w", err)
		}
		return customer, nil
	}

	if err := s.customers.UpdateAddresses(ctx, existing.ID, request.ShippingAddress, request.BillingAddress); err != nil {
		return nil, fmt.Errorf("update customer addresses: %w", err)
	}
	existing.UpdateAddresses(request.ShippingAddress, request.BillingAddress)

	return existing, nil
}

// UpdateOrderStatus transitions an order, restoring inventory and marking
// the payment refunded when the order enters the cancelled state. The
// previous-status guard makes a repeated cancellation a restoration no-op.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, request domain.UpdateOrderStatusRequest) (*domain.Order, *domain.StatusChange, error) {
	if err := request.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrInvalidRequest, err)
	}

	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	previousStatus := order.Status
	enteredCancelled, err := order.UpdateStatus(request.Status)
	if err != nil {
		return nil, nil, err
	}

	if request.TrackingNumber != "" {
		order.SetTrackingNumber(request.TrackingNumber)
	}
	if request.Notes != "" {
		order.SetNotes(request.Notes)
	}

	if enteredCancelled {
		s.restoreInventory(ctx, order)
		order.MarkRefunded()
	}

	if err := s.orders.UpdateOrder(ctx, order); err != nil {
		return nil, nil, err
	}

	change := domain.NewStatusChange(order.ID, previousStatus, order.Status, request.TrackingNumber, request.Notes)
	if err := s.orders.RecordStatusChange(ctx, change); err != nil {
		log.WithError(err).WithField("order_id", order.ID).Warn("status change audit write failed")
	}

	log.WithFields(log.Fields{
		"order_id": order.ID,
		"from":     previousStatus,
		"to":       order.Status,
	}).Info("order status updated")

	s.publishStatusChanged(ctx, order, previousStatus)

	return order, change, nil
}

// restoreInventory replays every line item back into stock. Individual
// failures are logged and the replay continues; a partially restored
// cancellation is corrected through the admin adjust action.
func (s *OrderService) restoreInventory(ctx context.Context, order *domain.Order) {
	for _, item := range order.Items {
		if err := s.products.IncrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			log.WithError(err).WithField("product_id", item.ProductID).Error("stock restoration failed")
			continue
		}
		if err := s.inventory.ApplyStockDelta(ctx, item.ProductID, item.Quantity); err != nil {
			if !errors.Is(err, database.ErrInventoryNotFound) {
				log.WithError(err).WithField("product_id", item.ProductID).Warn("inventory ledger sync failed")
			}
		}
	}
}

func (s *OrderService) GetOrderByID(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	return s.orders.GetOrderByID(ctx, orderID)
}

func (s *OrderService) GetOrdersByCustomerID(ctx context.Context, customerID uuid.UUID) ([]*domain.Order, error) {
	return s.orders.GetOrdersByCustomerID(ctx, customerID)
}

func (s *OrderService) publishOrderCreated(order *domain.Order, customer *domain.Customer) {
	event := events.StoreEvent{
		OrderID:   order.ID,
		EventType: events.OrderCreatedEvent,
		Service:   ServiceName,
		Payload: events.OrderCreatedPayload{
			OrderID:       order.ID,
			CustomerID:    customer.ID,
			CustomerEmail: customer.Email,
			ItemCount:     len(order.Items),
			Total:         order.Totals.Total.StringFixed(2),
		},
	}

	if err := s.publisher.PublishStoreEvent(event); err != nil {
		log.WithError(err).WithField("order_id", order.ID).Warn("order created event publish failed")
	}
}

func (s *OrderService) publishStatusChanged(ctx context.Context, order *domain.Order, previousStatus domain.OrderStatus) {
	var email string
	if customer, err := s.customers.GetCustomerByID(ctx, order.CustomerID); err == nil {
		email = customer.Email
	}

	event := events.StoreEvent{
		OrderID:   order.ID,
		EventType: events.OrderStatusChangedEvent,
		Service:   ServiceName,
		Payload: events.OrderStatusChangedPayload{
			OrderID:        order.ID,
			CustomerID:     order.CustomerID,
			CustomerEmail:  email,
			PreviousStatus: string(previousStatus),
			NewStatus:      string(order.Status),
			PaymentStatus:  string(order.PaymentStatus),
			TrackingNumber: order.TrackingNumber,
		},
	}

	if err := s.publisher.PublishStoreEvent(event); err != nil {
		log.WithError(err).WithField("order_id", order.ID).Warn("status changed event publish failed")
	}
}
