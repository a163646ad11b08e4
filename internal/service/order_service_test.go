package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairway-commerce/storefront-service/internal/database"
	"github.com/fairway-commerce/storefront-service/internal/domain"
	"github.com/fairway-commerce/storefront-service/internal/events"
)

func driverProduct(price string, stock int) *domain.Product {
	return domain.NewProduct("DRV-100", "Fairway Driver", "Titleist", "drivers",
		domain.ConditionNew, decimal.RequireFromString(price), stock)
}

func putterProduct(price string, stock int) *domain.Product {
	return domain.NewProduct("PUT-200", "Blade Putter", "Ping", "putters",
		domain.ConditionUsed, decimal.RequireFromString(price), stock)
}

func shippingAddress() *domain.Address {
	return &domain.Address{Street: "1 Fairway Dr", City: "Augusta", State: "GA", ZipCode: "30904", Country: "US"}
}

func orderRequest(items ...domain.OrderItemRequest) domain.CreateOrderRequest {
	return domain.CreateOrderRequest{
		CustomerInfo: &domain.CustomerInfo{
			Email:     "golfer@example.com",
			FirstName: "Pat",
			LastName:  "Reed",
		},
		Items:           items,
		ShippingAddress: shippingAddress(),
	}
}

func TestCreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("places order and reserves stock", func(t *testing.T) {
		driver := driverProduct("200.00", 5)
		products := newFakeProductStore(driver)
		orders := newFakeOrderStore()
		customers := newFakeCustomerStore()
		inventory := newFakeInventoryStore(domain.NewInventoryItem(driver.ID, "club", "driver", 5))
		publisher := &fakePublisher{}
		svc := NewOrderService(orders, products, customers, inventory, publisher)

		order, err := svc.CreateOrder(ctx, orderRequest(domain.OrderItemRequest{ProductID: driver.ID, Quantity: 2}))

		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusPending, order.Status)
		assert.Equal(t, domain.PaymentStatusPending, order.PaymentStatus)
		assert.Equal(t, 3, products.stockOf(driver.ID))

		// subtotal 400, free shipping, 8% tax
		assert.True(t, order.Totals.Subtotal.Equal(decimal.RequireFromString("400")))
		assert.True(t, order.Totals.Shipping.IsZero())
		assert.True(t, order.Totals.Total.Equal(decimal.RequireFromString("432")))

		ledger, err := inventory.GetByProductID(ctx, driver.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, ledger.Stock)

		created := publisher.eventsOfType(events.OrderCreatedEvent)
		require.Len(t, created, 1)
		assert.Equal(t, order.ID, created[0].OrderID)
	})

	t.Run("creates customer and bumps aggregates", func(t *testing.T) {
		driver := driverProduct("50.00", 5)
		products := newFakeProductStore(driver)
		customers := newFakeCustomerStore()
		svc := NewOrderService(newFakeOrderStore(), products, customers, newFakeInventoryStore(), &fakePublisher{})

		order, err := svc.CreateOrder(ctx, orderRequest(domain.OrderItemRequest{ProductID: driver.ID, Quantity: 1}))

		require.NoError(t, err)
		customer, err := customers.GetCustomerByID(ctx, order.CustomerID)
		require.NoError(t, err)
		assert.Equal(t, "golfer@example.com", customer.Email)
		assert.Equal(t, 1, customer.TotalOrders)
		assert.True(t, customer.TotalSpent.Equal(order.Totals.Total))
	})

	t.Run("reuses existing customer", func(t *testing.T) {
		driver := driverProduct("50.00", 5)
		existing := domain.NewCustomer("regular@example.com", "Jo", "Park", "", nil, nil)
		customers := newFakeCustomerStore(existing)
		svc := NewOrderService(newFakeOrderStore(), newFakeProductStore(driver), customers, newFakeInventoryStore(), &fakePublisher{})

		request := orderRequest(domain.OrderItemRequest{ProductID: driver.ID, Quantity: 1})
		request.CustomerInfo = &domain.CustomerInfo{ID: existing.ID}

		order, err := svc.CreateOrder(ctx, request)

		require.NoError(t, err)
		assert.Equal(t, existing.ID, order.CustomerID)
		assert.Len(t, customers.customers, 1)

		updated, _ := customers.GetCustomerByID(ctx, existing.ID)
		require.NotNil(t, updated.ShippingAddress)
		assert.Equal(t, "Augusta", updated.ShippingAddress.City)
	})

	t.Run("unknown customer id rejected before stock is touched", func(t *testing.T) {
		driver := driverProduct("50.00", 5)
		products := newFakeProductStore(driver)
		svc := NewOrderService(newFakeOrderStore(), products, newFakeCustomerStore(), newFakeInventoryStore(), &fakePublisher{})

		request := orderRequest(domain.OrderItemRequest{ProductID: driver.ID, Quantity: 1})
		request.CustomerInfo = &domain.CustomerInfo{ID: uuid.New()}

		_, err := svc.CreateOrder(ctx, request)

		require.ErrorIs(t, err, database.ErrCustomerNotFound)
		assert.Equal(t, 5, products.stockOf(driver.ID))
	})

	t.Run("insufficient stock leaves stock unchanged", func(t *testing.T) {
		driver := driverProduct("50.00", 1)
		products := newFakeProductStore(driver)
		publisher := &fakePublisher{}
		svc := NewOrderService(newFakeOrderStore(), products, newFakeCustomerStore(), newFakeInventoryStore(), publisher)

		_, err := svc.CreateOrder(ctx, orderRequest(domain.OrderItemRequest{ProductID: driver.ID, Quantity: 3}))

		require.ErrorIs(t, err, database.ErrInsufficientStock)
		assert.Equal(t, 1, products.stockOf(driver.ID))
		assert.Empty(t, publisher.published)
	})

	t.Run("concurrent purchase during reservation names the shortfall", func(t *testing.T) {
		driver := driverProduct("50.00", 5)
		products := newFakeProductStore(driver)
		svc := NewOrderService(newFakeOrderStore(), products, newFakeCustomerStore(), newFakeInventoryStore(), &fakePublisher{})

		// Stock shrinks between the availability check and the guarded
		// decrement, as if another order landed first.
		products.beforeDecrement = func() {
			products.products[driver.ID].Stock = 1
		}

		_, err := svc.CreateOrder(ctx, orderRequest(domain.OrderItemRequest{ProductID: driver.ID, Quantity: 3}))

		require.ErrorIs(t, err, database.ErrInsufficientStock)
		assert.Contains(t, err.Error(), "Fairway Driver")
		assert.Contains(t, err.Error(), "1 in stock")
		assert.Equal(t, 1, products.stockOf(driver.ID))
	})

	t.Run("failed persistence releases reservations", func(t *testing.T) {
		driver := driverProduct("50.00", 5)
		putter := putterProduct("80.00", 2)
		products := newFakeProductStore(driver, putter)
		orders := newFakeOrderStore()
		orders.createErr = errors.New("write failed")
		svc := NewOrderService(orders, products, newFakeCustomerStore(), newFakeInventoryStore(), &fakePublisher{})

		_, err := svc.CreateOrder(ctx, orderRequest(
			domain.OrderItemRequest{ProductID: driver.ID, Quantity: 2},
			domain.OrderItemRequest{ProductID: putter.ID, Quantity: 1},
		))

		require.Error(t, err)
		assert.Equal(t, 5, products.stockOf(driver.ID))
		assert.Equal(t, 2, products.stockOf(putter.ID))
	})

	t.Run("failed customer creation releases reservations", func(t *testing.T) {
		driver := driverProduct("50.00", 5)
		products := newFakeProductStore(driver)
		customers := newFakeCustomerStore()
		customers.createErr = errors.New("duplicate email")
		svc := NewOrderService(newFakeOrderStore(), products, customers, newFakeInventoryStore(), &fakePublisher{})

		_, err := svc.CreateOrder(ctx, orderRequest(domain.OrderItemRequest{ProductID: driver.ID, Quantity: 2}))

		require.Error(t, err)
		assert.Equal(t, 5, products.stockOf(driver.ID))
	})

	t.Run("missing ledger row tolerated", func(t *testing.T) {
		driver := driverProduct("50.00", 5)
		products := newFakeProductStore(driver)
		svc := NewOrderService(newFakeOrderStore(), products, newFakeCustomerStore(), newFakeInventoryStore(), &fakePublisher{})

		_, err := svc.CreateOrder(ctx, orderRequest(domain.OrderItemRequest{ProductID: driver.ID, Quantity: 1}))

		require.NoError(t, err)
		assert.Equal(t, 4, products.stockOf(driver.ID))
	})

	t.Run("invalid request rejected", func(t *testing.T) {
		svc := NewOrderService(newFakeOrderStore(), newFakeProductStore(), newFakeCustomerStore(), newFakeInventoryStore(), &fakePublisher{})

		_, err := svc.CreateOrder(ctx, domain.CreateOrderRequest{})

		require.ErrorIs(t, err, domain.ErrInvalidRequest)
	})
}

func TestUpdateOrderStatus(t *testing.T) {
	ctx := context.Background()

	placeOrder := func(t *testing.T) (*OrderService, *fakeProductStore, *fakeInventoryStore, *fakePublisher, *domain.Order, uuid.UUID) {
		t.Helper()

		driver := driverProduct("50.00", 5)
		products := newFakeProductStore(driver)
		orders := newFakeOrderStore()
		customers := newFakeCustomerStore()
		inventory := newFakeInventoryStore(domain.NewInventoryItem(driver.ID, "club", "driver", 5))
		publisher := &fakePublisher{}
		svc := NewOrderService(orders, products, customers, inventory, publisher)

		order, err := svc.CreateOrder(ctx, orderRequest(domain.OrderItemRequest{ProductID: driver.ID, Quantity: 2}))
		require.NoError(t, err)
		require.Equal(t, 3, products.stockOf(driver.ID))

		return svc, products, inventory, publisher, order, driver.ID
	}

	t.Run("transition records history and publishes", func(t *testing.T) {
		svc, _, _, publisher, order, _ := placeOrder(t)

		updated, change, err := svc.UpdateOrderStatus(ctx, order.ID, domain.UpdateOrderStatusRequest{
			Status: domain.OrderStatusConfirmed,
		})

		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusConfirmed, updated.Status)
		assert.Equal(t, domain.OrderStatusPending, change.PreviousStatus)
		assert.Equal(t, domain.OrderStatusConfirmed, change.NewStatus)

		changed := publisher.eventsOfType(events.OrderStatusChangedEvent)
		require.Len(t, changed, 1)
	})

	t.Run("shipped sets tracking number", func(t *testing.T) {
		svc, _, _, _, order, _ := placeOrder(t)

		updated, _, err := svc.UpdateOrderStatus(ctx, order.ID, domain.UpdateOrderStatusRequest{
			Status:         domain.OrderStatusShipped,
			TrackingNumber: "1Z999",
		})

		require.NoError(t, err)
		assert.Equal(t, "1Z999", updated.TrackingNumber)
	})

	t.Run("cancellation restores stock and refunds", func(t *testing.T) {
		svc, products, inventory, _, order, productID := placeOrder(t)

		updated, _, err := svc.UpdateOrderStatus(ctx, order.ID, domain.UpdateOrderStatusRequest{
			Status: domain.OrderStatusCancelled,
		})

		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusCancelled, updated.Status)
		assert.Equal(t, domain.PaymentStatusRefunded, updated.PaymentStatus)
		assert.Equal(t, 5, products.stockOf(productID))

		ledger, err := inventory.GetByProductID(ctx, productID)
		require.NoError(t, err)
		assert.Equal(t, 5, ledger.Stock)
	})

	t.Run("cancellation restores every line item", func(t *testing.T) {
		driver := driverProduct("50.00", 6)
		putter := putterProduct("120.00", 8)
		products := newFakeProductStore(driver, putter)
		orders := newFakeOrderStore()
		customers := newFakeCustomerStore()
		inventory := newFakeInventoryStore(
			domain.NewInventoryItem(driver.ID, "club", "driver", 6),
			domain.NewInventoryItem(putter.ID, "club", "putter", 8),
		)
		svc := NewOrderService(orders, products, customers, inventory, &fakePublisher{})

		order, err := svc.CreateOrder(ctx, orderRequest(
			domain.OrderItemRequest{ProductID: driver.ID, Quantity: 2},
			domain.OrderItemRequest{ProductID: putter.ID, Quantity: 3},
		))
		require.NoError(t, err)
		require.Equal(t, 4, products.stockOf(driver.ID))
		require.Equal(t, 5, products.stockOf(putter.ID))

		updated, _, err := svc.UpdateOrderStatus(ctx, order.ID, domain.UpdateOrderStatusRequest{
			Status: domain.OrderStatusCancelled,
		})

		require.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusRefunded, updated.PaymentStatus)
		assert.Equal(t, 6, products.stockOf(driver.ID))
		assert.Equal(t, 8, products.stockOf(putter.ID))

		driverLedger, err := inventory.GetByProductID(ctx, driver.ID)
		require.NoError(t, err)
		assert.Equal(t, 6, driverLedger.Stock)
		putterLedger, err := inventory.GetByProductID(ctx, putter.ID)
		require.NoError(t, err)
		assert.Equal(t, 8, putterLedger.Stock)
	})

	t.Run("repeated cancellation does not restore twice", func(t *testing.T) {
		svc, products, _, _, order, productID := placeOrder(t)

		_, _, err := svc.UpdateOrderStatus(ctx, order.ID, domain.UpdateOrderStatusRequest{Status: domain.OrderStatusCancelled})
		require.NoError(t, err)
		_, _, err = svc.UpdateOrderStatus(ctx, order.ID, domain.UpdateOrderStatusRequest{Status: domain.OrderStatusCancelled})
		require.NoError(t, err)

		assert.Equal(t, 5, products.stockOf(productID))
	})

	t.Run("invalid status mutates nothing", func(t *testing.T) {
		svc, products, _, _, order, productID := placeOrder(t)

		_, _, err := svc.UpdateOrderStatus(ctx, order.ID, domain.UpdateOrderStatusRequest{Status: "misplaced"})

		require.ErrorIs(t, err, domain.ErrInvalidRequest)
		assert.Equal(t, 3, products.stockOf(productID))

		unchanged, getErr := svc.GetOrderByID(ctx, order.ID)
		require.NoError(t, getErr)
		assert.Equal(t, domain.OrderStatusPending, unchanged.Status)
	})

	t.Run("unknown order", func(t *testing.T) {
		svc, _, _, _, _, _ := placeOrder(t)

		_, _, err := svc.UpdateOrderStatus(ctx, uuid.New(), domain.UpdateOrderStatusRequest{Status: domain.OrderStatusShipped})

		require.ErrorIs(t, err, database.ErrOrderNotFound)
	})
}
