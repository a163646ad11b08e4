package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fairway-commerce/storefront-service/internal/domain"
	"github.com/fairway-commerce/storefront-service/internal/events"
)

// Store interfaces are satisfied by the Postgres repositories and by the
// in-memory fakes the service tests run against.

type ProductStore interface {
	CreateProduct(ctx context.Context, product *domain.Product) error
	GetProductByID(ctx context.Context, productID uuid.UUID) (*domain.Product, error)
	ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int64, error)
	DecrementStock(ctx context.Context, productID uuid.UUID, quantity int) error
	IncrementStock(ctx context.Context, productID uuid.UUID, quantity int) error
	SetStock(ctx context.Context, productID uuid.UUID, stock int) error
}

type OrderStore interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	UpdateOrder(ctx context.Context, order *domain.Order) error
	GetOrderByID(ctx context.Context, orderID uuid.UUID) (*domain.Order, error)
	GetOrdersByCustomerID(ctx context.Context, customerID uuid.UUID) ([]*domain.Order, error)
	RecordStatusChange(ctx context.Context, change *domain.StatusChange) error
}

type CustomerStore interface {
	CreateCustomer(ctx context.Context, customer *domain.Customer) error
	GetCustomerByID(ctx context.Context, customerID uuid.UUID) (*domain.Customer, error)
	UpdateAddresses(ctx context.Context, customerID uuid.UUID, shipping, billing *domain.Address) error
	ApplyOrderTotals(ctx context.Context, customerID uuid.UUID, orderTotal decimal.Decimal) error
}

type InventoryStore interface {
	CreateItem(ctx context.Context, item *domain.InventoryItem) error
	GetByProductID(ctx context.Context, productID uuid.UUID) (*domain.InventoryItem, error)
	ApplyStockDelta(ctx context.Context, productID uuid.UUID, delta int) error
	SetStockLevel(ctx context.Context, productID uuid.UUID, stock int, restocked bool) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
	ListItems(ctx context.Context, filter domain.InventoryFilter) ([]domain.InventoryItem, error)
}

type NotificationStore interface {
	CreateNotification(ctx context.Context, notification *domain.Notification) error
	UpdateNotification(ctx context.Context, notification *domain.Notification) error
	GetNotificationsByOrderID(ctx context.Context, orderID uuid.UUID) ([]*domain.Notification, error)
}

type EventPublisher interface {
	PublishStoreEvent(event events.StoreEvent) error
}

// ServiceName tags every published event with its origin.
const ServiceName = "storefront-api"
