package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fairway-commerce/storefront-service/internal/database"
	"github.com/fairway-commerce/storefront-service/internal/domain"
	"github.com/fairway-commerce/storefront-service/internal/events"
)

// In-memory fakes backing the service tests. Error hooks let a test fail a
// single step to exercise the compensation paths.

type fakeProductStore struct {
	products        map[uuid.UUID]*domain.Product
	beforeDecrement func()
}

func newFakeProductStore(products ...*domain.Product) *fakeProductStore {
	store := &fakeProductStore{
		products: make(map[uuid.UUID]*domain.Product),
	}
	for _, product := range products {
		store.products[product.ID] = product
	}
	return store
}

func (s *fakeProductStore) CreateProduct(_ context.Context, product *domain.Product) error {
	s.products[product.ID] = product
	return nil
}

func (s *fakeProductStore) GetProductByID(_ context.Context, productID uuid.UUID) (*domain.Product, error) {
	product, ok := s.products[productID]
	if !ok {
		return nil, database.ErrProductNotFound
	}
	copied := *product
	return &copied, nil
}

func (s *fakeProductStore) ListProducts(_ context.Context, _ domain.ProductFilter) ([]domain.Product, int64, error) {
	var out []domain.Product
	for _, product := range s.products {
		out = append(out, *product)
	}
	return out, int64(len(out)), nil
}

func (s *fakeProductStore) DecrementStock(_ context.Context, productID uuid.UUID, quantity int) error {
	if s.beforeDecrement != nil {
		s.beforeDecrement()
	}
	product, ok := s.products[productID]
	if !ok {
		return database.ErrProductNotFound
	}
	if product.Stock < quantity {
		return database.ErrInsufficientStock
	}
	product.Stock -= quantity
	return nil
}

func (s *fakeProductStore) IncrementStock(_ context.Context, productID uuid.UUID, quantity int) error {
	product, ok := s.products[productID]
	if !ok {
		return database.ErrProductNotFound
	}
	product.Stock += quantity
	return nil
}

func (s *fakeProductStore) SetStock(_ context.Context, productID uuid.UUID, stock int) error {
	product, ok := s.products[productID]
	if !ok {
		return database.ErrProductNotFound
	}
	product.Stock = stock
	return nil
}

func (s *fakeProductStore) stockOf(productID uuid.UUID) int {
	return s.products[productID].Stock
}

type fakeOrderStore struct {
	orders        map[uuid.UUID]*domain.Order
	statusChanges []*domain.StatusChange
	createErr     error
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: make(map[uuid.UUID]*domain.Order)}
}

func (s *fakeOrderStore) CreateOrder(_ context.Context, order *domain.Order) error {
	if s.createErr != nil {
		return s.createErr
	}
	copied := *order
	s.orders[order.ID] = &copied
	return nil
}

func (s *fakeOrderStore) UpdateOrder(_ context.Context, order *domain.Order) error {
	if _, ok := s.orders[order.ID]; !ok {
		return database.ErrOrderNotFound
	}
	copied := *order
	s.orders[order.ID] = &copied
	return nil
}

func (s *fakeOrderStore) GetOrderByID(_ context.Context, orderID uuid.UUID) (*domain.Order, error) {
	order, ok := s.orders[orderID]
	if !ok {
		return nil, database.ErrOrderNotFound
	}
	copied := *order
	return &copied, nil
}

func (s *fakeOrderStore) GetOrdersByCustomerID(_ context.Context, customerID uuid.UUID) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, order := range s.orders {
		if order.CustomerID == customerID {
			copied := *order
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *fakeOrderStore) RecordStatusChange(_ context.Context, change *domain.StatusChange) error {
	s.statusChanges = append(s.statusChanges, change)
	return nil
}

type fakeCustomerStore struct {
	customers map[uuid.UUID]*domain.Customer
	createErr error
}

func newFakeCustomerStore(customers ...*domain.Customer) *fakeCustomerStore {
	store := &fakeCustomerStore{customers: make(map[uuid.UUID]*domain.Customer)}
	for _, customer := range customers {
		store.customers[customer.ID] = customer
	}
	return store
}

func (s *fakeCustomerStore) CreateCustomer(_ context.Context, customer *domain.Customer) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.customers[customer.ID] = customer
	return nil
}

func (s *fakeCustomerStore) GetCustomerByID(_ context.Context, customerID uuid.UUID) (*domain.Customer, error) {
	customer, ok := s.customers[customerID]
	if !ok {
		return nil, database.ErrCustomerNotFound
	}
	copied := *customer
	return &copied, nil
}

func (s *fakeCustomerStore) UpdateAddresses(_ context.Context, customerID uuid.UUID, shipping, billing *domain.Address) error {
	customer, ok := s.customers[customerID]
	if !ok {
		return database.ErrCustomerNotFound
	}
	customer.UpdateAddresses(shipping, billing)
	return nil
}

func (s *fakeCustomerStore) ApplyOrderTotals(_ context.Context, customerID uuid.UUID, orderTotal decimal.Decimal) error {
	customer, ok := s.customers[customerID]
	if !ok {
		return database.ErrCustomerNotFound
	}
	customer.TotalOrders++
	customer.TotalSpent = customer.TotalSpent.Add(orderTotal)
	return nil
}

type fakeInventoryStore struct {
	items map[uuid.UUID]*domain.InventoryItem
}

func newFakeInventoryStore(items ...*domain.InventoryItem) *fakeInventoryStore {
	store := &fakeInventoryStore{items: make(map[uuid.UUID]*domain.InventoryItem)}
	for _, item := range items {
		store.items[item.ProductID] = item
	}
	return store
}

func (s *fakeInventoryStore) CreateItem(_ context.Context, item *domain.InventoryItem) error {
	if _, ok := s.items[item.ProductID]; ok {
		return fmt.Errorf("duplicate ledger row for product %s", item.ProductID)
	}
	s.items[item.ProductID] = item
	return nil
}

func (s *fakeInventoryStore) GetByProductID(_ context.Context, productID uuid.UUID) (*domain.InventoryItem, error) {
	item, ok := s.items[productID]
	if !ok {
		return nil, database.ErrInventoryNotFound
	}
	copied := *item
	return &copied, nil
}

func (s *fakeInventoryStore) ApplyStockDelta(_ context.Context, productID uuid.UUID, delta int) error {
	item, ok := s.items[productID]
	if !ok {
		return database.ErrInventoryNotFound
	}
	item.ApplyDelta(delta)
	return nil
}

func (s *fakeInventoryStore) SetStockLevel(_ context.Context, productID uuid.UUID, stock int, restocked bool) error {
	item, ok := s.items[productID]
	if !ok {
		return database.ErrInventoryNotFound
	}
	item.SetStock(stock)
	if restocked {
		item.MarkRestocked()
	}
	return nil
}

func (s *fakeInventoryStore) DeleteItem(_ context.Context, itemID uuid.UUID) error {
	for productID, item := range s.items {
		if item.ID == itemID {
			delete(s.items, productID)
			return nil
		}
	}
	return database.ErrInventoryNotFound
}

func (s *fakeInventoryStore) ListItems(_ context.Context, _ domain.InventoryFilter) ([]domain.InventoryItem, error) {
	var out []domain.InventoryItem
	for _, item := range s.items {
		out = append(out, *item)
	}
	return out, nil
}

type fakeNotificationStore struct {
	notifications []*domain.Notification
}

func (s *fakeNotificationStore) CreateNotification(_ context.Context, notification *domain.Notification) error {
	s.notifications = append(s.notifications, notification)
	return nil
}

func (s *fakeNotificationStore) UpdateNotification(_ context.Context, notification *domain.Notification) error {
	for i, existing := range s.notifications {
		if existing.ID == notification.ID {
			s.notifications[i] = notification
			return nil
		}
	}
	return fmt.Errorf("notification %s not found", notification.ID)
}

func (s *fakeNotificationStore) GetNotificationsByOrderID(_ context.Context, orderID uuid.UUID) ([]*domain.Notification, error) {
	var out []*domain.Notification
	for _, notification := range s.notifications {
		if notification.OrderID == orderID {
			out = append(out, notification)
		}
	}
	return out, nil
}

type fakeSender struct {
	sent []*domain.Notification
	err  error
}

func (s *fakeSender) Send(notification *domain.Notification) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, notification)
	return nil
}

type fakePublisher struct {
	published []events.StoreEvent
	err       error
}

func (p *fakePublisher) PublishStoreEvent(event events.StoreEvent) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, event)
	return nil
}

func (p *fakePublisher) eventsOfType(eventType events.StoreEventType) []events.StoreEvent {
	var out []events.StoreEvent
	for _, event := range p.published {
		if event.EventType == eventType {
			out = append(out, event)
		}
	}
	return out
}
