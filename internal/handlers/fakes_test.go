package handlers

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fairway-commerce/storefront-service/internal/database"
	"github.com/fairway-commerce/storefront-service/internal/domain"
	"github.com/fairway-commerce/storefront-service/internal/events"
)

// Minimal in-memory stores for exercising the HTTP surface end to end
// through real service instances.

type memProductStore struct {
	products map[uuid.UUID]*domain.Product
}

func newMemProductStore(products ...*domain.Product) *memProductStore {
	store := &memProductStore{products: make(map[uuid.UUID]*domain.Product)}
	for _, product := range products {
		store.products[product.ID] = product
	}
	return store
}

func (s *memProductStore) CreateProduct(_ context.Context, product *domain.Product) error {
	s.products[product.ID] = product
	return nil
}

func (s *memProductStore) GetProductByID(_ context.Context, productID uuid.UUID) (*domain.Product, error) {
	product, ok := s.products[productID]
	if !ok {
		return nil, database.ErrProductNotFound
	}
	copied := *product
	return &copied, nil
}

func (s *memProductStore) ListProducts(_ context.Context, _ domain.ProductFilter) ([]domain.Product, int64, error) {
	var out []domain.Product
	for _, product := range s.products {
		out = append(out, *product)
	}
	return out, int64(len(out)), nil
}

func (s *memProductStore) DecrementStock(_ context.Context, productID uuid.UUID, quantity int) error {
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

func (s *memProductStore) IncrementStock(_ context.Context, productID uuid.UUID, quantity int) error {
	product, ok := s.products[productID]
	if !ok {
		return database.ErrProductNotFound
	}
	product.Stock += quantity
	return nil
}

func (s *memProductStore) SetStock(_ context.Context, productID uuid.UUID, stock int) error {
	product, ok := s.products[productID]
	if !ok {
		return database.ErrProductNotFound
	}
	product.Stock = stock
	return nil
}

type memOrderStore struct {
	orders map[uuid.UUID]*domain.Order
}

func newMemOrderStore() *memOrderStore {
	return &memOrderStore{orders: make(map[uuid.UUID]*domain.Order)}
}

func (s *memOrderStore) CreateOrder(_ context.Context, order *domain.Order) error {
	copied := *order
	s.orders[order.ID] = &copied
	return nil
}

func (s *memOrderStore) UpdateOrder(_ context.Context, order *domain.Order) error {
	if _, ok := s.orders[order.ID]; !ok {
		return database.ErrOrderNotFound
	}
	copied := *order
	s.orders[order.ID] = &copied
	return nil
}

func (s *memOrderStore) GetOrderByID(_ context.Context, orderID uuid.UUID) (*domain.Order, error) {
	order, ok := s.orders[orderID]
	if !ok {
		return nil, database.ErrOrderNotFound
	}
	copied := *order
	return &copied, nil
}

func (s *memOrderStore) GetOrdersByCustomerID(_ context.Context, customerID uuid.UUID) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, order := range s.orders {
		if order.CustomerID == customerID {
			copied := *order
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *memOrderStore) RecordStatusChange(_ context.Context, _ *domain.StatusChange) error {
	return nil
}

type memCustomerStore struct {
	customers map[uuid.UUID]*domain.Customer
}

func newMemCustomerStore() *memCustomerStore {
	return &memCustomerStore{customers: make(map[uuid.UUID]*domain.Customer)}
}

func (s *memCustomerStore) CreateCustomer(_ context.Context, customer *domain.Customer) error {
	s.customers[customer.ID] = customer
	return nil
}

func (s *memCustomerStore) GetCustomerByID(_ context.Context, customerID uuid.UUID) (*domain.Customer, error) {
	customer, ok := s.customers[customerID]
	if !ok {
		return nil, database.ErrCustomerNotFound
	}
	copied := *customer
	return &copied, nil
}

func (s *memCustomerStore) UpdateAddresses(_ context.Context, customerID uuid.UUID, shipping, billing *domain.Address) error {
	customer, ok := s.customers[customerID]
	if !ok {
		return database.ErrCustomerNotFound
	}
	customer.UpdateAddresses(shipping, billing)
	return nil
}

func (s *memCustomerStore) ApplyOrderTotals(_ context.Context, customerID uuid.UUID, orderTotal decimal.Decimal) error {
	customer, ok := s.customers[customerID]
	if !ok {
		return database.ErrCustomerNotFound
	}
	customer.TotalOrders++
	customer.TotalSpent = customer.TotalSpent.Add(orderTotal)
	return nil
}

type memInventoryStore struct {
	items map[uuid.UUID]*domain.InventoryItem
}

func newMemInventoryStore() *memInventoryStore {
	return &memInventoryStore{items: make(map[uuid.UUID]*domain.InventoryItem)}
}

func (s *memInventoryStore) CreateItem(_ context.Context, item *domain.InventoryItem) error {
	s.items[item.ProductID] = item
	return nil
}

func (s *memInventoryStore) GetByProductID(_ context.Context, productID uuid.UUID) (*domain.InventoryItem, error) {
	item, ok := s.items[productID]
	if !ok {
		return nil, database.ErrInventoryNotFound
	}
	copied := *item
	return &copied, nil
}

func (s *memInventoryStore) ApplyStockDelta(_ context.Context, productID uuid.UUID, delta int) error {
	item, ok := s.items[productID]
	if !ok {
		return database.ErrInventoryNotFound
	}
	item.ApplyDelta(delta)
	return nil
}

func (s *memInventoryStore) SetStockLevel(_ context.Context, productID uuid.UUID, stock int, restocked bool) error {
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

func (s *memInventoryStore) DeleteItem(_ context.Context, itemID uuid.UUID) error {
	for productID, item := range s.items {
		if item.ID == itemID {
			delete(s.items, productID)
			return nil
		}
	}
	return database.ErrInventoryNotFound
}

func (s *memInventoryStore) ListItems(_ context.Context, _ domain.InventoryFilter) ([]domain.InventoryItem, error) {
	var out []domain.InventoryItem
	for _, item := range s.items {
		out = append(out, *item)
	}
	return out, nil
}

type memPublisher struct {
	published []events.StoreEvent
}

func (p *memPublisher) PublishStoreEvent(event events.StoreEvent) error {
	p.published = append(p.published, event)
	return nil
}
