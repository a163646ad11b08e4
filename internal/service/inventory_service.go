package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/fairway-commerce/storefront-service/internal/database"
	"github.com/fairway-commerce/storefront-service/internal/domain"
	"github.com/fairway-commerce/storefront-service/internal/events"
)

type InventoryService struct {
	products  ProductStore
	inventory InventoryStore
	publisher EventPublisher
}

func NewInventoryService(products ProductStore, inventory InventoryStore, publisher EventPublisher) *InventoryService {
	return &InventoryService{
		products:  products,
		inventory: inventory,
		publisher: publisher,
	}
}

// AdjustStock applies an admin restock/adjust/reserve action against the
// product store and the ledger. The product's stock is the source of truth
// for the action's bounds; a ledger row that was never initialized is
// treated as empty and seeded by the write.
func (s *InventoryService) AdjustStock(ctx context.Context, request domain.StockAdjustmentRequest) (*domain.StockAdjustment, error) {
	if err := request.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidRequest, err)
	}

	product, err := s.products.GetProductByID(ctx, request.ProductID)
	if err != nil {
		return nil, err
	}

	newStock, err := domain.ApplyAction(product.Stock, request.Action, request.Quantity)
	if err != nil {
		return nil, err
	}

	switch request.Action {
	case domain.ActionRestock:
		err = s.products.IncrementStock(ctx, request.ProductID, request.Quantity)
	case domain.ActionAdjust:
		err = s.products.SetStock(ctx, request.ProductID, newStock)
	case domain.ActionReserve:
		// Guarded even though the bound was checked above; a racing
		// order may have consumed the stock in between.
		err = s.products.DecrementStock(ctx, request.ProductID, request.Quantity)
	}
	if err != nil {
		return nil, fmt.Errorf("apply %s: %w", request.Action, err)
	}

	restocked := request.Action == domain.ActionRestock
	ledger, err := s.inventory.GetByProductID(ctx, request.ProductID)
	if err != nil {
		if !errors.Is(err, database.ErrInventoryNotFound) {
			return nil, err
		}
		ledger = domain.EmptyInventoryItem(request.ProductID)
		ledger.SetStock(newStock)
		if restocked {
			ledger.MarkRestocked()
		}
		if err := s.inventory.CreateItem(ctx, ledger); err != nil {
			log.WithError(err).WithField("product_id", request.ProductID).Warn("inventory ledger seed failed")
		}
	} else {
		if err := s.inventory.SetStockLevel(ctx, request.ProductID, newStock, restocked); err != nil {
			log.WithError(err).WithField("product_id", request.ProductID).Warn("inventory ledger sync failed")
		}
		ledger.SetStock(newStock)
	}

	adjustment := &domain.StockAdjustment{
		ProductID:     request.ProductID,
		Action:        request.Action,
		PreviousStock: product.Stock,
		NewStock:      newStock,
		Delta:         newStock - product.Stock,
		Reason:        request.Reason,
		AdjustedAt:    time.Now(),
	}

	log.WithFields(log.Fields{
		"product_id": request.ProductID,
		"action":     request.Action,
		"delta":      adjustment.Delta,
	}).Info("stock adjusted")

	s.publishInventoryAdjusted(product, adjustment, ledger.Available, request.Reason)

	return adjustment, nil
}

func (s *InventoryService) CreateItem(ctx context.Context, request domain.CreateInventoryItemRequest) (*domain.InventoryItem, error) {
	if err := request.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidRequest, err)
	}

	item := domain.NewInventoryItem(request.ProductID, request.ItemType, request.ClubType, request.Stock)
	if err := s.inventory.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

func (s *InventoryService) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	return s.inventory.DeleteItem(ctx, itemID)
}

func (s *InventoryService) ListItems(ctx context.Context, filter domain.InventoryFilter) ([]domain.InventoryItem, error) {
	return s.inventory.ListItems(ctx, filter)
}

func (s *InventoryService) publishInventoryAdjusted(product *domain.Product, adjustment *domain.StockAdjustment, available int, reason string) {
	event := events.StoreEvent{
		EventType: events.InventoryAdjustedEvent,
		Service:   ServiceName,
		Payload: events.InventoryAdjustedPayload{
			ProductID:     product.ID,
			ProductName:   product.Name,
			Action:        string(adjustment.Action),
			PreviousStock: adjustment.PreviousStock,
			NewStock:      adjustment.NewStock,
			Available:     available,
			Reason:        reason,
		},
	}

	if err := s.publisher.PublishStoreEvent(event); err != nil {
		log.WithError(err).WithField("product_id", product.ID).Warn("inventory adjusted event publish failed")
	}
}
