package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fairway-commerce/storefront-service/internal/database"
)

// InventoryItem is the denormalized stock ledger row, kept 1:1 with a
// product. Available is always Stock - Reserved.
type InventoryItem struct {
	ID            uuid.UUID  `json:"id"`
	ProductID     uuid.UUID  `json:"product_id"`
	ItemType      string     `json:"item_type,omitempty"`
	ClubType      string     `json:"club_type,omitempty"`
	Status        string     `json:"status"`
	Stock         int        `json:"stock"`
	Reserved      int        `json:"reserved"`
	Available     int        `json:"available"`
	LastUpdated   time.Time  `json:"last_updated"`
	LastRestocked *time.Time `json:"last_restocked,omitempty"`
}

const (
	InventoryStatusInStock    = "in_stock"
	InventoryStatusOutOfStock = "out_of_stock"
)

func NewInventoryItem(productID uuid.UUID, itemType, clubType string, stock int) *InventoryItem {
	item := &InventoryItem{
		ID:          uuid.New(),
		ProductID:   productID,
		ItemType:    itemType,
		ClubType:    clubType,
		Stock:       stock,
		LastUpdated: time.Now(),
	}
	item.recalculate()
	return item
}

// EmptyInventoryItem stands in for a ledger row that was never initialized.
func EmptyInventoryItem(productID uuid.UUID) *InventoryItem {
	return NewInventoryItem(productID, "", "", 0)
}

func (i *InventoryItem) recalculate() {
	i.Available = i.Stock - i.Reserved
	if i.Available > 0 {
		i.Status = InventoryStatusInStock
	} else {
		i.Status = InventoryStatusOutOfStock
	}
	i.LastUpdated = time.Now()
}

// SetStock applies an absolute stock level recorded by an admin action or a
// sync from the product store.
func (i *InventoryItem) SetStock(stock int) {
	i.Stock = stock
	i.recalculate()
}

// ApplyDelta shifts the ledger by a signed quantity.
func (i *InventoryItem) ApplyDelta(delta int) {
	i.Stock += delta
	i.recalculate()
}

func (i *InventoryItem) MarkRestocked() {
	now := time.Now()
	i.LastRestocked = &now
}

type InventoryAction string

const (
	ActionRestock InventoryAction = "restock"
	ActionAdjust  InventoryAction = "adjust"
	ActionReserve InventoryAction = "reserve"
)

var (
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrUnknownAction   = errors.New("unknown inventory action")
)

// ApplyAction computes the stock level an admin action produces, enforcing
// the per-action quantity bounds.
func ApplyAction(currentStock int, action InventoryAction, quantity int) (int, error) {
	switch action {
	case ActionRestock:
		if quantity <= 0 {
			return 0, fmt.Errorf("%w: restock quantity must be positive", ErrInvalidQuantity)
		}
		return currentStock + quantity, nil
	case ActionAdjust:
		if quantity < 0 {
			return 0, fmt.Errorf("%w: adjusted stock cannot be negative", ErrInvalidQuantity)
		}
		return quantity, nil
	case ActionReserve:
		if quantity <= 0 {
			return 0, fmt.Errorf("%w: reserve quantity must be positive", ErrInvalidQuantity)
		}
		if quantity > currentStock {
			return 0, fmt.Errorf("%w: cannot reserve %d of %d in stock", database.ErrInsufficientStock, quantity, currentStock)
		}
		return currentStock - quantity, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}
}

type StockAdjustmentRequest struct {
	Action    InventoryAction `json:"action"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Reason    string          `json:"reason,omitempty"`
}

func (r StockAdjustmentRequest) Validate() error {
	if r.ProductID == uuid.Nil {
		return errors.New("product_id is required")
	}
	switch r.Action {
	case ActionRestock, ActionAdjust, ActionReserve:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownAction, r.Action)
	}
}

// StockAdjustment is the result reported back to the admin surface.
type StockAdjustment struct {
	ProductID     uuid.UUID       `json:"product_id"`
	Action        InventoryAction `json:"action"`
	PreviousStock int             `json:"previous_stock"`
	NewStock      int             `json:"new_stock"`
	Delta         int             `json:"delta"`
	Reason        string          `json:"reason,omitempty"`
	AdjustedAt    time.Time       `json:"adjusted_at"`
}

type CreateInventoryItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	ItemType  string    `json:"item_type,omitempty"`
	ClubType  string    `json:"club_type,omitempty"`
	Stock     int       `json:"stock"`
}

func (r CreateInventoryItemRequest) Validate() error {
	if r.ProductID == uuid.Nil {
		return errors.New("product_id is required")
	}
	if r.Stock < 0 {
		return fmt.Errorf("%w: stock cannot be negative", ErrInvalidQuantity)
	}
	return nil
}

type InventoryFilter struct {
	Status   string
	ClubType string
	ItemType string
	Limit    int
}
