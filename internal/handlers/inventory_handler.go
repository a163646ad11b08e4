package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/fairway-commerce/storefront-service/internal/domain"
	"github.com/fairway-commerce/storefront-service/internal/httpapi"
	"github.com/fairway-commerce/storefront-service/internal/service"
)

type InventoryHandler struct {
	inventoryService *service.InventoryService
}

func NewInventoryHandler(inventoryService *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
	}
}

// HandlePost dispatches on the request body: a non-empty "action" field is
// an admin stock adjustment, anything else creates a ledger item.
func (h *InventoryHandler) HandlePost(c *fiber.Ctx) error {
	var peek struct {
		Action string `json:"action"`
	}
	if err := c.BodyParser(&peek); err != nil {
		return httpapi.BadRequestResponse(c, "Invalid request body", map[string]interface{}{
			"parse_error": err.Error(),
		})
	}

	if peek.Action != "" {
		return h.adjustStock(c)
	}
	return h.createItem(c)
}

func (h *InventoryHandler) adjustStock(c *fiber.Ctx) error {
	var request domain.StockAdjustmentRequest
	if err := c.BodyParser(&request); err != nil {
		return httpapi.BadRequestResponse(c, "Invalid request body", map[string]interface{}{
			"parse_error": err.Error(),
		})
	}

	adjustment, err := h.inventoryService.AdjustStock(c.Context(), request)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	response := StockAdjustmentResponse{
		Adjustment: adjustment,
		Message:    "Stock adjusted",
	}

	return httpapi.SuccessResponse(c, "Stock adjusted successfully", response)
}

func (h *InventoryHandler) createItem(c *fiber.Ctx) error {
	var request domain.CreateInventoryItemRequest
	if err := c.BodyParser(&request); err != nil {
		return httpapi.BadRequestResponse(c, "Invalid request body", map[string]interface{}{
			"parse_error": err.Error(),
		})
	}

	item, err := h.inventoryService.CreateItem(c.Context(), request)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return httpapi.CreatedResponse(c, "Inventory item created successfully", item)
}

func (h *InventoryHandler) ListItems(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))

	filter := domain.InventoryFilter{
		Status:   c.Query("status"),
		ClubType: c.Query("club_type"),
		ItemType: c.Query("item_type"),
		Limit:    limit,
	}

	items, err := h.inventoryService.ListItems(c.Context(), filter)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	response := InventoryListResponse{
		Items: items,
		Count: len(items),
	}

	return httpapi.SuccessResponse(c, "Inventory retrieved successfully", response)
}

func (h *InventoryHandler) DeleteItem(c *fiber.Ctx) error {
	itemIDStr := c.Params("id")
	itemID, err := uuid.Parse(itemIDStr)
	if err != nil {
		return httpapi.BadRequestResponse(c, "Invalid inventory item ID", map[string]interface{}{
			"item_id": itemIDStr,
		})
	}

	if err := h.inventoryService.DeleteItem(c.Context(), itemID); err != nil {
		return serviceErrorResponse(c, err)
	}

	return httpapi.SuccessResponse(c, "Inventory item deleted successfully", map[string]interface{}{
		"item_id": itemID,
	})
}
