package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/fairway-commerce/storefront-service/internal/database"
	"github.com/fairway-commerce/storefront-service/internal/domain"
	"github.com/fairway-commerce/storefront-service/internal/httpapi"
)

// serviceErrorResponse maps service-layer errors onto the API error taxonomy.
// Anything not recognized is a 500 with the detail logged, not leaked.
func serviceErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, database.ErrOrderNotFound):
		return httpapi.NotFoundResponse(c, "Order not found")
	case errors.Is(err, database.ErrProductNotFound):
		return httpapi.NotFoundResponse(c, "Product not found")
	case errors.Is(err, database.ErrCustomerNotFound):
		return httpapi.NotFoundResponse(c, "Customer not found")
	case errors.Is(err, database.ErrInventoryNotFound):
		return httpapi.NotFoundResponse(c, "Inventory item not found")
	case errors.Is(err, database.ErrInsufficientStock):
		return httpapi.InsufficientStockResponse(c, err.Error(), nil)
	case errors.Is(err, domain.ErrInvalidOrderStatus),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrUnknownAction),
		errors.Is(err, domain.ErrInvalidRequest):
		return httpapi.BadRequestResponse(c, err.Error(), nil)
	default:
		log.WithError(err).Error("request failed")
		return httpapi.InternalServerErrorResponse(c, "Internal server error", nil)
	}
}
