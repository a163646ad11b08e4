package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/fairway-commerce/storefront-service/internal/httpapi"
	"github.com/fairway-commerce/storefront-service/internal/service"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

func (h *NotificationHandler) GetNotifications(c *fiber.Ctx) error {
	orderIDStr := c.Query("order_id")
	if orderIDStr == "" {
		return httpapi.BadRequestResponse(c, "order_id query parameter is required", nil)
	}

	orderID, err := uuid.Parse(orderIDStr)
	if err != nil {
		return httpapi.BadRequestResponse(c, "Invalid order ID", map[string]interface{}{
			"order_id": orderIDStr,
		})
	}

	notifications, err := h.notificationService.GetNotificationsByOrderID(c.Context(), orderID)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return httpapi.SuccessResponse(c, "Notifications retrieved successfully", notifications)
}
