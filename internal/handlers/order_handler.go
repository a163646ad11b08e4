package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/fairway-commerce/storefront-service/internal/domain"
	"github.com/fairway-commerce/storefront-service/internal/httpapi"
	"github.com/fairway-commerce/storefront-service/internal/service"
)

type OrderHandler struct {
	orderService *service.OrderService
}

func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var request domain.CreateOrderRequest

	if err := c.BodyParser(&request); err != nil {
		return httpapi.BadRequestResponse(c, "Invalid request body", map[string]interface{}{
			"parse_error": err.Error(),
		})
	}

	order, err := h.orderService.CreateOrder(c.Context(), request)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	response := CreateOrderResponse{
		OrderID: order.ID.String(),
		Order:   order,
		Message: "Order placed successfully",
	}

	return httpapi.CreatedResponse(c, "Order created successfully", response)
}

func (h *OrderHandler) GetOrderByID(c *fiber.Ctx) error {
	orderIDStr := c.Params("id")
	orderID, err := uuid.Parse(orderIDStr)
	if err != nil {
		return httpapi.BadRequestResponse(c, "Invalid order ID", map[string]interface{}{
			"order_id": orderIDStr,
		})
	}

	order, err := h.orderService.GetOrderByID(c.Context(), orderID)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return httpapi.SuccessResponse(c, "Order retrieved successfully", order)
}

func (h *OrderHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	orderIDStr := c.Params("id")
	orderID, err := uuid.Parse(orderIDStr)
	if err != nil {
		return httpapi.BadRequestResponse(c, "Invalid order ID", map[string]interface{}{
			"order_id": orderIDStr,
		})
	}

	var request domain.UpdateOrderStatusRequest
	if err := c.BodyParser(&request); err != nil {
		return httpapi.BadRequestResponse(c, "Invalid request body", map[string]interface{}{
			"parse_error": err.Error(),
		})
	}

	order, change, err := h.orderService.UpdateOrderStatus(c.Context(), orderID, request)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	response := StatusUpdateResponse{
		Order:        order,
		StatusChange: change,
		Message:      "Order status updated",
	}

	return httpapi.SuccessResponse(c, "Order status updated successfully", response)
}

func (h *OrderHandler) GetOrdersByCustomerID(c *fiber.Ctx) error {
	customerIDStr := c.Params("customer_id")
	customerID, err := uuid.Parse(customerIDStr)
	if err != nil {
		return httpapi.BadRequestResponse(c, "Invalid customer ID", map[string]interface{}{
			"customer_id": customerIDStr,
		})
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	orders, err := h.orderService.GetOrdersByCustomerID(c.Context(), customerID)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	total := int64(len(orders))
	start := (page - 1) * limit
	if start > len(orders) {
		start = len(orders)
	}
	end := start + limit
	if end > len(orders) {
		end = len(orders)
	}

	response := OrderListResponse{
		Orders: orders[start:end],
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: int((total + int64(limit) - 1) / int64(limit)),
		},
	}

	return httpapi.SuccessResponse(c, "Orders retrieved successfully", response)
}

func (h *OrderHandler) HealthCheck(c *fiber.Ctx) error {
	return httpapi.SuccessResponse(c, "Service is healthy", map[string]interface{}{
		"service": service.ServiceName,
		"status":  "healthy",
	})
}
