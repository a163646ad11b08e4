package handlers

import (
	"github.com/fairway-commerce/storefront-service/internal/domain"
)

type CreateOrderResponse struct {
	OrderID string        `json:"order_id"`
	Order   *domain.Order `json:"order"`
	Message string        `json:"message"`
}

type StatusUpdateResponse struct {
	Order        *domain.Order        `json:"order"`
	StatusChange *domain.StatusChange `json:"status_change"`
	Message      string               `json:"message"`
}

type OrderListResponse struct {
	Orders     []*domain.Order `json:"orders"`
	Pagination Pagination      `json:"pagination"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

type ProductListResponse struct {
	Products   []domain.Product `json:"products"`
	Pagination Pagination       `json:"pagination"`
}

type InventoryListResponse struct {
	Items []domain.InventoryItem `json:"items"`
	Count int                    `json:"count"`
}

type StockAdjustmentResponse struct {
	Adjustment *domain.StockAdjustment `json:"adjustment"`
	Message    string                  `json:"message"`
}
