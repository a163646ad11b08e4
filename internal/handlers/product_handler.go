package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fairway-commerce/storefront-service/internal/domain"
	"github.com/fairway-commerce/storefront-service/internal/httpapi"
	"github.com/fairway-commerce/storefront-service/internal/service"
)

type ProductHandler struct {
	catalogService *service.CatalogService
}

func NewProductHandler(catalogService *service.CatalogService) *ProductHandler {
	return &ProductHandler{
		catalogService: catalogService,
	}
}

func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	filter, err := parseProductFilter(c)
	if err != nil {
		return httpapi.BadRequestResponse(c, err.Error(), nil)
	}

	products, total, err := h.catalogService.ListProducts(c.Context(), filter)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	response := ProductListResponse{
		Products: products,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: int((total + int64(limit) - 1) / int64(limit)),
		},
	}

	return httpapi.SuccessResponse(c, "Products retrieved successfully", response)
}

func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	productIDStr := c.Params("id")
	productID, err := uuid.Parse(productIDStr)
	if err != nil {
		return httpapi.BadRequestResponse(c, "Invalid product ID", map[string]interface{}{
			"product_id": productIDStr,
		})
	}

	product, err := h.catalogService.GetProduct(c.Context(), productID)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return httpapi.SuccessResponse(c, "Product retrieved successfully", product)
}

type createProductRequest struct {
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Brand     string          `json:"brand"`
	Category  string          `json:"category"`
	Condition string          `json:"condition"`
	ImageURL  string          `json:"image_url"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	Featured  bool            `json:"featured"`
}

func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var request createProductRequest
	if err := c.BodyParser(&request); err != nil {
		return httpapi.BadRequestResponse(c, "Invalid request body", map[string]interface{}{
			"parse_error": err.Error(),
		})
	}

	product := domain.NewProduct(request.SKU, request.Name, request.Brand, request.Category,
		domain.ProductCondition(request.Condition), request.Price, request.Stock)
	product.ImageURL = request.ImageURL
	product.Featured = request.Featured

	if err := h.catalogService.CreateProduct(c.Context(), product); err != nil {
		return serviceErrorResponse(c, err)
	}

	return httpapi.CreatedResponse(c, "Product created successfully", product)
}

func parseProductFilter(c *fiber.Ctx) (domain.ProductFilter, error) {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	filter := domain.ProductFilter{
		Category:  c.Query("category"),
		Brand:     c.Query("brand"),
		Condition: c.Query("condition"),
		SortBy:    c.Query("sort_by"),
		Page:      page,
		Limit:     limit,
	}

	if raw := c.Query("price_min"); raw != "" {
		min, err := decimal.NewFromString(raw)
		if err != nil {
			return filter, fiber.NewError(fiber.StatusBadRequest, "invalid price_min")
		}
		filter.PriceMin = &min
	}
	if raw := c.Query("price_max"); raw != "" {
		max, err := decimal.NewFromString(raw)
		if err != nil {
			return filter, fiber.NewError(fiber.StatusBadRequest, "invalid price_max")
		}
		filter.PriceMax = &max
	}
	if raw := c.Query("in_stock"); raw != "" {
		inStock, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, fiber.NewError(fiber.StatusBadRequest, "invalid in_stock")
		}
		filter.InStock = &inStock
	}
	if raw := c.Query("featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, fiber.NewError(fiber.StatusBadRequest, "invalid featured")
		}
		filter.Featured = &featured
	}

	return filter, nil
}
