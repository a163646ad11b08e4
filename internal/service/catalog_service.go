package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fairway-commerce/storefront-service/internal/domain"
)

// CatalogService is the read-mostly product surface the storefront browses.
type CatalogService struct {
	products ProductStore
}

func NewCatalogService(products ProductStore) *CatalogService {
	return &CatalogService{products: products}
}

func (s *CatalogService) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int64, error) {
	if !domain.ValidSortBy(filter.SortBy) {
		return nil, 0, fmt.Errorf("%w: unknown sort_by %q", domain.ErrInvalidRequest, filter.SortBy)
	}
	return s.products.ListProducts(ctx, filter)
}

func (s *CatalogService) GetProduct(ctx context.Context, productID uuid.UUID) (*domain.Product, error) {
	return s.products.GetProductByID(ctx, productID)
}

func (s *CatalogService) CreateProduct(ctx context.Context, product *domain.Product) error {
	if product.Name == "" || product.SKU == "" {
		return fmt.Errorf("%w: sku and name are required", domain.ErrInvalidRequest)
	}
	if product.Stock < 0 {
		return fmt.Errorf("%w: stock cannot be negative", domain.ErrInvalidRequest)
	}
	return s.products.CreateProduct(ctx, product)
}
