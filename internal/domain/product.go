package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductStatus string

const (
	ProductStatusAvailable    ProductStatus = "available"
	ProductStatusSold         ProductStatus = "sold"
	ProductStatusDiscontinued ProductStatus = "discontinued"
)

type ProductCondition string

const (
	ConditionNew         ProductCondition = "new"
	ConditionUsed        ProductCondition = "used"
	ConditionRefurbished ProductCondition = "refurbished"
)

type Product struct {
	ID        uuid.UUID        `json:"id"`
	SKU       string           `json:"sku"`
	Name      string           `json:"name"`
	Brand     string           `json:"brand"`
	Category  string           `json:"category"`
	Condition ProductCondition `json:"condition"`
	ImageURL  string           `json:"image_url,omitempty"`
	Price     decimal.Decimal  `json:"price"`
	Stock     int              `json:"stock"`
	Status    ProductStatus    `json:"status"`
	Featured  bool             `json:"featured"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func NewProduct(sku, name, brand, category string, condition ProductCondition, price decimal.Decimal, stock int) *Product {
	now := time.Now()
	return &Product{
		ID:        uuid.New(),
		SKU:       sku,
		Name:      name,
		Brand:     brand,
		Category:  category,
		Condition: condition,
		Price:     price,
		Stock:     stock,
		Status:    ProductStatusAvailable,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (p *Product) InStock(quantity int) bool {
	return p.Stock >= quantity
}

// ProductFilter narrows the catalog read path. Nil pointer fields mean
// "not filtered".
type ProductFilter struct {
	Category  string
	Brand     string
	Condition string
	PriceMin  *decimal.Decimal
	PriceMax  *decimal.Decimal
	InStock   *bool
	Featured  *bool
	SortBy    string
	Page      int
	Limit     int
}

// Catalog sort keys accepted by GET /products.
const (
	SortByNewest    = "newest"
	SortByPriceAsc  = "price_asc"
	SortByPriceDesc = "price_desc"
	SortByName      = "name"
)

func ValidSortBy(sortBy string) bool {
	switch sortBy {
	case "", SortByNewest, SortByPriceAsc, SortByPriceDesc, SortByName:
		return true
	}
	return false
}
