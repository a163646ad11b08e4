package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/fairway-commerce/storefront-service/internal/database"
	"github.com/fairway-commerce/storefront-service/internal/domain"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) CreateProduct(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (
			id, sku, name, brand, category, condition, image_url,
			price, stock, status, featured, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.SKU,
		product.Name,
		product.Brand,
		product.Category,
		product.Condition,
		product.ImageURL,
		product.Price,
		product.Stock,
		product.Status,
		product.Featured,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}

	return nil
}

func (r *ProductRepository) GetProductByID(ctx context.Context, productID uuid.UUID) (*domain.Product, error) {
	query := `
		SELECT id, sku, name, brand, category, condition, image_url,
			   price, stock, status, featured, created_at, updated_at
		FROM products
		WHERE id = $1
	`

	product := &domain.Product{}
	err := r.db.QueryRowContext(ctx, query, productID).Scan(
		&product.ID,
		&product.SKU,
		&product.Name,
		&product.Brand,
		&product.Category,
		&product.Condition,
		&product.ImageURL,
		&product.Price,
		&product.Stock,
		&product.Status,
		&product.Featured,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	return product, nil
}

// DecrementStock reserves quantity units with a stock >= quantity guard.
// Zero affected rows means the guard failed or the row is missing; both are
// reported as insufficient stock since callers resolve the product first.
func (r *ProductRepository) DecrementStock(ctx context.Context, productID uuid.UUID, quantity int) error {
	return withRetry(ctx, func() error {
		result, err := r.db.ExecContext(ctx,
			`UPDATE products
			 SET stock = stock - $1,
			     updated_at = NOW()
			 WHERE id = $2
			   AND stock >= $1`,
			quantity, productID)
		if err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("get rows affected: %w", err)
		}

		if rowsAffected == 0 {
			return database.ErrInsufficientStock
		}

		return nil
	})
}

// IncrementStock restores quantity units unconditionally; the caller
// guards against repeated restoration.
func (r *ProductRepository) IncrementStock(ctx context.Context, productID uuid.UUID, quantity int) error {
	return withRetry(ctx, func() error {
		result, err := r.db.ExecContext(ctx,
			`UPDATE products
			 SET stock = stock + $1,
			     updated_at = NOW()
			 WHERE id = $2`,
			quantity, productID)
		if err != nil {
			return fmt.Errorf("increment stock: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("get rows affected: %w", err)
		}

		if rowsAffected == 0 {
			return database.ErrProductNotFound
		}

		return nil
	})
}

func (r *ProductRepository) SetStock(ctx context.Context, productID uuid.UUID, stock int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE products
		 SET stock = $1,
		     updated_at = NOW()
		 WHERE id = $2`,
		stock, productID)
	if err != nil {
		return fmt.Errorf("set stock: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return database.ErrProductNotFound
	}

	return nil
}

func (r *ProductRepository) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int64, error) {
	var conditions []string
	var args []interface{}

	addCondition := func(clause string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if filter.Category != "" {
		addCondition("category = $%d", filter.Category)
	}
	if filter.Brand != "" {
		addCondition("brand = $%d", filter.Brand)
	}
	if filter.Condition != "" {
		addCondition("condition = $%d", filter.Condition)
	}
	if filter.PriceMin != nil {
		addCondition("price >= $%d", *filter.PriceMin)
	}
	if filter.PriceMax != nil {
		addCondition("price <= $%d", *filter.PriceMax)
	}
	if filter.InStock != nil {
		if *filter.InStock {
			conditions = append(conditions, "stock > 0")
		} else {
			conditions = append(conditions, "stock = 0")
		}
	}
	if filter.Featured != nil {
		addCondition("featured = $%d", *filter.Featured)
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM products " + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	orderBy := "created_at DESC"
	switch filter.SortBy {
	case domain.SortByPriceAsc:
		orderBy = "price ASC"
	case domain.SortByPriceDesc:
		orderBy = "price DESC"
	case domain.SortByName:
		orderBy = "name ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}

	args = append(args, limit, (page-1)*limit)
	query := fmt.Sprintf(`
		SELECT id, sku, name, brand, category, condition, image_url,
			   price, stock, status, featured, created_at, updated_at
		FROM products
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`, where, orderBy, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var product domain.Product
		err := rows.Scan(
			&product.ID,
			&product.SKU,
			&product.Name,
			&product.Brand,
			&product.Category,
			&product.Condition,
			&product.ImageURL,
			&product.Price,
			&product.Stock,
			&product.Status,
			&product.Featured,
			&product.CreatedAt,
			&product.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows error: %w", err)
	}

	return products, total, nil
}
