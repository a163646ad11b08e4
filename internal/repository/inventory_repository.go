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

type InventoryRepository struct {
	db *sql.DB
}

func NewInventoryRepository(db *sql.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

func (r *InventoryRepository) CreateItem(ctx context.Context, item *domain.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (
			id, product_id, item_type, club_type, status,
			stock, reserved, available, last_updated, last_restocked
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		item.ID,
		item.ProductID,
		item.ItemType,
		item.ClubType,
		item.Status,
		item.Stock,
		item.Reserved,
		item.Available,
		item.LastUpdated,
		item.LastRestocked,
	)
	if err != nil {
		return fmt.Errorf("create inventory item: %w", err)
	}

	return nil
}

func (r *InventoryRepository) GetByProductID(ctx context.Context, productID uuid.UUID) (*domain.InventoryItem, error) {
	query := `
		SELECT id, product_id, item_type, club_type, status,
			   stock, reserved, available, last_updated, last_restocked
		FROM inventory_items
		WHERE product_id = $1
	`

	item := &domain.InventoryItem{}
	var lastRestocked sql.NullTime

	err := r.db.QueryRowContext(ctx, query, productID).Scan(
		&item.ID,
		&item.ProductID,
		&item.ItemType,
		&item.ClubType,
		&item.Status,
		&item.Stock,
		&item.Reserved,
		&item.Available,
		&item.LastUpdated,
		&lastRestocked,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrInventoryNotFound
		}
		return nil, fmt.Errorf("get inventory item: %w", err)
	}

	if lastRestocked.Valid {
		item.LastRestocked = &lastRestocked.Time
	}

	return item, nil
}

// ApplyStockDelta shifts the ledger atomically, recomputing the derived
// available/status columns in the same statement. A missing ledger row is
// tolerated; the caller decides whether to seed one.
func (r *InventoryRepository) ApplyStockDelta(ctx context.Context, productID uuid.UUID, delta int) error {
	return withRetry(ctx, func() error {
		result, err := r.db.ExecContext(ctx,
			`UPDATE inventory_items
			 SET stock = stock + $2,
			     available = stock + $2 - reserved,
			     status = CASE WHEN stock + $2 - reserved > 0 THEN 'in_stock' ELSE 'out_of_stock' END,
			     last_updated = NOW()
			 WHERE product_id = $1`,
			productID, delta)
		if err != nil {
			return fmt.Errorf("apply stock delta: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return err
		}

		if rowsAffected == 0 {
			return database.ErrInventoryNotFound
		}

		return nil
	})
}

// SetStockLevel records an absolute stock level, stamping last_restocked
// when the write came from a restock action.
func (r *InventoryRepository) SetStockLevel(ctx context.Context, productID uuid.UUID, stock int, restocked bool) error {
	query := `
		UPDATE inventory_items
		SET stock = $2,
		    available = $2 - reserved,
		    status = CASE WHEN $2 - reserved > 0 THEN 'in_stock' ELSE 'out_of_stock' END,
		    last_updated = NOW(),
		    last_restocked = CASE WHEN $3 THEN NOW() ELSE last_restocked END
		WHERE product_id = $1
	`

	result, err := r.db.ExecContext(ctx, query, productID, stock, restocked)
	if err != nil {
		return fmt.Errorf("set stock level: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return database.ErrInventoryNotFound
	}

	return nil
}

func (r *InventoryRepository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM inventory_items WHERE id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("delete inventory item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return database.ErrInventoryNotFound
	}

	return nil
}

func (r *InventoryRepository) ListItems(ctx context.Context, filter domain.InventoryFilter) ([]domain.InventoryItem, error) {
	var conditions []string
	var args []interface{}

	addCondition := func(clause string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if filter.Status != "" {
		addCondition("status = $%d", filter.Status)
	}
	if filter.ClubType != "" {
		addCondition("club_type = $%d", filter.ClubType)
	}
	if filter.ItemType != "" {
		addCondition("item_type = $%d", filter.ItemType)
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	limit := filter.Limit
	if limit < 1 || limit > 500 {
		limit = 50
	}
	args = append(args, limit)

	query := fmt.Sprintf(`
		SELECT id, product_id, item_type, club_type, status,
			   stock, reserved, available, last_updated, last_restocked
		FROM inventory_items
		%s
		ORDER BY last_updated DESC
		LIMIT $%d`, where, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory items: %w", err)
	}
	defer rows.Close()

	var items []domain.InventoryItem
	for rows.Next() {
		var item domain.InventoryItem
		var lastRestocked sql.NullTime

		err := rows.Scan(
			&item.ID,
			&item.ProductID,
			&item.ItemType,
			&item.ClubType,
			&item.Status,
			&item.Stock,
			&item.Reserved,
			&item.Available,
			&item.LastUpdated,
			&lastRestocked,
		)
		if err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}

		if lastRestocked.Valid {
			item.LastRestocked = &lastRestocked.Time
		}

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return items, nil
}
