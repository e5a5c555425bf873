package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/adamwonghui/Warehouse-Management-System/internal/model"
)

// CreateItem creates a new item, auto-creating its category if the name is
// unknown. Counts must satisfy 0 <= inStock <= total.
func CreateItem(ctx context.Context, db *sql.DB, name, category, description string, total, inStock int) (*model.Item, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("item name is required: %w", ErrInvalidArgument)
	}
	if total < 0 || inStock < 0 {
		return nil, fmt.Errorf("stock counts cannot be negative: %w", ErrInvalidArgument)
	}
	if inStock > total {
		return nil, fmt.Errorf("in_stock %d exceeds total %d: %w", inStock, total, ErrInvalidArgument)
	}
	if category == "" {
		category = model.DefaultCategory
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := ensureCategory(ctx, tx, category); err != nil {
		return nil, err
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO items (name, category, description, total, in_stock)
		 VALUES (?, ?, ?, ?, ?)`,
		name, category, description, total, inStock,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing item: %w", err)
	}

	id, _ := result.LastInsertId()
	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID, or nil if it does not exist.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	item := &model.Item{}
	var description, imageMime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, name, category, description, total, in_stock, image_mime, created_at, updated_at
		 FROM items WHERE id = ?`, id,
	).Scan(&item.ID, &item.Name, &item.Category, &description, &item.Total, &item.InStock,
		&imageMime, &item.CreatedAt, &item.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	item.Description = description.String
	item.ImageMime = imageMime.String
	return item, nil
}

// ListItems returns items filtered by an optional keyword (matched against
// name and description), category, and derived stock status.
func ListItems(ctx context.Context, db *sql.DB, keyword, category, status string) ([]model.Item, error) {
	query := `SELECT id, name, category, description, total, in_stock, image_mime, created_at, updated_at
	          FROM items WHERE 1=1`
	var args []any

	if keyword != "" {
		query += ` AND (name LIKE ? OR description LIKE ?)`
		pattern := "%" + keyword + "%"
		args = append(args, pattern, pattern)
	}
	if category != "" {
		query += ` AND category = ?`
		args = append(args, category)
	}
	switch status {
	case model.StockStatusInStock:
		query += ` AND in_stock = total AND total > 0`
	case model.StockStatusPartial:
		query += ` AND in_stock > 0 AND in_stock < total`
	case model.StockStatusOutOfStock:
		query += ` AND in_stock = 0`
	}

	query += ` ORDER BY name`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		var description, imageMime sql.NullString
		if err := rows.Scan(&item.ID, &item.Name, &item.Category, &description, &item.Total,
			&item.InStock, &imageMime, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		item.Description = description.String
		item.ImageMime = imageMime.String
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateItemParams holds the optional fields of an item update. Nil fields
// are left untouched.
type UpdateItemParams struct {
	Name        *string
	Category    *string
	Description *string
	Total       *int
	InStock     *int
}

// UpdateItem applies a partial update to an item's metadata and counts,
// enforcing 0 <= in_stock <= total on the combined result.
func UpdateItem(ctx context.Context, db *sql.DB, id int64, params UpdateItemParams) (*model.Item, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var name, category string
	var description sql.NullString
	var total, inStock int
	err = tx.QueryRowContext(ctx,
		`SELECT name, category, description, total, in_stock FROM items WHERE id = ?`, id,
	).Scan(&name, &category, &description, &total, &inStock)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("item %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading item: %w", err)
	}

	desc := description.String
	if params.Name != nil {
		if strings.TrimSpace(*params.Name) == "" {
			return nil, fmt.Errorf("item name cannot be empty: %w", ErrInvalidArgument)
		}
		name = *params.Name
	}
	if params.Category != nil {
		category = *params.Category
		if category == "" {
			category = model.DefaultCategory
		}
		if err := ensureCategory(ctx, tx, category); err != nil {
			return nil, err
		}
	}
	if params.Description != nil {
		desc = *params.Description
	}
	if params.Total != nil {
		total = *params.Total
	}
	if params.InStock != nil {
		inStock = *params.InStock
	}

	if total < 0 || inStock < 0 {
		return nil, fmt.Errorf("stock counts cannot be negative: %w", ErrInvalidArgument)
	}
	if inStock > total {
		return nil, fmt.Errorf("in_stock %d exceeds total %d: %w", inStock, total, ErrInvalidArgument)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE items SET name = ?, category = ?, description = ?, total = ?, in_stock = ?, updated_at = ?
		 WHERE id = ?`,
		name, category, desc, total, inStock, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing item update: %w", err)
	}

	return GetItem(ctx, db, id)
}

// DeleteItem removes an item. Deletion is refused while any request on the
// item still has units out on loan.
func DeleteItem(ctx context.Context, db *sql.DB, id int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var open int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM requests WHERE item_id = ? AND status IN (?, ?)`,
		id, model.RequestStatusApproved, model.RequestStatusPartiallyReturned,
	).Scan(&open)
	if err != nil {
		return fmt.Errorf("checking open loans: %w", err)
	}
	if open > 0 {
		return fmt.Errorf("item has %d unreturned loans: %w", open, ErrInvalidState)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("item %d: %w", id, ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing item deletion: %w", err)
	}
	return nil
}

// SetItemImage stores an item's image data.
func SetItemImage(ctx context.Context, db *sql.DB, id int64, image []byte, mime string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET image = ?, image_mime = ?, updated_at = ? WHERE id = ?`,
		image, mime, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("setting item image: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking image update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("item %d: %w", id, ErrNotFound)
	}
	return nil
}

// GetItemImage returns an item's image data and MIME type, or nil data if
// the item has no image.
func GetItemImage(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT image, image_mime FROM items WHERE id = ?`, id,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item image: %w", err)
	}
	return image, mime.String, nil
}
