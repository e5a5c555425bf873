package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/adamwonghui/Warehouse-Management-System/internal/model"
)

// ensureCategory creates a category record if the name is unknown. Used by
// the item create/update path, which never fails on an unknown category.
func ensureCategory(ctx context.Context, tx *sql.Tx, name string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO categories (name, description) VALUES (?, 'Auto-created')`,
		name,
	)
	if err != nil {
		return fmt.Errorf("ensuring category %q: %w", name, err)
	}
	return nil
}

// CreateCategory creates a new category. Duplicate names are rejected.
func CreateCategory(ctx context.Context, db *sql.DB, name, description string) (*model.Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("category name is required: %w", ErrInvalidArgument)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM categories WHERE name = ?`, name,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("checking category: %w", err)
	}
	if exists > 0 {
		return nil, fmt.Errorf("category %q already exists: %w", name, ErrInvalidArgument)
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO categories (name, description) VALUES (?, ?)`,
		name, description,
	)
	if err != nil {
		return nil, fmt.Errorf("creating category: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing category: %w", err)
	}

	id, _ := result.LastInsertId()
	return GetCategory(ctx, db, id)
}

// GetCategory returns a category by ID with its item count, or nil if it
// does not exist.
func GetCategory(ctx context.Context, db *sql.DB, id int64) (*model.Category, error) {
	c := &model.Category{}
	var description sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT c.id, c.name, c.description, c.created_at,
		        (SELECT COUNT(*) FROM items i WHERE i.category = c.name) AS item_count
		 FROM categories c WHERE c.id = ?`, id,
	).Scan(&c.ID, &c.Name, &description, &c.CreatedAt, &c.ItemCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting category: %w", err)
	}
	c.Description = description.String
	return c, nil
}

// ListCategories returns all categories with their item counts.
func ListCategories(ctx context.Context, db *sql.DB) ([]model.Category, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT c.id, c.name, c.description, c.created_at, COUNT(i.id) AS item_count
		 FROM categories c
		 LEFT JOIN items i ON i.category = c.name
		 GROUP BY c.id
		 ORDER BY c.name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		var description sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &description, &c.CreatedAt, &c.ItemCount); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		c.Description = description.String
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// UpdateCategory renames a category and/or updates its description. A rename
// cascades to every item referencing the old name.
func UpdateCategory(ctx context.Context, db *sql.DB, id int64, name, description *string) (*model.Category, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var currentName string
	var currentDesc sql.NullString
	err = tx.QueryRowContext(ctx,
		`SELECT name, description FROM categories WHERE id = ?`, id,
	).Scan(&currentName, &currentDesc)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("category %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading category: %w", err)
	}

	newName := currentName
	if name != nil && *name != currentName {
		if strings.TrimSpace(*name) == "" {
			return nil, fmt.Errorf("category name cannot be empty: %w", ErrInvalidArgument)
		}
		if currentName == model.DefaultCategory {
			return nil, fmt.Errorf("default category cannot be renamed: %w", ErrInvalidArgument)
		}

		var taken int
		err = tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM categories WHERE name = ?`, *name,
		).Scan(&taken)
		if err != nil {
			return nil, fmt.Errorf("checking category name: %w", err)
		}
		if taken > 0 {
			return nil, fmt.Errorf("category %q already exists: %w", *name, ErrInvalidArgument)
		}
		newName = *name

		// Cascade the rename to items referencing the old name.
		_, err = tx.ExecContext(ctx,
			`UPDATE items SET category = ? WHERE category = ?`, newName, currentName,
		)
		if err != nil {
			return nil, fmt.Errorf("recategorizing items: %w", err)
		}
	}

	newDesc := currentDesc.String
	if description != nil {
		newDesc = *description
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE categories SET name = ?, description = ? WHERE id = ?`,
		newName, newDesc, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating category: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing category update: %w", err)
	}

	return GetCategory(ctx, db, id)
}

// DeleteCategory removes a category. The default category and categories
// that still contain items cannot be deleted.
func DeleteCategory(ctx context.Context, db *sql.DB, id int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var name string
	err = tx.QueryRowContext(ctx,
		`SELECT name FROM categories WHERE id = ?`, id,
	).Scan(&name)
	if err == sql.ErrNoRows {
		return fmt.Errorf("category %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("loading category: %w", err)
	}

	if name == model.DefaultCategory {
		return fmt.Errorf("default category cannot be deleted: %w", ErrInvalidArgument)
	}

	var count int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items WHERE category = ?`, name,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("counting items in category: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("category %q still has %d items: %w", name, count, ErrInvalidState)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing category deletion: %w", err)
	}
	return nil
}
