package model

import "time"

// Category groups items by name. Items reference categories by name, and
// referencing an unknown name auto-creates it.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`

	// Joined field (not always populated).
	ItemCount int `json:"item_count"`
}

// DefaultCategory is assigned to items created without a category.
// It always exists and cannot be deleted.
const DefaultCategory = "Uncategorized"
