package model

import (
	"encoding/json"
	"time"
)

// Item represents an item type tracked by quantity. OnLoan and the stock
// status are derived from Total and InStock, never stored.
type Item struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	Total       int       `json:"total"`
	InStock     int       `json:"in_stock"`
	ImageMime   string    `json:"image_mime,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Stock statuses, derived from (InStock, Total).
const (
	StockStatusInStock    = "in_stock"
	StockStatusPartial    = "partial_in_stock"
	StockStatusOutOfStock = "out_of_stock"
)

// OnLoan returns the number of units currently lent out.
func (i *Item) OnLoan() int {
	return i.Total - i.InStock
}

// StockStatus derives the stock status from the current counts.
// An item with no units at all counts as out of stock.
func (i *Item) StockStatus() string {
	switch {
	case i.InStock == 0:
		return StockStatusOutOfStock
	case i.InStock < i.Total:
		return StockStatusPartial
	default:
		return StockStatusInStock
	}
}

// MarshalJSON includes the derived on_loan and status fields so API
// consumers never have to recompute them.
func (i Item) MarshalJSON() ([]byte, error) {
	type alias Item
	return json.Marshal(struct {
		alias
		OnLoan int    `json:"on_loan"`
		Status string `json:"status"`
	}{
		alias:  alias(i),
		OnLoan: i.OnLoan(),
		Status: i.StockStatus(),
	})
}
