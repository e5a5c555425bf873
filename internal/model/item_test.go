package model

import (
	"encoding/json"
	"testing"
)

func TestStockStatus(t *testing.T) {
	tests := []struct {
		total    int
		inStock  int
		expected string
	}{
		{10, 10, StockStatusInStock},
		{10, 3, StockStatusPartial},
		{10, 0, StockStatusOutOfStock},
		{1, 1, StockStatusInStock},
		// No units at all counts as out of stock.
		{0, 0, StockStatusOutOfStock},
	}

	for _, tt := range tests {
		item := Item{Total: tt.total, InStock: tt.inStock}
		if got := item.StockStatus(); got != tt.expected {
			t.Errorf("StockStatus(%d/%d) = %q, want %q", tt.inStock, tt.total, got, tt.expected)
		}
	}
}

func TestOnLoan(t *testing.T) {
	item := Item{Total: 10, InStock: 7}
	if got := item.OnLoan(); got != 3 {
		t.Errorf("OnLoan() = %d, want 3", got)
	}
}

func TestItemJSONIncludesDerivedFields(t *testing.T) {
	item := Item{Name: "Laptop", Total: 10, InStock: 4}

	data, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded map[string]any
	json.Unmarshal(data, &decoded)

	if decoded["on_loan"] != float64(6) {
		t.Errorf("expected on_loan 6, got %v", decoded["on_loan"])
	}
	if decoded["status"] != StockStatusPartial {
		t.Errorf("expected status %q, got %v", StockStatusPartial, decoded["status"])
	}
}
