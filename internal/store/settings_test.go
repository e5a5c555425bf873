package store

import (
	"context"
	"testing"

	"github.com/adamwonghui/Warehouse-Management-System/internal/db"
)

func TestGetJWTSecretStable(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	first, err := GetJWTSecret(ctx, database)
	if err != nil {
		t.Fatalf("GetJWTSecret: %v", err)
	}
	if len(first) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(first))
	}

	// Subsequent calls return the persisted secret, not a fresh one.
	second, err := GetJWTSecret(ctx, database)
	if err != nil {
		t.Fatalf("GetJWTSecret: %v", err)
	}
	if first != second {
		t.Error("expected stable secret across calls")
	}
}
