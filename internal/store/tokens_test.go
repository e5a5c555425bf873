package store

import (
	"context"
	"testing"
	"time"

	"github.com/adamwonghui/Warehouse-Management-System/internal/db"
)

func TestTokenRevocation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	revoked, err := IsTokenRevoked(ctx, database, "jti-1")
	if err != nil {
		t.Fatalf("IsTokenRevoked: %v", err)
	}
	if revoked {
		t.Error("expected token not revoked initially")
	}

	if err := RevokeToken(ctx, database, "jti-1", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("RevokeToken: %v", err)
	}

	revoked, _ = IsTokenRevoked(ctx, database, "jti-1")
	if !revoked {
		t.Error("expected token to be revoked")
	}

	// Revoking twice is a no-op.
	if err := RevokeToken(ctx, database, "jti-1", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("RevokeToken: %v", err)
	}
}

func TestRevokeTokenCleansExpired(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	// Already expired, eligible for cleanup.
	RevokeToken(ctx, database, "old", time.Now().Add(-time.Hour))
	RevokeToken(ctx, database, "new", time.Now().Add(time.Hour))

	revoked, _ := IsTokenRevoked(ctx, database, "old")
	if revoked {
		t.Error("expected expired revocation to be cleaned up")
	}
	revoked, _ = IsTokenRevoked(ctx, database, "new")
	if !revoked {
		t.Error("expected live revocation to survive cleanup")
	}
}
