package store

import (
	"context"
	"errors"
	"testing"

	"github.com/adamwonghui/Warehouse-Management-System/internal/db"
	"github.com/adamwonghui/Warehouse-Management-System/internal/model"
)

func TestSubmitRequest(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, "Laptop", "Electronics", "", 10, 10)

	request, err := SubmitRequest(ctx, database, "alice", item.ID, 5, "field work")
	if err != nil {
		t.Fatalf("SubmitRequest: %v", err)
	}
	if request.Status != model.RequestStatusPending {
		t.Errorf("expected pending, got %s", request.Status)
	}
	if request.QuantityRequested != 5 || request.QuantityOutstanding != 5 {
		t.Errorf("expected quantities 5/5, got %d/%d",
			request.QuantityRequested, request.QuantityOutstanding)
	}
	if request.ItemName != "Laptop" || request.ItemCategory != "Electronics" {
		t.Errorf("expected item snapshot, got %q/%q", request.ItemName, request.ItemCategory)
	}

	// Submitting reserves nothing.
	got, _ := GetItem(ctx, database, item.ID)
	if got.InStock != 10 {
		t.Errorf("expected stock untouched at 10, got %d", got.InStock)
	}
}

func TestSubmitRequestValidation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, "Laptop", "", "", 10, 10)

	if _, err := SubmitRequest(ctx, database, "alice", item.ID, 0, "x"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for zero quantity, got %v", err)
	}
	if _, err := SubmitRequest(ctx, database, "alice", item.ID, -3, "x"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for negative quantity, got %v", err)
	}
	if _, err := SubmitRequest(ctx, database, "alice", item.ID, 1, "  "); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for blank purpose, got %v", err)
	}
	if _, err := SubmitRequest(ctx, database, "alice", 999, 1, "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing item, got %v", err)
	}
	if _, err := SubmitRequest(ctx, database, "alice", item.ID, 11, "x"); !errors.Is(err, ErrInsufficientStock) {
		t.Errorf("expected ErrInsufficientStock for oversized request, got %v", err)
	}
}

func TestApproveRequestReservesStock(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, "Laptop", "", "", 10, 10)
	request, _ := SubmitRequest(ctx, database, "alice", item.ID, 5, "field work")

	approved, err := ApproveRequest(ctx, database, request.ID, "admin", "ok")
	if err != nil {
		t.Fatalf("ApproveRequest: %v", err)
	}
	if approved.Status != model.RequestStatusApproved {
		t.Errorf("expected approved, got %s", approved.Status)
	}
	if approved.Approver != "admin" || approved.Comment != "ok" {
		t.Errorf("expected decision fields set, got %q/%q", approved.Approver, approved.Comment)
	}
	if approved.ApprovedAt == nil {
		t.Error("expected approved_at to be set")
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got.InStock != 5 {
		t.Errorf("expected stock 5 after approval, got %d", got.InStock)
	}
	if got.OnLoan() != 5 {
		t.Errorf("expected 5 on loan, got %d", got.OnLoan())
	}
}

func TestApproveRequestNotPending(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, "Laptop", "", "", 10, 10)
	request, _ := SubmitRequest(ctx, database, "alice", item.ID, 5, "field work")
	ApproveRequest(ctx, database, request.ID, "admin", "")

	if _, err := ApproveRequest(ctx, database, request.ID, "admin", ""); !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState for double approval, got %v", err)
	}
	if _, err := RejectRequest(ctx, database, request.ID, "admin", ""); !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState rejecting approved request, got %v", err)
	}

	// Stock must not be double-decremented by the failed attempts.
	got, _ := GetItem(ctx, database, item.ID)
	if got.InStock != 5 {
		t.Errorf("expected stock 5, got %d", got.InStock)
	}
}

func TestApproveRaceLosesAuthoritativeCheck(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	// Two 8-unit requests against 10 units. Both pass the advisory check
	// at submit time; only the first survives the authoritative one.
	item, _ := CreateItem(ctx, database, "Laptop", "", "", 10, 10)
	first, _ := SubmitRequest(ctx, database, "alice", item.ID, 8, "x")
	second, _ := SubmitRequest(ctx, database, "bob", item.ID, 8, "x")

	if _, err := ApproveRequest(ctx, database, first.ID, "admin", ""); err != nil {
		t.Fatalf("first approval: %v", err)
	}
	if _, err := ApproveRequest(ctx, database, second.ID, "admin", ""); !errors.Is(err, ErrInsufficientStock) {
		t.Errorf("expected ErrInsufficientStock for second approval, got %v", err)
	}

	// The loser stays pending and the item keeps its 2 remaining units.
	got, _ := GetRequest(ctx, database, second.ID)
	if got.Status != model.RequestStatusPending {
		t.Errorf("expected loser to stay pending, got %s", got.Status)
	}
	gotItem, _ := GetItem(ctx, database, item.ID)
	if gotItem.InStock != 2 {
		t.Errorf("expected stock 2, got %d", gotItem.InStock)
	}
}

func TestRejectRequest(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, "Laptop", "", "", 10, 10)
	request, _ := SubmitRequest(ctx, database, "alice", item.ID, 5, "x")

	rejected, err := RejectRequest(ctx, database, request.ID, "admin", "no")
	if err != nil {
		t.Fatalf("RejectRequest: %v", err)
	}
	if rejected.Status != model.RequestStatusRejected {
		t.Errorf("expected rejected, got %s", rejected.Status)
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got.InStock != 10 {
		t.Errorf("expected stock untouched at 10, got %d", got.InStock)
	}
}

func TestPartialThenFullReturn(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, "Laptop", "", "", 10, 10)
	request, _ := SubmitRequest(ctx, database, "alice", item.ID, 5, "x")
	ApproveRequest(ctx, database, request.ID, "admin", "")

	partial, err := ReturnRequest(ctx, database, request.ID, 2)
	if err != nil {
		t.Fatalf("ReturnRequest: %v", err)
	}
	if partial.Status != model.RequestStatusPartiallyReturned {
		t.Errorf("expected partially_returned, got %s", partial.Status)
	}
	if partial.QuantityOutstanding != 3 {
		t.Errorf("expected 3 outstanding, got %d", partial.QuantityOutstanding)
	}
	if partial.ReturnedQuantity() != 2 {
		t.Errorf("expected 2 returned, got %d", partial.ReturnedQuantity())
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got.InStock != 7 {
		t.Errorf("expected stock 7 after partial return, got %d", got.InStock)
	}

	full, err := ReturnRequest(ctx, database, request.ID, 3)
	if err != nil {
		t.Fatalf("ReturnRequest: %v", err)
	}
	if full.Status != model.RequestStatusReturned {
		t.Errorf("expected returned, got %s", full.Status)
	}
	if full.QuantityOutstanding != 0 {
		t.Errorf("expected 0 outstanding, got %d", full.QuantityOutstanding)
	}
	if full.ReturnedAt == nil {
		t.Error("expected returned_at to be set")
	}

	got, _ = GetItem(ctx, database, item.ID)
	if got.InStock != 10 {
		t.Errorf("expected stock fully restored to 10, got %d", got.InStock)
	}
}

func TestReturnValidation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, "Laptop", "", "", 10, 10)
	request, _ := SubmitRequest(ctx, database, "alice", item.ID, 5, "x")

	// Not approved yet.
	if _, err := ReturnRequest(ctx, database, request.ID, 1); !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState returning pending request, got %v", err)
	}

	ApproveRequest(ctx, database, request.ID, "admin", "")

	if _, err := ReturnRequest(ctx, database, request.ID, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for zero return, got %v", err)
	}
	if _, err := ReturnRequest(ctx, database, request.ID, 6); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for over-return, got %v", err)
	}

	// Failed returns must not leak stock.
	got, _ := GetItem(ctx, database, item.ID)
	if got.InStock != 5 {
		t.Errorf("expected stock 5, got %d", got.InStock)
	}

	ReturnRequest(ctx, database, request.ID, 5)
	if _, err := ReturnRequest(ctx, database, request.ID, 1); !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState returning closed request, got %v", err)
	}
}

func TestReturnRequestAll(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, "Laptop", "", "", 10, 10)
	request, _ := SubmitRequest(ctx, database, "alice", item.ID, 5, "x")
	ApproveRequest(ctx, database, request.ID, "admin", "")
	ReturnRequest(ctx, database, request.ID, 2)

	closed, err := ReturnRequestAll(ctx, database, request.ID)
	if err != nil {
		t.Fatalf("ReturnRequestAll: %v", err)
	}
	if closed.Status != model.RequestStatusReturned || closed.QuantityOutstanding != 0 {
		t.Errorf("expected returned with 0 outstanding, got %s/%d",
			closed.Status, closed.QuantityOutstanding)
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got.InStock != 10 {
		t.Errorf("expected stock fully restored to 10, got %d", got.InStock)
	}

	// A closed request reports the state problem, not a quantity problem.
	if _, err := ReturnRequestAll(ctx, database, request.ID); !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState for closed request, got %v", err)
	}

	pending, _ := SubmitRequest(ctx, database, "bob", item.ID, 1, "x")
	if _, err := ReturnRequestAll(ctx, database, pending.ID); !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState for pending request, got %v", err)
	}
}

func TestStockConservation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	// in_stock plus the sum of outstanding loans always equals total.
	item, _ := CreateItem(ctx, database, "Laptop", "", "", 10, 10)

	r1, _ := SubmitRequest(ctx, database, "alice", item.ID, 4, "x")
	r2, _ := SubmitRequest(ctx, database, "bob", item.ID, 3, "x")
	ApproveRequest(ctx, database, r1.ID, "admin", "")
	ApproveRequest(ctx, database, r2.ID, "admin", "")
	ReturnRequest(ctx, database, r1.ID, 2)

	got, _ := GetItem(ctx, database, item.ID)
	requests, _ := ListRequests(ctx, database, "", "")

	outstanding := 0
	for _, r := range requests {
		if r.Status == model.RequestStatusApproved || r.Status == model.RequestStatusPartiallyReturned {
			outstanding += r.QuantityOutstanding
		}
	}
	if got.InStock+outstanding != got.Total {
		t.Errorf("conservation violated: %d in stock + %d outstanding != %d total",
			got.InStock, outstanding, got.Total)
	}
}

func TestBatchApproveSkipsBadRequests(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, "Laptop", "", "", 10, 10)
	r1, _ := SubmitRequest(ctx, database, "alice", item.ID, 4, "x")
	r2, _ := SubmitRequest(ctx, database, "bob", item.ID, 3, "x")
	RejectRequest(ctx, database, r2.ID, "admin", "")

	// r2 already rejected, 999 does not exist.
	processed := BatchApprove(ctx, database, []int64{r1.ID, r2.ID, 999}, "admin", "")
	if processed != 1 {
		t.Errorf("expected 1 processed, got %d", processed)
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got.InStock != 6 {
		t.Errorf("expected stock 6, got %d", got.InStock)
	}
}

func TestBatchReject(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, "Laptop", "", "", 10, 10)
	r1, _ := SubmitRequest(ctx, database, "alice", item.ID, 4, "x")
	r2, _ := SubmitRequest(ctx, database, "bob", item.ID, 3, "x")

	processed := BatchReject(ctx, database, []int64{r1.ID, r2.ID}, "admin", "closing up")
	if processed != 2 {
		t.Errorf("expected 2 processed, got %d", processed)
	}
}

func TestListRequestsFiltered(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, "Laptop", "", "", 10, 10)
	r1, _ := SubmitRequest(ctx, database, "alice", item.ID, 2, "x")
	SubmitRequest(ctx, database, "bob", item.ID, 2, "x")
	SubmitRequest(ctx, database, "alice", item.ID, 1, "y")
	ApproveRequest(ctx, database, r1.ID, "admin", "")

	all, _ := ListRequests(ctx, database, "", "")
	if len(all) != 3 {
		t.Errorf("expected 3 requests, got %d", len(all))
	}

	byUser, _ := ListRequests(ctx, database, "alice", "")
	if len(byUser) != 2 {
		t.Errorf("expected 2 requests for alice, got %d", len(byUser))
	}

	byStatus, _ := ListRequests(ctx, database, "", model.RequestStatusPending)
	if len(byStatus) != 2 {
		t.Errorf("expected 2 pending requests, got %d", len(byStatus))
	}

	both, _ := ListRequests(ctx, database, "alice", model.RequestStatusApproved)
	if len(both) != 1 {
		t.Errorf("expected 1 approved request for alice, got %d", len(both))
	}
}

func TestGetRequestMissing(t *testing.T) {
	database := db.NewTestDB(t)

	request, err := GetRequest(context.Background(), database, 42)
	if err != nil {
		t.Fatalf("GetRequest: %v", err)
	}
	if request != nil {
		t.Errorf("expected nil for missing request, got %+v", request)
	}
}
