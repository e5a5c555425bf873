package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/adamwonghui/Warehouse-Management-System/internal/model"
)

// SubmitRequest creates a pending borrow request. Stock is checked here only
// as an advisory courtesy to the requester; nothing is reserved until an
// approver accepts the request, where the check is repeated authoritatively.
func SubmitRequest(ctx context.Context, db *sql.DB, username string, itemID int64, quantity int, purpose string) (*model.Request, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive, got %d: %w", quantity, ErrInvalidArgument)
	}
	if strings.TrimSpace(purpose) == "" {
		return nil, fmt.Errorf("purpose is required: %w", ErrInvalidArgument)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var itemName, itemCategory string
	var inStock int
	err = tx.QueryRowContext(ctx,
		`SELECT name, category, in_stock FROM items WHERE id = ?`, itemID,
	).Scan(&itemName, &itemCategory, &inStock)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("item %d: %w", itemID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("checking item: %w", err)
	}

	if inStock < quantity {
		return nil, fmt.Errorf("item %q has %d in stock, requested %d: %w",
			itemName, inStock, quantity, ErrInsufficientStock)
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO requests (username, item_id, item_name, item_category,
		                       quantity_requested, quantity_outstanding, purpose, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		username, itemID, itemName, itemCategory, quantity, quantity, purpose,
		model.RequestStatusPending,
	)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing request: %w", err)
	}

	id, _ := result.LastInsertId()
	return GetRequest(ctx, db, id)
}

// ApproveRequest reserves stock for a pending request. The stock check runs
// inside the same transaction as the decrement, so two approvals racing for
// the same item cannot jointly over-draw it.
func ApproveRequest(ctx context.Context, db *sql.DB, requestID int64, approver, comment string) (*model.Request, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var status string
	var itemID int64
	var quantity int
	err = tx.QueryRowContext(ctx,
		`SELECT status, item_id, quantity_outstanding FROM requests WHERE id = ?`, requestID,
	).Scan(&status, &itemID, &quantity)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("request %d: %w", requestID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading request: %w", err)
	}

	if status != model.RequestStatusPending {
		return nil, fmt.Errorf("request %d is %s, not pending: %w", requestID, status, ErrInvalidState)
	}

	var inStock int
	err = tx.QueryRowContext(ctx,
		`SELECT in_stock FROM items WHERE id = ?`, itemID,
	).Scan(&inStock)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("item %d no longer exists: %w", itemID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("checking item stock: %w", err)
	}

	// The authoritative check. The one at submit time was advisory.
	if inStock < quantity {
		return nil, fmt.Errorf("item %d has %d in stock, request needs %d: %w",
			itemID, inStock, quantity, ErrInsufficientStock)
	}

	now := time.Now().UTC()

	_, err = tx.ExecContext(ctx,
		`UPDATE items SET in_stock = in_stock - ?, updated_at = ? WHERE id = ?`,
		quantity, now, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("reserving stock: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE requests SET status = ?, approver = ?, comment = ?, approved_at = ?
		 WHERE id = ?`,
		model.RequestStatusApproved, approver, comment, now, requestID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating request: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing approval: %w", err)
	}

	return GetRequest(ctx, db, requestID)
}

// RejectRequest marks a pending request rejected. No stock was ever
// reserved, so the item is untouched.
func RejectRequest(ctx context.Context, db *sql.DB, requestID int64, approver, comment string) (*model.Request, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var status string
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM requests WHERE id = ?`, requestID,
	).Scan(&status)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("request %d: %w", requestID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading request: %w", err)
	}

	if status != model.RequestStatusPending {
		return nil, fmt.Errorf("request %d is %s, not pending: %w", requestID, status, ErrInvalidState)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE requests SET status = ?, approver = ?, comment = ?, approved_at = ?
		 WHERE id = ?`,
		model.RequestStatusRejected, approver, comment, time.Now().UTC(), requestID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating request: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing rejection: %w", err)
	}

	return GetRequest(ctx, db, requestID)
}

// ReturnRequest returns quantity units of an approved loan to stock. Partial
// returns shrink the outstanding amount and leave the request open; the
// request closes once everything is back.
func ReturnRequest(ctx context.Context, db *sql.DB, requestID int64, quantity int) (*model.Request, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("return quantity must be positive, got %d: %w", quantity, ErrInvalidArgument)
	}
	return returnUnits(ctx, db, requestID, quantity)
}

// ReturnRequestAll closes out a loan by returning everything outstanding.
// The outstanding amount is resolved inside the transaction, so the state
// check and the restore cannot race a concurrent partial return.
func ReturnRequestAll(ctx context.Context, db *sql.DB, requestID int64) (*model.Request, error) {
	return returnUnits(ctx, db, requestID, 0)
}

// returnUnits performs a return. A zero quantity means everything
// outstanding.
func returnUnits(ctx context.Context, db *sql.DB, requestID int64, quantity int) (*model.Request, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var status string
	var itemID int64
	var outstanding int
	err = tx.QueryRowContext(ctx,
		`SELECT status, item_id, quantity_outstanding FROM requests WHERE id = ?`, requestID,
	).Scan(&status, &itemID, &outstanding)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("request %d: %w", requestID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading request: %w", err)
	}

	if status != model.RequestStatusApproved && status != model.RequestStatusPartiallyReturned {
		return nil, fmt.Errorf("request %d is %s, nothing to return: %w", requestID, status, ErrInvalidState)
	}

	if quantity == 0 {
		quantity = outstanding
	}
	if quantity > outstanding {
		return nil, fmt.Errorf("returning %d but only %d outstanding: %w",
			quantity, outstanding, ErrInvalidArgument)
	}

	now := time.Now().UTC()

	_, err = tx.ExecContext(ctx,
		`UPDATE items SET in_stock = in_stock + ?, updated_at = ? WHERE id = ?`,
		quantity, now, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("restoring stock: %w", err)
	}

	newOutstanding := outstanding - quantity
	newStatus := model.RequestStatusPartiallyReturned
	if newOutstanding == 0 {
		newStatus = model.RequestStatusReturned
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE requests SET status = ?, quantity_outstanding = ?, returned_at = ?
		 WHERE id = ?`,
		newStatus, newOutstanding, now, requestID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating request: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing return: %w", err)
	}

	return GetRequest(ctx, db, requestID)
}

// BatchApprove approves each request independently and returns how many
// succeeded. Requests that are not pending or whose item lacks stock are
// skipped; the batch is not atomic as a whole.
func BatchApprove(ctx context.Context, db *sql.DB, requestIDs []int64, approver, comment string) int {
	processed := 0
	for _, id := range requestIDs {
		if _, err := ApproveRequest(ctx, db, id, approver, comment); err == nil {
			processed++
		}
	}
	return processed
}

// BatchReject rejects each request independently and returns how many
// succeeded.
func BatchReject(ctx context.Context, db *sql.DB, requestIDs []int64, approver, comment string) int {
	processed := 0
	for _, id := range requestIDs {
		if _, err := RejectRequest(ctx, db, id, approver, comment); err == nil {
			processed++
		}
	}
	return processed
}

// GetRequest returns a request by ID.
func GetRequest(ctx context.Context, db *sql.DB, id int64) (*model.Request, error) {
	r := &model.Request{}
	var approver, comment sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, username, item_id, item_name, item_category,
		        quantity_requested, quantity_outstanding, purpose, status,
		        created_at, approved_at, approver, comment, returned_at
		 FROM requests WHERE id = ?`, id,
	).Scan(&r.ID, &r.Username, &r.ItemID, &r.ItemName, &r.ItemCategory,
		&r.QuantityRequested, &r.QuantityOutstanding, &r.Purpose, &r.Status,
		&r.CreatedAt, &r.ApprovedAt, &approver, &comment, &r.ReturnedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting request: %w", err)
	}
	r.Approver = approver.String
	r.Comment = comment.String
	return r, nil
}

// ListRequests returns requests newest first, optionally filtered by
// username and/or status.
func ListRequests(ctx context.Context, db *sql.DB, username, status string) ([]model.Request, error) {
	query := `SELECT id, username, item_id, item_name, item_category,
	                 quantity_requested, quantity_outstanding, purpose, status,
	                 created_at, approved_at, approver, comment, returned_at
	          FROM requests WHERE 1=1`
	var args []any

	if username != "" {
		query += ` AND username = ?`
		args = append(args, username)
	}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}

	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing requests: %w", err)
	}
	defer rows.Close()

	var requests []model.Request
	for rows.Next() {
		var r model.Request
		var approver, comment sql.NullString
		if err := rows.Scan(&r.ID, &r.Username, &r.ItemID, &r.ItemName, &r.ItemCategory,
			&r.QuantityRequested, &r.QuantityOutstanding, &r.Purpose, &r.Status,
			&r.CreatedAt, &r.ApprovedAt, &approver, &comment, &r.ReturnedAt); err != nil {
			return nil, fmt.Errorf("scanning request: %w", err)
		}
		r.Approver = approver.String
		r.Comment = comment.String
		requests = append(requests, r)
	}
	return requests, rows.Err()
}
