package api

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/adamwonghui/Warehouse-Management-System/internal/model"
	"github.com/adamwonghui/Warehouse-Management-System/internal/store"
)

// AdminHandler handles statistics, batch processing, and data export.
type AdminHandler struct {
	DB *sql.DB
}

type batchProcessRequest struct {
	RequestIDs []int64 `json:"request_ids"`
	Action     string  `json:"action"`
	Comment    string  `json:"comment"`
}

type batchDeleteItemsRequest struct {
	ItemIDs []int64 `json:"item_ids"`
}

type batchUpdateItemsRequest struct {
	ItemIDs []int64           `json:"item_ids"`
	Updates updateItemRequest `json:"updates"`
}

// Statistics handles GET /api/admin/statistics.
func (h *AdminHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := store.GetStatistics(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to compute statistics")
		return
	}
	jsonResponse(w, http.StatusOK, stats)
}

// BatchProcess handles POST /api/admin/requests/batch. Each id is processed
// independently; ids that are missing or not pending are skipped.
func (h *AdminHandler) BatchProcess(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req batchProcessRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.RequestIDs) == 0 {
		jsonError(w, http.StatusBadRequest, "no request ids provided")
		return
	}

	var processed int
	switch req.Action {
	case "approve":
		processed = store.BatchApprove(r.Context(), h.DB, req.RequestIDs, claims.Username, req.Comment)
	case "reject":
		processed = store.BatchReject(r.Context(), h.DB, req.RequestIDs, claims.Username, req.Comment)
	default:
		jsonError(w, http.StatusBadRequest, "action must be approve or reject")
		return
	}

	slog.Info("batch processed requests",
		"action", req.Action, "processed", processed,
		"total", len(req.RequestIDs), "approver", claims.Username)
	jsonResponse(w, http.StatusOK, map[string]int{
		"processed_count": processed,
		"total_requests":  len(req.RequestIDs),
	})
}

// BatchDeleteItems handles POST /api/admin/items/batch-delete. Items with
// units still on loan are skipped.
func (h *AdminHandler) BatchDeleteItems(w http.ResponseWriter, r *http.Request) {
	var req batchDeleteItemsRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.ItemIDs) == 0 {
		jsonError(w, http.StatusBadRequest, "no item ids provided")
		return
	}

	deleted := 0
	for _, id := range req.ItemIDs {
		if err := store.DeleteItem(r.Context(), h.DB, id); err != nil {
			continue
		}
		deleted++
	}

	slog.Info("batch deleted items", "deleted", deleted, "total", len(req.ItemIDs))
	jsonResponse(w, http.StatusOK, map[string]int{
		"deleted_count": deleted,
		"total_items":   len(req.ItemIDs),
	})
}

// BatchUpdateItems handles POST /api/admin/items/batch-update, applying the
// same partial update to every listed item. Items that fail validation are
// skipped.
func (h *AdminHandler) BatchUpdateItems(w http.ResponseWriter, r *http.Request) {
	var req batchUpdateItemsRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.ItemIDs) == 0 {
		jsonError(w, http.StatusBadRequest, "no item ids provided")
		return
	}

	params := store.UpdateItemParams{
		Name:        req.Updates.Name,
		Category:    req.Updates.Category,
		Description: req.Updates.Description,
		Total:       req.Updates.Total,
		InStock:     req.Updates.InStock,
	}

	updated := 0
	for _, id := range req.ItemIDs {
		if _, err := store.UpdateItem(r.Context(), h.DB, id, params); err != nil {
			continue
		}
		updated++
	}

	slog.Info("batch updated items", "updated", updated, "total", len(req.ItemIDs))
	jsonResponse(w, http.StatusOK, map[string]int{
		"updated_count": updated,
		"total_items":   len(req.ItemIDs),
	})
}

// Export handles GET /api/admin/export?type=all|items|requests|categories,
// returning a JSON snapshot as a file download. Selected sections are always
// present, as empty arrays when the tables are empty.
func (h *AdminHandler) Export(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("type")
	if kind == "" {
		kind = "all"
	}
	switch kind {
	case "all", "items", "requests", "categories":
	default:
		jsonError(w, http.StatusBadRequest, "type must be all, items, requests, or categories")
		return
	}

	now := time.Now().UTC()
	payload := map[string]any{"exported_at": now}

	if kind == "all" || kind == "items" {
		items, err := store.ListItems(r.Context(), h.DB, "", "", "")
		if err != nil {
			jsonError(w, http.StatusInternalServerError, "failed to export items")
			return
		}
		if items == nil {
			items = []model.Item{}
		}
		payload["items"] = items
	}
	if kind == "all" || kind == "requests" {
		requests, err := store.ListRequests(r.Context(), h.DB, "", "")
		if err != nil {
			jsonError(w, http.StatusInternalServerError, "failed to export requests")
			return
		}
		if requests == nil {
			requests = []model.Request{}
		}
		payload["requests"] = requests
	}
	if kind == "all" || kind == "categories" {
		categories, err := store.ListCategories(r.Context(), h.DB)
		if err != nil {
			jsonError(w, http.StatusInternalServerError, "failed to export categories")
			return
		}
		if categories == nil {
			categories = []model.Category{}
		}
		payload["categories"] = categories
	}

	filename := fmt.Sprintf("warehouse-export-%s-%s.json", kind, now.Format("2006-01-02"))
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	jsonResponse(w, http.StatusOK, payload)
}
