package api

import (
	"database/sql"
	"fmt"
	"net/http"
	"strconv"

	"github.com/adamwonghui/Warehouse-Management-System/internal/imaging"
	"github.com/adamwonghui/Warehouse-Management-System/internal/model"
	"github.com/adamwonghui/Warehouse-Management-System/internal/store"
)

// ItemsHandler handles item CRUD endpoints.
type ItemsHandler struct {
	DB *sql.DB
}

type createItemRequest struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Total       int    `json:"total"`
	InStock     int    `json:"in_stock"`
}

type updateItemRequest struct {
	Name        *string `json:"name"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
	Total       *int    `json:"total"`
	InStock     *int    `json:"in_stock"`
}

type batchCreateItemsRequest struct {
	Items []createItemRequest `json:"items"`
}

// List handles GET /api/items with optional keyword, category, and status
// query filters.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := store.ListItems(r.Context(), h.DB, q.Get("keyword"), q.Get("category"), q.Get("status"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := store.CreateItem(r.Context(), h.DB, req.Name, req.Category, req.Description, req.Total, req.InStock)
	if err != nil {
		storeError(w, err, "failed to create item")
		return
	}

	jsonResponse(w, http.StatusCreated, item)
}

// BatchCreate handles POST /api/items/batch. Rows are validated and added
// independently; the response reports the added count and per-row errors.
func (h *ItemsHandler) BatchCreate(w http.ResponseWriter, r *http.Request) {
	var req batchCreateItemsRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Items) == 0 {
		jsonError(w, http.StatusBadRequest, "no items provided")
		return
	}

	added := 0
	var rowErrors []string
	for i, row := range req.Items {
		_, err := store.CreateItem(r.Context(), h.DB, row.Name, row.Category, row.Description, row.Total, row.InStock)
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("item %d: %v", i+1, err))
			continue
		}
		added++
	}
	if rowErrors == nil {
		rowErrors = []string{}
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"added_count": added,
		"total_items": len(req.Items),
		"errors":      rowErrors,
	})
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	jsonResponse(w, http.StatusOK, item)
}

// Update handles PUT /api/items/{id}. Absent fields are left untouched.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req updateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := store.UpdateItem(r.Context(), h.DB, id, store.UpdateItemParams{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Total:       req.Total,
		InStock:     req.InStock,
	})
	if err != nil {
		storeError(w, err, "failed to update item")
		return
	}

	jsonResponse(w, http.StatusOK, item)
}

// Delete handles DELETE /api/items/{id}. Refused while the item has units
// out on loan.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := store.DeleteItem(r.Context(), h.DB, id); err != nil {
		storeError(w, err, "failed to delete item")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// UploadImage handles PUT /api/items/{id}/image.
func (h *ItemsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	// Limit to 5 MB.
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)

	if err := r.ParseMultipartForm(5 << 20); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	data, mime, err := imaging.Process(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.SetItemImage(r.Context(), h.DB, id, data, mime); err != nil {
		storeError(w, err, "failed to save image")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "image uploaded"})
}

// GetImage handles GET /api/items/{id}/image.
func (h *ItemsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	data, mime, err := store.GetItemImage(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get image")
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no image")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}
