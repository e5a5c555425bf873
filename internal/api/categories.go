package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/adamwonghui/Warehouse-Management-System/internal/model"
	"github.com/adamwonghui/Warehouse-Management-System/internal/store"
)

// CategoriesHandler handles category CRUD endpoints.
type CategoriesHandler struct {
	DB *sql.DB
}

type createCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type updateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// List handles GET /api/categories.
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := store.ListCategories(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}
	if categories == nil {
		categories = []model.Category{}
	}
	jsonResponse(w, http.StatusOK, categories)
}

// Create handles POST /api/categories.
func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category, err := store.CreateCategory(r.Context(), h.DB, req.Name, req.Description)
	if err != nil {
		storeError(w, err, "failed to create category")
		return
	}

	jsonResponse(w, http.StatusCreated, category)
}

// Update handles PUT /api/categories/{id}. Renames cascade to items.
func (h *CategoriesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	var req updateCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category, err := store.UpdateCategory(r.Context(), h.DB, id, req.Name, req.Description)
	if err != nil {
		storeError(w, err, "failed to update category")
		return
	}

	jsonResponse(w, http.StatusOK, category)
}

// Delete handles DELETE /api/categories/{id}.
func (h *CategoriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	if err := store.DeleteCategory(r.Context(), h.DB, id); err != nil {
		storeError(w, err, "failed to delete category")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "category deleted"})
}
