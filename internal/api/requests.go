package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/adamwonghui/Warehouse-Management-System/internal/model"
	"github.com/adamwonghui/Warehouse-Management-System/internal/store"
)

// RequestsHandler handles the borrow-request lifecycle endpoints.
type RequestsHandler struct {
	DB *sql.DB
}

type submitRequestBody struct {
	ItemID   int64  `json:"item_id"`
	Quantity int    `json:"quantity"`
	Purpose  string `json:"purpose"`
}

type decisionBody struct {
	Comment string `json:"comment"`
}

type returnBody struct {
	Quantity int `json:"quantity"`
}

// List handles GET /api/requests with optional username and status filters.
// Non-admin callers only ever see their own requests.
func (h *RequestsHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	q := r.URL.Query()
	username := q.Get("username")
	status := q.Get("status")

	if status != "" && !model.ValidRequestStatus(status) {
		jsonError(w, http.StatusBadRequest, "invalid status filter")
		return
	}

	if claims != nil && !model.RoleAtLeast(claims.Role, model.RoleAdmin) {
		username = claims.Username
	}

	requests, err := store.ListRequests(r.Context(), h.DB, username, status)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list requests")
		return
	}
	if requests == nil {
		requests = []model.Request{}
	}
	jsonResponse(w, http.StatusOK, requests)
}

// Get handles GET /api/requests/{id}.
func (h *RequestsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	request, err := store.GetRequest(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get request")
		return
	}
	if request == nil {
		jsonError(w, http.StatusNotFound, "request not found")
		return
	}

	claims := GetClaims(r.Context())
	if claims != nil && !model.RoleAtLeast(claims.Role, model.RoleAdmin) && request.Username != claims.Username {
		jsonError(w, http.StatusForbidden, "not your request")
		return
	}

	jsonResponse(w, http.StatusOK, request)
}

// Submit handles POST /api/requests. The requester identity comes from the
// authenticated session, never the body.
func (h *RequestsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var body submitRequestBody
	if err := decodeJSON(r, &body); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	request, err := store.SubmitRequest(r.Context(), h.DB, claims.Username, body.ItemID, body.Quantity, body.Purpose)
	if err != nil {
		storeError(w, err, "failed to submit request")
		return
	}

	slog.Info("request submitted",
		"request", request.ID, "user", request.Username,
		"item", request.ItemName, "quantity", request.QuantityRequested)
	jsonResponse(w, http.StatusCreated, request)
}

// Approve handles PUT /api/requests/{id}/approve.
func (h *RequestsHandler) Approve(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	var body decisionBody
	if err := decodeJSON(r, &body); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	request, err := store.ApproveRequest(r.Context(), h.DB, id, claims.Username, body.Comment)
	if err != nil {
		storeError(w, err, "failed to approve request")
		return
	}

	slog.Info("request approved", "request", id, "approver", claims.Username)
	jsonResponse(w, http.StatusOK, request)
}

// Reject handles PUT /api/requests/{id}/reject.
func (h *RequestsHandler) Reject(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	var body decisionBody
	if err := decodeJSON(r, &body); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	request, err := store.RejectRequest(r.Context(), h.DB, id, claims.Username, body.Comment)
	if err != nil {
		storeError(w, err, "failed to reject request")
		return
	}

	slog.Info("request rejected", "request", id, "approver", claims.Username)
	jsonResponse(w, http.StatusOK, request)
}

// Return handles PUT /api/requests/{id}/return. A missing or zero quantity
// means "return everything outstanding".
func (h *RequestsHandler) Return(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	var body returnBody
	if err := decodeJSON(r, &body); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var request *model.Request
	if body.Quantity == 0 {
		request, err = store.ReturnRequestAll(r.Context(), h.DB, id)
	} else {
		request, err = store.ReturnRequest(r.Context(), h.DB, id, body.Quantity)
	}
	if err != nil {
		storeError(w, err, "failed to return items")
		return
	}

	slog.Info("items returned",
		"request", id, "returned", request.ReturnedQuantity(), "status", request.Status)
	jsonResponse(w, http.StatusOK, request)
}
