package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"golang.org/x/crypto/bcrypt"

	"github.com/adamwonghui/Warehouse-Management-System/internal/model"
	"github.com/adamwonghui/Warehouse-Management-System/internal/store"
)

// UsersHandler handles admin-only user management endpoints.
type UsersHandler struct {
	DB *sql.DB
}

type createUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type updateUserRequest struct {
	Role       *string `json:"role"`
	Department *string `json:"department"`
	Phone      *string `json:"phone"`
	Email      *string `json:"email"`
	IsActive   *bool   `json:"is_active"`
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

type updateProfileRequest struct {
	Department *string `json:"department"`
	Phone      *string `json:"phone"`
	Email      *string `json:"email"`
}

// GetProfile handles GET /api/users/profile, returning the caller's own
// account.
func (h *UsersHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	user, err := store.GetUser(r.Context(), h.DB, claims.UserID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get profile")
		return
	}
	if user == nil {
		jsonError(w, http.StatusNotFound, "account no longer exists")
		return
	}

	jsonResponse(w, http.StatusOK, user)
}

// UpdateProfile handles PUT /api/users/profile. Callers edit only their own
// contact fields; role and active status stay admin-only.
func (h *UsersHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := store.UpdateUserProfile(r.Context(), h.DB, claims.UserID, req.Department, req.Phone, req.Email); err != nil {
		storeError(w, err, "failed to update profile")
		return
	}

	user, err := store.GetUser(r.Context(), h.DB, claims.UserID)
	if err != nil || user == nil {
		jsonError(w, http.StatusInternalServerError, "failed to get profile")
		return
	}

	slog.Info("user updated own profile", "user", claims.Username)
	jsonResponse(w, http.StatusOK, user)
}

// List handles GET /api/users.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := store.ListUsers(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	if users == nil {
		users = []model.User{}
	}
	jsonResponse(w, http.StatusOK, users)
}

// Create handles POST /api/users.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Username == "" {
		jsonError(w, http.StatusBadRequest, "username required")
		return
	}
	if err := model.ValidatePassword(req.Password); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	role := req.Role
	if role == "" {
		role = model.RoleUser
	}
	if role != model.RoleAdmin && role != model.RoleUser {
		jsonError(w, http.StatusBadRequest, "invalid role")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	user, err := store.CreateUser(r.Context(), h.DB, req.Username, string(hash), role)
	if err != nil {
		storeError(w, err, "failed to create user")
		return
	}

	slog.Info("user created", "user", user.Username, "role", user.Role)
	jsonResponse(w, http.StatusCreated, user)
}

// Get handles GET /api/users/{id}.
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := store.GetUser(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get user")
		return
	}
	if user == nil {
		jsonError(w, http.StatusNotFound, "user not found")
		return
	}

	jsonResponse(w, http.StatusOK, user)
}

// Update handles PUT /api/users/{id}. Admins cannot demote or deactivate
// their own account.
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if id == claims.UserID {
		if req.Role != nil && *req.Role != claims.Role {
			jsonError(w, http.StatusBadRequest, "cannot change own role")
			return
		}
		if req.IsActive != nil && !*req.IsActive {
			jsonError(w, http.StatusBadRequest, "cannot deactivate own account")
			return
		}
	}

	if req.Role != nil {
		if *req.Role != model.RoleAdmin && *req.Role != model.RoleUser {
			jsonError(w, http.StatusBadRequest, "invalid role")
			return
		}
		if err := store.UpdateUserRole(r.Context(), h.DB, id, *req.Role); err != nil {
			storeError(w, err, "failed to update role")
			return
		}
	}

	if req.Department != nil || req.Phone != nil || req.Email != nil {
		if err := store.UpdateUserProfile(r.Context(), h.DB, id, req.Department, req.Phone, req.Email); err != nil {
			storeError(w, err, "failed to update profile")
			return
		}
	}

	if req.IsActive != nil {
		if err := store.SetUserActive(r.Context(), h.DB, id, *req.IsActive); err != nil {
			storeError(w, err, "failed to update account status")
			return
		}
	}

	user, err := store.GetUser(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get user")
		return
	}
	if user == nil {
		jsonError(w, http.StatusNotFound, "user not found")
		return
	}

	slog.Info("user updated", "user", user.Username, "by", claims.Username)
	jsonResponse(w, http.StatusOK, user)
}

// ResetPassword handles PUT /api/users/{id}/password.
func (h *UsersHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := model.ValidatePassword(req.Password); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	if err := store.UpdateUserPassword(r.Context(), h.DB, id, string(hash)); err != nil {
		storeError(w, err, "failed to reset password")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "password reset"})
}

// Delete handles DELETE /api/users/{id}.
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if id == claims.UserID {
		jsonError(w, http.StatusBadRequest, "cannot delete own account")
		return
	}

	if err := store.DeleteUser(r.Context(), h.DB, id); err != nil {
		storeError(w, err, "failed to delete user")
		return
	}

	slog.Info("user deleted", "id", id, "by", claims.Username)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "user deleted"})
}
