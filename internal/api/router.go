package api

import (
	"database/sql"
	"net/http"

	"github.com/adamwonghui/Warehouse-Management-System/internal/model"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	usersHandler := &UsersHandler{DB: db}
	itemsHandler := &ItemsHandler{DB: db}
	categoriesHandler := &CategoriesHandler{DB: db}
	requestsHandler := &RequestsHandler{DB: db}
	adminHandler := &AdminHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)
	requireAdmin := RequireRole(model.RoleAdmin)

	// Public: health check, login, self-registration.
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		code := http.StatusOK
		if err := db.PingContext(r.Context()); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		jsonResponse(w, code, map[string]string{"status": status})
	})
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)

	// Authenticated routes.
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Own profile (any authenticated user). The literal segment takes
	// precedence over the {id} wildcard below.
	mux.Handle("GET /api/users/profile", authMW(http.HandlerFunc(usersHandler.GetProfile)))
	mux.Handle("PUT /api/users/profile", authMW(http.HandlerFunc(usersHandler.UpdateProfile)))

	// Users (admin only).
	mux.Handle("GET /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.List))))
	mux.Handle("POST /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.Create))))
	mux.Handle("GET /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Get))))
	mux.Handle("PUT /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Update))))
	mux.Handle("PUT /api/users/{id}/password", authMW(requireAdmin(http.HandlerFunc(usersHandler.ResetPassword))))
	mux.Handle("DELETE /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Delete))))

	// Items: read (all roles), write (admin).
	mux.Handle("GET /api/items", authMW(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("POST /api/items", authMW(requireAdmin(http.HandlerFunc(itemsHandler.Create))))
	mux.Handle("POST /api/items/batch", authMW(requireAdmin(http.HandlerFunc(itemsHandler.BatchCreate))))
	mux.Handle("GET /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Get)))
	mux.Handle("PUT /api/items/{id}", authMW(requireAdmin(http.HandlerFunc(itemsHandler.Update))))
	mux.Handle("DELETE /api/items/{id}", authMW(requireAdmin(http.HandlerFunc(itemsHandler.Delete))))
	mux.Handle("PUT /api/items/{id}/image", authMW(requireAdmin(http.HandlerFunc(itemsHandler.UploadImage))))
	mux.Handle("GET /api/items/{id}/image", authMW(http.HandlerFunc(itemsHandler.GetImage)))

	// Categories: read (all roles), write (admin).
	mux.Handle("GET /api/categories", authMW(http.HandlerFunc(categoriesHandler.List)))
	mux.Handle("POST /api/categories", authMW(requireAdmin(http.HandlerFunc(categoriesHandler.Create))))
	mux.Handle("PUT /api/categories/{id}", authMW(requireAdmin(http.HandlerFunc(categoriesHandler.Update))))
	mux.Handle("DELETE /api/categories/{id}", authMW(requireAdmin(http.HandlerFunc(categoriesHandler.Delete))))

	// Requests: submit and read (all roles), decisions and returns (admin).
	mux.Handle("GET /api/requests", authMW(http.HandlerFunc(requestsHandler.List)))
	mux.Handle("POST /api/requests", authMW(http.HandlerFunc(requestsHandler.Submit)))
	mux.Handle("GET /api/requests/{id}", authMW(http.HandlerFunc(requestsHandler.Get)))
	mux.Handle("PUT /api/requests/{id}/approve", authMW(requireAdmin(http.HandlerFunc(requestsHandler.Approve))))
	mux.Handle("PUT /api/requests/{id}/reject", authMW(requireAdmin(http.HandlerFunc(requestsHandler.Reject))))
	mux.Handle("PUT /api/requests/{id}/return", authMW(requireAdmin(http.HandlerFunc(requestsHandler.Return))))

	// Admin tools.
	mux.Handle("GET /api/admin/statistics", authMW(requireAdmin(http.HandlerFunc(adminHandler.Statistics))))
	mux.Handle("POST /api/admin/requests/batch", authMW(requireAdmin(http.HandlerFunc(adminHandler.BatchProcess))))
	mux.Handle("POST /api/admin/items/batch-delete", authMW(requireAdmin(http.HandlerFunc(adminHandler.BatchDeleteItems))))
	mux.Handle("POST /api/admin/items/batch-update", authMW(requireAdmin(http.HandlerFunc(adminHandler.BatchUpdateItems))))
	mux.Handle("GET /api/admin/export", authMW(requireAdmin(http.HandlerFunc(adminHandler.Export))))

	return mux
}
