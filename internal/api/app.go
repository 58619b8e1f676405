package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/SigNoz/ecommerce-rest-api/internal/metrics"
	"github.com/SigNoz/ecommerce-rest-api/internal/middleware"
	"github.com/SigNoz/ecommerce-rest-api/internal/services"
)

// Route names used to build Location headers
const (
	routeUser     = "user"
	routeCategory = "category"
)

// App holds application dependencies
type App struct {
	metrics         *metrics.AppMetrics
	userService     *services.UserService
	orderService    *services.OrderService
	productService  *services.ProductService
	categoryService *services.CategoryService
	router          *mux.Router
}

// NewApp creates a new application instance
func NewApp(
	m *metrics.AppMetrics,
	us *services.UserService,
	os *services.OrderService,
	ps *services.ProductService,
	cs *services.CategoryService,
) *App {
	return &App{
		metrics:         m,
		userService:     us,
		orderService:    os,
		productService:  ps,
		categoryService: cs,
	}
}

// SetupRoutes configures the HTTP routes
func (a *App) SetupRoutes(r *mux.Router) {
	a.router = r

	// Middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.CORSMiddleware)
	r.Use(middleware.ErrorHandlerMiddleware)
	r.Use(middleware.MetricsMiddleware(a.metrics))

	// mux skips router middleware when no route matches. Preflight requests
	// land on the 405 handler, so CORS wraps it and answers OPTIONS there.
	r.NotFoundHandler = middleware.RequestIDMiddleware(http.HandlerFunc(a.notFoundHandler))
	r.MethodNotAllowedHandler = middleware.RequestIDMiddleware(
		middleware.CORSMiddleware(http.HandlerFunc(a.methodNotAllowedHandler)))

	// Users
	r.HandleFunc("/users", a.ListUsersHandler).Methods(http.MethodGet)
	r.HandleFunc("/users", a.CreateUserHandler).Methods(http.MethodPost)
	r.HandleFunc("/users/{id}", a.GetUserHandler).Methods(http.MethodGet).Name(routeUser)
	r.HandleFunc("/users/{id}", a.UpdateUserHandler).Methods(http.MethodPut)
	r.HandleFunc("/users/{id}", a.DeleteUserHandler).Methods(http.MethodDelete)

	// Orders
	r.HandleFunc("/orders", a.ListOrdersHandler).Methods(http.MethodGet)
	r.HandleFunc("/orders/{id}", a.GetOrderHandler).Methods(http.MethodGet)

	// Products
	r.HandleFunc("/products", a.ListProductsHandler).Methods(http.MethodGet)
	r.HandleFunc("/products/{id}", a.GetProductHandler).Methods(http.MethodGet)

	// Categories
	r.HandleFunc("/categories", a.ListCategoriesHandler).Methods(http.MethodGet)
	r.HandleFunc("/categories", a.CreateCategoryHandler).Methods(http.MethodPost)
	r.HandleFunc("/categories/{id}", a.GetCategoryHandler).Methods(http.MethodGet).Name(routeCategory)
	r.HandleFunc("/categories/{id}", a.DeleteCategoryHandler).Methods(http.MethodDelete)

	// Health
	r.HandleFunc("/health", a.HealthHandler).Methods(http.MethodGet)
}

// HealthHandler handles health check requests
func (a *App) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
