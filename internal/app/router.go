package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/qiaozhwen/shop-be/internal/auth"
	"github.com/qiaozhwen/shop-be/internal/customers"
	"github.com/qiaozhwen/shop-be/internal/dashboard"
	"github.com/qiaozhwen/shop-be/internal/finance"
	"github.com/qiaozhwen/shop-be/internal/inventory"
	"github.com/qiaozhwen/shop-be/internal/masterdata/categories"
	"github.com/qiaozhwen/shop-be/internal/masterdata/products"
	"github.com/qiaozhwen/shop-be/internal/masterdata/suppliers"
	"github.com/qiaozhwen/shop-be/internal/observability"
	"github.com/qiaozhwen/shop-be/internal/orders"
	"github.com/qiaozhwen/shop-be/internal/procurement"
	"github.com/qiaozhwen/shop-be/internal/staff"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	AuthHandler        *auth.Handler
	AuthMiddleware     func(http.Handler) http.Handler
	StaffHandler       *staff.Handler
	CategoryHandler    *categories.Handler
	ProductHandler     *products.Handler
	SupplierHandler    *suppliers.Handler
	CustomerHandler    *customers.Handler
	DashboardHandler   *dashboard.Handler
	InventoryHandler   *inventory.Handler
	OrderHandler       *orders.Handler
	ProcurementHandler *procurement.Handler
	FinanceHandler     *finance.Handler
	Metrics            *observability.Metrics
}

// NewRouter constructs the chi.Router with the shop defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}
	if params.Metrics != nil {
		r.Use(params.Metrics.Middleware)
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api", func(api chi.Router) {
		api.Route("/auth", params.AuthHandler.MountRoutes)

		api.Group(func(priv chi.Router) {
			priv.Use(params.AuthMiddleware)
			priv.Route("/staff", params.StaffHandler.MountRoutes)
			priv.Route("/categories", params.CategoryHandler.MountRoutes)
			priv.Route("/products", params.ProductHandler.MountRoutes)
			priv.Route("/suppliers", params.SupplierHandler.MountRoutes)
			priv.Route("/customers", params.CustomerHandler.MountRoutes)
			priv.Route("/inventory", params.InventoryHandler.MountRoutes)
			priv.Route("/orders", params.OrderHandler.MountRoutes)
			priv.Route("/purchases", params.ProcurementHandler.MountRoutes)
			priv.Route("/finance", params.FinanceHandler.MountRoutes)
			priv.Route("/dashboard", params.DashboardHandler.MountRoutes)
		})
	})

	return r
}
