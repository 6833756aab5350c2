package dashboard

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/qiaozhwen/shop-be/internal/platform/httpx"
)

// Handler exposes dashboard endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers dashboard routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/overview", h.handleOverview)
	r.Get("/sales-trend", h.handleSalesTrend)
	r.Get("/top-products", h.handleTopProducts)
	r.Get("/category-sales", h.handleCategorySales)
	r.Get("/recent-orders", h.handleRecentOrders)
	r.Get("/low-stock", h.handleLowStock)
}

func (h *Handler) handleOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.Overview(r.Context())
	if err != nil {
		h.logger.Error("dashboard overview", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, overview)
}

func (h *Handler) handleSalesTrend(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	points, err := h.service.SalesTrend(r.Context(), days)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if points == nil {
		points = []TrendPoint{}
	}
	httpx.JSON(w, http.StatusOK, points)
}

func (h *Handler) handleTopProducts(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := h.service.TopProducts(r.Context(), limit)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if list == nil {
		list = []TopProduct{}
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) handleCategorySales(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.CategorySales(r.Context(), r.URL.Query().Get("startDate"), r.URL.Query().Get("endDate"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if list == nil {
		list = []CategorySales{}
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) handleRecentOrders(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := h.service.RecentOrders(r.Context(), limit)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if list == nil {
		list = []RecentOrder{}
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) handleLowStock(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := h.service.LowStock(r.Context(), limit)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if list == nil {
		list = []LowStockItem{}
	}
	httpx.JSON(w, http.StatusOK, list)
}
