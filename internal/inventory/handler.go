package inventory

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/qiaozhwen/shop-be/internal/platform/httpx"
	"github.com/qiaozhwen/shop-be/internal/shared"
)

// ScanQueue submits a low stock scan to the background worker.
type ScanQueue interface {
	EnqueueLowStockScan(ctx context.Context) error
}

// ScanQueueFunc adapts a function to the ScanQueue interface.
type ScanQueueFunc func(ctx context.Context) error

// EnqueueLowStockScan calls f.
func (f ScanQueueFunc) EnqueueLowStockScan(ctx context.Context) error { return f(ctx) }

// Handler exposes inventory endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	scanQueue ScanQueue
	validator *validator.Validate
}

// NewHandler constructs a Handler. scanQueue may be nil; on-demand scans
// then run inline instead of going through the worker.
func NewHandler(logger *slog.Logger, service *Service, scanQueue ScanQueue) *Handler {
	return &Handler{logger: logger, service: service, scanQueue: scanQueue, validator: validator.New()}
}

// MountRoutes registers inventory routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/inbound", h.handleInbound)
	r.Get("/inbound", h.handleListInbound)
	r.Post("/outbound", h.handleOutbound)
	r.Get("/outbound", h.handleListOutbound)
	r.Get("/alerts", h.handleAlerts)
	r.Post("/alerts/scan", h.handleAlertScan)
	r.Post("/alerts/{id}/handle", h.handleAlertHandled)
}

type inboundRequest struct {
	SupplierID  *int64  `json:"supplierId"`
	ProductID   int64   `json:"productId" validate:"required,gt=0"`
	Quantity    int     `json:"quantity" validate:"required,gt=0"`
	Weight      float64 `json:"weight" validate:"omitempty,gte=0"`
	UnitPrice   float64 `json:"unitPrice" validate:"omitempty,gte=0"`
	TotalAmount float64 `json:"totalAmount" validate:"omitempty,gte=0"`
	BatchNo     string  `json:"batchNo" validate:"omitempty,max=50"`
	Type        string  `json:"type" validate:"omitempty,oneof=purchase return adjust other"`
	Remark      string  `json:"remark" validate:"omitempty,max=500"`
}

type outboundRequest struct {
	Type      string  `json:"type" validate:"omitempty,oneof=sale damage adjust other"`
	OrderID   *int64  `json:"orderId"`
	ProductID int64   `json:"productId" validate:"required,gt=0"`
	Quantity  int     `json:"quantity" validate:"required,gt=0"`
	Weight    float64 `json:"weight" validate:"omitempty,gte=0"`
	Reason    string  `json:"reason" validate:"omitempty,max=500"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		Keyword:  r.URL.Query().Get("keyword"),
		LowStock: r.URL.Query().Get("lowStock") == "1",
		Page:     shared.ParsePage(r),
	}

	list, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("list inventory", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if list == nil {
		list = []Item{}
	}
	httpx.JSON(w, http.StatusOK, httpx.ListResponse{
		List:     list,
		Total:    total,
		Page:     filter.Page.Page,
		PageSize: filter.Page.PageSize,
	})
}

func (h *Handler) handleInbound(w http.ResponseWriter, r *http.Request) {
	var req inboundRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	rec, err := h.service.PostInbound(r.Context(), InboundRecord{
		SupplierID:  req.SupplierID,
		ProductID:   req.ProductID,
		Quantity:    req.Quantity,
		Weight:      req.Weight,
		UnitPrice:   req.UnitPrice,
		TotalAmount: req.TotalAmount,
		BatchNo:     req.BatchNo,
		Type:        req.Type,
		Remark:      req.Remark,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, rec)
}

func (h *Handler) handleOutbound(w http.ResponseWriter, r *http.Request) {
	var req outboundRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	rec, err := h.service.PostOutbound(r.Context(), OutboundRecord{
		Type:      req.Type,
		OrderID:   req.OrderID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Weight:    req.Weight,
		Reason:    req.Reason,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, rec)
}

func (h *Handler) recordFilter(r *http.Request) RecordFilter {
	filter := RecordFilter{
		Type: r.URL.Query().Get("type"),
		Page: shared.ParsePage(r),
	}
	if raw := r.URL.Query().Get("productId"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filter.ProductID = &v
		}
	}
	return filter
}

func (h *Handler) handleListInbound(w http.ResponseWriter, r *http.Request) {
	filter := h.recordFilter(r)
	list, total, err := h.service.ListInbound(r.Context(), filter)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if list == nil {
		list = []InboundRecord{}
	}
	httpx.JSON(w, http.StatusOK, httpx.ListResponse{
		List:     list,
		Total:    total,
		Page:     filter.Page.Page,
		PageSize: filter.Page.PageSize,
	})
}

func (h *Handler) handleListOutbound(w http.ResponseWriter, r *http.Request) {
	filter := h.recordFilter(r)
	list, total, err := h.service.ListOutbound(r.Context(), filter)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if list == nil {
		list = []OutboundRecord{}
	}
	httpx.JSON(w, http.StatusOK, httpx.ListResponse{
		List:     list,
		Total:    total,
		Page:     filter.Page.Page,
		PageSize: filter.Page.PageSize,
	})
}

func (h *Handler) handleAlerts(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePage(r)
	var handled *int16
	if raw := r.URL.Query().Get("handled"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 16); err == nil {
			parsed := int16(v)
			handled = &parsed
		}
	}

	list, total, err := h.service.Alerts(r.Context(), handled, page)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if list == nil {
		list = []Alert{}
	}
	httpx.JSON(w, http.StatusOK, httpx.ListResponse{
		List:     list,
		Total:    total,
		Page:     page.Page,
		PageSize: page.PageSize,
	})
}

func (h *Handler) handleAlertScan(w http.ResponseWriter, r *http.Request) {
	if h.scanQueue != nil {
		if err := h.scanQueue.EnqueueLowStockScan(r.Context()); err != nil {
			h.logger.Error("enqueue low stock scan", slog.Any("error", err))
			httpx.Problem(w, http.StatusServiceUnavailable, "Queue Unavailable", "could not enqueue scan")
			return
		}
		httpx.JSON(w, http.StatusAccepted, map[string]any{"queued": true})
		return
	}

	created, err := h.service.ScanLowStock(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"queued": false, "alertsCreated": created})
}

func (h *Handler) handleAlertHandled(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParamInt64(r, "id")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return
	}
	if err := h.service.HandleAlert(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "handled"})
}
