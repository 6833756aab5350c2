package procurement

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/qiaozhwen/shop-be/internal/platform/httpx"
	"github.com/qiaozhwen/shop-be/internal/shared"
)

// Handler exposes procurement endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers procurement routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Get("/statistics", h.handleStatistics)
	r.Get("/{id}", h.handleGet)
	r.Post("/{id}/confirm", h.handleConfirm)
	r.Post("/{id}/receive", h.handleReceive)
	r.Post("/{id}/cancel", h.handleCancel)
	r.Post("/{id}/pay", h.handlePay)
}

type purchaseLineRequest struct {
	ProductID int64   `json:"productId" validate:"required,gt=0"`
	Quantity  int     `json:"quantity" validate:"required,gt=0"`
	Weight    float64 `json:"weight" validate:"omitempty,gte=0"`
	UnitPrice float64 `json:"unitPrice" validate:"gte=0"`
}

type createPurchaseRequest struct {
	SupplierID int64                 `json:"supplierId" validate:"required,gt=0"`
	ExpectedAt string                `json:"expectedAt" validate:"omitempty,datetime=2006-01-02"`
	Remark     string                `json:"remark" validate:"omitempty,max=500"`
	Items      []purchaseLineRequest `json:"items" validate:"required,min=1,dive"`
}

type payPurchaseRequest struct {
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	PaymentMethod string  `json:"paymentMethod" validate:"omitempty,oneof=cash wechat alipay card transfer"`
	Remark        string  `json:"remark" validate:"omitempty,max=500"`
}

type purchaseDetail struct {
	PurchaseOrder
	Items []Item `json:"items"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		Status:        r.URL.Query().Get("status"),
		PaymentStatus: r.URL.Query().Get("paymentStatus"),
		Page:          shared.ParsePage(r),
	}
	if raw := r.URL.Query().Get("supplierId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid supplierId")
			return
		}
		filter.SupplierID = &id
	}

	list, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("list purchase orders", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if list == nil {
		list = []PurchaseOrder{}
	}
	httpx.JSON(w, http.StatusOK, httpx.ListResponse{
		List:     list,
		Total:    total,
		Page:     filter.Page.Page,
		PageSize: filter.Page.PageSize,
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParamInt64(r, "id")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return
	}
	purchase, items, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if items == nil {
		items = []Item{}
	}
	httpx.JSON(w, http.StatusOK, purchaseDetail{PurchaseOrder: *purchase, Items: items})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createPurchaseRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	input := CreateInput{
		SupplierID: req.SupplierID,
		Remark:     req.Remark,
		OperatorID: shared.OperatorID(r.Context()),
	}
	if req.ExpectedAt != "" {
		expected, err := time.Parse("2006-01-02", req.ExpectedAt)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid expectedAt")
			return
		}
		input.ExpectedAt = &expected
	}
	for _, line := range req.Items {
		input.Items = append(input.Items, LineInput{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Weight:    line.Weight,
			UnitPrice: line.UnitPrice,
		})
	}

	created, err := h.service.Create(r.Context(), input)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) handleConfirm(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParamInt64(r, "id")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return
	}
	purchase, err := h.service.Confirm(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, purchase)
}

func (h *Handler) handleReceive(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParamInt64(r, "id")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return
	}
	purchase, err := h.service.Receive(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, purchase)
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParamInt64(r, "id")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return
	}
	if err := h.service.Cancel(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func (h *Handler) handlePay(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParamInt64(r, "id")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return
	}
	var req payPurchaseRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	purchase, err := h.service.Pay(r.Context(), id, PayInput{
		Amount:     req.Amount,
		Method:     req.PaymentMethod,
		Remark:     req.Remark,
		OperatorID: shared.OperatorID(r.Context()),
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, purchase)
}

func (h *Handler) handleStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Statistics(r.Context(),
		r.URL.Query().Get("startDate"), r.URL.Query().Get("endDate"))
	if err != nil {
		h.logger.Error("purchase statistics", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, stats)
}
