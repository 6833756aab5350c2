package orders

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/qiaozhwen/shop-be/internal/platform/httpx"
	"github.com/qiaozhwen/shop-be/internal/shared"
)

// Handler exposes order endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers order routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Get("/{id}", h.handleGet)
	r.Post("/{id}/pay", h.handlePay)
	r.Post("/{id}/cancel", h.handleCancel)
}

type orderLineRequest struct {
	ProductID int64    `json:"productId" validate:"required,gt=0"`
	Quantity  int      `json:"quantity" validate:"required,gt=0"`
	Weight    float64  `json:"weight" validate:"omitempty,gte=0"`
	UnitPrice *float64 `json:"unitPrice" validate:"omitempty,gte=0"`
}

type createOrderRequest struct {
	CustomerID     *int64             `json:"customerId"`
	DiscountAmount float64            `json:"discountAmount" validate:"omitempty,gte=0"`
	PaymentMethod  string             `json:"paymentMethod" validate:"omitempty,oneof=cash wechat alipay card credit"`
	Remark         string             `json:"remark" validate:"omitempty,max=500"`
	Items          []orderLineRequest `json:"items" validate:"required,min=1,dive"`
}

type payOrderRequest struct {
	Amount         float64  `json:"amount" validate:"required,gt=0"`
	PaymentMethod  string   `json:"paymentMethod" validate:"omitempty,oneof=cash wechat alipay card credit"`
	ReceivedAmount *float64 `json:"receivedAmount" validate:"omitempty,gte=0"`
	ChangeAmount   *float64 `json:"changeAmount" validate:"omitempty,gte=0"`
	TransactionNo  string   `json:"transactionNo" validate:"omitempty,max=100"`
}

type orderDetail struct {
	Order
	Items    []Item    `json:"items"`
	Payments []Payment `json:"payments"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		Keyword:       r.URL.Query().Get("keyword"),
		Status:        r.URL.Query().Get("status"),
		PaymentStatus: r.URL.Query().Get("paymentStatus"),
		Page:          shared.ParsePage(r),
	}

	list, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("list orders", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if list == nil {
		list = []Order{}
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
	order, items, payments, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if items == nil {
		items = []Item{}
	}
	if payments == nil {
		payments = []Payment{}
	}
	httpx.JSON(w, http.StatusOK, orderDetail{Order: *order, Items: items, Payments: payments})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	input := CreateInput{
		CustomerID:     req.CustomerID,
		DiscountAmount: req.DiscountAmount,
		PaymentMethod:  req.PaymentMethod,
		Remark:         req.Remark,
		OperatorID:     shared.OperatorID(r.Context()),
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

func (h *Handler) handlePay(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParamInt64(r, "id")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return
	}
	var req payOrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	order, err := h.service.Pay(r.Context(), id, PayInput{
		Amount:         req.Amount,
		Method:         req.PaymentMethod,
		ReceivedAmount: req.ReceivedAmount,
		ChangeAmount:   req.ChangeAmount,
		TransactionNo:  req.TransactionNo,
		OperatorID:     shared.OperatorID(r.Context()),
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
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
