package customers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/qiaozhwen/shop-be/internal/platform/httpx"
	"github.com/qiaozhwen/shop-be/internal/shared"
)

// Handler exposes customer endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers customer routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Get("/{id}", h.handleGet)
	r.Put("/{id}", h.handleUpdate)
	r.Delete("/{id}", h.handleDelete)
	r.Get("/{id}/credit-logs", h.handleCreditLogs)
	r.Post("/{id}/repay", h.handleRepay)
}

type createCustomerRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Type        string  `json:"type" validate:"omitempty,oneof=restaurant retail wholesale personal"`
	Level       string  `json:"level" validate:"omitempty,oneof=normal vip svip"`
	ContactName string  `json:"contactName" validate:"omitempty,max=50"`
	Phone       string  `json:"phone" validate:"required,max=20"`
	Address     string  `json:"address" validate:"omitempty,max=255"`
	CreditLimit float64 `json:"creditLimit" validate:"omitempty,gte=0"`
	Remark      string  `json:"remark" validate:"omitempty,max=500"`
	Status      *int16  `json:"status" validate:"omitempty,oneof=0 1"`
}

type updateCustomerRequest struct {
	Name        *string  `json:"name" validate:"omitempty,max=100"`
	Type        *string  `json:"type" validate:"omitempty,oneof=restaurant retail wholesale personal"`
	Level       *string  `json:"level" validate:"omitempty,oneof=normal vip svip"`
	ContactName *string  `json:"contactName" validate:"omitempty,max=50"`
	Phone       *string  `json:"phone" validate:"omitempty,max=20"`
	Address     *string  `json:"address" validate:"omitempty,max=255"`
	CreditLimit *float64 `json:"creditLimit" validate:"omitempty,gte=0"`
	Remark      *string  `json:"remark" validate:"omitempty,max=500"`
	Status      *int16   `json:"status" validate:"omitempty,oneof=0 1"`
}

type repayRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Method string  `json:"method" validate:"omitempty,oneof=cash wechat alipay card"`
	Remark string  `json:"remark" validate:"omitempty,max=255"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		Keyword: r.URL.Query().Get("keyword"),
		Type:    r.URL.Query().Get("type"),
		Level:   r.URL.Query().Get("level"),
		Page:    shared.ParsePage(r),
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 16); err == nil {
			parsed := int16(v)
			filter.Status = &parsed
		}
	}

	list, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("list customers", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if list == nil {
		list = []Customer{}
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
	customer, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, customer)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createCustomerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	customer := Customer{
		Name:        req.Name,
		Type:        req.Type,
		Level:       req.Level,
		ContactName: req.ContactName,
		Phone:       req.Phone,
		Address:     req.Address,
		CreditLimit: req.CreditLimit,
		Remark:      req.Remark,
		Status:      1,
	}
	if customer.Type == "" {
		customer.Type = TypeRestaurant
	}
	if customer.Level == "" {
		customer.Level = LevelNormal
	}
	if req.Status != nil {
		customer.Status = *req.Status
	}

	created, err := h.service.Create(r.Context(), customer)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParamInt64(r, "id")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return
	}
	var req updateCustomerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	updated, err := h.service.Update(r.Context(), id, Patch{
		Name:        req.Name,
		Type:        req.Type,
		Level:       req.Level,
		ContactName: req.ContactName,
		Phone:       req.Phone,
		Address:     req.Address,
		CreditLimit: req.CreditLimit,
		Remark:      req.Remark,
		Status:      req.Status,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParamInt64(r, "id")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) handleCreditLogs(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParamInt64(r, "id")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return
	}
	page := shared.ParsePage(r)

	list, total, err := h.service.CreditLogs(r.Context(), id, page)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if list == nil {
		list = []CreditLog{}
	}
	httpx.JSON(w, http.StatusOK, httpx.ListResponse{
		List:     list,
		Total:    total,
		Page:     page.Page,
		PageSize: page.PageSize,
	})
}

func (h *Handler) handleRepay(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParamInt64(r, "id")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return
	}
	var req repayRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	customer, err := h.service.Repay(r.Context(), RepayInput{
		CustomerID: id,
		Amount:     req.Amount,
		Method:     req.Method,
		Remark:     req.Remark,
		OperatorID: shared.OperatorID(r.Context()),
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, customer)
}
