package suppliers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/qiaozhwen/shop-be/internal/platform/httpx"
	"github.com/qiaozhwen/shop-be/internal/shared"
)

// Handler exposes supplier endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers supplier routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Get("/{id}", h.handleGet)
	r.Put("/{id}", h.handleUpdate)
	r.Delete("/{id}", h.handleDelete)
}

type createSupplierRequest struct {
	Name           string `json:"name" validate:"required,max=100"`
	ContactName    string `json:"contactName" validate:"omitempty,max=50"`
	Phone          string `json:"phone" validate:"required,max=20"`
	Address        string `json:"address" validate:"omitempty,max=255"`
	BankName       string `json:"bankName" validate:"omitempty,max=100"`
	BankAccount    string `json:"bankAccount" validate:"omitempty,max=50"`
	SupplyProducts string `json:"supplyProducts" validate:"omitempty,max=255"`
	Rating         *int16 `json:"rating" validate:"omitempty,gte=1,lte=5"`
	Remark         string `json:"remark" validate:"omitempty,max=500"`
	Status         *int16 `json:"status" validate:"omitempty,oneof=0 1"`
}

type updateSupplierRequest struct {
	Name           *string `json:"name" validate:"omitempty,max=100"`
	ContactName    *string `json:"contactName" validate:"omitempty,max=50"`
	Phone          *string `json:"phone" validate:"omitempty,max=20"`
	Address        *string `json:"address" validate:"omitempty,max=255"`
	BankName       *string `json:"bankName" validate:"omitempty,max=100"`
	BankAccount    *string `json:"bankAccount" validate:"omitempty,max=50"`
	SupplyProducts *string `json:"supplyProducts" validate:"omitempty,max=255"`
	Rating         *int16  `json:"rating" validate:"omitempty,gte=1,lte=5"`
	Remark         *string `json:"remark" validate:"omitempty,max=500"`
	Status         *int16  `json:"status" validate:"omitempty,oneof=0 1"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		Keyword: r.URL.Query().Get("keyword"),
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
		h.logger.Error("list suppliers", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if list == nil {
		list = []Supplier{}
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
	supplier, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, supplier)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createSupplierRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	supplier := Supplier{
		Name:           req.Name,
		ContactName:    req.ContactName,
		Phone:          req.Phone,
		Address:        req.Address,
		BankName:       req.BankName,
		BankAccount:    req.BankAccount,
		SupplyProducts: req.SupplyProducts,
		Rating:         5,
		Remark:         req.Remark,
		Status:         1,
	}
	if req.Rating != nil {
		supplier.Rating = *req.Rating
	}
	if req.Status != nil {
		supplier.Status = *req.Status
	}

	created, err := h.service.Create(r.Context(), supplier)
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
	var req updateSupplierRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	updated, err := h.service.Update(r.Context(), id, Patch{
		Name:           req.Name,
		ContactName:    req.ContactName,
		Phone:          req.Phone,
		Address:        req.Address,
		BankName:       req.BankName,
		BankAccount:    req.BankAccount,
		SupplyProducts: req.SupplyProducts,
		Rating:         req.Rating,
		Remark:         req.Remark,
		Status:         req.Status,
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
