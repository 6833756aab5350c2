package products

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/qiaozhwen/shop-be/internal/platform/httpx"
	"github.com/qiaozhwen/shop-be/internal/shared"
)

// Handler exposes product endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers product routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Get("/{id}", h.handleGet)
	r.Put("/{id}", h.handleUpdate)
	r.Delete("/{id}", h.handleDelete)
}

type createProductRequest struct {
	CategoryID  *int64   `json:"categoryId"`
	Code        string   `json:"code" validate:"omitempty,max=50"`
	Name        string   `json:"name" validate:"required,max=100"`
	Unit        string   `json:"unit" validate:"required,oneof=piece weight"`
	Price       float64  `json:"price" validate:"gte=0"`
	CostPrice   *float64 `json:"costPrice" validate:"omitempty,gte=0"`
	WeightAvg   *float64 `json:"weightAvg" validate:"omitempty,gte=0"`
	ImageURL    string   `json:"imageUrl" validate:"omitempty,max=255"`
	Description string   `json:"description"`
	MinStock    int      `json:"minStock" validate:"omitempty,gte=0"`
	IsActive    *int16   `json:"isActive" validate:"omitempty,oneof=0 1"`
	SKU         string   `json:"sku" validate:"omitempty,max=50"`
}

type updateProductRequest struct {
	CategoryID  *int64   `json:"categoryId"`
	Code        *string  `json:"code" validate:"omitempty,max=50"`
	Name        *string  `json:"name" validate:"omitempty,max=100"`
	Unit        *string  `json:"unit" validate:"omitempty,oneof=piece weight"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	CostPrice   *float64 `json:"costPrice" validate:"omitempty,gte=0"`
	WeightAvg   *float64 `json:"weightAvg" validate:"omitempty,gte=0"`
	ImageURL    *string  `json:"imageUrl" validate:"omitempty,max=255"`
	Description *string  `json:"description"`
	MinStock    *int     `json:"minStock" validate:"omitempty,gte=0"`
	IsActive    *int16   `json:"isActive" validate:"omitempty,oneof=0 1"`
	SKU         *string  `json:"sku" validate:"omitempty,max=50"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		Keyword: r.URL.Query().Get("keyword"),
		Page:    shared.ParsePage(r),
	}
	if raw := r.URL.Query().Get("categoryId"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filter.CategoryID = &v
		}
	}
	if raw := r.URL.Query().Get("isActive"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 16); err == nil {
			parsed := int16(v)
			filter.IsActive = &parsed
		}
	}

	list, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("list products", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if list == nil {
		list = []Product{}
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
	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	product := Product{
		CategoryID:  req.CategoryID,
		Code:        req.Code,
		Name:        req.Name,
		Unit:        req.Unit,
		Price:       req.Price,
		CostPrice:   req.CostPrice,
		WeightAvg:   req.WeightAvg,
		ImageURL:    req.ImageURL,
		Description: req.Description,
		MinStock:    req.MinStock,
		IsActive:    1,
		SKU:         req.SKU,
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	created, err := h.service.Create(r.Context(), product)
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
	var req updateProductRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	updated, err := h.service.Update(r.Context(), id, Patch{
		CategoryID:  req.CategoryID,
		Code:        req.Code,
		Name:        req.Name,
		Unit:        req.Unit,
		Price:       req.Price,
		CostPrice:   req.CostPrice,
		WeightAvg:   req.WeightAvg,
		ImageURL:    req.ImageURL,
		Description: req.Description,
		MinStock:    req.MinStock,
		IsActive:    req.IsActive,
		SKU:         req.SKU,
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
