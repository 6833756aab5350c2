package categories

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/qiaozhwen/shop-be/internal/platform/httpx"
)

// Handler exposes category endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers category routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Get("/{id}", h.handleGet)
	r.Put("/{id}", h.handleUpdate)
	r.Delete("/{id}", h.handleDelete)
}

type createCategoryRequest struct {
	Name   string `json:"name" validate:"required,max=50"`
	Icon   string `json:"icon" validate:"omitempty,max=50"`
	Sort   int    `json:"sort" validate:"omitempty,gte=0"`
	Status *int16 `json:"status" validate:"omitempty,oneof=0 1"`
}

type updateCategoryRequest struct {
	Name   *string `json:"name" validate:"omitempty,max=50"`
	Icon   *string `json:"icon" validate:"omitempty,max=50"`
	Sort   *int    `json:"sort" validate:"omitempty,gte=0"`
	Status *int16  `json:"status" validate:"omitempty,oneof=0 1"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	var status *int16
	if raw := r.URL.Query().Get("status"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 16); err == nil {
			parsed := int16(v)
			status = &parsed
		}
	}

	list, err := h.service.List(r.Context(), status)
	if err != nil {
		h.logger.Error("list categories", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if list == nil {
		list = []Category{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"list": list})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParamInt64(r, "id")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return
	}
	category, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, category)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	category := Category{Name: req.Name, Icon: req.Icon, Sort: req.Sort, Status: 1}
	if req.Status != nil {
		category.Status = *req.Status
	}

	created, err := h.service.Create(r.Context(), category)
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
	var req updateCategoryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	updated, err := h.service.Update(r.Context(), id, Patch{
		Name:   req.Name,
		Icon:   req.Icon,
		Sort:   req.Sort,
		Status: req.Status,
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
