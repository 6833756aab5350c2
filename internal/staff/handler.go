package staff

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/qiaozhwen/shop-be/internal/platform/httpx"
	"github.com/qiaozhwen/shop-be/internal/shared"
)

// Handler exposes staff management endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers staff routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Get("/{id}", h.handleGet)
	r.Put("/{id}", h.handleUpdate)
	r.Delete("/{id}", h.handleDelete)
}

type staffView struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Name        string `json:"name"`
	Phone       string `json:"phone,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
	Role        string `json:"role"`
	Status      int16  `json:"status"`
	LastLoginAt string `json:"lastLoginAt,omitempty"`
	CreatedAt   string `json:"createdAt"`
}

func newStaffView(s *Staff) staffView {
	view := staffView{
		ID:        s.ID,
		Username:  s.Username,
		Name:      s.Name,
		Phone:     s.Phone,
		Avatar:    s.Avatar,
		Role:      s.Role,
		Status:    s.Status,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
	}
	if s.LastLoginAt != nil {
		view.LastLoginAt = s.LastLoginAt.Format(time.RFC3339)
	}
	return view
}

type createStaffRequest struct {
	Username string `json:"username" validate:"required,min=2,max=50"`
	Password string `json:"password" validate:"omitempty,min=6"`
	Name     string `json:"name" validate:"required,max=50"`
	Phone    string `json:"phone" validate:"omitempty,max=20"`
	Avatar   string `json:"avatar" validate:"omitempty,max=255"`
	Role     string `json:"role" validate:"omitempty,oneof=admin manager cashier warehouse"`
	Status   *int16 `json:"status" validate:"omitempty,oneof=0 1"`
}

type updateStaffRequest struct {
	Username *string `json:"username" validate:"omitempty,min=2,max=50"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	Name     *string `json:"name" validate:"omitempty,max=50"`
	Phone    *string `json:"phone" validate:"omitempty,max=20"`
	Avatar   *string `json:"avatar" validate:"omitempty,max=255"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin manager cashier warehouse"`
	Status   *int16  `json:"status" validate:"omitempty,oneof=0 1"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		Keyword: r.URL.Query().Get("keyword"),
		Role:    r.URL.Query().Get("role"),
		Page:    shared.ParsePage(r),
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		if raw == "0" || raw == "1" {
			status := int16(raw[0] - '0')
			filter.Status = &status
		}
	}

	list, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("list staff", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	views := make([]staffView, 0, len(list))
	for i := range list {
		views = append(views, newStaffView(&list[i]))
	}
	httpx.JSON(w, http.StatusOK, httpx.ListResponse{
		List:     views,
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
	s, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, newStaffView(s))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createStaffRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	input := NewStaff{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
		Phone:    req.Phone,
		Avatar:   req.Avatar,
		Role:     req.Role,
		Status:   1,
	}
	if input.Role == "" {
		input.Role = "cashier"
	}
	if req.Status != nil {
		input.Status = *req.Status
	}

	created, err := h.service.Create(r.Context(), input)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, newStaffView(created))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParamInt64(r, "id")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return
	}
	var req updateStaffRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	updated, err := h.service.Update(r.Context(), id, Patch{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
		Phone:    req.Phone,
		Avatar:   req.Avatar,
		Role:     req.Role,
		Status:   req.Status,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, newStaffView(updated))
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
