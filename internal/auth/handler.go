package auth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/qiaozhwen/shop-be/internal/platform/httpx"
	"github.com/qiaozhwen/shop-be/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	requireMW func(http.Handler) http.Handler
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, requireMW func(http.Handler) http.Handler) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		requireMW: requireMW,
		validator: validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Group(func(priv chi.Router) {
		priv.Use(h.requireMW)
		priv.Get("/profile", h.handleProfile)
		priv.Post("/change-password", h.handleChangePassword)
		priv.Post("/logout", h.handleLogout)
	})
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type accountView struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Name        string `json:"name"`
	Phone       string `json:"phone,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
	Role        string `json:"role"`
	Status      int16  `json:"status"`
	LastLoginAt string `json:"lastLoginAt,omitempty"`
}

func newAccountView(acct *Account) accountView {
	view := accountView{
		ID:       acct.ID,
		Username: acct.Username,
		Name:     acct.Name,
		Phone:    acct.Phone,
		Avatar:   acct.Avatar,
		Role:     acct.Role,
		Status:   acct.Status,
	}
	if acct.LastLoginAt != nil {
		view.LastLoginAt = acct.LastLoginAt.Format(time.RFC3339)
	}
	return view
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	acct, token, err := h.service.Login(r.Context(), req.Username, req.Password, r.RemoteAddr, r.UserAgent())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  newAccountView(acct),
	})
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6,max=72"`
}

func (h *Handler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing identity")
		return
	}

	var req changePasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	if err := h.service.ChangePassword(r.Context(), identity.StaffID, req.OldPassword, req.NewPassword); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"changed": true})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing identity")
		return
	}

	h.service.Logout(r.Context(), identity.StaffID, identity.Username, r.RemoteAddr, r.UserAgent())
	httpx.JSON(w, http.StatusOK, map[string]any{"loggedOut": true})
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing identity")
		return
	}
	acct, err := h.service.Profile(r.Context(), identity.StaffID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, newAccountView(acct))
}
