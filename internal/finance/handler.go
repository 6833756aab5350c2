package finance

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/qiaozhwen/shop-be/internal/platform/httpx"
	"github.com/qiaozhwen/shop-be/internal/shared"
)

// Handler exposes ledger endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers finance routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/records", h.handleListRecords)
	r.Post("/records", h.handleCreateRecord)
	r.Get("/summary", h.handleSummary)
	r.Get("/settlements", h.handleListSettlements)
	r.Post("/settlements/run", h.handleSettleDay)
}

type createRecordRequest struct {
	Type          string  `json:"type" validate:"required,oneof=income expense"`
	Category      string  `json:"category" validate:"required"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	PaymentMethod string  `json:"paymentMethod" validate:"omitempty,max=20"`
	RelatedType   string  `json:"relatedType" validate:"omitempty,max=50"`
	RelatedID     *int64  `json:"relatedId"`
	Description   string  `json:"description" validate:"omitempty,max=255"`
	Remark        string  `json:"remark" validate:"omitempty,max=500"`
	RecordAt      string  `json:"recordAt" validate:"omitempty,datetime=2006-01-02"`
}

func (h *Handler) handleListRecords(w http.ResponseWriter, r *http.Request) {
	filter := RecordFilter{
		Type:      r.URL.Query().Get("type"),
		Category:  r.URL.Query().Get("category"),
		StartDate: r.URL.Query().Get("startDate"),
		EndDate:   r.URL.Query().Get("endDate"),
		Page:      shared.ParsePage(r),
	}

	list, total, err := h.service.ListRecords(r.Context(), filter)
	if err != nil {
		h.logger.Error("list finance records", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if list == nil {
		list = []Record{}
	}
	httpx.JSON(w, http.StatusOK, httpx.ListResponse{
		List:     list,
		Total:    total,
		Page:     filter.Page.Page,
		PageSize: filter.Page.PageSize,
	})
}

func (h *Handler) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	var req createRecordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	rec := Record{
		Type:          req.Type,
		Category:      req.Category,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		RelatedType:   req.RelatedType,
		RelatedID:     req.RelatedID,
		Description:   req.Description,
		Remark:        req.Remark,
	}
	if req.RecordAt != "" {
		at, _ := time.Parse("2006-01-02", req.RecordAt)
		rec.RecordAt = at
	}

	created, err := h.service.CreateRecord(r.Context(), rec)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context(), r.URL.Query().Get("startDate"), r.URL.Query().Get("endDate"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) handleListSettlements(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePage(r)
	list, total, err := h.service.Settlements(r.Context(), page)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if list == nil {
		list = []Settlement{}
	}
	httpx.JSON(w, http.StatusOK, httpx.ListResponse{
		List:     list,
		Total:    total,
		Page:     page.Page,
		PageSize: page.PageSize,
	})
}

type settleDayRequest struct {
	Date string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

func (h *Handler) handleSettleDay(w http.ResponseWriter, r *http.Request) {
	var req settleDayRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	day := time.Now().AddDate(0, 0, -1)
	if req.Date != "" {
		day, _ = time.Parse("2006-01-02", req.Date)
	}

	settlement, err := h.service.SettleDay(r.Context(), day, shared.OperatorID(r.Context()))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, settlement)
}
