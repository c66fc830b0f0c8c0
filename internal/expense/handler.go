package expense

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/spendwise/internal/transport"
	"github.com/frahmantamala/spendwise/pkg/logger"
)

type ServiceAPI interface {
	CreateExpense(ctx context.Context, dto CreateExpenseDTO) (*Expense, error)
	ListExpenses(ctx context.Context) ([]*Expense, error)
	DeleteExpense(ctx context.Context, id int64) error
	CategoryStats(ctx context.Context) ([]CategoryTotal, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

// Home answers GET / so clients can check the API is reachable.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, MessageResponse{Message: MsgAPIRunning})
}

func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.Service.ListExpenses(r.Context())
	if err != nil {
		logger.From(r.Context()).Error("ListExpenses: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, expenses)
}

func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var dto CreateExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		logger.From(r.Context()).Warn("CreateExpense: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	expense, err := h.Service.CreateExpense(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, CreateExpenseResponse{
		Expense: expense,
		Message: MsgExpenseAdded,
	})
}

func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := h.IDParam(r)
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid expense ID")
		return
	}

	if err := h.Service.DeleteExpense(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, MessageResponse{Message: MsgExpenseDeleted})
}

// Stats serves per-category totals.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	totals, err := h.Service.CategoryStats(r.Context())
	if err != nil {
		logger.From(r.Context()).Error("Stats: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, totals)
}
