package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/simaogato/taskconnect-backend/internal/adapter/api"
	"github.com/simaogato/taskconnect-backend/internal/domain"
	"github.com/simaogato/taskconnect-backend/internal/logger"
)

const maxRequestBodySize = 1 << 20

// Handlers serves the REST API over the marketplace use cases.
type Handlers struct {
	Services *api.Services
	Logger   *slog.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(services *api.Services, log *slog.Logger) *Handlers {
	if log == nil {
		log = slog.Default()
	}
	return &Handlers{Services: services, Logger: log}
}

// --- Tasks ---

// CreateTask handles POST /api/tasks
func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[api.CreateTaskRequest](h, w, r)
	if !ok {
		return
	}
	task, err := h.Services.Tasks.CreateTask(r.Context(), req.Input())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, api.FromTask(task))
}

// GetTask handles GET /api/tasks/{taskId}
func (h *Handlers) GetTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := h.pathID(w, r, "taskId")
	if !ok {
		return
	}
	task, err := h.Services.Tasks.GetTask(r.Context(), taskID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, api.FromTask(task))
}

// CompleteTask handles POST /api/tasks/{taskId}/complete
func (h *Handlers) CompleteTask(w http.ResponseWriter, r *http.Request) {
	h.transitionTask(w, r, func(ctx context.Context, taskID int64) (*domain.Task, error) {
		return h.Services.Tasks.CompleteTask(ctx, taskID)
	})
}

// CancelTask handles POST /api/tasks/{taskId}/cancel
func (h *Handlers) CancelTask(w http.ResponseWriter, r *http.Request) {
	h.transitionTask(w, r, func(ctx context.Context, taskID int64) (*domain.Task, error) {
		return h.Services.Tasks.CancelTask(ctx, taskID)
	})
}

func (h *Handlers) transitionTask(w http.ResponseWriter, r *http.Request, fn func(context.Context, int64) (*domain.Task, error)) {
	taskID, ok := h.pathID(w, r, "taskId")
	if !ok {
		return
	}
	task, err := api.Write(r.Context(), h.Services, func(ctx context.Context) (*domain.Task, error) {
		return fn(ctx, taskID)
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, api.FromTask(task))
}

// GetTaskHistory handles GET /api/tasks/{taskId}/history
func (h *Handlers) GetTaskHistory(w http.ResponseWriter, r *http.Request) {
	taskID, ok := h.pathID(w, r, "taskId")
	if !ok {
		return
	}
	changes, err := h.Services.Tasks.History(r.Context(), taskID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, api.FromHistory(changes))
}

// --- Bids ---

// ListBids handles GET /api/tasks/{taskId}/bids
func (h *Handlers) ListBids(w http.ResponseWriter, r *http.Request) {
	taskID, ok := h.pathID(w, r, "taskId")
	if !ok {
		return
	}
	bids, err := h.Services.Tasks.ListBids(r.Context(), taskID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, api.FromBids(bids))
}

// SubmitBid handles POST /api/tasks/{taskId}/bids
func (h *Handlers) SubmitBid(w http.ResponseWriter, r *http.Request) {
	taskID, ok := h.pathID(w, r, "taskId")
	if !ok {
		return
	}
	req, ok := readJSON[api.SubmitBidRequest](h, w, r)
	if !ok {
		return
	}
	req.TaskID = api.ID(taskID)

	bid, err := api.Write(r.Context(), h.Services, func(ctx context.Context) (*domain.Bid, error) {
		return h.Services.Bidding.SubmitBid(ctx, req.Input())
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, api.FromBid(bid))
}

// AcceptBid handles PATCH /api/tasks/{taskId}/bids/{bidId}/accept
func (h *Handlers) AcceptBid(w http.ResponseWriter, r *http.Request) {
	taskID, ok := h.pathID(w, r, "taskId")
	if !ok {
		return
	}
	bidID, ok := h.pathID(w, r, "bidId")
	if !ok {
		return
	}
	task, err := api.Write(r.Context(), h.Services, func(ctx context.Context) (*domain.Task, error) {
		return h.Services.Acceptance.AcceptBid(ctx, taskID, bidID)
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, api.FromTask(task))
}

// WithdrawBid handles PATCH /api/tasks/{taskId}/bids/{bidId}/withdraw
func (h *Handlers) WithdrawBid(w http.ResponseWriter, r *http.Request) {
	taskID, ok := h.pathID(w, r, "taskId")
	if !ok {
		return
	}
	bidID, ok := h.pathID(w, r, "bidId")
	if !ok {
		return
	}
	req, ok := readJSON[api.WithdrawBidRequest](h, w, r)
	if !ok {
		return
	}
	bid, err := api.Write(r.Context(), h.Services, func(ctx context.Context) (*domain.Bid, error) {
		return h.Services.Bidding.WithdrawBid(ctx, taskID, bidID, int64(req.BidderID))
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, api.FromBid(bid))
}

// --- Payments & reviews ---

// OpenTransaction handles POST /api/tasks/{taskId}/transaction
func (h *Handlers) OpenTransaction(w http.ResponseWriter, r *http.Request) {
	taskID, ok := h.pathID(w, r, "taskId")
	if !ok {
		return
	}
	tx, err := h.Services.Payments.OpenTransaction(r.Context(), taskID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, api.FromTransaction(tx))
}

// GetTaskTransaction handles GET /api/tasks/{taskId}/transaction
func (h *Handlers) GetTaskTransaction(w http.ResponseWriter, r *http.Request) {
	taskID, ok := h.pathID(w, r, "taskId")
	if !ok {
		return
	}
	tx, err := h.Services.Payments.GetTaskTransaction(r.Context(), taskID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, api.FromTransaction(tx))
}

// SettleTransaction handles PATCH /api/transactions/{transactionId}
func (h *Handlers) SettleTransaction(w http.ResponseWriter, r *http.Request) {
	txID, ok := h.pathID(w, r, "transactionId")
	if !ok {
		return
	}
	req, ok := readJSON[api.SettleTransactionRequest](h, w, r)
	if !ok {
		return
	}
	tx, err := api.Write(r.Context(), h.Services, func(ctx context.Context) (*domain.Transaction, error) {
		return h.Services.Payments.Settle(ctx, txID, req.TargetStatus())
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, api.FromTransaction(tx))
}

// SubmitReview handles POST /api/tasks/{taskId}/reviews
func (h *Handlers) SubmitReview(w http.ResponseWriter, r *http.Request) {
	taskID, ok := h.pathID(w, r, "taskId")
	if !ok {
		return
	}
	req, ok := readJSON[api.SubmitReviewRequest](h, w, r)
	if !ok {
		return
	}
	req.TaskID = api.ID(taskID)

	review, err := h.Services.Ratings.SubmitReview(r.Context(), req.Input())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, api.FromReview(review))
}

// --- Users ---

// RegisterUser handles POST /api/users
func (h *Handlers) RegisterUser(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[api.RegisterUserRequest](h, w, r)
	if !ok {
		return
	}
	details, err := h.Services.Users.Register(r.Context(), req.Input())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, api.FromUser(details))
}

// GetUser handles GET /api/users/{userId}
func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.pathID(w, r, "userId")
	if !ok {
		return
	}
	details, err := h.Services.Users.GetUser(r.Context(), userID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, api.FromUser(details))
}

// AddAddress handles POST /api/users/{userId}/addresses
func (h *Handlers) AddAddress(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.pathID(w, r, "userId")
	if !ok {
		return
	}
	req, ok := readJSON[api.AddressRequest](h, w, r)
	if !ok {
		return
	}
	details, err := h.Services.Users.AddAddress(r.Context(), userID, req.Input())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, api.FromUser(details))
}

// ListCategories handles GET /api/categories
func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Services.Categories.List(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, api.FromCategories(categories))
}

// --- Helpers ---

// readJSON decodes the request body into T, writing a 400 on failure.
func readJSON[T any](h *Handlers, w http.ResponseWriter, r *http.Request) (T, bool) {
	var v T
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody("request body too large", domain.KindCode(domain.ErrValidation)))
			return v, false
		}
		h.writeDomainError(w, r, domain.Errorf(domain.ErrValidation, "invalid request body: %v", err))
		return v, false
	}
	if err := api.Decode(data, &v); err != nil {
		h.writeDomainError(w, r, err)
		return v, false
	}
	return v, true
}

// pathID parses a numeric id from the URL, writing a 400 on failure.
func (h *Handlers) pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.writeDomainError(w, r, domain.Errorf(domain.ErrValidation, "invalid %s %q", name, raw))
		return 0, false
	}
	return id, true
}

// statusOf maps an error kind to its HTTP status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrBidNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrBidTaskMismatch):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrSelfBiddingForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrTaskNotOpen),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrConcurrentModification),
		errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeDomainError writes err as {"error", "code"}. Internal errors are
// logged and their message hidden.
func (h *Handlers) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		logger.FromContext(r.Context(), h.Logger).Error("unhandled domain error", "error", err)
		writeJSON(w, status, errorBody("internal server error", domain.KindCode(err)))
		return
	}
	writeJSON(w, status, api.ErrorOf(err))
}

func errorBody(msg, code string) api.Error {
	return api.Error{Error: msg, Code: code}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}
