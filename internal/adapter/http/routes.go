package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter builds the REST API. Everything under /api requires the bearer
// token; /health does not.
func NewRouter(h *Handlers, token string, log *slog.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(Auth(token))
		MountRoutes(r, h)
	})
	return r
}

// MountRoutes registers all API routes on the given chi router.
func MountRoutes(r chi.Router, h *Handlers) {
	// Tasks
	r.Post("/tasks", h.CreateTask)
	r.Get("/tasks/{taskId}", h.GetTask)
	r.Post("/tasks/{taskId}/complete", h.CompleteTask)
	r.Post("/tasks/{taskId}/cancel", h.CancelTask)
	r.Get("/tasks/{taskId}/history", h.GetTaskHistory)

	// Bids
	r.Get("/tasks/{taskId}/bids", h.ListBids)
	r.Post("/tasks/{taskId}/bids", h.SubmitBid)
	r.Patch("/tasks/{taskId}/bids/{bidId}/accept", h.AcceptBid)
	r.Patch("/tasks/{taskId}/bids/{bidId}/withdraw", h.WithdrawBid)

	// Payments & reviews
	r.Post("/tasks/{taskId}/transaction", h.OpenTransaction)
	r.Get("/tasks/{taskId}/transaction", h.GetTaskTransaction)
	r.Patch("/transactions/{transactionId}", h.SettleTransaction)
	r.Post("/tasks/{taskId}/reviews", h.SubmitReview)

	// Users
	r.Post("/users", h.RegisterUser)
	r.Get("/users/{userId}", h.GetUser)
	r.Post("/users/{userId}/addresses", h.AddAddress)

	r.Get("/categories", h.ListCategories)
}
