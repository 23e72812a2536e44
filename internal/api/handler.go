package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bondfi/bondfi/internal/service"
	"github.com/bondfi/bondfi/internal/store"
	"github.com/bondfi/bondfi/pkg/stellar"
)

// Metrics
var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bondfi_http_requests_total",
		Help: "Total HTTP requests processed, labeled by status code",
	}, []string{"method", "endpoint", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bondfi_http_request_duration_seconds",
		Help:    "Latency distribution of HTTP requests",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"method", "endpoint"})
)

type Handler struct {
	svc   *service.Service
	chain *stellar.Client
}

func NewHandler(svc *service.Service, chain *stellar.Client) *Handler {
	return &Handler{svc: svc, chain: chain}
}

// statusForError maps the service/store error taxonomy onto HTTP status
// codes and user-displayable messages.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, store.ErrEmailTaken):
		return http.StatusConflict, "Email already registered"
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, service.ErrBondNotFound):
		return http.StatusNotFound, "Bond not found"
	case errors.Is(err, store.ErrWalletNotFound):
		return http.StatusNotFound, "Wallet not found"
	case errors.Is(err, store.ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, service.ErrMissingFields):
		return http.StatusBadRequest, "Name, email and password are required"
	case errors.Is(err, service.ErrInvalidAmount):
		return http.StatusBadRequest, "Amount must be positive"
	case errors.Is(err, service.ErrBelowMinimumEntry):
		return http.StatusBadRequest, "Amount is below the bond's minimum entry"
	case errors.Is(err, store.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity, "Insufficient USDC balance"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// Helpers
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}, method, endpoint string) {
	httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(code)).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

func respondWithError(w http.ResponseWriter, code int, message, method, endpoint string) {
	respondWithJSON(w, code, map[string]string{"detail": message}, method, endpoint)
}

func respondWithServiceError(w http.ResponseWriter, err error, method, endpoint string) {
	code, message := statusForError(err)
	respondWithError(w, code, message, method, endpoint)
}
