package api

import (
	"strings"
	"time"

	"github.com/go-chi/cors"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterOptions carries the request-level knobs the router needs.
type RouterOptions struct {
	CORSOrigins      string
	SimulatedLatency time.Duration
}

// NewRouter builds the full route table. /health and /metrics live at the
// root; everything else is under /api, with the identity-dependent routes
// behind bearer-token authentication.
func NewRouter(h *Handler, opts RouterOptions) *mux.Router {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.HandleFunc("/health", h.HealthCheckHandler).Methods("GET")

	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.Use(cors.Handler(cors.Options{
		AllowedOrigins:   splitOrigins(opts.CORSOrigins),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if opts.SimulatedLatency > 0 {
		apiRouter.Use(SimulatedLatency(opts.SimulatedLatency))
	}

	apiRouter.HandleFunc("", h.RootHandler).Methods("GET")
	apiRouter.HandleFunc("/", h.RootHandler).Methods("GET")
	apiRouter.HandleFunc("/auth/register", h.RegisterHandler).Methods("POST")
	apiRouter.HandleFunc("/auth/login", h.LoginHandler).Methods("POST")
	apiRouter.HandleFunc("/bonds", h.ListBondsHandler).Methods("GET")
	apiRouter.HandleFunc("/bonds/{id}", h.GetBondHandler).Methods("GET")
	apiRouter.HandleFunc("/chain/submit", h.ChainSubmitHandler).Methods("POST")

	apiRouter.HandleFunc("/wallet", h.authenticated(h.GetWalletHandler)).Methods("GET")
	apiRouter.HandleFunc("/wallet/topup", h.authenticated(h.TopUpHandler)).Methods("POST")
	apiRouter.HandleFunc("/transactions", h.authenticated(h.ListTransactionsHandler)).Methods("GET")
	apiRouter.HandleFunc("/transactions/buy", h.authenticated(h.BuyHandler)).Methods("POST")
	apiRouter.HandleFunc("/portfolio", h.authenticated(h.GetPortfolioHandler)).Methods("GET")

	return r
}

func splitOrigins(origins string) []string {
	if origins == "" {
		return []string{"*"}
	}
	parts := strings.Split(origins, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
