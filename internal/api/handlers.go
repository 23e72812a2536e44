package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bondfi/bondfi/internal/domain"
	"github.com/bondfi/bondfi/pkg/stellar"
)

func (h *Handler) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"}, "GET", "/health")
}

func (h *Handler) RootHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Fractional Bond DApp API"}, "GET", "/api/")
}

func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Malformed JSON body", "POST", "/api/auth/register")
		return
	}

	resp, err := h.svc.Register(r.Context(), req)
	if err != nil {
		respondWithServiceError(w, err, "POST", "/api/auth/register")
		return
	}
	respondWithJSON(w, http.StatusCreated, resp, "POST", "/api/auth/register")
}

func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Malformed JSON body", "POST", "/api/auth/login")
		return
	}

	resp, err := h.svc.Login(r.Context(), req)
	if err != nil {
		respondWithServiceError(w, err, "POST", "/api/auth/login")
		return
	}
	respondWithJSON(w, http.StatusOK, resp, "POST", "/api/auth/login")
}

func (h *Handler) ListBondsHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.svc.ListBonds(), "GET", "/api/bonds")
}

func (h *Handler) GetBondHandler(w http.ResponseWriter, r *http.Request) {
	bond, err := h.svc.GetBond(mux.Vars(r)["id"])
	if err != nil {
		respondWithServiceError(w, err, "GET", "/api/bonds/{id}")
		return
	}
	respondWithJSON(w, http.StatusOK, bond, "GET", "/api/bonds/{id}")
}

func (h *Handler) GetWalletHandler(w http.ResponseWriter, r *http.Request) {
	email, _ := Identity(r.Context())

	wallet, err := h.svc.GetWallet(r.Context(), email)
	if err != nil {
		respondWithServiceError(w, err, "GET", "/api/wallet")
		return
	}
	respondWithJSON(w, http.StatusOK, wallet, "GET", "/api/wallet")
}

func (h *Handler) TopUpHandler(w http.ResponseWriter, r *http.Request) {
	email, _ := Identity(r.Context())

	var req domain.TopUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Malformed JSON body", "POST", "/api/wallet/topup")
		return
	}

	newBalance, err := h.svc.TopUp(r.Context(), email, req.Amount)
	if err != nil {
		respondWithServiceError(w, err, "POST", "/api/wallet/topup")
		return
	}
	respondWithJSON(w, http.StatusOK, domain.TopUpResponse{
		Message:    "Top-up successful",
		NewBalance: newBalance,
	}, "POST", "/api/wallet/topup")
}

func (h *Handler) BuyHandler(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(httpRequestDuration.WithLabelValues("POST", "/api/transactions/buy"))
	defer timer.ObserveDuration()

	email, _ := Identity(r.Context())

	var req domain.BuyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Malformed JSON body", "POST", "/api/transactions/buy")
		return
	}

	txn, err := h.svc.Buy(r.Context(), email, req.BondID, req.Amount)
	if err != nil {
		respondWithServiceError(w, err, "POST", "/api/transactions/buy")
		return
	}
	respondWithJSON(w, http.StatusCreated, txn, "POST", "/api/transactions/buy")
}

func (h *Handler) ListTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	email, _ := Identity(r.Context())

	txns, err := h.svc.ListTransactions(r.Context(), email)
	if err != nil {
		respondWithServiceError(w, err, "GET", "/api/transactions")
		return
	}
	respondWithJSON(w, http.StatusOK, txns, "GET", "/api/transactions")
}

func (h *Handler) GetPortfolioHandler(w http.ResponseWriter, r *http.Request) {
	email, _ := Identity(r.Context())

	portfolio, err := h.svc.GetPortfolio(r.Context(), email)
	if err != nil {
		respondWithServiceError(w, err, "GET", "/api/portfolio")
		return
	}
	respondWithJSON(w, http.StatusOK, portfolio, "GET", "/api/portfolio")
}

// ChainSubmitHandler forwards a wallet-signed transaction envelope to the
// configured Horizon server. A chain failure is reported to the caller but
// never rolls back any local record.
func (h *Handler) ChainSubmitHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SignedXDR string `json:"signed_xdr"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SignedXDR == "" {
		respondWithError(w, http.StatusBadRequest, "signed_xdr is required", "POST", "/api/chain/submit")
		return
	}

	result, err := h.chain.SubmitTransaction(r.Context(), req.SignedXDR)
	if err != nil {
		var chainErr *stellar.ChainError
		if errors.As(err, &chainErr) {
			respondWithError(w, http.StatusBadGateway, chainErr.Detail, "POST", "/api/chain/submit")
			return
		}
		respondWithError(w, http.StatusBadGateway, "Chain submission failed", "POST", "/api/chain/submit")
		return
	}
	respondWithJSON(w, http.StatusOK, result, "POST", "/api/chain/submit")
}
