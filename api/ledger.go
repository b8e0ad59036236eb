package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/workhive/workhive/internal/ledger"
)

type LedgerHandler struct {
	ledger *ledger.Ledger
}

func NewLedgerHandler(l *ledger.Ledger) *LedgerHandler {
	return &LedgerHandler{ledger: l}
}

type mintRequest struct {
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

func (h *LedgerHandler) Mint(w http.ResponseWriter, r *http.Request) {
	var req mintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	req.To = strings.TrimSpace(req.To)
	if req.To == "" || req.Amount <= 0 {
		http.Error(w, "to and a positive amount are required", http.StatusBadRequest)
		return
	}

	if err := h.ledger.Mint(r.Context(), callerAccount(r), req.Amount, req.To); err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, map[string]string{"status": "minted"}, http.StatusCreated)
}

type addAuthorisedRequest struct {
	Account string `json:"account"`
}

func (h *LedgerHandler) AddAuthorised(w http.ResponseWriter, r *http.Request) {
	var req addAuthorisedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	req.Account = strings.TrimSpace(req.Account)
	if req.Account == "" {
		http.Error(w, "account is required", http.StatusBadRequest)
		return
	}

	if err := h.ledger.AddAuthorised(r.Context(), callerAccount(r), req.Account); err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, map[string]string{"status": "authorised"}, http.StatusCreated)
}

type approveRequest struct {
	Spender string `json:"spender"`
	Amount  int64  `json:"amount"`
}

func (h *LedgerHandler) Approve(w http.ResponseWriter, r *http.Request) {
	var req approveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	req.Spender = strings.TrimSpace(req.Spender)
	if req.Spender == "" || req.Amount < 0 {
		http.Error(w, "spender and a non-negative amount are required", http.StatusBadRequest)
		return
	}

	if err := h.ledger.Approve(r.Context(), callerAccount(r), req.Spender, req.Amount); err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, map[string]string{"status": "approved"}, http.StatusOK)
}

func (h *LedgerHandler) GetAllowance(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	owner := strings.TrimSpace(q.Get("owner"))
	spender := strings.TrimSpace(q.Get("spender"))
	if owner == "" || spender == "" {
		http.Error(w, "owner and spender are required", http.StatusBadRequest)
		return
	}

	amount, err := h.ledger.Allowance(r.Context(), owner, spender)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	resp := map[string]any{
		"owner":     owner,
		"spender":   spender,
		"allowance": amount,
	}
	writeJSON(w, resp, http.StatusOK)
}

func (h *LedgerHandler) Balance(w http.ResponseWriter, r *http.Request) {
	account := mux.Vars(r)["account"]
	if account == "" {
		http.Error(w, "account is required", http.StatusBadRequest)
		return
	}

	balance, err := h.ledger.BalanceOf(r.Context(), account)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	resp := map[string]any{
		"account": account,
		"balance": balance,
	}
	writeJSON(w, resp, http.StatusOK)
}

type transferRequest struct {
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

func (h *LedgerHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	req.To = strings.TrimSpace(req.To)
	if req.To == "" || req.Amount <= 0 {
		http.Error(w, "to and a positive amount are required", http.StatusBadRequest)
		return
	}

	if err := h.ledger.Transfer(r.Context(), callerAccount(r), req.To, req.Amount); err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, map[string]string{"status": "transferred"}, http.StatusOK)
}

type transferFromRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

func (h *LedgerHandler) TransferFrom(w http.ResponseWriter, r *http.Request) {
	var req transferFromRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	req.From = strings.TrimSpace(req.From)
	req.To = strings.TrimSpace(req.To)
	if req.From == "" || req.To == "" || req.Amount <= 0 {
		http.Error(w, "from, to and a positive amount are required", http.StatusBadRequest)
		return
	}

	if err := h.ledger.TransferFrom(r.Context(), callerAccount(r), req.From, req.To, req.Amount); err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, map[string]string{"status": "transferred"}, http.StatusOK)
}
