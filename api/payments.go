package api

import (
	"encoding/json"
	"net/http"

	"github.com/workhive/workhive/internal/escrow"
)

type PaymentsHandler struct {
	engine *escrow.Engine
}

func NewPaymentsHandler(e *escrow.Engine) *PaymentsHandler {
	return &PaymentsHandler{engine: e}
}

type initiatePaymentRequest struct {
	ClientID     int64 `json:"client_id"`
	FreelancerID int64 `json:"freelancer_id"`
	JobID        int64 `json:"job_id"`
	Amount       int64 `json:"amount"`
}

type initiatePaymentResponse struct {
	PaymentID int64 `json:"payment_id"`
}

func (h *PaymentsHandler) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	var req initiatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.ClientID < 0 || req.FreelancerID < 0 || req.JobID <= 0 || req.Amount <= 0 {
		http.Error(w, "client_id, freelancer_id, job_id and a positive amount are required", http.StatusBadRequest)
		return
	}

	id, err := h.engine.InitiatePayment(r.Context(), req.ClientID, req.FreelancerID, req.JobID, req.Amount)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, initiatePaymentResponse{PaymentID: id}, http.StatusCreated)
}

func (h *PaymentsHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	p, err := h.engine.GetPayment(r.Context(), id)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, p, http.StatusOK)
}

func (h *PaymentsHandler) CompletePayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.engine.CompletePayment(r.Context(), id); err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, map[string]string{"status": "completed"}, http.StatusOK)
}

func (h *PaymentsHandler) RefundPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.engine.RefundPayment(r.Context(), id); err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, map[string]string{"status": "refunded"}, http.StatusOK)
}
