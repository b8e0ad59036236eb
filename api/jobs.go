package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/workhive/workhive/internal/jobs"
	"github.com/workhive/workhive/internal/models"
)

type JobsHandler struct {
	engine *jobs.Engine
}

func NewJobsHandler(e *jobs.Engine) *JobsHandler {
	return &JobsHandler{engine: e}
}

type createJobRequest struct {
	ClientID      int64  `json:"client_id"`
	Description   string `json:"description"`
	PaymentAmount int64  `json:"payment_amount"`
}

type createJobResponse struct {
	JobID int64 `json:"job_id"`
}

func (h *JobsHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	req.Description = strings.TrimSpace(req.Description)
	if req.ClientID < 0 || req.Description == "" || req.PaymentAmount <= 0 {
		http.Error(w, "client_id, description and a positive payment_amount are required", http.StatusBadRequest)
		return
	}

	id, err := h.engine.ListJob(r.Context(), callerAccount(r), req.ClientID, req.Description, req.PaymentAmount)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, createJobResponse{JobID: id}, http.StatusCreated)
}

func (h *JobsHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	j, err := h.engine.GetJobDetails(r.Context(), id)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, j, http.StatusOK)
}

func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 50
	if l := q.Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 500 {
			limit = v
		}
	}
	offset := 0
	if o := q.Get("offset"); o != "" {
		if v, err := strconv.Atoi(o); err == nil && v >= 0 {
			offset = v
		}
	}

	items, err := h.engine.ListJobs(r.Context(), limit, offset)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if items == nil {
		items = []models.Job{}
	}

	resp := map[string]any{
		"limit":  limit,
		"offset": offset,
		"items":  items,
	}
	writeJSON(w, resp, http.StatusOK)
}

type updateJobRequest struct {
	Description   string `json:"description"`
	PaymentAmount int64  `json:"payment_amount"`
}

func (h *JobsHandler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req updateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	req.Description = strings.TrimSpace(req.Description)
	if req.Description == "" || req.PaymentAmount <= 0 {
		http.Error(w, "description and a positive payment_amount are required", http.StatusBadRequest)
		return
	}

	if err := h.engine.UpdateJob(r.Context(), callerAccount(r), id, req.Description, req.PaymentAmount); err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, map[string]string{"status": "updated"}, http.StatusOK)
}

type bidJobRequest struct {
	FreelancerID int64 `json:"freelancer_id"`
}

func (h *JobsHandler) BidJob(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req bidJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.FreelancerID < 0 {
		http.Error(w, "invalid freelancer_id", http.StatusBadRequest)
		return
	}

	if err := h.engine.BidJob(r.Context(), req.FreelancerID, id); err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, map[string]string{"status": "in_progress"}, http.StatusOK)
}

func (h *JobsHandler) CompleteJob(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.engine.CompleteJob(r.Context(), id); err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, map[string]string{"status": "completed"}, http.StatusOK)
}

func (h *JobsHandler) CancelJob(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.engine.CancelJob(r.Context(), callerAccount(r), id); err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, map[string]string{"status": "cancelled"}, http.StatusOK)
}
