package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/workhive/workhive/internal/models"
	"github.com/workhive/workhive/internal/resume"
)

const workExperienceSchema = "work_experience"

type ResumeHandler struct {
	engine *resume.Engine
	loader *SchemaLoader
}

func NewResumeHandler(e *resume.Engine, l *SchemaLoader) *ResumeHandler {
	return &ResumeHandler{engine: e, loader: l}
}

type addWorkExperienceRequest struct {
	UserID      int64    `json:"user_id"`
	JobTitle    string   `json:"job_title"`
	Description string   `json:"description"`
	StartDate   int64    `json:"start_date"`
	EndDate     int64    `json:"end_date"`
	Skills      []string `json:"skills"`
}

type addWorkExperienceResponse struct {
	ID int64 `json:"id"`
}

func (h *ResumeHandler) AddWorkExperience(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if err := h.loader.Validate(r.Context(), workExperienceSchema, body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req addWorkExperienceRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	req.JobTitle = strings.TrimSpace(req.JobTitle)
	if req.UserID < 0 || req.JobTitle == "" {
		http.Error(w, "user_id and job_title are required", http.StatusBadRequest)
		return
	}

	id, err := h.engine.AddWorkExperience(r.Context(), callerAccount(r), req.UserID,
		req.JobTitle, req.Description, req.StartDate, req.EndDate, req.Skills)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, addWorkExperienceResponse{ID: id}, http.StatusCreated)
}

func (h *ResumeHandler) GetWorkHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	items, err := h.engine.GetWorkHistory(r.Context(), id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if items == nil {
		items = []models.WorkExperience{}
	}

	writeJSON(w, map[string]any{"items": items}, http.StatusOK)
}

type addReviewRequest struct {
	ReviewerID int64  `json:"reviewer_id"`
	SubjectID  int64  `json:"subject_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}

type addReviewResponse struct {
	ID int64 `json:"id"`
}

func (h *ResumeHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	var req addReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.ReviewerID < 0 || req.SubjectID < 0 {
		http.Error(w, "reviewer_id and subject_id are required", http.StatusBadRequest)
		return
	}

	id, err := h.engine.AddReview(r.Context(), req.ReviewerID, req.SubjectID, req.Rating, req.Comment)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, addReviewResponse{ID: id}, http.StatusCreated)
}

func (h *ResumeHandler) GetReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	items, err := h.engine.GetReviews(r.Context(), id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if items == nil {
		items = []models.Review{}
	}

	writeJSON(w, map[string]any{"items": items}, http.StatusOK)
}

func (h *ResumeHandler) GetReputationScore(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	score, err := h.engine.GetReputationScore(r.Context(), id)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	resp := map[string]any{
		"user_id": id,
		"score":   score,
	}
	writeJSON(w, resp, http.StatusOK)
}
