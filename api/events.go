package api

import (
	"net/http"
	"strconv"

	"github.com/workhive/workhive/internal/models"
	"github.com/workhive/workhive/pkg/repository"
)

type EventsHandler struct {
	eventRepo repository.EventRepo
}

func NewEventsHandler(er repository.EventRepo) *EventsHandler {
	return &EventsHandler{eventRepo: er}
}

func (h *EventsHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
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

	items, err := h.eventRepo.ListEvents(r.Context(), limit, offset)
	if err != nil {
		http.Error(w, "failed to list events", http.StatusInternalServerError)
		return
	}

	total, err := h.eventRepo.CountEvents(r.Context())
	if err != nil {
		http.Error(w, "failed to count events", http.StatusInternalServerError)
		return
	}

	if items == nil {
		items = []models.Event{}
	}

	resp := map[string]any{
		"total":  total,
		"limit":  limit,
		"offset": offset,
		"items":  items,
	}
	writeJSON(w, resp, http.StatusOK)
}
