package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/workhive/workhive/internal/identity"
	"github.com/workhive/workhive/internal/models"
)

type UsersHandler struct {
	registry *identity.Registry
}

func NewUsersHandler(reg *identity.Registry) *UsersHandler {
	return &UsersHandler{registry: reg}
}

type registerUserRequest struct {
	Kind     string `json:"kind"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

type registerUserResponse struct {
	UserID int64 `json:"user_id"`
}

func (h *UsersHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req registerUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		http.Error(w, "username is required", http.StatusBadRequest)
		return
	}

	var kind models.UserKind
	switch strings.ToLower(strings.TrimSpace(req.Kind)) {
	case "freelancer":
		kind = models.KindFreelancer
	case "client":
		kind = models.KindClient
	default:
		http.Error(w, "kind must be freelancer or client", http.StatusBadRequest)
		return
	}

	id, err := h.registry.Register(r.Context(), callerAccount(r), kind, req.Username, req.Name, req.Email)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, registerUserResponse{UserID: id}, http.StatusCreated)
}

func (h *UsersHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	u, err := h.registry.GetUser(r.Context(), id)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, u, http.StatusOK)
}

type updateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h *UsersHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if err := h.registry.UpdateUser(r.Context(), callerAccount(r), id, req.Name, req.Email); err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, map[string]string{"status": "updated"}, http.StatusOK)
}

func (h *UsersHandler) UserRoles(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	isFreelancer, err := h.registry.IsFreelancer(r.Context(), id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	isClient, err := h.registry.IsClient(r.Context(), id)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	resp := map[string]bool{
		"is_freelancer": isFreelancer,
		"is_client":     isClient,
	}
	writeJSON(w, resp, http.StatusOK)
}

func (h *UsersHandler) RegistryOwner(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"owner": h.registry.Owner()}, http.StatusOK)
}

type transferOwnershipRequest struct {
	NewOwner string `json:"new_owner"`
}

func (h *UsersHandler) TransferOwnership(w http.ResponseWriter, r *http.Request) {
	var req transferOwnershipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	req.NewOwner = strings.TrimSpace(req.NewOwner)
	if req.NewOwner == "" {
		http.Error(w, "new_owner is required", http.StatusBadRequest)
		return
	}

	if err := h.registry.TransferOwnership(r.Context(), callerAccount(r), req.NewOwner); err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, map[string]string{"owner": req.NewOwner}, http.StatusOK)
}

// pathID parses a numeric {name} path variable, writing a 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		http.Error(w, "invalid "+name, http.StatusBadRequest)
		return 0, false
	}

	return id, true
}
