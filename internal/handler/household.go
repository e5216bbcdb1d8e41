package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/Fruktoz0/homebudgetdemo/internal/auth"
	"github.com/Fruktoz0/homebudgetdemo/internal/store"
	"github.com/Fruktoz0/homebudgetdemo/internal/websocket"
)

type HouseholdHandler struct {
	householdStore *store.HouseholdStore
	hub            *websocket.Hub
	logger         *slog.Logger
}

func NewHouseholdHandler(hs *store.HouseholdStore, hub *websocket.Hub, logger *slog.Logger) *HouseholdHandler {
	return &HouseholdHandler{householdStore: hs, hub: hub, logger: logger}
}

type createHouseholdRequest struct {
	Name string `json:"name"`
}

// Create handles POST /api/households
func (h *HouseholdHandler) Create(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())
	if ac.HouseholdID != 0 {
		writeError(w, http.StatusConflict, "already a member of a household")
		return
	}

	var req createHouseholdRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	household, err := h.householdStore.Create(req.Name, ac.UserID)
	if err != nil {
		h.logger.Error("create household", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.logger.Info("household created", "household_id", household.ID, "owner_id", ac.UserID)
	writeJSON(w, http.StatusCreated, household)
}

// Current handles GET /api/households/current
func (h *HouseholdHandler) Current(w http.ResponseWriter, r *http.Request) {
	householdID := auth.HouseholdID(r.Context())
	if householdID == 0 {
		writeError(w, http.StatusNotFound, "no household")
		return
	}

	household, err := h.householdStore.GetByID(householdID)
	if err != nil {
		h.logger.Error("get household", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if household == nil {
		writeError(w, http.StatusNotFound, "no household")
		return
	}

	members, err := h.householdStore.ListMembers(householdID)
	if err != nil {
		h.logger.Error("list members", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"household": household,
		"members":   members,
	})
}

type joinRequest struct {
	Code string `json:"code"`
}

// Join handles POST /api/households/join. A code that matches nothing is a
// normal outcome, reported as joined=false rather than an error status.
func (h *HouseholdHandler) Join(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())
	if ac.HouseholdID != 0 {
		writeError(w, http.StatusConflict, "already a member of a household")
		return
	}

	var req joinRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Code = strings.TrimSpace(req.Code)
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, "code is required")
		return
	}

	joined, err := h.householdStore.Join(req.Code, ac.UserID)
	if err != nil {
		h.logger.Error("join household", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if joined {
		if householdID, err := h.householdStore.HouseholdOfUser(ac.UserID); err == nil && householdID != 0 {
			h.hub.Broadcast(householdID, websocket.NewMessage("member", "joined", ac.UserID))
		}
	}
	writeJSON(w, http.StatusOK, map[string]bool{"joined": joined})
}

// Approve handles POST /api/households/members/{id}/approve. Owner only.
func (h *HouseholdHandler) Approve(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())

	memberID, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if !h.requireOwner(w, ac.HouseholdID, ac.UserID) {
		return
	}

	ok, err := h.householdStore.ApproveMember(ac.HouseholdID, memberID, ac.UserID)
	if err != nil {
		h.logger.Error("approve member", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "member not found")
		return
	}

	h.hub.Broadcast(ac.HouseholdID, websocket.NewMessage("member", "approved", memberID))
	writeJSON(w, http.StatusOK, map[string]string{"status": "approved"})
}

// Remove handles DELETE /api/households/members/{id}. A member may remove
// themself (leave); removing anyone else requires ownership.
func (h *HouseholdHandler) Remove(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())

	memberID, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if memberID != ac.UserID && !h.requireOwner(w, ac.HouseholdID, ac.UserID) {
		return
	}

	ok, err := h.householdStore.RemoveMember(ac.HouseholdID, memberID, ac.UserID)
	if err != nil {
		h.logger.Error("remove member", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "member not found")
		return
	}

	h.hub.Broadcast(ac.HouseholdID, websocket.NewMessage("member", "removed", memberID))
	w.WriteHeader(http.StatusNoContent)
}

// requireOwner writes a 403 and returns false unless userID owns the
// household.
func (h *HouseholdHandler) requireOwner(w http.ResponseWriter, householdID, userID int64) bool {
	household, err := h.householdStore.GetByID(householdID)
	if err != nil || household == nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return false
	}
	if household.OwnerID == nil || *household.OwnerID != userID {
		writeError(w, http.StatusForbidden, "owner only")
		return false
	}
	return true
}
