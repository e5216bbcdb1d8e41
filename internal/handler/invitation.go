package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/Fruktoz0/homebudgetdemo/internal/auth"
	"github.com/Fruktoz0/homebudgetdemo/internal/store"
)

type InvitationHandler struct {
	invitationStore *store.InvitationStore
	logger          *slog.Logger
}

func NewInvitationHandler(is *store.InvitationStore, logger *slog.Logger) *InvitationHandler {
	return &InvitationHandler{invitationStore: is, logger: logger}
}

type createInvitationRequest struct {
	Email string `json:"email"`
}

// Create handles POST /api/invitations
func (h *InvitationHandler) Create(w http.ResponseWriter, r *http.Request) {
	householdID := auth.HouseholdID(r.Context())
	if householdID == 0 {
		writeError(w, http.StatusForbidden, "household membership required")
		return
	}

	var req createInvitationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	inv, err := h.invitationStore.Create(householdID, req.Email)
	if err != nil {
		h.logger.Error("create invitation", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, inv)
}

// List handles GET /api/invitations. Only pending invitations are returned.
func (h *InvitationHandler) List(w http.ResponseWriter, r *http.Request) {
	householdID := auth.HouseholdID(r.Context())
	if householdID == 0 {
		writeError(w, http.StatusForbidden, "household membership required")
		return
	}

	invitations, err := h.invitationStore.ListPending(householdID)
	if err != nil {
		h.logger.Error("list invitations", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if invitations == nil {
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	writeJSON(w, http.StatusOK, invitations)
}

// Revoke handles POST /api/invitations/{id}/revoke. Only a still-pending
// invitation can be revoked; anything else is reported as not found.
func (h *InvitationHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	householdID := auth.HouseholdID(r.Context())

	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	inv, err := h.invitationStore.GetByID(id)
	if err != nil {
		h.logger.Error("get invitation", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if inv == nil || inv.HouseholdID != householdID {
		writeError(w, http.StatusNotFound, "invitation not found")
		return
	}

	ok, err := h.invitationStore.Revoke(id)
	if err != nil {
		h.logger.Error("revoke invitation", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "invitation not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "revoked"})
}
