package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/Fruktoz0/homebudgetdemo/internal/auth"
	"github.com/Fruktoz0/homebudgetdemo/internal/model"
	"github.com/Fruktoz0/homebudgetdemo/internal/store"
	"github.com/Fruktoz0/homebudgetdemo/internal/websocket"
)

type SavingHandler struct {
	savingStore *store.SavingStore
	hub         *websocket.Hub
	logger      *slog.Logger
}

func NewSavingHandler(ss *store.SavingStore, hub *websocket.Hub, logger *slog.Logger) *SavingHandler {
	return &SavingHandler{savingStore: ss, hub: hub, logger: logger}
}

// List handles GET /api/savings. Goals already soft-deleted are excluded.
func (h *SavingHandler) List(w http.ResponseWriter, r *http.Request) {
	householdID := auth.HouseholdID(r.Context())
	if householdID == 0 {
		writeError(w, http.StatusForbidden, "household membership required")
		return
	}

	goals, err := h.savingStore.ListActive(householdID)
	if err != nil {
		h.logger.Error("list savings", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if goals == nil {
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	writeJSON(w, http.StatusOK, goals)
}

type createSavingRequest struct {
	Name          string   `json:"name"`
	CurrentAmount float64  `json:"current_amount"`
	TargetAmount  *float64 `json:"target_amount"`
	Color         *string  `json:"color"`
}

// Create handles POST /api/savings. The initial amount is not written to
// the goal's log; only later balance updates are.
func (h *SavingHandler) Create(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())
	if ac.HouseholdID == 0 {
		writeError(w, http.StatusForbidden, "household membership required")
		return
	}

	var req createSavingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	created, err := h.savingStore.Create(model.SavingGoal{
		HouseholdID:   ac.HouseholdID,
		Name:          strings.TrimSpace(req.Name),
		CurrentAmount: req.CurrentAmount,
		TargetAmount:  req.TargetAmount,
		Color:         req.Color,
	}, ac.UserID)
	if err != nil {
		h.logger.Error("create saving", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.hub.Broadcast(ac.HouseholdID, websocket.NewMessage("saving", "created", created.ID))
	writeJSON(w, http.StatusCreated, created)
}

type balanceRequest struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

// UpdateBalance handles POST /api/savings/{id}/balance. Amount is a signed
// delta: positive deposits, negative withdrawals. The balance has no floor.
func (h *SavingHandler) UpdateBalance(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())
	if ac.HouseholdID == 0 {
		writeError(w, http.StatusForbidden, "household membership required")
		return
	}

	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req balanceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Amount == 0 {
		writeError(w, http.StatusBadRequest, "amount must be non-zero")
		return
	}

	if !h.ownGoal(w, id, ac.HouseholdID) {
		return
	}

	updated, err := h.savingStore.UpdateBalance(id, req.Amount, strings.TrimSpace(req.Description), ac.UserID)
	if err != nil {
		h.logger.Error("update saving balance", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "saving goal not found")
		return
	}

	h.hub.Broadcast(ac.HouseholdID, websocket.NewMessage("saving", "updated", id))
	writeJSON(w, http.StatusOK, updated)
}

// Logs handles GET /api/savings/{id}/logs, newest first.
func (h *SavingHandler) Logs(w http.ResponseWriter, r *http.Request) {
	householdID := auth.HouseholdID(r.Context())
	if householdID == 0 {
		writeError(w, http.StatusForbidden, "household membership required")
		return
	}

	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if !h.ownGoal(w, id, householdID) {
		return
	}

	logs, err := h.savingStore.Logs(id)
	if err != nil {
		h.logger.Error("list saving logs", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if logs == nil {
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// Delete handles DELETE /api/savings/{id}
func (h *SavingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())
	if ac.HouseholdID == 0 {
		writeError(w, http.StatusForbidden, "household membership required")
		return
	}

	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if !h.ownGoal(w, id, ac.HouseholdID) {
		return
	}

	ok, err := h.savingStore.SoftDelete(id, ac.UserID)
	if err != nil {
		h.logger.Error("delete saving", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "saving goal not found")
		return
	}

	h.hub.Broadcast(ac.HouseholdID, websocket.NewMessage("saving", "deleted", id))
	w.WriteHeader(http.StatusNoContent)
}

// ownGoal writes a 404 and returns false unless the goal exists and belongs
// to the household.
func (h *SavingHandler) ownGoal(w http.ResponseWriter, goalID, householdID int64) bool {
	goal, err := h.savingStore.GetByID(goalID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return false
	}
	if goal == nil || goal.HouseholdID != householdID {
		writeError(w, http.StatusNotFound, "saving goal not found")
		return false
	}
	return true
}
