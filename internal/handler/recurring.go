package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/Fruktoz0/homebudgetdemo/internal/auth"
	"github.com/Fruktoz0/homebudgetdemo/internal/autopay"
	"github.com/Fruktoz0/homebudgetdemo/internal/model"
	"github.com/Fruktoz0/homebudgetdemo/internal/store"
	"github.com/Fruktoz0/homebudgetdemo/internal/websocket"
)

type RecurringHandler struct {
	recurringStore *store.RecurringStore
	scheduler      *autopay.Scheduler
	hub            *websocket.Hub
	logger         *slog.Logger
}

func NewRecurringHandler(rs *store.RecurringStore, scheduler *autopay.Scheduler, hub *websocket.Hub, logger *slog.Logger) *RecurringHandler {
	return &RecurringHandler{
		recurringStore: rs,
		scheduler:      scheduler,
		hub:            hub,
		logger:         logger,
	}
}

// List handles GET /api/recurring. Only active items are returned.
func (h *RecurringHandler) List(w http.ResponseWriter, r *http.Request) {
	householdID := auth.HouseholdID(r.Context())
	if householdID == 0 {
		writeError(w, http.StatusForbidden, "household membership required")
		return
	}

	items, err := h.recurringStore.ListActive(householdID)
	if err != nil {
		h.logger.Error("list recurring", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if items == nil {
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type recurringRequest struct {
	Type      string  `json:"type"`
	Name      string  `json:"name"`
	Amount    float64 `json:"amount"`
	Category  string  `json:"category"`
	Frequency string  `json:"frequency"`
	AutoPay   bool    `json:"auto_pay"`
	PayDay    *int    `json:"pay_day"`
}

func (req *recurringRequest) validate() string {
	if req.Type != model.TypeIncome && req.Type != model.TypeExpense {
		return "type must be INCOME or EXPENSE"
	}
	if strings.TrimSpace(req.Name) == "" {
		return "name is required"
	}
	if req.Amount <= 0 {
		return "amount must be positive"
	}
	switch req.Frequency {
	case "":
		req.Frequency = model.FrequencyMonthly
	case model.FrequencyMonthly, model.FrequencyQuarterly, model.FrequencyYearly:
	default:
		return "invalid frequency"
	}
	if req.PayDay != nil && (*req.PayDay < 1 || *req.PayDay > 31) {
		return "pay_day must be between 1 and 31"
	}
	return ""
}

// Create handles POST /api/recurring
func (h *RecurringHandler) Create(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())
	if ac.HouseholdID == 0 {
		writeError(w, http.StatusForbidden, "household membership required")
		return
	}

	var req recurringRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := h.recurringStore.Create(model.RecurringItem{
		HouseholdID: ac.HouseholdID,
		Type:        req.Type,
		Name:        strings.TrimSpace(req.Name),
		Amount:      req.Amount,
		Category:    strings.TrimSpace(req.Category),
		Frequency:   req.Frequency,
		AutoPay:     req.AutoPay,
		PayDay:      req.PayDay,
	}, ac.UserID)
	if err != nil {
		h.logger.Error("create recurring", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.hub.Broadcast(ac.HouseholdID, websocket.NewMessage("recurring", "created", created.ID))
	writeJSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/recurring/{id}: a full replace of the item's
// editable fields.
func (h *RecurringHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var req recurringRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	existing, err := h.recurringStore.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if existing == nil || existing.HouseholdID != ac.HouseholdID {
		writeError(w, http.StatusNotFound, "recurring item not found")
		return
	}

	updated, err := h.recurringStore.Update(model.RecurringItem{
		ID:          id,
		HouseholdID: ac.HouseholdID,
		Type:        req.Type,
		Name:        strings.TrimSpace(req.Name),
		Amount:      req.Amount,
		Category:    strings.TrimSpace(req.Category),
		Frequency:   req.Frequency,
		Active:      existing.Active,
		AutoPay:     req.AutoPay,
		PayDay:      req.PayDay,
	}, ac.UserID)
	if err != nil {
		h.logger.Error("update recurring", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "recurring item not found")
		return
	}

	h.hub.Broadcast(ac.HouseholdID, websocket.NewMessage("recurring", "updated", id))
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/recurring/{id}
func (h *RecurringHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	existing, err := h.recurringStore.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if existing == nil || existing.HouseholdID != ac.HouseholdID {
		writeError(w, http.StatusNotFound, "recurring item not found")
		return
	}

	ok, err := h.recurringStore.SoftDelete(id, ac.UserID)
	if err != nil {
		h.logger.Error("delete recurring", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "recurring item not found")
		return
	}

	h.hub.Broadcast(ac.HouseholdID, websocket.NewMessage("recurring", "deleted", id))
	w.WriteHeader(http.StatusNoContent)
}

// Process handles POST /api/recurring/process. It runs the auto-payment
// scheduler for the caller's household. Clients invoke it on session load;
// the run is idempotent within a calendar month.
func (h *RecurringHandler) Process(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())
	if ac.HouseholdID == 0 {
		writeError(w, http.StatusForbidden, "household membership required")
		return
	}

	created, err := h.scheduler.Run(ac.HouseholdID, ac.UserID)
	if err != nil {
		h.logger.Error("process recurring", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if created > 0 {
		h.hub.Broadcast(ac.HouseholdID, websocket.NewMessage("transaction", "created", 0))
	}
	writeJSON(w, http.StatusOK, map[string]int{"created": created})
}
