package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Fruktoz0/homebudgetdemo/internal/auth"
	"github.com/Fruktoz0/homebudgetdemo/internal/export"
	"github.com/Fruktoz0/homebudgetdemo/internal/model"
	"github.com/Fruktoz0/homebudgetdemo/internal/store"
	"github.com/Fruktoz0/homebudgetdemo/internal/websocket"
)

type TransactionHandler struct {
	transactionStore *store.TransactionStore
	householdStore   *store.HouseholdStore
	hub              *websocket.Hub
	logger           *slog.Logger
}

func NewTransactionHandler(ts *store.TransactionStore, hs *store.HouseholdStore, hub *websocket.Hub, logger *slog.Logger) *TransactionHandler {
	return &TransactionHandler{
		transactionStore: ts,
		householdStore:   hs,
		hub:              hub,
		logger:           logger,
	}
}

// List handles GET /api/transactions
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	householdID := auth.HouseholdID(r.Context())
	if householdID == 0 {
		writeError(w, http.StatusForbidden, "household membership required")
		return
	}

	transactions, err := h.transactionStore.ListByHousehold(householdID)
	if err != nil {
		h.logger.Error("list transactions", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if transactions == nil {
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	writeJSON(w, http.StatusOK, transactions)
}

type createTransactionRequest struct {
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
}

// Create handles POST /api/transactions
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())
	if ac.HouseholdID == 0 {
		writeError(w, http.StatusForbidden, "household membership required")
		return
	}

	var req createTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if req.Type != model.TypeIncome && req.Type != model.TypeExpense {
		writeError(w, http.StatusBadRequest, "type must be INCOME or EXPENSE")
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		writeError(w, http.StatusBadRequest, "description is required")
		return
	}
	if req.Date == "" {
		req.Date = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	created, err := h.transactionStore.Create(model.Transaction{
		Type:        req.Type,
		Amount:      req.Amount,
		Description: strings.TrimSpace(req.Description),
		Category:    strings.TrimSpace(req.Category),
		Date:        req.Date,
		CreatedBy:   ac.UserID,
	})
	if err != nil {
		h.logger.Error("create transaction", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.hub.Broadcast(ac.HouseholdID, websocket.NewMessage("transaction", "created", created.ID))
	writeJSON(w, http.StatusCreated, created)
}

// Delete handles DELETE /api/transactions/{id}: a soft delete that keeps
// the row and snapshots it into the audit trail.
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	ok, err := h.transactionStore.SoftDelete(id, ac.UserID, ac.HouseholdID)
	if err != nil {
		h.logger.Error("delete transaction", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}

	h.hub.Broadcast(ac.HouseholdID, websocket.NewMessage("transaction", "deleted", id))
	w.WriteHeader(http.StatusNoContent)
}

// Export handles GET /api/transactions/export
func (h *TransactionHandler) Export(w http.ResponseWriter, r *http.Request) {
	householdID := auth.HouseholdID(r.Context())
	if householdID == 0 {
		writeError(w, http.StatusForbidden, "household membership required")
		return
	}

	transactions, err := h.transactionStore.ListByHousehold(householdID)
	if err != nil {
		h.logger.Error("export transactions", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	members, err := h.householdStore.ListMembers(householdID)
	if err != nil {
		h.logger.Error("export members", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	names := make(map[int64]string, len(members))
	for _, m := range members {
		names[m.UserID] = m.DisplayName
	}

	filename := "tranzakciok_" + time.Now().Format("2006-01-02") + ".csv"
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Write([]byte(export.TransactionsCSV(transactions, names)))
}

// Categories handles GET /api/categories, the suggestion list for the UI.
func (h *TransactionHandler) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.Categories)
}
