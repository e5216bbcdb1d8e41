package handler

import (
	"log/slog"
	"net/http"

	"github.com/Fruktoz0/homebudgetdemo/internal/auth"
	"github.com/Fruktoz0/homebudgetdemo/internal/store"
)

type AuditHandler struct {
	auditStore *store.AuditStore
	logger     *slog.Logger
}

func NewAuditHandler(as *store.AuditStore, logger *slog.Logger) *AuditHandler {
	return &AuditHandler{auditStore: as, logger: logger}
}

// List handles GET /api/audit-logs: the household's trail, newest first.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	householdID := auth.HouseholdID(r.Context())
	if householdID == 0 {
		writeError(w, http.StatusForbidden, "household membership required")
		return
	}

	entries, err := h.auditStore.ListByHousehold(householdID)
	if err != nil {
		h.logger.Error("list audit logs", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if entries == nil {
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
