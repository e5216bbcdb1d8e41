package model

import (
	"encoding/json"
	"time"
)

// Audit action types. Snapshots are deliberately partial for most actions;
// DELETE_TRANSACTION carries the full pre-delete record.
const (
	ActionCreateHousehold     = "CREATE_HOUSEHOLD"
	ActionJoinHousehold       = "JOIN_HOUSEHOLD"
	ActionApproveMember       = "APPROVE_MEMBER"
	ActionRemoveMember        = "REMOVE_MEMBER"
	ActionUpdateUserProfile   = "UPDATE_USER_PROFILE"
	ActionCreateTransaction   = "CREATE_TRANSACTION"
	ActionDeleteTransaction   = "DELETE_TRANSACTION"
	ActionCreateRecurring     = "CREATE_RECURRING"
	ActionUpdateRecurring     = "UPDATE_RECURRING"
	ActionDeleteRecurring     = "DELETE_RECURRING"
	ActionCreateSaving        = "CREATE_SAVING"
	ActionUpdateSavingBalance = "UPDATE_SAVING_BALANCE"
	ActionDeleteSaving        = "DELETE_SAVING"
)

// AuditLog is one immutable entry in a household's compliance trail.
// UID is a stable external identifier for exports and cross-references.
// Payload holds the JSON snapshot of the relevant data at action time.
type AuditLog struct {
	ID          int64           `json:"id"`
	UID         string          `json:"uid"`
	HouseholdID int64           `json:"household_id"`
	ActionType  string          `json:"action_type"`
	Payload     json.RawMessage `json:"payload"`
	PerformedBy int64           `json:"performed_by"`
	CreatedAt   time.Time       `json:"created_at"`
}
