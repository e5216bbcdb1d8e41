package model

import "time"

// Invitation lifecycle states. ACCEPTED and REVOKED are terminal: a code in
// either state never satisfies a join again.
const (
	InvitationPending  = "PENDING"
	InvitationAccepted = "ACCEPTED"
	InvitationRevoked  = "REVOKED"
)

// Invitation is a per-email one-time join code, distinct from the
// household's shared invite code.
type Invitation struct {
	ID          int64     `json:"id"`
	HouseholdID int64     `json:"household_id"`
	Email       string    `json:"email"`
	Code        string    `json:"code"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
