package model

import "time"

// Supported household currencies.
const (
	CurrencyHUF = "HUF"
	CurrencyEUR = "EUR"
	CurrencyUSD = "USD"
)

// Household is the shared budget scope. OwnerID is nil when the last
// approved member left and no transfer candidate remained.
type Household struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	InviteCode string    `json:"invite_code"`
	OwnerID    *int64    `json:"owner_id"`
	Currency   string    `json:"currency"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// HouseholdMember is a denormalized snapshot of a user inside a household.
// DisplayName and Email are copies kept in sync with the users table through
// the store's single write path; they are never mutated directly.
type HouseholdMember struct {
	ID               int64     `json:"id"`
	HouseholdID      int64     `json:"household_id"`
	UserID           int64     `json:"user_id"`
	DisplayName      string    `json:"display_name"`
	Email            string    `json:"email"`
	MembershipStatus string    `json:"membership_status,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// Approved reports whether the member snapshot counts as approved,
// treating the legacy empty status as approved.
func (m *HouseholdMember) Approved() bool {
	return m.MembershipStatus == StatusApproved || m.MembershipStatus == ""
}
