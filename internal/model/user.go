package model

import "time"

// Membership status values. An empty status on an older row is treated as
// approved (legacy accounts created before the approval workflow existed).
const (
	StatusApproved = "APPROVED"
	StatusPending  = "PENDING"
)

type User struct {
	ID               int64     `json:"id"`
	Email            string    `json:"email"`
	DisplayName      string    `json:"display_name"`
	HouseholdID      *int64    `json:"household_id"`
	MembershipStatus string    `json:"membership_status,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Approved reports whether the user counts as an approved member.
func (u *User) Approved() bool {
	return u.MembershipStatus == StatusApproved || u.MembershipStatus == ""
}
