package model

import "time"

// SavingGoal tracks a named pot of money. CurrentAmount is a running
// balance mutated only through the balance-update operation and may go
// negative; no floor is enforced.
type SavingGoal struct {
	ID            int64      `json:"id"`
	HouseholdID   int64      `json:"household_id"`
	Name          string     `json:"name"`
	CurrentAmount float64    `json:"current_amount"`
	TargetAmount  *float64   `json:"target_amount,omitempty"`
	Color         *string    `json:"color,omitempty"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// SavingLog is one append-only entry per balance mutation. Amount carries
// the same signed delta that was applied: positive for deposits, negative
// for withdrawals.
type SavingLog struct {
	ID           int64     `json:"id"`
	SavingGoalID int64     `json:"saving_goal_id"`
	Amount       float64   `json:"amount"`
	Description  string    `json:"description,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
