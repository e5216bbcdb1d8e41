package model

import "time"

// Recurring item frequencies. The value is informational: the auto-payment
// scheduler evaluates a monthly cadence regardless (see internal/autopay).
const (
	FrequencyMonthly   = "MONTHLY"
	FrequencyQuarterly = "QUARTERLY"
	FrequencyYearly    = "YEARLY"
)

// RecurringItem is a planned repeating expense or income. PayDay (1..31) is
// meaningful only when AutoPay is set; stores clear it otherwise. Soft
// deletion flips Active to false.
type RecurringItem struct {
	ID          int64     `json:"id"`
	HouseholdID int64     `json:"household_id"`
	Type        string    `json:"type"`
	Name        string    `json:"name"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Frequency   string    `json:"frequency"`
	Active      bool      `json:"active"`
	AutoPay     bool      `json:"auto_pay"`
	PayDay      *int      `json:"pay_day,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
