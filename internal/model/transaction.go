package model

import "time"

// Transaction types.
const (
	TypeIncome  = "INCOME"
	TypeExpense = "EXPENSE"
)

// Categories is the free-form suggestion list offered by the UI.
var Categories = []string{
	"Élelmiszer",
	"Lakhatás",
	"Szórakozás",
	"Utazás",
	"Egyéb",
	"Fizetés",
	"Megtakarítás",
}

// Transaction is a dated income or expense record. Date is a calendar day
// (YYYY-MM-DD, no time component). Rows are never hard-mutated after
// creation except for the soft-delete marker.
type Transaction struct {
	ID                  int64      `json:"id"`
	Type                string     `json:"type"`
	Amount              float64    `json:"amount"`
	Description         string     `json:"description"`
	Category            string     `json:"category"`
	Date                string     `json:"date"`
	CreatedBy           int64      `json:"created_by"`
	IsRecurringInstance bool       `json:"is_recurring_instance"`
	RecurringItemID     *int64     `json:"recurring_item_id,omitempty"`
	DeletedAt           *time.Time `json:"deleted_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}
