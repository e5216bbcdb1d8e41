// Package export renders household data into downloadable formats.
package export

import (
	"fmt"
	"strings"

	"github.com/Fruktoz0/homebudgetdemo/internal/model"
)

const csvHeader = "Dátum;Típus;Kategória;Leírás;Összeg;Létrehozta"

// TransactionsCSV renders transactions as a semicolon-separated table.
// Free-text fields have any ';' stripped instead of being quoted, so the
// output stays a plain split-on-semicolon file for spreadsheet imports.
// names maps user IDs to display names; unknown creators render as "?".
func TransactionsCSV(transactions []model.Transaction, names map[int64]string) string {
	var b strings.Builder
	b.WriteString(csvHeader)
	b.WriteByte('\n')

	for _, t := range transactions {
		creator := names[t.CreatedBy]
		if creator == "" {
			creator = "?"
		}
		b.WriteString(strings.Join([]string{
			t.Date,
			t.Type,
			sanitize(t.Category),
			sanitize(t.Description),
			formatAmount(t.Amount),
			sanitize(creator),
		}, ";"))
		b.WriteByte('\n')
	}
	return b.String()
}

func sanitize(s string) string {
	return strings.ReplaceAll(s, ";", "")
}

// formatAmount prints whole amounts without a decimal tail, fractional
// ones with two digits.
func formatAmount(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
