// Package autopay evaluates which auto-pay recurring items are due and
// materializes them as transactions. The scan runs once per
// household-session load and is idempotent: within a month each item
// produces at most one instance, and months the household never loaded are
// not backfilled.
package autopay

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Fruktoz0/homebudgetdemo/internal/metrics"
	"github.com/Fruktoz0/homebudgetdemo/internal/model"
	"github.com/Fruktoz0/homebudgetdemo/internal/store"
)

type Scheduler struct {
	recurring    *store.RecurringStore
	transactions *store.TransactionStore
	logger       *slog.Logger

	// now is swappable for tests.
	now func() time.Time
}

func NewScheduler(rs *store.RecurringStore, ts *store.TransactionStore, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		recurring:    rs,
		transactions: ts,
		logger:       logger,
		now:          time.Now,
	}
}

// Run scans the household's active auto-pay items and creates a transaction
// for each one that is due and unpaid this calendar month. Materialized
// transactions go through the shared creation path, so each is audit-logged
// as a normal creation attributed to userID (the session user who triggered
// the scan). Returns the number of transactions created.
func (s *Scheduler) Run(householdID, userID int64) (int, error) {
	metrics.AutoPayRuns.Inc()

	items, err := s.recurring.ListActive(householdID)
	if err != nil {
		return 0, fmt.Errorf("list recurring items: %w", err)
	}

	var autoPay []model.RecurringItem
	for _, item := range items {
		if item.AutoPay {
			autoPay = append(autoPay, item)
		}
	}
	if len(autoPay) == 0 {
		return 0, nil
	}

	today := s.now()
	first, last := monthBounds(today)
	monthTx, err := s.transactions.ListByHouseholdBetween(householdID, first, last)
	if err != nil {
		return 0, fmt.Errorf("list month transactions: %w", err)
	}

	paid := make(map[int64]bool)
	for _, t := range monthTx {
		if t.RecurringItemID != nil {
			paid[*t.RecurringItemID] = true
		}
	}

	created := 0
	for _, item := range autoPay {
		if paid[item.ID] {
			continue
		}

		// Clamp the configured day into the current month so a payDay of
		// 31 still fires on the 30th of a 30-day month.
		day := 1
		if item.PayDay != nil {
			day = *item.PayDay
		}
		if lastDay := lastDayOfMonth(today); day > lastDay {
			day = lastDay
		}
		if today.Day() < day {
			continue
		}

		// Dated on the nominal due day, not today: monthly reporting stays
		// aligned even when the household opens the app late.
		id := item.ID
		date := fmt.Sprintf("%04d-%02d-%02d", today.Year(), today.Month(), day)
		_, err := s.transactions.Create(model.Transaction{
			Type:                item.Type,
			Amount:              item.Amount,
			Description:         item.Name,
			Category:            item.Category,
			Date:                date,
			CreatedBy:           userID,
			IsRecurringInstance: true,
			RecurringItemID:     &id,
		})
		if err != nil {
			return created, fmt.Errorf("materialize %q: %w", item.Name, err)
		}
		created++
		metrics.AutoPayMaterialized.Inc()
		s.logger.Info("auto-payment materialized",
			"household_id", householdID, "item", item.Name, "date", date, "amount", item.Amount)
	}
	return created, nil
}

// monthBounds returns the first and last calendar day of t's month as
// YYYY-MM-DD strings (inclusive bounds, local calendar, not a rolling
// 30-day window).
func monthBounds(t time.Time) (string, string) {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1)
	return first.Format("2006-01-02"), last.Format("2006-01-02")
}

func lastDayOfMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, 1, -1).Day()
}
