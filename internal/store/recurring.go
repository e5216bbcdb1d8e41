package store

import (
	"database/sql"
	"fmt"

	"github.com/Fruktoz0/homebudgetdemo/internal/model"
)

type RecurringStore struct {
	db *sql.DB
}

func NewRecurringStore(db *sql.DB) *RecurringStore {
	return &RecurringStore{db: db}
}

func scanRecurringItem(scanner interface{ Scan(...any) error }) (*model.RecurringItem, error) {
	var item model.RecurringItem
	var payDay sql.NullInt64
	err := scanner.Scan(
		&item.ID, &item.HouseholdID, &item.Type, &item.Name, &item.Amount, &item.Category,
		&item.Frequency, &item.Active, &item.AutoPay, &payDay, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if payDay.Valid {
		d := int(payDay.Int64)
		item.PayDay = &d
	}
	return &item, nil
}

const recurringCols = `id, household_id, type, name, amount, category, frequency, active, auto_pay, pay_day, created_at, updated_at`

// payDayValue normalizes the pay day: it is meaningful only for auto-pay
// items and is stored NULL otherwise.
func payDayValue(item model.RecurringItem) any {
	if !item.AutoPay || item.PayDay == nil {
		return nil
	}
	return *item.PayDay
}

// ListActive returns the household's non-deleted recurring items.
func (s *RecurringStore) ListActive(householdID int64) ([]model.RecurringItem, error) {
	rows, err := s.db.Query(
		`SELECT `+recurringCols+` FROM recurring_items WHERE household_id = ? AND active = 1 ORDER BY id ASC`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("list recurring items: %w", err)
	}
	defer rows.Close()

	var items []model.RecurringItem
	for rows.Next() {
		item, err := scanRecurringItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recurring item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (s *RecurringStore) GetByID(id int64) (*model.RecurringItem, error) {
	row := s.db.QueryRow(`SELECT `+recurringCols+` FROM recurring_items WHERE id = ?`, id)
	item, err := scanRecurringItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get recurring item: %w", err)
	}
	return item, nil
}

func (s *RecurringStore) Create(item model.RecurringItem, actorID int64) (*model.RecurringItem, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO recurring_items (household_id, type, name, amount, category, frequency, active, auto_pay, pay_day)
		 VALUES (?, ?, ?, ?, ?, ?, 1, ?, ?)`,
		item.HouseholdID, item.Type, item.Name, item.Amount, item.Category, item.Frequency,
		item.AutoPay, payDayValue(item),
	)
	if err != nil {
		return nil, fmt.Errorf("insert recurring item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	payload := map[string]any{"name": item.Name, "amount": item.Amount}
	if err := appendAudit(tx, item.HouseholdID, model.ActionCreateRecurring, payload, actorID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetByID(id)
}

// Update replaces the full record: the caller supplies every field. No-op
// on unknown ids.
func (s *RecurringStore) Update(item model.RecurringItem, actorID int64) (*model.RecurringItem, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`UPDATE recurring_items
		 SET type = ?, name = ?, amount = ?, category = ?, frequency = ?, active = ?, auto_pay = ?, pay_day = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND household_id = ?`,
		item.Type, item.Name, item.Amount, item.Category, item.Frequency, item.Active,
		item.AutoPay, payDayValue(item), item.ID, item.HouseholdID,
	)
	if err != nil {
		return nil, fmt.Errorf("update recurring item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return nil, nil
	}

	payload := map[string]any{"name": item.Name, "amount": item.Amount}
	if err := appendAudit(tx, item.HouseholdID, model.ActionUpdateRecurring, payload, actorID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetByID(item.ID)
}

// SoftDelete deactivates the item. No-op on unknown ids.
func (s *RecurringStore) SoftDelete(id, actorID int64) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var (
		householdID int64
		name        string
	)
	err = tx.QueryRow(`SELECT household_id, name FROM recurring_items WHERE id = ?`, id).Scan(&householdID, &name)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get recurring item: %w", err)
	}

	if _, err := tx.Exec(
		`UPDATE recurring_items SET active = 0, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, id,
	); err != nil {
		return false, fmt.Errorf("deactivate recurring item: %w", err)
	}

	payload := map[string]any{"name": name}
	if err := appendAudit(tx, householdID, model.ActionDeleteRecurring, payload, actorID); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return true, nil
}
