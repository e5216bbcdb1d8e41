package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/Fruktoz0/homebudgetdemo/internal/model"
)

type TransactionStore struct {
	db *sql.DB
}

func NewTransactionStore(db *sql.DB) *TransactionStore {
	return &TransactionStore{db: db}
}

func scanTransaction(scanner interface{ Scan(...any) error }) (*model.Transaction, error) {
	var t model.Transaction
	var recurringID sql.NullInt64
	var deletedAt sql.NullTime
	err := scanner.Scan(
		&t.ID, &t.Type, &t.Amount, &t.Description, &t.Category, &t.Date,
		&t.CreatedBy, &t.IsRecurringInstance, &recurringID, &deletedAt, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if recurringID.Valid {
		t.RecurringItemID = &recurringID.Int64
	}
	if deletedAt.Valid {
		t.DeletedAt = &deletedAt.Time
	}
	return &t, nil
}

// transactionCols returns the scan column list, optionally alias-qualified.
func transactionCols(alias string) string {
	cols := []string{
		"id", "type", "amount", "description", "category", "date",
		"created_by", "is_recurring_instance", "recurring_item_id", "deleted_at", "created_at",
	}
	if alias != "" {
		for i, c := range cols {
			cols[i] = alias + "." + c
		}
	}
	return strings.Join(cols, ", ")
}

// ListByHousehold returns the household's live transactions. Membership is
// resolved at read time against the current snapshot table, so records from
// since-removed members drop out of view. Pending members are included;
// the filter checks presence, not approval.
func (s *TransactionStore) ListByHousehold(householdID int64) ([]model.Transaction, error) {
	return s.list(
		`SELECT `+transactionCols("t")+` FROM transactions t
		 JOIN household_members m ON m.user_id = t.created_by AND m.household_id = ?
		 WHERE t.deleted_at IS NULL
		 ORDER BY t.date DESC, t.id DESC`,
		householdID,
	)
}

// ListByHouseholdBetween returns live transactions dated within [from, to]
// inclusive, both formatted YYYY-MM-DD.
func (s *TransactionStore) ListByHouseholdBetween(householdID int64, from, to string) ([]model.Transaction, error) {
	return s.list(
		`SELECT `+transactionCols("t")+` FROM transactions t
		 JOIN household_members m ON m.user_id = t.created_by AND m.household_id = ?
		 WHERE t.deleted_at IS NULL AND t.date >= ? AND t.date <= ?
		 ORDER BY t.date DESC, t.id DESC`,
		householdID, from, to,
	)
}

func (s *TransactionStore) list(query string, args ...any) ([]model.Transaction, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []model.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, *t)
	}
	return txs, rows.Err()
}

func (s *TransactionStore) GetByID(id int64) (*model.Transaction, error) {
	row := s.db.QueryRow(`SELECT `+transactionCols("")+` FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// Create inserts a transaction and records CREATE_TRANSACTION against the
// creator's own household, resolved from the user record rather than any
// caller-supplied household. A creator without a household still gets the
// row but no audit entry. The auto-payment scheduler shares this path, so
// materialized instances are logged like any other creation.
func (s *TransactionStore) Create(t model.Transaction) (*model.Transaction, error) {
	if t.RecurringItemID != nil {
		t.IsRecurringInstance = true
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO transactions (type, amount, description, category, date, created_by, is_recurring_instance, recurring_item_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Type, t.Amount, t.Description, t.Category, t.Date, t.CreatedBy, t.IsRecurringInstance, t.RecurringItemID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	var householdID sql.NullInt64
	err = tx.QueryRow(`SELECT household_id FROM users WHERE id = ?`, t.CreatedBy).Scan(&householdID)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("get creator household: %w", err)
	}
	if householdID.Valid {
		payload := map[string]any{"amount": t.Amount, "desc": t.Description, "type": t.Type}
		if err := appendAudit(tx, householdID.Int64, model.ActionCreateTransaction, payload, t.CreatedBy); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetByID(id)
}

// SoftDelete marks the transaction deleted and records DELETE_TRANSACTION
// with the full pre-delete record as the snapshot, unlike the trimmed
// payloads of other actions, the whole row is preserved. No-op on unknown
// or already-deleted ids.
func (s *TransactionStore) SoftDelete(id, actorID, householdID int64) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(`SELECT `+transactionCols("")+` FROM transactions WHERE id = ? AND deleted_at IS NULL`, id)
	t, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get transaction: %w", err)
	}

	if err := appendAudit(tx, householdID, model.ActionDeleteTransaction, t, actorID); err != nil {
		return false, err
	}

	if _, err := tx.Exec(
		`UPDATE transactions SET deleted_at = CURRENT_TIMESTAMP WHERE id = ?`, id,
	); err != nil {
		return false, fmt.Errorf("soft delete transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return true, nil
}
