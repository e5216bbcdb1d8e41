package store

import (
	"database/sql"
	"fmt"

	"github.com/Fruktoz0/homebudgetdemo/internal/model"
)

type SavingStore struct {
	db *sql.DB
}

func NewSavingStore(db *sql.DB) *SavingStore {
	return &SavingStore{db: db}
}

func scanSavingGoal(scanner interface{ Scan(...any) error }) (*model.SavingGoal, error) {
	var g model.SavingGoal
	var target sql.NullFloat64
	var color sql.NullString
	var deletedAt sql.NullTime
	err := scanner.Scan(&g.ID, &g.HouseholdID, &g.Name, &g.CurrentAmount, &target, &color, &deletedAt, &g.CreatedAt)
	if err != nil {
		return nil, err
	}
	if target.Valid {
		g.TargetAmount = &target.Float64
	}
	if color.Valid {
		g.Color = &color.String
	}
	if deletedAt.Valid {
		g.DeletedAt = &deletedAt.Time
	}
	return &g, nil
}

const savingGoalCols = `id, household_id, name, current_amount, target_amount, color, deleted_at, created_at`

// ListActive returns the household's non-deleted goals.
func (s *SavingStore) ListActive(householdID int64) ([]model.SavingGoal, error) {
	rows, err := s.db.Query(
		`SELECT `+savingGoalCols+` FROM saving_goals WHERE household_id = ? AND deleted_at IS NULL ORDER BY id ASC`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("list saving goals: %w", err)
	}
	defer rows.Close()

	var goals []model.SavingGoal
	for rows.Next() {
		g, err := scanSavingGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan saving goal: %w", err)
		}
		goals = append(goals, *g)
	}
	return goals, rows.Err()
}

func (s *SavingStore) GetByID(id int64) (*model.SavingGoal, error) {
	row := s.db.QueryRow(`SELECT `+savingGoalCols+` FROM saving_goals WHERE id = ?`, id)
	g, err := scanSavingGoal(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get saving goal: %w", err)
	}
	return g, nil
}

// Create inserts a goal with its initial balance taken directly from the
// caller. The initial amount is not modeled as a logged deposit; the log
// only ever records balance-update deltas.
func (s *SavingStore) Create(goal model.SavingGoal, actorID int64) (*model.SavingGoal, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var target any
	if goal.TargetAmount != nil {
		target = *goal.TargetAmount
	}
	var color any
	if goal.Color != nil {
		color = *goal.Color
	}

	result, err := tx.Exec(
		`INSERT INTO saving_goals (household_id, name, current_amount, target_amount, color) VALUES (?, ?, ?, ?, ?)`,
		goal.HouseholdID, goal.Name, goal.CurrentAmount, target, color,
	)
	if err != nil {
		return nil, fmt.Errorf("insert saving goal: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	payload := map[string]any{"name": goal.Name, "target": goal.TargetAmount}
	if err := appendAudit(tx, goal.HouseholdID, model.ActionCreateSaving, payload, actorID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetByID(id)
}

// UpdateBalance applies the signed delta to the running balance and appends
// exactly one log entry carrying the same delta, in one transaction. The
// sign convention (positive deposit, negative withdrawal) belongs to the
// caller; no floor is enforced and the balance may go negative. Returns nil
// on unknown ids.
func (s *SavingStore) UpdateBalance(goalID int64, delta float64, description string, actorID int64) (*model.SavingGoal, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var (
		householdID int64
		name        string
	)
	err = tx.QueryRow(`SELECT household_id, name FROM saving_goals WHERE id = ?`, goalID).Scan(&householdID, &name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get saving goal: %w", err)
	}

	if _, err := tx.Exec(
		`UPDATE saving_goals SET current_amount = current_amount + ? WHERE id = ?`,
		delta, goalID,
	); err != nil {
		return nil, fmt.Errorf("update balance: %w", err)
	}

	if _, err := tx.Exec(
		`INSERT INTO saving_logs (saving_goal_id, amount, description) VALUES (?, ?, ?)`,
		goalID, delta, description,
	); err != nil {
		return nil, fmt.Errorf("insert saving log: %w", err)
	}

	payload := map[string]any{"name": name, "diff": delta}
	if err := appendAudit(tx, householdID, model.ActionUpdateSavingBalance, payload, actorID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetByID(goalID)
}

// Logs returns the goal's balance history, newest first.
func (s *SavingStore) Logs(goalID int64) ([]model.SavingLog, error) {
	rows, err := s.db.Query(
		`SELECT id, saving_goal_id, amount, description, created_at FROM saving_logs
		 WHERE saving_goal_id = ? ORDER BY created_at DESC, id DESC`,
		goalID,
	)
	if err != nil {
		return nil, fmt.Errorf("list saving logs: %w", err)
	}
	defer rows.Close()

	var logs []model.SavingLog
	for rows.Next() {
		var l model.SavingLog
		if err := rows.Scan(&l.ID, &l.SavingGoalID, &l.Amount, &l.Description, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan saving log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// SoftDelete marks the goal deleted. Its logs remain; the history is
// append-only. No-op on unknown ids.
func (s *SavingStore) SoftDelete(id, actorID int64) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var (
		householdID int64
		name        string
	)
	err = tx.QueryRow(`SELECT household_id, name FROM saving_goals WHERE id = ?`, id).Scan(&householdID, &name)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get saving goal: %w", err)
	}

	if _, err := tx.Exec(
		`UPDATE saving_goals SET deleted_at = CURRENT_TIMESTAMP WHERE id = ?`, id,
	); err != nil {
		return false, fmt.Errorf("soft delete saving goal: %w", err)
	}

	payload := map[string]any{"name": name}
	if err := appendAudit(tx, householdID, model.ActionDeleteSaving, payload, actorID); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return true, nil
}
