package store

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Fruktoz0/homebudgetdemo/internal/model"
)

// SeedDemo populates a fresh database with the demo household: one approved
// owner, a handful of transactions dated today, two recurring items (one
// auto-pay) and two saving goals. No-op when any user already exists.
func (s *HouseholdStore) SeedDemo() error {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO households (name, invite_code, currency) VALUES ('Otthon', 'HOME-1234', ?)`,
		model.CurrencyHUF,
	)
	if err != nil {
		return fmt.Errorf("seed household: %w", err)
	}
	householdID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}

	result, err = tx.Exec(
		`INSERT INTO users (email, password, display_name, household_id, membership_status) VALUES ('joci@demo.hu', ?, 'Joci', ?, ?)`,
		string(hash), householdID, model.StatusApproved,
	)
	if err != nil {
		return fmt.Errorf("seed user: %w", err)
	}
	userID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}

	if _, err := tx.Exec(
		`UPDATE households SET owner_id = ? WHERE id = ?`, userID, householdID,
	); err != nil {
		return fmt.Errorf("seed owner: %w", err)
	}

	if _, err := tx.Exec(
		`INSERT INTO household_members (household_id, user_id, display_name, email, membership_status) VALUES (?, ?, 'Joci', 'joci@demo.hu', ?)`,
		householdID, userID, model.StatusApproved,
	); err != nil {
		return fmt.Errorf("seed member snapshot: %w", err)
	}

	today := time.Now().Format("2006-01-02")
	txs := []struct {
		txType      string
		amount      float64
		description string
		category    string
		recurring   bool
	}{
		{model.TypeExpense, 25000, "Nagybevásárlás", "Élelmiszer", false},
		{model.TypeIncome, 450000, "Fizetés", "Fizetés", true},
		{model.TypeExpense, 12000, "Netflix & Spotify", "Szórakozás", true},
	}
	for _, t := range txs {
		if _, err := tx.Exec(
			`INSERT INTO transactions (type, amount, description, category, date, created_by, is_recurring_instance) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			t.txType, t.amount, t.description, t.category, today, userID, t.recurring,
		); err != nil {
			return fmt.Errorf("seed transaction %q: %w", t.description, err)
		}
	}

	if _, err := tx.Exec(
		`INSERT INTO recurring_items (household_id, type, name, amount, category, frequency, active, auto_pay, pay_day) VALUES (?, ?, 'Internet + TV', 8500, 'Szórakozás', ?, 1, 1, 10)`,
		householdID, model.TypeExpense, model.FrequencyMonthly,
	); err != nil {
		return fmt.Errorf("seed recurring item: %w", err)
	}
	if _, err := tx.Exec(
		`INSERT INTO recurring_items (household_id, type, name, amount, category, frequency, active, auto_pay) VALUES (?, ?, 'Lakbér', 150000, 'Lakhatás', ?, 1, 0)`,
		householdID, model.TypeExpense, model.FrequencyMonthly,
	); err != nil {
		return fmt.Errorf("seed recurring item: %w", err)
	}

	goals := []struct {
		name    string
		current float64
		target  float64
		color   string
	}{
		{"Vésztartalék", 150000, 500000, "#A0D468"},
		{"Nyaralás", 50000, 300000, "#4FC1E9"},
	}
	for _, g := range goals {
		if _, err := tx.Exec(
			`INSERT INTO saving_goals (household_id, name, current_amount, target_amount, color) VALUES (?, ?, ?, ?, ?)`,
			householdID, g.name, g.current, g.target, g.color,
		); err != nil {
			return fmt.Errorf("seed saving goal %q: %w", g.name, err)
		}
	}

	return tx.Commit()
}
