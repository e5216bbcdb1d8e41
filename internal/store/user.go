package store

import (
	"database/sql"
	"fmt"

	"github.com/Fruktoz0/homebudgetdemo/internal/model"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func scanUser(scanner interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	var householdID sql.NullInt64
	var status sql.NullString
	err := scanner.Scan(&u.ID, &u.Email, &u.DisplayName, &householdID, &status, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if householdID.Valid {
		u.HouseholdID = &householdID.Int64
	}
	if status.Valid {
		u.MembershipStatus = status.String
	}
	return &u, nil
}

const userCols = `id, email, display_name, household_id, membership_status, created_at, updated_at`

func (s *UserStore) Create(email, passwordHash, displayName string) (*model.User, error) {
	result, err := s.db.Exec(
		`INSERT INTO users (email, password, display_name) VALUES (?, ?, ?)`,
		email, passwordHash, displayName,
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *UserStore) GetByID(id int64) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetByEmail(email string) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// GetPasswordHash returns the stored credential hash, or "" when the row
// predates password support (legacy accounts adopt a password at next login).
func (s *UserStore) GetPasswordHash(id int64) (string, error) {
	var hash sql.NullString
	err := s.db.QueryRow(`SELECT password FROM users WHERE id = ?`, id).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("user not found")
	}
	if err != nil {
		return "", fmt.Errorf("query password: %w", err)
	}
	if !hash.Valid {
		return "", nil
	}
	return hash.String, nil
}

func (s *UserStore) SetPassword(id int64, passwordHash string) error {
	_, err := s.db.Exec(
		`UPDATE users SET password = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("set password: %w", err)
	}
	return nil
}

// UpdateProfile writes the merged profile fields and, when the user belongs
// to a household, propagates the new display name and email into the
// household's member snapshot in the same transaction. The snapshot's
// membership status is deliberately left untouched: a profile update must
// never promote or demote a member. Returns nil when the user id is unknown.
func (s *UserStore) UpdateProfile(id int64, email, displayName string) (*model.User, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(`SELECT `+userCols+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if _, err := tx.Exec(
		`UPDATE users SET email = ?, display_name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		email, displayName, id,
	); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	if u.HouseholdID != nil {
		if _, err := tx.Exec(
			`UPDATE household_members SET email = ?, display_name = ? WHERE household_id = ? AND user_id = ?`,
			email, displayName, *u.HouseholdID, id,
		); err != nil {
			return nil, fmt.Errorf("update member snapshot: %w", err)
		}

		payload := map[string]any{"email": email, "display_name": displayName}
		if err := appendAudit(tx, *u.HouseholdID, model.ActionUpdateUserProfile, payload, id); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetByID(id)
}
