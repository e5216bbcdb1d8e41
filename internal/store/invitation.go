package store

import (
	"crypto/rand"
	"database/sql"
	"fmt"
	"math/big"

	"github.com/Fruktoz0/homebudgetdemo/internal/model"
)

type InvitationStore struct {
	db *sql.DB
}

func NewInvitationStore(db *sql.DB) *InvitationStore {
	return &InvitationStore{db: db}
}

func scanInvitation(scanner interface{ Scan(...any) error }) (*model.Invitation, error) {
	var inv model.Invitation
	err := scanner.Scan(&inv.ID, &inv.HouseholdID, &inv.Email, &inv.Code, &inv.Status, &inv.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

const invitationCols = `id, household_id, email, code, status, created_at`

// generateCode produces a six-digit numeric one-time code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func (s *InvitationStore) Create(householdID int64, email string) (*model.Invitation, error) {
	code, err := generateCode()
	if err != nil {
		return nil, err
	}
	result, err := s.db.Exec(
		`INSERT INTO invitations (household_id, email, code, status) VALUES (?, ?, ?, ?)`,
		householdID, email, code, model.InvitationPending,
	)
	if err != nil {
		return nil, fmt.Errorf("insert invitation: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *InvitationStore) GetByID(id int64) (*model.Invitation, error) {
	row := s.db.QueryRow(`SELECT `+invitationCols+` FROM invitations WHERE id = ?`, id)
	inv, err := scanInvitation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get invitation: %w", err)
	}
	return inv, nil
}

// ListPending returns only the household's outstanding invitations;
// accepted and revoked codes are terminal and never shown.
func (s *InvitationStore) ListPending(householdID int64) ([]model.Invitation, error) {
	rows, err := s.db.Query(
		`SELECT `+invitationCols+` FROM invitations WHERE household_id = ? AND status = ? ORDER BY id ASC`,
		householdID, model.InvitationPending,
	)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	defer rows.Close()

	var invitations []model.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invitation: %w", err)
		}
		invitations = append(invitations, *inv)
	}
	return invitations, rows.Err()
}

// Revoke transitions PENDING to REVOKED. Returns false when the invitation
// is unknown or already terminal.
func (s *InvitationStore) Revoke(id int64) (bool, error) {
	result, err := s.db.Exec(
		`UPDATE invitations SET status = ? WHERE id = ? AND status = ?`,
		model.InvitationRevoked, id, model.InvitationPending,
	)
	if err != nil {
		return false, fmt.Errorf("revoke invitation: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
