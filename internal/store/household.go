package store

import (
	"crypto/rand"
	"database/sql"
	"fmt"
	"math/big"
	"strings"

	"github.com/Fruktoz0/homebudgetdemo/internal/model"
)

type HouseholdStore struct {
	db *sql.DB
}

func NewHouseholdStore(db *sql.DB) *HouseholdStore {
	return &HouseholdStore{db: db}
}

func scanHousehold(scanner interface{ Scan(...any) error }) (*model.Household, error) {
	var h model.Household
	var ownerID sql.NullInt64
	err := scanner.Scan(&h.ID, &h.Name, &h.InviteCode, &ownerID, &h.Currency, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if ownerID.Valid {
		h.OwnerID = &ownerID.Int64
	}
	return &h, nil
}

func scanHouseholdMember(scanner interface{ Scan(...any) error }) (*model.HouseholdMember, error) {
	var m model.HouseholdMember
	var status sql.NullString
	err := scanner.Scan(&m.ID, &m.HouseholdID, &m.UserID, &m.DisplayName, &m.Email, &status, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	if status.Valid {
		m.MembershipStatus = status.String
	}
	return &m, nil
}

const householdCols = `id, name, invite_code, owner_id, currency, created_at, updated_at`
const householdMemberCols = `id, household_id, user_id, display_name, email, membership_status, created_at`

// generateInviteCode produces the household-wide shared code (HOME-XXXX).
func generateInviteCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", fmt.Errorf("generate invite code: %w", err)
	}
	return fmt.Sprintf("HOME-%d", n.Int64()+1000), nil
}

// Create allocates a household with a fresh invite code, links the owner as
// its sole approved member, and records the CREATE_HOUSEHOLD audit entry,
// all in one transaction.
func (s *HouseholdStore) Create(name string, ownerID int64) (*model.Household, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	owner, err := scanUser(tx.QueryRow(`SELECT `+userCols+` FROM users WHERE id = ?`, ownerID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("owner not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get owner: %w", err)
	}

	// The shared-code space is small; retry on the rare collision.
	var id int64
	for attempt := 0; ; attempt++ {
		code, err := generateInviteCode()
		if err != nil {
			return nil, err
		}
		result, err := tx.Exec(
			`INSERT INTO households (name, invite_code, owner_id, currency) VALUES (?, ?, ?, ?)`,
			name, code, ownerID, model.CurrencyHUF,
		)
		if err != nil {
			if attempt < 4 && strings.Contains(err.Error(), "UNIQUE") {
				continue
			}
			return nil, fmt.Errorf("insert household: %w", err)
		}
		id, err = result.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("last insert id: %w", err)
		}
		break
	}

	if _, err := tx.Exec(
		`UPDATE users SET household_id = ?, membership_status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		id, model.StatusApproved, ownerID,
	); err != nil {
		return nil, fmt.Errorf("link owner: %w", err)
	}

	if _, err := tx.Exec(
		`INSERT INTO household_members (household_id, user_id, display_name, email, membership_status) VALUES (?, ?, ?, ?, ?)`,
		id, ownerID, owner.DisplayName, owner.Email, model.StatusApproved,
	); err != nil {
		return nil, fmt.Errorf("insert owner snapshot: %w", err)
	}

	if err := appendAudit(tx, id, model.ActionCreateHousehold, map[string]any{"name": name}, ownerID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetByID(id)
}

func (s *HouseholdStore) GetByID(id int64) (*model.Household, error) {
	row := s.db.QueryRow(`SELECT `+householdCols+` FROM households WHERE id = ?`, id)
	h, err := scanHousehold(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get household: %w", err)
	}
	return h, nil
}

// HouseholdOfUser returns the household the user currently belongs to, or 0.
func (s *HouseholdStore) HouseholdOfUser(userID int64) (int64, error) {
	var id sql.NullInt64
	err := s.db.QueryRow(`SELECT household_id FROM users WHERE id = ?`, userID).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get user household: %w", err)
	}
	return id.Int64, nil
}

func (s *HouseholdStore) GetMember(householdID, userID int64) (*model.HouseholdMember, error) {
	row := s.db.QueryRow(
		`SELECT `+householdMemberCols+` FROM household_members WHERE household_id = ? AND user_id = ?`,
		householdID, userID,
	)
	m, err := scanHouseholdMember(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	return m, nil
}

func (s *HouseholdStore) ListMembers(householdID int64) ([]model.HouseholdMember, error) {
	rows, err := s.db.Query(
		`SELECT `+householdMemberCols+` FROM household_members WHERE household_id = ? ORDER BY id ASC`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []model.HouseholdMember
	for rows.Next() {
		m, err := scanHouseholdMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}

// Join resolves a code first against any household's shared invite code,
// then against an outstanding PENDING invitation (which it marks ACCEPTED).
// The joining user enters as PENDING. Returns false, not an error, when the
// code matches neither; a failed join is an expected outcome.
func (s *HouseholdStore) Join(code string, userID int64) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var householdID int64
	err = tx.QueryRow(`SELECT id FROM households WHERE invite_code = ?`, code).Scan(&householdID)
	if err == sql.ErrNoRows {
		var invitationID int64
		err = tx.QueryRow(
			`SELECT id, household_id FROM invitations WHERE code = ? AND status = ? ORDER BY id LIMIT 1`,
			code, model.InvitationPending,
		).Scan(&invitationID, &householdID)
		if err == sql.ErrNoRows {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("lookup invitation: %w", err)
		}
		if _, err := tx.Exec(
			`UPDATE invitations SET status = ? WHERE id = ?`,
			model.InvitationAccepted, invitationID,
		); err != nil {
			return false, fmt.Errorf("accept invitation: %w", err)
		}
	} else if err != nil {
		return false, fmt.Errorf("lookup household code: %w", err)
	}

	u, err := scanUser(tx.QueryRow(`SELECT `+userCols+` FROM users WHERE id = ?`, userID))
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get user: %w", err)
	}

	if _, err := tx.Exec(
		`UPDATE users SET household_id = ?, membership_status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		householdID, model.StatusPending, userID,
	); err != nil {
		return false, fmt.Errorf("link user: %w", err)
	}

	if _, err := tx.Exec(
		`INSERT INTO household_members (household_id, user_id, display_name, email, membership_status) VALUES (?, ?, ?, ?, ?)`,
		householdID, userID, u.DisplayName, u.Email, model.StatusPending,
	); err != nil {
		return false, fmt.Errorf("insert member snapshot: %w", err)
	}

	payload := map[string]any{"code": code, "household_id": householdID}
	if err := appendAudit(tx, householdID, model.ActionJoinHousehold, payload, userID); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return true, nil
}

// ApproveMember transitions a pending member to approved on both the
// canonical user row and the household snapshot. No-op when the member is
// unknown.
func (s *HouseholdStore) ApproveMember(householdID, memberID, actorID int64) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var memberName string
	err = tx.QueryRow(
		`SELECT display_name FROM household_members WHERE household_id = ? AND user_id = ?`,
		householdID, memberID,
	).Scan(&memberName)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get member: %w", err)
	}

	if _, err := tx.Exec(
		`UPDATE users SET membership_status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		model.StatusApproved, memberID,
	); err != nil {
		return false, fmt.Errorf("approve user: %w", err)
	}
	if _, err := tx.Exec(
		`UPDATE household_members SET membership_status = ? WHERE household_id = ? AND user_id = ?`,
		model.StatusApproved, householdID, memberID,
	); err != nil {
		return false, fmt.Errorf("approve member snapshot: %w", err)
	}

	payload := map[string]any{"member_id": memberID, "member_name": memberName}
	if err := appendAudit(tx, householdID, model.ActionApproveMember, payload, actorID); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return true, nil
}

// RemoveMember drops the member snapshot and clears the user's household
// linkage. When the removed member owns the household, ownership transfers
// to the first remaining approved (or legacy status-less) member; with no
// candidate the household is left ownerless. Serves owner-initiated removal
// and rejection as well as self-initiated leave.
func (s *HouseholdStore) RemoveMember(householdID, memberID, actorID int64) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var ownerID sql.NullInt64
	err = tx.QueryRow(`SELECT owner_id FROM households WHERE id = ?`, householdID).Scan(&ownerID)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get household: %w", err)
	}

	var memberName string
	err = tx.QueryRow(`SELECT display_name FROM users WHERE id = ?`, memberID).Scan(&memberName)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get user: %w", err)
	}

	if ownerID.Valid && ownerID.Int64 == memberID {
		var candidate sql.NullInt64
		err = tx.QueryRow(
			`SELECT user_id FROM household_members
			 WHERE household_id = ? AND user_id != ?
			   AND (membership_status = ? OR membership_status IS NULL OR membership_status = '')
			 ORDER BY id LIMIT 1`,
			householdID, memberID, model.StatusApproved,
		).Scan(&candidate)
		if err != nil && err != sql.ErrNoRows {
			return false, fmt.Errorf("find owner candidate: %w", err)
		}
		// candidate is NULL when nobody qualifies: the household becomes
		// ownerless rather than keeping a dangling owner reference.
		if _, err := tx.Exec(
			`UPDATE households SET owner_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			candidate, householdID,
		); err != nil {
			return false, fmt.Errorf("transfer ownership: %w", err)
		}
	}

	if _, err := tx.Exec(
		`UPDATE users SET household_id = NULL, membership_status = NULL, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		memberID,
	); err != nil {
		return false, fmt.Errorf("unlink user: %w", err)
	}
	if _, err := tx.Exec(
		`DELETE FROM household_members WHERE household_id = ? AND user_id = ?`,
		householdID, memberID,
	); err != nil {
		return false, fmt.Errorf("delete member snapshot: %w", err)
	}

	payload := map[string]any{"member_id": memberID, "member_name": memberName}
	if err := appendAudit(tx, householdID, model.ActionRemoveMember, payload, actorID); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return true, nil
}
