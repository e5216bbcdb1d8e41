package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/Fruktoz0/homebudgetdemo/internal/metrics"
	"github.com/Fruktoz0/homebudgetdemo/internal/model"
)

// execer is satisfied by both *sql.DB and *sql.Tx, so an audit entry can be
// appended inside the same transaction as the mutation it records.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// appendAudit writes one immutable audit entry. Every mutating store
// operation calls this within its own transaction; a mutation and its entry
// commit or roll back together.
func appendAudit(q execer, householdID int64, actionType string, payload any, actorID int64) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}
	_, err = q.Exec(
		`INSERT INTO audit_logs (uid, household_id, action_type, payload, performed_by) VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), householdID, actionType, string(data), actorID,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	metrics.AuditEntriesTotal.WithLabelValues(actionType).Inc()
	return nil
}

type AuditStore struct {
	db *sql.DB
}

func NewAuditStore(db *sql.DB) *AuditStore {
	return &AuditStore{db: db}
}

const auditCols = `id, uid, household_id, action_type, payload, performed_by, created_at`

func scanAuditLog(scanner interface{ Scan(...any) error }) (*model.AuditLog, error) {
	var l model.AuditLog
	var payload string
	err := scanner.Scan(&l.ID, &l.UID, &l.HouseholdID, &l.ActionType, &payload, &l.PerformedBy, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	l.Payload = json.RawMessage(payload)
	return &l, nil
}

// ListByHousehold returns the household's audit trail, newest first.
func (s *AuditStore) ListByHousehold(householdID int64) ([]model.AuditLog, error) {
	rows, err := s.db.Query(
		`SELECT `+auditCols+` FROM audit_logs WHERE household_id = ? ORDER BY created_at DESC, id DESC`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	var logs []model.AuditLog
	for rows.Next() {
		l, err := scanAuditLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		logs = append(logs, *l)
	}
	return logs, rows.Err()
}
