package store

import (
	"database/sql"
	"strings"
	"testing"

	"github.com/Fruktoz0/homebudgetdemo/internal/database"
	"github.com/Fruktoz0/homebudgetdemo/internal/model"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *sql.DB, email string) *model.User {
	t.Helper()
	name, _, _ := strings.Cut(email, "@")
	u, err := NewUserStore(db).Create(email, "hash", name)
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return u
}

func createTestHousehold(t *testing.T, db *sql.DB, ownerID int64) *model.Household {
	t.Helper()
	h, err := NewHouseholdStore(db).Create("Otthon", ownerID)
	if err != nil {
		t.Fatalf("create test household: %v", err)
	}
	return h
}

func lastAuditAction(t *testing.T, db *sql.DB, householdID int64) *model.AuditLog {
	t.Helper()
	logs, err := NewAuditStore(db).ListByHousehold(householdID)
	if err != nil {
		t.Fatalf("list audit logs: %v", err)
	}
	if len(logs) == 0 {
		t.Fatal("expected at least one audit entry")
	}
	return &logs[0]
}
