package store

import (
	"encoding/json"
	"testing"

	"github.com/Fruktoz0/homebudgetdemo/internal/model"
)

func createTestTransaction(t *testing.T, env *setupResult, desc string, amount float64) *model.Transaction {
	t.Helper()
	tx, err := env.transactions.Create(model.Transaction{
		Type:        model.TypeExpense,
		Amount:      amount,
		Description: desc,
		Category:    "Élelmiszer",
		Date:        "2025-03-15",
		CreatedBy:   env.owner.ID,
	})
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}
	return tx
}

type setupResult struct {
	transactions *TransactionStore
	households   *HouseholdStore
	owner        *model.User
	household    *model.Household
}

func setupTransactionTest(t *testing.T) *setupResult {
	t.Helper()
	db := setupTestDB(t)
	owner := createTestUser(t, db, "alice@example.com")
	h := createTestHousehold(t, db, owner.ID)
	return &setupResult{
		transactions: NewTransactionStore(db),
		households:   NewHouseholdStore(db),
		owner:        owner,
		household:    h,
	}
}

func TestTransactionCreate(t *testing.T) {
	env := setupTransactionTest(t)

	tx := createTestTransaction(t, env, "Nagybevásárlás", 25000)
	if tx.Amount != 25000 || tx.Description != "Nagybevásárlás" {
		t.Errorf("transaction = %+v, want created fields", tx)
	}
	if tx.IsRecurringInstance {
		t.Error("expected manual transaction, not recurring instance")
	}
	if tx.DeletedAt != nil {
		t.Error("expected live transaction")
	}
}

func TestTransactionCreateWithRecurringLink(t *testing.T) {
	env := setupTransactionTest(t)
	db := env.transactions.db

	item, err := NewRecurringStore(db).Create(model.RecurringItem{
		HouseholdID: env.household.ID,
		Type:        model.TypeExpense,
		Name:        "Internet",
		Amount:      8500,
		Category:    "Szórakozás",
		Frequency:   model.FrequencyMonthly,
		AutoPay:     true,
	}, env.owner.ID)
	if err != nil {
		t.Fatalf("create recurring: %v", err)
	}

	tx, err := env.transactions.Create(model.Transaction{
		Type:            model.TypeExpense,
		Amount:          8500,
		Description:     "Internet",
		Category:        "Szórakozás",
		Date:            "2025-03-10",
		CreatedBy:       env.owner.ID,
		RecurringItemID: &item.ID,
	})
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}
	// Linking to a recurring item forces the instance flag.
	if !tx.IsRecurringInstance {
		t.Error("expected recurring instance flag to be set")
	}
}

func TestTransactionListFiltersByCurrentMembership(t *testing.T) {
	env := setupTransactionTest(t)
	db := env.transactions.db

	member := createTestUser(t, db, "bob@example.com")
	if _, err := env.households.Join(env.household.InviteCode, member.ID); err != nil {
		t.Fatalf("join: %v", err)
	}

	createTestTransaction(t, env, "owner tx", 100)
	if _, err := env.transactions.Create(model.Transaction{
		Type: model.TypeExpense, Amount: 200, Description: "member tx",
		Category: "Egyéb", Date: "2025-03-16", CreatedBy: member.ID,
	}); err != nil {
		t.Fatalf("create member transaction: %v", err)
	}

	// Pending members are visible: the filter checks presence, not approval.
	txs, err := env.transactions.ListByHousehold(env.household.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("len = %d, want 2 (pending member included)", len(txs))
	}

	// Once the member leaves, their records drop out of view.
	if _, err := env.households.RemoveMember(env.household.ID, member.ID, env.owner.ID); err != nil {
		t.Fatalf("remove member: %v", err)
	}
	txs, err = env.transactions.ListByHousehold(env.household.ID)
	if err != nil {
		t.Fatalf("list after removal: %v", err)
	}
	if len(txs) != 1 || txs[0].Description != "owner tx" {
		t.Fatalf("txs = %v, want only the owner's transaction", txs)
	}
}

func TestTransactionListBetween(t *testing.T) {
	env := setupTransactionTest(t)

	for _, date := range []string{"2025-02-28", "2025-03-01", "2025-03-31", "2025-04-01"} {
		if _, err := env.transactions.Create(model.Transaction{
			Type: model.TypeExpense, Amount: 100, Description: date,
			Category: "Egyéb", Date: date, CreatedBy: env.owner.ID,
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	txs, err := env.transactions.ListByHouseholdBetween(env.household.ID, "2025-03-01", "2025-03-31")
	if err != nil {
		t.Fatalf("list between: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("len = %d, want 2 inside inclusive bounds", len(txs))
	}
}

func TestTransactionSoftDeleteSnapshotsFullRecord(t *testing.T) {
	env := setupTransactionTest(t)
	db := env.transactions.db

	tx := createTestTransaction(t, env, "Nagybevásárlás", 25000)

	ok, err := env.transactions.SoftDelete(tx.ID, env.owner.ID, env.household.ID)
	if err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	if !ok {
		t.Fatal("expected soft delete to succeed")
	}

	// The row survives with a deletion marker.
	got, _ := env.transactions.GetByID(tx.ID)
	if got == nil || got.DeletedAt == nil {
		t.Fatal("expected soft-deleted row to remain with deleted_at set")
	}

	txs, _ := env.transactions.ListByHousehold(env.household.ID)
	if len(txs) != 0 {
		t.Errorf("list = %v, want soft-deleted rows excluded", txs)
	}

	entry := lastAuditAction(t, db, env.household.ID)
	if entry.ActionType != model.ActionDeleteTransaction {
		t.Fatalf("audit action = %q, want %q", entry.ActionType, model.ActionDeleteTransaction)
	}
	var snapshot model.Transaction
	if err := json.Unmarshal(entry.Payload, &snapshot); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	if snapshot.ID != tx.ID || snapshot.Amount != 25000 || snapshot.Description != "Nagybevásárlás" {
		t.Errorf("snapshot = %+v, want full pre-delete record", snapshot)
	}
}

func TestTransactionSoftDeleteUnknownID(t *testing.T) {
	env := setupTransactionTest(t)

	ok, err := env.transactions.SoftDelete(999, env.owner.ID, env.household.ID)
	if err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	if ok {
		t.Error("expected no-op for unknown id")
	}
}

func TestTransactionSoftDeleteTwice(t *testing.T) {
	env := setupTransactionTest(t)

	tx := createTestTransaction(t, env, "once", 100)
	if ok, _ := env.transactions.SoftDelete(tx.ID, env.owner.ID, env.household.ID); !ok {
		t.Fatal("first delete should succeed")
	}
	ok, err := env.transactions.SoftDelete(tx.ID, env.owner.ID, env.household.ID)
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if ok {
		t.Error("expected second delete to be a no-op")
	}
}
