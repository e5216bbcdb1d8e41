package store

import (
	"strings"
	"testing"

	"github.com/Fruktoz0/homebudgetdemo/internal/model"
)

func TestHouseholdCreate(t *testing.T) {
	db := setupTestDB(t)

	owner := createTestUser(t, db, "alice@example.com")
	h := createTestHousehold(t, db, owner.ID)

	if !strings.HasPrefix(h.InviteCode, "HOME-") {
		t.Errorf("invite_code = %q, want HOME- prefix", h.InviteCode)
	}
	if h.OwnerID == nil || *h.OwnerID != owner.ID {
		t.Errorf("owner_id = %v, want %d", h.OwnerID, owner.ID)
	}
	if h.Currency != model.CurrencyHUF {
		t.Errorf("currency = %q, want %q", h.Currency, model.CurrencyHUF)
	}

	// The owner is linked as the sole approved member.
	u, _ := NewUserStore(db).GetByID(owner.ID)
	if u.HouseholdID == nil || *u.HouseholdID != h.ID {
		t.Errorf("user household = %v, want %d", u.HouseholdID, h.ID)
	}
	if u.MembershipStatus != model.StatusApproved {
		t.Errorf("membership_status = %q, want %q", u.MembershipStatus, model.StatusApproved)
	}

	members, err := NewHouseholdStore(db).ListMembers(h.ID)
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if len(members) != 1 || members[0].UserID != owner.ID {
		t.Fatalf("members = %v, want single owner snapshot", members)
	}

	entry := lastAuditAction(t, db, h.ID)
	if entry.ActionType != model.ActionCreateHousehold {
		t.Errorf("audit action = %q, want %q", entry.ActionType, model.ActionCreateHousehold)
	}
}

func TestHouseholdJoinWithSharedCode(t *testing.T) {
	db := setupTestDB(t)
	hs := NewHouseholdStore(db)

	owner := createTestUser(t, db, "alice@example.com")
	h := createTestHousehold(t, db, owner.ID)
	joiner := createTestUser(t, db, "bob@example.com")

	joined, err := hs.Join(h.InviteCode, joiner.ID)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if !joined {
		t.Fatal("expected join to succeed with shared code")
	}

	u, _ := NewUserStore(db).GetByID(joiner.ID)
	if u.HouseholdID == nil || *u.HouseholdID != h.ID {
		t.Errorf("joiner household = %v, want %d", u.HouseholdID, h.ID)
	}
	if u.MembershipStatus != model.StatusPending {
		t.Errorf("membership_status = %q, want %q", u.MembershipStatus, model.StatusPending)
	}

	entry := lastAuditAction(t, db, h.ID)
	if entry.ActionType != model.ActionJoinHousehold {
		t.Errorf("audit action = %q, want %q", entry.ActionType, model.ActionJoinHousehold)
	}
}

func TestHouseholdJoinWithInvitationCode(t *testing.T) {
	db := setupTestDB(t)
	hs := NewHouseholdStore(db)
	is := NewInvitationStore(db)

	owner := createTestUser(t, db, "alice@example.com")
	h := createTestHousehold(t, db, owner.ID)
	joiner := createTestUser(t, db, "bob@example.com")

	inv, err := is.Create(h.ID, "bob@example.com")
	if err != nil {
		t.Fatalf("create invitation: %v", err)
	}

	joined, err := hs.Join(inv.Code, joiner.ID)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if !joined {
		t.Fatal("expected join to succeed with invitation code")
	}

	// The invitation is consumed.
	got, _ := is.GetByID(inv.ID)
	if got.Status != model.InvitationAccepted {
		t.Errorf("invitation status = %q, want %q", got.Status, model.InvitationAccepted)
	}

	// A consumed code never matches again.
	other := createTestUser(t, db, "carol@example.com")
	joined, err = hs.Join(inv.Code, other.ID)
	if err != nil {
		t.Fatalf("second join: %v", err)
	}
	if joined {
		t.Error("expected accepted invitation code to be rejected")
	}
}

func TestHouseholdJoinUnknownCode(t *testing.T) {
	db := setupTestDB(t)
	hs := NewHouseholdStore(db)

	joiner := createTestUser(t, db, "bob@example.com")
	joined, err := hs.Join("NO-SUCH-CODE", joiner.ID)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if joined {
		t.Error("expected join to fail for unknown code")
	}
}

func TestHouseholdApproveMember(t *testing.T) {
	db := setupTestDB(t)
	hs := NewHouseholdStore(db)

	owner := createTestUser(t, db, "alice@example.com")
	h := createTestHousehold(t, db, owner.ID)
	joiner := createTestUser(t, db, "bob@example.com")
	if _, err := hs.Join(h.InviteCode, joiner.ID); err != nil {
		t.Fatalf("join: %v", err)
	}

	ok, err := hs.ApproveMember(h.ID, joiner.ID, owner.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if !ok {
		t.Fatal("expected approve to succeed")
	}

	u, _ := NewUserStore(db).GetByID(joiner.ID)
	if u.MembershipStatus != model.StatusApproved {
		t.Errorf("user status = %q, want %q", u.MembershipStatus, model.StatusApproved)
	}
	m, _ := hs.GetMember(h.ID, joiner.ID)
	if m.MembershipStatus != model.StatusApproved {
		t.Errorf("snapshot status = %q, want %q", m.MembershipStatus, model.StatusApproved)
	}
}

func TestHouseholdApproveUnknownMember(t *testing.T) {
	db := setupTestDB(t)
	hs := NewHouseholdStore(db)

	owner := createTestUser(t, db, "alice@example.com")
	h := createTestHousehold(t, db, owner.ID)

	ok, err := hs.ApproveMember(h.ID, 999, owner.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if ok {
		t.Error("expected no-op for unknown member")
	}
}

func TestHouseholdRemoveMemberTransfersOwnership(t *testing.T) {
	db := setupTestDB(t)
	hs := NewHouseholdStore(db)

	owner := createTestUser(t, db, "alice@example.com")
	h := createTestHousehold(t, db, owner.ID)

	// Pending member joins first, approved member second.
	pending := createTestUser(t, db, "bob@example.com")
	if _, err := hs.Join(h.InviteCode, pending.ID); err != nil {
		t.Fatalf("join pending: %v", err)
	}
	approved := createTestUser(t, db, "carol@example.com")
	if _, err := hs.Join(h.InviteCode, approved.ID); err != nil {
		t.Fatalf("join approved: %v", err)
	}
	if _, err := hs.ApproveMember(h.ID, approved.ID, owner.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	ok, err := hs.RemoveMember(h.ID, owner.ID, owner.ID)
	if err != nil {
		t.Fatalf("remove owner: %v", err)
	}
	if !ok {
		t.Fatal("expected remove to succeed")
	}

	// Ownership skips the pending member and lands on the approved one.
	got, _ := hs.GetByID(h.ID)
	if got.OwnerID == nil || *got.OwnerID != approved.ID {
		t.Errorf("owner_id = %v, want %d", got.OwnerID, approved.ID)
	}

	// The removed user is fully unlinked.
	u, _ := NewUserStore(db).GetByID(owner.ID)
	if u.HouseholdID != nil {
		t.Errorf("removed user household = %v, want nil", u.HouseholdID)
	}
	if m, _ := hs.GetMember(h.ID, owner.ID); m != nil {
		t.Error("expected owner snapshot to be gone")
	}
}

func TestHouseholdRemoveLastApprovedLeavesOwnerless(t *testing.T) {
	db := setupTestDB(t)
	hs := NewHouseholdStore(db)

	owner := createTestUser(t, db, "alice@example.com")
	h := createTestHousehold(t, db, owner.ID)

	pending := createTestUser(t, db, "bob@example.com")
	if _, err := hs.Join(h.InviteCode, pending.ID); err != nil {
		t.Fatalf("join: %v", err)
	}

	ok, err := hs.RemoveMember(h.ID, owner.ID, owner.ID)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !ok {
		t.Fatal("expected remove to succeed")
	}

	got, _ := hs.GetByID(h.ID)
	if got.OwnerID != nil {
		t.Errorf("owner_id = %v, want nil when only pending members remain", got.OwnerID)
	}
}

func TestHouseholdOfUser(t *testing.T) {
	db := setupTestDB(t)
	hs := NewHouseholdStore(db)

	owner := createTestUser(t, db, "alice@example.com")
	h := createTestHousehold(t, db, owner.ID)

	id, err := hs.HouseholdOfUser(owner.ID)
	if err != nil {
		t.Fatalf("household of user: %v", err)
	}
	if id != h.ID {
		t.Errorf("household = %d, want %d", id, h.ID)
	}

	id, err = hs.HouseholdOfUser(999)
	if err != nil {
		t.Fatalf("household of unknown user: %v", err)
	}
	if id != 0 {
		t.Errorf("household = %d, want 0 for unknown user", id)
	}
}
