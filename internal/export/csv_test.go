package export

import (
	"strings"
	"testing"

	"github.com/Fruktoz0/homebudgetdemo/internal/model"
)

func TestTransactionsCSV(t *testing.T) {
	txs := []model.Transaction{
		{Date: "2025-03-15", Type: model.TypeExpense, Category: "Élelmiszer", Description: "Nagybevásárlás", Amount: 25000, CreatedBy: 1},
		{Date: "2025-03-01", Type: model.TypeIncome, Category: "Fizetés", Description: "Fizetés", Amount: 450000.50, CreatedBy: 2},
	}
	names := map[int64]string{1: "Joci", 2: "Anna"}

	out := TransactionsCSV(txs, names)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("line count = %d, want header + 2 rows", len(lines))
	}
	if lines[0] != "Dátum;Típus;Kategória;Leírás;Összeg;Létrehozta" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "2025-03-15;EXPENSE;Élelmiszer;Nagybevásárlás;25000;Joci" {
		t.Errorf("row 1 = %q", lines[1])
	}
	if lines[2] != "2025-03-01;INCOME;Fizetés;Fizetés;450000.50;Anna" {
		t.Errorf("row 2 = %q", lines[2])
	}
}

func TestTransactionsCSVStripsDelimiter(t *testing.T) {
	txs := []model.Transaction{
		{Date: "2025-03-15", Type: model.TypeExpense, Category: "Egy;éb", Description: "tej; kenyér; vaj", Amount: 1200, CreatedBy: 1},
	}
	out := TransactionsCSV(txs, map[int64]string{1: "Jo;ci"})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// Free text loses its semicolons instead of being quoted, so splitting
	// on the delimiter always yields exactly six fields.
	fields := strings.Split(lines[1], ";")
	if len(fields) != 6 {
		t.Fatalf("field count = %d, want 6: %q", len(fields), lines[1])
	}
	if fields[3] != "tej kenyér vaj" {
		t.Errorf("description = %q, want semicolons stripped", fields[3])
	}
	if fields[5] != "Joci" {
		t.Errorf("creator = %q, want semicolons stripped", fields[5])
	}
}

func TestTransactionsCSVUnknownCreator(t *testing.T) {
	txs := []model.Transaction{
		{Date: "2025-03-15", Type: model.TypeExpense, Category: "Egyéb", Description: "x", Amount: 1, CreatedBy: 42},
	}
	out := TransactionsCSV(txs, nil)
	if !strings.Contains(out, ";?") {
		t.Errorf("output = %q, want ? for unknown creator", out)
	}
}

func TestTransactionsCSVEmpty(t *testing.T) {
	out := TransactionsCSV(nil, nil)
	if out != "Dátum;Típus;Kategória;Leírás;Összeg;Létrehozta\n" {
		t.Errorf("output = %q, want header only", out)
	}
}
