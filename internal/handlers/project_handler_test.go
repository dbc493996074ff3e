package handlers

import (
	"testing"

	"nirmaan-backend/models"
)

func TestInitialBalanceEntries(t *testing.T) {
	req := ProjectCreateRequest{
		POBalance:        1000,
		EstimatedBalance: 0,
		ActualBalance:    -250,
	}

	entries := initialBalanceEntries(7, req)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2 (zero balance gets no history row)", len(entries))
	}

	byType := make(map[string]models.ProjectBalance, len(entries))
	for _, e := range entries {
		if e.ProjectID != 7 {
			t.Errorf("entry %s has ProjectID %d, want 7", e.BalanceType, e.ProjectID)
		}
		byType[e.BalanceType] = e
	}

	if e, ok := byType[models.BalanceTypePO]; !ok || e.Adjustment != 1000 {
		t.Errorf("po entry = %+v, want adjustment 1000", e)
	}
	if _, ok := byType[models.BalanceTypeEstimated]; ok {
		t.Errorf("zero estimated balance produced an entry")
	}
	// A negative opening balance still gets its history row.
	if e, ok := byType[models.BalanceTypeActual]; !ok || e.Adjustment != -250 {
		t.Errorf("actual entry = %+v, want adjustment -250", e)
	}
}

func TestDeleteBlockedByInvoices(t *testing.T) {
	got := deleteBlockedByInvoices("PO", 3)
	want := "Cannot delete PO. It has 3 associated invoice(s). Please delete or reassign the invoices first."
	if got != want {
		t.Errorf("message = %q, want %q", got, want)
	}

	got = deleteBlockedByInvoices("project", 1)
	want = "Cannot delete project. It has 1 associated invoice(s). Please delete or reassign the invoices first."
	if got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
}
