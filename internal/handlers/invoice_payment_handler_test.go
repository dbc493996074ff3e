package handlers

import (
	"strings"
	"testing"

	"nirmaan-backend/models"
)

func TestOverpaymentRejection(t *testing.T) {
	// Mirrors the transaction's cap check: the recomputed total must not pass
	// the invoice amount, exact payoff included.
	tests := []struct {
		name     string
		total    float64
		amount   float64
		rejected bool
	}{
		{"under the amount", 600, 1000, false},
		{"exact payoff", 1000, 1000, false},
		{"one cent over", 1000.01, 1000, true},
		{"gross overpayment", 2500, 1000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := models.ExceedsInvoiceAmount(tt.total, tt.amount); got != tt.rejected {
				t.Errorf("ExceedsInvoiceAmount(%v, %v) = %v, want %v", tt.total, tt.amount, got, tt.rejected)
			}
		})
	}
}

func TestOverpaymentErrorMessage(t *testing.T) {
	err := overpaymentError{InvoiceAmount: 1000, WouldTotal: 1200}
	msg := err.Error()
	if !strings.Contains(msg, "1200.00") || !strings.Contains(msg, "1000.00") {
		t.Errorf("message %q should carry both the attempted total and the invoice amount", msg)
	}
	if !strings.HasPrefix(msg, "Payment rejected") {
		t.Errorf("message %q should identify the rejection", msg)
	}
}
