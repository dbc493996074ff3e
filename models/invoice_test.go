package models

import "testing"

func TestDerivePaymentStatus(t *testing.T) {
	tests := []struct {
		name      string
		totalPaid float64
		amount    float64
		want      string
	}{
		{"nothing paid", 0, 1000, PaymentStatusNotPaid},
		{"negative total treated as unpaid", -10, 1000, PaymentStatusNotPaid},
		{"partial payment", 500, 1000, PaymentStatusPartiallyPaid},
		{"one unit short", 999.99, 1000, PaymentStatusPartiallyPaid},
		{"exactly paid", 1000, 1000, PaymentStatusFullyPaid},
		{"overpaid still fully paid", 1100, 1000, PaymentStatusFullyPaid},
		{"zero amount invoice with any payment", 0.01, 0, PaymentStatusFullyPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DerivePaymentStatus(tt.totalPaid, tt.amount); got != tt.want {
				t.Errorf("DerivePaymentStatus(%v, %v) = %q, want %q", tt.totalPaid, tt.amount, got, tt.want)
			}
		})
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{RoleSuperAdmin, RoleAdmin, RoleProjectManager, RoleAccountant} {
		if !ValidRole(role) {
			t.Errorf("ValidRole(%q) = false, want true", role)
		}
	}
	for _, role := range []string{"", "root", "ADMIN", "manager"} {
		if ValidRole(role) {
			t.Errorf("ValidRole(%q) = true, want false", role)
		}
	}
}
