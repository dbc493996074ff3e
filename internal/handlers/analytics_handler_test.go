package handlers

import (
	"testing"
	"time"

	"nirmaan-backend/models"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func datePtr(s string) *time.Time {
	t := date(s)
	return &t
}

func TestClassifyInvoiceLateness(t *testing.T) {
	today := date("2026-06-15")

	tests := []struct {
		name          string
		paymentStatus string
		paymentDates  []time.Time
		endDate       *time.Time
		want          *bool // nil means not determinable
	}{
		{
			name:          "no project end date",
			paymentStatus: models.PaymentStatusFullyPaid,
			paymentDates:  []time.Time{date("2026-01-10")},
			endDate:       nil,
			want:          nil,
		},
		{
			name:          "fully paid before deadline",
			paymentStatus: models.PaymentStatusFullyPaid,
			paymentDates:  []time.Time{date("2026-01-10"), date("2026-02-01")},
			endDate:       datePtr("2026-03-01"),
			want:          boolPtr(false),
		},
		{
			name:          "fully paid, last payment after deadline",
			paymentStatus: models.PaymentStatusFullyPaid,
			paymentDates:  []time.Time{date("2026-01-10"), date("2026-04-01")},
			endDate:       datePtr("2026-03-01"),
			want:          boolPtr(true),
		},
		{
			name:          "latest payment decides even when out of order",
			paymentStatus: models.PaymentStatusPartiallyPaid,
			paymentDates:  []time.Time{date("2026-04-01"), date("2026-01-10")},
			endDate:       datePtr("2026-03-01"),
			want:          boolPtr(true),
		},
		{
			name:          "payment exactly on deadline is on time",
			paymentStatus: models.PaymentStatusFullyPaid,
			paymentDates:  []time.Time{date("2026-03-01")},
			endDate:       datePtr("2026-03-01"),
			want:          boolPtr(false),
		},
		{
			name:          "paid status but no payment rows",
			paymentStatus: models.PaymentStatusFullyPaid,
			paymentDates:  nil,
			endDate:       datePtr("2026-03-01"),
			want:          nil,
		},
		{
			name:          "not paid and deadline passed",
			paymentStatus: models.PaymentStatusNotPaid,
			paymentDates:  nil,
			endDate:       datePtr("2026-03-01"),
			want:          boolPtr(true),
		},
		{
			name:          "not paid and deadline still ahead",
			paymentStatus: models.PaymentStatusNotPaid,
			paymentDates:  nil,
			endDate:       datePtr("2026-12-01"),
			want:          boolPtr(false),
		},
		{
			name:          "unknown status",
			paymentStatus: "refunded",
			paymentDates:  []time.Time{date("2026-01-10")},
			endDate:       datePtr("2026-03-01"),
			want:          nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyInvoiceLateness(tt.paymentStatus, tt.paymentDates, tt.endDate, today)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("got %v, want nil", *got)
			case tt.want != nil && got == nil:
				t.Errorf("got nil, want %v", *tt.want)
			case tt.want != nil && got != nil && *got != *tt.want:
				t.Errorf("got %v, want %v", *got, *tt.want)
			}
		})
	}
}

func boolPtr(b bool) *bool { return &b }
