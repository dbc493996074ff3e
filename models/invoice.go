// models/invoice.go
package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	InvoiceStatusUploaded = "uploaded"
	InvoiceStatusReceived = "received"

	PaymentStatusNotPaid       = "not_paid"
	PaymentStatusPartiallyPaid = "partially_paid"
	PaymentStatusFullyPaid     = "fully_paid"
)

type Invoice struct {
	gorm.Model
	ProjectID   uint      `json:"projectId"`
	ProjectPOID *uint     `json:"projectPoId"`
	ClientName  string    `json:"clientName"`
	InvoiceItem string    `json:"invoiceItem"`
	Amount      float64   `json:"amount" gorm:"type:numeric(14,2)"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"dueDate"`
	FilePath    string    `json:"filePath"`
	Status      string    `json:"status" gorm:"default:'uploaded'"`

	// PaymentStatus and TotalPaidAmount mirror the live InvoicePayment rows
	// and are recomputed inside the same transaction as every payment write.
	PaymentStatus   string  `json:"paymentStatus" gorm:"default:'not_paid'"`
	TotalPaidAmount float64 `json:"totalPaidAmount" gorm:"type:numeric(14,2);default:0"`

	Payments []InvoicePayment `json:"payments,omitempty" gorm:"foreignKey:InvoiceID"`
}

// ExceedsInvoiceAmount reports whether a recomputed paid total breaks the
// overpayment cap. Paying the invoice exactly off is allowed.
func ExceedsInvoiceAmount(totalPaid, amount float64) bool {
	return totalPaid > amount
}

// DerivePaymentStatus maps the paid total against the invoice amount.
func DerivePaymentStatus(totalPaid, amount float64) string {
	switch {
	case totalPaid <= 0:
		return PaymentStatusNotPaid
	case totalPaid < amount:
		return PaymentStatusPartiallyPaid
	default:
		return PaymentStatusFullyPaid
	}
}
