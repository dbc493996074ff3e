package models

import (
	"time"

	"gorm.io/gorm"
)

type InvoicePayment struct {
	gorm.Model
	InvoiceID       uint      `json:"invoiceId"`
	Amount          float64   `json:"amount" gorm:"type:numeric(14,2)"`
	PaymentDate     time.Time `json:"paymentDate"`
	Description     string    `json:"description"`
	PaymentMethod   string    `json:"paymentMethod"`   // cash, bank, cheque
	ReferenceNumber string    `json:"referenceNumber"` // cheque/txn ref
}
