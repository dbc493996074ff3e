package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"nirmaan-backend/config"
	"nirmaan-backend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InvoicePaymentCreateRequest struct {
	Amount          float64 `json:"amount"`
	PaymentDate     string  `json:"payment_date"`
	Description     string  `json:"description"`
	PaymentMethod   string  `json:"payment_method"`
	ReferenceNumber string  `json:"reference_number"`
}

type invoicePaymentData struct {
	ID              uint    `json:"id"`
	InvoiceID       uint    `json:"invoice_id"`
	Amount          float64 `json:"amount"`
	PaymentDate     string  `json:"payment_date"`
	Description     string  `json:"description"`
	PaymentMethod   string  `json:"payment_method"`
	ReferenceNumber string  `json:"reference_number"`
	CreatedAt       string  `json:"created_at"`
}

func paymentToData(p models.InvoicePayment) invoicePaymentData {
	return invoicePaymentData{
		ID:              p.ID,
		InvoiceID:       p.InvoiceID,
		Amount:          p.Amount,
		PaymentDate:     p.PaymentDate.Format("2006-01-02"),
		Description:     p.Description,
		PaymentMethod:   p.PaymentMethod,
		ReferenceNumber: p.ReferenceNumber,
		CreatedAt:       p.CreatedAt.Format(time.RFC3339),
	}
}

// overpaymentError rejects a payment that would push the live total above the
// invoice amount.
type overpaymentError struct {
	InvoiceAmount float64
	WouldTotal    float64
}

func (e overpaymentError) Error() string {
	return fmt.Sprintf("Payment rejected: total paid %.2f would exceed invoice amount %.2f", e.WouldTotal, e.InvoiceAmount)
}

// sumLivePayments re-sums the non-deleted payment rows of an invoice.
func sumLivePayments(tx *gorm.DB, invoiceID uint) (float64, error) {
	var total float64
	err := tx.Model(&models.InvoicePayment{}).
		Where("invoice_id = ?", invoiceID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

// CreateInvoicePaymentHandler appends a payment to an invoice and recomputes
// total_paid_amount and payment_status in the same transaction. The invoice
// row is locked FOR UPDATE first so concurrent submissions serialize instead
// of losing updates.
func CreateInvoicePaymentHandler(c *gin.Context) {
	var req InvoicePaymentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Amount <= 0 {
		respondError(c, http.StatusBadRequest, "Amount must be greater than 0")
		return
	}

	paymentDate, err := time.Parse("2006-01-02", req.PaymentDate)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid payment_date format. Use YYYY-MM-DD")
		return
	}

	var invoice models.Invoice
	var payment models.InvoicePayment

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&invoice, c.Param("id")).Error; err != nil {
			return err
		}

		payment = models.InvoicePayment{
			InvoiceID:       invoice.ID,
			Amount:          req.Amount,
			PaymentDate:     paymentDate,
			Description:     req.Description,
			PaymentMethod:   req.PaymentMethod,
			ReferenceNumber: req.ReferenceNumber,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		total, err := sumLivePayments(tx, invoice.ID)
		if err != nil {
			return err
		}
		if models.ExceedsInvoiceAmount(total, invoice.Amount) {
			return overpaymentError{InvoiceAmount: invoice.Amount, WouldTotal: total}
		}

		invoice.TotalPaidAmount = total
		invoice.PaymentStatus = models.DerivePaymentStatus(total, invoice.Amount)
		if err := tx.Save(&invoice).Error; err != nil {
			return err
		}

		return writeAuditLog(tx, c, "InvoicePayment", "Create", payment.ID)
	})
	if err != nil {
		var overpay overpaymentError
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			respondError(c, http.StatusNotFound, "Invoice not found")
		case errors.As(err, &overpay):
			respondError(c, http.StatusBadRequest, overpay.Error())
		default:
			slog.Error("Failed to create invoice payment", "invoice_id", c.Param("id"), "error", err)
			respondError(c, http.StatusInternalServerError, "An error occurred while creating invoice payment: "+err.Error())
		}
		return
	}

	data := paymentToData(payment)
	respond(c, http.StatusCreated, gin.H{
		"payment":                data,
		"invoice_payment_status": invoice.PaymentStatus,
		"invoice_total_paid":     invoice.TotalPaidAmount,
	}, "Invoice payment created successfully")
}

// ListInvoicePaymentsHandler returns an invoice's live payments ordered by
// payment_date descending, plus the running totals.
func ListInvoicePaymentsHandler(c *gin.Context) {
	var invoice models.Invoice
	if err := config.DB.First(&invoice, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "Invoice not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	var payments []models.InvoicePayment
	if err := config.DB.Where("invoice_id = ?", invoice.ID).
		Order("payment_date DESC").Find(&payments).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "An error occurred while fetching invoice payments")
		return
	}

	list := make([]invoicePaymentData, len(payments))
	for i, p := range payments {
		list[i] = paymentToData(p)
	}

	respond(c, http.StatusOK, gin.H{
		"invoice_id":        invoice.ID,
		"invoice_amount":    invoice.Amount,
		"payment_status":    invoice.PaymentStatus,
		"total_paid_amount": invoice.TotalPaidAmount,
		"remaining_amount":  invoice.Amount - invoice.TotalPaidAmount,
		"payments":          list,
	}, "Invoice payments fetched successfully")
}

// DeleteInvoicePaymentHandler soft-deletes one payment and recomputes the
// invoice totals under the same lock discipline as creation.
func DeleteInvoicePaymentHandler(c *gin.Context) {
	var invoice models.Invoice

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&invoice, c.Param("id")).Error; err != nil {
			return err
		}

		var payment models.InvoicePayment
		if err := tx.Where("invoice_id = ?", invoice.ID).
			First(&payment, c.Param("paymentId")).Error; err != nil {
			return err
		}

		if err := tx.Delete(&payment).Error; err != nil {
			return err
		}

		total, err := sumLivePayments(tx, invoice.ID)
		if err != nil {
			return err
		}
		invoice.TotalPaidAmount = total
		invoice.PaymentStatus = models.DerivePaymentStatus(total, invoice.Amount)
		if err := tx.Save(&invoice).Error; err != nil {
			return err
		}

		return writeAuditLog(tx, c, "InvoicePayment", "Delete", payment.ID)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "Invoice payment not found")
			return
		}
		slog.Error("Failed to delete invoice payment", "invoice_id", c.Param("id"), "error", err)
		respondError(c, http.StatusInternalServerError, "An error occurred while deleting invoice payment")
		return
	}

	respond(c, http.StatusOK, gin.H{
		"invoice_payment_status": invoice.PaymentStatus,
		"invoice_total_paid":     invoice.TotalPaidAmount,
	}, "Invoice payment deleted successfully")
}
