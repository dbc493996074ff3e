package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"nirmaan-backend/config"
	"nirmaan-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvoiceCreateRequest struct {
	ProjectID   uint    `json:"project_id"`
	ProjectPOID *uint   `json:"project_po_id"`
	ClientName  string  `json:"client_name"`
	InvoiceItem string  `json:"invoice_item"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	DueDate     string  `json:"due_date"`
}

type invoiceData struct {
	ID            uint    `json:"id"`
	ProjectID     uint    `json:"project_id"`
	ProjectPOID   *uint   `json:"project_po_id"`
	ClientName    string  `json:"client_name"`
	InvoiceItem   string  `json:"invoice_item"`
	Amount        float64 `json:"amount"`
	Description   string  `json:"description"`
	DueDate       string  `json:"due_date"`
	FilePath      string  `json:"file_path"`
	Status        string  `json:"status"`
	PaymentStatus string  `json:"payment_status"`
	TotalPaid     float64 `json:"total_paid_amount"`
	CreatedAt     string  `json:"created_at"`
}

func invoiceToData(inv models.Invoice) invoiceData {
	return invoiceData{
		ID:            inv.ID,
		ProjectID:     inv.ProjectID,
		ProjectPOID:   inv.ProjectPOID,
		ClientName:    inv.ClientName,
		InvoiceItem:   inv.InvoiceItem,
		Amount:        inv.Amount,
		Description:   inv.Description,
		DueDate:       inv.DueDate.Format("2006-01-02"),
		FilePath:      fileURL(inv.FilePath),
		Status:        inv.Status,
		PaymentStatus: inv.PaymentStatus,
		TotalPaid:     inv.TotalPaidAmount,
		CreatedAt:     inv.CreatedAt.Format(time.RFC3339),
	}
}

// parseDueDate accepts a date or a date-time.
func parseDueDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", s)
}

// CreateInvoiceHandler creates an invoice against a project and, optionally,
// one of its POs. Accepts a multipart form: 'request' JSON plus an optional
// 'invoice_file' document.
func CreateInvoiceHandler(c *gin.Context) {
	raw := c.PostForm("request")
	if raw == "" {
		respondError(c, http.StatusBadRequest, "Form field 'request' is required")
		return
	}

	var req InvoiceCreateRequest
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid JSON in request data: "+err.Error())
		return
	}

	if req.Amount <= 0 {
		respondError(c, http.StatusBadRequest, "Amount must be greater than 0")
		return
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid due_date format. Use YYYY-MM-DD or YYYY-MM-DD HH:MM:SS")
		return
	}

	var project models.Project
	if err := config.DB.First(&project, req.ProjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "Project not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	if req.ProjectPOID != nil {
		var po models.ProjectPO
		err := config.DB.Where("project_id = ?", project.ID).First(&po, *req.ProjectPOID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondError(c, http.StatusNotFound, "Project PO not found")
				return
			}
			respondError(c, http.StatusInternalServerError, "Database error")
			return
		}
	}

	var staged []stagedFile
	filePath := ""
	if fh, err := c.FormFile("invoice_file"); err == nil && fh.Filename != "" {
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		name := fmt.Sprintf("Invoice_%s%s", uuid.New(), ext)
		sf, err := stageUploadedFile(c, "invoice_file", name)
		if err != nil {
			slog.Error("Failed to stage invoice file", "error", err)
			respondError(c, http.StatusInternalServerError, "Failed to save invoice file: "+err.Error())
			return
		}
		staged = append(staged, sf)
		filePath = sf.FinalPath
	}

	invoice := models.Invoice{
		ProjectID:     project.ID,
		ProjectPOID:   req.ProjectPOID,
		ClientName:    req.ClientName,
		InvoiceItem:   req.InvoiceItem,
		Amount:        req.Amount,
		Description:   req.Description,
		DueDate:       dueDate,
		FilePath:      filePath,
		Status:        models.InvoiceStatusUploaded,
		PaymentStatus: models.PaymentStatusNotPaid,
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&invoice).Error; err != nil {
			return err
		}
		return writeAuditLog(tx, c, "Invoice", "Create", invoice.ID)
	})
	if err != nil {
		discardStagedFiles(staged)
		slog.Error("Failed to create invoice", "error", err)
		respondError(c, http.StatusInternalServerError, "An error occurred while uploading invoice: "+err.Error())
		return
	}

	finalizeStagedFiles(staged)
	respond(c, http.StatusCreated, invoiceToData(invoice), "Invoice uploaded successfully")
}

// ListInvoicesHandler lists live invoices, optionally filtered by project_id
// and/or document status.
func ListInvoicesHandler(c *gin.Context) {
	query := config.DB.Model(&models.Invoice{})

	if projectID := c.Query("project_id"); projectID != "" {
		query = query.Where("project_id = ?", projectID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var invoices []models.Invoice
	if err := query.Order("created_at DESC").Find(&invoices).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "An error occurred while fetching invoices")
		return
	}

	list := make([]invoiceData, len(invoices))
	for i, inv := range invoices {
		list[i] = invoiceToData(inv)
	}

	respond(c, http.StatusOK, list, "Invoices fetched successfully")
}

// GetInvoiceHandler returns one invoice.
func GetInvoiceHandler(c *gin.Context) {
	var invoice models.Invoice
	if err := config.DB.First(&invoice, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "Invoice not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	respond(c, http.StatusOK, invoiceToData(invoice), "Invoice fetched successfully")
}

// UpdateInvoiceStatusHandler moves an invoice between the document states
// (uploaded -> received). Payment status is never writable through here.
func UpdateInvoiceStatusHandler(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Status is required")
		return
	}

	if req.Status != models.InvoiceStatusUploaded && req.Status != models.InvoiceStatusReceived {
		respondError(c, http.StatusBadRequest, fmt.Sprintf("Invalid status '%s'. Must be 'uploaded' or 'received'", req.Status))
		return
	}

	var invoice models.Invoice
	if err := config.DB.First(&invoice, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "Invoice not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	invoice.Status = req.Status
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&invoice).Error; err != nil {
			return err
		}
		return writeAuditLog(tx, c, "Invoice", "Status Update", invoice.ID)
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "An error occurred while updating invoice status")
		return
	}

	respond(c, http.StatusOK, gin.H{"id": invoice.ID, "status": invoice.Status}, "Invoice status updated successfully")
}

// DeleteInvoiceHandler soft-deletes an invoice together with its payments.
func DeleteInvoiceHandler(c *gin.Context) {
	var invoice models.Invoice
	if err := config.DB.First(&invoice, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "Invoice not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&models.InvoicePayment{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&invoice).Error; err != nil {
			return err
		}
		return writeAuditLog(tx, c, "Invoice", "Delete", invoice.ID)
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "An error occurred while deleting invoice")
		return
	}

	respond(c, http.StatusOK, gin.H{"deleted_invoice_id": invoice.ID}, "Invoice deleted successfully")
}
