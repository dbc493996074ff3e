package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"nirmaan-backend/config"
	"nirmaan-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

type invoiceAnalyticsItem struct {
	InvoiceID       uint     `json:"invoice_id"`
	ProjectName     string   `json:"project_name"`
	PONumber        string   `json:"po_number"`
	POAmount        *float64 `json:"po_amount"`
	InvoiceAmount   float64  `json:"invoice_amount"`
	DueDate         string   `json:"due_date"`
	PaymentStatus   string   `json:"payment_status"`
	TotalPaidAmount float64  `json:"total_paid_amount"`
	IsLate          *bool    `json:"is_late"`
}

// classifyInvoiceLateness decides whether an invoice settled (or is sitting)
// past the project deadline. Nil means lateness is not determinable: the
// project has no end date, or a paid invoice has no payment rows.
func classifyInvoiceLateness(paymentStatus string, paymentDates []time.Time, endDate *time.Time, today time.Time) *bool {
	if endDate == nil {
		return nil
	}

	boolPtr := func(b bool) *bool { return &b }

	switch paymentStatus {
	case models.PaymentStatusFullyPaid, models.PaymentStatusPartiallyPaid:
		if len(paymentDates) == 0 {
			return nil
		}
		latest := paymentDates[0]
		for _, d := range paymentDates[1:] {
			if d.After(latest) {
				latest = d
			}
		}
		return boolPtr(latest.After(*endDate))
	case models.PaymentStatusNotPaid:
		return boolPtr(today.After(*endDate))
	}
	return nil
}

// collectInvoiceAnalytics builds the per-invoice lateness rows for a project.
func collectInvoiceAnalytics(project models.Project) ([]invoiceAnalyticsItem, error) {
	var invoices []models.Invoice
	if err := config.DB.Where("project_id = ?", project.ID).
		Order("created_at").Find(&invoices).Error; err != nil {
		return nil, err
	}

	var pos []models.ProjectPO
	if err := config.DB.Where("project_id = ?", project.ID).Find(&pos).Error; err != nil {
		return nil, err
	}
	poByID := make(map[uint]models.ProjectPO, len(pos))
	for _, po := range pos {
		poByID[po.ID] = po
	}

	invoiceIDs := make([]uint, len(invoices))
	for i, inv := range invoices {
		invoiceIDs[i] = inv.ID
	}

	// One query for all payment dates, grouped in memory.
	paymentDates := make(map[uint][]time.Time, len(invoices))
	if len(invoiceIDs) > 0 {
		var payments []models.InvoicePayment
		if err := config.DB.Where("invoice_id IN ?", invoiceIDs).Find(&payments).Error; err != nil {
			return nil, err
		}
		for _, p := range payments {
			paymentDates[p.InvoiceID] = append(paymentDates[p.InvoiceID], p.PaymentDate)
		}
	}

	today := time.Now()
	items := make([]invoiceAnalyticsItem, len(invoices))
	for i, inv := range invoices {
		item := invoiceAnalyticsItem{
			InvoiceID:       inv.ID,
			ProjectName:     project.Name,
			InvoiceAmount:   inv.Amount,
			DueDate:         inv.DueDate.Format("2006-01-02"),
			PaymentStatus:   inv.PaymentStatus,
			TotalPaidAmount: inv.TotalPaidAmount,
			IsLate:          classifyInvoiceLateness(inv.PaymentStatus, paymentDates[inv.ID], project.EndDate, today),
		}
		if inv.ProjectPOID != nil {
			if po, ok := poByID[*inv.ProjectPOID]; ok {
				item.PONumber = po.PONumber
				amount := po.Amount
				item.POAmount = &amount
			}
		}
		items[i] = item
	}
	return items, nil
}

// ProjectInvoiceAnalyticsHandler reports per-invoice payment totals and
// lateness against the project end date.
func ProjectInvoiceAnalyticsHandler(c *gin.Context) {
	var project models.Project
	if !findLiveProject(c, &project) {
		return
	}

	items, err := collectInvoiceAnalytics(project)
	if err != nil {
		slog.Error("Failed to collect invoice analytics", "project_id", project.ID, "error", err)
		respondError(c, http.StatusInternalServerError, "An error occurred while computing invoice analytics")
		return
	}

	endDate := ""
	if project.EndDate != nil {
		endDate = project.EndDate.Format("2006-01-02")
	}

	lateCount := 0
	for _, item := range items {
		if item.IsLate != nil && *item.IsLate {
			lateCount++
		}
	}

	respond(c, http.StatusOK, gin.H{
		"project_id":       project.ID,
		"project_name":     project.Name,
		"project_end_date": endDate,
		"total_invoices":   len(items),
		"late_invoices":    lateCount,
		"invoices":         items,
	}, "Invoice analytics fetched successfully")
}

// ExportInvoiceAnalyticsHandler streams the analytics report as an .xlsx file.
func ExportInvoiceAnalyticsHandler(c *gin.Context) {
	var project models.Project
	if !findLiveProject(c, &project) {
		return
	}

	items, err := collectInvoiceAnalytics(project)
	if err != nil {
		slog.Error("Failed to collect invoice analytics for export", "project_id", project.ID, "error", err)
		respondError(c, http.StatusInternalServerError, "An error occurred while exporting invoice analytics")
		return
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("Failed to close Excel file", "error", err)
		}
	}()

	sheet := "Sheet1"
	headers := []string{"Invoice ID", "Project", "PO Number", "PO Amount", "Invoice Amount", "Due Date", "Payment Status", "Total Paid", "Is Late"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, item := range items {
		values := []interface{}{
			item.InvoiceID,
			item.ProjectName,
			item.PONumber,
			"",
			item.InvoiceAmount,
			item.DueDate,
			item.PaymentStatus,
			item.TotalPaidAmount,
			"",
		}
		if item.POAmount != nil {
			values[3] = *item.POAmount
		}
		if item.IsLate != nil {
			if *item.IsLate {
				values[8] = "LATE"
			} else {
				values[8] = "ON TIME"
			}
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	fileName := fmt.Sprintf("invoice_analytics_project_%d.xlsx", project.ID)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+fileName)

	if err := f.Write(c.Writer); err != nil {
		slog.Error("Failed to write Excel file", "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to generate Excel file")
	}
}
