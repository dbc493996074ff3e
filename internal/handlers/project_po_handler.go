package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"nirmaan-backend/config"
	"nirmaan-backend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// findLiveProject loads a non-deleted project by route param or writes the
// 404/500 response itself and returns false.
func findLiveProject(c *gin.Context, project *models.Project) bool {
	if err := config.DB.First(project, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "Project not found")
			return false
		}
		respondError(c, http.StatusInternalServerError, "Database error")
		return false
	}
	return true
}

// AddProjectPOHandler adds a single PO to an existing project, with an
// optional document in the 'po_document' part. There is no slot limit here;
// batching with file_index applies only to project creation.
func AddProjectPOHandler(c *gin.Context) {
	var project models.Project
	if !findLiveProject(c, &project) {
		return
	}

	raw := c.PostForm("po_data")
	if raw == "" {
		respondError(c, http.StatusBadRequest, "Form field 'po_data' is required")
		return
	}

	var req PORequest
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid JSON in PO data: "+err.Error())
		return
	}

	if req.Amount <= 0 {
		respondError(c, http.StatusBadRequest, "Amount must be greater than 0")
		return
	}

	if req.PONumber != "" {
		var count int64
		if err := config.DB.Model(&models.ProjectPO{}).
			Where("project_id = ? AND po_number = ?", project.ID, req.PONumber).
			Count(&count).Error; err != nil {
			respondError(c, http.StatusInternalServerError, "Database error")
			return
		}
		if count > 0 {
			respondError(c, http.StatusBadRequest,
				fmt.Sprintf("PO number '%s' already exists in this project", req.PONumber))
			return
		}
	}

	var staged []stagedFile
	binding := POFileBinding{}
	filePath := ""

	if fh, err := c.FormFile("po_document"); err == nil && fh.Filename != "" {
		if err := validatePODocument(fh, 1); err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		name := poDocumentName(project.UUID, req.PONumber, 1, fh.Filename)
		sf, err := stageUploadedFile(c, "po_document", name)
		if err != nil {
			slog.Error("Failed to stage PO document", "project_id", project.ID, "error", err)
			respondError(c, http.StatusInternalServerError, "Failed to save PO document: "+err.Error())
			return
		}
		staged = append(staged, sf)
		filePath = sf.FinalPath
		binding = POFileBinding{OriginalFilename: fh.Filename, FileSizeBytes: fh.Size, SuccessfullyBound: true}
	}

	po := models.ProjectPO{
		ProjectID:   project.ID,
		PONumber:    req.PONumber,
		Amount:      req.Amount,
		Description: req.Description,
		FilePath:    filePath,
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&po).Error; err != nil {
			return err
		}
		return writeAuditLog(tx, c, "ProjectPO", "Create", po.ID)
	})
	if err != nil {
		discardStagedFiles(staged)
		slog.Error("Failed to add PO", "project_id", project.ID, "error", err)
		respondError(c, http.StatusInternalServerError, "An error occurred while adding PO: "+err.Error())
		return
	}

	finalizeStagedFiles(staged)

	respond(c, http.StatusCreated, projectPOData{
		ID:          po.ID,
		PONumber:    po.PONumber,
		Amount:      po.Amount,
		Description: po.Description,
		FilePath:    fileURL(po.FilePath),
		HasDocument: po.FilePath != "",
		FileBinding: &binding,
		CreatedAt:   po.CreatedAt.Format(time.RFC3339),
	}, "PO added to project successfully")
}

// ListProjectPOsHandler returns a project's live POs with a summary of how
// many documents are bound.
func ListProjectPOsHandler(c *gin.Context) {
	var project models.Project
	if !findLiveProject(c, &project) {
		return
	}

	var pos []models.ProjectPO
	if err := config.DB.Where("project_id = ?", project.ID).Order("created_at").Find(&pos).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "An error occurred while fetching project POs")
		return
	}

	posData := make([]projectPOData, len(pos))
	totalAmount := 0.0
	filesUploaded := 0
	for i, po := range pos {
		posData[i] = projectPOData{
			ID:          po.ID,
			PONumber:    po.PONumber,
			Amount:      po.Amount,
			Description: po.Description,
			FilePath:    fileURL(po.FilePath),
			HasDocument: po.FilePath != "",
			CreatedAt:   po.CreatedAt.Format(time.RFC3339),
		}
		totalAmount += po.Amount
		if po.FilePath != "" {
			filesUploaded++
		}
	}

	respond(c, http.StatusOK, gin.H{
		"project_id":   project.ID,
		"project_name": project.Name,
		"po_summary": poSummary{
			TotalPOs:      len(pos),
			TotalAmount:   totalAmount,
			FilesUploaded: filesUploaded,
			FilesMissing:  len(pos) - filesUploaded,
		},
		"pos": posData,
	}, "Project POs fetched successfully")
}

type poUpdateRequest struct {
	PONumber    *string  `json:"po_number"`
	Amount      *float64 `json:"amount"`
	Description *string  `json:"description"`
}

// UpdateProjectPOHandler partially updates po_number, amount or description.
func UpdateProjectPOHandler(c *gin.Context) {
	var po models.ProjectPO
	err := config.DB.Where("project_id = ?", c.Param("id")).First(&po, c.Param("poId")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "PO not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	var req poUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if req.Amount != nil && *req.Amount <= 0 {
		respondError(c, http.StatusBadRequest, "Amount must be greater than 0")
		return
	}

	if req.PONumber != nil && *req.PONumber != "" && *req.PONumber != po.PONumber {
		var count int64
		if err := config.DB.Model(&models.ProjectPO{}).
			Where("project_id = ? AND po_number = ? AND id <> ?", po.ProjectID, *req.PONumber, po.ID).
			Count(&count).Error; err != nil {
			respondError(c, http.StatusInternalServerError, "Database error")
			return
		}
		if count > 0 {
			respondError(c, http.StatusBadRequest,
				fmt.Sprintf("PO number '%s' already exists in this project", *req.PONumber))
			return
		}
	}

	if req.PONumber != nil {
		po.PONumber = *req.PONumber
	}
	if req.Amount != nil {
		po.Amount = *req.Amount
	}
	if req.Description != nil {
		po.Description = *req.Description
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&po).Error; err != nil {
			return err
		}
		return writeAuditLog(tx, c, "ProjectPO", "Update", po.ID)
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "An error occurred while updating PO: "+err.Error())
		return
	}

	respond(c, http.StatusOK, projectPOData{
		ID:          po.ID,
		PONumber:    po.PONumber,
		Amount:      po.Amount,
		Description: po.Description,
		FilePath:    fileURL(po.FilePath),
		HasDocument: po.FilePath != "",
		CreatedAt:   po.CreatedAt.Format(time.RFC3339),
	}, "PO updated successfully")
}

// DeleteProjectPOHandler soft-deletes a PO. Blocked while live invoices
// reference it.
func DeleteProjectPOHandler(c *gin.Context) {
	var po models.ProjectPO
	err := config.DB.Where("project_id = ?", c.Param("id")).First(&po, c.Param("poId")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "PO not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	var invoiceCount int64
	if err := config.DB.Model(&models.Invoice{}).Where("project_po_id = ?", po.ID).Count(&invoiceCount).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if invoiceCount > 0 {
		respondError(c, http.StatusBadRequest, deleteBlockedByInvoices("PO", invoiceCount))
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&po).Error; err != nil {
			return err
		}
		return writeAuditLog(tx, c, "ProjectPO", "Delete", po.ID)
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "An error occurred while deleting PO: "+err.Error())
		return
	}

	respond(c, http.StatusOK, gin.H{"deleted_po_id": po.ID}, "PO deleted successfully")
}
