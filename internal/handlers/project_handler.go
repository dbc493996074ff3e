package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"nirmaan-backend/config"
	"nirmaan-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectCreateRequest struct {
	Name             string      `json:"name"`
	Description      string      `json:"description"`
	Location         string      `json:"location"`
	StartDate        string      `json:"start_date"`
	EndDate          string      `json:"end_date"`
	POBalance        float64     `json:"po_balance"`
	EstimatedBalance float64     `json:"estimated_balance"`
	ActualBalance    float64     `json:"actual_balance"`
	POs              []PORequest `json:"pos"`
}

type poSummary struct {
	TotalPOs        int     `json:"total_pos"`
	TotalAmount     float64 `json:"total_amount"`
	FilesUploaded   int     `json:"files_uploaded"`
	FilesMissing    int     `json:"files_missing"`
	MaxPOsSupported int     `json:"max_pos_supported,omitempty"`
}

type projectPOData struct {
	ID          uint           `json:"id"`
	PONumber    string         `json:"po_number"`
	Amount      float64        `json:"amount"`
	Description string         `json:"description"`
	FilePath    string         `json:"file_path"`
	HasDocument bool           `json:"has_document"`
	FileBinding *POFileBinding `json:"file_binding,omitempty"`
	CreatedAt   string         `json:"created_at"`
}

// CreateProjectHandler creates a project together with its PO batch and the
// documents bound to them. The whole request is all-or-nothing: descriptor
// and file validation run before any database write, documents are staged
// first and only finalized after the transaction commits.
func CreateProjectHandler(c *gin.Context) {
	raw := c.PostForm("request")
	if raw == "" {
		respondError(c, http.StatusBadRequest, "Form field 'request' is required")
		return
	}

	var req ProjectCreateRequest
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid JSON in request data: "+err.Error())
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		respondError(c, http.StatusBadRequest, "Project name is required")
		return
	}

	startDate, err := parseOptionalDate(req.StartDate)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid start_date format. Use YYYY-MM-DD")
		return
	}
	endDate, err := parseOptionalDate(req.EndDate)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid end_date format. Use YYYY-MM-DD")
		return
	}

	if err := validatePOBatch(req.POs, config.MaxPODocuments); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	projectUUID := uuid.New()

	documents := make(map[int]*multipart.FileHeader, config.MaxPODocuments)
	for i := 0; i < config.MaxPODocuments; i++ {
		if fh, err := c.FormFile(fmt.Sprintf("po_document_%d", i)); err == nil && fh.Filename != "" {
			documents[i] = fh
		}
	}

	var staged []stagedFile
	bindings := make([]POFileBinding, len(req.POs))
	filePaths := make([]string, len(req.POs))

	for idx, po := range req.POs {
		fileIndex := effectiveFileIndex(po, idx)
		bindings[idx] = POFileBinding{FileIndex: fileIndex}

		fh := documents[fileIndex]
		if fh == nil {
			continue
		}

		if err := validatePODocument(fh, idx+1); err != nil {
			discardStagedFiles(staged)
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}

		name := poDocumentName(projectUUID, po.PONumber, idx+1, fh.Filename)
		sf, err := stageUploadedFile(c, fmt.Sprintf("po_document_%d", fileIndex), name)
		if err != nil {
			discardStagedFiles(staged)
			slog.Error("Failed to stage PO document", "po_index", idx+1, "error", err)
			respondError(c, http.StatusInternalServerError, fmt.Sprintf("Failed to save PO %d document: %v", idx+1, err))
			return
		}

		staged = append(staged, sf)
		filePaths[idx] = sf.FinalPath
		bindings[idx] = POFileBinding{
			FileIndex:         fileIndex,
			OriginalFilename:  fh.Filename,
			FileSizeBytes:     fh.Size,
			SuccessfullyBound: true,
		}
	}

	project := models.Project{
		UUID:             projectUUID,
		Name:             req.Name,
		Description:      req.Description,
		Location:         req.Location,
		StartDate:        startDate,
		EndDate:          endDate,
		POBalance:        req.POBalance,
		EstimatedBalance: req.EstimatedBalance,
		ActualBalance:    req.ActualBalance,
	}
	createdPOs := make([]models.ProjectPO, len(req.POs))

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}

		for idx, po := range req.POs {
			newPO := models.ProjectPO{
				ProjectID:   project.ID,
				PONumber:    po.PONumber,
				Amount:      po.Amount,
				Description: po.Description,
				FilePath:    filePaths[idx],
			}
			if err := tx.Create(&newPO).Error; err != nil {
				return err
			}
			createdPOs[idx] = newPO
		}

		for _, entry := range initialBalanceEntries(project.ID, req) {
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}

		return writeAuditLog(tx, c, "Project", "Create", project.ID)
	})
	if err != nil {
		discardStagedFiles(staged)
		slog.Error("Failed to create project", "error", err)
		respondError(c, http.StatusInternalServerError, "An error occurred while creating project: "+err.Error())
		return
	}

	finalizeStagedFiles(staged)

	posData := make([]projectPOData, len(createdPOs))
	totalAmount := 0.0
	filesUploaded := 0
	for idx, po := range createdPOs {
		binding := bindings[idx]
		posData[idx] = projectPOData{
			ID:          po.ID,
			PONumber:    po.PONumber,
			Amount:      po.Amount,
			Description: po.Description,
			FilePath:    fileURL(po.FilePath),
			HasDocument: po.FilePath != "",
			FileBinding: &binding,
			CreatedAt:   po.CreatedAt.Format(time.RFC3339),
		}
		totalAmount += po.Amount
		if binding.SuccessfullyBound {
			filesUploaded++
		}
	}

	respond(c, http.StatusCreated, gin.H{
		"id":                project.ID,
		"uuid":              project.UUID,
		"name":              project.Name,
		"description":       project.Description,
		"location":          project.Location,
		"start_date":        req.StartDate,
		"end_date":          req.EndDate,
		"po_balance":        project.POBalance,
		"estimated_balance": project.EstimatedBalance,
		"actual_balance":    project.ActualBalance,
		"po_summary": poSummary{
			TotalPOs:        len(createdPOs),
			TotalAmount:     totalAmount,
			FilesUploaded:   filesUploaded,
			FilesMissing:    len(createdPOs) - filesUploaded,
			MaxPOsSupported: config.MaxPODocuments,
		},
		"pos": posData,
	}, fmt.Sprintf("Project created successfully with %d PO(s) and %d document(s)", len(createdPOs), filesUploaded))
}

// ListProjectsHandler returns a paginated project list.
func ListProjectsHandler(c *gin.Context) {
	var projects []models.Project
	var totalRows int64

	query := config.DB.Model(&models.Project{})
	if err := query.Count(&totalRows).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not count projects")
		return
	}

	if err := query.Scopes(Paginate(c)).Order("created_at DESC").Find(&projects).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not fetch projects")
		return
	}

	if projects == nil {
		projects = make([]models.Project, 0)
	}

	respond(c, http.StatusOK, CreatePaginatedResponse(c, projects, totalRows), "Projects fetched successfully")
}

// GetProjectHandler returns one project with its live POs.
func GetProjectHandler(c *gin.Context) {
	var project models.Project
	if err := config.DB.Preload("POs").First(&project, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "Project not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	respond(c, http.StatusOK, project, "Project fetched successfully")
}

type projectUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
}

// UpdateProjectHandler partially updates project attributes. Balances are not
// editable here; they move only through balance adjustment entries.
func UpdateProjectHandler(c *gin.Context) {
	var project models.Project
	if err := config.DB.First(&project, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "Project not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	var req projectUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			respondError(c, http.StatusBadRequest, "Project name cannot be empty")
			return
		}
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Location != nil {
		project.Location = *req.Location
	}
	if req.StartDate != nil {
		t, err := parseOptionalDate(*req.StartDate)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid start_date format. Use YYYY-MM-DD")
			return
		}
		project.StartDate = t
	}
	if req.EndDate != nil {
		t, err := parseOptionalDate(*req.EndDate)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid end_date format. Use YYYY-MM-DD")
			return
		}
		project.EndDate = t
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&project).Error; err != nil {
			return err
		}
		return writeAuditLog(tx, c, "Project", "Update", project.ID)
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Could not update project")
		return
	}

	respond(c, http.StatusOK, project, "Project updated successfully")
}

// DeleteProjectHandler soft-deletes a project and its POs. Blocked while live
// invoices reference the project, mirroring the PO deletion rule.
func DeleteProjectHandler(c *gin.Context) {
	var project models.Project
	if err := config.DB.First(&project, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "Project not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	var invoiceCount int64
	if err := config.DB.Model(&models.Invoice{}).Where("project_id = ?", project.ID).Count(&invoiceCount).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if invoiceCount > 0 {
		respondError(c, http.StatusBadRequest, deleteBlockedByInvoices("project", invoiceCount))
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProjectPO{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&project).Error; err != nil {
			return err
		}
		return writeAuditLog(tx, c, "Project", "Delete", project.ID)
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Could not delete project")
		return
	}

	respond(c, http.StatusOK, gin.H{"deleted_project_id": project.ID}, "Project deleted successfully")
}

// initialBalanceEntries builds the opening adjustment rows for a new project.
// Every non-zero balance gets a history entry, negative ones included; zero
// balances get none.
func initialBalanceEntries(projectID uint, req ProjectCreateRequest) []models.ProjectBalance {
	candidates := []models.ProjectBalance{
		{ProjectID: projectID, Adjustment: req.POBalance, Description: "Initial PO balance", BalanceType: models.BalanceTypePO},
		{ProjectID: projectID, Adjustment: req.EstimatedBalance, Description: "Initial estimated balance", BalanceType: models.BalanceTypeEstimated},
		{ProjectID: projectID, Adjustment: req.ActualBalance, Description: "Initial actual balance", BalanceType: models.BalanceTypeActual},
	}

	var entries []models.ProjectBalance
	for _, entry := range candidates {
		if entry.Adjustment == 0 {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

// parseOptionalDate parses a YYYY-MM-DD string, returning nil for "".
func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
