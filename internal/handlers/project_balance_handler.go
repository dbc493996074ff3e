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

type balanceAdjustRequest struct {
	BalanceType string  `json:"balance_type"`
	Adjustment  float64 `json:"adjustment"`
	Description string  `json:"description"`
}

type balanceEntryData struct {
	ID          uint    `json:"id"`
	BalanceType string  `json:"balance_type"`
	Adjustment  float64 `json:"adjustment"`
	Description string  `json:"description"`
	CreatedAt   string  `json:"created_at"`
}

// GetProjectBalanceHandler returns the current running totals together with
// the adjustment history.
func GetProjectBalanceHandler(c *gin.Context) {
	var project models.Project
	if !findLiveProject(c, &project) {
		return
	}

	var entries []models.ProjectBalance
	if err := config.DB.Where("project_id = ?", project.ID).
		Order("created_at DESC").Find(&entries).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "An error occurred while fetching balance entries")
		return
	}

	history := make([]balanceEntryData, len(entries))
	for i, e := range entries {
		history[i] = balanceEntryData{
			ID:          e.ID,
			BalanceType: e.BalanceType,
			Adjustment:  e.Adjustment,
			Description: e.Description,
			CreatedAt:   e.CreatedAt.Format(time.RFC3339),
		}
	}

	respond(c, http.StatusOK, gin.H{
		"project_id":        project.ID,
		"po_balance":        project.POBalance,
		"estimated_balance": project.EstimatedBalance,
		"actual_balance":    project.ActualBalance,
		"entries":           history,
	}, "Project balance fetched successfully")
}

// AdjustProjectBalanceHandler appends an adjustment entry and moves the
// matching running total in the same transaction. The project row is locked
// so concurrent adjustments serialize.
func AdjustProjectBalanceHandler(c *gin.Context) {
	var req balanceAdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	switch req.BalanceType {
	case models.BalanceTypePO, models.BalanceTypeEstimated, models.BalanceTypeActual:
	default:
		respondError(c, http.StatusBadRequest,
			fmt.Sprintf("Invalid balance_type '%s'. Must be 'po', 'estimated' or 'actual'", req.BalanceType))
		return
	}
	if req.Adjustment == 0 {
		respondError(c, http.StatusBadRequest, "Adjustment must be non-zero")
		return
	}

	var project models.Project

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&project, c.Param("id")).Error; err != nil {
			return err
		}

		entry := models.ProjectBalance{
			ProjectID:   project.ID,
			Adjustment:  req.Adjustment,
			Description: req.Description,
			BalanceType: req.BalanceType,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		switch req.BalanceType {
		case models.BalanceTypePO:
			project.POBalance += req.Adjustment
		case models.BalanceTypeEstimated:
			project.EstimatedBalance += req.Adjustment
		case models.BalanceTypeActual:
			project.ActualBalance += req.Adjustment
		}
		if err := tx.Save(&project).Error; err != nil {
			return err
		}

		return writeAuditLog(tx, c, "ProjectBalance", "Adjust", entry.ID)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "Project not found")
			return
		}
		slog.Error("Failed to adjust project balance", "project_id", c.Param("id"), "error", err)
		respondError(c, http.StatusInternalServerError, "An error occurred while adjusting balance: "+err.Error())
		return
	}

	respond(c, http.StatusOK, gin.H{
		"project_id":        project.ID,
		"po_balance":        project.POBalance,
		"estimated_balance": project.EstimatedBalance,
		"actual_balance":    project.ActualBalance,
	}, "Balance adjusted successfully")
}
