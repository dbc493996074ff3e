package handlers

import (
	"nirmaan-backend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// writeAuditLog appends an audit entry inside the caller's transaction.
func writeAuditLog(tx *gorm.DB, c *gin.Context, entity, action string, entityID uint) error {
	entry := models.AuditLog{
		Entity:      entity,
		Action:      action,
		EntityID:    entityID,
		PerformedBy: currentUserID(c),
	}
	return tx.Create(&entry).Error
}

func currentUserID(c *gin.Context) uint {
	if v, ok := c.Get("user_id"); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}
