package models

import "gorm.io/gorm"

// AuditLog records who did what to which entity. Written alongside every
// create, status change and delete, inside the same transaction.
type AuditLog struct {
	gorm.Model
	Entity      string `json:"entity"`
	Action      string `json:"action"`
	EntityID    uint   `json:"entityId"`
	PerformedBy uint   `json:"performedBy"`
}
