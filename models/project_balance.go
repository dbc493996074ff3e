package models

import "gorm.io/gorm"

const (
	BalanceTypePO        = "po"
	BalanceTypeEstimated = "estimated"
	BalanceTypeActual    = "actual"
)

// ProjectBalance is an append-only adjustment entry. The matching running
// total on Project is updated in the same transaction that inserts the entry.
type ProjectBalance struct {
	gorm.Model
	ProjectID   uint    `json:"projectId"`
	Adjustment  float64 `json:"adjustment" gorm:"type:numeric(14,2)"`
	Description string  `json:"description"`
	BalanceType string  `json:"balanceType"`
}
