package models

import "gorm.io/gorm"

// ProjectPO is a purchase order attached to a project. PONumber is assigned
// by humans and optional; when present it must be unique among the project's
// live POs. FilePath points at the bound document under the upload dir and is
// empty when no document was bound.
type ProjectPO struct {
	gorm.Model
	ProjectID   uint    `json:"projectId"`
	PONumber    string  `json:"poNumber"`
	Amount      float64 `json:"amount" gorm:"type:numeric(14,2)"`
	Description string  `json:"description"`
	FilePath    string  `json:"filePath"`

	Invoices []Invoice `json:"invoices,omitempty" gorm:"foreignKey:ProjectPOID"`
}
