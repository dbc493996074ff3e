package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project is the top-level entity. The three balances are informational
// running totals maintained through ProjectBalance entries; nothing at the
// data layer derives them from other rows.
type Project struct {
	gorm.Model
	UUID             uuid.UUID  `json:"uuid" gorm:"type:uuid;uniqueIndex"`
	Name             string     `json:"name"`
	Description      string     `json:"description"`
	Location         string     `json:"location"`
	StartDate        *time.Time `json:"startDate"`
	EndDate          *time.Time `json:"endDate"`
	POBalance        float64    `json:"poBalance" gorm:"type:numeric(14,2);default:0"`
	EstimatedBalance float64    `json:"estimatedBalance" gorm:"type:numeric(14,2);default:0"`
	ActualBalance    float64    `json:"actualBalance" gorm:"type:numeric(14,2);default:0"`

	POs      []ProjectPO `json:"pos,omitempty" gorm:"foreignKey:ProjectID"`
	Invoices []Invoice   `json:"invoices,omitempty" gorm:"foreignKey:ProjectID"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == uuid.Nil {
		p.UUID = uuid.New()
	}
	return nil
}
