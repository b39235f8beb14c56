package model

import (
	"time"

	"gorm.io/datatypes"
)

// RecordModel is the GORM-specific struct for the 'records' table.
// Each row holds one child of a top-level collection, e.g. nodes/{id}, as a JSONB document.
type RecordModel struct {
	Collection string         `gorm:"type:text;primaryKey"`
	Key        string         `gorm:"type:text;primaryKey"`
	Data       datatypes.JSON `gorm:"type:jsonb;not null"`
	UpdatedAt  time.Time      `gorm:"not null"`
}

// TableName explicitly sets the table name for GORM.
func (RecordModel) TableName() string {
	return "records"
}
