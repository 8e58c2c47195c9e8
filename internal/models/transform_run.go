package models

import (
	"time"

	"gorm.io/datatypes"
)

// TransformRun stores the summary of one pipeline run so past runs can
// be listed over the API.
type TransformRun struct {
	ID          string         `gorm:"type:varchar(36);not null;primaryKey"` // Run UUID.
	StartedAt   time.Time      `gorm:"not null;index"`                       // Run start timestamp.
	FinishedAt  time.Time      `gorm:"not null"`                             // Run end timestamp.
	Products    int            `gorm:"not null;default:0"`                   // Products submitted.
	Platforms   int            `gorm:"not null;default:0"`                   // Platforms requested.
	Succeeded   int            `gorm:"not null;default:0"`                   // Pairs that produced a record.
	Skipped     int            `gorm:"not null;default:0"`                   // Pairs skipped on validation.
	Diagnostics datatypes.JSON `gorm:"not null;default:'[]'"`                // Per-pair diagnostics payload.
	CreatedAt   time.Time      `gorm:"not null;autoCreateTime"`              // Creation timestamp.
}

// TableName overrides the default table name.
func (TransformRun) TableName() string {
	return "transform_runs"
}
