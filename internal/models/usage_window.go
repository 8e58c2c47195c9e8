package models

import "time"

// UsageWindow stores the persisted translation usage of one quota
// window, keyed by window kind so daily and monthly occupy one row
// each.
type UsageWindow struct {
	Kind             string    `gorm:"type:varchar(16);not null;primaryKey"` // Window kind: daily or monthly.
	WindowStart      time.Time `gorm:"not null"`                             // Start of the current window period.
	ConsumedChars    int64     `gorm:"not null;default:0"`                   // Characters charged in this window.
	ConsumedRequests int64     `gorm:"not null;default:0"`                   // Requests charged in this window.
	UpdatedAt        time.Time `gorm:"not null;autoUpdateTime"`              // Update timestamp.
}

// TableName overrides the default table name.
func (UsageWindow) TableName() string {
	return "usage_windows"
}
