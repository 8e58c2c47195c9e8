package store

import (
	"context"
	"fmt"

	"github.com/feedforge/multimarket/internal/models"
	"github.com/feedforge/multimarket/internal/quota"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUsageStore persists quota window usage through GORM so consumed
// budgets survive process restarts.
type GormUsageStore struct {
	db *gorm.DB
}

// NewGormUsageStore constructs a GormUsageStore.
func NewGormUsageStore(db *gorm.DB) *GormUsageStore {
	return &GormUsageStore{db: db}
}

// Load returns all persisted window usages. Rows with an unknown kind
// are skipped rather than failing the load.
func (s *GormUsageStore) Load(ctx context.Context) ([]quota.Usage, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("usage store: not initialized")
	}

	var rows []models.UsageWindow
	if errFind := s.db.WithContext(ctx).Find(&rows).Error; errFind != nil {
		return nil, fmt.Errorf("usage store: load: %w", errFind)
	}

	usages := make([]quota.Usage, 0, len(rows))
	for _, row := range rows {
		kind := quota.WindowKind(row.Kind)
		if kind != quota.WindowDaily && kind != quota.WindowMonthly {
			continue
		}
		usages = append(usages, quota.Usage{
			Kind:             kind,
			WindowStart:      row.WindowStart,
			ConsumedChars:    row.ConsumedChars,
			ConsumedRequests: row.ConsumedRequests,
		})
	}
	return usages, nil
}

// Save upserts one window usage row keyed by window kind.
func (s *GormUsageStore) Save(ctx context.Context, usage quota.Usage) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("usage store: not initialized")
	}

	row := models.UsageWindow{
		Kind:             string(usage.Kind),
		WindowStart:      usage.WindowStart.UTC(),
		ConsumedChars:    usage.ConsumedChars,
		ConsumedRequests: usage.ConsumedRequests,
	}
	if errUpsert := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "kind"}},
		DoUpdates: clause.AssignmentColumns([]string{"window_start", "consumed_chars", "consumed_requests", "updated_at"}),
	}).Create(&row).Error; errUpsert != nil {
		return fmt.Errorf("usage store: upsert %s: %w", usage.Kind, errUpsert)
	}
	return nil
}

// Ensure GormUsageStore implements quota.Store.
var _ quota.Store = (*GormUsageStore)(nil)
