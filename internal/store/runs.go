package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	dbutil "github.com/feedforge/multimarket/internal/db"
	"github.com/feedforge/multimarket/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GormRunStore persists pipeline run summaries.
type GormRunStore struct {
	db *gorm.DB
}

// NewGormRunStore constructs a GormRunStore.
func NewGormRunStore(db *gorm.DB) *GormRunStore {
	return &GormRunStore{db: db}
}

// SaveRun stores a run summary row. Diagnostics are serialized to JSON;
// a serialization failure degrades to an empty list rather than losing
// the run row.
func (s *GormRunStore) SaveRun(ctx context.Context, run models.TransformRun, diagnostics any) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("run store: not initialized")
	}

	payload := []byte("[]")
	if diagnostics != nil {
		if data, errMarshal := json.Marshal(diagnostics); errMarshal == nil {
			payload = data
		}
	}
	run.Diagnostics = datatypes.JSON(payload)

	if errCreate := s.db.WithContext(ctx).Create(&run).Error; errCreate != nil {
		return fmt.Errorf("run store: save %s: %w", run.ID, errCreate)
	}
	return nil
}

// ListRuns returns run summaries newest first, with paging and an
// optional case-insensitive run ID filter.
func (s *GormRunStore) ListRuns(ctx context.Context, page, limit int, idFilter string) ([]models.TransformRun, int64, error) {
	if s == nil || s.db == nil {
		return nil, 0, fmt.Errorf("run store: not initialized")
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	base := s.db.WithContext(ctx).Model(&models.TransformRun{})
	if idFilter = strings.TrimSpace(idFilter); idFilter != "" {
		pattern := dbutil.NormalizeLikePattern(s.db, "%"+idFilter+"%")
		base = base.Where(dbutil.CaseInsensitiveLikeExpr(s.db, "id"), pattern)
	}

	var total int64
	if errCount := base.Count(&total).Error; errCount != nil {
		return nil, 0, fmt.Errorf("run store: count: %w", errCount)
	}

	var rows []models.TransformRun
	if errFind := base.
		Order("started_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&rows).Error; errFind != nil {
		return nil, 0, fmt.Errorf("run store: list: %w", errFind)
	}
	return rows, total, nil
}
