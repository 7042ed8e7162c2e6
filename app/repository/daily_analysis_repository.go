package repository

import (
	"context"
	"errors"
	"time"

	"github.com/tahlil-one/tahlil/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// dailyAnalysisRepository implements the DailyAnalysisRepository interface
type dailyAnalysisRepository struct {
	db *gorm.DB
}

// NewDailyAnalysisRepository creates a new daily analysis repository instance
func NewDailyAnalysisRepository(db *gorm.DB) DailyAnalysisRepository {
	return &dailyAnalysisRepository{db: db}
}

// FindByNaturalKey returns nil, nil when no row matches
func (r *dailyAnalysisRepository) FindByNaturalKey(ctx context.Context, market, instrumentCode, analysisDatetime string) (*models.DailyAnalysis, error) {
	var rec models.DailyAnalysis
	err := r.db.WithContext(ctx).
		Where("market = ? AND instrument_code = ? AND analysis_datetime = ?", market, instrumentCode, analysisDatetime).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// Upsert inserts the record or updates the non-key columns of the existing row.
// The stored record_id and created_at are never overwritten.
func (r *dailyAnalysisRepository) Upsert(ctx context.Context, record *models.DailyAnalysis) error {
	db := r.db.WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "market"}, {Name: "instrument_code"}, {Name: "analysis_datetime"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"insight_type",
			"analysis_price",
			"target_price",
			"critical_level",
			"source",
			"updated_at",
		}),
	}).Create(record).Error; err != nil {
		return err
	}

	// record may carry an id minted by a concurrent sync, so read back by natural key only
	var stored models.DailyAnalysis
	if err := db.Where("market = ? AND instrument_code = ? AND analysis_datetime = ?",
		record.Market, record.InstrumentCode, record.AnalysisDatetime).First(&stored).Error; err != nil {
		return err
	}
	*record = stored
	return nil
}

// List returns records ordered by analysis datetime, newest first
func (r *dailyAnalysisRepository) List(ctx context.Context, filter DailyAnalysisFilter) ([]models.DailyAnalysis, error) {
	var records []models.DailyAnalysis
	query := r.db.WithContext(ctx).Order("analysis_datetime DESC").Order("market ASC").Order("instrument_code ASC")
	if filter.Market != "" {
		query = query.Where("market = ?", filter.Market)
	}
	if filter.InstrumentCode != "" {
		query = query.Where("instrument_code = ?", filter.InstrumentCode)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	err := query.Find(&records).Error
	return records, err
}

func (r *dailyAnalysisRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.DailyAnalysis{}).Count(&count).Error
	return count, err
}

// LatestUpdatedAt returns nil when the table is empty
func (r *dailyAnalysisRepository) LatestUpdatedAt(ctx context.Context) (*time.Time, error) {
	var rec models.DailyAnalysis
	err := r.db.WithContext(ctx).Order("updated_at DESC").First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	t := rec.UpdatedAt
	return &t, nil
}
