package repository

import (
	"context"
	"errors"

	"github.com/tahlil-one/tahlil/app/models"
	"gorm.io/gorm"
)

// forecastRepository implements the ForecastRepository interface
type forecastRepository struct {
	db *gorm.DB
}

// NewForecastRepository creates a new forecast repository instance
func NewForecastRepository(db *gorm.DB) ForecastRepository {
	return &forecastRepository{db: db}
}

func (r *forecastRepository) Create(ctx context.Context, record *models.ForecastRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// Save writes every column of an existing record
func (r *forecastRepository) Save(ctx context.Context, record *models.ForecastRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

// GetByID returns gorm.ErrRecordNotFound when the forecast does not exist
func (r *forecastRepository) GetByID(ctx context.Context, id string) (*models.ForecastRecord, error) {
	var rec models.ForecastRecord
	err := r.db.WithContext(ctx).Where("record_id = ?", id).First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// List returns forecasts newest first by forecast date
func (r *forecastRepository) List(ctx context.Context, filter ForecastFilter) ([]models.ForecastRecord, error) {
	var records []models.ForecastRecord
	query := r.db.WithContext(ctx).Order("forecast_date DESC").Order("created_at DESC")
	if filter.Market != "" {
		query = query.Where("market = ?", filter.Market)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	err := query.Find(&records).Error
	return records, err
}

func (r *forecastRepository) Delete(ctx context.Context, id string) error {
	tx := r.db.WithContext(ctx).Where("record_id = ?", id).Delete(&models.ForecastRecord{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IsNotFound reports whether err means the requested row does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
