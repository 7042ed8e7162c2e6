package models

import "time"

const (
	DirectionBullish = "Bullish"
	DirectionBearish = "Bearish"
)

const (
	ForecastStatusPending = "pending"
	ForecastStatusSuccess = "success"
	ForecastStatusFailed  = "failed"
)

// ForecastRecord is an admin entered trade call. Status and CalculatedPlPercent are derived
// from the prices and are never written directly.
type ForecastRecord struct {
	RecordID            string    `gorm:"column:record_id;primaryKey;type:varchar(64)" json:"record_id"`
	InstrumentCode      string    `gorm:"type:varchar(100);not null;index:idx_forecast_market_instrument,priority:2" json:"instrument_code"`
	Market              string    `gorm:"type:varchar(100);not null;index:idx_forecast_market_instrument,priority:1" json:"market"`
	ForecastDate        string    `gorm:"type:varchar(10);not null" json:"forecast_date"`
	ForecastDirection   string    `gorm:"type:varchar(10);not null" json:"forecast_direction"`
	EntryPrice          float64   `gorm:"not null" json:"entry_price"`
	ForecastTargetPrice float64   `gorm:"not null" json:"forecast_target_price"`
	ActualResultPrice   *float64  `gorm:"default:null" json:"actual_result_price"`
	ResultDate          *string   `gorm:"type:varchar(10);default:null;index" json:"result_date"`
	CalculatedPlPercent *float64  `gorm:"column:calculated_pl_percent;default:null" json:"calculated_pl_percent"`
	Status              string    `gorm:"type:varchar(10);not null;default:'pending';index" json:"status"`
	Notes               *string   `gorm:"type:text" json:"notes"`
	CreatedAt           time.Time `gorm:"type:datetime;not null" json:"created_at"`
	UpdatedAt           time.Time `gorm:"type:datetime;not null" json:"updated_at"`
}

func (ForecastRecord) TableName() string {
	return "forecast_history"
}

// IsCompleted reports whether the forecast has a recorded outcome.
func (f *ForecastRecord) IsCompleted() bool {
	return f.Status == ForecastStatusSuccess || f.Status == ForecastStatusFailed
}

// ForecastCreate is the admin input for a new forecast.
type ForecastCreate struct {
	InstrumentCode      string   `json:"instrument_code" validate:"required,max=100"`
	Market              string   `json:"market" validate:"required,max=100"`
	ForecastDate        string   `json:"forecast_date" validate:"required"`
	ForecastDirection   string   `json:"forecast_direction" validate:"required,oneof=Bullish Bearish"`
	EntryPrice          float64  `json:"entry_price" validate:"gt=0"`
	ForecastTargetPrice float64  `json:"forecast_target_price" validate:"gt=0"`
	ActualResultPrice   *float64 `json:"actual_result_price,omitempty" validate:"omitempty,gt=0"`
	ResultDate          *string  `json:"result_date,omitempty"`
	Notes               *string  `json:"notes,omitempty" validate:"omitempty,max=5000"`
}

// ForecastUpdate records the outcome of a forecast.
type ForecastUpdate struct {
	ActualResultPrice float64 `json:"actual_result_price" validate:"gt=0"`
	ResultDate        string  `json:"result_date" validate:"required"`
	Notes             *string `json:"notes,omitempty" validate:"omitempty,max=5000"`
}
