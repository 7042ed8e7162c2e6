package models

import "time"

type Market struct {
	MarketID  string    `gorm:"column:market_id;primaryKey;type:varchar(64)" json:"market_id"`
	NameAr    string    `gorm:"type:varchar(150);not null" json:"name_ar" validate:"required,max=150"`
	NameEn    string    `gorm:"type:varchar(150);not null" json:"name_en" validate:"required,max=150"`
	Region    string    `gorm:"type:varchar(100)" json:"region" validate:"required,max=100"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Market) TableName() string {
	return "markets"
}

type Asset struct {
	AssetID   string    `gorm:"column:asset_id;primaryKey;type:varchar(64)" json:"asset_id"`
	MarketID  string    `gorm:"type:varchar(64);not null;index" json:"market_id" validate:"required,max=64"`
	NameAr    string    `gorm:"type:varchar(150);not null" json:"name_ar" validate:"required,max=150"`
	NameEn    string    `gorm:"type:varchar(150);not null" json:"name_en" validate:"required,max=150"`
	Type      string    `gorm:"type:varchar(50)" json:"type" validate:"required,max=50"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Asset) TableName() string {
	return "assets"
}

// Analysis is the editorial view of one asset. There is at most one per asset.
type Analysis struct {
	AnalysisID      string    `gorm:"column:analysis_id;primaryKey;type:varchar(64)" json:"analysis_id"`
	AssetID         string    `gorm:"type:varchar(64);not null;uniqueIndex" json:"asset_id" validate:"required,max=64"`
	MarketID        string    `gorm:"type:varchar(64);not null;index" json:"market_id"`
	Bias            string    `gorm:"type:varchar(50)" json:"bias" validate:"required,max=50"`
	KeyLevels       string    `gorm:"type:text" json:"key_levels" validate:"required"`
	ScenarioText    string    `gorm:"type:text" json:"scenario_text" validate:"required"`
	InsightText     *string   `gorm:"type:text" json:"insight_text"`
	RiskNote        *string   `gorm:"type:text" json:"risk_note"`
	ConfidenceLevel string    `gorm:"type:varchar(50)" json:"confidence_level" validate:"required,max=50"`
	UpdatedAt       time.Time `gorm:"type:datetime" json:"updated_at"`
	CreatedBy       string    `gorm:"type:varchar(64)" json:"created_by"`
}

func (Analysis) TableName() string {
	return "analyses"
}
