package models

import (
	"strconv"
	"strings"
	"time"
)

const DailyAnalysisSourceGoogleSheets = "google_sheets"

// DailyAnalysis is one normalized spreadsheet row. (Market, InstrumentCode, AnalysisDatetime)
// is the natural key used by the sheet sync.
type DailyAnalysis struct {
	RecordID         string    `gorm:"column:record_id;primaryKey;type:varchar(64)" json:"record_id"`
	Market           string    `gorm:"type:varchar(100);not null;uniqueIndex:ux_daily_analysis_natural_key,priority:1" json:"market"`
	InstrumentCode   string    `gorm:"type:varchar(100);not null;uniqueIndex:ux_daily_analysis_natural_key,priority:2" json:"instrument_code"`
	AnalysisDatetime string    `gorm:"type:varchar(32);not null;uniqueIndex:ux_daily_analysis_natural_key,priority:3;index" json:"analysis_datetime"`
	InsightType      string    `gorm:"type:varchar(100);not null" json:"insight_type"`
	AnalysisPrice    string    `gorm:"type:varchar(64)" json:"analysis_price"`
	TargetPrice      string    `gorm:"type:varchar(64)" json:"target_price"`
	CriticalLevel    string    `gorm:"type:varchar(64)" json:"critical_level"`
	Source           string    `gorm:"type:varchar(32);not null;default:'google_sheets'" json:"source"`
	CreatedAt        time.Time `gorm:"type:datetime;not null" json:"created_at"`
	UpdatedAt        time.Time `gorm:"type:datetime;not null;index" json:"updated_at"`
}

func (DailyAnalysis) TableName() string {
	return "daily_analysis"
}

// ParseNumeral converts a locale formatted sheet numeral like "1,234.50" to a float.
func ParseNumeral(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00a0", "")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
