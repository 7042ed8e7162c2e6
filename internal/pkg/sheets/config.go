package sheets

import (
	"time"

	"github.com/tahlil-one/tahlil/internal/pkg/env"
)

// ConfigFromEnv reads the Google Sheets settings.
func ConfigFromEnv() GoogleConfig {
	return GoogleConfig{
		BaseURL:       env.GetEnv("GOOGLE_SHEETS_BASE_URL", defaultSheetsBaseURL),
		SpreadsheetID: env.GetEnv("GOOGLE_SHEET_ID", ""),
		APIKey:        env.GetEnv("GOOGLE_SHEETS_API_KEY", ""),
		AccessToken:   env.GetEnv("GOOGLE_SHEETS_ACCESS_TOKEN", ""),
		Timeout:       SyncTimeoutFromEnv(),
	}
}

// RangeFromEnv returns the A1 range read by a sync without an explicit range.
func RangeFromEnv() string {
	return env.GetEnv("GOOGLE_SHEET_RANGE", DefaultRange)
}

func SyncTimeoutFromEnv() time.Duration {
	return time.Duration(env.GetEnvInt("SHEET_SYNC_TIMEOUT_SECONDS", 60)) * time.Second
}
