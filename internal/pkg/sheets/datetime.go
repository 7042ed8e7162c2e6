package sheets

import (
	"fmt"
	"strings"
	"time"
)

// StoredDatetimeLayout is the ISO-8601 form kept in daily_analysis.analysis_datetime.
// Values are always UTC, so the offset renders as +00:00.
const StoredDatetimeLayout = "2006-01-02T15:04:05-07:00"

const (
	sheetDateLayout     = "02.01.2006"
	sheetDateTimeLayout = "02.01.2006 15:04:05"
)

// ParseAnalysisDatetime parses "DD.MM.YYYY" or "DD.MM.YYYY HH:MM:SS", where the time
// may be wrapped in brackets, and returns the stored UTC form.
func ParseAnalysisDatetime(raw string) (string, error) {
	s := strings.NewReplacer("[", " ", "]", " ").Replace(raw)
	parts := strings.Fields(s)

	var (
		t   time.Time
		err error
	)
	switch len(parts) {
	case 1:
		t, err = time.ParseInLocation(sheetDateLayout, parts[0], time.UTC)
	case 2:
		t, err = time.ParseInLocation(sheetDateTimeLayout, parts[0]+" "+parts[1], time.UTC)
	default:
		err = fmt.Errorf("unexpected datetime %q", raw)
	}
	if err != nil {
		return "", err
	}
	return t.UTC().Format(StoredDatetimeLayout), nil
}
