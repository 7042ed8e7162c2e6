package sheets

import "fmt"

// SyncResult summarizes one ingestion run. Errors lists per-row skip reasons.
type SyncResult struct {
	TotalRows int      `json:"total_rows"`
	Inserted  int      `json:"inserted"`
	Updated   int      `json:"updated"`
	Skipped   int      `json:"skipped"`
	Errors    []string `json:"errors"`
}

func newSyncResult() *SyncResult {
	return &SyncResult{Errors: []string{}}
}

func (r *SyncResult) skip(format string, args ...interface{}) {
	r.Skipped++
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}
