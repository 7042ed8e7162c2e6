package sheets

import (
	"context"
	"errors"
)

const columnCount = 7

// DefaultRange covers the seven data columns below the header row.
const DefaultRange = "Sheet1!A2:G"

var (
	ErrMissingCredentials = errors.New("sheet source credentials are not configured")
	ErrSourceUnauthorized = errors.New("sheet source rejected the credentials")
	ErrSourceUnavailable  = errors.New("sheet source is unavailable")
)

// RowSource returns the data rows of a tabular document, header excluded.
type RowSource interface {
	FetchRows(ctx context.Context, rangeSpec string) ([][]string, error)
}
