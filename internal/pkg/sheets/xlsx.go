package sheets

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// XLSXSource reads rows from a local workbook, e.g. a manual export of the sheet.
// The first row is treated as the header and dropped.
type XLSXSource struct {
	Path string
}

func NewXLSXSource(path string) *XLSXSource {
	return &XLSXSource{Path: path}
}

// FetchRows reads the sheet named by rangeSpec ("Name" or "Name!A2:G"), or the first
// sheet when rangeSpec is empty.
func (s *XLSXSource) FetchRows(ctx context.Context, rangeSpec string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrSourceUnavailable, s.Path, err)
	}
	defer f.Close()

	sheet := sheetName(rangeSpec)
	if sheet == "" {
		list := f.GetSheetList()
		if len(list) == 0 {
			return nil, nil
		}
		sheet = list[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", ErrSourceUnavailable, sheet, err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}
	return rows[1:], nil
}

func sheetName(rangeSpec string) string {
	name, _, _ := strings.Cut(rangeSpec, "!")
	return strings.Trim(strings.TrimSpace(name), "'")
}
