package sheets

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultSheetsBaseURL = "https://sheets.googleapis.com"

// GoogleConfig holds the spreadsheet location and credentials. Either APIKey or
// AccessToken must be set.
type GoogleConfig struct {
	BaseURL       string
	SpreadsheetID string
	APIKey        string
	AccessToken   string
	Timeout       time.Duration
}

// GoogleSheetsSource reads rows through the Sheets v4 values API.
type GoogleSheetsSource struct {
	cfg    GoogleConfig
	client *resty.Client
}

type valueRange struct {
	Range          string          `json:"range"`
	MajorDimension string          `json:"majorDimension"`
	Values         [][]interface{} `json:"values"`
}

func NewGoogleSheetsSource(cfg GoogleConfig) *GoogleSheetsSource {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultSheetsBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	client := resty.New()
	client.SetTimeout(cfg.Timeout)
	client.SetBaseURL(strings.TrimRight(cfg.BaseURL, "/"))

	return &GoogleSheetsSource{cfg: cfg, client: client}
}

// Configured reports whether the source has enough settings to attempt a fetch.
func (s *GoogleSheetsSource) Configured() bool {
	return s.cfg.SpreadsheetID != "" && (s.cfg.APIKey != "" || s.cfg.AccessToken != "")
}

func (s *GoogleSheetsSource) FetchRows(ctx context.Context, rangeSpec string) ([][]string, error) {
	if !s.Configured() {
		return nil, ErrMissingCredentials
	}
	if rangeSpec == "" {
		rangeSpec = DefaultRange
	}

	req := s.client.R().
		SetContext(ctx).
		SetResult(&valueRange{}).
		SetQueryParam("majorDimension", "ROWS").
		SetQueryParam("valueRenderOption", "FORMATTED_VALUE")
	if s.cfg.AccessToken != "" {
		req.SetAuthToken(s.cfg.AccessToken)
	} else {
		req.SetQueryParam("key", s.cfg.APIKey)
	}

	path := fmt.Sprintf("/v4/spreadsheets/%s/values/%s", url.PathEscape(s.cfg.SpreadsheetID), url.PathEscape(rangeSpec))
	resp, err := req.Get(path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, ctxErr)
		}
		// the client timeout reports as a deadline too
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, fmt.Errorf("%w: %w (%v)", ErrSourceUnavailable, context.DeadlineExceeded, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	switch code := resp.StatusCode(); {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return nil, fmt.Errorf("%w: status %d", ErrSourceUnauthorized, code)
	case code != http.StatusOK:
		return nil, fmt.Errorf("%w: status %d", ErrSourceUnavailable, code)
	}

	vr, ok := resp.Result().(*valueRange)
	if !ok || vr == nil {
		return nil, fmt.Errorf("%w: unexpected response body", ErrSourceUnavailable)
	}
	return stringRows(vr.Values), nil
}

func stringRows(values [][]interface{}) [][]string {
	rows := make([][]string, 0, len(values))
	for _, row := range values {
		cells := make([]string, len(row))
		for i, v := range row {
			if v == nil {
				continue
			}
			cells[i] = fmt.Sprint(v)
		}
		rows = append(rows, cells)
	}
	return rows
}
