package sheets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoogleSheetsSourceFetchRows(t *testing.T) {
	var gotPath, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotKey = r.URL.Query().Get("key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"range":"Sheet1!A2:G3","majorDimension":"ROWS","values":[
			["Forex","XAUUSD","Bullish","15.03.2024 14:30:00","2,050.25","2,100","1,990"],
			["Forex","EURUSD","Bearish","15.03.2024",1.085]
		]}`))
	}))
	defer srv.Close()

	src := NewGoogleSheetsSource(GoogleConfig{BaseURL: srv.URL, SpreadsheetID: "sheet-123", APIKey: "k-1"})
	rows, err := src.FetchRows(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2,050.25", rows[0][4])
	assert.Equal(t, "1.085", rows[1][4])
	assert.Len(t, rows[1], 5)
	assert.Contains(t, gotPath, "/v4/spreadsheets/sheet-123/values/")
	assert.Equal(t, "k-1", gotKey)
}

func TestGoogleSheetsSourceBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"values":[]}`))
	}))
	defer srv.Close()

	src := NewGoogleSheetsSource(GoogleConfig{BaseURL: srv.URL, SpreadsheetID: "s", AccessToken: "tok"})
	rows, err := src.FetchRows(context.Background(), "Data!A2:G")
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Equal(t, "Bearer tok", gotAuth)
}

func TestGoogleSheetsSourceErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, want: ErrSourceUnauthorized},
		{name: "forbidden", status: http.StatusForbidden, want: ErrSourceUnauthorized},
		{name: "server error", status: http.StatusBadGateway, want: ErrSourceUnavailable},
		{name: "not found", status: http.StatusNotFound, want: ErrSourceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			src := NewGoogleSheetsSource(GoogleConfig{BaseURL: srv.URL, SpreadsheetID: "s", APIKey: "k"})
			_, err := src.FetchRows(context.Background(), "")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGoogleSheetsSourceMissingCredentials(t *testing.T) {
	src := NewGoogleSheetsSource(GoogleConfig{SpreadsheetID: "s"})
	assert.False(t, src.Configured())

	_, err := src.FetchRows(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestGoogleSheetsSourceTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	src := NewGoogleSheetsSource(GoogleConfig{BaseURL: srv.URL, SpreadsheetID: "s", APIKey: "k"})
	_, err := src.FetchRows(ctx, "")
	assert.ErrorIs(t, err, ErrSourceUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGoogleSheetsSourceClientTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	src := NewGoogleSheetsSource(GoogleConfig{
		BaseURL:       srv.URL,
		SpreadsheetID: "s",
		APIKey:        "k",
		Timeout:       50 * time.Millisecond,
	})
	_, err := src.FetchRows(context.Background(), "")
	assert.ErrorIs(t, err, ErrSourceUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
