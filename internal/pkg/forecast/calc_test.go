package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tahlil-one/tahlil/app/models"
)

func f64(v float64) *float64 { return &v }

func TestDerive(t *testing.T) {
	tests := []struct {
		name       string
		direction  string
		entry      float64
		target     float64
		actual     float64
		wantPl     float64
		wantStatus string
	}{
		{name: "bullish hit", direction: models.DirectionBullish, entry: 100, target: 110, actual: 112, wantPl: 12, wantStatus: models.ForecastStatusSuccess},
		{name: "bullish miss", direction: models.DirectionBullish, entry: 100, target: 110, actual: 95, wantPl: -5, wantStatus: models.ForecastStatusFailed},
		{name: "bearish hit", direction: models.DirectionBearish, entry: 100, target: 90, actual: 88, wantPl: 12, wantStatus: models.ForecastStatusSuccess},
		{name: "bearish miss", direction: models.DirectionBearish, entry: 100, target: 90, actual: 104, wantPl: -4, wantStatus: models.ForecastStatusFailed},
		{name: "bullish exactly at target", direction: models.DirectionBullish, entry: 2000, target: 2050, actual: 2050, wantPl: 2.5, wantStatus: models.ForecastStatusSuccess},
		{name: "rounded to two places", direction: models.DirectionBullish, entry: 3, target: 5, actual: 4, wantPl: 33.33, wantStatus: models.ForecastStatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pl, status, err := Derive(tt.direction, tt.entry, tt.target, f64(tt.actual))
			require.NoError(t, err)
			require.NotNil(t, pl)
			assert.Equal(t, tt.wantPl, *pl)
			assert.Equal(t, tt.wantStatus, status)
		})
	}
}

func TestDerivePendingWithoutActual(t *testing.T) {
	pl, status, err := Derive(models.DirectionBullish, 100, 110, nil)
	require.NoError(t, err)
	assert.Nil(t, pl)
	assert.Equal(t, models.ForecastStatusPending, status)
}

func TestDeriveRejectsBadInput(t *testing.T) {
	_, _, err := Derive(models.DirectionBullish, 0, 110, f64(100))
	assert.ErrorIs(t, err, ErrZeroEntryPrice)

	_, _, err = Derive("Sideways", 100, 110, f64(100))
	assert.ErrorIs(t, err, ErrInvalidDirection)
}
