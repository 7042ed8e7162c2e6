package forecast

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/tahlil-one/tahlil/app/models"
)

var (
	ErrZeroEntryPrice   = errors.New("entry price must be greater than zero")
	ErrInvalidDirection = errors.New("forecast direction must be Bullish or Bearish")
)

var hundred = decimal.NewFromInt(100)

// Derive computes the P/L percentage and status of a forecast. Without an actual
// result price the forecast stays pending and has no P/L.
func Derive(direction string, entry, target float64, actual *float64) (*float64, string, error) {
	if actual == nil {
		return nil, models.ForecastStatusPending, nil
	}
	if entry <= 0 {
		return nil, "", ErrZeroEntryPrice
	}

	e := decimal.NewFromFloat(entry)
	a := decimal.NewFromFloat(*actual)
	t := decimal.NewFromFloat(target)

	var (
		diff    decimal.Decimal
		success bool
	)
	switch direction {
	case models.DirectionBullish:
		diff = a.Sub(e)
		success = a.GreaterThanOrEqual(t)
	case models.DirectionBearish:
		diff = e.Sub(a)
		success = a.LessThanOrEqual(t)
	default:
		return nil, "", ErrInvalidDirection
	}

	pl := diff.Div(e).Mul(hundred).Round(2).InexactFloat64()
	status := models.ForecastStatusFailed
	if success {
		status = models.ForecastStatusSuccess
	}
	return &pl, status, nil
}

func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(decimal.NewFromInt(int64(part)).Div(decimal.NewFromInt(int64(total))).Mul(hundred))
}
