package forecast

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/tahlil-one/tahlil/app/models"
)

// InstrumentPerformance aggregates completed forecasts of one market and instrument.
type InstrumentPerformance struct {
	InstrumentCode      string  `json:"instrument_code"`
	Market              string  `json:"market"`
	TotalForecasts      int     `json:"total_forecasts"`
	SuccessfulForecasts int     `json:"successful_forecasts"`
	WinRate             float64 `json:"win_rate"`
	TotalPlPercent      float64 `json:"total_pl_percent"`
	AvgPlPercent        float64 `json:"avg_pl_percent"`
}

// CumulativePoint is one completed trade in result date order with running totals.
type CumulativePoint struct {
	Date             string  `json:"date"`
	Instrument       string  `json:"instrument"`
	Market           string  `json:"market"`
	PlPercent        float64 `json:"pl_percent"`
	CumulativeReturn float64 `json:"cumulative_return"`
	TradeNumber      int     `json:"trade_number"`
	WinRate          float64 `json:"win_rate"`
}

// Summary is the headline view over all forecasts.
type Summary struct {
	TotalForecasts      int     `json:"total_forecasts"`
	CompletedForecasts  int     `json:"completed_forecasts"`
	SuccessfulForecasts int     `json:"successful_forecasts"`
	PendingForecasts    int     `json:"pending_forecasts"`
	WinRate             float64 `json:"win_rate"`
	TotalReturnPercent  float64 `json:"total_return_percent"`
	AvgReturnPercent    float64 `json:"avg_return_percent"`
	BestTradePercent    float64 `json:"best_trade_percent"`
	WorstTradePercent   float64 `json:"worst_trade_percent"`
}

func plOf(r *models.ForecastRecord) decimal.Decimal {
	if r.CalculatedPlPercent == nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(*r.CalculatedPlPercent)
}

// PerformanceByInstrument groups completed forecasts by market and instrument, best
// total P/L first.
func PerformanceByInstrument(records []models.ForecastRecord) []InstrumentPerformance {
	type key struct{ market, instrument string }
	type acc struct {
		total, wins int
		sum         decimal.Decimal
	}
	groups := map[key]*acc{}

	for i := range records {
		r := &records[i]
		if !r.IsCompleted() {
			continue
		}
		k := key{r.Market, r.InstrumentCode}
		g, ok := groups[k]
		if !ok {
			g = &acc{sum: decimal.Zero}
			groups[k] = g
		}
		g.total++
		if r.Status == models.ForecastStatusSuccess {
			g.wins++
		}
		g.sum = g.sum.Add(plOf(r))
	}

	out := make([]InstrumentPerformance, 0, len(groups))
	for k, g := range groups {
		out = append(out, InstrumentPerformance{
			InstrumentCode:      k.instrument,
			Market:              k.market,
			TotalForecasts:      g.total,
			SuccessfulForecasts: g.wins,
			WinRate:             percent(g.wins, g.total),
			TotalPlPercent:      round2(g.sum),
			AvgPlPercent:        round2(g.sum.Div(decimal.NewFromInt(int64(g.total)))),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalPlPercent != out[j].TotalPlPercent {
			return out[i].TotalPlPercent > out[j].TotalPlPercent
		}
		if out[i].Market != out[j].Market {
			return out[i].Market < out[j].Market
		}
		return out[i].InstrumentCode < out[j].InstrumentCode
	})
	return out
}

// CumulativeSeries orders completed forecasts by result date and carries the running
// return, trade count and win rate at every point.
func CumulativeSeries(records []models.ForecastRecord) []CumulativePoint {
	completed := make([]*models.ForecastRecord, 0, len(records))
	for i := range records {
		r := &records[i]
		if r.IsCompleted() && r.ResultDate != nil && *r.ResultDate != "" {
			completed = append(completed, r)
		}
	}
	sort.SliceStable(completed, func(i, j int) bool {
		return *completed[i].ResultDate < *completed[j].ResultDate
	})

	points := make([]CumulativePoint, 0, len(completed))
	running := decimal.Zero
	wins := 0
	for i, r := range completed {
		pl := plOf(r)
		running = running.Add(pl)
		if r.Status == models.ForecastStatusSuccess {
			wins++
		}
		points = append(points, CumulativePoint{
			Date:             *r.ResultDate,
			Instrument:       r.InstrumentCode,
			Market:           r.Market,
			PlPercent:        round2(pl),
			CumulativeReturn: round2(running),
			TradeNumber:      i + 1,
			WinRate:          percent(wins, i+1),
		})
	}
	return points
}

// Summarize counts forecasts and aggregates P/L over the completed ones. Every
// aggregate is zero when nothing is completed.
func Summarize(records []models.ForecastRecord) Summary {
	s := Summary{TotalForecasts: len(records)}
	sum := decimal.Zero
	var best, worst decimal.Decimal

	for i := range records {
		r := &records[i]
		if !r.IsCompleted() {
			s.PendingForecasts++
			continue
		}
		pl := plOf(r)
		if s.CompletedForecasts == 0 || pl.GreaterThan(best) {
			best = pl
		}
		if s.CompletedForecasts == 0 || pl.LessThan(worst) {
			worst = pl
		}
		s.CompletedForecasts++
		if r.Status == models.ForecastStatusSuccess {
			s.SuccessfulForecasts++
		}
		sum = sum.Add(pl)
	}

	if s.CompletedForecasts == 0 {
		return s
	}
	s.WinRate = percent(s.SuccessfulForecasts, s.CompletedForecasts)
	s.TotalReturnPercent = round2(sum)
	s.AvgReturnPercent = round2(sum.Div(decimal.NewFromInt(int64(s.CompletedForecasts))))
	s.BestTradePercent = round2(best)
	s.WorstTradePercent = round2(worst)
	return s
}
