package sheets

import (
	"sort"

	"github.com/tahlil-one/tahlil/app/models"
)

// ChartPoint is the latest numeric analysis price of one instrument.
type ChartPoint struct {
	Instrument string  `json:"instrument"`
	Market     string  `json:"market"`
	Value      float64 `json:"value"`
}

// LinePoint is one record of the price line chart.
type LinePoint struct {
	Datetime       string   `json:"datetime"`
	Market         string   `json:"market"`
	InstrumentCode string   `json:"instrument_code"`
	InsightType    string   `json:"insight_type"`
	AnalysisPrice  float64  `json:"analysis_price"`
	TargetPrice    *float64 `json:"target_price"`
}

// ChartData keeps, for every market and instrument, the newest record whose analysis
// price parses as a number. Records without a numeric price are ignored.
func ChartData(records []models.DailyAnalysis) []ChartPoint {
	type key struct{ market, instrument string }
	latest := map[key]models.DailyAnalysis{}
	values := map[key]float64{}

	for _, rec := range records {
		v, ok := models.ParseNumeral(rec.AnalysisPrice)
		if !ok {
			continue
		}
		k := key{rec.Market, rec.InstrumentCode}
		if cur, seen := latest[k]; seen && cur.AnalysisDatetime >= rec.AnalysisDatetime {
			continue
		}
		latest[k] = rec
		values[k] = v
	}

	points := make([]ChartPoint, 0, len(latest))
	for k := range latest {
		points = append(points, ChartPoint{Instrument: k.instrument, Market: k.market, Value: values[k]})
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Market != points[j].Market {
			return points[i].Market < points[j].Market
		}
		return points[i].Instrument < points[j].Instrument
	})
	return points
}

// LineChartData returns records with a numeric analysis price in ascending datetime order.
func LineChartData(records []models.DailyAnalysis) []LinePoint {
	sorted := make([]models.DailyAnalysis, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AnalysisDatetime < sorted[j].AnalysisDatetime
	})

	points := make([]LinePoint, 0, len(sorted))
	for _, rec := range sorted {
		price, ok := models.ParseNumeral(rec.AnalysisPrice)
		if !ok {
			continue
		}
		p := LinePoint{
			Datetime:       rec.AnalysisDatetime,
			Market:         rec.Market,
			InstrumentCode: rec.InstrumentCode,
			InsightType:    rec.InsightType,
			AnalysisPrice:  price,
		}
		if target, ok := models.ParseNumeral(rec.TargetPrice); ok {
			p.TargetPrice = &target
		}
		points = append(points, p)
	}
	return points
}
