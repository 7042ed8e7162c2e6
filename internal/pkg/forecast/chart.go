package forecast

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/wcharczuk/go-chart/v2"
)

var ErrNoChartData = errors.New("no completed forecasts to chart")

// RenderCumulativeChart writes the cumulative return series as a PNG. The line starts
// at zero one day before the first trade.
func RenderCumulativeChart(points []CumulativePoint, w io.Writer) error {
	if len(points) == 0 {
		return ErrNoChartData
	}

	xs := make([]time.Time, 0, len(points)+1)
	ys := make([]float64, 0, len(points)+1)
	minY, maxY := 0.0, 0.0
	for _, p := range points {
		t, err := time.Parse(dateLayout, p.Date)
		if err != nil {
			return fmt.Errorf("point %d: %w", p.TradeNumber, ErrInvalidDate)
		}
		if len(xs) == 0 {
			xs = append(xs, t.AddDate(0, 0, -1))
			ys = append(ys, 0)
		}
		xs = append(xs, t)
		ys = append(ys, p.CumulativeReturn)
		minY = min(minY, p.CumulativeReturn)
		maxY = max(maxY, p.CumulativeReturn)
	}

	yAxis := chart.YAxis{Name: "Cumulative return %"}
	if minY == maxY {
		yAxis.Range = &chart.ContinuousRange{Min: minY - 1, Max: maxY + 1}
	}

	graph := chart.Chart{
		Title: "Cumulative Return",
		XAxis: chart.XAxis{
			Name:           "Result date",
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		YAxis: yAxis,
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Cumulative return",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: chart.ColorBlue,
					StrokeWidth: 2,
				},
			},
		},
	}
	return graph.Render(chart.PNG, w)
}
