package render

import (
	"bytes"
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/matzehuels/stipple/pkg/scatter"
)

// Chart renders an interactive HTML scatter chart of the points. Values are
// in drawing orientation, as in the DXF export: y is measured up from the
// bottom edge, so hovering a dot shows (x, Height-y) of the canvas point.
func Chart(canvas scatter.Canvas, points scatter.PointSet) ([]byte, error) {
	data := make([]opts.ScatterData, 0, points.Len())
	for _, p := range points.All() {
		// echarts puts the origin bottom-left.
		data = append(data, opts.ScatterData{Value: []interface{}{p[0], canvas.Height - p[1]}})
	}

	chart := charts.NewScatter()
	chart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "stipple",
			Width:     fmt.Sprintf("%dpx", pixels(canvas.Width)),
			Height:    fmt.Sprintf("%dpx", pixels(canvas.Height)),
		}),
		charts.WithTitleOpts(opts.Title{Title: "Points Drawn", Subtitle: fmt.Sprintf("%d points", points.Len())}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "x", Min: 0, Max: canvas.Width}),
		charts.WithYAxisOpts(opts.YAxis{Name: "y (up)", Min: 0, Max: canvas.Height}),
	)
	chart.AddSeries("points", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: int(2 * PointRadius)}))

	var buf bytes.Buffer
	if err := chart.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
