package render

import (
	"bytes"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/matzehuels/stipple/pkg/scatter"
)

// pxToPoints converts 96dpi pixels to typographic points.
const pxToPoints = 72.0 / 96.0

// Plot draws points as a gonum scatter plot and encodes it as png or pdf.
// Axes are hidden and the data range is pinned to the canvas, so the image
// matches the canvas one to one.
func Plot(format string, canvas scatter.Canvas, points scatter.PointSet) ([]byte, error) {
	p := plot.New()
	p.HideAxes()
	p.BackgroundColor = color.White

	if points.Len() > 0 {
		xys := make(plotter.XYs, 0, points.Len())
		for _, pt := range points.All() {
			// plot space has y up
			xys = append(xys, plotter.XY{X: pt[0], Y: canvas.Height - pt[1]})
		}
		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, err
		}
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		sc.GlyphStyle.Color = color.Black
		sc.GlyphStyle.Radius = vg.Points(PointRadius * pxToPoints)
		p.Add(sc)
	}

	p.X.Min, p.X.Max = 0, canvas.Width
	p.Y.Min, p.Y.Max = 0, canvas.Height

	w := vg.Points(float64(pixels(canvas.Width)) * pxToPoints)
	h := vg.Points(float64(pixels(canvas.Height)) * pxToPoints)
	wt, err := p.WriterTo(w, h, format)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
