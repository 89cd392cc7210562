package render

import (
	"bytes"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/stipple/pkg/scatter"
)

// svgScale maps canvas pixels to user units so integer coordinates keep
// one decimal of precision.
const svgScale = 10

// SVG draws the canvas as a white rectangle with one black dot per point.
func SVG(canvas scatter.Canvas, points scatter.PointSet) []byte {
	var buf bytes.Buffer
	WriteSVG(&buf, canvas, points)
	return buf.Bytes()
}

// WriteSVG is SVG writing into buf.
func WriteSVG(buf *bytes.Buffer, canvas scatter.Canvas, points scatter.PointSet) {
	w, h := pixels(canvas.Width), pixels(canvas.Height)

	s := svg.New(buf)
	s.Startview(w, h, 0, 0, w*svgScale, h*svgScale)
	s.Rect(0, 0, w*svgScale, h*svgScale, "fill:white")
	s.Gid("points")
	r := scaled(PointRadius)
	for _, p := range points.All() {
		s.Circle(scaled(p[0]), scaled(p[1]), r, "fill:black")
	}
	s.Gend()
	s.End()
}

func pixels(v float64) int {
	if v < 1 {
		return 1
	}
	return int(math.Ceil(v))
}

func scaled(v float64) int {
	return int(math.Round(v * svgScale))
}
