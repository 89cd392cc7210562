package dxf

import (
	"bufio"
	"bytes"
	"io"
	"strconv"

	"github.com/paulmach/orb"

	"github.com/matzehuels/stipple/pkg/scatter"
)

const (
	// Filename is the name under which drawings are offered for download.
	Filename = "canvasData.dxf"

	// MediaType is the content type served with drawings.
	MediaType = "application/dxf"

	// Layer is the layer every entity is placed on.
	Layer = "0"
)

var emptySections = []string{"HEADER", "TABLES", "BLOCKS"}

// Export renders the drawing into memory.
func Export(canvas scatter.Canvas, points scatter.PointSet) []byte {
	var buf bytes.Buffer
	_ = Write(&buf, canvas, points)
	return buf.Bytes()
}

// Write emits the canvas frame and one POINT per entry of points to w.
// Points are written in set order and are not validated.
func Write(w io.Writer, canvas scatter.Canvas, points scatter.PointSet) error {
	bw := bufio.NewWriter(w)
	e := &encoder{w: bw}

	for _, name := range emptySections {
		e.pair(0, "SECTION")
		e.pair(2, name)
		e.pair(0, "ENDSEC")
	}
	e.pair(0, "SECTION")
	e.pair(2, "ENTITIES")

	for _, l := range Frame(canvas) {
		e.pair(0, "LINE")
		e.pair(8, Layer)
		e.num(10, l.From[0])
		e.num(20, l.From[1])
		e.num(11, l.To[0])
		e.num(21, l.To[1])
	}

	for _, p := range points.All() {
		d := ToDocument(canvas, p)
		e.pair(0, "POINT")
		e.pair(8, Layer)
		e.num(10, d[0])
		e.num(20, d[1])
	}

	e.pair(0, "ENDSEC")
	e.pair(0, "SECTION")
	e.pair(2, "EOF")

	if e.err != nil {
		return e.err
	}
	return bw.Flush()
}

// Frame returns the four edges of the canvas rectangle in document
// coordinates, walking (0,0) → (W,0) → (W,H) → (0,H) → (0,0).
func Frame(canvas scatter.Canvas) [4]Line {
	w, h := canvas.Width, canvas.Height
	return [4]Line{
		{From: orb.Point{0, 0}, To: orb.Point{w, 0}},
		{From: orb.Point{w, 0}, To: orb.Point{w, h}},
		{From: orb.Point{w, h}, To: orb.Point{0, h}},
		{From: orb.Point{0, h}, To: orb.Point{0, 0}},
	}
}

// ToDocument converts a canvas point to document coordinates.
func ToDocument(canvas scatter.Canvas, p orb.Point) orb.Point {
	return orb.Point{p[0], canvas.Height - p[1]}
}

// FormatNumber renders v as the shortest decimal that parses back to v.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

type encoder struct {
	w   *bufio.Writer
	err error
}

func (e *encoder) pair(code int, value string) {
	if e.err != nil {
		return
	}
	if _, err := e.w.WriteString(strconv.Itoa(code) + "\n" + value + "\n"); err != nil {
		e.err = err
	}
}

func (e *encoder) num(code int, v float64) {
	e.pair(code, FormatNumber(v))
}
