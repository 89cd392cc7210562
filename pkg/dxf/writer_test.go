package dxf

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/paulmach/orb"

	"github.com/matzehuels/stipple/pkg/scatter"
)

func TestExportExactBytes(t *testing.T) {
	canvas := scatter.Canvas{Width: 100, Height: 50}
	points := scatter.NewPointSet([]scatter.Point{{10, 10}, {90, 40}})

	want := strings.Join([]string{
		"0", "SECTION", "2", "HEADER", "0", "ENDSEC",
		"0", "SECTION", "2", "TABLES", "0", "ENDSEC",
		"0", "SECTION", "2", "BLOCKS", "0", "ENDSEC",
		"0", "SECTION", "2", "ENTITIES",
		"0", "LINE", "8", "0", "10", "0", "20", "0", "11", "100", "21", "0",
		"0", "LINE", "8", "0", "10", "100", "20", "0", "11", "100", "21", "50",
		"0", "LINE", "8", "0", "10", "100", "20", "50", "11", "0", "21", "50",
		"0", "LINE", "8", "0", "10", "0", "20", "50", "11", "0", "21", "0",
		"0", "POINT", "8", "0", "10", "10", "20", "40",
		"0", "POINT", "8", "0", "10", "90", "20", "10",
		"0", "ENDSEC",
		"0", "SECTION", "2", "EOF",
	}, "\n") + "\n"

	got := string(Export(canvas, points))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Export mismatch (-want +got):\n%s", diff)
	}
}

func TestExportRoundTripShape(t *testing.T) {
	canvas := scatter.Canvas{Width: 100, Height: 50}
	points := scatter.NewPointSet([]scatter.Point{{10, 10}, {90, 40}})

	doc, err := Parse(strings.NewReader(string(Export(canvas, points))))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	wantLines := []Line{
		{From: orb.Point{0, 0}, To: orb.Point{100, 0}},
		{From: orb.Point{100, 0}, To: orb.Point{100, 50}},
		{From: orb.Point{100, 50}, To: orb.Point{0, 50}},
		{From: orb.Point{0, 50}, To: orb.Point{0, 0}},
	}
	if diff := cmp.Diff(wantLines, doc.Lines); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}

	wantPoints := []orb.Point{{10, 40}, {90, 10}}
	if diff := cmp.Diff(wantPoints, doc.Points); diff != "" {
		t.Errorf("points mismatch (-want +got):\n%s", diff)
	}

	wantSections := []string{"HEADER", "TABLES", "BLOCKS", "ENTITIES", "EOF"}
	if diff := cmp.Diff(wantSections, doc.Sections); diff != "" {
		t.Errorf("sections mismatch (-want +got):\n%s", diff)
	}
}

func TestExportGeneratedPoints(t *testing.T) {
	canvas := scatter.Canvas{Width: 800, Height: 600}
	res := scatter.Generate(scatter.Grid{Columns: 8, Rows: 6, Density: 25}, canvas,
		scatter.Constraints{Padding: 10, Interspace: 5}, scatter.WithSeed(1))

	doc, err := Parse(strings.NewReader(string(Export(canvas, res.Points))))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(doc.Points) != res.Points.Len() {
		t.Fatalf("parsed %d points, exported %d", len(doc.Points), res.Points.Len())
	}
	for i, p := range res.Points.All() {
		want := orb.Point{p.X(), 600 - p.Y()}
		if doc.Points[i] != want {
			t.Fatalf("point %d = %v, want %v", i, doc.Points[i], want)
		}
	}
	if got, want := doc.Bound(), canvas.Bound(); got != want {
		t.Errorf("Bound() = %v, want %v", got, want)
	}
}

func TestExportEmpty(t *testing.T) {
	doc, err := Parse(strings.NewReader(string(Export(scatter.Canvas{Width: 20, Height: 10}, scatter.PointSet{}))))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(doc.Lines) != 4 {
		t.Errorf("got %d lines, want 4", len(doc.Lines))
	}
	if len(doc.Points) != 0 {
		t.Errorf("got %d points, want 0", len(doc.Points))
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{800, "800"},
		{0, "0"},
		{12.5, "12.5"},
		{0.1, "0.1"},
		{-3.25, "-3.25"},
		{123.456789012345, "123.456789012345"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

type failingWriter struct{}

var errWrite = errors.New("disk full")

func (failingWriter) Write([]byte) (int, error) { return 0, errWrite }

func TestWritePropagatesErrors(t *testing.T) {
	err := Write(failingWriter{}, scatter.Canvas{Width: 1, Height: 1}, scatter.PointSet{})
	if !errors.Is(err, errWrite) {
		t.Errorf("Write() error = %v, want %v", err, errWrite)
	}
}
