package scatter

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/paulmach/orb"
)

func TestGridRequested(t *testing.T) {
	tests := []struct {
		grid Grid
		want int
	}{
		{Grid{8, 6, 25}, 1200},
		{Grid{1, 1, 1}, 1},
		{Grid{8, 6, 0}, 0},
		{Grid{0, 6, 25}, 0},
		{Grid{-2, -3, 4}, 0},
		{Grid{1 << 31, 1 << 31, 3}, math.MaxInt},
		{Grid{1 << 21, 1 << 21, 1 << 22}, math.MaxInt},
		{Grid{math.MaxInt, 1, 1}, math.MaxInt},
		{Grid{1, 1, 10_000_000_000}, 10_000_000_000},
	}
	for _, tt := range tests {
		if got := tt.grid.Requested(); got != tt.want {
			t.Errorf("%+v.Requested() = %d, want %d", tt.grid, got, tt.want)
		}
	}
}

func TestGridOversized(t *testing.T) {
	tests := []struct {
		grid Grid
		want bool
	}{
		{Grid{8, 6, 25}, false},
		{Grid{1, 1, MaxSlots}, false},
		{Grid{1, 1, MaxSlots + 1}, true},
		{Grid{1 << 31, 1 << 31, 3}, true},
		{Grid{0, 1 << 31, 1 << 31}, false},
	}
	for _, tt := range tests {
		if got := tt.grid.Oversized(); got != tt.want {
			t.Errorf("%+v.Oversized() = %v, want %v", tt.grid, got, tt.want)
		}
	}
}

func TestPointSetAll(t *testing.T) {
	s := NewPointSet([]Point{{1, 2}, {3, 4}, {5, 6}})

	// The sequence is restartable.
	for range 2 {
		var got []Point
		for _, p := range s.All() {
			got = append(got, p)
		}
		if diff := cmp.Diff(s.Points(), got); diff != "" {
			t.Fatalf("All() mismatch (-want +got):\n%s", diff)
		}
	}

	// Early exit stops the iteration.
	n := 0
	for i := range s.All() {
		n++
		if i == 1 {
			break
		}
	}
	if n != 2 {
		t.Errorf("iterated %d items before break, want 2", n)
	}
}

func TestPointSetIsolation(t *testing.T) {
	src := []Point{{1, 1}}
	s := NewPointSet(src)
	src[0] = Point{9, 9}

	if s.At(0) != (Point{1, 1}) {
		t.Errorf("NewPointSet did not copy its input: At(0) = %v", s.At(0))
	}

	out := s.Points()
	out[0] = Point{7, 7}
	if s.At(0) != (Point{1, 1}) {
		t.Errorf("Points() exposed internal storage: At(0) = %v", s.At(0))
	}
}

func TestPointSetBound(t *testing.T) {
	var empty PointSet
	if empty.Bound() != (orb.Bound{}) {
		t.Errorf("empty Bound() = %v, want zero", empty.Bound())
	}

	s := NewPointSet([]Point{{10, 40}, {90, 10}, {50, 20}})
	want := orb.Bound{Min: orb.Point{10, 10}, Max: orb.Point{90, 40}}
	if s.Bound() != want {
		t.Errorf("Bound() = %v, want %v", s.Bound(), want)
	}
}

func TestValid(t *testing.T) {
	canvas := Canvas{100, 100}
	c := Constraints{Padding: 10, Interspace: 5}

	tests := []struct {
		name string
		pts  []Point
		want bool
	}{
		{"empty", nil, true},
		{"ok", []Point{{10, 10}, {90, 90}}, true},
		{"on padding edge", []Point{{10, 90}}, true},
		{"inside margin", []Point{{9.9, 50}}, false},
		{"too close", []Point{{50, 50}, {53, 53}}, false},
		{"exactly interspace", []Point{{50, 50}, {55, 50}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Valid(NewPointSet(tt.pts), canvas, c); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}
