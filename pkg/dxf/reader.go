package dxf

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"github.com/matzehuels/stipple/pkg/errors"
)

// Line is a LINE entity in document coordinates.
type Line struct {
	From orb.Point `json:"from"`
	To   orb.Point `json:"to"`
}

// Document is the geometry recovered from a drawing.
type Document struct {
	// Sections lists section names in file order, including EOF.
	Sections []string
	Lines    []Line
	// Points are in document coordinates (y up).
	Points []orb.Point
}

// Bound returns the bounding box of all lines and points.
func (d *Document) Bound() orb.Bound {
	var mp orb.MultiPoint
	for _, l := range d.Lines {
		mp = append(mp, l.From, l.To)
	}
	mp = append(mp, d.Points...)
	if len(mp) == 0 {
		return orb.Bound{}
	}
	return mp.Bound()
}

type pair struct {
	code  int
	value string
	line  int
}

// Parse reads a drawing from r. Only LINE and POINT entities are kept; other
// entity types are skipped.
func Parse(r io.Reader) (*Document, error) {
	pairs, err := readPairs(r)
	if err != nil {
		return nil, err
	}

	doc := &Document{}
	for i := 0; i < len(pairs); {
		p := pairs[i]
		if p.code != 0 {
			return nil, errors.New(errors.ErrCodeInvalidDocument, "line %d: expected group code 0, got %d", p.line, p.code)
		}
		j := i + 1
		for j < len(pairs) && pairs[j].code != 0 {
			j++
		}
		group := pairs[i+1 : j]

		switch p.value {
		case "SECTION":
			name, ok := lookup(group, 2)
			if !ok {
				return nil, errors.New(errors.ErrCodeInvalidDocument, "line %d: section without name", p.line)
			}
			doc.Sections = append(doc.Sections, name)
		case "LINE":
			l, err := parseLine(group)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "line %d: LINE", p.line)
			}
			doc.Lines = append(doc.Lines, l)
		case "POINT":
			pt, err := coord(group, 10, 20)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "line %d: POINT", p.line)
			}
			doc.Points = append(doc.Points, pt)
		}
		i = j
	}
	return doc, nil
}

func readPairs(r io.Reader) ([]pair, error) {
	sc := bufio.NewScanner(r)
	var lines []string
	for sc.Scan() {
		lines = append(lines, strings.TrimSpace(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "read drawing")
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines)%2 != 0 {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "line %d: group code %q has no value", len(lines), lines[len(lines)-1])
	}

	pairs := make([]pair, 0, len(lines)/2)
	for i := 0; i < len(lines); i += 2 {
		code, err := strconv.Atoi(lines[i])
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidDocument, "line %d: invalid group code %q", i+1, lines[i])
		}
		pairs = append(pairs, pair{code: code, value: lines[i+1], line: i + 1})
	}
	return pairs, nil
}

func lookup(group []pair, code int) (string, bool) {
	for _, p := range group {
		if p.code == code {
			return p.value, true
		}
	}
	return "", false
}

func coord(group []pair, xCode, yCode int) (orb.Point, error) {
	x, err := number(group, xCode)
	if err != nil {
		return orb.Point{}, err
	}
	y, err := number(group, yCode)
	if err != nil {
		return orb.Point{}, err
	}
	return orb.Point{x, y}, nil
}

func number(group []pair, code int) (float64, error) {
	s, ok := lookup(group, code)
	if !ok {
		return 0, errors.New(errors.ErrCodeInvalidDocument, "missing group %d", code)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidDocument, "group %d: invalid number %q", code, s)
	}
	return v, nil
}

func parseLine(group []pair) (Line, error) {
	from, err := coord(group, 10, 20)
	if err != nil {
		return Line{}, err
	}
	to, err := coord(group, 11, 21)
	if err != nil {
		return Line{}, err
	}
	return Line{From: from, To: to}, nil
}
