package render

import (
	"encoding/json"

	"github.com/matzehuels/stipple/pkg/scatter"
)

// Document is the JSON form of a point set.
type Document struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Count  int     `json:"count"`
	Points []XY    `json:"points"`
}

// XY is one point in a [Document].
type XY struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewDocument builds the JSON document for points on canvas.
func NewDocument(canvas scatter.Canvas, points scatter.PointSet) Document {
	doc := Document{
		Width:  canvas.Width,
		Height: canvas.Height,
		Count:  points.Len(),
		Points: make([]XY, 0, points.Len()),
	}
	for _, p := range points.All() {
		doc.Points = append(doc.Points, XY{X: p[0], Y: p[1]})
	}
	return doc
}

// JSON encodes points as an indented [Document].
func JSON(canvas scatter.Canvas, points scatter.PointSet) ([]byte, error) {
	return json.MarshalIndent(NewDocument(canvas, points), "", "  ")
}
