package render

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/stipple/pkg/dxf"
	"github.com/matzehuels/stipple/pkg/errors"
	"github.com/matzehuels/stipple/pkg/scatter"
)

// Format constants for output formats.
const (
	FormatDXF  = "dxf"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatHTML = "html"
)

// Formats lists every supported format in a stable order.
var Formats = []string{FormatDXF, FormatSVG, FormatPNG, FormatPDF, FormatJSON, FormatHTML}

// PointRadius is the preview dot radius in canvas pixels.
const PointRadius = 2.0

var mediaTypes = map[string]string{
	FormatDXF:  dxf.MediaType,
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatPDF:  "application/pdf",
	FormatJSON: "application/json",
	FormatHTML: "text/html; charset=utf-8",
}

// ValidateFormat checks that a format is supported. Formats are case-sensitive.
func ValidateFormat(format string) error {
	if !slices.Contains(Formats, format) {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(Formats, ", "))
	}
	return nil
}

// ValidateFormats checks every entry of formats.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// MediaType returns the HTTP content type for format, or
// application/octet-stream if the format is unknown.
func MediaType(format string) string {
	if mt, ok := mediaTypes[format]; ok {
		return mt
	}
	return "application/octet-stream"
}

// Extension returns the file extension (with dot) for format.
func Extension(format string) string {
	return "." + format
}

// Render produces a single artifact.
func Render(format string, canvas scatter.Canvas, points scatter.PointSet) ([]byte, error) {
	var (
		data []byte
		err  error
	)

	switch format {
	case FormatDXF:
		data = dxf.Export(canvas, points)
	case FormatSVG:
		data = SVG(canvas, points)
	case FormatPNG, FormatPDF:
		data, err = Plot(format, canvas, points)
	case FormatJSON:
		data, err = JSON(canvas, points)
	case FormatHTML:
		data, err = Chart(canvas, points)
	default:
		return nil, ValidateFormat(format)
	}

	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return data, nil
}

// RenderAll renders each of formats, keyed by format.
func RenderAll(formats []string, canvas scatter.Canvas, points scatter.PointSet) (map[string][]byte, error) {
	if err := ValidateFormats(formats); err != nil {
		return nil, err
	}
	artifacts := make(map[string][]byte, len(formats))
	for _, format := range formats {
		data, err := Render(format, canvas, points)
		if err != nil {
			return nil, err
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
