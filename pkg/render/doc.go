// Package render turns a generated point set into output artifacts.
//
// # Formats
//
//   - dxf: the drawing file, delegated to [github.com/matzehuels/stipple/pkg/dxf]
//   - svg: a white canvas with one filled dot per point (svgo)
//   - png, pdf: the same picture drawn through gonum/plot
//   - json: canvas extents plus the points in acceptance order
//   - html: an interactive go-echarts scatter chart
//
// All formats use canvas coordinates (origin top-left, y down) as input.
// Only DXF flips the y-axis on output; the raster and vector previews look
// exactly like the on-screen canvas.
//
//	data, err := render.Render(render.FormatSVG, canvas, points)
package render
