// Package scatter places randomized points over a grid of canvas cells.
//
// The canvas is split into Columns × Rows equal cells and each cell receives up
// to Density point slots. Every slot is filled by rejection sampling: a
// candidate is drawn uniformly inside its cell, discarded if it falls inside
// the padding margin, and accepted only if it keeps at least Interspace
// distance from every point accepted so far (in any cell). A slot that finds
// no valid candidate within [MaxAttempts] draws is skipped.
//
// # Usage
//
//	res := scatter.Generate(
//	    scatter.Grid{Columns: 8, Rows: 6, Density: 25},
//	    scatter.Canvas{Width: 800, Height: 600},
//	    scatter.Constraints{Padding: 10, Interspace: 5},
//	    scatter.WithSeed(42),
//	)
//	for i, p := range res.Points.All() {
//	    fmt.Println(i, p.X(), p.Y())
//	}
//
// # Determinism
//
// Cells are visited column by column, then row by row, then slot by slot, and
// each candidate draws its x offset before its y offset. With a fixed [Source]
// (see [WithSource] and [WithSeed]) the output is fully reproducible.
//
// Generation never blocks and never fails: degenerate inputs (zero density,
// zero columns, padding wider than half the canvas) simply yield fewer or no
// points. At most Requested()*MaxAttempts candidates are evaluated.
package scatter
