// Package dxf writes and reads the minimal DXF drawings produced by stipple.
//
// A drawing consists of empty HEADER, TABLES and BLOCKS sections, an ENTITIES
// section holding four LINE entities for the canvas frame and one POINT entity
// per generated point, and a closing EOF section. Every value sits on its own
// line and is preceded by its group code:
//
//	0   entity or section type
//	2   section name
//	8   layer (always "0")
//	10  first x      20  first y
//	11  second x     21  second y (LINE only)
//
// DXF's vertical axis grows upward, so canvas coordinates are flipped on
// export: a canvas point (x, y) becomes (x, height-y) and the canvas corner
// (0, height) becomes the document origin.
package dxf
