// Package model provides the intermediate representation (IR) for parsed
// layout annotations.
//
// This package defines the data structures that sit between the annotation
// readers and the dataset builders. Parsing a PAGE XML file produces these
// types, and the conversion pipeline consumes them.
//
// # Annotations
//
// The [PageAnnotation] type represents the layout annotation for one scanned
// page: zero or more [TableRegion] values, each holding the [TableCell]
// polygons that make up the table. Cells carry their logical row and column
// index, which is what the row/column grouping operates on.
//
// # Geometry
//
// Geometric primitives support position and outline calculations:
//
//   - [BBox] - bounding box with intersection and union calculations
//   - [Point] - 2D point with distance calculation
//   - [Ring] - polygon outline with shoelace area, bounds, and flattening
//
// All coordinates are image coordinates: origin at the top-left corner,
// Y increasing downward.
package model
