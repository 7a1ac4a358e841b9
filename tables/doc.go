// Package tables derives table row and table column outlines from cell
// annotations.
//
// A table region's cells carry logical row and column indices. Detection
// models are trained on whole rows and columns rather than individual
// cells, so this package reconstructs those: cells are bucketed by shared
// index, each bucket's polygons are unioned, and the exterior boundary of
// the union becomes the row or column outline.
//
// # Grouping
//
// [GroupCells] buckets the cells of one region twice, by row index and by
// column index. Buckets are returned in ascending index order so output is
// deterministic.
//
// # Union boundaries
//
// [GroupOutlines] computes one outline per bucket using the GEOS library:
//
//  1. cell outlines with fewer than 3 vertices are dropped;
//  2. invalid polygons (self-intersections are common in hand-drawn
//     annotations) are repaired with GEOS MakeValid;
//  3. the bucket's polygons are folded together with Union;
//  4. the exterior ring of the union is the outline - when the union is
//     disjoint, the largest piece by area wins.
//
// Buckets whose cells all lack usable outlines produce no outline, so the
// outline count equals the bucket count minus the empty buckets.
package tables
