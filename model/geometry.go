package model

import "math"

// Point represents a 2D point in image coordinates (origin top-left, Y down)
type Point struct {
	X, Y float64
}

// Distance calculates the Euclidean distance to another point
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// BBox represents a bounding box (rectangle) in image coordinates.
// X and Y are the top-left corner.
type BBox struct {
	X      float64 // Left
	Y      float64 // Top (image coordinate system)
	Width  float64
	Height float64
}

// NewBBox creates a bounding box from coordinates
func NewBBox(x, y, width, height float64) BBox {
	return BBox{X: x, Y: y, Width: width, Height: height}
}

// NewBBoxFromPoints creates a bounding box from two points
func NewBBoxFromPoints(p1, p2 Point) BBox {
	x := math.Min(p1.X, p2.X)
	y := math.Min(p1.Y, p2.Y)
	width := math.Abs(p2.X - p1.X)
	height := math.Abs(p2.Y - p1.Y)
	return BBox{X: x, Y: y, Width: width, Height: height}
}

// Left returns the left edge X coordinate
func (b BBox) Left() float64 {
	return b.X
}

// Right returns the right edge X coordinate
func (b BBox) Right() float64 {
	return b.X + b.Width
}

// Top returns the top edge Y coordinate
func (b BBox) Top() float64 {
	return b.Y
}

// Bottom returns the bottom edge Y coordinate
func (b BBox) Bottom() float64 {
	return b.Y + b.Height
}

// Center returns the center point
func (b BBox) Center() Point {
	return Point{
		X: b.X + b.Width/2,
		Y: b.Y + b.Height/2,
	}
}

// Contains checks if a point is inside the bounding box
func (b BBox) Contains(p Point) bool {
	return p.X >= b.Left() && p.X <= b.Right() &&
		p.Y >= b.Top() && p.Y <= b.Bottom()
}

// Intersects checks if two bounding boxes intersect
func (b BBox) Intersects(other BBox) bool {
	return !(b.Right() < other.Left() ||
		b.Left() > other.Right() ||
		b.Bottom() < other.Top() ||
		b.Top() > other.Bottom())
}

// Union returns the union of two bounding boxes
func (b BBox) Union(other BBox) BBox {
	x := math.Min(b.Left(), other.Left())
	y := math.Min(b.Top(), other.Top())
	right := math.Max(b.Right(), other.Right())
	bottom := math.Max(b.Bottom(), other.Bottom())

	return BBox{
		X:      x,
		Y:      y,
		Width:  right - x,
		Height: bottom - y,
	}
}

// Area returns the area of the bounding box
func (b BBox) Area() float64 {
	return b.Width * b.Height
}

// IsEmpty returns true if the bounding box has zero area
func (b BBox) IsEmpty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// IsValid returns true if the bounding box has positive dimensions
func (b BBox) IsValid() bool {
	return b.Width > 0 && b.Height > 0
}

// Ring is a polygon outline as an ordered list of vertices. A ring may or
// may not repeat its first point at the end; Area, Bounds and Len handle both.
type Ring []Point

// Len returns the number of vertices, not counting a closing duplicate.
func (r Ring) Len() int {
	n := len(r)
	if n > 1 && r[0] == r[n-1] {
		return n - 1
	}
	return n
}

// Closed returns the ring with its first point repeated at the end. Rings
// that are already closed, or have fewer than 3 vertices, are returned as-is.
func (r Ring) Closed() Ring {
	if len(r) < 3 {
		return r
	}
	if r[0] == r[len(r)-1] {
		return r
	}
	closed := make(Ring, len(r)+1)
	copy(closed, r)
	closed[len(r)] = r[0]
	return closed
}

// Area returns the absolute area enclosed by the ring, computed with the
// shoelace formula. Rings with fewer than 3 distinct vertices have area 0.
func (r Ring) Area() float64 {
	n := r.Len()
	if n < 3 {
		return 0
	}

	sum := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += r[i].X*r[j].Y - r[j].X*r[i].Y
	}
	return math.Abs(sum) / 2
}

// Bounds returns the bounding box of the ring.
func (r Ring) Bounds() BBox {
	if len(r) == 0 {
		return BBox{}
	}

	minX, minY := r[0].X, r[0].Y
	maxX, maxY := r[0].X, r[0].Y
	for _, p := range r[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}

	return BBox{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Flatten returns the vertices as a flat [x0, y0, x1, y1, ...] slice,
// the layout COCO segmentation records use.
func (r Ring) Flatten() []float64 {
	flat := make([]float64, 0, len(r)*2)
	for _, p := range r {
		flat = append(flat, p.X, p.Y)
	}
	return flat
}
