package model

import "math"

// Point represents a 2D point
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance calculates the Euclidean distance to another point
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// AngleTo returns the angle from this point to another in degrees,
// normalized to [-90, 90) so that opposite directions are equivalent.
func (p Point) AngleTo(other Point) float64 {
	deg := math.Atan2(other.Y-p.Y, other.X-p.X) * 180 / math.Pi
	for deg < -90 {
		deg += 180
	}
	for deg >= 90 {
		deg -= 180
	}
	return deg
}

// BBox represents a bounding box (rectangle) stored as corner coordinates.
// The coordinate system is top-left origin with Y increasing downward, so
// Y0 is the top edge and Y1 the bottom edge. A well-formed box satisfies
// X1 >= X0 and Y1 >= Y0.
type BBox struct {
	X0 float64 `json:"x0"` // Left
	Y0 float64 `json:"y0"` // Top
	X1 float64 `json:"x1"` // Right
	Y1 float64 `json:"y1"` // Bottom
}

// NewBBox creates a bounding box from corner coordinates, normalizing the
// corner order so the invariants X1 >= X0 and Y1 >= Y0 hold.
func NewBBox(x0, y0, x1, y1 float64) BBox {
	return BBox{
		X0: math.Min(x0, x1),
		Y0: math.Min(y0, y1),
		X1: math.Max(x0, x1),
		Y1: math.Max(y0, y1),
	}
}

// NewBBoxFromPoints creates a bounding box from two points
func NewBBoxFromPoints(p1, p2 Point) BBox {
	return NewBBox(p1.X, p1.Y, p2.X, p2.Y)
}

// Left returns the left edge X coordinate
func (b BBox) Left() float64 {
	return b.X0
}

// Right returns the right edge X coordinate
func (b BBox) Right() float64 {
	return b.X1
}

// Top returns the top edge Y coordinate
func (b BBox) Top() float64 {
	return b.Y0
}

// Bottom returns the bottom edge Y coordinate
func (b BBox) Bottom() float64 {
	return b.Y1
}

// Width returns the horizontal extent of the box
func (b BBox) Width() float64 {
	return b.X1 - b.X0
}

// Height returns the vertical extent of the box
func (b BBox) Height() float64 {
	return b.Y1 - b.Y0
}

// Center returns the center point
func (b BBox) Center() Point {
	return Point{
		X: (b.X0 + b.X1) / 2,
		Y: (b.Y0 + b.Y1) / 2,
	}
}

// Area returns the area of the bounding box. Degenerate boxes with
// inverted corners report zero, never a negative area.
func (b BBox) Area() float64 {
	w := b.Width()
	h := b.Height()
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// Contains checks if a point is inside the bounding box
func (b BBox) Contains(p Point) bool {
	return p.X >= b.X0 && p.X <= b.X1 &&
		p.Y >= b.Y0 && p.Y <= b.Y1
}

// ContainsBox checks if another box lies entirely inside this one
func (b BBox) ContainsBox(other BBox) bool {
	return other.X0 >= b.X0 && other.X1 <= b.X1 &&
		other.Y0 >= b.Y0 && other.Y1 <= b.Y1
}

// Intersects checks if two bounding boxes intersect
func (b BBox) Intersects(other BBox) bool {
	return !(b.X1 < other.X0 ||
		b.X0 > other.X1 ||
		b.Y1 < other.Y0 ||
		b.Y0 > other.Y1)
}

// Intersection returns the intersection of two bounding boxes
func (b BBox) Intersection(other BBox) BBox {
	if !b.Intersects(other) {
		return BBox{}
	}

	return BBox{
		X0: math.Max(b.X0, other.X0),
		Y0: math.Max(b.Y0, other.Y0),
		X1: math.Min(b.X1, other.X1),
		Y1: math.Min(b.Y1, other.Y1),
	}
}

// Union returns the union of two bounding boxes
func (b BBox) Union(other BBox) BBox {
	return BBox{
		X0: math.Min(b.X0, other.X0),
		Y0: math.Min(b.Y0, other.Y0),
		X1: math.Max(b.X1, other.X1),
		Y1: math.Max(b.Y1, other.Y1),
	}
}

// Expand expands the bounding box by a margin on all sides
func (b BBox) Expand(margin float64) BBox {
	return BBox{
		X0: b.X0 - margin,
		Y0: b.Y0 - margin,
		X1: b.X1 + margin,
		Y1: b.Y1 + margin,
	}
}

// OverlapRatio calculates the overlap ratio with another box as the
// intersection area divided by the smaller box's area.
// Returns value between 0 and 1.
func (b BBox) OverlapRatio(other BBox) float64 {
	if !b.Intersects(other) {
		return 0
	}

	intersection := b.Intersection(other)
	minArea := math.Min(b.Area(), other.Area())

	if minArea == 0 {
		return 0
	}

	return intersection.Area() / minArea
}

// HorizontalOverlap returns the length of the shared X range, or 0 when
// the boxes do not overlap horizontally.
func (b BBox) HorizontalOverlap(other BBox) float64 {
	overlap := math.Min(b.X1, other.X1) - math.Max(b.X0, other.X0)
	if overlap < 0 {
		return 0
	}
	return overlap
}

// HorizontalOverlapRatio returns the shared X range divided by the
// narrower box's width. Returns value between 0 and 1; zero-width boxes
// report 0.
func (b BBox) HorizontalOverlapRatio(other BBox) float64 {
	minWidth := math.Min(b.Width(), other.Width())
	if minWidth <= 0 {
		return 0
	}
	return b.HorizontalOverlap(other) / minWidth
}

// VerticalOverlap returns the length of the shared Y range, or 0 when the
// boxes do not overlap vertically.
func (b BBox) VerticalOverlap(other BBox) float64 {
	overlap := math.Min(b.Y1, other.Y1) - math.Max(b.Y0, other.Y0)
	if overlap < 0 {
		return 0
	}
	return overlap
}

// VerticalGap returns the vertical distance between two boxes, 0 when
// they overlap vertically. The order of the boxes does not matter.
func (b BBox) VerticalGap(other BBox) float64 {
	if b.Y1 <= other.Y0 {
		return other.Y0 - b.Y1
	}
	if other.Y1 <= b.Y0 {
		return b.Y0 - other.Y1
	}
	return 0
}

// HorizontalGap returns the horizontal distance between two boxes, 0 when
// they overlap horizontally.
func (b BBox) HorizontalGap(other BBox) float64 {
	if b.X1 <= other.X0 {
		return other.X0 - b.X1
	}
	if other.X1 <= b.X0 {
		return b.X0 - other.X1
	}
	return 0
}

// IsEmpty returns true if the bounding box has zero or negative area
func (b BBox) IsEmpty() bool {
	return b.X1 <= b.X0 || b.Y1 <= b.Y0
}

// IsValid returns true if all coordinates are finite and the corner
// invariants X1 >= X0, Y1 >= Y0 hold. Zero-area boxes are valid.
func (b BBox) IsValid() bool {
	for _, v := range []float64{b.X0, b.Y0, b.X1, b.Y1} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return b.X1 >= b.X0 && b.Y1 >= b.Y0
}

// Sanitize returns a normalized copy of the box with corners ordered.
// The second return value is false when the box contains non-finite
// coordinates and cannot be repaired; such boxes should be skipped.
func (b BBox) Sanitize() (BBox, bool) {
	for _, v := range []float64{b.X0, b.Y0, b.X1, b.Y1} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return BBox{}, false
		}
	}
	return NewBBox(b.X0, b.Y0, b.X1, b.Y1), true
}

// Matrix represents a 2D affine transformation matrix
type Matrix [6]float64

// Identity returns an identity matrix
func Identity() Matrix {
	return Matrix{1, 0, 0, 1, 0, 0}
}

// Transform applies the matrix transformation to a point
func (m Matrix) Transform(p Point) Point {
	return Point{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// Multiply multiplies two matrices
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		m[0]*other[0] + m[1]*other[2],
		m[0]*other[1] + m[1]*other[3],
		m[2]*other[0] + m[3]*other[2],
		m[2]*other[1] + m[3]*other[3],
		m[4]*other[0] + m[5]*other[2] + other[4],
		m[4]*other[1] + m[5]*other[3] + other[5],
	}
}

// Translate creates a translation matrix
func Translate(tx, ty float64) Matrix {
	return Matrix{1, 0, 0, 1, tx, ty}
}

// Scale creates a scaling matrix
func Scale(sx, sy float64) Matrix {
	return Matrix{sx, 0, 0, sy, 0, 0}
}

// Rotate creates a rotation matrix (angle in radians)
func Rotate(angle float64) Matrix {
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	return Matrix{cos, sin, -sin, cos, 0, 0}
}

// IsIdentity returns true if the matrix is an identity matrix
func (m Matrix) IsIdentity() bool {
	return m[0] == 1 && m[1] == 0 && m[2] == 0 && m[3] == 1 && m[4] == 0 && m[5] == 0
}
