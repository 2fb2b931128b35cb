// Package region converts area and room definitions and infers their
// parent/child hierarchy from overlapping rectangles.
package region

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/sphereconv/internal/convert"
)

// MaxPlane is the highest valid map plane.
const MaxPlane = 255

// Point is a map coordinate.
type Point struct {
	X, Y int
}

// Rect is an axis-aligned rectangle with inclusive bounds.
type Rect struct {
	MinX, MinY, MaxX, MaxY int
}

// NewRect builds a normalised rectangle from two opposite corners.
//
// Postcondition: MinX <= MaxX and MinY <= MaxY.
func NewRect(x1, y1, x2, y2 int) Rect {
	return Rect{
		MinX: min(x1, x2),
		MinY: min(y1, y2),
		MaxX: max(x1, x2),
		MaxY: max(y1, y2),
	}
}

// Corners returns all four corners of r.
func (r Rect) Corners() [4]Point {
	return [4]Point{
		{r.MinX, r.MinY},
		{r.MaxX, r.MinY},
		{r.MinX, r.MaxY},
		{r.MaxX, r.MaxY},
	}
}

// Contains reports whether p lies inside r, bounds included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// String renders r as "minX,minY,maxX,maxY".
func (r Rect) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", r.MinX, r.MinY, r.MaxX, r.MaxY)
}

// ParseRect parses "x1,y1,x2,y2[,plane]".
//
// Postcondition: hasPlane is true only when a fifth component was given.
func ParseRect(s string) (r Rect, plane uint8, hasPlane bool, err error) {
	nums, err := parseInts(s)
	if err != nil {
		return Rect{}, 0, false, fmt.Errorf("rectangle %q: %w", s, err)
	}
	switch len(nums) {
	case 4:
	case 5:
		if nums[4] > MaxPlane {
			return Rect{}, 0, false, fmt.Errorf("rectangle %q: map plane %d out of range", s, nums[4])
		}
		plane, hasPlane = uint8(nums[4]), true
	default:
		return Rect{}, 0, false, fmt.Errorf("rectangle %q: want 4 or 5 components, got %d", s, len(nums))
	}
	return NewRect(nums[0], nums[1], nums[2], nums[3]), plane, hasPlane, nil
}

// ParsePoint parses "x,y[,z[,plane]]".
func ParsePoint(s string) (p Point, plane uint8, hasPlane bool, err error) {
	nums, err := parseInts(s)
	if err != nil {
		return Point{}, 0, false, fmt.Errorf("point %q: %w", s, err)
	}
	if len(nums) < 2 || len(nums) > 4 {
		return Point{}, 0, false, fmt.Errorf("point %q: want 2 to 4 components, got %d", s, len(nums))
	}
	if len(nums) == 4 {
		if nums[3] > MaxPlane {
			return Point{}, 0, false, fmt.Errorf("point %q: map plane %d out of range", s, nums[3])
		}
		plane, hasPlane = uint8(nums[3]), true
	}
	return Point{X: nums[0], Y: nums[1]}, plane, hasPlane, nil
}

func parseInts(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, ok := convert.ParseNumber(p)
		if !ok {
			return nil, fmt.Errorf("invalid number %q", strings.TrimSpace(p))
		}
		out = append(out, n)
	}
	return out, nil
}

// Score counts the corners of a's rectangles that fall inside at least one
// of b's rectangles. Corner sampling approximates containment; it is not a
// rectangle intersection test.
func Score(a, b *Region) int {
	score := 0
	for _, ra := range a.Rects {
		for _, c := range ra.Corners() {
			for _, rb := range b.Rects {
				if rb.Contains(c) {
					score++
					break
				}
			}
		}
	}
	return score
}

// Compatible reports whether a and b may be related: they share a map
// plane, or either one is the root.
func Compatible(a, b *Region) bool {
	return a.Root || b.Root || a.Plane == b.Plane
}
