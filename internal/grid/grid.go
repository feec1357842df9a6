package grid

import "math"

// DefaultColumns is the fixed column count used when none is configured.
const DefaultColumns = 9

// Point is a position in either container-local or world space.
type Point struct {
	X float64
	Y float64
}

// Size is a width/height pair in viewport units.
type Size struct {
	Width  float64
	Height float64
}

// Geometry describes the cell layout of the grid container.
type Geometry struct {
	Columns    int
	CellWidth  float64
	CellHeight float64
	Spacing    float64
}

// CellSize returns the cell dimensions as a Size.
func (g Geometry) CellSize() Size {
	return Size{Width: g.CellWidth, Height: g.CellHeight}
}

// Rows returns ceil(count/columns). Zero items occupy zero rows.
func Rows(count, columns int) int {
	if count <= 0 {
		return 0
	}
	columns = clampColumns(columns)
	return (count + columns - 1) / columns
}

// RecomputeCellSize returns the cell size that packs itemCount items into the
// viewport with the given column count and spacing. An empty grid is sized as
// a single row.
func RecomputeCellSize(itemCount, columns int, viewport Size, spacing float64) Size {
	columns = clampColumns(columns)
	rows := Rows(itemCount, columns)
	if rows < 1 {
		rows = 1
	}
	width := (viewport.Width - spacing*float64(columns-1)) / float64(columns)
	height := (viewport.Height - spacing*float64(rows-1)) / float64(rows)
	return Size{Width: math.Max(width, 0), Height: math.Max(height, 0)}
}

// Position returns the center of the cell at index, relative to the
// container's top-left corner. Rows grow downward, so y is negative.
func Position(index int, g Geometry) Point {
	if index < 0 {
		index = 0
	}
	columns := clampColumns(g.Columns)
	row := index / columns
	col := index % columns
	x := float64(col)*(g.CellWidth+g.Spacing) + g.CellWidth/2
	y := -(float64(row)*(g.CellHeight+g.Spacing) + g.CellHeight/2)
	return Point{X: x, Y: y}
}

// Transform maps container-local coordinates into world space.
type Transform struct {
	Origin Point
	Scale  float64
}

// Apply converts a container-local point to world space. A zero scale is
// treated as identity.
func (t Transform) Apply(p Point) Point {
	scale := t.Scale
	if scale == 0 {
		scale = 1
	}
	return Point{X: t.Origin.X + p.X*scale, Y: t.Origin.Y + p.Y*scale}
}

// TopLeft returns the transform of a container pinned to the top-left corner
// of a viewport centered on the world origin (y up).
func TopLeft(viewport Size) Transform {
	return Transform{
		Origin: Point{X: -viewport.Width / 2, Y: viewport.Height / 2},
		Scale:  1,
	}
}

func clampColumns(columns int) int {
	if columns < 1 {
		return 1
	}
	return columns
}
