package grid

// Layout owns the grid geometry for a growing, append-only set of committed
// items. It recomputes cell size only when the row count increases past the
// row count of the last recomputation. Layout is not safe for concurrent use;
// the sequential processor is its only caller.
type Layout struct {
	columns   int
	viewport  Size
	spacing   float64
	container Transform

	geometry Geometry
	rows     int
}

// NewLayout builds a layout sized for a single row.
func NewLayout(columns int, viewport Size, spacing float64) *Layout {
	columns = clampColumns(columns)
	cell := RecomputeCellSize(0, columns, viewport, spacing)
	return &Layout{
		columns:   columns,
		viewport:  viewport,
		spacing:   spacing,
		container: TopLeft(viewport),
		geometry: Geometry{
			Columns:    columns,
			CellWidth:  cell.Width,
			CellHeight: cell.Height,
			Spacing:    spacing,
		},
		rows: 1,
	}
}

// Geometry returns the current target geometry.
func (l *Layout) Geometry() Geometry {
	return l.geometry
}

// Rows returns the row count the current geometry was computed for.
func (l *Layout) Rows() int {
	return l.rows
}

// Target returns the world-space center of the cell at index.
func (l *Layout) Target(index int) Point {
	return l.container.Apply(Position(index, l.geometry))
}

// Commit records that count items are now in the grid. When the row count
// grows it recomputes the cell size and returns the new geometry with
// changed set.
func (l *Layout) Commit(count int) (geometry Geometry, changed bool) {
	rows := Rows(count, l.columns)
	if rows <= l.rows {
		return l.geometry, false
	}
	cell := RecomputeCellSize(count, l.columns, l.viewport, l.spacing)
	l.geometry.CellWidth = cell.Width
	l.geometry.CellHeight = cell.Height
	l.rows = rows
	return l.geometry, true
}
