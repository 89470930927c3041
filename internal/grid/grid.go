// Package grid computes the fixed-column grid geometry for the schedule view.
//
// Everything here is pure arithmetic over a container width: cell sizes are
// re-derived on every resize and never persisted. A non-positive container
// width yields zero-size geometry so callers can fall back to a flow layout
// instead of failing.
package grid

// Aspect ratio presets matching the publishing modes of the dashboard.
const (
	AspectStandard = 4.0 / 5.0  // standard feed post
	AspectReel     = 9.0 / 16.0 // vertical "reels" mode
)

// Config holds the grid configuration inputs: column count, gap between
// cells, and the cell aspect ratio (width / height).
type Config struct {
	Columns     int
	Gap         float64
	AspectRatio float64
}

// Geometry is the derived cell geometry for a concrete container width.
type Geometry struct {
	Config
	CellWidth  float64
	CellHeight float64
}

// CellSize derives the cell dimensions for the given container width.
// Width <= 0 (unmeasured container) returns zero-size geometry.
func (c Config) CellSize(containerWidth float64) (cellWidth, cellHeight float64) {
	if containerWidth <= 0 || c.Columns <= 0 {
		return 0, 0
	}
	cellWidth = (containerWidth - c.Gap*float64(c.Columns-1)) / float64(c.Columns)
	if cellWidth < 0 {
		cellWidth = 0
	}
	ratio := c.AspectRatio
	if ratio <= 0 {
		ratio = AspectStandard
	}
	cellHeight = cellWidth / ratio
	return cellWidth, cellHeight
}

// Layout derives the full geometry for a container width.
func (c Config) Layout(containerWidth float64) Geometry {
	w, h := c.CellSize(containerWidth)
	return Geometry{Config: c, CellWidth: w, CellHeight: h}
}

// Zero reports whether the geometry is degenerate (unmeasured container).
func (g Geometry) Zero() bool {
	return g.CellWidth <= 0 || g.CellHeight <= 0
}

// PositionOf converts a linear cell index to the top-left pixel position of
// that cell.
func (g Geometry) PositionOf(index int) (x, y float64) {
	if g.Columns <= 0 || index < 0 {
		return 0, 0
	}
	col := index % g.Columns
	row := index / g.Columns
	x = float64(col) * (g.CellWidth + g.Gap)
	y = float64(row) * (g.CellHeight + g.Gap)
	return x, y
}

// CenterOf returns the center point of the cell at index.
func (g Geometry) CenterOf(index int) (x, y float64) {
	x, y = g.PositionOf(index)
	return x + g.CellWidth/2, y + g.CellHeight/2
}

// IndexAt maps a point back to a linear cell index. Callers pass the center
// of the dragged cell's bounding box, not its top-left corner, which makes
// the hit test forgiving near cell edges.
//
// The column is clamped to [0, Columns-1], the row to >= 0, and the final
// index to itemCount-1 so a drop past the last cell lands on the last slot.
// Returns -1 for degenerate geometry or an empty grid.
func (g Geometry) IndexAt(x, y float64, itemCount int) int {
	if g.Zero() || g.Columns <= 0 || itemCount <= 0 {
		return -1
	}
	col := int(x / (g.CellWidth + g.Gap))
	if col < 0 {
		col = 0
	}
	if col > g.Columns-1 {
		col = g.Columns - 1
	}
	row := int(y / (g.CellHeight + g.Gap))
	if row < 0 {
		row = 0
	}
	idx := row*g.Columns + col
	if idx > itemCount-1 {
		idx = itemCount - 1
	}
	return idx
}

// HitIndex maps a raw pointer position to the cell directly under it. Unlike
// IndexAt it does not clamp: a point beyond the last column or row, inside a
// gap band between cells, or over a slot past itemCount-1 returns -1. Press
// resolution uses this strict test; IndexAt remains the forgiving variant
// for drop targeting where clamping is wanted.
func (g Geometry) HitIndex(x, y float64, itemCount int) int {
	if g.Zero() || g.Columns <= 0 || itemCount <= 0 || x < 0 || y < 0 {
		return -1
	}
	strideX := g.CellWidth + g.Gap
	strideY := g.CellHeight + g.Gap
	col := int(x / strideX)
	row := int(y / strideY)
	if col > g.Columns-1 {
		return -1
	}
	if x-float64(col)*strideX >= g.CellWidth {
		return -1
	}
	if y-float64(row)*strideY >= g.CellHeight {
		return -1
	}
	idx := row*g.Columns + col
	if idx > itemCount-1 {
		return -1
	}
	return idx
}

// Rows returns the number of grid rows needed to show itemCount cells.
func (g Geometry) Rows(itemCount int) int {
	if g.Columns <= 0 || itemCount <= 0 {
		return 0
	}
	return (itemCount + g.Columns - 1) / g.Columns
}
