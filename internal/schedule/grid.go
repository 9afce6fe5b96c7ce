package schedule

import "math"

// GridMetrics describes the rendered calendar geometry: a header row on
// top, a day-label column on the left, then one column per slot and one
// row per weekday. All values are pixels in the grid's own coordinates.
type GridMetrics struct {
	Width         float64 `json:"width"`
	HeaderHeight  float64 `json:"header_height"`
	LabelColWidth float64 `json:"label_col_width"`
	CellHeight    float64 `json:"cell_height"`
}

// DefaultGridMetrics returns the geometry the calendar renders with:
// 60px header, 120px label column, 80px rows, and the remaining width
// split evenly across the slot columns.
func DefaultGridMetrics(width float64) GridMetrics {
	return GridMetrics{
		Width:         width,
		HeaderHeight:  60,
		LabelColWidth: 120,
		CellHeight:    80,
	}
}

// CellWidth returns the width of one slot column.
func (m GridMetrics) CellWidth() float64 {
	return (m.Width - m.LabelColWidth) / float64(NumSlots())
}

// CellAt maps a pointer position to a (day row, slot column) pair.
// ok is false when the position falls outside the 7×NumSlots grid,
// which callers must treat as a discarded drop.
func (m GridMetrics) CellAt(x, y float64) (dayIdx, slotIdx int, ok bool) {
	slotIdx = int(math.Floor((x - m.LabelColWidth) / m.CellWidth()))
	dayIdx = int(math.Floor((y - m.HeaderHeight) / m.CellHeight))
	if slotIdx < 0 || slotIdx >= NumSlots() || dayIdx < 0 || dayIdx >= 7 {
		return dayIdx, slotIdx, false
	}
	return dayIdx, slotIdx, true
}
