package spatial

import "math"

// RulerDistance measures between two percent-space points on an image of
// the given pixel dimensions, converting through the grid cell size into
// grid units (feet). Recomputed continuously while the far endpoint moves.
//
// Note both axes convert through their own image dimension, so on a
// non-square image a fixed percent distance measures differently per axis;
// the clients share this convention.
func RulerDistance(x1, y1, x2, y2, imgW, imgH, gridCellPx float64, unitsPerCell int) int {
	if gridCellPx <= 0 {
		return 0
	}
	if unitsPerCell <= 0 {
		unitsPerCell = DefaultUnitsPerCell
	}
	dx := (x2 - x1) / 100 * imgW
	dy := (y2 - y1) / 100 * imgH
	pixels := math.Hypot(dx, dy)
	return int(math.Round(pixels / gridCellPx * float64(unitsPerCell)))
}
