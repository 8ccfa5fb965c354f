// Package spatial implements the percentage-space geometry for map boxes:
// drag, center-anchored resize, rotation, the zoom/pan viewport and the grid
// ruler. Pixel input comes from the client; everything stored is percent of
// the map container.
package spatial

import (
	"math"

	"showtime/api/model"
)

const (
	// Box size clamp, percent of the container per axis.
	MinSizePct = 2.0
	MaxSizePct = 50.0

	// Feet per grid square in the table's convention.
	DefaultUnitsPerCell = 5
)

// Container is the map container's pixel rectangle on the client that
// produced the gesture.
type Container struct {
	OriginX float64 `json:"origin_x"`
	OriginY float64 `json:"origin_y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ToPercent translates a pixel position into container percent space,
// clamped to [0,100] on both axes.
func (c Container) ToPercent(px, py float64) (x, y float64) {
	x = clamp((px-c.OriginX)/c.Width*100, 0, 100)
	y = clamp((py-c.OriginY)/c.Height*100, 0, 100)
	return
}

// Drag moves the box to the pointer position.
func Drag(box model.Box, c Container, px, py float64) model.Box {
	box.X, box.Y = c.ToPercent(px, py)
	return box
}

// Resize recomputes the box extents anchored at its center: the new half
// extents are the pointer's absolute pixel offset from the center. Square
// and circle shapes lock the aspect to the larger axis before the clamp.
func Resize(box model.Box, c Container, px, py float64) model.Box {
	centerPxX := c.OriginX + box.X/100*c.Width
	centerPxY := c.OriginY + box.Y/100*c.Height

	w := math.Abs(px-centerPxX) / c.Width * 100 * 2
	h := math.Abs(py-centerPxY) / c.Height * 100 * 2

	if box.Shape == model.ShapeSquare || box.Shape == model.ShapeCircle {
		m := math.Max(w, h)
		w, h = m, m
	}
	box.Width = clamp(w, MinSizePct, MaxSizePct)
	box.Height = clamp(h, MinSizePct, MaxSizePct)
	return box
}

// Rotate points the box at the pointer. The +90 offset puts 0 degrees at
// the rotate handle's "up" position.
func Rotate(box model.Box, c Container, px, py float64) model.Box {
	centerPxX := c.OriginX + box.X/100*c.Width
	centerPxY := c.OriginY + box.Y/100*c.Height
	box.Rotation = math.Atan2(py-centerPxY, px-centerPxX)*180/math.Pi + 90
	return box
}

// CounterScale is the reciprocal transform that keeps control handles a
// constant on-screen size under an ambient zoom factor.
func CounterScale(zoom float64) float64 {
	if zoom <= 0 {
		return 1
	}
	return 1 / zoom
}
