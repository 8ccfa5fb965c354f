package spatial

import "sync"

// Map designer view state: an independent zoom percentage layered on top of
// the base map scale, plus a raw-pixel pan accumulated during middle-button
// drags. Pan is independent of zoom.
const (
	ZoomMin     = 25.0
	ZoomMax     = 200.0
	ZoomDefault = 100.0
	ZoomStep    = 10.0
)

type Viewport struct {
	mu      sync.Mutex
	zoom    float64
	panX    float64
	panY    float64
	panning bool
	lastX   float64
	lastY   float64
}

func NewViewport() *Viewport {
	return &Viewport{zoom: ZoomDefault}
}

func (v *Viewport) Zoom() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.zoom
}

func (v *Viewport) Pan() (x, y float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.panX, v.panY
}

// Wheel steps the zoom by the wheel delta's sign only; magnitude is
// irrelevant.
func (v *Viewport) Wheel(delta float64) float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	switch {
	case delta < 0:
		v.zoom = clamp(v.zoom+ZoomStep, ZoomMin, ZoomMax)
	case delta > 0:
		v.zoom = clamp(v.zoom-ZoomStep, ZoomMin, ZoomMax)
	}
	return v.zoom
}

// Scale is the effective map scale: the base scale with the view zoom
// applied multiplicatively.
func (v *Viewport) Scale(base float64) float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return base * v.zoom / 100
}

func (v *Viewport) BeginPan(px, py float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.panning = true
	v.lastX, v.lastY = px, py
}

// MovePan accumulates the mouse delta in raw pixels while the middle button
// is held.
func (v *Viewport) MovePan(px, py float64) (x, y float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.panning {
		v.panX += px - v.lastX
		v.panY += py - v.lastY
		v.lastX, v.lastY = px, py
	}
	return v.panX, v.panY
}

func (v *Viewport) EndPan() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.panning = false
}
