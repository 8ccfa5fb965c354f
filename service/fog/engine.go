// Package fog maintains the revealed-circle set that punches holes in a
// map's fog layer. All coordinates are percentage-of-image space.
package fog

import (
	"math"
	"sync"

	"showtime/api/model"
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// StrokeSteps is the interpolation step count between two stroke points:
// one reveal every half brush radius, at least one. Stepping by half the
// brush keeps consecutive circles overlapping however fast the pointer
// moved between samples.
func StrokeSteps(from, to Point, brushSize float64) int {
	dist := math.Hypot(to.X-from.X, to.Y-from.Y)
	steps := int(math.Ceil(dist / (brushSize * 0.5)))
	if steps < 1 {
		steps = 1
	}
	return steps
}

// InterpolateStroke returns the evenly spaced points from `from` (exclusive)
// to `to` (inclusive, exact).
func InterpolateStroke(from, to Point, brushSize float64) []Point {
	steps := StrokeSteps(from, to, brushSize)
	out := make([]Point, 0, steps)
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		out = append(out, Point{
			X: from.X + (to.X-from.X)*t,
			Y: from.Y + (to.Y-from.Y)*t,
		})
	}
	// guard against float drift on the endpoint
	out[len(out)-1] = to
	return out
}

// Engine tracks one drawing session over a map's revealed-area sequence.
// onReveal fires once per appended circle (the persistence hook), onEnd once
// per finished stroke (the authoritative sync).
type Engine struct {
	mu        sync.Mutex
	drawing   bool
	last      *Point
	brushSize float64
	areas     []model.RevealedArea

	onReveal func(model.RevealedArea)
	onEnd    func()
}

func NewEngine(initial []model.RevealedArea, brushSize float64, onReveal func(model.RevealedArea), onEnd func()) *Engine {
	areas := make([]model.RevealedArea, len(initial))
	copy(areas, initial)
	return &Engine{
		brushSize: brushSize,
		areas:     areas,
		onReveal:  onReveal,
		onEnd:     onEnd,
	}
}

func (e *Engine) SetBrushSize(size float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if size > 0 {
		e.brushSize = size
	}
}

func (e *Engine) BrushSize() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.brushSize
}

func (e *Engine) Drawing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.drawing
}

// Areas returns a copy of the revealed sequence.
func (e *Engine) Areas() []model.RevealedArea {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.RevealedArea, len(e.areas))
	copy(out, e.areas)
	return out
}

// Reveal appends one circle.
func (e *Engine) Reveal(x, y, radius float64) {
	area := model.RevealedArea{X: x, Y: y, Radius: radius}
	e.mu.Lock()
	e.areas = append(e.areas, area)
	cb := e.onReveal
	e.mu.Unlock()
	if cb != nil {
		cb(area)
	}
}

// BeginStroke starts a continuous reveal gesture and reveals at the initial
// point. No-op when a stroke is already active.
func (e *Engine) BeginStroke(x, y float64) {
	e.mu.Lock()
	if e.drawing {
		e.mu.Unlock()
		return
	}
	e.drawing = true
	e.last = &Point{X: x, Y: y}
	brush := e.brushSize
	e.mu.Unlock()
	e.Reveal(x, y, brush)
}

// MoveStroke reveals along the straight line from the last recorded point to
// the current one, so fast pointer movement leaves no gaps. No-op while not
// drawing.
func (e *Engine) MoveStroke(x, y float64) {
	e.mu.Lock()
	if !e.drawing || e.last == nil {
		e.mu.Unlock()
		return
	}
	from := *e.last
	to := Point{X: x, Y: y}
	brush := e.brushSize
	e.last = &to
	e.mu.Unlock()

	for _, p := range InterpolateStroke(from, to, brush) {
		e.Reveal(p.X, p.Y, brush)
	}
}

// EndStroke finishes the gesture: pointer-up or pointer-leave, including
// leaving the window entirely. Safe to call when no stroke is active.
func (e *Engine) EndStroke() {
	e.mu.Lock()
	wasDrawing := e.drawing
	e.drawing = false
	e.last = nil
	cb := e.onEnd
	e.mu.Unlock()
	if wasDrawing && cb != nil {
		cb()
	}
}

// ClearAll re-fogs the whole map.
func (e *Engine) ClearAll() {
	e.mu.Lock()
	e.areas = e.areas[:0]
	e.mu.Unlock()
}
