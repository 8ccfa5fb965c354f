package spatial

import (
	"sync"

	"showtime/api/model"
)

// Gesture is the per-object interaction state. A single field holds it, so
// drag, resize and rotate are mutually exclusive by construction.
type Gesture int

const (
	GestureIdle Gesture = iota
	GestureDragging
	GestureResizing
	GestureRotating
)

func (g Gesture) String() string {
	switch g {
	case GestureIdle:
		return "idle"
	case GestureDragging:
		return "dragging"
	case GestureResizing:
		return "resizing"
	case GestureRotating:
		return "rotating"
	default:
		return "unknown"
	}
}

// Manipulator drives one box through its gesture state machine. Transitions
// into an active gesture only happen from Idle; pointer-up or pointer-leave
// returns to Idle regardless of state.
type Manipulator struct {
	mu      sync.Mutex
	gesture Gesture
	box     model.Box
}

func NewManipulator(box model.Box) *Manipulator {
	return &Manipulator{box: box}
}

func (m *Manipulator) Gesture() Gesture {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gesture
}

func (m *Manipulator) Box() model.Box {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.box
}

// Begin enters an active gesture. Returns false when another gesture is
// already running on this object.
func (m *Manipulator) Begin(g Gesture) bool {
	if g == GestureIdle {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gesture != GestureIdle {
		return false
	}
	m.gesture = g
	return true
}

// End cancels whatever gesture is running. Further Move calls are ignored
// until the next Begin.
func (m *Manipulator) End() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gesture = GestureIdle
}

// Move applies the pointer position through the active gesture's geometry
// and returns the updated box. ok is false when no gesture is active.
func (m *Manipulator) Move(c Container, px, py float64) (model.Box, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch m.gesture {
	case GestureDragging:
		m.box = Drag(m.box, c, px, py)
	case GestureResizing:
		m.box = Resize(m.box, c, px, py)
	case GestureRotating:
		m.box = Rotate(m.box, c, px, py)
	default:
		return m.box, false
	}
	return m.box, true
}
