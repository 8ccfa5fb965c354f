package spatial

import (
	"math"
	"testing"

	"showtime/api/model"
)

// A 1000x800 container at origin (100, 50) keeps the percent math honest on
// non-square dimensions.
var testContainer = Container{OriginX: 100, OriginY: 50, Width: 1000, Height: 800}

func TestToPercentClamps(t *testing.T) {
	c := testContainer
	x, y := c.ToPercent(600, 450)
	if x != 50 || y != 50 {
		t.Fatalf("center: (%v, %v)", x, y)
	}
	if x, y := c.ToPercent(-500, -500); x != 0 || y != 0 {
		t.Fatalf("under-origin not clamped: (%v, %v)", x, y)
	}
	if x, y := c.ToPercent(9999, 9999); x != 100 || y != 100 {
		t.Fatalf("overshoot not clamped: (%v, %v)", x, y)
	}
}

func TestDragMovesToPointer(t *testing.T) {
	box := model.Box{X: 10, Y: 10, Width: 10, Height: 10}
	moved := Drag(box, testContainer, 350, 250)
	if moved.X != 25 || moved.Y != 25 {
		t.Fatalf("dragged to (%v, %v)", moved.X, moved.Y)
	}
	if moved.Width != 10 || moved.Height != 10 {
		t.Fatal("drag changed the size")
	}
}

func TestResizeCenterAnchored(t *testing.T) {
	// Box centered at 50%/50%, pointer 100px right and 80px down of center:
	// half extents 10% and 10% of their axes, so 20% per side.
	box := model.Box{X: 50, Y: 50, Shape: model.ShapeRectangle}
	resized := Resize(box, testContainer, 700, 530)
	if resized.Width != 20 || resized.Height != 20 {
		t.Fatalf("size (%v, %v), want (20, 20)", resized.Width, resized.Height)
	}
	// pointer on the opposite side gives the same extents
	mirror := Resize(box, testContainer, 500, 370)
	if mirror.Width != 20 || mirror.Height != 20 {
		t.Fatalf("mirrored size (%v, %v)", mirror.Width, mirror.Height)
	}
}

func TestResizeClampsPerAxis(t *testing.T) {
	box := model.Box{X: 50, Y: 50, Shape: model.ShapeRectangle}
	tiny := Resize(box, testContainer, 601, 451)
	if tiny.Width != MinSizePct || tiny.Height != MinSizePct {
		t.Fatalf("min clamp: (%v, %v)", tiny.Width, tiny.Height)
	}
	huge := Resize(box, testContainer, 100+1000, 50+800)
	if huge.Width != MaxSizePct || huge.Height != MaxSizePct {
		t.Fatalf("max clamp: (%v, %v)", huge.Width, huge.Height)
	}
}

func TestResizeLocksAspectForSquareAndCircle(t *testing.T) {
	for _, shape := range []string{model.ShapeSquare, model.ShapeCircle} {
		box := model.Box{X: 50, Y: 50, Shape: shape}
		// asymmetric pointer displacement: 150px on x, 40px on y
		resized := Resize(box, testContainer, 750, 490)
		if resized.Width != resized.Height {
			t.Fatalf("%s did not lock aspect: (%v, %v)", shape, resized.Width, resized.Height)
		}
		// locked to the larger percent axis: 150/1000*100*2 = 30
		if resized.Width != 30 {
			t.Fatalf("%s locked to %v, want 30", shape, resized.Width)
		}
	}
}

func TestRotatePointsAtPointer(t *testing.T) {
	box := model.Box{X: 50, Y: 50}
	cases := []struct {
		px, py float64
		want   float64
	}{
		{600, 350, 0},   // straight up
		{700, 450, 90},  // right
		{600, 550, 180}, // down
		{500, 450, 270}, // left
	}
	for _, tc := range cases {
		got := Rotate(box, testContainer, tc.px, tc.py).Rotation
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("pointer (%v, %v): rotation %v, want %v", tc.px, tc.py, got, tc.want)
		}
	}
}

func TestCounterScale(t *testing.T) {
	if got := CounterScale(2); got != 0.5 {
		t.Fatalf("CounterScale(2) = %v", got)
	}
	if got := CounterScale(0); got != 1 {
		t.Fatalf("CounterScale(0) = %v", got)
	}
}

func TestManipulatorGesturesMutuallyExclusive(t *testing.T) {
	m := NewManipulator(model.Box{ID: "b1", X: 50, Y: 50, Width: 10, Height: 10})

	if !m.Begin(GestureDragging) {
		t.Fatal("drag refused from idle")
	}
	if m.Begin(GestureResizing) {
		t.Fatal("resize started over an active drag")
	}
	if m.Begin(GestureRotating) {
		t.Fatal("rotate started over an active drag")
	}

	box, ok := m.Move(testContainer, 350, 250)
	if !ok || box.X != 25 {
		t.Fatalf("move during drag: %+v ok=%v", box, ok)
	}

	m.End()
	if m.Gesture() != GestureIdle {
		t.Fatal("End did not return to idle")
	}
	if _, ok := m.Move(testContainer, 600, 450); ok {
		t.Fatal("move applied after End")
	}
	if !m.Begin(GestureResizing) {
		t.Fatal("resize refused after idle")
	}
}

func TestManipulatorBeginIdleRejected(t *testing.T) {
	m := NewManipulator(model.Box{})
	if m.Begin(GestureIdle) {
		t.Fatal("idle is not a startable gesture")
	}
}

func TestViewportWheelStepsAndClamps(t *testing.T) {
	v := NewViewport()
	if v.Zoom() != ZoomDefault {
		t.Fatalf("default zoom %v", v.Zoom())
	}
	// wheel up (negative delta) zooms in one step regardless of magnitude
	if got := v.Wheel(-1); got != 110 {
		t.Fatalf("zoom in: %v", got)
	}
	if got := v.Wheel(-1200); got != 120 {
		t.Fatalf("large delta must still be one step: %v", got)
	}
	for i := 0; i < 30; i++ {
		v.Wheel(-1)
	}
	if v.Zoom() != ZoomMax {
		t.Fatalf("upper clamp: %v", v.Zoom())
	}
	for i := 0; i < 40; i++ {
		v.Wheel(1)
	}
	if v.Zoom() != ZoomMin {
		t.Fatalf("lower clamp: %v", v.Zoom())
	}
	if got := v.Wheel(0); got != ZoomMin {
		t.Fatalf("zero delta changed zoom: %v", got)
	}
}

func TestViewportScaleIsMultiplicative(t *testing.T) {
	v := NewViewport()
	v.Wheel(-1) // 110%
	if got := v.Scale(0.8); math.Abs(got-0.88) > 1e-9 {
		t.Fatalf("scale = %v, want 0.88", got)
	}
}

func TestViewportPanAccumulatesRawPixels(t *testing.T) {
	v := NewViewport()
	v.Wheel(-1) // pan must ignore zoom entirely
	v.BeginPan(100, 100)
	if x, y := v.MovePan(130, 90); x != 30 || y != -10 {
		t.Fatalf("pan (%v, %v)", x, y)
	}
	if x, y := v.MovePan(140, 90); x != 40 || y != -10 {
		t.Fatalf("pan (%v, %v)", x, y)
	}
	v.EndPan()
	if x, y := v.MovePan(9999, 9999); x != 40 || y != -10 {
		t.Fatalf("pan moved after EndPan: (%v, %v)", x, y)
	}
}

func TestRulerDistance(t *testing.T) {
	// 1000px wide image, 50px cells, 5 feet per cell. 20% horizontal span is
	// 200px = 4 cells = 20 feet.
	if got := RulerDistance(10, 50, 30, 50, 1000, 800, 50, 5); got != 20 {
		t.Fatalf("horizontal: %v, want 20", got)
	}
	// vertical converts through the image height: 25% of 800 = 200px again
	if got := RulerDistance(50, 10, 50, 35, 1000, 800, 50, 5); got != 20 {
		t.Fatalf("vertical: %v, want 20", got)
	}
	// rounding: 3-4-5 triangle, 120px and 160px legs, 200px = 20 feet
	if got := RulerDistance(0, 0, 12, 20, 1000, 800, 50, 5); got != 20 {
		t.Fatalf("diagonal: %v, want 20", got)
	}
	if got := RulerDistance(0, 0, 50, 50, 1000, 800, 0, 5); got != 0 {
		t.Fatalf("zero cell size: %v", got)
	}
	// unitsPerCell defaulting
	if got := RulerDistance(10, 50, 30, 50, 1000, 800, 50, 0); got != 20 {
		t.Fatalf("default units: %v", got)
	}
}
