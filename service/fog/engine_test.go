package fog

import (
	"math"
	"sync"
	"testing"

	"showtime/api/model"
)

func TestStrokeStepsOverlapProperty(t *testing.T) {
	from := Point{X: 0, Y: 0}
	to := Point{X: 100, Y: 0}
	for _, brush := range []float64{1, 2, 5, 7, 10} {
		want := int(math.Ceil(100 / (brush * 0.5)))
		if want < 1 {
			want = 1
		}
		if got := StrokeSteps(from, to, brush); got != want {
			t.Errorf("brush %v: steps = %d, want %d", brush, got, want)
		}
	}
	// zero distance still yields one step
	if got := StrokeSteps(from, from, 5); got != 1 {
		t.Errorf("zero distance: steps = %d, want 1", got)
	}
}

func TestInterpolateStrokeEndpointExact(t *testing.T) {
	from := Point{X: 3.3, Y: 7.7}
	to := Point{X: 61.9, Y: 44.1}
	pts := InterpolateStroke(from, to, 4)
	if len(pts) != StrokeSteps(from, to, 4) {
		t.Fatalf("len = %d, want %d", len(pts), StrokeSteps(from, to, 4))
	}
	last := pts[len(pts)-1]
	if last != to {
		t.Fatalf("endpoint drifted: %v != %v", last, to)
	}
	// points advance monotonically toward the target
	prev := from
	for i, p := range pts {
		if p.X < prev.X || p.Y < prev.Y {
			t.Fatalf("point %d went backwards: %v after %v", i, p, prev)
		}
		prev = p
	}
}

func TestStrokeRevealCount(t *testing.T) {
	// A full stroke across a gap reveals steps+1 circles: one at the press
	// point, then one per interpolation step.
	var (
		mu      sync.Mutex
		reveals []model.RevealedArea
	)
	ended := 0
	e := NewEngine(nil, 5, func(a model.RevealedArea) {
		mu.Lock()
		reveals = append(reveals, a)
		mu.Unlock()
	}, func() { ended++ })

	e.BeginStroke(0, 0)
	e.MoveStroke(100, 0)
	e.EndStroke()

	wantSteps := StrokeSteps(Point{}, Point{X: 100}, 5)
	if len(reveals) != wantSteps+1 {
		t.Fatalf("reveals = %d, want %d", len(reveals), wantSteps+1)
	}
	if reveals[0].X != 0 || reveals[0].Y != 0 {
		t.Fatalf("first reveal not at press point: %+v", reveals[0])
	}
	final := reveals[len(reveals)-1]
	if final.X != 100 || final.Y != 0 {
		t.Fatalf("final reveal not at release point: %+v", final)
	}
	for _, a := range reveals {
		if a.Radius != 5 {
			t.Fatalf("radius = %v, want brush size", a.Radius)
		}
	}
	if ended != 1 {
		t.Fatalf("onEnd fired %d times, want 1", ended)
	}
	if got := e.Areas(); len(got) != wantSteps+1 {
		t.Fatalf("engine kept %d areas, want %d", len(got), wantSteps+1)
	}
}

func TestBeginStrokeIgnoredWhileDrawing(t *testing.T) {
	e := NewEngine(nil, 5, nil, nil)
	e.BeginStroke(10, 10)
	e.BeginStroke(90, 90) // second press must not restart the stroke
	if got := e.Areas(); len(got) != 1 || got[0].X != 10 {
		t.Fatalf("areas = %v", got)
	}
	if !e.Drawing() {
		t.Fatal("stroke ended unexpectedly")
	}
}

func TestMoveAndEndWithoutBeginAreNoops(t *testing.T) {
	ended := 0
	e := NewEngine(nil, 5, nil, func() { ended++ })
	e.MoveStroke(50, 50)
	e.EndStroke()
	if len(e.Areas()) != 0 {
		t.Fatal("move without an active stroke revealed areas")
	}
	if ended != 0 {
		t.Fatal("onEnd fired for a stroke that never began")
	}
}

func TestClearAllAndInitialAreas(t *testing.T) {
	initial := []model.RevealedArea{{X: 1, Y: 2, Radius: 3}}
	e := NewEngine(initial, 5, nil, nil)
	if got := e.Areas(); len(got) != 1 {
		t.Fatalf("initial areas lost: %v", got)
	}
	// Areas returns a copy
	e.Areas()[0].X = 99
	if e.Areas()[0].X != 1 {
		t.Fatal("Areas leaked internal slice")
	}
	e.ClearAll()
	if got := e.Areas(); len(got) != 0 {
		t.Fatalf("clear left %v", got)
	}
}

func TestBuildOverlayPerRole(t *testing.T) {
	areas := []model.RevealedArea{{X: 10, Y: 10, Radius: 5}}

	dm := BuildOverlay(model.RoleDM, areas)
	if dm.Opacity != OpacityDM || !dm.Interactive {
		t.Fatalf("dm overlay: %+v", dm)
	}

	for _, role := range []string{model.RolePlayer, model.RoleSpectator} {
		o := BuildOverlay(role, areas)
		if o.Opacity != OpacityPlayer {
			t.Fatalf("%s opacity = %v", role, o.Opacity)
		}
		if o.Interactive {
			t.Fatalf("%s overlay must stay pointer-transparent", role)
		}
		if o.SoftEdge != SoftEdgeFraction {
			t.Fatalf("%s soft edge = %v", role, o.SoftEdge)
		}
	}

	if o := BuildOverlay(model.RolePlayer, nil); o.Areas == nil {
		t.Fatal("nil areas must serialize as an empty list")
	}
}
