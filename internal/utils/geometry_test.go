package utils

import (
	"math"
	"testing"

	"github.com/voltsite/voltsitego/internal/floorplan"
)

func TestPolylineLengthM(t *testing.T) {
	// 3-4-5 triangle legs at 0.5 m/px.
	points := []floorplan.Position{
		{X: 0, Y: 0},
		{X: 3, Y: 0},
		{X: 3, Y: 4},
	}

	got := PolylineLengthM(points, 0.5)
	if math.Abs(got-3.5) > 1e-9 {
		t.Errorf("Expected 3.5 m, got %f", got)
	}
}

func TestPolylineLengthM_DegenerateInputs(t *testing.T) {
	if got := PolylineLengthM(nil, 0.5); got != 0 {
		t.Errorf("Empty route should measure 0, got %f", got)
	}
	if got := PolylineLengthM([]floorplan.Position{{X: 1, Y: 1}}, 0.5); got != 0 {
		t.Errorf("Single point should measure 0, got %f", got)
	}
	two := []floorplan.Position{{X: 0, Y: 0}, {X: 10, Y: 0}}
	if got := PolylineLengthM(two, 0); got != 0 {
		t.Errorf("Uncalibrated document should measure 0, got %f", got)
	}
}

func TestRouteLengthWithSlack(t *testing.T) {
	points := []floorplan.Position{{X: 0, Y: 0}, {X: 100, Y: 0}}

	got := RouteLengthWithSlack(points, 0.1, 0.5)
	if math.Abs(got-11.0) > 1e-9 {
		t.Errorf("Expected 10 m + 2*0.5 m slack = 11 m, got %f", got)
	}

	// No slack on an unmeasurable route.
	if got := RouteLengthWithSlack(nil, 0.1, 0.5); got != 0 {
		t.Errorf("Unmeasurable route should stay 0, got %f", got)
	}
}
