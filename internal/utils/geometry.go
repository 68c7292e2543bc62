package utils

import (
	"math"

	"github.com/voltsite/voltsitego/internal/floorplan"
)

// PolylineLengthM converts a drawn route into metres using the document's
// calibration scale. Returns 0 for routes with fewer than two points or an
// uncalibrated document (scale <= 0).
func PolylineLengthM(points []floorplan.Position, metersPerPixel float64) float64 {
	if len(points) < 2 || metersPerPixel <= 0 {
		return 0
	}
	total := 0.0
	for i := 1; i < len(points); i++ {
		dx := points[i].X - points[i-1].X
		dy := points[i].Y - points[i-1].Y
		total += math.Hypot(dx, dy)
	}
	return total * metersPerPixel
}

// RouteLengthWithSlack adds the termination slack electricians leave at each
// end of a run.
func RouteLengthWithSlack(points []floorplan.Position, metersPerPixel, slackM float64) float64 {
	length := PolylineLengthM(points, metersPerPixel)
	if length == 0 {
		return 0
	}
	return length + 2*slackM
}
