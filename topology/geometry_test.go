package topology

import (
	"math"
	"testing"

	"github.com/orbitalmesh/ldmr-sim/model"
)

func TestDistance(t *testing.T) {
	a := model.Position{X: 0, Y: 0, Z: 0}
	b := model.Position{X: 3, Y: 4, Z: 0}
	if got := Distance(a, b); got != 5 {
		t.Errorf("Distance = %v, want 5", got)
	}
}

func TestPropagationDelayMs(t *testing.T) {
	a := model.Position{X: 0, Y: 0, Z: 0}
	b := model.Position{X: SpeedOfLightKmPerMs, Y: 0, Z: 0}
	if got := PropagationDelayMs(a, b); math.Abs(got-1) > 1e-12 {
		t.Errorf("delay over one light-millisecond = %v, want 1", got)
	}
}

func TestLatLonToECEF(t *testing.T) {
	// Equator at the prime meridian sits on the +X axis.
	p := LatLonToECEF(0, 0, 0)
	if math.Abs(p.X-EarthRadiusKm) > 1e-9 || math.Abs(p.Y) > 1e-9 || math.Abs(p.Z) > 1e-9 {
		t.Errorf("equator/meridian = %+v, want (%v,0,0)", p, EarthRadiusKm)
	}

	// The north pole sits on the +Z axis, altitude included.
	p = LatLonToECEF(90, 0, 100)
	if math.Abs(p.Z-(EarthRadiusKm+100)) > 1e-9 {
		t.Errorf("north pole Z = %v, want %v", p.Z, EarthRadiusKm+100)
	}
	if math.Abs(p.X) > 1e-6 || math.Abs(p.Y) > 1e-6 {
		t.Errorf("north pole X/Y = (%v,%v), want ~0", p.X, p.Y)
	}
}

func TestHasLineOfSight_NoObstruction(t *testing.T) {
	// Two satellites high and on the same side of Earth, separated in Y.
	a := model.Position{X: 8000, Y: 0, Z: 0}
	b := model.Position{X: 8000, Y: 1000, Z: 0}
	if !HasLineOfSight(a, b) {
		t.Errorf("expected LoS between two high satellites on the same side")
	}
}

func TestHasLineOfSight_Obstructed(t *testing.T) {
	// Opposite sides: the chord passes through the Earth.
	a := model.Position{X: 7000, Y: 0, Z: 0}
	b := model.Position{X: -7000, Y: 0, Z: 0}
	if HasLineOfSight(a, b) {
		t.Errorf("expected LoS to be blocked by Earth")
	}
}

func TestElevationDegrees(t *testing.T) {
	observer := model.Position{X: EarthRadiusKm, Y: 0, Z: 0}

	// Directly overhead.
	overhead := model.Position{X: EarthRadiusKm + 1400, Y: 0, Z: 0}
	if got := ElevationDegrees(observer, overhead); math.Abs(got-90) > 1e-9 {
		t.Errorf("overhead elevation = %v, want 90", got)
	}

	// On the horizon plane: same X, offset in Y.
	horizon := model.Position{X: EarthRadiusKm, Y: 1400, Z: 0}
	if got := ElevationDegrees(observer, horizon); math.Abs(got) > 1e-9 {
		t.Errorf("horizon elevation = %v, want 0", got)
	}

	// Below the horizon.
	below := model.Position{X: EarthRadiusKm - 100, Y: 1400, Z: 0}
	if got := ElevationDegrees(observer, below); got >= 0 {
		t.Errorf("below-horizon elevation = %v, want negative", got)
	}
}
