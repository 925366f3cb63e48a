package topology

import (
	"math"

	"github.com/orbitalmesh/ldmr-sim/model"
)

// EarthRadiusKm is the mean Earth radius used for all simple geometry
// calculations in the topology layer (kilometres).
const EarthRadiusKm = 6371.0

// SpeedOfLightKmPerMs is the propagation speed used to turn link distance
// into delay.
const SpeedOfLightKmPerMs = 299792.458

// Distance returns the straight-line distance between two positions in
// kilometres.
func Distance(a, b model.Position) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// PropagationDelayMs returns the free-space propagation delay between two
// positions in milliseconds.
func PropagationDelayMs(a, b model.Position) float64 {
	return Distance(a, b) / SpeedOfLightKmPerMs
}

// LatLonToECEF converts geodetic latitude/longitude (degrees) at the given
// altitude (km) into an ECEF position on a spherical Earth.
func LatLonToECEF(latDeg, lonDeg, altitudeKm float64) model.Position {
	radius := EarthRadiusKm + altitudeKm
	lat := latDeg * math.Pi / 180
	lon := lonDeg * math.Pi / 180
	return model.Position{
		X: radius * math.Cos(lat) * math.Cos(lon),
		Y: radius * math.Cos(lat) * math.Sin(lon),
		Z: radius * math.Sin(lat),
	}
}

// HasLineOfSight checks whether the straight segment between p1 and p2
// intersects the Earth sphere. If it does, the Earth blocks the
// line-of-sight and the function returns false.
func HasLineOfSight(p1, p2 model.Position) bool {
	v := sub(p2, p1)
	a := dot(v, v)
	if a == 0 {
		// Degenerate case: same point. Outside Earth counts as LoS.
		return dot(p1, p1) > EarthRadiusKm*EarthRadiusKm
	}

	// Closest point on the segment to the Earth's centre (origin):
	// t* minimises |p1 + t v|^2 over t, clamped to the segment.
	t := -dot(p1, v) / a
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	closest := model.Position{
		X: p1.X + v.X*t,
		Y: p1.Y + v.Y*t,
		Z: p1.Z + v.Z*t,
	}
	return dot(closest, closest) > EarthRadiusKm*EarthRadiusKm
}

// ElevationDegrees returns the elevation angle of the target as seen from
// the observer, in degrees. 0° = geometric horizon, 90° = overhead.
func ElevationDegrees(observer, target model.Position) float64 {
	v := sub(target, observer)
	vNorm := norm(v)
	oNorm := norm(observer)
	if vNorm == 0 || oNorm == 0 {
		return 90
	}

	cos := dot(v, observer) / (vNorm * oNorm)
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	// Angle between the local vertical and the target, flipped to an
	// elevation above the horizon plane.
	return 90 - math.Acos(cos)*180/math.Pi
}

func sub(a, b model.Position) model.Position {
	return model.Position{X: a.X - b.X, Y: a.Y - b.Y, Z: a.Z - b.Z}
}

func dot(a, b model.Position) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

func norm(a model.Position) float64 {
	return math.Sqrt(dot(a, a))
}
