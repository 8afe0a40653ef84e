package propagator

import "math"

// GravityModel selects which set of Earth gravity constants a Record uses
// during initialization. WGS72Legacy reproduces the truncated values from
// the original 1980 Spacetrack Report #3 FORTRAN; WGS72 and WGS84 supply
// the higher-precision values used by the SGP4-R reference path.
type GravityModel int

const (
	WGS72Legacy GravityModel = iota
	WGS72
	WGS84
)

// String implements fmt.Stringer.
func (g GravityModel) String() string {
	switch g {
	case WGS72Legacy:
		return "wgs72-legacy"
	case WGS72:
		return "wgs72"
	case WGS84:
		return "wgs84"
	default:
		return "unknown"
	}
}

// gravityConstants holds the Earth-model constants every propagator kernel
// needs. Distances are in Earth radii, time in minutes: xke is sqrt(GM) in
// that unit system, so tumin = 1/xke is minutes per canonical time unit.
type gravityConstants struct {
	xke    float64
	tumin  float64
	j2     float64
	j3     float64
	j4     float64
	j3oj2  float64
	ck2    float64
	ck4    float64
	xkmper float64
	ae     float64
}

func newGravityConstants(mu, radiusEarthKm, j2, j3, j4 float64) gravityConstants {
	xke := 60.0 / math.Sqrt(radiusEarthKm*radiusEarthKm*radiusEarthKm/mu)
	return gravityConstants{
		xke:    xke,
		tumin:  1.0 / xke,
		j2:     j2,
		j3:     j3,
		j4:     j4,
		j3oj2:  j3 / j2,
		ck2:    0.5 * j2,
		ck4:    -0.375 * j4,
		xkmper: radiusEarthKm,
		ae:     1.0,
	}
}

// gravityFor returns the constant set for the named model. The three sets
// reproduce the values published alongside the reference FORTRAN (wgs72old)
// and the WGS72/WGS84 geodetic models used by the SGP4-R revision.
func gravityFor(m GravityModel) gravityConstants {
	switch m {
	case WGS72:
		return newGravityConstants(398600.8, 6378.135, 0.001082616, -0.00000253881, -0.00000165597)
	case WGS84:
		return newGravityConstants(398600.5, 6378.137, 0.00108262998905, -0.00000253215306, -0.00000161098761)
	default: // WGS72Legacy
		return newGravityConstants(398600.79964, 6378.135, 0.001082616, -0.00000253881, -0.00000165597)
	}
}

const (
	twoPi       = 2 * math.Pi
	deg2rad     = math.Pi / 180.0
	minPerDay   = 1440.0
	secPerDay   = 86400.0
	x2o3        = 2.0 / 3.0
	temp4       = 1.5e-12
	deepSpaceSecondsPerMin = 60.0
)

// fmod2p reduces an angle in radians to [0, 2π).
func fmod2p(x float64) float64 {
	r := math.Mod(x, twoPi)
	if r < 0 {
		r += twoPi
	}
	return r
}
