package satellite

import (
	"math"
	"time"

	"github.com/orbitcore/goeph/coord"
	"github.com/orbitcore/goeph/propagator"
	"github.com/orbitcore/goeph/search"
	"github.com/orbitcore/goeph/timescale"
)

// Sat holds a named satellite for propagation. Sat owns the propagator
// Record directly (spec §4.5/§6): Model/SGP4/SDP4 mutate its ECI state in
// place, so every helper below reads through the same record rather than
// wrapping a second propagation library.
type Sat struct {
	Name string
	Sat  *propagator.Record
}

// NewSat creates a Sat from TLE lines, defaulting to the WGS84 gravity
// constants the SGP4-R revision favors (spec §4.7); classical SGP4/SDP4
// give numerically close but not bit-identical results under WGS72-legacy.
func NewSat(name, line1, line2 string) Sat {
	recs, err := propagator.Parse(name + "\n" + line1 + "\n" + line2)
	if err != nil || len(recs) == 0 {
		return Sat{Name: name}
	}
	rec := recs[0]
	rec.SetGravity(propagator.WGS84)
	return Sat{Name: name, Sat: rec}
}

// SubPoint returns the sub-satellite point (geographic lat/lon in degrees)
// at t, propagating with the record's dispatcher (model/model4: SGP4 or
// SDP4 by regime). The TEME position is rotated to Earth-fixed coordinates
// by Greenwich mean sidereal time (TEME lacks the equation of equinoxes
// that separates GMST from GAST) before reading off geodetic lat/lon.
func SubPoint(s *propagator.Record, t time.Time) (latDeg, lonDeg float64) {
	rec, err := s.Model(t)
	if err != nil {
		return math.NaN(), math.NaN()
	}
	pos := rec.LastECI.Position

	jdUT1 := timescale.TTToUT1(timescale.UTCToTT(timescale.TimeToJDUTC(t)))
	gmst := coord.GMST(jdUT1)
	sinG, cosG := math.Sincos(gmst)
	xECEF := cosG*pos[0] + sinG*pos[1]
	yECEF := -sinG*pos[0] + cosG*pos[1]
	zECEF := pos[2]

	latDeg, lonDeg, _ = coord.ITRFToGeodetic(xECEF, yECEF, zECEF)
	lonDeg = math.Mod(lonDeg+360.0, 360.0)
	return latDeg, lonDeg
}

// TEMEToICRF converts a TEME (True Equator, Mean Equinox) position vector
// from SGP4 propagation to ICRF/GCRS coordinates.
//
// posKmTEME is the satellite position in km from SGP4 (TEME frame).
// jdUT1 is the UT1 Julian date (used for Earth rotation via GAST).
//
// The TEME frame is the output frame of SGP4. It uses the true equator of
// date but a "mean" equinox that differs from the classical mean equinox
// by the equation of the equinoxes. The conversion chain is:
//
//	TEME → equator of date (via equation of equinoxes rotation)
//	     → mean equator of date (via nutation^-1)
//	     → ICRF/J2000 (via precession^-1)
//
// This matches Skyfield's TEME→GCRS conversion for SGP4 satellite positions.
func TEMEToICRF(posKmTEME [3]float64, jdUT1 float64) [3]float64 {
	return coord.TEMEToICRF(posKmTEME, jdUT1)
}

// Event kinds returned by FindEvents.
const (
	Rise        = 0 // Satellite rises above the altitude threshold
	Culmination = 1 // Satellite reaches maximum altitude during a pass
	Set         = 2 // Satellite sets below the altitude threshold
)

// SatEvent represents a satellite pass event (rise, culmination, or set).
type SatEvent struct {
	T      float64 // TT Julian date of the event
	Kind   int     // Rise=0, Culmination=1, Set=2
	AltDeg float64 // Altitude in degrees at the event time
}

// FindEvents finds satellite rise, culmination, and set events as seen from a
// ground observer in the given TT Julian date range.
//
// latDeg, lonDeg: observer geodetic latitude and longitude in degrees.
// minAltDeg: minimum altitude threshold in degrees (typically 0).
//
// Returns events sorted by time. Each visible pass produces up to three events:
// Rise (satellite crosses above threshold), Culmination (maximum altitude),
// and Set (satellite crosses below threshold).
func FindEvents(sat Sat, latDeg, lonDeg, startJD, endJD, minAltDeg float64) ([]SatEvent, error) {
	// Step size ~1 minute. LEO orbital period ~90 min, shortest visible pass ~2 min.
	const stepDays = 1.0 / 1440.0 // 1 minute

	altFunc := satAltitudeFunc(sat, latDeg, lonDeg)

	// Find rise/set transitions using discrete search.
	discreteFunc := func(ttJD float64) int {
		if altFunc(ttJD) >= minAltDeg {
			return 1
		}
		return 0
	}
	transitions, err := search.FindDiscrete(startJD, endJD, stepDays, discreteFunc, 0)
	if err != nil {
		return nil, err
	}

	// Group transitions into passes and find culminations.
	var events []SatEvent
	for i := 0; i < len(transitions); i++ {
		e := transitions[i]
		if e.NewValue == 1 {
			// Rise event.
			riseT := e.T
			events = append(events, SatEvent{T: riseT, Kind: Rise, AltDeg: altFunc(riseT)})

			// Look for the matching set event.
			setT := endJD
			if i+1 < len(transitions) && transitions[i+1].NewValue == 0 {
				setT = transitions[i+1].T
				i++ // consume the set event

				// Find culmination between rise and set.
				maxima, err := search.FindMaxima(riseT, setT, stepDays, altFunc, 0)
				if err == nil && len(maxima) > 0 {
					// Use the highest maximum.
					best := maxima[0]
					for _, m := range maxima[1:] {
						if m.Value > best.Value {
							best = m
						}
					}
					events = append(events, SatEvent{T: best.T, Kind: Culmination, AltDeg: best.Value})
				}

				events = append(events, SatEvent{T: setT, Kind: Set, AltDeg: altFunc(setT)})
			}
		}
	}

	return events, nil
}

// satAltitudeFunc returns a function that computes the satellite's altitude
// in degrees as seen from the given ground observer at a TT Julian date.
func satAltitudeFunc(sat Sat, latDeg, lonDeg float64) func(float64) float64 {
	return func(ttJD float64) float64 {
		jdUT1 := timescale.TTToUT1(ttJD)

		// Convert JD to calendar for propagation.
		y, mo, d, h, mi, s := jdToCalendar(jdUT1)
		propT := time.Date(y, time.Month(mo), d, h, mi, s, 0, time.UTC)
		rec, err := sat.Sat.Model(propT)
		if err != nil {
			return math.Inf(-1)
		}

		// SGP4/SDP4 position is in km, TEME frame. Convert to ICRF.
		satICRF := coord.TEMEToICRF(rec.LastECI.Position, jdUT1)

		// Observer position in ICRF (km).
		ox, oy, oz := coord.GeodeticToICRF(latDeg, lonDeg, jdUT1)

		// Topocentric vector in ICRF.
		topoICRF := [3]float64{
			satICRF[0] - ox,
			satICRF[1] - oy,
			satICRF[2] - oz,
		}

		alt, _, _ := coord.Altaz(topoICRF, latDeg, lonDeg, jdUT1)
		return alt
	}
}

// jdToCalendar converts a Julian date to calendar components.
func jdToCalendar(jd float64) (year, month, day, hour, min, sec int) {
	// Standard JD to calendar algorithm (Meeus, Astronomical Algorithms).
	jd += 0.5
	z := math.Floor(jd)
	f := jd - z

	var a float64
	if z < 2299161 {
		a = z
	} else {
		alpha := math.Floor((z - 1867216.25) / 36524.25)
		a = z + 1 + alpha - math.Floor(alpha/4)
	}

	b := a + 1524
	c := math.Floor((b - 122.1) / 365.25)
	d := math.Floor(365.25 * c)
	e := math.Floor((b - d) / 30.6001)

	dayFrac := b - d - math.Floor(30.6001*e) + f
	day = int(dayFrac)
	fracDay := dayFrac - float64(day)

	if e < 14 {
		month = int(e) - 1
	} else {
		month = int(e) - 13
	}
	if month > 2 {
		year = int(c) - 4716
	} else {
		year = int(c) - 4715
	}

	totalSec := fracDay * 86400.0
	hour = int(totalSec / 3600.0)
	totalSec -= float64(hour) * 3600.0
	min = int(totalSec / 60.0)
	sec = int(totalSec - float64(min)*60.0)

	return
}
