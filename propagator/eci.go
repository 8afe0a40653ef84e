package propagator

import "time"

// ECI is an Earth-Centered Inertial Cartesian state: position in km,
// velocity in km/s, true equator and equinox of date, at an absolute
// universal time.
type ECI struct {
	Position [3]float64
	Velocity [3]float64
	Time     time.Time
}

// onTimeSet mirrors the reference implementation's dynamic-dispatch hook:
// the coordinate layer that owns a Record registers this callback to be
// notified whenever a propagation installs a fresh ECI state, so it can
// recompute downstream (geodetic, topocentric) quantities. The noSet guard
// prevents the hook's own code from re-entering propagation.
type onTimeSet func(ECI)

// outputScale converts the internal Earth-radii / radii-per-minute result
// of a propagation kernel into the km / km-per-second ECI the rest of
// goeph consumes (spec §4.6): position by xkmper/ae, velocity by that same
// factor times minutes-per-day/seconds-per-day.
func (g gravityConstants) outputScale() (posKm, velKmS float64) {
	posKm = g.xkmper / g.ae
	velKmS = posKm * (minPerDay / secPerDay)
	return
}
