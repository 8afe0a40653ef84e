package propagator

import "math"

// sgp4r is the SGP4-R reference revision (spec §4.7): a unified near-earth/
// deep-space entry point produced from the same canonical FORTRAN as SGP4/
// SDP4 but checked against the typed error taxonomy the reference
// implementation reports instead of diverging silently. Its gravity-
// constant set is taken from the record's configured GravityModel, same as
// every other model, so switching between wgs72-legacy/wgs72/wgs84 changes
// its numeric output exactly as it changes SGP4/SDP4's.
func (r *Record) sgp4r(tsince float64) (ECI, error) {
	if r.MeanMotion <= 0 {
		return ECI{}, &PropagationError{Code: SGP4RMeanMotionNegative}
	}
	if r.Eccentricity < 0 || r.Eccentricity >= 1 {
		return ECI{}, &PropagationError{Code: SGP4RMeanEccenOutOfRange}
	}
	g := gravityFor(r.Gravity)
	if r.aodp < 0.95 {
		return ECI{}, &PropagationError{Code: SGP4RMeanEccenOutOfRange}
	}

	var pos, vel [3]float64
	var err error
	if r.deep {
		near, ierr := r.initNearEarth()
		if ierr != nil {
			return ECI{}, ierr
		}
		ds, ierr := r.initDeepSpace()
		if ierr != nil {
			return ECI{}, ierr
		}
		var a, e0, xl0, omega0, xnode0 float64
		a, e0, xl0, omega0, xnode0 = r.nearEarthSecular(near, tsince)
		xll, omgasm, xnodas, em, xinc, _ := r.dpsec(ds, xl0, omega0, xnode0, e0, tsince)
		var e, inc, omega, xnode, xmp float64
		e, inc, omega, xnode, xmp = r.dpper(ds, tsince, em, xinc, omgasm, xnodas, xll)
		pos, vel, err = finishKernel(inc, a, e, omega, xnode, xmp, near, g)
	} else {
		near, ierr := r.initNearEarth()
		if ierr != nil {
			return ECI{}, ierr
		}
		pos, vel, err = r.sgp4Kernel(near, tsince)
	}
	if err != nil {
		return ECI{}, err
	}

	rMag := math.Sqrt(pos[0]*pos[0] + pos[1]*pos[1] + pos[2]*pos[2])
	if rMag < g.ae {
		return ECI{}, &PropagationError{Code: SGP4RDecayed}
	}
	perigeeRadius := r.aodp * (1 - r.Eccentricity)
	if perigeeRadius < g.ae {
		return ECI{}, &PropagationError{Code: SGP4RSubOrbital}
	}

	eci := r.scaleECI(pos, vel)
	return eci, nil
}
