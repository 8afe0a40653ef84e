// Package propagator implements the NORAD SGP/SGP4/SGP8/SDP4/SDP8 family
// of analytic orbital propagators from "Spacetrack Report No. 3," plus the
// SGP4-R reference revision from "Revisiting Spacetrack Report #3." Given a
// parsed two-line element (TLE) set and an absolute time, it produces an
// Earth-Centered Inertial (ECI) position and velocity.
//
// A Record holds the immutable mean elements of one satellite plus derived,
// lazily-computed state: per-model initialization constants and, for
// deep-space orbits, the resonance integrator. Mutating a mean element
// through its setter invalidates every cache; nothing is recomputed until
// the next propagation.
package propagator

import (
	"time"
)

// Model names the propagator variant a Record is configured to use.
type Model int

const (
	// ModelAuto4 selects SGP4 or SDP4 by regime (the "model" entry point;
	// model4 is identical and is the recommended stable name).
	ModelAuto4 Model = iota
	ModelAuto8
	ModelSGP
	ModelSGP4
	ModelSGP8
	ModelSDP4
	ModelSDP8
	ModelSGP4R
)

func (m Model) String() string {
	switch m {
	case ModelAuto4:
		return "model"
	case ModelAuto8:
		return "model8"
	case ModelSGP:
		return "sgp"
	case ModelSGP4:
		return "sgp4"
	case ModelSGP8:
		return "sgp8"
	case ModelSDP4:
		return "sdp4"
	case ModelSDP8:
		return "sdp8"
	case ModelSGP4R:
		return "sgp4r"
	default:
		return "unknown"
	}
}

// Record is one satellite's mean element set plus derived state. Angles
// are stored in radians, mean motion and its derivatives in radians per
// minute (and per minute², per minute³).
type Record struct {
	// Identity.
	CatalogID       int
	IntlDesignator  string
	Name            string
	ElementSetNum   int
	Classification  byte
	RevAtEpoch      int
	EphemerisType   int

	// Epoch.
	EpochTime time.Time

	// Mean elements (radians, radians/minute, unitless eccentricity).
	Inclination   float64
	RAAN          float64
	Eccentricity  float64
	ArgPerigee    float64
	MeanAnomaly   float64
	MeanMotion    float64
	FirstDeriv    float64
	SecondDeriv   float64
	BStar         float64

	// Configuration.
	SelectedModel Model
	Gravity       GravityModel
	Debug         bool

	// OnTimeSet installs the coordinate layer's time_set hook (spec §4.5,
	// §9): called with the freshly computed ECI state after every
	// successful propagation, unless propagation is itself in progress.
	OnTimeSet onTimeSet

	originalText string // raw TLE, for round-tripping via Text()

	// Derived/cached, invalidated by any setter.
	ready      bool
	ds50       float64 // days since 1950 Jan 0, 0h UT
	period     time.Duration
	deep       bool
	aodp, xnodp float64 // recovered semimajor axis, mean motion

	nearCache *nearEarthCache
	deepCache *deepSpaceCache

	noSet bool // reentrancy guard for OnTimeSet (spec §4.5)

	// LastECI is the ECI state installed by the most recent successful
	// propagation (spec §4.6: "assigns the ECI triple to the coordinate
	// object"). Undefined until the first successful Model/SGP.../SDP...
	// call.
	LastECI ECI

	// ModelError is the (code, message) pair the most recent propagation
	// attached to this record (spec §4.7: "errors are attached to the
	// record as model_error... and may be returned to the caller"). Set on
	// any propagation call whose failure carries a PropagationError, and
	// cleared to nil by the next successful one.
	ModelError *PropagationError
}

// Text returns the original TLE text this Record was parsed from, enabling
// round-tripping (spec §6: "tle is read-only").
func (r *Record) Text() string { return r.originalText }

// invalidate drops every derived cache. Called by every setter.
func (r *Record) invalidate() {
	r.ready = false
	r.nearCache = nil
	r.deepCache = nil
}

// Set<Attribute> setters. Each invalidates caches per spec §6.

func (r *Record) SetInclination(v float64) { r.Inclination = v; r.invalidate() }
func (r *Record) SetRAAN(v float64)         { r.RAAN = v; r.invalidate() }
func (r *Record) SetEccentricity(v float64) { r.Eccentricity = v; r.invalidate() }
func (r *Record) SetArgPerigee(v float64)   { r.ArgPerigee = v; r.invalidate() }
func (r *Record) SetMeanAnomaly(v float64)  { r.MeanAnomaly = v; r.invalidate() }
func (r *Record) SetMeanMotion(v float64)   { r.MeanMotion = v; r.invalidate() }
func (r *Record) SetFirstDeriv(v float64)   { r.FirstDeriv = v; r.invalidate() }
func (r *Record) SetSecondDeriv(v float64)  { r.SecondDeriv = v; r.invalidate() }
func (r *Record) SetBStar(v float64)        { r.BStar = v; r.invalidate() }
func (r *Record) SetGravity(g GravityModel) { r.Gravity = g; r.invalidate() }

// SetEpoch updates the epoch and refreshes ds50, per spec §6.
func (r *Record) SetEpoch(t time.Time) {
	r.EpochTime = t
	r.ds50 = daysSince1950(t)
	r.invalidate()
}

// SetModel validates and installs the named model.
func (r *Record) SetModel(name string) error {
	m, ok := parseModelName(name)
	if !ok {
		return ErrUnknownModel
	}
	r.SelectedModel = m
	return nil
}

func parseModelName(name string) (Model, bool) {
	switch name {
	case "model":
		return ModelAuto4, true
	case "model4":
		return ModelAuto4, true
	case "model8":
		return ModelAuto8, true
	case "sgp":
		return ModelSGP, true
	case "sgp4":
		return ModelSGP4, true
	case "sgp8":
		return ModelSGP8, true
	case "sdp4":
		return ModelSDP4, true
	case "sdp8":
		return ModelSDP8, true
	case "sgp4r":
		return ModelSGP4R, true
	default:
		return 0, false
	}
}

// ensureReady recovers the unperturbed mean motion/semimajor axis and
// classifies the regime (spec §4.2), if not already cached.
func (r *Record) ensureReady() error {
	if r.ready {
		return nil
	}
	if r.Eccentricity < 0 || r.Eccentricity >= 1 {
		return ErrInvalidElement
	}
	g := gravityFor(r.Gravity)
	aodp, xnodp, err := kozaiRecover(r.MeanMotion, r.Eccentricity, r.Inclination, g)
	if err != nil {
		return err
	}
	r.aodp, r.xnodp = aodp, xnodp

	periodMin := twoPi / xnodp
	r.period = time.Duration(periodMin * 60 * float64(time.Second))
	r.deep = periodMin*60 >= 13500 // spec §2, §4.2: deep space iff period >= 225 min
	r.ready = true
	return nil
}

// IsDeep reports whether this record's orbital period classifies it as
// deep-space (>= 225 minutes).
func (r *Record) IsDeep() (bool, error) {
	if err := r.ensureReady(); err != nil {
		return false, err
	}
	return r.deep, nil
}

// Period returns the recovered orbital period.
func (r *Record) Period() (time.Duration, error) {
	if err := r.ensureReady(); err != nil {
		return 0, err
	}
	return r.period, nil
}

// Model propagates using the dispatcher (spec §4.5): model/model4 route by
// regime to SGP4/SDP4; model8 routes to SGP8/SDP8. It mutates the record's
// ECI state via OnTimeSet and returns the same record for chaining, as the
// language-neutral spec describes.
func (r *Record) Model(t time.Time) (*Record, error) {
	if err := r.ensureReady(); err != nil {
		return r, err
	}
	tsince := r.tsinceMinutes(t)
	var eci ECI
	var err error
	switch r.SelectedModel {
	case ModelAuto8:
		if r.deep {
			eci, err = r.sdp8(tsince)
		} else {
			eci, err = r.sgp8(tsince)
		}
	case ModelSGP4R:
		eci, err = r.sgp4r(tsince)
	default: // ModelAuto4 and any direct model selection routed through Model()
		if r.deep {
			eci, err = r.sdp4(tsince)
		} else {
			eci, err = r.sgp4(tsince)
		}
	}
	if err != nil {
		r.recordModelError(err)
		return r, err
	}
	eci.Time = t
	r.installECI(eci)
	return r, nil
}

// SGP, SGP4, SGP8, SDP4, SDP8, SGP4R are the direct-access variants (spec
// §6): each fails with ErrRegimeMismatch if the record's regime doesn't
// match the requested model.

func (r *Record) SGP(t time.Time) (ECI, error) {
	if err := r.ensureReady(); err != nil {
		return ECI{}, err
	}
	if r.deep {
		return ECI{}, ErrRegimeMismatch
	}
	eci, err := r.sgp(r.tsinceMinutes(t))
	if err == nil {
		eci.Time = t
		r.installECI(eci)
	} else {
		r.recordModelError(err)
	}
	return eci, err
}

func (r *Record) SGP4(t time.Time) (ECI, error) {
	if err := r.ensureReady(); err != nil {
		return ECI{}, err
	}
	if r.deep {
		return ECI{}, ErrRegimeMismatch
	}
	eci, err := r.sgp4(r.tsinceMinutes(t))
	if err == nil {
		eci.Time = t
		r.installECI(eci)
	} else {
		r.recordModelError(err)
	}
	return eci, err
}

func (r *Record) SGP8(t time.Time) (ECI, error) {
	if err := r.ensureReady(); err != nil {
		return ECI{}, err
	}
	if r.deep {
		return ECI{}, ErrRegimeMismatch
	}
	eci, err := r.sgp8(r.tsinceMinutes(t))
	if err == nil {
		eci.Time = t
		r.installECI(eci)
	} else {
		r.recordModelError(err)
	}
	return eci, err
}

func (r *Record) SDP4(t time.Time) (ECI, error) {
	if err := r.ensureReady(); err != nil {
		return ECI{}, err
	}
	if !r.deep {
		return ECI{}, ErrRegimeMismatch
	}
	eci, err := r.sdp4(r.tsinceMinutes(t))
	if err == nil {
		eci.Time = t
		r.installECI(eci)
	} else {
		r.recordModelError(err)
	}
	return eci, err
}

func (r *Record) SDP8(t time.Time) (ECI, error) {
	if err := r.ensureReady(); err != nil {
		return ECI{}, err
	}
	if !r.deep {
		return ECI{}, ErrRegimeMismatch
	}
	eci, err := r.sdp8(r.tsinceMinutes(t))
	if err == nil {
		eci.Time = t
		r.installECI(eci)
	} else {
		r.recordModelError(err)
	}
	return eci, err
}

func (r *Record) SGP4R(t time.Time) (ECI, error) {
	if err := r.ensureReady(); err != nil {
		return ECI{}, err
	}
	eci, err := r.sgp4r(r.tsinceMinutes(t))
	if err == nil {
		eci.Time = t
		r.installECI(eci)
	} else {
		r.recordModelError(err)
	}
	return eci, err
}

// installECI sets the reentrancy guard, then invokes OnTimeSet (spec
// §4.5, §4.6, §9): "Sets the no_set guard, installs the universal time,
// then assigns the ECI triple to the coordinate object."
func (r *Record) installECI(eci ECI) {
	r.LastECI = eci
	r.ModelError = nil
	if r.noSet || r.OnTimeSet == nil {
		return
	}
	r.noSet = true
	defer func() { r.noSet = false }()
	r.OnTimeSet(eci)
}

// recordModelError attaches err to the record as ModelError (spec §4.7) if
// it is the kind of (code, message) failure the kernels raise, leaving any
// prior ModelError untouched otherwise (e.g. ErrRegimeMismatch, which
// reflects a caller contract violation rather than an in-flight
// propagation failure).
func (r *Record) recordModelError(err error) {
	if pe, ok := err.(*PropagationError); ok {
		r.ModelError = pe
	}
}

// tsinceMinutes returns the elapsed time from epoch to t, in minutes.
func (r *Record) tsinceMinutes(t time.Time) float64 {
	return t.Sub(r.EpochTime).Minutes()
}

// daysSince1950 computes ds50: days since 1950 January 0, 0h UT.
func daysSince1950(t time.Time) float64 {
	epoch := time.Date(1949, time.December, 31, 0, 0, 0, 0, time.UTC)
	return t.Sub(epoch).Hours() / 24.0
}
