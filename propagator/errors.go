package propagator

import (
	"strconv"

	"github.com/pkg/errors"
)

// ParseError reports a malformed TLE: a missing or malformed line marker,
// mismatched catalog IDs between lines 1 and 2, an unsupported "G" internal
// format, or a field that fails to decode as its expected numeric type.
type ParseError struct {
	Line   int // 1 or 2; 0 if the problem spans both lines
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return "tle parse error: " + e.Reason
	}
	return "tle parse error (line " + strconv.Itoa(e.Line) + "): " + e.Reason
}

// ErrRegimeMismatch is returned when SGP/SGP4/SGP8 is called on a
// deep-space record, or SDP4/SDP8 is called on a near-earth record.
var ErrRegimeMismatch = errors.New("propagator: model not valid for this orbital regime")

// ErrInvalidElement is returned when eccentricity lies outside [0, 1) or,
// under SGP4-R, when mean motion is non-positive.
var ErrInvalidElement = errors.New("propagator: invalid mean element")

// ErrUnknownModel is returned by SetModel for an unrecognized
// model name.
var ErrUnknownModel = errors.New("propagator: unknown model name")

// SGP4RErrorCode is the numeric error code SGP4-R attaches to a failed
// propagation, matching the reference implementation's six-value taxonomy.
type SGP4RErrorCode int

const (
	// SGP4ROK indicates the propagation succeeded.
	SGP4ROK SGP4RErrorCode = iota
	// SGP4RMeanEccenOutOfRange indicates recovered semi-major axis < 0.95
	// earth radii, or mean eccentricity outside [0, 1).
	SGP4RMeanEccenOutOfRange
	// SGP4RMeanMotionNegative indicates mean motion went non-positive.
	SGP4RMeanMotionNegative
	// SGP4RInstantaneousEccenOutOfRange indicates the instantaneous
	// eccentricity at tsince left [0, 1) (elsq >= 1 counts as this kind).
	SGP4RInstantaneousEccenOutOfRange
	// SGP4RNegativeSemiLatusRectum indicates the semi-latus rectum p went
	// negative.
	SGP4RNegativeSemiLatusRectum
	// SGP4RSubOrbital indicates the computed perigee radius fell below
	// the Earth's surface.
	SGP4RSubOrbital
	// SGP4RDecayed indicates the orbit decayed (radius below one Earth
	// radius at the requested time).
	SGP4RDecayed
)

// String gives the documented message for each SGP4-R error code.
func (c SGP4RErrorCode) String() string {
	switch c {
	case SGP4ROK:
		return "ok"
	case SGP4RMeanEccenOutOfRange:
		return "mean eccentricity or semi-major axis out of range"
	case SGP4RMeanMotionNegative:
		return "mean motion less than zero"
	case SGP4RInstantaneousEccenOutOfRange:
		return "instantaneous eccentricity out of range"
	case SGP4RNegativeSemiLatusRectum:
		return "semi-latus rectum < 0"
	case SGP4RSubOrbital:
		return "satellite has decayed below the earth's surface (suborbital)"
	case SGP4RDecayed:
		return "satellite has decayed"
	default:
		return "unknown sgp4-r error"
	}
}

// PropagationError is the (code, message) pair SGP4-R attaches to a record
// after a failed propagation (the spec's "model_error" dual value).
type PropagationError struct {
	Code SGP4RErrorCode
}

func (e *PropagationError) Error() string {
	return "sgp4-r: " + e.Code.String()
}
