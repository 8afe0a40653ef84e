package propagator

import (
	"math"
	"testing"
	"time"
)

// SGP4-R reports a typed, non-positive mean motion distinctly from the
// generic eccentricity-range error (spec §4.7).
func TestSGP4R_MeanMotionNegative(t *testing.T) {
	r := mustParseOne(t, seedLine1, seedLine2)
	r.SetMeanMotion(-0.001)

	_, err := r.SGP4R(r.EpochTime)
	pe, ok := err.(*PropagationError)
	if !ok {
		t.Fatalf("err = %v (%T), want *PropagationError", err, err)
	}
	if pe.Code != SGP4RMeanMotionNegative {
		t.Errorf("Code = %v, want SGP4RMeanMotionNegative", pe.Code)
	}
}

// A valid eccentricity (< 1) whose recovered semi-major axis falls below
// 0.95 Earth radii (about 0.915 with e = 0.99) trips the mean
// eccentricity/semi-major-axis-out-of-range code (spec §4.7), distinct from
// the parse-time/ensureReady validation of the raw eccentricity field.
func TestSGP4R_MeanEccenOutOfRange(t *testing.T) {
	r := mustParseOne(t, seedLine1, seedLine2)
	r.SetEccentricity(0.99)

	_, err := r.SGP4R(r.EpochTime)
	pe, ok := err.(*PropagationError)
	if !ok {
		t.Fatalf("err = %v (%T), want *PropagationError", err, err)
	}
	if pe.Code != SGP4RMeanEccenOutOfRange {
		t.Errorf("Code = %v, want SGP4RMeanEccenOutOfRange", pe.Code)
	}
}

// Spec §8 scenario 5: an element with a grossly inflated drag term decays
// (or otherwise leaves the valid element range) well before the requested
// propagation time, and SGP4R must surface the typed error rather than a
// silently garbage state vector.
func TestSGP4R_DecayingElementReportsTypedError(t *testing.T) {
	r := mustParseOne(t, seedLine1, seedLine2)
	r.SetBStar(r.BStar * 1000)

	eci, err := r.SGP4R(r.EpochTime.Add(1440 * time.Minute))
	if err == nil {
		mag := math.Sqrt(eci.Position[0]*eci.Position[0] + eci.Position[1]*eci.Position[1] + eci.Position[2]*eci.Position[2])
		t.Fatalf("expected a typed SGP4-R error from the inflated drag term, got a clean propagation (|r| = %.1f km)", mag)
	}
	pe, ok := err.(*PropagationError)
	if !ok {
		t.Fatalf("err = %v (%T), want *PropagationError", err, err)
	}
	switch pe.Code {
	case SGP4RInstantaneousEccenOutOfRange, SGP4RNegativeSemiLatusRectum, SGP4RSubOrbital, SGP4RDecayed:
		// any of these are valid consequences of a runaway drag term
	default:
		t.Errorf("Code = %v, want one of InstantaneousEccenOutOfRange/NegativeSemiLatusRectum/SubOrbital/Decayed", pe.Code)
	}
}

// A failed propagation attaches its PropagationError to the record as
// ModelError (spec §4.7/§9's model_error), not just to the call's err
// return, and a subsequent successful propagation clears it.
func TestSGP4R_ModelErrorAttachedToRecord(t *testing.T) {
	r := mustParseOne(t, seedLine1, seedLine2)
	r.SetMeanMotion(-0.001)

	_, err := r.SGP4R(r.EpochTime)
	pe, ok := err.(*PropagationError)
	if !ok {
		t.Fatalf("err = %v (%T), want *PropagationError", err, err)
	}
	if r.ModelError != pe {
		t.Errorf("r.ModelError = %v, want the same *PropagationError returned to the caller (%v)", r.ModelError, pe)
	}

	r.SetMeanMotion(seedMeanMotion(t))
	if _, err := r.SGP4R(r.EpochTime); err != nil {
		t.Fatalf("SGP4R after clearing the bad mean motion: %v", err)
	}
	if r.ModelError != nil {
		t.Errorf("r.ModelError = %v after a successful propagation, want nil", r.ModelError)
	}
}

// seedMeanMotion returns the seed element's original mean motion, for tests
// that need to restore it after an intentionally invalid SetMeanMotion.
func seedMeanMotion(t *testing.T) float64 {
	t.Helper()
	return mustParseOne(t, seedLine1, seedLine2).MeanMotion
}

// The numeric SGP4-R error codes and their messages match the documented
// reference taxonomy (spec §4.7), independent of which path produces them.
func TestSGP4RErrorCode_Strings(t *testing.T) {
	cases := []struct {
		code SGP4RErrorCode
		want string
	}{
		{SGP4ROK, "ok"},
		{SGP4RMeanEccenOutOfRange, "mean eccentricity or semi-major axis out of range"},
		{SGP4RMeanMotionNegative, "mean motion less than zero"},
		{SGP4RInstantaneousEccenOutOfRange, "instantaneous eccentricity out of range"},
		{SGP4RNegativeSemiLatusRectum, "semi-latus rectum < 0"},
		{SGP4RSubOrbital, "satellite has decayed below the earth's surface (suborbital)"},
		{SGP4RDecayed, "satellite has decayed"},
	}
	for _, c := range cases {
		if got := c.code.String(); got != c.want {
			t.Errorf("code %d: String() = %q, want %q", c.code, got, c.want)
		}
	}
	if SGP4RInstantaneousEccenOutOfRange != 3 {
		t.Errorf("SGP4RInstantaneousEccenOutOfRange = %d, want 3 (matching the reference taxonomy's numeric code)", SGP4RInstantaneousEccenOutOfRange)
	}
}

// Gravity-model selection changes SGP4-R's numeric output exactly as it
// changes SGP4's, since both route through the same near-earth kernel
// parameterized by the record's configured GravityModel.
func TestSGP4R_GravityModelSwitchesOutput(t *testing.T) {
	r1 := mustParseOne(t, seedLine1, seedLine2)
	r1.SetModel("sgp4r")
	r1.SetGravity(WGS72Legacy)
	e1, err := r1.SGP4R(r1.EpochTime)
	if err != nil {
		t.Fatalf("SGP4R (wgs72legacy): %v", err)
	}

	r2 := mustParseOne(t, seedLine1, seedLine2)
	r2.SetModel("sgp4r")
	r2.SetGravity(WGS84)
	e2, err := r2.SGP4R(r2.EpochTime)
	if err != nil {
		t.Fatalf("SGP4R (wgs84): %v", err)
	}

	if e1.Position == e2.Position {
		t.Error("switching gravity model produced identical output, want a (small) numeric difference")
	}
}
