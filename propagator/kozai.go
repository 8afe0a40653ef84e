package propagator

import "math"

// kozaiRecover recovers the unperturbed (Keplerian) mean motion xnodp and
// semimajor axis aodp from the Brouwer mean motion n0 via the Kozai
// iteration (spec §4.2). n0 and the returned xnodp are in radians/minute;
// aodp is in Earth radii.
func kozaiRecover(n0, ecc, incl float64, g gravityConstants) (aodp, xnodp float64, err error) {
	cosio := math.Cos(incl)
	theta2 := cosio * cosio
	x3thm1 := 3*theta2 - 1
	eosq := ecc * ecc
	betao2 := 1 - eosq
	betao := math.Sqrt(betao2)

	a1 := math.Pow(g.xke/n0, x2o3)
	del1 := 1.5 * g.ck2 * x3thm1 / (a1 * a1 * betao * betao2)
	a0 := a1 * (1 - del1*(1.0/3.0+del1*(1+134.0/81.0*del1)))
	del0 := 1.5 * g.ck2 * x3thm1 / (a0 * a0 * betao * betao2)

	xnodp = n0 / (1 + del0)
	aodp = a0 / (1 - del0)

	if xnodp <= 0 {
		return 0, 0, ErrInvalidElement
	}
	return aodp, xnodp, nil
}
