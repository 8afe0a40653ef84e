package propagator

import "math"

// nearEarthCache holds the constants the SGP4 initialization computes
// (also used by SDP4, SDP8 and SGP4-R; SGP8 has its own sgp8Cache)
// once per Record and reuses on every propagation call (spec §4.3). Named
// per the canonical Spacetrack Report #3 identifiers.
type nearEarthCache struct {
	cosio, sinio           float64
	x3thm1, x1mth2, x7thm1 float64
	eta                    float64
	c1, c3, c4, c5         float64
	omgdot, xnodot, xmdot  float64
	xmcof, xnodcf, omgcof  float64
	t2cof                  float64
	xlcof, aycof           float64
	delmo, sinmo           float64
	isimp                  bool
	d2, d3, d4             float64
	t3cof, t4cof, t5cof    float64
}

// initNearEarth computes the SGP4 initialization block (spec §4.3). It is
// shared by SGP4 and, as its first stage, SDP4.
func (r *Record) initNearEarth() (*nearEarthCache, error) {
	if r.nearCache != nil {
		return r.nearCache, nil
	}
	g := gravityFor(r.Gravity)
	c := new(nearEarthCache)

	eo := r.Eccentricity
	eosq := eo * eo
	betao2 := 1 - eosq
	betao := math.Sqrt(betao2)

	c.cosio = math.Cos(r.Inclination)
	theta2 := c.cosio * c.cosio
	c.x3thm1 = 3*theta2 - 1
	c.x1mth2 = 1 - theta2
	c.x7thm1 = 7*theta2 - 1
	c.sinio = math.Sin(r.Inclination)

	aodp := r.aodp
	xnodp := r.xnodp

	perige := (aodp*(1-eo) - g.ae) * g.xkmper
	c.isimp = perige < 220.0

	// Atmospheric reference parameters, rewritten for low perigee orbits
	// (spec §4.3 "Low-perigee blending").
	s4 := 78.0/g.xkmper + g.ae
	qoms2t := math.Pow((120.0-78.0)/g.xkmper, 4)
	if perige < 156.0 {
		s4km := perige - 78.0
		if perige <= 98.0 {
			s4km = 20.0
		}
		qoms2t = math.Pow((120.0-s4km)/g.xkmper, 4)
		s4 = s4km/g.xkmper + g.ae
	}

	pinvsq := 1.0 / (aodp * aodp * betao2 * betao2)
	tsi := 1.0 / (aodp - s4)
	c.eta = aodp * eo * tsi
	etasq := c.eta * c.eta
	eeta := eo * c.eta
	psisq := math.Abs(1 - etasq)
	coef := qoms2t * math.Pow(tsi, 4)
	coef1 := coef / math.Pow(psisq, 3.5)

	cc2 := coef1 * xnodp * (aodp*(1+1.5*etasq+eeta*(4+etasq)) +
		0.75*g.ck2*tsi/psisq*c.x3thm1*(8+3*etasq*(8+etasq)))
	c.c1 = r.BStar * cc2

	c.c3 = 0
	if eo > 1e-4 {
		c.c3 = -2 * coef * tsi * g.j3oj2 * xnodp * g.ae * c.sinio / eo
	}
	c.omgcof = r.BStar * c.c3 * math.Cos(r.ArgPerigee)

	temp1 := 3 * g.ck2 * pinvsq * xnodp
	temp2 := temp1 * g.ck2 * pinvsq
	temp3 := 1.25 * g.ck4 * pinvsq * pinvsq * xnodp
	c.xmdot = xnodp + 0.5*temp1*betao*c.x3thm1 + 0.0625*temp2*betao*(13-78*theta2+137*theta2*theta2)

	c.omgdot = -0.5*temp1*(1-5*theta2) + 0.0625*temp2*(7-114*theta2+395*theta2*theta2) +
		temp3*(3-36*theta2+49*theta2*theta2)

	xhdot1 := -temp1 * c.cosio
	c.xnodot = xhdot1 + (0.5*temp2*(4-19*theta2)+2*temp3*(3-7*theta2))*c.cosio

	c4v := 2 * xnodp * coef1 * aodp * betao2 * (c.eta*(2+0.5*etasq) + eo*(0.5+2*etasq) -
		2*g.ck2*tsi/(aodp*psisq)*(-3*c.x3thm1*(1-2*eeta+etasq*(1.5-0.5*eeta))+
			0.75*c.x1mth2*(2*etasq-eeta*(1+etasq))*math.Cos(2*r.ArgPerigee)))
	c.c4 = r.BStar * c4v
	c.c5 = 2 * coef1 * aodp * betao2 * (1 + 2.75*(etasq+eeta) + eeta*etasq)

	c.xmcof = 0
	if eo > 1e-4 {
		c.xmcof = -x2o3 * coef * r.BStar * g.ae / eeta
	}
	c.xnodcf = 3.5 * betao2 * xhdot1 * c.c1
	c.t2cof = 1.5 * c.c1

	if math.Abs(c.cosio+1) > 1.5e-12 {
		c.xlcof = -0.25 * g.j3oj2 * c.sinio * (3 + 5*c.cosio) / (1 + c.cosio)
	} else {
		c.xlcof = -0.25 * g.j3oj2 * c.sinio * (3 + 5*c.cosio) / 1.5e-12
	}
	c.aycof = -0.5 * g.j3oj2 * c.sinio

	delmoBase := 1 + c.eta*math.Cos(r.MeanAnomaly)
	c.delmo = delmoBase * delmoBase * delmoBase
	c.sinmo = math.Sin(r.MeanAnomaly)

	if !c.isimp {
		cc1sq := c.c1 * c.c1
		c.d2 = 4 * aodp * tsi * cc1sq
		temp := c.d2 * tsi * c.c1 / 3
		c.d3 = (17*aodp + s4) * temp
		c.d4 = 0.5 * temp * aodp * tsi * (221*aodp + 31*s4) * c.c1 / 3
		c.t3cof = c.d2 + 2*cc1sq
		c.t4cof = 0.25 * (3*c.d3 + c.c1*(12*c.d2+10*cc1sq))
		c.t5cof = 0.2 * (3*c.d4 + 12*c.c1*c.d3 + 6*c.d2*c.d2 + 15*cc1sq*(2*c.d2+cc1sq))
	}

	r.nearCache = c
	return c, nil
}

// nearEarthSecular advances the mean elements through the near-earth
// secular+drag terms (spec §4.3), the stage shared verbatim by SGP4 and,
// as the foundation SDP4 layers its lunisolar corrections onto, SDP4.
func (r *Record) nearEarthSecular(c *nearEarthCache, tsince float64) (a, e, xl, omega, xnode float64) {
	aodp := r.aodp
	eo := r.Eccentricity
	tsq := tsince * tsince

	xmdf := r.MeanAnomaly + c.xmdot*tsince
	omgadf := r.ArgPerigee + c.omgdot*tsince
	xnoddf := r.RAAN + c.xnodot*tsince
	xnode = xnoddf + c.xnodcf*tsq
	tempa := 1 - c.c1*tsince
	templ := c.t2cof * tsq

	omega = omgadf
	xmp := xmdf

	if !c.isimp {
		tcube := tsq * tsince
		tfour := tsince * tcube
		delomg := c.omgcof * tsince
		delm := c.xmcof * (math.Pow(1+c.eta*math.Cos(xmdf), 3) - c.delmo)
		temp := delomg + delm
		xmp = xmdf + temp
		omega = omgadf - temp
		tempa -= c.d2*tsq + c.d3*tcube + c.d4*tfour
		templ += c.t3cof*tcube + tfour*(c.t4cof+tsince*c.t5cof)
	}

	tempe := r.BStar * c.c4 * tsince
	if !c.isimp {
		tempe += r.BStar * c.c5 * (math.Sin(xmp) - c.sinmo)
	}

	a = aodp * tempa * tempa
	e = eo - tempe
	xl = xmp + omega + xnode + r.xnodp*templ
	return
}

// sgp4Kernel runs the shared SGP4 secular+periodic propagation kernel at
// tsince (minutes since epoch) using init constants c. Returns
// position/velocity in Earth radii / radii-per-minute (unscaled); callers
// apply scaleECI.
func (r *Record) sgp4Kernel(c *nearEarthCache, tsince float64) (pos, vel [3]float64, err error) {
	g := gravityFor(r.Gravity)
	a, e, xl, omega, xnode := r.nearEarthSecular(c, tsince)
	return finishKernel(r.Inclination, a, e, omega, xnode, xl, c, g)
}

// finishKernel is the shared Kepler-solve-and-orientation-assembly tail of
// SGP4/SDP4 (spec §4.3 "Orientation vectors"): given the fully time-
// evolved mean elements (secular drag for near-earth, plus lunisolar
// secular/periodic corrections for deep-space), it solves Kepler's
// equation with the bounded Newton step and assembles the ECI state.
func finishKernel(xincl, a, e, omega, xnode, xl float64, c *nearEarthCache, g gravityConstants) (pos, vel [3]float64, err error) {
	if e >= 1 || e < 0 {
		return pos, vel, &PropagationError{Code: SGP4RInstantaneousEccenOutOfRange}
	}

	beta2 := 1 - e*e
	xn := g.xke / math.Pow(a, 1.5)

	axn := e * math.Cos(omega)
	temp := 1.0 / (a * beta2)
	xlcom := temp * c.xlcof * axn
	aynl := temp * c.aycof
	xlt := xl + xlcom
	ayn := e*math.Sin(omega) + aynl

	capu := fmod2p(xlt - xnode)
	epw := capu
	for i := 0; i < 10; i++ {
		sinEPW, cosEPW := math.Sincos(epw)
		f := capu - ayn*cosEPW + axn*sinEPW - epw
		fdot := 1 - axn*cosEPW - ayn*sinEPW
		delEpw := f / fdot
		if math.Abs(delEpw) >= 1.0 {
			if delEpw > 0 {
				delEpw = 1.0
			} else {
				delEpw = -1.0
			}
		}
		epw += delEpw
		if math.Abs(delEpw) < 1e-6 {
			break
		}
	}

	sinEPW, cosEPW := math.Sincos(epw)
	ecose := axn*cosEPW + ayn*sinEPW
	esine := axn*sinEPW - ayn*cosEPW
	elsq := axn*axn + ayn*ayn
	if elsq >= 1 {
		return pos, vel, &PropagationError{Code: SGP4RInstantaneousEccenOutOfRange}
	}
	pl := a * (1 - elsq)
	if pl < 0 {
		return pos, vel, &PropagationError{Code: SGP4RNegativeSemiLatusRectum}
	}
	rk := a * (1 - ecose)
	invr := 1.0 / rk
	rdot := g.xke * math.Sqrt(a) * esine * invr
	rfdot := g.xke * math.Sqrt(pl) * invr

	betal := math.Sqrt(1 - elsq)
	temp2 := esine / (1 + betal)
	cosu := invr * a * (cosEPW - axn + ayn*temp2)
	sinu := invr * a * (sinEPW - ayn - axn*temp2)
	u := math.Atan2(sinu, cosu)
	cos2u := math.Cos(2 * u)
	sin2u := math.Sin(2 * u)

	temp = 1.0 / pl
	temp1 := g.ck2 * temp
	temp2b := temp1 * temp

	rkAdj := rk*(1-1.5*temp2b*betal*c.x3thm1) + 0.5*temp1*c.x1mth2*cos2u
	uk := u - 0.25*temp2b*c.x7thm1*sin2u
	xnodek := xnode + 1.5*temp2b*c.cosio*sin2u
	xinck := xincl + 1.5*temp2b*c.cosio*c.sinio*cos2u
	rdotk := rdot - xn*temp1*c.x1mth2*sin2u
	rfdotk := rfdot + xn*temp1*(c.x1mth2*cos2u+1.5*c.x3thm1)

	sinuk, cosuk := math.Sincos(uk)
	sinik, cosik := math.Sincos(xinck)
	sinnok, cosnok := math.Sincos(xnodek)
	mx := -sinnok * cosik
	my := cosnok * cosik
	ux := mx*sinuk + cosnok*cosuk
	uy := my*sinuk + sinnok*cosuk
	uz := sinik * sinuk
	vx := mx*cosuk - cosnok*sinuk
	vy := my*cosuk - sinnok*sinuk
	vz := sinik * cosuk

	pos = [3]float64{rkAdj * ux, rkAdj * uy, rkAdj * uz}
	vel = [3]float64{
		rdotk*ux + rfdotk*vx,
		rdotk*uy + rfdotk*vy,
		rdotk*uz + rfdotk*vz,
	}
	return pos, vel, nil
}

// sgp4 is the direct-access SGP4 kernel entry point.
func (r *Record) sgp4(tsince float64) (ECI, error) {
	c, err := r.initNearEarth()
	if err != nil {
		return ECI{}, err
	}
	pos, vel, err := r.sgp4Kernel(c, tsince)
	if err != nil {
		return ECI{}, err
	}
	return r.scaleECI(pos, vel), nil
}

func (r *Record) scaleECI(pos, vel [3]float64) ECI {
	g := gravityFor(r.Gravity)
	posScale, velScale := g.outputScale()
	return ECI{
		Position: [3]float64{pos[0] * posScale, pos[1] * posScale, pos[2] * posScale},
		Velocity: [3]float64{vel[0] * velScale, vel[1] * velScale, vel[2] * velScale},
	}
}

// sgp is the original, simpler SGP model (spec §4.3): no isimp/low-perigee
// blending, drag modeled as a single linear-in-time secular term. Its
// velocity output is documented as less accurate than SGP4's (spec §9).
func (r *Record) sgp(tsince float64) (ECI, error) {
	g := gravityFor(r.Gravity)
	aodp := r.aodp
	xnodp := r.xnodp
	eo := r.Eccentricity
	cosio := math.Cos(r.Inclination)
	theta2 := cosio * cosio
	x3thm1 := 3*theta2 - 1
	sinio := math.Sin(r.Inclination)

	betao2 := 1 - eo*eo
	c1 := 1.5 * g.ck2 * x3thm1 / (aodp * aodp * math.Pow(betao2, 1.5))
	c3 := r.BStar * g.ae

	xmdot := xnodp * (1 + c1)
	omgdot := -c1 * xnodp
	xnodot := -2 * c1 * xnodp * cosio

	xmam := r.MeanAnomaly + xmdot*tsince
	omega := r.ArgPerigee + omgdot*tsince
	xnode := r.RAAN + xnodot*tsince
	e := eo - c3*tsince
	a := aodp * (1 - c1*tsince)
	if e >= 1 || e < 0 {
		e = eo
	}

	xl := fmod2p(xmam)
	epw := xl
	for i := 0; i < 10; i++ {
		sinE, cosE := math.Sincos(epw)
		f := epw - e*sinE - xl
		fdot := 1 - e*cosE
		delE := f / fdot
		if math.Abs(delE) >= 1.0 {
			if delE > 0 {
				delE = 1
			} else {
				delE = -1
			}
		}
		epw += delE
		if math.Abs(delE) < 1e-6 {
			break
		}
	}

	sinE, cosE := math.Sincos(epw)
	nu := math.Atan2(math.Sqrt(1-e*e)*sinE, cosE-e)
	rk := a * (1 - e*cosE)
	u := nu + omega

	sinu, cosu := math.Sincos(u)
	sinnode, cosnode := math.Sincos(xnode)
	mx := -sinnode * cosio
	my := cosnode * cosio
	ux := mx*sinu + cosnode*cosu
	uy := my*sinu + sinnode*cosu
	uz := sinio * sinu
	pos := [3]float64{rk * ux, rk * uy, rk * uz}

	xn := g.xke / math.Pow(a, 1.5)
	rdot := xn * a * e * sinE / math.Sqrt(1-e*e)
	rfdot := xn * a * math.Sqrt(1-e*e) / (1 - e*cosE)
	vx := mx*cosu - cosnode*sinu
	vy := my*cosu - sinnode*sinu
	vz := sinio * cosu
	vel := [3]float64{
		rdot*ux + rfdot*vx,
		rdot*uy + rfdot*vy,
		rdot*uz + rfdot*vz,
	}
	return r.scaleECI(pos, vel), nil
}
