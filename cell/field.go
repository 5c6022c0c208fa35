package cell

import (
	"math"
	"math/cmplx"
)

// ElectricField returns the field at (x, y, z) in V/cm. A status of
// StatusOK means the point lies in the active gas volume; positive
// statuses identify the wire containing the point.
func (c *Cell) ElectricField(x, y, z float64) (ex, ey, ez float64, status int) {
	ex, ey, ez, _, status = c.field(x, y, z, false)
	return ex, ey, ez, status
}

// ElectricFieldWithPotential returns the field and the potential at
// (x, y, z). For points inside a wire or behind a plane the potential
// of that electrode is returned.
func (c *Cell) ElectricFieldWithPotential(x, y, z float64) (ex, ey, ez, volt float64, status int) {
	return c.field(x, y, z, true)
}

func (c *Cell) field(xin, yin, zin float64, opt bool) (ex, ey, ez, volt float64, status int) {
	if !c.cellset {
		if _, err := c.Prepare(); err != nil {
			return 0, 0, 0, 0, StatusNotPrepared
		}
	}

	xpos, ypos := xin, yin

	// In case of periodicity, move the point into the basic cell.
	if c.perx {
		xpos -= c.sx * math.Round(xin/c.sx)
	}
	arot := 0.0
	if c.pery && c.tube {
		xpos, ypos = cartesianToPolar(xin, yin)
		arot = 180 * c.sy * math.Round((math.Pi*ypos)/(c.sy*180)) / math.Pi
		ypos -= arot
		xpos, ypos = polarToCartesian(xpos, ypos)
	} else if c.pery {
		ypos -= c.sy * math.Round(yin/c.sy)
	}

	// Move the point to the correct side of the plane.
	if c.perx && c.ynplan[0] && xpos <= c.coplan[0] {
		xpos += c.sx
	}
	if c.perx && c.ynplan[1] && xpos >= c.coplan[1] {
		xpos -= c.sx
	}
	if c.pery && c.ynplan[2] && ypos <= c.coplan[2] {
		ypos += c.sy
	}
	if c.pery && c.ynplan[3] && ypos >= c.coplan[3] {
		ypos -= c.sy
	}

	// In case the point is located behind a plane there is no field.
	if c.tube {
		if !inTube(xpos, ypos, c.cotube, c.ntube) {
			return 0, 0, 0, c.vttube, StatusOutside
		}
	} else {
		if c.ynplan[0] && xpos < c.coplan[0] {
			return 0, 0, 0, c.vtplan[0], StatusOutside
		}
		if c.ynplan[1] && xpos > c.coplan[1] {
			return 0, 0, 0, c.vtplan[1], StatusOutside
		}
		if c.ynplan[2] && ypos < c.coplan[2] {
			return 0, 0, 0, c.vtplan[2], StatusOutside
		}
		if c.ynplan[3] && ypos > c.coplan[3] {
			return 0, 0, 0, c.vtplan[3], StatusOutside
		}
	}

	// If the point is within a wire, there is no field either.
	for i := range c.w {
		dx := xpos - c.w[i].x
		dy := ypos - c.w[i].y
		// Correct for periodicities.
		if c.perx {
			dx -= c.sx * math.Round(dx/c.sx)
		}
		if c.pery {
			dy -= c.sy * math.Round(dy/c.sy)
		}
		if dx*dx+dy*dy < 0.25*c.w[i].d*c.w[i].d {
			return 0, 0, 0, c.w[i].v, i + 1
		}
	}

	switch c.typ {
	case cellA00:
		ex, ey, volt = c.fieldA00(xpos, ypos, opt)
	case cellB1X:
		ex, ey, volt = c.fieldB1X(xpos, ypos, opt)
	case cellB1Y:
		ex, ey, volt = c.fieldB1Y(xpos, ypos, opt)
	case cellB2X:
		ex, ey, volt = c.fieldB2X(xpos, ypos, opt)
	case cellB2Y:
		ex, ey, volt = c.fieldB2Y(xpos, ypos, opt)
	case cellC10:
		ex, ey, volt = c.fieldC10(xpos, ypos, opt)
	case cellC2X:
		ex, ey, volt = c.fieldC2X(xpos, ypos, opt)
	case cellC2Y:
		ex, ey, volt = c.fieldC2Y(xpos, ypos, opt)
	case cellC30:
		ex, ey, volt = c.fieldC30(xpos, ypos, opt)
	case cellD10:
		ex, ey, volt = c.fieldD10(xpos, ypos, opt)
	case cellD20, cellD40:
		ex, ey, volt = c.fieldD20(xpos, ypos, opt)
	case cellD30:
		ex, ey, volt = c.fieldD30(xpos, ypos, opt)
	default:
		return 0, 0, 0, 0, StatusUnknownCell
	}

	// Rotate the field back in the phi-periodic tube.
	if c.pery && c.tube {
		xaux, yaux := cartesianToPolar(ex, ey)
		yaux += arot
		ex, ey = polarToCartesian(xaux, yaux)
	}

	// Correct for the equipotential planes.
	ex -= c.corvta
	ey -= c.corvtb
	volt += c.corvta*xpos + c.corvtb*ypos + c.corvtc

	// Add three dimensional point charges.
	if len(c.ch3d) > 0 {
		var ex3d, ey3d, ez3d, volt3d float64
		switch c.typ {
		case cellB2X:
			ex3d, ey3d, ez3d, volt3d = c.field3dB2X(xin, yin, zin)
		case cellB2Y:
			ex3d, ey3d, ez3d, volt3d = c.field3dB2Y(xin, yin, zin)
		case cellD10:
			ex3d, ey3d, ez3d, volt3d = c.field3dD10(xin, yin, zin)
		default:
			ex3d, ey3d, ez3d, volt3d = c.field3dA00(xin, yin, zin)
		}
		ex += ex3d
		ey += ey3d
		ez += ez3d
		volt += volt3d
	}

	return ex, ey, ez, volt, StatusOK
}

// fieldA00 sums plain logarithmic potentials with at most one mirror
// per direction.
func (c *Cell) fieldA00(xpos, ypos float64, opt bool) (ex, ey, volt float64) {
	volt = c.v0
	for i := range c.w {
		xx := xpos - c.w[i].x
		yy := ypos - c.w[i].y
		r2 := xx*xx + yy*yy
		exhelp := xx / r2
		eyhelp := yy / r2
		var xxmirr, yymirr float64
		// Take care of a plane at constant x.
		if c.ynplax {
			xxmirr = c.w[i].x + (xpos - 2*c.coplax)
			r2plan := xxmirr*xxmirr + yy*yy
			exhelp -= xxmirr / r2plan
			eyhelp -= yy / r2plan
			r2 /= r2plan
		}
		// Take care of a plane at constant y.
		if c.ynplay {
			yymirr = c.w[i].y + (ypos - 2*c.coplay)
			r2plan := xx*xx + yymirr*yymirr
			exhelp -= xx / r2plan
			eyhelp -= yymirr / r2plan
			r2 /= r2plan
		}
		// Take care of pairs of planes.
		if c.ynplax && c.ynplay {
			r2plan := xxmirr*xxmirr + yymirr*yymirr
			exhelp += xxmirr / r2plan
			eyhelp += yymirr / r2plan
			r2 *= r2plan
		}
		if opt {
			volt -= 0.5 * c.w[i].e * math.Log(r2)
		}
		ex += c.w[i].e * exhelp
		ey += c.w[i].e * eyhelp
	}
	return ex, ey, volt
}

// fieldB1X sums the potentials of rows of positive charges repeating
// along x, Re(log(sin pi/sx (z-z0))).
func (c *Cell) fieldB1X(xpos, ypos float64, opt bool) (ex, ey, volt float64) {
	icons := complex(0, 1)
	volt = c.v0
	for i := range c.w {
		xx := (math.Pi / c.sx) * (xpos - c.w[i].x)
		yy := (math.Pi / c.sx) * (ypos - c.w[i].y)
		zz := complex(xx, yy)
		var ecompl complex128
		var r2 float64
		switch {
		case yy > 20:
			ecompl = -icons
		case yy < -20:
			ecompl = icons
		default:
			e2 := cmplx.Exp(2 * icons * zz)
			ecompl = icons * (e2 + 1) / (e2 - 1)
		}
		if opt {
			if math.Abs(yy) > 20 {
				r2 = -math.Abs(yy) + clog2
			} else {
				sh, sn := math.Sinh(yy), math.Sin(xx)
				r2 = -0.5 * math.Log(sh*sh+sn*sn)
			}
		}
		// Take care of a plane at constant y.
		if c.ynplay {
			yymirr := (math.Pi / c.sx) * (ypos + c.w[i].y - 2*c.coplay)
			zzmirr := complex(xx, yymirr)
			switch {
			case yymirr > 20:
				ecompl += icons
			case yymirr < -20:
				ecompl += -icons
			default:
				e2 := cmplx.Exp(2 * icons * zzmirr)
				ecompl += -icons * (e2 + 1) / (e2 - 1)
			}
			if opt {
				if math.Abs(yymirr) > 20 {
					r2 += math.Abs(yymirr) - clog2
				} else {
					sh, sn := math.Sinh(yymirr), math.Sin(xx)
					r2 += 0.5 * math.Log(sh*sh+sn*sn)
				}
			}
		}
		ex += c.w[i].e * real(ecompl)
		ey -= c.w[i].e * imag(ecompl)
		if opt {
			volt += c.w[i].e * r2
		}
	}
	ex *= math.Pi / c.sx
	ey *= math.Pi / c.sx
	return ex, ey, volt
}

// fieldB1Y sums the potentials of rows of positive charges repeating
// along y, Re(log(sinh pi/sy (z-z0))).
func (c *Cell) fieldB1Y(xpos, ypos float64, opt bool) (ex, ey, volt float64) {
	volt = c.v0
	for i := range c.w {
		xx := (math.Pi / c.sy) * (xpos - c.w[i].x)
		yy := (math.Pi / c.sy) * (ypos - c.w[i].y)
		zz := complex(xx, yy)
		var ecompl complex128
		var r2 float64
		switch {
		case xx > 20:
			ecompl = 1
		case xx < -20:
			ecompl = -1
		default:
			e2 := cmplx.Exp(2 * zz)
			ecompl = (e2 + 1) / (e2 - 1)
		}
		if opt {
			if math.Abs(xx) > 20 {
				r2 = -math.Abs(xx) + clog2
			} else {
				sh, sn := math.Sinh(xx), math.Sin(yy)
				r2 = -0.5 * math.Log(sh*sh+sn*sn)
			}
		}
		// Take care of a plane at constant x.
		if c.ynplax {
			xxmirr := (math.Pi / c.sy) * (xpos + c.w[i].x - 2*c.coplax)
			zzmirr := complex(xxmirr, yy)
			switch {
			case xxmirr > 20:
				ecompl -= 1
			case xxmirr < -20:
				ecompl += 1
			default:
				e2 := cmplx.Exp(2 * zzmirr)
				ecompl -= (e2 + 1) / (e2 - 1)
			}
			if opt {
				if math.Abs(xxmirr) > 20 {
					r2 += math.Abs(xxmirr) - clog2
				} else {
					sh, sn := math.Sinh(xxmirr), math.Sin(yy)
					r2 += 0.5 * math.Log(sh*sh+sn*sn)
				}
			}
		}
		ex += c.w[i].e * real(ecompl)
		ey -= c.w[i].e * imag(ecompl)
		if opt {
			volt += c.w[i].e * r2
		}
	}
	ex *= math.Pi / c.sy
	ey *= math.Pi / c.sy
	return ex, ey, volt
}

// fieldB2X sums rows of alternating +- charges repeating along x.
func (c *Cell) fieldB2X(xpos, ypos float64, opt bool) (ex, ey, volt float64) {
	halfPi := math.Pi / 2
	volt = c.v0
	for i := range c.w {
		xx := halfPi * (xpos - c.w[i].x) / c.sx
		yy := halfPi * (ypos - c.w[i].y) / c.sx
		xxneg := halfPi * (xpos + c.w[i].x - 2*c.coplax) / c.sx
		zz := complex(xx, yy)
		zzneg := complex(xxneg, yy)
		var ecompl complex128
		r2 := 1.0
		if math.Abs(yy) <= 20 {
			ecompl = -complex(c.b2sin[i], 0) / (cmplx.Sin(zz) * cmplx.Sin(zzneg))
			if opt {
				sinhy := math.Sinh(yy)
				sinxx := math.Sin(xx)
				sinxxneg := math.Sin(xxneg)
				r2 = (sinhy*sinhy + sinxx*sinxx) / (sinhy*sinhy + sinxxneg*sinxxneg)
			}
		}
		// Take care of a plane at constant y.
		if c.ynplay {
			yymirr := halfPi * (ypos + c.w[i].y - 2*c.coplay) / c.sx
			zzmirr := complex(xx, yymirr)
			zznmirr := complex(xxneg, yymirr)
			if math.Abs(yymirr) <= 20 {
				ecompl += complex(c.b2sin[i], 0) / (cmplx.Sin(zzmirr) * cmplx.Sin(zznmirr))
				if opt {
					sinhy := math.Sinh(yymirr)
					sinxx := math.Sin(xx)
					sinxxneg := math.Sin(xxneg)
					r2plan := (sinhy*sinhy + sinxx*sinxx) /
						(sinhy*sinhy + sinxxneg*sinxxneg)
					r2 /= r2plan
				}
			}
		}
		ex += c.w[i].e * real(ecompl)
		ey -= c.w[i].e * imag(ecompl)
		if opt {
			volt -= 0.5 * c.w[i].e * math.Log(r2)
		}
	}
	ex *= halfPi / c.sx
	ey *= halfPi / c.sx
	return ex, ey, volt
}

// fieldB2Y sums rows of alternating +- charges repeating along y.
func (c *Cell) fieldB2Y(xpos, ypos float64, opt bool) (ex, ey, volt float64) {
	halfPi := math.Pi / 2
	icons := complex(0, 1)
	volt = c.v0
	for i := range c.w {
		xx := halfPi * (xpos - c.w[i].x) / c.sy
		yy := halfPi * (ypos - c.w[i].y) / c.sy
		yyneg := halfPi * (ypos + c.w[i].y - 2*c.coplay) / c.sy
		zz := complex(xx, yy)
		zzneg := complex(xx, yyneg)
		var ecompl complex128
		r2 := 1.0
		if math.Abs(xx) <= 20 {
			ecompl = icons * complex(c.b2sin[i], 0) /
				(cmplx.Sin(icons*zz) * cmplx.Sin(icons*zzneg))
			if opt {
				sinhx := math.Sinh(xx)
				sinyy := math.Sin(yy)
				sinyyneg := math.Sin(yyneg)
				r2 = (sinhx*sinhx + sinyy*sinyy) / (sinhx*sinhx + sinyyneg*sinyyneg)
			}
		}
		// Take care of a plane at constant x.
		if c.ynplax {
			xxmirr := halfPi * (xpos + c.w[i].x - 2*c.coplax) / c.sy
			zzmirr := complex(xxmirr, yy)
			zznmirr := complex(xxmirr, yyneg)
			if math.Abs(xxmirr) <= 20 {
				ecompl -= icons * complex(c.b2sin[i], 0) /
					(cmplx.Sin(icons*zzmirr) * cmplx.Sin(icons*zznmirr))
				if opt {
					sinhx := math.Sinh(xxmirr)
					sinyy := math.Sin(yy)
					sinyyneg := math.Sin(yyneg)
					r2plan := (sinhx*sinhx + sinyy*sinyy) /
						(sinhx*sinhx + sinyyneg*sinyyneg)
					r2 /= r2plan
				}
			}
		}
		ex += c.w[i].e * real(ecompl)
		ey -= c.w[i].e * imag(ecompl)
		if opt {
			volt -= 0.5 * c.w[i].e * math.Log(r2)
		}
	}
	ex *= halfPi / c.sy
	ey *= halfPi / c.sy
	return ex, ey, volt
}
