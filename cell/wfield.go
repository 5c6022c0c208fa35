package cell

import (
	"log"
	"math"
	"math/cmplx"
)

// WeightingField returns the weighting field of the readout group
// identified by label at (x, y, z), in 1/cm. The zero field is
// returned for points outside the scope of the group or if the signal
// matrices cannot be prepared.
func (c *Cell) WeightingField(x, y, z float64, label string) (ex, ey, ez float64) {
	if !c.sigset {
		if err := c.PrepareSignals(); err != nil {
			log.Printf("cell: weighting field not available: %v", err)
			return 0, 0, 0
		}
	}
	isw := c.readoutIndex(label)
	if isw < 0 {
		return 0, 0, 0
	}
	ex, ey, ez, _ = c.wfield(x, y, z, isw, false)
	return ex, ey, ez
}

// WeightingPotential returns the weighting potential of the readout
// group identified by label at (x, y, z). It is 1 on the electrodes of
// the group and 0 on all other electrodes.
func (c *Cell) WeightingPotential(x, y, z float64, label string) float64 {
	if !c.sigset {
		if err := c.PrepareSignals(); err != nil {
			log.Printf("cell: weighting potential not available: %v", err)
			return 0
		}
	}
	isw := c.readoutIndex(label)
	if isw < 0 {
		return 0
	}
	_, _, _, v := c.wfield(x, y, z, isw, true)
	return v
}

func (c *Cell) readoutIndex(label string) int {
	for i, r := range c.readout {
		if r == label {
			return i
		}
	}
	return -1
}

// wfield sums the weighting field components at (xpos, ypos, zpos) for
// readout group isw over all signal layers, electrodes, strips and
// pixels. The potential is only accumulated when opt is set.
func (c *Cell) wfield(xpos, ypos, zpos float64, isw int, opt bool) (exsum, eysum, ezsum, vsum float64) {
	qw := make([]float64, len(c.w))

	// Loop over the signal layers.
	for mx := c.mxmin; mx <= c.mxmax; mx++ {
		for my := c.mymin; my <= c.mymax; my++ {
			l := c.layer(mx, my)
			// Wires that are part of this readout group.
			for iw := range c.w {
				if c.w[iw].ind != isw {
					continue
				}
				for i := range qw {
					qw[i] = real(l.sigmat[iw][i])
				}
				ex, ey, volt, ok := c.wfieldLayer(qw, xpos, ypos, mx, my, opt)
				if !ok {
					return 0, 0, 0, 0
				}
				exsum += ex
				eysum += ey
				if opt {
					vsum += volt
				}
			}
			// Planes and the tube.
			for ip := range c.planes {
				if c.planes[ip].ind != isw {
					continue
				}
				ex, ey, volt, ok := c.wfieldLayer(l.qplane[ip], xpos, ypos, mx, my, opt)
				if !ok {
					return 0, 0, 0, 0
				}
				exsum += ex
				eysum += ey
				if opt {
					vsum += volt
				}
			}
		}
	}

	// Add the field due to the planes themselves.
	for ip := range c.planes {
		if c.planes[ip].ind != isw {
			continue
		}
		exsum += c.planes[ip].ewxcor
		eysum += c.planes[ip].ewycor
		if !opt {
			continue
		}
		if ip == 0 || ip == 1 {
			xx := xpos
			if c.perx {
				xx -= c.sx * math.Round(xpos/c.sx)
				if c.ynplan[0] && xx <= c.coplan[0] {
					xx += c.sx
				}
				if c.ynplan[1] && xx >= c.coplan[1] {
					xx -= c.sx
				}
			}
			vsum += 1 - c.planes[ip].ewxcor*(xx-c.coplan[ip])
		} else if ip == 2 || ip == 3 {
			yy := ypos
			if c.pery {
				yy -= c.sy * math.Round(ypos/c.sy)
				if c.ynplan[2] && yy <= c.coplan[2] {
					yy += c.sy
				}
				if c.ynplan[3] && yy >= c.coplan[3] {
					yy -= c.sy
				}
			}
			vsum += 1 - c.planes[ip].ewycor*(yy-c.coplan[ip])
		}
	}

	// Add strips and pixels, if there are any.
	for ip := range c.planes {
		for is := range c.planes[ip].strips1 {
			if c.planes[ip].strips1[is].ind != isw {
				continue
			}
			ex, ey, ez, volt := c.wfieldStripXy(xpos, ypos, zpos, ip, is, opt)
			exsum += ex
			eysum += ey
			ezsum += ez
			if opt {
				vsum += volt
			}
		}
		for is := range c.planes[ip].strips2 {
			if c.planes[ip].strips2[is].ind != isw {
				continue
			}
			ex, ey, volt := c.wfieldStripZ(xpos, ypos, ip, is, opt)
			exsum += ex
			eysum += ey
			if opt {
				vsum += volt
			}
		}
		for is := range c.planes[ip].pixels {
			if c.planes[ip].pixels[is].ind != isw {
				continue
			}
			ex, ey, ez, volt := c.wfieldPixel(xpos, ypos, zpos, ip, is, opt)
			exsum += ex
			eysum += ey
			ezsum += ez
			if opt {
				vsum += volt
			}
		}
	}
	return exsum, eysum, ezsum, vsum
}

// wfieldLayer evaluates one layer of the weighting field of an
// electrode with signal charges q, one weight per wire.
func (c *Cell) wfieldLayer(q []float64, xpos, ypos float64, mx, my int, opt bool) (ex, ey, volt float64, ok bool) {
	switch c.typFourier {
	case cellA00:
		ex, ey, volt = c.wfieldA00(q, xpos, ypos, mx, my, opt)
	case cellB2X:
		ex, ey, volt = c.wfieldB2X(q, xpos, ypos, my, opt)
	case cellB2Y:
		ex, ey, volt = c.wfieldB2Y(q, xpos, ypos, mx, opt)
	case cellC2X:
		ex, ey, volt = c.wfieldC2X(q, xpos, ypos, opt)
	case cellC2Y:
		ex, ey, volt = c.wfieldC2Y(q, xpos, ypos, opt)
	case cellC30:
		ex, ey, volt = c.wfieldC30(q, xpos, ypos, opt)
	case cellD10:
		ex, ey, volt = c.wfieldD10(q, xpos, ypos, opt)
	case cellD30:
		ex, ey, volt = c.wfieldD30(q, xpos, ypos, opt)
	default:
		log.Printf("cell: unknown signal field type %v", c.typFourier)
		return 0, 0, 0, false
	}
	return ex, ey, volt, true
}

// zetaContrib returns the reduced field term of one image charge at
// zeta together with the logarithm entering the potential. Far from
// the real axis the zeta function saturates and the asymptotic form is
// used instead.
func (c *Cell) zetaContrib(zeta complex128) (w complex128, lv float64) {
	if im := imag(zeta); im > 15 {
		return complex(0, -1), im - clog2
	} else if im < -15 {
		return complex(0, 1), -im - clog2
	}
	zterm1, zterm2 := c.zetaTerms(zeta)
	return zterm2 / zterm1, math.Log(cmplx.Abs(zterm1))
}

// wfieldA00 is the (mx, my) layer of the weighting field for cells
// reduced to type A.
func (c *Cell) wfieldA00(q []float64, xpos, ypos float64, mx, my int, opt bool) (ex, ey, volt float64) {
	for i := range c.w {
		xx := xpos - c.w[i].x - float64(mx)*c.sx
		yy := ypos - c.w[i].y - float64(my)*c.sy
		r2 := xx*xx + yy*yy
		if r2 <= 0 {
			continue
		}
		exhelp := xx / r2
		eyhelp := yy / r2
		var xxmirr, yymirr float64
		// Take care of a plane at constant x.
		if c.ynplax {
			xxmirr = xpos + c.w[i].x - 2*c.coplax
			r2plan := xxmirr*xxmirr + yy*yy
			if r2plan <= 0 {
				continue
			}
			exhelp -= xxmirr / r2plan
			eyhelp -= yy / r2plan
			r2 /= r2plan
		}
		// Take care of a plane at constant y.
		if c.ynplay {
			yymirr = ypos + c.w[i].y - 2*c.coplay
			r2plan := xx*xx + yymirr*yymirr
			if r2plan <= 0 {
				continue
			}
			exhelp -= xx / r2plan
			eyhelp -= yymirr / r2plan
			r2 /= r2plan
		}
		// Take care of pairs of planes.
		if c.ynplax && c.ynplay {
			r2plan := xxmirr*xxmirr + yymirr*yymirr
			if r2plan <= 0 {
				continue
			}
			exhelp += xxmirr / r2plan
			eyhelp += yymirr / r2plan
			r2 *= r2plan
		}
		if opt {
			volt -= 0.5 * q[i] * math.Log(r2)
		}
		ex += q[i] * exhelp
		ey += q[i] * eyhelp
	}
	return ex, ey, volt
}

// wfieldB2X is the my-th layer of the weighting field for cells
// reduced to type B2X.
func (c *Cell) wfieldB2X(q []float64, xpos, ypos float64, my int, opt bool) (ex, ey, volt float64) {
	halfPi := 0.5 * math.Pi
	for i := range c.w {
		xx := halfPi * (xpos - c.w[i].x) / c.sx
		yy := halfPi * (ypos - c.w[i].y - float64(my)*c.sy) / c.sx
		xxneg := halfPi * (xpos + c.w[i].x - 2*c.coplan[0]) / c.sx
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
				r2 = (sinhy*sinhy + sinxx*sinxx) /
					(sinhy*sinhy + sinxxneg*sinxxneg)
			}
		}
		// Take care of a plane at constant y.
		if c.ynplay {
			yymirr := (halfPi / c.sx) * (ypos + c.w[i].y - 2*c.coplay)
			zzmirr := complex(xx, yymirr)
			zznmirr := complex(xxneg, yymirr)
			if math.Abs(yymirr) <= 20 {
				ecompl += complex(c.b2sin[i], 0) /
					(cmplx.Sin(zzmirr) * cmplx.Sin(zznmirr))
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
		ex += q[i] * real(ecompl)
		ey -= q[i] * imag(ecompl)
		if opt {
			volt -= 0.5 * q[i] * math.Log(r2)
		}
	}
	ex *= halfPi / c.sx
	ey *= halfPi / c.sx
	return ex, ey, volt
}

// wfieldB2Y is the mx-th layer of the weighting field for cells
// reduced to type B2Y.
func (c *Cell) wfieldB2Y(q []float64, xpos, ypos float64, mx int, opt bool) (ex, ey, volt float64) {
	halfPi := 0.5 * math.Pi
	icons := complex(0, 1)
	for i := range c.w {
		xx := halfPi * (xpos - c.w[i].x - float64(mx)*c.sx) / c.sy
		yy := halfPi * (ypos - c.w[i].y) / c.sy
		yyneg := halfPi * (ypos + c.w[i].y - 2*c.coplan[2]) / c.sy
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
				r2 = (sinhx*sinhx + sinyy*sinyy) /
					(sinhx*sinhx + sinyyneg*sinyyneg)
			}
		}
		// Take care of a plane at constant x.
		if c.ynplax {
			xxmirr := (halfPi / c.sy) * (xpos + c.w[i].x - 2*c.coplax)
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
		ex += q[i] * real(ecompl)
		ey -= q[i] * imag(ecompl)
		if opt {
			volt -= 0.5 * q[i] * math.Log(r2)
		}
	}
	ex *= halfPi / c.sy
	ey *= halfPi / c.sy
	return ex, ey, volt
}

// wfieldC2X is the weighting field layer for cells with two x planes
// and natural y periodicity.
func (c *Cell) wfieldC2X(q []float64, xpos, ypos float64, opt bool) (ex, ey, volt float64) {
	var wsum1, wsum2 complex128
	var s float64
	for i := range c.w {
		// Direct contribution.
		w, lv := c.zetaContrib(c.zmult * complex(xpos-c.w[i].x, ypos-c.w[i].y))
		wsum1 += complex(q[i], 0) * w
		if opt {
			volt -= q[i] * lv
		}
		// Find the plane nearest to the wire.
		cx := c.coplax - c.sx*math.Round((c.coplax-c.w[i].x)/c.sx)
		s += q[i] * (c.w[i].x - cx)
		// Mirror contribution.
		w, lv = c.zetaContrib(c.zmult * complex(2*cx-xpos-c.w[i].x, ypos-c.w[i].y))
		wsum2 += complex(q[i], 0) * w
		if opt {
			volt += q[i] * lv
		}
		if opt && c.mode == 0 {
			volt -= 2 * math.Pi * q[i] * (xpos - cx) * (c.w[i].x - cx) /
				(c.sx * c.sy)
		}
	}
	ex = real(c.zmult * (wsum1 + wsum2))
	ey = -imag(c.zmult * (wsum1 - wsum2))
	// Constant correction terms.
	if c.mode == 0 {
		ex += s * 2 * math.Pi / (c.sx * c.sy)
	}
	return ex, ey, volt
}

// wfieldC2Y is the weighting field layer for cells with two y planes
// and natural x periodicity.
func (c *Cell) wfieldC2Y(q []float64, xpos, ypos float64, opt bool) (ex, ey, volt float64) {
	var wsum1, wsum2 complex128
	var s float64
	for i := range c.w {
		// Direct contribution.
		w, lv := c.zetaContrib(c.zmult * complex(xpos-c.w[i].x, ypos-c.w[i].y))
		wsum1 += complex(q[i], 0) * w
		if opt {
			volt -= q[i] * lv
		}
		// Find the plane nearest to the wire.
		cy := c.coplay - c.sy*math.Round((c.coplay-c.w[i].y)/c.sy)
		s += q[i] * (c.w[i].y - cy)
		// Mirror contribution.
		w, lv = c.zetaContrib(c.zmult * complex(xpos-c.w[i].x, 2*cy-ypos-c.w[i].y))
		wsum2 += complex(q[i], 0) * w
		if opt {
			volt += q[i] * lv
		}
		if opt && c.mode == 1 {
			volt -= 2 * math.Pi * q[i] * (ypos - cy) * (c.w[i].y - cy) /
				(c.sx * c.sy)
		}
	}
	ex = real(c.zmult * (wsum1 - wsum2))
	ey = -imag(c.zmult * (wsum1 + wsum2))
	// Constant correction terms.
	if c.mode == 1 {
		ey += s * 2 * math.Pi / (c.sx * c.sy)
	}
	return ex, ey, volt
}

// wfieldC30 is the weighting field layer for cells with two x and two
// y planes.
func (c *Cell) wfieldC30(q []float64, xpos, ypos float64, opt bool) (ex, ey, volt float64) {
	var wsum1, wsum2, wsum3, wsum4 complex128
	for i := range c.w {
		// Direct contribution.
		w, lv := c.zetaContrib(c.zmult * complex(xpos-c.w[i].x, ypos-c.w[i].y))
		wsum1 += complex(q[i], 0) * w
		if opt {
			volt -= q[i] * lv
		}
		// Mirror contribution from the x plane.
		cx := c.coplax - c.sx*math.Round((c.coplax-c.w[i].x)/c.sx)
		w, lv = c.zetaContrib(c.zmult * complex(2*cx-xpos-c.w[i].x, ypos-c.w[i].y))
		wsum2 += complex(q[i], 0) * w
		if opt {
			volt += q[i] * lv
		}
		// Mirror contribution from the y plane.
		cy := c.coplay - c.sy*math.Round((c.coplay-c.w[i].y)/c.sy)
		w, lv = c.zetaContrib(c.zmult * complex(xpos-c.w[i].x, 2*cy-ypos-c.w[i].y))
		wsum3 += complex(q[i], 0) * w
		if opt {
			volt += q[i] * lv
		}
		// Mirror contribution from both planes.
		w, lv = c.zetaContrib(c.zmult * complex(2*cx-xpos-c.w[i].x, 2*cy-ypos-c.w[i].y))
		wsum4 += complex(q[i], 0) * w
		if opt {
			volt -= q[i] * lv
		}
	}
	ex = real(c.zmult * (wsum1 + wsum2 - wsum3 - wsum4))
	ey = -imag(c.zmult * (wsum1 - wsum2 + wsum3 - wsum4))
	return ex, ey, volt
}

// wfieldD10 is the weighting field layer for round-tube cells.
func (c *Cell) wfieldD10(q []float64, xpos, ypos float64, opt bool) (ex, ey, volt float64) {
	zpos := complex(xpos, ypos)
	r2 := c.cotube * c.cotube
	for i := range c.w {
		zi := complex(c.w[i].x, c.w[i].y)
		if opt {
			volt -= q[i] * math.Log(cmplx.Abs(
				complex(c.cotube, 0)*(zpos-zi)/
					(complex(r2, 0)-zpos*cmplx.Conj(zi))))
		}
		wi := 1/cmplx.Conj(zpos-zi) + zi/(complex(r2, 0)-cmplx.Conj(zpos)*zi)
		ex += q[i] * real(wi)
		ey += q[i] * imag(wi)
	}
	return ex, ey, volt
}

// wfieldD30 is the weighting field layer for polygonal-tube cells.
func (c *Cell) wfieldD30(q []float64, xpos, ypos float64, opt bool) (ex, ey, volt float64) {
	wpos, wdpos := c.conformalMap(complex(xpos, ypos) / complex(c.cotube, 0))
	for i := range c.w {
		if opt {
			volt -= q[i] * math.Log(cmplx.Abs(
				(wpos - c.wmap[i]) / (1 - wpos*cmplx.Conj(c.wmap[i]))))
		}
		abs := cmplx.Abs(c.wmap[i])
		whelp := wdpos * complex(1-abs*abs, 0) /
			((wpos - c.wmap[i]) * (1 - cmplx.Conj(c.wmap[i])*wpos))
		ex += q[i] * real(whelp)
		ey -= q[i] * imag(whelp)
	}
	ex /= c.cotube
	ey /= c.cotube
	return ex, ey, volt
}
