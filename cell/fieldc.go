package cell

import (
	"math"
	"math/cmplx"
)

// zetaTerms evaluates the two Clenshaw sums of the zeta-function
// expansion: zterm1 enters the potential, zterm2/zterm1 the field.
func (c *Cell) zetaTerms(zeta complex128) (zterm1, zterm2 complex128) {
	zsin := cmplx.Sin(zeta)
	zcof := 4*zsin*zsin - 2
	zu := -complex(c.p1, 0) - zcof*complex(c.p2, 0)
	zunew := 1 - zcof*zu - complex(c.p2, 0)
	zterm1 = (zunew + zu) * zsin
	zu = -3*complex(c.p1, 0) - zcof*5*complex(c.p2, 0)
	zunew = 1 - zcof*zu - 5*complex(c.p2, 0)
	zterm2 = (zunew - zu) * cmplx.Cos(zeta)
	return zterm1, zterm2
}

// e2Sum computes the electric field of the doubly periodic wire array
// by the zeta-function summation technique of G.A. Erskine.
func (c *Cell) e2Sum(xpos, ypos float64) (ex, ey float64) {
	icons := complex(0, 1)
	var wsum complex128
	for i := range c.w {
		zeta := c.zmult * complex(xpos-c.w[i].x, ypos-c.w[i].y)
		if imag(zeta) > 15 {
			wsum -= complex(c.w[i].e, 0) * icons
		} else if imag(zeta) < -15 {
			wsum += complex(c.w[i].e, 0) * icons
		} else {
			zterm1, zterm2 := c.zetaTerms(zeta)
			wsum += complex(c.w[i].e, 0) * (zterm2 / zterm1)
		}
	}
	return real(c.zmult * wsum), imag(-c.zmult * wsum)
}

// fieldC10 is the doubly periodic cell without planes.
func (c *Cell) fieldC10(xpos, ypos float64, opt bool) (ex, ey, volt float64) {
	if opt {
		if c.mode == 0 {
			volt = c.v0 + c.c1*xpos
		} else {
			volt = c.v0 + c.c1*ypos
		}
		for i := range c.w {
			volt += c.w[i].e * c.ph2(xpos-c.w[i].x, ypos-c.w[i].y)
		}
	}
	ex, ey = c.e2Sum(xpos, ypos)
	if c.mode == 0 {
		ex -= c.c1
	} else {
		ey -= c.c1
	}
	return ex, ey, volt
}

// fieldC2X is the cell with two x planes and y periodicity.
func (c *Cell) fieldC2X(xpos, ypos float64, opt bool) (ex, ey, volt float64) {
	icons := complex(0, 1)
	var wsum1, wsum2 complex128
	for i := range c.w {
		e := complex(c.w[i].e, 0)
		// Compute the direct contribution.
		zeta := c.zmult * complex(xpos-c.w[i].x, ypos-c.w[i].y)
		if imag(zeta) > 15 {
			wsum1 -= e * icons
			if opt {
				volt -= c.w[i].e * (math.Abs(imag(zeta)) - clog2)
			}
		} else if imag(zeta) < -15 {
			wsum1 += e * icons
			if opt {
				volt -= c.w[i].e * (math.Abs(imag(zeta)) - clog2)
			}
		} else {
			zterm1, zterm2 := c.zetaTerms(zeta)
			wsum1 += e * (zterm2 / zterm1)
			if opt {
				volt -= c.w[i].e * math.Log(cmplx.Abs(zterm1))
			}
		}
		// Find the plane nearest to the wire.
		cx := c.coplax - c.sx*math.Round((c.coplax-c.w[i].x)/c.sx)
		// Mirror contribution.
		zeta = c.zmult * complex(2*cx-xpos-c.w[i].x, ypos-c.w[i].y)
		if imag(zeta) > 15 {
			wsum2 -= e * icons
			if opt {
				volt += c.w[i].e * (math.Abs(imag(zeta)) - clog2)
			}
		} else if imag(zeta) < -15 {
			wsum2 += e * icons
			if opt {
				volt += c.w[i].e * (math.Abs(imag(zeta)) - clog2)
			}
		} else {
			zterm1, zterm2 := c.zetaTerms(zeta)
			wsum2 += e * (zterm2 / zterm1)
			if opt {
				volt += c.w[i].e * math.Log(cmplx.Abs(zterm1))
			}
		}
		if opt && c.mode == 0 {
			volt -= 2 * math.Pi * c.w[i].e * (xpos - cx) * (c.w[i].x - cx) /
				(c.sx * c.sy)
		}
	}
	// Convert the two contributions to a real field.
	ex = real(c.zmult * (wsum1 + wsum2))
	ey = -imag(c.zmult * (wsum1 - wsum2))
	if c.mode == 0 {
		ex -= c.c1
	}
	return ex, ey, volt
}

// fieldC2Y is the cell with two y planes and x periodicity.
func (c *Cell) fieldC2Y(xpos, ypos float64, opt bool) (ex, ey, volt float64) {
	icons := complex(0, 1)
	var wsum1, wsum2 complex128
	for i := range c.w {
		e := complex(c.w[i].e, 0)
		// Compute the direct contribution.
		zeta := c.zmult * complex(xpos-c.w[i].x, ypos-c.w[i].y)
		if imag(zeta) > 15 {
			wsum1 -= e * icons
			if opt {
				volt -= c.w[i].e * (math.Abs(imag(zeta)) - clog2)
			}
		} else if imag(zeta) < -15 {
			wsum1 += e * icons
			if opt {
				volt -= c.w[i].e * (math.Abs(imag(zeta)) - clog2)
			}
		} else {
			zterm1, zterm2 := c.zetaTerms(zeta)
			wsum1 += e * (zterm2 / zterm1)
			if opt {
				volt -= c.w[i].e * math.Log(cmplx.Abs(zterm1))
			}
		}
		// Find the plane nearest to the wire.
		cy := c.coplay - c.sy*math.Round((c.coplay-c.w[i].y)/c.sy)
		// Mirror contribution from the y plane.
		zeta = c.zmult * complex(xpos-c.w[i].x, 2*cy-ypos-c.w[i].y)
		if imag(zeta) > 15 {
			wsum2 -= e * icons
			if opt {
				volt += c.w[i].e * (math.Abs(imag(zeta)) - clog2)
			}
		} else if imag(zeta) < -15 {
			wsum2 += e * icons
			if opt {
				volt += c.w[i].e * (math.Abs(imag(zeta)) - clog2)
			}
		} else {
			zterm1, zterm2 := c.zetaTerms(zeta)
			wsum2 += e * (zterm2 / zterm1)
			if opt {
				volt += c.w[i].e * math.Log(cmplx.Abs(zterm1))
			}
		}
		if opt && c.mode == 1 {
			volt -= 2 * math.Pi * c.w[i].e * (ypos - cy) * (c.w[i].y - cy) /
				(c.sx * c.sy)
		}
	}
	ex = real(c.zmult * (wsum1 - wsum2))
	ey = -imag(c.zmult * (wsum1 + wsum2))
	if c.mode == 1 {
		ey -= c.c1
	}
	return ex, ey, volt
}

// fieldC30 is the cell with two planes in both directions.
func (c *Cell) fieldC30(xpos, ypos float64, opt bool) (ex, ey, volt float64) {
	icons := complex(0, 1)
	var wsum1, wsum2, wsum3, wsum4 complex128
	for i := range c.w {
		e := complex(c.w[i].e, 0)
		// Compute the direct contribution.
		zeta := c.zmult * complex(xpos-c.w[i].x, ypos-c.w[i].y)
		if imag(zeta) > 15 {
			wsum1 -= e * icons
			if opt {
				volt -= c.w[i].e * (math.Abs(imag(zeta)) - clog2)
			}
		} else if imag(zeta) < -15 {
			wsum1 += e * icons
			if opt {
				volt -= c.w[i].e * (math.Abs(imag(zeta)) - clog2)
			}
		} else {
			zterm1, zterm2 := c.zetaTerms(zeta)
			wsum1 += e * (zterm2 / zterm1)
			if opt {
				volt -= c.w[i].e * math.Log(cmplx.Abs(zterm1))
			}
		}
		// Mirror contribution from the x plane.
		cx := c.coplax - c.sx*math.Round((c.coplax-c.w[i].x)/c.sx)
		zeta = c.zmult * complex(2*cx-xpos-c.w[i].x, ypos-c.w[i].y)
		if imag(zeta) > 15 {
			wsum2 -= e * icons
			if opt {
				volt += c.w[i].e * (math.Abs(imag(zeta)) - clog2)
			}
		} else if imag(zeta) < -15 {
			wsum2 += e * icons
			if opt {
				volt += c.w[i].e * (math.Abs(imag(zeta)) - clog2)
			}
		} else {
			zterm1, zterm2 := c.zetaTerms(zeta)
			wsum2 += e * (zterm2 / zterm1)
			if opt {
				volt += c.w[i].e * math.Log(cmplx.Abs(zterm1))
			}
		}
		// Mirror contribution from the y plane.
		cy := c.coplay - c.sy*math.Round((c.coplay-c.w[i].y)/c.sy)
		zeta = c.zmult * complex(xpos-c.w[i].x, 2*cy-ypos-c.w[i].y)
		if imag(zeta) > 15 {
			wsum3 -= e * icons
			if opt {
				volt += c.w[i].e * (math.Abs(imag(zeta)) - clog2)
			}
		} else if imag(zeta) < -15 {
			wsum3 += e * icons
			if opt {
				volt += c.w[i].e * (math.Abs(imag(zeta)) - clog2)
			}
		} else {
			zterm1, zterm2 := c.zetaTerms(zeta)
			wsum3 += e * (zterm2 / zterm1)
			if opt {
				volt += c.w[i].e * math.Log(cmplx.Abs(zterm1))
			}
		}
		// Mirror contribution from both the x and the y plane.
		zeta = c.zmult * complex(2*cx-xpos-c.w[i].x, 2*cy-ypos-c.w[i].y)
		if imag(zeta) > 15 {
			wsum4 -= e * icons
			if opt {
				volt -= c.w[i].e * (math.Abs(imag(zeta)) - clog2)
			}
		} else if imag(zeta) < -15 {
			wsum4 += e * icons
			if opt {
				volt -= c.w[i].e * (math.Abs(imag(zeta)) - clog2)
			}
		} else {
			zterm1, zterm2 := c.zetaTerms(zeta)
			wsum4 += e * (zterm2 / zterm1)
			if opt {
				volt -= c.w[i].e * math.Log(cmplx.Abs(zterm1))
			}
		}
	}
	ex = real(c.zmult * (wsum1 + wsum2 - wsum3 - wsum4))
	ey = -imag(c.zmult * (wsum1 - wsum2 + wsum3 - wsum4))
	return ex, ey, volt
}
