package cell

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/anodewire/chamber/internal/numerics"
)

// clog2 shows up in the large-argument limits of the periodic sums.
var clog2 = math.Log(2)

// setup computes the background-field correction coefficients, fills
// the capacitance matrix for the cell type at hand and solves for the
// wire charges.
func (c *Cell) setup() error {
	// Set a separate plane shorthand per direction.
	if c.ynplan[0] {
		c.coplax = c.coplan[0]
		c.ynplax = true
	} else if c.ynplan[1] {
		c.coplax = c.coplan[1]
		c.ynplax = true
	} else {
		c.ynplax = false
	}
	if c.ynplan[2] {
		c.coplay = c.coplan[2]
		c.ynplay = true
	} else if c.ynplan[3] {
		c.coplay = c.coplan[3]
		c.ynplay = true
	} else {
		c.ynplay = false
	}

	// Set the correction parameters for the planes.
	if c.tube {
		c.corvta, c.corvtb, c.corvtc = 0, 0, c.vttube
	} else if c.ynplan[0] && c.ynplan[1] && !(c.ynplan[2] || c.ynplan[3]) {
		c.corvta = (c.vtplan[0] - c.vtplan[1]) / (c.coplan[0] - c.coplan[1])
		c.corvtb = 0
		c.corvtc = (c.vtplan[1]*c.coplan[0] - c.vtplan[0]*c.coplan[1]) /
			(c.coplan[0] - c.coplan[1])
	} else if c.ynplan[2] && c.ynplan[3] && !(c.ynplan[0] || c.ynplan[1]) {
		c.corvta = 0
		c.corvtb = (c.vtplan[2] - c.vtplan[3]) / (c.coplan[2] - c.coplan[3])
		c.corvtc = (c.vtplan[3]*c.coplan[2] - c.vtplan[2]*c.coplan[3]) /
			(c.coplan[2] - c.coplan[3])
	} else {
		c.corvta, c.corvtb, c.corvtc = 0, 0, 0
		for i := 0; i < 4; i++ {
			if c.ynplan[i] {
				c.corvtc = c.vtplan[i]
			}
		}
	}

	// Skip the capacitance calculation if there are no wires.
	n := len(c.w)
	if n <= 0 {
		return nil
	}

	// Allocate the capacitance matrix.
	c.a = make([][]float64, n)
	for i := range c.a {
		c.a[i] = make([]float64, n)
	}

	var err error
	switch c.typ {
	case cellA00:
		err = c.setupA00()
	case cellB1X:
		err = c.setupB1X()
	case cellB1Y:
		err = c.setupB1Y()
	case cellB2X:
		err = c.setupB2X()
	case cellB2Y:
		err = c.setupB2Y()
	case cellC10:
		err = c.setupC10()
	case cellC2X:
		err = c.setupC2X()
	case cellC2Y:
		err = c.setupC2Y()
	case cellC30:
		err = c.setupC30()
	case cellD10:
		err = c.setupD10()
	case cellD20:
		err = c.setupD20()
	case cellD30, cellD40:
		err = c.setupD30()
	default:
		err = ErrUnknownCell
	}
	if err != nil {
		return err
	}
	if err := c.charge(); err != nil {
		return err
	}
	// The dense matrix is no longer needed once the charges are known.
	c.a = nil
	return nil
}

// setupA00 fills the capacitance matrix for a cell without
// periodicities, with at most one plane per direction.
func (c *Cell) setupA00() error {
	for i := range c.w {
		// Diagonal terms.
		c.a[i][i] = 0.25 * c.w[i].d * c.w[i].d
		if c.ynplax {
			c.a[i][i] /= 4 * (c.w[i].x - c.coplax) * (c.w[i].x - c.coplax)
		}
		if c.ynplay {
			c.a[i][i] /= 4 * (c.w[i].y - c.coplay) * (c.w[i].y - c.coplay)
		}
		if c.ynplax && c.ynplay {
			c.a[i][i] *= 4 * ((c.w[i].x-c.coplax)*(c.w[i].x-c.coplax) +
				(c.w[i].y-c.coplay)*(c.w[i].y-c.coplay))
		}
		c.a[i][i] = -0.5 * math.Log(c.a[i][i])
		// Off-diagonal terms.
		for j := i + 1; j < len(c.w); j++ {
			dx := c.w[i].x - c.w[j].x
			dy := c.w[i].y - c.w[j].y
			r2 := dx*dx + dy*dy
			if c.ynplax {
				xm := c.w[i].x + c.w[j].x - 2*c.coplax
				r2 /= xm*xm + dy*dy
			}
			if c.ynplay {
				ym := c.w[i].y + c.w[j].y - 2*c.coplay
				r2 /= dx*dx + ym*ym
			}
			if c.ynplax && c.ynplay {
				xm := c.w[i].x + c.w[j].x - 2*c.coplax
				ym := c.w[i].y + c.w[j].y - 2*c.coplay
				r2 *= xm*xm + ym*ym
			}
			c.a[i][j] = -0.5 * math.Log(r2)
			c.a[j][i] = c.a[i][j]
		}
	}
	return nil
}

// setupB1X handles the x-periodic cell with at most one y plane.
func (c *Cell) setupB1X() error {
	for i := range c.w {
		c.a[i][i] = -math.Log(0.5 * c.w[i].d * math.Pi / c.sx)
		if c.ynplay {
			yy := (math.Pi / c.sx) * 2 * (c.w[i].y - c.coplay)
			if math.Abs(yy) > 20 {
				c.a[i][i] += math.Abs(yy) - clog2
			} else {
				c.a[i][i] += math.Log(math.Abs(math.Sinh(yy)))
			}
		}
		for j := i + 1; j < len(c.w); j++ {
			xx := (math.Pi / c.sx) * (c.w[i].x - c.w[j].x)
			yy := (math.Pi / c.sx) * (c.w[i].y - c.w[j].y)
			if math.Abs(yy) > 20 {
				c.a[i][j] = -math.Abs(yy) + clog2
			} else {
				sinhy := math.Sinh(yy)
				sinx := math.Sin(xx)
				c.a[i][j] = -0.5 * math.Log(sinhy*sinhy+sinx*sinx)
			}
			if c.ynplay {
				yymirr := (math.Pi / c.sx) * (c.w[i].y + c.w[j].y - 2*c.coplay)
				if math.Abs(yymirr) > 20 {
					c.a[i][j] += math.Abs(yymirr) - clog2
				} else {
					sinhy := math.Sinh(yymirr)
					sinx := math.Sin(xx)
					c.a[i][j] += 0.5 * math.Log(sinhy*sinhy+sinx*sinx)
				}
			}
			c.a[j][i] = c.a[i][j]
		}
	}
	return nil
}

// setupB1Y handles the y-periodic cell with at most one x plane.
func (c *Cell) setupB1Y() error {
	for i := range c.w {
		c.a[i][i] = -math.Log(0.5 * c.w[i].d * math.Pi / c.sy)
		if c.ynplax {
			xx := (math.Pi / c.sy) * 2 * (c.w[i].x - c.coplax)
			if math.Abs(xx) > 20 {
				c.a[i][i] += math.Abs(xx) - clog2
			} else {
				c.a[i][i] += math.Log(math.Abs(math.Sinh(xx)))
			}
		}
		for j := i + 1; j < len(c.w); j++ {
			xx := (math.Pi / c.sy) * (c.w[i].x - c.w[j].x)
			yy := (math.Pi / c.sy) * (c.w[i].y - c.w[j].y)
			if math.Abs(xx) > 20 {
				c.a[i][j] = -math.Abs(xx) + clog2
			} else {
				sinhx := math.Sinh(xx)
				siny := math.Sin(yy)
				c.a[i][j] = -0.5 * math.Log(sinhx*sinhx+siny*siny)
			}
			if c.ynplax {
				xxmirr := (math.Pi / c.sy) * (c.w[i].x + c.w[j].x - 2*c.coplax)
				if math.Abs(xxmirr) > 20 {
					c.a[i][j] += math.Abs(xxmirr) - clog2
				} else {
					sinhx := math.Sinh(xxmirr)
					siny := math.Sin(yy)
					c.a[i][j] += 0.5 * math.Log(sinhx*sinhx+siny*siny)
				}
			}
			c.a[j][i] = c.a[i][j]
		}
	}
	return nil
}

// setupB2X handles the x-periodic cell with one x plane and at most one
// y plane.
func (c *Cell) setupB2X() error {
	halfPi := math.Pi / 2
	c.b2sin = make([]float64, len(c.w))
	for i := range c.w {
		xx := (math.Pi / c.sx) * (c.w[i].x - c.coplax)
		aa := (0.25 * c.w[i].d * math.Pi / c.sx) / math.Sin(xx)
		// Take care of a plane at constant y.
		if c.ynplay {
			yymirr := (math.Pi / c.sx) * (c.w[i].y - c.coplay)
			if math.Abs(yymirr) <= 20 {
				sinhy := math.Sinh(yymirr)
				sinx := math.Sin(xx)
				aa *= math.Sqrt(sinhy*sinhy+sinx*sinx) / sinhy
			}
		}
		c.a[i][i] = -math.Log(math.Abs(aa))
		for j := i + 1; j < len(c.w); j++ {
			xx := halfPi * (c.w[i].x - c.w[j].x) / c.sx
			yy := halfPi * (c.w[i].y - c.w[j].y) / c.sx
			xxneg := halfPi * (c.w[i].x + c.w[j].x - 2*c.coplax) / c.sx
			aa := 1.0
			if math.Abs(yy) <= 20 {
				sinhy := math.Sinh(yy)
				sinx := math.Sin(xx)
				sinxneg := math.Sin(xxneg)
				aa = (sinhy*sinhy + sinx*sinx) / (sinhy*sinhy + sinxneg*sinxneg)
			}
			if c.ynplay {
				yymirr := halfPi * (c.w[i].y + c.w[j].y - 2*c.coplay) / c.sx
				if math.Abs(yymirr) <= 20 {
					sinhy := math.Sinh(yymirr)
					sinx := math.Sin(xx)
					sinxneg := math.Sin(xxneg)
					aa *= (sinhy*sinhy + sinxneg*sinxneg) / (sinhy*sinhy + sinx*sinx)
				}
			}
			c.a[i][j] = -0.5 * math.Log(aa)
			c.a[j][i] = c.a[i][j]
		}
		c.b2sin[i] = math.Sin(math.Pi * (c.coplax - c.w[i].x) / c.sx)
	}
	return nil
}

// setupB2Y handles the y-periodic cell with one y plane and at most one
// x plane.
func (c *Cell) setupB2Y() error {
	halfPi := math.Pi / 2
	c.b2sin = make([]float64, len(c.w))
	for i := range c.w {
		yy := (math.Pi / c.sy) * (c.w[i].y - c.coplay)
		aa := (0.25 * c.w[i].d * math.Pi / c.sy) / math.Sin(yy)
		if c.ynplax {
			xxmirr := (math.Pi / c.sy) * (c.w[i].x - c.coplax)
			if math.Abs(xxmirr) <= 20 {
				sinhx := math.Sinh(xxmirr)
				siny := math.Sin(yy)
				aa *= math.Sqrt(sinhx*sinhx+siny*siny) / sinhx
			}
		}
		c.a[i][i] = -math.Log(math.Abs(aa))
		for j := i + 1; j < len(c.w); j++ {
			xx := halfPi * (c.w[i].x - c.w[j].x) / c.sy
			yy := halfPi * (c.w[i].y - c.w[j].y) / c.sy
			yyneg := halfPi * (c.w[i].y + c.w[j].y - 2*c.coplay) / c.sy
			aa := 1.0
			if math.Abs(xx) <= 20 {
				sinhx := math.Sinh(xx)
				siny := math.Sin(yy)
				sinyneg := math.Sin(yyneg)
				aa = (sinhx*sinhx + siny*siny) / (sinhx*sinhx + sinyneg*sinyneg)
			}
			if c.ynplax {
				xxmirr := halfPi * (c.w[i].x + c.w[j].x - 2*c.coplax) / c.sy
				if math.Abs(xxmirr) <= 20 {
					sinhx := math.Sinh(xxmirr)
					siny := math.Sin(yy)
					sinyneg := math.Sin(yyneg)
					aa *= (sinhx*sinhx + sinyneg*sinyneg) / (sinhx*sinhx + siny*siny)
				}
			}
			c.a[i][j] = -0.5 * math.Log(aa)
			c.a[j][i] = c.a[i][j]
		}
		c.b2sin[i] = math.Sin(math.Pi * (c.coplay - c.w[i].y) / c.sy)
	}
	return nil
}

// setupC10 handles the doubly periodic cell without planes.
func (c *Cell) setupC10() error {
	if c.sx <= c.sy {
		c.mode = 1
		if c.sy/c.sx < 8 {
			p := math.Exp(-math.Pi * c.sy / c.sx)
			c.p1 = p * p
		} else {
			c.p1 = 0
		}
		c.zmult = complex(math.Pi/c.sx, 0)
	} else {
		c.mode = 0
		if c.sx/c.sy < 8 {
			p := math.Exp(-math.Pi * c.sx / c.sy)
			c.p1 = p * p
		} else {
			c.p1 = 0
		}
		c.zmult = complex(0, math.Pi/c.sy)
	}
	c.p2 = 0
	if c.p1 > 1e-10 {
		c.p2 = math.Pow(math.Sqrt(c.p1), 6)
	}

	// Fill the capacitance matrix.
	for i := range c.w {
		var xyi float64
		if c.mode == 0 {
			xyi = c.w[i].x
		} else {
			xyi = c.w[i].y
		}
		for j := range c.w {
			var xyj float64
			if c.mode == 0 {
				xyj = c.w[j].x
			} else {
				xyj = c.w[j].y
			}
			temp := xyi * xyj * 2 * math.Pi / (c.sx * c.sy)
			if i == j {
				c.a[i][i] = c.ph2Lim(0.5*c.w[i].d) - temp
			} else {
				c.a[i][j] = c.ph2(c.w[i].x-c.w[j].x, c.w[i].y-c.w[j].y) - temp
			}
		}
	}
	return nil
}

// setupC2X handles the cell with two x planes and y periodicity.
func (c *Cell) setupC2X() error {
	halfPi := math.Pi / 2
	// Set the mode and the present zeta function parameters.
	if 2*c.sx <= c.sy {
		c.mode = 1
		if c.sy/c.sx < 25 {
			p := math.Exp(-halfPi * c.sy / c.sx)
			c.p1 = p * p
		} else {
			c.p1 = 0
		}
		c.zmult = complex(halfPi/c.sx, 0)
	} else {
		c.mode = 0
		if c.sx/c.sy < 6 {
			p := math.Exp(-2 * math.Pi * c.sx / c.sy)
			c.p1 = p * p
		} else {
			c.p1 = 0
		}
		c.zmult = complex(0, math.Pi/c.sy)
	}
	c.p2 = 0
	if c.p1 > 1e-10 {
		c.p2 = math.Pow(math.Sqrt(c.p1), 6)
	}

	// Fill the capacitance matrix.
	for i := range c.w {
		cx := c.coplax - c.sx*math.Round((c.coplax-c.w[i].x)/c.sx)
		for j := range c.w {
			temp := 0.0
			if c.mode == 0 {
				temp = (c.w[i].x - cx) * (c.w[j].x - cx) * 2 * math.Pi / (c.sx * c.sy)
			}
			if i == j {
				c.a[i][j] = c.ph2Lim(0.5*c.w[i].d) -
					c.ph2(2*(c.w[i].x-cx), 0) - temp
			} else {
				c.a[i][j] = c.ph2(c.w[i].x-c.w[j].x, c.w[i].y-c.w[j].y) -
					c.ph2(c.w[i].x+c.w[j].x-2*cx, c.w[i].y-c.w[j].y) - temp
			}
		}
	}
	return nil
}

// setupC2Y handles the cell with two y planes and x periodicity.
func (c *Cell) setupC2Y() error {
	halfPi := math.Pi / 2
	if c.sx <= 2*c.sy {
		c.mode = 1
		if c.sy/c.sx <= 6 {
			p := math.Exp(-2 * math.Pi * c.sy / c.sx)
			c.p1 = p * p
		} else {
			c.p1 = 0
		}
		c.zmult = complex(math.Pi/c.sx, 0)
	} else {
		c.mode = 0
		if c.sx/c.sy <= 25 {
			p := math.Exp(-halfPi * c.sx / c.sy)
			c.p1 = p * p
		} else {
			c.p1 = 0
		}
		c.zmult = complex(0, halfPi/c.sy)
	}
	c.p2 = 0
	if c.p1 > 1e-10 {
		c.p2 = math.Pow(math.Sqrt(c.p1), 6)
	}

	// Fill the capacitance matrix.
	for i := range c.w {
		cy := c.coplay - c.sy*math.Round((c.coplay-c.w[i].y)/c.sy)
		for j := range c.w {
			temp := 0.0
			if c.mode == 1 {
				temp = (c.w[i].y - cy) * (c.w[j].y - cy) * 2 * math.Pi / (c.sx * c.sy)
			}
			if i == j {
				c.a[i][j] = c.ph2Lim(0.5*c.w[i].d) -
					c.ph2(0, 2*(c.w[j].y-cy)) - temp
			} else {
				c.a[i][j] = c.ph2(c.w[i].x-c.w[j].x, c.w[i].y-c.w[j].y) -
					c.ph2(c.w[i].x-c.w[j].x, c.w[i].y+c.w[j].y-2*cy) - temp
			}
		}
	}
	return nil
}

// setupC30 handles the cell with two planes in both directions.
func (c *Cell) setupC30() error {
	halfPi := math.Pi / 2
	if c.sx <= c.sy {
		c.mode = 1
		if c.sy/c.sx <= 13 {
			p := math.Exp(-math.Pi * c.sy / c.sx)
			c.p1 = p * p
		} else {
			c.p1 = 0
		}
		c.zmult = complex(halfPi/c.sx, 0)
	} else {
		c.mode = 0
		if c.sx/c.sy <= 13 {
			p := math.Exp(-math.Pi * c.sx / c.sy)
			c.p1 = p * p
		} else {
			c.p1 = 0
		}
		c.zmult = complex(0, halfPi/c.sy)
	}
	c.p2 = 0
	if c.p1 > 1e-10 {
		c.p2 = math.Pow(math.Sqrt(c.p1), 6)
	}

	// Fill the capacitance matrix.
	for i := range c.w {
		cx := c.coplax - c.sx*math.Round((c.coplax-c.w[i].x)/c.sx)
		cy := c.coplay - c.sy*math.Round((c.coplay-c.w[i].y)/c.sy)
		for j := range c.w {
			if i == j {
				c.a[i][i] = c.ph2Lim(0.5*c.w[i].d) -
					c.ph2(0, 2*(c.w[i].y-cy)) -
					c.ph2(2*(c.w[i].x-cx), 0) +
					c.ph2(2*(c.w[i].x-cx), 2*(c.w[i].y-cy))
			} else {
				c.a[i][j] = c.ph2(c.w[i].x-c.w[j].x, c.w[i].y-c.w[j].y) -
					c.ph2(c.w[i].x-c.w[j].x, c.w[i].y+c.w[j].y-2*cy) -
					c.ph2(c.w[i].x+c.w[j].x-2*cx, c.w[i].y-c.w[j].y) +
					c.ph2(c.w[i].x+c.w[j].x-2*cx, c.w[i].y+c.w[j].y-2*cy)
			}
		}
	}
	return nil
}

// setupD10 handles the round tube without angular periodicity.
func (c *Cell) setupD10() error {
	r2 := c.cotube * c.cotube
	for i := range c.w {
		c.a[i][i] = -math.Log(0.5 * c.w[i].d * c.cotube /
			(r2 - (c.w[i].x*c.w[i].x + c.w[i].y*c.w[i].y)))
		zi := complex(c.w[i].x, c.w[i].y)
		for j := i + 1; j < len(c.w); j++ {
			zj := complex(c.w[j].x, c.w[j].y)
			c.a[i][j] = -math.Log(cmplx.Abs(
				complex(c.cotube, 0) * (zi - zj) /
					(complex(r2, 0) - cmplx.Conj(zi)*zj)))
			c.a[j][i] = c.a[i][j]
		}
	}
	return nil
}

// setupD20 handles the round tube with angular periodicity, mapping
// through z^mtube. A wire on the axis is treated as in a D1 cell.
func (c *Cell) setupD20() error {
	r2 := c.cotube * c.cotube
	m := float64(c.mtube)
	for i := range c.w {
		zi := complex(c.w[i].x, c.w[i].y)
		if cmplx.Abs(zi) < c.w[i].d/2 {
			// Wire at the centre of the tube.
			c.a[i][i] = -math.Log(0.5 * c.w[i].d /
				(c.cotube - (c.w[i].x*c.w[i].x+c.w[i].y*c.w[i].y)/c.cotube))
			for j := range c.w {
				if j == i {
					continue
				}
				zj := complex(c.w[j].x, c.w[j].y)
				c.a[j][i] = -math.Log(cmplx.Abs(
					complex(1/c.cotube, 0) * (zi - zj) /
						(1 - cmplx.Conj(zi)*zj/complex(r2, 0))))
			}
		} else {
			c.a[i][i] = -math.Log(math.Abs(
				0.5 * c.w[i].d * m * math.Pow(cmplx.Abs(zi), m-1) /
					(math.Pow(c.cotube, m) *
						(1 - math.Pow(cmplx.Abs(zi)/c.cotube, 2*m)))))
			for j := range c.w {
				if j == i {
					continue
				}
				zj := complex(c.w[j].x, c.w[j].y)
				c.a[j][i] = -math.Log(cmplx.Abs(
					(cmplx.Pow(zj, complex(m, 0)) - cmplx.Pow(zi, complex(m, 0))) /
						(complex(math.Pow(c.cotube, m), 0) *
							(1 - cmplx.Pow(zj*cmplx.Conj(zi)/complex(r2, 0), complex(m, 0))))))
			}
		}
	}
	return nil
}

// setupD30 handles polygonal tubes through the conformal map to the
// unit disc.
func (c *Cell) setupD30() error {
	c.wmap = make([]complex128, len(c.w))
	fn := float64(c.ntube)
	c.kappa = math.Gamma((fn+1)/fn) * math.Gamma((fn-2)/fn) / math.Gamma((fn-1)/fn)
	for i := range c.w {
		wi, wd := c.conformalMap(complex(c.w[i].x, c.w[i].y) / complex(c.cotube, 0))
		c.wmap[i] = wi
		abs := cmplx.Abs(wi)
		c.a[i][i] = -math.Log(math.Abs(
			(0.5 * c.w[i].d / c.cotube) * cmplx.Abs(wd) / (1 - abs*abs)))
		for j := 0; j < i; j++ {
			c.a[i][j] = -math.Log(cmplx.Abs(
				(wi - c.wmap[j]) / (1 - cmplx.Conj(wi)*c.wmap[j])))
			c.a[j][i] = c.a[i][j]
		}
	}
	return nil
}

// charge solves the capacitance equations for the wire charges. Cells
// without planes or tube get a charge-neutrality constraint appended
// and a floating reference potential.
func (c *Cell) charge() error {
	n := len(c.w)
	// Set the right-hand side, compensating for the plane background.
	b := make([]float64, n)
	for i := range c.w {
		b[i] = c.w[i].v - (c.corvta*c.w[i].x + c.corvtb*c.w[i].y + c.corvtc)
	}

	anyPlane := c.ynplan[0] || c.ynplan[1] || c.ynplan[2] || c.ynplan[3] || c.tube
	if !anyPlane {
		// Add the charge-neutrality equation.
		for i := range c.a {
			c.a[i] = append(c.a[i], 1)
		}
		last := make([]float64, n+1)
		for j := 0; j < n; j++ {
			last[j] = 1
		}
		c.a = append(c.a, last)
		b = append(b, 0)

		if err := numerics.InvertAndSolve(c.a, b); err != nil {
			return fmt.Errorf("%w: %v", ErrInversionFailed, err)
		}
		// Modify the matrix for field computations: condense out the
		// constraint row and column.
		if c.a[n][n] == 0 {
			return fmt.Errorf("%w: true inverse of the capacitance matrix could not be calculated", ErrInversionFailed)
		}
		t := 1 / c.a[n][n]
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				c.a[i][j] -= t * c.a[i][n] * c.a[n][j]
			}
		}
		c.v0 = b[n]
		b = b[:n]
		for i := 0; i < n; i++ {
			c.a[i] = c.a[i][:n]
		}
		c.a = c.a[:n]
	} else {
		c.v0 = 0
		if err := numerics.InvertAndSolve(c.a, b); err != nil {
			return fmt.Errorf("%w: %v", ErrInversionFailed, err)
		}
	}

	// Store the charges.
	for i := range c.w {
		c.w[i].e = b[i]
	}

	// Calculate the non-logarithmic term in the potential for the
	// doubly periodic cells.
	switch c.typ {
	case cellC10:
		s := 0.0
		for i := range c.w {
			if c.mode == 0 {
				s += c.w[i].e * c.w[i].x
			} else {
				s += c.w[i].e * c.w[i].y
			}
		}
		c.c1 = -s * 2 * math.Pi / (c.sx * c.sy)
	case cellC2X:
		if c.mode == 0 {
			s := 0.0
			for i := range c.w {
				cx := c.coplax - c.sx*math.Round((c.coplax-c.w[i].x)/c.sx)
				s += c.w[i].e * (c.w[i].x - cx)
			}
			c.c1 = -s * 2 * math.Pi / (c.sx * c.sy)
		} else {
			c.c1 = 0
		}
	case cellC2Y:
		if c.mode == 1 {
			s := 0.0
			for i := range c.w {
				cy := c.coplay - c.sy*math.Round((c.coplay-c.w[i].y)/c.sy)
				s += c.w[i].e * (c.w[i].y - cy)
			}
			c.c1 = -s * 2 * math.Pi / (c.sx * c.sy)
		} else {
			c.c1 = 0
		}
	default:
		c.c1 = 0
	}
	return nil
}

// ph2 evaluates the periodic potential function -log(abs(sin(zeta)))
// with the product-expansion correction terms.
func (c *Cell) ph2(xpos, ypos float64) float64 {
	// Start of the main subroutine, off diagonal elements.
	zeta := c.zmult * complex(xpos, ypos)
	if math.Abs(imag(zeta)) < 10 {
		zsin := cmplx.Sin(zeta)
		zcof := 4*zsin*zsin - 2
		zu := -complex(c.p1, 0) - zcof*complex(c.p2, 0)
		zunew := 1 - zcof*zu - complex(c.p2, 0)
		return -math.Log(cmplx.Abs((zunew + zu) * zsin))
	}
	return -math.Abs(imag(zeta)) + clog2
}

// ph2Lim is the limiting case of ph2 for distances of the order of the
// wire radius.
func (c *Cell) ph2Lim(radius float64) float64 {
	return -math.Log(cmplx.Abs(c.zmult) * radius * (1 - 3*c.p1 + 5*c.p2))
}
