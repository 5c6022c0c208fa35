package cell

import (
	"math"
	"math/cmplx"
)

// fieldD10 is the round tube without angular periodicity.
func (c *Cell) fieldD10(xpos, ypos float64, opt bool) (ex, ey, volt float64) {
	volt = c.v0
	zpos := complex(xpos, ypos)
	r2 := c.cotube * c.cotube
	for i := range c.w {
		zi := complex(c.w[i].x, c.w[i].y)
		if opt {
			volt -= c.w[i].e * math.Log(cmplx.Abs(
				complex(c.cotube, 0)*(zpos-zi)/
					(complex(r2, 0)-zpos*cmplx.Conj(zi))))
		}
		wi := 1/cmplx.Conj(zpos-zi) + zi/(complex(r2, 0)-cmplx.Conj(zpos)*zi)
		ex += c.w[i].e * real(wi)
		ey += c.w[i].e * imag(wi)
	}
	return ex, ey, volt
}

// fieldD20 is the round tube with phi periodicity, handled through the
// mapping z -> z^mtube. Wires on the axis fall back to the D1 terms.
func (c *Cell) fieldD20(xpos, ypos float64, opt bool) (ex, ey, volt float64) {
	volt = c.v0
	zpos := complex(xpos, ypos)
	r2 := c.cotube * c.cotube
	m := float64(c.mtube)
	for i := range c.w {
		zi := complex(c.w[i].x, c.w[i].y)
		if cmplx.Abs(zi) > c.w[i].d/2 {
			if opt {
				volt -= c.w[i].e * math.Log(cmplx.Abs(
					complex(1/math.Pow(c.cotube, m), 0)*
						(cmplx.Pow(zpos, complex(m, 0))-cmplx.Pow(zi, complex(m, 0)))/
						(1-cmplx.Pow(zpos*cmplx.Conj(zi)/complex(r2, 0), complex(m, 0)))))
			}
			wi := complex(m, 0) * cmplx.Pow(cmplx.Conj(zpos), complex(m-1, 0)) *
				(1/cmplx.Conj(cmplx.Pow(zpos, complex(m, 0))-cmplx.Pow(zi, complex(m, 0))) +
					cmplx.Pow(zi, complex(m, 0))/
						(complex(math.Pow(c.cotube, 2*m), 0)-
							cmplx.Pow(cmplx.Conj(zpos)*zi, complex(m, 0))))
			ex += c.w[i].e * real(wi)
			ey += c.w[i].e * imag(wi)
		} else {
			// Case of the central wire.
			if opt {
				volt -= c.w[i].e * math.Log(cmplx.Abs(
					complex(1/c.cotube, 0)*(zpos-zi)/
						(1-zpos*cmplx.Conj(zi)/complex(r2, 0))))
			}
			wi := 1/cmplx.Conj(zpos-zi) + zi/(complex(r2, 0)-cmplx.Conj(zpos)*zi)
			ex += c.w[i].e * real(wi)
			ey += c.w[i].e * imag(wi)
		}
	}
	return ex, ey, volt
}

// fieldD30 is the polygonal tube, evaluated in the image of the
// conformal map onto the unit disc.
func (c *Cell) fieldD30(xpos, ypos float64, opt bool) (ex, ey, volt float64) {
	volt = c.v0
	wpos, wdpos := c.conformalMap(complex(xpos, ypos) / complex(c.cotube, 0))
	for i := range c.w {
		if opt {
			volt -= c.w[i].e * math.Log(cmplx.Abs(
				(wpos - c.wmap[i]) / (1 - wpos*cmplx.Conj(c.wmap[i]))))
		}
		abs := cmplx.Abs(c.wmap[i])
		whelp := wdpos * complex(1-abs*abs, 0) /
			((wpos - c.wmap[i]) * (1 - cmplx.Conj(c.wmap[i])*wpos))
		ex += c.w[i].e * real(whelp)
		ey -= c.w[i].e * imag(whelp)
	}
	ex /= c.cotube
	ey /= c.cotube
	return ex, ey, volt
}
