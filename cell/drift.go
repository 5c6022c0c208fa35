package cell

import (
	"log"
	"math"
)

// CrossedWire checks whether the straight drift step from (x0, y0, z0)
// to (x1, y1, z1) intersects a wire. If so it returns the point where
// the step enters the wire surface.
func (c *Cell) CrossedWire(x0, y0, z0, x1, y1, z1 float64) (xc, yc, zc float64, crossed bool) {
	xc, yc, zc = x0, y0, z0
	if len(c.w) == 0 {
		return xc, yc, zc, false
	}

	dx := x1 - x0
	dy := y1 - y0
	d2 := dx*dx + dy*dy
	if d2 < small {
		return xc, yc, zc, false
	}

	// A step spanning a whole period cannot be resolved against a
	// single image of each wire.
	if (c.perx && math.Abs(dx) >= c.sx) || (c.pery && math.Abs(dy) >= c.sy) {
		log.Printf("cell: drift step crossed more than one period")
		return xc, yc, zc, false
	}

	xm := 0.5 * (x0 + x1)
	ym := 0.5 * (y0 + y1)
	for i := range c.w {
		xw, yw := c.w[i].x, c.w[i].y
		if c.perx {
			xw += c.sx * math.Round((xm-xw)/c.sx)
		}
		if c.pery {
			yw += c.sy * math.Round((ym-yw)/c.sy)
		}
		// Smallest distance between the step and the wire.
		xIn0 := dx*(xw-x0) + dy*(yw-y0)
		// The closest approach lies before (x0, y0).
		if xIn0 < 0 {
			continue
		}
		xIn1 := -(dx*(xw-x1) + dy*(yw-y1))
		// The closest approach lies behind (x1, y1).
		if xIn1 < 0 {
			continue
		}
		xw0 := xw - x0
		xw1 := xw - x1
		yw0 := yw - y0
		yw1 := yw - y1
		dw02 := xw0*xw0 + yw0*yw0
		dw12 := xw1*xw1 + yw1*yw1
		var dMin2 float64
		if xIn1*xIn1*dw02 > xIn0*xIn0*dw12 {
			dMin2 = dw02 - xIn0*xIn0/d2
		} else {
			dMin2 = dw12 - xIn1*xIn1/d2
		}
		r2 := 0.25 * c.w[i].d * c.w[i].d
		if dMin2 < r2 {
			// Find the point of intersection with the wire surface.
			p := -xIn0 / d2
			q := (dw02 - r2) / d2
			t1 := -p + math.Sqrt(p*p-q)
			t2 := -p - math.Sqrt(p*p-q)
			t := math.Min(t1, t2)
			xc = x0 + t*dx
			yc = y0 + t*dy
			zc = z0 + t*(z1-z0)
			return xc, yc, zc, true
		}
	}
	return xc, yc, zc, false
}

// InTrapRadius checks whether a particle of charge q at (xin, yin,
// zin) is within the trap radius of a wire of opposite charge. If so
// it returns the wire centre and radius, with the centre mapped back
// into the period of the query point.
func (c *Cell) InTrapRadius(q, xin, yin, zin float64) (xw, yw, rw float64, trapped bool) {
	// In case of periodicity, move the point into the basic cell.
	x0, y0 := xin, yin
	var nX, nY, nPhi int
	if c.perx {
		nX = int(math.Round(xin / c.sx))
		x0 -= c.sx * float64(nX)
	}
	if c.pery && c.tube {
		var rho, phi float64
		rho, phi = cartesianToPolar(xin, yin)
		nPhi = int(math.Round(math.Pi * phi / (c.sy * 180)))
		phi -= 180 * c.sy * float64(nPhi) / math.Pi
		x0, y0 = polarToCartesian(rho, phi)
	} else if c.pery {
		nY = int(math.Round(yin / c.sy))
		y0 -= c.sy * float64(nY)
	}

	// Move the point to the correct side of the planes.
	if c.perx && c.ynplan[0] && x0 <= c.coplan[0] {
		x0 += c.sx
	}
	if c.perx && c.ynplan[1] && x0 >= c.coplan[1] {
		x0 -= c.sx
	}
	if c.pery && c.ynplan[2] && y0 <= c.coplan[2] {
		y0 += c.sy
	}
	if c.pery && c.ynplan[3] && y0 >= c.coplan[3] {
		y0 -= c.sy
	}

	for i := range c.w {
		// Skip wires with the wrong charge.
		if q*c.w[i].e > 0 {
			continue
		}
		dxw0 := c.w[i].x - x0
		dyw0 := c.w[i].y - y0
		r2 := dxw0*dxw0 + dyw0*dyw0
		rTrap := 0.5 * c.w[i].d * float64(c.w[i].nTrap)
		if r2 < rTrap*rTrap {
			xw = c.w[i].x
			yw = c.w[i].y
			rw = 0.5 * c.w[i].d
			// Map the wire back to the period of the query point.
			if c.pery && c.tube {
				rhow, phiw := cartesianToPolar(xw, yw)
				phiw += 180 * c.sy * float64(nPhi) / math.Pi
				xw, yw = polarToCartesian(rhow, phiw)
			}
			if c.perx {
				xw += c.sx * float64(nX)
			}
			if c.pery && !c.tube {
				yw += c.sy * float64(nY)
			}
			return xw, yw, rw, true
		}
	}
	return 0, 0, 0, false
}
