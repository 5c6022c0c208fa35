package cell

import (
	"log"
	"math"
)

// classify determines the symmetry type from the periodicities, planes
// and tube currently defined. For the C2 and C3 families it also derives
// the effective period from the plane spacing when no explicit
// periodicity was set.
func (c *Cell) classify() error {
	if c.tube {
		switch {
		case c.ntube == 0:
			if c.pery {
				c.typ = cellD20
			} else {
				c.typ = cellD10
			}
		case c.ntube >= 3 && c.ntube <= 8:
			if c.pery {
				c.typ = cellD40
			} else {
				c.typ = cellD30
			}
		default:
			log.Printf("cell: potentials for a %d-sided tube are not yet available, using a round tube instead", c.ntube)
			c.ntube = 0
			c.typ = cellD30
		}
		// The angular repetition count for D2 and D4 cells follows
		// from the azimuthal period, given in radians.
		if c.pery && c.sy > 0 {
			c.mtube = int(math.Round(2 * math.Pi / c.sy))
		} else {
			c.mtube = 1
		}
		return nil
	}

	// Find the 'A' type cell.
	if !(c.perx || c.pery) && !(c.ynplan[0] && c.ynplan[1]) &&
		!(c.ynplan[2] && c.ynplan[3]) {
		c.typ = cellA00
		return nil
	}

	// Find the 'B1X' type cell: repetition in x, at most one y plane.
	if c.perx && !c.pery && !(c.ynplan[0] || c.ynplan[1]) &&
		!(c.ynplan[2] && c.ynplan[3]) {
		c.typ = cellB1X
		return nil
	}

	// Find the 'B1Y' type cell.
	if c.pery && !c.perx && !(c.ynplan[2] || c.ynplan[3]) &&
		!(c.ynplan[0] && c.ynplan[1]) {
		c.typ = cellB1Y
		return nil
	}

	// Find the 'B2X' type cell.
	if c.perx && !c.pery && !(c.ynplan[2] && c.ynplan[3]) {
		c.typ = cellB2X
		return nil
	}
	if !(c.perx || c.pery) && !(c.ynplan[2] && c.ynplan[3]) &&
		c.ynplan[0] && c.ynplan[1] {
		c.sx = math.Abs(c.coplan[1] - c.coplan[0])
		c.typ = cellB2X
		return nil
	}

	// Find the 'B2Y' type cell.
	if c.pery && !c.perx && !(c.ynplan[0] && c.ynplan[1]) {
		c.typ = cellB2Y
		return nil
	}
	if !(c.perx || c.pery) && !(c.ynplan[0] && c.ynplan[1]) &&
		c.ynplan[2] && c.ynplan[3] {
		c.sy = math.Abs(c.coplan[3] - c.coplan[2])
		c.typ = cellB2Y
		return nil
	}

	// Find the 'C1 ' type cell.
	if !(c.ynplan[0] || c.ynplan[1] || c.ynplan[2] || c.ynplan[3]) &&
		c.perx && c.pery {
		c.typ = cellC10
		return nil
	}

	// Find the 'C2X' type cell.
	if !((c.ynplan[2] && c.pery) || (c.ynplan[2] && c.ynplan[3])) {
		if c.ynplan[0] && c.ynplan[1] {
			c.sx = math.Abs(c.coplan[1] - c.coplan[0])
			c.typ = cellC2X
			return nil
		}
		if c.perx && c.ynplan[0] {
			c.typ = cellC2X
			return nil
		}
	}

	// Find the 'C2Y' type cell.
	if !((c.ynplan[0] && c.perx) || (c.ynplan[0] && c.ynplan[1])) {
		if c.ynplan[2] && c.ynplan[3] {
			c.sy = math.Abs(c.coplan[3] - c.coplan[2])
			c.typ = cellC2Y
			return nil
		}
		if c.pery && c.ynplan[2] {
			c.typ = cellC2Y
			return nil
		}
	}

	// Find the 'C3 ' type cell.
	if c.perx && c.pery {
		c.typ = cellC30
		return nil
	}
	if c.perx {
		c.sy = math.Abs(c.coplan[3] - c.coplan[2])
		c.typ = cellC30
		return nil
	}
	if c.pery {
		c.sx = math.Abs(c.coplan[1] - c.coplan[0])
		c.typ = cellC30
		return nil
	}
	if c.ynplan[0] && c.ynplan[1] && c.ynplan[2] && c.ynplan[3] {
		c.sx = math.Abs(c.coplan[1] - c.coplan[0])
		c.sy = math.Abs(c.coplan[3] - c.coplan[2])
		c.typ = cellC30
		return nil
	}

	c.typ = cellUnknown
	return ErrUnknownCell
}

// inTube reports whether (x0, y0) lies inside a tube of outer size a
// with n corners (n = 0 for a circle).
func inTube(x0, y0, a float64, n int) bool {
	if x0 == 0 && y0 == 0 {
		return true
	}
	if n == 0 {
		return x0*x0+y0*y0 <= a*a
	}
	if n < 0 || n == 1 || n == 2 {
		log.Printf("cell: invalid number of tube edges (%d)", n)
		return false
	}
	// Truly polygonal tubes: reduce the angle to the first sector and
	// compare the length to the local radius.
	phi := math.Atan2(y0, x0)
	if phi < 0 {
		phi += 2 * math.Pi
	}
	phi -= 2 * math.Pi * math.Trunc(0.5*float64(n)*phi/math.Pi) / float64(n)
	fn := float64(n)
	cs := math.Cos(math.Pi/fn - phi)
	cn := math.Cos(math.Pi / fn)
	return (x0*x0+y0*y0)*cs*cs <= a*a*cn*cn
}
