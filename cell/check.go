package cell

import (
	"fmt"
	"log"
	"math"
)

// Prepare validates the geometry, classifies the cell, solves the wire
// charges and assigns default strip and pixel gaps. It returns the list
// of wires that had to be removed. Prepare is idempotent until the next
// geometry mutation.
func (c *Cell) Prepare() ([]Dropped, error) {
	dropped, err := c.check()
	if err != nil {
		return dropped, fmt.Errorf("%w: %v", ErrCellNotPrepared, err)
	}
	if err := c.classify(); err != nil {
		return dropped, err
	}
	if err := c.setup(); err != nil {
		return dropped, err
	}
	if err := c.prepareStrips(); err != nil {
		return dropped, fmt.Errorf("%w: %v", ErrCellNotPrepared, err)
	}
	c.cellset = true
	return dropped, nil
}

// check normalizes planes and wires to the basic period, enforces the
// plane ordering conventions, removes unusable wires and establishes
// the bounding box and voltage range.
func (c *Cell) check() ([]Dropped, error) {
	// Move the x planes to the basic period.
	if c.perx {
		conew1 := c.coplan[0] - c.sx*math.Round(c.coplan[0]/c.sx)
		conew2 := c.coplan[1] - c.sx*math.Round(c.coplan[1]/c.sx)
		// Check that they are not one on top of the other.
		if c.ynplan[0] && c.ynplan[1] && conew1 == conew2 {
			if conew1 > 0 {
				conew1 -= c.sx
			} else {
				conew2 += c.sx
			}
		}
		if (conew1 != c.coplan[0] && c.ynplan[0]) ||
			(conew2 != c.coplan[1] && c.ynplan[1]) {
			log.Printf("cell: the planes in x are moved to the basic period; this should not affect the results")
		}
		c.coplan[0] = conew1
		c.coplan[1] = conew2

		// Two planes should now be separated by sx, cancel perx if not.
		if c.ynplan[0] && c.ynplan[1] && math.Abs(c.coplan[1]-c.coplan[0]) != c.sx {
			log.Printf("cell: the separation of the x planes does not match the period; the periodicity is cancelled")
			c.perx = false
		}
		// If there are two planes left, they should have identical voltages.
		if c.ynplan[0] && c.ynplan[1] && c.vtplan[0] != c.vtplan[1] {
			log.Printf("cell: the voltages of the two x planes differ; the periodicity is cancelled")
			c.perx = false
		}
	}

	// Idem for the y planes.
	if c.pery {
		conew3 := c.coplan[2] - c.sy*math.Round(c.coplan[2]/c.sy)
		conew4 := c.coplan[3] - c.sy*math.Round(c.coplan[3]/c.sy)
		if c.ynplan[2] && c.ynplan[3] && conew3 == conew4 {
			if conew3 > 0 {
				conew3 -= c.sy
			} else {
				conew4 += c.sy
			}
		}
		if (conew3 != c.coplan[2] && c.ynplan[2]) ||
			(conew4 != c.coplan[3] && c.ynplan[3]) {
			log.Printf("cell: the planes in y are moved to the basic period; this should not affect the results")
		}
		c.coplan[2] = conew3
		c.coplan[3] = conew4

		if c.ynplan[2] && c.ynplan[3] && math.Abs(c.coplan[3]-c.coplan[2]) != c.sy {
			log.Printf("cell: the separation of the two y planes does not match the period; the periodicity is cancelled")
			c.pery = false
		}
		if c.ynplan[2] && c.ynplan[3] && c.vtplan[2] != c.vtplan[3] {
			log.Printf("cell: the voltages of the two y planes differ; the periodicity is cancelled")
			c.pery = false
		}
	}

	// Check that there is no voltage conflict of crossing planes.
	for i := 0; i < 2; i++ {
		for j := 2; j < 3; j++ {
			if c.ynplan[i] && c.ynplan[j] && c.vtplan[i] != c.vtplan[j] {
				log.Printf("cell: conflicting potentials of two crossing planes; one y plane is removed")
				c.ynplan[j] = false
			}
		}
	}

	// Make sure the coordinates of the planes are properly ordered.
	for i := 0; i < 3; i += 2 {
		if c.ynplan[i] && c.ynplan[i+1] {
			if c.coplan[i] == c.coplan[i+1] {
				log.Printf("cell: two planes are on top of each other; one of them is removed")
				c.ynplan[i+1] = false
			}
			if c.coplan[i] > c.coplan[i+1] {
				c.coplan[i], c.coplan[i+1] = c.coplan[i+1], c.coplan[i]
				c.vtplan[i], c.vtplan[i+1] = c.vtplan[i+1], c.vtplan[i]
				c.planes[i], c.planes[i+1] = c.planes[i+1], c.planes[i]
			}
		}
	}

	// Checks on the wires, start moving them to the basic x period.
	if c.perx {
		for i := range c.w {
			c.w[i].x -= c.sx * math.Round(c.w[i].x/c.sx)
		}
	}

	// In case of phi-periodicity, all wires should be in the first period.
	if c.tube && c.pery {
		for i := range c.w {
			xnew, ynew := cartesianToPolar(c.w[i].x, c.w[i].y)
			if math.Round((math.Pi*ynew)/(c.sy*180)) != 0 {
				ynew -= 180 * c.sy * math.Round((math.Pi*ynew)/(c.sy*180)) / math.Pi
				c.w[i].x, c.w[i].y = polarToCartesian(xnew, ynew)
			}
		}
	} else if c.pery {
		for i := range c.w {
			c.w[i].y -= c.sy * math.Round(c.w[i].y/c.sy)
		}
	}

	// Make sure the plane numbering is standard: P1 wires P2, P3 wires P4.
	var iplan1, iplan2, iplan3, iplan4 int
	for i := range c.w {
		if c.ynplan[0] && c.w[i].x <= c.coplan[0] {
			iplan1++
		}
		if c.ynplan[1] && c.w[i].x <= c.coplan[1] {
			iplan2++
		}
		if c.ynplan[2] && c.w[i].y <= c.coplan[2] {
			iplan3++
		}
		if c.ynplan[3] && c.w[i].y <= c.coplan[3] {
			iplan4++
		}
	}

	// Find out whether smaller (-1) or larger (+1) coordinates are kept.
	nw := len(c.w)
	if c.ynplan[0] && c.ynplan[1] {
		if iplan1 > nw/2 {
			c.ynplan[1] = false
			iplan1 = -1
		} else {
			iplan1 = +1
		}
		if iplan2 < nw/2 {
			c.ynplan[0] = false
			iplan2 = +1
		} else {
			iplan2 = -1
		}
	}
	if c.ynplan[0] && !c.ynplan[1] {
		if iplan1 > nw/2 {
			iplan1 = -1
		} else {
			iplan1 = +1
		}
	}
	if c.ynplan[1] && !c.ynplan[0] {
		if iplan2 < nw/2 {
			iplan2 = +1
		} else {
			iplan2 = -1
		}
	}
	if c.ynplan[2] && c.ynplan[3] {
		if iplan3 > nw/2 {
			c.ynplan[3] = false
			iplan3 = -1
		} else {
			iplan3 = +1
		}
		if iplan4 < nw/2 {
			c.ynplan[2] = false
			iplan4 = +1
		} else {
			iplan4 = -1
		}
	}
	if c.ynplan[2] && !c.ynplan[3] {
		if iplan3 > nw/2 {
			iplan3 = -1
		} else {
			iplan3 = +1
		}
	}
	if c.ynplan[3] && !c.ynplan[2] {
		if iplan4 < nw/2 {
			iplan4 = +1
		} else {
			iplan4 = -1
		}
	}

	// Adapt the numbering of the planes if necessary.
	if iplan1 == -1 {
		c.ynplan[0] = false
		c.ynplan[1] = true
		c.coplan[1] = c.coplan[0]
		c.vtplan[1] = c.vtplan[0]
		c.planes[1] = c.planes[0]
	}
	if iplan2 == +1 {
		c.ynplan[1] = false
		c.ynplan[0] = true
		c.coplan[0] = c.coplan[1]
		c.vtplan[0] = c.vtplan[1]
		c.planes[0] = c.planes[1]
	}
	if iplan3 == -1 {
		c.ynplan[2] = false
		c.ynplan[3] = true
		c.coplan[3] = c.coplan[2]
		c.vtplan[3] = c.vtplan[2]
		c.planes[3] = c.planes[2]
	}
	if iplan4 == +1 {
		c.ynplan[3] = false
		c.ynplan[2] = true
		c.coplan[2] = c.coplan[3]
		c.vtplan[2] = c.vtplan[3]
		c.planes[2] = c.planes[3]
	}

	// Second pass for the wires, check position relative to the planes.
	wrong := make([]bool, len(c.w))
	reason := make([]string, len(c.w))
	flag := func(i int, why string) {
		if !wrong[i] {
			wrong[i] = true
			reason[i] = why
		}
	}
	for i := range c.w {
		w := &c.w[i]
		if c.ynplan[0] && w.x-0.5*w.d <= c.coplan[0] {
			flag(i, "wire is located outside the planes")
		}
		if c.ynplan[1] && w.x+0.5*w.d >= c.coplan[1] {
			flag(i, "wire is located outside the planes")
		}
		if c.ynplan[2] && w.y-0.5*w.d <= c.coplan[2] {
			flag(i, "wire is located outside the planes")
		}
		if c.ynplan[3] && w.y+0.5*w.d >= c.coplan[3] {
			flag(i, "wire is located outside the planes")
		}
		if c.tube {
			if !inTube(w.x, w.y, c.cotube, c.ntube) {
				flag(i, "wire is located outside the tube")
			}
		} else if (c.perx && w.d >= c.sx) || (c.pery && w.d >= c.sy) {
			flag(i, "wire diameter exceeds one period")
		}
	}

	// Check the wire spacing.
	for i := range c.w {
		if wrong[i] {
			continue
		}
		for j := i + 1; j < len(c.w); j++ {
			if wrong[j] {
				continue
			}
			var xsepar, ysepar float64
			if c.tube {
				if c.pery {
					xaux1, yaux1 := cartesianToPolar(c.w[i].x, c.w[i].y)
					xaux2, yaux2 := cartesianToPolar(c.w[j].x, c.w[j].y)
					yaux1 -= c.sy * math.Round(yaux1/c.sy)
					yaux2 -= c.sy * math.Round(yaux2/c.sy)
					xaux1, yaux1 = polarToCartesian(xaux1, yaux1)
					xaux2, yaux2 = polarToCartesian(xaux2, yaux2)
					xsepar = xaux1 - xaux2
					ysepar = yaux1 - yaux2
				} else {
					xsepar = c.w[i].x - c.w[j].x
					ysepar = c.w[i].y - c.w[j].y
				}
			} else {
				xsepar = math.Abs(c.w[i].x - c.w[j].x)
				if c.perx {
					xsepar -= c.sx * math.Round(xsepar/c.sx)
				}
				ysepar = math.Abs(c.w[i].y - c.w[j].y)
				if c.pery {
					ysepar -= c.sy * math.Round(ysepar/c.sy)
				}
			}
			dsum := c.w[i].d + c.w[j].d
			if xsepar*xsepar+ysepar*ysepar < 0.25*dsum*dsum {
				flag(j, fmt.Sprintf("wire overlaps the wire at (%g, %g)", c.w[i].x, c.w[i].y))
			}
		}
	}

	// Remove the wires which are not acceptable for one reason or another.
	var dropped []Dropped
	kept := c.w[:0]
	for i := range c.w {
		if wrong[i] {
			log.Printf("cell: the wire at (%g, %g) is removed: %s", c.w[i].x, c.w[i].y, reason[i])
			dropped = append(dropped, Dropped{
				Label:  c.w[i].label,
				X:      c.w[i].x,
				Y:      c.w[i].y,
				Reason: reason[i],
			})
			continue
		}
		kept = append(kept, c.w[i])
	}
	c.w = kept

	// Ensure that some elements are left.
	nElements := len(c.w)
	for i := 0; i < 4; i++ {
		if c.ynplan[i] {
			nElements++
		}
	}
	if c.tube {
		nElements++
	}
	if nElements < 2 {
		return dropped, fmt.Errorf("at least 2 elements are necessary")
	}

	// Determine maximum and minimum coordinates and potentials.
	var setx, sety, setz, setv bool
	c.xmin, c.xmax = 0, 0
	c.ymin, c.ymax = 0, 0
	c.zmin, c.zmax = 0, 0
	c.vmin, c.vmax = 0, 0

	for i := range c.w {
		w := &c.w[i]
		if setx {
			c.xmin = math.Min(c.xmin, w.x-w.d/2)
			c.xmax = math.Max(c.xmax, w.x+w.d/2)
		} else {
			c.xmin, c.xmax = w.x-w.d/2, w.x+w.d/2
			setx = true
		}
		if sety {
			c.ymin = math.Min(c.ymin, w.y-w.d/2)
			c.ymax = math.Max(c.ymax, w.y+w.d/2)
		} else {
			c.ymin, c.ymax = w.y-w.d/2, w.y+w.d/2
			sety = true
		}
		if setz {
			c.zmin = math.Min(c.zmin, -w.u/2)
			c.zmax = math.Max(c.zmax, +w.u/2)
		} else {
			c.zmin, c.zmax = -w.u/2, +w.u/2
			setz = true
		}
		if setv {
			c.vmin = math.Min(c.vmin, w.v)
			c.vmax = math.Max(c.vmax, w.v)
		} else {
			c.vmin, c.vmax = w.v, w.v
			setv = true
		}
	}

	// Consider the planes.
	for i := 0; i < 4; i++ {
		if !c.ynplan[i] {
			continue
		}
		if i < 2 {
			if setx {
				c.xmin = math.Min(c.xmin, c.coplan[i])
				c.xmax = math.Max(c.xmax, c.coplan[i])
			} else {
				c.xmin, c.xmax = c.coplan[i], c.coplan[i]
				setx = true
			}
		} else {
			if sety {
				c.ymin = math.Min(c.ymin, c.coplan[i])
				c.ymax = math.Max(c.ymax, c.coplan[i])
			} else {
				c.ymin, c.ymax = c.coplan[i], c.coplan[i]
				sety = true
			}
		}
		if setv {
			c.vmin = math.Min(c.vmin, c.vtplan[i])
			c.vmax = math.Max(c.vmax, c.vtplan[i])
		} else {
			c.vmin, c.vmax = c.vtplan[i], c.vtplan[i]
			setv = true
		}
	}

	// Consider the tube.
	if c.tube {
		c.xmin, c.xmax = -1.1*c.cotube, +1.1*c.cotube
		setx = true
		c.ymin, c.ymax = -1.1*c.cotube, +1.1*c.cotube
		sety = true
		c.vmin = math.Min(c.vmin, c.vttube)
		c.vmax = math.Max(c.vmax, c.vttube)
		setv = true
	}

	// In case of periodicity, the range should cover one period.
	if c.perx && c.sx > (c.xmax-c.xmin) {
		c.xmin, c.xmax = -c.sx/2, c.sx/2
		setx = true
	}
	if c.pery && c.sy > (c.ymax-c.ymin) {
		c.ymin, c.ymax = -c.sy/2, c.sy/2
		sety = true
	}

	// Fill in missing dimensions.
	if setx && c.xmin != c.xmax && (c.ymin == c.ymax || !sety) {
		c.ymin -= math.Abs(c.xmax-c.xmin) / 2
		c.ymax += math.Abs(c.xmax-c.xmin) / 2
		sety = true
	}
	if sety && c.ymin != c.ymax && (c.xmin == c.xmax || !setx) {
		c.xmin -= math.Abs(c.ymax-c.ymin) / 2
		c.xmax += math.Abs(c.ymax-c.ymin) / 2
		setx = true
	}
	if !setz {
		c.zmin = -(math.Abs(c.xmax-c.xmin) + math.Abs(c.ymax-c.ymin)) / 4
		c.zmax = +(math.Abs(c.xmax-c.xmin) + math.Abs(c.ymax-c.ymin)) / 4
		setz = true
	}
	if !(setx && sety && setz) {
		log.Printf("cell: unable to establish default dimensions in all directions")
	}

	// Check that at least some different voltages are present.
	if c.vmin == c.vmax || !setv {
		return dropped, fmt.Errorf("all potentials in the cell are the same")
	}
	return dropped, nil
}

// prepareStrips assigns default anode-cathode gaps to strips and pixels
// that were registered without one.
func (c *Cell) prepareStrips() error {
	// Compute the default gap per plane slot.
	var gapDef [4]float64
	if c.ynplan[0] {
		if c.ynplan[1] {
			gapDef[0] = c.coplan[1] - c.coplan[0]
		} else if len(c.w) == 0 {
			gapDef[0] = -1
		} else {
			gapDef[0] = c.w[0].x - c.coplan[0]
			for _, w := range c.w[1:] {
				gapDef[0] = math.Min(gapDef[0], w.x-c.coplan[0])
			}
		}
	}
	if c.ynplan[1] {
		if c.ynplan[0] {
			gapDef[1] = c.coplan[1] - c.coplan[0]
		} else if len(c.w) == 0 {
			gapDef[1] = -1
		} else {
			gapDef[1] = c.coplan[1] - c.w[0].x
			for _, w := range c.w[1:] {
				gapDef[1] = math.Min(gapDef[1], c.coplan[1]-w.x)
			}
		}
	}
	if c.ynplan[2] {
		if c.ynplan[3] {
			gapDef[2] = c.coplan[3] - c.coplan[2]
		} else if len(c.w) == 0 {
			gapDef[2] = -1
		} else {
			gapDef[2] = c.w[0].y - c.coplan[2]
			for _, w := range c.w[1:] {
				gapDef[2] = math.Min(gapDef[2], w.y-c.coplan[2])
			}
		}
	}
	if c.ynplan[3] {
		if c.ynplan[2] {
			gapDef[3] = c.coplan[3] - c.coplan[2]
		} else if len(c.w) == 0 {
			gapDef[3] = -1
		} else {
			gapDef[3] = c.coplan[3] - c.w[0].y
			for _, w := range c.w[1:] {
				gapDef[3] = math.Min(gapDef[3], c.coplan[3]-w.y)
			}
		}
	}

	// Assign the default gaps where needed.
	for ip := 0; ip < 4; ip++ {
		p := &c.planes[ip]
		for i := range p.strips1 {
			if p.strips1[i].gap < 0 {
				p.strips1[i].gap = gapDef[ip]
			}
			if p.strips1[i].gap < 0 {
				return fmt.Errorf("not able to set a default anode-cathode gap for plane %d", ip)
			}
		}
		for i := range p.strips2 {
			if p.strips2[i].gap < 0 {
				p.strips2[i].gap = gapDef[ip]
			}
			if p.strips2[i].gap < 0 {
				return fmt.Errorf("not able to set a default anode-cathode gap for plane %d", ip)
			}
		}
		for i := range p.pixels {
			if p.pixels[i].gap < 0 {
				p.pixels[i].gap = gapDef[ip]
			}
			if p.pixels[i].gap < 0 {
				return fmt.Errorf("not able to set a default anode-cathode gap for plane %d", ip)
			}
		}
	}
	return nil
}
