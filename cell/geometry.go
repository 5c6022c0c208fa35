package cell

import (
	"fmt"
	"log"
	"math"
)

// Wire is the public view of a wire.
type Wire struct {
	X, Y     float64
	Diameter float64
	Voltage  float64
	Length   float64
	Label    string
	Charge   float64
	TrapMult int
}

// WireOption adjusts the mechanical parameters of a wire.
type WireOption func(*wire)

// WithLength sets the wire length in cm.
func WithLength(u float64) WireOption { return func(w *wire) { w.u = u } }

// WithTension sets the stringing tension in g.
func WithTension(t float64) WireOption { return func(w *wire) { w.tension = t } }

// WithDensity sets the wire material density in g/cm3.
func WithDensity(rho float64) WireOption { return func(w *wire) { w.density = rho } }

// WithTrapRadius sets the trap radius as a multiple of the wire radius.
func WithTrapRadius(n int) WireOption { return func(w *wire) { w.nTrap = n } }

// AddWire adds a wire at (x, y). On error the registry is unchanged.
func (c *Cell) AddWire(x, y, diameter, voltage float64, label string, opts ...WireOption) error {
	w := wire{
		x: x, y: y, d: diameter, v: voltage, label: label,
		u: 100, tension: 50, density: 19.3, nTrap: 5, ind: -1,
	}
	for _, opt := range opts {
		opt(&w)
	}
	switch {
	case w.d <= 0:
		return fmt.Errorf("cell: unphysical wire diameter %g", w.d)
	case w.tension <= 0:
		return fmt.Errorf("cell: unphysical wire tension %g", w.tension)
	case w.density <= 0:
		return fmt.Errorf("cell: unphysical wire density %g", w.density)
	case w.u <= 0:
		return fmt.Errorf("cell: unphysical wire length %g", w.u)
	case w.nTrap <= 0:
		return fmt.Errorf("cell: trap radius multiplier must be positive")
	}
	c.w = append(c.w, w)
	c.invalidate()
	return nil
}

// AddTube sets the tube boundary, replacing any previous tube. edges
// must be 0 (circular) or at least 3.
func (c *Cell) AddTube(radius, voltage float64, edges int, label string) error {
	if radius <= 0 {
		return fmt.Errorf("cell: unphysical tube radius %g", radius)
	}
	if edges < 3 && edges != 0 {
		return fmt.Errorf("cell: unphysical number of tube edges (%d)", edges)
	}
	if c.tube {
		log.Printf("cell: existing tube settings overwritten")
	}
	c.tube = true
	c.cotube = radius
	c.vttube = voltage
	c.ntube = edges
	c.planes[4].label = label
	c.planes[4].ind = -1
	c.invalidate()
	return nil
}

// AddPlaneX adds an equipotential plane at constant x.
func (c *Cell) AddPlaneX(x, voltage float64, label string) error {
	if c.ynplan[0] && c.ynplan[1] {
		return fmt.Errorf("cell: there are already two x planes")
	}
	i := 0
	if c.ynplan[0] {
		i = 1
	}
	c.ynplan[i] = true
	c.coplan[i] = x
	c.vtplan[i] = voltage
	c.planes[i].label = label
	c.planes[i].ind = -1
	c.invalidate()
	return nil
}

// AddPlaneY adds an equipotential plane at constant y.
func (c *Cell) AddPlaneY(y, voltage float64, label string) error {
	if c.ynplan[2] && c.ynplan[3] {
		return fmt.Errorf("cell: there are already two y planes")
	}
	i := 2
	if c.ynplan[2] {
		i = 3
	}
	c.ynplan[i] = true
	c.coplan[i] = y
	c.vtplan[i] = voltage
	c.planes[i].label = label
	c.planes[i].ind = -1
	c.invalidate()
	return nil
}

// AddStripOnPlaneX adds a readout strip to the x plane nearest to x.
// direction selects the strip axis: 'y' for in-plane strips, 'z' for
// strips extruded along the wires. A non-positive gap is defaulted
// during preparation.
func (c *Cell) AddStripOnPlaneX(direction byte, x, smin, smax float64, label string, gap float64) error {
	if !c.ynplan[0] && !c.ynplan[1] {
		return fmt.Errorf("cell: no planes at constant x defined")
	}
	dir := lower(direction)
	if dir != 'y' && dir != 'z' {
		return fmt.Errorf("cell: invalid strip direction %q, want y or z", direction)
	}
	if math.Abs(smax-smin) < small {
		return fmt.Errorf("cell: strip width must be greater than zero")
	}
	s := newStrip(smin, smax, label, gap)
	ip := 0
	if c.ynplan[1] && math.Abs(c.coplan[1]-x) < math.Abs(c.coplan[0]-x) {
		ip = 1
	}
	if dir == 'y' {
		c.planes[ip].strips1 = append(c.planes[ip].strips1, s)
	} else {
		c.planes[ip].strips2 = append(c.planes[ip].strips2, s)
	}
	return nil
}

// AddStripOnPlaneY adds a readout strip to the y plane nearest to y.
// direction is 'x' or 'z'.
func (c *Cell) AddStripOnPlaneY(direction byte, y, smin, smax float64, label string, gap float64) error {
	if !c.ynplan[2] && !c.ynplan[3] {
		return fmt.Errorf("cell: no planes at constant y defined")
	}
	dir := lower(direction)
	if dir != 'x' && dir != 'z' {
		return fmt.Errorf("cell: invalid strip direction %q, want x or z", direction)
	}
	if math.Abs(smax-smin) < small {
		return fmt.Errorf("cell: strip width must be greater than zero")
	}
	s := newStrip(smin, smax, label, gap)
	ip := 2
	if c.ynplan[3] && math.Abs(c.coplan[3]-y) < math.Abs(c.coplan[2]-y) {
		ip = 3
	}
	if dir == 'x' {
		c.planes[ip].strips1 = append(c.planes[ip].strips1, s)
	} else {
		c.planes[ip].strips2 = append(c.planes[ip].strips2, s)
	}
	return nil
}

// AddPixelOnPlaneX adds a pixel pad to the x plane nearest to x,
// covering [ymin, ymax] x [zmin, zmax].
func (c *Cell) AddPixelOnPlaneX(x, ymin, ymax, zmin, zmax float64, label string, gap float64) error {
	if !c.ynplan[0] && !c.ynplan[1] {
		return fmt.Errorf("cell: no planes at constant x defined")
	}
	if math.Abs(ymax-ymin) < small || math.Abs(zmax-zmin) < small {
		return fmt.Errorf("cell: pixel width must be greater than zero")
	}
	p := newPixel(ymin, ymax, zmin, zmax, label, gap)
	ip := 0
	if c.ynplan[1] && math.Abs(c.coplan[1]-x) < math.Abs(c.coplan[0]-x) {
		ip = 1
	}
	c.planes[ip].pixels = append(c.planes[ip].pixels, p)
	return nil
}

// AddPixelOnPlaneY adds a pixel pad to the y plane nearest to y,
// covering [xmin, xmax] x [zmin, zmax].
func (c *Cell) AddPixelOnPlaneY(y, xmin, xmax, zmin, zmax float64, label string, gap float64) error {
	if !c.ynplan[2] && !c.ynplan[3] {
		return fmt.Errorf("cell: no planes at constant y defined")
	}
	if math.Abs(xmax-xmin) < small || math.Abs(zmax-zmin) < small {
		return fmt.Errorf("cell: pixel width must be greater than zero")
	}
	p := newPixel(xmin, xmax, zmin, zmax, label, gap)
	ip := 2
	if c.ynplan[3] && math.Abs(c.coplan[3]-y) < math.Abs(c.coplan[2]-y) {
		ip = 3
	}
	c.planes[ip].pixels = append(c.planes[ip].pixels, p)
	return nil
}

// SetPeriodicityX sets the repeat length along x.
func (c *Cell) SetPeriodicityX(s float64) error {
	if s < small {
		return fmt.Errorf("cell: periodic length must be greater than zero")
	}
	c.perx = true
	c.sx = s
	c.invalidate()
	return nil
}

// SetPeriodicityY sets the repeat length along y.
func (c *Cell) SetPeriodicityY(s float64) error {
	if s < small {
		return fmt.Errorf("cell: periodic length must be greater than zero")
	}
	c.pery = true
	c.sy = s
	c.invalidate()
	return nil
}

// Period returns the current periodic lengths, zero if a direction is
// not periodic.
func (c *Cell) Period() (sx, sy float64) {
	if c.perx {
		sx = c.sx
	}
	if c.pery {
		sy = c.sy
	}
	return sx, sy
}

// AddCharge registers a 3D point charge of q fC at (x, y, z).
func (c *Cell) AddCharge(x, y, z, q float64) {
	c.ch3d = append(c.ch3d, charge3d{x: x, y: y, z: z, e: q / fourPiEpsilon0})
}

// ClearCharges removes all 3D point charges and resets the correction
// series term counts to their defaults.
func (c *Cell) ClearCharges() {
	c.ch3d = nil
	c.nTermBessel = 10
	c.nTermPoly = 100
}

// AddReadout declares a readout group. Wires, planes, strips and pixels
// whose label matches a declared group contribute to that group's
// weighting field.
func (c *Cell) AddReadout(label string) {
	for _, r := range c.readout {
		if r == label {
			log.Printf("cell: readout group %q already defined", label)
			return
		}
	}
	c.readout = append(c.readout, label)
	c.sigset = false
}

// NumWires returns the number of wires currently in the registry.
func (c *Cell) NumWires() int { return len(c.w) }

// WireAt returns the i-th wire.
func (c *Cell) WireAt(i int) (Wire, error) {
	if i < 0 || i >= len(c.w) {
		return Wire{}, fmt.Errorf("cell: wire index %d out of range", i)
	}
	w := c.w[i]
	return Wire{
		X: w.x, Y: w.y, Diameter: w.d, Voltage: w.v, Length: w.u,
		Label: w.label, Charge: w.e, TrapMult: w.nTrap,
	}, nil
}

// NumPlanesX reports how many x planes are defined.
func (c *Cell) NumPlanesX() int {
	n := 0
	if c.ynplan[0] {
		n++
	}
	if c.ynplan[1] {
		n++
	}
	return n
}

// NumPlanesY reports how many y planes are defined.
func (c *Cell) NumPlanesY() int {
	n := 0
	if c.ynplan[2] {
		n++
	}
	if c.ynplan[3] {
		n++
	}
	return n
}

// PlaneX returns the coordinate, voltage and label of x plane i.
func (c *Cell) PlaneX(i int) (x, voltage float64, label string, err error) {
	if i < 0 || i >= 2 || !c.ynplan[i] {
		return 0, 0, "", fmt.Errorf("cell: x plane index %d out of range", i)
	}
	return c.coplan[i], c.vtplan[i], c.planes[i].label, nil
}

// PlaneY returns the coordinate, voltage and label of y plane i.
func (c *Cell) PlaneY(i int) (y, voltage float64, label string, err error) {
	if i < 0 || i >= 2 || !c.ynplan[i+2] {
		return 0, 0, "", fmt.Errorf("cell: y plane index %d out of range", i)
	}
	return c.coplan[i+2], c.vtplan[i+2], c.planes[i+2].label, nil
}

// Tube returns the tube parameters if one is defined.
func (c *Cell) Tube() (radius, voltage float64, edges int, label string, ok bool) {
	if !c.tube {
		return 0, 0, 0, "", false
	}
	return c.cotube, c.vttube, c.ntube, c.planes[4].label, true
}

func newStrip(smin, smax float64, label string, gap float64) strip {
	s := strip{
		label: label, ind: -1,
		smin: math.Min(smin, smax),
		smax: math.Max(smin, smax),
		gap:  -1,
	}
	if gap > small {
		s.gap = gap
	}
	return s
}

func newPixel(smin, smax, zmin, zmax float64, label string, gap float64) pixel {
	p := pixel{
		label: label, ind: -1,
		smin: math.Min(smin, smax),
		smax: math.Max(smin, smax),
		zmin: math.Min(zmin, zmax),
		zmax: math.Max(zmin, zmax),
		gap:  -1,
	}
	if gap > small {
		p.gap = gap
	}
	return p
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + 'a' - 'A'
	}
	return b
}
