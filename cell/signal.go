package cell

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/anodewire/chamber/internal/numerics"
)

// SetNumberOfSignalTerms sets the number of Fourier terms used to
// periodize the weighting fields of periodic cells. n must be a power
// of two; n = 0 keeps the natural periodicity of the cell instead of
// expanding it in convolution layers.
func (c *Cell) SetNumberOfSignalTerms(n int) error {
	if n < 0 || (n > 0 && n&(n-1) != 0) {
		return fmt.Errorf("cell: number of signal terms must be a power of two, got %d", n)
	}
	c.nFourier = n
	c.sigset = false
	return nil
}

// PrepareSignals computes the signal capacitance matrices and plane
// charges needed by the weighting field evaluators and associates
// electrodes with their readout groups. It must be called after the
// readout groups are declared and before any weighting field query.
func (c *Cell) PrepareSignals() error {
	if len(c.readout) == 0 {
		return fmt.Errorf("cell: no readout groups defined, cannot prepare weighting fields")
	}
	if !c.cellset {
		if _, err := c.Prepare(); err != nil {
			return fmt.Errorf("cell: cell could not be set up: %w", err)
		}
	}

	// With the natural periodicity the cell type carries over as is.
	// Otherwise true periodicities are eliminated by the Fourier
	// convolution, which leaves a reduced cell type per layer.
	if c.nFourier == 0 {
		c.typFourier = c.typ
	} else {
		switch c.typ {
		case cellA00, cellB1X, cellB1Y, cellC10:
			c.typFourier = cellA00
		case cellB2X, cellC2X:
			c.typFourier = cellB2X
		case cellB2Y, cellC2Y:
			c.typFourier = cellB2Y
		case cellC30:
			c.typFourier = cellC30
		case cellD10:
			c.typFourier = cellD10
		case cellD30:
			c.typFourier = cellD30
		default:
			return fmt.Errorf("cell: no weighting field potentials available for cell type %v", c.typ)
		}
	}

	// Establish the directions in which convolutions occur.
	c.fperx, c.fpery = false, false
	if c.nFourier == 0 {
		c.mfexp = 0
	} else {
		if c.typ == cellB1X || c.typ == cellC10 || c.typ == cellC2Y {
			c.fperx = true
		}
		if c.typ == cellB1Y || c.typ == cellC10 || c.typ == cellC2X {
			c.fpery = true
		}
		c.mfexp = int(0.1 + math.Log2(float64(c.nFourier)))
		if c.mfexp == 0 {
			c.fperx, c.fpery = false, false
		}
	}

	// Set the ranges of the Fourier terms.
	c.mxmin, c.mxmax, c.mymin, c.mymax = 0, 0, 0, 0
	if c.fperx {
		c.mxmin = min(0, 1-c.nFourier/2)
		c.mxmax = c.nFourier / 2
	}
	if c.fpery {
		c.mymin = min(0, 1-c.nFourier/2)
		c.mymax = c.nFourier / 2
	}

	if err := c.setupWireSignals(); err != nil {
		c.sigLayers = nil
		return err
	}
	if err := c.setupPlaneSignals(); err != nil {
		c.sigLayers = nil
		return err
	}

	// Associate wires, planes, strips and pixels with readout groups.
	for i, r := range c.readout {
		for j := range c.w {
			if c.w[j].label == r {
				c.w[j].ind = i
			}
		}
		for j := range c.planes {
			p := &c.planes[j]
			if p.label == r {
				p.ind = i
			}
			for k := range p.strips1 {
				if p.strips1[k].label == r {
					p.strips1[k].ind = i
				}
			}
			for k := range p.strips2 {
				if p.strips2[k].label == r {
					p.strips2[k].ind = i
				}
			}
			for k := range p.pixels {
				if p.pixels[k].label == r {
					p.pixels[k].ind = i
				}
			}
		}
	}

	c.sigset = true
	return nil
}

// setupWireSignals fills one signal matrix per Fourier layer, convolves
// the layers along the periodic directions, and inverts each layer.
func (c *Cell) setupWireSignals() error {
	nw := len(c.w)
	nx := c.mxmax - c.mxmin + 1
	ny := c.mymax - c.mymin + 1
	c.sigLayers = make([]sigLayer, nx*ny)
	for k := range c.sigLayers {
		m := make([][]complex128, nw)
		for i := range m {
			m[i] = make([]complex128, nw)
		}
		c.sigLayers[k].sigmat = m
	}

	for mx := c.mxmin; mx <= c.mxmax; mx++ {
		for my := c.mymin; my <= c.mymax; my++ {
			l := c.layer(mx, my)
			switch c.typFourier {
			case cellA00:
				c.iprA00(mx, my, l)
			case cellB2X:
				c.iprB2X(my, l)
			case cellB2Y:
				c.iprB2Y(mx, l)
			case cellC2X:
				c.iprC2X(l)
			case cellC2Y:
				c.iprC2Y(l)
			case cellC30:
				c.iprC30(l)
			case cellD10:
				c.iprD10(l)
			case cellD30:
				c.iprD30(l)
			default:
				return fmt.Errorf("cell: unknown signal cell type %v", c.typFourier)
			}
		}
	}

	// Transform the layers to the Fourier domain, where the periodized
	// capacitance problem decouples layer by layer.
	c.fourierLayers(false)

	for k := range c.sigLayers {
		if nw < 1 {
			continue
		}
		if err := numerics.InvertComplex(c.sigLayers[k].sigmat); err != nil {
			return fmt.Errorf("cell: inversion of signal matrix %d failed: %w", k, err)
		}
	}

	// And transform the inverted matrices back to the original domain.
	c.fourierLayers(true)
	return nil
}

// fourierLayers runs an FFT across the layer index, elementwise over
// the wire matrices, once per periodic direction. The layered matrices
// form a block-circulant system over the copy shift, so the layer with
// shift m must occupy transform slot m mod nFourier for the per-slot
// inversion to decouple the copies. The inverse pass divides by the
// term count so that a round trip is the identity.
func (c *Cell) fourierLayers(inverse bool) {
	if (!c.fperx && !c.fpery) || c.nFourier < 2 {
		return
	}
	bin := func(m int) int {
		if m < 0 {
			return m + c.nFourier
		}
		return m % c.nFourier
	}
	nw := len(c.w)
	fft := fourier.NewCmplxFFT(c.nFourier)
	buf := make([]complex128, c.nFourier)
	out := make([]complex128, c.nFourier)
	norm := complex(float64(c.nFourier), 0)

	if c.fpery {
		for mx := c.mxmin; mx <= c.mxmax; mx++ {
			for i := 0; i < nw; i++ {
				for j := 0; j < nw; j++ {
					for my := c.mymin; my <= c.mymax; my++ {
						buf[bin(my)] = c.layer(mx, my).sigmat[i][j]
					}
					if inverse {
						fft.Sequence(out, buf)
						for my := c.mymin; my <= c.mymax; my++ {
							c.layer(mx, my).sigmat[i][j] = out[bin(my)] / norm
						}
					} else {
						fft.Coefficients(out, buf)
						for my := c.mymin; my <= c.mymax; my++ {
							c.layer(mx, my).sigmat[i][j] = out[bin(my)]
						}
					}
				}
			}
		}
	}
	if c.fperx {
		for my := c.mymin; my <= c.mymax; my++ {
			for i := 0; i < nw; i++ {
				for j := 0; j < nw; j++ {
					for mx := c.mxmin; mx <= c.mxmax; mx++ {
						buf[bin(mx)] = c.layer(mx, my).sigmat[i][j]
					}
					if inverse {
						fft.Sequence(out, buf)
						for mx := c.mxmin; mx <= c.mxmax; mx++ {
							c.layer(mx, my).sigmat[i][j] = out[bin(mx)] / norm
						}
					} else {
						fft.Coefficients(out, buf)
						for mx := c.mxmin; mx <= c.mxmax; mx++ {
							c.layer(mx, my).sigmat[i][j] = out[bin(mx)]
						}
					}
				}
			}
		}
	}
}

// setupPlaneSignals computes the weighting field charges for the
// planes and the tube, plus the uniform background field corrections.
func (c *Cell) setupPlaneSignals() error {
	nw := len(c.w)
	for k := range c.sigLayers {
		l := &c.sigLayers[k]
		for ip := range l.qplane {
			l.qplane[ip] = make([]float64, nw)
		}
		// Charges for the first x plane, if present.
		if c.ynplan[0] {
			for i := 0; i < nw; i++ {
				var vw float64
				if c.ynplan[1] {
					vw = -(c.coplan[1] - c.w[i].x) / (c.coplan[1] - c.coplan[0])
				} else if c.perx {
					vw = -(c.coplan[0] + c.sx - c.w[i].x) / c.sx
				} else {
					vw = -1
				}
				for j := 0; j < nw; j++ {
					l.qplane[0][j] += real(l.sigmat[i][j]) * vw
				}
			}
		}
		// Charges for the second x plane.
		if c.ynplan[1] {
			for i := 0; i < nw; i++ {
				var vw float64
				if c.ynplan[0] {
					vw = -(c.coplan[0] - c.w[i].x) / (c.coplan[0] - c.coplan[1])
				} else if c.perx {
					vw = -(c.w[i].x - c.coplan[1] + c.sx) / c.sx
				} else {
					vw = -1
				}
				for j := 0; j < nw; j++ {
					l.qplane[1][j] += real(l.sigmat[i][j]) * vw
				}
			}
		}
		// Charges for the first y plane.
		if c.ynplan[2] {
			for i := 0; i < nw; i++ {
				var vw float64
				if c.ynplan[3] {
					vw = -(c.coplan[3] - c.w[i].y) / (c.coplan[3] - c.coplan[2])
				} else if c.pery {
					vw = -(c.coplan[2] + c.sy - c.w[i].y) / c.sy
				} else {
					vw = -1
				}
				for j := 0; j < nw; j++ {
					l.qplane[2][j] += real(l.sigmat[i][j]) * vw
				}
			}
		}
		// Charges for the second y plane.
		if c.ynplan[3] {
			for i := 0; i < nw; i++ {
				var vw float64
				if c.ynplan[2] {
					vw = -(c.coplan[2] - c.w[i].y) / (c.coplan[2] - c.coplan[3])
				} else if c.pery {
					vw = -(c.w[i].y - c.coplan[3] + c.sy) / c.sy
				} else {
					vw = -1
				}
				for j := 0; j < nw; j++ {
					l.qplane[3][j] += real(l.sigmat[i][j]) * vw
				}
			}
		}
		// Charges for the tube.
		if c.tube {
			for i := 0; i < nw; i++ {
				for j := 0; j < nw; j++ {
					l.qplane[4][i] -= real(l.sigmat[i][j])
				}
			}
		}
	}

	// Background weighting fields, first in x.
	switch {
	case c.ynplan[0] && c.ynplan[1]:
		c.planes[0].ewxcor = 1 / (c.coplan[1] - c.coplan[0])
		c.planes[1].ewxcor = 1 / (c.coplan[0] - c.coplan[1])
	case c.ynplan[0] && c.perx:
		c.planes[0].ewxcor = 1 / c.sx
		c.planes[1].ewxcor = 0
	case c.ynplan[1] && c.perx:
		c.planes[0].ewxcor = 0
		c.planes[1].ewxcor = -1 / c.sx
	default:
		c.planes[0].ewxcor = 0
		c.planes[1].ewxcor = 0
	}
	c.planes[2].ewxcor, c.planes[3].ewxcor, c.planes[4].ewxcor = 0, 0, 0
	// Next also in y.
	c.planes[0].ewycor, c.planes[1].ewycor = 0, 0
	switch {
	case c.ynplan[2] && c.ynplan[3]:
		c.planes[2].ewycor = 1 / (c.coplan[3] - c.coplan[2])
		c.planes[3].ewycor = 1 / (c.coplan[2] - c.coplan[3])
	case c.ynplan[2] && c.pery:
		c.planes[2].ewycor = 1 / c.sy
		c.planes[3].ewycor = 0
	case c.ynplan[3] && c.pery:
		c.planes[2].ewycor = 0
		c.planes[3].ewycor = -1 / c.sy
	default:
		c.planes[2].ewycor = 0
		c.planes[3].ewycor = 0
	}
	// The tube has no correction field.
	c.planes[4].ewycor = 0
	return nil
}

// iprA00 fills the (mx, my) layer of the signal matrix for cells
// reduced to type A.
func (c *Cell) iprA00(mx, my int, l *sigLayer) {
	dx := float64(mx) * c.sx
	dy := float64(my) * c.sy
	for i := range c.w {
		// Diagonal terms.
		var aa float64
		if dx != 0 || dy != 0 {
			aa = dx*dx + dy*dy
		} else {
			aa = 0.25 * c.w[i].d * c.w[i].d
		}
		// Take care of single equipotential planes.
		if c.ynplax {
			xx := c.w[i].x - c.coplax
			aa /= 2*xx*xx + dy*dy
		}
		if c.ynplay {
			yy := c.w[i].y - c.coplay
			aa /= 2*yy*yy + dx*dx
		}
		// Take care of pairs of equipotential planes.
		if c.ynplax && c.ynplay {
			xx := c.w[i].x - c.coplax
			yy := c.w[i].y - c.coplay
			aa *= 4 * (xx*xx + yy*yy)
		}
		l.sigmat[i][i] = complex(-0.5*math.Log(aa), 0)
		for j := i + 1; j < len(c.w); j++ {
			dxx := c.w[i].x + dx - c.w[j].x
			dyy := c.w[i].y + dy - c.w[j].y
			aa = dxx*dxx + dyy*dyy
			if c.ynplax {
				xm := 2*c.coplax - c.w[i].x - dx - c.w[j].x
				aa /= xm*xm + dyy*dyy
			}
			if c.ynplay {
				ym := 2*c.coplay - c.w[i].y - dy - c.w[j].y
				aa /= dxx*dxx + ym*ym
			}
			if c.ynplax && c.ynplay {
				xm := 2*c.coplax - c.w[i].x - dx - c.w[j].x
				ym := 2*c.coplay - c.w[i].y - dy - c.w[j].y
				aa *= xm*xm + ym*ym
			}
			l.sigmat[i][j] = complex(-0.5*math.Log(aa), 0)
			l.sigmat[j][i] = l.sigmat[i][j]
		}
	}
}

// iprB2X fills the my-th layer of the signal matrix for cells reduced
// to type B2X.
func (c *Cell) iprB2X(my int, l *sigLayer) {
	c.b2sin = make([]float64, len(c.w))
	dy := float64(my) * c.sy
	halfPi := 0.5 * math.Pi
	for i := range c.w {
		xx := (math.Pi / c.sx) * (c.w[i].x - c.coplan[0])
		var aa float64
		if dy != 0 {
			s := math.Sinh(math.Pi*dy/c.sx) / math.Sin(xx)
			aa = s * s
		} else {
			s := (0.25 * c.w[i].d * math.Pi / c.sx) / math.Sin(xx)
			aa = s * s
		}
		// A plane at constant y acts as a mirror (no dy in this case).
		if c.ynplay {
			yymirr := (math.Pi / c.sx) * (c.w[i].y - c.coplay)
			if math.Abs(yymirr) <= 20 {
				sinhy := math.Sinh(yymirr)
				sinxx := math.Sin(xx)
				aa *= (sinhy*sinhy + sinxx*sinxx) / (sinhy * sinhy)
			}
		}
		l.sigmat[i][i] = complex(-0.5*math.Log(aa), 0)
		for j := i + 1; j < len(c.w); j++ {
			yy := halfPi * (c.w[i].y + dy - c.w[j].y) / c.sx
			xx = halfPi * (c.w[i].x - c.w[j].x) / c.sx
			xxneg := halfPi * (c.w[i].x + c.w[j].x - 2*c.coplan[0]) / c.sx
			if math.Abs(yy) <= 20 {
				sinhy := math.Sinh(yy)
				sinxx := math.Sin(xx)
				sinxxneg := math.Sin(xxneg)
				aa = (sinhy*sinhy + sinxx*sinxx) /
					(sinhy*sinhy + sinxxneg*sinxxneg)
			} else {
				aa = 1
			}
			if c.ynplay {
				yymirr := halfPi * (c.w[i].y + c.w[j].y - 2*c.coplay) / c.sx
				if math.Abs(yymirr) <= 20 {
					sinhy := math.Sinh(yymirr)
					sinxx := math.Sin(xx)
					sinxxneg := math.Sin(xxneg)
					aa *= (sinhy*sinhy + sinxxneg*sinxxneg) /
						(sinhy*sinhy + sinxx*sinxx)
				}
			}
			l.sigmat[i][j] = complex(-0.5*math.Log(aa), 0)
			l.sigmat[j][i] = l.sigmat[i][j]
		}
		c.b2sin[i] = math.Sin(math.Pi * (c.coplan[0] - c.w[i].x) / c.sx)
	}
}

// iprB2Y fills the mx-th layer of the signal matrix for cells reduced
// to type B2Y.
func (c *Cell) iprB2Y(mx int, l *sigLayer) {
	c.b2sin = make([]float64, len(c.w))
	dx := float64(mx) * c.sx
	halfPi := 0.5 * math.Pi
	for i := range c.w {
		yy := (math.Pi / c.sy) * (c.w[i].y - c.coplan[2])
		var aa float64
		if dx != 0 {
			s := math.Sinh(math.Pi*dx/c.sy) / math.Sin(yy)
			aa = s * s
		} else {
			s := (0.25 * c.w[i].d * math.Pi / c.sy) / math.Sin(yy)
			aa = s * s
		}
		// A plane at constant x acts as a mirror (no dx in this case).
		if c.ynplax {
			xxmirr := (math.Pi / c.sy) * (c.w[i].x - c.coplax)
			if math.Abs(xxmirr) <= 20 {
				sinhx := math.Sinh(xxmirr)
				sinyy := math.Sin(yy)
				aa *= (sinhx*sinhx + sinyy*sinyy) / (sinhx * sinhx)
			}
		}
		l.sigmat[i][i] = complex(-0.5*math.Log(aa), 0)
		for j := i + 1; j < len(c.w); j++ {
			xx := halfPi * (c.w[i].x + dx - c.w[j].x) / c.sy
			yy = halfPi * (c.w[i].y - c.w[j].y) / c.sy
			yyneg := halfPi * (c.w[i].y + c.w[j].y - 2*c.coplan[2]) / c.sy
			if math.Abs(xx) <= 20 {
				sinhx := math.Sinh(xx)
				sinyy := math.Sin(yy)
				sinyyneg := math.Sin(yyneg)
				aa = (sinhx*sinhx + sinyy*sinyy) /
					(sinhx*sinhx + sinyyneg*sinyyneg)
			} else {
				aa = 1
			}
			if c.ynplax {
				xxmirr := halfPi * (c.w[i].x + c.w[j].x - 2*c.coplax) / c.sy
				if math.Abs(xxmirr) <= 20 {
					sinhx := math.Sinh(xxmirr)
					sinyy := math.Sin(yy)
					sinyyneg := math.Sin(yyneg)
					aa *= (sinhx*sinhx + sinyyneg*sinyyneg) /
						(sinhx*sinhx + sinyy*sinyy)
				}
			}
			l.sigmat[i][j] = complex(-0.5*math.Log(aa), 0)
			l.sigmat[j][i] = l.sigmat[i][j]
		}
		c.b2sin[i] = math.Sin(math.Pi * (c.coplan[2] - c.w[i].y) / c.sy)
	}
}

// iprC2X fills the signal matrix for cells reduced to type C2X, where
// image charges alternate in sign along x.
func (c *Cell) iprC2X(l *sigLayer) {
	for i := range c.w {
		cx := c.coplax - c.sx*math.Round((c.coplax-c.w[i].x)/c.sx)
		for j := range c.w {
			temp := 0.0
			if c.mode == 0 {
				temp = (c.w[i].x - cx) * (c.w[j].x - cx) * 2 * math.Pi / (c.sx * c.sy)
			}
			if i == j {
				l.sigmat[i][i] = complex(
					c.ph2Lim(0.5*c.w[i].d)-c.ph2(2*(c.w[i].x-cx), 0)-temp, 0)
			} else {
				l.sigmat[i][j] = complex(
					c.ph2(c.w[i].x-c.w[j].x, c.w[i].y-c.w[j].y)-
						c.ph2(c.w[i].x+c.w[j].x-2*cx, c.w[i].y-c.w[j].y)-temp, 0)
			}
		}
	}
}

// iprC2Y fills the signal matrix for cells reduced to type C2Y, where
// image charges alternate in sign along y.
func (c *Cell) iprC2Y(l *sigLayer) {
	for i := range c.w {
		cy := c.coplay - c.sy*math.Round((c.coplay-c.w[i].y)/c.sy)
		for j := range c.w {
			temp := 0.0
			if c.mode == 1 {
				temp = (c.w[i].y - cy) * (c.w[j].y - cy) * 2 * math.Pi / (c.sx * c.sy)
			}
			if i == j {
				l.sigmat[i][i] = complex(
					c.ph2Lim(0.5*c.w[i].d)-c.ph2(0, 2*(c.w[i].y-cy))-temp, 0)
			} else {
				l.sigmat[i][j] = complex(
					c.ph2(c.w[i].x-c.w[j].x, c.w[i].y-c.w[j].y)-
						c.ph2(c.w[i].x-c.w[j].x, c.w[i].y+c.w[j].y-2*cy)-temp, 0)
			}
		}
	}
}

// iprC30 fills the signal matrix for type C30 cells. The signal matrix
// equals the capacitance matrix here, except for the gauge terms.
func (c *Cell) iprC30(l *sigLayer) {
	for i := range c.w {
		cx := c.coplax - c.sx*math.Round((c.coplax-c.w[i].x)/c.sx)
		cy := c.coplay - c.sy*math.Round((c.coplay-c.w[i].y)/c.sy)
		for j := range c.w {
			if i == j {
				l.sigmat[i][i] = complex(
					c.ph2Lim(0.5*c.w[i].d)-
						c.ph2(0, 2*(c.w[i].y-cy))-
						c.ph2(2*(c.w[i].x-cx), 0)+
						c.ph2(2*(c.w[i].x-cx), 2*(c.w[i].y-cy)), 0)
			} else {
				l.sigmat[i][j] = complex(
					c.ph2(c.w[i].x-c.w[j].x, c.w[i].y-c.w[j].y)-
						c.ph2(c.w[i].x-c.w[j].x, c.w[i].y+c.w[j].y-2*cy)-
						c.ph2(c.w[i].x+c.w[j].x-2*cx, c.w[i].y-c.w[j].y)+
						c.ph2(c.w[i].x+c.w[j].x-2*cx, c.w[i].y+c.w[j].y-2*cy), 0)
			}
		}
	}
}

// iprD10 fills the signal matrix for round-tube cells.
func (c *Cell) iprD10(l *sigLayer) {
	r2 := c.cotube * c.cotube
	for i := range c.w {
		l.sigmat[i][i] = complex(
			-math.Log(0.5*c.w[i].d/
				(c.cotube-(c.w[i].x*c.w[i].x+c.w[i].y*c.w[i].y)/c.cotube)), 0)
		zi := complex(c.w[i].x, c.w[i].y)
		for j := i + 1; j < len(c.w); j++ {
			zj := complex(c.w[j].x, c.w[j].y)
			l.sigmat[i][j] = complex(
				-math.Log(cmplx.Abs(complex(1/c.cotube, 0)*(zi-zj)/
					(1-cmplx.Conj(zi)*zj/complex(r2, 0)))), 0)
			l.sigmat[j][i] = l.sigmat[i][j]
		}
	}
}

// iprD30 fills the signal matrix for polygonal-tube cells, recomputing
// the wire images under the conformal map to recover the derivative.
func (c *Cell) iprD30(l *sigLayer) {
	c.wmap = make([]complex128, len(c.w))
	for i := range c.w {
		wm, wd := c.conformalMap(complex(c.w[i].x, c.w[i].y) / complex(c.cotube, 0))
		c.wmap[i] = wm
		abs := cmplx.Abs(wm)
		l.sigmat[i][i] = complex(
			-math.Log(cmplx.Abs(complex(0.5*c.w[i].d/c.cotube, 0)*wd/
				complex(1-abs*abs, 0))), 0)
		for j := 0; j < i; j++ {
			l.sigmat[i][j] = complex(
				-math.Log(cmplx.Abs((c.wmap[i]-c.wmap[j])/
					(1-cmplx.Conj(c.wmap[i])*c.wmap[j]))), 0)
			l.sigmat[j][i] = l.sigmat[i][j]
		}
	}
}
