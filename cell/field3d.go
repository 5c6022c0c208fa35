package cell

import (
	"log"
	"math"

	"github.com/anodewire/chamber/internal/numerics"
)

// field3dA00 adds the field of the registered point charges and their
// mirror images for cells with at most one plane per direction.
func (c *Cell) field3dA00(xpos, ypos, zpos float64) (ex, ey, ez, volt float64) {
	for i := range c.ch3d {
		// Calculate the field in case there are no planes.
		dx := xpos - c.ch3d[i].x
		dy := ypos - c.ch3d[i].y
		dz := zpos - c.ch3d[i].z
		r := math.Sqrt(dx*dx + dy*dy + dz*dz)
		if math.Abs(r) < small {
			continue
		}
		r3 := r * r * r
		exhelp := -dx / r3
		eyhelp := -dy / r3
		ezhelp := -dz / r3
		vhelp := 1 / r
		var dxm, dym float64
		// Take care of a plane at constant x.
		if c.ynplax {
			dxm = c.ch3d[i].x + xpos - 2*c.coplax
			rplan := math.Sqrt(dxm*dxm + dy*dy)
			if math.Abs(rplan) < small {
				continue
			}
			rplan3 := rplan * rplan * rplan
			exhelp += dxm / rplan3
			eyhelp += dy / rplan3
			ezhelp += dz / rplan3
			vhelp -= 1 / rplan
		}
		// Take care of a plane at constant y.
		if c.ynplay {
			dym = c.ch3d[i].y + ypos - 2*c.coplay
			rplan := math.Sqrt(dx*dx + dym*dym)
			if math.Abs(rplan) < small {
				continue
			}
			rplan3 := rplan * rplan * rplan
			exhelp += dx / rplan3
			eyhelp += dym / rplan3
			ezhelp += dz / rplan3
			vhelp -= 1 / rplan
		}
		// Take care of pairs of planes.
		if c.ynplax && c.ynplay {
			rplan := math.Sqrt(dxm*dxm + dym*dym)
			if math.Abs(rplan) < small {
				continue
			}
			rplan3 := rplan * rplan * rplan
			exhelp -= dxm / rplan3
			eyhelp -= dym / rplan3
			ezhelp -= dz / rplan3
			vhelp += 1 / rplan
		}
		ex -= c.ch3d[i].e * exhelp
		ey -= c.ch3d[i].e * eyhelp
		ez -= c.ch3d[i].e * ezhelp
		volt += c.ch3d[i].e * vhelp
	}
	return ex, ey, ez, volt
}

// field3dB2X adds point charges between two plates at constant x. Far
// from the charge the modified Bessel series converges fast; nearby the
// image-charge sum is used instead.
func (c *Cell) field3dB2X(xpos, ypos, zpos float64) (ex, ey, ez, volt float64) {
	const rcut = 1.0
	for i := range c.ch3d {
		// Skip wires that are on the charge.
		if xpos == c.ch3d[i].x && ypos == c.ch3d[i].y && zpos == c.ch3d[i].z {
			continue
		}
		dx := xpos - c.ch3d[i].x
		dy := ypos - c.ch3d[i].y
		dz := zpos - c.ch3d[i].z
		dxm := xpos + c.ch3d[i].x - 2*c.coplax
		var exsum, eysum, ezsum, vsum float64
		if dy*dy+dz*dz > (rcut*2*c.sx)*(rcut*2*c.sx) {
			// Far away zone: modified Bessel function series.
			rho := math.Sqrt(dy*dy + dz*dz)
			for j := 1; j <= c.nTermBessel; j++ {
				rr := math.Pi * float64(j) * rho / c.sx
				zzp := math.Pi * float64(j) * dx / c.sx
				zzn := math.Pi * float64(j) * dxm / c.sx
				k0r := numerics.BesselK0(rr)
				k1r := numerics.BesselK1(rr)
				czzp := math.Cos(zzp)
				czzn := math.Cos(zzn)
				vsum += (1 / c.sx) * k0r * (czzp - czzn)
				err := (2 * math.Pi * float64(j) / (c.sx * c.sx)) * k1r * (czzp - czzn)
				ezz := (2 * math.Pi * float64(j) / (c.sx * c.sx)) * k0r *
					(math.Sin(zzp) - math.Sin(zzn))
				exsum += ezz
				eysum += err * dy / rho
				ezsum += err * dz / rho
			}
		} else {
			// Direct image-charge summing.
			for j := 0; j <= c.nTermPoly; j++ {
				sj := float64(j) * 2 * c.sx
				rr1 := math.Sqrt((dx+sj)*(dx+sj) + dy*dy + dz*dz)
				rr2 := math.Sqrt((dx-sj)*(dx-sj) + dy*dy + dz*dz)
				rm1 := math.Sqrt((dxm-sj)*(dxm-sj) + dy*dy + dz*dz)
				rm2 := math.Sqrt((dxm+sj)*(dxm+sj) + dy*dy + dz*dz)
				rr13 := rr1 * rr1 * rr1
				rm13 := rm1 * rm1 * rm1
				// First term: only a charge and a mirror charge.
				if j == 0 {
					vsum = 1/rr1 - 1/rm1
					exsum = dx/rr13 - dxm/rm13
					eysum = dy * (1/rr13 - 1/rm13)
					ezsum = dz * (1/rr13 - 1/rm13)
					continue
				}
				rr23 := rr2 * rr2 * rr2
				rm23 := rm2 * rm2 * rm2
				// Further terms: 2 charges and 2 mirror charges.
				vsum += 1/rr1 + 1/rr2 - 1/rm1 - 1/rm2
				exsum += (dx+sj)/rr13 + (dx-sj)/rr23 -
					(dxm-sj)/rm13 - (dxm+sj)/rm23
				eysum += dy * (1/rr13 + 1/rr23 - 1/rm13 - 1/rm23)
				ezsum += dz * (1/rr13 + 1/rr23 - 1/rm13 - 1/rm23)
			}
		}
		// Take care of a plane at constant y.
		if c.ynplay {
			dym := ypos + c.ch3d[i].y - 2*c.coplay
			if dym*dym+dz*dz > (rcut*2*c.sx)*(rcut*2*c.sx) {
				rho := math.Sqrt(dym*dym + dz*dz)
				for j := 1; j <= c.nTermBessel; j++ {
					rrm := math.Pi * float64(j) * rho / c.sx
					zzp := math.Pi * float64(j) * dx / c.sx
					zzn := math.Pi * float64(j) * dxm / c.sx
					k0rm := numerics.BesselK0(rrm)
					k1rm := numerics.BesselK1(rrm)
					czzp := math.Cos(zzp)
					czzn := math.Cos(zzn)
					vsum += (1 / c.sx) * k0rm * (czzp - czzn)
					err := (2 * math.Pi / (c.sx * c.sx)) * k1rm * (czzp - czzn)
					ezz := (2 * math.Pi / (c.sx * c.sx)) * k0rm *
						(math.Sin(zzp) - math.Sin(zzn))
					exsum += ezz
					eysum += err * dym / rho
					ezsum += err * dz / rho
				}
			} else {
				for j := 0; j <= c.nTermPoly; j++ {
					sj := float64(j) * 2 * c.sx
					rr1 := math.Sqrt((dx+sj)*(dx+sj) + dym*dym + dz*dz)
					rr2 := math.Sqrt((dx-sj)*(dx-sj) + dym*dym + dz*dz)
					rm1 := math.Sqrt((dxm-sj)*(dxm-sj) + dym*dym + dz*dz)
					rm2 := math.Sqrt((dxm+sj)*(dxm+sj) + dym*dym + dz*dz)
					rr13 := rr1 * rr1 * rr1
					rm13 := rm1 * rm1 * rm1
					if j == 0 {
						vsum += -1/rr1 + 1/rm1
						exsum += -dx/rr13 + dxm/rm13
						eysum += -dym * (1/rr13 - 1/rm13)
						ezsum += -dz * (1/rr13 - 1/rm13)
						continue
					}
					rr23 := rr2 * rr2 * rr2
					rm23 := rm2 * rm2 * rm2
					vsum += -1/rr1 - 1/rr2 + 1/rm1 + 1/rm2
					exsum += -(dx+sj)/rr13 - (dx-sj)/rr23 +
						(dxm-sj)/rm13 + (dxm+sj)/rm23
					eysum += -dym * (1/rr13 + 1/rr23 - 1/rm13 - 1/rm23)
					ezsum += -dz * (1/rr13 + 1/rr23 - 1/rm13 - 1/rm23)
				}
			}
		}
		ex += c.ch3d[i].e * exsum
		ey += c.ch3d[i].e * eysum
		ez += c.ch3d[i].e * ezsum
		volt += c.ch3d[i].e * vsum
	}
	return ex, ey, ez, volt
}

// field3dB2Y adds point charges between two plates at constant y.
func (c *Cell) field3dB2Y(xpos, ypos, zpos float64) (ex, ey, ez, volt float64) {
	const rcut = 1.0
	for i := range c.ch3d {
		if xpos == c.ch3d[i].x && ypos == c.ch3d[i].y && zpos == c.ch3d[i].z {
			continue
		}
		dx := xpos - c.ch3d[i].x
		dy := ypos - c.ch3d[i].y
		dz := zpos - c.ch3d[i].z
		dym := ypos + c.ch3d[i].y - 2*c.coplay
		var exsum, eysum, ezsum, vsum float64
		if dx*dx+dz*dz > (rcut*2*c.sy)*(rcut*2*c.sy) {
			// Far away zone: modified Bessel function series.
			rho := math.Sqrt(dx*dx + dz*dz)
			for j := 1; j <= c.nTermBessel; j++ {
				rr := math.Pi * float64(j) * rho / c.sy
				zzp := math.Pi * float64(j) * dy / c.sy
				zzn := math.Pi * float64(j) * dym / c.sy
				k0r := numerics.BesselK0(rr)
				k1r := numerics.BesselK1(rr)
				czzp := math.Cos(zzp)
				czzn := math.Cos(zzn)
				vsum += (1 / c.sy) * k0r * (czzp - czzn)
				err := (2 * math.Pi * float64(j) / (c.sy * c.sy)) * k1r * (czzp - czzn)
				ezz := (2 * math.Pi * float64(j) / (c.sy * c.sy)) * k0r *
					(math.Sin(zzp) - math.Sin(zzn))
				exsum += err * dx / rho
				ezsum += err * dz / rho
				eysum += ezz
			}
		} else {
			for j := 0; j <= c.nTermPoly; j++ {
				sj := float64(j) * 2 * c.sy
				rr1 := math.Sqrt(dx*dx + dz*dz + (dy+sj)*(dy+sj))
				rr2 := math.Sqrt(dx*dx + dz*dz + (dy-sj)*(dy-sj))
				rm1 := math.Sqrt(dx*dx + dz*dz + (dym-sj)*(dym-sj))
				rm2 := math.Sqrt(dx*dx + dz*dz + (dym+sj)*(dym+sj))
				rr13 := rr1 * rr1 * rr1
				rm13 := rm1 * rm1 * rm1
				if j == 0 {
					vsum = 1/rr1 - 1/rm1
					exsum = dx * (1/rr13 - 1/rm13)
					ezsum = dz * (1/rr13 - 1/rm13)
					eysum = dy/rr13 - dym/rm13
					continue
				}
				rr23 := rr2 * rr2 * rr2
				rm23 := rm2 * rm2 * rm2
				vsum += 1/rr1 + 1/rr2 - 1/rm1 - 1/rm2
				exsum += dx * (1/rr13 + 1/rr23 - 1/rm13 - 1/rm23)
				ezsum += dz * (1/rr13 + 1/rr23 - 1/rm13 - 1/rm23)
				eysum += (dy+sj)/rr13 + (dy-sj)/rr23 -
					(dym-sj)/rm13 - (dym+sj)/rm23
			}
		}
		// Take care of a plane at constant x.
		if c.ynplax {
			dxm := xpos + c.ch3d[i].x - 2*c.coplax
			if dxm*dxm+dz*dz > (rcut*2*c.sy)*(rcut*2*c.sy) {
				rho := math.Sqrt(dxm*dxm + dz*dz)
				for j := 1; j <= c.nTermBessel; j++ {
					rrm := math.Pi * float64(j) * rho / c.sy
					zzp := math.Pi * float64(j) * dy / c.sy
					zzn := math.Pi * float64(j) * dym / c.sy
					k0rm := numerics.BesselK0(rrm)
					k1rm := numerics.BesselK1(rrm)
					czzp := math.Cos(zzp)
					czzn := math.Cos(zzn)
					vsum += (1 / c.sy) * k0rm * (czzp - czzn)
					err := (2 * math.Pi / (c.sy * c.sy)) * k1rm * (czzp - czzn)
					ezz := (2 * math.Pi / (c.sy * c.sy)) * k0rm *
						(math.Sin(zzp) - math.Sin(zzn))
					exsum += err * dxm / rho
					ezsum += err * dz / rho
					eysum += ezz
				}
			} else {
				for j := 0; j <= c.nTermPoly; j++ {
					sj := float64(j) * 2 * c.sy
					rr1 := math.Sqrt((dy+sj)*(dy+sj) + dxm*dxm + dz*dz)
					rr2 := math.Sqrt((dy-sj)*(dy-sj) + dxm*dxm + dz*dz)
					rm1 := math.Sqrt((dym-sj)*(dym-sj) + dxm*dxm + dz*dz)
					rm2 := math.Sqrt((dym+sj)*(dym+sj) + dxm*dxm + dz*dz)
					rr13 := rr1 * rr1 * rr1
					rm13 := rm1 * rm1 * rm1
					if j == 0 {
						vsum += -1/rr1 + 1/rm1
						exsum += -dxm * (1/rr13 - 1/rm13)
						ezsum += -dz * (1/rr13 - 1/rm13)
						eysum += -dy/rr13 + dym/rm13
						continue
					}
					rr23 := rr2 * rr2 * rr2
					rm23 := rm2 * rm2 * rm2
					vsum += -1/rr1 - 1/rr2 + 1/rm1 + 1/rm2
					exsum += -dxm * (1/rr13 + 1/rr23 - 1/rm13 - 1/rm23)
					ezsum += -dz * (1/rr13 + 1/rr23 - 1/rm13 - 1/rm23)
					eysum += -(dy+sj)/rr13 - (dy-sj)/rr23 +
						(dym-sj)/rm13 + (dym+sj)/rm23
				}
			}
		}
		ex += c.ch3d[i].e * exsum
		ey += c.ch3d[i].e * eysum
		ez += c.ch3d[i].e * ezsum
		volt += c.ch3d[i].e * vsum
	}
	return ex, ey, ez, volt
}

// field3dD10 adds point charges in a tube with one wire running down
// the centre, by conformally mapping the annulus onto a periodic strip.
func (c *Cell) field3dD10(xxpos, yypos, zzpos float64) (eex, eey, eez, volt float64) {
	const rcut = 1.0

	if len(c.w) < 1 {
		log.Printf("cell: inappropriate potential function for this cell")
		return 0, 0, 0, 0
	}

	// Define a periodicity and one plane in the mapped frame.
	ssx := math.Log(2 * c.cotube / c.w[0].d)
	cpl := math.Log(c.w[0].d / 2)

	// Transform the coordinates to the mapped frame.
	xpos := 0.5 * math.Log(xxpos*xxpos+yypos*yypos)
	ypos := math.Atan2(yypos, xxpos)
	zpos := zzpos

	var ex, ey, ez float64
	for i := range c.ch3d {
		for ii := -1; ii <= 1; ii++ {
			x3d := 0.5 * math.Log(c.ch3d[i].x*c.ch3d[i].x+c.ch3d[i].y*c.ch3d[i].y)
			y3d := math.Atan2(c.ch3d[i].y, c.ch3d[i].x+float64(ii)*2*math.Pi)
			z3d := c.ch3d[i].z
			dx := xpos - x3d
			dy := ypos - y3d
			dz := zpos - z3d
			dxm := xpos + x3d - 2*cpl
			// Skip wires that are on the charge.
			if xpos == x3d && ypos == y3d && zpos == z3d {
				continue
			}
			var exsum, eysum, ezsum, vsum float64
			if dy*dy+dz*dz > (rcut*2*ssx)*(rcut*2*ssx) {
				// Far away zone: modified Bessel function series.
				rho := math.Sqrt(dy*dy + dz*dz)
				for j := 1; j <= c.nTermBessel; j++ {
					rr := math.Pi * float64(j) * rho / ssx
					zzp := math.Pi * float64(j) * dx / ssx
					zzn := math.Pi * float64(j) * dxm / ssx
					k0r := numerics.BesselK0(rr)
					k1r := numerics.BesselK1(rr)
					czzp := math.Cos(zzp)
					czzn := math.Cos(zzn)
					vsum += (1 / ssx) * k0r * (czzp - czzn)
					err := (float64(j) * 2 * math.Pi / (ssx * ssx)) * k1r * (czzp - czzn)
					ezz := (float64(j) * 2 * math.Pi / (ssx * ssx)) * k0r *
						(math.Sin(zzp) - math.Sin(zzn))
					exsum += ezz
					eysum += err * dy / rho
					ezsum += err * dz / rho
				}
			} else {
				// Direct image-charge summing.
				for j := 0; j < c.nTermPoly; j++ {
					sj := float64(j) * 2 * ssx
					rr1 := math.Sqrt((dx+sj)*(dx+sj) + dy*dy + dz*dz)
					rr2 := math.Sqrt((dx-sj)*(dx-sj) + dy*dy + dz*dz)
					rm1 := math.Sqrt((dxm-sj)*(dxm-sj) + dy*dy + dz*dz)
					rm2 := math.Sqrt((dxm+sj)*(dxm+sj) + dy*dy + dz*dz)
					rr13 := rr1 * rr1 * rr1
					rm13 := rm1 * rm1 * rm1
					if j == 0 {
						vsum = 1/rr1 - 1/rm1
						exsum = dxm/rr13 - dxm/rm13
						eysum = dy * (1/rr13 - 1/rm13)
						ezsum = dz * (1/rr13 - 1/rm13)
						continue
					}
					rr23 := rr2 * rr2 * rr2
					rm23 := rm2 * rm2 * rm2
					vsum += 1/rr1 + 1/rr2 - 1/rm1 - 1/rm2
					exsum += (dx+sj)/rr13 + (dx-sj)/rr23 -
						(dxm-sj)/rm13 - (dxm+sj)/rm23
					eysum += dy * (1/rr13 + 1/rr23 - 1/rm13 - 1/rm23)
					ezsum += dz * (1/rr13 + 1/rr23 - 1/rm13 - 1/rm23)
				}
			}
			ex += c.ch3d[i].e * exsum
			ey += c.ch3d[i].e * eysum
			ez += c.ch3d[i].e * ezsum
		}
	}

	// Transform the field vectors back to Cartesian coordinates.
	eex = math.Exp(-xpos) * (ex*math.Cos(ypos) - ey*math.Sin(ypos))
	eey = math.Exp(-ypos) * (ex*math.Sin(ypos) + ey*math.Cos(ypos))
	eez = ez
	return eex, eey, eez, volt
}
