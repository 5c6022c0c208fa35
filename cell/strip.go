package cell

import "math"

// stripField evaluates the two-dimensional weighting field of an
// infinitely long strip of halfwidth w facing a gap g, in strip-local
// coordinates with xw along the strip pitch and yw into the gap. ok is
// false outside the fiducial part of the map or on a singularity.
func stripField(xw, yw, w, g float64, opt bool) (ewx, ewy, volt float64, ok bool) {
	if yw <= 0 || yw > g {
		return 0, 0, 0, false
	}
	s := math.Sin(math.Pi * yw / g)
	cc := math.Cos(math.Pi * yw / g)
	e1 := math.Exp(math.Pi * (w - xw) / g)
	e2 := math.Exp(-math.Pi * (w + xw) / g)
	ce12 := (cc - e1) * (cc - e1)
	ce22 := (cc - e2) * (cc - e2)
	if cc == e1 || cc == e2 {
		return 0, 0, 0, false
	}
	if opt {
		volt = (math.Atan((cc-e2)/s) - math.Atan((cc-e1)/s)) / math.Pi
	}
	ewx = (s / g) * (e1/(ce12+s*s) - e2/(ce22+s*s))
	ewy = ((cc/(cc-e2)+s*s/ce22)/(1+s*s/ce22) -
		(cc/(cc-e1)+s*s/ce12)/(1+s*s/ce12)) / g
	return ewx, ewy, volt, true
}

// wfieldStripZ is the weighting field of a strip extruded along the
// wire direction, on plane ip, evaluated in the wire cross-section.
func (c *Cell) wfieldStripZ(xpos, ypos float64, ip, is int, opt bool) (ex, ey, volt float64) {
	st := c.planes[ip].strips2[is]
	// Transform to normalised coordinates.
	var xw, yw float64
	switch ip {
	case 0:
		xw = -ypos + (st.smin+st.smax)/2
		yw = xpos - c.coplan[ip]
	case 1:
		xw = ypos - (st.smin+st.smax)/2
		yw = c.coplan[ip] - xpos
	case 2:
		xw = xpos - (st.smin+st.smax)/2
		yw = ypos - c.coplan[ip]
	case 3:
		xw = -xpos + (st.smin+st.smax)/2
		yw = c.coplan[ip] - ypos
	default:
		return 0, 0, 0
	}
	w := math.Abs(st.smax-st.smin) / 2
	ewx, ewy, v, ok := stripField(xw, yw, w, st.gap, opt)
	if !ok {
		return 0, 0, 0
	}
	volt = v
	// Rotate the field back to the original coordinates.
	switch ip {
	case 0:
		ex, ey = ewy, -ewx
	case 1:
		ex, ey = -ewy, ewx
	case 2:
		ex, ey = ewx, ewy
	case 3:
		ex, ey = -ewx, -ewy
	}
	return ex, ey, volt
}

// wfieldStripXy is the weighting field of a strip running along the
// in-plane direction of plane ip, which makes the map a function of
// the z coordinate.
func (c *Cell) wfieldStripXy(xpos, ypos, zpos float64, ip, is int, opt bool) (ex, ey, ez, volt float64) {
	st := c.planes[ip].strips1[is]
	// Transform to normalised coordinates.
	var xw, yw float64
	switch ip {
	case 0:
		xw = -zpos + (st.smin+st.smax)/2
		yw = xpos - c.coplan[ip]
	case 1:
		xw = zpos - (st.smin+st.smax)/2
		yw = c.coplan[ip] - xpos
	case 2:
		xw = zpos - (st.smin+st.smax)/2
		yw = ypos - c.coplan[ip]
	case 3:
		xw = -zpos + (st.smin+st.smax)/2
		yw = c.coplan[ip] - ypos
	default:
		return 0, 0, 0, 0
	}
	w := math.Abs(st.smax-st.smin) / 2
	ewx, ewy, v, ok := stripField(xw, yw, w, st.gap, opt)
	if !ok {
		return 0, 0, 0, 0
	}
	volt = v
	// Rotate the field back to the original coordinates.
	switch ip {
	case 0:
		ex, ez = ewy, -ewx
	case 1:
		ex, ez = -ewy, ewx
	case 2:
		ey, ez = ewy, ewx
	case 3:
		ey, ez = -ewy, -ewx
	}
	return ex, ey, ez, volt
}

// wfieldPixel is the weighting field of a rectangular pad in a plane
// condenser, after W. Riegler and G. Aglieri Rinella, Nucl. Instr.
// Meth. A 767 (2014) 267. The image series is truncated once the
// remainder drops below a fixed error bound.
func (c *Cell) wfieldPixel(xpos, ypos, zpos float64, ip, is int, opt bool) (ex, ey, ez, volt float64) {
	px := c.planes[ip].pixels[is]
	d := px.gap
	// Pixel centre and widths.
	ps := 0.5 * (px.smin + px.smax)
	pz := 0.5 * (px.zmin + px.zmax)
	wx := px.smax - px.smin
	wy := px.zmax - px.zmin
	// Transform to standard coordinates.
	var x, y, z float64
	switch ip {
	case 0:
		x = ypos - ps
		y = zpos - pz
		z = xpos - c.coplan[ip]
	case 1:
		x = ypos - ps
		y = -zpos + pz
		z = -xpos + c.coplan[ip]
	case 2:
		x = xpos - ps
		y = -zpos + pz
		z = ypos - c.coplan[ip]
	case 3:
		x = xpos - ps
		y = zpos - pz
		z = -ypos + c.coplan[ip]
	default:
		return 0, 0, 0, 0
	}
	// Behind the pad plane the map vanishes.
	if z <= 0 {
		return 0, 0, 0, 0
	}

	x1 := x - wx/2
	x2 := x + wx/2
	y1 := y - wy/2
	y2 := y + wy/2
	x1s := x1 * x1
	x2s := x2 * x2
	y1s := y1 * y1
	y2s := y2 * y2

	// Number of image terms needed for a sufficiently small error.
	const maxError = 1e-5
	d3 := d * d * d
	nz := int(math.Ceil(math.Sqrt(wx * wy / (8 * math.Pi * d3 * maxError))))
	nx := int(math.Ceil(math.Sqrt(wy * z / (4 * math.Pi * d3 * maxError))))
	ny := int(math.Ceil(math.Sqrt(wx * z / (4 * math.Pi * d3 * maxError))))
	nn := max(nz, max(nx, ny))
	for i := 1; i <= nn; i++ {
		u1 := 2*float64(i)*d - z
		u2 := 2*float64(i)*d + z
		u1s := u1 * u1
		u2s := u2 * u2
		u1x1y1 := math.Sqrt(x1s + y1s + u1s)
		u1x1y2 := math.Sqrt(x1s + y2s + u1s)
		u1x2y1 := math.Sqrt(x2s + y1s + u1s)
		u1x2y2 := math.Sqrt(x2s + y2s + u1s)
		u2x1y1 := math.Sqrt(x1s + y1s + u2s)
		u2x1y2 := math.Sqrt(x1s + y2s + u2s)
		u2x2y1 := math.Sqrt(x2s + y1s + u2s)
		u2x2y2 := math.Sqrt(x2s + y2s + u2s)

		if i <= nx {
			ex -= u1*y1/((u1s+x2s)*u1x2y1) - u1*y1/((u1s+x1s)*u1x1y1) +
				u1*y2/((u1s+x1s)*u1x1y2) - u1*y2/((u1s+x2s)*u1x2y2)
			ex += u2*y1/((u2s+x2s)*u2x2y1) - u2*y1/((u2s+x1s)*u2x1y1) +
				u2*y2/((u2s+x1s)*u2x1y2) - u2*y2/((u2s+x2s)*u2x2y2)
		}
		if i <= ny {
			ey -= u1*x1/((u1s+y2s)*u1x1y2) - u1*x1/((u1s+y1s)*u1x1y1) +
				u1*x2/((u1s+y1s)*u1x2y1) - u1*x2/((u1s+y2s)*u1x2y2)
			ey += u2*x1/((u2s+y2s)*u2x1y2) - u2*x1/((u2s+y1s)*u2x1y1) +
				u2*x2/((u2s+y1s)*u2x2y1) - u2*x2/((u2s+y2s)*u2x2y2)
		}
		if i <= nz {
			ez += x1*y1*(x1s+y1s+2*u1s)/((x1s+u1s)*(y1s+u1s)*u1x1y1) +
				x2*y2*(x2s+y2s+2*u1s)/((x2s+u1s)*(y2s+u1s)*u1x2y2) -
				x1*y2*(x1s+y2s+2*u1s)/((x1s+u1s)*(y2s+u1s)*u1x1y2) -
				x2*y1*(x2s+y1s+2*u1s)/((x2s+u1s)*(y1s+u1s)*u1x2y1)
			ez += x1*y1*(x1s+y1s+2*u2s)/((x1s+u2s)*(y1s+u2s)*u2x1y1) +
				x2*y2*(x2s+y2s+2*u2s)/((x2s+u2s)*(y2s+u2s)*u2x2y2) -
				x1*y2*(x1s+y2s+2*u2s)/((x1s+u2s)*(y2s+u2s)*u2x1y2) -
				x2*y1*(x2s+y1s+2*u2s)/((x2s+u2s)*(y1s+u2s)*u2x2y1)
		}
		if !opt {
			continue
		}
		volt -= math.Atan(x1*y1/(u1*u1x1y1)) + math.Atan(x2*y2/(u1*u1x2y2)) -
			math.Atan(x1*y2/(u1*u1x1y2)) - math.Atan(x2*y1/(u1*u1x2y1))
		volt += math.Atan(x1*y1/(u2*u2x1y1)) + math.Atan(x2*y2/(u2*u2x2y2)) -
			math.Atan(x1*y2/(u2*u2x1y2)) - math.Atan(x2*y1/(u2*u2x2y1))
	}

	// Direct terms.
	zs := z * z
	x1y1 := math.Sqrt(x1s + y1s + zs)
	x1y2 := math.Sqrt(x1s + y2s + zs)
	x2y1 := math.Sqrt(x2s + y1s + zs)
	x2y2 := math.Sqrt(x2s + y2s + zs)
	ex += z*y1/((zs+x2s)*x2y1) - z*y1/((zs+x1s)*x1y1) +
		z*y2/((zs+x1s)*x1y2) - z*y2/((zs+x2s)*x2y2)
	ey += z*x1/((zs+y2s)*x1y2) - z*x1/((zs+y1s)*x1y1) +
		z*x2/((zs+y1s)*x2y1) - z*x2/((zs+y2s)*x2y2)
	ez += x1*y1*(x1s+y1s+2*zs)/((x1s+zs)*(y1s+zs)*x1y1) +
		x2*y2*(x2s+y2s+2*zs)/((x2s+zs)*(y2s+zs)*x2y2) -
		x1*y2*(x1s+y2s+2*zs)/((x1s+zs)*(y2s+zs)*x1y2) -
		x2*y1*(x2s+y1s+2*zs)/((x2s+zs)*(y1s+zs)*x2y1)

	ex /= 2 * math.Pi
	ey /= 2 * math.Pi
	ez /= 2 * math.Pi
	if opt {
		volt += math.Atan(x1*y1/(z*x1y1)) + math.Atan(x2*y2/(z*x2y2)) -
			math.Atan(x1*y2/(z*x1y2)) - math.Atan(x2*y1/(z*x2y1))
		volt /= 2 * math.Pi
	}

	// Rotate the field back to the original coordinates.
	fx, fy, fz := ex, ey, ez
	switch ip {
	case 0:
		ex, ey, ez = fz, fx, fy
	case 1:
		ex, ey, ez = -fz, fx, -fy
	case 2:
		ex, ey, ez = fx, fz, -fy
	case 3:
		ex, ey, ez = fx, -fz, fy
	}
	return ex, ey, ez, volt
}
