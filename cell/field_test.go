package cell

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wireAbovePlane is a single wire at x = 1 facing a cathode plane at
// x = 0, an A-type cell with one mirror image.
func wireAbovePlane(t *testing.T) *Cell {
	t.Helper()
	c := New()
	require.NoError(t, c.AddPlaneX(0, -500, "cath"))
	require.NoError(t, c.AddWire(1, 0, 0.002, 1000, "anode"))
	_, err := c.Prepare()
	require.NoError(t, err)
	return c
}

func TestFieldA00WirePlane(t *testing.T) {
	c := wireAbovePlane(t)

	// The plane is an exact equipotential.
	_, _, _, volt, status := c.ElectricFieldWithPotential(0, 0.3, 0)
	assert.Equal(t, StatusOK, status)
	assert.InDelta(t, -500.0, volt, 1e-9)

	// On the wire surface the potential approaches the wire voltage.
	_, _, _, volt, status = c.ElectricFieldWithPotential(1, 0.001, 0)
	assert.Equal(t, StatusOK, status)
	assert.InDelta(t, 1000.0, volt, 0.01)

	// Between plane and wire the field points towards the plane.
	ex, ey, ez, status := c.ElectricField(0.5, 0, 0)
	assert.Equal(t, StatusOK, status)
	assert.Less(t, ex, 0.0)
	assert.InDelta(t, 0.0, ey, 1e-12)
	assert.Zero(t, ez)

	// Inside the wire and behind the plane there is no field.
	_, _, _, volt, status = c.ElectricFieldWithPotential(1, 0, 0)
	assert.Equal(t, 1, status)
	assert.Equal(t, 1000.0, volt)
	_, _, _, volt, status = c.ElectricFieldWithPotential(-0.1, 0, 0)
	assert.Equal(t, StatusOutside, status)
	assert.Equal(t, -500.0, volt)
}

func TestFieldD10Analytic(t *testing.T) {
	const (
		rTube = 1.0
		vTube = -100.0
		dWire = 0.01
		vWire = 2000.0
	)
	c := New()
	require.NoError(t, c.AddTube(rTube, vTube, 0, "tube"))
	require.NoError(t, c.AddWire(0, 0, dWire, vWire, "anode"))
	_, err := c.Prepare()
	require.NoError(t, err)

	// For a single centred wire the potential is the textbook
	// logarithmic solution of the coaxial condenser.
	a := 0.5 * dWire
	lnRa := math.Log(rTube / a)
	for _, r := range []float64{0.05, 0.2, 0.5, 0.9} {
		want := vTube + (vWire-vTube)*math.Log(rTube/r)/lnRa
		ex, ey, ez, volt, status := c.ElectricFieldWithPotential(r, 0, 0)
		assert.Equal(t, StatusOK, status)
		assert.InDelta(t, want, volt, 1e-6)
		assert.InDelta(t, (vWire-vTube)/(lnRa*r), ex, 1e-6)
		assert.InDelta(t, 0.0, ey, 1e-9)
		assert.Zero(t, ez)
	}

	// The same field strength holds in any direction.
	ex, ey, _, status := c.ElectricField(0, 0.2, 0)
	assert.Equal(t, StatusOK, status)
	assert.InDelta(t, 0.0, ex, 1e-9)
	assert.InDelta(t, (vWire-vTube)/(lnRa*0.2), ey, 1e-6)

	// Inside the wire.
	_, _, _, volt, status := c.ElectricFieldWithPotential(0.001, 0, 0)
	assert.Equal(t, 1, status)
	assert.Equal(t, vWire, volt)

	// Outside the tube.
	_, _, _, volt, status = c.ElectricFieldWithPotential(1.5, 0, 0)
	assert.Equal(t, StatusOutside, status)
	assert.Equal(t, vTube, volt)
}

func TestFieldB1XPeriodicity(t *testing.T) {
	c := New()
	require.NoError(t, c.SetPeriodicityX(1))
	require.NoError(t, c.AddPlaneY(0, 0, "cath"))
	require.NoError(t, c.AddWire(0, 1, 0.002, 1000, "anode"))
	_, err := c.Prepare()
	require.NoError(t, err)

	ex0, ey0, _, v0, status := c.ElectricFieldWithPotential(0.23, 0.57, 0)
	require.Equal(t, StatusOK, status)
	ex1, ey1, _, v1, status := c.ElectricFieldWithPotential(3.23, 0.57, 0)
	require.Equal(t, StatusOK, status)
	assert.InDelta(t, ex0, ex1, 1e-9)
	assert.InDelta(t, ey0, ey1, 1e-9)
	assert.InDelta(t, v0, v1, 1e-9)

	// The cathode plane is an exact equipotential.
	_, _, _, v, status := c.ElectricFieldWithPotential(0.4, 0, 0)
	require.Equal(t, StatusOK, status)
	assert.InDelta(t, 0.0, v, 1e-9)
}

func TestFieldC10NeutralityAndPeriodicity(t *testing.T) {
	c := New()
	require.NoError(t, c.SetPeriodicityX(1))
	require.NoError(t, c.SetPeriodicityY(1))
	require.NoError(t, c.AddWire(0.25, 0.25, 0.01, 1000, "a"))
	require.NoError(t, c.AddWire(-0.25, -0.25, 0.01, -1000, "b"))
	_, err := c.Prepare()
	require.NoError(t, err)

	// Without planes or tube the net charge per cell must vanish.
	w0, err := c.WireAt(0)
	require.NoError(t, err)
	w1, err := c.WireAt(1)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, w0.Charge+w1.Charge, 1e-9)
	assert.Greater(t, w0.Charge, 0.0)

	// Fields repeat in both directions.
	ex0, ey0, _, v0, status := c.ElectricFieldWithPotential(0.13, 0.41, 0)
	require.Equal(t, StatusOK, status)
	ex1, ey1, _, v1, status := c.ElectricFieldWithPotential(1.13, 1.41, 0)
	require.Equal(t, StatusOK, status)
	assert.InDelta(t, ex0, ex1, 1e-8)
	assert.InDelta(t, ey0, ey1, 1e-8)
	assert.InDelta(t, v0, v1, 1e-8)
}

func TestFieldD20AngularPeriodicity(t *testing.T) {
	c := New()
	require.NoError(t, c.AddTube(1, 0, 0, "tube"))
	require.NoError(t, c.SetPeriodicityY(2*math.Pi/6))
	require.NoError(t, c.AddWire(0.5, 0, 0.01, 1000, "anode"))
	_, err := c.Prepare()
	require.NoError(t, err)
	require.Equal(t, "D2 ", c.CellTypeName())

	mag := func(phiDeg float64) float64 {
		x, y := polarToCartesian(0.8, phiDeg)
		ex, ey, _, status := c.ElectricField(x, y, 0)
		require.Equal(t, StatusOK, status)
		return math.Hypot(ex, ey)
	}
	assert.InDelta(t, mag(10), mag(70), 1e-9*math.Abs(mag(10)))
	assert.InDelta(t, mag(10), mag(130), 1e-9*math.Abs(mag(10)))
}

func TestFieldD30HexTube(t *testing.T) {
	const vWire = 1000.0
	c := New()
	require.NoError(t, c.AddTube(1, 0, 6, "tube"))
	require.NoError(t, c.AddWire(0, 0, 0.01, vWire, "anode"))
	_, err := c.Prepare()
	require.NoError(t, err)
	require.Equal(t, "D3 ", c.CellTypeName())

	// The potential near the wire surface approaches the wire voltage.
	_, _, _, volt, status := c.ElectricFieldWithPotential(0.005, 0.0005, 0)
	require.Equal(t, StatusOK, status)
	assert.InDelta(t, vWire, volt, 1.0)

	// A centred wire inherits the six-fold symmetry of the tube.
	magAt := func(phiDeg float64) float64 {
		x, y := polarToCartesian(0.4, phiDeg)
		ex, ey, _, status := c.ElectricField(x, y, 0)
		require.Equal(t, StatusOK, status)
		return math.Hypot(ex, ey)
	}
	m0 := magAt(15)
	assert.InDelta(t, m0, magAt(75), 1e-6*m0)
	assert.InDelta(t, m0, magAt(135), 1e-6*m0)

	// Outside the hexagon, but inside its circumscribed circle.
	_, _, _, status = c.ElectricField(0.99*math.Cos(math.Pi/6), 0.99*math.Sin(math.Pi/6), 0)
	assert.Equal(t, StatusOutside, status)
}

// TestFieldMatchesPotentialGradient checks E = -grad V by central
// differences of the potential, once per cell family.
func TestFieldMatchesPotentialGradient(t *testing.T) {
	tests := []struct {
		name  string
		typ   string
		build func(t *testing.T) *Cell
		x, y  float64
	}{
		{
			name: "wire and single plane",
			typ:  "A  ",
			build: func(t *testing.T) *Cell {
				c := New()
				require.NoError(t, c.AddPlaneX(0, -500, "cath"))
				require.NoError(t, c.AddWire(1, 0, 0.002, 1000, "anode"))
				return c
			},
			x: 0.5, y: 0.2,
		},
		{
			name: "x-periodic row above a y plane",
			typ:  "B1X",
			build: func(t *testing.T) *Cell {
				c := New()
				require.NoError(t, c.SetPeriodicityX(1))
				require.NoError(t, c.AddPlaneY(0, 0, "cath"))
				require.NoError(t, c.AddWire(0, 1, 0.002, 1000, "anode"))
				return c
			},
			x: 0.23, y: 0.57,
		},
		{
			name: "y-periodic row beside an x plane",
			typ:  "B1Y",
			build: func(t *testing.T) *Cell {
				c := New()
				require.NoError(t, c.SetPeriodicityY(1))
				require.NoError(t, c.AddPlaneX(0, 0, "cath"))
				require.NoError(t, c.AddWire(1, 0.3, 0.002, 1000, "anode"))
				return c
			},
			x: 0.5, y: 0.2,
		},
		{
			name: "wire between two x planes",
			typ:  "B2X",
			build: func(t *testing.T) *Cell {
				c := New()
				require.NoError(t, c.AddPlaneX(0, 0, "left"))
				require.NoError(t, c.AddPlaneX(1, 0, "right"))
				require.NoError(t, c.AddWire(0.5, 0, 0.002, 1000, "anode"))
				return c
			},
			x: 0.3, y: 0.2,
		},
		{
			name: "wire between two y planes",
			typ:  "B2Y",
			build: func(t *testing.T) *Cell {
				c := New()
				require.NoError(t, c.AddPlaneY(0, 0, "bot"))
				require.NoError(t, c.AddPlaneY(1, 0, "top"))
				require.NoError(t, c.AddWire(0, 0.5, 0.002, 1000, "anode"))
				return c
			},
			x: 0.2, y: 0.3,
		},
		{
			name: "doubly periodic wire pair",
			typ:  "C1 ",
			build: func(t *testing.T) *Cell {
				c := New()
				require.NoError(t, c.SetPeriodicityX(1))
				require.NoError(t, c.SetPeriodicityY(1))
				require.NoError(t, c.AddWire(0.25, 0.25, 0.01, 1000, "a"))
				require.NoError(t, c.AddWire(-0.25, -0.25, 0.01, -1000, "b"))
				return c
			},
			x: 0.13, y: 0.41,
		},
		{
			name: "two x planes with y periodicity",
			typ:  "C2X",
			build: func(t *testing.T) *Cell {
				c := New()
				require.NoError(t, c.AddPlaneX(0, 0, "left"))
				require.NoError(t, c.AddPlaneX(1, 0, "right"))
				require.NoError(t, c.SetPeriodicityY(1))
				require.NoError(t, c.AddWire(0.5, 0.2, 0.002, 1000, "anode"))
				return c
			},
			x: 0.3, y: 0.6,
		},
		{
			name: "two y planes with x periodicity",
			typ:  "C2Y",
			build: func(t *testing.T) *Cell {
				c := New()
				require.NoError(t, c.AddPlaneY(0, 0, "bot"))
				require.NoError(t, c.AddPlaneY(1, 0, "top"))
				require.NoError(t, c.SetPeriodicityX(1))
				require.NoError(t, c.AddWire(0.3, 0.5, 0.002, 1000, "anode"))
				return c
			},
			x: 0.23, y: 0.3,
		},
		{
			name: "four planes",
			typ:  "C3 ",
			build: func(t *testing.T) *Cell {
				c := New()
				require.NoError(t, c.AddPlaneX(0, 0, "left"))
				require.NoError(t, c.AddPlaneX(1, 0, "right"))
				require.NoError(t, c.AddPlaneY(0, 0, "bot"))
				require.NoError(t, c.AddPlaneY(1, 0, "top"))
				require.NoError(t, c.AddWire(0.5, 0.5, 0.002, 1000, "anode"))
				return c
			},
			x: 0.3, y: 0.7,
		},
		{
			name: "off-centre wire in a round tube",
			typ:  "D1 ",
			build: func(t *testing.T) *Cell {
				c := New()
				require.NoError(t, c.AddTube(1, -100, 0, "tube"))
				require.NoError(t, c.AddWire(0.3, 0, 0.01, 2000, "anode"))
				return c
			},
			x: 0.5, y: 0.4,
		},
		{
			name: "phi-periodic round tube",
			typ:  "D2 ",
			build: func(t *testing.T) *Cell {
				c := New()
				require.NoError(t, c.AddTube(1, 0, 0, "tube"))
				require.NoError(t, c.SetPeriodicityY(2*math.Pi/6))
				require.NoError(t, c.AddWire(0.5, 0, 0.01, 1000, "anode"))
				return c
			},
			x: 0.75, y: 0.27,
		},
		{
			name: "hexagonal tube",
			typ:  "D3 ",
			build: func(t *testing.T) *Cell {
				c := New()
				require.NoError(t, c.AddTube(1, 0, 6, "tube"))
				require.NoError(t, c.AddWire(0, 0, 0.01, 1000, "anode"))
				return c
			},
			x: 0.3, y: 0.2,
		},
	}

	const h = 1e-5
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := tc.build(t)
			_, err := c.Prepare()
			require.NoError(t, err)
			require.Equal(t, tc.typ, c.CellTypeName())

			ex, ey, _, _, status := c.ElectricFieldWithPotential(tc.x, tc.y, 0)
			require.Equal(t, StatusOK, status)
			volt := func(x, y float64) float64 {
				_, _, _, v, status := c.ElectricFieldWithPotential(x, y, 0)
				require.Equal(t, StatusOK, status)
				return v
			}
			gradX := (volt(tc.x+h, tc.y) - volt(tc.x-h, tc.y)) / (2 * h)
			gradY := (volt(tc.x, tc.y+h) - volt(tc.x, tc.y-h)) / (2 * h)
			assert.InDelta(t, -gradX, ex, 1e-3*(math.Abs(ex)+1))
			assert.InDelta(t, -gradY, ey, 1e-3*(math.Abs(ey)+1))
		})
	}
}
