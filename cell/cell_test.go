package cell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellTypeNames(t *testing.T) {
	const d = 0.01
	tests := []struct {
		name  string
		build func(t *testing.T) *Cell
		want  string
	}{
		{"two isolated wires", func(t *testing.T) *Cell {
			c := New()
			require.NoError(t, c.AddWire(0, 0.5, d, 100, "a"))
			require.NoError(t, c.AddWire(0, -0.5, d, -100, "b"))
			return c
		}, "A  "},
		{"x periodic row above a y plane", func(t *testing.T) *Cell {
			c := New()
			require.NoError(t, c.SetPeriodicityX(1))
			require.NoError(t, c.AddPlaneY(0, 0, "p"))
			require.NoError(t, c.AddWire(0, 0.5, d, 100, "a"))
			return c
		}, "B1X"},
		{"y periodic row beside an x plane", func(t *testing.T) *Cell {
			c := New()
			require.NoError(t, c.SetPeriodicityY(1))
			require.NoError(t, c.AddPlaneX(0, 0, "p"))
			require.NoError(t, c.AddWire(0.5, 0, d, 100, "a"))
			return c
		}, "B1Y"},
		{"wire between two x planes", func(t *testing.T) *Cell {
			c := New()
			require.NoError(t, c.AddPlaneX(0, 0, "p1"))
			require.NoError(t, c.AddPlaneX(1, 0, "p2"))
			require.NoError(t, c.AddWire(0.5, 0, d, 100, "a"))
			return c
		}, "B2X"},
		{"wire between two y planes", func(t *testing.T) *Cell {
			c := New()
			require.NoError(t, c.AddPlaneY(0, 0, "p1"))
			require.NoError(t, c.AddPlaneY(1, 0, "p2"))
			require.NoError(t, c.AddWire(0, 0.5, d, 100, "a"))
			return c
		}, "B2Y"},
		{"doubly periodic wire pair", func(t *testing.T) *Cell {
			c := New()
			require.NoError(t, c.SetPeriodicityX(1))
			require.NoError(t, c.SetPeriodicityY(1))
			require.NoError(t, c.AddWire(0.25, 0.25, d, 100, "a"))
			require.NoError(t, c.AddWire(-0.25, -0.25, d, -100, "b"))
			return c
		}, "C1 "},
		{"two x planes with y periodicity", func(t *testing.T) *Cell {
			c := New()
			require.NoError(t, c.AddPlaneX(0, 0, "p1"))
			require.NoError(t, c.AddPlaneX(1, 0, "p2"))
			require.NoError(t, c.SetPeriodicityY(1))
			require.NoError(t, c.AddWire(0.5, 0, d, 100, "a"))
			return c
		}, "C2X"},
		{"two y planes with x periodicity", func(t *testing.T) *Cell {
			c := New()
			require.NoError(t, c.AddPlaneY(0, 0, "p1"))
			require.NoError(t, c.AddPlaneY(1, 0, "p2"))
			require.NoError(t, c.SetPeriodicityX(1))
			require.NoError(t, c.AddWire(0.3, 0.5, d, 100, "a"))
			return c
		}, "C2Y"},
		{"wire in a box of four planes", func(t *testing.T) *Cell {
			c := New()
			require.NoError(t, c.AddPlaneX(0, 0, "p1"))
			require.NoError(t, c.AddPlaneX(1, 0, "p2"))
			require.NoError(t, c.AddPlaneY(0, 0, "p3"))
			require.NoError(t, c.AddPlaneY(1, 0, "p4"))
			require.NoError(t, c.AddWire(0.5, 0.5, d, 100, "a"))
			return c
		}, "C3 "},
		{"wire in a round tube", func(t *testing.T) *Cell {
			c := New()
			require.NoError(t, c.AddTube(1, 0, 0, "t"))
			require.NoError(t, c.AddWire(0, 0, d, 100, "a"))
			return c
		}, "D1 "},
		{"round tube with angular periodicity", func(t *testing.T) *Cell {
			c := New()
			require.NoError(t, c.AddTube(1, 0, 0, "t"))
			require.NoError(t, c.SetPeriodicityY(2*3.14159265358979/6))
			require.NoError(t, c.AddWire(0.5, 0, d, 100, "a"))
			return c
		}, "D2 "},
		{"wire in a hexagonal tube", func(t *testing.T) *Cell {
			c := New()
			require.NoError(t, c.AddTube(1, 0, 6, "t"))
			require.NoError(t, c.AddWire(0, 0, d, 100, "a"))
			return c
		}, "D3 "},
		{"hexagonal tube with angular periodicity", func(t *testing.T) *Cell {
			c := New()
			require.NoError(t, c.AddTube(1, 0, 6, "t"))
			require.NoError(t, c.SetPeriodicityY(2*3.14159265358979/6))
			require.NoError(t, c.AddWire(0.5, 0, d, 100, "a"))
			return c
		}, "D4 "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.build(t)
			assert.Equal(t, tt.want, c.CellTypeName())
		})
	}
}

func TestPrepareRejectsUniformPotential(t *testing.T) {
	c := New()
	require.NoError(t, c.AddWire(0, 0.5, 0.01, 100, "a"))
	require.NoError(t, c.AddWire(0, -0.5, 0.01, 100, "b"))
	_, err := c.Prepare()
	assert.ErrorIs(t, err, ErrCellNotPrepared)
}

func TestPrepareRequiresTwoElements(t *testing.T) {
	c := New()
	require.NoError(t, c.AddWire(0, 0, 0.01, 100, "a"))
	_, err := c.Prepare()
	assert.ErrorIs(t, err, ErrCellNotPrepared)

	// A field query on such a cell reports the failure in the status.
	_, _, _, status := c.ElectricField(0.5, 0, 0)
	assert.Equal(t, StatusNotPrepared, status)
}

func TestPrepareDropsOverlappingWire(t *testing.T) {
	c := New()
	require.NoError(t, c.AddPlaneX(0, 0, "p"))
	require.NoError(t, c.AddWire(1, 0, 0.01, 1000, "keep"))
	require.NoError(t, c.AddWire(1.002, 0, 0.01, 1000, "gone"))
	dropped, err := c.Prepare()
	require.NoError(t, err)
	require.Len(t, dropped, 1)
	assert.Equal(t, "gone", dropped[0].Label)
	assert.Contains(t, dropped[0].Reason, "overlaps")
	assert.Equal(t, 1, c.NumWires())
}

func TestPrepareDropsWireOutsidePlanes(t *testing.T) {
	c := New()
	require.NoError(t, c.AddPlaneX(0, 0, "p"))
	require.NoError(t, c.AddWire(1, 0, 0.01, 1000, "keep"))
	require.NoError(t, c.AddWire(-0.5, 0, 0.01, 1000, "gone"))
	dropped, err := c.Prepare()
	require.NoError(t, err)
	require.Len(t, dropped, 1)
	assert.Equal(t, "gone", dropped[0].Label)
	assert.Contains(t, dropped[0].Reason, "outside the planes")
}

func TestVoltageRange(t *testing.T) {
	c := New()
	require.NoError(t, c.AddPlaneX(0, -500, "p"))
	require.NoError(t, c.AddWire(1, 0, 0.002, 1000, "a"))
	vmin, vmax, err := c.VoltageRange()
	require.NoError(t, err)
	assert.Equal(t, -500.0, vmin)
	assert.Equal(t, 1000.0, vmax)
}

func TestBoundingBoxTube(t *testing.T) {
	c := New()
	require.NoError(t, c.AddTube(1, 0, 0, "t"))
	require.NoError(t, c.AddWire(0, 0, 0.01, 2000, "a"))
	x0, y0, z0, x1, y1, z1, err := c.BoundingBox()
	require.NoError(t, err)
	assert.InDelta(t, -1.1, x0, 1e-12)
	assert.InDelta(t, 1.1, x1, 1e-12)
	assert.InDelta(t, -1.1, y0, 1e-12)
	assert.InDelta(t, 1.1, y1, 1e-12)
	// The default wire length is 100 cm, centred on the origin.
	assert.InDelta(t, -50.0, z0, 1e-12)
	assert.InDelta(t, 50.0, z1, 1e-12)
}

func TestPeriod(t *testing.T) {
	c := New()
	sx, sy := c.Period()
	assert.Zero(t, sx)
	assert.Zero(t, sy)
	require.NoError(t, c.SetPeriodicityX(0.4))
	sx, sy = c.Period()
	assert.Equal(t, 0.4, sx)
	assert.Zero(t, sy)
}

func TestSetNumberOfSignalTerms(t *testing.T) {
	c := New()
	assert.Error(t, c.SetNumberOfSignalTerms(3))
	assert.Error(t, c.SetNumberOfSignalTerms(-1))
	assert.NoError(t, c.SetNumberOfSignalTerms(0))
	assert.NoError(t, c.SetNumberOfSignalTerms(8))
}

func TestWireAt(t *testing.T) {
	c := New()
	require.NoError(t, c.AddTube(1, 0, 0, "t"))
	require.NoError(t, c.AddWire(0, 0, 0.01, 2000, "a", WithLength(80)))
	_, err := c.Prepare()
	require.NoError(t, err)

	w, err := c.WireAt(0)
	require.NoError(t, err)
	assert.Equal(t, "a", w.Label)
	assert.Equal(t, 80.0, w.Length)
	assert.Greater(t, w.Charge, 0.0)

	_, err = c.WireAt(5)
	assert.Error(t, err)
}

func TestAddWireValidation(t *testing.T) {
	c := New()
	assert.Error(t, c.AddWire(0, 0, -0.01, 100, "a"))
	assert.Error(t, c.AddWire(0, 0, 0.01, 100, "a", WithTension(-1)))
	assert.Error(t, c.AddWire(0, 0, 0.01, 100, "a", WithDensity(0)))
	assert.Error(t, c.AddWire(0, 0, 0.01, 100, "a", WithLength(0)))
	assert.Equal(t, 0, c.NumWires())
}

func TestAddPlaneLimits(t *testing.T) {
	c := New()
	require.NoError(t, c.AddPlaneX(0, 0, "p1"))
	require.NoError(t, c.AddPlaneX(1, 0, "p2"))
	assert.Error(t, c.AddPlaneX(2, 0, "p3"))
	require.NoError(t, c.AddPlaneY(0, 0, "q1"))
	require.NoError(t, c.AddPlaneY(1, 0, "q2"))
	assert.Error(t, c.AddPlaneY(2, 0, "q3"))
}
