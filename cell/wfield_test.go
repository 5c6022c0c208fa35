package cell

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareSignalsRequiresReadout(t *testing.T) {
	c := New()
	require.NoError(t, c.AddTube(1, 0, 0, "tube"))
	require.NoError(t, c.AddWire(0, 0, 0.01, 2000, "anode"))
	assert.Error(t, c.PrepareSignals())
}

func TestWeightingFieldD10(t *testing.T) {
	const (
		rTube = 1.0
		dWire = 0.01
	)
	c := New()
	require.NoError(t, c.AddTube(rTube, 0, 0, "tube"))
	require.NoError(t, c.AddWire(0, 0, dWire, 2000, "anode"))
	c.AddReadout("anode")

	// For a single centred wire the weighting potential is
	// ln(R/r) / ln(R/a), one on the wire and zero on the tube.
	a := 0.5 * dWire
	lnRa := math.Log(rTube / a)
	for _, r := range []float64{0.05, 0.2, 0.7} {
		v := c.WeightingPotential(r, 0, 0, "anode")
		assert.InDelta(t, math.Log(rTube/r)/lnRa, v, 1e-9)
		ex, ey, ez := c.WeightingField(r, 0, 0, "anode")
		assert.InDelta(t, 1/(lnRa*r), ex, 1e-9)
		assert.InDelta(t, 0.0, ey, 1e-12)
		assert.Zero(t, ez)
	}
	assert.InDelta(t, 1.0, c.WeightingPotential(a, 0, 0, "anode"), 1e-9)
	assert.InDelta(t, 0.0, c.WeightingPotential(rTube, 0, 0, "anode"), 1e-9)

	// Labels without a readout group give a zero response.
	ex, ey, ez := c.WeightingField(0.2, 0, 0, "nope")
	assert.Zero(t, ex)
	assert.Zero(t, ey)
	assert.Zero(t, ez)
	assert.Zero(t, c.WeightingPotential(0.2, 0, 0, "nope"))
}

// anodeBetweenPlanes is a single wire centred between two grounded
// x planes, each electrode read out separately.
func anodeBetweenPlanes(t *testing.T) *Cell {
	t.Helper()
	c := New()
	require.NoError(t, c.AddPlaneX(0, 0, "left"))
	require.NoError(t, c.AddPlaneX(1, 0, "right"))
	require.NoError(t, c.AddWire(0.5, 0, 0.002, 1000, "anode"))
	c.AddReadout("anode")
	c.AddReadout("left")
	c.AddReadout("right")
	require.NoError(t, c.PrepareSignals())
	return c
}

func TestWeightingPotentialB2X(t *testing.T) {
	c := anodeBetweenPlanes(t)

	// One on the selected electrode, zero on the others.
	assert.InDelta(t, 1.0, c.WeightingPotential(0.5, 0.001, 0, "anode"), 1e-3)
	assert.InDelta(t, 0.0, c.WeightingPotential(0, 0.3, 0, "anode"), 1e-12)
	assert.InDelta(t, 0.0, c.WeightingPotential(1, 0.3, 0, "anode"), 1e-12)

	assert.InDelta(t, 1.0, c.WeightingPotential(0, 0.3, 0, "left"), 1e-12)
	assert.InDelta(t, 0.0, c.WeightingPotential(1, 0.3, 0, "left"), 1e-12)
	assert.InDelta(t, 1.0, c.WeightingPotential(1, 0.3, 0, "right"), 1e-12)
	assert.InDelta(t, 0.0, c.WeightingPotential(0, 0.3, 0, "right"), 1e-12)

	// The weighting potentials of all electrodes sum to one anywhere.
	for _, p := range [][2]float64{{0.25, 0.7}, {0.8, -0.4}, {0.31, 0.17}} {
		sum := c.WeightingPotential(p[0], p[1], 0, "anode") +
			c.WeightingPotential(p[0], p[1], 0, "left") +
			c.WeightingPotential(p[0], p[1], 0, "right")
		assert.InDelta(t, 1.0, sum, 1e-12)
	}

	// The weighting field is the negative gradient of the weighting
	// potential, so it points away from the selected electrode.
	ex, _, _ := c.WeightingField(0.7, 0.2, 0, "left")
	assert.Greater(t, ex, 0.0)
	ex, _, _ = c.WeightingField(0.7, 0.2, 0, "right")
	assert.Less(t, ex, 0.0)
}

func TestWeightingPotentialB1XFourier(t *testing.T) {
	c := New()
	require.NoError(t, c.SetPeriodicityX(1))
	require.NoError(t, c.AddPlaneY(0, 0, "cath"))
	require.NoError(t, c.AddWire(0, 1, 0.002, 1000, "anode"))
	c.AddReadout("anode")
	require.NoError(t, c.SetNumberOfSignalTerms(4))
	require.NoError(t, c.PrepareSignals())

	// The grounded plane stays at zero in every Fourier layer.
	assert.InDelta(t, 0.0, c.WeightingPotential(0.3, 0, 0, "anode"), 1e-12)

	// On the wire surface the weighting potential reaches one; ten
	// radii out it is still large, far away small.
	assert.InDelta(t, 1.0, c.WeightingPotential(0, 1.001, 0, "anode"), 0.05)
	vNear := c.WeightingPotential(0, 1.01, 0, "anode")
	vFar := c.WeightingPotential(0.5, 0.1, 0, "anode")
	assert.Greater(t, vNear, 0.5)
	assert.Less(t, vNear, 1.2)
	assert.Greater(t, vNear, vFar)
	assert.Greater(t, vFar, 0.0)

	ex, ey, ez := c.WeightingField(0.2, 0.5, 0, "anode")
	assert.False(t, math.IsNaN(ex) || math.IsNaN(ey))
	assert.Zero(t, ez)
	assert.NotZero(t, ey)

	// The natural periodicity of a B1X cell cannot be kept: the
	// weighting fields require the Fourier expansion.
	require.NoError(t, c.SetNumberOfSignalTerms(0))
	assert.Error(t, c.PrepareSignals())
}

func TestWeightingPotentialC2XNatural(t *testing.T) {
	c := New()
	require.NoError(t, c.AddPlaneX(0, 0, "p1"))
	require.NoError(t, c.AddPlaneX(1, 0, "p2"))
	require.NoError(t, c.SetPeriodicityY(1))
	require.NoError(t, c.AddWire(0.5, 0.3, 0.002, 1000, "anode"))
	c.AddReadout("anode")
	require.NoError(t, c.SetNumberOfSignalTerms(0))
	require.NoError(t, c.PrepareSignals())
	require.Equal(t, "C2X", c.CellTypeName())

	assert.InDelta(t, 1.0, c.WeightingPotential(0.5, 0.301, 0, "anode"), 0.02)
	assert.InDelta(t, 0.0, c.WeightingPotential(0, 0.2, 0, "anode"), 1e-4)
	assert.InDelta(t, 0.0, c.WeightingPotential(1, 0.2, 0, "anode"), 1e-4)

	// Periodic along y.
	v0 := c.WeightingPotential(0.4, 0.1, 0, "anode")
	v1 := c.WeightingPotential(0.4, 1.1, 0, "anode")
	assert.InDelta(t, v0, v1, 1e-8)
}

func TestWeightingStripZ(t *testing.T) {
	c := New()
	require.NoError(t, c.AddPlaneX(0, 0, "left"))
	require.NoError(t, c.AddPlaneX(1, 0, "right"))
	require.NoError(t, c.AddWire(0.5, 0, 0.002, 1000, "anode"))
	require.NoError(t, c.AddStripOnPlaneX('z', 0, -0.3, 0.3, "strip", 0))
	c.AddReadout("strip")
	require.NoError(t, c.PrepareSignals())

	// Close to the plane the weighting potential is one over the strip
	// and zero far off to the side.
	assert.InDelta(t, 1.0, c.WeightingPotential(1e-4, 0, 0, "strip"), 1e-3)
	assert.InDelta(t, 0.0, c.WeightingPotential(1e-4, 2, 0, "strip"), 1e-3)

	// Monotone decay away from the strip.
	v1 := c.WeightingPotential(0.1, 0, 0, "strip")
	v2 := c.WeightingPotential(0.3, 0, 0, "strip")
	assert.Greater(t, v1, v2)
	assert.Greater(t, v2, 0.0)

	// Beyond the gap the strip map vanishes.
	assert.Zero(t, c.WeightingPotential(1.5, 0, 0, "strip"))
}

func TestWeightingPixel(t *testing.T) {
	c := New()
	require.NoError(t, c.AddPlaneX(0, 0, "left"))
	require.NoError(t, c.AddPlaneX(1, 0, "right"))
	require.NoError(t, c.AddWire(0.5, 0, 0.002, 1000, "anode"))
	require.NoError(t, c.AddPixelOnPlaneX(0, -0.3, 0.3, -0.3, 0.3, "pix", 0))
	c.AddReadout("pix")
	require.NoError(t, c.PrepareSignals())

	// Directly over the pad centre the weighting potential tends to one.
	assert.InDelta(t, 1.0, c.WeightingPotential(0.001, 0, 0, "pix"), 0.01)
	// Far to the side it is negligible.
	assert.InDelta(t, 0.0, c.WeightingPotential(0.001, 3, 0, "pix"), 0.01)

	// Over the centre the transverse components cancel by symmetry and
	// the field points away from the pad.
	ex, ey, ez := c.WeightingField(0.01, 0, 0, "pix")
	assert.Greater(t, ex, 0.0)
	assert.InDelta(t, 0.0, ey, 1e-9)
	assert.InDelta(t, 0.0, ez, 1e-9)

	// Behind the pad plane the map vanishes.
	assert.Zero(t, c.WeightingPotential(-0.1, 0, 0, "pix"))
}

func TestStripFieldProfile(t *testing.T) {
	const (
		w = 0.3
		g = 1.0
	)
	// Outside the gap there is no map.
	_, _, _, ok := stripField(0, -0.1, w, g, true)
	assert.False(t, ok)
	_, _, _, ok = stripField(0, 1.5, w, g, true)
	assert.False(t, ok)

	// Approaching the strip the potential tends to one.
	_, _, volt, ok := stripField(0, 1e-4, w, g, true)
	require.True(t, ok)
	assert.InDelta(t, 1.0, volt, 1e-3)

	// The profile is symmetric around the strip centre.
	_, _, vp, ok := stripField(0.2, 0.4, w, g, true)
	require.True(t, ok)
	_, _, vm, ok := stripField(-0.2, 0.4, w, g, true)
	require.True(t, ok)
	assert.InDelta(t, vp, vm, 1e-12)
	assert.Greater(t, vp, 0.0)
	assert.Less(t, vp, 1.0)
}
