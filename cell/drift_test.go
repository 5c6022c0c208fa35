package cell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrossedWire(t *testing.T) {
	c := New()
	require.NoError(t, c.AddTube(1, 0, 0, "tube"))
	require.NoError(t, c.AddWire(0, 0, 0.02, 2000, "anode"))
	_, err := c.Prepare()
	require.NoError(t, err)

	// A step straight through the wire enters at the surface.
	xc, yc, zc, crossed := c.CrossedWire(0.5, 0, 0, -0.5, 0, 1)
	require.True(t, crossed)
	assert.InDelta(t, 0.01, xc, 1e-9)
	assert.InDelta(t, 0.0, yc, 1e-9)
	// z is interpolated linearly along the step.
	assert.InDelta(t, 0.49, zc, 1e-9)

	// A step that misses the wire.
	_, _, _, crossed = c.CrossedWire(0.5, 0.1, 0, -0.5, 0.1, 0)
	assert.False(t, crossed)

	// A step pointing away from the wire.
	_, _, _, crossed = c.CrossedWire(0.5, 0, 0, 0.9, 0, 0)
	assert.False(t, crossed)

	// A zero-length step.
	_, _, _, crossed = c.CrossedWire(0.5, 0, 0, 0.5, 0, 0)
	assert.False(t, crossed)
}

func TestCrossedWirePeriodGuard(t *testing.T) {
	c := New()
	require.NoError(t, c.SetPeriodicityX(1))
	require.NoError(t, c.AddPlaneY(0, 0, "cath"))
	require.NoError(t, c.AddWire(0, 1, 0.02, 1000, "anode"))
	_, err := c.Prepare()
	require.NoError(t, err)

	// Steps spanning a full period cannot be checked against a single
	// wire image and are rejected.
	_, _, _, crossed := c.CrossedWire(-0.6, 1, 0, 0.6, 1, 0)
	assert.False(t, crossed)

	// Within one period the crossing is still found.
	xc, _, _, crossed := c.CrossedWire(0.4, 1, 0, -0.4, 1, 0)
	require.True(t, crossed)
	assert.InDelta(t, 0.01, xc, 1e-9)
}

func TestInTrapRadius(t *testing.T) {
	c := New()
	require.NoError(t, c.AddTube(1, 0, 0, "tube"))
	require.NoError(t, c.AddWire(0, 0, 0.02, 2000, "anode", WithTrapRadius(5)))
	_, err := c.Prepare()
	require.NoError(t, err)

	// An electron close to the positively charged wire is trapped.
	xw, yw, rw, trapped := c.InTrapRadius(-1, 0.03, 0, 0)
	require.True(t, trapped)
	assert.Zero(t, xw)
	assert.Zero(t, yw)
	assert.InDelta(t, 0.01, rw, 1e-12)

	// Outside five wire radii it is not.
	_, _, _, trapped = c.InTrapRadius(-1, 0.2, 0, 0)
	assert.False(t, trapped)

	// A positive ion is never trapped by the anode.
	_, _, _, trapped = c.InTrapRadius(1, 0.03, 0, 0)
	assert.False(t, trapped)
}

func TestInTrapRadiusPeriodic(t *testing.T) {
	c := New()
	require.NoError(t, c.SetPeriodicityX(1))
	require.NoError(t, c.AddPlaneY(0, 0, "cath"))
	require.NoError(t, c.AddWire(0, 1, 0.02, 1000, "anode"))
	_, err := c.Prepare()
	require.NoError(t, err)

	// The wire centre is reported in the period of the query point.
	xw, yw, _, trapped := c.InTrapRadius(-1, 3.002, 1, 0)
	require.True(t, trapped)
	assert.InDelta(t, 3.0, xw, 1e-12)
	assert.InDelta(t, 1.0, yw, 1e-12)
}
