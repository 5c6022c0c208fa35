package presets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTube(t *testing.T) {
	c, err := Build("tube")
	require.NoError(t, err)
	dropped, err := c.Prepare()
	require.NoError(t, err)
	assert.Empty(t, dropped)
	assert.Equal(t, "D1 ", c.CellTypeName())

	// The anode is readable as a weighting-field electrode.
	require.NoError(t, c.PrepareSignals())
}

func TestBuildMWPC(t *testing.T) {
	c, err := Build("mwpc")
	require.NoError(t, err)
	dropped, err := c.Prepare()
	require.NoError(t, err)
	assert.Empty(t, dropped)
	assert.Equal(t, "C2Y", c.CellTypeName())

	// The anode wire sits between the cathodes, so the potential falls
	// off monotonically from the wire surface towards the planes.
	_, _, _, vNear, status := c.ElectricFieldWithPotential(0, 0.0011, 0)
	assert.Equal(t, 0, status)
	assert.InDelta(t, 3000, vNear, 50)
	_, _, _, vMid, status := c.ElectricFieldWithPotential(0, 0.4, 0)
	assert.Equal(t, 0, status)
	_, _, _, vFar, status := c.ElectricFieldWithPotential(0, 0.7, 0)
	assert.Equal(t, 0, status)
	assert.Greater(t, vNear, vMid)
	assert.Greater(t, vMid, vFar)
	assert.Greater(t, vFar, 0.0)
}

func TestBuildUnknown(t *testing.T) {
	_, err := Build("septum")
	assert.Error(t, err)
}
