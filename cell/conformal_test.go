package cell

import (
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hexCell(t *testing.T) *Cell {
	t.Helper()
	c := New()
	require.NoError(t, c.AddTube(1, 0, 6, "tube"))
	require.NoError(t, c.AddWire(0, 0, 0.01, 1000, "anode"))
	_, err := c.Prepare()
	require.NoError(t, err)
	return c
}

func TestConformalMapCentre(t *testing.T) {
	c := hexCell(t)
	ww, wd := c.conformalMap(0)
	assert.Zero(t, ww)
	assert.Greater(t, real(wd), 0.0)
	assert.Zero(t, imag(wd))
}

func TestConformalMapRadialGrowth(t *testing.T) {
	c := hexCell(t)
	// The image grows monotonically towards the unit circle.
	w1, _ := c.conformalMap(complex(0.3, 0))
	w2, _ := c.conformalMap(complex(0.6, 0))
	w3, _ := c.conformalMap(complex(0.99, 0))
	assert.Less(t, cmplx.Abs(w1), cmplx.Abs(w2))
	assert.Less(t, cmplx.Abs(w2), cmplx.Abs(w3))
	assert.Less(t, cmplx.Abs(w3), 1.0)
	assert.Greater(t, cmplx.Abs(w3), 0.95)
}

func TestConformalMapBranchContinuity(t *testing.T) {
	c := hexCell(t)
	// The centre and corner expansions agree near the switch radius to
	// within the truncation error of the 16-term series.
	wa, _ := c.conformalMap(complex(0.7499, 0.1))
	wb, _ := c.conformalMap(complex(0.7501, 0.1))
	assert.InDelta(t, real(wa), real(wb), 5e-4)
	assert.InDelta(t, imag(wa), imag(wb), 5e-4)
}

func TestConformalMapDerivative(t *testing.T) {
	c := hexCell(t)
	// Compare the reported derivative to a central difference.
	const h = 1e-6
	z := complex(0.4, 0.2)
	_, wd := c.conformalMap(z)
	wp, _ := c.conformalMap(z + complex(h, 0))
	wm, _ := c.conformalMap(z - complex(h, 0))
	num := (wp - wm) / complex(2*h, 0)
	assert.InDelta(t, real(num), real(wd), 1e-5)
	assert.InDelta(t, imag(num), imag(wd), 1e-5)
}
