package numerics

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvertReal(t *testing.T) {
	a := [][]float64{
		{4, 7},
		{2, 6},
	}
	require.NoError(t, InvertReal(a))
	want := [][]float64{
		{0.6, -0.7},
		{-0.2, 0.4},
	}
	for i := range want {
		for j := range want[i] {
			assert.InDelta(t, want[i][j], a[i][j], 1e-12)
		}
	}
}

func TestInvertRealSingular(t *testing.T) {
	a := [][]float64{
		{1, 2},
		{2, 4},
	}
	assert.ErrorIs(t, InvertReal(a), ErrSingular)
}

func TestInvertAndSolve(t *testing.T) {
	a := [][]float64{
		{2, 0, 0},
		{0, 4, 0},
		{0, 0, 8},
	}
	b := []float64{2, 4, 8}
	require.NoError(t, InvertAndSolve(a, b))
	assert.InDelta(t, 1, b[0], 1e-12)
	assert.InDelta(t, 1, b[1], 1e-12)
	assert.InDelta(t, 1, b[2], 1e-12)
}

func TestInvertComplex(t *testing.T) {
	orig := [][]complex128{
		{complex(1, 1), complex(2, 0), complex(0, -1)},
		{complex(0, 2), complex(3, -1), complex(1, 0)},
		{complex(1, 0), complex(0, 1), complex(2, 2)},
	}
	a := make([][]complex128, len(orig))
	for i := range orig {
		a[i] = append([]complex128(nil), orig[i]...)
	}
	require.NoError(t, InvertComplex(a))

	// a * orig must be the identity.
	n := len(orig)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			var sum complex128
			for k := 0; k < n; k++ {
				sum += a[i][k] * orig[k][j]
			}
			want := 0.0
			if i == j {
				want = 1.0
			}
			assert.InDelta(t, want, real(sum), 1e-10)
			assert.InDelta(t, 0, imag(sum), 1e-10)
		}
	}
}

func TestInvertComplexSingular(t *testing.T) {
	a := [][]complex128{
		{complex(1, 0), complex(2, 0)},
		{complex(2, 0), complex(4, 0)},
	}
	assert.ErrorIs(t, InvertComplex(a), ErrSingular)
}

// Reference values from Abramowitz & Stegun tables.
func TestBesselK(t *testing.T) {
	cases := []struct {
		x      float64
		k0, k1 float64
	}{
		{0.5, 0.9244190712, 1.6564411200},
		{1.0, 0.4210244382, 0.6019072302},
		{2.0, 0.1138938727, 0.1398658818},
		{3.0, 0.0347395044, 0.0401564311},
		{5.0, 0.0036910983, 0.0040446134},
	}
	for _, c := range cases {
		assert.InDelta(t, c.k0, BesselK0(c.x), 2e-7, "K0(%g)", c.x)
		assert.InDelta(t, c.k1, BesselK1(c.x), 2e-7, "K1(%g)", c.x)
	}
}

func TestBesselKDecay(t *testing.T) {
	// K0 and K1 decay monotonically.
	prev0, prev1 := math.Inf(1), math.Inf(1)
	for x := 0.1; x < 10; x += 0.1 {
		k0, k1 := BesselK0(x), BesselK1(x)
		assert.Less(t, k0, prev0)
		assert.Less(t, k1, prev1)
		prev0, prev1 = k0, k1
	}
}

func TestInvertComplexPivoting(t *testing.T) {
	// Zero leading diagonal forces a row swap.
	a := [][]complex128{
		{0, complex(1, 0)},
		{complex(1, 0), 0},
	}
	require.NoError(t, InvertComplex(a))
	assert.Equal(t, complex128(0), a[0][0])
	assert.InDelta(t, 1, cmplx.Abs(a[0][1]), 1e-12)
}
