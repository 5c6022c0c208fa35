// Package numerics provides the dense linear-algebra and special-function
// kernels used by the analytic field solver: real and complex matrix
// inversion and modified Bessel functions of the second kind.
package numerics

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// ErrSingular is returned when a matrix cannot be inverted.
var ErrSingular = errors.New("numerics: matrix is singular")

// InvertReal replaces the square matrix a with its inverse. The matrix is
// given as a slice of rows, all of length len(a).
func InvertReal(a [][]float64) error {
	n := len(a)
	if n == 0 {
		return errors.New("numerics: empty matrix")
	}
	m := mat.NewDense(n, n, nil)
	for i, row := range a {
		if len(row) != n {
			return fmt.Errorf("numerics: row %d has length %d, want %d", i, len(row), n)
		}
		m.SetRow(i, row)
	}
	var inv mat.Dense
	if err := inv.Inverse(m); err != nil {
		return ErrSingular
	}
	for i := 0; i < n; i++ {
		copy(a[i], inv.RawRowView(i))
	}
	return nil
}

// InvertAndSolve inverts a in place and replaces b with a⁻¹·b.
func InvertAndSolve(a [][]float64, b []float64) error {
	if len(b) != len(a) {
		return fmt.Errorf("numerics: vector length %d does not match matrix order %d", len(b), len(a))
	}
	if err := InvertReal(a); err != nil {
		return err
	}
	x := make([]float64, len(b))
	for i := range a {
		var sum float64
		for j := range a[i] {
			sum += a[i][j] * b[j]
		}
		x[i] = sum
	}
	copy(b, x)
	return nil
}

// InvertComplex replaces the square complex matrix a with its inverse,
// using Gauss-Jordan elimination with partial pivoting. gonum's dense
// complex matrices carry no factorization support, hence the explicit
// elimination here.
func InvertComplex(a [][]complex128) error {
	n := len(a)
	if n == 0 {
		return errors.New("numerics: empty matrix")
	}
	perm := make([]int, n)
	for k := 0; k < n; k++ {
		// Pivot search in column k.
		pivot := k
		pmax := cmplx.Abs(a[k][k])
		for i := k + 1; i < n; i++ {
			if v := cmplx.Abs(a[i][k]); v > pmax {
				pivot, pmax = i, v
			}
		}
		if pmax == 0 || math.IsNaN(pmax) {
			return ErrSingular
		}
		a[k], a[pivot] = a[pivot], a[k]
		perm[k] = pivot
		// Normalise the pivot row; the pivot slot receives the
		// reciprocal so that the full inverse accumulates in place.
		inv := 1 / a[k][k]
		a[k][k] = 1
		for j := 0; j < n; j++ {
			a[k][j] *= inv
		}
		// Eliminate column k from the other rows.
		for i := 0; i < n; i++ {
			if i == k {
				continue
			}
			f := a[i][k]
			a[i][k] = 0
			for j := 0; j < n; j++ {
				a[i][j] -= f * a[k][j]
			}
		}
	}
	// Undo the row swaps as column swaps of the inverse.
	for k := n - 1; k >= 0; k-- {
		if p := perm[k]; p != k {
			for i := 0; i < n; i++ {
				a[i][k], a[i][p] = a[i][p], a[i][k]
			}
		}
	}
	return nil
}
