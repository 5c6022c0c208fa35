// Package cell computes electrostatic fields, potentials and induced
// (weighting) signals for wire-chamber geometries built from thin wires,
// grounded or biased planes and tubes. The geometry is classified into
// one of a fixed set of symmetry types, the wire charges are solved from
// a capacitance matrix with closed-form entries, and fields are then
// evaluated from per-type analytic expansions.
package cell

import (
	"errors"
	"math"
)

// Status codes returned by field queries. A positive status i means the
// point lies inside wire i-1.
const (
	StatusOK          = 0
	StatusOutside     = -4
	StatusUnknownCell = -10
	StatusNotPrepared = -11
)

// Preparation failure taxonomy.
var (
	ErrUnknownCell     = errors.New("cell: unrecognized cell type")
	ErrCellNotPrepared = errors.New("cell: cell could not be prepared")
	ErrInversionFailed = errors.New("cell: capacitance matrix inversion failed")
)

// Physical constants in detector units (cm, V, fC).
const (
	vacuumPermittivity = 8.854187817e-3
	fourPiEpsilon0     = 4 * math.Pi * vacuumPermittivity
	twoPiEpsilon0      = 2 * math.Pi * vacuumPermittivity
)

// small is the geometric degeneracy threshold.
const small = 1e-20

type cellType int

// The symmetry taxonomy. A cells have no periodicity, B cells one
// periodic direction with one (B1) or two (B2) bounding planes, C cells
// are doubly periodic with zero (C1), two (C2) or four (C3) planes, and
// D cells sit inside a circular (D1, D2) or polygonal (D3) tube, D2 and
// D4 carrying angular periodicity.
const (
	cellA00 cellType = iota
	cellB1X
	cellB1Y
	cellB2X
	cellB2Y
	cellC10
	cellC2X
	cellC2Y
	cellC30
	cellD10
	cellD20
	cellD30
	cellD40
	cellUnknown
)

var cellTypeNames = map[cellType]string{
	cellA00: "A  ", cellB1X: "B1X", cellB1Y: "B1Y",
	cellB2X: "B2X", cellB2Y: "B2Y",
	cellC10: "C1 ", cellC2X: "C2X", cellC2Y: "C2Y", cellC30: "C3 ",
	cellD10: "D1 ", cellD20: "D2 ", cellD30: "D3 ", cellD40: "D4 ",
	cellUnknown: "?  ",
}

func (t cellType) String() string { return cellTypeNames[t] }

// wire is the internal wire state; charges are in reduced units after
// the solve.
type wire struct {
	x, y    float64
	d       float64
	v       float64
	e       float64 // solved charge
	u       float64 // length
	tension float64
	density float64
	label   string
	ind     int // readout group, -1 if none
	nTrap   int
}

type strip struct {
	label      string
	ind        int
	smin, smax float64
	gap        float64
}

type pixel struct {
	label      string
	ind        int
	smin, smax float64
	zmin, zmax float64
	gap        float64
}

// plane carries the per-slot signal state alongside the strip and pixel
// collections. Slots 0..3 are x-low, x-high, y-low, y-high; slot 4 is
// the tube.
type plane struct {
	label   string
	ind     int
	ewxcor  float64
	ewycor  float64
	strips1 []strip // extruded along the in-plane direction
	strips2 []strip // extruded along z
	pixels  []pixel
}

type charge3d struct {
	x, y, z float64
	e       float64 // charge over 4 pi epsilon0
}

// Dropped reports a wire removed during preparation, with the reason.
type Dropped struct {
	Label  string
	X, Y   float64
	Reason string
}

// Cell is the geometry registry plus the cached charge and signal
// solves. It is not safe for concurrent mutation and querying.
type Cell struct {
	w      []wire
	planes [5]plane

	ynplan [4]bool
	coplan [4]float64
	vtplan [4]float64

	// Derived plane bookkeeping set by the classifier: a single
	// reference plane per axis plus the presence flags.
	ynplax, ynplay bool
	coplax, coplay float64

	tube   bool
	ntube  int
	mtube  int
	cotube float64
	vttube float64

	perx, pery bool
	sx, sy     float64

	ch3d        []charge3d
	nTermBessel int
	nTermPoly   int

	readout []string

	// Charge-solve cache.
	cellset  bool
	typ      cellType
	a        [][]float64
	v0       float64
	corvta   float64
	corvtb   float64
	corvtc   float64
	mode   int
	zmult  complex128
	p1, p2 float64
	c1     float64
	kappa  float64
	wmap   []complex128
	b2sin  []float64

	xmin, xmax float64
	ymin, ymax float64
	zmin, zmax float64
	vmin, vmax float64

	// Signal-solve cache.
	sigset       bool
	nFourier     int
	typFourier   cellType
	fperx, fpery bool
	mxmin, mxmax int
	mymin, mymax int
	mfexp        int
	// One layer per Fourier term (mx, my); non-periodic signal cells
	// hold a single layer.
	sigLayers []sigLayer
}

// sigLayer holds the inverted wire capacitance matrix and the induced
// plane charges for one Fourier term.
type sigLayer struct {
	sigmat [][]complex128
	qplane [5][]float64
}

// layer returns the signal layer for Fourier indices (mx, my).
func (c *Cell) layer(mx, my int) *sigLayer {
	nx := c.mxmax - c.mxmin + 1
	return &c.sigLayers[(my-c.mymin)*nx+(mx-c.mxmin)]
}

// New returns an empty cell.
func New() *Cell {
	c := &Cell{
		typ:         cellUnknown,
		nTermBessel: 10,
		nTermPoly:   100,
		nFourier:    1,
	}
	for i := range c.planes {
		c.planes[i].ind = -1
	}
	return c
}

// invalidate marks both cached solves stale after a geometry mutation.
func (c *Cell) invalidate() {
	c.cellset = false
	c.sigset = false
}

// CellTypeName returns the tag of the prepared cell, preparing it if
// necessary. The empty string is returned if preparation fails.
func (c *Cell) CellTypeName() string {
	if !c.cellset {
		if _, err := c.Prepare(); err != nil {
			return ""
		}
	}
	return c.typ.String()
}

// SetNumberOfBesselTerms sets the term count for the Bessel-series
// branch of the 3D point-charge corrector.
func (c *Cell) SetNumberOfBesselTerms(n int) {
	if n > 0 {
		c.nTermBessel = n
	}
}

// SetNumberOfPolynomialTerms sets the term count for the polynomial
// branch of the 3D point-charge corrector.
func (c *Cell) SetNumberOfPolynomialTerms(n int) {
	if n > 0 {
		c.nTermPoly = n
	}
}

// VoltageRange returns the range of potentials in the cell.
func (c *Cell) VoltageRange() (vmin, vmax float64, err error) {
	if !c.cellset {
		if _, err := c.Prepare(); err != nil {
			return 0, 0, err
		}
	}
	return c.vmin, c.vmax, nil
}

// BoundingBox returns the cell extent. The z range covers the longest
// wire, centred on the origin.
func (c *Cell) BoundingBox() (x0, y0, z0, x1, y1, z1 float64, err error) {
	if !c.cellset {
		if _, err := c.Prepare(); err != nil {
			return 0, 0, 0, 0, 0, 0, err
		}
	}
	return c.xmin, c.ymin, c.zmin, c.xmax, c.ymax, c.zmax, nil
}

func cartesianToPolar(x, y float64) (rho, phi float64) {
	if x == 0 && y == 0 {
		return 0, 0
	}
	return math.Sqrt(x*x + y*y), 180 * math.Atan2(y, x) / math.Pi
}

func polarToCartesian(rho, phi float64) (x, y float64) {
	return rho * math.Cos(math.Pi*phi/180), rho * math.Sin(math.Pi*phi/180)
}
