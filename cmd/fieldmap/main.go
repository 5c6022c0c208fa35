// fieldmap renders the electrostatic potential of a demo chamber
// geometry as a filled heat map and writes it to a PNG file.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/anodewire/chamber/cell"
	"github.com/anodewire/chamber/internal/presets"
	"github.com/anodewire/chamber/internal/version"
)

var (
	showVer  = flag.Bool("version", false, "print the build version and exit")
	geometry = flag.String("geometry", "tube", "geometry preset: "+strings.Join(presets.Names(), ", "))
	x0       = flag.Float64("x0", 0, "lower x bound of the map (0 with x1: use the cell bounding box)")
	y0       = flag.Float64("y0", 0, "lower y bound of the map")
	x1       = flag.Float64("x1", 0, "upper x bound of the map")
	y1       = flag.Float64("y1", 0, "upper y bound of the map")
	samples  = flag.Int("n", 200, "samples per axis")
	outFile  = flag.String("o", "fieldmap.png", "output PNG file")
)

// potentialGrid samples the cell potential on a regular grid and
// implements plotter.GridXYZ. Points inside electrodes carry the
// electrode potential, which keeps the map continuous.
type potentialGrid struct {
	x0, y0, dx, dy float64
	nx, ny         int
	v              []float64
}

func sampleGrid(c *cell.Cell, x0, y0, x1, y1 float64, n int) *potentialGrid {
	g := &potentialGrid{
		x0: x0, y0: y0,
		dx: (x1 - x0) / float64(n),
		dy: (y1 - y0) / float64(n),
		nx: n, ny: n,
		v: make([]float64, n*n),
	}
	for iy := 0; iy < n; iy++ {
		for ix := 0; ix < n; ix++ {
			x := g.x0 + (float64(ix)+0.5)*g.dx
			y := g.y0 + (float64(iy)+0.5)*g.dy
			_, _, _, volt, _ := c.ElectricFieldWithPotential(x, y, 0)
			g.v[iy*n+ix] = volt
		}
	}
	return g
}

func (g *potentialGrid) Dims() (cols, rows int) { return g.nx, g.ny }
func (g *potentialGrid) Z(col, row int) float64 { return g.v[row*g.nx+col] }
func (g *potentialGrid) X(col int) float64      { return g.x0 + (float64(col)+0.5)*g.dx }
func (g *potentialGrid) Y(row int) float64      { return g.y0 + (float64(row)+0.5)*g.dy }

func main() {
	flag.Parse()
	if *showVer {
		fmt.Println(version.String())
		return
	}

	c, err := presets.Build(*geometry)
	if err != nil {
		log.Fatalf("build geometry: %v", err)
	}
	dropped, err := c.Prepare()
	if err != nil {
		log.Fatalf("prepare cell: %v", err)
	}
	for _, d := range dropped {
		log.Printf("dropped wire %q at (%g, %g): %s", d.Label, d.X, d.Y, d.Reason)
	}
	log.Printf("cell type %s", strings.TrimSpace(c.CellTypeName()))

	gx0, gy0, gx1, gy1 := *x0, *y0, *x1, *y1
	if gx0 == gx1 || gy0 == gy1 {
		bx0, by0, _, bx1, by1, _, err := c.BoundingBox()
		if err != nil {
			log.Fatalf("bounding box: %v", err)
		}
		gx0, gy0, gx1, gy1 = bx0, by0, bx1, by1
	}
	if *samples < 2 {
		log.Fatalf("need at least 2 samples per axis, got %d", *samples)
	}

	grid := sampleGrid(c, gx0, gy0, gx1, gy1, *samples)

	p := plot.New()
	p.Title.Text = "Chamber potential (" + *geometry + ")"
	p.X.Label.Text = "x (cm)"
	p.Y.Label.Text = "y (cm)"
	p.Add(plotter.NewHeatMap(grid, moreland.SmoothBlueRed().Palette(255)))

	if err := p.Save(8*vg.Inch, 8*vg.Inch, *outFile); err != nil {
		log.Fatalf("save plot: %v", err)
	}
	log.Printf("wrote %s (%dx%d samples over [%g,%g]x[%g,%g])",
		*outFile, *samples, *samples, gx0, gx1, gy0, gy1)
}
