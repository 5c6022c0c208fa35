// fieldscan samples the field of a demo chamber geometry on a grid,
// stores the run in a SQLite database and optionally writes an HTML
// report of the potential map.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/anodewire/chamber/internal/fieldstore"
	"github.com/anodewire/chamber/internal/presets"
	"github.com/anodewire/chamber/internal/report"
	"github.com/anodewire/chamber/internal/version"
)

var (
	showVer    = flag.Bool("version", false, "print the build version and exit")
	geometry   = flag.String("geometry", "tube", "geometry preset: "+strings.Join(presets.Names(), ", "))
	x0         = flag.Float64("x0", 0, "lower x bound of the scan (0 with x1: use the cell bounding box)")
	y0         = flag.Float64("y0", 0, "lower y bound of the scan")
	x1         = flag.Float64("x1", 0, "upper x bound of the scan")
	y1         = flag.Float64("y1", 0, "upper y bound of the scan")
	samples    = flag.Int("n", 100, "samples per axis")
	dbFile     = flag.String("db", "runs.db", "run database file")
	reportFile = flag.String("report", "", "write an HTML potential map to this file")
	list       = flag.Bool("list", false, "list stored runs and exit")
)

func main() {
	flag.Parse()
	if *showVer {
		fmt.Println(version.String())
		return
	}

	store, err := fieldstore.Open(*dbFile)
	if err != nil {
		log.Fatalf("open run database: %v", err)
	}
	defer store.Close()

	if *list {
		listRuns(store)
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

	run := &fieldstore.Run{
		RunMeta: fieldstore.RunMeta{
			CellType: strings.TrimSpace(c.CellTypeName()),
			X0:       gx0, Y0: gy0, X1: gx1, Y1: gy1,
			NX: *samples, NY: *samples,
		},
	}
	dx := (gx1 - gx0) / float64(*samples)
	dy := (gy1 - gy0) / float64(*samples)
	inside := 0
	for iy := 0; iy < *samples; iy++ {
		for ix := 0; ix < *samples; ix++ {
			x := gx0 + (float64(ix)+0.5)*dx
			y := gy0 + (float64(iy)+0.5)*dy
			ex, ey, _, volt, status := c.ElectricFieldWithPotential(x, y, 0)
			if status != 0 {
				inside++
			}
			run.Samples = append(run.Samples, fieldstore.Sample{
				X: x, Y: y, Ex: ex, Ey: ey, V: volt, Status: status,
			})
		}
	}

	if err := store.SaveRun(run); err != nil {
		log.Fatalf("save run: %v", err)
	}
	log.Printf("run %s: cell %s, %d samples (%d inside electrodes or out of range)",
		run.ID, run.CellType, len(run.Samples), inside)

	if *reportFile != "" {
		f, err := os.Create(*reportFile)
		if err != nil {
			log.Fatalf("create report: %v", err)
		}
		if err := report.WriteHTML(f, run); err != nil {
			log.Fatalf("write report: %v", err)
		}
		if err := f.Close(); err != nil {
			log.Fatalf("close report: %v", err)
		}
		log.Printf("wrote %s", *reportFile)
	}
}

func listRuns(store *fieldstore.Store) {
	metas, err := store.ListRuns()
	if err != nil {
		log.Fatalf("list runs: %v", err)
	}
	if len(metas) == 0 {
		log.Printf("no runs stored")
		return
	}
	for _, m := range metas {
		log.Printf("%s  %s  cell=%-3s  grid=%dx%d  [%g,%g]x[%g,%g]",
			m.ID, m.CreatedAt.Format("2006-01-02 15:04:05"), m.CellType,
			m.NX, m.NY, m.X0, m.X1, m.Y0, m.Y1)
	}
}
