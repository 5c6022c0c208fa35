// Package presets builds the demo chamber geometries used by the
// command-line tools.
package presets

import (
	"fmt"

	"github.com/anodewire/chamber/cell"
)

// Names lists the available geometry presets.
func Names() []string {
	return []string{"tube", "mwpc"}
}

// Build constructs the named preset. The cell is returned unprepared so
// callers can still adjust periodicities or readout groups.
func Build(name string) (*cell.Cell, error) {
	c := cell.New()
	switch name {
	case "tube":
		// Single anode wire in a grounded round tube.
		if err := c.AddTube(1, 0, 0, "tube"); err != nil {
			return nil, err
		}
		if err := c.AddWire(0, 0, 0.005, 2000, "anode"); err != nil {
			return nil, err
		}
		c.AddReadout("anode")
		c.AddReadout("tube")
	case "mwpc":
		// A periodic row of anode wires between two cathode planes.
		if err := c.AddPlaneY(-0.8, 0, "cathlo"); err != nil {
			return nil, err
		}
		if err := c.AddPlaneY(0.8, 0, "cathhi"); err != nil {
			return nil, err
		}
		if err := c.SetPeriodicityX(0.2); err != nil {
			return nil, err
		}
		if err := c.AddWire(0, 0, 0.002, 3000, "anode"); err != nil {
			return nil, err
		}
		c.AddReadout("anode")
		c.AddReadout("cathlo")
	default:
		return nil, fmt.Errorf("presets: unknown geometry %q (want one of %v)", name, Names())
	}
	return c, nil
}
