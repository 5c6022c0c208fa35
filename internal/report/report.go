// Package report renders a stored scan run as a standalone HTML page
// with an ECharts heatmap of the potential.
package report

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/anodewire/chamber/internal/fieldstore"
)

// viridis is the colour ramp used for the potential scale.
var viridis = []string{
	"#440154", "#482777", "#3e4989", "#31688e", "#26828e",
	"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725",
}

// WriteHTML renders the potential map of run to w. Samples inside
// electrodes or outside the active volume are skipped.
func WriteHTML(w io.Writer, run *fieldstore.Run) error {
	if len(run.Samples) == 0 {
		return fmt.Errorf("report: run %s has no samples", run.ID)
	}

	data := make([]opts.ScatterData, 0, len(run.Samples))
	vmin, vmax := math.Inf(1), math.Inf(-1)
	for _, s := range run.Samples {
		if s.Status != 0 {
			continue
		}
		vmin = math.Min(vmin, s.V)
		vmax = math.Max(vmax, s.V)
		data = append(data, opts.ScatterData{Value: []interface{}{s.X, s.Y, s.V}})
	}
	if len(data) == 0 {
		return fmt.Errorf("report: run %s has no samples in the active volume", run.ID)
	}
	if vmax == vmin {
		vmax = vmin + 1
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Chamber Potential Map",
			Theme:     "dark",
			Width:     "900px",
			Height:    "900px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title: "Chamber Potential Map",
			Subtitle: fmt.Sprintf("run=%s cell=%s grid=%dx%d scanned=%s",
				run.ID, run.CellType, run.NX, run.NY,
				run.CreatedAt.Format("2006-01-02 15:04:05")),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{
			Min: run.X0, Max: run.X1,
			Name: "x (cm)", NameLocation: "middle", NameGap: 25,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Min: run.Y0, Max: run.Y1,
			Name: "y (cm)", NameLocation: "middle", NameGap: 30,
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(vmin),
			Max:        float32(vmax),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: viridis},
		}),
	)
	scatter.AddSeries("potential", data,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}))

	return scatter.Render(w)
}
