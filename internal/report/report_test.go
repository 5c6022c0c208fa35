package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anodewire/chamber/internal/fieldstore"
)

func TestWriteHTML(t *testing.T) {
	run := &fieldstore.Run{
		RunMeta: fieldstore.RunMeta{
			ID:        "test-run",
			CellType:  "D1 ",
			CreatedAt: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
			X0:        -1, Y0: -1, X1: 1, Y1: 1,
			NX: 2, NY: 2,
		},
		Samples: []fieldstore.Sample{
			{X: -0.5, Y: -0.5, V: 300},
			{X: 0.5, Y: -0.5, V: 300},
			{X: -0.5, Y: 0.5, V: 300},
			{X: 0, Y: 0, V: 2000, Status: 1}, // inside a wire, skipped
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, run))
	html := buf.String()
	assert.Contains(t, html, "echarts")
	assert.Contains(t, html, "Chamber Potential Map")
	assert.Contains(t, html, "test-run")
}

func TestWriteHTMLEmptyRun(t *testing.T) {
	var buf bytes.Buffer
	err := WriteHTML(&buf, &fieldstore.Run{})
	assert.Error(t, err)

	// Runs whose samples all fall inside electrodes are also rejected.
	run := &fieldstore.Run{
		Samples: []fieldstore.Sample{{V: 1000, Status: 1}},
	}
	assert.Error(t, WriteHTML(&buf, run))
}
