package fieldstore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testRun() *Run {
	return &Run{
		RunMeta: RunMeta{
			CellType: "D1 ",
			X0:       -1, Y0: -1, X1: 1, Y1: 1,
			NX: 2, NY: 2,
		},
		Samples: []Sample{
			{X: -1, Y: -1, Ex: 0.5, Ey: -0.25, V: 120, Status: 0},
			{X: 1, Y: -1, Ex: -0.5, Ey: -0.25, V: 120, Status: 0},
			{X: -1, Y: 1, Ex: 0.5, Ey: 0.25, V: 120, Status: 0},
			{X: 0, Y: 0, Ex: 0, Ey: 0, V: 2000, Status: 1},
		},
	}
}

func TestSaveAndLoadRun(t *testing.T) {
	s := openTestStore(t)

	run := testRun()
	require.NoError(t, s.SaveRun(run))
	require.NotEmpty(t, run.ID)
	require.False(t, run.CreatedAt.IsZero())

	got, err := s.Run(run.ID)
	require.NoError(t, err)
	// Timestamps are stored at second resolution.
	run.CreatedAt = run.CreatedAt.Truncate(time.Second)
	if diff := cmp.Diff(run, got); diff != "" {
		t.Errorf("reloaded run mismatch (-want +got):\n%s", diff)
	}
}

func TestRunNotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Run("no-such-run")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteRun("no-such-run"), ErrNotFound)
}

func TestListRuns(t *testing.T) {
	s := openTestStore(t)

	first := testRun()
	first.CreatedAt = time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveRun(first))
	second := testRun()
	second.CellType = "B2X"
	second.CreatedAt = time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveRun(second))

	metas, err := s.ListRuns()
	require.NoError(t, err)
	require.Len(t, metas, 2)
	// Newest first.
	assert.Equal(t, second.ID, metas[0].ID)
	assert.Equal(t, "B2X", metas[0].CellType)
	assert.Equal(t, first.ID, metas[1].ID)
}

func TestDeleteRun(t *testing.T) {
	s := openTestStore(t)
	run := testRun()
	require.NoError(t, s.SaveRun(run))
	require.NoError(t, s.DeleteRun(run.ID))
	_, err := s.Run(run.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReopenIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "runs.db")
	s, err := Open(path)
	require.NoError(t, err)
	run := testRun()
	require.NoError(t, s.SaveRun(run))
	require.NoError(t, s.Close())

	// Reopening applies no further migrations and keeps the data.
	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Run(run.ID)
	require.NoError(t, err)
	assert.Len(t, got.Samples, len(run.Samples))
}
