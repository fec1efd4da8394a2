package sqlite

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/oregon-fire-report/internal/analysis"
	"github.com/couchcryptid/oregon-fire-report/internal/domain"
	"github.com/couchcryptid/oregon-fire-report/internal/report"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testReport(runID string, at time.Time) *report.Report {
	records := []domain.FireRecord{
		{ID: "a", FireName: "Slater", FireYear: 2020, Area: domain.AreaSouthern, SizeClass: domain.SizeG,
			Cause: domain.CauseHuman, EstTotalAcres: 100, Latitude: 42, Longitude: -123},
		{ID: "b", FireName: "Slater", FireYear: 2020, Area: domain.AreaSouthern, SizeClass: domain.SizeG,
			Cause: domain.CauseHuman, EstTotalAcres: 300, Latitude: 42.1, Longitude: -123.1},
		{ID: "c", FireName: "Camp", FireYear: 2022, Area: domain.AreaNorthern, SizeClass: domain.SizeA,
			Cause: domain.CauseLightning, EstTotalAcres: 0.5, AcresImputed: true, Latitude: 45, Longitude: -122},
	}
	top := analysis.TopFires(records, 1)
	top[0].PlaceName = "Cave Junction, Oregon"
	return &report.Report{
		RunID:       runID,
		GeneratedAt: at,
		Source:      "fires.csv",
		Loaded:      4,
		Dropped:     1,
		Imputed:     1,
		Records:     records,
		TopFires:    top,
		Grouped:     analysis.GroupFires(records),
	}
}

func TestStore_Write(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	assert.Equal(t, "sqlite", s.Name())

	r := testReport("run-1", time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, s.Write(ctx, r))

	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-1", runs[0].RunID)
	assert.Equal(t, 4, runs[0].Loaded)
	assert.Equal(t, 3, runs[0].Analyzed)
	assert.True(t, r.GeneratedAt.Equal(runs[0].GeneratedAt))

	total, err := s.TotalAcres(ctx, "run-1")
	require.NoError(t, err)
	assert.InDelta(t, 400.5, total, 1e-9)

	var grouped int
	require.NoError(t, s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM grouped_fires WHERE run_id = ?`, "run-1").Scan(&grouped))
	assert.Equal(t, 2, grouped)

	var place string
	require.NoError(t, s.db.QueryRowContext(ctx, `SELECT place_name FROM fires WHERE run_id = ? AND id = ?`, "run-1", "b").Scan(&place))
	assert.Equal(t, "Cave Junction, Oregon", place)
}

func TestStore_RunsNewestFirst(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, testReport("old", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))))
	require.NoError(t, s.Write(ctx, testReport("new", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))))

	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "new", runs[0].RunID)
	assert.Equal(t, "old", runs[1].RunID)
}

func TestStore_DuplicateRunRollsBack(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	r := testReport("dup", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	require.NoError(t, s.Write(ctx, r))
	err := s.Write(ctx, r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert run dup")

	total, err := s.TotalAcres(ctx, "dup")
	require.NoError(t, err)
	assert.InDelta(t, 400.5, total, 1e-9, "failed write must not add rows")
}

func TestStore_TotalAcresUnknownRun(t *testing.T) {
	s := openStore(t)
	total, err := s.TotalAcres(context.Background(), "missing")
	require.NoError(t, err)
	assert.Zero(t, total)
}
