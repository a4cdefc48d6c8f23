package report

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"envrisk/internal/domain"
	"envrisk/internal/scoring"
	"envrisk/internal/thresholds"
)

func sampleAnalysis(t *testing.T) domain.PhaseAnalysis {
	t.Helper()
	m := make(domain.Measurements)
	m.Add(domain.MediumWater, "pH", domain.NumericValue(9.5), "")
	m.Add(domain.MediumAir, "PM10", domain.NumericValue(30), "µg/m³")

	store := thresholds.NewStore("", nil, slog.Default())
	scorer := scoring.NewParameterScorer(store)
	analyzer := scoring.NewPhaseAnalyzer(scorer,
		scoring.WithClock(func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }),
		scoring.WithIDSource(func() string { return "wb-test" }),
	)
	return analyzer.Analyze(m, "quarry", "default")
}

func TestPhaseWorkbook(t *testing.T) {
	f, err := PhaseWorkbook(sampleAnalysis(t))
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, "Synthesis")
	assert.Contains(t, sheets, "Operation")
	assert.Len(t, sheets, 5)

	v, err := f.GetCellValue("Synthesis", "B1")
	require.NoError(t, err)
	assert.Equal(t, "wb-test", v)

	// parameter table header on every phase sheet
	v, err = f.GetCellValue("Construction", "A3")
	require.NoError(t, err)
	assert.Equal(t, "Parameter", v)
}

func TestSnapshotWorkbook(t *testing.T) {
	store := thresholds.NewStore("", nil, slog.Default())
	scorer := scoring.NewCountryScorer(store, "default", slog.Default())
	records := scorer.ScoreRecords([]domain.Record{
		{"pm25": domain.NumericValue(5), "pm10": domain.NumericValue(30)},
	})

	f, err := SnapshotWorkbook(records)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue("Snapshot", "A1")
	require.NoError(t, err)
	assert.Equal(t, "#", v)

	// air is the third medium column (after water and soil)
	v, err = f.GetCellValue("Snapshot", "D2")
	require.NoError(t, err)
	assert.Equal(t, "3.50", v)

	// single-record workbooks append the raw parameter table
	v, err = f.GetCellValue("Snapshot", "A4")
	require.NoError(t, err)
	assert.Equal(t, "Parameter", v)
}
