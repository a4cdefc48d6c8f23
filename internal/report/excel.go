// Package report renders assessment results as Excel workbooks.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"envrisk/internal/domain"
)

// PhaseWorkbook renders a four-phase analysis: one synthesis sheet followed
// by one sheet per phase. The caller owns the returned file and must Close it.
func PhaseWorkbook(analysis domain.PhaseAnalysis) (*excelize.File, error) {
	f := excelize.NewFile()

	const synthesis = "Synthesis"
	if err := f.SetSheetName("Sheet1", synthesis); err != nil {
		return nil, err
	}

	rows := [][]any{
		{"Analysis ID", analysis.Metadata.ID},
		{"Date", analysis.Metadata.Date.Format("2006-01-02 15:04")},
		{"Project type", analysis.Metadata.ProjectType},
		{"Country", analysis.Metadata.Country},
		{"Methodology", analysis.Metadata.Methodology},
		{},
		{"Global score", formatScore(analysis.Synthesis.GlobalScore, analysis.Synthesis.Defined)},
		{"Most critical phase", string(analysis.Synthesis.MostCriticalPhase)},
		{"Compliant", analysis.Synthesis.Compliant},
		{"Major risks", len(analysis.Synthesis.MajorRisks)},
	}
	if len(analysis.Synthesis.PriorityRecommendations) > 0 {
		rows = append(rows, []any{}, []any{"Priority recommendations"})
		for _, rec := range analysis.Synthesis.PriorityRecommendations {
			rows = append(rows, []any{rec})
		}
	}
	if err := writeRows(f, synthesis, rows); err != nil {
		return nil, err
	}

	for _, phase := range analysis.Phases {
		if err := writePhaseSheet(f, phase); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func writePhaseSheet(f *excelize.File, phase domain.PhaseResult) error {
	name := sheetName(phase.Label)
	if _, err := f.NewSheet(name); err != nil {
		return err
	}

	rows := [][]any{
		{"Phase score", formatScore(phase.Score, phase.Defined), "Classification", phase.Band.String()},
		{},
		{"Parameter", "Medium", "Value", "Unit", "Base", "Final", "Classification", "Compliant"},
	}
	for _, ms := range phase.Media {
		for _, ps := range ms.Parameters {
			rows = append(rows, []any{
				ps.Parameter,
				string(ps.Medium),
				ps.Value.String(),
				ps.Unit,
				ps.BaseScore,
				ps.FinalScore,
				ps.Band.String(),
				ps.Compliant,
			})
		}
	}
	return writeRows(f, name, rows)
}

// SnapshotWorkbook renders scored snapshot records, one row per record with
// per-medium columns.
func SnapshotWorkbook(records []domain.ScoredRecord) (*excelize.File, error) {
	f := excelize.NewFile()

	const sheet = "Snapshot"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	header := []any{"#"}
	for _, medium := range domain.AllMedia() {
		header = append(header, capitalize(string(medium)))
	}
	header = append(header, "Global", "Level")

	rows := [][]any{header}
	for i, rec := range records {
		row := []any{i + 1}
		for _, medium := range domain.AllMedia() {
			ms := rec.Media[medium]
			row = append(row, formatScore(ms.Score, ms.Defined))
		}
		row = append(row,
			formatScore(rec.Global.Score, rec.Global.Defined),
			string(rec.Global.Level))
		rows = append(rows, row)
	}

	if len(records) == 1 {
		rows = append(rows, []any{}, []any{"Parameter", "Value"})
		names := make([]string, 0, len(records[0].Record))
		for name := range records[0].Record {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			rows = append(rows, []any{name, records[0].Record[name].String()})
		}
	}
	return f, writeRows(f, sheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func formatScore(score float64, defined bool) string {
	if !defined {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", score)
}

// sheetName trims a label to Excel's 31-character sheet name limit.
func sheetName(label string) string {
	if len(label) > 31 {
		return label[:31]
	}
	return label
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
