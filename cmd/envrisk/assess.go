package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"

	"envrisk/internal/cache"
	"envrisk/internal/domain"
	"envrisk/internal/report"
	"envrisk/internal/scoring"
	"envrisk/internal/thresholds"
)

// assessInput is the JSON document read from --input.
type assessInput struct {
	Country      string              `json:"country,omitempty"`
	ProjectType  string              `json:"project_type,omitempty"`
	Measurements domain.Measurements `json:"measurements,omitempty"`
	Records      []domain.Record     `json:"records,omitempty"`
}

func newAssessCmd() *cobra.Command {
	var (
		inputPath     string
		country       string
		mode          string
		projectType   string
		outPath       string
		xlsxPath      string
		thresholdsDir string
		onMissing     string
	)

	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Score measurements without a server",
		Long: `Score a measurement file locally. In phases mode the input needs a
"measurements" object keyed by medium; in snapshot mode it needs a "records"
array of flat parameter maps.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(inputPath)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			var input assessInput
			if err := json.Unmarshal(data, &input); err != nil {
				return fmt.Errorf("decode input: %w", err)
			}
			if country == "" {
				country = input.Country
			}
			if projectType == "" {
				projectType = input.ProjectType
			}

			policy, err := parseOnMissing(onMissing)
			if err != nil {
				return err
			}

			logger := slog.Default()
			mem := cache.New()
			defer mem.Close()
			store := thresholds.NewStore(thresholdsDir, mem, logger)

			var result any
			var workbook func() error
			switch mode {
			case "phases":
				if len(input.Measurements) == 0 {
					return fmt.Errorf("phases mode requires measurements")
				}
				scorer := scoring.NewParameterScorer(store, scoring.WithOnMissing(policy))
				analyzer := scoring.NewPhaseAnalyzer(scorer)
				analysis := analyzer.Analyze(input.Measurements, projectType, country)
				result = analysis
				workbook = func() error {
					f, err := report.PhaseWorkbook(analysis)
					if err != nil {
						return fmt.Errorf("build workbook: %w", err)
					}
					return writeWorkbook(xlsxPath, f)
				}
			case "snapshot":
				if len(input.Records) == 0 {
					return fmt.Errorf("snapshot mode requires records")
				}
				scorer := scoring.NewCountryScorer(store, country, logger)
				if scorer.Degraded() {
					logger.Warn("country thresholds unavailable, defaults applied", slog.String("country", country))
				}
				records := scorer.ScoreRecords(input.Records)
				result = records
				workbook = func() error {
					f, err := report.SnapshotWorkbook(records)
					if err != nil {
						return fmt.Errorf("build workbook: %w", err)
					}
					return writeWorkbook(xlsxPath, f)
				}
			default:
				return fmt.Errorf("unknown mode %q (want phases or snapshot)", mode)
			}

			encoded, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("encode result: %w", err)
			}
			if outPath == "" || outPath == "-" {
				fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
			} else if err := os.WriteFile(outPath, append(encoded, '\n'), 0o644); err != nil {
				return fmt.Errorf("write result: %w", err)
			}

			if xlsxPath != "" {
				return workbook()
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "measurement file (JSON)")
	cmd.Flags().StringVarP(&country, "country", "c", "", "country code for thresholds")
	cmd.Flags().StringVarP(&mode, "mode", "m", "phases", "scoring mode: phases or snapshot")
	cmd.Flags().StringVar(&projectType, "project-type", "", "project type recorded in the analysis")
	cmd.Flags().StringVarP(&outPath, "out", "o", "-", "result file, - for stdout")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "also write an Excel workbook")
	cmd.Flags().StringVar(&thresholdsDir, "thresholds-dir", "", "directory with country threshold files")
	cmd.Flags().StringVar(&onMissing, "on-missing", "conformant", "missing value policy: conformant, excluded or penalized")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func parseOnMissing(s string) (scoring.OnMissing, error) {
	switch s {
	case "conformant", "":
		return scoring.OnMissingConformant, nil
	case "excluded":
		return scoring.OnMissingExcluded, nil
	case "penalized":
		return scoring.OnMissingPenalized, nil
	}
	return 0, fmt.Errorf("unknown on-missing policy %q", s)
}

func writeWorkbook(path string, f *excelize.File) error {
	defer f.Close()

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create workbook: %w", err)
	}
	defer out.Close()
	if err := f.Write(out); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
