package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/spf13/cobra"

	"envrisk/internal/cache"
	"envrisk/internal/domain"
	"envrisk/internal/thresholds"
)

func newThresholdsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "thresholds",
		Short: "Inspect threshold configurations",
	}
	cmd.AddCommand(newThresholdsShowCmd())
	cmd.AddCommand(newThresholdsValidateCmd())
	return cmd
}

func newThresholdsShowCmd() *cobra.Command {
	var (
		country       string
		thresholdsDir string
		medium        string
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the resolved thresholds for a medium",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := domain.ParseMedium(medium)
			if err != nil {
				return err
			}

			mem := cache.New()
			defer mem.Close()
			store := thresholds.NewStore(thresholdsDir, mem, slog.Default())

			specs := make(map[string]*domain.ThresholdSpec)
			for _, name := range builtinParameters(m) {
				specs[name] = store.Lookup(name, m, country, "")
			}

			names := make([]string, 0, len(specs))
			for name := range specs {
				names = append(names, name)
			}
			sort.Strings(names)

			out := make([]any, 0, len(names))
			for _, name := range names {
				out = append(out, map[string]any{"parameter": name, "threshold": specs[name]})
			}
			encoded, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
			return nil
		},
	}
	cmd.Flags().StringVarP(&country, "country", "c", "", "country code")
	cmd.Flags().StringVar(&thresholdsDir, "thresholds-dir", "", "directory with country threshold files")
	cmd.Flags().StringVarP(&medium, "medium", "m", "water", "medium to show")
	return cmd
}

func builtinParameters(m domain.Medium) []string {
	names := thresholds.BuiltinParameters(m)
	sort.Strings(names)
	return names
}

func newThresholdsValidateCmd() *cobra.Command {
	var thresholdsDir string

	cmd := &cobra.Command{
		Use:   "validate <country>",
		Short: "Check that a country's threshold files parse",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			country := args[0]

			mem := cache.New()
			defer mem.Close()
			store := thresholds.NewStore(thresholdsDir, mem, slog.Default())

			cfg, degraded := store.LoadCountry(country)
			if degraded {
				return fmt.Errorf("country %q: files missing or malformed, defaults would apply", country)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "country %q: %d media configured, global cutoffs %.1f/%.1f\n",
				cfg.Country, len(cfg.Media), cfg.Global.Low, cfg.Global.Medium)
			return nil
		},
	}
	cmd.Flags().StringVar(&thresholdsDir, "thresholds-dir", "", "directory with country threshold files")
	return cmd
}
