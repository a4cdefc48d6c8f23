package thresholds

import (
	"encoding/json"
	"fmt"

	"envrisk/internal/domain"
)

// TierCutoffs are the low/medium cut points of the snapshot scorer: a value
// below Low contributes the low tier, below Medium the middle tier, otherwise
// the high tier.
type TierCutoffs struct {
	Low    float64 `json:"low"`
	Medium float64 `json:"medium"`
}

// CountryConfig is the per-country configuration of the snapshot scorer,
// loaded from thresholds_<country>.json.
type CountryConfig struct {
	Country string
	Media   map[domain.Medium]map[string]TierCutoffs
	Global  TierCutoffs
}

// parseCountryConfig decodes the snapshot threshold file format:
// each top-level key except "risk_levels" is a medium mapping parameter
// names to tier cutoffs.
func parseCountryConfig(data []byte, country string) (*CountryConfig, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse country thresholds: %w", err)
	}

	cfg := &CountryConfig{
		Country: country,
		Media:   make(map[domain.Medium]map[string]TierCutoffs),
	}

	for key, msg := range raw {
		if key == "risk_levels" {
			var levels struct {
				Global TierCutoffs `json:"global"`
			}
			if err := json.Unmarshal(msg, &levels); err != nil {
				return nil, fmt.Errorf("parse risk_levels: %w", err)
			}
			cfg.Global = levels.Global
			continue
		}
		medium, err := domain.ParseMedium(key)
		if err != nil {
			return nil, fmt.Errorf("country thresholds: %w", err)
		}
		var params map[string]TierCutoffs
		if err := json.Unmarshal(msg, &params); err != nil {
			return nil, fmt.Errorf("parse %s thresholds: %w", key, err)
		}
		cfg.Media[medium] = params
	}

	if cfg.Global == (TierCutoffs{}) {
		return nil, fmt.Errorf("country thresholds: missing risk_levels.global")
	}
	return cfg, nil
}

// DefaultCountryConfig returns the built-in snapshot configuration used when
// no country file is available.
func DefaultCountryConfig() *CountryConfig {
	return &CountryConfig{
		Country: DefaultCountry,
		Media: map[domain.Medium]map[string]TierCutoffs{
			domain.MediumAir: {
				"pm25": {Low: 10, Medium: 25},
				"pm10": {Low: 20, Medium: 50},
				"no2":  {Low: 40, Medium: 200},
				"o3":   {Low: 100, Medium: 180},
				"so2":  {Low: 20, Medium: 125},
			},
			domain.MediumWater: {
				"humidity":            {Low: 30, Medium: 70},
				"water_points_nearby": {Low: 1, Medium: 5},
			},
			domain.MediumSoil: {
				"soil_ph":        {Low: 6.0, Medium: 8.5},
				"organic_carbon": {Low: 0.6, Medium: 1.2},
				"clay":           {Low: 25, Medium: 40},
				"sand":           {Low: 50, Medium: 70},
			},
			domain.MediumHuman: {
				"dwellings_nearby":        {Low: 10, Medium: 100},
				"industrial_zones_nearby": {Low: 1, Medium: 5},
			},
		},
		Global: TierCutoffs{Low: 4, Medium: 7},
	}
}
