package scoring

import (
	"log/slog"
	"sort"

	"envrisk/internal/domain"
	"envrisk/internal/thresholds"
)

// airQualityIndexParameter contributes a composite value to the air score
// instead of being tiered against cutoffs.
const airQualityIndexParameter = "air_quality_index"

// Tier contributions for the snapshot law. This scale is unrelated to the
// four-phase 0-2 base scores.
const (
	tierLowContribution    = 2.0
	tierMediumContribution = 5.0
	tierHighContribution   = 10.0
)

// CountryScorer computes 0-10 snapshot scores for flat records using one
// country's tier cutoffs. It is immutable after construction and safe for
// concurrent use.
type CountryScorer struct {
	cfg      *thresholds.CountryConfig
	degraded bool
	logger   *slog.Logger
}

// NewCountryScorer loads the country configuration through store. Missing or
// malformed country files fall back to built-in defaults; Degraded reports
// when that happened.
func NewCountryScorer(store *thresholds.Store, country string, logger *slog.Logger) *CountryScorer {
	if logger == nil {
		logger = slog.Default()
	}
	cfg, degraded := store.LoadCountry(country)
	return &CountryScorer{cfg: cfg, degraded: degraded, logger: logger}
}

// Degraded reports whether built-in defaults replaced the country file.
func (c *CountryScorer) Degraded() bool { return c.degraded }

// Country returns the country the scorer was configured for.
func (c *CountryScorer) Country() string { return c.cfg.Country }

// ScoreRecords scores each record independently.
func (c *CountryScorer) ScoreRecords(records []domain.Record) []domain.ScoredRecord {
	out := make([]domain.ScoredRecord, 0, len(records))
	for _, r := range records {
		out = append(out, c.ScoreRecord(r))
	}
	return out
}

// ScoreRecord scores one flat record. Parameters absent from the record or
// carrying a missing value do not contribute; a medium with no contributing
// parameter is undetermined, not zero.
func (c *CountryScorer) ScoreRecord(record domain.Record) domain.ScoredRecord {
	scored := domain.ScoredRecord{
		Record: record,
		Media:  make(map[domain.Medium]domain.SnapshotMediumScore, len(c.cfg.Media)),
	}

	var globalSum float64
	globalCount := 0
	for _, medium := range domain.AllMedia() {
		ms := c.scoreMedium(medium, record)
		scored.Media[medium] = ms
		if ms.Defined {
			globalSum += ms.Score
			globalCount++
		}
	}

	if globalCount > 0 {
		scored.Global = domain.SnapshotMediumScore{
			Score:   globalSum / float64(globalCount),
			Defined: true,
		}
		scored.Global.Level = c.level(scored.Global.Score)
	} else {
		scored.Global = domain.SnapshotMediumScore{Level: domain.LevelUndetermined}
	}
	return scored
}

func (c *CountryScorer) scoreMedium(medium domain.Medium, record domain.Record) domain.SnapshotMediumScore {
	cutoffs := c.cfg.Media[medium]

	names := make([]string, 0, len(cutoffs))
	for name := range cutoffs {
		names = append(names, name)
	}
	sort.Strings(names)

	var sum float64
	count := 0
	for _, name := range names {
		if name == airQualityIndexParameter {
			continue
		}
		value, ok := record[name]
		if !ok || value.IsMissing() {
			continue
		}
		num, ok := value.Float()
		if !ok {
			c.logger.Debug("snapshot scoring skips non-numeric value",
				slog.String("parameter", name), slog.String("medium", string(medium)))
			continue
		}
		sum += tierContribution(num, cutoffs[name])
		count++
	}

	// the composite AQI weighs in alongside the tiered pollutants
	if medium == domain.MediumAir {
		if value, ok := record[airQualityIndexParameter]; ok && !value.IsMissing() {
			if num, ok := value.Float(); ok {
				sum += num * 2
				count++
			}
		}
	}

	if count == 0 {
		return domain.SnapshotMediumScore{Level: domain.LevelUndetermined}
	}
	score := sum / float64(count)
	return domain.SnapshotMediumScore{Score: score, Defined: true, Level: c.level(score)}
}

// tierContribution maps a value to its tier's contribution: below the low
// cutoff 2, below the medium cutoff 5, otherwise 10.
func tierContribution(value float64, t thresholds.TierCutoffs) float64 {
	switch {
	case value < t.Low:
		return tierLowContribution
	case value < t.Medium:
		return tierMediumContribution
	default:
		return tierHighContribution
	}
}

// level maps a snapshot score to the three-level scale using the country's
// global cutoffs.
func (c *CountryScorer) level(score float64) domain.SnapshotLevel {
	switch {
	case score < c.cfg.Global.Low:
		return domain.LevelLow
	case score < c.cfg.Global.Medium:
		return domain.LevelMedium
	default:
		return domain.LevelHigh
	}
}
