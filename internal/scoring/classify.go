// Package scoring implements the two risk-scoring strategies: the four-phase
// SLRI analyzer (0-2 base scores scaled by phase factors) and the snapshot
// country scorer (0-10 per-medium tiers). The two scoring laws are distinct
// and are kept as separate types on purpose.
package scoring

import "envrisk/internal/domain"

// Classify maps a score to the four-band SLRI scale. It is total over
// [0, +inf) and monotonic: a higher score never yields a lower band.
//
// Cut points: [0,4] low, (4,8] medium, (8,12] high, (12,+inf) severe.
func Classify(score float64) domain.RiskBand {
	switch {
	case score <= 4:
		return domain.RiskLow
	case score <= 8:
		return domain.RiskMedium
	case score <= 12:
		return domain.RiskHigh
	default:
		return domain.RiskSevere
	}
}

// bandActions is the fixed action list per band, appended to every phase's
// recommendations regardless of which parameter triggered the band.
func bandActions(band domain.RiskBand) []string {
	switch band {
	case domain.RiskLow:
		return []string{
			"Routine monitoring",
			"Maintain good practices",
		}
	case domain.RiskMedium:
		return []string{
			"Reinforced monitoring",
			"Preventive measures",
			"Procedure review",
		}
	case domain.RiskHigh:
		return []string{
			"Immediate corrective measures",
			"Detailed action plan",
			"Continuous monitoring",
		}
	case domain.RiskSevere:
		return []string{
			"Temporary shutdown of activities",
			"Emergency measures",
			"Site rehabilitation required",
			"Notify the authorities",
		}
	}
	return nil
}
