package scoring

import (
	"math"
	"sort"

	"envrisk/internal/domain"
)

// Synthesize combines all phase results into the project-level verdict.
// Undefined phase scores are excluded from the global mean rather than
// counted as zero.
func Synthesize(phases []domain.PhaseResult) domain.ProjectSynthesis {
	syn := domain.ProjectSynthesis{
		MajorRisks:              make([]domain.ParameterScore, 0),
		PriorityRecommendations: []string{},
	}

	var sum float64
	defined := 0
	best := math.Inf(-1)
	for _, p := range phases {
		if p.Defined {
			sum += p.Score
			defined++
			// strict comparison: ties resolve to the earliest phase
			if p.Score > best {
				best = p.Score
				syn.MostCriticalPhase = p.Phase
			}
		}
		for _, r := range p.MajorRisks {
			r.Phase = p.Phase
			syn.MajorRisks = append(syn.MajorRisks, r)
		}
	}

	if defined > 0 {
		syn.GlobalScore = sum / float64(defined)
		syn.Defined = true
	}

	// no de-duplication across phases: the same parameter may recur
	sort.SliceStable(syn.MajorRisks, func(i, j int) bool {
		return syn.MajorRisks[i].FinalScore > syn.MajorRisks[j].FinalScore
	})

	syn.Compliant = syn.GlobalScore <= complianceCutoff

	switch {
	case syn.GlobalScore > majorRiskCutoff:
		syn.PriorityRecommendations = []string{
			"Full project revision required",
			"Consult environmental experts",
			"Strengthen mitigation measures",
		}
	case syn.GlobalScore > complianceCutoff:
		syn.PriorityRecommendations = []string{
			"Reinforced environmental monitoring",
			"Implement corrective measures",
			"Regular tracking of critical parameters",
		}
	}
	return syn
}
