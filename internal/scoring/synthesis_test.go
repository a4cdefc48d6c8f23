package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"envrisk/internal/domain"
)

func definedPhase(phase domain.Phase, score float64) domain.PhaseResult {
	return domain.PhaseResult{Phase: phase, Score: score, Defined: true, Band: Classify(score)}
}

func TestSynthesizeGlobalMeanExcludesUndefined(t *testing.T) {
	syn := Synthesize([]domain.PhaseResult{
		definedPhase(domain.PhasePreConstruction, 2),
		{Phase: domain.PhaseConstruction}, // undefined, no data
		definedPhase(domain.PhaseOperation, 6),
		{Phase: domain.PhaseDecommissioning},
	})

	require.True(t, syn.Defined)
	assert.Equal(t, 4.0, syn.GlobalScore)
	assert.Equal(t, domain.PhaseOperation, syn.MostCriticalPhase)
	assert.True(t, syn.Compliant)
}

func TestSynthesizeAllUndefined(t *testing.T) {
	syn := Synthesize([]domain.PhaseResult{
		{Phase: domain.PhasePreConstruction},
		{Phase: domain.PhaseConstruction},
	})
	assert.False(t, syn.Defined)
	assert.Zero(t, syn.GlobalScore)
	assert.True(t, syn.Compliant)
	assert.Empty(t, syn.PriorityRecommendations)
}

func TestSynthesizeTiesResolveToEarliestPhase(t *testing.T) {
	syn := Synthesize([]domain.PhaseResult{
		definedPhase(domain.PhasePreConstruction, 5),
		definedPhase(domain.PhaseConstruction, 5),
		definedPhase(domain.PhaseOperation, 5),
	})
	assert.Equal(t, domain.PhasePreConstruction, syn.MostCriticalPhase)
}

func TestSynthesizePriorityRecommendations(t *testing.T) {
	high := Synthesize([]domain.PhaseResult{definedPhase(domain.PhaseOperation, 9)})
	assert.Contains(t, high.PriorityRecommendations, "Full project revision required")

	mid := Synthesize([]domain.PhaseResult{definedPhase(domain.PhaseOperation, 6)})
	assert.Contains(t, mid.PriorityRecommendations, "Reinforced environmental monitoring")
	assert.False(t, mid.Compliant)

	low := Synthesize([]domain.PhaseResult{definedPhase(domain.PhaseOperation, 2)})
	assert.Empty(t, low.PriorityRecommendations)
	assert.True(t, low.Compliant)
}

func TestSynthesizeCollectsAndTagsMajorRisks(t *testing.T) {
	syn := Synthesize([]domain.PhaseResult{
		{
			Phase: domain.PhaseConstruction, Score: 10, Defined: true,
			MajorRisks: []domain.ParameterScore{{Parameter: "pH", FinalScore: 14}},
		},
		{
			Phase: domain.PhaseOperation, Score: 12, Defined: true,
			MajorRisks: []domain.ParameterScore{
				{Parameter: "pH", FinalScore: 20},
				{Parameter: "Turbidity", FinalScore: 10},
			},
		},
	})

	require.Len(t, syn.MajorRisks, 3)
	assert.Equal(t, 20.0, syn.MajorRisks[0].FinalScore)
	assert.Equal(t, domain.PhaseOperation, syn.MajorRisks[0].Phase)
	assert.Equal(t, 14.0, syn.MajorRisks[1].FinalScore)
	assert.Equal(t, domain.PhaseConstruction, syn.MajorRisks[1].Phase)
	// the same parameter may appear once per phase
	assert.Equal(t, "pH", syn.MajorRisks[0].Parameter)
	assert.Equal(t, "pH", syn.MajorRisks[1].Parameter)
}
