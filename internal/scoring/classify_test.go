package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"envrisk/internal/domain"
)

func TestClassifyBands(t *testing.T) {
	tests := []struct {
		score float64
		want  domain.RiskBand
	}{
		{0, domain.RiskLow},
		{3, domain.RiskLow},
		{4, domain.RiskLow},
		{4.5, domain.RiskMedium},
		{8, domain.RiskMedium},
		{8.1, domain.RiskHigh},
		{12, domain.RiskHigh},
		{12.5, domain.RiskSevere},
		{14, domain.RiskSevere},
		{20, domain.RiskSevere},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.score), "score %v", tt.score)
	}
}

func TestClassifyIsTotalAndMonotonic(t *testing.T) {
	prev := Classify(0)
	for s := 0.0; s <= 25; s += 0.1 {
		band := Classify(s)
		assert.GreaterOrEqual(t, int(band), int(prev), "band regressed at %v", s)
		prev = band
	}
	// no gap anywhere, including awkward floats
	for _, s := range []float64{4.0000001, 7.999999, 8.0000001, 11.999999, math.Nextafter(12, 13)} {
		assert.NotPanics(t, func() { Classify(s) })
	}
}

func TestBandActionsSeverity(t *testing.T) {
	assert.Contains(t, bandActions(domain.RiskLow), "Routine monitoring")
	assert.Contains(t, bandActions(domain.RiskSevere), "Notify the authorities")
	assert.Len(t, bandActions(domain.RiskSevere), 4)
}
