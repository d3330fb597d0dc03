package appstate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewGenerationStatsComputesMergeRateAndMaximalityFactor(t *testing.T) {
	stats := NewGenerationStats(3, 1000, 400, 1<<40, 900, 2*time.Second)

	assert.Equal(t, uint32(3), stats.TableID)
	assert.Equal(t, 2*time.Second, stats.Elapsed)
	assert.Equal(t, 900, stats.ChainsProduced)
	assert.InDelta(t, 0.1, stats.MergeRate, 1e-9)
	assert.InDelta(t, float64(900)*400/float64(1<<40), stats.MaximalityFactor, 1e-12)
}

func TestNewGenerationStatsHandlesZeroInputs(t *testing.T) {
	stats := NewGenerationStats(0, 0, 0, 0, 0, 0)

	assert.Equal(t, 0.0, stats.MergeRate)
	assert.Equal(t, 0.0, stats.MaximalityFactor)
}
