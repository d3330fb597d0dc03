package appstate

import "time"

// GenerationStats summarizes one completed generation run for reporting.
// It is never persisted to the table file — only logged/printed, mirroring
// the timing and chain-count summary the original CLI prints after a run.
type GenerationStats struct {
	TableID uint32
	Elapsed time.Duration

	// ChainsProduced is the final deduplicated chain count.
	ChainsProduced int
	// MergeRate is the fraction of requested startpoints that collided and
	// were merged away by filtration/final dedup: (m0-chainsProduced)/m0.
	MergeRate float64
	// MaximalityFactor is the achieved m*t/N: stored chains times chain
	// length over the search space size. A plaintext reached by several
	// chains is counted once per chain, so this is not the covered fraction.
	MaximalityFactor float64
}

// NewGenerationStats derives a GenerationStats from a run's raw inputs.
func NewGenerationStats(tableID uint32, m0, t, searchSpace uint64, chainsProduced int, elapsed time.Duration) GenerationStats {
	var mergeRate float64
	if m0 > 0 {
		mergeRate = float64(m0-uint64(chainsProduced)) / float64(m0)
	}

	var maximalityFactor float64
	if searchSpace > 0 {
		maximalityFactor = float64(chainsProduced) * float64(t) / float64(searchSpace)
	}

	return GenerationStats{
		TableID:          tableID,
		Elapsed:          elapsed,
		ChainsProduced:   chainsProduced,
		MergeRate:        mergeRate,
		MaximalityFactor: maximalityFactor,
	}
}

// GenerationFinished logs a completed run's stats.
func GenerationFinished(stats GenerationStats) {
	Logger.Info("Generation finished",
		"table_id", stats.TableID,
		"elapsed", stats.Elapsed,
		"chains", stats.ChainsProduced,
		"merge_rate", stats.MergeRate,
		"maximality_factor", stats.MaximalityFactor,
	)
}
