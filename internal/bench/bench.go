// Package bench measures the reference CPU executor's chain-extension
// throughput, for sizing batches and giving operators a practical
// hashes-per-second figure before committing to a full generation run.
package bench

import (
	"context"
	"time"

	"github.com/truelossless/cugparck/internal/chain"
	"github.com/truelossless/cugparck/internal/executor"
	"github.com/truelossless/cugparck/internal/rterrors"
)

// defaultBatchSize is used when the caller doesn't request a specific
// measurement batch size. Large enough to amortize goroutine scheduling
// overhead, small enough to measure in well under a second per call.
const defaultBatchSize = 1 << 16

// chainBytes is the in-memory size of one chain.Chain: two uint64 fields.
const chainBytes = 16

// Result reports one CPU throughput measurement.
type Result struct {
	HashesPerSecond float64
	Workers         int
	Duration        time.Duration
	Operations      uint64
}

// MeasureCPU runs the reference CPU executor over synthetic chains for
// approximately duration, extending one column at a time, and reports the
// achieved hash rate. workers <= 0 detects the logical CPU count;
// batchSize <= 0 selects defaultBatchSize.
func MeasureCPU(ctx context.Context, newKernel func() *chain.Kernel, workers, batchSize int, duration time.Duration) (*Result, error) {
	if newKernel == nil {
		return nil, &rterrors.InvalidParameter{Message: "bench: newKernel is required"}
	}
	if duration <= 0 {
		return nil, &rterrors.InvalidParameter{Message: "bench: duration must be > 0"}
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	exec := executor.NewCPU(newKernel, workers)

	batch := make([]chain.Chain, batchSize)
	for i := range batch {
		batch[i] = chain.Chain{Start: uint64(i), End: uint64(i)}
	}

	deadline := time.Now().Add(duration)
	started := time.Now()

	var operations uint64
	for time.Now().Before(deadline) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for i := range batch {
			batch[i].End = batch[i].Start
		}

		if err := exec.Execute(ctx, batch, 0, 1); err != nil {
			return nil, &rterrors.ExecutorFatal{Err: err}
		}
		operations += uint64(len(batch))
	}

	elapsed := time.Since(started)
	rate := float64(operations) / elapsed.Seconds()

	return &Result{
		HashesPerSecond: rate,
		Workers:         workers,
		Duration:        elapsed,
		Operations:      operations,
	}, nil
}

// RecommendBatchSize estimates the largest chain batch that fits within
// memoryBudgetBytes, capped at the executor's advertised maximum.
func RecommendBatchSize(caps executor.Capabilities, memoryBudgetBytes uint64) int {
	byBudget := memoryBudgetBytes / chainBytes
	if caps.MaxBatch > 0 && byBudget > uint64(caps.MaxBatch) {
		return caps.MaxBatch
	}
	if byBudget == 0 {
		return 0
	}
	return int(byBudget)
}
