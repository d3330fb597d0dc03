// Package pipeline implements the table-generation pipeline: startpoint
// selection, filtration rounds, merging, and finalization into a sorted,
// deduplicated chain set ready for the compressed store.
package pipeline

import (
	"context"
	"errors"
	"sort"

	"github.com/truelossless/cugparck/internal/appstate"
	"github.com/truelossless/cugparck/internal/chain"
	"github.com/truelossless/cugparck/internal/charset"
	"github.com/truelossless/cugparck/internal/executor"
	"github.com/truelossless/cugparck/internal/hashreg"
	"github.com/truelossless/cugparck/internal/rterrors"
	"github.com/truelossless/cugparck/internal/store"
)

// Config parametrizes a single table's generation.
type Config struct {
	Charset *charset.Config
	Hash    hashreg.Kind
	TableID uint32

	// T is the chain length: the number of columns chains are extended
	// through before finalization.
	T uint64
	// M0 is the startpoint count.
	M0 uint64

	// FiltrationColumns, when non-empty, fixes the exact interior
	// filtration columns. Otherwise FiltrationCount columns are derived
	// from DefaultFiltrationSchedule.
	FiltrationColumns []uint64
	FiltrationCount   int

	// Executor runs each round's chain extension. Nil selects a CPU
	// executor built from NewKernel.
	Executor executor.Executor
	// NewKernel builds one chain.Kernel bound to the given table ID, one
	// per CPU executor worker. It also backs the CPU fallback used after
	// Executor exhausts its retries.
	NewKernel func(tableID uint32) *chain.Kernel
	// Workers sizes the CPU executor/fallback worker pool; <= 0 detects
	// the logical CPU count.
	Workers int
	// MaxRetries bounds the halve-and-retry loop before falling back to
	// the CPU executor.
	MaxRetries int
	// BatchSize caps how many chains are tiled into a single Execute call.
	// <= 0 defers entirely to the executor's own Capabilities().MaxBatch.
	// When both are set, the smaller of the two wins.
	BatchSize int

	// ShowProgress renders a progress bar across rounds on stderr.
	ShowProgress bool
}

// Table is the finalized output of a generation run: chains sorted
// ascending by endpoint with endpoints unique within the slice.
type Table struct {
	Chains []chain.Chain
}

// TableParams derives the store.TableParams describing this config's
// output, for use when serializing a generated Table.
func (cfg Config) TableParams() store.TableParams {
	return store.TableParams{
		HashKind: cfg.Hash,
		Charset:  cfg.Charset.Alphabet(),
		L:        uint8(cfg.Charset.MaxLen()),
		TableID:  cfg.TableID,
		M0:       cfg.M0,
		T:        cfg.T,
		N:        cfg.Charset.SearchSpaceSize(),
	}
}

// kernelFactory binds cfg.NewKernel to cfg.TableID so every CPU executor
// (primary or fallback) built for this config walks the right table.
func (cfg Config) kernelFactory() func() *chain.Kernel {
	return func() *chain.Kernel { return cfg.NewKernel(cfg.TableID) }
}

func (cfg Config) validate() error {
	if cfg.Charset == nil {
		return &rterrors.InvalidParameter{Message: "pipeline: charset is required"}
	}
	if cfg.T == 0 {
		return &rterrors.InvalidParameter{Message: "pipeline: chain length t must be > 0"}
	}
	if cfg.M0 == 0 {
		return &rterrors.InvalidParameter{Message: "pipeline: startpoint count m0 must be > 0"}
	}
	if cfg.M0 > cfg.Charset.SearchSpaceSize() {
		return &rterrors.InvalidParameter{Message: "pipeline: m0 exceeds the charset's search space"}
	}
	if cfg.Executor == nil && cfg.NewKernel == nil {
		return &rterrors.InvalidParameter{Message: "pipeline: NewKernel is required when Executor is nil"}
	}
	return nil
}

// Generate runs one table's full generation: startpoint selection,
// round-by-round extension and filtration, and final sort/dedup.
func Generate(ctx context.Context, cfg Config) (*Table, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	exec := cfg.Executor
	if exec == nil {
		exec = executor.NewCPU(cfg.kernelFactory(), cfg.Workers)
	}

	order := Startpoints(cfg.M0, cfg.TableID)
	chains := make([]chain.Chain, len(order))
	for i, sp := range order {
		chains[i] = chain.Chain{Start: sp, End: sp}
	}

	columns := columnSchedule(cfg.T, cfg.FiltrationColumns, cfg.FiltrationCount)
	appstate.GenerationStarting(cfg.TableID, cfg.M0, cfg.T)

	var bar progressBar
	if cfg.ShowProgress {
		bar = newPBProgressBar(cfg.T)
		defer bar.finish()
	}

	for round := 0; round < len(columns)-1; round++ {
		from, to := uint32(columns[round]), uint32(columns[round+1])
		if from == to {
			continue
		}

		appstate.RoundStarting(round, from, to, len(chains))

		var err error
		exec, err = extendRange(ctx, exec, cfg, chains, from, to)
		if err != nil {
			return nil, err
		}

		before := len(chains)
		chains = dedupByEndpoint(chains)
		appstate.RoundFinished(round, len(chains), before-len(chains))

		if bar != nil {
			bar.setCurrent(to)
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	sort.Slice(chains, func(i, j int) bool { return chains[i].End < chains[j].End })

	return &Table{Chains: chains}, nil
}

// extendRange advances every chain in batch from from to to, tiling the
// work into executor-sized chunks and applying the halve-batch-and-retry
// then fall-back-to-CPU failure policy. It returns the executor actually
// used, so a mid-generation fallback sticks for the remaining rounds.
func extendRange(ctx context.Context, exec executor.Executor, cfg Config, chains []chain.Chain, from, to uint32) (executor.Executor, error) {
	if len(chains) == 0 {
		return exec, nil
	}

	offset := 0
	batchSize := exec.Capabilities().MaxBatch
	if cfg.BatchSize > 0 && (batchSize <= 0 || cfg.BatchSize < batchSize) {
		batchSize = cfg.BatchSize
	}
	if batchSize <= 0 || batchSize > len(chains) {
		batchSize = len(chains)
	}

	retries := 0
	for offset < len(chains) {
		if err := ctx.Err(); err != nil {
			return exec, err
		}

		end := offset + batchSize
		if end > len(chains) {
			end = len(chains)
		}

		err := exec.Execute(ctx, chains[offset:end], from, to)
		if err == nil {
			offset = end
			retries = 0
			continue
		}

		var transient *executor.TransientError
		var rtTransient *rterrors.ExecutorTransient
		if !errors.As(err, &transient) && !errors.As(err, &rtTransient) {
			return exec, &rterrors.ExecutorFatal{Err: err}
		}

		retries++
		if retries > cfg.MaxRetries {
			appstate.ExecutorFallingBackToCPU(err)
			exec = executor.NewCPU(cfg.kernelFactory(), cfg.Workers)
			batchSize = exec.Capabilities().MaxBatch
			if cfg.BatchSize > 0 && (batchSize <= 0 || cfg.BatchSize < batchSize) {
				batchSize = cfg.BatchSize
			}
			if batchSize <= 0 || batchSize > len(chains)-offset {
				batchSize = len(chains) - offset
			}
			retries = 0
			continue
		}

		batchSize /= 2
		if batchSize == 0 {
			batchSize = 1
		}
		appstate.ExecutorRetrying(retries, batchSize, err)
	}

	return exec, nil
}

// dedupByEndpoint stably sorts chains by endpoint and keeps, for every
// endpoint that collides, the chain with the lowest startpoint.
func dedupByEndpoint(chains []chain.Chain) []chain.Chain {
	sort.SliceStable(chains, func(i, j int) bool { return chains[i].End < chains[j].End })

	out := chains[:0]
	for i := 0; i < len(chains); {
		best := chains[i]
		j := i + 1
		for j < len(chains) && chains[j].End == best.End {
			if chains[j].Start < best.Start {
				best = chains[j]
			}
			j++
		}
		out = append(out, best)
		i = j
	}

	return out
}
