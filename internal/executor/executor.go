// Package executor defines the abstract batch-executor contract that drives
// parallel chain extension, plus a reference CPU implementation. GPU
// back-ends are external collaborators that satisfy the same contract; the
// core never calls a device API directly.
package executor

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/shirou/gopsutil/v4/cpu"

	"github.com/truelossless/cugparck/internal/chain"
)

// DeviceKind identifies the kind of device an executor runs on.
type DeviceKind string

// CPU is the device kind reported by the reference executor.
const CPU DeviceKind = "cpu"

// Capabilities advertises an executor's limits so the pipeline can size
// batches and partitions; the executor alone is responsible for fitting a
// batch in whatever memory it has.
type Capabilities struct {
	MaxBatch   int
	DeviceKind DeviceKind
}

// Executor advances every chain in a batch's endpoint by a column range,
// preserving startpoints. There is no ordering dependency between chains;
// implementations are free to execute the batch in any order, including in
// parallel.
type Executor interface {
	Capabilities() Capabilities
	Execute(ctx context.Context, batch []chain.Chain, fromCol, toCol uint32) error
}

// TransientError marks an executor failure the caller should retry (with a
// smaller batch) rather than treat as fatal, e.g. a GPU running out of
// memory or a device reset.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return fmt.Sprintf("executor: transient failure: %v", e.Err) }
func (e *TransientError) Unwrap() error { return e.Err }

// FatalError marks an executor failure that retrying cannot fix, e.g. a
// missing driver or permission denied.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string { return fmt.Sprintf("executor: fatal failure: %v", e.Err) }
func (e *FatalError) Unwrap() error { return e.Err }

// defaultMaxBatch bounds a single CPU batch so peak memory for the chain
// array (16 bytes/chain) stays modest even without the pipeline tiling.
const defaultMaxBatch = 1 << 24 // 16M chains, 256MiB

// CPUExecutor is the reference batch executor: a work-stealing parallel
// loop over the batch, with one chain.Kernel per worker, never shared.
// Kernels keep no scratch buffer, so each step allocates its plaintext.
type CPUExecutor struct {
	newKernel func() *chain.Kernel
	workers   int
}

// NewCPU builds a CPU executor. newKernel constructs one chain.Kernel per
// worker goroutine; workers <= 0 means "use the detected logical CPU count".
func NewCPU(newKernel func() *chain.Kernel, workers int) *CPUExecutor {
	if workers <= 0 {
		workers = detectedCPUCount()
	}
	return &CPUExecutor{newKernel: newKernel, workers: workers}
}

// detectedCPUCount reports the logical CPU count via gopsutil, falling back
// to runtime.NumCPU if the platform probe fails.
func detectedCPUCount() int {
	n, err := cpu.Counts(true)
	if err != nil || n <= 0 {
		return runtime.NumCPU()
	}
	return n
}

// Capabilities reports the CPU executor's advisory batch size and device kind.
func (e *CPUExecutor) Capabilities() Capabilities {
	return Capabilities{MaxBatch: defaultMaxBatch, DeviceKind: CPU}
}

// Execute advances every chain in batch from fromCol to toCol using a
// work-stealing pool of e.workers goroutines. Chain order in the slice is
// preserved; there is no ordering dependency between the chains themselves.
func (e *CPUExecutor) Execute(ctx context.Context, batch []chain.Chain, fromCol, toCol uint32) error {
	if len(batch) == 0 {
		return nil
	}

	workers := e.workers
	if workers > len(batch) {
		workers = len(batch)
	}

	var (
		next     atomicCounter
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)

	const chunkSize = 4096
	next.total = uint64(len(batch))

	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()

			k := e.newKernel()
			for {
				if ctx.Err() != nil {
					errOnce.Do(func() { firstErr = ctx.Err() })
					return
				}

				start, end, ok := next.take(chunkSize)
				if !ok {
					return
				}

				for i := start; i < end; i++ {
					c := &batch[i]
					endpoint, err := k.Walk(c.End, fromCol, toCol)
					if err != nil {
						errOnce.Do(func() { firstErr = &FatalError{Err: err} })
						return
					}
					c.End = endpoint
				}
			}
		}()
	}
	wg.Wait()

	return firstErr
}

// atomicCounter hands out contiguous [start, end) work ranges to workers,
// the Go equivalent of work-stealing a flat index range.
type atomicCounter struct {
	mu      sync.Mutex
	current uint64
	total   uint64
}

func (c *atomicCounter) take(chunk int) (int, int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current >= c.total {
		return 0, 0, false
	}

	start := c.current
	end := start + uint64(chunk)
	if end > c.total {
		end = c.total
	}
	c.current = end

	return int(start), int(end), true
}
