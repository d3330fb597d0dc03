package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truelossless/cugparck/internal/chain"
	"github.com/truelossless/cugparck/internal/charset"
	"github.com/truelossless/cugparck/internal/hashreg"
)

func digitCharset(t *testing.T, maxLen int) *charset.Config {
	t.Helper()
	cs, err := charset.New([]byte("0123456789"), maxLen)
	require.NoError(t, err)
	return cs
}

func newKernelFor(cs *charset.Config) func(tableID uint32) *chain.Kernel {
	return func(tableID uint32) *chain.Kernel {
		return chain.NewKernel(chain.Params{Charset: cs, Hash: hashreg.MD5, TableID: tableID})
	}
}

func chainSet(chains []chain.Chain) map[chain.Chain]struct{} {
	set := make(map[chain.Chain]struct{}, len(chains))
	for _, c := range chains {
		set[c] = struct{}{}
	}
	return set
}

func TestStartpointsIsAPermutation(t *testing.T) {
	t.Parallel()

	const m0 = 500
	points := Startpoints(m0, 7)
	require.Len(t, points, m0)

	seen := make(map[uint64]bool, m0)
	for _, p := range points {
		require.False(t, seen[p], "duplicate startpoint %d", p)
		require.Less(t, p, uint64(m0))
		seen[p] = true
	}
}

func TestStartpointsDifferByTableID(t *testing.T) {
	t.Parallel()

	a := Startpoints(200, 1)
	b := Startpoints(200, 2)
	assert.NotEqual(t, a, b)
}

func TestStartpointsDeterministic(t *testing.T) {
	t.Parallel()

	a := Startpoints(300, 5)
	b := Startpoints(300, 5)
	assert.Equal(t, a, b)
}

// Scenario 3 (spec.md §8, downsized): generation is deterministic given
// identical parameters.
func TestGenerateIsDeterministic(t *testing.T) {
	t.Parallel()

	cs := digitCharset(t, 4)
	cfg := Config{
		Charset:         cs,
		Hash:            hashreg.MD5,
		TableID:         0,
		T:               40,
		M0:              300,
		FiltrationCount: 3,
		NewKernel:       newKernelFor(cs),
		Workers:         2,
	}

	a, err := Generate(context.Background(), cfg)
	require.NoError(t, err)
	b, err := Generate(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, a.Chains, b.Chains)
}

// Scenario 4 (spec.md §8): filtration must not change which chains survive
// finalization — only when duplicates are pruned. A chain that merges with
// another's path at any column stays merged at every later column, so the
// final (start, end) set is identical whether pruned early or only once at
// the end.
func TestFiltrationDoesNotChangeFinalChainSet(t *testing.T) {
	t.Parallel()

	cs := digitCharset(t, 3)
	base := Config{
		Charset:   cs,
		Hash:      hashreg.MD5,
		TableID:   0,
		T:         60,
		M0:        400,
		NewKernel: newKernelFor(cs),
		Workers:   2,
	}

	unfiltered := base
	filtered := base
	filtered.FiltrationColumns = []uint64{10, 25, 45}

	wantTable, err := Generate(context.Background(), unfiltered)
	require.NoError(t, err)
	gotTable, err := Generate(context.Background(), filtered)
	require.NoError(t, err)

	assert.Equal(t, chainSet(wantTable.Chains), chainSet(gotTable.Chains))
}

func TestGenerateProducesSortedUniqueEndpoints(t *testing.T) {
	t.Parallel()

	cs := digitCharset(t, 3)
	cfg := Config{
		Charset:           cs,
		Hash:              hashreg.SHA1,
		TableID:           2,
		T:                 25,
		M0:                200,
		FiltrationColumns: []uint64{5, 15},
		NewKernel:         newKernelFor(cs),
		Workers:           1,
	}

	table, err := Generate(context.Background(), cfg)
	require.NoError(t, err)
	require.NotEmpty(t, table.Chains)

	for i := 1; i < len(table.Chains); i++ {
		assert.Less(t, table.Chains[i-1].End, table.Chains[i].End, "endpoints must be strictly increasing")
	}
}

// A tiny BatchSize forces extendRange to tile every round into many small
// Execute calls; the final chain set must be identical to an unconstrained
// run, since tiling never changes what each chain walks to.
func TestGenerateWithSmallBatchSizeMatchesUnconstrained(t *testing.T) {
	t.Parallel()

	cs := digitCharset(t, 3)
	base := Config{
		Charset:         cs,
		Hash:            hashreg.MD5,
		TableID:         0,
		T:               30,
		M0:              150,
		FiltrationCount: 2,
		NewKernel:       newKernelFor(cs),
		Workers:         2,
	}

	unconstrained, err := Generate(context.Background(), base)
	require.NoError(t, err)

	tiny := base
	tiny.BatchSize = 7
	constrained, err := Generate(context.Background(), tiny)
	require.NoError(t, err)

	assert.Equal(t, unconstrained.Chains, constrained.Chains)
}

func TestGenerateRejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	cs := digitCharset(t, 3)

	_, err := Generate(context.Background(), Config{Charset: cs, T: 0, M0: 10, NewKernel: newKernelFor(cs)})
	assert.Error(t, err)

	_, err = Generate(context.Background(), Config{Charset: cs, T: 10, M0: 0, NewKernel: newKernelFor(cs)})
	assert.Error(t, err)

	_, err = Generate(context.Background(), Config{Charset: cs, T: 10, M0: 10})
	assert.Error(t, err)
}

func TestGenerateTablesSequentialProducesDisjointTableIDs(t *testing.T) {
	t.Parallel()

	cs := digitCharset(t, 3)
	base := Config{
		Charset:   cs,
		Hash:      hashreg.MD5,
		T:         20,
		M0:        100,
		NewKernel: newKernelFor(cs),
		Workers:   1,
	}

	tables, err := GenerateTables(context.Background(), base, 10, 3, false)
	require.NoError(t, err)
	require.Len(t, tables, 3)

	want := base
	want.TableID = 10
	seqTable0, err := Generate(context.Background(), want)
	require.NoError(t, err)
	assert.Equal(t, seqTable0.Chains, tables[0].Chains)
}

func TestGenerateTablesParallelMatchesSequential(t *testing.T) {
	t.Parallel()

	cs := digitCharset(t, 3)
	base := Config{
		Charset:   cs,
		Hash:      hashreg.MD5,
		T:         20,
		M0:        100,
		NewKernel: newKernelFor(cs),
		Workers:   1,
	}

	seq, err := GenerateTables(context.Background(), base, 0, 3, false)
	require.NoError(t, err)
	par, err := GenerateTables(context.Background(), base, 0, 3, true)
	require.NoError(t, err)

	for i := range seq {
		assert.Equal(t, seq[i].Chains, par[i].Chains)
	}
}

func TestDefaultFiltrationScheduleIsIncreasingAndInterior(t *testing.T) {
	t.Parallel()

	const t64 = 10000
	cols := DefaultFiltrationSchedule(t64, 4)
	require.Len(t, cols, 4)

	var prev uint64
	for _, c := range cols {
		assert.Greater(t, c, prev)
		assert.Less(t, c, uint64(t64))
		prev = c
	}
}
