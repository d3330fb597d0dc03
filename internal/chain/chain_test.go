package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truelossless/cugparck/internal/charset"
	"github.com/truelossless/cugparck/internal/hashreg"
)

func digitKernel(t *testing.T, maxLen int) *Kernel {
	t.Helper()
	cs, err := charset.New([]byte("0123456789"), maxLen)
	require.NoError(t, err)
	return NewKernel(Params{Charset: cs, Hash: hashreg.MD5, TableID: 0})
}

// Scenario 2 (spec.md §8): the endpoint is the deterministic 100-fold
// iterate of R∘H from a fixed start. We can't hand-compute the MD5 chain
// here, but we can assert the property the spec actually tests: Walk over
// the full range equals the composition of Step calls, and splitting the
// walk at any column produces the same endpoint.
func TestWalkMatchesComposedSteps(t *testing.T) {
	t.Parallel()

	k := digitKernel(t, 5)

	const start = 42
	const chainLen = 100

	want, err := k.Walk(start, 0, chainLen)
	require.NoError(t, err)

	idx := uint64(start)
	for col := uint32(0); col < chainLen; col++ {
		idx, err = k.Step(idx, col)
		require.NoError(t, err)
	}

	assert.Equal(t, want, idx)
}

func TestWalkSplitAtAnyColumnAgrees(t *testing.T) {
	t.Parallel()

	k := digitKernel(t, 5)
	const start = 42
	const chainLen = 100

	full, err := k.Walk(start, 0, chainLen)
	require.NoError(t, err)

	for split := uint32(0); split <= chainLen; split += 7 {
		mid, err := k.Walk(start, 0, split)
		require.NoError(t, err)
		end, err := k.Walk(mid, split, chainLen)
		require.NoError(t, err)
		assert.Equal(t, full, end, "split at column %d", split)
	}
}

func TestWalkIsDeterministicAcrossKernels(t *testing.T) {
	t.Parallel()

	k1 := digitKernel(t, 5)
	k2 := digitKernel(t, 5)

	a, err := k1.Walk(42, 0, 100)
	require.NoError(t, err)
	b, err := k2.Walk(42, 0, 100)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestWalkDifferentTableIDsDiverge(t *testing.T) {
	t.Parallel()

	cs, err := charset.New([]byte("0123456789"), 5)
	require.NoError(t, err)

	k0 := NewKernel(Params{Charset: cs, Hash: hashreg.MD5, TableID: 0})
	k1 := NewKernel(Params{Charset: cs, Hash: hashreg.MD5, TableID: 1})

	a, err := k0.Walk(42, 0, 50)
	require.NoError(t, err)
	b, err := k1.Walk(42, 0, 50)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestReduceDigestMatchesStepOnTheSameBytes(t *testing.T) {
	t.Parallel()

	k := digitKernel(t, 5)
	plaintext, err := k.params.Charset.IndexToPlaintext(42)
	require.NoError(t, err)
	digest := k.params.Hash.Digest(plaintext)

	want, err := k.Step(42, 3)
	require.NoError(t, err)
	got := k.ReduceDigest(digest, 3)

	assert.Equal(t, want, got)
}

func TestPlaintextAtColumnZeroIsStartpoint(t *testing.T) {
	t.Parallel()

	k := digitKernel(t, 5)
	p, err := k.Plaintext(42, 0)
	require.NoError(t, err)

	want, err := k.params.Charset.IndexToPlaintext(42)
	require.NoError(t, err)
	assert.Equal(t, want, p)
}
