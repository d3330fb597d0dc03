// Package chain implements the one-step and many-step chain extension
// primitives: the deterministic walk of alternating hash and reduction
// steps that rainbow chains are built from.
package chain

import (
	"github.com/truelossless/cugparck/internal/charset"
	"github.com/truelossless/cugparck/internal/hashreg"
	"github.com/truelossless/cugparck/internal/reduction"
)

// Chain is a plain 16-byte value: a startpoint/endpoint pair. It is never
// boxed, and sort/dedup operate directly on contiguous slices of it.
type Chain struct {
	Start uint64
	End   uint64
}

// Params bundles everything a chain step needs beyond the chain value
// itself: the table's charset, hash kind, and table id.
type Params struct {
	Charset *charset.Config
	Hash    hashreg.Kind
	TableID uint32
}

// Kernel binds the table parameters a chain step needs. It holds no scratch
// buffer: every Step allocates a fresh plaintext and digest. Callers keep
// one per worker.
type Kernel struct {
	params Params
}

// NewKernel creates a chain kernel for the given table parameters.
func NewKernel(params Params) *Kernel {
	return &Kernel{params: params}
}

// Step advances an index by exactly one column: hash its plaintext, then
// reduce through column col (producing the index that starts column col+1).
func (k *Kernel) Step(idx uint64, col uint32) (uint64, error) {
	plaintext, err := k.params.Charset.IndexToPlaintext(idx)
	if err != nil {
		return 0, err
	}

	digest := k.params.Hash.Digest(plaintext)

	return reduction.Reduce(digest, col, k.params.TableID, k.params.Charset.SearchSpaceSize()), nil
}

// Walk iterates Step over columns [fromCol, toCol), returning the resulting
// index. Both endpoints are column numbers, not indices.
func (k *Kernel) Walk(start uint64, fromCol, toCol uint32) (uint64, error) {
	idx := start
	for col := fromCol; col < toCol; col++ {
		next, err := k.Step(idx, col)
		if err != nil {
			return 0, err
		}
		idx = next
	}
	return idx, nil
}

// ReduceDigest reduces a raw digest through column col, producing the
// index that would start column col+1 had this digest arisen from a
// chain's Step. The attack engine uses this to seed an inversion walk
// from a target digest rather than from a known index.
func (k *Kernel) ReduceDigest(digest []byte, col uint32) uint64 {
	return reduction.Reduce(digest, col, k.params.TableID, k.params.Charset.SearchSpaceSize())
}

// Plaintext returns the plaintext a chain passes through at the given
// column, by walking from the startpoint and reading the index back out.
func (k *Kernel) Plaintext(start uint64, col uint32) ([]byte, error) {
	idx, err := k.Walk(start, 0, col)
	if err != nil {
		return nil, err
	}
	return k.params.Charset.IndexToPlaintext(idx)
}
