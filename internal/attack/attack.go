// Package attack implements online inversion of a digest against one or
// more compressed tables: the per-column inversion walk, endpoint lookup,
// and false-alarm rejection through full-chain verification.
package attack

import (
	"bytes"
	"context"
	"encoding/hex"

	"github.com/truelossless/cugparck/internal/appstate"
	"github.com/truelossless/cugparck/internal/chain"
	"github.com/truelossless/cugparck/internal/charset"
	"github.com/truelossless/cugparck/internal/hashreg"
	"github.com/truelossless/cugparck/internal/rterrors"
	"github.com/truelossless/cugparck/internal/store"
)

// TableSource bundles everything the attack engine needs to search one
// table: the zero-copy reader, a kernel bound to the table's charset, hash
// kind and table id, and that same charset for plaintext reconstruction.
type TableSource struct {
	Reader  *store.Reader
	Kernel  *chain.Kernel
	Charset *charset.Config
	Hash    hashreg.Kind
}

// Result is a successful inversion.
type Result struct {
	Plaintext []byte
	TableID   uint32
	Column    uint32
}

// Attack searches digest against every table in tables, scanning columns
// from the highest to the lowest. It returns rterrors.ErrNotFound if the
// digest isn't recovered from any table.
func Attack(ctx context.Context, digest []byte, tables []TableSource) (*Result, error) {
	if len(tables) == 0 {
		return nil, &rterrors.InvalidParameter{Message: "attack: at least one table is required"}
	}

	appstate.AttackStarting(hex.EncodeToString(digest), len(tables))

	var maxT uint64
	for _, ts := range tables {
		if t := ts.Reader.Header().T; t > maxT {
			maxT = t
		}
	}

	for col := int64(maxT) - 1; col >= 0; col-- {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for _, ts := range tables {
			if uint64(col) >= ts.Reader.Header().T {
				continue
			}

			result, err := tryColumn(ts, digest, uint32(col))
			if err != nil {
				return nil, err
			}
			if result != nil {
				appstate.ChainInverted(string(result.Plaintext), result.Column, result.TableID)
				return result, nil
			}
		}
	}

	appstate.AttackNotFound(hex.EncodeToString(digest))
	return nil, rterrors.ErrNotFound
}

// tryColumn tests whether digest could be the hash of a plaintext sitting
// at column col of some chain in ts, and verifies any endpoint match
// against a false alarm.
func tryColumn(ts TableSource, digest []byte, col uint32) (*Result, error) {
	t := uint32(ts.Reader.Header().T)

	nextColIdx := ts.Kernel.ReduceDigest(digest, col)
	endpoint, err := ts.Kernel.Walk(nextColIdx, col+1, t)
	if err != nil {
		return nil, &rterrors.CorruptedTable{Message: err.Error()}
	}

	startpoint, found, err := ts.Reader.Lookup(endpoint)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	plaintext, err := verifyChain(ts, startpoint, t, digest)
	if err != nil {
		return nil, err
	}
	if plaintext == nil {
		appstate.FalseAlarm(ts.Reader.Header().TableID, col)
		return nil, nil
	}

	return &Result{Plaintext: plaintext, TableID: ts.Reader.Header().TableID, Column: col}, nil
}

// verifyChain walks a candidate chain from its startpoint, checking at
// every column whether that column's plaintext actually hashes to target.
// A nil, nil return means the endpoint collision was a false alarm.
func verifyChain(ts TableSource, startpoint uint64, t uint32, target []byte) ([]byte, error) {
	idx := startpoint
	for col := uint32(0); col < t; col++ {
		plaintext, err := ts.Charset.IndexToPlaintext(idx)
		if err != nil {
			return nil, &rterrors.CorruptedTable{Message: err.Error()}
		}
		if bytes.Equal(ts.Hash.Digest(plaintext), target) {
			return plaintext, nil
		}

		next, err := ts.Kernel.Step(idx, col)
		if err != nil {
			return nil, &rterrors.CorruptedTable{Message: err.Error()}
		}
		idx = next
	}

	return nil, nil
}
