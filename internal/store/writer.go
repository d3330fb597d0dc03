package store

import (
	"encoding/binary"
	"io"

	"github.com/truelossless/cugparck/internal/chain"
	"github.com/truelossless/cugparck/internal/hashreg"
	"github.com/truelossless/cugparck/internal/rterrors"
)

// TableParams describes the table metadata recorded alongside the chains
// themselves.
type TableParams struct {
	HashKind     hashreg.Kind
	Charset      []byte
	L            uint8
	TableID      uint32
	M0           uint64 // startpoint count requested at generation time
	T            uint64 // chain length (column count)
	N            uint64 // search space size, used to pick the Rice parameter
	SampleStride uint32 // 0 selects DefaultSampleStride
}

// sampleEntry is one row of the sampling index: the endpoint value at a
// sampled chain and the bit offset its codeword starts at within the
// endpoint_bits section.
type sampleEntry struct {
	endpoint  uint64
	bitOffset uint64
}

// WriteTable encodes chains — which must already be sorted ascending by End
// and deduplicated — as a compressed table file.
func WriteTable(w io.Writer, params TableParams, chains []chain.Chain) error {
	for i := 1; i < len(chains); i++ {
		if chains[i].End <= chains[i-1].End {
			return &rterrors.InvalidParameter{Message: "store: chains must be sorted ascending by endpoint with no duplicates"}
		}
	}

	stride := params.SampleStride
	if stride == 0 {
		stride = DefaultSampleStride
	}

	m := uint64(len(chains))
	k := riceK(params.N, m)

	header := &Header{
		Version:      Version,
		HashKind:     params.HashKind,
		CharsetLen:   uint8(len(params.Charset)),
		L:            params.L,
		TableID:      params.TableID,
		M0:           params.M0,
		T:            params.T,
		M:            m,
		RiceK:        k,
		SampleStride: stride,
		Charset:      params.Charset,
	}
	if err := writeHeader(w, header); err != nil {
		return err
	}

	startpoints := make([]byte, 8*len(chains))
	for i, c := range chains {
		binary.LittleEndian.PutUint64(startpoints[8*i:8*i+8], c.Start)
	}
	if _, err := w.Write(startpoints); err != nil {
		return err
	}

	bw := &bitWriter{}
	samples := make([]sampleEntry, 0, m/uint64(stride)+1)
	var prevEnd uint64
	for i, c := range chains {
		if uint64(i)%uint64(stride) == 0 {
			samples = append(samples, sampleEntry{endpoint: c.End, bitOffset: bw.bitsLen()})
		}
		delta := c.End - prevEnd
		bw.writeRice(delta, k)
		prevEnd = c.End
	}

	sampleIndexLen := make([]byte, 4)
	binary.LittleEndian.PutUint32(sampleIndexLen, uint32(len(samples)))
	if _, err := w.Write(sampleIndexLen); err != nil {
		return err
	}

	sampleBuf := make([]byte, 16*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint64(sampleBuf[16*i:16*i+8], s.endpoint)
		binary.LittleEndian.PutUint64(sampleBuf[16*i+8:16*i+16], s.bitOffset)
	}
	if _, err := w.Write(sampleBuf); err != nil {
		return err
	}

	endpointBits := padToMultipleOf8Bytes(bw.buf)
	_, err := w.Write(endpointBits)
	return err
}
