package store

import (
	"encoding/binary"

	"golang.org/x/exp/mmap"

	"github.com/truelossless/cugparck/internal/rterrors"
)

// decodeWindow is how many bytes of the endpoint_bits section a lookup
// pulls in per ReadAt call. Rice codewords average k+2 bits; a window this
// size comfortably covers a full sample stride even for a pessimistic k.
const decodeWindow = 16 * 1024

// Reader is a memory-mapped, read-only view of a compressed table file.
// It decodes only the sampling-index entry and Rice codeword span a given
// lookup needs, never the whole file.
type Reader struct {
	ra     *mmap.ReaderAt
	header Header

	startpointsOff  int64
	sampleIndexOff  int64
	sampleLen       uint32
	sampleArrayOff  int64
	endpointBitsOff int64
	endpointBitsLen int64
}

// Open memory-maps the table file at path and parses its header and
// sampling index.
func Open(path string) (*Reader, error) {
	ra, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}

	fixed := make([]byte, headerFixedSize)
	if _, err := ra.ReadAt(fixed, 0); err != nil {
		ra.Close()
		return nil, err
	}
	charsetLen := fixed[7]

	full := make([]byte, headerFixedSize+int(charsetLen))
	if _, err := ra.ReadAt(full, 0); err != nil {
		ra.Close()
		return nil, err
	}
	header, err := decodeHeader(full)
	if err != nil {
		ra.Close()
		return nil, err
	}
	header.Charset = append([]byte(nil), full[headerFixedSize:]...)

	startpointsOff := int64(header.Size())
	startpointsLen := int64(8 * header.M)

	sampleIndexOff := startpointsOff + startpointsLen
	sampleLenBuf := make([]byte, 4)
	if _, err := ra.ReadAt(sampleLenBuf, sampleIndexOff); err != nil {
		ra.Close()
		return nil, err
	}
	sampleLen := binary.LittleEndian.Uint32(sampleLenBuf)

	sampleArrayOff := sampleIndexOff + 4
	endpointBitsOff := sampleArrayOff + int64(16*sampleLen)
	endpointBitsLen := int64(ra.Len()) - endpointBitsOff
	if endpointBitsLen < 0 {
		ra.Close()
		return nil, &rterrors.CorruptedTable{Message: "file shorter than header claims"}
	}

	return &Reader{
		ra:              ra,
		header:          *header,
		startpointsOff:  startpointsOff,
		sampleIndexOff:  sampleIndexOff,
		sampleLen:       sampleLen,
		sampleArrayOff:  sampleArrayOff,
		endpointBitsOff: endpointBitsOff,
		endpointBitsLen: endpointBitsLen,
	}, nil
}

// Close unmaps the underlying file.
func (r *Reader) Close() error { return r.ra.Close() }

// Header returns a copy of the table's parsed header.
func (r *Reader) Header() Header { return r.header }

func (r *Reader) sample(j uint32) (sampleEntry, error) {
	buf := make([]byte, 16)
	if _, err := r.ra.ReadAt(buf, r.sampleArrayOff+int64(j)*16); err != nil {
		return sampleEntry{}, err
	}
	return sampleEntry{
		endpoint:  binary.LittleEndian.Uint64(buf[0:8]),
		bitOffset: binary.LittleEndian.Uint64(buf[8:16]),
	}, nil
}

func (r *Reader) startpoint(index uint64) (uint64, error) {
	buf := make([]byte, 8)
	if _, err := r.ra.ReadAt(buf, r.startpointsOff+int64(8*index)); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf), nil
}

// Lookup searches for endpoint among the table's stored chains. found is
// false if no chain ends at endpoint.
func (r *Reader) Lookup(endpoint uint64) (startpoint uint64, found bool, err error) {
	if r.sampleLen == 0 {
		return 0, false, nil
	}

	// Binary search for the largest sample whose endpoint is <= target.
	lo, hi := 0, int(r.sampleLen)-1
	best := -1
	for lo <= hi {
		mid := (lo + hi) / 2
		s, serr := r.sample(uint32(mid))
		if serr != nil {
			return 0, false, serr
		}
		if s.endpoint <= endpoint {
			best = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	if best < 0 {
		return 0, false, nil
	}

	s, err := r.sample(uint32(best))
	if err != nil {
		return 0, false, err
	}

	stride := uint64(r.header.SampleStride)
	chainIdx := uint64(best) * stride

	windowOff := s.bitOffset / 8 // byte holding the sample's first bit
	window := make([]byte, decodeWindow)
	n, rerr := r.ra.ReadAt(window, r.endpointBitsOff+int64(windowOff))
	if rerr != nil && n == 0 {
		return 0, false, rerr
	}
	window = window[:n]

	br := newBitReader(window, s.bitOffset-windowOff*8)

	limit := stride
	if remaining := r.header.M - chainIdx; remaining < limit {
		limit = remaining
	}

	// The sample entry already carries the endpoint for chainIdx — its
	// codeword still has to be consumed to advance the bit cursor, but the
	// decoded delta is only meaningful relative to the previous chain's
	// endpoint, which isn't available here. Every later codeword in the
	// block decodes normally as a running delta from this anchor.
	var running uint64
	for i := uint64(0); i < limit; i++ {
		delta, ok := br.readRice(r.header.RiceK)
		if !ok {
			return 0, false, &rterrors.CorruptedTable{Message: "truncated endpoint_bits section"}
		}
		if i == 0 {
			running = s.endpoint
		} else {
			running += delta
		}
		if running == endpoint {
			sp, serr := r.startpoint(chainIdx + i)
			if serr != nil {
				return 0, false, serr
			}
			return sp, true, nil
		}
		if running > endpoint {
			return 0, false, nil
		}
	}

	return 0, false, nil
}
