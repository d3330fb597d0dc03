package pipeline

// splitMix64 is the reference SplitMix64 generator, used to derive a
// table_id-keyed permutation of the startpoint index range.
type splitMix64 struct {
	state uint64
}

func newSplitMix64(seed uint64) *splitMix64 {
	return &splitMix64{state: seed}
}

func (s *splitMix64) next() uint64 {
	s.state += 0x9E3779B97F4A7C15
	z := s.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// Startpoints returns a table_id-keyed pseudo-random permutation of
// [0, m0), computed as a SplitMix64-driven Fisher-Yates shuffle. The same
// (m0, tableID) pair always yields the same permutation, so tables remain
// reproducible across implementations that honor the same keyed mixer.
func Startpoints(m0 uint64, tableID uint32) []uint64 {
	points := make([]uint64, m0)
	for i := range points {
		points[i] = uint64(i)
	}

	rng := newSplitMix64(uint64(tableID))
	for i := len(points) - 1; i > 0; i-- {
		j := rng.next() % uint64(i+1)
		points[i], points[j] = points[j], points[i]
	}

	return points
}
