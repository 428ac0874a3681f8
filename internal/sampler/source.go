package sampler

import (
	crand "crypto/rand"
	"math/big"
	"math/rand/v2"
	"sync"
)

// RandomSource yields uniform integers in [0, n).
type RandomSource interface {
	IntN(n int) int
}

type cryptoSource struct{}

func (cryptoSource) IntN(n int) int {
	v, err := crand.Int(crand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return rand.IntN(n) //nolint:gosec // fallback when the OS entropy source fails
	}
	return int(v.Int64())
}

// DefaultSource is backed by crypto/rand.
func DefaultSource() RandomSource { return cryptoSource{} }

type seededSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSeededSource returns a reproducible PCG source for simulations and tests.
func NewSeededSource(seed uint64) RandomSource {
	return &seededSource{r: rand.New(rand.NewPCG(seed, 0))} //nolint:gosec // reproducibility is the point
}

func (s *seededSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.IntN(n)
}

// SequenceSource replays fixed values modulo n. Tests use it to force rolls.
type SequenceSource struct {
	mu     sync.Mutex
	values []int
	next   int
}

// NewSequenceSource builds a SequenceSource cycling over values.
func NewSequenceSource(values ...int) *SequenceSource {
	return &SequenceSource{values: values}
}

func (s *SequenceSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	return v % n
}
