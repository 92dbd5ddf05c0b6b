// Package rng provides named, independently seeded random streams.
//
// Every proc, outcome table, and damage roll draws from its own stream keyed by
// name, so adding a draw to one mechanic never shifts the sequence seen by
// another. Streams are reproducible for a given (seed, key) pair.
package rng

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"sort"
)

// Stream is a single named random sequence.
type Stream interface {
	// Roll returns true with probability p. Probabilities at or below 0 and at
	// or above 1 are decided without consuming a draw.
	Roll(p float64) bool

	// Range returns a uniform value in [lo, hi). Always consumes one draw.
	Range(lo, hi float64) float64

	// Draws returns the number of draws consumed since the stream was seeded.
	Draws() int
}

// Provider hands out streams by key. The same key always yields the same stream.
type Provider interface {
	Stream(key string) Stream
}

// Source is the production Provider backed by PCG generators.
type Source struct {
	seed    uint64
	streams map[string]*pcgStream
}

// NewSource creates a provider whose streams derive from seed.
func NewSource(seed uint64) *Source {
	return &Source{seed: seed, streams: make(map[string]*pcgStream)}
}

// Seed returns the current base seed.
func (s *Source) Seed() uint64 { return s.seed }

// Stream returns the stream for key, creating it on first use.
func (s *Source) Stream(key string) Stream {
	if st, ok := s.streams[key]; ok {
		return st
	}
	st := newPCGStream(s.seed, key)
	s.streams[key] = st
	return st
}

// Reseed re-derives every stream from a new base seed. Handles already given
// out stay valid and continue from the new sequence.
func (s *Source) Reseed(seed uint64) {
	s.seed = seed
	for key, st := range s.streams {
		st.pcg.Seed(seed, keyHash(key))
		st.draws = 0
	}
}

// Keys returns the keys of every stream created so far, sorted.
func (s *Source) Keys() []string {
	keys := make([]string, 0, len(s.streams))
	for k := range s.streams {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type pcgStream struct {
	key   string
	pcg   *rand.PCG
	r     *rand.Rand
	draws int
}

func newPCGStream(seed uint64, key string) *pcgStream {
	pcg := rand.NewPCG(seed, keyHash(key))
	return &pcgStream{key: key, pcg: pcg, r: rand.New(pcg)}
}

func (p *pcgStream) Roll(prob float64) bool {
	if prob <= 0 {
		return false
	}
	if prob >= 1 {
		return true
	}
	p.draws++
	return p.r.Float64() < prob
}

func (p *pcgStream) Range(lo, hi float64) float64 {
	if hi < lo {
		panic(fmt.Sprintf("rng: stream %q range [%v, %v) is inverted", p.key, lo, hi))
	}
	p.draws++
	return lo + p.r.Float64()*(hi-lo)
}

func (p *pcgStream) Draws() int { return p.draws }

func keyHash(key string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(key))
	return h.Sum64()
}
