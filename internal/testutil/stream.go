package testutil

import (
	"fmt"
	"sort"

	"github.com/roach88/actionsim/internal/rng"
)

// ForcedStream always rolls the same way and always returns the same Range
// fraction. Draws are still counted so tests can assert that a mechanic did
// or did not consult its stream.
type ForcedStream struct {
	// Succeed is the result of every Roll with 0 < p < 1.
	Succeed bool
	// Fraction positions Range results: lo + Fraction*(hi-lo).
	Fraction float64

	draws int
}

// Always returns a stream whose rolls always succeed.
func Always() *ForcedStream { return &ForcedStream{Succeed: true} }

// Never returns a stream whose rolls always fail.
func Never() *ForcedStream { return &ForcedStream{Succeed: false, Fraction: 0.999999} }

// Roll mirrors rng.Stream: probabilities outside (0, 1) decide without a draw.
func (s *ForcedStream) Roll(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	s.draws++
	return s.Succeed
}

// Range returns lo + Fraction*(hi-lo).
func (s *ForcedStream) Range(lo, hi float64) float64 {
	s.draws++
	return lo + s.Fraction*(hi-lo)
}

// Draws returns the number of draws consumed.
func (s *ForcedStream) Draws() int { return s.draws }

// ScriptedStream replays a fixed list of uniform fractions in [0, 1).
// Roll(p) succeeds when the next fraction is below p.
// Panics when the script runs out.
type ScriptedStream struct {
	Name   string
	Values []float64

	draws int
}

// Script creates a scripted stream.
func Script(name string, values ...float64) *ScriptedStream {
	return &ScriptedStream{Name: name, Values: values}
}

func (s *ScriptedStream) next() float64 {
	if s.draws >= len(s.Values) {
		panic(fmt.Sprintf("ScriptedStream %q: script exhausted after %d draws", s.Name, s.draws))
	}
	v := s.Values[s.draws]
	s.draws++
	return v
}

// Roll consumes the next value unless p is outside (0, 1).
func (s *ScriptedStream) Roll(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return s.next() < p
}

// Range scales the next value into [lo, hi).
func (s *ScriptedStream) Range(lo, hi float64) float64 {
	return lo + s.next()*(hi-lo)
}

// Draws returns the number of values consumed.
func (s *ScriptedStream) Draws() int { return s.draws }

// Streams is an rng.Provider with per-key overrides.
// Keys without an override get a stream from Fallback (a forced-failure
// stream when Fallback is nil), created once and then reused.
type Streams struct {
	Fallback rng.Provider

	overrides map[string]rng.Stream
}

// NewStreams creates a provider with no overrides.
func NewStreams(fallback rng.Provider) *Streams {
	return &Streams{Fallback: fallback, overrides: make(map[string]rng.Stream)}
}

// Set installs st for key, replacing any existing stream.
func (s *Streams) Set(key string, st rng.Stream) *Streams {
	s.overrides[key] = st
	return s
}

// Stream implements rng.Provider.
func (s *Streams) Stream(key string) rng.Stream {
	if st, ok := s.overrides[key]; ok {
		return st
	}
	var st rng.Stream
	if s.Fallback != nil {
		st = s.Fallback.Stream(key)
	} else {
		st = Never()
	}
	s.overrides[key] = st
	return st
}

// Keys returns every key handed out or overridden, sorted.
func (s *Streams) Keys() []string {
	keys := make([]string, 0, len(s.overrides))
	for k := range s.overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
