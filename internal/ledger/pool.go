// Package ledger holds an actor's spendable resources: a regenerating pool
// (energy) and a capped builder-point counter (combo points).
//
// Both are plain state with no scheduling of their own. The actor's regen
// tick calls Pool.Regen; actions call TryConsume, Gain, Add and Spend.
package ledger

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/roach88/actionsim/internal/observe"
)

// RegenModifier returns a multiplicative factor applied to the regen rate.
// It is read live on every regen, so effects can toggle it by being up or down.
type RegenModifier func() float64

type namedModifier struct {
	name string
	fn   RegenModifier
}

// Pool is a bounded scalar resource that regenerates over time.
//
// Invariant: 0 <= Current() <= Max() at every observation point.
type Pool struct {
	name      string
	max       float64
	rate      float64
	current   float64
	modifiers []namedModifier
	rec       *observe.Recorder
}

// NewPool creates an empty pool. rate is in units per second.
func NewPool(name string, max, rate float64, rec *observe.Recorder) *Pool {
	if max <= 0 {
		panic(fmt.Sprintf("ledger: pool %q max must be positive, got %v", name, max))
	}
	if rate < 0 {
		panic(fmt.Sprintf("ledger: pool %q regen rate must not be negative, got %v", name, rate))
	}
	if rec == nil {
		rec = observe.New()
	}
	return &Pool{name: name, max: max, rate: rate, rec: rec}
}

// Name returns the resource name used in observations.
func (p *Pool) Name() string { return p.name }

// Current returns the current value.
func (p *Pool) Current() float64 { return p.current }

// Max returns the upper bound.
func (p *Pool) Max() float64 { return p.max }

// Deficit returns Max() - Current().
func (p *Pool) Deficit() float64 { return p.max - p.current }

// AddRegenModifier registers a named multiplicative modifier. Modifiers are
// applied in name order so the product is independent of registration order.
func (p *Pool) AddRegenModifier(name string, fn RegenModifier) {
	for _, m := range p.modifiers {
		if m.name == name {
			panic(fmt.Sprintf("ledger: pool %q already has regen modifier %q", p.name, name))
		}
	}
	p.modifiers = append(p.modifiers, namedModifier{name: name, fn: fn})
	sort.Slice(p.modifiers, func(i, j int) bool { return p.modifiers[i].name < p.modifiers[j].name })
}

// RegenRate returns the effective regen rate per second with every modifier applied.
func (p *Pool) RegenRate() float64 {
	r := p.rate
	for _, m := range p.modifiers {
		r *= m.fn()
	}
	return r
}

// Regen applies RegenRate() * dt, clamped to Max(). Returns the amount actually added.
func (p *Pool) Regen(dt time.Duration) float64 {
	if dt < 0 {
		panic(fmt.Sprintf("ledger: pool %q regen with negative dt %v", p.name, dt))
	}
	return p.Gain(p.RegenRate()*dt.Seconds(), "regen")
}

// TryConsume subtracts cost if affordable. A failed attempt never mutates the pool.
func (p *Pool) TryConsume(cost float64) bool {
	if cost < 0 {
		panic(fmt.Sprintf("ledger: pool %q consume with negative cost %v", p.name, cost))
	}
	if cost > p.current {
		return false
	}
	p.current -= cost
	return true
}

// Gain adds amount up to Max() and records it under reason. The clamped
// remainder is recorded as wasted. Returns the amount actually added.
func (p *Pool) Gain(amount float64, reason string) float64 {
	if amount < 0 {
		panic(fmt.Sprintf("ledger: pool %q gain with negative amount %v (%s)", p.name, amount, reason))
	}
	actual := math.Min(amount, p.max-p.current)
	p.current += actual
	p.rec.Gain(p.name, reason, actual, amount-actual)
	return actual
}

// TimeToReach returns how long regen needs to bring the pool to target at
// the current effective rate. Zero when already there; a very large duration
// when regen is stalled.
func (p *Pool) TimeToReach(target float64) time.Duration {
	need := math.Min(target, p.max) - p.current
	if need <= 0 {
		return 0
	}
	rate := p.RegenRate()
	if rate <= 0 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(math.Ceil(need / rate * float64(time.Second)))
}

// Reset empties the pool. Modifiers stay registered.
func (p *Pool) Reset() {
	p.current = 0
}
