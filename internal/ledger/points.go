package ledger

import (
	"fmt"

	"github.com/roach88/actionsim/internal/observe"
)

// DefaultCap is the builder-point ceiling of the reference domain.
const DefaultCap = 5

// Points is a capped counter built up by generator actions and spent all at
// once by consumer actions.
type Points struct {
	name  string
	cap   int
	count int
	rec   *observe.Recorder
}

// NewPoints creates an empty counter.
func NewPoints(name string, cap int, rec *observe.Recorder) *Points {
	if cap <= 0 {
		panic(fmt.Sprintf("ledger: points %q cap must be positive, got %d", name, cap))
	}
	if rec == nil {
		rec = observe.New()
	}
	return &Points{name: name, cap: cap, rec: rec}
}

// Name returns the counter name used in observations.
func (p *Points) Name() string { return p.name }

// Count returns the current count.
func (p *Points) Count() int { return p.count }

// Cap returns the ceiling.
func (p *Points) Cap() int { return p.cap }

// Add grants n points, clamped at Cap(). actual+overflow always equals n.
//
// Records n occurrences of the counter name and overflow occurrences of
// "<name>_wasted", plus a per-reason gain.
func (p *Points) Add(n int, reason string) (actual, overflow int) {
	if n < 0 {
		panic(fmt.Sprintf("ledger: points %q add of negative count %d (%s)", p.name, n, reason))
	}
	actual = min(n, p.cap-p.count)
	overflow = n - actual
	p.count += actual

	p.rec.ProcN(p.name, n)
	p.rec.ProcN(p.name+"_wasted", overflow)
	p.rec.Gain(p.name, reason, float64(actual), float64(overflow))
	return actual, overflow
}

// Spend returns the current count and zeroes the counter. The caller must
// use the returned value for any proportional effect; it is gone afterwards.
func (p *Points) Spend() int {
	n := p.count
	p.count = 0
	p.rec.ProcN(p.name+"_spent", n)
	return n
}

// Rank returns values[Count()-1].
//
// Reading a rank with no points is a caller bug (readiness should have
// failed first) and panics, as does a table shorter than Cap().
func (p *Points) Rank(values ...float64) float64 {
	if p.count == 0 {
		panic(fmt.Sprintf("ledger: points %q rank read with zero count", p.name))
	}
	if len(values) < p.cap {
		panic(fmt.Sprintf("ledger: points %q rank table has %d values, need %d", p.name, len(values), p.cap))
	}
	return values[p.count-1]
}

// Reset zeroes the counter without recording anything.
func (p *Points) Reset() {
	p.count = 0
}
