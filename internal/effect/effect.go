// Package effect implements timed, stacking modifiers (buffs and debuffs) and
// periodic effects (dots and channels).
//
// An Effect is inactive at stack 0 and active at stack >= 1. Expiry is
// scheduled on the simulation scheduler. Whichever way an effect leaves the
// active state (natural expiry, Expire, or Decrement to zero) its OnExpire
// hooks run exactly once. Reset is the one exception: it clears trial state
// silently.
package effect

import (
	"fmt"
	"math"
	"time"

	"github.com/roach88/actionsim/internal/observe"
	"github.com/roach88/actionsim/internal/rng"
	"github.com/roach88/actionsim/internal/sched"
)

// Forever is the remaining time of an active effect with no duration.
const Forever = time.Duration(math.MaxInt64)

// Policy selects how a trigger refreshes an effect.
type Policy int

const (
	// Simple always (re)starts the duration and adds a stack up to MaxStack.
	Simple Policy = iota
	// ConditionalExtend applies only when the candidate duration beats the
	// time remaining.
	ConditionalExtend
	// ProbabilisticStepped rolls for each additional stack.
	ProbabilisticStepped
	// SourceScaled computes its magnitude from live state at read time.
	SourceScaled
)

var policyNames = map[Policy]string{
	Simple:               "simple",
	ConditionalExtend:    "conditional_extend",
	ProbabilisticStepped: "probabilistic_stepped",
	SourceScaled:         "source_scaled",
}

// String returns the snake_case policy name.
func (p Policy) String() string {
	if s, ok := policyNames[p]; ok {
		return s
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

// ParsePolicy maps a snake_case name back to a Policy.
func ParsePolicy(s string) (Policy, error) {
	for p, name := range policyNames {
		if name == s {
			return p, nil
		}
	}
	return Simple, fmt.Errorf("unknown effect policy %q", s)
}

// Def is the static description of an effect.
type Def struct {
	Name     string
	Policy   Policy
	MaxStack int           // defaults to 1
	Duration time.Duration // zero means the effect lasts until expired
	Value    float64       // magnitude set on trigger

	// Extend returns the candidate duration for TriggerWith(n).
	// Required for ConditionalExtend.
	Extend func(n int) time.Duration

	// Chance and StepValue drive ProbabilisticStepped. StepValue receives the
	// new stack count. Stream defaults to "effect/<Name>".
	Chance    float64
	StepValue func(stack int) float64
	Stream    string

	// Source is read by Value() for SourceScaled effects.
	Source func() float64
}

// Effect is a registered, stateful instance of a Def.
type Effect struct {
	def       Def
	stack     int
	value     float64
	timed     bool
	expiresAt time.Duration
	expiry    *sched.Event
	sched     *sched.Scheduler
	stream    rng.Stream
	rec       *observe.Recorder
	onExpire  []func()
}

// New validates def and creates an inactive effect.
func New(def Def, s *sched.Scheduler, streams rng.Provider, rec *observe.Recorder) *Effect {
	if def.Name == "" {
		panic("effect: definition without a name")
	}
	if def.MaxStack <= 0 {
		def.MaxStack = 1
	}
	if def.Duration < 0 {
		panic(fmt.Sprintf("effect: %q has negative duration %v", def.Name, def.Duration))
	}
	if rec == nil {
		rec = observe.New()
	}
	e := &Effect{def: def, sched: s, rec: rec}

	switch def.Policy {
	case ConditionalExtend:
		if def.Extend == nil {
			panic(fmt.Sprintf("effect: conditional-extend %q needs an Extend function", def.Name))
		}
	case ProbabilisticStepped:
		if streams == nil {
			panic(fmt.Sprintf("effect: stepped %q needs a stream provider", def.Name))
		}
		key := def.Stream
		if key == "" {
			key = "effect/" + def.Name
		}
		e.stream = streams.Stream(key)
	case SourceScaled:
		if def.Source == nil {
			panic(fmt.Sprintf("effect: source-scaled %q needs a Source function", def.Name))
		}
	}
	return e
}

// Name returns the effect name.
func (e *Effect) Name() string { return e.def.Name }

// Policy returns the refresh policy.
func (e *Effect) Policy() Policy { return e.def.Policy }

// MaxStack returns the stack ceiling.
func (e *Effect) MaxStack() int { return e.def.MaxStack }

// Check reports whether the effect is active.
func (e *Effect) Check() bool { return e.stack > 0 }

// Stack returns the current stack count.
func (e *Effect) Stack() int { return e.stack }

// Value returns the current magnitude, or 0 while inactive. SourceScaled
// effects read their source on every call.
func (e *Effect) Value() float64 {
	if e.stack == 0 {
		return 0
	}
	if e.def.Policy == SourceScaled {
		return e.def.Source()
	}
	return e.value
}

// Remains returns the time left: 0 while inactive, Forever for an active
// effect without a duration.
func (e *Effect) Remains() time.Duration {
	if e.stack == 0 {
		return 0
	}
	if !e.timed {
		return Forever
	}
	if r := e.expiresAt - e.sched.Now(); r > 0 {
		return r
	}
	return 0
}

// RemainsLT reports whether Remains() < t. Inactive effects count as zero.
func (e *Effect) RemainsLT(t time.Duration) bool {
	return e.Remains() < t
}

// OnExpire registers fn to run whenever the effect becomes inactive.
func (e *Effect) OnExpire(fn func()) {
	e.onExpire = append(e.onExpire, fn)
}

// Trigger applies the effect using its policy's default arguments: one stack
// for Simple and SourceScaled, TriggerWith(0) for ConditionalExtend, and Step
// for ProbabilisticStepped. Returns whether state changed.
func (e *Effect) Trigger() bool {
	switch e.def.Policy {
	case ConditionalExtend:
		return e.TriggerWith(0)
	case ProbabilisticStepped:
		return e.Step()
	default:
		return e.TriggerValue(e.def.Value)
	}
}

// TriggerValue adds a stack with an explicit magnitude and restarts the duration.
func (e *Effect) TriggerValue(v float64) bool {
	if e.def.Policy == ConditionalExtend || e.def.Policy == ProbabilisticStepped {
		panic(fmt.Sprintf("effect: TriggerValue on %s effect %q", e.def.Policy, e.def.Name))
	}
	e.stack = min(e.stack+1, e.def.MaxStack)
	e.value = v
	e.setExpiry(e.def.Duration)
	e.rec.Trace("effect", e.def.Name, "op", "trigger", "stack", e.stack)
	return true
}

// TriggerWith applies a ConditionalExtend effect sized by n. The candidate
// duration Extend(n) is applied only if it exceeds Remains(); otherwise the
// call is a no-op and returns false.
func (e *Effect) TriggerWith(n int) bool {
	if e.def.Policy != ConditionalExtend {
		panic(fmt.Sprintf("effect: TriggerWith on %s effect %q", e.def.Policy, e.def.Name))
	}
	candidate := e.def.Extend(n)
	if candidate <= 0 {
		panic(fmt.Sprintf("effect: %q candidate duration %v for n=%d is not positive", e.def.Name, candidate, n))
	}
	if e.Check() && candidate <= e.Remains() {
		return false
	}
	e.stack = max(e.stack, 1)
	e.value = e.def.Value
	e.setExpiry(candidate)
	e.rec.Trace("effect", e.def.Name, "op", "extend", "n", n)
	return true
}

// Step rolls for one additional stack of a ProbabilisticStepped effect.
// At MaxStack it returns false without drawing from the stream.
func (e *Effect) Step() bool {
	if e.def.Policy != ProbabilisticStepped {
		panic(fmt.Sprintf("effect: Step on %s effect %q", e.def.Policy, e.def.Name))
	}
	if e.stack >= e.def.MaxStack {
		return false
	}
	if !e.stream.Roll(e.def.Chance) {
		return false
	}
	e.stack++
	e.value = e.stepValue()
	e.setExpiry(e.def.Duration)
	e.rec.Trace("effect", e.def.Name, "op", "step", "stack", e.stack)
	return true
}

// Increment adds n stacks (capped) and restarts the duration, activating the
// effect if needed.
func (e *Effect) Increment(n int) {
	if n <= 0 {
		panic(fmt.Sprintf("effect: %q increment by %d", e.def.Name, n))
	}
	if e.def.Policy == ConditionalExtend {
		panic(fmt.Sprintf("effect: Increment on conditional-extend effect %q", e.def.Name))
	}
	if e.stack == 0 {
		e.value = e.def.Value
	}
	e.stack = min(e.stack+n, e.def.MaxStack)
	if e.def.Policy == ProbabilisticStepped {
		e.value = e.stepValue()
	}
	e.setExpiry(e.def.Duration)
	e.rec.Trace("effect", e.def.Name, "op", "increment", "stack", e.stack)
}

// Decrement removes n stacks. Reaching zero is an expiry and runs the
// OnExpire hooks. Decrementing an inactive effect is a no-op.
func (e *Effect) Decrement(n int) {
	if n <= 0 {
		panic(fmt.Sprintf("effect: %q decrement by %d", e.def.Name, n))
	}
	if e.stack == 0 {
		return
	}
	if e.stack <= n {
		e.Expire()
		return
	}
	e.stack -= n
	if e.def.Policy == ProbabilisticStepped {
		e.value = e.stepValue()
	}
	e.rec.Trace("effect", e.def.Name, "op", "decrement", "stack", e.stack)
}

// Expire forces the effect inactive and notifies dependents. No-op when
// already inactive.
func (e *Effect) Expire() {
	if e.stack == 0 {
		return
	}
	e.clear()
	e.rec.Trace("effect", e.def.Name, "op", "expire")
	for _, fn := range e.onExpire {
		fn()
	}
}

// Reset clears the effect without running hooks. Used at trial boundaries.
func (e *Effect) Reset() {
	e.clear()
}

func (e *Effect) clear() {
	e.stack = 0
	e.value = 0
	e.timed = false
	e.sched.Cancel(e.expiry)
}

func (e *Effect) stepValue() float64 {
	if e.def.StepValue == nil {
		return e.def.Value * float64(e.stack)
	}
	return e.def.StepValue(e.stack)
}

func (e *Effect) setExpiry(d time.Duration) {
	if d == 0 {
		e.timed = false
		e.sched.Cancel(e.expiry)
		return
	}
	e.timed = true
	e.expiresAt = e.sched.Now() + d
	if e.expiry == nil {
		e.expiry = e.sched.Schedule(d, "expire/"+e.def.Name, e.Expire)
		return
	}
	e.sched.Reschedule(e.expiry, d)
}
