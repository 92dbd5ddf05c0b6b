package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/actionsim/internal/effect"
	"github.com/roach88/actionsim/internal/observe"
)

// check evaluates one assertion against the final world and the result.
func (e *env) check(a Assertion, res *Result) error {
	switch a.Type {
	case AssertPool:
		if e.pool == nil {
			return fmt.Errorf("no pool in setup")
		}
		return expect(a.Value, e.pool.Current())
	case AssertPoints:
		if e.points == nil {
			return fmt.Errorf("no points in setup")
		}
		return expect(a.Value, e.points.Count())
	case AssertEffectStack, AssertEffectUp, AssertEffectValue, AssertEffectRemains:
		eff, ok := e.effects.Lookup(a.Effect)
		if !ok {
			return fmt.Errorf("unknown effect %q", a.Effect)
		}
		return expect(a.Value, effectField(a.Type, eff))
	case AssertProcs:
		return expect(a.Value, e.rec.Procs(a.Name)-e.baseProcs[a.Name])
	case AssertDraws:
		return expect(a.Value, e.streams.Stream(a.Stream).Draws())
	case AssertCooldownRemains:
		cd, ok := e.cooldowns.Lookup(a.Name)
		if !ok {
			return fmt.Errorf("unknown cooldown %q", a.Name)
		}
		return expect(a.Value, cd.Remains().Seconds())
	case AssertOpResult:
		return expect(a.Value, res.Ops[*a.Op].Value)
	case AssertTraceContains:
		if countEvents(res.Trace, a.Kind, a.Name) == 0 {
			return fmt.Errorf("no %s event named %q in trace of %d events", a.Kind, a.Name, len(res.Trace))
		}
		return nil
	case AssertTraceCount:
		if n := countEvents(res.Trace, a.Kind, a.Name); n != *a.Count {
			return fmt.Errorf("expected %d %s events named %q, got %d", *a.Count, a.Kind, a.Name, n)
		}
		return nil
	case AssertTraceOrder:
		return assertTraceOrder(res.Trace, a.Events)
	}
	return fmt.Errorf("unknown assertion type %q", a.Type)
}

func expect(want, got any) error {
	if !valuesEqual(want, got) {
		return fmt.Errorf("expected %s, got %s", describe(want), describe(got))
	}
	return nil
}

// effectField reads the effect state an assertion type names. Remains is
// in seconds, with a permanent effect reported as -1.
func effectField(typ string, eff *effect.Effect) any {
	switch typ {
	case AssertEffectStack:
		return eff.Stack()
	case AssertEffectUp:
		return eff.Check()
	case AssertEffectValue:
		return eff.Value()
	default:
		if eff.Remains() == effect.Forever {
			return -1
		}
		return eff.Remains().Seconds()
	}
}

// countEvents counts events of kind. An empty name matches any name.
func countEvents(trace []observe.Event, kind, name string) int {
	n := 0
	for _, ev := range trace {
		if ev.Kind == kind && (name == "" || ev.Name == name) {
			n++
		}
	}
	return n
}

// assertTraceOrder checks that each "kind:name" appears after the previous
// one. Other events may appear in between.
func assertTraceOrder(trace []observe.Event, events []string) error {
	pos := 0
	for _, want := range events {
		kind, name, _ := strings.Cut(want, ":")
		found := false
		for pos < len(trace) {
			ev := trace[pos]
			pos++
			if ev.Kind == kind && ev.Name == name {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%s not found in order (expected order: %v)", want, events)
		}
	}
	return nil
}
