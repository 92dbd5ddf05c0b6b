package harness

import (
	"fmt"
	"math"
	"time"

	"github.com/roach88/actionsim/internal/cooldown"
	"github.com/roach88/actionsim/internal/effect"
	"github.com/roach88/actionsim/internal/ledger"
	"github.com/roach88/actionsim/internal/observe"
	"github.com/roach88/actionsim/internal/rng"
	"github.com/roach88/actionsim/internal/sched"
	"github.com/roach88/actionsim/internal/testutil"
	"github.com/roach88/actionsim/internal/trace"
)

// Result is the outcome of running a scenario.
type Result struct {
	// Pass is true when every op behaved as expected and every assertion held.
	Pass bool

	// Errors lists each failed expectation or assertion.
	Errors []string

	// Ops holds one entry per executed op.
	Ops []OpResult

	// Trace holds every event recorded after setup.
	Trace []observe.Event
}

// OpResult is the outcome of one op.
type OpResult struct {
	Index int
	Op    string
	// Value is the op's return value, nil for ops that return nothing.
	Value any
	// Panic holds the contract violation message when the op panicked.
	Panic string
}

// env is the world a scenario runs against.
type env struct {
	sched     *sched.Scheduler
	streams   *testutil.Streams
	rec       *observe.Recorder
	pool      *ledger.Pool
	points    *ledger.Points
	effects   *effect.Set
	cooldowns *cooldown.Ledger
	collector *trace.Collector
	baseProcs map[string]int
}

// Run executes a scenario. The returned error reports a scenario that could
// not be set up; failed expectations are reported in Result.Errors.
func Run(s *Scenario) (*Result, error) {
	e, err := newEnv(s)
	if err != nil {
		return nil, err
	}

	res := &Result{Pass: true}
	for i, op := range s.Ops {
		or := e.apply(i, op)
		res.Ops = append(res.Ops, or)
		switch {
		case op.ExpectPanic && or.Panic == "":
			res.fail("ops[%d] %s: expected a contract violation, got %s", i, op.Op, describe(or.Value))
		case !op.ExpectPanic && or.Panic != "":
			res.fail("ops[%d] %s: unexpected contract violation: %s", i, op.Op, or.Panic)
		case op.Expect != nil && !valuesEqual(op.Expect, or.Value):
			res.fail("ops[%d] %s: expected %s, got %s", i, op.Op, describe(op.Expect), describe(or.Value))
		}
	}
	res.Trace = e.collector.Events

	for i, a := range s.Assertions {
		if err := e.check(a, res); err != nil {
			res.fail("assertions[%d] %s: %v", i, a.Type, err)
		}
	}
	return res, nil
}

func (r *Result) fail(format string, args ...any) {
	r.Pass = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func newEnv(s *Scenario) (e *env, err error) {
	// Setup values are validated, but effect construction can still reject
	// combinations such as a stepped effect with a zero max stack.
	defer func() {
		if r := recover(); r != nil {
			e, err = nil, fmt.Errorf("setup: %v", r)
		}
	}()

	su := s.Setup
	e = &env{
		sched:     sched.New(),
		rec:       observe.New(),
		collector: &trace.Collector{},
	}
	e.streams = testutil.NewStreams(rng.NewSource(s.Seed))
	for key, st := range su.Streams {
		switch {
		case st.Forced == "always":
			e.streams.Set(key, testutil.Always())
		case st.Forced == "never":
			e.streams.Set(key, testutil.Never())
		default:
			e.streams.Set(key, testutil.Script(key, st.Values...))
		}
	}

	if su.Pool != nil {
		e.pool = ledger.NewPool("energy", su.Pool.Max, su.Pool.Regen, e.rec)
		if su.Pool.Initial > 0 {
			e.pool.Gain(su.Pool.Initial, "initial")
		}
	}
	if su.Points != nil {
		e.points = ledger.NewPoints("combo_points", su.Points.Cap, e.rec)
		if su.Points.Count > 0 {
			e.points.Add(su.Points.Count, "setup")
		}
	}

	e.effects = effect.NewSet("", e.sched, e.streams, e.rec)
	for _, es := range su.Effects {
		eff := e.effects.Register(effectDef(es))
		if es.Stack > 0 {
			eff.Increment(es.Stack)
		}
	}

	e.cooldowns = cooldown.New(e.sched)
	for name, secs := range su.Cooldowns {
		e.cooldowns.Register(name, sched.Seconds(secs))
	}

	// Counters are reported relative to the end of setup, and the trace
	// starts here.
	e.baseProcs = e.rec.Snapshot().Procs
	e.rec.SetTracer(e.sched.Now, e.collector.Collect)
	return e, nil
}

func effectDef(es EffectSetup) effect.Def {
	policy, _ := effect.ParsePolicy(es.Policy)
	def := effect.Def{
		Name:     es.Name,
		Policy:   policy,
		MaxStack: es.MaxStack,
		Duration: sched.Seconds(es.Duration),
		Value:    es.Value,
		Chance:   es.Chance,
	}
	if policy == effect.ConditionalExtend {
		base, per := es.ExtendBase, es.ExtendPer
		def.Extend = func(n int) time.Duration {
			return sched.Seconds(base + per*float64(n))
		}
	}
	if policy == effect.ProbabilisticStepped {
		step := es.StepValue
		def.StepValue = func(stack int) float64 { return step * float64(stack) }
	}
	return def
}

// apply runs one op, recovering contract violations.
func (e *env) apply(index int, op Op) (res OpResult) {
	res = OpResult{Index: index, Op: op.Op}
	defer func() {
		if r := recover(); r != nil {
			res.Value = nil
			res.Panic = fmt.Sprint(r)
		}
	}()
	res.Value = e.run(op)
	return res
}

func (e *env) run(op Op) any {
	switch op.Op {
	case OpConsume:
		return e.pool.TryConsume(op.Amount)
	case OpGain:
		reason := op.Reason
		if reason == "" {
			reason = "scenario"
		}
		return e.pool.Gain(op.Amount, reason)
	case OpRegen:
		return e.pool.Regen(sched.Seconds(op.Seconds))
	case OpAddPoints:
		reason := op.Reason
		if reason == "" {
			reason = "scenario"
		}
		actual, overflow := e.points.Add(op.N, reason)
		return map[string]any{"actual": actual, "overflow": overflow}
	case OpSpend:
		return e.points.Spend()
	case OpRank:
		return e.points.Rank(op.Values...)
	case OpTrigger:
		eff := e.effects.Get(op.Effect)
		if eff.Policy() == effect.ConditionalExtend {
			return eff.TriggerWith(op.N)
		}
		if op.Amount != 0 {
			return eff.TriggerValue(op.Amount)
		}
		return eff.Trigger()
	case OpStep:
		return e.effects.Get(op.Effect).Step()
	case OpIncrement:
		e.effects.Get(op.Effect).Increment(op.N)
	case OpDecrement:
		e.effects.Get(op.Effect).Decrement(op.N)
	case OpExpire:
		e.effects.Get(op.Effect).Expire()
	case OpAdvance:
		e.sched.Advance(sched.Seconds(op.Seconds))
	case OpCooldownStart:
		e.cooldowns.Get(op.Name).Start(sched.Seconds(op.Seconds))
	case OpCooldownTrigger:
		e.cooldowns.Get(op.Name).Trigger()
	case OpCooldownReduce:
		e.cooldowns.Get(op.Name).Reduce(sched.Seconds(op.Seconds))
	case OpCooldownReset:
		e.cooldowns.Get(op.Name).Reset()
	}
	return nil
}

// valuesEqual compares an expected YAML value against an op or state
// value. Numbers compare within 1e-9; maps compare the expected keys only.
func valuesEqual(want, got any) bool {
	if wf, ok := toFloat(want); ok {
		gf, ok := toFloat(got)
		return ok && math.Abs(wf-gf) <= 1e-9
	}
	switch w := want.(type) {
	case map[string]any:
		g, ok := got.(map[string]any)
		if !ok {
			return false
		}
		for k, wv := range w {
			if !valuesEqual(wv, g[k]) {
				return false
			}
		}
		return true
	case nil:
		return got == nil
	default:
		return want == got
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func describe(v any) string {
	if v == nil {
		return "nothing"
	}
	return fmt.Sprintf("%v", v)
}
