package pipeline

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/roach88/actionsim/internal/actor"
	"github.com/roach88/actionsim/internal/combat"
	"github.com/roach88/actionsim/internal/trigger"
)

// Executor owns an actor's action registry and runs the pipeline.
// It is not safe for concurrent use; each trial worker builds its own.
type Executor struct {
	actor   *actor.Actor
	chain   *trigger.Chain
	actions map[string]*Action

	quota *Quota
	guard *SpawnGuard
	queue []pending
	seq   int
}

type pending struct {
	parent  *Attempt
	trigger string
	action  string
}

// Option configures an Executor.
type Option func(*Executor)

// WithMaxAttempts sets the per-execution attempt quota.
func WithMaxAttempts(n int) Option {
	return func(e *Executor) {
		if n > 0 {
			e.quota = NewQuota(n)
		}
	}
}

// NewExecutor creates an executor for a. A nil chain means no triggers.
func NewExecutor(a *actor.Actor, chain *trigger.Chain, opts ...Option) *Executor {
	if chain == nil {
		chain = trigger.NewChain()
	}
	e := &Executor{
		actor:   a,
		chain:   chain,
		actions: make(map[string]*Action),
		quota:   NewQuota(DefaultMaxAttempts),
		guard:   NewSpawnGuard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Actor returns the executing actor.
func (e *Executor) Actor() *actor.Actor { return e.actor }

// Chain returns the trigger chain.
func (e *Executor) Chain() *trigger.Chain { return e.chain }

// Register adds an action and its cooldown entry. Duplicate names panic.
func (e *Executor) Register(act Action) *Action {
	if act.Name == "" {
		panic("pipeline: action without a name")
	}
	if _, dup := e.actions[act.Name]; dup {
		panic(fmt.Sprintf("pipeline: action %q registered twice", act.Name))
	}
	a := &act
	e.actions[a.Name] = a
	if a.Cooldown > 0 {
		e.actor.Cooldowns.Register(a.Name, a.Cooldown)
	}
	return a
}

// Action returns the registered action named name.
func (e *Executor) Action(name string) (*Action, bool) {
	a, ok := e.actions[name]
	return a, ok
}

// Names returns every registered action name, sorted.
func (e *Executor) Names() []string {
	names := make([]string, 0, len(e.actions))
	for n := range e.actions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// CostOf returns the current cost of name.
func (e *Executor) CostOf(name string) (float64, bool) {
	act, ok := e.actions[name]
	if !ok {
		return 0, false
	}
	return act.cost(e.actor), true
}

// IsReady reports whether name could execute now. Unknown names are never
// ready.
func (e *Executor) IsReady(name string) bool {
	return e.ReadyWith(name, 0)
}

// ReadyWith is IsReady with extra energy assumed available.
func (e *Executor) ReadyWith(name string, extra float64) bool {
	act, ok := e.actions[name]
	return ok && e.ready(act, extra)
}

func (e *Executor) ready(act *Action, extra float64) bool {
	a := e.actor
	if !act.OffGCD && a.Locked() {
		return false
	}
	if act.RequiresWeapon != "" {
		w := a.Weapon(act.Slot)
		if w == nil || w.Type != act.RequiresWeapon {
			return false
		}
	}
	if act.RequiresBehind && a.Position != actor.Behind {
		return false
	}
	if act.RequiresStealth && !a.Stealthed() {
		return false
	}
	if act.RequiresPoints && a.Points.Count() == 0 {
		return false
	}
	if cd, ok := a.Cooldowns.Lookup(act.Name); ok && !cd.Ready() {
		return false
	}
	if act.cost(a) > a.Energy.Current()+extra {
		return false
	}
	return act.Ready == nil || act.Ready(a)
}

// Execute runs name through the full pipeline. It returns (nil, nil) when
// the action is not ready. Errors are configuration problems that end the
// trial; the primary attempt is still returned when one ran.
func (e *Executor) Execute(name string) (*Attempt, error) {
	act, ok := e.actions[name]
	if !ok {
		return nil, unknownAction(name, "")
	}
	if !e.ready(act, 0) {
		return nil, nil
	}
	cost := act.cost(e.actor)
	if cost > e.actor.Energy.Current() {
		return nil, nil
	}
	return e.run(act, cost, false)
}

// ExecuteAuto runs name from the outcome roll onward, as a swing or a tick
// does. It costs nothing and neither locks nor starts the cooldown.
func (e *Executor) ExecuteAuto(name string) (*Attempt, error) {
	act, ok := e.actions[name]
	if !ok {
		return nil, unknownAction(name, "")
	}
	return e.run(act, 0, true)
}

func (e *Executor) run(act *Action, cost float64, auto bool) (*Attempt, error) {
	e.quota.Reset()
	e.guard.Clear()
	e.queue = e.queue[:0]

	if err := e.quota.Check(act.Name); err != nil {
		return nil, err
	}
	root := e.newAttempt(act, nil)
	root.Cost = cost
	root.Auto = auto
	e.resolve(root)

	for len(e.queue) > 0 {
		p := e.queue[0]
		e.queue = e.queue[1:]
		child, ok := e.actions[p.action]
		if !ok {
			return root, unknownAction(p.action, p.trigger)
		}
		if err := e.quota.Check(act.Name); err != nil {
			slog.Warn("attempt quota exceeded",
				"action", act.Name,
				"steps", e.quota.Current(),
				"limit", e.quota.Max(),
			)
			return root, err
		}
		at := e.newAttempt(child, p.parent)
		e.resolve(at)
		root.Spawned = append(root.Spawned, at)
	}
	return root, nil
}

func (e *Executor) newAttempt(act *Action, parent *Attempt) *Attempt {
	e.seq++
	at := &Attempt{ID: e.seq, Action: act, Actor: e.actor}
	if parent != nil {
		at.Parent = parent.ID
		at.Depth = parent.Depth + 1
		at.Background = true
	}
	at.spawn = func(trig, action string) {
		if e.guard.WouldRepeat(at.ID, trig, action) {
			slog.Warn("repeated spawn refused",
				"action", action,
				"trigger", trig,
				"parent", at.Action.Name,
			)
			return
		}
		e.guard.Record(at.ID, trig, action)
		e.queue = append(e.queue, pending{parent: at, trigger: trig, action: action})
	}
	return at
}

// resolve runs steps 3 through 8 for at.
func (e *Executor) resolve(at *Attempt) {
	a := e.actor
	act := at.Action
	at.PointsBefore = a.Points.Count()
	e.chain.Fire(trigger.Begin, at.context())

	if act.Simple {
		at.Outcome = combat.OutcomeHit
	} else {
		bonus := 0.0
		if act.CritBonus != nil {
			bonus = act.CritBonus(a)
		}
		at.Outcome = combat.Resolve(a.Stream("outcome/"+act.Name), a.AttackTable(act.Kind, bonus))
	}

	if at.Cost > 0 && a.Energy.TryConsume(at.Cost) {
		at.Consumed = at.Cost
	}
	qualifying := at.Qualifying()
	switch {
	case qualifying && act.RequiresPoints && !at.Background:
		e.chain.Fire(trigger.PreSpend, at.context())
		at.PointsSpent = a.Points.Spend()
		e.chain.Fire(trigger.PostSpend, at.context())
	case !qualifying:
		if refund := act.RefundOnMiss * at.Consumed; refund > 0 {
			a.Energy.Gain(refund, "refund")
		}
		e.chain.Fire(trigger.Miss, at.context())
	}

	if qualifying {
		if act.Magnitude != nil {
			amount := act.Magnitude(at)
			if at.Crit() {
				amount *= act.critMultiplier()
			}
			if amount > 0 {
				at.Amount = amount
				a.Target().Damage(amount)
			}
		}
		if act.Apply != nil {
			act.Apply(at)
		}
		e.chain.Fire(trigger.Result, at.context())

		if act.GrantsPoints > 0 {
			a.Points.Add(act.GrantsPoints, act.Name)
		}
		e.chain.Fire(trigger.Generated, at.context())
	}

	if !at.Background && !at.Auto {
		if act.Cooldown > 0 {
			a.Cooldowns.Get(act.Name).Trigger()
		}
		if !act.OffGCD {
			gcd := act.GCD
			if gcd <= 0 {
				gcd = a.GCD()
			}
			a.Lock(gcd)
		}
	}
	e.chain.Fire(trigger.Executed, at.context())

	a.Rec.Action(act.Name, at.Outcome.String(), at.Amount)
	slog.Debug("action executed",
		"action", act.Name,
		"outcome", at.Outcome.String(),
		"cost", at.Cost,
		"amount", at.Amount,
		"background", at.Background,
		"depth", at.Depth,
	)
}
