// Package trigger evaluates ordered chains of probabilistic secondary effects
// (procs) that fire off an action's outcome.
//
// Each trigger is an independent Bernoulli trial on its own named stream.
// Triggers within a stage run in declared order whether or not earlier ones
// succeeded. A trigger whose gate reads another trigger's effect therefore
// depends on that order, and its declaration must say so.
package trigger

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/actionsim/internal/actor"
	"github.com/roach88/actionsim/internal/combat"
)

// Stage is the point in the execution pipeline at which a trigger is evaluated.
type Stage int

const (
	// Begin runs for every attempt before the outcome roll. The outcome is
	// not known yet, so only OnAny triggers can pass.
	Begin Stage = iota
	// PreSpend runs on a qualifying hit of a point-consuming action, before
	// the points are spent. Context.PointsBefore holds the count to be spent.
	PreSpend
	// PostSpend runs right after the spend. Context.PointsSpent is set and the
	// counter reads zero.
	PostSpend
	// Miss runs on a non-qualifying outcome after the refund.
	Miss
	// Result runs on the outcome, after the primary effect.
	Result
	// Generated runs after the action's own points were granted.
	Generated
	// Executed runs last for every attempt.
	Executed
)

var stageNames = [...]string{"begin", "pre_spend", "post_spend", "miss", "result", "generated", "executed"}

func (s Stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// On filters triggers by outcome.
type On int

const (
	// OnHit fires on hits and crits.
	OnHit On = iota
	// OnCrit fires on crits only.
	OnCrit
	// OnAny fires for every outcome.
	OnAny
	// OnAvoid fires on misses and dodges.
	OnAvoid
)

func (o On) matches(out combat.Outcome) bool {
	switch o {
	case OnHit:
		return out.Qualifying()
	case OnCrit:
		return out == combat.OutcomeCrit
	case OnAvoid:
		return !out.Qualifying()
	default:
		return true
	}
}

// Context is the per-attempt view a trigger reads and mutates.
type Context struct {
	Actor        *actor.Actor
	Action       string
	Outcome      combat.Outcome
	Slot         actor.Slot
	Background   bool
	Harmful      bool
	GrantsPoints bool
	PointsBefore int
	PointsSpent  int
	Consumed     float64
	Amount       float64

	// Trigger is the name of the trigger being applied.
	Trigger string

	// Spawn enqueues a background attempt of the named action. It runs after
	// the current attempt finishes.
	Spawn func(action string)
}

// Trigger is one secondary effect.
type Trigger struct {
	Name  string
	Stage Stage
	On    On

	// Gate is the precondition (talent owned, buff up, weapon slot...).
	// Nil means always eligible.
	Gate func(*Context) bool

	// Chance returns the success probability. Nil means certain, with no draw.
	Chance func(*Context) float64

	// Stream overrides the default "proc/<Name>" stream key.
	Stream string

	// ExcludeBackground skips contexts produced by Spawn.
	ExcludeBackground bool

	// Cooldown is an internal cooldown started on success, tracked in the
	// actor's cooldown ledger as "icd/<Name>".
	Cooldown time.Duration

	// Apply mutates state. It returns false when it turned out to have no
	// effect, in which case no occurrence is recorded and no ICD starts.
	Apply func(*Context) bool
}

// Chain is an ordered list of triggers.
type Chain struct {
	triggers []Trigger
}

// NewChain creates a chain from triggers in declaration order.
func NewChain(triggers ...Trigger) *Chain {
	c := &Chain{}
	for _, t := range triggers {
		c.Add(t)
	}
	return c
}

// Add appends a trigger. Names must be unique and Apply is required.
func (c *Chain) Add(t Trigger) {
	if t.Name == "" || t.Apply == nil {
		panic(fmt.Sprintf("trigger: %q needs a name and an Apply function", t.Name))
	}
	for _, existing := range c.triggers {
		if existing.Name == t.Name {
			panic(fmt.Sprintf("trigger: %q declared twice", t.Name))
		}
	}
	c.triggers = append(c.triggers, t)
}

// Names returns the trigger names in declaration order.
func (c *Chain) Names() []string {
	names := make([]string, len(c.triggers))
	for i, t := range c.triggers {
		names[i] = t.Name
	}
	return names
}

// Fire evaluates every trigger of stage against ctx in declaration order and
// returns how many took effect.
func (c *Chain) Fire(stage Stage, ctx *Context) int {
	fired := 0
	for i := range c.triggers {
		t := &c.triggers[i]
		if t.Stage != stage {
			continue
		}
		if c.evaluate(t, ctx) {
			fired++
		}
	}
	return fired
}

func (c *Chain) evaluate(t *Trigger, ctx *Context) bool {
	if !t.On.matches(ctx.Outcome) {
		return false
	}
	if ctx.Background && t.ExcludeBackground {
		return false
	}
	if t.Gate != nil && !t.Gate(ctx) {
		return false
	}
	a := ctx.Actor
	if t.Cooldown > 0 && !a.Cooldowns.Get("icd/"+t.Name).Ready() {
		return false
	}
	if t.Chance != nil {
		key := t.Stream
		if key == "" {
			key = "proc/" + t.Name
		}
		if !a.Stream(key).Roll(t.Chance(ctx)) {
			return false
		}
	}
	ctx.Trigger = t.Name
	if !t.Apply(ctx) {
		return false
	}
	if t.Cooldown > 0 {
		a.Cooldowns.Get("icd/" + t.Name).Start(t.Cooldown)
	}
	a.Rec.Proc(t.Name)
	slog.Debug("trigger fired",
		"trigger", t.Name,
		"stage", t.Stage.String(),
		"action", ctx.Action,
		"outcome", ctx.Outcome.String(),
		"background", ctx.Background,
	)
	return true
}
