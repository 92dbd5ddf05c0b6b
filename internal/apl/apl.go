// Package apl evaluates an actor's priority list: an ordered set of actions,
// each guarded by predicates, with energy pooling entries.
package apl

import (
	"fmt"
	"time"

	"github.com/roach88/actionsim/internal/actor"
	"github.com/roach88/actionsim/internal/pipeline"
)

// PoolEnergy is the action name of a pooling entry.
const PoolEnergy = "pool_energy"

// Condition holds the predicates of one entry. Every set predicate must hold.
// Durations are in seconds.
type Condition struct {
	BuffUp        []string           `json:"buff_up,omitempty" yaml:"buff_up"`
	BuffDown      []string           `json:"buff_down,omitempty" yaml:"buff_down"`
	BuffRemainsLT map[string]float64 `json:"buff_remains_lt,omitempty" yaml:"buff_remains_lt"`
	DebuffUp      []string           `json:"debuff_up,omitempty" yaml:"debuff_up"`
	DebuffDown    []string           `json:"debuff_down,omitempty" yaml:"debuff_down"`
	PointsGE      *int               `json:"points_ge,omitempty" yaml:"points_ge"`
	PointsLT      *int               `json:"points_lt,omitempty" yaml:"points_lt"`
	EnergyGE      *float64           `json:"energy_ge,omitempty" yaml:"energy_ge"`
	EnergyLT      *float64           `json:"energy_lt,omitempty" yaml:"energy_lt"`
	CooldownReady []string           `json:"cooldown_ready,omitempty" yaml:"cooldown_ready"`
}

// Entry is one line of the priority list as written in a profile.
type Entry struct {
	Action  string    `json:"action" yaml:"action"`
	If      Condition `json:"if,omitempty" yaml:"if"`
	ForNext bool      `json:"for_next,omitempty" yaml:"for_next"`
	Wait    float64   `json:"wait,omitempty" yaml:"wait"`
}

// Decision is the outcome of one evaluation: an action to execute, or a
// time to wait before evaluating again.
type Decision struct {
	Action string
	Wait   time.Duration
}

func (d Decision) String() string {
	if d.Action != "" {
		return d.Action
	}
	return fmt.Sprintf("wait %v", d.Wait)
}

// ConfigError rejects a priority list. It aborts the run.
type ConfigError struct {
	Entry   int // zero-based
	Action  string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("apl entry %d (%s): %s", e.Entry, e.Action, e.Message)
}

type entry struct {
	Entry
	wait time.Duration
}

// List is a compiled priority list bound to one executor.
type List struct {
	exec    *pipeline.Executor
	entries []entry
}

// Compile validates entries against exec's actions and the actor's effects
// and cooldowns.
func Compile(entries []Entry, exec *pipeline.Executor) (*List, error) {
	if len(entries) == 0 {
		return nil, &ConfigError{Message: "priority list is empty"}
	}
	a := exec.Actor()
	l := &List{exec: exec, entries: make([]entry, len(entries))}
	for i, e := range entries {
		fail := func(format string, args ...any) error {
			return &ConfigError{Entry: i, Action: e.Action, Message: fmt.Sprintf(format, args...)}
		}
		pool := e.Action == PoolEnergy
		if _, ok := exec.Action(e.Action); !ok && !pool {
			return nil, fail("unknown action")
		}
		switch {
		case e.Wait < 0:
			return nil, fail("negative wait %v", e.Wait)
		case e.Wait > 0 && !pool:
			return nil, fail("wait is only valid on %s", PoolEnergy)
		case e.ForNext && !pool:
			return nil, fail("for_next is only valid on %s", PoolEnergy)
		case e.ForNext && i == len(entries)-1:
			return nil, fail("for_next on the last entry")
		case e.ForNext && e.Wait > 0:
			return nil, fail("for_next and wait are exclusive")
		case pool && !e.ForNext && e.Wait == 0:
			return nil, fail("%s needs for_next or wait", PoolEnergy)
		}
		if msg := checkNames(a, e.If); msg != "" {
			return nil, fail("%s", msg)
		}
		l.entries[i] = entry{Entry: e, wait: time.Duration(e.Wait * float64(time.Second))}
	}
	return l, nil
}

func checkNames(a *actor.Actor, c Condition) string {
	buffs := append(append([]string{}, c.BuffUp...), c.BuffDown...)
	for name := range c.BuffRemainsLT {
		buffs = append(buffs, name)
	}
	for _, name := range buffs {
		if _, ok := a.Buffs.Lookup(name); !ok {
			return fmt.Sprintf("unknown buff %q", name)
		}
	}
	for _, name := range append(append([]string{}, c.DebuffUp...), c.DebuffDown...) {
		if _, ok := a.Target().Debuffs.Lookup(name); !ok {
			return fmt.Sprintf("unknown debuff %q", name)
		}
	}
	for _, name := range c.CooldownReady {
		if _, ok := a.Cooldowns.Lookup(name); !ok {
			return fmt.Sprintf("unknown cooldown %q", name)
		}
	}
	return ""
}

// Len returns the number of entries.
func (l *List) Len() int { return len(l.entries) }

// Decide picks the first entry whose predicates hold and whose action is
// ready. A for_next pool waits for the next entry when energy is all it
// lacks. With no candidate the actor idles for Available().
func (l *List) Decide() Decision {
	a := l.exec.Actor()
	for i, e := range l.entries {
		if !holds(a, e.If) {
			continue
		}
		if e.Action != PoolEnergy {
			if l.exec.IsReady(e.Action) {
				return Decision{Action: e.Action}
			}
			continue
		}
		if e.wait > 0 {
			return Decision{Wait: e.wait}
		}
		next := l.entries[i+1]
		if !holds(a, next.If) || l.exec.IsReady(next.Action) {
			continue
		}
		if !l.exec.ReadyWith(next.Action, a.Energy.Max()) {
			continue
		}
		cost, _ := l.exec.CostOf(next.Action)
		return Decision{Wait: max(a.Energy.TimeToReach(cost), actor.MinAvailable)}
	}
	return Decision{Wait: a.Available()}
}

func holds(a *actor.Actor, c Condition) bool {
	for _, n := range c.BuffUp {
		if !a.Buffs.Up(n) {
			return false
		}
	}
	for _, n := range c.BuffDown {
		if a.Buffs.Up(n) {
			return false
		}
	}
	for n, secs := range c.BuffRemainsLT {
		if !a.Buffs.Get(n).RemainsLT(time.Duration(secs * float64(time.Second))) {
			return false
		}
	}
	debuffs := a.Target().Debuffs
	for _, n := range c.DebuffUp {
		if !debuffs.Up(n) {
			return false
		}
	}
	for _, n := range c.DebuffDown {
		if debuffs.Up(n) {
			return false
		}
	}
	if c.PointsGE != nil && a.Points.Count() < *c.PointsGE {
		return false
	}
	if c.PointsLT != nil && a.Points.Count() >= *c.PointsLT {
		return false
	}
	if c.EnergyGE != nil && a.Energy.Current() < *c.EnergyGE {
		return false
	}
	if c.EnergyLT != nil && a.Energy.Current() >= *c.EnergyLT {
		return false
	}
	for _, n := range c.CooldownReady {
		if !a.Cooldowns.Get(n).Ready() {
			return false
		}
	}
	return true
}
