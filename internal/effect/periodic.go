package effect

import (
	"fmt"
	"time"

	"github.com/roach88/actionsim/internal/observe"
	"github.com/roach88/actionsim/internal/sched"
)

// PeriodicDef describes a ticking effect: a damage-over-time or a channel.
type PeriodicDef struct {
	Name  string
	Tick  time.Duration
	Ticks int // default tick count for Start(0)

	// OnTick runs for each tick with its 1-based index.
	OnTick func(tick int)
}

// Periodic schedules a fixed number of ticks. Finishing the last tick and
// Cancel both run the OnRemove hooks.
type Periodic struct {
	def      PeriodicDef
	sched    *sched.Scheduler
	rec      *observe.Recorder
	event    *sched.Event
	ticking  bool
	left     int
	done     int
	onRemove []func()
}

// NewPeriodic validates def and creates an idle periodic effect.
func NewPeriodic(def PeriodicDef, s *sched.Scheduler, rec *observe.Recorder) *Periodic {
	if def.Tick <= 0 {
		panic(fmt.Sprintf("effect: periodic %q needs a positive tick, got %v", def.Name, def.Tick))
	}
	if rec == nil {
		rec = observe.New()
	}
	return &Periodic{def: def, sched: s, rec: rec}
}

// Name returns the periodic effect's name.
func (p *Periodic) Name() string { return p.def.Name }

// OnRemove registers fn to run when the effect stops ticking, whether it
// completed or was cancelled.
func (p *Periodic) OnRemove(fn func()) {
	p.onRemove = append(p.onRemove, fn)
}

// Ticking reports whether ticks are still scheduled.
func (p *Periodic) Ticking() bool { return p.ticking }

// TicksLeft returns the number of ticks still to fire.
func (p *Periodic) TicksLeft() int { return p.left }

// Remains returns the time until the last tick.
func (p *Periodic) Remains() time.Duration {
	if !p.ticking {
		return 0
	}
	return p.event.At() - p.sched.Now() + time.Duration(p.left-1)*p.def.Tick
}

// Start begins a fresh run of ticks (Ticks when ticks <= 0). Starting while
// already ticking behaves like Refresh.
func (p *Periodic) Start(ticks int) {
	if ticks <= 0 {
		ticks = p.def.Ticks
	}
	if ticks <= 0 {
		panic(fmt.Sprintf("effect: periodic %q started with no ticks", p.def.Name))
	}
	if p.ticking {
		p.Refresh(ticks)
		return
	}
	p.ticking = true
	p.left = ticks
	p.done = 0
	if p.event == nil {
		p.event = p.sched.Schedule(p.def.Tick, "tick/"+p.def.Name, p.tick)
	} else {
		p.sched.Reschedule(p.event, p.def.Tick)
	}
	p.rec.Trace("periodic", p.def.Name, "op", "start", "ticks", ticks)
}

// Refresh replaces the remaining tick count and keeps the current tick phase.
func (p *Periodic) Refresh(ticks int) {
	if !p.ticking {
		p.Start(ticks)
		return
	}
	if ticks <= 0 {
		ticks = p.def.Ticks
	}
	p.left = ticks
	p.rec.Trace("periodic", p.def.Name, "op", "refresh", "ticks", ticks)
}

// Cancel stops ticking and runs the removal hooks. No-op when idle.
func (p *Periodic) Cancel() {
	if !p.ticking {
		return
	}
	p.sched.Cancel(p.event)
	p.rec.Trace("periodic", p.def.Name, "op", "cancel")
	p.finish()
}

// Reset stops ticking without hooks. Used at trial boundaries.
func (p *Periodic) Reset() {
	p.ticking = false
	p.left = 0
	p.done = 0
	p.sched.Cancel(p.event)
}

func (p *Periodic) tick() {
	p.done++
	p.left--
	if p.def.OnTick != nil {
		p.def.OnTick(p.done)
	}
	if !p.ticking {
		return // cancelled from inside OnTick
	}
	if p.left > 0 {
		p.sched.Reschedule(p.event, p.def.Tick)
		return
	}
	p.finish()
}

func (p *Periodic) finish() {
	p.ticking = false
	p.left = 0
	for _, fn := range p.onRemove {
		fn()
	}
}
