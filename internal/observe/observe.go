// Package observe records what the simulation did: proc occurrences, resource
// gains and waste, effect uptime samples, and per-action outcomes.
//
// A Recorder is owned by exactly one simulation worker. Snapshots taken from
// independent recorders are merged with Snapshot.Merge.
package observe

import (
	"sort"
	"time"
)

// Gain accumulates resource gained for one (resource, reason) pair.
type Gain struct {
	Resource string  `json:"resource"`
	Reason   string  `json:"reason"`
	Count    int     `json:"count"`
	Actual   float64 `json:"actual"`
	Wasted   float64 `json:"wasted"`
}

// Uptime accumulates regen-tick samples for one effect.
type Uptime struct {
	Name    string `json:"name"`
	Samples int    `json:"samples"`
	Active  int    `json:"active"`
}

// Ratio returns the sampled fraction of time the effect was active.
func (u Uptime) Ratio() float64 {
	if u.Samples == 0 {
		return 0
	}
	return float64(u.Active) / float64(u.Samples)
}

// ActionStats accumulates outcomes and output for one action.
type ActionStats struct {
	Name     string         `json:"name"`
	Executes int            `json:"executes"`
	Outcomes map[string]int `json:"outcomes"`
	Amount   float64        `json:"amount"`
}

// Event is a single traced occurrence. Only emitted when a tracer is attached.
type Event struct {
	At     time.Duration
	Kind   string
	Name   string
	Fields map[string]any
}

// Recorder collects counters for one simulation worker.
type Recorder struct {
	procs   map[string]int
	gains   map[string]*Gain
	uptimes map[string]*Uptime
	actions map[string]*ActionStats
	now     func() time.Duration
	tracer  func(Event)
}

// New creates an empty recorder.
func New() *Recorder {
	return &Recorder{
		procs:   make(map[string]int),
		gains:   make(map[string]*Gain),
		uptimes: make(map[string]*Uptime),
		actions: make(map[string]*ActionStats),
	}
}

// SetTracer attaches fn to receive every recorded occurrence, stamped with
// the time from now.
func (r *Recorder) SetTracer(now func() time.Duration, fn func(Event)) {
	r.now = now
	r.tracer = fn
}

// Trace emits an event to the tracer, if any. Fields are passed as
// alternating key/value pairs like slog.
func (r *Recorder) Trace(kind, name string, kv ...any) {
	if r.tracer == nil {
		return
	}
	fields := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			fields[k] = kv[i+1]
		}
	}
	var at time.Duration
	if r.now != nil {
		at = r.now()
	}
	r.tracer(Event{At: at, Kind: kind, Name: name, Fields: fields})
}

// Proc records one occurrence of name.
func (r *Recorder) Proc(name string) {
	r.ProcN(name, 1)
}

// ProcN records n occurrences of name. n <= 0 records nothing.
func (r *Recorder) ProcN(name string, n int) {
	if n <= 0 {
		return
	}
	r.procs[name] += n
	r.Trace("proc", name, "count", n)
}

// Procs returns the occurrence count for name.
func (r *Recorder) Procs(name string) int {
	return r.procs[name]
}

// Gain records a resource gain. wasted is the part discarded by clamping.
func (r *Recorder) Gain(resource, reason string, actual, wasted float64) {
	key := resource + "/" + reason
	g, ok := r.gains[key]
	if !ok {
		g = &Gain{Resource: resource, Reason: reason}
		r.gains[key] = g
	}
	g.Count++
	g.Actual += actual
	g.Wasted += wasted
	r.Trace("gain", resource, "reason", reason, "actual", actual, "wasted", wasted)
}

// GainFor returns the accumulated gain for (resource, reason).
func (r *Recorder) GainFor(resource, reason string) Gain {
	if g, ok := r.gains[resource+"/"+reason]; ok {
		return *g
	}
	return Gain{Resource: resource, Reason: reason}
}

// Sample records one uptime sample for an effect.
func (r *Recorder) Sample(name string, active bool) {
	u, ok := r.uptimes[name]
	if !ok {
		u = &Uptime{Name: name}
		r.uptimes[name] = u
	}
	u.Samples++
	if active {
		u.Active++
	}
}

// UptimeFor returns the uptime samples for name.
func (r *Recorder) UptimeFor(name string) Uptime {
	if u, ok := r.uptimes[name]; ok {
		return *u
	}
	return Uptime{Name: name}
}

// Action records one resolved action attempt.
func (r *Recorder) Action(name, outcome string, amount float64) {
	a, ok := r.actions[name]
	if !ok {
		a = &ActionStats{Name: name, Outcomes: make(map[string]int)}
		r.actions[name] = a
	}
	a.Executes++
	a.Outcomes[outcome]++
	a.Amount += amount
	r.Trace("action", name, "outcome", outcome, "amount", amount)
}

// ActionFor returns the stats for name.
func (r *Recorder) ActionFor(name string) ActionStats {
	if a, ok := r.actions[name]; ok {
		return cloneAction(*a)
	}
	return ActionStats{Name: name, Outcomes: map[string]int{}}
}

// TotalAmount returns the summed output of every action.
func (r *Recorder) TotalAmount() float64 {
	var total float64
	for _, a := range r.actions {
		total += a.Amount
	}
	return total
}

// Snapshot is a sorted, copyable view of a recorder.
type Snapshot struct {
	Procs   map[string]int `json:"procs"`
	Gains   []Gain         `json:"gains"`
	Uptimes []Uptime       `json:"uptimes"`
	Actions []ActionStats  `json:"actions"`
}

// Snapshot copies the recorder's counters. Slices are sorted by key.
func (r *Recorder) Snapshot() Snapshot {
	s := Snapshot{Procs: make(map[string]int, len(r.procs))}
	for k, v := range r.procs {
		s.Procs[k] = v
	}
	for _, g := range r.gains {
		s.Gains = append(s.Gains, *g)
	}
	for _, u := range r.uptimes {
		s.Uptimes = append(s.Uptimes, *u)
	}
	for _, a := range r.actions {
		s.Actions = append(s.Actions, cloneAction(*a))
	}
	s.sort()
	return s
}

// Merge folds other into s.
func (s *Snapshot) Merge(other Snapshot) {
	if s.Procs == nil {
		s.Procs = make(map[string]int)
	}
	for k, v := range other.Procs {
		s.Procs[k] += v
	}

	gains := make(map[string]int, len(s.Gains))
	for i, g := range s.Gains {
		gains[g.Resource+"/"+g.Reason] = i
	}
	for _, g := range other.Gains {
		if i, ok := gains[g.Resource+"/"+g.Reason]; ok {
			s.Gains[i].Count += g.Count
			s.Gains[i].Actual += g.Actual
			s.Gains[i].Wasted += g.Wasted
			continue
		}
		s.Gains = append(s.Gains, g)
	}

	uptimes := make(map[string]int, len(s.Uptimes))
	for i, u := range s.Uptimes {
		uptimes[u.Name] = i
	}
	for _, u := range other.Uptimes {
		if i, ok := uptimes[u.Name]; ok {
			s.Uptimes[i].Samples += u.Samples
			s.Uptimes[i].Active += u.Active
			continue
		}
		s.Uptimes = append(s.Uptimes, u)
	}

	actions := make(map[string]int, len(s.Actions))
	for i, a := range s.Actions {
		actions[a.Name] = i
	}
	for _, a := range other.Actions {
		if i, ok := actions[a.Name]; ok {
			s.Actions[i].Executes += a.Executes
			s.Actions[i].Amount += a.Amount
			for o, n := range a.Outcomes {
				s.Actions[i].Outcomes[o] += n
			}
			continue
		}
		s.Actions = append(s.Actions, cloneAction(a))
	}
	s.sort()
}

// TotalAmount returns the summed output of every action in the snapshot.
func (s Snapshot) TotalAmount() float64 {
	var total float64
	for _, a := range s.Actions {
		total += a.Amount
	}
	return total
}

func (s *Snapshot) sort() {
	sort.Slice(s.Gains, func(i, j int) bool {
		if s.Gains[i].Resource != s.Gains[j].Resource {
			return s.Gains[i].Resource < s.Gains[j].Resource
		}
		return s.Gains[i].Reason < s.Gains[j].Reason
	})
	sort.Slice(s.Uptimes, func(i, j int) bool { return s.Uptimes[i].Name < s.Uptimes[j].Name })
	sort.Slice(s.Actions, func(i, j int) bool { return s.Actions[i].Name < s.Actions[j].Name })
}

func cloneAction(a ActionStats) ActionStats {
	out := a
	out.Outcomes = make(map[string]int, len(a.Outcomes))
	for k, v := range a.Outcomes {
		out.Outcomes[k] = v
	}
	return out
}
