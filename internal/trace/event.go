package trace

import (
	"bufio"
	"io"
	"sort"
	"time"

	"github.com/roach88/actionsim/internal/observe"
)

// EventMap converts a recorder event to a canonical-safe object. The time
// is reported in milliseconds.
func EventMap(e observe.Event) map[string]any {
	m := map[string]any{
		"at_ms": Number(float64(e.At) / float64(time.Millisecond)),
		"kind":  e.Kind,
		"name":  e.Name,
	}
	if len(e.Fields) > 0 {
		fields := make(map[string]any, len(e.Fields))
		for k, v := range e.Fields {
			fields[k] = Value(v)
		}
		m["fields"] = fields
	}
	return m
}

// Value converts a field value to a canonical-safe one. Floats become
// numbers, durations become milliseconds, and anything unknown is dropped
// to its string form.
func Value(v any) any {
	switch val := v.(type) {
	case float64:
		return Number(val)
	case float32:
		return Number(float64(val))
	case time.Duration:
		return Number(float64(val) / float64(time.Millisecond))
	case string, bool, int, int64, uint64:
		return val
	case nil:
		return ""
	default:
		return stringify(val)
	}
}

// Collector keeps every event it is handed.
type Collector struct {
	Events []observe.Event
}

// Collect appends e. Pass it to observe.Recorder.SetTracer.
func (c *Collector) Collect(e observe.Event) {
	c.Events = append(c.Events, e)
}

// Kinds returns the distinct event kinds seen, sorted.
func (c *Collector) Kinds() []string {
	seen := make(map[string]bool)
	for _, e := range c.Events {
		seen[e.Kind] = true
	}
	kinds := make([]string, 0, len(seen))
	for k := range seen {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Writer streams events as canonical JSON lines.
type Writer struct {
	w   *bufio.Writer
	err error
	n   int
}

// NewWriter creates a writer over w. Call Flush when done.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write encodes one event. After the first failure every call is a no-op
// and Flush reports the error.
func (w *Writer) Write(e observe.Event) {
	if w.err != nil {
		return
	}
	line, err := Marshal(EventMap(e))
	if err != nil {
		w.err = err
		return
	}
	if _, err := w.w.Write(append(line, '\n')); err != nil {
		w.err = err
		return
	}
	w.n++
}

// Count returns the number of events written.
func (w *Writer) Count() int { return w.n }

// Flush writes buffered output and returns the first error seen.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	return w.w.Flush()
}
