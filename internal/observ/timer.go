// Package observ aggregates wall-clock timings of the scopetree phases
// (load, replay, check, fingerprint) across fixtures processed in parallel.
package observ

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Phase is the accumulated time of one named phase.
type Phase struct {
	Name  string
	Count int
	Dur   time.Duration
}

// Timer accumulates phases by name. Safe for concurrent use.
type Timer struct {
	mu     sync.Mutex
	order  []string
	phases map[string]*Phase
	now    func() time.Time
}

// NewTimer creates an empty Timer.
func NewTimer() *Timer {
	return &Timer{phases: make(map[string]*Phase, 4), now: time.Now}
}

// Track starts timing name; calling the returned func stops it.
func (t *Timer) Track(name string) func() {
	if t == nil {
		return func() {}
	}
	start := t.now()
	return func() { t.Add(name, t.now().Sub(start)) }
}

// Add records d against name.
func (t *Timer) Add(name string, d time.Duration) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.phases[name]
	if !ok {
		p = &Phase{Name: name}
		t.phases[name] = p
		t.order = append(t.order, name)
	}
	p.Count++
	p.Dur += d
}

// Phases returns the phases in first-seen order.
func (t *Timer) Phases() []Phase {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Phase, len(t.order))
	for i, name := range t.order {
		out[i] = *t.phases[name]
	}
	return out
}

// WriteSummary prints one line per phase and a total.
func (t *Timer) WriteSummary(w io.Writer) {
	var total time.Duration
	fmt.Fprintln(w, "timings:")
	for _, p := range t.Phases() {
		total += p.Dur
		fmt.Fprintf(w, "  %-12s %9.2f ms  x%d\n", p.Name, millis(p.Dur), p.Count)
	}
	fmt.Fprintf(w, "  %-12s %9.2f ms\n", "total", millis(total))
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
