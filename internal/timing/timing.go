// Package timing measures the phases of a completion request.
package timing

import (
	"sync"
	"time"

	"github.com/timsgardner/compliment/internal/logger"
)

// Lap is one named checkpoint, measured from the start of the timer.
type Lap struct {
	Label string
	At    time.Duration
}

// Timer records checkpoints. It is safe for concurrent use.
type Timer struct {
	start time.Time
	mu    sync.Mutex
	laps  []Lap
}

// NewTimer starts a timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Mark records a checkpoint and returns the time since start.
func (t *Timer) Mark(label string) time.Duration {
	elapsed := time.Since(t.start)
	t.mu.Lock()
	t.laps = append(t.laps, Lap{Label: label, At: elapsed})
	t.mu.Unlock()
	return elapsed
}

// Elapsed returns the time since start.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// Laps returns the checkpoints in recording order.
func (t *Timer) Laps() []Lap {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Lap(nil), t.laps...)
}

// Annotate adds every checkpoint and the total to a log entry.
func (t *Timer) Annotate(e *logger.Entry) *logger.Entry {
	for _, l := range t.Laps() {
		e = e.Dur(l.Label, l.At)
	}
	return e.Dur("total", t.Elapsed())
}
