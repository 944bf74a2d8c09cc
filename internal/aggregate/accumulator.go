package aggregate

import (
	"errors"
	"sync"
)

// ErrAccumulatorConsumed is returned when labels are appended to or drained
// from an accumulator that has already been drained.
var ErrAccumulatorConsumed = errors.New("accumulator already consumed")

// Accumulator is the append-only label sequence shared by concurrent fetches.
// It is drained exactly once, after every fetch has finished.
type Accumulator struct {
	mu       sync.Mutex
	labels   []string
	consumed bool
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Append adds labels; safe for concurrent use.
func (a *Accumulator) Append(labels ...string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.consumed {
		return ErrAccumulatorConsumed
	}
	a.labels = append(a.labels, labels...)
	return nil
}

// Len reports how many labels have been appended so far.
func (a *Accumulator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.labels)
}

// Drain hands over the collected labels and seals the accumulator.
func (a *Accumulator) Drain() ([]string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.consumed {
		return nil, ErrAccumulatorConsumed
	}
	a.consumed = true
	labels := a.labels
	a.labels = nil
	return labels, nil
}
