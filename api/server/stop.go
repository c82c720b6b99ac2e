package server

import "sync"

// StopSignal is an idempotent trigger telling Run to shut the server down.
// The zero value is not usable; create one with NewStopSignal.
type StopSignal struct {
	once sync.Once
	ch   chan struct{}
}

// NewStopSignal returns a signal that has not fired yet.
func NewStopSignal() *StopSignal {
	return &StopSignal{ch: make(chan struct{})}
}

// Stop fires the signal. Calls after the first are no-ops.
func (s *StopSignal) Stop() {
	s.once.Do(func() { close(s.ch) })
}

// Done is closed once Stop has been called.
func (s *StopSignal) Done() <-chan struct{} {
	return s.ch
}

// Stopped reports whether Stop has been called.
func (s *StopSignal) Stopped() bool {
	select {
	case <-s.ch:
		return true
	default:
		return false
	}
}
