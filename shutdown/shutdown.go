// Package shutdown provides cooperative shutdown signaling. A single Signal
// value is passed to every blocking loop in the program; the OS signal
// handler and the cancel hotkey both trigger it, and polling loops observe
// it within one tick.
package shutdown

import (
	"os"
	"sync"
)

type Signal struct {
	once sync.Once
	ch   chan struct{}
}

func NewSignal() *Signal {
	return &Signal{ch: make(chan struct{})}
}

// Trigger marks the signal. Safe to call from any goroutine, any number of
// times; only the first call has an effect.
func (s *Signal) Trigger() {
	s.once.Do(func() { close(s.ch) })
}

// Done returns a channel closed once the signal is triggered.
func (s *Signal) Done() <-chan struct{} { return s.ch }

func (s *Signal) Triggered() bool {
	select {
	case <-s.ch:
		return true
	default:
		return false
	}
}

// NotifySignal triggers sig when an interrupt or terminate signal arrives.
func NotifySignal(sig *Signal) {
	ch := make(chan os.Signal, 1)
	Notify(ch)
	go func() {
		<-ch
		sig.Trigger()
	}()
}
