// Package sink fans transcribed text out to its destinations. Sinks run in a
// fixed order: transcript file first so persistence can never be lost to a
// later sink failing, then clipboard, then the simulated paste, then the
// terminal echo. Each sink fails independently; a failure is logged and the
// remaining sinks still run.
package sink

import (
	"io"
	"os"

	"murmur/log"
	"murmur/settings"
)

type Sink interface {
	Name() string
	// Enabled reports whether this sink participates given the settings
	// snapshot of the current cycle.
	Enabled(s settings.Settings) bool
	Deliver(text string, s settings.Settings) error
}

type Dispatcher struct {
	sinks []Sink
}

func NewDispatcher(sinks ...Sink) *Dispatcher {
	return &Dispatcher{sinks: sinks}
}

// Default builds the standard chain. The returned FileSink is shared with
// the shell so the `save` command can rotate the transcript file.
func Default(out io.Writer) (*Dispatcher, *FileSink) {
	if out == nil {
		out = os.Stdout
	}
	file := NewFileSink()
	d := NewDispatcher(
		file,
		NewClipboardSink(),
		NewPasteSink(),
		NewTerminalSink(out),
	)
	return d, file
}

// Dispatch attempts every enabled sink in order and returns how many
// delivered successfully. Sink errors are logged, never propagated.
func (d *Dispatcher) Dispatch(text string, s settings.Settings) int {
	delivered := 0
	for _, sk := range d.sinks {
		if !sk.Enabled(s) {
			continue
		}
		if err := sk.Deliver(text, s); err != nil {
			log.SinkError(sk.Name(), err)
			continue
		}
		delivered++
	}
	return delivered
}
