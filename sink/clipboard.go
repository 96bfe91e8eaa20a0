package sink

import (
	"fmt"
	"io"
	"time"

	"murmur/clipboard"
	"murmur/settings"
)

// ClipboardSink copies the text to the system clipboard. Enabled when either
// clipboard copying or autopaste is on (autopaste pastes from the clipboard).
type ClipboardSink struct {
	copyFn func(string) error
}

func NewClipboardSink() *ClipboardSink {
	return &ClipboardSink{copyFn: clipboard.Copy}
}

func (s *ClipboardSink) Name() string { return "clipboard" }

func (s *ClipboardSink) Enabled(set settings.Settings) bool {
	return set.Clipboard || set.AutoPaste
}

func (s *ClipboardSink) Deliver(text string, _ settings.Settings) error {
	return s.copyFn(text)
}

// PasteSink waits the configured delay, giving the user time to focus the
// target window, then fires the platform paste chord.
type PasteSink struct {
	pasteFn func() error
	sleep   func(time.Duration)
}

func NewPasteSink() *PasteSink {
	return &PasteSink{pasteFn: clipboard.Paste, sleep: time.Sleep}
}

func (s *PasteSink) Name() string { return "paste" }

func (s *PasteSink) Enabled(set settings.Settings) bool { return set.AutoPaste }

func (s *PasteSink) Deliver(_ string, set settings.Settings) error {
	if set.PasteDelay > 0 {
		s.sleep(set.PasteDelay)
	}
	return s.pasteFn()
}

// TerminalSink echoes the text. Always enabled, always last.
type TerminalSink struct {
	out io.Writer
}

func NewTerminalSink(out io.Writer) *TerminalSink {
	return &TerminalSink{out: out}
}

func (s *TerminalSink) Name() string { return "terminal" }

func (s *TerminalSink) Enabled(settings.Settings) bool { return true }

func (s *TerminalSink) Deliver(text string, _ settings.Settings) error {
	_, err := fmt.Fprintf(s.out, "\n%s\n", text)
	return err
}
