package sink

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"murmur/settings"
)

// recordSink appends its name to a shared order slice on delivery.
type recordSink struct {
	name  string
	on    bool
	err   error
	order *[]string
}

func (r *recordSink) Name() string                     { return r.name }
func (r *recordSink) Enabled(settings.Settings) bool   { return r.on }
func (r *recordSink) Deliver(string, settings.Settings) error {
	*r.order = append(*r.order, r.name)
	return r.err
}

func TestDispatchOrderFileBeforeClipboard(t *testing.T) {
	var order []string
	d := NewDispatcher(
		&recordSink{name: "file", on: true, order: &order},
		&recordSink{name: "clipboard", on: true, order: &order},
		&recordSink{name: "paste", on: true, order: &order},
		&recordSink{name: "terminal", on: true, order: &order},
	)
	d.Dispatch("hi", settings.Default())

	want := []string{"file", "clipboard", "paste", "terminal"}
	if len(order) != len(want) {
		t.Fatalf("order = %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestDispatchFailureDoesNotAbortRemaining(t *testing.T) {
	var order []string
	d := NewDispatcher(
		&recordSink{name: "file", on: true, err: errors.New("disk full"), order: &order},
		&recordSink{name: "clipboard", on: true, order: &order},
	)
	delivered := d.Dispatch("hi", settings.Default())

	if len(order) != 2 {
		t.Fatalf("expected both sinks attempted, got %v", order)
	}
	if delivered != 1 {
		t.Errorf("delivered = %d, want 1", delivered)
	}
}

func TestDispatchSkipsDisabled(t *testing.T) {
	var order []string
	d := NewDispatcher(
		&recordSink{name: "file", on: false, order: &order},
		&recordSink{name: "terminal", on: true, order: &order},
	)
	d.Dispatch("hi", settings.Default())
	if len(order) != 1 || order[0] != "terminal" {
		t.Fatalf("order = %v", order)
	}
}

func TestFileSinkAppendsAndRotates(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.txt")
	second := filepath.Join(dir, "b.txt")

	fs := NewFileSink()
	defer fs.Close()

	set := settings.Default()
	set.SavePath = first
	if err := fs.Deliver("one", set); err != nil {
		t.Fatal(err)
	}
	if err := fs.Deliver("two", set); err != nil {
		t.Fatal(err)
	}

	set.SavePath = second
	if err := fs.Deliver("three", set); err != nil {
		t.Fatal(err)
	}

	a, _ := os.ReadFile(first)
	if string(a) != "one\ntwo\n" {
		t.Errorf("first file = %q", a)
	}
	b, _ := os.ReadFile(second)
	if string(b) != "three\n" {
		t.Errorf("second file = %q", b)
	}
}

func TestFileSinkDisabledWithoutPath(t *testing.T) {
	fs := NewFileSink()
	if fs.Enabled(settings.Default()) {
		t.Error("file sink enabled with empty save path")
	}
}

func TestPasteSinkWaitsDelay(t *testing.T) {
	var slept time.Duration
	pasted := false
	ps := &PasteSink{
		pasteFn: func() error { pasted = true; return nil },
		sleep:   func(d time.Duration) { slept = d },
	}

	set := settings.Default()
	set.AutoPaste = true
	set.PasteDelay = 1500 * time.Millisecond
	if err := ps.Deliver("hi", set); err != nil {
		t.Fatal(err)
	}
	if slept < set.PasteDelay {
		t.Errorf("slept %v, want >= %v", slept, set.PasteDelay)
	}
	if !pasted {
		t.Error("paste not fired")
	}
}

func TestClipboardSinkEnabledByAutoPaste(t *testing.T) {
	cs := NewClipboardSink()
	set := settings.Settings{AutoPaste: true}
	if !cs.Enabled(set) {
		t.Error("clipboard sink should follow autopaste")
	}
}

func TestTerminalSinkEchoes(t *testing.T) {
	var buf bytes.Buffer
	ts := NewTerminalSink(&buf)
	if err := ts.Deliver("hello world", settings.Default()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "hello world") {
		t.Errorf("output = %q", buf.String())
	}
}
