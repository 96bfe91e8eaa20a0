package session

import (
	"testing"
	"time"
)

const testTick = 100 * time.Millisecond

// feed pushes n ticks with the given speech flag and returns the last
// non-none event seen.
func feed(m *silenceMonitor, n int, speech bool) silenceEvent {
	last := silenceNone
	for i := 0; i < n; i++ {
		if ev := m.Tick(speech); ev != silenceNone {
			last = ev
		}
	}
	return last
}

func TestSilenceWarnAfterWindow(t *testing.T) {
	m := newSilenceMonitor(testTick, false)
	warnTicks := int(silenceWarnAfter / testTick)

	if ev := feed(m, warnTicks-1, false); ev != silenceNone {
		t.Fatalf("event before warn window = %v", ev)
	}
	if ev := m.Tick(false); ev != silenceWarn {
		t.Fatalf("event at warn window = %v, want warn", ev)
	}
	// The warning fires once, not on every subsequent silent tick.
	if ev := feed(m, 10, false); ev != silenceNone {
		t.Errorf("repeated warn: %v", ev)
	}
}

func TestNoWarnWhileSpeaking(t *testing.T) {
	m := newSilenceMonitor(testTick, false)
	warnTicks := int(silenceWarnAfter / testTick)

	if ev := feed(m, warnTicks*3, true); ev != silenceNone {
		t.Errorf("event during speech = %v", ev)
	}
}

func TestWarningClearsWhenSpeechResumes(t *testing.T) {
	m := newSilenceMonitor(testTick, false)
	warnTicks := int(silenceWarnAfter / testTick)

	if ev := feed(m, warnTicks, false); ev != silenceWarn {
		t.Fatal("expected warning")
	}
	// Enough speech to push the recent ratio over the clear threshold.
	if ev := feed(m, warnTicks, true); ev != silenceClear {
		t.Error("expected clear after speech resumed")
	}
}

func TestAutoStopAfterSustainedSilence(t *testing.T) {
	m := newSilenceMonitor(testTick, true)
	stopTicks := int(silenceStopAfter / testTick)

	ev := feed(m, stopTicks-1, false)
	if ev == silenceStop {
		t.Fatal("stopped before the stop window")
	}
	if ev := m.Tick(false); ev != silenceStop {
		t.Errorf("event at stop window = %v, want stop", ev)
	}
}

func TestNoAutoStopWhenDisabled(t *testing.T) {
	m := newSilenceMonitor(testTick, false)
	stopTicks := int(silenceStopAfter / testTick)

	if ev := feed(m, stopTicks*2, false); ev == silenceStop {
		t.Error("auto-stop fired while disabled")
	}
}

func TestSpeechPreventsAutoStop(t *testing.T) {
	m := newSilenceMonitor(testTick, true)
	stopTicks := int(silenceStopAfter / testTick)

	// Alternate silence with bursts of speech; the speech share of the
	// window stays above the threshold.
	for i := 0; i < stopTicks*3; i++ {
		if ev := m.Tick(i%4 == 0); ev == silenceStop {
			t.Fatalf("auto-stop fired at tick %d despite speech", i)
		}
	}
}
