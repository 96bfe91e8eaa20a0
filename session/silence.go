package session

import "time"

const (
	silenceWarnAfter = 8 * time.Second
	silenceStopAfter = 25 * time.Second
	speechMinRatio   = 0.10
	speechClearRatio = 0.25 // higher threshold to clear the warning (hysteresis)
)

type silenceEvent int

const (
	silenceNone silenceEvent = iota
	silenceWarn              // no voice detected for the warn window
	silenceClear             // speech resumed after a warning
	silenceStop              // sustained silence, stop the recording
)

// silenceMonitor watches per-tick speech flags over a sliding window. It
// warns once sustained silence is detected and, when auto-stop is enabled
// (hotkey-bounded recordings), ends the recording after the stop window.
type silenceMonitor struct {
	warnAt   int
	windowSz int
	autoStop bool

	ticks       int
	window      []bool
	speechCount int
	warned      bool
}

func newSilenceMonitor(tick time.Duration, autoStop bool) *silenceMonitor {
	warnAt := int(silenceWarnAfter / tick)
	windowSz := int(silenceStopAfter / tick)
	return &silenceMonitor{
		warnAt:   warnAt,
		windowSz: windowSz,
		autoStop: autoStop,
		window:   make([]bool, windowSz),
	}
}

func (m *silenceMonitor) ratio(n int) float64 {
	if m.ticks < n {
		n = m.ticks
	}
	if n == 0 {
		return 1.0
	}
	count := 0
	for i := 0; i < n; i++ {
		if m.window[(m.ticks-1-i+m.windowSz)%m.windowSz] {
			count++
		}
	}
	return float64(count) / float64(n)
}

func (m *silenceMonitor) Tick(hasSpeech bool) silenceEvent {
	idx := m.ticks % m.windowSz
	if m.ticks >= m.windowSz && m.window[idx] {
		m.speechCount--
	}
	m.window[idx] = hasSpeech
	if hasSpeech {
		m.speechCount++
	}
	m.ticks++

	r := m.ratio(m.warnAt)

	if m.ticks >= m.warnAt && r < speechMinRatio && !m.warned {
		m.warned = true
		return silenceWarn
	}
	if m.warned && r >= speechClearRatio {
		m.warned = false
		return silenceClear
	}

	if !m.autoStop {
		return silenceNone
	}

	if m.ticks >= m.windowSz && float64(m.speechCount)/float64(m.windowSz) < speechMinRatio {
		return silenceStop
	}

	return silenceNone
}
