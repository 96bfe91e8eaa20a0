// Package beep plays short audible cues so the user knows what the recorder
// is doing without looking at the terminal. Playback errors are swallowed;
// a missing sound device must never break dictation.
package beep

import (
	"math"
	"sync"
)

const sampleRate = 44100

var disabled bool

// Disable turns all cues off. Not safe to call concurrently with playback.
func Disable() { disabled = true }

// A cue is a sequence of tones with a gap before each one.
type tone struct {
	freq   float64
	dur    float64 // seconds
	volume float64
	decay  float64 // exponential envelope, higher is shorter
	gap    float64 // silence before this tone, seconds
}

var (
	// recording started: short high blip
	recordStartCue = []tone{{freq: 1200, dur: 0.12, volume: 0.5, decay: 60}}
	// recording stopped: slightly longer, lower
	recordStopCue = []tone{{freq: 900, dur: 0.16, volume: 0.5, decay: 40}}
	// something failed: low double pulse
	failureCue = []tone{
		{freq: 350, dur: 0.08, volume: 0.6, decay: 30},
		{freq: 350, dur: 0.08, volume: 0.6, decay: 30, gap: 0.05},
	}
	// sustained silence while recording: two quick mid blips
	silenceCue = []tone{
		{freq: 700, dur: 0.05, volume: 0.4, decay: 50},
		{freq: 700, dur: 0.05, volume: 0.4, decay: 50, gap: 0.04},
	}
)

var (
	synthOnce sync.Once
	cuePCM    map[string][]int16
)

func synthAll() {
	cuePCM = map[string][]int16{
		"start":   synth(recordStartCue),
		"stop":    synth(recordStopCue),
		"failure": synth(failureCue),
		"silence": synth(silenceCue),
	}
}

// synth renders a cue as mono 16-bit samples.
func synth(c []tone) []int16 {
	var out []int16
	for _, t := range c {
		out = append(out, make([]int16, int(t.gap*sampleRate))...)
		n := int(t.dur * sampleRate)
		for i := 0; i < n; i++ {
			at := float64(i) / sampleRate
			env := math.Exp(-at * t.decay)
			out = append(out, int16(math.Sin(2*math.Pi*t.freq*at)*32767*t.volume*env))
		}
	}
	return out
}

func cue(name string) {
	if disabled {
		return
	}
	synthOnce.Do(synthAll)
	// Playback must not delay the recording loop.
	go play(cuePCM[name])
}

func RecordStart() { cue("start") }
func RecordStop()  { cue("stop") }
func Failure()     { cue("failure") }
func Silence()     { cue("silence") }
