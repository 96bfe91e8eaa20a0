package session

import (
	"sync"

	webrtcvad "github.com/maxhawkins/go-webrtcvad"

	"murmur/encoder"
)

const (
	vadMode       = 3
	vadFrameMs    = 20
	vadFrameBytes = encoder.SampleRate * vadFrameMs / 1000 * 2 // 640 bytes
)

// voiceDetector feeds capture PCM through WebRTC VAD in 20ms frames and
// answers, once per poll tick, whether the interval since the last tick
// contained speech.
type voiceDetector struct {
	vad *webrtcvad.VAD

	mu           sync.Mutex
	buf          []byte
	totalFrames  int
	speechFrames int
	tickTotal    int
	tickSpeech   int
}

func newVoiceDetector() (*voiceDetector, error) {
	v, err := webrtcvad.New()
	if err != nil {
		return nil, err
	}
	if err := v.SetMode(vadMode); err != nil {
		return nil, err
	}
	return &voiceDetector{vad: v}, nil
}

func (d *voiceDetector) Process(data []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.buf = append(d.buf, data...)
	for len(d.buf) >= vadFrameBytes {
		frame := d.buf[:vadFrameBytes]
		d.buf = d.buf[vadFrameBytes:]

		active, err := d.vad.Process(encoder.SampleRate, frame)
		if err != nil {
			continue
		}
		d.totalFrames++
		if active {
			d.speechFrames++
		}
	}
}

const speechThreshold = 0.10 // share of frames that must be speech per tick

// SpeechTick reports whether the frames seen since the previous call contain
// speech. An interval with no frames at all counts as silence.
func (d *voiceDetector) SpeechTick() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	t := d.totalFrames - d.tickTotal
	s := d.speechFrames - d.tickSpeech
	d.tickTotal, d.tickSpeech = d.totalFrames, d.speechFrames
	if t == 0 {
		return false
	}
	return float64(s)/float64(t) >= speechThreshold
}
