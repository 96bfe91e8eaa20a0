package audio

import (
	"time"

	"murmur/encoder"
)

// Clip is one completed recording. It is owned by the cycle that produced it
// and discarded right after transcription is attempted.
type Clip struct {
	PCM        []byte // little-endian 16-bit samples
	SampleRate uint32
	Channels   uint32
}

func (c *Clip) Duration() time.Duration {
	if c.SampleRate == 0 || c.Channels == 0 {
		return 0
	}
	frames := len(c.PCM) / 2 / int(c.Channels)
	return time.Duration(frames) * time.Second / time.Duration(c.SampleRate)
}

// WAV returns the clip wrapped in a RIFF header.
func (c *Clip) WAV() []byte {
	return encoder.WAV(c.PCM, c.SampleRate, c.Channels)
}
