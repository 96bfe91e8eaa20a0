// Package encoder turns raw capture PCM into the byte formats the
// transcription engines consume: WAV for the local engine, FLAC for the
// remote one.
package encoder

import "encoding/binary"

const (
	SampleRate    = 16000
	Channels      = 1
	BitsPerSample = 16
	BlockSize     = 4096
)

// Samples reinterprets little-endian 16-bit PCM bytes as samples.
func Samples(pcm []byte) []int16 {
	samples := make([]int16, len(pcm)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(pcm[i*2:]))
	}
	return samples
}
