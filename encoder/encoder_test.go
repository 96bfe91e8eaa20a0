package encoder

import (
	"encoding/binary"
	"math"
	"testing"
)

// sinePCM generates little-endian 16-bit mono PCM of a 440Hz tone.
func sinePCM(durationS float64) []byte {
	n := int(float64(SampleRate) * durationS)
	pcm := make([]byte, n*2)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(SampleRate)
		s := int16(math.Sin(2*math.Pi*440*t) * 16000)
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(s))
	}
	return pcm
}

func TestFlacRoundsThroughAllSamples(t *testing.T) {
	pcm := sinePCM(1.5)
	samples := Samples(pcm)

	enc, err := NewFlac(SampleRate)
	if err != nil {
		t.Fatalf("NewFlac: %v", err)
	}
	var totalFed uint64
	for i := 0; i < len(samples); i += BlockSize {
		end := min(i+BlockSize, len(samples))
		if err := enc.EncodeBlock(samples[i:end]); err != nil {
			t.Fatalf("EncodeBlock at offset %d: %v", i, err)
		}
		totalFed += uint64(end - i)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if enc.TotalFrames() != totalFed {
		t.Errorf("TotalFrames = %d, want %d", enc.TotalFrames(), totalFed)
	}
	data := enc.Bytes()
	if len(data) < 4 || string(data[:4]) != "fLaC" {
		t.Fatal("output does not start with FLAC magic")
	}
}

func TestFlacWholeClip(t *testing.T) {
	data, err := Flac(sinePCM(0.5), SampleRate)
	if err != nil {
		t.Fatalf("Flac: %v", err)
	}
	if len(data) < 4 || string(data[:4]) != "fLaC" {
		t.Fatal("output does not start with FLAC magic")
	}
}

func TestWAVHeader(t *testing.T) {
	pcm := sinePCM(0.25)
	wav := WAV(pcm, SampleRate, Channels)

	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		t.Fatal("missing RIFF/WAVE magic")
	}
	if got := binary.LittleEndian.Uint32(wav[24:28]); got != SampleRate {
		t.Errorf("sample rate = %d, want %d", got, SampleRate)
	}
	if got := binary.LittleEndian.Uint32(wav[40:44]); got != uint32(len(pcm)) {
		t.Errorf("data size = %d, want %d", got, len(pcm))
	}
	if len(wav) != wavHeaderSize+len(pcm) {
		t.Errorf("total size = %d, want %d", len(wav), wavHeaderSize+len(pcm))
	}
}

func TestSamples(t *testing.T) {
	pcm := []byte{0x01, 0x00, 0xFF, 0xFF, 0x00, 0x80}
	got := Samples(pcm)
	want := []int16{1, -1, -32768}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %d, want %d", i, got[i], want[i])
		}
	}
}
