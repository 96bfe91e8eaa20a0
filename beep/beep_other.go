//go:build !linux

package beep

import (
	"encoding/binary"
	"time"

	"github.com/gen2brain/malgo"
)

// play opens a playback device per cue. Cues are short and rare, so the
// device setup cost does not matter.
func play(samples []int16) {
	if len(samples) == 0 {
		return
	}
	pcm := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(s))
	}

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return
	}
	defer func() {
		ctx.Uninit()
		ctx.Free()
	}()

	cfg := malgo.DefaultDeviceConfig(malgo.Playback)
	cfg.Playback.Format = malgo.FormatS16
	cfg.Playback.Channels = 1
	cfg.SampleRate = sampleRate

	pos := 0
	done := make(chan struct{})
	callbacks := malgo.DeviceCallbacks{
		Data: func(out, _ []byte, _ uint32) {
			if pos >= len(pcm) {
				select {
				case <-done:
				default:
					close(done)
				}
				return
			}
			pos += copy(out, pcm[pos:])
		},
	}

	dev, err := malgo.InitDevice(ctx.Context, cfg, callbacks)
	if err != nil {
		return
	}
	defer dev.Uninit()
	if err := dev.Start(); err != nil {
		return
	}
	select {
	case <-done:
		// Let the device drain its last buffer.
		time.Sleep(50 * time.Millisecond)
	case <-time.After(2 * time.Second):
	}
}
