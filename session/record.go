package session

import (
	"errors"
	"sync"
	"time"

	"murmur/audio"
	"murmur/encoder"
	"murmur/log"
	"murmur/settings"
)

// openCapture opens the configured device and falls back to the system
// default once when that fails. Open failures can surface either from
// NewCapture or from Start depending on the backend.
func (c *Controller) openCapture() (audio.CaptureDevice, error) {
	dev, err := c.startCapture(c.cfg.Device)
	if err == nil {
		return dev, nil
	}
	var capErr *audio.CaptureError
	if c.cfg.Device == nil || !errors.As(err, &capErr) {
		return nil, err
	}
	log.Warnf("capture device %q unavailable, falling back to default: %v", c.cfg.Device.Name, err)
	return c.startCapture(nil)
}

func (c *Controller) startCapture(device *audio.DeviceInfo) (audio.CaptureDevice, error) {
	dev, err := c.cfg.Audio.NewCapture(device, audio.CaptureConfig{
		SampleRate: encoder.SampleRate,
		Channels:   encoder.Channels,
	})
	if err != nil {
		return nil, err
	}
	if err := dev.Start(); err != nil {
		dev.Close()
		return nil, err
	}
	return dev, nil
}

// record runs the capture loop until the mode's stop condition fires. It
// returns (nil, nil) when shutdown interrupted the recording; the partial
// clip is dropped.
func (c *Controller) record(mode RecordMode, snap settings.Settings) (*audio.Clip, error) {
	dev, err := c.openCapture()
	if err != nil {
		return nil, err
	}
	defer dev.Close()
	defer dev.Stop()

	var (
		mu  sync.Mutex
		pcm []byte
	)

	detector, derr := newVoiceDetector()
	if derr != nil {
		// Recording still works without VAD, only the silence feedback
		// and auto-stop are lost.
		log.Warnf("voice detection unavailable: %v", derr)
		detector = nil
	}
	monitor := newSilenceMonitor(c.cfg.Tick, mode == ModeHotkey)

	dev.SetCallback(func(data []byte, _ uint32) {
		mu.Lock()
		pcm = append(pcm, data...)
		mu.Unlock()
		if detector != nil {
			detector.Process(data)
		}
	})
	defer dev.ClearCallback()

	deadline := c.cfg.MaxRecord
	if mode == ModeFixed && snap.Duration < deadline {
		deadline = snap.Duration
	}

	ticker := time.NewTicker(c.cfg.Tick)
	defer ticker.Stop()
	start := time.Now()

loop:
	for {
		select {
		case <-c.cfg.Shutdown.Done():
			return nil, nil
		case <-ticker.C:
		}

		if mode == ModeHotkey {
			select {
			case <-c.cfg.Hotkeys.Toggle():
				break loop
			default:
			}
		}

		if time.Since(start) >= deadline {
			if mode == ModeHotkey {
				log.Warn("recording cap reached, stopping")
			}
			break loop
		}

		if detector != nil {
			switch monitor.Tick(detector.SpeechTick()) {
			case silenceWarn:
				log.Warn("no speech detected")
				if c.events.SilenceWarning != nil {
					c.events.SilenceWarning()
				}
			case silenceClear:
				if c.events.SilenceCleared != nil {
					c.events.SilenceCleared()
				}
			case silenceStop:
				log.Info("sustained silence, stopping recording")
				break loop
			}
		}
	}

	dev.ClearCallback()
	mu.Lock()
	clip := &audio.Clip{PCM: pcm, SampleRate: encoder.SampleRate, Channels: encoder.Channels}
	mu.Unlock()
	return clip, nil
}
