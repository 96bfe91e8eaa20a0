// Package audio abstracts microphone capture. A Context enumerates devices
// and opens CaptureDevices; captured PCM is delivered through a callback so
// the platform backends (pulse on linux, malgo elsewhere) stay interchangeable
// with the in-memory fake used by tests.
package audio

import "fmt"

type DataCallback func(data []byte, frameCount uint32)

type CaptureConfig struct {
	SampleRate uint32
	Channels   uint32
}

type DeviceInfo struct {
	ID   string // opaque platform-specific identifier
	Name string
}

type Context interface {
	Devices() ([]DeviceInfo, error)
	NewCapture(device *DeviceInfo, config CaptureConfig) (CaptureDevice, error)
	Close()
}

type CaptureDevice interface {
	Start() error
	Stop()
	Close()
	SetCallback(cb DataCallback)
	ClearCallback()
	DeviceName() string
}

// CaptureError reports a device that could not be opened or read. The
// session controller falls back to the default device once on open failure.
type CaptureError struct {
	Device string // "" means the system default
	Err    error
}

func (e *CaptureError) Error() string {
	dev := e.Device
	if dev == "" {
		dev = "system default"
	}
	return fmt.Sprintf("capture device %q: %v", dev, e.Err)
}

func (e *CaptureError) Unwrap() error { return e.Err }
