package audio

import (
	"sync"
	"sync/atomic"
	"time"
)

const (
	fakeFrameSize     = 1024
	fakeBytesPerFrame = 2 // 16-bit mono
)

// FakeContext is an in-memory audio backend for tests. It replays a PCM
// pattern in a loop at a configurable pace and can be told to fail device
// opens to exercise the default-device fallback path.
type FakeContext struct {
	pattern  []byte
	interval time.Duration

	mu        sync.Mutex
	devices   []DeviceInfo
	failOpens int // number of NewCapture calls to fail before succeeding
	opens     []string
}

// NewFakeContext replays pattern chunks every interval. A nil pattern feeds
// silence.
func NewFakeContext(pattern []byte, interval time.Duration) *FakeContext {
	if len(pattern) == 0 {
		pattern = make([]byte, fakeFrameSize*fakeBytesPerFrame)
	}
	return &FakeContext{pattern: pattern, interval: interval}
}

func (f *FakeContext) SetDevices(devices []DeviceInfo) {
	f.mu.Lock()
	f.devices = devices
	f.mu.Unlock()
}

// FailNextOpens makes the next n NewCapture calls fail with a CaptureError.
func (f *FakeContext) FailNextOpens(n int) {
	f.mu.Lock()
	f.failOpens = n
	f.mu.Unlock()
}

// Opens reports the device names passed to NewCapture, "" for the default.
func (f *FakeContext) Opens() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.opens...)
}

func (f *FakeContext) Devices() ([]DeviceInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.devices, nil
}

func (f *FakeContext) NewCapture(device *DeviceInfo, _ CaptureConfig) (CaptureDevice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	name := ""
	if device != nil {
		name = device.Name
	}
	f.opens = append(f.opens, name)
	if f.failOpens > 0 {
		f.failOpens--
		return nil, &CaptureError{Device: name, Err: errFakeOpen}
	}
	return &FakeCapture{pattern: f.pattern, interval: f.interval, name: name}, nil
}

func (f *FakeContext) Close() {}

var errFakeOpen = &fakeOpenError{}

type fakeOpenError struct{}

func (*fakeOpenError) Error() string { return "injected open failure" }

type FakeCapture struct {
	pattern  []byte
	interval time.Duration
	name     string
	callback atomic.Pointer[DataCallback]

	mu       sync.Mutex
	stopCh   chan struct{}
	feedDone chan struct{}
}

func (f *FakeCapture) SetCallback(cb DataCallback) { f.callback.Store(&cb) }
func (f *FakeCapture) ClearCallback()              { f.callback.Store(nil) }

func (f *FakeCapture) DeviceName() string {
	if f.name == "" {
		return "system default"
	}
	return f.name
}

func (f *FakeCapture) Start() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopCh = make(chan struct{})
	f.feedDone = make(chan struct{})

	stop, done := f.stopCh, f.feedDone
	go func() {
		defer close(done)
		pos := 0
		chunkBytes := fakeFrameSize * fakeBytesPerFrame
		for {
			select {
			case <-stop:
				return
			case <-time.After(f.interval):
			}
			cb := f.callback.Load()
			if cb == nil {
				continue
			}
			end := pos + chunkBytes
			if end > len(f.pattern) {
				pos, end = 0, min(chunkBytes, len(f.pattern))
			}
			chunk := make([]byte, end-pos)
			copy(chunk, f.pattern[pos:end])
			pos = end % len(f.pattern)
			(*cb)(chunk, uint32(len(chunk)/fakeBytesPerFrame))
		}
	}()
	return nil
}

func (f *FakeCapture) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stopCh == nil {
		return
	}
	select {
	case <-f.stopCh:
	default:
		close(f.stopCh)
	}
	<-f.feedDone
}

func (f *FakeCapture) Close() { f.Stop() }
