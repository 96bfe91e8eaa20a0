package hotkey

import (
	"sync"

	"golang.design/x/hotkey"
)

// xWatcher registers two global hotkeys: Ctrl+Shift+Space toggles recording,
// Ctrl+Shift+Escape requests shutdown.
type xWatcher struct {
	toggle *hotkey.Hotkey
	cancel *hotkey.Hotkey

	toggleCh chan struct{}
	cancelCh chan struct{}

	mu      sync.Mutex
	running bool
	quit    chan struct{}
}

func New() Watcher {
	mods := []hotkey.Modifier{hotkey.ModCtrl, hotkey.ModShift}
	return &xWatcher{
		toggle:   hotkey.New(mods, hotkey.KeySpace),
		cancel:   hotkey.New(mods, hotkey.KeyEscape),
		toggleCh: make(chan struct{}, 1),
		cancelCh: make(chan struct{}, 1),
	}
}

func (w *xWatcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}
	if err := w.toggle.Register(); err != nil {
		return err
	}
	if err := w.cancel.Register(); err != nil {
		w.toggle.Unregister()
		return err
	}
	w.quit = make(chan struct{})
	quit := w.quit

	go relay(w.toggle.Keydown(), w.toggleCh, quit)
	go relay(w.cancel.Keydown(), w.cancelCh, quit)

	w.running = true
	return nil
}

// relay forwards key events, dropping presses nobody is waiting on so a
// mashed hotkey cannot queue up phantom toggles.
func relay(in <-chan hotkey.Event, out chan struct{}, quit <-chan struct{}) {
	for {
		select {
		case <-quit:
			return
		case <-in:
			select {
			case out <- struct{}{}:
			default:
			}
		}
	}
}

func (w *xWatcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	close(w.quit)
	w.toggle.Unregister()
	w.cancel.Unregister()
	w.running = false
}

func (w *xWatcher) Toggle() <-chan struct{} { return w.toggleCh }
func (w *xWatcher) Cancel() <-chan struct{} { return w.cancelCh }
