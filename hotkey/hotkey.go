// Package hotkey delivers global hotkey events to the session controller.
// The listener goroutines only ever push onto the event channels; they never
// touch settings or audio state.
package hotkey

// Watcher emits discrete hotkey events. Start and Stop are idempotent.
type Watcher interface {
	Start() error
	Stop()
	// Toggle fires when the record start/stop hotkey is pressed.
	Toggle() <-chan struct{}
	// Cancel fires when the quit hotkey is pressed.
	Cancel() <-chan struct{}
}
