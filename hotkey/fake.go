package hotkey

type FakeWatcher struct {
	toggle chan struct{}
	cancel chan struct{}
}

func NewFake() *FakeWatcher {
	return &FakeWatcher{
		toggle: make(chan struct{}, 1),
		cancel: make(chan struct{}, 1),
	}
}

func (f *FakeWatcher) Start() error { return nil }
func (f *FakeWatcher) Stop()        {}

func (f *FakeWatcher) Toggle() <-chan struct{} { return f.toggle }
func (f *FakeWatcher) Cancel() <-chan struct{} { return f.cancel }

func (f *FakeWatcher) PressToggle() { f.toggle <- struct{}{} }
func (f *FakeWatcher) PressCancel() { f.cancel <- struct{}{} }
