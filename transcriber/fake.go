package transcriber

import (
	"context"
	"sync"

	"murmur/audio"
	"murmur/settings"
)

// Fake returns canned transcriptions and records what it was asked to do.
type Fake struct {
	Text    string
	Err     error // returned from Transcribe
	LoadErr error // returned from Load

	mu      sync.Mutex
	loads   []settings.Model
	clips   []*audio.Clip
	langs   []string
	current settings.Model
}

func NewFake(text string) *Fake {
	return &Fake{Text: text}
}

func (f *Fake) Name() string { return "fake" }

func (f *Fake) Load(_ context.Context, model settings.Model) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads = append(f.loads, model)
	if f.LoadErr != nil {
		return &ModelLoadError{Model: model, Err: f.LoadErr}
	}
	f.current = model
	return nil
}

func (f *Fake) Transcribe(_ context.Context, clip *audio.Clip, language string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clips = append(f.clips, clip)
	f.langs = append(f.langs, language)
	if f.Err != nil {
		return "", &InferenceError{Engine: f.Name(), Err: f.Err}
	}
	return f.Text, nil
}

// Loads reports every model passed to Load.
func (f *Fake) Loads() []settings.Model {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]settings.Model(nil), f.loads...)
}

// Current reports the last successfully loaded model.
func (f *Fake) Current() settings.Model {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

// Clips reports every clip passed to Transcribe.
func (f *Fake) Clips() []*audio.Clip {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*audio.Clip(nil), f.clips...)
}

// Languages reports the language hint of every Transcribe call.
func (f *Fake) Languages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.langs...)
}
