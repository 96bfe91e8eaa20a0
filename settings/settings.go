// Package settings holds the live-mutable dictation configuration shared
// between the interactive shell (writer) and the session controller (reader).
package settings

import (
	"fmt"
	"sync"
	"time"
)

// Model is a whisper model size.
type Model string

const (
	ModelTiny   Model = "tiny"
	ModelBase   Model = "base"
	ModelSmall  Model = "small"
	ModelMedium Model = "medium"
	ModelLarge  Model = "large"
	ModelTurbo  Model = "turbo"
)

var validModels = []Model{ModelTiny, ModelBase, ModelSmall, ModelMedium, ModelLarge, ModelTurbo}

func ParseModel(s string) (Model, error) {
	for _, m := range validModels {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown model %q (valid: tiny, base, small, medium, large, turbo)", s)
}

func ModelNames() []string {
	names := make([]string, len(validModels))
	for i, m := range validModels {
		names[i] = string(m)
	}
	return names
}

// Settings is the whole configuration record. Cycles snapshot it once at
// start; mutations never reach a cycle already in progress.
type Settings struct {
	Model      Model
	Language   string // "" means auto-detect
	Duration   time.Duration
	SavePath   string // "" disables the file sink
	Clipboard  bool
	AutoPaste  bool // forces Clipboard on; see normalize
	PasteDelay time.Duration
}

func Default() Settings {
	return Settings{
		Model:      ModelSmall,
		Language:   "",
		Duration:   10 * time.Second,
		Clipboard:  true,
		PasteDelay: time.Second,
	}
}

// normalize enforces the autopaste => clipboard implication. Pasting goes
// through the clipboard, so the combination "clipboard off, autopaste on"
// cannot be honored; it is resolved here rather than silently at dispatch.
func (s *Settings) normalize() {
	if s.AutoPaste {
		s.Clipboard = true
	}
	if s.Language == "auto" {
		s.Language = ""
	}
}

// Store guards a Settings record. Readers always observe a complete record,
// never a half-applied mutation.
type Store struct {
	mu sync.Mutex
	s  Settings
}

func NewStore(s Settings) *Store {
	s.normalize()
	return &Store{s: s}
}

// Snapshot returns a copy of the current record.
func (st *Store) Snapshot() Settings {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.s
}

// Apply mutates the record under the lock and re-normalizes it.
func (st *Store) Apply(fn func(*Settings)) Settings {
	st.mu.Lock()
	defer st.mu.Unlock()
	fn(&st.s)
	st.s.normalize()
	return st.s
}
