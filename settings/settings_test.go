package settings

import (
	"sync"
	"testing"
	"time"
)

func TestParseModel(t *testing.T) {
	for _, name := range ModelNames() {
		if _, err := ParseModel(name); err != nil {
			t.Errorf("ParseModel(%q): %v", name, err)
		}
	}
	if _, err := ParseModel("gigantic"); err == nil {
		t.Error("unknown model accepted")
	}
}

func TestNormalizeAutopasteForcesClipboard(t *testing.T) {
	st := NewStore(Settings{AutoPaste: true, Duration: time.Second})
	if s := st.Snapshot(); !s.Clipboard {
		t.Error("autopaste did not force clipboard on at construction")
	}

	st = NewStore(Default())
	s := st.Apply(func(s *Settings) {
		s.Clipboard = false
		s.AutoPaste = true
	})
	if !s.Clipboard {
		t.Error("autopaste did not force clipboard on at Apply")
	}
}

func TestNormalizeAutoLanguage(t *testing.T) {
	st := NewStore(Default())
	s := st.Apply(func(s *Settings) { s.Language = "auto" })
	if s.Language != "" {
		t.Errorf("language = %q, want empty", s.Language)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	st := NewStore(Default())
	snap := st.Snapshot()
	st.Apply(func(s *Settings) { s.Language = "fr" })
	if snap.Language != "" {
		t.Error("snapshot mutated by later Apply")
	}
}

func TestConcurrentApplyAndSnapshot(t *testing.T) {
	st := NewStore(Default())
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				st.Apply(func(s *Settings) { s.Duration += time.Millisecond })
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s := st.Snapshot()
				if s.Duration < Default().Duration {
					t.Error("torn read")
					return
				}
			}
		}()
	}
	wg.Wait()
}
