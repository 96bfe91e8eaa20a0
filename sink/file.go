package sink

import (
	"fmt"
	"os"
	"sync"

	"murmur/settings"
)

// FileSink appends transcriptions to the configured save path. The handle is
// opened lazily, kept across cycles, rotated when the path changes, and
// closed on shutdown. Writes are synced immediately so a crash never loses a
// dictated line.
type FileSink struct {
	mu   sync.Mutex
	path string
	f    *os.File
}

func NewFileSink() *FileSink {
	return &FileSink{}
}

func (s *FileSink) Name() string { return "file" }

func (s *FileSink) Enabled(set settings.Settings) bool { return set.SavePath != "" }

func (s *FileSink) Deliver(text string, set settings.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureOpen(set.SavePath); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(s.f, text); err != nil {
		return err
	}
	return s.f.Sync()
}

// ensureOpen opens the handle for path, closing any handle for a previous
// path first. Caller holds the lock.
func (s *FileSink) ensureOpen(path string) error {
	if s.f != nil && s.path == path {
		return nil
	}
	if s.f != nil {
		s.f.Close()
		s.f = nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening transcript file: %w", err)
	}
	s.path = path
	s.f = f
	return nil
}

// Close flushes and releases the transcript handle. Called when the save
// path changes and on shutdown; safe to call repeatedly.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	s.path = ""
	return err
}
