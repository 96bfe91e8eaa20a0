package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"murmur/settings"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAndApply(t *testing.T) {
	path := writeConfig(t, `
model = "medium"
language = "en"
duration_seconds = 8.5
clipboard = false
paste_delay_seconds = 0.5
engine = "groq"
`)
	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	s := settings.Default()
	if err := f.Apply(&s); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if s.Model != settings.ModelMedium {
		t.Errorf("model = %v", s.Model)
	}
	if s.Language != "en" {
		t.Errorf("language = %q", s.Language)
	}
	if s.Duration != 8500*time.Millisecond {
		t.Errorf("duration = %v", s.Duration)
	}
	if s.Clipboard {
		t.Error("clipboard not disabled")
	}
	if s.PasteDelay != 500*time.Millisecond {
		t.Errorf("delay = %v", s.PasteDelay)
	}
	if f.Engine != "groq" {
		t.Errorf("engine = %q", f.Engine)
	}
}

func TestEmptyFileKeepsDefaults(t *testing.T) {
	f, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	s := settings.Default()
	if err := f.Apply(&s); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if s != settings.Default() {
		t.Errorf("settings changed: %+v", s)
	}
}

func TestUnknownModelRejected(t *testing.T) {
	f, err := Load(writeConfig(t, `model = "gigantic"`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	s := settings.Default()
	if err := f.Apply(&s); err == nil {
		t.Fatal("bad model name accepted")
	}
}

func TestMalformedFileFails(t *testing.T) {
	if _, err := Load(writeConfig(t, `model = [broken`)); err == nil {
		t.Fatal("malformed toml accepted")
	}
}

func TestMissingDefaultIsNotAnError(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	f, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f.Model != "" {
		t.Errorf("unexpected model %q", f.Model)
	}
}
