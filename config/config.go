// Package config reads the optional config file that seeds the default
// settings. Command line flags always win over the file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"murmur/settings"
)

// File is the on-disk shape of ~/.config/murmur/config.toml. Every field is
// optional; zero values keep the built-in defaults.
type File struct {
	Model      string  `toml:"model"`
	Language   string  `toml:"language"`
	Duration   float64 `toml:"duration_seconds"`
	SavePath   string  `toml:"save_path"`
	Clipboard  *bool   `toml:"clipboard"`
	AutoPaste  *bool   `toml:"autopaste"`
	PasteDelay float64 `toml:"paste_delay_seconds"`
	Engine     string  `toml:"engine"`
	ModelDir   string  `toml:"model_dir"`
	Device     string  `toml:"device"`
}

// Path returns the config file location, "" when no file exists.
func Path() string {
	var dir string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dir = filepath.Join(xdg, "murmur")
	} else if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, ".config", "murmur")
	} else {
		return ""
	}
	path := filepath.Join(dir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

// Load reads path, "" meaning the default location. A missing file is not an
// error; a malformed one is.
func Load(path string) (*File, error) {
	if path == "" {
		path = Path()
		if path == "" {
			return &File{}, nil
		}
	}
	var f File
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &f, nil
}

// Apply folds the file values into s. Unknown model names are an error so a
// typo in the config does not silently fall back to the default.
func (f *File) Apply(s *settings.Settings) error {
	if f.Model != "" {
		m, err := settings.ParseModel(f.Model)
		if err != nil {
			return err
		}
		s.Model = m
	}
	if f.Language != "" {
		s.Language = f.Language
	}
	if f.Duration > 0 {
		s.Duration = time.Duration(f.Duration * float64(time.Second))
	}
	if f.SavePath != "" {
		s.SavePath = ExpandTilde(f.SavePath)
	}
	if f.Clipboard != nil {
		s.Clipboard = *f.Clipboard
	}
	if f.AutoPaste != nil {
		s.AutoPaste = *f.AutoPaste
	}
	if f.PasteDelay > 0 {
		s.PasteDelay = time.Duration(f.PasteDelay * float64(time.Second))
	}
	return nil
}

func ExpandTilde(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
