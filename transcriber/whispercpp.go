package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"murmur/audio"
	"murmur/settings"
)

// ggml model file names per size, as published by the whisper.cpp project.
var ggmlFiles = map[settings.Model]string{
	settings.ModelTiny:   "ggml-tiny.bin",
	settings.ModelBase:   "ggml-base.bin",
	settings.ModelSmall:  "ggml-small.bin",
	settings.ModelMedium: "ggml-medium.bin",
	settings.ModelLarge:  "ggml-large-v3.bin",
	settings.ModelTurbo:  "ggml-large-v3-turbo.bin",
}

// WhisperCpp transcribes via a locally installed whisper.cpp CLI binary.
type WhisperCpp struct {
	modelDir string
	binPath  string

	mu        sync.Mutex
	modelPath string
	model     settings.Model
}

func NewWhisperCpp(modelDir string) *WhisperCpp {
	if modelDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			modelDir = filepath.Join(home, ".local", "share", "murmur", "models")
		}
	}
	return &WhisperCpp{
		modelDir: modelDir,
		binPath:  findWhisperBinary(),
	}
}

func (w *WhisperCpp) Name() string { return "whispercpp" }

// Load verifies the binary and the ggml model file for the requested size.
// Nothing is mutated on failure, so the previous model stays usable.
func (w *WhisperCpp) Load(_ context.Context, model settings.Model) error {
	if w.binPath == "" {
		return &ModelLoadError{Model: model, Err: fmt.Errorf("whisper.cpp binary not found in PATH (install whisper-cli)")}
	}
	file, ok := ggmlFiles[model]
	if !ok {
		return &ModelLoadError{Model: model, Err: fmt.Errorf("no ggml file known for this size")}
	}
	path := filepath.Join(w.modelDir, file)
	if _, err := os.Stat(path); err != nil {
		return &ModelLoadError{Model: model, Err: fmt.Errorf("model file %s: %w", path, err)}
	}

	w.mu.Lock()
	w.modelPath = path
	w.model = model
	w.mu.Unlock()
	return nil
}

func (w *WhisperCpp) Transcribe(ctx context.Context, clip *audio.Clip, language string) (string, error) {
	w.mu.Lock()
	modelPath := w.modelPath
	w.mu.Unlock()
	if modelPath == "" {
		return "", &InferenceError{Engine: w.Name(), Err: fmt.Errorf("no model loaded")}
	}

	wavPath := filepath.Join(os.TempDir(), fmt.Sprintf("murmur_clip_%d.wav", time.Now().UnixNano()))
	if err := os.WriteFile(wavPath, clip.WAV(), 0644); err != nil {
		return "", &InferenceError{Engine: w.Name(), Err: fmt.Errorf("writing temp wav: %w", err)}
	}
	defer os.Remove(wavPath)

	args := []string{
		"-m", modelPath,
		"-f", wavPath,
		"-oj",
		"--no-prints",
	}
	if language != "" {
		args = append(args, "-l", language)
	}

	cmd := exec.CommandContext(ctx, w.binPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", &InferenceError{Engine: w.Name(), Err: fmt.Errorf("%w, stderr: %s", err, stderr.String())}
	}

	var out whisperCppOutput
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		// Older builds print plain text instead of JSON.
		return stdout.String(), nil
	}
	var text strings.Builder
	for _, seg := range out.Transcription {
		text.WriteString(seg.Text)
	}
	return text.String(), nil
}

// whisperCppOutput is the JSON shape printed by whisper.cpp with -oj.
type whisperCppOutput struct {
	Result struct {
		Language string `json:"language"`
	} `json:"result"`
	Transcription []struct {
		Text    string `json:"text"`
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
	} `json:"transcription"`
}

func findWhisperBinary() string {
	// whisper-cli is the Homebrew name; older installs ship whisper-cpp or main.
	names := []string{"whisper-cli", "whisper-cpp", "whisper", "main"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	home, _ := os.UserHomeDir()
	locations := []string{
		"/opt/homebrew/bin",
		"/usr/local/bin",
		filepath.Join(home, ".local", "bin"),
		filepath.Join(home, "whisper.cpp"),
	}
	for _, loc := range locations {
		for _, name := range names {
			path := filepath.Join(loc, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}
