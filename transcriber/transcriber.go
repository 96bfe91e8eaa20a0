// Package transcriber converts recorded audio clips into text. Two engines
// are provided: whispercpp runs a local whisper.cpp binary, groq posts the
// clip to a remote batch API. Model loading may be slow; transcription is a
// blocking, uninterruptible call by design.
package transcriber

import (
	"context"
	"fmt"
	"os"

	"murmur/audio"
	"murmur/settings"
)

type Transcriber interface {
	Name() string
	// Load prepares the given model size. On failure the previously loaded
	// model stays active.
	Load(ctx context.Context, model settings.Model) error
	// Transcribe blocks until the clip is transcribed or the engine fails.
	Transcribe(ctx context.Context, clip *audio.Clip, language string) (string, error)
}

// ModelLoadError reports a model that could not be prepared.
type ModelLoadError struct {
	Model settings.Model
	Err   error
}

func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("loading model %q: %v", e.Model, e.Err)
}

func (e *ModelLoadError) Unwrap() error { return e.Err }

// InferenceError reports a failed transcription attempt.
type InferenceError struct {
	Engine string
	Err    error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("%s transcription: %v", e.Engine, e.Err)
}

func (e *InferenceError) Unwrap() error { return e.Err }

// New picks an engine by name. "auto" prefers the remote engine when an API
// key is present and falls back to the local binary.
func New(engine, modelDir string) (Transcriber, error) {
	groqKey := os.Getenv("GROQ_API_KEY")

	switch engine {
	case "whispercpp":
		return NewWhisperCpp(modelDir), nil
	case "groq":
		if groqKey == "" {
			return nil, fmt.Errorf("engine groq requires GROQ_API_KEY")
		}
		return NewGroq(groqKey), nil
	case "auto":
		if groqKey != "" {
			return NewGroq(groqKey), nil
		}
		return NewWhisperCpp(modelDir), nil
	}
	return nil, fmt.Errorf("unknown engine %q (use whispercpp, groq, or auto)", engine)
}
