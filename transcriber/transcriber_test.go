package transcriber

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"murmur/audio"
	"murmur/settings"
)

func testClip() *audio.Clip {
	return &audio.Clip{
		PCM:        make([]byte, 16000*2), // 1s of silence
		SampleRate: 16000,
		Channels:   1,
	}
}

func TestGroqLoadMapsModelSizes(t *testing.T) {
	g := NewGroq("key")
	if err := g.Load(context.Background(), settings.ModelLarge); err != nil {
		t.Fatal(err)
	}
	if g.apiModel != "whisper-large-v3" {
		t.Errorf("large mapped to %q", g.apiModel)
	}
	if err := g.Load(context.Background(), settings.ModelTiny); err != nil {
		t.Fatal(err)
	}
	if g.apiModel != "whisper-large-v3-turbo" {
		t.Errorf("tiny mapped to %q", g.apiModel)
	}
}

func TestGroqTranscribe(t *testing.T) {
	var gotModel, gotLang string
	var gotFlac []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotModel = r.FormValue("model")
		gotLang = r.FormValue("language")
		file, _, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
		} else {
			gotFlac, _ = io.ReadAll(file)
			file.Close()
		}
		json.NewEncoder(w).Encode(map[string]string{"text": "hello world"})
	}))
	defer srv.Close()

	g := NewGroq("key")
	g.apiURL = srv.URL
	if err := g.Load(context.Background(), settings.ModelTurbo); err != nil {
		t.Fatal(err)
	}

	text, err := g.Transcribe(context.Background(), testClip(), "en")
	if err != nil {
		t.Fatal(err)
	}
	if text != "hello world" {
		t.Errorf("text = %q", text)
	}
	if gotModel != "whisper-large-v3-turbo" {
		t.Errorf("model = %q", gotModel)
	}
	if gotLang != "en" {
		t.Errorf("language = %q", gotLang)
	}
	if len(gotFlac) < 4 || string(gotFlac[:4]) != "fLaC" {
		t.Error("upload is not FLAC-compressed")
	}
}

func TestGroqTranscribeAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	g := NewGroq("key")
	g.apiURL = srv.URL
	g.Load(context.Background(), settings.ModelTurbo)

	_, err := g.Transcribe(context.Background(), testClip(), "")
	var infErr *InferenceError
	if !errors.As(err, &infErr) {
		t.Fatalf("expected InferenceError, got %v", err)
	}
}

func TestWhisperCppLoadMissingModel(t *testing.T) {
	w := NewWhisperCpp(t.TempDir())
	if w.binPath == "" {
		w.binPath = "/usr/bin/true" // Load only stats the model file
	}
	err := w.Load(context.Background(), settings.ModelSmall)
	var loadErr *ModelLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected ModelLoadError, got %v", err)
	}
	if loadErr.Model != settings.ModelSmall {
		t.Errorf("error names model %q", loadErr.Model)
	}
	// failed load must not activate anything
	if w.modelPath != "" {
		t.Error("modelPath set after failed load")
	}
}

func TestWhisperCppLoadKeepsPreviousModelOnFailure(t *testing.T) {
	dir := t.TempDir()
	small := filepath.Join(dir, "ggml-small.bin")
	if err := os.WriteFile(small, []byte("stub"), 0644); err != nil {
		t.Fatal(err)
	}

	w := NewWhisperCpp(dir)
	if w.binPath == "" {
		w.binPath = "/usr/bin/true"
	}
	if err := w.Load(context.Background(), settings.ModelSmall); err != nil {
		t.Fatal(err)
	}
	if err := w.Load(context.Background(), settings.ModelLarge); err == nil {
		t.Fatal("expected failure for missing large model")
	}
	if w.modelPath != small || w.model != settings.ModelSmall {
		t.Errorf("previous model not retained: path=%q model=%q", w.modelPath, w.model)
	}
}

func TestFakeRecordsActivity(t *testing.T) {
	f := NewFake("hi")
	f.Load(context.Background(), settings.ModelBase)
	text, err := f.Transcribe(context.Background(), testClip(), "en")
	if err != nil || text != "hi" {
		t.Fatalf("got %q, %v", text, err)
	}
	if len(f.Loads()) != 1 || len(f.Clips()) != 1 {
		t.Error("fake did not record activity")
	}
	if langs := f.Languages(); len(langs) != 1 || langs[0] != "en" {
		t.Errorf("languages = %v, want [en]", langs)
	}
}
