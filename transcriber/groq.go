package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sync"
	"time"

	"murmur/audio"
	"murmur/encoder"
	"murmur/settings"
)

const groqAPIURL = "https://api.groq.com/openai/v1/audio/transcriptions"

// Remote whisper deployments only come in large flavors; smaller local sizes
// map onto the fast turbo variant.
var groqModels = map[settings.Model]string{
	settings.ModelTiny:   "whisper-large-v3-turbo",
	settings.ModelBase:   "whisper-large-v3-turbo",
	settings.ModelSmall:  "whisper-large-v3-turbo",
	settings.ModelMedium: "whisper-large-v3-turbo",
	settings.ModelTurbo:  "whisper-large-v3-turbo",
	settings.ModelLarge:  "whisper-large-v3",
}

// Groq posts FLAC-compressed clips to the Groq batch transcription API.
type Groq struct {
	apiKey string
	apiURL string
	client *http.Client

	mu       sync.Mutex
	apiModel string
}

func NewGroq(apiKey string) *Groq {
	return &Groq{
		apiKey: apiKey,
		apiURL: groqAPIURL,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

func (g *Groq) Name() string { return "groq" }

func (g *Groq) Load(_ context.Context, model settings.Model) error {
	apiModel, ok := groqModels[model]
	if !ok {
		return &ModelLoadError{Model: model, Err: fmt.Errorf("no API model mapping")}
	}
	g.mu.Lock()
	g.apiModel = apiModel
	g.mu.Unlock()
	return nil
}

type groqResponse struct {
	Text string `json:"text"`
}

func (g *Groq) Transcribe(ctx context.Context, clip *audio.Clip, language string) (string, error) {
	g.mu.Lock()
	apiModel := g.apiModel
	g.mu.Unlock()
	if apiModel == "" {
		return "", &InferenceError{Engine: g.Name(), Err: fmt.Errorf("no model loaded")}
	}

	flacData, err := encoder.Flac(clip.PCM, clip.SampleRate)
	if err != nil {
		return "", &InferenceError{Engine: g.Name(), Err: fmt.Errorf("flac encode: %w", err)}
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "audio.flac")
	if err != nil {
		return "", &InferenceError{Engine: g.Name(), Err: err}
	}
	if _, err := part.Write(flacData); err != nil {
		return "", &InferenceError{Engine: g.Name(), Err: err}
	}
	writer.WriteField("model", apiModel)
	writer.WriteField("response_format", "json")
	if language != "" {
		writer.WriteField("language", language)
	}
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, "POST", g.apiURL, &body)
	if err != nil {
		return "", &InferenceError{Engine: g.Name(), Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := g.client.Do(req)
	if err != nil {
		return "", &InferenceError{Engine: g.Name(), Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &InferenceError{Engine: g.Name(), Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &InferenceError{Engine: g.Name(), Err: fmt.Errorf("API error %d: %s", resp.StatusCode, respBody)}
	}

	var gResp groqResponse
	if err := json.Unmarshal(respBody, &gResp); err != nil {
		return "", &InferenceError{Engine: g.Name(), Err: fmt.Errorf("response parse: %w", err)}
	}
	return gResp.Text, nil
}
