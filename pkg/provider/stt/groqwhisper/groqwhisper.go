// Package groqwhisper provides an STT provider backed by the Groq audio
// transcription API (OpenAI-compatible, Whisper models).
//
// The provider uploads the full clip as a multipart form and requests a
// verbose JSON response so the detected language and audio duration are
// available alongside the transcript.
package groqwhisper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fwehrmann/voxnote/pkg/provider/stt"
)

const (
	defaultBaseURL = "https://api.groq.com/openai/v1"
	defaultModel   = "whisper-large-v3-turbo"
	defaultTimeout = 2 * time.Minute
)

// mimeByExt maps upload file extensions to the content type sent to the API.
// Unknown extensions fall back to audio/webm, the browser recorder default.
var mimeByExt = map[string]string{
	".webm": "audio/webm",
	".mp3":  "audio/mpeg",
	".mp4":  "audio/mp4",
	".m4a":  "audio/m4a",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
}

// Provider implements stt.Provider using the Groq transcription endpoint.
type Provider struct {
	apiKey   string
	baseURL  string
	model    string
	language string
	client   *http.Client
}

// Ensure Provider implements stt.Provider at compile time.
var _ stt.Provider = (*Provider)(nil)

// Option is a functional option for Provider.
type Option func(*Provider)

// WithModel overrides the default Whisper model.
func WithModel(model string) Option {
	return func(p *Provider) {
		p.model = model
	}
}

// WithLanguage forces the transcription language (ISO 639-1 code).
// An empty value lets the model auto-detect.
func WithLanguage(lang string) Option {
	return func(p *Provider) {
		p.language = lang
	}
}

// WithBaseURL overrides the default Groq API base URL. Useful for tests and
// OpenAI-compatible endpoints.
func WithBaseURL(url string) Option {
	return func(p *Provider) {
		p.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) {
		p.client = c
	}
}

// New constructs a new Groq Whisper Provider.
func New(apiKey string, opts ...Option) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("groqwhisper: apiKey must not be empty")
	}

	p := &Provider{
		apiKey:   apiKey,
		baseURL:  defaultBaseURL,
		model:    defaultModel,
		language: "en",
		client:   &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// transcriptionResponse is the verbose_json shape returned by the API.
// Segment-level fields are ignored; only the top-level transcript matters here.
type transcriptionResponse struct {
	Text     string  `json:"text"`
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
}

// errorResponse is the OpenAI-compatible error envelope.
type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Transcribe implements stt.Provider.
func (p *Provider) Transcribe(ctx context.Context, audio stt.Audio) (*stt.Transcription, error) {
	if len(audio.Data) == 0 {
		return nil, fmt.Errorf("groqwhisper: audio data must not be empty")
	}

	body, contentType, err := p.buildForm(audio)
	if err != nil {
		return nil, fmt.Errorf("groqwhisper: build request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/audio/transcriptions", body)
	if err != nil {
		return nil, fmt.Errorf("groqwhisper: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("groqwhisper: transcription request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("groqwhisper: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr errorResponse
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("groqwhisper: API error (status %d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("groqwhisper: unexpected status %d", resp.StatusCode)
	}

	var parsed transcriptionResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("groqwhisper: decode response: %w", err)
	}

	return &stt.Transcription{
		Text:     strings.TrimSpace(parsed.Text),
		Language: parsed.Language,
		Duration: time.Duration(parsed.Duration * float64(time.Second)),
	}, nil
}

// buildForm assembles the multipart request body for one clip.
func (p *Provider) buildForm(audio stt.Audio) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	filename := audio.Filename
	if filename == "" {
		filename = "audio.webm"
	}

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", ContentType(audio))

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(audio.Data); err != nil {
		return nil, "", err
	}

	fields := map[string]string{
		"model":           p.model,
		"response_format": "verbose_json",
		"temperature":     strconv.FormatFloat(0, 'f', 1, 64),
	}
	if p.language != "" {
		fields["language"] = p.language
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// ContentType returns the MIME type for the clip, preferring the explicit
// value and falling back to the filename extension.
func ContentType(audio stt.Audio) string {
	if audio.MIME != "" {
		return audio.MIME
	}
	ext := strings.ToLower(filepath.Ext(audio.Filename))
	if mime, ok := mimeByExt[ext]; ok {
		return mime
	}
	return "audio/webm"
}
