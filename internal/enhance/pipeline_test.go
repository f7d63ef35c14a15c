package enhance

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/fwehrmann/voxnote/internal/observe"
	"github.com/fwehrmann/voxnote/pkg/provider/llm"
	llmmock "github.com/fwehrmann/voxnote/pkg/provider/llm/mock"
	"github.com/fwehrmann/voxnote/pkg/provider/stt"
	sttmock "github.com/fwehrmann/voxnote/pkg/provider/stt/mock"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// stubResearcher is a canned Researcher for pipeline tests.
type stubResearcher struct {
	mu       sync.Mutex
	passages map[string]string
	err      error
	calls    [][]string
}

func (s *stubResearcher) Research(ctx context.Context, terms []string) []TermResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, append([]string(nil), terms...))

	results := make([]TermResult, len(terms))
	for i, term := range terms {
		if s.err != nil {
			results[i] = TermResult{Term: term, Err: s.err}
			continue
		}
		if passage, ok := s.passages[term]; ok {
			results[i] = TermResult{Term: term, Passage: passage}
		} else {
			results[i] = TermResult{Term: term, Err: errors.New("not found")}
		}
	}
	return results
}

func newTestPipeline(t *testing.T, llmP llm.Provider, opts ...Option) *Pipeline {
	t.Helper()
	metrics, err := observe.NewMetrics(sdkmetric.NewMeterProvider())
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	p, err := New(llmP, append(opts, WithMetrics(metrics))...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func TestRephraseTextSuccess(t *testing.T) {
	t.Parallel()

	provider := &llmmock.Provider{
		CompleteResponse: &llm.CompletionResponse{Content: "  I would like to work at Google.  "},
	}
	p := newTestPipeline(t, provider)

	input := "um so I want to work at google you know"
	got, err := p.RephraseText(context.Background(), input, ToneProfessional)
	if err != nil {
		t.Fatalf("RephraseText: %v", err)
	}

	if got.OriginalText != input {
		t.Errorf("OriginalText = %q, want input verbatim", got.OriginalText)
	}
	if got.RephrasedText != "I would like to work at Google." {
		t.Errorf("RephrasedText = %q, want trimmed model output", got.RephrasedText)
	}
	if got.Tone != ToneProfessional {
		t.Errorf("Tone = %q", got.Tone)
	}
	if got.DetectedIntent != IntentJobApplication {
		t.Errorf("DetectedIntent = %q, want job_application", got.DetectedIntent)
	}
	if len(got.Suggestions) > maxSuggestions {
		t.Errorf("len(Suggestions) = %d, want at most %d", len(got.Suggestions), maxSuggestions)
	}

	if len(provider.CompleteCalls) != 1 {
		t.Fatalf("Complete called %d times, want 1", len(provider.CompleteCalls))
	}
	req := provider.CompleteCalls[0].Req
	if req.Temperature != rewriteTemperature {
		t.Errorf("Temperature = %v, want %v", req.Temperature, rewriteTemperature)
	}
	if len(req.Messages) != 1 || req.Messages[0].Role != "user" || req.Messages[0].Content != input {
		t.Errorf("Messages = %+v, want single user message with the raw input", req.Messages)
	}
	if !strings.Contains(req.SystemPrompt, "You are a writing editor.") {
		t.Errorf("SystemPrompt should start from the professional template")
	}
}

func TestRephraseTextUnknownToneFallsBack(t *testing.T) {
	t.Parallel()

	provider := &llmmock.Provider{
		CompleteResponse: &llm.CompletionResponse{Content: "Cleaned."},
	}
	p := newTestPipeline(t, provider)

	got, err := p.RephraseText(context.Background(), "some thoughts about my day that I recorded earlier", Tone("whimsical"))
	if err != nil {
		t.Fatalf("RephraseText: %v", err)
	}
	if got.Tone != ToneProfessional {
		t.Errorf("Tone = %q, want fallback to professional", got.Tone)
	}
}

func TestRephraseTextEmptyCompletionEchoesOriginal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		resp *llm.CompletionResponse
	}{
		{"whitespace content", &llm.CompletionResponse{Content: "   \n  "}},
		{"empty content", &llm.CompletionResponse{Content: ""}},
		{"nil response", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			provider := &llmmock.Provider{CompleteResponse: tt.resp}
			p := newTestPipeline(t, provider)

			input := "thinking about what to cook tonight"
			got, err := p.RephraseText(context.Background(), input, ToneCasual)
			if err != nil {
				t.Fatalf("RephraseText: %v", err)
			}
			if got.RephrasedText != input {
				t.Errorf("RephrasedText = %q, want the original echoed", got.RephrasedText)
			}
		})
	}
}

func TestRephraseTextLLMFailure(t *testing.T) {
	t.Parallel()

	errDown := errors.New("status 503")
	provider := &llmmock.Provider{CompleteErr: errDown}
	p := newTestPipeline(t, provider)

	_, err := p.RephraseText(context.Background(), "a perfectly fine note", ToneProfessional)
	if err == nil {
		t.Fatal("expected error")
	}

	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("err = %T, want *UpstreamError", err)
	}
	if upstream.Stage != StageRewrite {
		t.Errorf("Stage = %q, want rewrite", upstream.Stage)
	}
	if !errors.Is(err, errDown) {
		t.Errorf("err should wrap the provider error")
	}
	// No silent retry.
	if len(provider.CompleteCalls) != 1 {
		t.Errorf("Complete called %d times, want exactly 1", len(provider.CompleteCalls))
	}
}

func TestRephraseTextEmptyInput(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(t, &llmmock.Provider{})
	if _, err := p.RephraseText(context.Background(), "   ", ToneProfessional); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("err = %v, want ErrEmptyInput", err)
	}
}

func TestRephraseTextTrivialInputSkipsResearchAndGuidance(t *testing.T) {
	t.Parallel()

	provider := &llmmock.Provider{
		CompleteResponse: &llm.CompletionResponse{Content: "Hello there."},
	}
	researcher := &stubResearcher{}
	p := newTestPipeline(t, provider, WithResearcher(researcher))

	// Nine words, no intent signals: the trivial-input guard applies.
	input := "hello hello testing testing one two three four five"
	if _, err := p.RephraseText(context.Background(), input, ToneProfessional); err != nil {
		t.Fatalf("RephraseText: %v", err)
	}

	if len(researcher.calls) != 0 {
		t.Errorf("researcher consulted for trivial input: %v", researcher.calls)
	}

	req := provider.CompleteCalls[0].Req
	if strings.Contains(req.SystemPrompt, "GENERAL CONTENT") {
		t.Error("trivial input must not carry intent guidance")
	}
	if want := 9 * simpleTokensPer; req.MaxTokens != want {
		t.Errorf("MaxTokens = %d, want %d", req.MaxTokens, want)
	}
}

func TestRephraseTextResearchFeedsFacts(t *testing.T) {
	t.Parallel()

	provider := &llmmock.Provider{
		CompleteResponse: &llm.CompletionResponse{Content: "Done."},
	}
	researcher := &stubResearcher{passages: map[string]string{
		"Google": "Google: Google is ranked #1 in web search worldwide.",
	}}
	p := newTestPipeline(t, provider, WithResearcher(researcher))

	input := "I want to work at google"
	if _, err := p.RephraseText(context.Background(), input, ToneProfessional); err != nil {
		t.Fatalf("RephraseText: %v", err)
	}

	if len(researcher.calls) != 1 {
		t.Fatalf("researcher calls = %d, want 1", len(researcher.calls))
	}

	req := provider.CompleteCalls[0].Req
	if !strings.Contains(req.SystemPrompt, "=== SPECIFIC FACTS") {
		t.Error("SystemPrompt missing facts block")
	}
	if !strings.Contains(req.SystemPrompt, "ranked #1 in web search") {
		t.Error("SystemPrompt missing the researched fact")
	}
}

func TestRephraseTextResearchFailuresAbsorbed(t *testing.T) {
	t.Parallel()

	provider := &llmmock.Provider{
		CompleteResponse: &llm.CompletionResponse{Content: "Done."},
	}
	researcher := &stubResearcher{err: errors.New("network down")}
	p := newTestPipeline(t, provider, WithResearcher(researcher))

	got, err := p.RephraseText(context.Background(), "I want to work at google", ToneProfessional)
	if err != nil {
		t.Fatalf("research failure must not fail the request: %v", err)
	}
	if got.RephrasedText != "Done." {
		t.Errorf("RephrasedText = %q", got.RephrasedText)
	}

	req := provider.CompleteCalls[0].Req
	if strings.Contains(req.SystemPrompt, "=== SPECIFIC FACTS") {
		t.Error("facts block present despite failed research")
	}
}

func TestRephraseTextGenericPassagesYieldNoFacts(t *testing.T) {
	t.Parallel()

	provider := &llmmock.Provider{
		CompleteResponse: &llm.CompletionResponse{Content: "Done."},
	}
	researcher := &stubResearcher{passages: map[string]string{
		"Google": "Google: a wonderful company with a great culture and nice offices.",
	}}
	p := newTestPipeline(t, provider, WithResearcher(researcher))

	if _, err := p.RephraseText(context.Background(), "I want to work at google", ToneProfessional); err != nil {
		t.Fatalf("RephraseText: %v", err)
	}
	req := provider.CompleteCalls[0].Req
	if strings.Contains(req.SystemPrompt, "=== SPECIFIC FACTS") {
		t.Error("generic passages must not produce a facts block")
	}
}

func TestProcessAudio(t *testing.T) {
	t.Parallel()

	transcript := "um I want to work at google and build things"
	sttP := &sttmock.Provider{
		TranscribeResponse: &stt.Transcription{Text: transcript, Language: "en"},
	}
	provider := &llmmock.Provider{
		CompleteResponse: &llm.CompletionResponse{Content: "I want to work at Google."},
	}
	p := newTestPipeline(t, provider, WithSTT(sttP))

	got, err := p.ProcessAudio(context.Background(), stt.Audio{Filename: "note.webm", Data: []byte("x")}, ToneProfessional)
	if err != nil {
		t.Fatalf("ProcessAudio: %v", err)
	}

	if got.Transcription.Text != transcript {
		t.Errorf("Transcription.Text = %q", got.Transcription.Text)
	}
	if got.Rephrasing.OriginalText != got.Transcription.Text {
		t.Errorf("OriginalText %q != Transcription.Text %q", got.Rephrasing.OriginalText, got.Transcription.Text)
	}
}

func TestProcessAudioTranscribeFailure(t *testing.T) {
	t.Parallel()

	sttP := &sttmock.Provider{TranscribeErr: errors.New("status 401")}
	p := newTestPipeline(t, &llmmock.Provider{}, WithSTT(sttP))

	_, err := p.ProcessAudio(context.Background(), stt.Audio{Data: []byte("x")}, ToneProfessional)
	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("err = %v, want *UpstreamError", err)
	}
	if upstream.Stage != StageTranscribe {
		t.Errorf("Stage = %q, want transcribe", upstream.Stage)
	}
}

func TestProcessAudioWithoutSTT(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(t, &llmmock.Provider{})
	if _, err := p.ProcessAudio(context.Background(), stt.Audio{Data: []byte("x")}, ToneProfessional); !errors.Is(err, ErrNoTranscriber) {
		t.Errorf("err = %v, want ErrNoTranscriber", err)
	}
}
