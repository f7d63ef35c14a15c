package enhance

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/fwehrmann/voxnote/internal/observe"
	"github.com/fwehrmann/voxnote/pkg/provider/llm"
	"github.com/fwehrmann/voxnote/pkg/provider/stt"
)

// rewriteTemperature is fixed for all rewrites: enough variation to rephrase
// naturally, not enough to drift from the source.
const rewriteTemperature = 0.7

// ErrNoTranscriber is returned by ProcessAudio when the pipeline was built
// without an STT provider.
var ErrNoTranscriber = errors.New("enhance: no transcription provider configured")

// Pipeline runs the full voice-note enhancement flow. Construct it with New;
// the zero value is not usable. Safe for concurrent use.
type Pipeline struct {
	llm        llm.Provider
	stt        stt.Provider
	researcher Researcher
	logger     *slog.Logger
	metrics    *observe.Metrics
}

// Option is a functional option for Pipeline.
type Option func(*Pipeline)

// WithSTT enables ProcessAudio with the given transcription provider.
func WithSTT(p stt.Provider) Option {
	return func(pl *Pipeline) {
		pl.stt = p
	}
}

// WithResearcher enables web research with the given researcher. Without one,
// rewrites run on the transcript alone.
func WithResearcher(r Researcher) Option {
	return func(pl *Pipeline) {
		pl.researcher = r
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(pl *Pipeline) {
		pl.logger = l
	}
}

// WithMetrics sets the metrics sink. Defaults to observe.DefaultMetrics().
func WithMetrics(m *observe.Metrics) Option {
	return func(pl *Pipeline) {
		pl.metrics = m
	}
}

// New constructs a Pipeline around the given chat-completion provider.
func New(llmProvider llm.Provider, opts ...Option) (*Pipeline, error) {
	if llmProvider == nil {
		return nil, errors.New("enhance: llm provider must not be nil")
	}
	p := &Pipeline{llm: llmProvider}
	for _, o := range opts {
		o(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.metrics == nil {
		p.metrics = observe.DefaultMetrics()
	}
	return p, nil
}

// RephraseText rewrites text in the requested tone. Unknown tones fall back
// to professional. The returned result always carries the input verbatim as
// OriginalText.
//
// Research failures never fail the call; a fatal LLM failure returns an
// *UpstreamError and no result.
func (p *Pipeline) RephraseText(ctx context.Context, text string, tone Tone) (*RephrasingResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}
	tone = NormalizeTone(string(tone))

	intent := ClassifyIntent(text)
	words := wordCount(text)
	// Short, aimless inputs ("testing one two three") get cleaned up only:
	// no guidance, no research, tight token budget.
	simple := words < simpleWordLimit && intent == IntentGeneral

	terms := ExtractSearchTerms(text)

	facts := ""
	if !simple && (len(terms) > 0 || words > substantiveWordLimit) {
		facts = p.gatherFacts(ctx, terms)
	}

	systemPrompt := composePrompt(tone, intent, facts, simple)
	budget := tokenBudget(words, simple)

	p.logger.Debug("rephrasing text",
		"tone", tone, "intent", intent, "words", words,
		"simple", simple, "terms", len(terms), "has_facts", facts != "")

	start := time.Now()
	resp, err := p.llm.Complete(ctx, llm.CompletionRequest{
		Messages:     []llm.Message{{Role: "user", Content: text}},
		SystemPrompt: systemPrompt,
		Temperature:  rewriteTemperature,
		MaxTokens:    budget,
	})
	p.metrics.RewriteDuration.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		p.metrics.RecordRephrase(ctx, string(tone), string(intent), "error")
		return nil, &UpstreamError{Stage: StageRewrite, Err: err}
	}

	// An empty completion is not an error: fall back to the user's own words.
	rephrased := text
	if resp != nil && strings.TrimSpace(resp.Content) != "" {
		rephrased = strings.TrimSpace(resp.Content)
	}

	p.metrics.RecordRephrase(ctx, string(tone), string(intent), "ok")

	return &RephrasingResult{
		OriginalText:   text,
		RephrasedText:  rephrased,
		Tone:           tone,
		DetectedIntent: intent,
		Suggestions:    GenerateSuggestions(text, intent),
	}, nil
}

// ProcessAudio transcribes a voice note and rewrites the transcript. The
// rephrasing's OriginalText equals the transcription's Text exactly.
func (p *Pipeline) ProcessAudio(ctx context.Context, audio stt.Audio, tone Tone) (*ProcessResult, error) {
	if p.stt == nil {
		return nil, ErrNoTranscriber
	}

	start := time.Now()
	transcription, err := p.stt.Transcribe(ctx, audio)
	p.metrics.TranscribeDuration.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		return nil, &UpstreamError{Stage: StageTranscribe, Err: err}
	}
	if transcription == nil {
		return nil, &UpstreamError{Stage: StageTranscribe, Err: errors.New("provider returned no transcription")}
	}

	rephrasing, err := p.RephraseText(ctx, transcription.Text, tone)
	if err != nil {
		return nil, err
	}

	return &ProcessResult{
		Transcription: transcription,
		Rephrasing:    rephrasing,
	}, nil
}

// gatherFacts fans research out over the terms and filters the combined
// passages down to specific facts. Any failure degrades to "no facts".
func (p *Pipeline) gatherFacts(ctx context.Context, terms []string) string {
	if p.researcher == nil || len(terms) == 0 {
		return ""
	}

	start := time.Now()
	results := p.researcher.Research(ctx, terms)
	p.metrics.ResearchDuration.Record(ctx, time.Since(start).Seconds())

	var passages []string
	for _, r := range results {
		if r.Err != nil {
			p.logger.Debug("research miss", "term", r.Term, "error", r.Err)
			continue
		}
		passages = append(passages, r.Passage)
	}
	if len(passages) == 0 {
		return ""
	}

	facts, ok := ExtractSpecificFacts(strings.Join(passages, " "))
	if !ok {
		p.logger.Debug("no specific facts in research results", "terms", len(terms))
		return ""
	}
	return facts
}
