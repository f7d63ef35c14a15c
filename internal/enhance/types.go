// Package enhance implements the voice-note enhancement pipeline: it
// classifies what a transcript is trying to be, pulls out searchable entity
// names, gathers short web passages about them, filters those passages down to
// concrete facts, and rewrites the transcript with an LLM under a
// tone-specific prompt. It also produces actionable writing suggestions
// alongside the rewrite.
//
// The pipeline holds no ambient state: every collaborator (LLM, transcription,
// research) is injected at construction and every operation takes a context.
package enhance

import (
	"context"

	"github.com/fwehrmann/voxnote/pkg/provider/stt"
)

// Tone selects the rewriting style applied to a transcript.
type Tone string

// Supported tones. Unknown values fall back to ToneProfessional.
const (
	ToneProfessional Tone = "professional"
	ToneCasual       Tone = "casual"
	ToneConcise      Tone = "concise"
	ToneEmail        Tone = "email"
	ToneMeetingNotes Tone = "meeting_notes"
	ToneOriginal     Tone = "original"
)

// NormalizeTone maps a raw tone string to a supported Tone, falling back to
// ToneProfessional for unknown or empty values.
func NormalizeTone(raw string) Tone {
	switch t := Tone(raw); t {
	case ToneProfessional, ToneCasual, ToneConcise, ToneEmail, ToneMeetingNotes, ToneOriginal:
		return t
	default:
		return ToneProfessional
	}
}

// Intent is the detected purpose of a transcript. It steers prompt guidance
// and suggestion rules.
type Intent string

// Detected intents, from most to least specific in classification order.
const (
	IntentCoverLetter       Intent = "cover_letter"
	IntentScholarship       Intent = "scholarship_application"
	IntentCollegeEssay      Intent = "college_essay"
	IntentPersonalStatement Intent = "personal_statement"
	IntentCompetition       Intent = "competition_entry"
	IntentClubApplication   Intent = "club_application"
	IntentJobApplication    Intent = "job_application"
	IntentProject           Intent = "project_description"
	IntentEmailDraft        Intent = "email_draft"
	IntentMeetingNotes      Intent = "meeting_notes"
	IntentGeneral           Intent = "general"
)

// SuggestionType categorizes a writing suggestion.
type SuggestionType string

// Suggestion categories.
const (
	SuggestionImprovement SuggestionType = "improvement"
	SuggestionAddition    SuggestionType = "addition"
	SuggestionStructure   SuggestionType = "structure"
	SuggestionTip         SuggestionType = "tip"
)

// Priority orders suggestions by urgency.
type Priority string

// Priorities, highest first.
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Suggestion is one actionable recommendation for improving the source text.
type Suggestion struct {
	Type        SuggestionType `json:"type"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Priority    Priority       `json:"priority"`
}

// RephrasingResult is the outcome of rewriting one transcript.
type RephrasingResult struct {
	// OriginalText is the input exactly as received.
	OriginalText string `json:"originalText"`

	// RephrasedText is the rewritten text, whitespace-trimmed. When the model
	// returns empty content this echoes OriginalText.
	RephrasedText string `json:"rephrasedText"`

	// Tone is the normalized tone that was applied.
	Tone Tone `json:"tone"`

	// DetectedIntent is the classified purpose of the input.
	DetectedIntent Intent `json:"detectedIntent"`

	// Suggestions holds up to three recommendations, highest priority first.
	Suggestions []Suggestion `json:"suggestions"`
}

// ProcessResult pairs a transcription with its rephrasing for the
// audio-in/document-out flow. Rephrasing.OriginalText always equals
// Transcription.Text.
type ProcessResult struct {
	Transcription *stt.Transcription `json:"transcription"`
	Rephrasing    *RephrasingResult  `json:"rephrasing"`
}

// TermResult is the outcome of researching a single search term. Either
// Passage is non-empty or Err explains the miss; research failures stay
// visible here instead of surfacing to the caller.
type TermResult struct {
	// Term is the search term as handed to the researcher.
	Term string

	// Passage is the short factual passage found for the term, empty on miss.
	Passage string

	// Err records why the term produced no passage. A nil Err with an empty
	// Passage does not occur.
	Err error
}

// Researcher gathers short web passages for a set of search terms. One
// TermResult is returned per term, in input order; implementations absorb
// per-term failures into the corresponding TermResult.
type Researcher interface {
	Research(ctx context.Context, terms []string) []TermResult
}
