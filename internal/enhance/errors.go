package enhance

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned when a pipeline operation receives no usable text
// or audio.
var ErrEmptyInput = errors.New("enhance: empty input")

// Stage names a pipeline step for error attribution.
type Stage string

// Stages that can fail fatally.
const (
	StageTranscribe Stage = "transcribe"
	StageRewrite    Stage = "rewrite"
)

// UpstreamError reports a fatal failure of an external collaborator (the
// transcription or chat-completion backend). Research lookups never produce
// one; their failures are absorbed into TermResults.
type UpstreamError struct {
	// Stage is the pipeline step that failed.
	Stage Stage

	// Err is the underlying provider error.
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("enhance: %s failed: %v", e.Stage, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
