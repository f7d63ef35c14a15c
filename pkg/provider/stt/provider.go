// Package stt defines the Provider interface for speech-to-text backends.
//
// An STT provider accepts a complete recorded audio clip and returns its
// transcription. Voxnote processes voice notes as whole files rather than live
// streams, so the interface is a single batch call; implementations wrap
// hosted transcription APIs (e.g., Groq-hosted Whisper) or local models.
//
// Implementations must be safe for concurrent use and must propagate context
// cancellation promptly.
package stt

import (
	"context"
	"time"
)

// Audio is a complete recorded clip handed to a Provider.
type Audio struct {
	// Filename is the original upload name (e.g., "note.webm"). Providers may
	// use its extension to infer the container format when MIME is empty.
	Filename string

	// MIME is the content type of Data (e.g., "audio/webm"). Optional; when
	// empty, providers infer it from Filename.
	MIME string

	// Data is the raw file content.
	Data []byte
}

// Transcription is the result of transcribing one Audio clip.
type Transcription struct {
	// Text is the full transcript, whitespace-trimmed.
	Text string

	// Language is the detected or forced language code (e.g., "en").
	Language string

	// Duration is the length of the source audio as reported by the backend.
	// Zero when the backend does not report it.
	Duration time.Duration
}

// Provider is the abstraction over any speech-to-text backend.
//
// Implementations must be safe for concurrent use from multiple goroutines.
type Provider interface {
	// Transcribe converts audio to text and waits for the full result.
	//
	// Returns an error if the audio is empty, the request fails, or ctx is
	// cancelled before the transcript arrives. Errors should preserve the
	// upstream status and message where the backend exposes them.
	Transcribe(ctx context.Context, audio Audio) (*Transcription, error)
}
