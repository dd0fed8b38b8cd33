package provider

import (
	"context"
)

// Analyzer defines the interface for chat-completion analyzer providers
type Analyzer interface {
	// Name returns the provider name
	Name() string

	// Complete sends a prompt and returns the raw model payload.
	// The payload is expected to be JSON but is returned unparsed; the
	// coaching layer owns fence stripping and schema handling.
	Complete(ctx context.Context, req CompletionRequest) (string, error)

	// Close cleans up resources
	Close() error
}

// CompletionRequest contains the prompt for a single completion call
type CompletionRequest struct {
	Prompt string // Full instruction text
}

// Synthesizer defines the interface for neural TTS providers
type Synthesizer interface {
	// Name returns the provider name
	Name() string

	// Synthesize converts text to speech
	Synthesize(ctx context.Context, req SpeechRequest) (*SpeechResponse, error)

	// Close cleans up resources
	Close() error
}

// SpeechRequest contains the text and prosody settings for synthesis
type SpeechRequest struct {
	Text        string // Text to vocalize
	VoiceName   string // Provider voice name, e.g. "ar-SA-HamedNeural"
	RatePercent int    // Signed speaking rate adjustment, [-50, 50]
}

// SpeechResponse contains the synthesized audio
type SpeechResponse struct {
	AudioData []byte // Audio file data
	Format    string // Audio format (e.g., "wav")
}
