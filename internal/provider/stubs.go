package provider

import (
	"context"
	"fmt"
)

// StubAnalyzer is a stub implementation of Analyzer for testing
type StubAnalyzer struct {
	name    string
	Payload string // returned verbatim from Complete
	Err     error
}

// NewStubAnalyzer creates a new stub analyzer provider
func NewStubAnalyzer(name string) *StubAnalyzer {
	return &StubAnalyzer{
		name: name,
		Payload: `{"final_text_vocalized":"مَرْحَبًا",` +
			`"feedback_note":"stub note",` +
			`"sentences":[{"segment":"مَرْحَبًا","translation":"Hello",` +
			`"words":[{"word":"مَرْحَبًا","meaning":"hello","root":"r-h-b"}]}]}`,
	}
}

func (s *StubAnalyzer) Name() string {
	return s.name
}

func (s *StubAnalyzer) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	return s.Payload, nil
}

func (s *StubAnalyzer) Close() error {
	return nil
}

// StubSynthesizer is a stub implementation of Synthesizer for testing
type StubSynthesizer struct {
	name string
	Err  error
}

// NewStubSynthesizer creates a new stub synthesizer provider
func NewStubSynthesizer(name string) *StubSynthesizer {
	return &StubSynthesizer{name: name}
}

func (s *StubSynthesizer) Name() string {
	return s.name
}

func (s *StubSynthesizer) Synthesize(ctx context.Context, req SpeechRequest) (*SpeechResponse, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	textPreview := req.Text
	if len(textPreview) > 10 {
		textPreview = textPreview[:10]
	}
	return &SpeechResponse{
		AudioData: []byte(fmt.Sprintf("STUB_AUDIO_%s", textPreview)),
		Format:    "wav",
	}, nil
}

func (s *StubSynthesizer) Close() error {
	return nil
}
