// Package coach turns free-form input into a vocalized Arabic coaching
// breakdown using a chat-completion analyzer provider.
package coach

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/HeyoWorld/saudi-speak-app/internal/apperr"
	"github.com/HeyoWorld/saudi-speak-app/internal/provider"
	"github.com/HeyoWorld/saudi-speak-app/pkg/types"
)

const (
	saudiInstruction  = "Convert this to natural, educated Saudi White Dialect suitable for business networking."
	formalInstruction = "Convert this to strict Modern Standard Arabic (MSA) suitable for formal documents."
)

// Service orchestrates a single analysis call
type Service struct {
	registry *provider.Registry
}

// NewService creates a new coaching service
func NewService(registry *provider.Registry) *Service {
	return &Service{registry: registry}
}

// Ready reports whether an analyzer provider is configured.
// The UI disables the analyze action when this is false.
func (s *Service) Ready() bool {
	_, err := s.registry.DefaultAnalyzer()
	return err == nil
}

// Analyze sends the text to the analyzer and parses the coaching breakdown.
// A single attempt; every failure comes back tagged.
func (s *Service) Analyze(ctx context.Context, req types.AnalysisRequest) (*types.AnalysisResult, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, apperr.New(apperr.CodeProtocol, "text must not be empty")
	}
	if !types.ValidStyle(req.Style) {
		return nil, apperr.New(apperr.CodeProtocol, "unknown style: %s", req.Style)
	}

	analyzer, err := s.registry.DefaultAnalyzer()
	if err != nil {
		return nil, err
	}

	prompt := BuildPrompt(req.Text, req.Style)
	payload, err := analyzer.Complete(ctx, provider.CompletionRequest{Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	result, err := ParseResult(payload)
	if err != nil {
		return nil, err
	}

	log.Printf("[COACH] Analysis complete: %d sentences, feedback=%t",
		len(result.Sentences), result.FeedbackNote != "")
	return result, nil
}

// BuildPrompt assembles the coaching instruction with the style choice and
// the JSON-only schema the model must fill in.
func BuildPrompt(text string, style types.Style) string {
	instruction := formalInstruction
	if style == types.StyleSaudiDialect {
		instruction = saudiInstruction
	}

	var sb strings.Builder
	sb.WriteString("You are an expert Arabic language coach.\n\n")
	sb.WriteString(fmt.Sprintf("User Input: %q\n", text))
	sb.WriteString(fmt.Sprintf("Target Style: %s\n\n", instruction))
	sb.WriteString("Task:\n")
	sb.WriteString("1. Polishing: Improve the phrasing to sound native and professional.\n")
	sb.WriteString("2. Vocalization: Add full Tashkeel (diacritics).\n")
	sb.WriteString("3. Breakdown: Analyze words and ROOTS.\n\n")
	sb.WriteString("Return JSON only:\n")
	sb.WriteString(`{
    "final_text_vocalized": "Full Arabic text with vowels",
    "feedback_note": "English explanation of why you changed the phrasing (if applicable).",
    "sentences": [
        {
            "segment": "Sentence segment (vocalized)",
            "translation": "English translation",
            "words": [ {"word": "Arabic Word", "meaning": "English Meaning", "root": "Root (e.g. k-t-b)"} ]
        }
    ]
}`)

	return sb.String()
}

// ParseResult parses the model payload into an AnalysisResult. Code fences
// around the JSON are tolerated; a missing sentences field yields an empty
// slice, not an error.
func ParseResult(payload string) (*types.AnalysisResult, error) {
	cleaned := StripCodeFence(payload)

	var result types.AnalysisResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, apperr.Wrap(apperr.CodeParse, err, "payload is not valid JSON: %v", err)
	}

	if result.FinalTextVocalized == "" {
		return nil, apperr.New(apperr.CodeProtocol, "payload is missing final_text_vocalized")
	}

	if result.Sentences == nil {
		result.Sentences = []types.SentenceBreakdown{}
	}
	for i := range result.Sentences {
		if result.Sentences[i].Words == nil {
			result.Sentences[i].Words = []types.WordEntry{}
		}
	}

	return &result, nil
}

// StripCodeFence removes optional ``` / ```json markers wrapping a payload
func StripCodeFence(payload string) string {
	s := strings.TrimSpace(payload)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	// Drop a language tag on the opening fence, e.g. ```json
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
