// Package speech renders shadowing audio through a synthesizer provider and
// stores the resulting clips.
package speech

import (
	"context"
	"fmt"
	"log"

	"github.com/HeyoWorld/saudi-speak-app/internal/audio"
	"github.com/HeyoWorld/saudi-speak-app/internal/provider"
	"github.com/HeyoWorld/saudi-speak-app/pkg/types"
)

// Voice is a selectable neural voice
type Voice struct {
	ID           types.VoiceID `json:"id"`
	Name         string        `json:"name"`
	Gender       string        `json:"gender"`
	ProviderName string        `json:"provider_voice"`
}

// Voices returns the supported voice catalog
func Voices() []Voice {
	return []Voice{
		{ID: types.VoiceHamedMale, Name: "Hamed", Gender: "male", ProviderName: "ar-SA-HamedNeural"},
		{ID: types.VoiceZariyahFemale, Name: "Zariyah", Gender: "female", ProviderName: "ar-SA-ZariyahNeural"},
	}
}

// ProviderVoiceName maps a voice ID to the provider voice name
func ProviderVoiceName(v types.VoiceID) (string, error) {
	for _, voice := range Voices() {
		if voice.ID == v {
			return voice.ProviderName, nil
		}
	}
	return "", fmt.Errorf("unknown voice: %s", v)
}

// ValidateSettings checks the voice and rate bounds
func ValidateSettings(vs types.VoiceSettings) error {
	if !types.ValidVoice(vs.Voice) {
		return fmt.Errorf("unknown voice: %s", vs.Voice)
	}
	if vs.RatePercent < -50 || vs.RatePercent > 50 {
		return fmt.Errorf("rate_percent must be within [-50, 50], got %d", vs.RatePercent)
	}
	return nil
}

// Service renders audio clips
type Service struct {
	registry *provider.Registry
	assets   *audio.Repository
}

// NewService creates a new speech service
func NewService(registry *provider.Registry, assets *audio.Repository) *Service {
	return &Service{registry: registry, assets: assets}
}

// Ready reports whether a synthesizer provider is configured
func (s *Service) Ready() bool {
	_, err := s.registry.DefaultSynthesizer()
	return err == nil
}

// Render synthesizes text and stores the clip. Empty text returns (nil, nil):
// no asset, no error. Any other failure comes back as an error with its
// cause; callers are expected to degrade it to "no audio", never to abort.
func (s *Service) Render(ctx context.Context, text string, vs types.VoiceSettings) (*types.AudioAsset, error) {
	if text == "" {
		return nil, nil
	}
	if err := ValidateSettings(vs); err != nil {
		return nil, err
	}

	voiceName, err := ProviderVoiceName(vs.Voice)
	if err != nil {
		return nil, err
	}

	synth, err := s.registry.DefaultSynthesizer()
	if err != nil {
		return nil, err
	}

	resp, err := synth.Synthesize(ctx, provider.SpeechRequest{
		Text:        text,
		VoiceName:   voiceName,
		RatePercent: vs.RatePercent,
	})
	if err != nil {
		return nil, fmt.Errorf("synthesize: %w", err)
	}

	asset, err := s.assets.Save(ctx, resp.AudioData, resp.Format)
	if err != nil {
		return nil, fmt.Errorf("store audio: %w", err)
	}

	return asset, nil
}

// DrillAudio holds the rendered clips for one analysis: the full text plus
// one clip per sentence. A nil entry means that clip could not be produced.
type DrillAudio struct {
	Full      *types.AudioAsset
	Sentences []*types.AudioAsset
}

// RenderDrill renders the full-text clip and one clip per sentence, one
// synthesis call after another. Individual failures are logged and degrade
// to a missing clip; the drill as a whole never fails.
func (s *Service) RenderDrill(ctx context.Context, result *types.AnalysisResult, vs types.VoiceSettings) *DrillAudio {
	drill := &DrillAudio{
		Sentences: make([]*types.AudioAsset, len(result.Sentences)),
	}

	full, err := s.Render(ctx, result.FinalTextVocalized, vs)
	if err != nil {
		log.Printf("[SPEECH] Full-text clip unavailable: %v", err)
	}
	drill.Full = full

	for i, sent := range result.Sentences {
		clip, err := s.Render(ctx, sent.Segment, vs)
		if err != nil {
			log.Printf("[SPEECH] Sentence %d clip unavailable: %v", i+1, err)
			continue
		}
		drill.Sentences[i] = clip
	}

	return drill
}
