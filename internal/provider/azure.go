package provider

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/HeyoWorld/saudi-speak-app/internal/apperr"
	"github.com/HeyoWorld/saudi-speak-app/pkg/types"
)

// Output format requested from Azure: plain WAV the browser can play.
const azureOutputFormat = "riff-24khz-16bit-mono-pcm"

// AzureSynthesizer implements Synthesizer against the Azure Cognitive
// Services speech REST API
type AzureSynthesizer struct {
	name       string
	config     types.SpeechProviderConfig
	endpoint   string
	httpClient *http.Client
}

// NewAzureSynthesizer creates a new Azure speech synthesizer provider
func NewAzureSynthesizer(config types.SpeechProviderConfig) (*AzureSynthesizer, error) {
	if config.APIKey == "" {
		return nil, apperr.New(apperr.CodeConfig, "subscription key is required for Azure synthesizer %s", config.Name)
	}

	// The synthesis URL is addressed by region unless an explicit endpoint
	// is configured
	endpoint := config.Endpoint
	if endpoint == "" {
		if config.Region == "" {
			return nil, apperr.New(apperr.CodeConfig, "region is required for Azure synthesizer %s", config.Name)
		}
		endpoint = fmt.Sprintf("https://%s.tts.speech.microsoft.com/cognitiveservices/v1", config.Region)
	}

	timeout := 30 * time.Second
	if timeoutStr, ok := config.Options["timeout"]; ok {
		var timeoutSec int
		if _, err := fmt.Sscanf(timeoutStr, "%d", &timeoutSec); err == nil && timeoutSec > 0 {
			timeout = time.Duration(timeoutSec) * time.Second
		}
	}

	return &AzureSynthesizer{
		name:     config.Name,
		config:   config,
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

func (a *AzureSynthesizer) Name() string {
	return a.name
}

// Synthesize submits an SSML document and returns the WAV stream.
// One attempt, no retries.
func (a *AzureSynthesizer) Synthesize(ctx context.Context, req SpeechRequest) (*SpeechResponse, error) {
	ssml := BuildSSML(req.Text, req.VoiceName, req.RatePercent)

	log.Printf("[TTS-%s] Request: POST %s", a.name, a.endpoint)
	log.Printf("[TTS-%s] Request payload: voice=%s, rate=%s, text_length=%d chars",
		a.name, req.VoiceName, FormatRate(req.RatePercent), len(req.Text))

	httpReq, err := http.NewRequestWithContext(ctx, "POST", a.endpoint, bytes.NewBufferString(ssml))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/ssml+xml")
	httpReq.Header.Set("Ocp-Apim-Subscription-Key", a.config.APIKey)
	httpReq.Header.Set("X-Microsoft-OutputFormat", azureOutputFormat)
	httpReq.Header.Set("User-Agent", "saudi-speak-app")

	startTime := time.Now()
	resp, err := a.httpClient.Do(httpReq)
	duration := time.Since(startTime)
	if err != nil {
		log.Printf("[TTS-%s] Request failed after %v: %v", a.name, duration, err)
		return nil, apperr.Wrap(apperr.CodeTransport, err, "request failed: %v", err)
	}
	defer resp.Body.Close()

	log.Printf("[TTS-%s] Response: %d %s (took %v)", a.name, resp.StatusCode, resp.Status, duration)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeTransport, err, "failed to read response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("[TTS-%s] API request failed: %s", a.name, truncateForLog(string(body), 500))
		return nil, apperr.Service(resp.StatusCode, string(body))
	}

	log.Printf("[TTS-%s] Response payload: audio_size=%d bytes", a.name, len(body))

	return &SpeechResponse{
		AudioData: body,
		Format:    "wav",
	}, nil
}

func (a *AzureSynthesizer) Close() error {
	a.httpClient.CloseIdleConnections()
	return nil
}

// FormatRate renders a signed rate percentage for the prosody attribute,
// e.g. -10 -> "-10%", 50 -> "+50%".
func FormatRate(ratePercent int) string {
	return fmt.Sprintf("%+d%%", ratePercent)
}

// BuildSSML assembles the speech-markup document for an Arabic voice with a
// prosody rate adjustment. The text is XML-escaped.
func BuildSSML(text, voiceName string, ratePercent int) string {
	var escaped bytes.Buffer
	xml.EscapeText(&escaped, []byte(text))

	return fmt.Sprintf(
		`<speak version="1.0" xmlns="http://www.w3.org/2001/10/synthesis" xml:lang="ar-SA">`+
			`<voice name="%s"><prosody rate="%s">%s</prosody></voice></speak>`,
		voiceName, FormatRate(ratePercent), escaped.String())
}
