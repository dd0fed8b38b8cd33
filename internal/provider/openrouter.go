package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/HeyoWorld/saudi-speak-app/internal/apperr"
	"github.com/HeyoWorld/saudi-speak-app/pkg/types"
)

// Attribution headers sent to OpenRouter with every request.
const (
	refererHeader = "https://saudi-speak-app.com"
	titleHeader   = "Saudi Speak App"
)

// OpenRouterAnalyzer implements Analyzer against OpenRouter-compatible
// chat-completion APIs
type OpenRouterAnalyzer struct {
	name       string
	config     types.AnalyzerProviderConfig
	httpClient *http.Client
}

// NewOpenRouterAnalyzer creates a new OpenRouter-compatible analyzer provider
func NewOpenRouterAnalyzer(config types.AnalyzerProviderConfig) (*OpenRouterAnalyzer, error) {
	if config.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required for OpenRouter analyzer")
	}
	if config.Model == "" {
		return nil, fmt.Errorf("model is required for OpenRouter analyzer")
	}
	if config.APIKey == "" {
		return nil, apperr.New(apperr.CodeConfig, "api key is required for OpenRouter analyzer %s", config.Name)
	}

	// Single attempt against a slow model endpoint, so the default timeout
	// is generous
	timeout := 60 * time.Second
	if timeoutStr, ok := config.Options["timeout"]; ok {
		var timeoutSec int
		if _, err := fmt.Sscanf(timeoutStr, "%d", &timeoutSec); err == nil && timeoutSec > 0 {
			timeout = time.Duration(timeoutSec) * time.Second
		}
	}

	return &OpenRouterAnalyzer{
		name:   config.Name,
		config: config,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

func (o *OpenRouterAnalyzer) Name() string {
	return o.name
}

// chat-completion wire structures
type chatCompletionRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	ResponseFormat responseFormat `json:"response_format"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatCompletionResponse struct {
	ID      string       `json:"id"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
}

type chatChoice struct {
	Index        int         `json:"index"`
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// Complete sends the prompt to the chat-completion endpoint and returns the
// content of the first choice. One attempt, no retries.
func (o *OpenRouterAnalyzer) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	reqBody := chatCompletionRequest{
		Model: o.config.Model,
		Messages: []chatMessage{
			{Role: "user", Content: req.Prompt},
		},
		ResponseFormat: responseFormat{Type: "json_object"},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := o.config.Endpoint
	if !strings.HasSuffix(endpoint, "/") {
		endpoint += "/"
	}
	endpoint += "chat/completions"

	log.Printf("[ANALYZER-%s] Request: POST %s", o.name, endpoint)
	log.Printf("[ANALYZER-%s] Request payload: model=%s, prompt_length=%d chars", o.name, o.config.Model, len(req.Prompt))

	httpReq, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", o.config.APIKey))
	httpReq.Header.Set("HTTP-Referer", refererHeader)
	httpReq.Header.Set("X-Title", titleHeader)

	startTime := time.Now()
	resp, err := o.httpClient.Do(httpReq)
	duration := time.Since(startTime)
	if err != nil {
		log.Printf("[ANALYZER-%s] Request failed after %v: %v", o.name, duration, err)
		return "", apperr.Wrap(apperr.CodeTransport, err, "request failed: %v", err)
	}
	defer resp.Body.Close()

	log.Printf("[ANALYZER-%s] Response: %d %s (took %v)", o.name, resp.StatusCode, resp.Status, duration)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperr.Wrap(apperr.CodeTransport, err, "failed to read response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("[ANALYZER-%s] API request failed: %s", o.name, truncateForLog(string(body), 500))
		return "", apperr.Service(resp.StatusCode, string(body))
	}

	var apiResp chatCompletionResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", apperr.Wrap(apperr.CodeProtocol, err, "failed to parse completion envelope: %v", err)
	}

	if len(apiResp.Choices) == 0 {
		return "", apperr.New(apperr.CodeProtocol, "no choices in API response")
	}

	content := apiResp.Choices[0].Message.Content
	log.Printf("[ANALYZER-%s] Response content (truncated): %s", o.name, truncateForLog(content, 500))

	return content, nil
}

func (o *OpenRouterAnalyzer) Close() error {
	o.httpClient.CloseIdleConnections()
	return nil
}

// truncateForLog truncates a string for logging purposes
func truncateForLog(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", "")
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
