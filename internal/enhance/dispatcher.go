package enhance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"tubelens/shared/config"
)

const (
	anthropicURL     = "https://api.anthropic.com/v1/messages"
	grokURL          = "https://api.x.ai/v1/chat/completions"
	openaiURL        = "https://api.openai.com/v1/chat/completions"
	anthropicVersion = "2023-06-01"

	claudeModel = "claude-3-sonnet-20240229"
	grokModel   = "grok-3-latest"
	openaiModel = "gpt-4-turbo-preview"

	completionMaxTokens = 4000
)

// Dispatcher routes an enhancement request to exactly one of the three
// completion backends and normalizes their responses into plain text.
type Dispatcher struct {
	creds  *config.ProvidersConfig
	client *http.Client

	// Endpoint fields exist so tests can point at a fake server.
	anthropicURL string
	grokURL      string
	openaiURL    string
}

func NewDispatcher(creds *config.ProvidersConfig) *Dispatcher {
	return &Dispatcher{
		creds: creds,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
		anthropicURL: anthropicURL,
		grokURL:      grokURL,
		openaiURL:    openaiURL,
	}
}

// Enhance runs one enhancement job and always returns a terminal
// Response; failures are captured in the Error field instead of being
// raised. ProcessingTimeMS covers request start through response parse.
func (d *Dispatcher) Enhance(ctx context.Context, req Request) Response {
	start := time.Now()

	text, err := d.dispatch(ctx, req)
	elapsed := time.Since(start).Milliseconds()

	if err != nil {
		return Response{Success: false, Error: err.Error(), ProcessingTimeMS: elapsed}
	}
	return Response{Success: true, EnhancedText: text, ProcessingTimeMS: elapsed}
}

func (d *Dispatcher) dispatch(ctx context.Context, req Request) (string, error) {
	instruction := BuildInstruction(req)

	switch req.Provider {
	case ProviderClaude:
		return d.callClaude(ctx, req.OriginalText, instruction)
	case ProviderGrok:
		return d.callGrok(ctx, req.OriginalText, instruction)
	case ProviderOpenAI:
		return d.callOpenAI(ctx, req.OriginalText, instruction)
	}
	return "", fmt.Errorf("unsupported provider %q", req.Provider)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// userContent concatenates the instruction with the original text the way
// every provider expects it.
func userContent(instruction, text string) string {
	return instruction + "\n\n원본 텍스트:\n" + text
}

func (d *Dispatcher) callClaude(ctx context.Context, text, instruction string) (string, error) {
	if d.creds.AnthropicAPIKey == "" {
		return "", &ConfigurationError{Provider: ProviderClaude}
	}

	payload := struct {
		Model     string        `json:"model"`
		MaxTokens int           `json:"max_tokens"`
		Messages  []chatMessage `json:"messages"`
	}{
		Model:     claudeModel,
		MaxTokens: completionMaxTokens,
		Messages:  []chatMessage{{Role: "user", Content: userContent(instruction, text)}},
	}

	body, err := d.post(ctx, ProviderClaude, d.anthropicURL, payload, map[string]string{
		"x-api-key":         d.creds.AnthropicAPIKey,
		"anthropic-version": anthropicVersion,
	})
	if err != nil {
		return "", err
	}

	var parsed struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &ResponseShapeError{Provider: ProviderClaude, Reason: err.Error()}
	}
	if len(parsed.Content) == 0 || parsed.Content[0].Text == "" {
		return "", &ResponseShapeError{Provider: ProviderClaude, Reason: "missing content array"}
	}
	return parsed.Content[0].Text, nil
}

func (d *Dispatcher) callGrok(ctx context.Context, text, instruction string) (string, error) {
	if d.creds.GrokAPIKey == "" {
		return "", &ConfigurationError{Provider: ProviderGrok}
	}

	payload := struct {
		Model       string        `json:"model"`
		Messages    []chatMessage `json:"messages"`
		MaxTokens   int           `json:"max_tokens"`
		Temperature float64       `json:"temperature"`
		Stream      bool          `json:"stream"`
	}{
		Model: grokModel,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a helpful AI assistant that enhances text content."},
			{Role: "user", Content: userContent(instruction, text)},
		},
		MaxTokens:   completionMaxTokens,
		Temperature: 0.7,
	}

	body, err := d.post(ctx, ProviderGrok, d.grokURL, payload, map[string]string{
		"Authorization": "Bearer " + d.creds.GrokAPIKey,
	})
	if err != nil {
		return "", err
	}
	return parseChatCompletion(ProviderGrok, body)
}

func (d *Dispatcher) callOpenAI(ctx context.Context, text, instruction string) (string, error) {
	if d.creds.OpenAIAPIKey == "" {
		return "", &ConfigurationError{Provider: ProviderOpenAI}
	}

	payload := struct {
		Model       string        `json:"model"`
		Messages    []chatMessage `json:"messages"`
		MaxTokens   int           `json:"max_tokens"`
		Temperature float64       `json:"temperature"`
	}{
		Model:       openaiModel,
		Messages:    []chatMessage{{Role: "user", Content: userContent(instruction, text)}},
		MaxTokens:   completionMaxTokens,
		Temperature: 0.7,
	}

	body, err := d.post(ctx, ProviderOpenAI, d.openaiURL, payload, map[string]string{
		"Authorization": "Bearer " + d.creds.OpenAIAPIKey,
	})
	if err != nil {
		return "", err
	}
	return parseChatCompletion(ProviderOpenAI, body)
}

// parseChatCompletion extracts the answer from the chat-completion
// envelope shared by the Grok and OpenAI APIs.
func parseChatCompletion(provider Provider, body []byte) (string, error) {
	var parsed struct {
		Choices []struct {
			Message *chatMessage `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &ResponseShapeError{Provider: provider, Reason: err.Error()}
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message == nil || parsed.Choices[0].Message.Content == "" {
		return "", &ResponseShapeError{Provider: provider, Reason: "missing choices array"}
	}
	return parsed.Choices[0].Message.Content, nil
}

// post sends a JSON payload and returns the raw body of a 2xx response.
// Non-success statuses become a ProviderError carrying the raw body.
func (d *Dispatcher) post(ctx context.Context, provider Provider, url string, payload any, headers map[string]string) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s request: %w", provider.DisplayName(), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", provider.DisplayName(), err)
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", provider.DisplayName(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", provider.DisplayName(), err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ProviderError{Provider: provider, StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
