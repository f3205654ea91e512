package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"tubelens/shared/config"
)

const (
	grokURL   = "https://api.x.ai/v1/chat/completions"
	grokModel = "grok-2-1212"

	providerClaude = "Claude"
	providerGrok   = "Grok"
)

// ErrAllProvidersFailed is returned only when neither provider produced a
// usable result. A single-branch failure is logged and excluded instead.
var ErrAllProvidersFailed = errors.New("no AI provider returned a usable result")

// Suggestion is one provider's content-idea response.
type Suggestion struct {
	Provider string `json:"provider"`
	Text     string `json:"text"`
}

// Aggregator fans a shared title prompt out to two independent backends:
// the local evaluation proxy (which fronts Claude) and the Grok API. Both
// calls settle before the aggregate result is produced, so one provider's
// failure never blocks the other's answer.
type Aggregator struct {
	client     *http.Client
	evalURL    string
	grokURL    string
	grokAPIKey string
}

func NewAggregator(toolServer *config.ToolServerConfig, creds *config.ProvidersConfig) *Aggregator {
	return &Aggregator{
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
		evalURL:    strings.TrimRight(toolServer.BaseURL, "/") + "/evaluate/content",
		grokURL:    grokURL,
		grokAPIKey: creds.GrokAPIKey,
	}
}

// Recommend asks both providers for content ideas based on the title.
// onResult, when non-nil, fires once per usable result in arrival order;
// the returned slice is always in fixed provider order (Claude before
// Grok). Cancelling the context aborts both in-flight calls and returns
// the context's error, which callers treat as a silent terminal state
// rather than a failure.
func (a *Aggregator) Recommend(ctx context.Context, title string, onResult func(Suggestion)) ([]Suggestion, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("title is required")
	}

	prompt := buildPrompt(title)

	type branch struct {
		suggestion Suggestion
		err        error
	}
	results := make([]branch, 2)

	var mu sync.Mutex
	var wg sync.WaitGroup
	run := func(slot int, call func(context.Context) (Suggestion, error)) {
		defer wg.Done()
		suggestion, err := call(ctx)
		results[slot] = branch{suggestion: suggestion, err: err}
		if err == nil && onResult != nil {
			mu.Lock()
			onResult(suggestion)
			mu.Unlock()
		}
	}

	wg.Add(2)
	go run(0, func(ctx context.Context) (Suggestion, error) {
		return a.callEvalProxy(ctx, prompt, title)
	})
	go run(1, func(ctx context.Context) (Suggestion, error) {
		return a.callGrok(ctx, prompt)
	})
	wg.Wait()

	if ctx.Err() != nil {
		// User-initiated cancellation ends the operation silently.
		return nil, ctx.Err()
	}

	suggestions := make([]Suggestion, 0, 2)
	for _, b := range results {
		if b.err != nil {
			log.Printf("Warning: recommendation branch failed: %v", b.err)
			continue
		}
		suggestions = append(suggestions, b.suggestion)
	}

	if len(suggestions) == 0 {
		return nil, ErrAllProvidersFailed
	}
	return suggestions, nil
}

func buildPrompt(title string) string {
	return fmt.Sprintf(`다음 YouTube 영상 제목을 분석하고 관련된 새로운 콘텐츠 아이디어를 추천해주세요.

제목: %s

다음 형식으로 5개의 관련 콘텐츠 아이디어를 제안해주세요:

1. 제목 제안
2. 주요 내용 요약 (1-2문장)
3. 타겟 시청자
4. 예상 조회수 범위
5. 차별화 포인트

각 아이디어는 원본과 연관성이 있으면서도 독창적이어야 합니다.`, title)
}

// callEvalProxy sends the prompt to the local evaluation server.
func (a *Aggregator) callEvalProxy(ctx context.Context, prompt, title string) (Suggestion, error) {
	payload := struct {
		Content        string `json:"content"`
		Title          string `json:"title"`
		EvaluationType string `json:"evaluation_type"`
	}{
		Content:        prompt,
		Title:          title,
		EvaluationType: "simple",
	}

	body, err := a.postJSON(ctx, a.evalURL, payload, "")
	if err != nil {
		return Suggestion{}, fmt.Errorf("evaluation proxy: %w", err)
	}

	var parsed struct {
		Success bool   `json:"success"`
		Result  string `json:"result"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Suggestion{}, fmt.Errorf("evaluation proxy: unexpected response: %w", err)
	}
	if !parsed.Success || parsed.Result == "" {
		return Suggestion{}, fmt.Errorf("evaluation proxy: no usable result (%s)", parsed.Error)
	}
	return Suggestion{Provider: providerClaude, Text: parsed.Result}, nil
}

func (a *Aggregator) callGrok(ctx context.Context, prompt string) (Suggestion, error) {
	if a.grokAPIKey == "" {
		return Suggestion{}, fmt.Errorf("grok: API key is not configured")
	}

	type message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	payload := struct {
		Messages    []message `json:"messages"`
		Model       string    `json:"model"`
		Stream      bool      `json:"stream"`
		Temperature float64   `json:"temperature"`
	}{
		Messages: []message{
			{Role: "system", Content: "You are a helpful YouTube content creation assistant. Always respond in Korean."},
			{Role: "user", Content: prompt},
		},
		Model:       grokModel,
		Temperature: 0.7,
	}

	body, err := a.postJSON(ctx, a.grokURL, payload, a.grokAPIKey)
	if err != nil {
		return Suggestion{}, fmt.Errorf("grok: %w", err)
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Suggestion{}, fmt.Errorf("grok: unexpected response: %w", err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return Suggestion{}, fmt.Errorf("grok: no usable result in response")
	}
	return Suggestion{Provider: providerGrok, Text: parsed.Choices[0].Message.Content}, nil
}

func (a *Aggregator) postJSON(ctx context.Context, url string, payload any, bearer string) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}
