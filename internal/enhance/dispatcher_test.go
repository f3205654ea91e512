package enhance

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tubelens/shared/config"
)

func testDispatcher(t *testing.T, creds config.ProvidersConfig, handler http.Handler) *Dispatcher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	d := NewDispatcher(&creds)
	d.anthropicURL = srv.URL + "/anthropic"
	d.grokURL = srv.URL + "/grok"
	d.openaiURL = srv.URL + "/openai"
	return d
}

func allCreds() config.ProvidersConfig {
	return config.ProvidersConfig{
		AnthropicAPIKey: "anthropic-key",
		GrokAPIKey:      "grok-key",
		OpenAIAPIKey:    "openai-key",
	}
}

func TestEnhanceMissingCredential(t *testing.T) {
	var calls int
	d := testDispatcher(t, config.ProvidersConfig{}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	for _, provider := range []Provider{ProviderClaude, ProviderGrok, ProviderOpenAI} {
		t.Run(string(provider), func(t *testing.T) {
			resp := d.Enhance(context.Background(), Request{Provider: provider, Type: TypeSummarize, OriginalText: "text"})
			if resp.Success {
				t.Fatal("expected failure for missing credential")
			}
			if !strings.Contains(resp.Error, "API key is not configured") {
				t.Errorf("unexpected error message: %s", resp.Error)
			}
		})
	}

	if calls != 0 {
		t.Errorf("missing credentials must be detected before the network call, saw %d calls", calls)
	}
}

func TestEnhanceSuccessPerProvider(t *testing.T) {
	d := testDispatcher(t, allCreds(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/anthropic"):
			if r.Header.Get("x-api-key") != "anthropic-key" {
				t.Errorf("missing x-api-key header")
			}
			if r.Header.Get("anthropic-version") == "" {
				t.Errorf("missing anthropic-version header")
			}
			fmt.Fprint(w, `{"content": [{"type": "text", "text": "claude says hi"}]}`)
		case strings.HasSuffix(r.URL.Path, "/grok"):
			if r.Header.Get("Authorization") != "Bearer grok-key" {
				t.Errorf("missing bearer token for grok")
			}
			fmt.Fprint(w, `{"choices": [{"message": {"role": "assistant", "content": "grok says hi"}}]}`)
		case strings.HasSuffix(r.URL.Path, "/openai"):
			if r.Header.Get("Authorization") != "Bearer openai-key" {
				t.Errorf("missing bearer token for openai")
			}
			fmt.Fprint(w, `{"choices": [{"message": {"role": "assistant", "content": "openai says hi"}}]}`)
		default:
			http.NotFound(w, r)
		}
	}))

	tests := []struct {
		provider Provider
		expected string
	}{
		{ProviderClaude, "claude says hi"},
		{ProviderGrok, "grok says hi"},
		{ProviderOpenAI, "openai says hi"},
	}

	for _, tt := range tests {
		t.Run(string(tt.provider), func(t *testing.T) {
			resp := d.Enhance(context.Background(), Request{
				Provider:     tt.provider,
				Type:         TypeSummarize,
				OriginalText: "original",
			})
			if !resp.Success {
				t.Fatalf("Enhance failed: %s", resp.Error)
			}
			if resp.EnhancedText != tt.expected {
				t.Errorf("EnhancedText = %q, want %q", resp.EnhancedText, tt.expected)
			}
			if resp.ProcessingTimeMS < 0 {
				t.Errorf("negative processing time: %d", resp.ProcessingTimeMS)
			}
		})
	}
}

func TestEnhanceProviderStatusMessages(t *testing.T) {
	status := http.StatusUnauthorized
	d := testDispatcher(t, allCreds(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "nope"}`, status)
	}))

	tests := []struct {
		status  int
		keyword string
	}{
		{http.StatusUnauthorized, "authentication failed"},
		{http.StatusForbidden, "access denied"},
		{http.StatusNotFound, "endpoint not found"},
		{http.StatusTooManyRequests, "rate limit exceeded"},
		{http.StatusInternalServerError, "status 500"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("Status%d", tt.status), func(t *testing.T) {
			status = tt.status
			resp := d.Enhance(context.Background(), Request{Provider: ProviderGrok, Type: TypeSummarize, OriginalText: "x"})
			if resp.Success {
				t.Fatal("expected failure")
			}
			if !strings.Contains(resp.Error, "Grok") {
				t.Errorf("error must name the provider: %s", resp.Error)
			}
			if !strings.Contains(resp.Error, tt.keyword) {
				t.Errorf("error %q missing %q", resp.Error, tt.keyword)
			}
		})
	}
}

func TestEnhanceResponseShapeError(t *testing.T) {
	tests := []struct {
		name     string
		provider Provider
		body     string
	}{
		{name: "Claude empty content", provider: ProviderClaude, body: `{"content": []}`},
		{name: "Grok missing choices", provider: ProviderGrok, body: `{"id": "resp"}`},
		{name: "OpenAI empty message", provider: ProviderOpenAI, body: `{"choices": [{"message": {"content": ""}}]}`},
		{name: "Not JSON at all", provider: ProviderGrok, body: `<html>gateway</html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := testDispatcher(t, allCreds(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tt.body)
			}))

			resp := d.Enhance(context.Background(), Request{Provider: tt.provider, Type: TypeSummarize, OriginalText: "x"})
			if resp.Success {
				t.Fatal("expected failure on malformed 2xx response")
			}
			if !strings.Contains(resp.Error, "unexpected response shape") {
				t.Errorf("unexpected error: %s", resp.Error)
			}
		})
	}
}

func TestEnhanceSendsInstructionAndText(t *testing.T) {
	var gotBody string
	d := testDispatcher(t, allCreds(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf, _ := io.ReadAll(r.Body)
		gotBody = string(buf)
		fmt.Fprint(w, `{"choices": [{"message": {"content": "ok"}}]}`)
	}))

	resp := d.Enhance(context.Background(), Request{
		Provider:     ProviderGrok,
		Type:         TypeTranslate,
		Language:     "영어",
		OriginalText: "안녕하세요",
	})
	if !resp.Success {
		t.Fatalf("Enhance failed: %s", resp.Error)
	}
	if !strings.Contains(gotBody, "영어") {
		t.Error("instruction with target language not sent to the provider")
	}
	if !strings.Contains(gotBody, "원본 텍스트") || !strings.Contains(gotBody, "안녕하세요") {
		t.Error("original text not concatenated into the request")
	}
}
