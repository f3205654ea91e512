package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"tubelens/shared/config"
)

func newTestAggregator(evalHandler, grokHandler http.HandlerFunc) (*Aggregator, func()) {
	evalServer := httptest.NewServer(evalHandler)
	grokServer := httptest.NewServer(grokHandler)

	agg := NewAggregator(
		&config.ToolServerConfig{BaseURL: evalServer.URL},
		&config.ProvidersConfig{GrokAPIKey: "test-grok-key"},
	)
	agg.grokURL = grokServer.URL

	return agg, func() {
		evalServer.Close()
		grokServer.Close()
	}
}

func evalOK(result string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": true, "result": result})
	}
}

func grokOK(content string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		})
	}
}

func TestRecommendRequiresTitle(t *testing.T) {
	agg, cleanup := newTestAggregator(evalOK("a"), grokOK("b"))
	defer cleanup()

	if _, err := agg.Recommend(context.Background(), "   ", nil); err == nil {
		t.Fatal("expected error for blank title")
	}
}

func TestRecommendBothSucceed(t *testing.T) {
	var evalBody struct {
		Content        string `json:"content"`
		Title          string `json:"title"`
		EvaluationType string `json:"evaluation_type"`
	}
	agg, cleanup := newTestAggregator(
		func(w http.ResponseWriter, r *http.Request) {
			if err := json.NewDecoder(r.Body).Decode(&evalBody); err != nil {
				t.Errorf("failed to decode eval request: %v", err)
			}
			json.NewEncoder(w).Encode(map[string]any{"success": true, "result": "claude idea"})
		},
		func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "Bearer test-grok-key" {
				t.Errorf("Authorization = %q, want bearer key", got)
			}
			grokOK("grok idea")(w, r)
		},
	)
	defer cleanup()

	got, err := agg.Recommend(context.Background(), "Next.js 튜토리얼", nil)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d suggestions, want 2", len(got))
	}
	if got[0].Provider != "Claude" || got[0].Text != "claude idea" {
		t.Errorf("first suggestion = %+v, want Claude first", got[0])
	}
	if got[1].Provider != "Grok" || got[1].Text != "grok idea" {
		t.Errorf("second suggestion = %+v, want Grok second", got[1])
	}

	if evalBody.Title != "Next.js 튜토리얼" {
		t.Errorf("eval title = %q", evalBody.Title)
	}
	if evalBody.EvaluationType != "simple" {
		t.Errorf("evaluation_type = %q, want simple", evalBody.EvaluationType)
	}
	if !strings.Contains(evalBody.Content, "제목: Next.js 튜토리얼") {
		t.Errorf("prompt does not embed the title: %q", evalBody.Content)
	}
}

func TestRecommendPartialFailureKeepsSurvivor(t *testing.T) {
	tests := []struct {
		name         string
		evalHandler  http.HandlerFunc
		grokHandler  http.HandlerFunc
		wantProvider string
	}{
		{
			name: "eval proxy down",
			evalHandler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "internal error", http.StatusInternalServerError)
			},
			grokHandler:  grokOK("grok idea"),
			wantProvider: "Grok",
		},
		{
			name: "eval proxy reports failure",
			evalHandler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "model overloaded"})
			},
			grokHandler:  grokOK("grok idea"),
			wantProvider: "Grok",
		},
		{
			name:        "grok down",
			evalHandler: evalOK("claude idea"),
			grokHandler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "too many requests", http.StatusTooManyRequests)
			},
			wantProvider: "Claude",
		},
		{
			name:        "grok empty choices",
			evalHandler: evalOK("claude idea"),
			grokHandler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
			},
			wantProvider: "Claude",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg, cleanup := newTestAggregator(tt.evalHandler, tt.grokHandler)
			defer cleanup()

			got, err := agg.Recommend(context.Background(), "title", nil)
			if err != nil {
				t.Fatalf("Recommend: %v", err)
			}
			if len(got) != 1 {
				t.Fatalf("got %d suggestions, want 1", len(got))
			}
			if got[0].Provider != tt.wantProvider {
				t.Errorf("provider = %q, want %q", got[0].Provider, tt.wantProvider)
			}
		})
	}
}

func TestRecommendAllProvidersFailed(t *testing.T) {
	fail := func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}
	agg, cleanup := newTestAggregator(fail, fail)
	defer cleanup()

	got, err := agg.Recommend(context.Background(), "title", nil)
	if !errors.Is(err, ErrAllProvidersFailed) {
		t.Fatalf("err = %v, want ErrAllProvidersFailed", err)
	}
	if got != nil {
		t.Errorf("suggestions = %v, want nil", got)
	}
}

func TestRecommendMissingGrokKeyStillReturnsClaude(t *testing.T) {
	evalServer := httptest.NewServer(evalOK("claude idea"))
	defer evalServer.Close()

	grokCalled := false
	grokServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		grokCalled = true
	}))
	defer grokServer.Close()

	agg := NewAggregator(
		&config.ToolServerConfig{BaseURL: evalServer.URL},
		&config.ProvidersConfig{},
	)
	agg.grokURL = grokServer.URL

	got, err := agg.Recommend(context.Background(), "title", nil)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(got) != 1 || got[0].Provider != "Claude" {
		t.Fatalf("got %+v, want single Claude suggestion", got)
	}
	if grokCalled {
		t.Error("grok endpoint was called without a configured key")
	}
}

func TestRecommendCallbackFiresPerResult(t *testing.T) {
	release := make(chan struct{})
	agg, cleanup := newTestAggregator(
		func(w http.ResponseWriter, r *http.Request) {
			// Hold the Claude branch until Grok has settled.
			<-release
			evalOK("claude idea")(w, r)
		},
		grokOK("grok idea"),
	)
	defer cleanup()

	var mu sync.Mutex
	var arrivals []string
	onResult := func(s Suggestion) {
		mu.Lock()
		arrivals = append(arrivals, s.Provider)
		if len(arrivals) == 1 {
			close(release)
		}
		mu.Unlock()
	}

	got, err := agg.Recommend(context.Background(), "title", onResult)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	// Arrival order reflects settle order; the returned slice stays fixed.
	if len(arrivals) != 2 || arrivals[0] != "Grok" || arrivals[1] != "Claude" {
		t.Errorf("arrival order = %v, want [Grok Claude]", arrivals)
	}
	if got[0].Provider != "Claude" || got[1].Provider != "Grok" {
		t.Errorf("result order = [%s %s], want [Claude Grok]", got[0].Provider, got[1].Provider)
	}
}

func TestRecommendCancellation(t *testing.T) {
	slow := func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}
	agg, cleanup := newTestAggregator(slow, slow)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	got, err := agg.Recommend(ctx, "title", nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if got != nil {
		t.Errorf("suggestions = %v, want nil", got)
	}
}
