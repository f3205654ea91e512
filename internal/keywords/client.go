package keywords

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"tubelens/internal/models"
	"tubelens/shared/config"
)

// Client fetches keyword trend data from the tool server, which fronts
// the Naver Datalab API. Every operation is best-effort: failures are
// logged and replaced with simulated data so the dashboard always has
// something to show.
type Client struct {
	baseURL string
	client  *http.Client
	now     func() time.Time
}

func NewClient(cfg *config.ToolServerConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		now: time.Now,
	}
}

type keywordEnvelope struct {
	Success  bool                 `json:"success"`
	Keywords []models.KeywordData `json:"keywords"`
}

// Trends fetches trend data for the query over the last 30 days. A blank
// query, an upstream failure, or an empty result all fall back to the
// mock endpoint and finally to the built-in table.
func (c *Client) Trends(ctx context.Context, query string) []models.KeywordData {
	query = strings.TrimSpace(query)
	if query != "" {
		end := c.now()
		start := end.AddDate(0, 0, -30)
		payload := struct {
			Keywords  []string `json:"keywords"`
			StartDate string   `json:"start_date"`
			EndDate   string   `json:"end_date"`
		}{
			Keywords:  []string{query},
			StartDate: start.Format("2006-01-02"),
			EndDate:   end.Format("2006-01-02"),
		}

		if keywords, err := c.postKeywords(ctx, "/keywords/trends", payload); err != nil {
			log.Printf("Warning: keyword trends call failed: %v", err)
		} else if len(keywords) > 0 {
			return keywords
		}
	}

	if keywords, err := c.fetchMock(ctx); err != nil {
		log.Printf("Warning: keyword mock call failed: %v", err)
	} else if len(keywords) > 0 {
		return keywords
	}

	return fallbackKeywords(query)
}

// Related fetches the main keyword together with related keywords. On
// failure it degrades to Trends for the main keyword alone.
func (c *Client) Related(ctx context.Context, keyword string, includeRelated bool, maxRelated int) []models.KeywordData {
	payload := struct {
		Keyword        string `json:"keyword"`
		IncludeRelated bool   `json:"include_related"`
		MaxRelated     int    `json:"max_related"`
	}{
		Keyword:        keyword,
		IncludeRelated: includeRelated,
		MaxRelated:     maxRelated,
	}

	if keywords, err := c.postKeywords(ctx, "/keywords/related", payload); err != nil {
		log.Printf("Warning: related keywords call failed: %v", err)
	} else if len(keywords) > 0 {
		return keywords
	}

	return c.Trends(ctx, keyword)
}

// Shopping fetches shopping-insight keywords, falling back to the
// built-in table on failure.
func (c *Client) Shopping(ctx context.Context) []models.KeywordData {
	keywords, err := c.getKeywords(ctx, "/keywords/shopping")
	if err != nil {
		log.Printf("Warning: shopping insights call failed: %v", err)
		return fallbackShopping()
	}
	if len(keywords) == 0 {
		return fallbackShopping()
	}
	return keywords
}

func (c *Client) fetchMock(ctx context.Context) ([]models.KeywordData, error) {
	return c.getKeywords(ctx, "/keywords/mock")
}

func (c *Client) postKeywords(ctx context.Context, path string, payload any) ([]models.KeywordData, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.doKeywords(req)
}

func (c *Client) getKeywords(ctx context.Context, path string) ([]models.KeywordData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.doKeywords(req)
}

func (c *Client) doKeywords(req *http.Request) ([]models.KeywordData, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	var envelope keywordEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if !envelope.Success {
		return nil, fmt.Errorf("server reported failure")
	}
	return envelope.Keywords, nil
}
