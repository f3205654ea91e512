package trendwatch

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"tubelens/internal/models"
	"tubelens/internal/youtube"
	"tubelens/shared/config"
	"tubelens/shared/scheduler"
	"tubelens/shared/storage"
)

// Snapshot is the most recent trending and category state, refreshed on
// each scheduled run and read by the dashboard API.
type Snapshot struct {
	Trending   []models.Video    `json:"trending"`
	Categories []models.Category `json:"categories"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// Metrics summarizes one refresh run.
type Metrics struct {
	TrendingCount       int
	AvailableCategories int
	ProbedCategories    int
}

func (m *Metrics) GetSummary() string {
	return fmt.Sprintf("%d trending videos, %d/%d categories available",
		m.TrendingCount, m.AvailableCategories, m.ProbedCategories)
}

// Agent implements scheduler.Agent. Each run refreshes the trending list
// for the session's selected category and re-probes which categories
// actually serve trending data for the configured region.
type Agent struct {
	config *config.Config
	prefs  *storage.PrefsStore
	client *youtube.Client

	mu       sync.RWMutex
	snapshot Snapshot
}

func NewAgent(cfg *config.Config, prefs *storage.PrefsStore) *Agent {
	return &Agent{
		config: cfg,
		prefs:  prefs,
	}
}

func (a *Agent) Name() string {
	return "Trend Watch"
}

func (a *Agent) Initialize() error {
	log.Printf("Initializing %s...", a.Name())

	if a.client == nil {
		a.client = youtube.NewClient(&a.config.YouTube)
		log.Println("YouTube client initialized")
	}
	return nil
}

// Snapshot returns a copy of the latest refresh result.
func (a *Agent) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.snapshot
}

func (a *Agent) RunOnce(ctx context.Context, events *scheduler.AgentEvents) error {
	startTime := time.Now()

	apiKey := a.apiKey()
	if apiKey == "" {
		return fmt.Errorf("no YouTube API key available: set YOUTUBE_API_KEY or a session key")
	}

	prefs := a.prefs.Get()

	log.Printf("Refreshing trending videos for category %q...", prefs.SelectedCategory)
	trending := a.client.FetchTrending(ctx, apiKey, prefs.SelectedCategory)

	var available []models.Category
	probed := 0
	categories, err := a.client.FetchCategories(ctx, apiKey)
	if err != nil {
		// Keep the previous category list; the trending refresh alone
		// is still worth publishing.
		if events != nil && events.OnPartialFailure != nil {
			events.OnPartialFailure(fmt.Errorf("category listing failed: %w", err), time.Since(startTime))
		}
		a.mu.Lock()
		available = a.snapshot.Categories
		a.mu.Unlock()
		probed = len(available)
	} else {
		probed = len(categories)
		available = a.client.ProbeAvailability(ctx, categories, apiKey)
	}

	a.mu.Lock()
	a.snapshot = Snapshot{
		Trending:   trending,
		Categories: available,
		UpdatedAt:  time.Now(),
	}
	a.mu.Unlock()

	metrics := &Metrics{
		TrendingCount:       len(trending),
		AvailableCategories: len(available),
		ProbedCategories:    probed,
	}

	duration := time.Since(startTime)
	if events != nil && events.OnSuccess != nil {
		events.OnSuccess(metrics, duration)
	}

	log.Printf("Refresh complete: %s (took %v)", metrics.GetSummary(), duration)
	return nil
}

// apiKey prefers the session's key and falls back to the configured one.
func (a *Agent) apiKey() string {
	if key := a.prefs.Get().APIKey; key != "" {
		return key
	}
	return a.config.YouTube.APIKey
}
