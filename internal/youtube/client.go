package youtube

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"tubelens/internal/models"
	"tubelens/shared/config"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const (
	searchMaxResults   = 50
	trendingMaxResults = 20
)

// Client wraps the YouTube Data API for the dashboard: keyword search
// with statistics merge, regional trending, category listing, and
// category availability probing. API keys are supplied per call because
// the dashboard lets the user bring their own key.
type Client struct {
	region string
	opts   []option.ClientOption

	mu       sync.Mutex
	services map[string]*youtube.Service
}

// NewClient creates a client for the configured region. Extra options are
// passed through to the underlying service; tests use this to point at a
// fake endpoint.
func NewClient(cfg *config.YouTubeConfig, opts ...option.ClientOption) *Client {
	return &Client{
		region:   cfg.RegionCode,
		opts:     opts,
		services: make(map[string]*youtube.Service),
	}
}

// service returns a youtube.Service bound to the given API key, creating
// and caching one per key.
func (c *Client) service(ctx context.Context, apiKey string) (*youtube.Service, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if svc, ok := c.services[apiKey]; ok {
		return svc, nil
	}

	opts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, c.opts...)
	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	c.services[apiKey] = svc
	return svc, nil
}

// Search runs the two-step search protocol: a keyword search ordered by
// view count inside the resolved date window, then a statistics lookup
// for the returned ids. Snippets are left-joined with statistics; a video
// whose statistics are missing keeps zeroed counters instead of being
// dropped. The merged set is filtered and ranked before returning.
func (c *Client) Search(ctx context.Context, apiKey, query string, minViewCount int64, window models.DateRange) ([]models.Video, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, &ValidationError{Field: "API key"}
	}
	if strings.TrimSpace(query) == "" {
		return nil, &ValidationError{Field: "search query"}
	}

	svc, err := c.service(ctx, apiKey)
	if err != nil {
		return nil, err
	}

	searchResp, err := svc.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		Order("viewCount").
		MaxResults(searchMaxResults).
		PublishedAfter(window.After.Format(time.RFC3339)).
		PublishedBefore(window.Before.Format(time.RFC3339)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, upstreamError("search", err)
	}

	var ids []string
	for _, item := range searchResp.Items {
		if item.Id != nil && item.Id.VideoId != "" {
			ids = append(ids, item.Id.VideoId)
		}
	}
	if len(ids) == 0 {
		return []models.Video{}, nil
	}

	statsResp, err := svc.Videos.List([]string{"statistics", "contentDetails"}).
		Id(strings.Join(ids, ",")).
		Context(ctx).
		Do()
	if err != nil {
		return nil, upstreamError("videos", err)
	}

	statsByID := make(map[string]*youtube.Video, len(statsResp.Items))
	for _, item := range statsResp.Items {
		statsByID[item.Id] = item
	}

	videos := make([]models.Video, 0, len(searchResp.Items))
	for _, item := range searchResp.Items {
		if item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		video := videoFromSearchResult(item)
		if stats, ok := statsByID[item.Id.VideoId]; ok {
			applyStatistics(&video, stats)
		}
		videos = append(videos, video)
	}

	return FilterAndSort(videos, query, minViewCount), nil
}

// FetchTrending returns the region's most-popular list, optionally
// filtered by category. Trending is best-effort: every failure degrades
// to an empty list so the rest of the dashboard keeps working.
func (c *Client) FetchTrending(ctx context.Context, apiKey, categoryID string) []models.Video {
	if strings.TrimSpace(apiKey) == "" {
		return []models.Video{}
	}

	svc, err := c.service(ctx, apiKey)
	if err != nil {
		log.Printf("Warning: trending service setup failed: %v", err)
		return []models.Video{}
	}

	call := svc.Videos.List([]string{"snippet", "statistics", "contentDetails"}).
		Chart("mostPopular").
		RegionCode(c.region).
		MaxResults(trendingMaxResults).
		Context(ctx)
	if categoryID != "" && categoryID != models.AllCategoriesID {
		call = call.VideoCategoryId(categoryID)
	}

	resp, err := call.Do()
	if err != nil {
		log.Printf("Warning: trending fetch failed: %v", err)
		return []models.Video{}
	}

	videos := make([]models.Video, 0, len(resp.Items))
	for _, item := range resp.Items {
		videos = append(videos, videoFromAPIVideo(item))
	}
	return videos
}

// FetchCategories lists the video categories for the configured region.
func (c *Client) FetchCategories(ctx context.Context, apiKey string) ([]models.Category, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, &ValidationError{Field: "API key"}
	}

	svc, err := c.service(ctx, apiKey)
	if err != nil {
		return nil, err
	}

	resp, err := svc.VideoCategories.List([]string{"snippet"}).
		RegionCode(c.region).
		Context(ctx).
		Do()
	if err != nil {
		return nil, upstreamError("categories", err)
	}

	categories := make([]models.Category, 0, len(resp.Items))
	for _, item := range resp.Items {
		cat := models.Category{ID: item.Id}
		if item.Snippet != nil {
			cat.Title = item.Snippet.Title
			cat.Assignable = item.Snippet.Assignable
		}
		categories = append(categories, cat)
	}
	return categories, nil
}

// ProbeAvailability checks which categories actually yield trending
// results for the region. Every category gets one maxResults=1 probe; all
// probes run concurrently and the result is assembled only after the last
// one settles. A failed probe marks its category unavailable without
// touching the rest of the batch. Output order follows input order.
func (c *Client) ProbeAvailability(ctx context.Context, categories []models.Category, apiKey string) []models.Category {
	if strings.TrimSpace(apiKey) == "" || len(categories) == 0 {
		return []models.Category{}
	}

	svc, err := c.service(ctx, apiKey)
	if err != nil {
		log.Printf("Warning: category probe service setup failed: %v", err)
		return []models.Category{}
	}

	available := make([]bool, len(categories))
	var wg sync.WaitGroup
	for i, cat := range categories {
		wg.Add(1)
		go func(i int, categoryID string) {
			defer wg.Done()
			resp, err := svc.Videos.List([]string{"snippet"}).
				Chart("mostPopular").
				RegionCode(c.region).
				VideoCategoryId(categoryID).
				MaxResults(1).
				Context(ctx).
				Do()
			if err != nil {
				// Transient failures count as unavailable too; no retries.
				return
			}
			available[i] = len(resp.Items) > 0
		}(i, cat.ID)
	}
	wg.Wait()

	result := make([]models.Category, 0, len(categories))
	for i, cat := range categories {
		if available[i] {
			result = append(result, cat)
		}
	}
	return result
}

func videoFromSearchResult(item *youtube.SearchResult) models.Video {
	video := models.Video{ID: item.Id.VideoId}
	if item.Snippet == nil {
		return video
	}

	video.Title = item.Snippet.Title
	video.Description = item.Snippet.Description
	video.ChannelID = item.Snippet.ChannelId
	video.ChannelTitle = item.Snippet.ChannelTitle
	video.Thumbnails = thumbnailsFromAPI(item.Snippet.Thumbnails)
	if publishedAt, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
		video.PublishedAt = publishedAt
	}
	return video
}

func videoFromAPIVideo(item *youtube.Video) models.Video {
	video := models.Video{ID: item.Id}
	if item.Snippet != nil {
		video.Title = item.Snippet.Title
		video.Description = item.Snippet.Description
		video.ChannelID = item.Snippet.ChannelId
		video.ChannelTitle = item.Snippet.ChannelTitle
		video.Thumbnails = thumbnailsFromAPI(item.Snippet.Thumbnails)
		if publishedAt, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
			video.PublishedAt = publishedAt
		}
	}
	applyStatistics(&video, item)
	return video
}

func applyStatistics(video *models.Video, item *youtube.Video) {
	if item.Statistics != nil {
		video.ViewCount = int64(item.Statistics.ViewCount)
		video.LikeCount = int64(item.Statistics.LikeCount)
		video.FavoriteCount = int64(item.Statistics.FavoriteCount)
		video.CommentCount = int64(item.Statistics.CommentCount)
	}
	if item.ContentDetails != nil {
		video.Duration = item.ContentDetails.Duration
	}
}

func thumbnailsFromAPI(details *youtube.ThumbnailDetails) models.Thumbnails {
	var thumbs models.Thumbnails
	if details == nil {
		return thumbs
	}
	if details.Default != nil {
		thumbs.Default = models.Thumbnail{URL: details.Default.Url, Width: details.Default.Width, Height: details.Default.Height}
	}
	if details.Medium != nil {
		thumbs.Medium = models.Thumbnail{URL: details.Medium.Url, Width: details.Medium.Width, Height: details.Medium.Height}
	}
	if details.High != nil {
		thumbs.High = models.Thumbnail{URL: details.High.Url, Width: details.High.Width, Height: details.High.Height}
	}
	return thumbs
}
