package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"tubelens/shared/config"
)

// Whisper model sizes supported by the tool server.
const (
	ModelMedium = "medium"
	ModelLarge  = "large"

	DefaultModel = ModelMedium
)

// Client talks to the local whisper tool server that downloads a YouTube
// video's audio track and converts it to text.
type Client struct {
	baseURL string
	client  *http.Client
}

// Request asks the server to transcribe one video.
type Request struct {
	YouTubeURL string `json:"youtube_url"`
	ModelSize  string `json:"model_size,omitempty"`
}

// Response carries the transcript plus the server's processing metrics.
type Response struct {
	Success           bool    `json:"success"`
	Text              string  `json:"text,omitempty"`
	Error             string  `json:"error,omitempty"`
	ProcessingTime    float64 `json:"processing_time,omitempty"`
	AudioSizeMB       float64 `json:"audio_size_mb,omitempty"`
	AudioDuration     float64 `json:"audio_duration,omitempty"`
	DownloadTime      float64 `json:"download_time,omitempty"`
	TranscriptionTime float64 `json:"transcription_time,omitempty"`
	FromCache         bool    `json:"from_cache,omitempty"`
}

type DeviceInfo struct {
	Device       string `json:"device"`
	GPUAvailable bool   `json:"gpu_available"`
	GPUName      string `json:"gpu_name,omitempty"`
}

type WhisperInfo struct {
	Mode       string `json:"mode"`
	WhisperCPP bool   `json:"whisper_cpp"`
	Message    string `json:"message"`
}

type HealthResponse struct {
	Status     string      `json:"status"`
	Message    string      `json:"message"`
	DeviceInfo DeviceInfo  `json:"device_info"`
	Whisper    WhisperInfo `json:"whisper"`
}

type Model struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type ModelsResponse struct {
	Models       []Model  `json:"models"`
	LoadedModels []string `json:"loaded_models"`
}

type CacheInfo struct {
	TotalFiles     int     `json:"total_files"`
	ValidFiles     int     `json:"valid_files"`
	ExpiredFiles   int     `json:"expired_files"`
	TotalSizeMB    float64 `json:"total_size_mb"`
	RetentionHours int     `json:"retention_hours"`
	CacheDir       string  `json:"cache_dir"`
}

var youtubeURLPattern = regexp.MustCompile(`^(https?://)?(www\.)?(youtube\.com|youtu\.be)/.+`)

func NewClient(cfg *config.ToolServerConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client: &http.Client{
			// Transcription of a long video can take several minutes.
			Timeout: 10 * time.Minute,
		},
	}
}

// IsValidYouTubeURL reports whether the URL points at YouTube at all.
func IsValidYouTubeURL(url string) bool {
	return youtubeURLPattern.MatchString(url)
}

// NormalizeYouTubeURL rewrites youtu.be share links to the canonical
// watch?v= form the tool server expects. Other URLs pass through as-is.
func NormalizeYouTubeURL(url string) string {
	if !strings.Contains(url, "youtu.be/") {
		return url
	}
	id := strings.SplitN(url, "youtu.be/", 2)[1]
	id, _, _ = strings.Cut(id, "?")
	return "https://www.youtube.com/watch?v=" + id
}

// Health reports the server's status together with its device and
// whisper backend info.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var health HealthResponse
	if err := c.getJSON(ctx, "/health", &health); err != nil {
		return nil, fmt.Errorf("failed to check whisper server health: %w", err)
	}
	return &health, nil
}

// Models lists the whisper models the server offers and which are loaded.
func (c *Client) Models(ctx context.Context) (*ModelsResponse, error) {
	var models ModelsResponse
	if err := c.getJSON(ctx, "/models", &models); err != nil {
		return nil, fmt.Errorf("failed to list whisper models: %w", err)
	}
	return &models, nil
}

// Transcribe extracts the transcript of the given YouTube video. The URL
// is validated and normalized before it is sent; modelSize defaults to
// medium when empty.
func (c *Client) Transcribe(ctx context.Context, youtubeURL, modelSize string) (*Response, error) {
	if !IsValidYouTubeURL(youtubeURL) {
		return nil, fmt.Errorf("not a YouTube URL: %q", youtubeURL)
	}
	if modelSize == "" {
		modelSize = DefaultModel
	}

	payload := Request{
		YouTubeURL: NormalizeYouTubeURL(youtubeURL),
		ModelSize:  modelSize,
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode transcription request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transcribe", bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to create transcription request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach whisper server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// FastAPI puts its error message under "detail".
		var errBody struct {
			Detail string `json:"detail"`
		}
		if json.NewDecoder(resp.Body).Decode(&errBody) == nil && errBody.Detail != "" {
			return nil, fmt.Errorf("whisper server returned status %d: %s", resp.StatusCode, errBody.Detail)
		}
		return nil, fmt.Errorf("whisper server returned status %d", resp.StatusCode)
	}

	var result Response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode transcription response: %w", err)
	}
	return &result, nil
}

// CacheInfo reports the server's audio cache statistics.
func (c *Client) CacheInfo(ctx context.Context) (*CacheInfo, error) {
	var info CacheInfo
	if err := c.getJSON(ctx, "/cache/info", &info); err != nil {
		return nil, fmt.Errorf("failed to fetch cache info: %w", err)
	}
	return &info, nil
}

// ClearCache deletes every cached audio file on the server.
func (c *Client) ClearCache(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/cache/clear", nil)
	if err != nil {
		return fmt.Errorf("failed to create cache clear request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach whisper server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cache clear returned status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
