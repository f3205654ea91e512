package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tubelens/internal/enhance"
	"tubelens/internal/models"
	"tubelens/internal/recommend"
	"tubelens/internal/transcribe"
	"tubelens/internal/trendwatch"
	"tubelens/internal/youtube"
	"tubelens/shared/config"
	"tubelens/shared/storage"
)

// The handler set depends on narrow interfaces so tests can substitute
// fakes without standing up every upstream.

type VideoSearcher interface {
	Search(ctx context.Context, apiKey, query string, minViewCount int64, window models.DateRange) ([]models.Video, error)
}

type Enhancer interface {
	Enhance(ctx context.Context, req enhance.Request) enhance.Response
}

type Recommender interface {
	Recommend(ctx context.Context, title string, onResult func(recommend.Suggestion)) ([]recommend.Suggestion, error)
}

type Transcriber interface {
	Transcribe(ctx context.Context, youtubeURL, modelSize string) (*transcribe.Response, error)
}

type KeywordSource interface {
	Trends(ctx context.Context, query string) []models.KeywordData
	Related(ctx context.Context, keyword string, includeRelated bool, maxRelated int) []models.KeywordData
	Shopping(ctx context.Context) []models.KeywordData
}

type TrendSource interface {
	Snapshot() trendwatch.Snapshot
}

// Server is the dashboard's JSON API.
type Server struct {
	cfg         *config.Config
	searcher    VideoSearcher
	enhancer    Enhancer
	recommender Recommender
	transcriber Transcriber
	keywords    KeywordSource
	trends      TrendSource
	prefs       *storage.PrefsStore
}

func NewServer(cfg *config.Config, searcher VideoSearcher, enhancer Enhancer, recommender Recommender, transcriber Transcriber, keywords KeywordSource, trends TrendSource, prefs *storage.PrefsStore) *Server {
	return &Server{
		cfg:         cfg,
		searcher:    searcher,
		enhancer:    enhancer,
		recommender: recommender,
		transcriber: transcriber,
		keywords:    keywords,
		trends:      trends,
		prefs:       prefs,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/search", s.handleSearch)
	mux.HandleFunc("GET /api/trending", s.handleTrending)
	mux.HandleFunc("GET /api/categories", s.handleCategories)
	mux.HandleFunc("POST /api/enhance", s.handleEnhance)
	mux.HandleFunc("POST /api/recommend", s.handleRecommend)
	mux.HandleFunc("POST /api/transcribe", s.handleTranscribe)
	mux.HandleFunc("GET /api/keywords", s.handleKeywords)
	mux.HandleFunc("GET /api/prefs", s.handleGetPrefs)
	mux.HandleFunc("PUT /api/prefs", s.handlePutPrefs)
	mux.HandleFunc("GET /api/prefs/tab", s.handleGetTab)
	mux.HandleFunc("PUT /api/prefs/tab", s.handlePutTab)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Warning: failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// statusForError maps the domain error types onto HTTP statuses.
func statusForError(err error) int {
	var verr *youtube.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest
	}
	var uerr *youtube.UpstreamError
	if errors.As(err, &uerr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// apiKey resolves the effective YouTube key: an explicit query parameter
// wins over the session key, which wins over the configured default.
func (s *Server) apiKey(r *http.Request) string {
	if key := r.URL.Query().Get("apiKey"); key != "" {
		return key
	}
	if key := s.prefs.Get().APIKey; key != "" {
		return key
	}
	return s.cfg.YouTube.APIKey
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	prefs := s.prefs.Get()

	query := q.Get("q")
	if query == "" {
		query = prefs.SearchQuery
	}

	minViewCount := prefs.MinViewCount
	if raw := q.Get("minViewCount"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid minViewCount %q", raw))
			return
		}
		minViewCount = parsed
	}

	period := prefs.SearchPeriod
	customStart := prefs.CustomStartDate
	customEnd := prefs.CustomEndDate
	if raw := q.Get("period"); raw != "" {
		period = models.SearchPeriod(raw)
		customStart = q.Get("startDate")
		customEnd = q.Get("endDate")
	}

	window := youtube.ResolveDateRange(period, customStart, customEnd, time.Now())

	videos, err := s.searcher.Search(r.Context(), s.apiKey(r), query, minViewCount, window)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"videos": videos})
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	snap := s.trends.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"videos":     snap.Trending,
		"updated_at": snap.UpdatedAt,
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	snap := s.trends.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": snap.Categories,
		"updated_at": snap.UpdatedAt,
	})
}

func (s *Server) handleEnhance(w http.ResponseWriter, r *http.Request) {
	var req enhance.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.OriginalText) == "" {
		writeError(w, http.StatusBadRequest, "original_text is required")
		return
	}

	// The dispatcher never fails at the transport level; failures ride
	// inside the response body.
	writeJSON(w, http.StatusOK, s.enhancer.Enhance(r.Context(), req))
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	suggestions, err := s.recommender.Recommend(r.Context(), req.Title, nil)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			// Client went away; nothing useful to write.
			return
		}
		if errors.Is(err, recommend.ErrAllProvidersFailed) {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"suggestions": suggestions})
}

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		YouTubeURL string `json:"youtube_url"`
		ModelSize  string `json:"model_size"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if !transcribe.IsValidYouTubeURL(req.YouTubeURL) {
		writeError(w, http.StatusBadRequest, "youtube_url must be a YouTube link")
		return
	}

	result, err := s.transcriber.Transcribe(r.Context(), req.YouTubeURL, req.ModelSize)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleKeywords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var keywords []models.KeywordData
	switch q.Get("kind") {
	case "shopping":
		keywords = s.keywords.Shopping(r.Context())
	case "related":
		keyword := q.Get("q")
		if keyword == "" {
			writeError(w, http.StatusBadRequest, "q is required for related keywords")
			return
		}
		maxRelated := 10
		if raw := q.Get("max"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid max %q", raw))
				return
			}
			maxRelated = parsed
		}
		keywords = s.keywords.Related(r.Context(), keyword, true, maxRelated)
	default:
		keywords = s.keywords.Trends(r.Context(), q.Get("q"))
	}
	writeJSON(w, http.StatusOK, map[string]any{"keywords": keywords})
}

func (s *Server) handleGetPrefs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.prefs.Get())
}

func (s *Server) handlePutPrefs(w http.ResponseWriter, r *http.Request) {
	var prefs storage.Preferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := s.prefs.Update(prefs); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save preferences: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

func (s *Server) handleGetTab(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"activeTab": s.prefs.ActiveTab()})
}

func (s *Server) handlePutTab(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ActiveTab string `json:"activeTab"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := s.prefs.SetActiveTab(req.ActiveTab); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save active tab: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"activeTab": req.ActiveTab})
}
