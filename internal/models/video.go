package models

import "time"

// Thumbnail is a single thumbnail rendition of a video.
type Thumbnail struct {
	URL    string `json:"url"`
	Width  int64  `json:"width,omitempty"`
	Height int64  `json:"height,omitempty"`
}

// Thumbnails holds the standard renditions returned by the video API.
type Thumbnails struct {
	Default Thumbnail `json:"default"`
	Medium  Thumbnail `json:"medium"`
	High    Thumbnail `json:"high"`
}

// Video is a search or trending result merged from the snippet and
// statistics lookups. Counters are zero when the statistics lookup had no
// entry for the video; Duration is empty in the same case.
type Video struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	ChannelID     string     `json:"channel_id"`
	ChannelTitle  string     `json:"channel_title"`
	PublishedAt   time.Time  `json:"published_at"`
	Thumbnails    Thumbnails `json:"thumbnails"`
	ViewCount     int64      `json:"view_count"`
	LikeCount     int64      `json:"like_count"`
	FavoriteCount int64      `json:"favorite_count"`
	CommentCount  int64      `json:"comment_count"`
	Duration      string     `json:"duration,omitempty"` // ISO 8601 (e.g., "PT4M13S")

	// RelevanceScore is attached by the result ranker after searching.
	RelevanceScore int `json:"relevance_score,omitempty"`
}

// Category is a video category for the configured region. ID "0" is the
// sentinel for "all categories".
type Category struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Assignable bool   `json:"assignable"`
}

// AllCategoriesID is the sentinel category meaning "no category filter".
const AllCategoriesID = "0"
