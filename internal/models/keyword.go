package models

// KeywordData is one keyword with its display weight and trend metrics.
// The JSON tags match the trend service's payload. Entries are immutable
// after fetch.
type KeywordData struct {
	Text         string  `json:"text"`
	Value        int     `json:"value"`
	SearchVolume int64   `json:"searchVolume,omitempty"`
	Trend        float64 `json:"trend,omitempty"`
	Competition  string  `json:"competition,omitempty"` // LOW, MEDIUM or HIGH
	CPC          float64 `json:"cpc,omitempty"`
}
