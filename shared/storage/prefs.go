package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"tubelens/internal/models"
)

// Preferences is the dashboard's persisted search session state.
type Preferences struct {
	SelectedCategory string              `json:"selectedCategory"`
	APIKey           string              `json:"apiKey"`
	SearchQuery      string              `json:"searchQuery"`
	MinViewCount     int64               `json:"minViewCount"`
	SearchPeriod     models.SearchPeriod `json:"searchPeriod"`
	CustomStartDate  string              `json:"customStartDate"`
	CustomEndDate    string              `json:"customEndDate"`
}

func defaultPreferences() Preferences {
	return Preferences{
		SelectedCategory: models.AllCategoriesID,
		SearchQuery:      "Next.js",
		MinViewCount:     100000,
		SearchPeriod:     models.PeriodYearOverYear,
	}
}

// PrefsStore manages persistent session preferences plus the last active
// dashboard tab. Every setter writes through to disk so a restart picks
// up where the session left off.
type PrefsStore struct {
	prefsPath string
	tabPath   string
	prefs     Preferences
	activeTab string
	mu        sync.RWMutex
}

// NewPrefsStore creates the store under dataDir, loading any previously
// persisted state. A missing file means defaults.
func NewPrefsStore(dataDir string) (*PrefsStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	store := &PrefsStore{
		prefsPath: filepath.Join(dataDir, "search_prefs.json"),
		tabPath:   filepath.Join(dataDir, "active_tab.json"),
		prefs:     defaultPreferences(),
	}

	if err := store.load(); err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}

	return store, nil
}

// Get returns a copy of the current preferences.
func (s *PrefsStore) Get() Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

// Update replaces the preferences wholesale and persists them.
func (s *PrefsStore) Update(prefs Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prefs = prefs
	return s.savePrefs()
}

// SetSelectedCategory persists the category choice.
func (s *PrefsStore) SetSelectedCategory(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prefs.SelectedCategory = id
	return s.savePrefs()
}

// SetAPIKey persists the session's YouTube API key.
func (s *PrefsStore) SetAPIKey(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prefs.APIKey = key
	return s.savePrefs()
}

// SetSearchQuery persists the search query.
func (s *PrefsStore) SetSearchQuery(query string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prefs.SearchQuery = query
	return s.savePrefs()
}

// SetMinViewCount persists the view-count floor.
func (s *PrefsStore) SetMinViewCount(count int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prefs.MinViewCount = count
	return s.savePrefs()
}

// SetSearchPeriod persists the period together with its custom dates.
func (s *PrefsStore) SetSearchPeriod(period models.SearchPeriod, customStart, customEnd string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prefs.SearchPeriod = period
	s.prefs.CustomStartDate = customStart
	s.prefs.CustomEndDate = customEnd
	return s.savePrefs()
}

// ActiveTab returns the last active dashboard tab, or "" when none was
// recorded yet.
func (s *PrefsStore) ActiveTab() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeTab
}

// SetActiveTab persists the last active dashboard tab.
func (s *PrefsStore) SetActiveTab(tab string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.activeTab = tab
	return writeJSON(s.tabPath, map[string]string{"activeTab": tab})
}

func (s *PrefsStore) load() error {
	if err := readJSON(s.prefsPath, &s.prefs); err != nil {
		return err
	}

	var tab map[string]string
	if err := readJSON(s.tabPath, &tab); err != nil {
		return err
	}
	s.activeTab = tab["activeTab"]
	return nil
}

func (s *PrefsStore) savePrefs() error {
	return writeJSON(s.prefsPath, s.prefs)
}

// readJSON leaves out untouched when the file does not exist yet.
func readJSON(path string, out any) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

func writeJSON(path string, in any) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(in)
}
