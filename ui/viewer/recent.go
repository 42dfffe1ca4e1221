package viewer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

const recentFile = "viewer.json"

// Recent remembers the viewer's last page and model files between runs.
type Recent struct {
	mu   sync.Mutex
	path string

	Page   string  `json:"page,omitempty"`
	Models string  `json:"models,omitempty"`
	Width  float32 `json:"width,omitempty"`
	Height float32 `json:"height,omitempty"`
}

// LoadRecent reads the recent-files record from dir, normally
// ~/.config/glyph-ocr. A missing or unreadable file gives an empty record.
func LoadRecent(dir string) *Recent {
	r := &Recent{path: filepath.Join(dir, recentFile)}
	data, err := os.ReadFile(r.path)
	if err != nil {
		return r
	}
	_ = json.Unmarshal(data, r)
	return r
}

// DefaultRecentDir is the per-user directory for viewer state.
func DefaultRecentDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, "glyph-ocr")
}

// SetPage records the last opened page.
func (r *Recent) SetPage(path string) {
	r.mu.Lock()
	r.Page = path
	r.mu.Unlock()
}

// SetModels records the last loaded model file.
func (r *Recent) SetModels(path string) {
	r.mu.Lock()
	r.Models = path
	r.mu.Unlock()
}

// SetSize records the window size.
func (r *Recent) SetSize(w, h float32) {
	r.mu.Lock()
	r.Width, r.Height = w, h
	r.mu.Unlock()
}

// Save writes the record to disk.
func (r *Recent) Save() error {
	r.mu.Lock()
	data, err := json.MarshalIndent(r, "", "  ")
	r.mu.Unlock()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(r.path, data, 0o644)
}
