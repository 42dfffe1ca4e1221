package classify

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"glyph-ocr/internal/contour"
	"glyph-ocr/internal/descriptor"

	"github.com/google/uuid"
)

// ErrNoModel is returned when a glyph's contour count has no trained
// classifier.
var ErrNoModel = errors.New("no classifier for contour count")

// Models is the deployable set of per-class classifiers, indexed by contour
// count - 1. A nil slot means the class abstained.
type Models struct {
	RunID       string        `json:"run_id"`
	CreatedAt   time.Time     `json:"created_at"`
	N           int           `json:"n"`
	MaxContours int           `json:"max_contours"`
	Classes     []*Classifier `json:"classes"`
	Accuracy    []float64     `json:"accuracy"`
}

// NewModels creates an empty model set with a fresh run id.
func NewModels(n, maxContours int) *Models {
	return &Models{
		RunID:       uuid.NewString(),
		CreatedAt:   time.Now().UTC(),
		N:           n,
		MaxContours: maxContours,
		Classes:     make([]*Classifier, maxContours),
		Accuracy:    make([]float64, maxContours),
	}
}

// Classifier returns the classifier for contour count k, or nil.
func (m *Models) Classifier(k int) *Classifier {
	if k < 1 || k > len(m.Classes) {
		return nil
	}
	return m.Classes[k-1]
}

// Predict classifies a glyph by its contour set. Glyphs whose contour count
// has no classifier return ErrNoModel.
func (m *Models) Predict(set contour.Set) (string, error) {
	clf := m.Classifier(len(set))
	if clf == nil {
		return "", fmt.Errorf("%w: %d", ErrNoModel, len(set))
	}
	sig, err := descriptor.Signature(set, m.N)
	if err != nil {
		return "", err
	}
	return clf.Predict(sig)
}

// Save writes the model set to a JSON file.
func (m *Models) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal models: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// LoadModels reads a model set from a JSON file.
func LoadModels(path string) (*Models, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Models
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal models: %w", err)
	}
	if m.N < 1 {
		return nil, fmt.Errorf("models file has descriptor length %d", m.N)
	}
	if len(m.Classes) != m.MaxContours {
		return nil, fmt.Errorf("models file has %d classes, expected %d", len(m.Classes), m.MaxContours)
	}
	for i, c := range m.Classes {
		if c != nil && c.Dim() != 0 && c.Dim() != (i+1)*m.N {
			return nil, fmt.Errorf("class %d classifier has width %d, expected %d", i+1, c.Dim(), (i+1)*m.N)
		}
	}
	return &m, nil
}
