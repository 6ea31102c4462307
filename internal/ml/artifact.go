package ml

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"news-impact-engine/internal/types"
)

// ArtifactSchemaVersion guards persisted bundles against incompatible
// readers; bump it whenever the on-disk layout changes.
const ArtifactSchemaVersion = 1

// ModelFamily names a supported classifier family.
type ModelFamily string

const (
	FamilyRandomForest     ModelFamily = "random_forest"
	FamilyGradientBoosting ModelFamily = "gradient_boosting"
)

func ParseFamily(s string) (ModelFamily, error) {
	switch ModelFamily(s) {
	case FamilyRandomForest, FamilyGradientBoosting:
		return ModelFamily(s), nil
	default:
		return "", fmt.Errorf("unknown model family %q", s)
	}
}

// Artifact is a self-contained trained model bundle: the fitted feature
// extractor, the ensemble, the label order the class indices map to, and
// the evaluation metrics captured at training time.
type Artifact struct {
	SchemaVersion int                    `json:"schema_version"`
	ID            string                 `json:"id"`
	Family        ModelFamily            `json:"family"`
	TrainedAt     time.Time              `json:"trained_at"`
	Labels        []types.IntensityLabel `json:"labels"`
	Extractor     *FeatureExtractor      `json:"extractor"`
	Forest        *Forest                `json:"forest,omitempty"`
	Boosted       *BoostedEnsemble       `json:"boosted,omitempty"`
	Metrics       types.TrainingReport   `json:"metrics"`
}

func newArtifact(family ModelFamily, labels []types.IntensityLabel, extractor *FeatureExtractor) *Artifact {
	return &Artifact{
		SchemaVersion: ArtifactSchemaVersion,
		ID:            uuid.NewString(),
		Family:        family,
		TrainedAt:     time.Now().UTC(),
		Labels:        labels,
		Extractor:     extractor,
	}
}

// probabilities returns the class distribution for one feature vector,
// ordered to match Labels.
func (a *Artifact) probabilities(x []float64) []float64 {
	if a.Forest != nil {
		return a.Forest.predictProba(x)
	}
	return a.Boosted.predictProba(x)
}

// Save writes the artifact as indented JSON via a temp file and rename so
// concurrent readers never observe a partial bundle.
func (a *Artifact) Save(path string) error {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding model artifact: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating model directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".artifact-*.json")
	if err != nil {
		return fmt.Errorf("creating temp artifact: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing model artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp artifact: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("publishing model artifact: %w", err)
	}
	return nil
}

// LoadArtifact reads and validates a saved bundle. A schema mismatch is
// reported as VersionError so callers can distinguish stale artifacts from
// corruption.
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model artifact: %w", err)
	}
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decoding model artifact: %w", err)
	}
	if a.SchemaVersion != ArtifactSchemaVersion {
		return nil, &VersionError{Got: a.SchemaVersion, Want: ArtifactSchemaVersion}
	}
	if a.Forest == nil && a.Boosted == nil {
		return nil, fmt.Errorf("model artifact %s carries no ensemble", a.ID)
	}
	if a.Extractor == nil || len(a.Labels) == 0 {
		return nil, fmt.Errorf("model artifact %s is incomplete", a.ID)
	}
	return &a, nil
}
