package ml

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-impact-engine/internal/types"
)

func trainedArtifact(t *testing.T) *Artifact {
	t.Helper()
	trainer := NewTrainer()
	artifact, err := trainer.Train(context.Background(), separableExamples(15), FamilyRandomForest, 42)
	require.NoError(t, err)
	return artifact
}

func TestArtifactSaveLoadRoundtrip(t *testing.T) {
	artifact := trainedArtifact(t)
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, artifact.Save(path))

	loaded, err := LoadArtifact(path)
	require.NoError(t, err)

	assert.Equal(t, artifact.ID, loaded.ID)
	assert.Equal(t, artifact.Family, loaded.Family)
	assert.Equal(t, artifact.Labels, loaded.Labels)
	assert.Equal(t, artifact.Extractor.Vectorizer.Vocab, loaded.Extractor.Vectorizer.Vocab)
	require.NotNil(t, loaded.Forest)
	assert.Len(t, loaded.Forest.Trees, len(artifact.Forest.Trees))

	// Loaded model predicts identically to the in-memory one.
	x := artifact.Extractor.ArticleVector(types.ArticleSentiment{
		Label: types.StronglyPositive, Confidence: 0.9, Text: "profits surge on record growth",
	}, 1)
	assert.Equal(t, artifact.probabilities(x), loaded.probabilities(x))
}

func TestArtifactSaveCreatesDirectory(t *testing.T) {
	artifact := trainedArtifact(t)
	path := filepath.Join(t.TempDir(), "nested", "models", "model.json")
	require.NoError(t, artifact.Save(path))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestLoadArtifactVersionMismatch(t *testing.T) {
	artifact := trainedArtifact(t)
	artifact.SchemaVersion = ArtifactSchemaVersion + 1
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, artifact.Save(path))

	_, err := LoadArtifact(path)
	var ve *VersionError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, ArtifactSchemaVersion+1, ve.Got)
	assert.Equal(t, ArtifactSchemaVersion, ve.Want)
}

func TestLoadArtifactRejectsEmptyBundle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	bundle := map[string]any{"schema_version": ArtifactSchemaVersion}
	data, err := json.Marshal(bundle)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err = LoadArtifact(path)
	assert.Error(t, err)
}

func TestLoadArtifactMissingFile(t *testing.T) {
	_, err := LoadArtifact(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestParseFamily(t *testing.T) {
	f, err := ParseFamily("random_forest")
	require.NoError(t, err)
	assert.Equal(t, FamilyRandomForest, f)

	f, err = ParseFamily("gradient_boosting")
	require.NoError(t, err)
	assert.Equal(t, FamilyGradientBoosting, f)

	_, err = ParseFamily("linear")
	assert.Error(t, err)
}
