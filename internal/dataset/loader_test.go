package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-impact-engine/internal/types"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.csv", "")
	writeFile(t, dir, "a.json", "[]")
	writeFile(t, dir, "c.jsonl", "")
	writeFile(t, dir, "notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.csv"), 0o755))

	loader := NewLoader(dir)
	names, err := loader.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.json", "b.csv", "c.jsonl"}, names)
}

func TestLoadCSV(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "train.csv",
		"strongly_positive,Profits surge on record growth\n"+
			"slightly_negative,Minor setback in quarterly numbers\n")

	loader := NewLoader(dir)
	examples, stats, err := loader.Load(context.Background(), "train.csv")
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Accepted)
	assert.Equal(t, 0, stats.Rejected)
	require.Len(t, examples, 2)
	assert.Equal(t, types.StronglyPositive, examples[0].Label)
	assert.Equal(t, "Profits surge on record growth", examples[0].Text)
	assert.Equal(t, types.SlightlyNegative, examples[1].Label)
}

func TestLoadCSVRejectsBadRows(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "train.csv",
		"strongly_positive,Good news\n"+
			"bogus_label,Unknown label row\n"+
			"moderately_negative,\n")

	loader := NewLoader(dir)
	examples, stats, err := loader.Load(context.Background(), "train.csv")
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Accepted)
	assert.Equal(t, 2, stats.Rejected)
	require.Len(t, examples, 1)
	assert.Equal(t, types.StronglyPositive, examples[0].Label)
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "train.json",
		`[{"label":"moderately_positive","text":"Solid earnings beat"},`+
			`{"label":"Strongly Negative","text":"Fraud allegations surface"}]`)

	loader := NewLoader(dir)
	examples, stats, err := loader.Load(context.Background(), "train.json")
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Accepted)
	require.Len(t, examples, 2)
	// Labels normalize through the taxonomy parser.
	assert.Equal(t, types.StronglyNegative, examples[1].Label)
}

func TestLoadJSONL(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "train.jsonl",
		`{"label":"slightly_positive","text":"Mild optimism"}`+"\n\n"+
			`{"label":"slightly_negative","text":"Mild concern"}`+"\n")

	loader := NewLoader(dir)
	examples, stats, err := loader.Load(context.Background(), "train.jsonl")
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Accepted)
	require.Len(t, examples, 2)
}

func TestLoadJSONLBadLineFails(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "train.jsonl", "{not json}\n")

	loader := NewLoader(dir)
	_, _, err := loader.Load(context.Background(), "train.jsonl")
	assert.Error(t, err)
}

func TestLoadUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "train.xml", "<data/>")

	loader := NewLoader(dir)
	_, _, err := loader.Load(context.Background(), "train.xml")
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	loader := NewLoader(t.TempDir())
	_, _, err := loader.Load(context.Background(), "absent.csv")
	assert.Error(t, err)
}
