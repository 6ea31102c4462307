package dataset

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gocarina/gocsv"

	"news-impact-engine/internal/logger"
	"news-impact-engine/internal/types"
)

// csvRow matches the headerless two-column layout of prepared datasets:
// label first, text second.
type csvRow struct {
	Label string `csv:"label"`
	Text  string `csv:"text"`
}

type jsonRow struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// LoadStats reports how a dataset file parsed.
type LoadStats struct {
	Accepted int
	Rejected int
}

// Loader reads labeled training datasets from a directory. Supported
// formats are headerless CSV (label,text), a JSON array of objects, and
// JSON Lines.
type Loader struct {
	Dir string
}

func NewLoader(dir string) *Loader {
	return &Loader{Dir: dir}
}

// List returns the dataset file names under the loader directory, sorted.
func (l *Loader) List() ([]string, error) {
	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		return nil, fmt.Errorf("reading dataset directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".csv", ".json", ".jsonl":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Load parses one dataset file. Rows with unknown labels or empty text are
// dropped and counted rather than failing the whole file.
func (l *Loader) Load(ctx context.Context, name string) ([]types.TrainingExample, LoadStats, error) {
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(l.Dir, name)
	}

	var rows []csvRow
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = readCSV(path)
	case ".json":
		rows, err = readJSON(path)
	case ".jsonl":
		rows, err = readJSONL(path)
	default:
		return nil, LoadStats{}, fmt.Errorf("unsupported dataset format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, LoadStats{}, err
	}

	var examples []types.TrainingExample
	var stats LoadStats
	for _, row := range rows {
		label, perr := types.ParseLabel(row.Label)
		text := strings.TrimSpace(row.Text)
		if perr != nil || text == "" {
			stats.Rejected++
			continue
		}
		examples = append(examples, types.TrainingExample{Text: text, Label: label})
		stats.Accepted++
	}

	logger.Info(ctx, "Dataset loaded",
		"file", name,
		"accepted", stats.Accepted,
		"rejected", stats.Rejected,
	)
	return examples, stats, nil
}

func readCSV(path string) ([]csvRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	var rows []csvRow
	if err := gocsv.UnmarshalWithoutHeaders(f, &rows); err != nil {
		return nil, fmt.Errorf("parsing CSV dataset: %w", err)
	}
	return rows, nil
}

func readJSON(path string) ([]csvRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	var items []jsonRow
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parsing JSON dataset: %w", err)
	}
	rows := make([]csvRow, len(items))
	for i, it := range items {
		rows[i] = csvRow{Label: it.Label, Text: it.Text}
	}
	return rows, nil
}

func readJSONL(path string) ([]csvRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	var rows []csvRow
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var item jsonRow
		if err := json.Unmarshal([]byte(text), &item); err != nil {
			return nil, fmt.Errorf("parsing JSONL dataset line %d: %w", line, err)
		}
		rows = append(rows, csvRow{Label: item.Label, Text: item.Text})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading JSONL dataset: %w", err)
	}
	return rows, nil
}
