package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"news-impact-engine/internal/types"
)

// SQLiteStore persists labeled training examples, the dataset registry, and
// the model registry. A single file database is enough for this workload.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// ModelRecord is one row of the model registry.
type ModelRecord struct {
	ID        string
	Name      string
	Family    string
	Path      string
	Dataset   string
	Accuracy  float64
	Active    bool
	CreatedAt time.Time
}

// NewSQLiteStore opens (creating if needed) the store at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		return nil, errors.New("dbPath must not be empty")
	}

	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &SQLiteStore{db: db, path: dbPath}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS training_examples (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			dataset TEXT NOT NULL,
			label TEXT NOT NULL,
			text TEXT NOT NULL,
			features TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_training_examples_dataset ON training_examples(dataset)`,
		`CREATE TABLE IF NOT EXISTS datasets (
			name TEXT PRIMARY KEY,
			source TEXT,
			description TEXT,
			rows_count INTEGER,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS models (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			family TEXT NOT NULL,
			path TEXT NOT NULL,
			dataset TEXT,
			accuracy REAL,
			is_active INTEGER DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	}
	for _, stmt := range ddl {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// SaveExamples appends labeled rows under the named dataset and refreshes the
// dataset registry entry.
func (s *SQLiteStore) SaveExamples(ctx context.Context, dataset string, examples []types.TrainingExample) error {
	if dataset == "" {
		return errors.New("dataset name must not be empty")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	ins := sq.Insert("training_examples").Columns("dataset", "label", "text", "features")
	for _, ex := range examples {
		var feats []byte
		if len(ex.Features) > 0 {
			feats, err = json.Marshal(ex.Features)
			if err != nil {
				return fmt.Errorf("marshal features: %w", err)
			}
		}
		ins = ins.Values(dataset, string(ex.Label), ex.Text, string(feats))
	}
	query, args, err := ins.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert examples: %w", err)
	}

	var total int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM training_examples WHERE dataset = ?`, dataset).Scan(&total); err != nil {
		return fmt.Errorf("count examples: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO datasets (name, rows_count) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET rows_count = excluded.rows_count, updated_at = CURRENT_TIMESTAMP`,
		dataset, total); err != nil {
		return fmt.Errorf("register dataset: %w", err)
	}

	return tx.Commit()
}

// LoadExamples returns every row of the named dataset in insertion order.
func (s *SQLiteStore) LoadExamples(ctx context.Context, dataset string) ([]types.TrainingExample, error) {
	query, args, err := sq.Select("label", "text", "features").
		From("training_examples").
		Where(sq.Eq{"dataset": dataset}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query examples: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []types.TrainingExample
	for rows.Next() {
		var label, text string
		var feats sql.NullString
		if err := rows.Scan(&label, &text, &feats); err != nil {
			return nil, fmt.Errorf("scan example: %w", err)
		}
		ex := types.TrainingExample{Text: text, Label: types.IntensityLabel(label)}
		if feats.Valid && feats.String != "" {
			if err := json.Unmarshal([]byte(feats.String), &ex.Features); err != nil {
				return nil, fmt.Errorf("unmarshal features: %w", err)
			}
		}
		out = append(out, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return out, nil
}

// RegisterDataset records or updates a dataset registry entry.
func (s *SQLiteStore) RegisterDataset(ctx context.Context, name, source, description string, rowsCount int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO datasets (name, source, description, rows_count) VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
			source = excluded.source,
			description = excluded.description,
			rows_count = excluded.rows_count,
			updated_at = CURRENT_TIMESTAMP`,
		name, source, description, rowsCount)
	if err != nil {
		return fmt.Errorf("register dataset: %w", err)
	}
	return nil
}

// RegisterModel stores artifact metadata and marks the new model active,
// deactivating every previous entry in the same transaction.
func (s *SQLiteStore) RegisterModel(ctx context.Context, rec ModelRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `UPDATE models SET is_active = 0 WHERE is_active = 1`); err != nil {
		return fmt.Errorf("deactivate models: %w", err)
	}

	query, args, err := sq.Insert("models").
		Columns("id", "name", "family", "path", "dataset", "accuracy", "is_active").
		Values(rec.ID, rec.Name, rec.Family, rec.Path, rec.Dataset, rec.Accuracy, 1).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert model: %w", err)
	}

	return tx.Commit()
}

// ActiveModel returns the currently active model record, or nil when no model
// has been registered yet.
func (s *SQLiteStore) ActiveModel(ctx context.Context) (*ModelRecord, error) {
	query, args, err := sq.Select("id", "name", "family", "path", "dataset", "accuracy", "created_at").
		From("models").
		Where(sq.Eq{"is_active": 1}).
		OrderBy("created_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var rec ModelRecord
	var accuracy sql.NullFloat64
	var createdAt string
	err = s.db.QueryRowContext(ctx, query, args...).
		Scan(&rec.ID, &rec.Name, &rec.Family, &rec.Path, &rec.Dataset, &accuracy, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query active model: %w", err)
	}
	rec.Accuracy = accuracy.Float64
	rec.Active = true
	if t, perr := time.Parse("2006-01-02 15:04:05", createdAt); perr == nil {
		rec.CreatedAt = t
	}
	return &rec, nil
}
