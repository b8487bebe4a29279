// Package resultdb persists ranking runs in a SQLite database.
package resultdb

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/happyhackingspace/featsel/internal/dictionary"
)

// ErrRunNotFound is returned when a run id is unknown.
var ErrRunNotFound = errors.New("run not found")

// Run describes one ranking of a corpus.
type Run struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	Corpus     string    `json:"corpus"`
	Scorer     string    `json:"scorer"`
	Ngram      int       `json:"ngram"`
	Counting   string    `json:"counting"`
	Vocabulary string    `json:"vocabulary"`
	Labels     int       `json:"labels"`
	Features   int       `json:"features"` // vocabulary size
}

// DB is a result database handle.
type DB struct {
	db *sql.DB

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// Open opens (or creates) the database at path with WAL mode enabled.
func Open(ctx context.Context, path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA foreign_keys=ON"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	if err := initSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &DB{
		db:      db,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	corpus TEXT,
	scorer TEXT NOT NULL,
	ngram INTEGER NOT NULL,
	counting TEXT,
	vocabulary TEXT,
	labels INTEGER NOT NULL,
	features INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS features (
	run_id TEXT NOT NULL,
	label TEXT NOT NULL,
	feature TEXT NOT NULL,
	weight REAL NOT NULL,
	rank INTEGER NOT NULL,
	PRIMARY KEY(run_id, label, feature),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_features_rank ON features(run_id, label, rank);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

func (d *DB) newID(t time.Time) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), d.entropy).String()
}

// SaveRun stores run and the extracted features of res, keeping the order of
// each label's feature list as its rank. It returns the new run id; run.ID and
// run.CreatedAt are assigned here.
func (d *DB) SaveRun(ctx context.Context, run Run, res *dictionary.Result) (string, error) {
	run.CreatedAt = time.Now().UTC()
	run.ID = d.newID(run.CreatedAt)
	run.Labels = len(res.Labels)

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
INSERT INTO runs (id, created_at, corpus, scorer, ngram, counting, vocabulary, labels, features)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.Format(time.RFC3339Nano), run.Corpus, run.Scorer, run.Ngram,
		run.Counting, run.Vocabulary, run.Labels, run.Features)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO features (run_id, label, feature, weight, rank) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer func() { _ = stmt.Close() }()

	for _, lf := range res.Labels {
		for rank, f := range lf.Features {
			if _, err := stmt.ExecContext(ctx, run.ID, lf.Label, f.Feature, f.Weight, rank); err != nil {
				return "", fmt.Errorf("insert feature %s/%s: %w", lf.Label, f.Feature, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return run.ID, nil
}

const runColumns = `id, created_at, corpus, scorer, ngram, counting, vocabulary, labels, features`

func scanRun(row interface{ Scan(...any) error }) (Run, error) {
	var r Run
	var created string
	if err := row.Scan(&r.ID, &created, &r.Corpus, &r.Scorer, &r.Ngram,
		&r.Counting, &r.Vocabulary, &r.Labels, &r.Features); err != nil {
		return r, err
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return r, fmt.Errorf("run %s: created_at: %w", r.ID, err)
	}
	r.CreatedAt = t
	return r, nil
}

// Runs lists stored runs, newest first.
func (d *DB) Runs(ctx context.Context) ([]Run, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun returns a single run.
func (d *DB) GetRun(ctx context.Context, id string) (Run, error) {
	r, err := scanRun(d.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return r, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return r, err
}

// Labels returns the labels of a run that have stored features, in their
// stored order.
func (d *DB) Labels(ctx context.Context, runID string) ([]string, error) {
	if _, err := d.GetRun(ctx, runID); err != nil {
		return nil, err
	}
	rows, err := d.db.QueryContext(ctx,
		`SELECT label FROM features WHERE run_id = ? GROUP BY label ORDER BY MIN(rowid)`, runID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var labels []string
	for rows.Next() {
		var l string
		if err := rows.Scan(&l); err != nil {
			return nil, err
		}
		labels = append(labels, l)
	}
	return labels, rows.Err()
}

// TopFeatures returns up to k features of label in rank order. k <= 0
// returns all of them.
func (d *DB) TopFeatures(ctx context.Context, runID, label string, k int) ([]dictionary.Feature, error) {
	if _, err := d.GetRun(ctx, runID); err != nil {
		return nil, err
	}
	if k <= 0 {
		k = -1
	}
	rows, err := d.db.QueryContext(ctx, `
SELECT feature, weight FROM features
WHERE run_id = ? AND label = ?
ORDER BY rank
LIMIT ?`, runID, label, k)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []dictionary.Feature
	for rows.Next() {
		var f dictionary.Feature
		if err := rows.Scan(&f.Feature, &f.Weight); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
