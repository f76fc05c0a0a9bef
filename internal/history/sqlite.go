package history

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/raysh454/phishguard/internal/logging"
	"github.com/raysh454/phishguard/internal/model"

	_ "modernc.org/sqlite" // SQLite driver
)

//go:embed schema.sql
var schemaFS embed.FS

// SQLiteRepository stores detection records in SQLite.
type SQLiteRepository struct {
	db     *sql.DB
	logger logging.Logger
}

// Open opens (or creates) the database at path and applies the schema.
// Use ":memory:" for a throwaway database.
func Open(path string, logger logging.Logger) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	if path == ":memory:" {
		// Every pooled connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}
	repo, err := NewSQLiteRepository(db, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

// NewSQLiteRepository wraps an open database and runs migrations.
func NewSQLiteRepository(db *sql.DB, logger logging.Logger) (*SQLiteRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}
	if err := applySchema(db); err != nil {
		return nil, err
	}
	return &SQLiteRepository{db: db, logger: logger}, nil
}

// applySchema sets pragmas and executes the embedded schema.
func applySchema(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema.sql: %w", err)
	}
	if _, err := db.Exec(string(schemaSQL)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// Seed inserts records only when the table is empty, so restarting a
// server does not duplicate the sample log.
func (r *SQLiteRepository) Seed(ctx context.Context, records []model.DetectionRecord) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var n int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM detections`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count detections: %w", err)
	}
	if n > 0 {
		return 0, nil
	}

	for _, rec := range records {
		if _, err := insert(ctx, tx, rec); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit seed: %w", err)
	}
	r.logger.Info("seeded detection history", logging.Field{Key: "count", Value: len(records)})
	return len(records), nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insert(ctx context.Context, db execer, rec model.DetectionRecord) (*model.DetectionRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	blocked := 0
	if rec.Blocked {
		blocked = 1
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO detections (id, url, risk_score, risk_level, detected_at, source, blocked)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.URL, rec.RiskScore, string(rec.RiskLevel), rec.Timestamp.UTC().UnixNano(), rec.Source, blocked,
	)
	if err != nil {
		return nil, fmt.Errorf("insert detection: %w", err)
	}
	return &rec, nil
}

// Add appends rec, assigning an ID when it has none.
func (r *SQLiteRepository) Add(ctx context.Context, rec model.DetectionRecord) (*model.DetectionRecord, error) {
	return insert(ctx, r.db, rec)
}

const selectColumns = `SELECT id, url, risk_score, risk_level, detected_at, source, blocked FROM detections`

func (r *SQLiteRepository) List(ctx context.Context) ([]model.DetectionRecord, error) {
	return r.query(ctx, selectColumns+` ORDER BY seq`)
}

// Filter pushes the tier predicate into SQL and applies the URL search in
// Go, so case folding matches the in-memory Filter for non-ASCII input.
func (r *SQLiteRepository) Filter(ctx context.Context, q Query) ([]model.DetectionRecord, error) {
	var (
		recs []model.DetectionRecord
		err  error
	)
	if q.Risk == "" || q.Risk == model.FilterAll {
		recs, err = r.List(ctx)
	} else {
		recs, err = r.query(ctx, selectColumns+` WHERE risk_level = ? ORDER BY seq`, strings.ToUpper(string(q.Risk)))
	}
	if err != nil {
		return nil, err
	}
	return Filter(recs, Query{Search: q.Search}), nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*model.DetectionRecord, error) {
	recs, err := r.query(ctx, selectColumns+` WHERE id = ? LIMIT 1`, id)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, ErrRecordNotFound
	}
	return &recs[0], nil
}

func (r *SQLiteRepository) query(ctx context.Context, q string, args ...any) ([]model.DetectionRecord, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query detections: %w", err)
	}
	defer rows.Close()

	out := []model.DetectionRecord{}
	for rows.Next() {
		var (
			rec     model.DetectionRecord
			level   string
			nanos   int64
			blocked int
		)
		if err := rows.Scan(&rec.ID, &rec.URL, &rec.RiskScore, &level, &nanos, &rec.Source, &blocked); err != nil {
			return nil, err
		}
		rec.RiskLevel = model.RiskLevel(level)
		rec.Timestamp = time.Unix(0, nanos).UTC()
		rec.Blocked = blocked != 0
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate detections: %w", err)
	}
	return out, nil
}

// Close closes the underlying database.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
