// Package history persists redacted validation outcomes in an append-only
// SQLite log. Only the sha256 fingerprint and a short hint of each key are
// stored, never the secret itself.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	_ "github.com/mattn/go-sqlite3"

	"github.com/janekbaraniewski/keycheck/internal/core"
)

// Record is one validation outcome as persisted.
type Record struct {
	ID          int64
	Timestamp   time.Time
	Provider    string
	Fingerprint string
	Hint        string
	Validity    core.Validity
	Message     string
	ModelCount  int
	Summary     *core.AccountSummary
}

// Store is an append-only validation history.
type Store struct {
	db     *sql.DB
	now    func() time.Time
	logger *log.Logger
}

// Open creates (if needed) and opens the history database at path.
func Open(path string, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("history: creating DB dir: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("history: opening DB: %w", err)
	}

	s := &Store{db: db, now: time.Now, logger: logger}
	if err := s.init(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewStore wraps an existing database handle; used by tests.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now, logger: log.New(io.Discard)}
}

// Close releases the underlying handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) init(ctx context.Context) error {
	stmts := []string{
		`PRAGMA journal_mode = WAL;`,
		`PRAGMA synchronous = NORMAL;`,
		`PRAGMA busy_timeout = 5000;`,
		`CREATE TABLE IF NOT EXISTS validations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			ts TEXT NOT NULL,
			provider TEXT NOT NULL,
			fingerprint TEXT NOT NULL,
			hint TEXT NOT NULL,
			validity TEXT NOT NULL,
			message TEXT NOT NULL,
			model_count INTEGER NOT NULL DEFAULT 0,
			summary_json TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_validations_fingerprint
			ON validations(fingerprint);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("history: init schema: %w", err)
		}
	}
	return nil
}

// RecordOf builds the redacted record for one validated key.
func RecordOf(key *core.Key, rep core.Report) Record {
	rec := Record{
		Provider:    rep.Provider,
		Validity:    rep.Validity,
		Message:     rep.Message,
		Summary:     rep.Summary,
		ModelCount:  key.Quota.ModelCount,
		Fingerprint: key.Fingerprint(),
		Hint:        key.Hint(),
	}
	return rec
}

// Append writes one record. The timestamp is assigned here.
func (s *Store) Append(ctx context.Context, rec Record) error {
	var summaryJSON sql.NullString
	if rec.Summary != nil {
		data, err := json.Marshal(rec.Summary)
		if err != nil {
			s.logger.Warn("history: summary not serializable", "err", err)
		} else {
			summaryJSON = sql.NullString{String: string(data), Valid: true}
		}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO validations (ts, provider, fingerprint, hint, validity, message, model_count, summary_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.now().UTC().Format(time.RFC3339),
		rec.Provider, rec.Fingerprint, rec.Hint,
		rec.Validity.String(), rec.Message, rec.ModelCount, summaryJSON,
	)
	if err != nil {
		return fmt.Errorf("history: append: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, ts, provider, fingerprint, hint, validity, message, model_count, summary_json
		 FROM validations ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: query: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// ForFingerprint returns the history of one key, newest first.
func (s *Store) ForFingerprint(ctx context.Context, fingerprint string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, ts, provider, fingerprint, hint, validity, message, model_count, summary_json
		 FROM validations WHERE fingerprint = ? ORDER BY id DESC`, fingerprint)
	if err != nil {
		return nil, fmt.Errorf("history: query: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// Clear deletes every record.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM validations`); err != nil {
		return fmt.Errorf("history: clear: %w", err)
	}
	return nil
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	var out []Record
	for rows.Next() {
		var (
			rec         Record
			ts          string
			validity    string
			summaryJSON sql.NullString
		)
		if err := rows.Scan(&rec.ID, &ts, &rec.Provider, &rec.Fingerprint, &rec.Hint,
			&validity, &rec.Message, &rec.ModelCount, &summaryJSON); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			rec.Timestamp = t
		}
		rec.Validity = parseValidity(validity)
		if summaryJSON.Valid {
			var summary core.AccountSummary
			if err := json.Unmarshal([]byte(summaryJSON.String), &summary); err == nil {
				rec.Summary = &summary
			}
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func parseValidity(s string) core.Validity {
	switch s {
	case "valid":
		return core.Valid
	case "invalid":
		return core.Invalid
	default:
		return core.ValidityUnknown
	}
}
