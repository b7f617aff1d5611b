// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lukinkon/lukin/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrNotFound is returned when an analysis does not exist.
var ErrNotFound = errors.New("analysis not found")

// Store wraps SQLite access for analysis history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analyses (
			id INTEGER PRIMARY KEY,
			created_at TEXT NOT NULL,
			input TEXT NOT NULL,
			encrypted INTEGER NOT NULL,
			total_letters INTEGER NOT NULL,
			method TEXT NOT NULL,
			strategy TEXT NOT NULL,
			language TEXT NOT NULL,
			score REAL NOT NULL,
			shift INTEGER NOT NULL,
			mapping TEXT NOT NULL,
			decoded TEXT NOT NULL,
			alt_method TEXT NOT NULL,
			alt_score REAL NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS analysis_letters (
			analysis_id INTEGER NOT NULL,
			letter TEXT NOT NULL,
			count INTEGER NOT NULL,
			PRIMARY KEY (analysis_id, letter)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_analysis_letters_letter ON analysis_letters(letter);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertAnalysis stores a completed analysis and the input's letter counts.
// Letters with a zero count are skipped.
func (s *Store) InsertAnalysis(ctx context.Context, rec model.AnalysisRecord, letters []model.LetterTotal) (id int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO analyses (created_at, input, encrypted, total_letters, method, strategy, language, score, shift, mapping, decoded, alt_method, alt_score)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		createdAt.UTC().Format(time.RFC3339Nano),
		rec.Input,
		boolToInt(rec.Encrypted),
		rec.TotalLetters,
		rec.Method,
		rec.Strategy,
		rec.Language,
		finite(rec.Score),
		rec.Shift,
		rec.Mapping,
		rec.Decoded,
		rec.AltMethod,
		finite(rec.AltScore),
	)
	if err != nil {
		return 0, err
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(letters) > 0 {
		var stmt *sql.Stmt
		stmt, err = tx.PrepareContext(ctx,
			`INSERT INTO analysis_letters (analysis_id, letter, count) VALUES (?, ?, ?)`)
		if err != nil {
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, lt := range letters {
			if lt.Count == 0 {
				continue
			}
			if _, err = stmt.ExecContext(ctx, id, lt.Letter, lt.Count); err != nil {
				return 0, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

const analysisColumns = `id, created_at, input, encrypted, total_letters, method, strategy, language, score, shift, mapping, decoded, alt_method, alt_score`

// ListAnalyses returns analyses matching the filter, oldest first. Last keeps
// only the most recent entries.
func (s *Store) ListAnalyses(ctx context.Context, filter model.HistoryFilter) ([]model.AnalysisRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.Lang != "" {
		clauses = append(clauses, "language = ?")
		args = append(args, filter.Lang)
	}
	if filter.Method != "" {
		clauses = append(clauses, "strategy = ?")
		args = append(args, filter.Method)
	}
	if filter.Since != nil {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, filter.Since.UTC().Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT %s
		FROM analyses
		WHERE %s
		ORDER BY created_at ASC, id ASC`, analysisColumns, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var records []model.AnalysisRecord
	for rows.Next() {
		rec, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if filter.Last > 0 && len(records) > filter.Last {
		records = records[len(records)-filter.Last:]
	}
	return records, nil
}

// GetAnalysis returns a single analysis by id.
func (s *Store) GetAnalysis(ctx context.Context, id int64) (model.AnalysisRecord, error) {
	row := s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT %s FROM analyses WHERE id = ?`, analysisColumns), id)
	rec, err := scanAnalysis(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.AnalysisRecord{}, ErrNotFound
	}
	return rec, err
}

// ListLetterTotals aggregates letter counts across analyses, most frequent
// first.
func (s *Store) ListLetterTotals(ctx context.Context, analysisIDs []int64) ([]model.LetterTotal, error) {
	if len(analysisIDs) == 0 {
		return nil, nil
	}
	placeholders, args := idArgs(analysisIDs)
	query := fmt.Sprintf(`SELECT letter, SUM(count) AS total
		FROM analysis_letters
		WHERE analysis_id IN (%s)
		GROUP BY letter
		ORDER BY total DESC, letter ASC`, placeholders)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.LetterTotal
	for rows.Next() {
		var lt model.LetterTotal
		if err := rows.Scan(&lt.Letter, &lt.Count); err != nil {
			return nil, err
		}
		result = append(result, lt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListLetterCounts returns per-analysis counts for the selected letters.
func (s *Store) ListLetterCounts(ctx context.Context, analysisIDs []int64, letters []string) (map[int64]map[string]int, error) {
	if len(analysisIDs) == 0 || len(letters) == 0 {
		return map[int64]map[string]int{}, nil
	}
	idPlaceholders, args := idArgs(analysisIDs)
	letterPlaceholders := make([]string, len(letters))
	for i, l := range letters {
		letterPlaceholders[i] = "?"
		args = append(args, l)
	}
	query := fmt.Sprintf(`SELECT analysis_id, letter, count
		FROM analysis_letters
		WHERE analysis_id IN (%s) AND letter IN (%s)`, idPlaceholders, strings.Join(letterPlaceholders, ","))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	result := map[int64]map[string]int{}
	for rows.Next() {
		var id int64
		var letter string
		var count int
		if err := rows.Scan(&id, &letter, &count); err != nil {
			return nil, err
		}
		if _, ok := result[id]; !ok {
			result[id] = map[string]int{}
		}
		result[id][letter] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(sc scanner) (model.AnalysisRecord, error) {
	var rec model.AnalysisRecord
	var createdAt string
	var encrypted int
	if err := sc.Scan(&rec.ID, &createdAt, &rec.Input, &encrypted, &rec.TotalLetters, &rec.Method, &rec.Strategy,
		&rec.Language, &rec.Score, &rec.Shift, &rec.Mapping, &rec.Decoded, &rec.AltMethod, &rec.AltScore); err != nil {
		return model.AnalysisRecord{}, err
	}
	parsed, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return model.AnalysisRecord{}, err
	}
	rec.CreatedAt = parsed
	rec.Encrypted = encrypted != 0
	return rec, nil
}

func idArgs(ids []int64) (string, []any) {
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	return strings.Join(placeholders, ","), args
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// finite stores unscorable results as zero.
func finite(v float64) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0
	}
	return v
}
