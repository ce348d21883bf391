// Package store persists computed summaries to SQLite or MySQL/MariaDB.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/TomVdv187/CircusDailyVideoStats/engine"
	"github.com/TomVdv187/CircusDailyVideoStats/language"
)

// ErrNoRuns is returned by LatestRun on an empty store.
var ErrNoRuns = errors.New("store: no runs recorded")

// Fixed width so that lexical order is chronological in both dialects.
const createdAtLayout = "2006-01-02 15:04:05.000000"

// Store writes one row set per pipeline run.
type Store struct {
	db     *sql.DB
	driver string
}

// Run is a stored run header with its target statistics.
type Run struct {
	ID              string              `json:"runId"`
	CreatedAt       time.Time           `json:"createdAt"`
	Variant         engine.Variant      `json:"variant"`
	FunnelReference string              `json:"funnelReference"`
	Target          engine.SummaryStats `json:"target"`
}

// Open connects to dsn:
//
//	sqlite://path, path.sqlite, path.db, :memory:   → SQLite
//	mysql://u:p@host:3306/db, mariadb://...         → MySQL driver DSN
//	anything else                                   → passed to the MySQL driver as is
func Open(dsn string) (*Store, error) {
	driver, source, err := resolveDSN(dsn)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == "sqlite" {
		// One connection: an in-memory database is per connection.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)
	}
	return &Store{db: db, driver: driver}, nil
}

// Driver returns the database/sql driver name in use.
func (s *Store) Driver() string { return s.driver }

// Close releases the connection pool.
func (s *Store) Close() error { return s.db.Close() }

func resolveDSN(dsn string) (driver, source string, err error) {
	dsn = strings.TrimSpace(dsn)
	lower := strings.ToLower(dsn)
	switch {
	case dsn == "":
		return "", "", fmt.Errorf("empty store DSN")
	case strings.HasPrefix(lower, "sqlite://"):
		path := dsn[len("sqlite://"):]
		if path == "" {
			return "", "", fmt.Errorf("sqlite DSN has no path")
		}
		return "sqlite", path, nil
	case dsn == ":memory:",
		strings.HasSuffix(lower, ".sqlite"),
		strings.HasSuffix(lower, ".sqlite3"),
		strings.HasSuffix(lower, ".db"):
		return "sqlite", dsn, nil
	}
	source, err = toMySQLDSN(dsn)
	if err != nil {
		return "", "", err
	}
	return "mysql", source, nil
}

// toMySQLDSN converts mariadb:// or mysql:// URLs to the driver format.
func toMySQLDSN(dsn string) (string, error) {
	if strings.HasPrefix(dsn, "mariadb://") || strings.HasPrefix(dsn, "mysql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "", fmt.Errorf("parse dsn: %w", err)
		}
		user := ""
		pass := ""
		if u.User != nil {
			user = u.User.Username()
			pw, _ := u.User.Password()
			pass = pw
		}
		host := u.Host
		db := strings.TrimPrefix(u.Path, "/")
		if user == "" || host == "" || db == "" {
			return "", fmt.Errorf("incomplete dsn (need user, host and database)")
		}
		return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&interpolateParams=true",
			user, pass, host, db), nil
	}
	return dsn, nil
}

// ============================================================================
// SCHEMA
// ============================================================================

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		run_id VARCHAR(36) NOT NULL PRIMARY KEY,
		created_at VARCHAR(32) NOT NULL,
		variant VARCHAR(32) NOT NULL,
		funnel_reference VARCHAR(16) NOT NULL,
		target_rows INTEGER NOT NULL,
		reference_rows INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS summary_stats (
		run_id VARCHAR(36) NOT NULL,
		side VARCHAR(16) NOT NULL,
		video_count INTEGER NOT NULL,
		total_streams DOUBLE NOT NULL,
		avg_streams_per_video DOUBLE NOT NULL,
		comp25 DOUBLE NOT NULL,
		comp50 DOUBLE NOT NULL,
		comp75 DOUBLE NOT NULL,
		comp100 DOUBLE NOT NULL,
		avg_completion_rate DOUBLE NOT NULL,
		avg_view_time DOUBLE NOT NULL,
		PRIMARY KEY (run_id, side)
	)`,
	`CREATE TABLE IF NOT EXISTS monthly_buckets (
		run_id VARCHAR(36) NOT NULL,
		month VARCHAR(7) NOT NULL,
		label VARCHAR(16) NOT NULL,
		video_count INTEGER NOT NULL,
		total_streams DOUBLE NOT NULL,
		avg_streams_per_video DOUBLE NOT NULL,
		comp25 DOUBLE NOT NULL,
		comp50 DOUBLE NOT NULL,
		comp75 DOUBLE NOT NULL,
		comp100 DOUBLE NOT NULL,
		PRIMARY KEY (run_id, month)
	)`,
	`CREATE TABLE IF NOT EXISTS leaderboard_rows (
		run_id VARCHAR(36) NOT NULL,
		board VARCHAR(64) NOT NULL,
		position INTEGER NOT NULL,
		board_source VARCHAR(16) NOT NULL,
		title TEXT NOT NULL,
		language VARCHAR(4) NOT NULL,
		streams DOUBLE NOT NULL,
		comp100 DOUBLE NOT NULL,
		avg_completion_rate DOUBLE NOT NULL,
		avg_view_time DOUBLE NOT NULL,
		PRIMARY KEY (run_id, board, position)
	)`,
}

// Migrate creates missing tables.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range migrations {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// ============================================================================
// WRITE
// ============================================================================

// Save writes a summary in a single transaction and returns its run ID.
func (s *Store) Save(ctx context.Context, summary *engine.Summary) (string, error) {
	if summary == nil {
		return "", fmt.Errorf("save: nil summary")
	}
	runID := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	createdAt := summary.GeneratedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, created_at, variant, funnel_reference, target_rows, reference_rows) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, createdAt.UTC().Format(createdAtLayout), string(summary.Variant), summary.Funnel.ReferenceLabel,
		len(summary.TargetRows), len(summary.ReferenceRows),
	); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	if err := insertStats(ctx, tx, runID, engine.SourceTarget, summary.Target); err != nil {
		return "", err
	}
	if summary.Reference != nil {
		if err := insertStats(ctx, tx, runID, engine.SourceReference, *summary.Reference); err != nil {
			return "", err
		}
	}

	for _, b := range summary.Monthly {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO monthly_buckets (run_id, month, label, video_count, total_streams, avg_streams_per_video, comp25, comp50, comp75, comp100) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, b.Month, b.Label, b.VideoCount, b.TotalStreams, b.AvgStreamsPerVideo, b.Comp25, b.Comp50, b.Comp75, b.Comp100,
		); err != nil {
			return "", fmt.Errorf("insert month %s: %w", b.Month, err)
		}
	}

	rowCount := 0
	for _, lb := range summary.Leaderboards {
		for i, r := range lb.Rows {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO leaderboard_rows (run_id, board, position, board_source, title, language, streams, comp100, avg_completion_rate, avg_view_time) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				runID, lb.Name, i+1, lb.Source, r.Title, string(r.Language), r.Streams, r.Comp100, r.CompletionRate, r.ViewTime,
			); err != nil {
				return "", fmt.Errorf("insert leaderboard %s #%d: %w", lb.Name, i+1, err)
			}
			rowCount++
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	log.Printf("💾 VideoStats: Saved run %s (%d months, %d leaderboard rows) to %s",
		runID, len(summary.Monthly), rowCount, s.driver)
	return runID, nil
}

func insertStats(ctx context.Context, tx *sql.Tx, runID, side string, st engine.SummaryStats) error {
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO summary_stats (run_id, side, video_count, total_streams, avg_streams_per_video, comp25, comp50, comp75, comp100, avg_completion_rate, avg_view_time) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, side, st.Count, st.TotalStreams, st.AvgStreamsPerVideo, st.Comp25, st.Comp50, st.Comp75, st.Comp100, st.AvgCompletionRate, st.AvgViewTime,
	); err != nil {
		return fmt.Errorf("insert %s stats: %w", side, err)
	}
	return nil
}

// ============================================================================
// READ
// ============================================================================

// LatestRun returns the most recent run and its target statistics.
func (s *Store) LatestRun(ctx context.Context) (*Run, error) {
	var (
		run       Run
		createdAt string
		variant   string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT run_id, created_at, variant, funnel_reference FROM runs ORDER BY created_at DESC LIMIT 1`,
	).Scan(&run.ID, &createdAt, &variant, &run.FunnelReference)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRuns
	}
	if err != nil {
		return nil, fmt.Errorf("latest run: %w", err)
	}
	run.Variant = engine.Variant(variant)
	if run.CreatedAt, err = time.Parse(createdAtLayout, createdAt); err != nil {
		return nil, fmt.Errorf("latest run %s: bad created_at %q: %w", run.ID, createdAt, err)
	}

	stats, err := s.Stats(ctx, run.ID, engine.SourceTarget)
	if err != nil {
		return nil, err
	}
	run.Target = stats
	return &run, nil
}

// Stats reads one side's statistics for a run.
func (s *Store) Stats(ctx context.Context, runID, side string) (engine.SummaryStats, error) {
	var st engine.SummaryStats
	err := s.db.QueryRowContext(ctx,
		`SELECT video_count, total_streams, avg_streams_per_video, comp25, comp50, comp75, comp100, avg_completion_rate, avg_view_time FROM summary_stats WHERE run_id = ? AND side = ?`,
		runID, side,
	).Scan(&st.Count, &st.TotalStreams, &st.AvgStreamsPerVideo, &st.Comp25, &st.Comp50, &st.Comp75, &st.Comp100, &st.AvgCompletionRate, &st.AvgViewTime)
	if err != nil {
		return engine.SummaryStats{}, fmt.Errorf("stats %s/%s: %w", runID, side, err)
	}
	return st, nil
}

// Leaderboard reads a stored leaderboard's titles and streams in rank order.
func (s *Store) Leaderboard(ctx context.Context, runID, board string) ([]engine.Row, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT title, language, streams, comp100, avg_completion_rate, avg_view_time FROM leaderboard_rows WHERE run_id = ? AND board = ? ORDER BY position`,
		runID, board,
	)
	if err != nil {
		return nil, fmt.Errorf("leaderboard %s: %w", board, err)
	}
	defer rows.Close()

	var out []engine.Row
	for rows.Next() {
		var (
			r    engine.Row
			lang string
		)
		if err := rows.Scan(&r.Title, &lang, &r.Streams, &r.Comp100, &r.CompletionRate, &r.ViewTime); err != nil {
			return nil, fmt.Errorf("leaderboard %s: %w", board, err)
		}
		r.Language = language.Tag(lang)
		out = append(out, r)
	}
	return out, rows.Err()
}
