package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/BigLeagueAjay/Webscraper/models"
)

// History indexes every completed save in SQLite so past scrapes can
// be listed without walking the raw-data directory.
type History struct {
	db     *sql.DB
	logger zerolog.Logger
}

// OpenHistory opens (and creates if needed) the history database.
func OpenHistory(dbPath string, logger zerolog.Logger) (*History, error) {
	if dbPath == "" {
		dbPath = "data/webscraper.db"
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("can't create db directory: %w", err)
		}
	}

	logger.Info().Str("path", dbPath).Msg("opening SQLite history db")
	sqlDB, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("can't open db: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping failed: %w", err)
	}

	// go-sqlite3 misbehaves with concurrent writers; keep one conn
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	h := &History{db: sqlDB, logger: logger}
	if err := h.createTables(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("can't create tables: %w", err)
	}

	return h, nil
}

func (h *History) createTables(ctx context.Context) error {
	createSavesTable := `
	CREATE TABLE IF NOT EXISTS saves (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		content_id TEXT NOT NULL UNIQUE,
		url TEXT NOT NULL,
		title TEXT,
		raw_filepath TEXT NOT NULL,
		total_embeddings INTEGER NOT NULL DEFAULT 0,
		saved_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`

	createIndexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_saves_content_id ON saves(content_id);",
		"CREATE INDEX IF NOT EXISTS idx_saves_url ON saves(url);",
	}

	if _, err := h.db.ExecContext(ctx, createSavesTable); err != nil {
		return fmt.Errorf("can't create saves table: %w", err)
	}
	for _, q := range createIndexes {
		if _, err := h.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("can't create index: %w", err)
		}
	}

	return nil
}

// RecordSave inserts one row per completed save. Re-saving the same
// content ID never happens (IDs are fresh per save), so plain insert.
func (h *History) RecordSave(ctx context.Context, result *models.StorageResult, content *models.ScrapedContent) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	_, err := h.db.ExecContext(ctx,
		`INSERT INTO saves (content_id, url, title, raw_filepath, total_embeddings) VALUES (?, ?, ?, ?, ?)`,
		result.ContentID, content.URL, content.Title, result.RawFilepath, result.TotalEmbeddings,
	)
	if err != nil {
		return fmt.Errorf("can't record save: %w", err)
	}
	return nil
}

// RecentSaves returns the newest entries, most recent first.
func (h *History) RecentSaves(ctx context.Context, limit int) ([]models.HistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	rows, err := h.db.QueryContext(ctx,
		`SELECT content_id, url, title, raw_filepath, total_embeddings, saved_at
		 FROM saves ORDER BY saved_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("can't query saves: %w", err)
	}
	defer rows.Close()

	entries := []models.HistoryEntry{}
	for rows.Next() {
		var e models.HistoryEntry
		if err := rows.Scan(&e.ContentID, &e.URL, &e.Title, &e.RawFilepath, &e.TotalEmbeddings, &e.SavedAt); err != nil {
			return nil, fmt.Errorf("scan save failed: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating saves error: %w", err)
	}

	return entries, nil
}

// HealthCheck pings the database.
func (h *History) HealthCheck(ctx context.Context) error {
	if h == nil || h.db == nil {
		return fmt.Errorf("history db is not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	return nil
}

// GracefulShutdown closes the database, giving up after the timeout.
func (h *History) GracefulShutdown(timeout time.Duration) error {
	if h == nil || h.db == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- h.db.Close()
	}()

	select {
	case err := <-done:
		if err != nil {
			h.logger.Error().Err(err).Msg("error shutting down history db")
		} else {
			h.logger.Info().Msg("history db closed cleanly")
		}
		return err
	case <-ctx.Done():
		h.logger.Warn().Msg("history db shutdown timeout")
		return fmt.Errorf("db shutdown timeout")
	}
}
