package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Journal records uploaded photos and failed attempts using SQLite
type Journal struct {
	db *sql.DB
}

// Entry is one uploaded photo
type Entry struct {
	ID         int64
	AlbumID    string
	AlbumName  string
	File       string
	PhotoID    string
	Page       string
	Small      string
	Big        string
	UploadedAt time.Time
}

// Failure is one failed upload attempt
type Failure struct {
	ID        int64
	AlbumName string
	File      string
	Attempt   int
	Error     string
	At        time.Time
}

// NewJournal opens (or creates) an upload journal backed by SQLite
func NewJournal(dbPath string) (*Journal, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection keeps in-memory databases consistent
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA journal_mode = WAL",
		"PRAGMA temp_store = MEMORY",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS uploads (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			album_id TEXT NOT NULL,
			album_name TEXT NOT NULL,
			file TEXT NOT NULL,
			photo_id TEXT NOT NULL,
			page TEXT,
			small TEXT,
			big TEXT,
			uploaded_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS failures (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			album_name TEXT NOT NULL,
			file TEXT NOT NULL,
			attempt INTEGER NOT NULL,
			error TEXT NOT NULL,
			at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_uploads_album ON uploads(album_name, uploaded_at);
		CREATE INDEX IF NOT EXISTS idx_failures_at ON failures(at);
	`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Journal{db: db}, nil
}

// Close closes the database connection
func (j *Journal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}

// Record stores the photos returned for one uploaded file
func (j *Journal) Record(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO uploads (album_id, album_name, file, photo_id, page, small, big, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		at := e.UploadedAt
		if at.IsZero() {
			at = time.Now()
		}
		if _, err := stmt.ExecContext(ctx,
			e.AlbumID, e.AlbumName, e.File, e.PhotoID,
			e.Page, e.Small, e.Big, at.Unix(),
		); err != nil {
			return fmt.Errorf("failed to record photo %s: %w", e.PhotoID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// RecordFailure stores one failed attempt
func (j *Journal) RecordFailure(ctx context.Context, f Failure) error {
	at := f.At
	if at.IsZero() {
		at = time.Now()
	}

	_, err := j.db.ExecContext(ctx, `
		INSERT INTO failures (album_name, file, attempt, error, at)
		VALUES (?, ?, ?, ?, ?)
	`, f.AlbumName, f.File, f.Attempt, f.Error, at.Unix())
	if err != nil {
		return fmt.Errorf("failed to record failure: %w", err)
	}

	return nil
}

// List returns uploaded photos, newest first
// An empty album name lists every album; limit <= 0 means no limit
func (j *Journal) List(ctx context.Context, album string, limit int) ([]Entry, error) {
	query := `
		SELECT id, album_id, album_name, file, photo_id,
			COALESCE(page, ''), COALESCE(small, ''), COALESCE(big, ''), uploaded_at
		FROM uploads
	`
	var args []any
	if album != "" {
		query += " WHERE album_name = ?"
		args = append(args, album)
	}
	query += " ORDER BY uploaded_at DESC, id DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query uploads: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var uploadedAt int64

		if err := rows.Scan(
			&e.ID, &e.AlbumID, &e.AlbumName, &e.File, &e.PhotoID,
			&e.Page, &e.Small, &e.Big, &uploadedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan upload: %w", err)
		}

		e.UploadedAt = time.Unix(uploadedAt, 0)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating uploads: %w", err)
	}

	return entries, nil
}

// Failures returns recorded failed attempts, newest first
func (j *Journal) Failures(ctx context.Context, limit int) ([]Failure, error) {
	query := `
		SELECT id, album_name, file, attempt, error, at
		FROM failures
		ORDER BY at DESC, id DESC
	`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := j.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query failures: %w", err)
	}
	defer rows.Close()

	var failures []Failure
	for rows.Next() {
		var f Failure
		var at int64

		if err := rows.Scan(&f.ID, &f.AlbumName, &f.File, &f.Attempt, &f.Error, &at); err != nil {
			return nil, fmt.Errorf("failed to scan failure: %w", err)
		}

		f.At = time.Unix(at, 0)
		failures = append(failures, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating failures: %w", err)
	}

	return failures, nil
}

// Count returns the number of uploaded photos, optionally for one album
func (j *Journal) Count(ctx context.Context, album string) (int, error) {
	query := "SELECT COUNT(*) FROM uploads"
	var args []any
	if album != "" {
		query += " WHERE album_name = ?"
		args = append(args, album)
	}

	var count int
	if err := j.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count uploads: %w", err)
	}

	return count, nil
}

// CleanupFailures removes failed attempts older than maxAge
func (j *Journal) CleanupFailures(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxAge).Unix()

	result, err := j.db.ExecContext(ctx, "DELETE FROM failures WHERE at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup old failures: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return deleted, nil
}
