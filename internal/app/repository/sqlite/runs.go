package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	apperrors "github.com/AbbasKothari1552/StreamShield/internal/app/errors"
	"github.com/AbbasKothari1552/StreamShield/internal/app/model"
	"github.com/AbbasKothari1552/StreamShield/internal/app/repository"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS runs (
	id               TEXT PRIMARY KEY,
	source           TEXT NOT NULL,
	kind             TEXT NOT NULL DEFAULT '',
	device           TEXT NOT NULL DEFAULT '',
	frames_processed INTEGER NOT NULL DEFAULT 0,
	detections       TEXT,
	audio_path       TEXT,
	audio_artifact   TEXT,
	transcript       TEXT,
	beeps            TEXT,
	started_at       TIMESTAMP NOT NULL,
	finished_at      TIMESTAMP NOT NULL,
	has_error        INTEGER NOT NULL DEFAULT 0,
	error_message    TEXT
);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs (started_at);`

type SQLiteDB struct {
	db *sql.DB
}

var _ repository.RunDAO = (*SQLiteDB)(nil)

// NewSQLiteDB opens (creating if needed) the database file and its schema.
func NewSQLiteDB(dbFilePath string) (*SQLiteDB, error) {
	if dir := filepath.Dir(dbFilePath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrDatabaseConnection, err)
		}
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?cache=shared&mode=rwc", dbFilePath))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrDatabaseConnection, err)
	}

	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

func (sdb *SQLiteDB) Close() error {
	return sdb.db.Close()
}

func (sdb *SQLiteDB) RecordRun(run *model.Run) error {
	args, err := repository.RunArgs(run)
	if err != nil {
		return err
	}

	insertSQL := `INSERT INTO runs (` + repository.RunColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`
	if _, err := sdb.db.Exec(insertSQL, args...); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInsertFailed, err)
	}
	return nil
}

func (sdb *SQLiteDB) GetRun(id string) (*model.Run, error) {
	query := `SELECT ` + repository.RunColumns + ` FROM runs WHERE id = ?`
	run, err := repository.ScanRun(sdb.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", repository.ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrQueryFailed, err)
	}
	return run, nil
}

func (sdb *SQLiteDB) ListRuns(limit int) ([]model.Run, error) {
	query := `SELECT ` + repository.RunColumns + ` FROM runs ORDER BY started_at DESC LIMIT ?`
	rows, err := sdb.db.Query(query, repository.ListLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrQueryFailed, err)
	}
	defer rows.Close()

	runs := make([]model.Run, 0)
	for rows.Next() {
		run, err := repository.ScanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("db scan failed: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}
