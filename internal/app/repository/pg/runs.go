package pg

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

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
	detections       JSONB,
	audio_path       TEXT,
	audio_artifact   TEXT,
	transcript       TEXT,
	beeps            JSONB,
	started_at       TIMESTAMPTZ NOT NULL,
	finished_at      TIMESTAMPTZ NOT NULL,
	has_error        INTEGER NOT NULL DEFAULT 0,
	error_message    TEXT
);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs (started_at DESC);`

type PostgresDB struct {
	db *sql.DB
}

var _ repository.RunDAO = (*PostgresDB)(nil)

// NewPostgresDB opens a connection pool. The schema is created by Migrate.
func NewPostgresDB(connectionString string) (*PostgresDB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, err
	}
	return &PostgresDB{db: db}, nil
}

// Migrate creates the runs table if it does not exist.
func (pdb *PostgresDB) Migrate() error {
	if _, err := pdb.db.Exec(createTableSQL); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrDatabaseConnection, err)
	}
	return nil
}

func (pdb *PostgresDB) Close() error {
	return pdb.db.Close()
}

func (pdb *PostgresDB) RecordRun(run *model.Run) error {
	args, err := repository.RunArgs(run)
	if err != nil {
		return err
	}

	insertSQL := `INSERT INTO runs (` + repository.RunColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	if _, err := pdb.db.Exec(insertSQL, args...); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInsertFailed, err)
	}
	return nil
}

func (pdb *PostgresDB) GetRun(id string) (*model.Run, error) {
	query := `SELECT ` + repository.RunColumns + ` FROM runs WHERE id = $1`
	run, err := repository.ScanRun(pdb.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", repository.ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrQueryFailed, err)
	}
	return run, nil
}

func (pdb *PostgresDB) ListRuns(limit int) ([]model.Run, error) {
	query := `SELECT ` + repository.RunColumns + ` FROM runs ORDER BY started_at DESC LIMIT $1`
	rows, err := pdb.db.Query(query, repository.ListLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrQueryFailed, err)
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		run, err := repository.ScanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("db scan failed: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if runs == nil {
		runs = []model.Run{}
	}
	return runs, nil
}
