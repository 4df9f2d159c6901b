package sqlite

import (
	"fmt"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/AbbasKothari1552/StreamShield/internal/app/errors"
	"github.com/AbbasKothari1552/StreamShield/internal/app/model"
	"github.com/AbbasKothari1552/StreamShield/internal/app/repository"
)

func newRun(id string, started time.Time) *model.Run {
	return &model.Run{
		ID:              id,
		Source:          id + ".mp4",
		Kind:            "video",
		Device:          "cpu",
		FramesProcessed: 5,
		Detections:      map[string]int{"person": 2, "laptop": 1},
		Beeps:           []model.Beep{{Word: "darn", Segment: 1, Start: time.Second, End: 2 * time.Second}},
		Transcript:      "well **** it",
		StartedAt:       started,
		FinishedAt:      started.Add(time.Second),
	}
}

func TestSQLiteDB_RoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "runs.db")
	sdb, err := NewSQLiteDB(dbPath)
	require.NoError(t, err)
	defer sdb.Close()

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, sdb.RecordRun(newRun(fmt.Sprintf("run-%d", i), base.Add(time.Duration(i)*time.Minute))))
	}

	got, err := sdb.GetRun("run-1")
	require.NoError(t, err)
	assert.Equal(t, "run-1.mp4", got.Source)
	assert.Equal(t, map[string]int{"person": 2, "laptop": 1}, got.Detections)
	require.Len(t, got.Beeps, 1)
	assert.Equal(t, time.Second, got.Beeps[0].Start)
	assert.True(t, got.StartedAt.Equal(base.Add(time.Minute)))

	runs, err := sdb.ListRuns(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].ID)
	assert.Equal(t, "run-1", runs[1].ID)

	runs, err = sdb.ListRuns(0)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}

func TestSQLiteDB_GetRun_NotFound(t *testing.T) {
	sdb, err := NewSQLiteDB(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer sdb.Close()

	_, err = sdb.GetRun("missing")
	assert.ErrorIs(t, err, repository.ErrRunNotFound)
}

func TestSQLiteDB_DuplicateID(t *testing.T) {
	sdb, err := NewSQLiteDB(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer sdb.Close()

	run := newRun("dup", time.Now())
	require.NoError(t, sdb.RecordRun(run))
	assert.ErrorIs(t, sdb.RecordRun(run), apperrors.ErrInsertFailed)
}

func TestSQLiteDB_ClosedDatabase(t *testing.T) {
	sdb, err := NewSQLiteDB(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	require.NoError(t, sdb.Close())

	_, err = sdb.ListRuns(10)
	assert.Error(t, err)
}

func TestSQLiteDB_RecordRun_Mock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sdb := &SQLiteDB{db: db}
	run := newRun("mocked", time.Now())

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO runs (` + repository.RunColumns + `)`)).
		WithArgs("mocked", "mocked.mp4", "video", "cpu", 5, sqlmock.AnyArg(), "", "", "well **** it", sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), 0, "").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, sdb.RecordRun(run))
	assert.NoError(t, mock.ExpectationsWereMet())
}
