package export

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"

	"github.com/AbbasKothari1552/StreamShield/internal/app/model"
)

func sampleRuns() []model.Run {
	start := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
	return []model.Run{
		{
			ID:              "run-1",
			Source:          "clip.mp4",
			Kind:            "video",
			Device:          "cuda",
			FramesProcessed: 30,
			Detections:      map[string]int{"person": 4, "laptop": 1},
			Beeps:           []model.Beep{{Word: "darn", Start: 1500 * time.Millisecond}},
			Transcript:      "well **** it",
			StartedAt:       start,
			FinishedAt:      start.Add(2500 * time.Millisecond),
		},
		{
			ID:           "run-2",
			Source:       "notes.txt",
			StartedAt:    start,
			HasError:     1,
			ErrorMessage: "unsupported file type",
		},
	}
}

func TestRow(t *testing.T) {
	row := Row(sampleRuns()[0])

	require.Len(t, row, len(header))
	assert.Equal(t, "2024-06-01T09:30:00Z", row[4])
	assert.Equal(t, "2.50", row[5])
	assert.Equal(t, "30", row[6])
	assert.Equal(t, "laptop=1, person=4", row[7])
	assert.Equal(t, "darn@1.5s", row[8])
}

func TestRow_Unfinished(t *testing.T) {
	row := Row(sampleRuns()[1])
	assert.Equal(t, "0.00", row[5])
	assert.Equal(t, "", row[7])
	assert.Equal(t, "unsupported file type", row[11])
}

func TestToExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.xlsx")

	require.NoError(t, ToExcel(sampleRuns(), path))

	file, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)

	sheet := file.Sheets[0]
	assert.Equal(t, "Runs", sheet.Name)
	require.Len(t, sheet.Rows, 3)
	assert.Equal(t, "ID", sheet.Rows[0].Cells[0].Value)
	assert.Equal(t, "run-1", sheet.Rows[1].Cells[0].Value)
	assert.Equal(t, "run-2", sheet.Rows[2].Cells[0].Value)
}

func TestToExcel_BadPath(t *testing.T) {
	err := ToExcel(sampleRuns(), filepath.Join(t.TempDir(), "missing", "dir", "runs.xlsx"))
	assert.Error(t, err)
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(sampleRuns(), &buf))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)
	assert.Equal(t, "Runs", file.Sheets[0].Name)
	assert.Len(t, file.Sheets[0].Rows, 3)
}
