package process

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AbbasKothari1552/StreamShield/internal/app/model"
)

func TestPrintRun(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	run := &model.Run{
		ID:              "abc",
		Kind:            "video",
		FramesProcessed: 12,
		Detections:      map[string]int{"person": 3, "car": 1},
		Transcript:      "oh ****",
		Beeps:           []model.Beep{{Word: "heck", Start: time.Second, End: 2 * time.Second}},
		StartedAt:       start,
		FinishedAt:      start.Add(1500 * time.Millisecond),
	}

	var buf bytes.Buffer
	printRun(&buf, run)
	out := buf.String()

	assert.Contains(t, out, "run abc (video) finished in 1.5s")
	assert.Contains(t, out, "frames: 12")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("car")), bytes.Index(buf.Bytes(), []byte("person")))
	assert.Contains(t, out, "transcript: oh ****")
	assert.Contains(t, out, `beep "heck" at 1s-2s`)
}
