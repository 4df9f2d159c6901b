package export

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/tealeg/xlsx"

	"github.com/AbbasKothari1552/StreamShield/internal/app/model"
)

var header = []string{
	"ID", "Source", "Kind", "Device", "Started At", "Duration (s)", "Frames",
	"Detections", "Beeps", "Transcript", "Audio Artifact", "Error Message",
}

// ToExcel writes the runs to an xlsx workbook with one sheet.
func ToExcel(runs []model.Run, outputFilePath string) error {
	file, err := Workbook(runs)
	if err != nil {
		return err
	}
	if err := file.Save(outputFilePath); err != nil {
		return fmt.Errorf("failed to save %s: %w", outputFilePath, err)
	}
	return nil
}

// Write streams the workbook for runs to w.
func Write(runs []model.Run, w io.Writer) error {
	file, err := Workbook(runs)
	if err != nil {
		return err
	}
	return file.Write(w)
}

// Workbook builds the "Runs" sheet: a header row followed by one row per run.
func Workbook(runs []model.Run) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Runs")
	if err != nil {
		return nil, err
	}

	headerRow := sheet.AddRow()
	for _, title := range header {
		headerRow.AddCell().Value = title
	}

	for _, r := range runs {
		row := sheet.AddRow()
		for _, value := range Row(r) {
			row.AddCell().Value = value
		}
	}
	return file, nil
}

// Row renders one run as spreadsheet cells in header order.
func Row(r model.Run) []string {
	return []string{
		r.ID,
		r.Source,
		r.Kind,
		r.Device,
		r.StartedAt.Format(time.RFC3339),
		fmt.Sprintf("%.2f", r.Duration().Seconds()),
		fmt.Sprint(r.FramesProcessed),
		formatDetections(r.Detections),
		strings.Join(lo.Map(r.Beeps, func(b model.Beep, _ int) string {
			return fmt.Sprintf("%s@%.1fs", b.Word, b.Start.Seconds())
		}), ", "),
		r.Transcript,
		r.AudioArtifact,
		r.ErrorMessage,
	}
}

func formatDetections(detections map[string]int) string {
	labels := lo.Keys(detections)
	sort.Strings(labels)
	return strings.Join(lo.Map(labels, func(label string, _ int) string {
		return fmt.Sprintf("%s=%d", label, detections[label])
	}), ", ")
}
