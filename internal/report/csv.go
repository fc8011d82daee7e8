package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/studioops/boardpulse/internal/snapshot"
)

// WorkloadCSVFile is the fixed name of the flat workload export.
const WorkloadCSVFile = "speaker_workload.csv"

// CSVExporter writes the recording list as one flat row per matched
// checklist item, for spreadsheet hand-off.
type CSVExporter struct {
	OutputDir string
	Now       func() time.Time
}

func NewCSVExporter(outputDir string) *CSVExporter {
	return &CSVExporter{OutputDir: outputDir, Now: time.Now}
}

// Export writes the workload CSV and returns its path.
func (e *CSVExporter) Export(snap *snapshot.Snapshot, lists ListNames) (string, error) {
	if err := os.MkdirAll(e.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(e.OutputDir, WorkloadCSVFile)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"Card Name",
		"Card URL",
		"Due Date",
		"Speaker",
		"Task Status",
		"Checklist Name",
		"Item Name",
		"Days Until Due",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	now := e.Now()
	for _, card := range snap.Cards(lists.Recording) {
		daysUntilDue := ""
		if due, ok := card.DueTime(); ok {
			daysUntilDue = strconv.Itoa(daysUntil(due, now))
		}

		for _, checklist := range card.Checklists {
			for _, item := range checklist.Items {
				speaker, ok := MatchSpeaker(item.Name)
				if !ok {
					continue
				}
				row := []string{
					card.Name,
					card.ShortURL,
					card.Due,
					speaker,
					item.State,
					checklist.Name,
					item.Name,
					daysUntilDue,
				}
				if err := writer.Write(row); err != nil {
					return "", err
				}
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("failed to write CSV: %w", err)
	}
	return path, nil
}
