package report

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/studioops/boardpulse/internal/snapshot"
)

// PaymentWorkbookFile is the fixed name of the payment summary workbook.
const PaymentWorkbookFile = "payment_report.xlsx"

// ExcelExporter builds the payment workbook: one sheet tallying projects per
// speaker, one sheet listing every project with its participants. Completed
// and in-recording projects are both included so open work is visible.
type ExcelExporter struct {
	OutputDir string
}

func NewExcelExporter(outputDir string) *ExcelExporter {
	return &ExcelExporter{OutputDir: outputDir}
}

type participant struct {
	Name string
	Role string
}

type paymentProject struct {
	Name         string
	Status       string
	Due          string
	Participants []participant
}

// Export writes the workbook and returns its path.
func (e *ExcelExporter) Export(snap *snapshot.Snapshot, lists ListNames) (string, error) {
	projects := collectPaymentProjects(snap, lists)

	f := excelize.NewFile()
	defer f.Close()

	if err := e.createDashboardSheet(f, projects); err != nil {
		return "", fmt.Errorf("failed to create dashboard: %w", err)
	}
	if err := e.createProjectsSheet(f, projects); err != nil {
		return "", fmt.Errorf("failed to create projects sheet: %w", err)
	}

	// excelize starts every workbook with a default sheet
	_ = f.DeleteSheet("Sheet1")

	path := filepath.Join(e.OutputDir, PaymentWorkbookFile)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save excel file: %w", err)
	}
	return path, nil
}

func collectPaymentProjects(snap *snapshot.Snapshot, lists ListNames) []paymentProject {
	var projects []paymentProject

	add := func(card snapshot.Card, status string) {
		p := paymentProject{Name: card.Name, Status: status, Due: card.Due}
		seen := make(map[string]bool)

		for _, m := range card.Members {
			name := m.FullName
			if name == "" {
				name = m.Username
			}
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true

			role := "Speaker"
			if speaker, ok := MatchSpeaker(name); ok {
				role = GetSpeakerProfile(speaker).Role
			}
			p.Participants = append(p.Participants, participant{Name: name, Role: role})
		}

		// Checklist items name speakers that are not always card members.
		for _, checklist := range card.Checklists {
			for _, item := range checklist.Items {
				speaker, ok := MatchSpeaker(item.Name)
				if !ok || seen[speaker] {
					continue
				}
				seen[speaker] = true
				p.Participants = append(p.Participants, participant{
					Name: speaker,
					Role: GetSpeakerProfile(speaker).Role,
				})
			}
		}

		projects = append(projects, p)
	}

	for _, card := range snap.Cards(lists.Done) {
		add(card, "Completed")
	}
	for _, card := range snap.Cards(lists.Recording) {
		add(card, "In Progress")
	}
	return projects
}

func (e *ExcelExporter) createDashboardSheet(f *excelize.File, projects []paymentProject) error {
	const sheetName = "Dashboard"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)

	type speakerTotals struct {
		completed  int
		inProgress int
	}
	bySpeaker := make(map[string]*speakerTotals)
	var names []string

	for _, p := range projects {
		for _, part := range p.Participants {
			t, ok := bySpeaker[part.Name]
			if !ok {
				t = &speakerTotals{}
				bySpeaker[part.Name] = t
				names = append(names, part.Name)
			}
			if p.Status == "Completed" {
				t.completed++
			} else {
				t.inProgress++
			}
		}
	}
	sort.Strings(names)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
	})

	headers := []string{"Speaker", "Completed Projects", "Projects In Progress", "Total"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, h)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for row, name := range names {
		t := bySpeaker[name]
		values := []any{name, t.completed, t.inProgress, t.completed + t.inProgress}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheetName, cell, v)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 20)
	_ = f.SetColWidth(sheetName, "B", "D", 18)
	return nil
}

func (e *ExcelExporter) createProjectsSheet(f *excelize.File, projects []paymentProject) error {
	const sheetName = "Projects"
	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
	})

	headers := []string{"#", "Project", "Status", "Due Date", "Participant", "Role"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, h)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	row := 2
	for i, p := range projects {
		if len(p.Participants) == 0 {
			p.Participants = []participant{{}}
		}
		for _, part := range p.Participants {
			values := []any{i + 1, p.Name, p.Status, p.Due, part.Name, part.Role}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row)
				_ = f.SetCellValue(sheetName, cell, v)
			}
			row++
		}
	}

	_ = f.SetColWidth(sheetName, "B", "B", 40)
	_ = f.SetColWidth(sheetName, "C", "F", 18)
	return nil
}
