package report

import (
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed "templates"
var templateFS embed.FS

// Fixed output names; the uploader and the published site both rely on them.
const (
	WorkloadReportFile  = "speaker_workload_report.html"
	CompletedReportFile = "completed_projects_report.html"
)

// HTMLExporter renders the two report documents into OutputDir. Rendering is
// deterministic for a given snapshot; the generated-at stamp is the only
// wall-clock input and comes from Now.
type HTMLExporter struct {
	OutputDir string
	Now       func() time.Time
}

func NewHTMLExporter(outputDir string) *HTMLExporter {
	return &HTMLExporter{OutputDir: outputDir, Now: time.Now}
}

// generatedAt formats the stamp in the studio's timezone.
func (e *HTMLExporter) generatedAt() string {
	now := e.Now()
	if loc, err := time.LoadLocation("Europe/Berlin"); err == nil {
		now = now.In(loc)
	}
	return now.Format("02.01.2006 15:04")
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"title": cases.Title(language.English).String,
		"pct":   func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
		"shortDate": func(iso string) string {
			if len(iso) >= 10 {
				return iso[:10]
			}
			return iso
		},
	}
}

func (e *HTMLExporter) render(name string, data any) (string, error) {
	tmpl, err := template.New(name).Funcs(templateFuncs()).ParseFS(templateFS, "templates/"+name)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	if err := os.MkdirAll(e.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	outputPath := filepath.Join(e.OutputDir, templateOutput[name])
	f, err := os.Create(outputPath)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	if err := tmpl.Execute(f, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return outputPath, nil
}

var templateOutput = map[string]string{
	"workload.tmpl":  WorkloadReportFile,
	"completed.tmpl": CompletedReportFile,
}

// ExportWorkload writes the speaker workload report and returns its path.
func (e *HTMLExporter) ExportWorkload(w *Workload, boardName string) (string, error) {
	return e.render("workload.tmpl", map[string]any{
		"Board":       boardName,
		"GeneratedAt": e.generatedAt(),
		"Speakers":    w.Speakers,
		"Warnings":    w.Warnings,
		"TotalTasks":  w.TotalTasks,
		"Profiles":    SpeakerProfiles,
	})
}

// ExportCompleted writes the completed projects report and returns its path.
func (e *HTMLExporter) ExportCompleted(c *Completed, boardName string) (string, error) {
	return e.render("completed.tmpl", map[string]any{
		"Board":       boardName,
		"GeneratedAt": e.generatedAt(),
		"Projects":    c.Projects,
		"BySpeaker":   c.BySpeaker,
	})
}
