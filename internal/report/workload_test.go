package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studioops/boardpulse/internal/snapshot"
)

var testLists = ListNames{
	Recording: "Skripte zur Aufnahme",
	Review:    "In Review",
	Done:      "Fertig",
}

var testNow = time.Date(2026, 2, 20, 12, 0, 0, 0, time.UTC)

func testSnapshot() *snapshot.Snapshot {
	return &snapshot.Snapshot{
		Board: snapshot.Board{ID: "b1", Name: "True Crime Video Dubs"},
		CardsByList: map[string][]snapshot.Card{
			"Skripte zur Aufnahme": {
				{
					Name:     "Episode 13 - Der Fall M.",
					ShortURL: "https://trello.com/c/ep13",
					Due:      "2026-02-22T12:00:00.000Z",
					Checklists: []snapshot.Checklist{
						{Name: "Aufnahmen", Items: []snapshot.CheckItem{
							{Name: "Lucas - Erzähler", State: snapshot.StateComplete},
							{Name: "Jade - Zeugin", State: snapshot.StateIncomplete},
							{Name: "Jade - Nachbarin", State: snapshot.StateIncomplete},
							{Name: "Schnitt prüfen", State: snapshot.StateIncomplete},
						}},
					},
				},
				{
					Name: "Episode 14",
					Due:  "2026-04-01T12:00:00.000Z",
					Checklists: []snapshot.Checklist{
						{Name: "Aufnahmen", Items: []snapshot.CheckItem{
							{Name: "Holger - Täter", State: snapshot.StateIncomplete},
							{Name: "holger - Kommissar a.D.", State: snapshot.StateIncomplete},
							{Name: "Holger - Zeuge 1", State: snapshot.StateIncomplete},
							{Name: "Holger - Zeuge 2", State: snapshot.StateIncomplete},
							{Name: "Holger - Zeuge 3", State: snapshot.StateIncomplete},
						}},
					},
				},
			},
			"In Review": {
				{Name: "Episode 12 (Sprecher: Martin)", Desc: ""},
			},
			"Fertig": {
				{
					Name:             "Episode 10",
					ShortURL:         "https://trello.com/c/ep10",
					DateLastActivity: "2026-02-10T09:00:00.000Z",
					Desc:             "Final script: https://docs.google.com/document/d/abc123).",
					Labels:           []snapshot.Label{{Name: "True Crime"}},
					Members: []snapshot.Member{
						{FullName: "Jade Hagemann", Username: "jade_h"},
						{FullName: "Lucas Jacobs", Username: "lucki"},
					},
					Actions: []snapshot.Action{
						{Type: "commentCard", Data: snapshot.ActionData{Text: "audio here https://drive.google.com/file/d/xyz, thanks"}},
					},
				},
				{
					Name:             "Episode 11",
					DateLastActivity: "2026-02-15T09:00:00.000Z",
					Members: []snapshot.Member{
						{FullName: "Jade Hagemann", Username: "jade_h"},
					},
				},
			},
		},
		FetchedAt: testNow,
	}
}

func speakerByName(t *testing.T, w *Workload, name string) SpeakerWorkload {
	t.Helper()
	for _, s := range w.Speakers {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("speaker %s not in workload", name)
	return SpeakerWorkload{}
}

func TestAnalyzeWorkloadTalliesChecklistItems(t *testing.T) {
	w := AnalyzeWorkload(testSnapshot(), testLists, testNow)

	lucas := speakerByName(t, w, "Lucas")
	assert.Equal(t, 1, lucas.Completed)
	assert.Equal(t, 0, lucas.Pending)

	jade := speakerByName(t, w, "Jade")
	assert.Equal(t, 0, jade.Completed)
	assert.Equal(t, 2, jade.Pending)
	require.Len(t, jade.DueDates, 2)
	assert.Equal(t, 22, jade.DueDates[0].Day())

	// case-insensitive matching
	holger := speakerByName(t, w, "Holger")
	assert.Equal(t, 5, holger.Pending)

	// items naming no speaker are ignored
	assert.Equal(t, 1+2+5, w.TotalTasks)
}

func TestAnalyzeWorkloadOrdersBusiestFirst(t *testing.T) {
	w := AnalyzeWorkload(testSnapshot(), testLists, testNow)

	require.NotEmpty(t, w.Speakers)
	assert.Equal(t, "Holger", w.Speakers[0].Name)
	for i := 1; i < len(w.Speakers); i++ {
		assert.GreaterOrEqual(t, w.Speakers[i-1].Total(), w.Speakers[i].Total())
	}
}

func TestAnalyzeWorkloadIncludesMentionedSpeakers(t *testing.T) {
	w := AnalyzeWorkload(testSnapshot(), testLists, testNow)

	// Martin only appears in a review card title
	martin := speakerByName(t, w, "Martin")
	assert.Equal(t, 0, martin.Total())
}

func TestWorkloadWarnings(t *testing.T) {
	w := AnalyzeWorkload(testSnapshot(), testLists, testNow)

	kinds := make(map[string][]WarningKind)
	for _, warning := range w.Warnings {
		kinds[warning.Speaker] = append(kinds[warning.Speaker], warning.Kind)
	}

	// 5 pending tasks
	assert.Contains(t, kinds["Holger"], WarningCritical)
	// 0/2 completed but below the 3-task threshold, due in 2 days
	assert.NotContains(t, kinds["Jade"], WarningLow)
	assert.Contains(t, kinds["Jade"], WarningUrgent)
	// fully completed, nothing to flag
	assert.Empty(t, kinds["Lucas"])
}

func TestOverdueTaskIsNotDueSoon(t *testing.T) {
	snap := &snapshot.Snapshot{
		CardsByList: map[string][]snapshot.Card{
			"Skripte zur Aufnahme": {
				{
					Name: "Episode 9",
					// due 12 hours before testNow
					Due: "2026-02-20T00:00:00.000Z",
					Checklists: []snapshot.Checklist{
						{Name: "Aufnahmen", Items: []snapshot.CheckItem{
							{Name: "Jade - Zeugin", State: snapshot.StateIncomplete},
						}},
					},
				},
			},
		},
	}

	w := AnalyzeWorkload(snap, testLists, testNow)
	for _, warning := range w.Warnings {
		assert.NotEqual(t, WarningUrgent, warning.Kind,
			"a task already overdue must not read as due in 0 days")
	}
}

func TestDaysUntilFloors(t *testing.T) {
	tests := []struct {
		name string
		due  time.Time
		want int
	}{
		{"overdue by 12h", testNow.Add(-12 * time.Hour), -1},
		{"due in 12h", testNow.Add(12 * time.Hour), 0},
		{"due in exactly 2 days", testNow.Add(48 * time.Hour), 2},
		{"due in 2.5 days", testNow.Add(60 * time.Hour), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, daysUntil(tt.due, testNow))
		})
	}
}

func TestCompletionRate(t *testing.T) {
	assert.Equal(t, 0.0, SpeakerWorkload{}.CompletionRate())
	assert.InDelta(t, 50.0, SpeakerWorkload{Completed: 1, Pending: 1}.CompletionRate(), 0.001)
}
