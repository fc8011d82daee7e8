package report

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/studioops/boardpulse/internal/snapshot"
)

// ListNames identifies the board lists each analysis reads.
type ListNames struct {
	Recording string
	Review    string
	Done      string
}

// TaskRef points one speaker at one checklist item on one card.
type TaskRef struct {
	Card      string
	Checklist string
	Item      string
	State     string
	Due       string
	URL       string
}

// SpeakerWorkload is the per-speaker tally over the recording list.
type SpeakerWorkload struct {
	Name      string
	Profile   SpeakerProfile
	Completed int
	Pending   int
	Tasks     []TaskRef
	DueDates  []time.Time // due dates of pending tasks, ascending
}

func (s SpeakerWorkload) Total() int {
	return s.Completed + s.Pending
}

// CompletionRate is in percent; zero-task speakers report 0.
func (s SpeakerWorkload) CompletionRate() float64 {
	if s.Total() == 0 {
		return 0
	}
	return float64(s.Completed) / float64(s.Total()) * 100
}

type WarningKind string

const (
	WarningCritical WarningKind = "critical"
	WarningLow      WarningKind = "warning"
	WarningUrgent   WarningKind = "urgent"
)

type Warning struct {
	Kind    WarningKind
	Speaker string
	Message string
}

// Workload is the input of the speaker workload report.
type Workload struct {
	Speakers   []SpeakerWorkload // sorted by total tasks, busiest first
	Warnings   []Warning
	TotalTasks int
}

// AnalyzeWorkload tallies checklist items of the recording list per speaker.
// Speakers merely mentioned on review or done cards still get a row so the
// report shows the whole cast. now anchors the due-date warnings.
func AnalyzeWorkload(snap *snapshot.Snapshot, lists ListNames, now time.Time) *Workload {
	byName := make(map[string]*SpeakerWorkload)
	get := func(name string) *SpeakerWorkload {
		if s, ok := byName[name]; ok {
			return s
		}
		s := &SpeakerWorkload{Name: name, Profile: GetSpeakerProfile(name)}
		byName[name] = s
		return s
	}

	for _, card := range snap.Cards(lists.Recording) {
		due, hasDue := card.DueTime()

		for _, checklist := range card.Checklists {
			for _, item := range checklist.Items {
				name, ok := MatchSpeaker(item.Name)
				if !ok {
					continue
				}
				s := get(name)
				if item.State == snapshot.StateComplete {
					s.Completed++
				} else {
					s.Pending++
					if hasDue {
						s.DueDates = append(s.DueDates, due)
					}
				}
				s.Tasks = append(s.Tasks, TaskRef{
					Card:      card.Name,
					Checklist: checklist.Name,
					Item:      item.Name,
					State:     item.State,
					Due:       card.Due,
					URL:       card.ShortURL,
				})
			}
		}
	}

	// Cast members who only show up in review or done cards appear with a
	// zero tally.
	for _, card := range append(snap.Cards(lists.Review), snap.Cards(lists.Done)...) {
		haystack := strings.ToLower(card.Name + " " + card.Desc)
		for _, name := range SpeakerNames() {
			if strings.Contains(haystack, strings.ToLower(name)) {
				get(name)
			}
		}
	}

	w := &Workload{}
	for _, s := range byName {
		sort.Slice(s.DueDates, func(i, j int) bool { return s.DueDates[i].Before(s.DueDates[j]) })
		w.Speakers = append(w.Speakers, *s)
		w.TotalTasks += s.Total()
	}
	sort.Slice(w.Speakers, func(i, j int) bool {
		if w.Speakers[i].Total() != w.Speakers[j].Total() {
			return w.Speakers[i].Total() > w.Speakers[j].Total()
		}
		return w.Speakers[i].Name < w.Speakers[j].Name
	})

	w.Warnings = workloadWarnings(w.Speakers, now)
	return w
}

func workloadWarnings(speakers []SpeakerWorkload, now time.Time) []Warning {
	var warnings []Warning
	for _, s := range speakers {
		if s.Total() == 0 {
			continue
		}

		if s.Pending >= 5 {
			warnings = append(warnings, Warning{
				Kind:    WarningCritical,
				Speaker: s.Name,
				Message: fmt.Sprintf("%s has %d uncompleted tasks and %d completed.", s.Name, s.Pending, s.Completed),
			})
		} else if s.CompletionRate() < 30 && s.Total() >= 3 {
			warnings = append(warnings, Warning{
				Kind:    WarningLow,
				Speaker: s.Name,
				Message: fmt.Sprintf("%s has a low completion rate of %.1f%% (%d/%d tasks).", s.Name, s.CompletionRate(), s.Completed, s.Total()),
			})
		}

		if len(s.DueDates) > 0 {
			next := s.DueDates[0]
			days := daysUntil(next, now)
			if days >= 0 && days <= 3 {
				warnings = append(warnings, Warning{
					Kind:    WarningUrgent,
					Speaker: s.Name,
					Message: fmt.Sprintf("%s has a task due in %d days (%s).", s.Name, days, next.Format("2006-01-02")),
				})
			}
		}
	}
	return warnings
}

// daysUntil floors, so a task overdue by even an hour counts as -1 days and
// stays out of the due-soon window.
func daysUntil(due, now time.Time) int {
	return int(math.Floor(due.Sub(now).Hours() / 24))
}
