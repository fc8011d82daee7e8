package report

import (
	"regexp"
	"sort"
	"strings"

	"github.com/studioops/boardpulse/internal/snapshot"
)

// Project is one finished card of the done list, enriched with the document
// links scattered across its description and comments.
type Project struct {
	Name         string
	URL          string
	Due          string
	LastActivity string
	Description  string
	Members      []snapshot.Member
	Labels       []string
	DocLinks     []string
}

// Completed is the input of the completed projects report.
type Completed struct {
	Projects  []Project      // sorted by last activity, newest first
	BySpeaker []SpeakerCount // sorted by count, highest first
}

type SpeakerCount struct {
	Speaker  string
	Count    int
	Projects []string
}

var docLinkRE = regexp.MustCompile(`https://(?:docs|drive)\.google\.com/[^\s)\]]+`)

// ExtractDocLinks pulls Google Docs/Drive URLs out of free text, trimming
// trailing punctuation and dropping duplicates while keeping first-seen order.
func ExtractDocLinks(text string) []string {
	var links []string
	seen := make(map[string]bool)
	for _, match := range docLinkRE.FindAllString(text, -1) {
		cleaned := strings.TrimRight(match, ".,;:)]}")
		if cleaned != "" && !seen[cleaned] {
			seen[cleaned] = true
			links = append(links, cleaned)
		}
	}
	return links
}

// AnalyzeCompleted collects the cards of the done list into projects.
func AnalyzeCompleted(snap *snapshot.Snapshot, lists ListNames) *Completed {
	var projects []Project

	for _, card := range snap.Cards(lists.Done) {
		p := Project{
			Name:         card.Name,
			URL:          card.ShortURL,
			Due:          card.Due,
			LastActivity: card.DateLastActivity,
			Description:  card.Desc,
			Members:      card.Members,
		}
		for _, label := range card.Labels {
			p.Labels = append(p.Labels, label.Name)
		}

		p.DocLinks = ExtractDocLinks(card.Desc)
		seen := make(map[string]bool, len(p.DocLinks))
		for _, l := range p.DocLinks {
			seen[l] = true
		}
		for _, comment := range card.Comments() {
			for _, l := range ExtractDocLinks(comment.Data.Text) {
				if !seen[l] {
					seen[l] = true
					p.DocLinks = append(p.DocLinks, l)
				}
			}
		}

		projects = append(projects, p)
	}

	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].LastActivity > projects[j].LastActivity
	})

	return &Completed{
		Projects:  projects,
		BySpeaker: countBySpeaker(projects),
	}
}

// countBySpeaker tallies projects per member first name.
func countBySpeaker(projects []Project) []SpeakerCount {
	byName := make(map[string]*SpeakerCount)
	var order []string

	for _, p := range projects {
		for _, m := range p.Members {
			name := firstName(m.FullName)
			if name == "" {
				continue
			}
			c, ok := byName[name]
			if !ok {
				c = &SpeakerCount{Speaker: name}
				byName[name] = c
				order = append(order, name)
			}
			c.Count++
			c.Projects = append(c.Projects, p.Name)
		}
	}

	counts := make([]SpeakerCount, 0, len(order))
	for _, name := range order {
		counts = append(counts, *byName[name])
	}
	sort.SliceStable(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Speaker < counts[j].Speaker
	})
	return counts
}

func firstName(fullName string) string {
	fields := strings.Fields(fullName)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
