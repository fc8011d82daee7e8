// Package snapshot holds the persisted board state shared between pipeline steps.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Snapshot is one full copy of a board at a single point in time. It is
// written whole and overwritten whole; steps downstream of the fetch only
// ever read it.
type Snapshot struct {
	Board        Board             `json:"board"`
	CustomFields []CustomField     `json:"custom_fields"`
	CardsByList  map[string][]Card `json:"cards_by_list"`
	FetchedAt    time.Time         `json:"fetched_at"`
}

type Board struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Desc string `json:"desc"`
}

type CustomField struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Card mirrors the fields the Trello API returns for a detailed card read.
type Card struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	Desc             string      `json:"desc"`
	Due              string      `json:"due,omitempty"`
	DateLastActivity string      `json:"dateLastActivity,omitempty"`
	Labels           []Label     `json:"labels,omitempty"`
	ListID           string      `json:"idList"`
	Closed           bool        `json:"closed"`
	ShortURL         string      `json:"shortUrl,omitempty"`
	Members          []Member    `json:"members,omitempty"`
	Checklists       []Checklist `json:"checklists,omitempty"`
	Actions          []Action    `json:"actions,omitempty"`
}

type Label struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

type Member struct {
	ID        string `json:"id"`
	FullName  string `json:"fullName"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

type Checklist struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Items []CheckItem `json:"checkItems"`
}

// CheckItem state is either "complete" or "incomplete" on the wire.
type CheckItem struct {
	Name  string `json:"name"`
	State string `json:"state"`
}

const (
	StateComplete   = "complete"
	StateIncomplete = "incomplete"
)

// Action carries card comments (type "commentCard").
type Action struct {
	Type          string     `json:"type"`
	Date          string     `json:"date"`
	Data          ActionData `json:"data"`
	MemberCreator Member     `json:"memberCreator"`
}

type ActionData struct {
	Text string `json:"text"`
}

// Cards returns the cards filed under the given list name.
func (s *Snapshot) Cards(listName string) []Card {
	return s.CardsByList[listName]
}

// DueTime parses the card's due date, returning false when none is set or it
// does not parse.
func (c Card) DueTime() (time.Time, bool) {
	if c.Due == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, c.Due)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// LastActivityTime parses dateLastActivity, returning the zero time when absent.
func (c Card) LastActivityTime() time.Time {
	t, err := time.Parse(time.RFC3339, c.DateLastActivity)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Comments returns the card's comment actions in API order.
func (c Card) Comments() []Action {
	var out []Action
	for _, a := range c.Actions {
		if a.Type == "commentCard" {
			out = append(out, a)
		}
	}
	return out
}

// Write persists the snapshot to path, replacing any previous snapshot via a
// temp file and rename so readers never observe a partially written file.
func Write(path string, s *Snapshot) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp snapshot: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

// Load reads a snapshot previously written by Write.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", path, err)
	}
	return &s, nil
}
