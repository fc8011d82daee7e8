package snapshot

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *Snapshot {
	return &Snapshot{
		Board: Board{ID: "b1", Name: "True Crime Video Dubs"},
		CardsByList: map[string][]Card{
			"Fertig": {
				{ID: "c1", Name: "Episode 12", ListID: "l2", ShortURL: "https://trello.com/c/abc"},
			},
			"Skripte zur Aufnahme": {
				{
					ID:   "c2",
					Name: "Episode 13",
					Due:  "2026-03-01T12:00:00.000Z",
					Checklists: []Checklist{
						{ID: "ch1", Name: "Aufnahmen", Items: []CheckItem{
							{Name: "Lucas - Erzähler", State: StateComplete},
							{Name: "Jade - Zeugin", State: StateIncomplete},
						}},
					},
				},
			},
		},
		FetchedAt: time.Date(2026, 2, 20, 8, 0, 0, 0, time.UTC),
	}
}

func TestWriteThenLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, Write(path, sample()))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "True Crime Video Dubs", got.Board.Name)
	assert.Len(t, got.Cards("Skripte zur Aufnahme"), 1)
	assert.Len(t, got.Cards("Skripte zur Aufnahme")[0].Checklists[0].Items, 2)
}

func TestWriteOverwritesWholeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, Write(path, sample()))

	second := sample()
	second.CardsByList = map[string][]Card{"Fertig": nil}
	require.NoError(t, Write(path, second))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Nil(t, got.Cards("Skripte zur Aufnahme"), "old list content must not survive a rewrite")

	// no temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestCardDueTime(t *testing.T) {
	c := Card{Due: "2026-03-01T12:00:00.000Z"}
	due, ok := c.DueTime()
	require.True(t, ok)
	assert.Equal(t, 2026, due.Year())

	_, ok = Card{}.DueTime()
	assert.False(t, ok)

	_, ok = Card{Due: "next tuesday"}.DueTime()
	assert.False(t, ok)
}

func TestCardComments(t *testing.T) {
	c := Card{Actions: []Action{
		{Type: "updateCard"},
		{Type: "commentCard", Data: ActionData{Text: "script at https://docs.google.com/document/d/1"}},
	}}
	comments := c.Comments()
	require.Len(t, comments, 1)
	assert.Contains(t, comments[0].Data.Text, "docs.google.com")
}
