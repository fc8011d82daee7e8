package trello

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *Client) {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/members/me/boards", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "k" || r.URL.Query().Get("token") != "t" {
			http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`[{"id":"b1","name":"True Crime Video Dubs","desc":""},{"id":"b2","name":"Other","desc":""}]`))
	})
	mux.HandleFunc("/boards/b1/lists", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"l1","name":"Skripte zur Aufnahme"},{"id":"l2","name":"Fertig"}]`))
	})
	mux.HandleFunc("/boards/b1/customFields", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"cf1","name":"Minutes","type":"number"}]`))
	})
	mux.HandleFunc("/boards/b1/cards", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"c1","name":"Episode 12","idList":"l1"},{"id":"c2","name":"Episode 11","idList":"lX"}]`))
	})
	mux.HandleFunc("/cards/c1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"c1","name":"Episode 12","idList":"l1","shortUrl":"https://trello.com/c/abc",
			"checklists":[{"id":"ch1","name":"Aufnahmen"},{"id":"ch-gone","name":"Alt"}]}`))
	})
	mux.HandleFunc("/cards/c2", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"c2","name":"Episode 11","idList":"lX"}`))
	})
	mux.HandleFunc("/checklists/ch1/items", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"name":"Lucas - Erzähler","state":"complete"},{"name":"Jade - Zeugin","state":"incomplete"}]`))
	})
	mux.HandleFunc("/checklists/ch-gone/items", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := NewClient("k", "t")
	client.SetBaseURL(srv.URL)
	return srv, client
}

func TestFindBoardByName(t *testing.T) {
	_, client := newTestServer(t)

	board, err := client.FindBoard(context.Background(), "True Crime Video Dubs")
	require.NoError(t, err)
	assert.Equal(t, "b1", board.ID)

	_, err = client.FindBoard(context.Background(), "No Such Board")
	assert.ErrorContains(t, err, "not found")
}

func TestGetReturnsAPIErrorOnBadCredentials(t *testing.T) {
	srv, _ := newTestServer(t)

	client := NewClient("wrong", "creds")
	client.SetBaseURL(srv.URL)

	_, err := client.Boards(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.False(t, IsNotFound(err))
}

func TestBuildSnapshotGroupsCardsByList(t *testing.T) {
	_, client := newTestServer(t)

	var warnings []string
	f := NewFetcher(client, "True Crime Video Dubs")
	f.Warnf = func(format string, args ...any) {
		warnings = append(warnings, format)
	}

	snap, err := f.BuildSnapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "b1", snap.Board.ID)
	assert.Len(t, snap.CustomFields, 1)
	assert.False(t, snap.FetchedAt.IsZero())

	recording := snap.Cards("Skripte zur Aufnahme")
	require.Len(t, recording, 1)
	assert.Equal(t, "Episode 12", recording[0].Name)

	// checklist items get attached; deleted checklists degrade to empty
	require.Len(t, recording[0].Checklists, 2)
	assert.Len(t, recording[0].Checklists[0].Items, 2)
	assert.Empty(t, recording[0].Checklists[1].Items)
	assert.Len(t, warnings, 1)

	// cards whose list is unknown are still kept
	require.Len(t, snap.Cards("Unknown"), 1)
	assert.Equal(t, "Episode 11", snap.Cards("Unknown")[0].Name)

	// every board list is present even when empty
	assert.NotNil(t, snap.CardsByList["Fertig"])
}
