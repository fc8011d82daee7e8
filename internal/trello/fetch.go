package trello

import (
	"context"
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/studioops/boardpulse/internal/snapshot"
)

// Fetcher pulls a complete board state through the API and assembles a
// snapshot from it.
type Fetcher struct {
	Client *Client
	Board  string

	// Progress enables a terminal progress bar across the per-card detail
	// requests for interactive runs.
	Progress bool

	// Warnf receives non-fatal anomalies, such as checklists whose items
	// can no longer be read. Optional.
	Warnf func(format string, args ...any)
}

func NewFetcher(client *Client, board string) *Fetcher {
	return &Fetcher{Client: client, Board: board}
}

func (f *Fetcher) warnf(format string, args ...any) {
	if f.Warnf != nil {
		f.Warnf(format, args...)
	}
}

// BuildSnapshot fetches the board, its lists and custom fields, then every
// card in detail, and groups the cards by list name. Any API failure aborts
// the whole fetch; a partial snapshot is never returned.
func (f *Fetcher) BuildSnapshot(ctx context.Context) (*snapshot.Snapshot, error) {
	board, err := f.Client.FindBoard(ctx, f.Board)
	if err != nil {
		return nil, err
	}

	lists, err := f.Client.Lists(ctx, board.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch lists: %w", err)
	}

	customFields, err := f.Client.CustomFields(ctx, board.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch custom fields: %w", err)
	}

	cards, err := f.Client.Cards(ctx, board.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cards: %w", err)
	}

	cardsByList := make(map[string][]snapshot.Card, len(lists))
	listNames := make(map[string]string, len(lists))
	for _, l := range lists {
		cardsByList[l.Name] = []snapshot.Card{}
		listNames[l.ID] = l.Name
	}

	var bar *progressbar.ProgressBar
	if f.Progress {
		bar = progressbar.NewOptions(len(cards),
			progressbar.OptionSetDescription("Fetching card details"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(100*time.Millisecond),
		)
	}

	for _, card := range cards {
		detailed, err := f.Client.CardDetails(ctx, card.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch card %q: %w", card.Name, err)
		}

		for i := range detailed.Checklists {
			items, err := f.Client.ChecklistItems(ctx, detailed.Checklists[i].ID)
			if err != nil {
				if IsNotFound(err) {
					// Deleted or inaccessible checklist; record it empty.
					f.warnf("could not fetch items for checklist %q on card %q", detailed.Checklists[i].Name, detailed.Name)
					detailed.Checklists[i].Items = []snapshot.CheckItem{}
					continue
				}
				return nil, fmt.Errorf("failed to fetch checklist %q: %w", detailed.Checklists[i].Name, err)
			}
			detailed.Checklists[i].Items = items
		}

		listName, ok := listNames[detailed.ListID]
		if !ok {
			listName = "Unknown"
		}
		cardsByList[listName] = append(cardsByList[listName], detailed)

		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	return &snapshot.Snapshot{
		Board:        board,
		CustomFields: customFields,
		CardsByList:  cardsByList,
		FetchedAt:    time.Now().UTC(),
	}, nil
}
