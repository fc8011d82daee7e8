package trello

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/studioops/boardpulse/internal/snapshot"
)

const defaultBaseURL = "https://api.trello.com/1"

// Client is a thin wrapper over the Trello REST API. Requests are throttled
// below Trello's 100 requests per 10 seconds per token limit.
type Client struct {
	apiKey     string
	token      string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewClient(apiKey, token string) *Client {
	return &Client{
		apiKey:     apiKey,
		token:      token,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(110*time.Millisecond), 10),
	}
}

// SetBaseURL points the client at a different API root, used by tests.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}

// APIError is returned for any non-200 response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Trello API error (status %d): %s", e.StatusCode, e.Body)
}

// IsNotFound reports whether err is a Trello 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("key", c.apiKey)
	params.Set("token", c.token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// HealthCheck verifies the credentials against the member endpoint.
func (c *Client) HealthCheck(ctx context.Context) error {
	var me struct {
		ID string `json:"id"`
	}
	if err := c.get(ctx, "/members/me", url.Values{"fields": {"id"}}, &me); err != nil {
		return fmt.Errorf("API health check failed: %w", err)
	}
	return nil
}

// Boards returns all boards visible to the authenticated member.
func (c *Client) Boards(ctx context.Context) ([]snapshot.Board, error) {
	var boards []snapshot.Board
	params := url.Values{"fields": {"name,id,desc"}}
	if err := c.get(ctx, "/members/me/boards", params, &boards); err != nil {
		return nil, err
	}
	return boards, nil
}

// FindBoard resolves a board by its exact name.
func (c *Client) FindBoard(ctx context.Context, name string) (snapshot.Board, error) {
	boards, err := c.Boards(ctx)
	if err != nil {
		return snapshot.Board{}, err
	}
	for _, b := range boards {
		if b.Name == name {
			return b, nil
		}
	}
	return snapshot.Board{}, fmt.Errorf("board %q not found", name)
}

// List is a board column.
type List struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Lists returns all lists on a board.
func (c *Client) Lists(ctx context.Context, boardID string) ([]List, error) {
	var lists []List
	params := url.Values{"fields": {"name,id"}}
	if err := c.get(ctx, "/boards/"+boardID+"/lists", params, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

// CustomFields returns the custom field definitions for a board.
func (c *Client) CustomFields(ctx context.Context, boardID string) ([]snapshot.CustomField, error) {
	var fields []snapshot.CustomField
	if err := c.get(ctx, "/boards/"+boardID+"/customFields", nil, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// Cards returns the basic card records of a board.
func (c *Client) Cards(ctx context.Context, boardID string) ([]snapshot.Card, error) {
	var cards []snapshot.Card
	params := url.Values{
		"fields":      {"name,id,desc,due,dateLastActivity,labels,idList,closed"},
		"attachments": {"cover"},
	}
	if err := c.get(ctx, "/boards/"+boardID+"/cards", params, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// CardDetails returns one card with members, checklists and comment actions.
func (c *Client) CardDetails(ctx context.Context, cardID string) (snapshot.Card, error) {
	var card snapshot.Card
	params := url.Values{
		"fields":                      {"name,id,idBoard,desc,due,dateLastActivity,labels,idList,closed,shortUrl"},
		"attachments":                 {"cover"},
		"members":                     {"true"},
		"member_fields":               {"fullName,username,avatarUrl"},
		"checklists":                  {"all"},
		"checklist_fields":            {"name,id,idCard,pos"},
		"actions":                     {"commentCard"},
		"actions_limit":               {"1000"},
		"action_fields":               {"date,type,data,memberCreator"},
		"action_memberCreator_fields": {"fullName,username"},
		"customFieldItems":            {"true"},
	}
	if err := c.get(ctx, "/cards/"+cardID, params, &card); err != nil {
		return snapshot.Card{}, err
	}
	return card, nil
}

// ChecklistItems returns the items of one checklist.
func (c *Client) ChecklistItems(ctx context.Context, checklistID string) ([]snapshot.CheckItem, error) {
	var items []snapshot.CheckItem
	params := url.Values{"fields": {"name,state,pos,idCheckItem"}}
	if err := c.get(ctx, "/checklists/"+checklistID+"/items", params, &items); err != nil {
		return nil, err
	}
	return items, nil
}
