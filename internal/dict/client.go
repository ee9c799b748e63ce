// Package dict is the dictionary lookup collaborator: a small HTTP client
// for the lookup service, and the service itself (a sqlite-backed word
// store behind a chi router). Lookups are advisory pre-validation only and
// never authoritative for the game.
package dict

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Entry is a dictionary record as the lookup service returns it. An empty
// entry (no word) means the word is unknown.
type Entry struct {
	Word       string `json:"word,omitempty"`
	Definition string `json:"definition,omitempty"`
}

type Client struct {
	BaseURL string
	http    *http.Client
}

// NewClient builds a client for the lookup service. The timeout bounds the
// whole round trip; a lookup that cannot finish in time counts as invalid
// rather than hanging the turn.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Lookup fetches the entry for a word. The service replies with an empty
// JSON object for unknown words.
func (c *Client) Lookup(ctx context.Context, word string) (Entry, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+"/lookup/"+url.PathEscape(word), nil)
	if err != nil {
		return Entry{}, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return Entry{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return Entry{}, fmt.Errorf("dictionary status %d", resp.StatusCode)
	}
	var out Entry
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Entry{}, err
	}
	return out, nil
}

// Valid reports whether the word exists. Errors and timeouts count as
// invalid; the caller never retries automatically.
func (c *Client) Valid(ctx context.Context, word string) bool {
	entry, err := c.Lookup(ctx, word)
	if err != nil {
		return false
	}
	return entry.Word != ""
}

// Random fetches a random dictionary entry, used to seed practice rounds.
func (c *Client) Random(ctx context.Context) (Entry, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+"/random", nil)
	if err != nil {
		return Entry{}, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return Entry{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return Entry{}, fmt.Errorf("dictionary status %d", resp.StatusCode)
	}
	var out Entry
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Entry{}, err
	}
	return out, nil
}
