package view

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/ytget/song-downloader/internal/bridge"
	"github.com/ytget/song-downloader/internal/model"
)

// SearchErrorPrefix prefixes inline messages for failed searches
const SearchErrorPrefix = "error fetching results: "

var (
	// ErrEmptyQuery is returned when the search text is blank
	ErrEmptyQuery = errors.New("empty query")

	// ErrNoSelection is returned when Download is called with nothing selected
	ErrNoSelection = errors.New("no song selected")

	// ErrNoSuchItem is returned when selecting outside the current result list
	ErrNoSuchItem = errors.New("no such item")

	// ErrSuperseded is returned for a search whose response arrived after a newer search started
	ErrSuperseded = errors.New("search superseded by a newer one")
)

// Controller drives the search-and-download screen
type Controller struct {
	invoker  bridge.Invoker
	notifier Notifier

	mu              sync.Mutex
	state           State
	searchSeq       uint64
	activeDownloads int
	onChange        func(State)
}

// NewController creates a controller in the Idle phase
func NewController(invoker bridge.Invoker, notifier Notifier) *Controller {
	if notifier == nil {
		notifier = NotifierFunc(func(Notice) {})
	}
	return &Controller{
		invoker:  invoker,
		notifier: notifier,
		state:    State{Phase: PhaseIdle},
	}
}

// SetChangeCallback sets the function receiving every new state snapshot
func (c *Controller) SetChangeCallback(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// State returns a snapshot of the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Submit searches for the trimmed text and blocks until the backend answers.
// Loading always ends when the newest search returns, whatever the outcome.
func (c *Controller) Submit(ctx context.Context, text string) error {
	query := strings.TrimSpace(text)
	if query == "" {
		c.notifier.Notify(Notice{Kind: NoticeEmptyQuery})
		return ErrEmptyQuery
	}

	c.mu.Lock()
	c.searchSeq++
	seq := c.searchSeq
	c.state.Phase = PhaseLoading
	c.state.Query = query
	c.state.Items = nil
	c.state.Message = ""
	c.commitLocked()

	log.Printf("Searching for %q (request %d)", query, seq)
	raw, err := c.invoker.Invoke(ctx, model.CommandGetMenu, model.MenuArgs{Query: query})

	var items []model.MenuItem
	if err == nil {
		items, err = model.DecodeMenuResponse(raw)
	}

	c.mu.Lock()
	if seq != c.searchSeq {
		c.mu.Unlock()
		log.Printf("Dropping stale search response for %q (request %d)", query, seq)
		return ErrSuperseded
	}

	switch {
	case errors.Is(err, model.ErrMalformedResponse):
		log.Printf("Search for %q returned a malformed response: %v", query, err)
		c.state.Phase = PhaseError
		c.state.Message = model.ErrMalformedResponse.Error()
	case err != nil:
		log.Printf("Search for %q failed: %v", query, err)
		c.state.Phase = PhaseError
		c.state.Message = SearchErrorPrefix + bridge.ErrorMessage(err)
	default:
		c.state.Phase = PhaseResults
		c.state.Items = items
		c.state.Selected = nil
	}
	c.commitLocked()

	if err != nil {
		return fmt.Errorf("search %q: %w", query, err)
	}
	return nil
}

// Select makes the item at index the only selection; the list is untouched
func (c *Controller) Select(index int) error {
	c.mu.Lock()
	if c.state.Phase != PhaseResults || index < 0 || index >= len(c.state.Items) {
		c.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrNoSuchItem, index)
	}
	item := c.state.Items[index]
	c.state.Selected = &item
	c.commitLocked()
	return nil
}

// Download fetches the selected song and returns the path reported by the backend.
// The downloading flag is cleared on success and on failure.
func (c *Controller) Download(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.state.Selected == nil {
		c.mu.Unlock()
		c.notifier.Notify(Notice{Kind: NoticeNoSelection})
		return "", ErrNoSelection
	}
	item := *c.state.Selected
	c.activeDownloads++
	c.state.Downloading = true
	c.commitLocked()

	defer func() {
		c.mu.Lock()
		c.activeDownloads--
		c.state.Downloading = c.activeDownloads > 0
		c.commitLocked()
	}()

	url := item.WatchURL()
	c.notifier.Notify(Notice{Kind: NoticeDownloadStarted, Title: item.Title})
	log.Printf("Downloading %q from %s", item.Title, url)

	raw, err := c.invoker.Invoke(ctx, model.CommandDownload, model.DownloadArgs{URL: url, Title: item.Title})
	if err != nil {
		log.Printf("Download of %q failed: %v", item.Title, err)
		c.notifier.Notify(Notice{Kind: NoticeDownloadFailed, Title: item.Title, Detail: bridge.ErrorMessage(err)})
		return "", fmt.Errorf("download %q: %w", item.Title, err)
	}

	// The result is informational; anything other than a path string is ignored.
	var path string
	if jsonErr := json.Unmarshal(raw, &path); jsonErr != nil {
		path = ""
	}

	log.Printf("Download of %q completed: %s", item.Title, path)
	c.notifier.Notify(Notice{Kind: NoticeDownloadCompleted, Title: item.Title, Detail: path})
	return path, nil
}

// commitLocked publishes the current state and releases the lock.
// The callback runs outside the lock.
func (c *Controller) commitLocked() {
	snap := c.state.clone()
	cb := c.onChange
	c.mu.Unlock()
	if cb != nil {
		cb(snap)
	}
}
