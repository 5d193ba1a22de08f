package search

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ytget/song-downloader/internal/model"
)

// Search defaults
const (
	DefaultSearchURL  = "https://www.googleapis.com/youtube/v3/search"
	DefaultLimit      = 5
	MaxLimit          = 25
	DefaultTimeout    = 10 * time.Second
	maxErrorBodyBytes = 64 << 10
)

// Searcher finds tracks matching a free-text query
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]model.MenuItem, error)
}

// YouTubeClient queries the YouTube Data API search endpoint
type YouTubeClient struct {
	apiKey    string
	searchURL string
	http      *http.Client
	limiter   *rate.Limiter
}

// NewYouTubeClient creates a client. A nil limiter disables client-side throttling.
func NewYouTubeClient(apiKey, searchURL string, timeout time.Duration, limiter *rate.Limiter) *YouTubeClient {
	if searchURL == "" {
		searchURL = DefaultSearchURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &YouTubeClient{
		apiKey:    apiKey,
		searchURL: searchURL,
		http:      &http.Client{Timeout: timeout},
		limiter:   limiter,
	}
}

type ytThumbnail struct {
	URL string `json:"url"`
}

type ytSearchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
			Thumbnails   struct {
				Default ytThumbnail `json:"default"`
				Medium  ytThumbnail `json:"medium"`
				High    ytThumbnail `json:"high"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

type ytErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

// Search implements Searcher
func (c *YouTubeClient) Search(ctx context.Context, query string, limit int) ([]model.MenuItem, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if limit <= 0 || limit > MaxLimit {
		limit = DefaultLimit
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("wait for rate limiter: %w", err)
		}
	}

	val := url.Values{}
	val.Set("part", "snippet")
	val.Set("type", "video")
	val.Set("maxResults", strconv.Itoa(limit))
	val.Set("q", query)
	val.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL+"?"+val.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}

	var body ytSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to parse API response: %w", err)
	}

	out := make([]model.MenuItem, 0, len(body.Items))
	for _, it := range body.Items {
		if !model.IsValidVideoID(it.ID.VideoID) {
			// channel or playlist hits slip through occasionally
			continue
		}
		title := strings.TrimSpace(html.UnescapeString(it.Snippet.Title))
		if title == "" {
			// deleted or private videos come back without a title
			continue
		}
		thumbs := it.Snippet.Thumbnails
		thumb := thumbs.High.URL
		if thumb == "" {
			thumb = thumbs.Medium.URL
		}
		if thumb == "" {
			thumb = thumbs.Default.URL
		}

		out = append(out, model.MenuItem{
			Title:     title,
			Artist:    html.UnescapeString(it.Snippet.ChannelTitle),
			VideoID:   it.ID.VideoID,
			Thumbnail: thumb,
		})
	}

	log.Printf("YouTube search %q returned %d items", query, len(out))
	return out, nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	if err != nil {
		return apiErr
	}

	var body ytErrorResponse
	if err := json.Unmarshal(data, &body); err == nil {
		apiErr.Message = body.Error.Message
		if len(body.Error.Errors) > 0 {
			apiErr.Reason = body.Error.Errors[0].Reason
		}
	}
	return apiErr
}
