package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// WatchURLTemplate is the canonical watch page for a video ID
const WatchURLTemplate = "https://www.youtube.com/watch?v=%s"

var (
	// ErrMalformedResponse is returned when a search response does not match the MenuItem schema
	ErrMalformedResponse = errors.New("unexpected response format")

	// ErrInvalidVideoURL is returned when a URL does not point at a single video
	ErrInvalidVideoURL = errors.New("invalid video URL")
)

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// MenuItem is one search result offered to the user
type MenuItem struct {
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	VideoID   string `json:"video_id"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// MenuResponse is the result of the get_menu command
type MenuResponse struct {
	Items []MenuItem `json:"items"`
}

// WatchURL returns the canonical watch URL for the item
func (m MenuItem) WatchURL() string {
	return fmt.Sprintf(WatchURLTemplate, m.VideoID)
}

// IsValidVideoID reports whether id looks like a platform video identifier
func IsValidVideoID(id string) bool {
	return videoIDPattern.MatchString(id)
}

// wireMenuItem mirrors MenuItem with pointers so absent fields can be told apart from empty ones
type wireMenuItem struct {
	Title     *string `json:"title"`
	Artist    *string `json:"artist"`
	VideoID   *string `json:"video_id"`
	Thumbnail string  `json:"thumbnail"`
}

// DecodeMenuResponse decodes and validates a get_menu payload.
// Any deviation from the schema yields ErrMalformedResponse; order is preserved.
func DecodeMenuResponse(raw []byte) ([]MenuItem, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: payload is not an object", ErrMalformedResponse)
	}

	var envelope struct {
		Items *[]json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if envelope.Items == nil {
		return nil, fmt.Errorf("%w: missing items", ErrMalformedResponse)
	}

	items := make([]MenuItem, 0, len(*envelope.Items))
	for i, rawItem := range *envelope.Items {
		var w wireMenuItem
		if err := json.Unmarshal(rawItem, &w); err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", ErrMalformedResponse, i, err)
		}
		if w.Title == nil || strings.TrimSpace(*w.Title) == "" {
			return nil, fmt.Errorf("%w: item %d: missing title", ErrMalformedResponse, i)
		}
		if w.Artist == nil {
			return nil, fmt.Errorf("%w: item %d: missing artist", ErrMalformedResponse, i)
		}
		if w.VideoID == nil || !IsValidVideoID(*w.VideoID) {
			return nil, fmt.Errorf("%w: item %d: bad video_id", ErrMalformedResponse, i)
		}
		items = append(items, MenuItem{
			Title:     *w.Title,
			Artist:    *w.Artist,
			VideoID:   *w.VideoID,
			Thumbnail: w.Thumbnail,
		})
	}
	return items, nil
}

// ParseVideoID extracts the video ID from watch, short-link, shorts, embed and music URLs
func ParseVideoID(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidVideoURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidVideoURL, u.Scheme)
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	var id string
	switch host {
	case "youtu.be":
		id = strings.Trim(u.Path, "/")
	case "youtube.com", "m.youtube.com", "music.youtube.com":
		segments := strings.Split(strings.Trim(u.Path, "/"), "/")
		switch {
		case segments[0] == "watch":
			id = u.Query().Get("v")
		case len(segments) == 2 && (segments[0] == "shorts" || segments[0] == "embed" || segments[0] == "live"):
			id = segments[1]
		}
	default:
		return "", fmt.Errorf("%w: unsupported host %q", ErrInvalidVideoURL, u.Host)
	}

	if !IsValidVideoID(id) {
		return "", fmt.Errorf("%w: no video id in %q", ErrInvalidVideoURL, rawURL)
	}
	return id, nil
}
