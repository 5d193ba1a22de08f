package search

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/ytget/song-downloader/internal/model"
)

type RoundTripFunc func(req *http.Request) *http.Response

func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func newTestClient(fn RoundTripFunc) *YouTubeClient {
	client := NewYouTubeClient("apikey", "https://mock.com/youtube/v3/search", time.Second, nil)
	client.http = &http.Client{Transport: fn}
	return client
}

const searchBody = `{
	"items": [
		{
			"id": { "kind": "youtube#video", "videoId": "fJ9rUzIMcZQ" },
			"snippet": {
				"title": "Queen &#39;Bohemian Rhapsody&#39; (Official Video)",
				"channelTitle": "Queen Official",
				"thumbnails": {
					"default": { "url": "http://img/default.jpg" },
					"high": { "url": "http://img/high.jpg" }
				}
			}
		},
		{
			"id": { "kind": "youtube#channel", "channelId": "UCiMhD4jzUqG-IgPzUmmytRQ" },
			"snippet": { "title": "Queen Official", "channelTitle": "Queen Official" }
		},
		{
			"id": { "kind": "youtube#video", "videoId": "a01QQZyl-_I" },
			"snippet": {
				"title": "Under Pressure",
				"channelTitle": "Queen Official",
				"thumbnails": { "default": { "url": "http://img/d2.jpg" } }
			}
		}
	]
}`

func TestSearch(t *testing.T) {
	var gotQuery map[string][]string
	client := newTestClient(func(req *http.Request) *http.Response {
		gotQuery = req.URL.Query()
		return jsonResponse(http.StatusOK, searchBody)
	})

	items, err := client.Search(context.Background(), "  bohemian rhapsody ", 5)
	require.NoError(t, err)

	assert.Equal(t, []string{"snippet"}, gotQuery["part"])
	assert.Equal(t, []string{"video"}, gotQuery["type"])
	assert.Equal(t, []string{"5"}, gotQuery["maxResults"])
	assert.Equal(t, []string{"bohemian rhapsody"}, gotQuery["q"])
	assert.Equal(t, []string{"apikey"}, gotQuery["key"])

	require.Len(t, items, 2)
	assert.Equal(t, "Queen 'Bohemian Rhapsody' (Official Video)", items[0].Title)
	assert.Equal(t, "Queen Official", items[0].Artist)
	assert.Equal(t, "fJ9rUzIMcZQ", items[0].VideoID)
	assert.Equal(t, "http://img/high.jpg", items[0].Thumbnail)
	assert.Equal(t, "a01QQZyl-_I", items[1].VideoID)
	assert.Equal(t, "http://img/d2.jpg", items[1].Thumbnail)
}

func TestSearch_DefaultLimit(t *testing.T) {
	for _, limit := range []int{0, -1, 26} {
		var got string
		client := newTestClient(func(req *http.Request) *http.Response {
			got = req.URL.Query().Get("maxResults")
			return jsonResponse(http.StatusOK, `{"items":[]}`)
		})

		_, err := client.Search(context.Background(), "queen", limit)
		require.NoError(t, err)
		assert.Equal(t, "5", got, "limit %d", limit)
	}
}

func TestSearch_Validation(t *testing.T) {
	called := false
	client := newTestClient(func(*http.Request) *http.Response {
		called = true
		return jsonResponse(http.StatusOK, `{"items":[]}`)
	})

	_, err := client.Search(context.Background(), "   ", 5)
	assert.ErrorIs(t, err, ErrEmptyQuery)

	client.apiKey = ""
	_, err = client.Search(context.Background(), "queen", 5)
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	assert.False(t, called)
}

func TestSearch_APIErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		rateLimited bool
		message     string
	}{
		{
			name:        "quota exceeded",
			status:      http.StatusForbidden,
			body:        `{"error":{"code":403,"message":"The request cannot be completed because you have exceeded your quota.","errors":[{"reason":"quotaExceeded"}]}}`,
			rateLimited: true,
			message:     "exceeded your quota",
		},
		{
			name:        "too many requests",
			status:      http.StatusTooManyRequests,
			body:        ``,
			rateLimited: true,
			message:     "youtube status 429",
		},
		{
			name:    "bad key",
			status:  http.StatusBadRequest,
			body:    `{"error":{"code":400,"message":"API key not valid.","errors":[{"reason":"badRequest"}]}}`,
			message: "API key not valid",
		},
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			body:    `<html>oops</html>`,
			message: "youtube status 500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(func(*http.Request) *http.Response {
				return jsonResponse(tt.status, tt.body)
			})

			_, err := client.Search(context.Background(), "queen", 5)
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.rateLimited, errors.Is(err, ErrRateLimited))
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestSearch_BadBody(t *testing.T) {
	client := newTestClient(func(*http.Request) *http.Response {
		return jsonResponse(http.StatusOK, `{"items":`)
	})

	_, err := client.Search(context.Background(), "queen", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse API response")
}

func TestSearch_RateLimiterHonoursContext(t *testing.T) {
	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	client := NewYouTubeClient("apikey", "https://mock.com/search", time.Second, limiter)
	client.http = &http.Client{Transport: RoundTripFunc(func(*http.Request) *http.Response {
		return jsonResponse(http.StatusOK, `{"items":[]}`)
	})}

	_, err := client.Search(context.Background(), "first", 5)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = client.Search(ctx, "second", 5)
	assert.Error(t, err)
}

func TestSearch_SkipsUntitledHits(t *testing.T) {
	body := `{"items":[
		{"id":{"videoId":"fJ9rUzIMcZQ"},"snippet":{"title":"Bohemian Rhapsody","channelTitle":"Queen"}},
		{"id":{"videoId":"dQw4w9WgXcQ"},"snippet":{"title":"   ","channelTitle":"Someone"}},
		{"id":{"videoId":"a01QQZyl-_I"},"snippet":{"title":"","channelTitle":"Queen"}}
	]}`
	client := newTestClient(func(*http.Request) *http.Response {
		return jsonResponse(http.StatusOK, body)
	})

	items, err := client.Search(context.Background(), "queen", 5)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "fJ9rUzIMcZQ", items[0].VideoID)

	// what get_menu sends must pass the view's strict decode
	raw, err := json.Marshal(model.MenuResponse{Items: items})
	require.NoError(t, err)
	decoded, err := model.DecodeMenuResponse(raw)
	require.NoError(t, err)
	assert.Len(t, decoded, 1)
}
