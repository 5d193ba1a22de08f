package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ytget/song-downloader/internal/bridge"
	"github.com/ytget/song-downloader/internal/download"
	"github.com/ytget/song-downloader/internal/model"
	"github.com/ytget/song-downloader/internal/search"
)

// MaxQueryLength is the longest query get_menu accepts, in characters
const MaxQueryLength = 200

var (
	// ErrQueryTooLong is returned for queries over MaxQueryLength characters
	ErrQueryTooLong = errors.New("query is too long")

	// ErrDownloadFailed wraps download failures that carry no path
	ErrDownloadFailed = errors.New("download failed")
)

// Backend holds what the commands delegate to
type Backend struct {
	Searcher   search.Searcher
	Downloader download.Downloader

	// ResultCount returns how many results get_menu asks for; nil means the default
	ResultCount func() int
}

// Register adds get_menu and download to r
func Register(r *bridge.Router, b Backend) {
	r.Register(model.CommandGetMenu, b.getMenu)
	r.Register(model.CommandDownload, b.download)
}

func (b Backend) getMenu(ctx context.Context, raw json.RawMessage) (any, error) {
	var args model.MenuArgs
	if err := bridge.DecodeArgs(raw, &args); err != nil {
		return nil, err
	}

	query := strings.TrimSpace(args.Query)
	if query == "" {
		return nil, search.ErrEmptyQuery
	}
	if utf8.RuneCountInString(query) > MaxQueryLength {
		return nil, fmt.Errorf("%w: max %d characters", ErrQueryTooLong, MaxQueryLength)
	}

	limit := search.DefaultLimit
	if b.ResultCount != nil {
		limit = b.ResultCount()
	}

	items, err := b.Searcher.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.MenuItem{}
	}
	return model.MenuResponse{Items: items}, nil
}

func (b Backend) download(ctx context.Context, raw json.RawMessage) (any, error) {
	var args model.DownloadArgs
	if err := bridge.DecodeArgs(raw, &args); err != nil {
		return nil, err
	}

	if _, err := model.ParseVideoID(args.URL); err != nil {
		return nil, err
	}

	task, err := b.Downloader.Download(ctx, args.URL, args.Title)
	if err != nil {
		return nil, err
	}
	if task == nil || task.OutputPath == "" {
		return nil, ErrDownloadFailed
	}
	return task.OutputPath, nil
}
