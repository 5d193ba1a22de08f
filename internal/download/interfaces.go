package download

import (
	"context"

	"github.com/ytget/song-downloader/internal/model"
)

// Downloader defines the interface for the download service.
type Downloader interface {
	SetUpdateCallback(func(*model.DownloadTask))

	// Download fetches url into the download directory, naming the file after
	// title, and returns once the file is complete.
	Download(ctx context.Context, url, title string) (*model.DownloadTask, error)

	GetAllTasks() []*model.DownloadTask
	StopTask(id string) error

	// StopAll cancels every unfinished task
	StopAll() int

	// SetQualityPreset configures quality selection for downloads (best/medium/audio/mp3)
	SetQualityPreset(preset string)

	// SetMaxParallelDownloads sets the maximum number of parallel downloads
	SetMaxParallelDownloads(max int)

	// SetDownloadDirectory sets the download directory
	SetDownloadDirectory(dir string)
}

// FetchRequest describes one media fetch
type FetchRequest struct {
	URL        string
	OutputPath string
	Format     string
	Ext        string
}

// Fetcher writes the media behind a video URL to disk
type Fetcher interface {
	Fetch(ctx context.Context, req FetchRequest, progress func(percent float64)) error
}
