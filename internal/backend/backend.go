// Package backend assembles the search and download services behind a bridge router.
package backend

import (
	"log"

	"golang.org/x/time/rate"

	"github.com/ytget/song-downloader/internal/bridge"
	"github.com/ytget/song-downloader/internal/commands"
	"github.com/ytget/song-downloader/internal/config"
	"github.com/ytget/song-downloader/internal/download"
	"github.com/ytget/song-downloader/internal/search"
	"github.com/ytget/song-downloader/internal/transcode"
)

// Options configures a Backend
type Options struct {
	Env         *config.Env
	DownloadDir string
	MaxParallel int
	Quality     string

	// ResultCount is read on every search; nil uses the search default
	ResultCount func() int

	// Fetcher and Transcoder default to yt-dlp and ffmpeg
	Fetcher    download.Fetcher
	Transcoder transcode.Transcoder
}

// Backend is the in-process implementation of the bridge commands
type Backend struct {
	Router    *bridge.Router
	Downloads *download.Service
	Searcher  search.Searcher
}

// New wires the YouTube client, result cache and download service into a router
func New(opts Options) *Backend {
	env := opts.Env
	if env == nil {
		defaults := config.DefaultEnv()
		env = &defaults
	}

	var limiter *rate.Limiter
	if env.YouTube.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(env.YouTube.RateLimit), 1)
	}
	if env.YouTube.APIKey == "" {
		log.Printf("YOUTUBE_API_KEY is not set, searches will fail")
	}

	var searcher search.Searcher = search.NewYouTubeClient(env.YouTube.APIKey, env.YouTube.SearchURL, env.YouTube.Timeout, limiter)
	if env.Cache.Size > 0 {
		searcher = search.NewCachedSearcher(searcher, env.Cache.Size, env.Cache.TTL)
	}

	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = download.NewYTDLPFetcher()
	}
	transcoder := opts.Transcoder
	if transcoder == nil {
		transcoder = transcode.NewFFmpeg("", "")
	}

	dir := opts.DownloadDir
	if env.DownloadDir != "" {
		dir = env.DownloadDir
	}
	downloads := download.NewService(fetcher, transcoder, dir, opts.MaxParallel)
	if opts.Quality != "" {
		downloads.SetQualityPreset(opts.Quality)
	}

	router := bridge.NewRouter()
	commands.Register(router, commands.Backend{
		Searcher:    searcher,
		Downloader:  downloads,
		ResultCount: opts.ResultCount,
	})

	log.Printf("Backend ready: dir=%s parallel=%d cache=%d", dir, opts.MaxParallel, env.Cache.Size)
	return &Backend{Router: router, Downloads: downloads, Searcher: searcher}
}
