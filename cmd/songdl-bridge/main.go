// Command songdl-bridge serves the get_menu and download commands over HTTP
// so the desktop app can run against a remote backend.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ytget/song-downloader/internal/backend"
	"github.com/ytget/song-downloader/internal/bridge"
	"github.com/ytget/song-downloader/internal/config"
	"github.com/ytget/song-downloader/internal/download"
	"github.com/ytget/song-downloader/internal/platform"
	"github.com/ytget/song-downloader/internal/search"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", os.Getenv(config.ConfigPathVar), "path to YAML config file")
	parallel := flag.Int("parallel", download.DefaultMaxParallel, "maximum parallel downloads")
	quality := flag.String("quality", download.QualityAudio, "quality preset: best, medium, audio, mp3")
	results := flag.Int("results", search.DefaultLimit, "search results per query")
	flag.Parse()

	env, err := config.LoadEnv(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	dir := env.DownloadDir
	if dir == "" {
		if dir, err = platform.DefaultSongsDir(); err != nil {
			log.Fatalf("No download directory: %v", err)
		}
	}
	resultCount := *results

	b := backend.New(backend.Options{
		Env:         env,
		DownloadDir: dir,
		MaxParallel: *parallel,
		Quality:     *quality,
		ResultCount: func() int { return resultCount },
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              env.Bridge.ListenAddr,
		Handler:           bridge.NewHTTPHandler(b.Router, env.Bridge.Timeout),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		b.Downloads.StopAll()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Bridge shutdown: %v", err)
		}
	}()

	log.Printf("Bridge listening on %s, commands: %v", srv.Addr, b.Router.Commands())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Bridge server failed: %v", err)
	}
	log.Printf("Bridge stopped")
}
