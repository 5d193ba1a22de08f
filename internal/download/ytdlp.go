package download

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ytget/ytdlp/v2"
)

// YTDLPFetcher fetches media with the ytdlp library
type YTDLPFetcher struct{}

// NewYTDLPFetcher creates a fetcher backed by ytdlp
func NewYTDLPFetcher() *YTDLPFetcher {
	return &YTDLPFetcher{}
}

// Fetch implements Fetcher
func (f *YTDLPFetcher) Fetch(ctx context.Context, req FetchRequest, progress func(percent float64)) error {
	dl := ytdlp.New().
		WithFormat(req.Format, req.Ext).
		WithOutputPath(req.OutputPath)
	if progress != nil {
		dl = dl.WithProgress(func(p ytdlp.Progress) {
			progress(p.Percent)
		})
	}

	started := time.Now()
	if _, err := dl.Download(ctx, req.URL); err != nil {
		return err
	}
	return settleOutput(req.OutputPath, started)
}

// settleOutput moves the fetched file onto path when the library picked a
// different extension for the container it received. Only files written
// since started are considered.
func settleOutput(path string, started time.Time) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	base := strings.TrimSuffix(path, filepath.Ext(path))
	matches, _ := filepath.Glob(globEscape(base) + ".*")
	for _, m := range matches {
		ext := filepath.Ext(m)
		if ext == ".part" || ext == ".ytdl" || strings.TrimSuffix(m, ext) != base {
			continue
		}
		info, err := os.Stat(m)
		if err != nil || info.IsDir() || info.ModTime().Before(started.Truncate(time.Second)) {
			continue
		}
		return os.Rename(m, path)
	}
	return fmt.Errorf("fetched file not found: %s", path)
}

func globEscape(s string) string {
	r := strings.NewReplacer(`*`, `\*`, `?`, `\?`, `[`, `\[`)
	return r.Replace(s)
}
