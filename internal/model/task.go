package model

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// DownloadTask represents a single download task
type DownloadTask struct {
	ID         string
	URL        string
	VideoID    string
	Title      string     // title requested by the caller
	Quality    string     // quality preset used for the fetch
	Status     TaskStatus // current lifecycle state
	Progress   float64    // 0.0 to 1.0
	Percent    int        // 0 to 100
	Attempts   int        // fetch attempts made so far
	LastError  string     // last error message if any
	OutputPath string     // path to downloaded file
	FileSize   int64      // file size in bytes
	StartedAt  time.Time  // when task was created
	FinishedAt time.Time  // when task reached a finished state
}

// Snapshot returns a copy of the task that is safe to hand to other goroutines
func (dt *DownloadTask) Snapshot() DownloadTask {
	return *dt
}

// SetProgress stores progress given as a percentage, clamped to 0..100
func (dt *DownloadTask) SetProgress(percent float64) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	dt.Percent = int(percent)
	dt.Progress = percent / 100.0
}

// GetDisplayTitle returns title, filename, or URL in order of preference
func (dt *DownloadTask) GetDisplayTitle() string {
	if dt.Title != "" && !strings.HasPrefix(dt.Title, "http") {
		return dt.Title
	}

	if dt.OutputPath != "" {
		// Support both / and \ separators regardless of host OS
		parts := strings.FieldsFunc(dt.OutputPath, func(r rune) bool {
			return r == '/' || r == '\\'
		})
		if len(parts) > 0 {
			filename := parts[len(parts)-1]
			return strings.TrimSuffix(filename, filepath.Ext(filename))
		}
	}

	return dt.URL
}

// GetElapsedString returns the task duration formatted as mm:ss or hh:mm:ss
func (dt *DownloadTask) GetElapsedString() string {
	if dt.StartedAt.IsZero() {
		return "—"
	}
	end := dt.FinishedAt
	if end.IsZero() {
		end = time.Now()
	}
	total := int(end.Sub(dt.StartedAt).Seconds())
	if total < 0 {
		total = 0
	}

	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
