package download

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ytget/song-downloader/internal/model"
	"github.com/ytget/song-downloader/internal/platform"
	"github.com/ytget/song-downloader/internal/transcode"
)

// Service defaults
const (
	DefaultMaxParallel = 2
	TaskIDPrefix       = "task-"
	sourceSuffix       = ".source"
)

var (
	// ErrAlreadyQueued is returned when the same URL is already being downloaded
	ErrAlreadyQueued = errors.New("download already in progress")

	// ErrTaskNotFound is returned for unknown task IDs
	ErrTaskNotFound = errors.New("task not found")

	// ErrTaskNotActive is returned when stopping a task that already finished
	ErrTaskNotActive = errors.New("task is not active")

	// ErrNoDownloadDir is returned when no download directory is configured
	ErrNoDownloadDir = errors.New("download directory is not configured")
)

// Service handles download operations
type Service struct {
	tasks      map[string]*model.DownloadTask
	cancels    map[string]context.CancelFunc
	tasksMutex sync.RWMutex

	maxParallel int
	activeCount int
	slotFreed   chan struct{} // closed and replaced whenever a slot opens

	// output paths picked by running tasks whose files may not exist yet
	reserved map[string]struct{}

	downloadDir string
	quality     string
	retry       RetryConfig

	fetcher    Fetcher
	transcoder transcode.Transcoder
	onUpdate   func(*model.DownloadTask) // callback for UI updates
}

// NewService creates a new download service
func NewService(fetcher Fetcher, transcoder transcode.Transcoder, downloadDir string, maxParallel int) *Service {
	if maxParallel < 1 {
		maxParallel = DefaultMaxParallel
	}
	return &Service{
		tasks:       make(map[string]*model.DownloadTask),
		cancels:     make(map[string]context.CancelFunc),
		maxParallel: maxParallel,
		slotFreed:   make(chan struct{}),
		reserved:    make(map[string]struct{}),
		downloadDir: downloadDir,
		quality:     QualityBest,
		retry:       DefaultRetryConfig(),
		fetcher:     fetcher,
		transcoder:  transcoder,
	}
}

// SetUpdateCallback sets the callback function for task updates
func (s *Service) SetUpdateCallback(callback func(*model.DownloadTask)) {
	s.tasksMutex.Lock()
	s.onUpdate = callback
	s.tasksMutex.Unlock()
}

// SetQualityPreset configures the preset used by downloads started afterwards
func (s *Service) SetQualityPreset(preset string) {
	s.tasksMutex.Lock()
	s.quality = PresetFor(preset).Name
	s.tasksMutex.Unlock()
}

// SetMaxParallelDownloads sets the maximum number of parallel downloads
func (s *Service) SetMaxParallelDownloads(max int) {
	if max < 1 {
		max = 1
	}
	s.tasksMutex.Lock()
	s.maxParallel = max
	s.wakeWaitersLocked()
	s.tasksMutex.Unlock()
}

// SetDownloadDirectory sets the download directory
func (s *Service) SetDownloadDirectory(dir string) {
	s.tasksMutex.Lock()
	s.downloadDir = dir
	s.tasksMutex.Unlock()
}

// SetRetryConfig replaces the retry settings for fetches
func (s *Service) SetRetryConfig(cfg RetryConfig) {
	s.tasksMutex.Lock()
	s.retry = cfg
	s.tasksMutex.Unlock()
}

// Download runs one download to completion. The returned task is a snapshot
// of its final state and is non-nil whenever a task was created.
func (s *Service) Download(ctx context.Context, url, title string) (*model.DownloadTask, error) {
	videoID, err := model.ParseVideoID(url)
	if err != nil {
		return nil, err
	}

	s.tasksMutex.Lock()
	for _, task := range s.tasks {
		if task.URL == url && !task.Status.IsFinished() {
			s.tasksMutex.Unlock()
			return nil, fmt.Errorf("%w: %s", ErrAlreadyQueued, url)
		}
	}

	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	task := &model.DownloadTask{
		ID:        generateTaskID(),
		URL:       url,
		VideoID:   videoID,
		Title:     strings.TrimSpace(title),
		Quality:   s.quality,
		Status:    model.TaskStatusPending,
		StartedAt: time.Now(),
	}
	s.tasks[task.ID] = task
	s.cancels[task.ID] = cancel
	dir := s.downloadDir
	retryCfg := s.retry
	s.tasksMutex.Unlock()

	s.notifyUpdate(task)
	log.Printf("Download queued: %s (%s)", task.ID, url)

	defer func() {
		s.tasksMutex.Lock()
		delete(s.cancels, task.ID)
		s.tasksMutex.Unlock()
	}()

	if err := s.acquireSlot(taskCtx); err != nil {
		return s.finish(task, "", err)
	}
	defer s.releaseSlot()

	s.setStatus(task, model.TaskStatusStarting)

	outputPath, err := s.run(taskCtx, task, dir, retryCfg)
	if err != nil && taskCtx.Err() != nil {
		err = taskCtx.Err()
	}
	return s.finish(task, outputPath, err)
}

// run fetches (and transcodes) the song, returning the final file path
func (s *Service) run(ctx context.Context, task *model.DownloadTask, dir string, retryCfg RetryConfig) (string, error) {
	if dir == "" {
		return "", ErrNoDownloadDir
	}
	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}

	preset := PresetFor(task.Quality)
	name := task.Title
	if name == "" {
		name = task.VideoID
	}
	finalPath, err := s.reservePath(filepath.Join(dir, platform.SanitizeFileName(name)+"."+preset.FinalExt()))
	if err != nil {
		return "", err
	}
	defer s.releasePath(finalPath)

	fetchPath := finalPath
	if preset.Transcode {
		fetchPath = strings.TrimSuffix(finalPath, filepath.Ext(finalPath)) + sourceSuffix + "." + preset.Ext
		defer os.Remove(fetchPath)
	}

	s.setStatus(task, model.TaskStatusDownloading)
	req := FetchRequest{URL: task.URL, OutputPath: fetchPath, Format: preset.Format, Ext: preset.Ext}
	err = RetryWithCheck(ctx, retryCfg, func(attempt int) error {
		s.tasksMutex.Lock()
		task.Attempts = attempt
		task.SetProgress(0)
		s.tasksMutex.Unlock()
		if attempt > 1 {
			log.Printf("Retrying download for task %s, attempt %d", task.ID, attempt)
		}

		err := s.fetcher.Fetch(ctx, req, func(percent float64) {
			s.updateProgress(task, percent)
		})
		if err != nil {
			log.Printf("Download attempt %d failed for task %s: %v", attempt, task.ID, err)
		}
		return err
	}, isRetryable)
	if err != nil {
		os.Remove(fetchPath)
		return "", err
	}

	if !preset.Transcode {
		return finalPath, nil
	}

	if s.transcoder == nil {
		return "", fmt.Errorf("mp3 conversion is not available")
	}
	s.setStatus(task, model.TaskStatusTranscoding)
	s.updateProgress(task, 0)
	out, err := s.transcoder.ExtractAudio(ctx, fetchPath, finalPath, func(percent float64) {
		s.updateProgress(task, percent)
	})
	if err != nil {
		return "", fmt.Errorf("failed to convert to mp3: %w", err)
	}
	return out, nil
}

// finish records the outcome on the task and returns a snapshot of it
func (s *Service) finish(task *model.DownloadTask, outputPath string, err error) (*model.DownloadTask, error) {
	var size int64
	if err == nil {
		if info, statErr := os.Stat(outputPath); statErr == nil {
			size = info.Size()
		}
	}

	s.tasksMutex.Lock()
	switch {
	case err == nil:
		task.Status = model.TaskStatusCompleted
		task.OutputPath = outputPath
		task.FileSize = size
		task.SetProgress(100)
	case errors.Is(err, context.Canceled):
		task.Status = model.TaskStatusStopped
	default:
		task.Status = model.TaskStatusError
		task.LastError = err.Error()
	}
	task.FinishedAt = time.Now()
	snap := task.Snapshot()
	s.tasksMutex.Unlock()

	s.notifyUpdate(task)
	if err != nil {
		log.Printf("Download %s ended with %s: %v", task.ID, snap.Status, err)
	} else {
		log.Printf("Download %s completed: %s", task.ID, outputPath)
	}
	return &snap, err
}

// GetAllTasks returns snapshots of all tasks, oldest first
func (s *Service) GetAllTasks() []*model.DownloadTask {
	s.tasksMutex.RLock()
	tasks := make([]*model.DownloadTask, 0, len(s.tasks))
	for _, task := range s.tasks {
		snap := task.Snapshot()
		tasks = append(tasks, &snap)
	}
	s.tasksMutex.RUnlock()

	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].StartedAt.Equal(tasks[j].StartedAt) {
			return tasks[i].ID < tasks[j].ID
		}
		return tasks[i].StartedAt.Before(tasks[j].StartedAt)
	})
	return tasks
}

// StopTask cancels a queued or running task
func (s *Service) StopTask(id string) error {
	s.tasksMutex.Lock()
	task, exists := s.tasks[id]
	if !exists {
		s.tasksMutex.Unlock()
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	if task.Status.IsFinished() || task.Status == model.TaskStatusStopping {
		s.tasksMutex.Unlock()
		return fmt.Errorf("%w: %s", ErrTaskNotActive, task.Status)
	}

	task.Status = model.TaskStatusStopping
	cancel := s.cancels[id]
	s.tasksMutex.Unlock()

	s.notifyUpdate(task)
	if cancel != nil {
		cancel()
	}
	return nil
}

// StopAll cancels every queued or running task and returns how many were stopped
func (s *Service) StopAll() int {
	stopped := 0
	for _, task := range s.GetAllTasks() {
		if task.Status.IsFinished() {
			continue
		}
		if err := s.StopTask(task.ID); err != nil {
			log.Printf("Stop %s: %v", task.ID, err)
			continue
		}
		stopped++
	}
	if stopped > 0 {
		log.Printf("Stopped %d active downloads", stopped)
	}
	return stopped
}

// reservePath picks a free variant of path that no other running task holds
func (s *Service) reservePath(path string) (string, error) {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()

	chosen, err := platform.UniquePathExcept(path, func(candidate string) bool {
		_, held := s.reserved[candidate]
		return held
	})
	if err != nil {
		return "", err
	}
	s.reserved[chosen] = struct{}{}
	return chosen, nil
}

func (s *Service) releasePath(path string) {
	s.tasksMutex.Lock()
	delete(s.reserved, path)
	s.tasksMutex.Unlock()
}

func (s *Service) acquireSlot(ctx context.Context) error {
	for {
		s.tasksMutex.Lock()
		if s.activeCount < s.maxParallel {
			s.activeCount++
			s.tasksMutex.Unlock()
			return nil
		}
		wait := s.slotFreed
		s.tasksMutex.Unlock()

		select {
		case <-wait:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *Service) releaseSlot() {
	s.tasksMutex.Lock()
	s.activeCount--
	s.wakeWaitersLocked()
	s.tasksMutex.Unlock()
}

func (s *Service) wakeWaitersLocked() {
	close(s.slotFreed)
	s.slotFreed = make(chan struct{})
}

func (s *Service) setStatus(task *model.DownloadTask, status model.TaskStatus) {
	s.tasksMutex.Lock()
	// a stop request wins over progress
	if task.Status != model.TaskStatusStopping {
		task.Status = status
	}
	s.tasksMutex.Unlock()
	s.notifyUpdate(task)
}

func (s *Service) updateProgress(task *model.DownloadTask, percent float64) {
	s.tasksMutex.Lock()
	task.SetProgress(percent)
	s.tasksMutex.Unlock()
	s.notifyUpdate(task)
}

// notifyUpdate hands a snapshot of task to the update callback if set
func (s *Service) notifyUpdate(task *model.DownloadTask) {
	s.tasksMutex.RLock()
	callback := s.onUpdate
	snap := task.Snapshot()
	s.tasksMutex.RUnlock()

	if callback != nil {
		callback(&snap)
	}
}

// generateTaskID generates a unique, time-ordered task ID
func generateTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf(TaskIDPrefix+"%d", time.Now().UnixNano())
	}
	return TaskIDPrefix + id.String()
}
