package config

import (
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"

	"github.com/ytget/song-downloader/internal/download"
	"github.com/ytget/song-downloader/internal/platform"
)

// QualityPreset selects what a download fetches
type QualityPreset string

// Preset names come from the download package, which defines what each fetches
const (
	QualityBest   QualityPreset = download.QualityBest
	QualityMedium QualityPreset = download.QualityMedium
	QualityAudio  QualityPreset = download.QualityAudio
	QualityMP3    QualityPreset = download.QualityMP3
)

// Settings keys for Fyne preferences
const (
	KeyDownloadDir        = "download_directory"
	KeyMaxParallel        = "max_parallel_downloads"
	KeyQualityPreset      = "quality_preset"
	KeyLanguage           = "app_language"
	KeyAutoRevealComplete = "auto_reveal_on_complete"
	KeyResultCount        = "search_result_count"
)

// Default values and limits
const (
	DefaultMaxParallel        = 2
	MaxParallelLimit          = 10
	DefaultQualityPreset      = QualityAudio
	DefaultLanguage           = "system"
	DefaultAutoRevealComplete = false
	DefaultResultCount        = 5
	MaxResultCount            = 25
)

// Settings manages user preferences
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetDownloadDirectory returns the configured download directory
func (s *Settings) GetDownloadDirectory() string {
	dir := s.app.Preferences().String(KeyDownloadDir)
	if dir != "" {
		return dir
	}

	defaultDir, err := platform.DefaultSongsDir()
	if err != nil {
		defaultDir = filepath.Join(os.TempDir(), platform.SongsFolderName)
	}
	s.SetDownloadDirectory(defaultDir)
	return defaultDir
}

// SetDownloadDirectory sets the download directory
func (s *Settings) SetDownloadDirectory(dir string) {
	s.app.Preferences().SetString(KeyDownloadDir, dir)
}

// GetMaxParallelDownloads returns the maximum number of parallel downloads
func (s *Settings) GetMaxParallelDownloads() int {
	value := s.app.Preferences().Int(KeyMaxParallel)
	if value <= 0 {
		s.SetMaxParallelDownloads(DefaultMaxParallel)
		return DefaultMaxParallel
	}
	return min(value, MaxParallelLimit)
}

// SetMaxParallelDownloads sets the maximum number of parallel downloads
func (s *Settings) SetMaxParallelDownloads(count int) {
	s.app.Preferences().SetInt(KeyMaxParallel, clamp(count, 1, MaxParallelLimit))
}

// GetQualityPreset returns the configured quality preset
func (s *Settings) GetQualityPreset() QualityPreset {
	preset := QualityPreset(s.app.Preferences().String(KeyQualityPreset))
	if !preset.valid() {
		s.SetQualityPreset(DefaultQualityPreset)
		return DefaultQualityPreset
	}
	return preset
}

// SetQualityPreset sets the quality preset. Unknown presets store the default.
func (s *Settings) SetQualityPreset(preset QualityPreset) {
	if !preset.valid() {
		preset = DefaultQualityPreset
	}
	s.app.Preferences().SetString(KeyQualityPreset, string(preset))
}

// GetQualityPresetOptions returns available quality preset options
func (s *Settings) GetQualityPresetOptions() []QualityPreset {
	options := make([]QualityPreset, 0, len(download.QualityPresets))
	for _, name := range download.QualityPresets {
		options = append(options, QualityPreset(name))
	}
	return options
}

// GetResultCount returns how many search results to request
func (s *Settings) GetResultCount() int {
	value := s.app.Preferences().IntWithFallback(KeyResultCount, DefaultResultCount)
	if value < 1 || value > MaxResultCount {
		return DefaultResultCount
	}
	return value
}

// SetResultCount sets how many search results to request
func (s *Settings) SetResultCount(count int) {
	s.app.Preferences().SetInt(KeyResultCount, clamp(count, 1, MaxResultCount))
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if _, ok := s.GetLanguageOptions()[lang]; !ok {
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"es":     "Español",
		"ru":     "Русский",
		"pt":     "Português",
	}
}

// GetAutoRevealOnComplete returns whether to reveal finished songs in the file manager
func (s *Settings) GetAutoRevealOnComplete() bool {
	return s.app.Preferences().BoolWithFallback(KeyAutoRevealComplete, DefaultAutoRevealComplete)
}

// SetAutoRevealOnComplete sets whether to reveal finished songs in the file manager
func (s *Settings) SetAutoRevealOnComplete(autoReveal bool) {
	s.app.Preferences().SetBool(KeyAutoRevealComplete, autoReveal)
}

func (p QualityPreset) valid() bool {
	return download.IsPreset(string(p))
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
