package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"unicode/utf8"
)

// Operating system constants
const (
	OSDarwin  = "darwin"
	OSWindows = "windows"
	OSLinux   = "linux"
	OSAndroid = "android"
)

// File system defaults
const (
	DefaultDirPermissions = 0755
	SongsFolderName       = "Youtube-Downloader"
	AndroidDownloadsDir   = "/sdcard/Download"
	FallbackFileName      = "song"
	MaxFileNameLength     = 180
	maxUniqueAttempts     = 1000
)

var invalidFileChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1F]`)

// GetHomeDownloadsDir returns the standard Downloads directory for the user
func GetHomeDownloadsDir() (string, error) {
	if isAndroid() {
		return AndroidDownloadsDir, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, "Downloads"), nil
}

// DefaultSongsDir returns the folder songs are saved to when nothing else is configured
func DefaultSongsDir() (string, error) {
	downloads, err := GetHomeDownloadsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(downloads, SongsFolderName), nil
}

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	info, err := os.Stat(dirPath)
	if os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", dirPath)
	}
	return nil
}

// SanitizeFileName turns a song title into a name that is valid on every
// desktop file system. The extension is not part of name.
func SanitizeFileName(name string) string {
	cleaned := invalidFileChars.ReplaceAllString(name, "_")
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	// Windows refuses names ending in a dot or space
	cleaned = strings.TrimRight(cleaned, ". ")
	cleaned = strings.TrimLeft(cleaned, " ")

	if len(cleaned) > MaxFileNameLength {
		cleaned = cleaned[:MaxFileNameLength]
		for !utf8.ValidString(cleaned) {
			cleaned = cleaned[:len(cleaned)-1]
		}
		cleaned = strings.TrimRight(cleaned, ". ")
	}

	if cleaned == "" || strings.Trim(cleaned, "_") == "" {
		return FallbackFileName
	}
	return cleaned
}

// UniquePath returns path itself when nothing exists there, otherwise the
// first free "name (n).ext" variant in the same directory.
func UniquePath(path string) (string, error) {
	return UniquePathExcept(path, nil)
}

// UniquePathExcept works like UniquePath but also skips names for which
// taken reports true, such as files other downloads have not written yet.
func UniquePathExcept(path string, taken func(string) bool) (string, error) {
	free := func(candidate string) bool {
		if taken != nil && taken(candidate) {
			return false
		}
		_, err := os.Stat(candidate)
		return os.IsNotExist(err)
	}

	if free(path) {
		return path, nil
	}

	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for i := 1; i <= maxUniqueAttempts; i++ {
		candidate := fmt.Sprintf("%s (%d)%s", base, i, ext)
		if free(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no free file name for %s", path)
}

func isAndroid() bool {
	return runtime.GOOS == OSAndroid ||
		os.Getenv("ANDROID_DATA") != "" ||
		os.Getenv("ANDROID_ROOT") != "" ||
		filepath.Base(os.Args[0]) == "libdist.so" // Fyne Android apps run as libdist.so
}
