package transcode

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// FFmpeg settings for audio extraction
const (
	AudioCodec   = "libmp3lame"
	AudioQuality = "2" // VBR ~190 kbps

	FFmpegCommand       = "ffmpeg"
	FFprobeCommand      = "ffprobe"
	FFprobeLogLevel     = "error"
	FFprobeShowEntries  = "format=duration"
	FFprobeOutputFormat = "csv=p=0"
	ProgressPipeTarget  = "pipe:2"
	ProgressTimePrefix  = "out_time_us="
	OutputExtensionMP3  = ".mp3"
)

// ErrInputMissing is returned when the file to convert does not exist
var ErrInputMissing = errors.New("input file does not exist")

// FFmpeg extracts audio by shelling out to ffmpeg and ffprobe
type FFmpeg struct {
	ffmpegPath  string
	ffprobePath string
}

// NewFFmpeg creates a transcoder. Empty paths fall back to the binaries on PATH.
func NewFFmpeg(ffmpegPath, ffprobePath string) *FFmpeg {
	if ffmpegPath == "" {
		ffmpegPath = FFmpegCommand
	}
	if ffprobePath == "" {
		ffprobePath = FFprobeCommand
	}
	return &FFmpeg{ffmpegPath: ffmpegPath, ffprobePath: ffprobePath}
}

// ExtractAudio writes an mp3 and returns its path.
// The partial output is removed if ffmpeg fails or ctx is cancelled.
func (f *FFmpeg) ExtractAudio(ctx context.Context, inputPath, outputPath string, progress ProgressFunc) (string, error) {
	if _, err := os.Stat(inputPath); err != nil {
		return "", fmt.Errorf("%w: %s", ErrInputMissing, inputPath)
	}
	if outputPath == "" {
		outputPath = OutputPathFor(inputPath)
	}

	// Unknown duration only disables progress
	duration, err := f.probeDuration(ctx, inputPath)
	if err != nil {
		log.Printf("Failed to get duration for %s: %v", inputPath, err)
	}

	cmd := exec.CommandContext(ctx, f.ffmpegPath, BuildFFmpegArgs(inputPath, outputPath)...)
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return "", fmt.Errorf("failed to create stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	tail := ParseProgress(stderr, duration, progress)
	if err := cmd.Wait(); err != nil {
		os.Remove(outputPath)
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if tail != "" {
			return "", fmt.Errorf("ffmpeg failed: %w: %s", err, tail)
		}
		return "", fmt.Errorf("ffmpeg failed: %w", err)
	}

	if progress != nil {
		progress(100)
	}
	log.Printf("Extracted audio %s", outputPath)
	return outputPath, nil
}

// BuildFFmpegArgs builds the ffmpeg command arguments
func BuildFFmpegArgs(inputPath, outputPath string) []string {
	return []string{
		"-y",
		"-i", inputPath,
		"-vn", // drop video
		"-c:a", AudioCodec,
		"-q:a", AudioQuality,
		"-progress", ProgressPipeTarget,
		"-nostats",
		outputPath,
	}
}

// OutputPathFor swaps the extension of inputPath for .mp3. An input that is
// already an mp3 gets a suffix so ffmpeg never reads and writes one file.
func OutputPathFor(inputPath string) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(inputPath, ext)
	if strings.EqualFold(ext, OutputExtensionMP3) {
		base += "-audio"
	}
	return base + OutputExtensionMP3
}

// ParseProgress reads ffmpeg -progress output until EOF and reports percent
// of totalSeconds. It returns the last non-progress line for error messages.
func ParseProgress(r io.Reader, totalSeconds float64, progress ProgressFunc) string {
	var last string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, ProgressTimePrefix) {
			if line != "" && !strings.Contains(line, "=") {
				last = line
			}
			continue
		}
		if progress == nil || totalSeconds <= 0 {
			continue
		}

		us, err := strconv.ParseInt(strings.TrimPrefix(line, ProgressTimePrefix), 10, 64)
		if err != nil || us < 0 {
			continue
		}
		percent := float64(us) / 1e6 / totalSeconds * 100
		if percent > 100 {
			percent = 100
		}
		progress(percent)
	}
	if err := scanner.Err(); err != nil {
		log.Printf("ffmpeg output unreadable, discarding the rest: %v", err)
	}
	// keep the pipe empty so ffmpeg never blocks on a full stderr
	_, _ = io.Copy(io.Discard, r)
	return last
}

func (f *FFmpeg) probeDuration(ctx context.Context, filePath string) (float64, error) {
	cmd := exec.CommandContext(ctx, f.ffprobePath, "-v", FFprobeLogLevel, "-show_entries", FFprobeShowEntries, "-of", FFprobeOutputFormat, filePath)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("failed to run ffprobe: %w", err)
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}
	return duration, nil
}
