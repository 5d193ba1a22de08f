package transcode

import "context"

// ProgressFunc receives completion in percent, 0 to 100
type ProgressFunc func(percent float64)

// Transcoder turns a downloaded media file into an audio-only file.
// An empty outputPath lets the transcoder pick one next to the input.
type Transcoder interface {
	ExtractAudio(ctx context.Context, inputPath, outputPath string, progress ProgressFunc) (string, error)
}
