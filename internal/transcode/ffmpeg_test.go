package transcode

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestOutputPathFor(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"/music/song.m4a", "/music/song.mp3"},
		{"/music/song.webm", "/music/song.mp3"},
		{"song.mp4", "song.mp3"},
		{"/music/song.MP3", "/music/song-audio.mp3"},
		{"/no/ext/file", "/no/ext/file.mp3"},
	}

	for _, test := range tests {
		if result := OutputPathFor(test.input); result != test.expected {
			t.Errorf("OutputPathFor(%s) = %s, expected %s", test.input, result, test.expected)
		}
	}
}

func TestBuildFFmpegArgs(t *testing.T) {
	args := BuildFFmpegArgs("/input.m4a", "/output.mp3")

	expectedArgs := []string{
		"-y",
		"-i", "/input.m4a",
		"-vn",
		"-c:a", AudioCodec,
		"-q:a", AudioQuality,
		"-progress", "pipe:2",
		"-nostats",
		"/output.mp3",
	}

	if len(args) != len(expectedArgs) {
		t.Fatalf("Expected %d args, got %d", len(expectedArgs), len(args))
	}
	for i, expected := range expectedArgs {
		if args[i] != expected {
			t.Errorf("Arg %d: expected %s, got %s", i, expected, args[i])
		}
	}
}

func TestParseProgress(t *testing.T) {
	stream := strings.Join([]string{
		"Input #0, mov,mp4,m4a, from 'in.m4a':",
		"out_time_us=0",
		"progress=continue",
		"out_time_us=50000000",
		"out_time_us=garbage",
		"out_time_us=150000000",
		"progress=end",
	}, "\n")

	var got []float64
	ParseProgress(strings.NewReader(stream), 100, func(p float64) { got = append(got, p) })

	expected := []float64{0, 50, 100}
	if len(got) != len(expected) {
		t.Fatalf("Expected %v, got %v", expected, got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("Update %d: expected %v, got %v", i, expected[i], got[i])
		}
	}
}

func TestParseProgress_UnknownDuration(t *testing.T) {
	called := false
	ParseProgress(strings.NewReader("out_time_us=1000000\n"), 0, func(float64) { called = true })

	if called {
		t.Error("Expected no progress without a duration")
	}
}

func TestParseProgress_ReturnsLastMessage(t *testing.T) {
	stream := "out_time_us=10\nin.m4a: Invalid data found when processing input\nprogress=end\n"

	tail := ParseProgress(strings.NewReader(stream), 10, nil)
	if tail != "in.m4a: Invalid data found when processing input" {
		t.Errorf("Unexpected tail: %q", tail)
	}
}

func TestExtractAudio_NonExistentFile(t *testing.T) {
	f := NewFFmpeg("", "")

	_, err := f.ExtractAudio(context.Background(), filepath.Join(t.TempDir(), "missing.m4a"), "", nil)
	if !errors.Is(err, ErrInputMissing) {
		t.Errorf("Expected ErrInputMissing, got: %v", err)
	}
}

func TestNewFFmpeg_Defaults(t *testing.T) {
	f := NewFFmpeg("", "")
	if f.ffmpegPath != FFmpegCommand || f.ffprobePath != FFprobeCommand {
		t.Errorf("Unexpected defaults: %+v", f)
	}
}

func TestParseProgress_DrainsAfterOversizedLine(t *testing.T) {
	input := "out_time_us=1000000\n" + strings.Repeat("x", 100*1024) + "\nout_time_us=2000000\nmore output\n"
	r := strings.NewReader(input)

	var updates []float64
	ParseProgress(r, 10, func(p float64) { updates = append(updates, p) })

	if r.Len() != 0 {
		t.Errorf("Expected the reader to be drained, %d bytes left", r.Len())
	}
	if len(updates) != 1 || updates[0] != 10 {
		t.Errorf("Expected one update at 10%%, got %v", updates)
	}
}
