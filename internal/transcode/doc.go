package transcode

// Package transcode converts fetched media into mp3 with the ffmpeg CLI,
// reporting progress parsed from ffmpeg's -progress stream.
