package download

// Package download implements the song download pipeline on top of yt-dlp
// (via github.com/ytget/ytdlp/v2). It tracks task lifecycle, bounds parallel
// fetches, retries transient failures and hands mp3 conversions to the
// transcode package.
