// Package download runs the two yt-dlp phases behind a request: metadata
// extraction without transfer, then the download itself with progress
// reporting. yt-dlp is driven through github.com/lrstanley/go-ytdlp.
package download
