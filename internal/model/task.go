package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RequestIDPrefix is prepended to every generated download request ID
const RequestIDPrefix = "dl-"

// DownloadRequest describes a single extraction+download call
type DownloadRequest struct {
	ID       string
	URL      string
	FormatID string // empty means the configured default selector
	Proxy    string // proxy URL, empty means direct connection
}

// NewDownloadRequest creates a request with a fresh ID
func NewDownloadRequest(url, formatID string) DownloadRequest {
	return DownloadRequest{
		ID:       NewRequestID(),
		URL:      url,
		FormatID: formatID,
	}
}

// NewRequestID generates a unique request ID
func NewRequestID() string {
	return RequestIDPrefix + uuid.NewString()
}

// MediaInfo is the metadata returned by the extractor without downloading
type MediaInfo struct {
	ID       string
	Title    string
	Duration float64 // seconds, 0 if unknown
	Formats  []Format
}

// DurationValue returns the duration as time.Duration
func (m *MediaInfo) DurationValue() time.Duration {
	return time.Duration(m.Duration * float64(time.Second))
}

// GetDurationString returns duration formatted as hh:mm:ss, or "—" if unknown
func (m *MediaInfo) GetDurationString() string {
	total := int(m.Duration)
	if total <= 0 {
		return "—"
	}

	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// GetDisplayTitle returns title or a fallback when the extractor gave none
func (m *MediaInfo) GetDisplayTitle() string {
	if t := strings.TrimSpace(m.Title); t != "" {
		return t
	}
	return "video"
}

// ProgressEvent is one byte-progress record from the download engine
type ProgressEvent struct {
	Status          ProgressStatus
	DownloadedBytes int64
	TotalBytes      int64 // declared or estimated, 0 if unknown
}

// Percent returns downloaded/total*100, or 0 if total is unknown
func (e ProgressEvent) Percent() float64 {
	if e.TotalBytes <= 0 {
		return 0
	}
	return float64(e.DownloadedBytes) / float64(e.TotalBytes) * 100
}
