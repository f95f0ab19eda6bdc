package download

import (
	"context"
	"time"

	"github.com/ytget/yt-grabber/internal/model"
)

// DefaultProgressInterval is how often the engine reports transfer progress
const DefaultProgressInterval = 500 * time.Millisecond

// Options are the engine parameters of one call, rebuilt for every request
type Options struct {
	Format         string // empty means the engine's own best policy
	OutputTemplate string
	UserAgent      string
	MergeFormat    string
	CookieFile     string // empty when the cookie file is not valid
	Proxy          string
	Retries        int

	ProgressInterval time.Duration
}

// Extractor is the media extraction and download engine
type Extractor interface {
	// ExtractInfo returns metadata without downloading
	ExtractInfo(ctx context.Context, url string, opts Options) (*model.MediaInfo, error)

	// Download transfers the media and returns the path of the written file
	Download(ctx context.Context, url string, opts Options, onProgress func(model.ProgressEvent)) (string, error)
}
