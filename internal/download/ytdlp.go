package download

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"github.com/ytget/yt-grabber/internal/model"
	"github.com/ytget/yt-grabber/internal/platform"
)

// YTDLP is the Extractor backed by the yt-dlp executable
type YTDLP struct {
	now func() time.Time
}

// NewYTDLP creates the yt-dlp extractor
func NewYTDLP() *YTDLP {
	return &YTDLP{now: time.Now}
}

// ExtractInfo runs yt-dlp with --dump-single-json --skip-download
func (y *YTDLP) ExtractInfo(ctx context.Context, url string, opts Options) (*model.MediaInfo, error) {
	dl := y.command(opts).
		DumpSingleJSON().
		SkipDownload()

	result, err := dl.Run(ctx, url)
	if err != nil {
		return nil, &Error{Op: OpInspect, URL: url, Err: err}
	}

	info, err := mediaInfo(result)
	if err != nil {
		return nil, &Error{Op: OpInspect, URL: url, Err: err}
	}
	return info, nil
}

// Download runs the transfer with the configured options
func (y *YTDLP) Download(ctx context.Context, url string, opts Options, onProgress func(model.ProgressEvent)) (string, error) {
	started := y.now()

	dl := y.command(opts).PrintJSON()
	if opts.Format != "" {
		dl = dl.Format(opts.Format)
	}
	if opts.OutputTemplate != "" {
		dl = dl.Output(opts.OutputTemplate)
	}
	if opts.MergeFormat != "" {
		dl = dl.MergeOutputFormat(opts.MergeFormat)
	}
	if opts.Retries > 0 {
		dl = dl.Retries(strconv.Itoa(opts.Retries))
	}

	interval := opts.ProgressInterval
	if interval <= 0 {
		interval = DefaultProgressInterval
	}
	if onProgress != nil {
		dl = dl.ProgressFunc(interval, func(update ytdlp.ProgressUpdate) {
			onProgress(progressEvent(update))
		})
	}

	result, err := dl.Run(ctx, url)
	if err != nil {
		return "", &Error{Op: OpDownload, URL: url, Err: err}
	}

	expected := ""
	if info, err := result.GetExtractedInfo(); err == nil && len(info) > 0 {
		expected = expectedPath(info[0], filepath.Dir(opts.OutputTemplate))
	}
	if expected == "" {
		return "", fmt.Errorf("locate downloaded file: extractor reported neither file name nor title")
	}

	path, err := platform.FindDownloadedFile(expected, started)
	if err != nil {
		return "", fmt.Errorf("locate downloaded file: %w", err)
	}
	return path, nil
}

// expectedPath is where yt-dlp reported the file, else the title in dir
func expectedPath(info *ytdlp.ExtractedInfo, dir string) string {
	for _, name := range []*string{info.Filename, info.AltFilename} {
		if v := value(name); v != "" {
			return v
		}
	}
	if title := value(info.Title); title != "" {
		return filepath.Join(dir, title+"."+info.Extension)
	}
	return ""
}

// command applies the options shared by both phases
func (y *YTDLP) command(opts Options) *ytdlp.Command {
	dl := ytdlp.New().
		Quiet().
		NoWarnings()

	if opts.UserAgent != "" {
		dl = dl.AddHeaders("User-Agent:" + opts.UserAgent)
	}
	if opts.CookieFile != "" {
		dl = dl.Cookies(opts.CookieFile)
	}
	if opts.Proxy != "" {
		dl = dl.Proxy(opts.Proxy)
	}
	return dl
}

func progressEvent(update ytdlp.ProgressUpdate) model.ProgressEvent {
	return model.ProgressEvent{
		Status:          model.ProgressStatus(string(update.Status)),
		DownloadedBytes: int64(update.DownloadedBytes),
		TotalBytes:      int64(update.TotalBytes),
	}
}

// mediaInfo prefers the info dicts go-ytdlp collected from the output logs
// and falls back to decoding stdout as a single dump
func mediaInfo(result *ytdlp.Result) (*model.MediaInfo, error) {
	extracted, err := result.GetExtractedInfo()
	if err == nil && len(extracted) > 0 {
		return toMediaInfo(extracted[0]), nil
	}
	return parseInfo([]byte(result.Stdout))
}

func parseInfo(data []byte) (*model.MediaInfo, error) {
	data = []byte(strings.TrimSpace(string(data)))
	if len(data) == 0 {
		return nil, fmt.Errorf("extractor returned no metadata")
	}

	raw := json.RawMessage(data)
	extracted, err := ytdlp.ParseExtractedInfo(&raw)
	if err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	return toMediaInfo(extracted), nil
}

func toMediaInfo(extracted *ytdlp.ExtractedInfo) *model.MediaInfo {
	info := &model.MediaInfo{
		ID:       extracted.ID,
		Title:    value(extracted.Title),
		Duration: value(extracted.Duration),
		Formats:  make([]model.Format, 0, len(extracted.Formats)),
	}
	for _, f := range extracted.Formats {
		if f == nil {
			continue
		}
		info.Formats = append(info.Formats, model.Format{
			FormatID:       value(f.FormatID),
			Ext:            value(f.Extension),
			HasVideo:       hasCodec(value(f.VCodec)),
			HasAudio:       hasCodec(value(f.ACodec)),
			Height:         int(value(f.Height)),
			AudioBitrate:   value(f.ABR),
			FileSize:       int64(value(f.FileSize)),
			FileSizeApprox: int64(value(f.FileSizeApprox)),
		})
	}
	return info
}

// hasCodec treats an absent codec and yt-dlp's "none" marker alike
func hasCodec(codec string) bool {
	return codec != "" && codec != "none"
}

func value[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}
