package download

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ytget/yt-grabber/internal/config"
	"github.com/ytget/yt-grabber/internal/cookies"
	"github.com/ytget/yt-grabber/internal/metrics"
	"github.com/ytget/yt-grabber/internal/model"
	"github.com/ytget/yt-grabber/internal/platform"
)

// Result describes a finished download
type Result struct {
	RequestID string
	URL       string
	Path      string
	Elapsed   time.Duration
}

// Service sequences credential checks, metadata extraction and downloads
type Service struct {
	extractor Extractor
	settings  *config.Settings
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates a new download service
func NewService(extractor Extractor, settings *config.Settings, logger *zap.Logger) *Service {
	if settings == nil {
		settings = config.Defaults()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		extractor: extractor,
		settings:  settings,
		logger:    logger,
		now:       time.Now,
	}
}

// Settings returns the configuration the service builds options from
func (s *Service) Settings() *config.Settings {
	return s.settings
}

// CheckCredentials validates the cookie file. The result is advisory and
// computed fresh on every call so a replaced file is picked up. Callers check
// once per phase and hand the result to Inspect or Fetch.
func (s *Service) CheckCredentials() cookies.Result {
	res := cookies.Validate(s.settings.CookieFile, s.logger)
	metrics.CookieChecksTotal.WithLabelValues(res.Status.String()).Inc()
	return res
}

// Inspect fetches metadata for the request's URL without downloading
func (s *Service) Inspect(ctx context.Context, req model.DownloadRequest, creds cookies.Result) (*model.MediaInfo, error) {
	logger := s.logger.With(zap.String("request", req.ID), zap.String("url", req.URL))
	opts := s.options(req, creds)

	start := s.now()
	info, err := s.extractor.ExtractInfo(ctx, req.URL, opts)
	metrics.ExtractorLatency.WithLabelValues(metrics.PhaseInspect).Observe(s.now().Sub(start).Seconds())
	if err != nil {
		logger.Warn("metadata extraction failed", zap.Error(err))
		return nil, err
	}

	logger.Info("metadata extracted",
		zap.String("title", info.Title),
		zap.Float64("duration", info.Duration),
		zap.Int("formats", len(info.Formats)))
	return info, nil
}

// Fetch downloads the request's media into the configured directory
func (s *Service) Fetch(ctx context.Context, req model.DownloadRequest, creds cookies.Result, onProgress func(model.ProgressEvent)) (*Result, error) {
	logger := s.logger.With(zap.String("request", req.ID), zap.String("url", req.URL))

	dir, err := platform.ResolveDownloadDir(s.settings.DownloadDir)
	if err != nil {
		return nil, err
	}
	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		return nil, fmt.Errorf("create download directory %s: %w", dir, err)
	}

	opts := s.options(req, creds)
	opts.OutputTemplate = platform.OutputTemplate(dir, s.settings.FilenameTemplate)

	logger.Info("download started",
		zap.String("format", opts.Format),
		zap.Bool("cookies", opts.CookieFile != ""),
		zap.Bool("proxy", opts.Proxy != ""))

	start := s.now()
	path, err := s.extractor.Download(ctx, req.URL, opts, onProgress)
	elapsed := s.now().Sub(start)
	metrics.ExtractorLatency.WithLabelValues(metrics.PhaseDownload).Observe(elapsed.Seconds())
	if err != nil {
		metrics.DownloadsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		logger.Error("download failed", zap.Error(err), zap.Duration("elapsed", elapsed))
		return nil, err
	}

	metrics.DownloadsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	logger.Info("download finished", zap.String("path", path), zap.Duration("elapsed", elapsed))
	return &Result{
		RequestID: req.ID,
		URL:       req.URL,
		Path:      path,
		Elapsed:   elapsed,
	}, nil
}

// options maps settings, the request and the phase's cookie check onto engine options
func (s *Service) options(req model.DownloadRequest, creds cookies.Result) Options {
	format := req.FormatID
	if format == "" {
		format = s.settings.DefaultFormat
	}

	opts := Options{
		Format:      format,
		UserAgent:   s.settings.UserAgent,
		MergeFormat: s.settings.MergeFormat,
		Proxy:       req.Proxy,
		Retries:     s.settings.Retries,
	}
	if creds.Valid() && creds.Path != "" {
		opts.CookieFile = creds.Path
	}
	return opts
}
