package download

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ytget/yt-grabber/internal/config"
	"github.com/ytget/yt-grabber/internal/cookies"
	"github.com/ytget/yt-grabber/internal/model"
)

const validCookies = "# Netscape HTTP Cookie File\n.youtube.com\tTRUE\t/\tTRUE\t0\tSID\tabc\n"

type fakeExtractor struct {
	info        *model.MediaInfo
	infoErr     error
	path        string
	downloadErr error
	events      []model.ProgressEvent

	inspectOpts  []Options
	downloadOpts []Options
}

func (f *fakeExtractor) ExtractInfo(_ context.Context, _ string, opts Options) (*model.MediaInfo, error) {
	f.inspectOpts = append(f.inspectOpts, opts)
	return f.info, f.infoErr
}

func (f *fakeExtractor) Download(_ context.Context, _ string, opts Options, onProgress func(model.ProgressEvent)) (string, error) {
	f.downloadOpts = append(f.downloadOpts, opts)
	for _, ev := range f.events {
		if onProgress != nil {
			onProgress(ev)
		}
	}
	return f.path, f.downloadErr
}

func testSettings(t *testing.T) *config.Settings {
	t.Helper()
	s := config.Defaults()
	dir := t.TempDir()
	s.DownloadDir = filepath.Join(dir, "downloads")
	s.CookieFile = filepath.Join(dir, "cookies.txt")
	return s
}

func TestService_CheckCredentials(t *testing.T) {
	settings := testSettings(t)
	service := NewService(&fakeExtractor{}, settings, zap.NewNop())

	if res := service.CheckCredentials(); res.Status != cookies.StatusMissing {
		t.Errorf("Expected missing status, got %v", res.Status)
	}

	if err := os.WriteFile(settings.CookieFile, []byte(validCookies), 0644); err != nil {
		t.Fatalf("Failed to write cookies: %v", err)
	}
	if res := service.CheckCredentials(); !res.Valid() {
		t.Errorf("Expected valid cookies after the file appeared, got %v (%s)", res.Status, res.Reason)
	}
}

func TestService_InspectOptions(t *testing.T) {
	settings := testSettings(t)
	ex := &fakeExtractor{info: &model.MediaInfo{Title: "Clip", Duration: 60}}
	service := NewService(ex, settings, zap.NewNop())

	req := model.NewDownloadRequest("https://example.com/v", "")
	req.Proxy = "socks5://127.0.0.1:1080"
	info, err := service.Inspect(context.Background(), req, service.CheckCredentials())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if info.Title != "Clip" {
		t.Errorf("Expected title Clip, got %q", info.Title)
	}

	opts := ex.inspectOpts[0]
	if opts.CookieFile != "" {
		t.Errorf("Expected no cookie file for a missing jar, got %q", opts.CookieFile)
	}
	if opts.UserAgent != config.DefaultUserAgent {
		t.Errorf("Expected default user agent, got %q", opts.UserAgent)
	}
	if opts.Proxy != "socks5://127.0.0.1:1080" {
		t.Errorf("Expected proxy passed through, got %q", opts.Proxy)
	}
	if opts.Retries != config.DefaultRetries {
		t.Errorf("Expected %d retries, got %d", config.DefaultRetries, opts.Retries)
	}
}

func TestService_InspectError(t *testing.T) {
	engineErr := &Error{Op: OpInspect, URL: "u", Err: errors.New("private video")}
	service := NewService(&fakeExtractor{infoErr: engineErr}, testSettings(t), nil)

	_, err := service.Inspect(context.Background(), model.NewDownloadRequest("u", ""), cookies.Result{})
	if !IsDownloadError(err) {
		t.Errorf("Expected download error, got %v", err)
	}
}

func TestService_FetchCreatesDirectory(t *testing.T) {
	settings := testSettings(t)
	if err := os.WriteFile(settings.CookieFile, []byte(validCookies), 0644); err != nil {
		t.Fatalf("Failed to write cookies: %v", err)
	}

	ex := &fakeExtractor{
		path: filepath.Join(settings.DownloadDir, "Clip.mp4"),
		events: []model.ProgressEvent{
			{Status: model.ProgressStatusDownloading, DownloadedBytes: 50, TotalBytes: 100},
			{Status: model.ProgressStatusFinished, DownloadedBytes: 100, TotalBytes: 100},
		},
	}
	service := NewService(ex, settings, zap.NewNop())

	var seen []model.ProgressEvent
	req := model.NewDownloadRequest("https://example.com/v", "137+bestaudio/best")
	res, err := service.Fetch(context.Background(), req, service.CheckCredentials(), func(ev model.ProgressEvent) {
		seen = append(seen, ev)
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if info, err := os.Stat(settings.DownloadDir); err != nil || !info.IsDir() {
		t.Errorf("Expected download directory created")
	}
	if res.Path != ex.path || res.RequestID != req.ID {
		t.Errorf("Unexpected result: %+v", res)
	}
	if len(seen) != 2 {
		t.Errorf("Expected 2 progress events relayed, got %d", len(seen))
	}

	opts := ex.downloadOpts[0]
	if opts.Format != "137+bestaudio/best" {
		t.Errorf("Expected explicit format, got %q", opts.Format)
	}
	if opts.CookieFile != settings.CookieFile {
		t.Errorf("Expected cookie file for a valid jar, got %q", opts.CookieFile)
	}
	if opts.MergeFormat != "mp4" {
		t.Errorf("Expected mp4 merge format, got %q", opts.MergeFormat)
	}
	if !strings.HasSuffix(opts.OutputTemplate, "%(title)s.%(ext)s") ||
		!strings.HasPrefix(opts.OutputTemplate, settings.DownloadDir) {
		t.Errorf("Unexpected output template %q", opts.OutputTemplate)
	}
}

func TestService_FetchDefaultFormat(t *testing.T) {
	tests := []struct {
		name          string
		defaultFormat string
		expected      string
	}{
		{"engine default", "", ""},
		{"configured default", "best[height<=720]", "best[height<=720]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := testSettings(t)
			settings.DefaultFormat = tt.defaultFormat
			ex := &fakeExtractor{path: "/x.mp4"}
			service := NewService(ex, settings, nil)

			if _, err := service.Fetch(context.Background(), model.NewDownloadRequest("u", ""), cookies.Result{}, nil); err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got := ex.downloadOpts[0].Format; got != tt.expected {
				t.Errorf("Expected format %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestService_FetchError(t *testing.T) {
	ex := &fakeExtractor{downloadErr: &Error{Op: OpDownload, URL: "u", Err: errors.New("HTTP Error 403")}}
	service := NewService(ex, testSettings(t), nil)

	res, err := service.Fetch(context.Background(), model.NewDownloadRequest("u", ""), cookies.Result{}, nil)
	if res != nil {
		t.Errorf("Expected no result, got %+v", res)
	}
	if !IsDownloadError(err) {
		t.Errorf("Expected download error, got %v", err)
	}
}

func TestService_ValidatesCookiesOncePerPhase(t *testing.T) {
	settings := testSettings(t)
	if err := os.WriteFile(settings.CookieFile, []byte(validCookies), 0644); err != nil {
		t.Fatalf("Failed to write cookies: %v", err)
	}

	core, logs := observer.New(zap.DebugLevel)
	ex := &fakeExtractor{info: &model.MediaInfo{Title: "Clip"}, path: "/x.mp4"}
	service := NewService(ex, settings, zap.New(core))
	req := model.NewDownloadRequest("https://example.com/v", "")

	if _, err := service.Inspect(context.Background(), req, service.CheckCredentials()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, err := service.Fetch(context.Background(), req, service.CheckCredentials(), nil); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if n := logs.FilterMessage("cookies file is valid").Len(); n != 2 {
		t.Errorf("Expected one cookie check per phase, got %d", n)
	}
	if ex.inspectOpts[0].CookieFile != settings.CookieFile || ex.downloadOpts[0].CookieFile != settings.CookieFile {
		t.Errorf("Expected the checked jar passed to both phases, got %+v / %+v", ex.inspectOpts[0], ex.downloadOpts[0])
	}
}

func TestService_UsesGivenCheckResult(t *testing.T) {
	settings := testSettings(t)
	if err := os.WriteFile(settings.CookieFile, []byte(validCookies), 0644); err != nil {
		t.Fatalf("Failed to write cookies: %v", err)
	}

	core, logs := observer.New(zap.DebugLevel)
	ex := &fakeExtractor{info: &model.MediaInfo{Title: "Clip"}}
	service := NewService(ex, settings, zap.New(core))

	rejected := cookies.Result{Path: settings.CookieFile, Status: cookies.StatusMalformed, Reason: "bad header"}
	if _, err := service.Inspect(context.Background(), model.NewDownloadRequest("u", ""), rejected); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if ex.inspectOpts[0].CookieFile != "" {
		t.Errorf("Expected a rejected jar to be skipped, got %q", ex.inspectOpts[0].CookieFile)
	}
	if n := logs.FilterMessageSnippet("cookies file").Len(); n != 0 {
		t.Errorf("Expected no cookie validation inside Inspect, got %d log lines", n)
	}
}

func TestIsDownloadError(t *testing.T) {
	inner := errors.New("boom")
	wrapped := &Error{Op: OpDownload, URL: "https://x", Err: inner}

	if !IsDownloadError(wrapped) {
		t.Error("Expected wrapped engine error to be detected")
	}
	if !errors.Is(wrapped, inner) {
		t.Error("Expected Unwrap to expose the cause")
	}
	if IsDownloadError(errors.New("other")) {
		t.Error("Expected plain error not to be a download error")
	}
	if got := wrapped.Error(); got != "download https://x: boom" {
		t.Errorf("Unexpected message %q", got)
	}
}
