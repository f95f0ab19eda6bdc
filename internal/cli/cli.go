// Package cli is the interactive single-user front end: a blocking prompt
// loop over a reader and a writer, normally the terminal.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/ytget/yt-grabber/internal/cookies"
	"github.com/ytget/yt-grabber/internal/download"
	"github.com/ytget/yt-grabber/internal/formats"
	"github.com/ytget/yt-grabber/internal/i18n"
	"github.com/ytget/yt-grabber/internal/model"
	"github.com/ytget/yt-grabber/internal/progress"
	"github.com/ytget/yt-grabber/internal/proxy"
)

// ErrOffline aborts the run when the connectivity probe fails
var ErrOffline = errors.New("no internet connection")

// QuitCommand ends the prompt loop
const QuitCommand = "q"

// Prober reports whether the network is usable
type Prober interface {
	Reachable(ctx context.Context) bool
}

// ProxySelector picks the first live proxy
type ProxySelector interface {
	Select(ctx context.Context, endpoints []model.ProxyEndpoint) (string, bool)
}

// Downloader is the subset of download.Service the prompt drives
type Downloader interface {
	CheckCredentials() cookies.Result
	Inspect(ctx context.Context, req model.DownloadRequest, creds cookies.Result) (*model.MediaInfo, error)
	Fetch(ctx context.Context, req model.DownloadRequest, creds cookies.Result, onProgress func(model.ProgressEvent)) (*download.Result, error)
}

// Config wires the prompt's collaborators
type Config struct {
	In           io.Reader
	Out          io.Writer
	Prober       Prober
	Proxies      ProxySelector // nil disables proxy selection
	ProxyFile    string
	Downloader   Downloader
	Localization *i18n.Localization
	NewIndicator progress.IndicatorFactory
	Logger       *zap.Logger
}

// inputLine is one line read from the input. err is set on the last record
// when reading failed.
type inputLine struct {
	text string
	err  error
}

// CLI is the interactive prompt loop
type CLI struct {
	in           *bufio.Scanner
	lines        chan inputLine
	startReader  sync.Once
	out          io.Writer
	prober       Prober
	proxies      ProxySelector
	proxyFile    string
	downloader   Downloader
	loc          *i18n.Localization
	newIndicator progress.IndicatorFactory
	logger       *zap.Logger
}

// New creates the prompt loop
func New(cfg Config) *CLI {
	c := &CLI{
		in:           bufio.NewScanner(cfg.In),
		lines:        make(chan inputLine),
		out:          cfg.Out,
		prober:       cfg.Prober,
		proxies:      cfg.Proxies,
		proxyFile:    cfg.ProxyFile,
		downloader:   cfg.Downloader,
		loc:          cfg.Localization,
		newIndicator: cfg.NewIndicator,
		logger:       cfg.Logger,
	}
	if c.out == nil {
		c.out = io.Discard
	}
	if c.loc == nil {
		c.loc = i18n.NewLocalization(i18n.LangRussian)
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// Run prompts for URLs until the input ends, the user quits or the network
// is unreachable. Failures of a single URL are reported and the loop goes on.
func (c *CLI) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		url, ok := c.prompt(ctx, i18n.KeyPromptURL)
		if !ok || url == QuitCommand {
			c.println(c.loc.Text(i18n.KeyGoodbye))
			return nil
		}
		if url == "" {
			c.println(c.loc.Text(i18n.KeyEmptyURL))
			continue
		}
		if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
			c.println(c.loc.Text(i18n.KeyInvalidURL))
			continue
		}

		if err := c.safeProcess(ctx, url); err != nil {
			if errors.Is(err, ErrOffline) {
				return err
			}
			c.reportError(err)
		}
	}
}

func (c *CLI) safeProcess(ctx context.Context, url string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("panic while processing url", zap.Any("panic", r), zap.Stack("stack"))
			err = fmt.Errorf("%v", r)
		}
	}()
	return c.process(ctx, url)
}

// process runs one URL from preflight checks to the saved file
func (c *CLI) process(ctx context.Context, url string) error {
	c.println(c.loc.Text(i18n.KeyCheckingNetwork))
	if c.prober != nil && !c.prober.Reachable(ctx) {
		c.println(c.loc.Text(i18n.KeyOfflineAbort))
		return ErrOffline
	}

	creds := c.downloader.CheckCredentials()
	if !creds.Valid() {
		c.println(c.loc.Text(i18n.KeyCookiesProceed))
	}

	req := model.NewDownloadRequest(url, "")
	req.Proxy = c.selectProxy(ctx)
	logger := c.logger.With(zap.String("request", req.ID))

	c.println(c.loc.Text(i18n.KeyFetchingMetadata))
	info, err := c.downloader.Inspect(ctx, req, creds)
	if err != nil {
		return err
	}
	c.println(c.loc.Format(i18n.KeyVideoInfo, info.GetDisplayTitle(), info.GetDurationString()))

	catalog := formats.Build(info.Formats, c.loc)
	if catalog.Len() == 0 {
		c.println(c.loc.Text(i18n.KeyNoFormats))
		return nil
	}
	fmt.Fprint(c.out, catalog.Render())

	formatID, ok := c.chooseFormat(ctx, catalog)
	if !ok {
		return nil
	}
	req.FormatID = formatID
	logger.Info("format chosen", zap.String("format", formatID))

	c.println(c.loc.Format(i18n.KeyDownloading, info.GetDisplayTitle()))
	relay := progress.NewRelay(c.newIndicator, nil, c.loc)
	res, err := c.downloader.Fetch(ctx, req, c.downloader.CheckCredentials(), relay.Handle)
	relay.Close()
	if err != nil {
		return err
	}
	c.println(c.loc.Format(i18n.KeySaved, res.Path))
	return nil
}

func (c *CLI) selectProxy(ctx context.Context) string {
	if c.proxies == nil || c.proxyFile == "" {
		return ""
	}
	endpoints, err := proxy.LoadList(c.proxyFile, c.logger)
	if err != nil {
		c.logger.Warn("failed to load proxy list", zap.String("path", c.proxyFile), zap.Error(err))
		return ""
	}
	if len(endpoints) == 0 {
		return ""
	}
	url, ok := c.proxies.Select(ctx, endpoints)
	if !ok {
		c.println(c.loc.Text(i18n.KeyNoProxy))
		return ""
	}
	c.println(c.loc.Format(i18n.KeyProxySelected, url))
	return url
}

// chooseFormat prompts until a valid number or an empty answer. An empty
// answer selects the default format. ok is false when the input ended.
func (c *CLI) chooseFormat(ctx context.Context, catalog *formats.Catalog) (string, bool) {
	for {
		answer, ok := c.prompt(ctx, i18n.KeyPromptFormat)
		if !ok {
			return "", false
		}
		if answer == "" {
			return "", true
		}
		choice, err := strconv.Atoi(answer)
		if err != nil {
			c.println(c.loc.Text(i18n.KeyEnterNumber))
			continue
		}
		entry, err := catalog.Select(choice)
		if err != nil {
			c.println(c.loc.Text(i18n.KeyInvalidChoice))
			continue
		}
		return formats.ResolveFormatID(entry.Format), true
	}
}

func (c *CLI) reportError(err error) {
	var de *download.Error
	if errors.As(err, &de) {
		c.logger.Warn("engine reported an error", zap.Error(err))
		c.println(c.loc.Format(i18n.KeyDownloadError, de.Err.Error()))
		return
	}
	c.logger.Error("unexpected error", zap.Error(err))
	c.println(c.loc.Format(i18n.KeyUnexpectedError, err.Error()))
}

// prompt prints the localized prompt and waits for one trimmed line.
// ok is false when the input ended or ctx was cancelled.
func (c *CLI) prompt(ctx context.Context, key string) (string, bool) {
	fmt.Fprint(c.out, c.loc.Text(key))
	c.startReader.Do(func() { go c.readLines() })

	select {
	case <-ctx.Done():
		fmt.Fprintln(c.out)
		return "", false
	case line, ok := <-c.lines:
		if !ok || line.err != nil {
			if line.err != nil {
				c.logger.Warn("failed to read input", zap.Error(line.err))
			}
			fmt.Fprintln(c.out)
			return "", false
		}
		return strings.TrimSpace(line.text), true
	}
}

// readLines feeds c.lines until the input ends. A read blocked on a
// terminal outlives a cancelled prompt; the process exits around it.
func (c *CLI) readLines() {
	defer close(c.lines)
	for c.in.Scan() {
		c.lines <- inputLine{text: c.in.Text()}
	}
	if err := c.in.Err(); err != nil {
		c.lines <- inputLine{err: err}
	}
}

func (c *CLI) println(text string) {
	fmt.Fprintln(c.out, text)
}
