package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/ytget/yt-grabber/internal/cli"
	"github.com/ytget/yt-grabber/internal/config"
	"github.com/ytget/yt-grabber/internal/download"
	"github.com/ytget/yt-grabber/internal/i18n"
	"github.com/ytget/yt-grabber/internal/logging"
	"github.com/ytget/yt-grabber/internal/netcheck"
	"github.com/ytget/yt-grabber/internal/progress"
	"github.com/ytget/yt-grabber/internal/proxy"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	lang := flag.String("lang", "", "message language: en, ru or pt")
	dir := flag.String("dir", "", "download directory, overrides the configuration")
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *lang != "" {
		settings.Language = *lang
	}
	if *dir != "" {
		settings.DownloadDir = *dir
	}

	logger, err := logging.New(settings.LogLevel, settings.LogDevelopment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	logger.Info("yt-downloader starting", zap.String("version", version))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		// a second interrupt terminates immediately
		<-ctx.Done()
		stop()
	}()

	prober := proxy.NewProber(logger)
	prober.Timeout = settings.ProbeTimeout

	prompt := cli.New(cli.Config{
		In:           os.Stdin,
		Out:          os.Stdout,
		Prober:       netcheck.NewChecker(settings.ProbeURL, settings.ProbeTimeout, logger),
		Proxies:      prober,
		ProxyFile:    settings.ProxyFile,
		Downloader:   download.NewService(download.NewYTDLP(), settings, logger),
		Localization: i18n.NewLocalization(settings.Language),
		NewIndicator: func() progress.Indicator {
			return progress.NewTerminalBar(os.Stdout, "")
		},
		Logger: logger,
	})

	if err := prompt.Run(ctx); err != nil {
		if errors.Is(err, cli.ErrOffline) {
			logger.Error("network check failed, aborting")
		} else {
			logger.Error("interactive session failed", zap.Error(err))
		}
		logger.Sync()
		os.Exit(1)
	}
}
