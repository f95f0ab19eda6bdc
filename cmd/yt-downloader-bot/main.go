package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"github.com/ytget/yt-grabber/internal/bot"
	"github.com/ytget/yt-grabber/internal/config"
	"github.com/ytget/yt-grabber/internal/download"
	"github.com/ytget/yt-grabber/internal/i18n"
	"github.com/ytget/yt-grabber/internal/logging"
	"github.com/ytget/yt-grabber/internal/netcheck"
	"github.com/ytget/yt-grabber/internal/notify"
	"github.com/ytget/yt-grabber/internal/opsserver"
	"github.com/ytget/yt-grabber/internal/progress"
	"github.com/ytget/yt-grabber/internal/session"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(settings.LogLevel, settings.LogDevelopment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := settings.ValidateBot(); err != nil {
		logger.Error("cannot start bot", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("yt-downloader-bot starting",
		zap.String("version", version),
		zap.String("download_dir", settings.DownloadDir),
		zap.Int("max_concurrent_chats", settings.MaxConcurrent))

	transport, err := bot.NewTelegram(settings.TelegramToken, logger)
	if err != nil {
		logger.Error("cannot start bot", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	queue := notify.NewQueue(transport, notify.DefaultSize, settings.NotifyRate, logger)
	sessions := session.NewStore()
	handler := bot.NewHandler(bot.Config{
		Messenger:         transport,
		Notifier:          queue,
		Prober:            netcheck.NewChecker(settings.ProbeURL, settings.ProbeTimeout, logger),
		Downloader:        download.NewService(download.NewYTDLP(), settings, logger),
		Sessions:          sessions,
		Localization:      i18n.NewLocalization(settings.Language),
		DurationThreshold: settings.DurationThreshold,
		NewIndicator: func(chatID int64, requestID string) progress.Indicator {
			return progress.NewLogIndicator(logger.With(zap.Int64("chat_id", chatID), zap.String("request", requestID)), progress.DefaultLogStep)
		},
		Logger: logger,
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		queue.Run(ctx)
	}()

	if settings.MetricsAddr != "" {
		ops := opsserver.New(settings.MetricsAddr, func() map[string]any {
			return map[string]any{
				"sessions":             sessions.Len(),
				"queued_notifications": queue.Len(),
			}
		}, logger)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := ops.Run(ctx); err != nil {
				logger.Error("ops server failed", zap.Error(err))
			}
		}()
	}

	if err := bot.New(transport, handler, settings.MaxConcurrent, logger).Run(ctx); err != nil {
		logger.Error("bot stopped with error", zap.Error(err))
	}
	stop()
	wg.Wait()
	logger.Info("yt-downloader-bot stopped")
}
