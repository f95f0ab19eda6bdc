package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ytget/yt-grabber/internal/cookies"
	"github.com/ytget/yt-grabber/internal/download"
	"github.com/ytget/yt-grabber/internal/formats"
	"github.com/ytget/yt-grabber/internal/i18n"
	"github.com/ytget/yt-grabber/internal/metrics"
	"github.com/ytget/yt-grabber/internal/model"
	"github.com/ytget/yt-grabber/internal/progress"
	"github.com/ytget/yt-grabber/internal/session"
)

// Commands understood by the bot
const (
	CommandStart  = "start"
	CommandHelp   = "help"
	CommandCancel = "cancel"
)

// DefaultDurationThreshold separates short videos, which need a
// confirmation, from long ones, which get the format list
const DefaultDurationThreshold = 2 * time.Hour

// Message is one inbound chat message
type Message struct {
	ChatID  int64
	Text    string
	Command string // without the leading slash, empty for plain text
}

// Messenger delivers a reply to a chat. It may block.
type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string) error
}

// Notifier enqueues a chat message without blocking
type Notifier interface {
	Send(chatID int64, text string) error
}

// Prober reports whether the network is usable
type Prober interface {
	Reachable(ctx context.Context) bool
}

// Downloader is the subset of download.Service the bot drives
type Downloader interface {
	CheckCredentials() cookies.Result
	Inspect(ctx context.Context, req model.DownloadRequest, creds cookies.Result) (*model.MediaInfo, error)
	Fetch(ctx context.Context, req model.DownloadRequest, creds cookies.Result, onProgress func(model.ProgressEvent)) (*download.Result, error)
}

// Config wires the handler's collaborators
type Config struct {
	Messenger         Messenger
	Notifier          Notifier // progress messages, nil disables them
	Prober            Prober
	Downloader        Downloader
	Sessions          *session.Store
	Localization      *i18n.Localization
	DurationThreshold time.Duration
	NewIndicator      func(chatID int64, requestID string) progress.Indicator // per stream, nil draws nothing
	Logger            *zap.Logger
}

// Handler runs the conversation state machine for every chat
type Handler struct {
	messenger  Messenger
	notifier   Notifier
	prober     Prober
	downloader Downloader
	sessions   *session.Store
	loc        *i18n.Localization
	threshold  time.Duration
	indicator  func(chatID int64, requestID string) progress.Indicator
	logger     *zap.Logger
}

// NewHandler creates a handler
func NewHandler(cfg Config) *Handler {
	h := &Handler{
		messenger:  cfg.Messenger,
		notifier:   cfg.Notifier,
		prober:     cfg.Prober,
		downloader: cfg.Downloader,
		sessions:   cfg.Sessions,
		loc:        cfg.Localization,
		threshold:  cfg.DurationThreshold,
		indicator:  cfg.NewIndicator,
		logger:     cfg.Logger,
	}
	if h.sessions == nil {
		h.sessions = session.NewStore()
	}
	if h.loc == nil {
		h.loc = i18n.NewLocalization(i18n.LangRussian)
	}
	if h.threshold <= 0 {
		h.threshold = DefaultDurationThreshold
	}
	if h.logger == nil {
		h.logger = zap.NewNop()
	}
	return h
}

// Sessions returns the handler's session store
func (h *Handler) Sessions() *session.Store {
	return h.sessions
}

// HandleMessage processes one inbound message. A panic is reported to the
// chat as an unexpected error and the chat returns to idle.
func (h *Handler) HandleMessage(ctx context.Context, msg Message) {
	logger := h.logger.With(zap.Int64("chat_id", msg.ChatID))
	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic while handling message", zap.Any("panic", r), zap.Stack("stack"))
			h.sessions.Remove(msg.ChatID)
			metrics.RequestsTotal.WithLabelValues(metrics.OutcomeUnhandled).Inc()
			h.reply(ctx, msg.ChatID, h.loc.Format(i18n.KeyUnexpectedError, fmt.Sprint(r)))
		}
		metrics.ActiveSessions.Set(float64(h.sessions.Len()))
	}()

	switch msg.Command {
	case CommandStart:
		h.reply(ctx, msg.ChatID, h.loc.Text(i18n.KeyStart))
		return
	case CommandHelp:
		h.reply(ctx, msg.ChatID, h.loc.Format(i18n.KeyHelp, h.loc.Affirmative()))
		return
	case CommandCancel:
		h.cancel(ctx, msg.ChatID)
		return
	}

	sess, ok := h.sessions.Get(msg.ChatID)
	if !ok {
		h.handleURL(ctx, logger, msg)
		return
	}

	switch sess.State {
	case model.SessionStateBusy:
		metrics.RequestsTotal.WithLabelValues(metrics.OutcomeBusy).Inc()
		h.reply(ctx, msg.ChatID, h.loc.Text(i18n.KeyBusy))
	case model.SessionStateAwaitingConfirmation:
		h.handleConfirmation(ctx, logger, sess, msg.Text)
	case model.SessionStateAwaitingFormat:
		h.handleFormatChoice(ctx, logger, sess, msg.Text)
	default:
		logger.Warn("unknown session state, resetting", zap.String("state", sess.State.String()))
		h.sessions.Remove(msg.ChatID)
		h.handleURL(ctx, logger, msg)
	}
}

func (h *Handler) cancel(ctx context.Context, chatID int64) {
	removed, err := h.sessions.RemovePending(chatID)
	switch {
	case errors.Is(err, session.ErrBusy):
		h.reply(ctx, chatID, h.loc.Text(i18n.KeyBusy))
	case removed:
		metrics.RequestsTotal.WithLabelValues(metrics.OutcomeCancelled).Inc()
		h.reply(ctx, chatID, h.loc.Text(i18n.KeyCancelled))
	default:
		h.reply(ctx, chatID, h.loc.Text(i18n.KeyNothingToCancel))
	}
}

func (h *Handler) handleURL(ctx context.Context, logger *zap.Logger, msg Message) {
	url := strings.TrimSpace(msg.Text)
	if !isHTTPURL(url) {
		metrics.RequestsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		h.reply(ctx, msg.ChatID, h.loc.Text(i18n.KeyInvalidURL))
		return
	}

	sess, err := h.sessions.Begin(msg.ChatID, url, model.NewRequestID())
	if err != nil {
		metrics.RequestsTotal.WithLabelValues(metrics.OutcomeBusy).Inc()
		h.reply(ctx, msg.ChatID, h.loc.Text(i18n.KeyBusy))
		return
	}
	logger = logger.With(zap.String("request", sess.RequestID))
	logger.Info("url accepted", zap.String("url", url))

	if h.prober != nil && !h.prober.Reachable(ctx) {
		h.sessions.Remove(msg.ChatID)
		metrics.RequestsTotal.WithLabelValues(metrics.OutcomeOffline).Inc()
		logger.Warn("network unreachable, request aborted")
		h.reply(ctx, msg.ChatID, h.loc.Text(i18n.KeyNoInternet))
		return
	}

	creds := h.downloader.CheckCredentials()
	if !creds.Valid() {
		h.reply(ctx, msg.ChatID, h.loc.Text(i18n.KeyCookiesInvalid))
	}
	metrics.RequestsTotal.WithLabelValues(metrics.OutcomeAccepted).Inc()

	req := model.DownloadRequest{ID: sess.RequestID, URL: url}
	info, err := h.downloader.Inspect(ctx, req, creds)
	if err != nil {
		h.sessions.Remove(msg.ChatID)
		h.replyError(ctx, logger, msg.ChatID, err)
		return
	}

	title := info.GetDisplayTitle()
	if info.DurationValue() <= h.threshold {
		_, err = h.sessions.Transition(msg.ChatID, model.SessionStateBusy, model.SessionStateAwaitingConfirmation, func(s *session.Session) {
			s.Title = title
			s.Duration = info.Duration
		})
		if err != nil {
			h.transitionFailed(ctx, logger, msg.ChatID, err)
			return
		}
		h.reply(ctx, msg.ChatID, h.loc.Format(i18n.KeyDurationWarning,
			title, clock(h.threshold), h.loc.Affirmative(), h.loc.Text(i18n.KeyNegative)))
		return
	}

	catalog := formats.Build(info.Formats, h.loc)
	if catalog.Len() == 0 {
		h.sessions.Remove(msg.ChatID)
		metrics.RequestsTotal.WithLabelValues(metrics.OutcomeNoFormats).Inc()
		h.reply(ctx, msg.ChatID, h.loc.Text(i18n.KeyNoFormats))
		return
	}

	_, err = h.sessions.Transition(msg.ChatID, model.SessionStateBusy, model.SessionStateAwaitingFormat, func(s *session.Session) {
		s.Title = title
		s.Duration = info.Duration
		s.Catalog = catalog
	})
	if err != nil {
		h.transitionFailed(ctx, logger, msg.ChatID, err)
		return
	}
	h.reply(ctx, msg.ChatID, catalog.Render()+h.loc.Text(i18n.KeyChooseFormat))
}

func (h *Handler) handleConfirmation(ctx context.Context, logger *zap.Logger, sess session.Session, text string) {
	if !h.loc.IsAffirmative(text) {
		h.sessions.Remove(sess.ChatID)
		metrics.RequestsTotal.WithLabelValues(metrics.OutcomeCancelled).Inc()
		h.reply(ctx, sess.ChatID, h.loc.Text(i18n.KeyCancelled))
		return
	}
	h.startDownload(ctx, logger, sess, model.SessionStateAwaitingConfirmation, "")
}

func (h *Handler) handleFormatChoice(ctx context.Context, logger *zap.Logger, sess session.Session, text string) {
	choice, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		h.reply(ctx, sess.ChatID, h.loc.Text(i18n.KeyEnterNumber))
		return
	}
	if sess.Catalog == nil {
		h.transitionFailed(ctx, logger, sess.ChatID, errors.New("format list is missing"))
		return
	}
	entry, err := sess.Catalog.Select(choice)
	if err != nil {
		h.reply(ctx, sess.ChatID, h.loc.Text(i18n.KeyInvalidChoice))
		return
	}
	h.startDownload(ctx, logger, sess, model.SessionStateAwaitingFormat, formats.ResolveFormatID(entry.Format))
}

// startDownload claims the session and runs the transfer. The session is
// removed afterwards whatever the outcome.
func (h *Handler) startDownload(ctx context.Context, logger *zap.Logger, sess session.Session, from model.SessionState, formatID string) {
	chatID := sess.ChatID
	var newIndicator progress.IndicatorFactory
	if h.indicator != nil {
		requestID := sess.RequestID
		newIndicator = func() progress.Indicator { return h.indicator(chatID, requestID) }
	}
	relay := progress.NewRelay(newIndicator, func(text string) {
		h.notify(ctx, chatID, text, false)
	}, h.loc)

	sess, err := h.sessions.Transition(chatID, from, model.SessionStateBusy, func(s *session.Session) {
		s.Catalog = nil
		s.Relay = relay
	})
	if err != nil {
		h.transitionFailed(ctx, logger, chatID, err)
		return
	}
	defer h.sessions.Remove(chatID)

	logger = logger.With(zap.String("request", sess.RequestID))
	h.reply(ctx, chatID, h.loc.Format(i18n.KeyDownloading, sess.Title))

	req := model.DownloadRequest{ID: sess.RequestID, URL: sess.URL, FormatID: formatID}
	res, err := h.downloader.Fetch(ctx, req, h.downloader.CheckCredentials(), relay.Handle)
	relay.Close()
	if err != nil {
		h.replyError(ctx, logger, chatID, err)
		return
	}
	// sent once every stream and the merge are done
	h.notify(ctx, chatID, h.loc.Text(i18n.KeyFinished), true)
	h.notify(ctx, chatID, h.loc.Format(i18n.KeySaved, res.Path), true)
}

func (h *Handler) transitionFailed(ctx context.Context, logger *zap.Logger, chatID int64, err error) {
	logger.Error("session transition failed", zap.Error(err))
	h.sessions.Remove(chatID)
	h.reply(ctx, chatID, h.loc.Format(i18n.KeyUnexpectedError, err.Error()))
}

func (h *Handler) replyError(ctx context.Context, logger *zap.Logger, chatID int64, err error) {
	var de *download.Error
	if errors.As(err, &de) {
		logger.Warn("engine reported an error", zap.Error(err))
		h.reply(ctx, chatID, h.loc.Format(i18n.KeyDownloadError, de.Err.Error()))
		return
	}
	logger.Error("unexpected error", zap.Error(err))
	metrics.RequestsTotal.WithLabelValues(metrics.OutcomeUnhandled).Inc()
	h.reply(ctx, chatID, h.loc.Format(i18n.KeyUnexpectedError, err.Error()))
}

func (h *Handler) reply(ctx context.Context, chatID int64, text string) {
	if h.messenger == nil {
		return
	}
	if err := h.messenger.SendText(ctx, chatID, text); err != nil {
		h.logger.Warn("failed to send reply", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// notify sends text after any progress messages already queued for the
// chat. When the queue rejects it, required messages are sent directly and
// progress updates are dropped.
func (h *Handler) notify(ctx context.Context, chatID int64, text string, required bool) {
	if h.notifier == nil {
		if required {
			h.reply(ctx, chatID, text)
		}
		return
	}
	if err := h.notifier.Send(chatID, text); err != nil {
		metrics.NotificationsDroppedTotal.Inc()
		if required {
			h.reply(ctx, chatID, text)
		}
		return
	}
	metrics.NotificationsSentTotal.Inc()
}

func isHTTPURL(text string) bool {
	return strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://")
}

// clock formats d as h:mm:ss
func clock(d time.Duration) string {
	total := int(d.Seconds())
	return fmt.Sprintf("%d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
