// Package notify decouples chat notifications from the goroutines that
// produce them. Progress callbacks run on the download engine's goroutine
// and must never block on the chat transport.
package notify

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrQueueFull is returned when a notification cannot be buffered
var ErrQueueFull = errors.New("notification queue is full")

// ErrClosed is returned after the queue stopped accepting notifications
var ErrClosed = errors.New("notification queue is closed")

// Queue defaults
const (
	DefaultSize = 256
	DefaultRate = 1.0
	burst       = 5
)

// Sender delivers one text message to a chat
type Sender interface {
	SendText(ctx context.Context, chatID int64, text string) error
}

// Notification is one queued chat message
type Notification struct {
	ChatID int64
	Text   string
}

// Queue buffers notifications and delivers them from a single consumer
type Queue struct {
	sender  Sender
	items   chan Notification
	limiter *rate.Limiter
	logger  *zap.Logger

	mu     sync.RWMutex
	closed bool

	// OnDrop is called for every notification rejected by a full buffer
	OnDrop func()
}

// NewQueue creates a queue. perSecond <= 0 disables rate limiting.
func NewQueue(sender Sender, size int, perSecond float64, logger *zap.Logger) *Queue {
	if size <= 0 {
		size = DefaultSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	return &Queue{
		sender:  sender,
		items:   make(chan Notification, size),
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
	}
}

// Send enqueues a notification without blocking
func (q *Queue) Send(chatID int64, text string) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrClosed
	}

	select {
	case q.items <- Notification{ChatID: chatID, Text: text}:
		return nil
	default:
		if q.OnDrop != nil {
			q.OnDrop()
		}
		q.logger.Warn("dropping notification", zap.Int64("chat_id", chatID))
		return ErrQueueFull
	}
}

// Len returns the number of buffered notifications
func (q *Queue) Len() int {
	return len(q.items)
}

// Run delivers notifications until ctx is cancelled, then flushes what is
// already buffered without rate limiting.
func (q *Queue) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			q.close()
			q.flush()
			return
		case n := <-q.items:
			if err := q.limiter.Wait(ctx); err != nil {
				q.deliver(context.Background(), n)
				continue
			}
			q.deliver(ctx, n)
		}
	}
}

func (q *Queue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
}

func (q *Queue) flush() {
	for {
		select {
		case n := <-q.items:
			q.deliver(context.Background(), n)
		default:
			return
		}
	}
}

func (q *Queue) deliver(ctx context.Context, n Notification) {
	if err := q.sender.SendText(ctx, n.ChatID, n.Text); err != nil {
		q.logger.Warn("failed to deliver notification",
			zap.Int64("chat_id", n.ChatID),
			zap.Error(err))
	}
}
