package bot

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Transport is a chat network: an inbound message stream and replies
type Transport interface {
	Messenger
	Updates(ctx context.Context) <-chan Message
}

// MessageHandler processes one inbound message
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg Message)
}

// Bot pulls messages from a transport and dispatches them to the handler
type Bot struct {
	transport     Transport
	handler       MessageHandler
	maxConcurrent int
	logger        *zap.Logger
}

// New creates a bot. maxConcurrent <= 1 handles messages strictly in order.
func New(transport Transport, handler MessageHandler, maxConcurrent int, logger *zap.Logger) *Bot {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bot{
		transport:     transport,
		handler:       handler,
		maxConcurrent: maxConcurrent,
		logger:        logger,
	}
}

// Run serves until ctx is cancelled or the update stream ends.
// It returns after every in-flight message handler finished.
func (b *Bot) Run(ctx context.Context) error {
	updates := b.transport.Updates(ctx)
	b.logger.Info("bot started", zap.Int("max_concurrent_chats", b.maxConcurrent))

	if b.maxConcurrent == 1 {
		for {
			select {
			case <-ctx.Done():
				b.logger.Info("bot stopped")
				return nil
			case msg, ok := <-updates:
				if !ok {
					return nil
				}
				b.handler.HandleMessage(ctx, msg)
			}
		}
	}

	sem := make(chan struct{}, b.maxConcurrent)
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("bot stopped, waiting for running handlers")
			return nil
		case msg, ok := <-updates:
			if !ok {
				return nil
			}
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return nil
			}
			wg.Add(1)
			go func(msg Message) {
				defer func() {
					<-sem
					wg.Done()
				}()
				b.handler.HandleMessage(ctx, msg)
			}(msg)
		}
	}
}
