package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// PollTimeout is the long-polling timeout in seconds
const PollTimeout = 60

// Telegram is the Bot API transport
type Telegram struct {
	api    *tgbotapi.BotAPI
	logger *zap.Logger
}

// NewTelegram authorizes with the Bot API
func NewTelegram(token string, logger *zap.Logger) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram authorization failed: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("authorized on telegram", zap.String("account", api.Self.UserName))
	return &Telegram{api: api, logger: logger}, nil
}

// Updates long-polls the Bot API until ctx is cancelled
func (t *Telegram) Updates(ctx context.Context) <-chan Message {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = PollTimeout
	updates := t.api.GetUpdatesChan(u)

	out := make(chan Message)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				t.api.StopReceivingUpdates()
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				msg, ok := messageFromUpdate(update)
				if !ok {
					continue
				}
				select {
				case out <- msg:
				case <-ctx.Done():
					t.api.StopReceivingUpdates()
					return
				}
			}
		}
	}()
	return out
}

// SendText sends a plain text message
func (t *Telegram) SendText(_ context.Context, chatID int64, text string) error {
	if _, err := t.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("send message to %d: %w", chatID, err)
	}
	return nil
}

// messageFromUpdate keeps text messages only
func messageFromUpdate(update tgbotapi.Update) (Message, bool) {
	if update.Message == nil || update.Message.Chat == nil || update.Message.Text == "" {
		return Message{}, false
	}
	msg := Message{
		ChatID: update.Message.Chat.ID,
		Text:   update.Message.Text,
	}
	if update.Message.IsCommand() {
		msg.Command = update.Message.Command()
	}
	return msg, true
}
