package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"go.uber.org/zap"
)

// TelegramSender sends replies through the Bot API.
type TelegramSender struct {
	api *tgbotapi.BotAPI
}

func NewTelegramSender(api *tgbotapi.BotAPI) *TelegramSender {
	return &TelegramSender{api: api}
}

func (s *TelegramSender) Send(_ context.Context, chatID int64, text string) error {
	_, err := s.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

// Check calls getMe and returns the bot username. Nothing is sent to users.
func Check(api *tgbotapi.BotAPI) (string, error) {
	me, err := api.GetMe()
	if err != nil {
		return "", fmt.Errorf("getMe: %w", err)
	}
	return me.UserName, nil
}

// テキストのないupdate（写真やスタンプ）はnil
func fromTelegram(m *tgbotapi.Message) *Message {
	if m == nil || m.Chat == nil || m.Text == "" {
		return nil
	}
	msg := &Message{
		ChatID: m.Chat.ID,
		UserID: m.Chat.ID,
		Text:   m.Text,
	}
	if m.From != nil {
		msg.UserID = int64(m.From.ID)
		msg.Username = m.From.UserName
		msg.FirstName = m.From.FirstName
	}
	return msg
}

// Poll runs long polling until ctx is done. Updates are handled one at a time.
// The library's getUpdates goroutine is stopped on return, so Poll must be
// called at most once per api.
func (b *Bot) Poll(ctx context.Context, api *tgbotapi.BotAPI, timeoutSec int) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeoutSec

	updates, err := api.GetUpdatesChan(u)
	if err != nil {
		return fmt.Errorf("get updates: %w", err)
	}
	b.log.Info("bot polling started", zap.String("bot", api.Self.UserName), zap.Int("timeout", timeoutSec))

	for {
		select {
		case <-ctx.Done():
			api.StopReceivingUpdates()
			b.log.Info("bot polling stopped")
			return nil
		case upd, ok := <-updates:
			if !ok {
				api.StopReceivingUpdates()
				return nil
			}
			msg := fromTelegram(upd.Message)
			if msg == nil {
				continue
			}
			// 送信失敗はHandle内でログ済み。ループは止めない
			_ = b.Handle(ctx, *msg)
		}
	}
}
