package telegram

import (
	"context"
	"net/http"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/ykvlv/homework-bot/internal/domain"
)

// Sender is the part of *tgbotapi.BotAPI the notifier needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier delivers plain-text messages to one fixed chat.
type Notifier struct {
	bot    Sender
	chatID string
	log    *zap.Logger
}

// NewNotifier creates a notifier for chatID, which is either a numeric chat id
// or a public channel username such as "@homework".
func NewNotifier(bot Sender, chatID string, log *zap.Logger) *Notifier {
	return &Notifier{bot: bot, chatID: chatID, log: log.Named("telegram")}
}

// NewBot builds a Bot API client without contacting Telegram. endpoint is a
// format string like tgbotapi.APIEndpoint; empty means the public API.
func NewBot(token, endpoint string) *tgbotapi.BotAPI {
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	bot := &tgbotapi.BotAPI{
		Token:  token,
		Client: &http.Client{},
		Buffer: 100,
	}
	bot.SetAPIEndpoint(endpoint)
	return bot
}

func (n *Notifier) message(text string) tgbotapi.MessageConfig {
	if id, err := strconv.ParseInt(n.chatID, 10, 64); err == nil {
		return tgbotapi.NewMessage(id, text)
	}
	return tgbotapi.NewMessageToChannel(n.chatID, text)
}

// SendMessage sends text and returns a KindNotification error on failure.
// A canceled ctx abandons the wait for the Bot API reply.
func (n *Notifier) SendMessage(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return domain.NewError(domain.KindNotification, "Ошибка при отправке сообщения", err)
	}
	done := make(chan error, 1)
	go func() {
		_, err := n.bot.Send(n.message(text))
		done <- err
	}()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}
	if err != nil {
		return domain.NewError(domain.KindNotification, "Ошибка при отправке сообщения", err)
	}
	return nil
}

// Notify sends text and reports whether it was delivered. Failures are only logged.
func (n *Notifier) Notify(ctx context.Context, text string) bool {
	if err := n.SendMessage(ctx, text); err != nil {
		n.log.Error("send failed", zap.Error(err), zap.String("chat_id", n.chatID))
		return false
	}
	n.log.Debug("message sent", zap.String("text", text))
	return true
}
