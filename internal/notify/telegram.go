package notify

import (
	"context"
	"errors"
	"fmt"

	"ambassadord/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// Sender отправка сообщений в Telegram; выделено в интерфейс ради тестов.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier шлет оповещения о помеченных публикациях в чат админов.
// Безопасен при отсутствии конфигурации: вызовы превращаются в no-op.
type TelegramNotifier struct {
	sender Sender
	chatID int64
	logger *zerolog.Logger
}

// NewTelegramNotifier создает нотификатор. Пустой токен допустим:
// возвращается отключенный экземпляр.
func NewTelegramNotifier(token string, chatID int64, logger *zerolog.Logger) (*TelegramNotifier, error) {
	if token == "" || chatID == 0 {
		return &TelegramNotifier{logger: logger}, nil
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram notifier: %w", err)
	}
	return &TelegramNotifier{sender: api, chatID: chatID, logger: logger}, nil
}

// NewTelegramNotifierWithSender используется в тестах.
func NewTelegramNotifierWithSender(sender Sender, chatID int64, logger *zerolog.Logger) *TelegramNotifier {
	return &TelegramNotifier{sender: sender, chatID: chatID, logger: logger}
}

// Enabled сообщает, настроена ли доставка.
func (n *TelegramNotifier) Enabled() bool {
	return n != nil && n.sender != nil && n.chatID != 0
}

// NotifyFlagged отправляет оповещение о подозрительной публикации.
func (n *TelegramNotifier) NotifyFlagged(ctx context.Context, sub *models.Submission) error {
	if !n.Enabled() {
		return nil
	}
	if sub == nil {
		return errors.New("submission is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	text := fmt.Sprintf(
		"Подозрительная публикация %s (регион %s)\n%s\nПричина: %s",
		sub.ID, sub.Region, sub.PostURL, sub.FlaggedReason,
	)

	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.sender.Send(msg); err != nil {
		return fmt.Errorf("send flagged alert for %s: %w", sub.ID, err)
	}

	if n.logger != nil {
		n.logger.Info().Str("submission_id", sub.ID).Msg("flagged alert sent")
	}
	return nil
}
