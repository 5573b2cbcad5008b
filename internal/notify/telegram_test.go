package notify

import (
	"context"
	"errors"
	"testing"

	"ambassadord/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []tgbotapi.Chattable
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func TestNotifyFlagged(t *testing.T) {
	ctx := context.Background()
	sub := &models.Submission{
		ID:            "sub-1",
		Region:        "europe",
		PostURL:       "https://x.com/u/status/12345678",
		FlaggedReason: "impressions exceed 5x regional average",
	}

	t.Run("Sends", func(t *testing.T) {
		sender := &fakeSender{}
		n := NewTelegramNotifierWithSender(sender, 42, nil)
		require.NoError(t, n.NotifyFlagged(ctx, sub))
		require.Len(t, sender.sent, 1)

		msg, ok := sender.sent[0].(tgbotapi.MessageConfig)
		require.True(t, ok)
		assert.Equal(t, int64(42), msg.ChatID)
		assert.Contains(t, msg.Text, "sub-1")
		assert.Contains(t, msg.Text, "regional average")
	})

	t.Run("DisabledIsNoop", func(t *testing.T) {
		n, err := NewTelegramNotifier("", 0, nil)
		require.NoError(t, err)
		assert.False(t, n.Enabled())
		assert.NoError(t, n.NotifyFlagged(ctx, sub))
	})

	t.Run("SendError", func(t *testing.T) {
		sender := &fakeSender{err: errors.New("telegram down")}
		n := NewTelegramNotifierWithSender(sender, 42, nil)
		assert.Error(t, n.NotifyFlagged(ctx, sub))
	})
}
