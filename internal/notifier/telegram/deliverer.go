package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/riskibarqy/value-radar/internal/domain/notification"
	"github.com/riskibarqy/value-radar/internal/platform/logging"
	"github.com/riskibarqy/value-radar/internal/usecase"
)

// Deliverer pushes messages to one Telegram chat. Send succeeds only when
// the API returned a message id; every other path is an explicit error so
// the caller never records an unconfirmed delivery.
type Deliverer struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	log    *logging.Logger
	now    func() time.Time
}

func NewDeliverer(token string, chatID int64, log *logging.Logger) (*Deliverer, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("telegram token is required")
	}
	if chatID == 0 {
		return nil, fmt.Errorf("telegram chat id is required")
	}
	if log == nil {
		log = logging.Default()
	}

	// NewBotAPI verifies the token against getMe before returning.
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}

	return &Deliverer{
		bot:    bot,
		chatID: chatID,
		log:    log.Named("telegram"),
		now:    time.Now,
	}, nil
}

func (d *Deliverer) Send(ctx context.Context, msg usecase.AlertMessage) (usecase.DeliveryReceipt, error) {
	if err := ctx.Err(); err != nil {
		return usecase.DeliveryReceipt{}, err
	}
	if strings.TrimSpace(msg.Text) == "" {
		return usecase.DeliveryReceipt{}, fmt.Errorf("empty message")
	}

	out := tgbotapi.NewMessage(d.chatID, msg.Text)
	out.ParseMode = tgbotapi.ModeHTML
	out.DisableWebPagePreview = true

	sent, err := d.bot.Send(out)
	if err != nil {
		return usecase.DeliveryReceipt{}, fmt.Errorf("telegram send: %w", err)
	}
	if sent.MessageID == 0 {
		return usecase.DeliveryReceipt{}, fmt.Errorf("telegram returned no message id")
	}

	return usecase.DeliveryReceipt{
		MessageID: int64(sent.MessageID),
		Channel:   notification.ChannelTelegram,
		SentAt:    d.now().UTC(),
	}, nil
}
