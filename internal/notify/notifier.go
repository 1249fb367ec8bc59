package notify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
	_ "time/tzdata" // Lambda runtimes may ship without zoneinfo

	"go.uber.org/zap"

	"github.com/plutarco/order-intake/internal/config"
	"github.com/plutarco/order-intake/internal/telegram"
)

// OrderCreatedEvent carries what a notification shows about a stored order.
type OrderCreatedEvent struct {
	OrderID     string
	ProductName string
	Price       string
	Email       string
	At          time.Time
}

// Notifier announces newly stored orders.
type Notifier interface {
	NotifyOrderCreated(ctx context.Context, evt OrderCreatedEvent) error
}

// Nop is used when no chat credentials are configured.
type Nop struct{}

func (Nop) NotifyOrderCreated(context.Context, OrderCreatedEvent) error { return nil }

// Sender is the part of the Telegram client the notifier needs.
type Sender interface {
	SendMessage(ctx context.Context, msg telegram.Message) (int, error)
}

// TelegramNotifier posts a Markdown summary of each order to one chat.
type TelegramNotifier struct {
	sender     Sender
	chatID     string
	location   *time.Location
	timeFormat string
	logger     *zap.Logger
}

// NewTelegramNotifier builds a notifier for chatID. Timestamps are rendered
// in loc using timeFormat.
func NewTelegramNotifier(sender Sender, chatID string, loc *time.Location, timeFormat string, logger *zap.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		sender:     sender,
		chatID:     chatID,
		location:   loc,
		timeFormat: timeFormat,
		logger:     logger,
	}
}

// New returns a Telegram notifier when both chat secrets are configured and
// Nop otherwise.
func New(cfg *config.Config, httpClient *http.Client, logger *zap.Logger) Notifier {
	if !cfg.Telegram.NotifyEnabled() {
		logger.Info("order notifications disabled: TG_BOT_TOKEN or TG_CHAT_ID not set")
		return Nop{}
	}

	loc, err := time.LoadLocation(cfg.Notify.Timezone)
	if err != nil {
		logger.Warn("unknown notification timezone, using UTC",
			zap.String("timezone", cfg.Notify.Timezone), zap.Error(err))
		loc = time.UTC
	}

	client := telegram.NewClient(cfg.Telegram.APIURL, cfg.Telegram.BotToken, httpClient)
	return NewTelegramNotifier(client, cfg.Telegram.ChatID, loc, cfg.Notify.TimeFormat, logger)
}

// NotifyOrderCreated sends the order summary. A non-2xx answer from Telegram
// is logged but not returned.
func (n *TelegramNotifier) NotifyOrderCreated(ctx context.Context, evt OrderCreatedEvent) error {
	status, err := n.sender.SendMessage(ctx, telegram.Message{
		ChatID:    n.chatID,
		Text:      n.format(evt),
		ParseMode: telegram.ParseModeMarkdown,
	})
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		n.logger.Warn("telegram rejected order notification",
			zap.Int("status", status), zap.String("order_id", evt.OrderID))
	}
	return nil
}

// markdownEscaper escapes the entities of Telegram's legacy Markdown mode.
var markdownEscaper = strings.NewReplacer(
	"_", `\_`,
	"*", `\*`,
	"`", "\\`",
	"[", `\[`,
)

func (n *TelegramNotifier) format(evt OrderCreatedEvent) string {
	return fmt.Sprintf("🛒 *New order*\n\n"+
		"*Product:* %s\n"+
		"*Price:* %s\n"+
		"*Email:* %s\n"+
		"*Order ID:* %s\n"+
		"*Date:* %s",
		markdownEscaper.Replace(evt.ProductName),
		markdownEscaper.Replace(evt.Price),
		markdownEscaper.Replace(evt.Email),
		markdownEscaper.Replace(evt.OrderID),
		evt.At.In(n.location).Format(n.timeFormat))
}
