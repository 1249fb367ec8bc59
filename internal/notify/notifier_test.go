package notify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/plutarco/order-intake/internal/config"
	"github.com/plutarco/order-intake/internal/telegram"
)

type fakeSender struct {
	calls  int
	last   telegram.Message
	status int
	err    error
}

func (f *fakeSender) SendMessage(_ context.Context, msg telegram.Message) (int, error) {
	f.calls++
	f.last = msg
	return f.status, f.err
}

func sampleEvent() OrderCreatedEvent {
	return OrderCreatedEvent{
		OrderID:     "42",
		ProductName: "Yerba 1kg",
		Price:       "1500",
		Email:       "ana@example.com",
		At:          time.Date(2025, 3, 9, 15, 4, 5, 0, time.UTC),
	}
}

func TestTelegramNotifier_Message(t *testing.T) {
	loc, err := time.LoadLocation(config.DefaultNotifyTimezone)
	require.NoError(t, err)

	sender := &fakeSender{status: http.StatusOK}
	n := NewTelegramNotifier(sender, "-1001", loc, config.DefaultNotifyTimeFormat, zap.NewNop())

	require.NoError(t, n.NotifyOrderCreated(context.Background(), sampleEvent()))
	require.Equal(t, 1, sender.calls)
	assert.Equal(t, "-1001", sender.last.ChatID)
	assert.Equal(t, telegram.ParseModeMarkdown, sender.last.ParseMode)
	assert.Equal(t, "🛒 *New order*\n\n"+
		"*Product:* Yerba 1kg\n"+
		"*Price:* 1500\n"+
		"*Email:* ana@example.com\n"+
		"*Order ID:* 42\n"+
		"*Date:* 09/03/2025, 12:04:05", sender.last.Text)
}

func TestTelegramNotifier_EscapesMarkdown(t *testing.T) {
	sender := &fakeSender{status: http.StatusOK}
	n := NewTelegramNotifier(sender, "c", time.UTC, "2006", zap.NewNop())
	evt := sampleEvent()
	evt.Email = "ana_b@example.com"
	evt.ProductName = "*Mate* `x` [set]"

	require.NoError(t, n.NotifyOrderCreated(context.Background(), evt))
	assert.Contains(t, sender.last.Text, `*Email:* ana\_b@example.com`)
	assert.Contains(t, sender.last.Text, "*Product:* \\*Mate\\* \\`x\\` \\[set]")
}

func TestTelegramNotifier_TransportErrorReturned(t *testing.T) {
	sender := &fakeSender{err: errors.New("dial tcp: connection refused")}
	n := NewTelegramNotifier(sender, "c", time.UTC, time.RFC3339, zap.NewNop())

	err := n.NotifyOrderCreated(context.Background(), sampleEvent())
	assert.EqualError(t, err, "dial tcp: connection refused")
}

func TestTelegramNotifier_NonSuccessStatusLogged(t *testing.T) {
	core, recorded := observer.New(zapcore.WarnLevel)
	sender := &fakeSender{status: http.StatusForbidden}
	n := NewTelegramNotifier(sender, "c", time.UTC, time.RFC3339, zap.New(core))

	assert.NoError(t, n.NotifyOrderCreated(context.Background(), sampleEvent()))
	assert.Equal(t, 1, recorded.FilterMessage("telegram rejected order notification").Len())
}

func TestNew_DisabledWithoutSecrets(t *testing.T) {
	cfg := &config.Config{Telegram: config.TelegramConfig{BotToken: "only-token"}}
	assert.IsType(t, Nop{}, New(cfg, nil, zap.NewNop()))
	assert.NoError(t, Nop{}.NotifyOrderCreated(context.Background(), sampleEvent()))
}

func TestNew_TelegramEndToEnd(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		assert.Equal(t, "/botbot-1/sendMessage", r.URL.Path)
	}))
	defer server.Close()

	cfg := &config.Config{
		Telegram: config.TelegramConfig{APIURL: server.URL, BotToken: "bot-1", ChatID: "chat-1"},
		Notify:   config.NotifyConfig{Timezone: "Not/AZone", TimeFormat: time.RFC3339},
	}
	n := New(cfg, server.Client(), zap.NewNop())
	require.IsType(t, &TelegramNotifier{}, n)
	assert.Equal(t, time.UTC, n.(*TelegramNotifier).location)

	require.NoError(t, n.NotifyOrderCreated(context.Background(), sampleEvent()))
	assert.Equal(t, 1, hits)
}
