package service

import (
	"context"
	"log"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"

	"library_backend/internals/configs"
)

// Notifier fire-and-forget: tidak pernah mengembalikan error ke pemanggil.
type Notifier interface {
	Notify(ctx context.Context, message string)
}

// NewNotifier memilih Telegram kalau token & chat id ada, selain itu no-op.
func NewNotifier(cfg configs.Config) Notifier {
	if !cfg.NotificationsEnabled() {
		return NoopNotifier{}
	}
	return NewTelegramNotifier(cfg.TelegramAPIBase, cfg.TelegramBotToken, cfg.TelegramChatID, cfg.TelegramTimeout)
}

type NoopNotifier struct{}

func (NoopNotifier) Notify(ctx context.Context, message string) {
	log.Printf("[Notifier] disabled, dropping message: %s", message)
}

type TelegramNotifier struct {
	url     string
	chatID  string
	timeout time.Duration
}

type telegramMessage struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

func NewTelegramNotifier(apiBase, token, chatID string, timeout time.Duration) *TelegramNotifier {
	if timeout <= 0 {
		timeout = configs.DefaultTelegramTimeout
	}
	return &TelegramNotifier{
		url:     apiBase + "/bot" + token + "/sendMessage",
		chatID:  chatID,
		timeout: timeout,
	}
}

// Notify blocking: pemanggil menunggu paling lama effectiveTimeout.
func (n *TelegramNotifier) Notify(ctx context.Context, message string) {
	if ctx != nil && ctx.Err() != nil {
		log.Printf("[Notifier] context done, skip message: %v", ctx.Err())
		return
	}

	agent := fiber.Post(n.url).
		JSONEncoder(sonic.Marshal).
		Timeout(n.effectiveTimeout(ctx)).
		JSON(telegramMessage{ChatID: n.chatID, Text: message})

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		log.Printf("[Notifier] ERROR telegram send: %v", errs[0])
		return
	}
	if code < 200 || code >= 300 {
		log.Printf("[Notifier] ERROR telegram status=%d body=%s", code, truncate(body, 200))
		return
	}
	log.Printf("[Notifier] sent: %s", message)
}

// effectiveTimeout: yang lebih pendek antara timeout notifier dan sisa deadline ctx.
func (n *TelegramNotifier) effectiveTimeout(ctx context.Context) time.Duration {
	if ctx == nil {
		return n.timeout
	}
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left > 0 && left < n.timeout {
			return left
		}
	}
	return n.timeout
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
