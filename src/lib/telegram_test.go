package lib

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"brs/src/config"
)

func newTestSender(limit int) (*TelegramSender, *time.Time) {
	now := time.Unix(1700000000, 0)
	sender := NewTelegramSender(config.TelegramConfig{
		BotToken:        "token",
		ChatID:          "chat",
		Enabled:         true,
		MaxRetries:      3,
		RateLimitPerMin: limit,
	})
	sender.now = func() time.Time { return now }
	sender.sleep = func(time.Duration) {}
	return sender, &now
}

func TestRateLimitBlocksAtCapacity(t *testing.T) {
	sender, _ := newTestSender(3)
	assert.True(t, sender.checkRateLimit())
	assert.True(t, sender.checkRateLimit())
	assert.True(t, sender.checkRateLimit())
	assert.False(t, sender.checkRateLimit())
}

func TestRateLimitWindowSlides(t *testing.T) {
	sender, now := newTestSender(2)
	assert.True(t, sender.checkRateLimit())
	assert.True(t, sender.checkRateLimit())
	assert.False(t, sender.checkRateLimit())

	*now = now.Add(61 * time.Second)
	assert.True(t, sender.checkRateLimit())
}

func TestSendBookingAlertDisabledIsNoop(t *testing.T) {
	sender := NewTelegramSender(config.TelegramConfig{Enabled: false})
	assert.Nil(t, sender.SendBookingAlert("hello"))
}

func TestSendBookingAlertMissingConfigIsNoop(t *testing.T) {
	sender := NewTelegramSender(config.TelegramConfig{
		Enabled:         true,
		MaxRetries:      3,
		RateLimitPerMin: 20,
	})
	assert.Nil(t, sender.SendBookingAlert("hello"))
}

func TestEscapeMarkdownV2(t *testing.T) {
	assert.Equal(t, `SRI\-123456`, EscapeMarkdownV2("SRI-123456"))
	assert.Equal(t, `a\.b\!c\*d\_e`, EscapeMarkdownV2("a.b!c*d_e"))
	assert.Equal(t, `plain text`, EscapeMarkdownV2("plain text"))
}

func TestFormatBookingMessageEscapes(t *testing.T) {
	msg := FormatBookingMessage("SRI-000001", "Ann Lee", "+94 77 123", "2026-01-01", "2026-01-05", 9000)
	assert.Contains(t, msg, `SRI\-000001`)
	assert.Contains(t, msg, `2026\-01\-01`)
	assert.Contains(t, msg, `9000\.00`)
}
