package lib

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"brs/src/config"
)

// TelegramSender posts booking alerts to the operator chat through the
// Bot API. Sends are rate limited over a sliding window and retried
// with exponential backoff.
type TelegramSender struct {
	cfg        config.TelegramConfig
	httpClient *http.Client
	now        func() time.Time
	sleep      func(time.Duration)

	mu         sync.Mutex
	timestamps []time.Time
}

var telegramSender *TelegramSender

func GetTelegramSender() *TelegramSender {
	if telegramSender == nil {
		telegramSender = NewTelegramSender(config.GetTelegramConfig())
	}
	return telegramSender
}

func NewTelegramSender(cfg config.TelegramConfig) *TelegramSender {
	return &TelegramSender{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		now:        time.Now,
		sleep:      time.Sleep,
	}
}

// checkRateLimit records the send attempt and reports whether it is
// allowed. Timestamps older than a minute fall out of the window.
func (t *TelegramSender) checkRateLimit() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	cutoff := now.Add(-time.Minute)
	kept := t.timestamps[:0]
	for _, ts := range t.timestamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	t.timestamps = kept
	if len(t.timestamps) >= t.cfg.RateLimitPerMin {
		return false
	}
	t.timestamps = append(t.timestamps, now)
	return true
}

func (t *TelegramSender) SendBookingAlert(message string) error {
	if !t.cfg.Enabled {
		log.Println("[telegram] notifications disabled, skipping alert")
		return nil
	}
	if err := t.cfg.Validate(); err != nil {
		log.Printf("[telegram] invalid configuration: %s\n", err.Error())
		return nil
	}
	if !t.checkRateLimit() {
		log.Println("[telegram] rate limit reached, dropping alert")
		return nil
	}
	var lastErr error
	for attempt := 1; attempt <= t.cfg.MaxRetries; attempt++ {
		if err := t.sendMessage(message); err != nil {
			lastErr = err
			log.Printf("[telegram] attempt %d/%d failed: %s\n", attempt, t.cfg.MaxRetries, err.Error())
			if attempt < t.cfg.MaxRetries {
				t.sleep(time.Duration(1<<(attempt-1)) * time.Second)
			}
			continue
		}
		return nil
	}
	return lastErr
}

func (t *TelegramSender) sendMessage(text string) error {
	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", t.cfg.BotToken)
	payload, err := json.Marshal(map[string]any{
		"chat_id":    t.cfg.ChatID,
		"text":       text,
		"parse_mode": "MarkdownV2",
	})
	if err != nil {
		return err
	}
	resp, err := t.httpClient.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("telegram API returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

var markdownV2Escaper = strings.NewReplacer(
	"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(", ")", "\\)",
	"~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#", "+", "\\+", "-", "\\-",
	"=", "\\=", "|", "\\|", "{", "\\{", "}", "\\}", ".", "\\.", "!", "\\!",
)

func EscapeMarkdownV2(s string) string {
	return markdownV2Escaper.Replace(s)
}

func FormatBookingMessage(agreementNo, touristName, phone, startDate, endDate string, total float64) string {
	return fmt.Sprintf(
		"*New Booking* %s\nTourist: %s\nPhone: %s\nPeriod: %s to %s\nTotal: LKR %s",
		EscapeMarkdownV2(agreementNo),
		EscapeMarkdownV2(touristName),
		EscapeMarkdownV2(phone),
		EscapeMarkdownV2(startDate),
		EscapeMarkdownV2(endDate),
		EscapeMarkdownV2(fmt.Sprintf("%.2f", total)),
	)
}
