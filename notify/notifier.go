// Package notify delivers fire-and-forget operational notifications.
// Delivery failures are logged and swallowed; they must never fail the
// business operation that triggered them.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Notifier accepts (subject, message) pairs for best-effort delivery.
type Notifier interface {
	Notify(ctx context.Context, subject, message string)
}

type webhookPayload struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Webhook posts notifications as JSON to a configured endpoint.
type Webhook struct {
	url    string
	client *http.Client
	log    zerolog.Logger
}

// NewWebhook builds a webhook notifier. An empty URL yields a no-op sink,
// so callers can wire it unconditionally.
func NewWebhook(url string, log zerolog.Logger) *Webhook {
	return &Webhook{
		url:    url,
		client: &http.Client{Timeout: 5 * time.Second},
		log:    log,
	}
}

func (w *Webhook) Notify(ctx context.Context, subject, message string) {
	if w.url == "" {
		return
	}

	body, err := json.Marshal(webhookPayload{Subject: subject, Message: message})
	if err != nil {
		w.log.Error().Err(err).Str("subject", subject).Msg("notify: marshal payload")
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		w.log.Error().Err(err).Str("subject", subject).Msg("notify: build request")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		w.log.Warn().Err(err).Str("subject", subject).Msg("notify: delivery failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		w.log.Warn().Int("status", resp.StatusCode).Str("subject", subject).Msg("notify: sink rejected message")
	}
}

// Nop discards every notification. Used in tests and when no sink is
// configured.
type Nop struct{}

func (Nop) Notify(ctx context.Context, subject, message string) {}
