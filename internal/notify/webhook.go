// Package notify delivers the engine's reputation and notification side
// effects to the surrounding game over a webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/trackside/internal/config"
	"golang.org/x/time/rate"
)

// Event is the webhook payload for a single notification
type Event struct {
	Kind    string `json:"kind"`
	Penalty int    `json:"penalty,omitempty"`
	SeedNPC string `json:"seed_npc,omitempty"`
	Message string `json:"message,omitempty"`
	Tag     string `json:"tag,omitempty"`
}

const (
	kindSubstituteUsed = "substitute_currency_used"
	kindNotableWin     = "notable_win"
	kindAchievement    = "achievement_progress"
)

// WebhookSink posts notification events to a configured URL with retries
// and a client-side rate limit. Delivery is fire-and-forget: the engine
// never blocks on a slow peer, and failed posts are logged and dropped.
type WebhookSink struct {
	url     string
	client  *retryablehttp.Client
	limiter *rate.Limiter
	timeout time.Duration
	logger  *logrus.Logger
}

// NewWebhookSink creates a webhook sink from notify configuration
func NewWebhookSink(cfg *config.NotifyConfig, logger *logrus.Logger) *WebhookSink {
	if logger == nil {
		logger = logrus.New()
	}

	client := retryablehttp.NewClient()
	client.RetryMax = cfg.MaxRetries
	client.RetryWaitMin = 100 * time.Millisecond
	client.RetryWaitMax = 5 * time.Second
	client.Logger = nil

	limit := cfg.RateLimit
	if limit <= 0 {
		limit = 5
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client.HTTPClient.Timeout = timeout

	return &WebhookSink{
		url:     cfg.WebhookURL,
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(limit), 1),
		timeout: timeout,
		logger:  logger,
	}
}

// OnSubstituteCurrencyUsed implements engine.ReputationSink
func (s *WebhookSink) OnSubstituteCurrencyUsed(penalty int) {
	s.post(Event{Kind: kindSubstituteUsed, Penalty: penalty})
}

// OnNotableWin implements engine.ReputationSink
func (s *WebhookSink) OnNotableWin(seedNPC, message string) {
	s.post(Event{Kind: kindNotableWin, SeedNPC: seedNPC, Message: message})
}

// OnAchievementProgress implements engine.ReputationSink
func (s *WebhookSink) OnAchievementProgress(tag string) {
	s.post(Event{Kind: kindAchievement, Tag: tag})
}

func (s *WebhookSink) post(event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.WithError(err).Error("Failed to encode notification event")
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		if err := s.limiter.Wait(ctx); err != nil {
			s.logger.WithError(err).Warn("Notification dropped by rate limiter")
			return
		}

		req, err := retryablehttp.NewRequestWithContext(ctx, "POST", s.url, bytes.NewReader(payload))
		if err != nil {
			s.logger.WithError(err).Error("Failed to build notification request")
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.client.Do(req)
		if err != nil {
			s.logger.WithError(err).WithField("kind", event.Kind).Warn("Notification delivery failed")
			return
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()
}
