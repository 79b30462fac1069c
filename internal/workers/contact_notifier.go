package workers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"safeTrip/internal/config"
	"safeTrip/internal/domain"
	"safeTrip/internal/metrics"
	"safeTrip/pkg/e"
)

const (
	maxDeliveryAttempts = 3
	popTimeout          = 5 * time.Second
)

type AlertSource interface {
	BRPop(ctx context.Context, timeout time.Duration) (domain.ContactAlert, error)
}

// ContactNotifier drains queued contact alerts and POSTs each one to the notification webhook.
type ContactNotifier struct {
	logger   *slog.Logger
	cfg      config.NotifierConfig
	queue    AlertSource
	http     *http.Client
	poolSize int
	backoff  time.Duration
}

func NewContactNotifier(logger *slog.Logger, cfg config.NotifierConfig, queue AlertSource, poolSize int) *ContactNotifier {
	if poolSize < 1 {
		poolSize = 1
	}
	return &ContactNotifier{
		logger:   logger,
		cfg:      cfg,
		queue:    queue,
		http:     &http.Client{Timeout: 5 * time.Second},
		poolSize: poolSize,
		backoff:  time.Second,
	}
}

// Run blocks until ctx is done and every consumer has returned.
func (n *ContactNotifier) Run(ctx context.Context) {
	n.logger.Info("contact notifier started", slog.String("url", n.cfg.URL), slog.Int("workers", n.poolSize))

	var wg sync.WaitGroup
	for i := 0; i < n.poolSize; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n.consume(ctx)
		}()
	}
	wg.Wait()

	n.logger.Info("contact notifier stopped", slog.Any("reason", ctx.Err()))
}

func (n *ContactNotifier) consume(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		alert, err := n.queue.BRPop(ctx, popTimeout)
		if err != nil {
			if errors.Is(err, e.ErrQueueEmpty) {
				continue
			}
			if errors.Is(err, e.ErrCanceled) || ctx.Err() != nil {
				return
			}
			if errors.Is(err, e.ErrMalformedPayload) {
				n.logger.Warn("skipping undecodable alert", slog.Any("error", err))
				metrics.AlertsSentTotal.WithLabelValues("malformed").Inc()
				continue
			}
			n.logger.Error("alert pop failed", slog.Any("error", err))
			if !sleepCtx(ctx, 500*time.Millisecond) {
				return
			}
			continue
		}

		n.logger.Info("notifying contacts",
			slog.String("request_id", alert.RequestID),
			slog.String("user_id", alert.UserID),
			slog.Int("contacts", alert.Contacts))

		if n.deliver(ctx, alert) {
			metrics.AlertsSentTotal.WithLabelValues("delivered").Inc()
		} else {
			metrics.AlertsSentTotal.WithLabelValues("failed").Inc()
		}
	}
}

func (n *ContactNotifier) deliver(ctx context.Context, alert domain.ContactAlert) bool {
	body, err := json.Marshal(alert)
	if err != nil {
		n.logger.Error("marshal contact alert failed", slog.Any("error", err))
		return false
	}

	for attempt := 1; attempt <= maxDeliveryAttempts; attempt++ {
		if ctx.Err() != nil {
			n.logger.Info("stop retries due to context cancel", slog.String("request_id", alert.RequestID))
			return false
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.URL, bytes.NewReader(body))
		if err != nil {
			n.logger.Error("create notifier request failed", slog.Any("error", err))
			return false
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := n.http.Do(req)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return true
			}
		}

		var reason string
		if err != nil {
			reason = err.Error()
		} else {
			reason = resp.Status
		}
		n.logger.Warn("contact alert delivery failed",
			slog.Int("attempt", attempt),
			slog.String("request_id", alert.RequestID),
			slog.String("reason", reason))

		if attempt < maxDeliveryAttempts && !sleepCtx(ctx, time.Duration(attempt)*n.backoff) {
			return false
		}
	}
	return false
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
