package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"safeTrip/internal/domain"
	"safeTrip/pkg/e"

	"github.com/redis/go-redis/v9"
)

// AlertQueue is a FIFO of contact alerts: LPUSH on enqueue, BRPOP on consume.
// Payloads that cannot be decoded are moved to DeadKey.
type AlertQueue struct {
	client *redis.Client
	key    string
	logger *slog.Logger
}

func NewAlertQueue(client *redis.Client, key string, logger *slog.Logger) *AlertQueue {
	return &AlertQueue{client: client, key: key, logger: logger}
}

func (q *AlertQueue) DeadKey() string { return q.key + ":dead" }

func (q *AlertQueue) Enqueue(ctx context.Context, alert domain.ContactAlert) error {
	const op = "redis.AlertQueue.Enqueue"

	b, err := json.Marshal(alert)
	if err != nil {
		return e.Wrap(op, err)
	}
	if err := q.client.LPush(ctx, q.key, b).Err(); err != nil {
		return e.WrapError(ctx, op, err)
	}
	return nil
}

// BRPop waits up to timeout for the oldest alert. e.ErrQueueEmpty means the wait timed out.
func (q *AlertQueue) BRPop(ctx context.Context, timeout time.Duration) (domain.ContactAlert, error) {
	const op = "redis.AlertQueue.BRPop"

	var alert domain.ContactAlert

	res, err := q.client.BRPop(ctx, timeout, q.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return alert, e.ErrQueueEmpty
		}
		return alert, e.WrapError(ctx, op, err)
	}
	if len(res) < 2 {
		return alert, e.ErrQueueEmpty
	}
	if err := json.Unmarshal([]byte(res[1]), &alert); err != nil {
		q.deadLetter(ctx, res[1], err)
		return domain.ContactAlert{}, fmt.Errorf("%s: %v: %w", op, err, e.ErrMalformedPayload)
	}
	return alert, nil
}

func (q *AlertQueue) deadLetter(ctx context.Context, raw string, decodeErr error) {
	q.logger.Error("undecodable contact alert",
		slog.String("key", q.key),
		slog.String("payload", raw),
		slog.Any("error", decodeErr))

	if err := q.client.LPush(ctx, q.DeadKey(), raw).Err(); err != nil {
		q.logger.Error("dead-letter push failed",
			slog.String("key", q.DeadKey()),
			slog.Any("error", err))
	}
}
