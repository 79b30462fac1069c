package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"safeTrip/internal/config"
	"safeTrip/pkg/e"

	"github.com/nats-io/nats.go"
)

type conn interface {
	Publish(subject string, data []byte) error
	Drain() error
}

// Publisher emits domain events on NATS subjects under a common prefix.
type Publisher struct {
	nc     conn
	prefix string
	logger *slog.Logger
}

func Connect(cfg config.NATSConfig, logger *slog.Logger) (*Publisher, error) {
	const op = "events.Connect"

	options := []nats.Option{
		nats.Name("safetrip"),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats disconnected", slog.Any("error", err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", slog.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			logger.Info("nats connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		logger.Error("nats connect failed", slog.String("op", op), slog.String("url", cfg.URL), slog.Any("error", err))
		return nil, e.Wrap(op, err)
	}
	logger.Info("connected to nats", slog.String("url", nc.ConnectedUrl()))

	return newPublisher(nc, cfg.SubjectPrefix, logger), nil
}

func newPublisher(nc conn, prefix string, logger *slog.Logger) *Publisher {
	return &Publisher{nc: nc, prefix: strings.TrimSuffix(prefix, "."), logger: logger}
}

func (p *Publisher) Subject(name string) string {
	if p.prefix == "" {
		return name
	}
	return p.prefix + "." + name
}

// Publish is fire-and-forget; delivery is not confirmed.
func (p *Publisher) Publish(ctx context.Context, subject string, payload any) error {
	const op = "events.Publisher.Publish"

	if err := ctx.Err(); err != nil {
		return e.WrapError(ctx, op, err)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return e.Wrap(op, err)
	}

	full := p.Subject(subject)
	if err := p.nc.Publish(full, data); err != nil {
		p.logger.Error("nats publish failed", slog.String("op", op), slog.String("subject", full), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}
	p.logger.Debug("event published", slog.String("subject", full))
	return nil
}

// Close flushes pending messages before closing the connection.
func (p *Publisher) Close() error {
	return p.nc.Drain()
}
