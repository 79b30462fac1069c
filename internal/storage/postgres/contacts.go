package postgres

import (
	"context"
	"log/slog"

	"safeTrip/internal/domain"
	"safeTrip/pkg/e"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ContactRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewContactRepo(pool *pgxpool.Pool, logger *slog.Logger) *ContactRepo {
	return &ContactRepo{pool: pool, logger: logger}
}

func (p *ContactRepo) Create(ctx context.Context, c *domain.EmergencyContact) error {
	const op = "postgres.Contact.Create"

	const query = `
		INSERT INTO emergency_contacts (id, user_id, name, phone, relationship, is_primary, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if _, err := p.pool.Exec(ctx, query,
		c.ID, c.UserID, c.Name, c.Phone, c.Relationship, c.IsPrimary, c.CreatedAt,
	); err != nil {
		p.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}
	return nil
}

func (p *ContactRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.EmergencyContact, error) {
	const op = "postgres.Contact.ListByUser"

	const query = `
		SELECT id, user_id, name, phone, relationship, is_primary, created_at
		FROM emergency_contacts
		WHERE user_id = $1
		ORDER BY is_primary DESC, created_at ASC
	`

	rows, err := p.pool.Query(ctx, query, userID)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	contacts, err := pgx.CollectRows(rows, pgx.RowToStructByPos[domain.EmergencyContact])
	if err != nil {
		p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return contacts, nil
}
