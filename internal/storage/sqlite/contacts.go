package sqlite

import (
	"context"
	"database/sql"
	"log/slog"

	"safeTrip/internal/domain"

	"github.com/google/uuid"
)

type ContactRepo struct {
	db     *sql.DB
	logger *slog.Logger
}

func (r *ContactRepo) Create(ctx context.Context, c *domain.EmergencyContact) error {
	const op = "sqlite.Contact.Create"

	const query = `
		INSERT INTO emergency_contacts (id, user_id, name, phone, relationship, is_primary, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	if _, err := r.db.ExecContext(ctx, query,
		c.ID.String(), c.UserID.String(), c.Name, c.Phone, c.Relationship, c.IsPrimary, formatTime(c.CreatedAt),
	); err != nil {
		r.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err))
		return wrapError(ctx, op, err)
	}
	return nil
}

func (r *ContactRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.EmergencyContact, error) {
	const op = "sqlite.Contact.ListByUser"

	const query = `
		SELECT id, name, phone, relationship, is_primary, created_at
		FROM emergency_contacts
		WHERE user_id = ?
		ORDER BY is_primary DESC, created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID.String())
	if err != nil {
		r.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, wrapError(ctx, op, err)
	}
	defer rows.Close()

	out := make([]domain.EmergencyContact, 0, 4)
	for rows.Next() {
		var (
			c         = domain.EmergencyContact{UserID: userID}
			id        string
			createdAt string
		)
		if err := rows.Scan(&id, &c.Name, &c.Phone, &c.Relationship, &c.IsPrimary, &createdAt); err != nil {
			r.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, wrapError(ctx, op, err)
		}
		if c.ID, err = uuid.Parse(id); err != nil {
			return nil, wrapError(ctx, op, err)
		}
		if c.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, wrapError(ctx, op, err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, wrapError(ctx, op, err)
	}

	return out, nil
}
