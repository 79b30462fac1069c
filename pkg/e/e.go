package e

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func Wrap(message string, err error) error {
	return fmt.Errorf("%s: %w", message, err)
}

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrDependency       = errors.New("dependency failure")
	ErrDeadline         = errors.New("deadline exceeded")
	ErrCanceled         = errors.New("context canceled")
	ErrUniqueViolation  = errors.New("unique violation")
	ErrQueueEmpty       = errors.New("alert queue is empty")
	ErrMalformedPayload = errors.New("malformed queue payload")
)

// ValidationError carries the offending field. errors.Is(err, ErrInvalidInput) holds for it.
type ValidationError struct {
	Field  string
	Reason string
}

func (v *ValidationError) Error() string {
	return fmt.Sprintf("invalid input: %s %s", v.Field, v.Reason)
}

func (v *ValidationError) Unwrap() error { return ErrInvalidInput }

func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func WrapError(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, ErrDeadline)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, ErrCanceled)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%s: %w", op, ErrUniqueViolation)
		case "23503", "23514":
			return fmt.Errorf("%s: %w", op, ErrInvalidInput)
		default:
			return fmt.Errorf("%s: pg error %s: %w", op, pgErr.Code, ErrDependency)
		}
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %v: %w", op, err, ErrDependency)
}
