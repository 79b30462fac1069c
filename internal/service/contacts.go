package service

import (
	"context"
	"log/slog"

	"safeTrip/internal/domain"
	"safeTrip/pkg/e"
)

type contactService struct {
	repo   ContactRepository
	logger *slog.Logger
}

func NewContactService(repo ContactRepository, logger *slog.Logger) ContactService {
	return &contactService{repo: repo, logger: logger}
}

// ListContacts returns the caller's contacts, primary first.
func (s *contactService) ListContacts(ctx context.Context, userID string) ([]domain.EmergencyContact, error) {
	const op = "service.ContactService.ListContacts"

	id, err := identity(userID)
	if err != nil {
		return nil, err
	}

	contacts, err := s.repo.ListByUser(ctx, id)
	if err != nil {
		s.logger.Error("contacts lookup failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.Wrap(op, err)
	}
	if contacts == nil {
		contacts = []domain.EmergencyContact{}
	}
	return contacts, nil
}
