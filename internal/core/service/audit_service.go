package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/travelstay/marketplace-api/internal/core/domain"
	"github.com/travelstay/marketplace-api/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService that persists events to the audit
// trail collection.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Process persists a single audit event.
func (s *auditService) Process(ctx context.Context, event domain.AuditEvent) error {
	if err := s.repo.Insert(ctx, &event); err != nil {
		return fmt.Errorf("audit insert: %w", err)
	}

	s.log.Debug().
		Str("subject", event.Subject).
		Str("action", event.Action).
		Str("actor", event.Actor).
		Msg("audit event recorded")

	return nil
}
