package ports

import (
	"context"

	"github.com/travelstay/marketplace-api/internal/core/domain"
)

// AuditRecorder accepts audit events for asynchronous persistence. Record
// must not block the request path.
type AuditRecorder interface {
	Record(event domain.AuditEvent)
}

// AuditService persists a single audit event.
type AuditService interface {
	Process(ctx context.Context, event domain.AuditEvent) error
}

// AuditRepository writes audit events to the audit trail collection.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}
