package domain

import "time"

// AuditEvent records a moderation or promotion action for the audit trail.
// Subject is the entity acted on (listing id or user email) and keys the
// per-subject ordering guarantee in the audit dispatcher.
type AuditEvent struct {
	Subject    string
	Action     string
	Actor      string
	Detail     map[string]string
	OccurredAt time.Time
}

const (
	AuditActionStatusSet = "listing.status_set"
	AuditActionPromoted  = "user.promoted"
)
