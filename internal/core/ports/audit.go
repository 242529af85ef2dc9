package ports

import (
	"context"
	"time"

	"github.com/coveradmin/insurance-portal/internal/core/domain"
)

// AuditEvent is one entry in the authentication audit trail.
type AuditEvent struct {
	Type     domain.AuditEventType
	Email    string
	Role     string
	RemoteIP string
	Reason   string
	At       time.Time
}

// AuditSink persists audit events. Implementations: Mongo repository,
// zerolog fallback.
type AuditSink interface {
	Record(ctx context.Context, event AuditEvent) error
}

// AuditService processes audit events dequeued by the dispatcher workers.
type AuditService interface {
	Process(ctx context.Context, event AuditEvent) error
}
