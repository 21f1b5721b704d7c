package ports

import (
	"context"

	"github.com/conectar/admin-api/internal/core/domain"
)

// AuditRepository persists audit events. Append-only; there is no read path
// in this service.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}

// AuditSink accepts audit events for asynchronous recording. Record never
// blocks the request path on persistence and never returns an error; a lost
// audit write is logged by the sink, not surfaced to the caller.
type AuditSink interface {
	Record(event domain.AuditEvent)
}
