package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/HridhimaDabhade/tpem-project/internal/domain"
	"github.com/HridhimaDabhade/tpem-project/internal/store"
	"github.com/google/uuid"
)

// AuditRecorder appends audit entries on a best-effort basis: a failed write
// is logged and never fails the mutation it accompanies.
type AuditRecorder struct {
	logs store.AuditLogs
	log  *slog.Logger
	now  func() time.Time
}

func NewAuditRecorder(logs store.AuditLogs, log *slog.Logger, now func() time.Time) *AuditRecorder {
	if now == nil {
		now = time.Now
	}
	return &AuditRecorder{logs: logs, log: log, now: now}
}

// Record appends one entry. A nil actor records a system action.
func (r *AuditRecorder) Record(ctx context.Context, actor *domain.Actor, action domain.AuditAction, resourceType, resourceID string, details map[string]any) {
	entry := domain.AuditEntry{
		ID:           uuid.NewString(),
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      details,
		CreatedAt:    r.now().UTC(),
	}
	if actor != nil && actor.ID != "" {
		id := actor.ID
		entry.ActorID = &id
	}
	if err := r.logs.AppendAudit(ctx, entry); err != nil {
		r.log.Error("audit write failed",
			slog.String("action", string(action)),
			slog.String("resource_id", resourceID),
			slog.String("error", err.Error()))
	}
}

func (r *AuditRecorder) List(ctx context.Context, filter store.AuditFilter) ([]domain.AuditEntry, error) {
	return r.logs.ListAudit(ctx, filter)
}

func authorize(actor domain.Actor, roles ...domain.Role) error {
	if actor.ID == "" {
		return domain.NewError(domain.KindUnauthorized, "not authenticated", nil)
	}
	if !actor.HasRole(roles...) {
		return domain.Forbidden("insufficient permissions")
	}
	return nil
}
