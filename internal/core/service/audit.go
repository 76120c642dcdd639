package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/pear651530/Meal-Provider/internal/core/domain"
	"github.com/pear651530/Meal-Provider/internal/core/ports"
)

// auditor writes the audit trail. A failed write is logged and never fails the
// action being audited.
type auditor struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

func (a auditor) record(ctx context.Context, sess domain.Session, action domain.AuditAction, target string, details map[string]any) {
	if a.repo == nil {
		return
	}
	event := domain.AuditEvent{
		Action:    action,
		ActorID:   sess.UserID(),
		ActorName: sess.Username(),
		Target:    target,
		Details:   details,
		At:        time.Now().UTC(),
	}
	if err := a.repo.Record(ctx, event); err != nil {
		a.log.Warn().Err(err).Str("action", string(action)).Str("target", target).Msg("failed to record audit event")
	}
}
