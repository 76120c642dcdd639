// Package audit holds the audit trail used when no database is configured.
package audit

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/pear651530/Meal-Provider/internal/core/domain"
	"github.com/pear651530/Meal-Provider/internal/core/ports"
	"github.com/pear651530/Meal-Provider/pkg/logger"
)

// LogRepository writes audit events to the structured log.
type LogRepository struct {
	log zerolog.Logger
}

var _ ports.AuditRepository = LogRepository{}

func NewLogRepository(log zerolog.Logger) LogRepository {
	return LogRepository{log: logger.Component(log, "audit")}
}

func (r LogRepository) Record(_ context.Context, event domain.AuditEvent) error {
	r.log.Info().
		Str("action", string(event.Action)).
		Int64("actor_id", event.ActorID).
		Str("actor_name", event.ActorName).
		Str("target", event.Target).
		Fields(event.Details).
		Time("at", event.At).
		Msg("audit")
	return nil
}
