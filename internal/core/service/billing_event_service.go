package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pear651530/Meal-Provider/internal/api/metrics"
	"github.com/pear651530/Meal-Provider/internal/core/domain"
	"github.com/pear651530/Meal-Provider/internal/core/ports"
)

// DedupChecker abstracts the idempotency store for billing events.
type DedupChecker interface {
	IsDuplicate(ctx context.Context, userID int64, stamp string) (bool, error)
	Mark(ctx context.Context, userID int64, stamp string) error
}

// SessionRefresher refreshes the notifications of a user's live sessions.
type SessionRefresher interface {
	RefreshUser(ctx context.Context, userID int64) int
}

type billingEventService struct {
	sessions SessionRefresher
	dedup    DedupChecker
	log      zerolog.Logger
}

// NewBillingEventService returns a BillingEventService implementation.
func NewBillingEventService(sessions SessionRefresher, dedup DedupChecker, log zerolog.Logger) ports.BillingEventService {
	return &billingEventService{sessions: sessions, dedup: dedup, log: log}
}

// Process refreshes the notification list of every live session of the billed
// user so the reminder shows up without a new login.
func (s *billingEventService) Process(ctx context.Context, event domain.BillingEvent) error {
	if event.UserID <= 0 {
		metrics.NotificationRefreshTotal.WithLabelValues("dropped").Inc()
		return fmt.Errorf("process billing event: %w", domain.ErrInvalidBillingEvent)
	}

	// Duplicate deliveries are skipped silently.
	isDup, err := s.dedup.IsDuplicate(ctx, event.UserID, event.Timestamp)
	if err != nil {
		s.log.Warn().Err(err).Int64("user_id", event.UserID).Msg("dedup check failed, processing anyway")
	} else if isDup {
		s.log.Debug().Int64("user_id", event.UserID).Str("timestamp", event.Timestamp).Msg("duplicate billing event skipped")
		return nil
	}

	if markErr := s.dedup.Mark(ctx, event.UserID, event.Timestamp); markErr != nil {
		s.log.Warn().Err(markErr).Int64("user_id", event.UserID).Msg("failed to set dedup key")
	}

	refreshed := s.sessions.RefreshUser(ctx, event.UserID)
	if refreshed == 0 {
		metrics.NotificationRefreshTotal.WithLabelValues("no_session").Inc()
	} else {
		metrics.NotificationRefreshTotal.WithLabelValues("refreshed").Add(float64(refreshed))
	}

	s.log.Info().
		Int64("user_id", event.UserID).
		Float64("unpaid_amount", event.UnpaidAmount).
		Int("sessions", refreshed).
		Msg("billing event processed")
	return nil
}
