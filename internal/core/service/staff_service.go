package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/pear651530/Meal-Provider/internal/core/domain"
	"github.com/pear651530/Meal-Provider/internal/core/ports"
)

// StaffUpstream is the slice of the user service staff management needs.
type StaffUpstream interface {
	UnpaidBalances(ctx context.Context, token string) ([]domain.UnpaidBalance, error)
	ListUsers(ctx context.Context, token string) ([]domain.StaffMember, error)
	UpdateRole(ctx context.Context, token string, userID int64, role domain.Role) (domain.StaffMember, error)
}

// BillingSender dispatches billing reminders.
type BillingSender interface {
	SendBillingNotifications(ctx context.Context, token string) (int, error)
}

type staffService struct {
	users   StaffUpstream
	orders  ports.OrderClient
	billing BillingSender
	audit   auditor
	log     zerolog.Logger
}

// NewStaffService returns a StaffService implementation.
func NewStaffService(users StaffUpstream, orders ports.OrderClient, billing BillingSender, audit ports.AuditRepository, log zerolog.Logger) ports.StaffService {
	return &staffService{
		users:   users,
		orders:  orders,
		billing: billing,
		audit:   auditor{repo: audit, log: log},
		log:     log,
	}
}

// Debts lists the users who currently owe money.
func (s *staffService) Debts(ctx context.Context, sess domain.Session) ([]domain.UnpaidBalance, error) {
	balances, err := s.users.UnpaidBalances(ctx, sess.BearerToken)
	if err != nil {
		return nil, fmt.Errorf("unpaid balances: %w", err)
	}
	out := make([]domain.UnpaidBalance, 0, len(balances))
	for _, b := range balances {
		if b.Amount > 0 {
			out = append(out, b)
		}
	}
	return out, nil
}

// SettleDebt marks every order of userID as paid.
func (s *staffService) SettleDebt(ctx context.Context, sess domain.Session, userID int64) error {
	if err := s.orders.UpdateUserOrdersStatus(ctx, sess.BearerToken, userID, domain.PaymentPaid); err != nil {
		return fmt.Errorf("settle debt of user %d: %w", userID, err)
	}
	s.audit.record(ctx, sess, domain.AuditDebtSettled, userTarget(userID), nil)
	s.log.Info().Int64("user_id", userID).Int64("actor_id", sess.UserID()).Msg("debt settled")
	return nil
}

// SendBillingNotifications asks the admin service to remind every debtor and
// returns how many reminders were sent.
func (s *staffService) SendBillingNotifications(ctx context.Context, sess domain.Session) (int, error) {
	sent, err := s.billing.SendBillingNotifications(ctx, sess.BearerToken)
	if err != nil {
		return 0, fmt.Errorf("send billing notifications: %w", err)
	}
	s.audit.record(ctx, sess, domain.AuditBillingDispatched, "billing", map[string]any{"sent": sent})
	return sent, nil
}

// ListStaff lists every account except super admins.
func (s *staffService) ListStaff(ctx context.Context, sess domain.Session) ([]domain.StaffMember, error) {
	users, err := s.users.ListUsers(ctx, sess.BearerToken)
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	out := make([]domain.StaffMember, 0, len(users))
	for _, u := range users {
		if u.Role != domain.RoleSuperAdmin {
			out = append(out, u)
		}
	}
	return out, nil
}

// ChangeRole assigns role to userID. Super admin cannot be granted here.
func (s *staffService) ChangeRole(ctx context.Context, sess domain.Session, userID int64, role domain.Role) (domain.StaffMember, error) {
	if !role.Valid() || role == domain.RoleSuperAdmin {
		return domain.StaffMember{}, domain.ErrInvalidRole
	}
	if userID == sess.UserID() {
		return domain.StaffMember{}, fmt.Errorf("change own role: %w", domain.ErrForbidden)
	}

	member, err := s.users.UpdateRole(ctx, sess.BearerToken, userID, role)
	if err != nil {
		return domain.StaffMember{}, fmt.Errorf("change role of user %d: %w", userID, err)
	}
	s.audit.record(ctx, sess, domain.AuditRoleChanged, userTarget(userID), map[string]any{"role": string(role)})
	return member, nil
}

func userTarget(id int64) string {
	return "user:" + strconv.FormatInt(id, 10)
}
