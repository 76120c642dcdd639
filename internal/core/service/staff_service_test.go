package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/pear651530/Meal-Provider/internal/core/domain"
	"github.com/pear651530/Meal-Provider/internal/core/ports"
)

type stubOrders struct {
	created  []domain.NewOrder
	settled  map[int64]domain.PaymentStatus
	createFn func(domain.NewOrder) (domain.Order, error)
}

func (o *stubOrders) CreateOrder(_ context.Context, _ string, order domain.NewOrder) (domain.Order, error) {
	o.created = append(o.created, order)
	if o.createFn != nil {
		return o.createFn(order)
	}
	return domain.Order{
		ID:            int64(len(o.created)),
		UserID:        order.UserID,
		PaymentMethod: string(order.PaymentMethod),
		PaymentStatus: order.PaymentMethod.Status(),
		TotalAmount:   order.UnitPrice * float64(order.Quantity),
	}, nil
}

func (o *stubOrders) UpdateUserOrdersStatus(_ context.Context, _ string, userID int64, status domain.PaymentStatus) error {
	if o.settled == nil {
		o.settled = map[int64]domain.PaymentStatus{}
	}
	o.settled[userID] = status
	return nil
}

type stubStaffUsers struct {
	balances []domain.UnpaidBalance
	users    []domain.StaffMember
	roles    map[int64]domain.Role
}

func (u *stubStaffUsers) UnpaidBalances(context.Context, string) ([]domain.UnpaidBalance, error) {
	return u.balances, nil
}

func (u *stubStaffUsers) ListUsers(context.Context, string) ([]domain.StaffMember, error) {
	return u.users, nil
}

func (u *stubStaffUsers) UpdateRole(_ context.Context, _ string, userID int64, role domain.Role) (domain.StaffMember, error) {
	if u.roles == nil {
		u.roles = map[int64]domain.Role{}
	}
	u.roles[userID] = role
	return domain.StaffMember{ID: userID, Role: role}, nil
}

func superAdminSession() domain.Session {
	return domain.Session{
		Profile:      &domain.Profile{ID: 1, Username: "root", Role: domain.RoleSuperAdmin},
		Capabilities: domain.CapabilitiesFor(domain.RoleSuperAdmin),
		BearerToken:  "root-tok",
	}
}

func TestStaffService_DebtsOnlyPositive(t *testing.T) {
	users := &stubStaffUsers{balances: []domain.UnpaidBalance{
		{UserID: 2, UserName: "bob", Amount: 250},
		{UserID: 3, UserName: "carol", Amount: 0},
		{UserID: 4, UserName: "dave", Amount: 40},
	}}
	svc := NewStaffService(users, &stubOrders{}, &stubAdmin{}, nil, zerolog.Nop())

	debts, err := svc.Debts(context.Background(), adminSession())
	if err != nil {
		t.Fatalf("Debts returned error: %v", err)
	}
	if len(debts) != 2 || debts[0].UserID != 2 || debts[1].UserID != 4 {
		t.Fatalf("unexpected debts: %+v", debts)
	}
}

func TestStaffService_SettleDebt(t *testing.T) {
	orders := &stubOrders{}
	audit := &stubAudit{}
	svc := NewStaffService(&stubStaffUsers{}, orders, &stubAdmin{}, audit, zerolog.Nop())

	if err := svc.SettleDebt(context.Background(), adminSession(), 2); err != nil {
		t.Fatalf("SettleDebt returned error: %v", err)
	}
	if orders.settled[2] != domain.PaymentPaid {
		t.Fatalf("expected user 2 settled as paid, got %v", orders.settled)
	}
	if got := audit.actions(); len(got) != 1 || got[0] != domain.AuditDebtSettled {
		t.Fatalf("expected settle audit, got %v", got)
	}
}

func TestStaffService_SendBillingNotifications(t *testing.T) {
	svc := NewStaffService(&stubStaffUsers{}, &stubOrders{}, &stubAdmin{sent: 3}, nil, zerolog.Nop())

	sent, err := svc.SendBillingNotifications(context.Background(), adminSession())
	if err != nil || sent != 3 {
		t.Fatalf("expected 3 sent, got %d (%v)", sent, err)
	}

	failing := NewStaffService(&stubStaffUsers{}, &stubOrders{}, &stubAdmin{sendErr: domain.ErrUpstreamStatus}, nil, zerolog.Nop())
	if _, err := failing.SendBillingNotifications(context.Background(), adminSession()); !errors.Is(err, domain.ErrUpstreamStatus) {
		t.Fatalf("expected ErrUpstreamStatus, got %v", err)
	}
}

func TestStaffService_ListStaffHidesSuperAdmins(t *testing.T) {
	users := &stubStaffUsers{users: []domain.StaffMember{
		{ID: 1, Role: domain.RoleSuperAdmin},
		{ID: 2, Role: domain.RoleAdmin},
		{ID: 3, Role: domain.RoleEmployee},
	}}
	svc := NewStaffService(users, &stubOrders{}, &stubAdmin{}, nil, zerolog.Nop())

	staff, err := svc.ListStaff(context.Background(), superAdminSession())
	if err != nil {
		t.Fatalf("ListStaff returned error: %v", err)
	}
	if len(staff) != 2 {
		t.Fatalf("expected 2 members, got %+v", staff)
	}
	for _, m := range staff {
		if m.Role == domain.RoleSuperAdmin {
			t.Fatalf("super admin leaked into list")
		}
	}
}

func TestStaffService_ChangeRole(t *testing.T) {
	users := &stubStaffUsers{}
	audit := &stubAudit{}
	svc := NewStaffService(users, &stubOrders{}, &stubAdmin{}, audit, zerolog.Nop())
	ctx := context.Background()

	member, err := svc.ChangeRole(ctx, superAdminSession(), 5, domain.RoleClerk)
	if err != nil || member.Role != domain.RoleClerk {
		t.Fatalf("expected clerk, got %+v (%v)", member, err)
	}

	for _, bad := range []domain.Role{domain.RoleSuperAdmin, domain.Role("janitor")} {
		if _, err := svc.ChangeRole(ctx, superAdminSession(), 5, bad); !errors.Is(err, domain.ErrInvalidRole) {
			t.Fatalf("%s: expected ErrInvalidRole, got %v", bad, err)
		}
	}
	if _, err := svc.ChangeRole(ctx, superAdminSession(), 1, domain.RoleEmployee); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for own role, got %v", err)
	}
	if len(users.roles) != 1 || len(audit.actions()) != 1 {
		t.Fatalf("only the valid change should reach upstream and audit: %v %v", users.roles, audit.actions())
	}
}

func TestOrderService_PlaceOrder(t *testing.T) {
	orders := &stubOrders{}
	audit := &stubAudit{}
	svc := NewOrderService(orders, menuFixture(), audit, zerolog.Nop())
	clerk := domain.Session{Profile: &domain.Profile{ID: 9, Role: domain.RoleClerk}, BearerToken: "clerk-tok"}

	order, err := svc.PlaceOrder(context.Background(), clerk, ports.PlaceOrderInput{EmployeeID: 2, MenuItemID: 1, Payment: domain.PaymentCash})
	if err != nil {
		t.Fatalf("PlaceOrder returned error: %v", err)
	}
	if order.PaymentStatus != domain.PaymentPaid || order.TotalAmount != 120 {
		t.Fatalf("unexpected order: %+v", order)
	}

	order, err = svc.PlaceOrder(context.Background(), clerk, ports.PlaceOrderInput{EmployeeID: 2, MenuItemID: 3, Payment: domain.PaymentDebt})
	if err != nil || order.PaymentStatus != domain.PaymentUnpaid {
		t.Fatalf("debt order should be unpaid: %+v (%v)", order, err)
	}
	if orders.created[1].UnitPrice != 90 || orders.created[1].Quantity != 1 {
		t.Fatalf("unexpected upstream order: %+v", orders.created[1])
	}
	if len(audit.actions()) != 2 {
		t.Fatalf("expected 2 audit events, got %v", audit.actions())
	}
}

func TestOrderService_PlaceOrder_Validation(t *testing.T) {
	tests := []struct {
		name string
		in   ports.PlaceOrderInput
		want error
	}{
		{"missing employee", ports.PlaceOrderInput{MenuItemID: 1, Payment: domain.PaymentCash}, domain.ErrFieldsRequired},
		{"missing item", ports.PlaceOrderInput{EmployeeID: 2, Payment: domain.PaymentCash}, domain.ErrFieldsRequired},
		{"bad payment", ports.PlaceOrderInput{EmployeeID: 2, MenuItemID: 1, Payment: "card"}, domain.ErrInvalidPayment},
		{"unavailable item", ports.PlaceOrderInput{EmployeeID: 2, MenuItemID: 2, Payment: domain.PaymentCash}, domain.ErrMenuItemUnavailable},
		{"unknown item", ports.PlaceOrderInput{EmployeeID: 2, MenuItemID: 99, Payment: domain.PaymentCash}, domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := &stubOrders{}
			svc := NewOrderService(orders, menuFixture(), nil, zerolog.Nop())
			if _, err := svc.PlaceOrder(context.Background(), adminSession(), tt.in); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if len(orders.created) != 0 {
				t.Fatalf("rejected order reached the order service")
			}
		})
	}
}
