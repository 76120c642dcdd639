package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pear651530/Meal-Provider/internal/core/domain"
	"github.com/pear651530/Meal-Provider/internal/core/ports"
)

type orderService struct {
	orders ports.OrderClient
	menu   MenuLookup
	audit  auditor
	log    zerolog.Logger
}

// NewOrderService returns an OrderService implementation.
func NewOrderService(orders ports.OrderClient, menu MenuLookup, audit ports.AuditRepository, log zerolog.Logger) ports.OrderService {
	return &orderService{
		orders: orders,
		menu:   menu,
		audit:  auditor{repo: audit, log: log},
		log:    log,
	}
}

// PlaceOrder records one portion of a menu item for an employee. Cash orders
// start paid, debt orders start unpaid.
func (s *orderService) PlaceOrder(ctx context.Context, sess domain.Session, in ports.PlaceOrderInput) (domain.Order, error) {
	if in.EmployeeID <= 0 || in.MenuItemID <= 0 {
		return domain.Order{}, domain.ErrFieldsRequired
	}
	if _, err := domain.ParsePaymentMethod(string(in.Payment)); err != nil {
		return domain.Order{}, err
	}

	item, err := s.menu.MenuItem(ctx, sess.BearerToken, in.MenuItemID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("place order: %w", err)
	}
	if !item.IsAvailable {
		return domain.Order{}, domain.ErrMenuItemUnavailable
	}

	order, err := s.orders.CreateOrder(ctx, sess.BearerToken, domain.NewOrder{
		UserID:        in.EmployeeID,
		MenuItemID:    item.ID,
		Quantity:      1,
		UnitPrice:     item.Price,
		PaymentMethod: in.Payment,
	})
	if err != nil {
		return domain.Order{}, fmt.Errorf("place order: %w", err)
	}

	s.audit.record(ctx, sess, domain.AuditOrderPlaced, userTarget(in.EmployeeID), map[string]any{
		"order_id":     order.ID,
		"menu_item_id": item.ID,
		"payment":      string(in.Payment),
	})
	s.log.Info().
		Int64("order_id", order.ID).
		Int64("user_id", in.EmployeeID).
		Int64("menu_item_id", item.ID).
		Str("payment", string(in.Payment)).
		Msg("order placed")
	return order, nil
}
