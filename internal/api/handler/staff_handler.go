package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pear651530/Meal-Provider/internal/core/domain"
	"github.com/pear651530/Meal-Provider/internal/core/ports"
)

// StaffHandler serves order entry, debt settlement, billing and role
// management.
type StaffHandler struct {
	orders ports.OrderService
	staff  ports.StaffService
}

func NewStaffHandler(orders ports.OrderService, staff ports.StaffService) *StaffHandler {
	return &StaffHandler{orders: orders, staff: staff}
}

// PlaceOrder records a meal for an employee.
//
// @Summary      Place an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      placeOrderRequest  true  "Order"
// @Success      201   {object}  domain.Order
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /orders [post]
func (h *StaffHandler) PlaceOrder(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req placeOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	order, err := h.orders.PlaceOrder(c.Request().Context(), sess, ports.PlaceOrderInput{
		EmployeeID: req.EmployeeID,
		MenuItemID: req.MenuItemID,
		Payment:    domain.PaymentMethod(req.Payment),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, order)
}

// Debts lists employees with an outstanding balance.
//
// @Summary      Outstanding debts
// @Tags         staff
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.UnpaidBalance
// @Failure      403  {object}  errorResponse
// @Router       /staff/debts [get]
func (h *StaffHandler) Debts(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	debts, err := h.staff.Debts(c.Request().Context(), sess)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, debts)
}

// Settle marks every unpaid order of an employee as paid.
//
// @Summary      Settle a debt
// @Tags         staff
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /staff/{id}/settle [put]
func (h *StaffHandler) Settle(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.staff.SettleDebt(c.Request().Context(), sess, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "debt settled"})
}

// SendBilling asks the admin service to notify every employee in debt.
//
// @Summary      Send billing notifications
// @Tags         staff
// @Produce      json
// @Security     BearerAuth
// @Success      202  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /billing/notifications [post]
func (h *StaffHandler) SendBilling(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	sent, err := h.staff.SendBillingNotifications(c.Request().Context(), sess)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, messageResponse{Message: "billing notifications sent", Count: sent})
}

// List returns every account except super admins.
//
// @Summary      List staff
// @Tags         staff
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.StaffMember
// @Failure      403  {object}  errorResponse
// @Router       /staff [get]
func (h *StaffHandler) List(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	staff, err := h.staff.ListStaff(c.Request().Context(), sess)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, staff)
}

// ChangeRole assigns a new role to an account.
//
// @Summary      Change a role
// @Tags         staff
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int          true  "User ID"
// @Param        body  body      roleRequest  true  "New role"
// @Success      200   {object}  domain.StaffMember
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /staff/{id}/role [put]
func (h *StaffHandler) ChangeRole(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req roleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	member, err := h.staff.ChangeRole(c.Request().Context(), sess, id, domain.Role(req.Role))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, member)
}
