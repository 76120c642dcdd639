package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pear651530/Meal-Provider/internal/core/domain"
	"github.com/pear651530/Meal-Provider/internal/core/ports"
)

// MenuHandler serves today's meals and the menu administration screens.
type MenuHandler struct {
	service ports.MenuService
}

func NewMenuHandler(service ports.MenuService) *MenuHandler {
	return &MenuHandler{service: service}
}

// Today lists the meals available today with their recommendation rate.
//
// @Summary      Today's meals
// @Tags         menu
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   mealCardResponse
// @Failure      401  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /meals/today [get]
func (h *MenuHandler) Today(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	cards, err := h.service.TodayMeals(c.Request().Context(), sess)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMealCards(cards))
}

// Board returns every menu item split into today's meals and the rest.
//
// @Summary      Menu board
// @Tags         menu
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  menuBoardResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /menu [get]
func (h *MenuHandler) Board(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	board, err := h.service.Board(c.Request().Context(), sess)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, menuBoardResponse{
		Today:  toMealCards(board.Today),
		Others: toMealCards(board.Others),
	})
}

// Create adds a menu item.
//
// @Summary      Create a menu item
// @Tags         menu
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      menuItemRequest  true  "Menu item"
// @Success      201   {object}  domain.MenuItem
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /menu [post]
func (h *MenuHandler) Create(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	req, err := bindMenuItem(c)
	if err != nil {
		return err
	}

	item, err := h.service.CreateItem(c.Request().Context(), sess, toMenuItemInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, item)
}

// Update replaces a menu item's fields.
//
// @Summary      Update a menu item
// @Tags         menu
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int              true  "Menu item ID"
// @Param        body  body      menuItemRequest  true  "Menu item"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /menu/{id} [put]
func (h *MenuHandler) Update(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	req, err := bindMenuItem(c)
	if err != nil {
		return err
	}

	if err := h.service.UpdateItem(c.Request().Context(), sess, id, toMenuItemInput(req)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "menu item updated"})
}

// Delete removes a menu item.
//
// @Summary      Delete a menu item
// @Tags         menu
// @Security     BearerAuth
// @Param        id   path  int  true  "Menu item ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /menu/{id} [delete]
func (h *MenuHandler) Delete(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.service.DeleteItem(c.Request().Context(), sess, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ToggleAvailability flips whether a menu item is served today.
//
// @Summary      Toggle availability
// @Tags         menu
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Menu item ID"
// @Success      200  {object}  domain.MenuItem
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /menu/{id}/availability [put]
func (h *MenuHandler) ToggleAvailability(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	item, err := h.service.ToggleAvailability(c.Request().Context(), sess, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// Report streams the analytics CSV for the requested period.
//
// @Summary      Download analytics report
// @Tags         reports
// @Produce      text/csv
// @Security     BearerAuth
// @Param        period  query     string  true  "daily, weekly or monthly"
// @Success      200     {file}    file
// @Failure      400     {object}  errorResponse
// @Failure      403     {object}  errorResponse
// @Failure      502     {object}  errorResponse
// @Router       /reports/analytics [get]
func (h *MenuHandler) Report(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	period, err := domain.ParseReportPeriod(c.QueryParam("period"))
	if err != nil {
		return err
	}

	body, err := h.service.ExportReport(c.Request().Context(), sess, period)
	if err != nil {
		return err
	}
	defer body.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", period.Filename()))
	return c.Stream(http.StatusOK, "text/csv", body)
}

func bindMenuItem(c echo.Context) (menuItemRequest, error) {
	var req menuItemRequest
	if err := c.Bind(&req); err != nil {
		return req, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return req, echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return req, nil
}
