package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pear651530/Meal-Provider/internal/core/ports"
)

// SessionHandler exposes the caller's own session.
type SessionHandler struct {
	sessions ports.SessionService
}

func NewSessionHandler(sessions ports.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Me returns the caller's profile, capabilities and unread notifications.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  meResponse
// @Failure      401  {object}  errorResponse
// @Router       /me [get]
func (h *SessionHandler) Me(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMeResponse(sess))
}

// MarkNotificationRead marks one notification read and returns the session
// with it removed.
//
// @Summary      Mark a notification read
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Notification ID"
// @Success      200  {object}  meResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /me/notifications/{id}/read [put]
func (h *SessionHandler) MarkNotificationRead(c echo.Context) error {
	sid, err := ctxSessionID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	if err := h.sessions.MarkNotificationRead(ctx, sid, id); err != nil {
		return err
	}
	sess, err := h.sessions.Session(ctx, sid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMeResponse(sess))
}
