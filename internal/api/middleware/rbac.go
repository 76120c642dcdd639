package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pear651530/Meal-Provider/internal/api/handler"
	"github.com/pear651530/Meal-Provider/internal/core/domain"
)

// RequireCapability enforces capability-based access control. Capabilities
// are cumulative, so an admin passes a clerk gate.
func RequireCapability(capability domain.Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, _ := c.Get(handler.SessionKey).(domain.Session)
			if !sess.Capabilities.Allows(capability) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
