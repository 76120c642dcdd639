package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/pear651530/Meal-Provider/internal/core/domain"
)

// Context keys set by the Auth middleware.
const (
	SessionKey   = "session"
	SessionIDKey = "sid"
	RoleKey      = "role"
)

// ctxSession extracts the session injected by the Auth middleware and fails
// fast before any service call when the middleware did not run or the
// session carries no identity.
func ctxSession(c echo.Context) (domain.Session, error) {
	sess, ok := c.Get(SessionKey).(domain.Session)
	if !ok || !sess.Authenticated() {
		return domain.Session{}, echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}
	return sess, nil
}

func ctxSessionID(c echo.Context) (string, error) {
	sid, _ := c.Get(SessionIDKey).(string)
	if sid == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}
	return sid, nil
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}
