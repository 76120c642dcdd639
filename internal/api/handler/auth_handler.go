package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/pear651530/Meal-Provider/internal/core/domain"
	"github.com/pear651530/Meal-Provider/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	sessions    ports.SessionService
	newID       func() string
}

func NewAuthHandler(authService ports.AuthService, sessions ports.SessionService) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions, newID: uuid.NewString}
}

// Register creates an employee account in the user service.
//
// @Summary      Register a new employee
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration form"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.authService.Register(c.Request().Context(), toRegistrationInput(req))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, registerResponse{User: user})
}

// Login exchanges credentials with the user service, opens a portal session
// and returns the portal token that identifies it.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	ctx := c.Request().Context()

	upstreamToken, err := h.authService.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return err
	}

	sid := h.newID()
	profile := h.sessions.Login(ctx, sid, upstreamToken)
	if profile == nil {
		msg := h.sessions.LoginError(sid)
		if msg == "" {
			msg = domain.ErrLoginFailed.Error()
		}
		_ = h.sessions.Logout(ctx, sid)
		return echo.NewHTTPError(http.StatusUnauthorized, msg).SetInternal(domain.ErrLoginFailed)
	}

	token, err := h.authService.IssueToken(sid)
	if err != nil {
		_ = h.sessions.Logout(ctx, sid)
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{
		Token:        token,
		User:         profile,
		Capabilities: domain.CapabilitiesFor(profile.Role),
	})
}

// Logout clears the caller's session.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	sid, err := ctxSessionID(c)
	if err != nil {
		return err
	}
	if err := h.sessions.Logout(c.Request().Context(), sid); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "logged out"})
}
