package domain

import "errors"

var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("access forbidden")
	ErrNotFound            = errors.New("resource not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserExists          = errors.New("user already exists")
	ErrUpstreamStatus      = errors.New("upstream returned an error status")
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")
	ErrNotLoggedIn         = errors.New("not logged in")
	ErrSessionExpired      = errors.New("session expired")
	ErrLoginFailed         = errors.New("login failed: could not retrieve user profile")

	ErrFieldsRequired      = errors.New("all fields are required")
	ErrPasswordMismatch    = errors.New("password and confirmation do not match")
	ErrInvalidReportPeriod = errors.New("report period must be one of: daily, weekly, monthly")
	ErrInvalidRole         = errors.New("invalid role")
	ErrInvalidPayment      = errors.New("payment must be one of: cash, debt")
	ErrInvalidVerdict      = errors.New("review must be one of: like, dislike")
	ErrMenuItemUnavailable = errors.New("menu item is not available today")
	ErrInvalidBillingEvent = errors.New("billing event has no user")
)
