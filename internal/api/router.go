package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/pear651530/Meal-Provider/docs"
	"github.com/pear651530/Meal-Provider/internal/api/handler"
	"github.com/pear651530/Meal-Provider/internal/api/middleware"
	"github.com/pear651530/Meal-Provider/internal/core/domain"
	"github.com/pear651530/Meal-Provider/internal/core/ports"
)

// Deps are the services the router wires into handlers.
type Deps struct {
	Log       zerolog.Logger
	JWTSecret string

	Sessions ports.SessionService
	Auth     ports.AuthService
	Records  ports.RecordsService
	Menu     ports.MenuService
	Orders   ports.OrderService
	Staff    ports.StaffService

	// Checks are the readiness probes keyed by dependency name.
	Checks map[string]handler.Check
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("mealportal"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Sessions)
	sessionHandler := handler.NewSessionHandler(deps.Sessions)
	recordsHandler := handler.NewRecordsHandler(deps.Records)
	menuHandler := handler.NewMenuHandler(deps.Menu)
	staffHandler := handler.NewStaffHandler(deps.Orders, deps.Staff)
	healthHandler := handler.NewHealthHandler(deps.Checks)

	authMiddleware := middleware.Auth(deps.JWTSecret, deps.Sessions)
	clerkOnly := middleware.RequireCapability(domain.CapabilityClerk)
	adminOnly := middleware.RequireCapability(domain.CapabilityAdmin)
	superAdminOnly := middleware.RequireCapability(domain.CapabilitySuperAdmin)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Session routes ---
	e.POST("/auth/logout", authHandler.Logout, authMiddleware)
	e.GET("/me", sessionHandler.Me, authMiddleware)
	e.PUT("/me/notifications/:id/read", sessionHandler.MarkNotificationRead, authMiddleware)
	e.GET("/records", recordsHandler.List, authMiddleware)
	e.POST("/records/:id/review", recordsHandler.Review, authMiddleware)
	e.GET("/meals/today", menuHandler.Today, authMiddleware)

	// --- Clerk routes ---
	e.POST("/orders", staffHandler.PlaceOrder, authMiddleware, clerkOnly)

	// --- Admin routes ---
	e.GET("/menu", menuHandler.Board, authMiddleware, adminOnly)
	e.POST("/menu", menuHandler.Create, authMiddleware, adminOnly)
	e.PUT("/menu/:id", menuHandler.Update, authMiddleware, adminOnly)
	e.DELETE("/menu/:id", menuHandler.Delete, authMiddleware, adminOnly)
	e.PUT("/menu/:id/availability", menuHandler.ToggleAvailability, authMiddleware, adminOnly)
	e.GET("/reports/analytics", menuHandler.Report, authMiddleware, adminOnly)
	e.POST("/billing/notifications", staffHandler.SendBilling, authMiddleware, adminOnly)
	e.GET("/staff/debts", staffHandler.Debts, authMiddleware, adminOnly)
	e.PUT("/staff/:id/settle", staffHandler.Settle, authMiddleware, adminOnly)

	// --- Super admin routes ---
	e.GET("/staff", staffHandler.List, authMiddleware, superAdminOnly)
	e.PUT("/staff/:id/role", staffHandler.ChangeRole, authMiddleware, superAdminOnly)

	// --- Health probes, metrics and docs (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
