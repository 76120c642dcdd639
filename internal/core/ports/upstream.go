package ports

import (
	"context"
	"io"

	"github.com/pear651530/Meal-Provider/internal/core/domain"
)

// ProfileFetcher resolves a bearer token to the user's profile and unread
// notifications.
type ProfileFetcher interface {
	Me(ctx context.Context, token string) (domain.Profile, error)
	Notifications(ctx context.Context, token string, userID int64) ([]domain.Notification, error)
}

// UserClient talks to the user/auth service.
type UserClient interface {
	ProfileFetcher

	// ExchangeCredentials trades a username and password for a bearer token.
	ExchangeCredentials(ctx context.Context, username, password string) (string, error)
	CreateUser(ctx context.Context, user domain.NewUser) (domain.Profile, error)
	MarkNotificationRead(ctx context.Context, token string, notificationID int64) error

	DiningRecords(ctx context.Context, token string, userID int64) ([]domain.DiningRecord, error)
	Reviews(ctx context.Context, token string, diningRecordID int64) ([]domain.Review, error)
	CreateReview(ctx context.Context, token string, diningRecordID int64, rating int, comment string) (domain.Review, error)
	Rating(ctx context.Context, token string, menuItemID int64) (domain.RatingSummary, error)

	UnpaidBalances(ctx context.Context, token string) ([]domain.UnpaidBalance, error)
	ListUsers(ctx context.Context, token string) ([]domain.StaffMember, error)
	UpdateRole(ctx context.Context, token string, userID int64, role domain.Role) (domain.StaffMember, error)
}

// OrderClient talks to the order service.
type OrderClient interface {
	CreateOrder(ctx context.Context, token string, order domain.NewOrder) (domain.Order, error)
	// UpdateUserOrdersStatus moves every order of userID to status.
	UpdateUserOrdersStatus(ctx context.Context, token string, userID int64, status domain.PaymentStatus) error
}

// AdminClient talks to the admin/menu service.
type AdminClient interface {
	ListMenuItems(ctx context.Context, token string) ([]domain.MenuItem, error)
	MenuItem(ctx context.Context, token string, id int64) (domain.MenuItem, error)
	CreateMenuItem(ctx context.Context, token string, in domain.MenuItemInput) (domain.MenuItem, error)
	UpdateMenuItem(ctx context.Context, token string, id int64, in domain.MenuItemInput) error
	DeleteMenuItem(ctx context.Context, token string, id int64) error
	ToggleAvailability(ctx context.Context, token string, id int64) (domain.MenuItem, error)

	// AnalyticsReport streams the CSV export. The caller closes the reader.
	AnalyticsReport(ctx context.Context, token string, period domain.ReportPeriod) (io.ReadCloser, error)
	SendBillingNotifications(ctx context.Context, token string) (int, error)
}

// AuditRepository records administrative actions.
type AuditRepository interface {
	Record(ctx context.Context, event domain.AuditEvent) error
}
