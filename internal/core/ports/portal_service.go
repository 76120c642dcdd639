package ports

import (
	"context"
	"io"
	"time"

	"github.com/pear651530/Meal-Provider/internal/core/domain"
)

// SessionService owns every session's state. Handlers never mutate a session
// directly.
type SessionService interface {
	// Login never returns an error: a nil profile means the attempt failed and
	// the session was rolled back to logged-out.
	Login(ctx context.Context, sessionID, token string) *domain.Profile
	// LoginError is the user-facing message of the session's last failed
	// login, empty when there is none.
	LoginError(sessionID string) string
	Logout(ctx context.Context, sessionID string) error
	Session(ctx context.Context, sessionID string) (domain.Session, error)
	MarkNotificationRead(ctx context.Context, sessionID string, notificationID int64) error
}

// RegistrationInput is the sign-up form as submitted.
type RegistrationInput struct {
	EmployeeID      string `validate:"required"`
	FullName        string `validate:"required"`
	Password        string `validate:"required"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
}

// AuthService handles the credential flows that happen before a session exists.
type AuthService interface {
	Authenticate(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, in RegistrationInput) (*domain.Profile, error)
	// IssueToken signs the portal token that carries sessionID.
	IssueToken(sessionID string) (string, error)
}

// RecordRow is one line of the dining history table.
type RecordRow struct {
	ID       int64
	Date     time.Time
	MealName string
	MealEn   string
	ImageURL string
	Price    float64
	Paid     bool
	// Verdict is empty when the user has not reviewed the meal or the review
	// could not be loaded.
	Verdict domain.Verdict
	Comment string
}

// RecordsPage is the dining history screen.
type RecordsPage struct {
	Rows []RecordRow
	Debt float64
}

// RecordsService builds the dining history screen and accepts reviews.
type RecordsService interface {
	DiningRecords(ctx context.Context, sess domain.Session) (*RecordsPage, error)
	SubmitReview(ctx context.Context, sess domain.Session, diningRecordID int64, verdict domain.Verdict, comment string) (domain.Review, error)
}

// MealCard is a menu item merged with its rating summary.
type MealCard struct {
	ID             int64
	Name           string
	EnName         string
	Price          float64
	ImageURL       string
	Available      bool
	TotalReviews   int
	GoodReviews    int
	Recommendation string
}

// MenuBoard is the menu editor screen: today's meals and the rest.
type MenuBoard struct {
	Today  []MealCard
	Others []MealCard
}

// MenuService builds the menu screens and performs menu administration.
type MenuService interface {
	TodayMeals(ctx context.Context, sess domain.Session) ([]MealCard, error)
	Board(ctx context.Context, sess domain.Session) (*MenuBoard, error)
	CreateItem(ctx context.Context, sess domain.Session, in domain.MenuItemInput) (domain.MenuItem, error)
	UpdateItem(ctx context.Context, sess domain.Session, id int64, in domain.MenuItemInput) error
	DeleteItem(ctx context.Context, sess domain.Session, id int64) error
	ToggleAvailability(ctx context.Context, sess domain.Session, id int64) (domain.MenuItem, error)
	ExportReport(ctx context.Context, sess domain.Session, period domain.ReportPeriod) (io.ReadCloser, error)
}

// PlaceOrderInput is the clerk's order form.
type PlaceOrderInput struct {
	EmployeeID int64
	MenuItemID int64
	Payment    domain.PaymentMethod
}

// OrderService places orders on behalf of employees.
type OrderService interface {
	PlaceOrder(ctx context.Context, sess domain.Session, in PlaceOrderInput) (domain.Order, error)
}

// StaffService covers debts, billing and role management.
type StaffService interface {
	Debts(ctx context.Context, sess domain.Session) ([]domain.UnpaidBalance, error)
	SettleDebt(ctx context.Context, sess domain.Session, userID int64) error
	SendBillingNotifications(ctx context.Context, sess domain.Session) (int, error)
	ListStaff(ctx context.Context, sess domain.Session) ([]domain.StaffMember, error)
	ChangeRole(ctx context.Context, sess domain.Session, userID int64, role domain.Role) (domain.StaffMember, error)
}

// BillingEventService reacts to billing reminders published by the admin
// service.
type BillingEventService interface {
	Process(ctx context.Context, event domain.BillingEvent) error
}
