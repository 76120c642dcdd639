package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pear651530/Meal-Provider/internal/core/domain"
	"github.com/pear651530/Meal-Provider/internal/core/ports"
)

// UserClient talks to the user/auth service.
type UserClient struct {
	*client
	apiKey string
}

var _ ports.UserClient = (*UserClient)(nil)

// NewUserClient returns a client for the user service at baseURL. apiKey is
// sent as X-API-Key on the unpaid-balance listing when set.
func NewUserClient(baseURL, apiKey string, timeout time.Duration, log zerolog.Logger) *UserClient {
	return &UserClient{client: newClient("user", baseURL, timeout, log), apiKey: apiKey}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// ExchangeCredentials posts the OAuth2 password form to /token.
func (c *UserClient) ExchangeCredentials(ctx context.Context, username, password string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	resp, err := c.send(ctx, request{
		method:      http.MethodPost,
		path:        "/token",
		body:        strings.NewReader(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
	})
	if err != nil {
		if HasStatus(err, http.StatusUnauthorized) || HasStatus(err, http.StatusBadRequest) {
			return "", fmt.Errorf("%w: %v", domain.ErrInvalidCredentials, err)
		}
		return "", err
	}
	defer resp.Body.Close()

	var tr tokenResponse
	if err := decode(resp, &tr); err != nil {
		return "", fmt.Errorf("user POST /token: %w", err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("user POST /token: %w: no access_token in response", domain.ErrUpstreamStatus)
	}
	return tr.AccessToken, nil
}

func (c *UserClient) Me(ctx context.Context, token string) (domain.Profile, error) {
	var p domain.Profile
	if err := c.doJSON(ctx, http.MethodGet, "/users/me", nil, token, nil, &p); err != nil {
		return domain.Profile{}, err
	}
	return p, nil
}

func (c *UserClient) Notifications(ctx context.Context, token string, userID int64) ([]domain.Notification, error) {
	out := []domain.Notification{}
	if err := c.doJSON(ctx, http.MethodGet, idPath("/users/%d/notification", userID), nil, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type createUserRequest struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

// CreateUser registers an employee account. The service answers 400 when the
// username is taken.
func (c *UserClient) CreateUser(ctx context.Context, user domain.NewUser) (domain.Profile, error) {
	var p domain.Profile
	err := c.doJSON(ctx, http.MethodPost, "/users/", nil, "", createUserRequest{
		Username: user.Username,
		FullName: user.FullName,
		Password: user.Password,
	}, &p)
	if err != nil {
		if HasStatus(err, http.StatusBadRequest) {
			return domain.Profile{}, fmt.Errorf("%w: %v", domain.ErrUserExists, err)
		}
		return domain.Profile{}, err
	}
	return p, nil
}

// MarkNotificationRead ignores the response body.
func (c *UserClient) MarkNotificationRead(ctx context.Context, token string, notificationID int64) error {
	return c.doJSON(ctx, http.MethodPut, idPath("/notifications/%d/read", notificationID), nil, token, nil, nil)
}

func (c *UserClient) DiningRecords(ctx context.Context, token string, userID int64) ([]domain.DiningRecord, error) {
	out := []domain.DiningRecord{}
	if err := c.doJSON(ctx, http.MethodGet, idPath("/users/%d/dining-records/", userID), nil, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *UserClient) Reviews(ctx context.Context, token string, diningRecordID int64) ([]domain.Review, error) {
	out := []domain.Review{}
	if err := c.doJSON(ctx, http.MethodGet, idPath("/dining-records/%d/reviews/", diningRecordID), nil, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type createReviewRequest struct {
	DiningRecordID int64  `json:"dining_record_id"`
	Rating         int    `json:"rating"`
	Comment        string `json:"comment"`
}

func (c *UserClient) CreateReview(ctx context.Context, token string, diningRecordID int64, rating int, comment string) (domain.Review, error) {
	var r domain.Review
	err := c.doJSON(ctx, http.MethodPost, idPath("/dining-records/%d/reviews/", diningRecordID), nil, token, createReviewRequest{
		DiningRecordID: diningRecordID,
		Rating:         rating,
		Comment:        comment,
	}, &r)
	if err != nil {
		return domain.Review{}, err
	}
	if r.DiningRecordID == 0 {
		r.DiningRecordID = diningRecordID
	}
	return r, nil
}

// Rating returns the review summary of a menu item. A 404 means the item has
// no reviews yet.
func (c *UserClient) Rating(ctx context.Context, token string, menuItemID int64) (domain.RatingSummary, error) {
	var s domain.RatingSummary
	err := c.doJSON(ctx, http.MethodGet, idPath("/ratings/%d", menuItemID), nil, token, nil, &s)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.RatingSummary{MenuItemID: menuItemID}, nil
	}
	if err != nil {
		return domain.RatingSummary{}, err
	}
	return s, nil
}

func (c *UserClient) UnpaidBalances(ctx context.Context, token string) ([]domain.UnpaidBalance, error) {
	req := request{method: http.MethodGet, path: "/users/unpaid", token: token}
	if c.apiKey != "" {
		req.header = http.Header{"X-API-Key": []string{c.apiKey}}
	}

	resp, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	out := []domain.UnpaidBalance{}
	if err := decode(resp, &out); err != nil {
		return nil, fmt.Errorf("user GET /users/unpaid: %w", err)
	}
	return out, nil
}

func (c *UserClient) ListUsers(ctx context.Context, token string) ([]domain.StaffMember, error) {
	out := []domain.StaffMember{}
	if err := c.doJSON(ctx, http.MethodGet, "/users/all", nil, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *UserClient) UpdateRole(ctx context.Context, token string, userID int64, role domain.Role) (domain.StaffMember, error) {
	var m domain.StaffMember
	query := url.Values{"new_role": []string{string(role)}}
	if err := c.doJSON(ctx, http.MethodPut, idPath("/users/%d/role", userID), query, token, nil, &m); err != nil {
		return domain.StaffMember{}, err
	}
	if m.ID == 0 {
		m.ID, m.Role = userID, role
	}
	return m, nil
}

// Ping reports whether the service is reachable.
func (c *UserClient) Ping(ctx context.Context) error {
	return c.ping(ctx)
}
