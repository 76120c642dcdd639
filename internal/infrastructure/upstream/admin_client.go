package upstream

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/pear651530/Meal-Provider/internal/core/domain"
	"github.com/pear651530/Meal-Provider/internal/core/ports"
)

// AdminClient talks to the admin/menu service.
type AdminClient struct {
	*client
}

var _ ports.AdminClient = (*AdminClient)(nil)

func NewAdminClient(baseURL string, timeout time.Duration, log zerolog.Logger) *AdminClient {
	return &AdminClient{client: newClient("admin", baseURL, timeout, log)}
}

type menuItemBody struct {
	ZhName      string  `json:"zh_name"`
	EnName      string  `json:"en_name"`
	Price       float64 `json:"price"`
	URL         string  `json:"url"`
	IsAvailable bool    `json:"is_available"`
}

func newMenuItemBody(in domain.MenuItemInput) menuItemBody {
	return menuItemBody{
		ZhName:      in.ZhName,
		EnName:      in.EnName,
		Price:       in.Price,
		URL:         in.ImageURL,
		IsAvailable: in.IsAvailable,
	}
}

// menuChangeRequest is the change record the service stores alongside each
// update.
type menuChangeRequest struct {
	MenuItemID int64        `json:"menu_item_id"`
	ChangeType string       `json:"change_type"`
	NewValues  menuItemBody `json:"new_values"`
}

func (c *AdminClient) ListMenuItems(ctx context.Context, token string) ([]domain.MenuItem, error) {
	out := []domain.MenuItem{}
	if err := c.doJSON(ctx, http.MethodGet, "/menu-items/", nil, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AdminClient) MenuItem(ctx context.Context, token string, id int64) (domain.MenuItem, error) {
	var item domain.MenuItem
	if err := c.doJSON(ctx, http.MethodGet, idPath("/menu-items/%d", id), nil, token, nil, &item); err != nil {
		return domain.MenuItem{}, err
	}
	return item, nil
}

func (c *AdminClient) CreateMenuItem(ctx context.Context, token string, in domain.MenuItemInput) (domain.MenuItem, error) {
	var item domain.MenuItem
	if err := c.doJSON(ctx, http.MethodPost, "/menu-items/", nil, token, newMenuItemBody(in), &item); err != nil {
		return domain.MenuItem{}, err
	}
	return item, nil
}

// UpdateMenuItem ignores the returned change record.
func (c *AdminClient) UpdateMenuItem(ctx context.Context, token string, id int64, in domain.MenuItemInput) error {
	return c.doJSON(ctx, http.MethodPut, idPath("/menu-items/%d/", id), nil, token, menuChangeRequest{
		MenuItemID: id,
		ChangeType: "update",
		NewValues:  newMenuItemBody(in),
	}, nil)
}

func (c *AdminClient) DeleteMenuItem(ctx context.Context, token string, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, idPath("/menu-items/%d", id), nil, token, nil, nil)
}

func (c *AdminClient) ToggleAvailability(ctx context.Context, token string, id int64) (domain.MenuItem, error) {
	var item domain.MenuItem
	if err := c.doJSON(ctx, http.MethodPut, idPath("/menu-items/%d/toggle-availability", id), nil, token, nil, &item); err != nil {
		return domain.MenuItem{}, err
	}
	return item, nil
}

// AnalyticsReport returns the CSV body unread.
func (c *AdminClient) AnalyticsReport(ctx context.Context, token string, period domain.ReportPeriod) (io.ReadCloser, error) {
	resp, err := c.send(ctx, request{
		method: http.MethodGet,
		path:   "/report/analytics",
		query:  url.Values{"report_period": []string{string(period)}},
		token:  token,
	})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

type billingSendResponse struct {
	Message       string `json:"message"`
	NotifiedUsers int    `json:"notified_users"`
}

func (c *AdminClient) SendBillingNotifications(ctx context.Context, token string) (int, error) {
	var out billingSendResponse
	if err := c.doJSON(ctx, http.MethodPost, "/billing-notifications/send", nil, token, nil, &out); err != nil {
		return 0, err
	}
	return out.NotifiedUsers, nil
}

// Ping reports whether the service is reachable.
func (c *AdminClient) Ping(ctx context.Context) error {
	return c.ping(ctx)
}
