package upstream

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/pear651530/Meal-Provider/internal/core/domain"
	"github.com/pear651530/Meal-Provider/internal/core/ports"
)

// OrderClient talks to the order service.
type OrderClient struct {
	*client
}

var _ ports.OrderClient = (*OrderClient)(nil)

func NewOrderClient(baseURL string, timeout time.Duration, log zerolog.Logger) *OrderClient {
	return &OrderClient{client: newClient("order", baseURL, timeout, log)}
}

type orderItemRequest struct {
	MenuItemID int64   `json:"menu_item_id"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
}

type createOrderRequest struct {
	UserID        int64              `json:"user_id"`
	PaymentMethod string             `json:"payment_method"`
	PaymentStatus string             `json:"payment_status"`
	Items         []orderItemRequest `json:"items"`
}

func (c *OrderClient) CreateOrder(ctx context.Context, token string, order domain.NewOrder) (domain.Order, error) {
	var out domain.Order
	err := c.doJSON(ctx, http.MethodPost, "/orders/", nil, token, createOrderRequest{
		UserID:        order.UserID,
		PaymentMethod: string(order.PaymentMethod),
		PaymentStatus: string(order.PaymentMethod.Status()),
		Items: []orderItemRequest{{
			MenuItemID: order.MenuItemID,
			Quantity:   order.Quantity,
			UnitPrice:  order.UnitPrice,
		}},
	}, &out)
	if err != nil {
		return domain.Order{}, err
	}
	return out, nil
}

func (c *OrderClient) UpdateUserOrdersStatus(ctx context.Context, token string, userID int64, status domain.PaymentStatus) error {
	query := url.Values{"status": []string{string(status)}}
	return c.doJSON(ctx, http.MethodPut, idPath("/orders/%d/status", userID), query, token, nil, nil)
}

// Ping reports whether the service is reachable.
func (c *OrderClient) Ping(ctx context.Context) error {
	return c.ping(ctx)
}
