// Package dashboard is a thin pass-through client for the admin analytics
// endpoints. Payload shapes are backend-defined and returned opaquely.
package dashboard

import (
	"encoding/json"
	"net/http"
	"net/url"

	"pianostore/internal/api"
)

// Client calls the dashboard resources through the shared API client, so
// the session and locale headers apply.
type Client struct {
	api *api.Client
}

// New constructs a dashboard client.
func New(apiClient *api.Client) *Client {
	return &Client{api: apiClient}
}

func (c *Client) get(path string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.api.DoJSON(http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Analytics returns the aggregate store metrics.
func (c *Client) Analytics() (json.RawMessage, error) {
	return c.get("dashboard/analytics/")
}

// RevenueChart returns revenue series for the given period.
func (c *Client) RevenueChart(period string) (json.RawMessage, error) {
	return c.get("dashboard/revenue-chart/?period=" + url.QueryEscape(period))
}

// OrdersChart returns order series for the given period.
func (c *Client) OrdersChart(period string) (json.RawMessage, error) {
	return c.get("dashboard/orders-chart/?period=" + url.QueryEscape(period))
}

// TopProducts returns the best sellers, optionally filtered by category.
func (c *Client) TopProducts(category string) (json.RawMessage, error) {
	return c.get("dashboard/top-products/?category=" + url.QueryEscape(category))
}

// Profile returns the dashboard operator profile.
func (c *Client) Profile() (json.RawMessage, error) {
	return c.get("dashboard/profile/")
}
