// Package geo queries the equity-zone (QPV) lookup service.
package geo

import (
	"context"
	"net/url"
	"strings"
	"time"

	apperrors "coaching-workers/internal/common/errors"
	"coaching-workers/internal/common/httpclient"
	"coaching-workers/internal/models"
)

const serviceName = "geo-qpv"

type Client struct {
	http *httpclient.Client
}

// NewClient builds a client for baseURL. Every lookup is bounded by timeout.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	headers := map[string]string{}
	if apiKey != "" {
		headers["X-Api-Key"] = apiKey
	}
	return &Client{http: httpclient.NewClient(strings.TrimRight(baseURL, "/"), timeout, headers)}
}

// Lookup returns the distance in meters from address to the nearest zone and its name.
// Both are nil when the service knows no zone nearby.
func (c *Client) Lookup(ctx context.Context, address string) (*models.ZoneLookupResult, error) {
	var out models.ZoneLookupResult
	if err := c.http.GetJSON(ctx, "/qpv?adresse="+url.QueryEscape(address), &out); err != nil {
		return nil, apperrors.NewExternalUnavailableError(serviceName, err)
	}
	return &out, nil
}
