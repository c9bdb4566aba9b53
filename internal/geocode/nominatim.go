// Package geocode resolves coordinates to display addresses through a
// Nominatim-compatible service.
package geocode

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// maxResponseBytes bounds how much of a geocoder response gets buffered.
const maxResponseBytes = 1 << 20

// Client calls the reverse-geocoding endpoint with a hard timeout. Every
// failure mode (timeout, transport error, non-200 status, unparseable
// body) resolves to "no address"; callers never see an error. This is the
// only unbounded-latency external call in the service, so the timeout is
// enforced both on the HTTP client and per request context.
type Client struct {
	baseURL        string
	userAgent      string
	acceptLanguage string
	timeout        time.Duration
	httpClient     *http.Client
	logger         *slog.Logger
}

// NewClient creates a Nominatim client. userAgent identifies this service
// to the remote API; acceptLanguage pins address formatting to one locale
// so stored addresses stay comparable.
func NewClient(baseURL, userAgent, acceptLanguage string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:        baseURL,
		userAgent:      userAgent,
		acceptLanguage: acceptLanguage,
		timeout:        timeout,
		httpClient:     &http.Client{Timeout: timeout},
		logger:         logger,
	}
}

// ReverseGeocode resolves lat/lon to a display name, or nil when no address
// is available for any reason. A timed-out call is abandoned, not awaited.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) *string {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := url.Values{}
	params.Set("format", "jsonv2")
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("zoom", "18")
	params.Set("addressdetails", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reverse?"+params.Encode(), nil)
	if err != nil {
		c.logger.Warn("reverse geocode request build failed", slog.Any("error", err))
		return nil
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Language", c.acceptLanguage)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("reverse geocode call failed", slog.Any("error", err))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("reverse geocode returned non-200", slog.Int("status", resp.StatusCode))
		return nil
	}

	var body struct {
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&body); err != nil {
		c.logger.Warn("reverse geocode response unparseable", slog.Any("error", err))
		return nil
	}

	if body.DisplayName == "" {
		return nil
	}
	return &body.DisplayName
}
