// Package geocode resolves coordinates to display addresses through the
// Kakao local API, reusing a previously resolved address when the user has
// barely moved so the external API is not hit on every location update.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"spot/geo"
	"spot/models"
)

const defaultBaseURL = "https://dapi.kakao.com"

const (
	// CacheTTL is how long a resolved address stays fresh.
	CacheTTL = 30 * time.Minute
	// MovementThreshold is how far the user can move before the cached
	// address is considered stale regardless of age.
	MovementThreshold = 100.0 // meters
)

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewClientWithBaseURL is used by tests to point the client at a stub server.
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	c := NewClient(apiKey)
	c.baseURL = baseURL
	return c
}

type coord2AddressResponse struct {
	Documents []struct {
		Address struct {
			AddressName string `json:"address_name"`
		} `json:"address"`
	} `json:"documents"`
}

// ReverseGeocode returns the display address for a coordinate pair. An empty
// key or an empty result set is an error; callers degrade to coordinates.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("kakao API key not configured")
	}

	endpoint := fmt.Sprintf("%s/v2/local/geo/coord2address.json?x=%s&y=%s",
		c.baseURL,
		url.QueryEscape(fmt.Sprintf("%f", lng)),
		url.QueryEscape(fmt.Sprintf("%f", lat)),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "KakaoAK "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("kakao geocode returned status %d", resp.StatusCode)
	}

	var body coord2AddressResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if len(body.Documents) == 0 {
		return "", fmt.Errorf("no address for coordinate (%f, %f)", lat, lng)
	}

	return body.Documents[0].Address.AddressName, nil
}

// ShouldReuse reports whether a previously geocoded location can serve as
// the address for a new coordinate pair: the cached entry must have an
// address, be younger than CacheTTL, and lie within MovementThreshold of the
// new point.
func ShouldReuse(cached *models.UserLocation, lat, lng float64, now time.Time) bool {
	if cached == nil || cached.Address == "" {
		return false
	}
	if now.Sub(time.Unix(cached.GeocodedAt, 0)) >= CacheTTL {
		return false
	}
	return geo.Distance(cached.Latitude, cached.Longitude, lat, lng) <= MovementThreshold
}
