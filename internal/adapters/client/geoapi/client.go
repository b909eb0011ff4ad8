package geoapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the IP-geolocation service through the same-origin proxy.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a geolocation client with a per-call timeout.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// wireGeo tolerates the service's loose field naming. Normalization happens
// here so the geo service never branches on transport-specific names.
type wireGeo struct {
	Country      string `json:"country"`
	CountryCode1 string `json:"country_code"`
	CountryCode2 string `json:"countryCode"`
}

func (w wireGeo) countryCode() string {
	for _, candidate := range []string{w.CountryCode2, w.CountryCode1, w.Country} {
		candidate = strings.ToUpper(strings.TrimSpace(candidate))
		if len(candidate) == 2 {
			return candidate
		}
	}
	return ""
}

// LookupCountry resolves the two-letter country code for ip. An empty ip
// asks the service to use the connection's source address.
func (c *Client) LookupCountry(ctx context.Context, ip string) (string, error) {
	endpoint := c.baseURL + "/proxy/ipapi"
	if ip != "" {
		endpoint += "?ip=" + url.QueryEscape(ip)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build geolocation request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("geolocation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("geolocation service returned status %d", resp.StatusCode)
	}

	var wire wireGeo
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return "", fmt.Errorf("malformed geolocation response: %w", err)
	}

	code := wire.countryCode()
	if code == "" {
		return "", fmt.Errorf("geolocation response contained no usable country code")
	}
	return code, nil
}
