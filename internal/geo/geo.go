// Package geo supplies coordinates and a timezone to the CLI when the user
// has not configured them. The calculation engine never acquires location
// itself; it only consumes a Location snapshot through the Provider
// interface.
package geo

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Location is a coordinate snapshot with the metadata a provider can offer.
type Location struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
	Timezone  string  `json:"timezone"`
}

// Provider supplies a location snapshot.
type Provider interface {
	Locate() (*Location, error)
}

// Static is a Provider that always returns a fixed location: flags or config
// values wrapped up for the same code path as auto-detection.
type Static struct {
	Location Location
}

// Locate implements Provider.
func (s Static) Locate() (*Location, error) {
	return &s.Location, nil
}

// ipAPIResponse maps the response from ip-api.com.
type ipAPIResponse struct {
	Status   string  `json:"status"`
	Message  string  `json:"message"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	City     string  `json:"city"`
	Country  string  `json:"country"`
	Timezone string  `json:"timezone"`
}

// ipAPIURL is the geolocation API endpoint. It is a variable (not a
// constant) so that tests can override it with an httptest server URL.
var ipAPIURL = "http://ip-api.com/json/?fields=status,message,lat,lon,city,country,timezone"

// IPLocator is a Provider backed by ip-api.com: a free, keyless service that
// resolves the caller's public IP to an approximate location and timezone.
type IPLocator struct {
	client *http.Client
}

// NewIPLocator creates an IPLocator with a short request timeout.
func NewIPLocator() *IPLocator {
	return &IPLocator{
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

// Locate implements Provider.
func (l *IPLocator) Locate() (*Location, error) {
	resp, err := l.client.Get(ipAPIURL)
	if err != nil {
		return nil, fmt.Errorf("geolocation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geolocation API returned status %d", resp.StatusCode)
	}

	var result ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode geolocation response: %w", err)
	}

	if result.Status != "success" {
		return nil, fmt.Errorf("geolocation failed: %s", result.Message)
	}

	return &Location{
		Latitude:  result.Lat,
		Longitude: result.Lon,
		City:      result.City,
		Country:   result.Country,
		Timezone:  result.Timezone,
	}, nil
}
