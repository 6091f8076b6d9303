// Package geocode wraps the Mapbox forward-geocoding API behind the
// search.Suggester and search.Resolver interfaces. Consumed read-only; no
// write calls exist on this surface.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"atlas-service/internal/search"
)

const (
	defaultBaseURL = "https://api.mapbox.com/geocoding/v5/mapbox.places"
	suggestLimit   = 5
	suggestTypes   = "address,place,locality,neighborhood,district"
	countryFilter  = "US"
	timeoutSec     = 15
)

// Common errors.
var (
	ErrNoResult     = errors.New("no location matched the query")
	ErrUnauthorized = errors.New("invalid geocoding access token")
	ErrRateLimited  = errors.New("geocoding rate limit exceeded")
)

// Client is a Mapbox geocoding client.
type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
}

// NewClient builds a client with the given access token.
func NewClient(accessToken string) *Client {
	return &Client{
		baseURL:     defaultBaseURL,
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: timeoutSec * time.Second},
	}
}

// NewClientWithBaseURL points the client at a different endpoint. Tests use
// this with httptest servers.
func NewClientWithBaseURL(accessToken, baseURL string) *Client {
	c := NewClient(accessToken)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// feature is the slice of the Mapbox response we care about. Center comes
// back [longitude, latitude].
type feature struct {
	ID        string    `json:"id"`
	PlaceName string    `json:"place_name"`
	Center    []float64 `json:"center"`
	PlaceType []string  `json:"place_type"`
}

type geocodeResponse struct {
	Features []feature `json:"features"`
}

// Suggest returns up to five address suggestions for a partial query.
func (c *Client) Suggest(ctx context.Context, query string) ([]search.Suggestion, error) {
	features, err := c.forward(ctx, query, suggestLimit)
	if err != nil {
		return nil, err
	}

	suggestions := make([]search.Suggestion, 0, len(features))
	for _, f := range features {
		if len(f.Center) < 2 {
			continue
		}
		suggestions = append(suggestions, search.Suggestion{
			ID:         f.ID,
			PlaceName:  f.PlaceName,
			Longitude:  f.Center[0],
			Latitude:   f.Center[1],
			PlaceTypes: f.PlaceType,
		})
	}
	return suggestions, nil
}

// Resolve turns a committed query into a single location. The zoom level is
// a heuristic on the best match's place type: tighter for addresses, wider
// for regions.
func (c *Client) Resolve(ctx context.Context, query string) (search.Location, error) {
	features, err := c.forward(ctx, query, 1)
	if err != nil {
		return search.Location{}, err
	}
	if len(features) == 0 || len(features[0].Center) < 2 {
		return search.Location{}, ErrNoResult
	}

	best := features[0]
	return search.Location{
		Longitude: best.Center[0],
		Latitude:  best.Center[1],
		Zoom:      zoomFor(best.PlaceType),
	}, nil
}

func (c *Client) forward(ctx context.Context, query string, limit int) ([]feature, error) {
	endpoint := fmt.Sprintf("%s/%s.json", c.baseURL, url.PathEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geocoding request: %w", err)
	}
	q := req.URL.Query()
	q.Set("access_token", c.accessToken)
	q.Set("country", countryFilter)
	q.Set("types", suggestTypes)
	q.Set("limit", fmt.Sprintf("%d", limit))
	req.URL.RawQuery = q.Encode()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	default:
		return nil, fmt.Errorf("geocoding returned status %d", resp.StatusCode)
	}

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode geocoding response: %w", err)
	}
	return decoded.Features, nil
}

func zoomFor(placeTypes []string) float64 {
	for _, pt := range placeTypes {
		switch pt {
		case "address":
			return 14
		case "neighborhood", "locality":
			return 13
		case "place":
			return 12
		case "district":
			return 10
		case "region":
			return 7
		}
	}
	return 12
}
