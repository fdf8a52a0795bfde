// Package geocoding resolves place names to coordinates and back using the
// Open-Meteo geocoding API
package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ngmaloney/weather-terminal/internal/models"
)

const (
	// DefaultBaseURL is the public Open-Meteo geocoding endpoint
	DefaultBaseURL = "https://geocoding-api.open-meteo.com"
	userAgent      = "WeatherTerminal/1.0 (github.com/ngmaloney/weather-terminal)"
)

// ErrNoResults is returned by Reverse when the provider knows nothing about a position
var ErrNoResults = errors.New("no geocoding results")

// Client talks to the Open-Meteo geocoding API
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a geocoding client. An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		userAgent: userAgent,
	}
}

// searchResponse is the Open-Meteo /v1/search payload
type searchResponse struct {
	Results []searchResult `json:"results"`
}

type searchResult struct {
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Admin1    string  `json:"admin1"`
	Admin2    string  `json:"admin2"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// apiError is the body Open-Meteo sends alongside 4xx responses
type apiError struct {
	Error  bool   `json:"error"`
	Reason string `json:"reason"`
}

// Search looks up places matching name, returning at most count candidates in
// provider order. No match yields an empty slice and a nil error. Unnamed
// candidates take their name from the administrative fields.
func (c *Client) Search(ctx context.Context, name string, count int) ([]models.SuggestionItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}

	params := url.Values{}
	params.Set("name", name)
	params.Set("count", strconv.Itoa(count))

	var resp searchResponse
	if err := c.get(ctx, "/v1/search", params, &resp); err != nil {
		return nil, err
	}

	items := make([]models.SuggestionItem, 0, len(resp.Results))
	for _, r := range resp.Results {
		items = append(items, models.SuggestionItem{
			Place: models.PlaceName{
				Name:    models.DisplayName(r.Name, r.Admin1, r.Admin2),
				Country: r.Country,
				Coordinates: models.Coordinates{
					Latitude:  r.Latitude,
					Longitude: r.Longitude,
				},
			},
			Admin1: r.Admin1,
			Admin2: r.Admin2,
		})
	}
	return items, nil
}

// Reverse names the place at the given coordinates. The returned place keeps
// the queried coordinates rather than the matched place's centre.
func (c *Client) Reverse(ctx context.Context, lat, lon float64) (*models.PlaceName, error) {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("count", "1")

	var resp searchResponse
	if err := c.get(ctx, "/v1/search", params, &resp); err != nil {
		return nil, err
	}

	if len(resp.Results) == 0 {
		return nil, ErrNoResults
	}

	r := resp.Results[0]
	return &models.PlaceName{
		Name:    models.DisplayName(r.Name, r.Admin1, r.Admin2),
		Country: r.Country,
		Coordinates: models.Coordinates{
			Latitude:  lat,
			Longitude: lon,
		},
	}, nil
}

// get issues a GET against the API and decodes the JSON body into out
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Reason != "" {
			return fmt.Errorf("geocoding API returned status %d: %s", resp.StatusCode, apiErr.Reason)
		}
		return fmt.Errorf("geocoding API returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
