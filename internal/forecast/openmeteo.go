package forecast

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

// DefaultBaseURL is the public Open-Meteo forecast endpoint
const DefaultBaseURL = "https://api.open-meteo.com"

// observedAtLayout is the ISO8601 minute-precision format used by Open-Meteo
const observedAtLayout = "2006-01-02T15:04"

// ErrMalformedResponse is returned when the payload decodes but lacks current conditions
var ErrMalformedResponse = errors.New("malformed forecast response")

// OpenMeteoClient implements WeatherClient using the Open-Meteo forecast API
type OpenMeteoClient struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new Open-Meteo forecast client. An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL string) *OpenMeteoClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &OpenMeteoClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		userAgent: "WeatherTerminal/1.0 (github.com/ngmaloney/weather-terminal)",
	}
}

// Current retrieves the current weather for a position
func (c *OpenMeteoClient) Current(ctx context.Context, lat, lon float64) (*models.CurrentWeather, error) {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("current_weather", "true")

	reqURL := fmt.Sprintf("%s/v1/forecast?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch forecast: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var forecastResp forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&forecastResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return forecastResp.toModel()
}

// Internal types for Open-Meteo API responses

type forecastResponse struct {
	Latitude         float64         `json:"latitude"`
	Longitude        float64         `json:"longitude"`
	UTCOffsetSeconds int             `json:"utc_offset_seconds"`
	Timezone         string          `json:"timezone"`
	CurrentWeather   *currentWeather `json:"current_weather"`
}

type currentWeather struct {
	Temperature   *float64 `json:"temperature"`
	WindSpeed     float64  `json:"windspeed"`
	WindDirection float64  `json:"winddirection"`
	WeatherCode   int      `json:"weathercode"`
	IsDay         int      `json:"is_day"`
	Time          string   `json:"time"`
}

func (r forecastResponse) toModel() (*models.CurrentWeather, error) {
	cw := r.CurrentWeather
	if cw == nil || cw.Temperature == nil {
		return nil, ErrMalformedResponse
	}

	loc := time.UTC
	if r.UTCOffsetSeconds != 0 {
		loc = time.FixedZone(r.Timezone, r.UTCOffsetSeconds)
	}

	observedAt, err := time.ParseInLocation(observedAtLayout, cw.Time, loc)
	if err != nil {
		// Some deployments return full RFC3339 timestamps
		observedAt, err = time.Parse(time.RFC3339, cw.Time)
		if err != nil {
			return nil, fmt.Errorf("%w: parsing time %q", ErrMalformedResponse, cw.Time)
		}
	}

	return &models.CurrentWeather{
		TemperatureC:     *cw.Temperature,
		WindSpeedKmh:     cw.WindSpeed,
		WindDirectionDeg: models.NormalizeDegrees(cw.WindDirection),
		WeatherCode:      cw.WeatherCode,
		ObservedAt:       observedAt,
	}, nil
}
