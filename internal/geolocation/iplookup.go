package geolocation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ngmaloney/weather-terminal/internal/models"
)

// DefaultIPLookupURL is an ip-api.com compatible endpoint
const DefaultIPLookupURL = "http://ip-api.com/json"

// ipAccuracyMetres is a rough city-level radius for IP based fixes
const ipAccuracyMetres = 5000

// IPLocator estimates the position from the public IP address
type IPLocator struct {
	url        string
	httpClient *http.Client
	now        func() time.Time
}

// NewIPLocator creates an IP based locator. An empty url selects DefaultIPLookupURL.
func NewIPLocator(url string) *IPLocator {
	if url == "" {
		url = DefaultIPLookupURL
	}
	return &IPLocator{
		url:        strings.TrimRight(url, "/"),
		httpClient: &http.Client{},
		now:        time.Now,
	}
}

type ipResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// CurrentPosition performs a single lookup bounded by opts.Timeout.
// HighAccuracy cannot be honoured by an IP lookup and is ignored.
func (l *IPLocator) CurrentPosition(ctx context.Context, opts Options) (*Position, error) {
	ctx, cancel := withTimeout(ctx, opts)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: lookup returned status %d", ErrUnavailable, resp.StatusCode)
	}

	var body ipResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("%w: decoding response: %v", ErrUnavailable, err)
	}

	if body.Status != "success" {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, body.Message)
	}

	return &Position{
		Coordinates: models.Coordinates{Latitude: body.Lat, Longitude: body.Lon},
		Accuracy:    ipAccuracyMetres,
		Timestamp:   l.now(),
	}, nil
}
