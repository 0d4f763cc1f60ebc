package weatherapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/cyclone-risk-service/internal/domain"
	"github.com/couchcryptid/cyclone-risk-service/internal/observability"
)

// errCodeNoMatch is WeatherAPI's "No matching location found." error code.
const errCodeNoMatch = 1006

// Client implements domain.WeatherProvider using the WeatherAPI.com current endpoint.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a WeatherAPI client.
func NewClient(apiKey, baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// CurrentConditions fetches current conditions for a free-text location.
// Fields absent from the response are left nil in the returned Reading.
func (c *Client) CurrentConditions(ctx context.Context, location string) (domain.CurrentConditions, error) {
	params := url.Values{
		"key": {c.apiKey},
		"q":   {location},
		"aqi": {"no"},
	}
	fullURL := c.baseURL + "/current.json?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.CurrentConditions{}, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.WeatherAPIDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.WeatherRequests.WithLabelValues("error").Inc()
		// *url.Error carries the request URL, which includes the API key.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return domain.CurrentConditions{}, fmt.Errorf("current conditions request for %q: %w", location, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.CurrentConditions{}, c.apiError(resp, location)
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.metrics.WeatherRequests.WithLabelValues("error").Inc()
		return domain.CurrentConditions{}, fmt.Errorf("decode response: %w", err)
	}

	c.metrics.WeatherRequests.WithLabelValues("success").Inc()
	return body.toConditions(location), nil
}

func (c *Client) apiError(resp *http.Response, location string) error {
	raw, _ := io.ReadAll(resp.Body)

	var e errorResponse
	if json.Unmarshal(raw, &e) == nil && e.Error.Code == errCodeNoMatch {
		c.metrics.WeatherRequests.WithLabelValues("not_found").Inc()
		return fmt.Errorf("%w: %q", domain.ErrLocationNotFound, location)
	}

	c.metrics.WeatherRequests.WithLabelValues("error").Inc()
	c.logger.Warn("weather API error", "status", resp.StatusCode, "location", location)
	return fmt.Errorf("weather API error: status %d: %s", resp.StatusCode, raw)
}

// WeatherAPI response types.

type response struct {
	Location struct {
		Name    string  `json:"name"`
		Region  string  `json:"region"`
		Country string  `json:"country"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
	} `json:"location"`
	Current struct {
		LastUpdatedEpoch int64    `json:"last_updated_epoch"`
		TempC            *float64 `json:"temp_c"`
		WindKph          *float64 `json:"wind_kph"`
		PressureMb       *float64 `json:"pressure_mb"`
		Humidity         *float64 `json:"humidity"`
		Condition        struct {
			Text string `json:"text"`
		} `json:"condition"`
	} `json:"current"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (r response) toConditions(query string) domain.CurrentConditions {
	cond := domain.CurrentConditions{
		Location: domain.Location{
			Query:   query,
			Name:    r.Location.Name,
			Region:  r.Location.Region,
			Country: r.Location.Country,
			Lat:     r.Location.Lat,
			Lon:     r.Location.Lon,
		},
		Reading: domain.Reading{
			TemperatureC:    r.Current.TempC,
			WindSpeedKph:    r.Current.WindKph,
			PressureMb:      r.Current.PressureMb,
			HumidityPercent: r.Current.Humidity,
		},
		Condition: r.Current.Condition.Text,
	}
	if r.Current.LastUpdatedEpoch > 0 {
		cond.ObservedAt = time.Unix(r.Current.LastUpdatedEpoch, 0).UTC()
	}
	return cond
}
