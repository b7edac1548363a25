// Package weather fetches hourly forecast and air-quality series for the
// observer location and folds them into per-night summaries. The HTTP
// clients sit behind circuit breakers so a flapping upstream degrades to
// "no weather" quickly instead of stalling every night of a run.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/nightseek/nightseek/internal/adapters/cache"
	"github.com/nightseek/nightseek/pkg/logger"
	"github.com/nightseek/nightseek/pkg/metrics"
)

// Client configuration constants.
const (
	defaultForecastURL   = "https://api.open-meteo.com/v1/forecast"
	defaultAirQualityURL = "https://air-quality-api.open-meteo.com/v1/air-quality"
	defaultTimeout       = 10 * time.Second

	// maxForecastDays is the upstream's hourly forecast horizon.
	maxForecastDays = 16

	breakerMaxRequests = 2
	breakerInterval    = time.Minute
	breakerTimeout     = 2 * time.Minute
	breakerMinRequests = 4
	breakerFailureRate = 0.6

	hourlyTimeLayout = "2006-01-02T15:04"
)

// Series is the merged hourly forecast for the location. Slices are
// index-aligned with Times; AOD may be empty when the air-quality fetch
// failed (its absence is score-neutral downstream).
type Series struct {
	Times      []time.Time
	CloudCover []float64
	Humidity   []float64
	DewPointC  []float64
	TempC      []float64
	PrecipProb []float64
	WindGust   []float64
	AOD        []float64
}

// Client fetches hourly series from the forecast and air-quality APIs.
type Client struct {
	http          *http.Client
	forecastURL   string
	airQualityURL string
	latitude      float64
	longitude     float64
	store         *cache.Store
	breaker       *gobreaker.CircuitBreaker[[]byte]
	aqBreaker     *gobreaker.CircuitBreaker[[]byte]
	log           logger.Logger
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithForecastURL overrides the forecast endpoint, for tests.
func WithForecastURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.forecastURL = url
		}
	}
}

// WithAirQualityURL overrides the air-quality endpoint, for tests.
func WithAirQualityURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.airQualityURL = url
		}
	}
}

// WithCache attaches a response cache.
func WithCache(store *cache.Store) Option {
	return func(c *Client) {
		c.store = store
	}
}

// NewClient creates a weather client for an observer position.
func NewClient(latitude, longitude float64, opts ...Option) *Client {
	c := &Client{
		http:          &http.Client{Timeout: defaultTimeout},
		forecastURL:   defaultForecastURL,
		airQualityURL: defaultAirQualityURL,
		latitude:      latitude,
		longitude:     longitude,
		log:           logger.Named("weather"),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.breaker = newBreaker("open-meteo")
	c.aqBreaker = newBreaker("open-meteo-aq")
	return c
}

func newBreaker(name string) *gobreaker.CircuitBreaker[[]byte] {
	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: breakerMaxRequests,
		Interval:    breakerInterval,
		Timeout:     breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRate := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= breakerMinRequests && failureRate >= breakerFailureRate
		},
		OnStateChange: func(name string, _, to gobreaker.State) {
			metrics.UpdateBreakerOpen(name, to == gobreaker.StateOpen)
		},
	})
}

// forecastPayload mirrors the hourly section of the forecast response.
type forecastPayload struct {
	Hourly struct {
		Time        []string  `json:"time"`
		CloudCover  []float64 `json:"cloud_cover"`
		Humidity    []float64 `json:"relative_humidity_2m"`
		DewPoint    []float64 `json:"dew_point_2m"`
		Temperature []float64 `json:"temperature_2m"`
		PrecipProb  []float64 `json:"precipitation_probability"`
		WindGusts   []float64 `json:"wind_gusts_10m"`
	} `json:"hourly"`
}

// airQualityPayload mirrors the hourly section of the air-quality
// response.
type airQualityPayload struct {
	Hourly struct {
		Time []string  `json:"time"`
		AOD  []float64 `json:"aerosol_optical_depth"`
	} `json:"hourly"`
}

// FetchRange fetches the hourly series covering the next days nights.
// The air-quality series is best-effort: its failure only clears the AOD
// column.
func (c *Client) FetchRange(ctx context.Context, days int) (*Series, error) {
	if days <= 0 || days > maxForecastDays {
		return nil, ErrRangeTooLong
	}

	url := fmt.Sprintf(
		"%s?latitude=%.4f&longitude=%.4f&hourly=cloud_cover,relative_humidity_2m,dew_point_2m,temperature_2m,precipitation_probability,wind_gusts_10m&forecast_days=%d&timezone=UTC",
		c.forecastURL, c.latitude, c.longitude, days,
	)
	body, err := c.fetch(ctx, "weather", c.breaker, url)
	if err != nil {
		metrics.RecordSourceFailure("weather")
		return nil, err
	}

	var payload forecastPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		metrics.RecordSourceFailure("weather")
		return nil, fmt.Errorf("decoding forecast: %w", err)
	}

	series := &Series{
		CloudCover: payload.Hourly.CloudCover,
		Humidity:   payload.Hourly.Humidity,
		DewPointC:  payload.Hourly.DewPoint,
		TempC:      payload.Hourly.Temperature,
		PrecipProb: payload.Hourly.PrecipProb,
		WindGust:   payload.Hourly.WindGusts,
	}
	for _, ts := range payload.Hourly.Time {
		t, perr := time.Parse(hourlyTimeLayout, ts)
		if perr != nil {
			metrics.RecordSourceFailure("weather")
			return nil, fmt.Errorf("decoding forecast time %q: %w", ts, perr)
		}
		series.Times = append(series.Times, t.UTC())
	}

	c.attachAirQuality(ctx, series, days)
	return series, nil
}

// attachAirQuality merges the AOD column into the series, aligning by
// hour. Any failure leaves the column empty.
func (c *Client) attachAirQuality(ctx context.Context, series *Series, days int) {
	url := fmt.Sprintf(
		"%s?latitude=%.4f&longitude=%.4f&hourly=aerosol_optical_depth&forecast_days=%d&timezone=UTC",
		c.airQualityURL, c.latitude, c.longitude, days,
	)
	body, err := c.fetch(ctx, "air_quality", c.aqBreaker, url)
	if err != nil {
		metrics.RecordSourceFailure("air_quality")
		c.log.Warn(ctx, "air quality unavailable", logger.Error(err))
		return
	}

	var payload airQualityPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		metrics.RecordSourceFailure("air_quality")
		c.log.Warn(ctx, "air quality payload malformed", logger.Error(err))
		return
	}

	byHour := make(map[time.Time]float64, len(payload.Hourly.Time))
	for i, ts := range payload.Hourly.Time {
		if i >= len(payload.Hourly.AOD) {
			break
		}
		t, perr := time.Parse(hourlyTimeLayout, ts)
		if perr != nil {
			continue
		}
		byHour[t.UTC()] = payload.Hourly.AOD[i]
	}

	series.AOD = make([]float64, len(series.Times))
	for i, t := range series.Times {
		series.AOD[i] = byHour[t]
	}
}

// fetch runs one GET through the circuit breaker and the cache.
func (c *Client) fetch(ctx context.Context, source string, cb *gobreaker.CircuitBreaker[[]byte], url string) ([]byte, error) {
	do := func(ctx context.Context) ([]byte, error) {
		started := time.Now()
		body, err := cb.Execute(func() ([]byte, error) {
			return c.get(ctx, url)
		})
		metrics.RecordSourceFetchLatency(source, float64(time.Since(started).Milliseconds()))
		return body, err
	}

	if c.store == nil {
		return do(ctx)
	}
	return c.store.GetOrFetch(ctx, source+":"+url, do)
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", ErrUpstreamStatus, resp.Status)
	}
	return io.ReadAll(resp.Body)
}
