package events

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/nightseek/nightseek/internal/adapters/cache"
	"github.com/nightseek/nightseek/internal/domain/model"
	"github.com/nightseek/nightseek/pkg/logger"
	"github.com/nightseek/nightseek/pkg/metrics"
)

const (
	defaultSpaceWeatherURL = "https://services.swpc.noaa.gov/products/noaa-planetary-k-index-forecast.json"
	spaceWeatherTimeout    = 10 * time.Second

	// auroraKpThreshold is the planetary Kp above which aurora becomes
	// plausible at mid latitudes.
	auroraKpThreshold = 5.0
)

// SpaceWeatherClient fetches the planetary K-index forecast.
type SpaceWeatherClient struct {
	http    *http.Client
	baseURL string
	store   *cache.Store
	breaker *gobreaker.CircuitBreaker[[]byte]
	log     logger.Logger
}

// SpaceWeatherOption applies a configuration option to the client.
type SpaceWeatherOption func(*SpaceWeatherClient)

// WithSpaceWeatherURL overrides the K-index endpoint, for tests.
func WithSpaceWeatherURL(url string) SpaceWeatherOption {
	return func(c *SpaceWeatherClient) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithSpaceWeatherHTTPClient overrides the HTTP client.
func WithSpaceWeatherHTTPClient(h *http.Client) SpaceWeatherOption {
	return func(c *SpaceWeatherClient) {
		if h != nil {
			c.http = h
		}
	}
}

// WithSpaceWeatherCache attaches a response cache.
func WithSpaceWeatherCache(store *cache.Store) SpaceWeatherOption {
	return func(c *SpaceWeatherClient) {
		c.store = store
	}
}

// NewSpaceWeatherClient creates a space-weather client.
func NewSpaceWeatherClient(opts ...SpaceWeatherOption) *SpaceWeatherClient {
	c := &SpaceWeatherClient{
		http:    &http.Client{Timeout: spaceWeatherTimeout},
		baseURL: defaultSpaceWeatherURL,
		log:     logger.Named("space_weather"),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.breaker = newSourceBreaker("space-weather")
	return c
}

// Fetch returns the peak forecast Kp. The upstream product is a row
// table whose first row is the header; remaining rows carry the Kp in
// the second column.
func (c *SpaceWeatherClient) Fetch(ctx context.Context) (*model.SpaceWeather, error) {
	do := func(ctx context.Context) ([]byte, error) {
		started := time.Now()
		body, err := c.breaker.Execute(func() ([]byte, error) {
			return httpGet(ctx, c.http, c.baseURL)
		})
		metrics.RecordSourceFetchLatency("space_weather", float64(time.Since(started).Milliseconds()))
		return body, err
	}

	var body []byte
	var err error
	if c.store != nil {
		body, err = c.store.GetOrFetch(ctx, "space_weather:"+c.baseURL, do)
	} else {
		body, err = do(ctx)
	}
	if err != nil {
		return nil, err
	}

	var rows [][]any
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decoding k-index table: %w", err)
	}

	maxKp := 0.0
	found := false
	for i, row := range rows {
		if i == 0 || len(row) < 2 {
			continue
		}
		kp, perr := strconv.ParseFloat(fmt.Sprint(row[1]), 64)
		if perr != nil {
			continue
		}
		found = true
		if kp > maxKp {
			maxKp = kp
		}
	}
	if !found {
		return nil, fmt.Errorf("k-index table had no usable rows")
	}

	return &model.SpaceWeather{
		KpIndex:        maxKp,
		AuroraPossible: maxKp >= auroraKpThreshold,
	}, nil
}

// newSourceBreaker builds the circuit breaker shared by the event
// sources, mirroring the weather client tuning.
func newSourceBreaker(name string) *gobreaker.CircuitBreaker[[]byte] {
	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: 2,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRate := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 4 && failureRate >= 0.6
		},
		OnStateChange: func(name string, _, to gobreaker.State) {
			metrics.UpdateBreakerOpen(name, to == gobreaker.StateOpen)
		},
	})
}

// httpGet runs one GET and returns the body, failing on any non-200.
func httpGet(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", ErrUpstreamStatus, resp.Status)
	}
	return io.ReadAll(resp.Body)
}
