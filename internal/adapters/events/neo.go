package events

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/nightseek/nightseek/internal/adapters/cache"
	"github.com/nightseek/nightseek/internal/domain/model"
	"github.com/nightseek/nightseek/pkg/logger"
	"github.com/nightseek/nightseek/pkg/metrics"
)

const (
	defaultNEOURL    = "https://api.nasa.gov/neo/rest/v1/feed"
	defaultNEOAPIKey = "DEMO_KEY"
	neoTimeout       = 10 * time.Second

	// neoBatchDays is the feed endpoint's maximum range per request.
	neoBatchDays = 7

	// neoMaxMissKm keeps only passes close enough to be worth
	// surfacing, roughly twenty lunar distances.
	neoMaxMissKm = 7_500_000.0

	neoDateLayout = "2006-01-02"
)

// NEOClient fetches close-approach feeds from a NeoWs-style API.
type NEOClient struct {
	http    *http.Client
	baseURL string
	apiKey  string
	store   *cache.Store
	breaker *gobreaker.CircuitBreaker[[]byte]
	log     logger.Logger
}

// NEOOption applies a configuration option to the NEOClient.
type NEOOption func(*NEOClient)

// WithNEOBaseURL overrides the feed endpoint, for tests.
func WithNEOBaseURL(url string) NEOOption {
	return func(c *NEOClient) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithNEOAPIKey sets the API key sent with each request.
func WithNEOAPIKey(key string) NEOOption {
	return func(c *NEOClient) {
		if key != "" {
			c.apiKey = key
		}
	}
}

// WithNEOHTTPClient overrides the HTTP client.
func WithNEOHTTPClient(h *http.Client) NEOOption {
	return func(c *NEOClient) {
		if h != nil {
			c.http = h
		}
	}
}

// WithNEOCache attaches a response cache.
func WithNEOCache(store *cache.Store) NEOOption {
	return func(c *NEOClient) {
		c.store = store
	}
}

// NewNEOClient creates a near-Earth-object client.
func NewNEOClient(opts ...NEOOption) *NEOClient {
	c := &NEOClient{
		http:    &http.Client{Timeout: neoTimeout},
		baseURL: defaultNEOURL,
		apiKey:  defaultNEOAPIKey,
		log:     logger.Named("neo"),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.breaker = newSourceBreaker("neo")
	return c
}

// neoFeedPayload mirrors the feed response, keyed by approach date.
type neoFeedPayload struct {
	NearEarthObjects map[string][]struct {
		Name              string   `json:"name"`
		AbsoluteMagnitude *float64 `json:"absolute_magnitude_h"`
		Hazardous         bool     `json:"is_potentially_hazardous_asteroid"`
		CloseApproaches   []struct {
			Date         string `json:"close_approach_date"`
			MissDistance struct {
				Kilometers string `json:"kilometers"`
			} `json:"miss_distance"`
		} `json:"close_approach_data"`
	} `json:"near_earth_objects"`
}

// FetchPasses pulls the close approaches covering the forecast window,
// batching requests to the endpoint's seven-day limit. Passes farther
// than the miss cutoff are dropped.
func (c *NEOClient) FetchPasses(ctx context.Context, start time.Time, days int) ([]model.NEOPass, error) {
	var passes []model.NEOPass

	for offset := 0; offset < days; offset += neoBatchDays {
		batch := neoBatchDays
		if remaining := days - offset; remaining < batch {
			batch = remaining
		}
		from := start.AddDate(0, 0, offset)
		to := from.AddDate(0, 0, batch-1)

		url := fmt.Sprintf("%s?start_date=%s&end_date=%s&api_key=%s",
			c.baseURL, from.Format(neoDateLayout), to.Format(neoDateLayout), c.apiKey)

		body, err := c.fetch(ctx, url)
		if err != nil {
			return nil, err
		}

		var payload neoFeedPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, fmt.Errorf("decoding neo feed: %w", err)
		}

		for _, objects := range payload.NearEarthObjects {
			for _, obj := range objects {
				for _, approach := range obj.CloseApproaches {
					missKm, perr := strconv.ParseFloat(approach.MissDistance.Kilometers, 64)
					if perr != nil || missKm > neoMaxMissKm {
						continue
					}
					date, derr := time.Parse(neoDateLayout, approach.Date)
					if derr != nil {
						continue
					}
					passes = append(passes, model.NEOPass{
						Name:      obj.Name,
						Date:      date,
						MissKm:    missKm,
						Magnitude: obj.AbsoluteMagnitude,
						Hazardous: obj.Hazardous,
					})
				}
			}
		}
	}

	sort.Slice(passes, func(i, j int) bool {
		if !passes[i].Date.Equal(passes[j].Date) {
			return passes[i].Date.Before(passes[j].Date)
		}
		return passes[i].MissKm < passes[j].MissKm
	})
	return passes, nil
}

func (c *NEOClient) fetch(ctx context.Context, url string) ([]byte, error) {
	do := func(ctx context.Context) ([]byte, error) {
		started := time.Now()
		body, err := c.breaker.Execute(func() ([]byte, error) {
			return httpGet(ctx, c.http, url)
		})
		metrics.RecordSourceFetchLatency("neo", float64(time.Since(started).Milliseconds()))
		return body, err
	}

	if c.store == nil {
		return do(ctx)
	}
	return c.store.GetOrFetch(ctx, "neo:"+url, do)
}
