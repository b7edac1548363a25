package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nightseek/nightseek/internal/adapters/cache"
	"github.com/nightseek/nightseek/internal/adapters/catalog"
	"github.com/nightseek/nightseek/internal/adapters/events"
	"github.com/nightseek/nightseek/internal/adapters/sky"
	"github.com/nightseek/nightseek/internal/adapters/weather"
	app "github.com/nightseek/nightseek/internal/app"
	"github.com/nightseek/nightseek/internal/config"
	"github.com/nightseek/nightseek/internal/domain/model"
	"github.com/nightseek/nightseek/pkg/logger"
	"github.com/nightseek/nightseek/pkg/metrics"
)

// Metrics server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6

	topObjectsPerNight = 5
)

func main() {
	// Local overrides for development; absence is not an error.
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			logger.Error(err)
		}
	}()

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if cfg.MetricsAddr != "" {
		go serveMetrics(ctx, cfg.MetricsAddr)
		go startSystemMetricsUpdater(ctx)
	}

	svc, err := buildService(cfg)
	if err != nil {
		os.Stderr.WriteString("failed to build service: " + err.Error() + "\n")
		return
	}

	result, err := svc.GenerateForecast(ctx, cfg.Location(), cfg.Settings(), func(p app.Progress) {
		fmt.Printf("\r[%3d%%] %-50s", p.Percent, p.Stage)
	})
	fmt.Println()
	if err != nil {
		os.Stderr.WriteString("forecast aborted: " + err.Error() + "\n")
		return
	}

	printResult(svc, result)
}

// buildService wires the adapters into the orchestrator.
func buildService(cfg *config.Config) (*app.Service, error) {
	var store *cache.Store
	if cfg.CacheDir != "" {
		var err error
		store, err = cache.New(cfg.CacheDir,
			cache.WithTTL(time.Duration(cfg.CacheTTLHours)*time.Hour),
		)
		if err != nil {
			return nil, fmt.Errorf("opening cache: %w", err)
		}
	}

	calc := sky.New(cfg.Latitude, cfg.Longitude)
	loader := catalog.New(catalog.WithLatitude(cfg.Latitude))

	var weatherOpts []weather.Option
	var neoOpts []events.NEOOption
	var spaceOpts []events.SpaceWeatherOption
	if store != nil {
		weatherOpts = append(weatherOpts, weather.WithCache(store))
		neoOpts = append(neoOpts, events.WithNEOCache(store))
		spaceOpts = append(spaceOpts, events.WithSpaceWeatherCache(store))
	}
	neoOpts = append(neoOpts, events.WithNEOAPIKey(cfg.NEOAPIKey))

	collector := events.New(calc,
		events.WithNEOClient(events.NewNEOClient(neoOpts...)),
		events.WithSpaceWeatherClient(events.NewSpaceWeatherClient(spaceOpts...)),
	)

	return app.New(calc, loader,
		app.WithWeatherSource(weather.NewClient(cfg.Latitude, cfg.Longitude, weatherOpts...)),
		app.WithEventSource(collector),
	), nil
}

// printResult writes the human-readable forecast summary.
func printResult(svc *app.Service, result *model.ForecastResult) {
	fmt.Printf("\nForecast %s (%.2f, %.2f) - confidence %s\n",
		result.RunID, result.Location.Latitude, result.Location.Longitude, result.Confidence)

	if len(result.BestNights) > 0 {
		fmt.Println("\nBest nights:")
		for _, key := range result.BestNights {
			fmt.Printf("  %s\n", key)
		}
	} else {
		fmt.Println("\nNo night offers a usable observing window.")
	}

	for _, nf := range result.Forecasts {
		key := nf.Night.Key()
		scored := result.ScoredObjects[key]
		if len(scored) == 0 {
			continue
		}
		fmt.Printf("\n%s (moon %.0f%%):\n", key, nf.Night.MoonIllumination)
		for i, so := range scored {
			if i >= topObjectsPerNight {
				break
			}
			fmt.Printf("  %3d  %-24s %s\n", so.Total, so.Visibility.Name, so.Reason)
		}
	}

	if len(result.Forecasts) > 0 {
		tonight := result.Forecasts[0].Night.Key()
		picks := svc.TonightPicks(result, tonight)
		if len(picks) > 0 {
			fmt.Printf("\nTonight's picks (%s):\n", tonight)
			for _, p := range picks {
				fmt.Printf("  %-8s %s\n", p.Category, p.Why)
			}
		}
	}
}

// serveMetrics exposes the Prometheus registry until the context ends.
func serveMetrics(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Get().Info(ctx, "serving metrics", logger.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Get().Error(ctx, "metrics server failed", logger.Error(err))
	}
}

// startSystemMetricsUpdater refreshes process-level gauges on a ticker.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
