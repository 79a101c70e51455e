package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"runtime/debug"
	"time"

	clts "poolwatch/clients"
	"poolwatch/config"
	"poolwatch/internal/observability"

	"go.uber.org/zap"
)

// Build info - populated from embedded VCS info at init time
var (
	BuildCommit = "dev"
	BuildTime   = "unknown"
)

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				if setting.Value != "" {
					BuildCommit = setting.Value
				}
			case "vcs.time":
				BuildTime = setting.Value
			}
		}
	}
}

// Runner wires the monitors together and supervises them: one goroutine per
// configured pool, plus the health/stats server. A monitor failing its poll
// never affects another monitor's schedule.
type Runner struct {
	clients      *clts.Clients
	cfg          *config.Config
	monitors     []*Monitor
	healthServer *http.Server
	startTime    time.Time
}

// ServiceStats holds service-wide statistics for the stats endpoint.
type ServiceStats struct {
	Build struct {
		Commit    string `json:"commit"`
		Time      string `json:"time,omitempty"`
		GoVersion string `json:"go_version"`
	} `json:"build"`

	StartTime string `json:"start_time"`
	Uptime    string `json:"uptime"`
	UptimeSec int64  `json:"uptime_seconds"`

	Monitors []MonitorStats `json:"monitors"`

	Runtime struct {
		Goroutines int    `json:"goroutines"`
		HeapAlloc  uint64 `json:"heap_alloc"`
		NumGC      uint32 `json:"num_gc"`
		GoVersion  string `json:"go_version"`
	} `json:"runtime"`
}

func NewRunner(clients *clts.Clients, cfg *config.Config) *Runner {
	return &Runner{
		clients: clients,
		cfg:     cfg,
	}
}

func (r *Runner) Run(ctx context.Context) error {
	r.startTime = time.Now()
	logger := r.clients.Logger

	if len(r.cfg.Monitors) == 0 {
		return fmt.Errorf("no monitors configured")
	}

	enricher := NewEnricher(logger, r.clients.Gecko, r.clients.DexScreener)

	for _, pool := range r.cfg.Monitors {
		if pool.MinBuyUSD <= 0 {
			pool.MinBuyUSD = r.cfg.Monitor.MinBuyUSD
		}
		mon := NewMonitor(
			logger,
			r.clients.Gecko,
			enricher,
			r.clients.Notifier,
			pool,
			r.cfg.Monitor.PollInterval,
		)
		r.monitors = append(r.monitors, mon)
	}

	if r.cfg.HealthServer.Enabled {
		r.startHealthServer(r.cfg.HealthServer.Port)
		logger.Info("health server started", zap.Int("port", r.cfg.HealthServer.Port))
	}

	for _, mon := range r.monitors {
		go mon.Run(ctx)
	}

	logger.Info("monitors started",
		zap.Int("count", len(r.monitors)),
		zap.Duration("pollInterval", r.cfg.Monitor.PollInterval),
	)

	<-ctx.Done()
	logger.Info("runner shutting down")

	if r.healthServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = r.healthServer.Shutdown(shutdownCtx)
		shutdownCancel()
	}

	if err := r.clients.Notifier.Close(); err != nil {
		logger.Warn("failed to close notifier", zap.Error(err))
	}

	return nil
}

func (r *Runner) startHealthServer(port int) {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/stats", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(r.GetStats())
	})

	mux.Handle("/metrics", observability.Handler())

	r.healthServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		if err := r.healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			r.clients.Logger.Error("health server failed", zap.Error(err))
		}
	}()
}

// GetStats returns service-wide statistics.
func (r *Runner) GetStats() ServiceStats {
	var stats ServiceStats

	stats.Build.Commit = BuildCommit
	stats.Build.Time = BuildTime
	stats.Build.GoVersion = runtime.Version()

	stats.StartTime = r.startTime.UTC().Format(time.RFC3339)
	uptime := time.Since(r.startTime)
	stats.Uptime = uptime.Round(time.Second).String()
	stats.UptimeSec = int64(uptime.Seconds())

	stats.Monitors = make([]MonitorStats, 0, len(r.monitors))
	for _, mon := range r.monitors {
		stats.Monitors = append(stats.Monitors, mon.Stats())
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	stats.Runtime.Goroutines = runtime.NumGoroutine()
	stats.Runtime.HeapAlloc = memStats.HeapAlloc
	stats.Runtime.NumGC = memStats.NumGC
	stats.Runtime.GoVersion = runtime.Version()

	return stats
}
