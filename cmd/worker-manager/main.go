package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"career-matching-workers/internal/assessment"
	"career-matching-workers/internal/catalog"
	"career-matching-workers/internal/common/aws"
	"career-matching-workers/internal/common/camunda"
	"career-matching-workers/internal/common/config"
	"career-matching-workers/internal/common/database"
	"career-matching-workers/internal/common/logger"
	"career-matching-workers/internal/common/observability"
	"career-matching-workers/internal/matching/engine"
	"career-matching-workers/pkg/registry"

	rpc "career-matching-workers/internal/workers/catalog/refresh-program-catalog"
	ccp "career-matching-workers/internal/workers/matching/calculate-cluster-points"
	cpm "career-matching-workers/internal/workers/matching/compute-program-matches"
	pri "career-matching-workers/internal/workers/matching/profile-riasec-interests"
	rar "career-matching-workers/internal/workers/matching/record-assessment-response"
)

func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting worker manager",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
		zap.String("catalogSource", cfg.Catalog.Source),
	)

	obs, err := observability.New(cfg.Observability.ServiceName, cfg.Observability.JaegerEndpoint)
	if err != nil {
		zapLog.Warn("observability setup failed, continuing without tracing", zap.Error(err))
		obs = observability.Noop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Redis: catalog cache + assessment sessions ---
	rdb := database.NewRedis(cfg.Database.Redis)
	defer rdb.Close()
	err = retryWithBackoff(func() error {
		return database.PingRedis(ctx, rdb)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	zapLog.Info("Redis connected successfully")

	// --- Catalog source ---
	source, closeSource := openCatalogSource(ctx, cfg, log, zapLog)
	defer closeSource()

	refresherOpts := []catalog.RefresherOption{
		catalog.WithCache(catalog.NewRedisCache(rdb, config.GetDuration(cfg.Catalog.CacheTTLMs))),
		catalog.WithObservability(obs),
	}
	if sns := cfg.Integrations.AWS.SNS; sns.Enabled {
		publisher, err := aws.NewSNSClient(ctx, cfg.Integrations.AWS.Region, sns.CatalogTopicARN)
		if err != nil {
			zapLog.Fatal("sns client setup failed", zap.Error(err))
		}
		refresherOpts = append(refresherOpts, catalog.WithPublisher(publisher))
	}

	store := catalog.NewStore()
	refresher := catalog.NewRefresher(source, store, cfg.Catalog.AdmissionYear, log, refresherOpts...)
	if refresher.Warm(ctx) {
		zapLog.Info("catalog warmed from cache")
	}
	if _, err := refresher.Refresh(ctx); err != nil {
		if _, cerr := store.Current(); cerr != nil {
			zapLog.Fatal("initial catalog load failed and no cached snapshot", zap.Error(err))
		}
		zapLog.Warn("initial catalog load failed, serving cached snapshot", zap.Error(err))
	}
	go refresher.Run(ctx, config.GetDuration(cfg.Catalog.RefreshIntervalMs))

	// --- Matching engine ---
	opts := engine.OptionsFromConfig(cfg.Matching, cfg.Assessment.CareerLimit)
	if path := cfg.Assessment.InstrumentPath; path != "" {
		inst, err := registry.Load(path)
		if err != nil {
			zapLog.Fatal("instrument load failed", zap.String("path", path), zap.Error(err))
		}
		q, err := inst.Questionnaire()
		if err != nil {
			zapLog.Fatal("instrument invalid", zap.String("path", path), zap.Error(err))
		}
		opts.Questionnaire = q
		opts.Careers = inst.Careers
		zapLog.Info("instrument loaded", zap.String("version", inst.Version), zap.Int("items", q.Len()))
	}
	eng, err := engine.New(opts, obs, log)
	if err != nil {
		zapLog.Fatal("matching engine config invalid", zap.Error(err))
	}

	sessions := assessment.NewRedisStore(rdb, config.GetDuration(cfg.Assessment.SessionTTLMs), log)

	// --- Zeebe ---
	zeebe, err := camunda.NewClient(ctx, camunda.ConfigFrom(cfg.Camunda))
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	defer zeebe.Close()
	zapLog.Info("Zeebe client connected successfully")

	workers := camunda.NewManager(zeebe.Zeebe(), cfg, obs, log)
	workers.Register(ccp.TaskType, ccp.NewHandler(ccp.LoadConfig(cfg), eng, log))
	workers.Register(pri.TaskType, pri.NewHandler(pri.LoadConfig(cfg), eng, log))
	workers.Register(rar.TaskType, rar.NewHandler(rar.LoadConfig(cfg), sessions, eng, log))
	workers.Register(rpc.TaskType, rpc.NewHandler(rpc.LoadConfig(cfg), refresher, log))

	matchCfg := cpm.LoadConfig(cfg)
	if err := matchCfg.Validate(); err != nil {
		zapLog.Fatal("invalid configuration for compute-program-matches", zap.Error(err))
	}
	workers.Register(cpm.TaskType, cpm.NewHandler(matchCfg, eng, store, log))

	zapLog.Info("workers registered", zap.Strings("taskTypes", workers.Registered()))

	// --- HTTP: health, readiness, metrics ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok", "version": cfg.App.Version})
	})
	mux.HandleFunc("/ready", readyHandler(store, rdb, zeebe))
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              cfg.Observability.MetricsAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("http server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zapLog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	workers.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Warn("http server shutdown", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Warn("observability shutdown", zap.Error(err))
	}
	zapLog.Info("worker manager stopped")
}

// openCatalogSource connects the configured catalog backend. The returned
// func releases its connection.
func openCatalogSource(ctx context.Context, cfg *config.Config, log logger.Logger, zapLog *zap.Logger) (catalog.Source, func()) {
	switch cfg.Catalog.Source {
	case "postgres":
		var pg *database.PostgresClient
		err := retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		if err := pg.EnsureCatalogSchema(ctx); err != nil {
			zapLog.Fatal("catalog schema setup failed", zap.Error(err))
		}
		zapLog.Info("PostgreSQL connected successfully")
		return catalog.NewPostgresSource(pg.DB, cfg.Catalog.MaxPrograms), func() { _ = pg.Close() }

	case "elasticsearch":
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			zapLog.Fatal("elasticsearch client setup failed", zap.Error(err))
		}
		err = retryWithBackoff(func() error {
			return database.PingElasticsearch(ctx, es)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		zapLog.Info("Elasticsearch connected successfully")
		return catalog.NewElasticsearchSource(es, cfg.Catalog.Index, cfg.Catalog.MaxPrograms), func() {}

	default:
		return catalog.NewFileSource(cfg.Catalog.FilePath, log), func() {}
	}
}

func readyHandler(store *catalog.Store, rdb *redis.Client, zeebe *camunda.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		checks := map[string]string{}
		ready := true

		if snap, err := store.Current(); err != nil {
			checks["catalog"] = err.Error()
			ready = false
		} else {
			checks["catalog"] = snap.Version()
		}
		if err := database.PingRedis(ctx, rdb); err != nil {
			checks["redis"] = err.Error()
			ready = false
		} else {
			checks["redis"] = "ok"
		}
		if err := zeebe.HealthCheck(ctx); err != nil {
			checks["zeebe"] = err.Error()
			ready = false
		} else {
			checks["zeebe"] = "ok"
		}

		status := http.StatusOK
		if !ready {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, map[string]interface{}{"ready": ready, "checks": checks})
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
