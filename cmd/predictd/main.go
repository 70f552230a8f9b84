// predictd runs the serving cycle: every interval it reads the latest
// status per checkpoint, estimates the wait time and stores, caches and
// publishes the predictions.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/omaimashtiew/Tareeqy-public-view/internal/artifacts"
	"github.com/omaimashtiew/Tareeqy-public-view/internal/config"
	"github.com/omaimashtiew/Tareeqy-public-view/internal/features"
	"github.com/omaimashtiew/Tareeqy-public-view/internal/history"
	"github.com/omaimashtiew/Tareeqy-public-view/internal/model"
)

var (
	predictionsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tareeqy_predictor_predictions_generated_total",
		Help: "Total number of wait-time predictions computed.",
	})
	predictionsStored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tareeqy_predictor_predictions_stored_total",
		Help: "Total number of predictions stored in DB.",
	})
	predictionsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tareeqy_predictor_predictions_failed_total",
		Help: "Total number of prediction failures.",
	})
	predictionsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tareeqy_predictor_predictions_published_total",
		Help: "Total number of predictions published to Redis.",
	})
	cycleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tareeqy_predictor_cycle_duration_seconds",
		Help:    "Duration of a full prediction cycle.",
		Buckets: []float64{0.1, 0.5, 1.0, 2.5, 5.0, 10.0},
	})
)

// storeRetrainer rebuilds the artifact bundle from the history store. It
// backs the predictor's automatic recovery when no bundle is on disk yet.
type storeRetrainer struct {
	store      history.Store
	artifacts  *artifacts.Store
	params     features.Params
	windowDays int
}

func (r *storeRetrainer) Retrain(ctx context.Context) error {
	fences, err := r.store.Fences(ctx)
	if err != nil {
		return fmt.Errorf("retrain: %w", err)
	}
	events, err := r.store.Query(ctx, history.Filter{From: time.Now().AddDate(0, 0, -r.windowDays)})
	if err != nil {
		return fmt.Errorf("retrain: %w", err)
	}
	bundle, reg, cls, err := model.Train(fences, events, r.params, model.DefaultForestConfig())
	if err != nil {
		return fmt.Errorf("retrain: %w", err)
	}
	log.Printf("retrained bundle %s: mae=%.2f roc_auc=%.3f", bundle.Version, reg.MAE, cls.ROCAUC)
	return r.artifacts.Save(bundle)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("bad configuration: %v", err)
	}

	dbPool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		log.Fatalf("db pool init failed: %v", err)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(ctx); err != nil {
		log.Fatalf("db ping failed: %v", err)
	}
	log.Printf("db connected")

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("invalid REDIS_URL: %v", err)
	}
	redisClient := redis.NewClient(opts)
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("redis ping failed: %v", err)
	}
	log.Printf("redis connected: %s", cfg.RedisURL)

	store := history.NewPostgresStore(dbPool)
	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatalf("schema init failed: %v", err)
	}

	params := features.DefaultParams()
	params.Location = cfg.Location()

	artifactStore := artifacts.NewStore(cfg.ArtifactsDir)
	retrainer := &storeRetrainer{store: store, artifacts: artifactStore, params: params, windowDays: cfg.TrainWindowDays}
	predictor := model.NewPredictor(artifactStore, retrainer, params, int(cfg.DefaultWaitMin))

	go serveHTTP(cfg.MetricsAddr)

	interval := time.Duration(cfg.PredictIntervalSec) * time.Second
	cacheTTL := time.Duration(cfg.CacheTTLSec) * time.Second

	log.Printf("predictd running: interval=%s artifacts=%s", interval, cfg.ArtifactsDir)

	runCycle(ctx, store, redisClient, predictor, artifactStore, cacheTTL)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			runCycle(ctx, store, redisClient, predictor, artifactStore, cacheTTL)
		case <-ctx.Done():
			log.Printf("predictd shutting down")
			return
		}
	}
}

// maybeReload drops the predictor's cached bundle when the training job has
// swapped a newer one in, so the next prediction loads it. A manifest read
// failure leaves the loaded bundle serving.
func maybeReload(predictor *model.Predictor, store *artifacts.Store) {
	loaded := predictor.Version()
	if loaded == "" {
		return
	}
	current, err := store.CurrentVersion()
	if err != nil || current == loaded {
		return
	}
	log.Printf("artifact bundle %s superseded by %s, reloading", loaded, current)
	predictor.Reload()
}

func runCycle(ctx context.Context, store history.Store, redisClient *redis.Client, predictor *model.Predictor, artifactStore *artifacts.Store, cacheTTL time.Duration) {
	start := time.Now()
	defer func() {
		cycleDuration.Observe(time.Since(start).Seconds())
	}()

	maybeReload(predictor, artifactStore)

	latest, err := store.LatestStatuses(ctx)
	if err != nil {
		predictionsFailed.Inc()
		log.Printf("latest statuses query failed: %v", err)
		return
	}
	if len(latest) == 0 {
		log.Printf("no observed fences yet, skipping cycle")
		return
	}

	now := time.Now().Truncate(time.Second)
	stored, published := 0, 0
	for _, ls := range latest {
		res := predictor.PredictWaitTime(ctx, ls.Fence, ls.Status, now)
		predictionsGenerated.Inc()
		if !res.Success {
			predictionsFailed.Inc()
			log.Printf("prediction degraded for fence=%s: %s", ls.Fence.Name, res.Err)
		}

		p := history.Prediction{
			Time:         now,
			FenceID:      ls.Fence.ID,
			FenceName:    ls.Fence.Name,
			Status:       ls.Status,
			WaitMinutes:  res.WaitMinutes,
			ModelVersion: predictor.Version(),
		}
		if err := store.SavePrediction(ctx, p); err != nil {
			predictionsFailed.Inc()
			log.Printf("db insert failed for fence=%s: %v", ls.Fence.Name, err)
			continue
		}
		predictionsStored.Inc()
		stored++

		data, err := json.Marshal(p)
		if err != nil {
			log.Printf("json marshal failed for fence=%s: %v", ls.Fence.Name, err)
			continue
		}
		key := fmt.Sprintf("tareeqy:wait:%d", ls.Fence.ID)
		if err := redisClient.Set(ctx, key, data, cacheTTL).Err(); err != nil {
			log.Printf("redis set failed for fence=%s: %v", ls.Fence.Name, err)
		}
		if err := redisClient.Publish(ctx, "tareeqy:predictions", data).Err(); err != nil {
			log.Printf("redis publish failed for fence=%s: %v", ls.Fence.Name, err)
			continue
		}
		predictionsPublished.Inc()
		published++
	}

	log.Printf("prediction cycle completed: %d fences, %d stored, %d published (%.2fs)",
		len(latest), stored, published, time.Since(start).Seconds())
}

func serveHTTP(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("metrics server listening on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("metrics server failed: %v", err)
	}
}
