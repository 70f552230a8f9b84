// traind is the batch training job: it reads the status history for the
// configured window, fits the wait-time and jam models, logs the held-out
// evaluation and atomically swaps the new artifact bundle in.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/omaimashtiew/Tareeqy-public-view/internal/artifacts"
	"github.com/omaimashtiew/Tareeqy-public-view/internal/config"
	"github.com/omaimashtiew/Tareeqy-public-view/internal/features"
	"github.com/omaimashtiew/Tareeqy-public-view/internal/history"
	"github.com/omaimashtiew/Tareeqy-public-view/internal/model"
)

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

	store := history.NewPostgresStore(dbPool)
	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatalf("schema init failed: %v", err)
	}

	start := time.Now()
	from := start.AddDate(0, 0, -cfg.TrainWindowDays)

	fences, err := store.Fences(ctx)
	if err != nil {
		log.Fatalf("list fences failed: %v", err)
	}
	events, err := store.Query(ctx, history.Filter{From: from})
	if err != nil {
		log.Fatalf("history query failed: %v", err)
	}
	log.Printf("training on %d events from %d fences (window %dd)",
		len(events), len(fences), cfg.TrainWindowDays)

	params := features.DefaultParams()
	params.Location = cfg.Location()
	bundle, reg, cls, err := model.Train(fences, events, params, model.DefaultForestConfig())
	if err != nil {
		log.Fatalf("training failed: %v", err)
	}

	log.Printf("wait model: mae=%.2f median_ae=%.2f r2=%.3f (train=%d test=%d)",
		reg.MAE, reg.MedianAE, reg.R2, reg.TrainRows, reg.TestRows)
	log.Printf("jam model: accuracy=%.3f roc_auc=%.3f confusion=%v (train=%d test=%d)",
		cls.Accuracy, cls.ROCAUC, cls.Confusion, cls.TrainRows, cls.TestRows)

	if err := artifacts.NewStore(cfg.ArtifactsDir).Save(bundle); err != nil {
		log.Fatalf("artifact save failed: %v", err)
	}
	log.Printf("bundle %s saved to %s (%.1fs)", bundle.Version, cfg.ArtifactsDir, time.Since(start).Seconds())
}
